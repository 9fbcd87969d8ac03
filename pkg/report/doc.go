// Package report turns one decoded MACSima run record into the five tables of
// the run report: experiment, racks, ROIs, samples and steps.
//
// The conversion is a strictly staged pipeline: the reagent index is built
// once per record, each procedure's block list is sequenced (cycle numbering,
// magnification propagation), every block is dispatched into step rows, and
// the resulting row lists are laid out for presentation (blank separator rows
// between cycle groups, multi-line column headers). Nothing derived is shared
// between two conversions.
package report
