// Package macsima models one MACSima instrument run record: the experiments,
// racks, regions of interest, samples, protocol procedures and the global
// reagent catalog serialized in the run's JSON output. The document is
// read-only input; nothing in this package mutates it after decoding.
package macsima
