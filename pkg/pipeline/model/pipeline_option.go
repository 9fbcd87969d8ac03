package model

import "time"

// PipelineOption is the contract pipeline options implement. The pipeline calls
// the hooks around every step it builds, whatever the step type: root steps are
// prepared with StartStep as their only parent, mergers with one parent per
// merged input.
type PipelineOption interface {
	// New initialises the pipeline option.
	New() error
	// PrepareStep runs once when the step is added to the pipeline.
	PrepareStep(parents []*StepInfo, step *StepInfo) error
	// OnStepOutput runs every time the step pushes an element downstream.
	OnStepOutput(parent, step *StepInfo, transportDuration, computeDuration time.Duration) error
	// AfterSink runs once when a sink has consumed its whole input.
	AfterSink(step *StepInfo, totalDuration time.Duration) error
	// Finish runs after the pipeline is finished.
	Finish() error
}
