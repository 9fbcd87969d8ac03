package pipeline

import "github.com/askiada/macsima-report/pkg/pipeline/model"

type StepOption[O any] func(s *model.Step[O])

// StepConcurrency runs the step function with the given number of concurrent
// workers. Order of the output elements is only guaranteed with one worker.
func StepConcurrency[O any](concurrent int) StepOption[O] {
	return func(s *model.Step[O]) {
		s.Details.Concurrent = concurrent
	}
}

// StepKeepOpen leaves the step output channel open once the step function
// returns, so several root steps can feed the same channel.
func StepKeepOpen[O any]() StepOption[O] {
	return func(s *model.Step[O]) {
		s.KeepOpen = true
	}
}

type SplitterOption[I any] func(s *Splitter[I])

// SplitterBufferSize sets the buffer size of each splitter branch.
func SplitterBufferSize[I any](bufferSize int) SplitterOption[I] {
	return func(s *Splitter[I]) {
		s.bufferSize = bufferSize
	}
}
