package pipeline

import (
	"sync"
	"time"

	"github.com/askiada/macsima-report/pkg/pipeline/model"
)

// Splitter duplicates every input element to a fixed number of branches.
type Splitter[I any] struct {
	mu            sync.Mutex
	currIdx       int
	mainStep      *model.Step[I]
	splittedSteps []*model.Step[I]
	bufferSize    int
	Total         int
}

// Get returns the next unclaimed branch of the splitter.
func (s *Splitter[I]) Get() (*model.Step[I], bool) {
	s.mu.Lock()
	defer func() {
		s.currIdx++
		s.mu.Unlock()
	}()
	if s.currIdx >= len(s.splittedSteps) {
		return nil, false
	}

	return s.splittedSteps[s.currIdx], true
}

// AddSplitter adds a step that copies every input element to total branches.
// Each branch behaves as an independent step output.
func AddSplitter[I any](p *Pipeline, name string, input *model.Step[I], total int, opts ...SplitterOption[I]) (*Splitter[I], error) {
	if p == nil {
		return nil, ErrPipelineMustBeSet
	}
	if input == nil {
		return nil, ErrInputMustBeSet
	}
	if total == 0 {
		return nil, ErrSplitterTotal
	}
	splitter := &Splitter[I]{
		Total: total,
		mainStep: &model.Step[I]{
			Details: &model.StepInfo{
				Type:       model.SplitterStepType,
				Name:       name,
				Concurrent: 1,
			},
		},
	}
	for _, opt := range opts {
		opt(splitter)
	}
	if splitter.bufferSize == 0 {
		splitter.bufferSize = 1
	}

	err := p.prepareStep([]*model.StepInfo{input.Details}, splitter.mainStep.Details)
	if err != nil {
		return nil, err
	}

	errC := make(chan error, 1)
	decoratedError := newErrorChan(name, errC)

	splitter.splittedSteps = make([]*model.Step[I], total)
	splitterBuffer := make([]chan I, total)
	for i := range splitterBuffer {
		splitterBuffer[i] = make(chan I, splitter.bufferSize)
		splitter.splittedSteps[i] = &model.Step[I]{
			Details: splitter.mainStep.Details,
			Output:  make(chan I),
		}
	}

	wgrp := &sync.WaitGroup{}
	wgrp.Add(len(splitterBuffer))
	for i, buf := range splitterBuffer {
		localBuf := buf
		localI := i
		go func() {
			defer wgrp.Done()
		outer:
			for {
				select {
				case elem, ok := <-localBuf:
					if !ok {
						break outer
					}
					select {
					case splitter.splittedSteps[localI].Output <- elem:
					case <-p.ctx.Done():
						break outer
					}
				case <-p.ctx.Done():
					break outer
				}
			}
			close(splitter.splittedSteps[localI].Output)
		}()
	}

	go func() {
		defer func() {
			for _, buf := range splitterBuffer {
				close(buf)
			}
			wgrp.Wait()
			close(errC)
		}()

	outer:
		for {
			start := time.Now()
			select {
			case <-p.ctx.Done():
				errC <- p.ctx.Err()

				break outer
			case entry, ok := <-input.Output:
				if !ok {
					break outer
				}
				startFn := time.Now()
				for _, buf := range splitterBuffer {
					localEntry := entry

					select {
					case <-p.ctx.Done():
						errC <- p.ctx.Err()

						break outer
					case buf <- localEntry:
					}
				}
				endFn := time.Since(startFn)

				err := p.onStepOutput(input.Details, splitter.mainStep.Details, time.Since(start)-endFn, endFn)
				if err != nil {
					errC <- err

					break outer
				}
			}
		}
	}()
	p.errcList.add(decoratedError)

	return splitter, nil
}
