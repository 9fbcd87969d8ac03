package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/askiada/macsima-report/pkg/pipeline/model"
)

func runStepMerger[I any](ctx context.Context, p *Pipeline, errC chan error, step, outputStep *model.Step[I]) {
	for {
		start := time.Now()
		select {
		case <-ctx.Done():
			errC <- ctx.Err()

			return
		case entry, ok := <-step.Output:
			if !ok {
				return
			}

			select {
			case <-ctx.Done():
				errC <- ctx.Err()

				return
			case outputStep.Output <- entry:
				err := p.onStepOutput(step.Details, outputStep.Details, time.Since(start), 0)
				if err != nil {
					errC <- err

					return
				}
			}
		}
	}
}

// AddMerger adds a step that merges the output of several steps into a single
// channel. Element order across the merged inputs is not defined.
func AddMerger[I any](p *Pipeline, name string, steps ...*model.Step[I]) (*model.Step[I], error) {
	if p == nil {
		return nil, ErrPipelineMustBeSet
	}
	if len(steps) == 0 {
		return nil, ErrMergerInput
	}

	outputStep := &model.Step[I]{
		Details: &model.StepInfo{
			Type:       model.MergerStepType,
			Name:       name,
			Concurrent: 1,
		},
		Output: make(chan I),
	}

	stepInfos := make([]*model.StepInfo, len(steps))
	for i, step := range steps {
		if step == nil {
			return nil, ErrInputMustBeSet
		}
		stepInfos[i] = step.Details
	}

	err := p.prepareStep(stepInfos, outputStep.Details)
	if err != nil {
		return nil, errors.Wrap(err, "unable to prepare merger")
	}

	errC := make(chan error, len(steps))
	decoratedError := newErrorChan(name, errC)
	wgrp := sync.WaitGroup{}
	wgrp.Add(len(steps))

	go func() {
		wgrp.Wait()
		close(errC)
		close(outputStep.Output)
	}()

	for _, step := range steps {
		localStep := step
		go func() {
			defer wgrp.Done()
			runStepMerger(p.ctx, p, errC, localStep, outputStep)
		}()
	}

	p.errcList.add(decoratedError)

	return outputStep, nil
}
