package pipeline

import (
	"context"
	"time"

	"github.com/askiada/macsima-report/pkg/pipeline/model"
)

// AddSink adds a terminal step that consumes every input element.
func AddSink[I any](p *Pipeline, name string, input *model.Step[I], sinkFn func(ctx context.Context, input I) error) error {
	if p == nil {
		return ErrPipelineMustBeSet
	}
	if input == nil {
		return ErrInputMustBeSet
	}
	step := &model.Step[I]{
		Details: &model.StepInfo{
			Type:       model.SinkStepType,
			Name:       name,
			Concurrent: 1,
		},
	}
	err := p.prepareStep([]*model.StepInfo{input.Details}, step.Details)
	if err != nil {
		return err
	}

	errC := make(chan error, 1)
	decoratedError := newErrorChan(name, errC)
	go func() {
		defer close(errC)
	outer:
		for {
			start := time.Now()
			select {
			case <-p.ctx.Done():
				errC <- p.ctx.Err()

				break outer
			case in, ok := <-input.Output:
				if !ok {
					break outer
				}
				startFn := time.Now()
				err := sinkFn(p.ctx, in)
				if err != nil {
					errC <- err

					break outer
				}
				endFn := time.Since(startFn)
				err = p.onStepOutput(input.Details, step.Details, time.Since(start)-endFn, endFn)
				if err != nil {
					errC <- err

					break outer
				}
			}
		}
		err := p.afterSink(step.Details)
		if err != nil {
			errC <- err
		}
	}()
	p.errcList.add(decoratedError)

	return nil
}

// AddSinkFromChan adds a terminal step that consumes the whole input channel
// with a single call.
func AddSinkFromChan[I any](p *Pipeline, name string, input *model.Step[I], sinkFn func(ctx context.Context, input <-chan I) error) error {
	if p == nil {
		return ErrPipelineMustBeSet
	}
	if input == nil {
		return ErrInputMustBeSet
	}
	step := &model.Step[I]{
		Details: &model.StepInfo{
			Type:       model.SinkStepType,
			Name:       name,
			Concurrent: 1,
		},
	}
	err := p.prepareStep([]*model.StepInfo{input.Details}, step.Details)
	if err != nil {
		return err
	}

	errC := make(chan error, 1)
	decoratedError := newErrorChan(name, errC)
	go func() {
		defer close(errC)
		err := sinkFn(p.ctx, input.Output)
		if err != nil {
			errC <- err
		}
		err = p.afterSink(step.Details)
		if err != nil {
			errC <- err
		}
	}()
	p.errcList.add(decoratedError)

	return nil
}
