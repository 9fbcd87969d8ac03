package pipeline

import (
	"context"

	"github.com/askiada/macsima-report/pkg/pipeline/model"
)

// AddRootStep adds a step that produces the initial elements of the pipeline.
// stepFn must push its elements on rootChan and return; the channel is closed
// for it unless StepKeepOpen is set.
func AddRootStep[O any](p *Pipeline, name string, stepFn func(ctx context.Context, rootChan chan<- O) error, opts ...StepOption[O]) (*model.Step[O], error) {
	if p == nil {
		return nil, ErrPipelineMustBeSet
	}

	output := make(chan O)
	step := &model.Step[O]{
		Details: &model.StepInfo{
			Type:       model.RootStepType,
			Name:       name,
			Concurrent: 1,
		},
		Output: output,
	}
	for _, opt := range opts {
		opt(step)
	}

	err := p.prepareStep([]*model.StepInfo{model.StartStep.Details}, step.Details)
	if err != nil {
		return nil, err
	}

	errC := make(chan error, 1)
	decoratedError := newErrorChan(name, errC)

	go func() {
		defer func() {
			if !step.KeepOpen {
				close(output)
			}
			close(errC)
		}()
		err := stepFn(p.ctx, output)
		if err != nil {
			errC <- err
		}
	}()
	p.errcList.add(decoratedError)

	return step, nil
}
