package pipeline

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/askiada/macsima-report/pkg/pipeline/model"
)

func sequentialOneToOneFn[I any, O any](ctx context.Context, p *Pipeline, goIdx int, input *model.Step[I], output *model.Step[O], oneToOneFn func(context.Context, I) (O, error)) error {
outer:
	for {
		start := time.Now()
		select {
		case <-ctx.Done():
			return errors.Wrapf(ctx.Err(), "go routine %d:", goIdx)
		case in, ok := <-input.Output:
			if !ok {
				break outer
			}
			startFn := time.Now()
			out, err := oneToOneFn(ctx, in)
			if err != nil {
				return errors.Wrapf(err, "go routine %d:", goIdx)
			}
			endFn := time.Since(startFn)

			// we check the context again to make sure all go routines currently running
			// stop to add new elements to the pipeline
			select {
			case <-ctx.Done():
				return errors.Wrapf(ctx.Err(), "go routine %d:", goIdx)
			case output.Output <- out:
				err := p.onStepOutput(input.Details, output.Details, time.Since(start)-endFn, endFn)
				if err != nil {
					return err
				}
			}
		}
	}

	return nil
}

func concurrentOneToOneFn[I any, O any](ctx context.Context, p *Pipeline, input *model.Step[I], output *model.Step[O], oneToOneFn func(context.Context, I) (O, error)) error {
	errGrp, dCtx := errgroup.WithContext(ctx)
	errGrp.SetLimit(output.Details.Concurrent)
	// starts many consumers concurrently
	// each consumer stops as soon as an error happens
	for goIdx := 0; goIdx < output.Details.Concurrent; goIdx++ {
		localGoIdx := goIdx
		errGrp.Go(func() error {
			return sequentialOneToOneFn(dCtx, p, localGoIdx, input, output, oneToOneFn)
		})
	}

	return errGrp.Wait()
}

func oneToOne[I any, O any](ctx context.Context, p *Pipeline, input *model.Step[I], output *model.Step[O], oneToOneFn func(context.Context, I) (O, error)) error {
	if output.Details.Concurrent == 1 {
		return sequentialOneToOneFn(ctx, p, 1, input, output, oneToOneFn)
	}

	return concurrentOneToOneFn(ctx, p, input, output, oneToOneFn)
}

func sequentialOneToManyFn[I any, O any](ctx context.Context, p *Pipeline, goIdx int, input *model.Step[I], output *model.Step[O], oneToManyFn func(context.Context, I) ([]O, error)) error {
outer:
	for {
		start := time.Now()
		select {
		case <-ctx.Done():
			return errors.Wrapf(ctx.Err(), "go routine %d:", goIdx)
		case in, ok := <-input.Output:
			if !ok {
				break outer
			}
			startFn := time.Now()
			outs, err := oneToManyFn(ctx, in)
			if err != nil {
				return errors.Wrapf(err, "go routine %d:", goIdx)
			}
			endFn := time.Since(startFn)
			for _, out := range outs {
				select {
				case <-ctx.Done():
					return errors.Wrapf(ctx.Err(), "go routine %d:", goIdx)
				case output.Output <- out:
					err := p.onStepOutput(input.Details, output.Details, time.Since(start)-endFn, endFn)
					if err != nil {
						return err
					}
				}
			}
		}
	}

	return nil
}

func concurrentOneToManyFn[I any, O any](ctx context.Context, p *Pipeline, input *model.Step[I], output *model.Step[O], oneToManyFn func(context.Context, I) ([]O, error)) error {
	errGrp, dCtx := errgroup.WithContext(ctx)
	errGrp.SetLimit(output.Details.Concurrent)
	for goIdx := 0; goIdx < output.Details.Concurrent; goIdx++ {
		localGoIdx := goIdx
		errGrp.Go(func() error {
			return sequentialOneToManyFn(dCtx, p, localGoIdx, input, output, oneToManyFn)
		})
	}

	return errGrp.Wait()
}

func oneToMany[I any, O any](ctx context.Context, p *Pipeline, input *model.Step[I], output *model.Step[O], oneToManyFn func(context.Context, I) ([]O, error)) error {
	if output.Details.Concurrent == 1 {
		return sequentialOneToManyFn(ctx, p, 1, input, output, oneToManyFn)
	}

	return concurrentOneToManyFn(ctx, p, input, output, oneToManyFn)
}

func prepareStep[I, O any](p *Pipeline, name string, input *model.Step[I], opts ...StepOption[O]) (*model.Step[O], error) {
	step := &model.Step[O]{
		Details: &model.StepInfo{
			Type:       model.NormalStepType,
			Name:       name,
			Concurrent: 1,
		},
		Output: make(chan O),
	}
	for _, opt := range opts {
		opt(step)
	}
	if step.Details.Concurrent == 0 {
		step.Details.Concurrent = 1
	}

	err := p.prepareStep([]*model.StepInfo{input.Details}, step.Details)
	if err != nil {
		return nil, err
	}

	return step, nil
}

func addStep[O any](p *Pipeline, name string, step *model.Step[O], stepToStepFn func(ctx context.Context) error) *model.Step[O] {
	errC := make(chan error, 1)
	decoratedError := newErrorChan(name, errC)

	go func() {
		defer func() {
			if !step.KeepOpen {
				close(step.Output)
			}
			close(errC)
		}()
		err := stepToStepFn(p.ctx)
		if err != nil {
			errC <- err
		}
	}()
	p.errcList.add(decoratedError)

	return step
}

// AddStepOneToOne adds a step that transforms every input element into exactly
// one output element.
func AddStepOneToOne[I any, O any](p *Pipeline, name string, input *model.Step[I], oneToOneFn func(context.Context, I) (O, error), opts ...StepOption[O]) (*model.Step[O], error) {
	if p == nil {
		return nil, ErrPipelineMustBeSet
	}
	if input == nil {
		return nil, ErrInputMustBeSet
	}
	step, err := prepareStep(p, name, input, opts...)
	if err != nil {
		return nil, err
	}

	return addStep(p, name, step, func(ctx context.Context) error {
		return oneToOne(ctx, p, input, step, oneToOneFn)
	}), nil
}

// AddStepOneToMany adds a step that transforms every input element into zero or
// more output elements, pushed downstream in order.
func AddStepOneToMany[I any, O any](p *Pipeline, name string, input *model.Step[I], oneToManyFn func(context.Context, I) ([]O, error), opts ...StepOption[O]) (*model.Step[O], error) {
	if p == nil {
		return nil, ErrPipelineMustBeSet
	}
	if input == nil {
		return nil, ErrInputMustBeSet
	}
	step, err := prepareStep(p, name, input, opts...)
	if err != nil {
		return nil, err
	}

	return addStep(p, name, step, func(ctx context.Context) error {
		return oneToMany(ctx, p, input, step, oneToManyFn)
	}), nil
}
