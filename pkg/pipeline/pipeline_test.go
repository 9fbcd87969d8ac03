package pipeline_test

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/macsima-report/pkg/pipeline"
	"github.com/askiada/macsima-report/pkg/pipeline/drawer"
	"github.com/askiada/macsima-report/pkg/pipeline/measure"
	"github.com/askiada/macsima-report/pkg/pipeline/model"
)

func TestAddRootStepNilPipe(t *testing.T) {
	t.Parallel()

	_, err := pipeline.AddRootStep(nil, "root step", func(ctx context.Context, rootChan chan<- int) error {
		return nil
	})
	assert.ErrorIs(t, err, pipeline.ErrPipelineMustBeSet)
}

func TestAddStepOneToOneNilPipe(t *testing.T) {
	t.Parallel()

	_, err := pipeline.AddStepOneToOne(nil, "first step", &model.Step[int]{}, func(ctx context.Context, input int) (int, error) {
		return input, nil
	})
	assert.ErrorIs(t, err, pipeline.ErrPipelineMustBeSet)
}

func TestAddStepOneToOneNilInput(t *testing.T) {
	t.Parallel()

	pipe, err := pipeline.New(context.Background())
	require.NoError(t, err)
	_, err = pipeline.AddStepOneToOne(pipe, "first step", nil, func(ctx context.Context, input int) (int, error) {
		return input, nil
	})
	assert.ErrorIs(t, err, pipeline.ErrInputMustBeSet)
}

func TestAddStepOneToOne(t *testing.T) {
	t.Parallel()

	var got []int

	pipe, err := pipeline.New(context.Background())
	require.NoError(t, err)
	step := model.Step[int]{
		Output:  createInputChan(t, 10),
		Details: &model.StepInfo{Name: "input"},
	}
	outputChan, err := pipeline.AddStepOneToOne(pipe, "doubler", &step, func(ctx context.Context, input int) (int, error) {
		return input * 2, nil
	})
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		got = processOutputChan(t, outputChan.Output)
		done <- struct{}{}
	}()

	err = pipe.Run()
	require.NoError(t, err)
	<-done
	assert.ElementsMatch(t, []int{0, 2, 4, 6, 8, 10, 12, 14, 16, 18}, got)
}

func TestAddStepOneToOneError(t *testing.T) {
	t.Parallel()

	pipe, err := pipeline.New(context.Background())
	require.NoError(t, err)
	step := model.Step[int]{
		Output:  createInputChan(t, 10),
		Details: &model.StepInfo{Name: "input"},
	}
	outputChan, err := pipeline.AddStepOneToOne(pipe, "faulty step", &step, func(ctx context.Context, input int) (int, error) {
		if input == 5 {
			return 0, assert.AnError
		}

		return input, nil
	})
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		processOutputChan(t, outputChan.Output)
		done <- struct{}{}
	}()

	err = pipe.Run()
	assert.Error(t, err)
	<-done
}

func TestAddStepOneToOneConcurrent(t *testing.T) {
	t.Parallel()

	pipe, err := pipeline.New(context.Background())
	require.NoError(t, err)
	step := model.Step[int]{
		Output:  createInputChan(t, 100),
		Details: &model.StepInfo{Name: "input"},
	}
	outputChan, err := pipeline.AddStepOneToOne(pipe, "concurrent step", &step, func(ctx context.Context, input int) (int, error) {
		return input + 1, nil
	}, pipeline.StepConcurrency[int](4))
	require.NoError(t, err)

	var got []int
	done := make(chan struct{})
	go func() {
		got = processOutputChan(t, outputChan.Output)
		done <- struct{}{}
	}()

	err = pipe.Run()
	require.NoError(t, err)
	<-done

	expected := make([]int, 100)
	for i := range expected {
		expected[i] = i + 1
	}
	assert.ElementsMatch(t, expected, got)
}

func TestAddStepOneToMany(t *testing.T) {
	t.Parallel()

	pipe, err := pipeline.New(context.Background())
	require.NoError(t, err)
	step := model.Step[int]{
		Output:  createInputChan(t, 3),
		Details: &model.StepInfo{Name: "input"},
	}
	outputChan, err := pipeline.AddStepOneToMany(pipe, "expander", &step, func(ctx context.Context, input int) ([]string, error) {
		return []string{strconv.Itoa(input), strconv.Itoa(input)}, nil
	})
	require.NoError(t, err)

	var got []string
	done := make(chan struct{})
	go func() {
		for out := range outputChan.Output {
			got = append(got, out)
		}
		done <- struct{}{}
	}()

	err = pipe.Run()
	require.NoError(t, err)
	<-done
	assert.ElementsMatch(t, []string{"0", "0", "1", "1", "2", "2"}, got)
}

func TestRootToSink(t *testing.T) {
	t.Parallel()

	pipe, err := pipeline.New(context.Background())
	require.NoError(t, err)

	root, err := pipeline.AddRootStep(pipe, "root step", func(ctx context.Context, rootChan chan<- int) error {
		for i := 0; i < 5; i++ {
			rootChan <- i
		}

		return nil
	})
	require.NoError(t, err)

	var (
		mu  sync.Mutex
		got []int
	)
	err = pipeline.AddSink(pipe, "sink", root, func(ctx context.Context, input int) error {
		mu.Lock()
		got = append(got, input)
		mu.Unlock()

		return nil
	})
	require.NoError(t, err)

	err = pipe.Run()
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, got)
}

func TestAddSplitterZeroTotal(t *testing.T) {
	t.Parallel()

	pipe, err := pipeline.New(context.Background())
	require.NoError(t, err)
	step := model.Step[int]{
		Output:  createInputChan(t, 1),
		Details: &model.StepInfo{Name: "input"},
	}
	_, err = pipeline.AddSplitter(pipe, "fan out", &step, 0)
	assert.ErrorIs(t, err, pipeline.ErrSplitterTotal)
}

func TestSplitterMerger(t *testing.T) {
	t.Parallel()

	pipe, err := pipeline.New(context.Background())
	require.NoError(t, err)

	root, err := pipeline.AddRootStep(pipe, "root step", func(ctx context.Context, rootChan chan<- int) error {
		for i := 0; i < 3; i++ {
			rootChan <- i
		}

		return nil
	})
	require.NoError(t, err)

	splitter, err := pipeline.AddSplitter(pipe, "fan out", root, 2)
	require.NoError(t, err)

	branches := make([]*model.Step[int], 0, splitter.Total)
	for i := 0; i < splitter.Total; i++ {
		branch, ok := splitter.Get()
		require.True(t, ok)
		offset := i * 10
		step, err := pipeline.AddStepOneToOne(pipe, "branch "+strconv.Itoa(i), branch, func(ctx context.Context, input int) (int, error) {
			return input + offset, nil
		})
		require.NoError(t, err)
		branches = append(branches, step)
	}

	_, ok := splitter.Get()
	assert.False(t, ok)

	merged, err := pipeline.AddMerger(pipe, "collect", branches...)
	require.NoError(t, err)

	var (
		mu  sync.Mutex
		got []int
	)
	err = pipeline.AddSink(pipe, "sink", merged, func(ctx context.Context, input int) error {
		mu.Lock()
		got = append(got, input)
		mu.Unlock()

		return nil
	})
	require.NoError(t, err)

	err = pipe.Run()
	require.NoError(t, err)

	sort.Ints(got)
	assert.Equal(t, []int{0, 1, 2, 10, 11, 12}, got)
}

func TestAddMergerNoInput(t *testing.T) {
	t.Parallel()

	pipe, err := pipeline.New(context.Background())
	require.NoError(t, err)
	_, err = pipeline.AddMerger[int](pipe, "collect")
	assert.ErrorIs(t, err, pipeline.ErrMergerInput)
}

func TestAddSinkFromChan(t *testing.T) {
	t.Parallel()

	pipe, err := pipeline.New(context.Background())
	require.NoError(t, err)
	step := model.Step[int]{
		Output:  createInputChan(t, 4),
		Details: &model.StepInfo{Name: "input"},
	}

	var got []int
	err = pipeline.AddSinkFromChan(pipe, "sink", &step, func(ctx context.Context, input <-chan int) error {
		for in := range input {
			got = append(got, in)
		}

		return nil
	})
	require.NoError(t, err)

	err = pipe.Run()
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3}, got)
}

func TestPipelineWithDrawerAndMeasure(t *testing.T) {
	t.Parallel()

	dotFile := filepath.Join(t.TempDir(), "pipeline.dot")
	msr := measure.NewDefaultMeasure()
	pipe, err := pipeline.New(context.Background(),
		measure.PipelineMeasure(msr),
		drawer.PipelineDrawer(drawer.NewDOTDrawer(dotFile), msr),
	)
	require.NoError(t, err)

	root, err := pipeline.AddRootStep(pipe, "root step", func(ctx context.Context, rootChan chan<- int) error {
		rootChan <- 1

		return nil
	})
	require.NoError(t, err)

	step, err := pipeline.AddStepOneToOne(pipe, "first step", root, func(ctx context.Context, input int) (int, error) {
		return input, nil
	})
	require.NoError(t, err)

	err = pipeline.AddSink(pipe, "sink", step, func(ctx context.Context, input int) error {
		return nil
	})
	require.NoError(t, err)

	err = pipe.Run()
	require.NoError(t, err)

	content, err := os.ReadFile(dotFile)
	require.NoError(t, err)
	assert.Contains(t, string(content), "digraph")
	assert.Contains(t, string(content), "first step")

	assert.NotNil(t, msr.GetMetric("first step"))
}
