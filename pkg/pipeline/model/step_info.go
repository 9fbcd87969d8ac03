package model

type stepType string

const (
	RootStepType     stepType = "root"
	NormalStepType   stepType = "step"
	SplitterStepType stepType = "splitter"
	MergerStepType   stepType = "merger"
	SinkStepType     stepType = "sink"
)

// StepInfo describes one step of a pipeline, independently of the element type
// flowing through it.
type StepInfo struct {
	Type       stepType
	Name       string
	Concurrent int
	BufferSize int
}

// StartStep and EndStep are the virtual boundary steps every pipeline topology
// is attached to.
var (
	StartStep = &Step[any]{Details: &StepInfo{Name: "start"}}
	EndStep   = &Step[any]{Details: &StepInfo{Name: "end"}}
)

// Step carries the output channel of one pipeline step.
type Step[O any] struct {
	Output   chan O
	KeepOpen bool
	Details  *StepInfo
}
