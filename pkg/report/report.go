package report

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/askiada/macsima-report/pkg/macsima"
	"github.com/askiada/macsima-report/pkg/pipeline"
	"github.com/askiada/macsima-report/pkg/pipeline/model"
)

// ErrNilDocument is returned when Assemble is given no run record.
var ErrNilDocument = errors.New("run record must be set")

// Sheet names, in workbook order.
const (
	SheetExperiment = "Experiment"
	SheetRacks      = "Racks"
	SheetROIs       = "ROIs"
	SheetSamples    = "Samples"
	SheetSteps      = "Steps"
)

var sheetOrder = []string{SheetExperiment, SheetRacks, SheetROIs, SheetSamples, SheetSteps}

// Table is one sheet of the destination workbook.
type Table struct {
	Name string
	Rows []Row
}

// Report is the whole converted run record, tables in workbook order.
type Report struct {
	Tables []Table
}

// Assembler builds reports from decoded run records.
type Assembler struct {
	log  *zap.Logger
	opts []model.PipelineOption
}

// AssemblerOption configures an Assembler.
type AssemblerOption func(*Assembler)

// WithLogger sets the diagnostics sink. The default is a no-op logger.
func WithLogger(log *zap.Logger) AssemblerOption {
	return func(a *Assembler) {
		a.log = log
	}
}

// WithPipelineOptions attaches observers (drawer, measure) to the assembly
// pipeline.
func WithPipelineOptions(opts ...model.PipelineOption) AssemblerOption {
	return func(a *Assembler) {
		a.opts = append(a.opts, opts...)
	}
}

// NewAssembler builds an assembler.
func NewAssembler(opts ...AssemblerOption) *Assembler {
	a := &Assembler{}
	for _, opt := range opts {
		opt(a)
	}
	if a.log == nil {
		a.log = zap.NewNop()
	}

	return a
}

// Assemble converts one run record into its five tables. Each table is built
// by its own pipeline branch off a shared splitter; the merger and sink
// collect them back into workbook order.
func (a *Assembler) Assemble(ctx context.Context, doc *macsima.Document) (*Report, error) {
	if doc == nil {
		return nil, ErrNilDocument
	}

	p, err := pipeline.New(ctx, a.opts...)
	if err != nil {
		return nil, errors.Wrap(err, "unable to create assembly pipeline")
	}

	root, err := pipeline.AddRootStep(p, "record", func(_ context.Context, rootChan chan<- *macsima.Document) error {
		rootChan <- doc

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "unable to add record step")
	}

	builders := []struct {
		name  string
		build func(context.Context, *macsima.Document) (Table, error)
	}{
		{SheetExperiment, a.experimentTable},
		{SheetRacks, a.rackTable},
		{SheetROIs, a.roiTable},
		{SheetSamples, a.sampleTable},
		{SheetSteps, a.stepsTable},
	}

	splitter, err := pipeline.AddSplitter(p, "fan out", root, len(builders))
	if err != nil {
		return nil, errors.Wrap(err, "unable to add fan out")
	}

	branches := make([]*model.Step[Table], 0, len(builders))
	for _, builder := range builders {
		branch, ok := splitter.Get()
		if !ok {
			return nil, errors.Errorf("no fan out branch left for table %s", builder.name)
		}

		step, err := pipeline.AddStepOneToOne(p, builder.name, branch, builder.build)
		if err != nil {
			return nil, errors.Wrapf(err, "unable to add table step %s", builder.name)
		}
		branches = append(branches, step)
	}

	merged, err := pipeline.AddMerger(p, "collect", branches...)
	if err != nil {
		return nil, errors.Wrap(err, "unable to add collector")
	}

	var mu sync.Mutex
	byName := make(map[string]Table, len(builders))
	err = pipeline.AddSink(p, "report", merged, func(_ context.Context, table Table) error {
		mu.Lock()
		byName[table.Name] = table
		mu.Unlock()

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "unable to add report sink")
	}

	if err := p.Run(); err != nil {
		return nil, errors.Wrap(err, "unable to assemble report")
	}

	rpt := &Report{Tables: make([]Table, 0, len(sheetOrder))}
	for _, name := range sheetOrder {
		rpt.Tables = append(rpt.Tables, byName[name])
	}

	return rpt, nil
}

func (a *Assembler) experimentTable(_ context.Context, doc *macsima.Document) (Table, error) {
	rows := make([]Row, 0, len(doc.Experiments))
	for _, exp := range doc.Experiments {
		rows = append(rows, ExperimentRow(exp, a.log))
	}

	return Table{Name: SheetExperiment, Rows: FormatHeaders(rows)}, nil
}

func (a *Assembler) rackTable(_ context.Context, doc *macsima.Document) (Table, error) {
	rows := make([]Row, 0, len(doc.Racks))
	for _, rack := range doc.Racks {
		rows = append(rows, RackRow(rack))
	}

	return Table{Name: SheetRacks, Rows: FormatHeaders(rows)}, nil
}

func (a *Assembler) roiTable(_ context.Context, doc *macsima.Document) (Table, error) {
	rows := make([]Row, 0, len(doc.ROIs))
	for _, roi := range doc.ROIs {
		rows = append(rows, ROIRow(roi, a.log))
	}

	return Table{Name: SheetROIs, Rows: FormatHeaders(rows)}, nil
}

func (a *Assembler) sampleTable(_ context.Context, doc *macsima.Document) (Table, error) {
	rows := make([]Row, 0, len(doc.Samples))
	for _, sample := range doc.Samples {
		rows = append(rows, SampleRow(sample))
	}

	return Table{Name: SheetSamples, Rows: FormatHeaders(rows)}, nil
}

func (a *Assembler) stepsTable(_ context.Context, doc *macsima.Document) (Table, error) {
	dispatcher := NewDispatcher(BuildReagentIndex(doc), a.log)

	var rows []Row
	for _, proc := range doc.Procedures {
		for _, block := range SequenceBlocks(proc.Blocks) {
			rows = append(rows, dispatcher.Rows(block)...)
		}
	}

	return Table{Name: SheetSteps, Rows: FormatHeaders(InsertCycleSeparators(rows))}, nil
}
