package report_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/askiada/macsima-report/pkg/macsima"
	"github.com/askiada/macsima-report/pkg/report"
)

func TestExperimentRow(t *testing.T) {
	t.Parallel()

	row := report.ExperimentRow(macsima.Experiment{
		Name:                   "Run 42",
		ExecutionStartDateTime: "2025-01-28T15:53:36Z",
		ExecutionEndDateTime:   "2025-01-29T06:43:03Z",
		ActualRunningTime:      53367,
		UsedDiskspace:          178364,
	}, zap.NewNop())

	assert.Equal(t, "Run 42", row.Get("ExperimentName"))
	assert.Equal(t, "2025-01-28T15:53:36Z", row.Get("StartTime"))
	assert.Equal(t, "2025-01-29T06:43:03Z", row.Get("EndTime"))
	assert.Equal(t, "14h 49m 27s", row.Get("RunningTime"))
	assert.Equal(t, "178.364 KB", row.Get("UsedDiskSpace"))
}

func TestExperimentRowBareTimestamp(t *testing.T) {
	t.Parallel()

	row := report.ExperimentRow(macsima.Experiment{
		Name:                   "Run 43",
		ExecutionStartDateTime: "2025-01-28T15:53:36",
	}, zap.NewNop())

	// A zone-less timestamp is taken as UTC.
	assert.Equal(t, "2025-01-28T15:53:36Z", row.Get("StartTime"))
}

func TestExperimentRowDefaults(t *testing.T) {
	t.Parallel()

	row := report.ExperimentRow(macsima.Experiment{
		ExecutionEndDateTime: "yesterday",
	}, zap.NewNop())

	assert.Equal(t, "Unknown experiment", row.Get("ExperimentName"))
	assert.Equal(t, "Unknown start time", row.Get("StartTime"))
	assert.Equal(t, "Unknown end time", row.Get("EndTime"))
	assert.Equal(t, "0h 0m 0s", row.Get("RunningTime"))
	assert.Equal(t, "0.000 KB", row.Get("UsedDiskSpace"))
}

func TestRackRow(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Rack A", report.RackRow(macsima.Rack{Name: "Rack A"}).Get("RackName"))
	assert.Equal(t, "Unknown rack", report.RackRow(macsima.Rack{}).Get("RackName"))
}

func TestROIRow(t *testing.T) {
	t.Parallel()

	row := report.ROIRow(macsima.ROI{
		Name: "ROI 1",
		Shape: macsima.Shape{
			Type: "ShapeType_Rectangle",
			Data: `{"Width": 1.5, "Height": 2}`,
		},
		AutoFocus: macsima.AutoFocus{Method: "AutofocusMethod_Laser"},
	}, zap.NewNop())

	assert.Equal(t, "ROI 1", row.Get("ROIName"))
	assert.Equal(t, "Rectangle", row.Get("Shape"))
	assert.Equal(t, "2", row.Get("Height"))
	assert.Equal(t, "1.5", row.Get("Width"))
	assert.Equal(t, "Laser", row.Get("Autofocus"))
}

func TestROIRowDefaults(t *testing.T) {
	t.Parallel()

	row := report.ROIRow(macsima.ROI{}, zap.NewNop())

	assert.Equal(t, "Unknown ROI", row.Get("ROIName"))
	assert.Equal(t, "Unknown shape", row.Get("Shape"))
	assert.Equal(t, "Unknown height", row.Get("Height"))
	assert.Equal(t, "Unknown width", row.Get("Width"))
	assert.Equal(t, "Unknown autofocus method", row.Get("Autofocus"))
}

func TestROIRowBrokenShapeData(t *testing.T) {
	t.Parallel()

	row := report.ROIRow(macsima.ROI{
		Name:  "ROI 2",
		Shape: macsima.Shape{Type: "ShapeType_Ellipse", Data: "{broken"},
	}, zap.NewNop())

	assert.Equal(t, "Unknown height", row.Get("Height"))
	assert.Equal(t, "Unknown width", row.Get("Width"))
}

func TestROIRowPartialShapeData(t *testing.T) {
	t.Parallel()

	row := report.ROIRow(macsima.ROI{
		Name:  "ROI 3",
		Shape: macsima.Shape{Type: "ShapeType_Rectangle", Data: `{"Width": 3}`},
	}, zap.NewNop())

	assert.Equal(t, "3", row.Get("Width"))
	assert.Equal(t, "Unknown height", row.Get("Height"))
}

func TestSampleRow(t *testing.T) {
	t.Parallel()

	row := report.SampleRow(macsima.Sample{
		Name:           "S1",
		Species:        "Human",
		SampleType:     "SampleType_Tissue",
		Organ:          "Liver",
		FixationMethod: "PFA",
	})

	assert.Equal(t, "S1", row.Get("SampleName"))
	assert.Equal(t, "Human", row.Get("Species"))
	assert.Equal(t, "Tissue", row.Get("Type"))
	assert.Equal(t, "Liver", row.Get("Organ"))
	assert.Equal(t, "PFA", row.Get("Fixation"))
}

func TestSampleRowDefaults(t *testing.T) {
	t.Parallel()

	row := report.SampleRow(macsima.Sample{})

	require.Len(t, row, 5)
	assert.Equal(t, "Unknown sample", row.Get("SampleName"))
	assert.Equal(t, "Unknown species", row.Get("Species"))
	assert.Equal(t, "Unknown sample type", row.Get("Type"))
	assert.Equal(t, "Unknown organ", row.Get("Organ"))
	assert.Equal(t, "Unknown fixation method", row.Get("Fixation"))
}
