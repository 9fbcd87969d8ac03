package report

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/askiada/macsima-report/pkg/macsima"
)

// Timestamps in run records usually carry a zone, but some instrument
// versions emit bare local times. Both are normalised to UTC.
const bareTimestampLayout = "2006-01-02T15:04:05"

// ExperimentRow flattens one experiment into its summary row.
func ExperimentRow(exp macsima.Experiment, log *zap.Logger) Row {
	name := exp.Name
	if name == "" {
		name = "Unknown experiment"
	}

	return Row{
		{Key: "ExperimentName", Value: name},
		{Key: "StartTime", Value: formatRunTimestamp(exp.ExecutionStartDateTime, "Unknown start time", log)},
		{Key: "EndTime", Value: formatRunTimestamp(exp.ExecutionEndDateTime, "Unknown end time", log)},
		{Key: "RunningTime", Value: formatRunningTime(exp.ActualRunningTime)},
		{Key: "UsedDiskSpace", Value: formatDiskSpace(exp.UsedDiskspace)},
	}
}

func formatRunTimestamp(raw, fallback string, log *zap.Logger) string {
	if raw == "" {
		return fallback
	}

	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		// Zone-less instrument timestamps are taken as UTC.
		t, err = time.Parse(bareTimestampLayout, raw)
	}
	if err != nil {
		log.Warn("unparseable run timestamp", zap.String("value", raw))

		return fallback
	}

	return t.UTC().Format("2006-01-02T15:04:05Z")
}

// formatRunningTime renders a duration in seconds as "14h 49m 27s",
// truncating fractional seconds.
func formatRunningTime(seconds float64) string {
	total := int64(seconds)
	if total < 0 {
		total = 0
	}

	return fmt.Sprintf("%dh %dm %ds", total/3600, total%3600/60, total%60)
}

// formatDiskSpace renders bytes as decimal kilobytes with three decimals.
func formatDiskSpace(bytes float64) string {
	return fmt.Sprintf("%.3f KB", bytes/1000)
}

// RackRow flattens one rack into its summary row.
func RackRow(rack macsima.Rack) Row {
	name := rack.Name
	if name == "" {
		name = "Unknown rack"
	}

	return Row{{Key: "RackName", Value: name}}
}

// roiShapeData is the nested JSON document carried inside a shape's Data
// string. Its keys are capitalised, unlike the rest of the record.
type roiShapeData struct {
	Width  *float64 `json:"Width"`
	Height *float64 `json:"Height"`
}

// ROIRow flattens one region of interest, decoding the nested shape payload
// for its dimensions.
func ROIRow(roi macsima.ROI, log *zap.Logger) Row {
	name := roi.Name
	if name == "" {
		name = "Unknown ROI"
	}

	shape := macsima.Label(roi.Shape.Type)
	if shape == "" {
		shape = "Unknown shape"
	}

	method := macsima.Label(roi.AutoFocus.Method)
	if method == "" {
		method = "Unknown autofocus method"
	}

	height := "Unknown height"
	width := "Unknown width"
	if roi.Shape.Data != "" {
		var data roiShapeData
		err := json.Unmarshal([]byte(roi.Shape.Data), &data)
		if err != nil {
			log.Warn("unparseable shape payload", zap.String("roi", name), zap.Error(err))
		} else {
			if data.Height != nil {
				height = strconv.FormatFloat(*data.Height, 'f', -1, 64)
			}
			if data.Width != nil {
				width = strconv.FormatFloat(*data.Width, 'f', -1, 64)
			}
		}
	}

	return Row{
		{Key: "ROIName", Value: name},
		{Key: "Shape", Value: shape},
		{Key: "Height", Value: height},
		{Key: "Width", Value: width},
		{Key: "Autofocus", Value: method},
	}
}

// SampleRow flattens one sample into its summary row.
func SampleRow(sample macsima.Sample) Row {
	return Row{
		{Key: "SampleName", Value: defaulted(sample.Name, "Unknown sample")},
		{Key: "Species", Value: defaulted(sample.Species, "Unknown species")},
		{Key: "Type", Value: defaulted(macsima.Label(sample.SampleType), "Unknown sample type")},
		{Key: "Organ", Value: defaulted(sample.Organ, "Unknown organ")},
		{Key: "Fixation", Value: defaulted(sample.FixationMethod, "Unknown fixation method")},
	}
}

func defaulted(value, fallback string) string {
	if value == "" {
		return fallback
	}

	return value
}
