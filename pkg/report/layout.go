package report

import (
	"fmt"
	"regexp"
)

// headerBreaks matches the camel-case boundaries a header is split on. The
// second alternative handles acronym-to-word transitions ("ROIName") without
// breaking the acronym itself.
var headerBreaks = regexp.MustCompile(`([a-z])([A-Z])|([A-Z])([A-Z][a-z])`)

// FormatHeader inserts line breaks at camel-case boundaries so long column
// names wrap in the spreadsheet instead of widening it.
func FormatHeader(name string) string {
	return headerBreaks.ReplaceAllString(name, "${1}${3}\n${2}${4}")
}

// FormatHeaders rewrites every column key of every row with FormatHeader.
// Values are untouched. Applying it twice is a no-op because broken headers
// have no remaining camel-case boundaries.
func FormatHeaders(rows []Row) []Row {
	out := make([]Row, len(rows))
	for i, row := range rows {
		formatted := make(Row, len(row))
		for j, field := range row {
			formatted[j] = Field{Key: FormatHeader(field.Key), Value: field.Value}
		}
		out[i] = formatted
	}

	return out
}

// InsertCycleSeparators inserts one blank row between consecutive rows that
// carry different non-empty run-cycle numbers. Rows without a cycle number
// (erase channels, scans) never trigger a separator and never reset the
// current group. An existing all-blank row resets the group, which makes the
// pass idempotent.
func InsertCycleSeparators(rows []Row) []Row {
	out := make([]Row, 0, len(rows))
	prev := ""
	for _, row := range rows {
		if isBlankRow(row) {
			prev = ""
			out = append(out, row)

			continue
		}

		curr := cycleValue(row)
		if curr != "" {
			if prev != "" && curr != prev {
				out = append(out, blankRow(row.Keys()))
			}
			prev = curr
		}
		out = append(out, row)
	}

	return out
}

func isBlankRow(row Row) bool {
	if len(row) == 0 {
		return false
	}
	for _, f := range row {
		if f.Value != "" {
			return false
		}
	}

	return true
}

func cycleValue(row Row) string {
	v := row.Get("RunCycleNumber")
	if v == nil {
		return ""
	}
	if s, isString := v.(string); isString {
		return s
	}

	return fmt.Sprint(v)
}
