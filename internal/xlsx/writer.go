// Package xlsx renders assembled reports as Office Open XML workbooks.
package xlsx

import (
	"io"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/askiada/macsima-report/pkg/report"
)

// ErrEmptyReport is returned for a report with no tables; a workbook must
// hold at least one sheet.
var ErrEmptyReport = errors.New("report must hold at least one table")

// Write renders the report as one workbook, one sheet per table in report
// order. Header cells wrap so the line breaks inserted by the layout pass
// show up as stacked words.
func Write(w io.Writer, rpt *report.Report) error {
	if rpt == nil || len(rpt.Tables) == 0 {
		return ErrEmptyReport
	}

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
	})
	if err != nil {
		return errors.Wrap(err, "unable to create header style")
	}

	for i, table := range rpt.Tables {
		if i == 0 {
			err = f.SetSheetName("Sheet1", table.Name)
		} else {
			_, err = f.NewSheet(table.Name)
		}
		if err != nil {
			return errors.Wrapf(err, "unable to create sheet %s", table.Name)
		}

		if err := writeSheet(f, table, headerStyle); err != nil {
			return errors.Wrapf(err, "unable to write sheet %s", table.Name)
		}
	}

	if err := f.Write(w); err != nil {
		return errors.Wrap(err, "unable to write workbook")
	}

	return nil
}

func writeSheet(f *excelize.File, table report.Table, headerStyle int) error {
	if len(table.Rows) == 0 {
		return nil
	}

	for col, key := range table.Rows[0].Keys() {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(table.Name, cell, key); err != nil {
			return err
		}
	}
	if err := f.SetRowStyle(table.Name, 1, 1, headerStyle); err != nil {
		return err
	}

	for rowIdx, row := range table.Rows {
		for col, field := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, rowIdx+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(table.Name, cell, field.Value); err != nil {
				return err
			}
		}
	}

	return nil
}
