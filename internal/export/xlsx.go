package export

import (
	"fmt"
	"io"
	"strconv"

	"github.com/andresuchdata/vaxstock/backend-go/internal/report"
	"github.com/xuri/excelize/v2"
)

const (
	reportSheet   = "Rapport"
	coverageSheet = "Couverture"
)

// WriteXLSX writes a workbook with the report table and a coverage sheet.
// Counter columns are stored as numbers.
func WriteXLSX(w io.Writer, rep *report.Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), reportSheet); err != nil {
		return fmt.Errorf("error naming sheet: %w", err)
	}

	for i, rec := range Records(rep) {
		cells := make([]interface{}, len(rec))
		for j, v := range rec {
			cells[j] = v
			// counters and usable stock are numeric past the header row
			if i > 0 && j >= 5 && j <= 9 {
				if n, err := strconv.ParseInt(v, 10, 64); err == nil {
					cells[j] = n
				}
			}
		}
		if err := setRow(f, reportSheet, i+1, cells); err != nil {
			return err
		}
	}

	if _, err := f.NewSheet(coverageSheet); err != nil {
		return fmt.Errorf("error creating sheet %s: %w", coverageSheet, err)
	}
	c := rep.Coverage
	coverage := [][]interface{}{
		{"band", "target", "rate"},
		{"2-11m", c.Target2To11m, c.Rate2To11m.String()},
		{"12-59m", c.Target12To59m, c.Rate12To59m.String()},
		{"total", c.TargetTotal, c.Overall.String()},
	}
	for i, cells := range coverage {
		if err := setRow(f, coverageSheet, i+1, cells); err != nil {
			return err
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("error writing report xlsx: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, cells []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
		return fmt.Errorf("error writing %s row %d: %w", sheet, row, err)
	}
	return nil
}
