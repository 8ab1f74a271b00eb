// Package export renders an assembled report as CSV, XLSX or PDF.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/andresuchdata/vaxstock/backend-go/internal/report"
	"github.com/gosimple/slug"
)

const (
	ContentTypeCSV  = "text/csv; charset=utf-8"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	totalKind = "total"
)

// Header is the column order shared by the CSV and XLSX exports.
var Header = []string{"kind", "group", "facility_id", "name", "type", "N", "O", "Q", "R", "usable", "wastage_rate"}

// Records flattens the report into table rows, header first and grand total last.
func Records(rep *report.Report) [][]string {
	out := make([][]string, 0, len(rep.Rows)+2)
	out = append(out, Header)

	for _, row := range rep.Rows {
		out = append(out, record(string(row.Kind), row.Group, string(row.FacilityID), row.Name, row.Type, row.Totals, row.KPIs))
	}
	out = append(out, record(totalKind, "", "", "TOTAL", "", rep.GrandTotal, rep.GrandKPIs))
	return out
}

func record(kind, group, id, name, typ string, t report.Totals, k report.KPIs) []string {
	return []string{
		kind, group, id, name, typ,
		strconv.FormatInt(t.N, 10),
		strconv.FormatInt(t.O, 10),
		strconv.FormatInt(t.Q, 10),
		strconv.FormatInt(t.R, 10),
		strconv.FormatInt(k.Usable, 10),
		k.WastageRate.String(),
	}
}

// WriteCSV writes the report table to w.
func WriteCSV(w io.Writer, rep *report.Report) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(Records(rep)); err != nil {
		return fmt.Errorf("error writing report csv: %w", err)
	}
	return nil
}

// FileName builds the download name for an export, e.g. rapport_epsp-akbou_20240603.csv.
func FileName(rep *report.Report, ext string, now time.Time) string {
	name := slug.Make(rep.EPSPName)
	if name == "" {
		name = "epsp"
	}
	return fmt.Sprintf("rapport_%s_%s.%s", name, now.Format("20060102"), ext)
}
