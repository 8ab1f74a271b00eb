package export

import (
	"fmt"
	"io"
	"strconv"

	"github.com/andresuchdata/vaxstock/backend-go/internal/report"
	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

const ContentTypePDF = "application/pdf"

var (
	pdfCell   = props.Text{Size: 8, Top: 1}
	pdfNumber = props.Text{Size: 8, Top: 1, Align: align.Right}
)

// WritePDF writes a printable version of the report: the facility table
// followed by the coverage block.
func WritePDF(w io.Writer, rep *report.Report) error {
	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} / {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	title := rep.EPSPName
	if title == "" {
		title = "EPSP"
	}
	m.AddRow(14,
		text.NewCol(12, "Rapport de stock vaccinal - "+title, props.Text{
			Size:  14,
			Style: fontstyle.Bold,
		}),
	)

	bold := props.Text{Size: 8, Top: 1, Style: fontstyle.Bold}
	boldNumber := props.Text{Size: 8, Top: 1, Style: fontstyle.Bold, Align: align.Right}
	m.AddRow(8,
		text.NewCol(5, "Structure", bold),
		text.NewCol(1, "N", boldNumber),
		text.NewCol(1, "O", boldNumber),
		text.NewCol(1, "Q", boldNumber),
		text.NewCol(1, "R", boldNumber),
		text.NewCol(1, "Util.", boldNumber),
		text.NewCol(2, "Perte", boldNumber),
	)

	for _, row := range rep.Rows {
		label := row.Name
		style, number := pdfCell, pdfNumber
		switch row.Kind {
		case report.RowGroup:
			style, number = bold, boldNumber
		case report.RowMember:
			label = "    " + label
		}
		addTotalsRow(m, label, row.Totals, row.KPIs, style, number)
	}
	addTotalsRow(m, "TOTAL", rep.GrandTotal, rep.GrandKPIs, bold, boldNumber)

	c := rep.Coverage
	m.AddRow(12, text.NewCol(12, "Couverture", props.Text{Size: 11, Top: 4, Style: fontstyle.Bold}))
	for _, band := range []struct {
		label  string
		target int64
		rate   report.Rate
	}{
		{"2-11 mois", c.Target2To11m, c.Rate2To11m},
		{"12-59 mois", c.Target12To59m, c.Rate12To59m},
		{"Total", c.TargetTotal, c.Overall},
	} {
		m.AddRow(6,
			text.NewCol(5, band.label, pdfCell),
			text.NewCol(2, strconv.FormatInt(band.target, 10), pdfNumber),
			text.NewCol(2, band.rate.String(), pdfNumber),
			col.New(3),
		)
	}

	doc, err := m.Generate()
	if err != nil {
		return fmt.Errorf("error generating report pdf: %w", err)
	}
	if _, err := w.Write(doc.GetBytes()); err != nil {
		return fmt.Errorf("error writing report pdf: %w", err)
	}
	return nil
}

func addTotalsRow(m core.Maroto, label string, t report.Totals, k report.KPIs, style, number props.Text) {
	m.AddRow(6,
		text.NewCol(5, label, style),
		text.NewCol(1, strconv.FormatInt(t.N, 10), number),
		text.NewCol(1, strconv.FormatInt(t.O, 10), number),
		text.NewCol(1, strconv.FormatInt(t.Q, 10), number),
		text.NewCol(1, strconv.FormatInt(t.R, 10), number),
		text.NewCol(1, strconv.FormatInt(k.Usable, 10), number),
		text.NewCol(2, k.WastageRate.String(), number),
	)
}
