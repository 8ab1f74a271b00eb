package shell

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/andresuchdata/vaxstock/backend-go/internal/report"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// RenderReport prints the report table followed by the headline KPIs.
func RenderReport(w io.Writer, rep report.Report) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "Structure\tN\tO\tQ\tR\tUtilisable\tPerte\t")
	for _, row := range rep.Rows {
		fmt.Fprintf(tw, "%s\t%s\t\n", rowLabel(row), cells(row.Totals, row.KPIs))
	}
	fmt.Fprintf(tw, "TOTAL GLOBAL\t%s\t\n", cells(rep.GrandTotal, rep.GrandKPIs))
	if err := tw.Flush(); err != nil {
		return err
	}

	c := rep.Coverage
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Cible totale: %d  Doses (N): %d  Couverture: %s  Perte: %s\n",
		c.TargetTotal, rep.GrandTotal.N, c.Overall, rep.GrandKPIs.WastageRate)
	fmt.Fprintf(w, "Couverture 2-11 mois: %s (cible %d)  12-59 mois: %s (cible %d)\n",
		c.Rate2To11m, c.Target2To11m, c.Rate12To59m, c.Target12To59m)

	for _, warn := range rep.Warnings {
		fmt.Fprintf(w, "! %s\n", warn.Message)
	}
	return nil
}

func rowLabel(row report.Row) string {
	switch row.Kind {
	case report.RowGroup:
		return strings.ToUpper(row.Name)
	case report.RowMember:
		return "  " + nameWithType(row)
	}
	return nameWithType(row)
}

func nameWithType(row report.Row) string {
	if row.Type == "" {
		return row.Name
	}
	return fmt.Sprintf("%s (%s)", row.Name, row.Type)
}

func cells(t report.Totals, k report.KPIs) string {
	return fmt.Sprintf("%d\t%d\t%d\t%d\t%d\t%s", t.N, t.O, t.Q, t.R, k.Usable, k.WastageRate)
}

// RenderPreview prints the live entry calculation.
func RenderPreview(w io.Writer, p EntryPreview) {
	flag := ""
	if p.Negative {
		flag = "  (stock utilisable négatif)"
	}
	fmt.Fprintf(w, "Utilisable: %d%s\nPhysique: %d\n", p.Usable, flag, p.Physical)
}

// RenderGroups prints the directory and any problems found in it.
func RenderGroups(w io.Writer, dir report.Directory, warnings []report.Warning) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "Groupe\tMembres\t")
	for _, g := range dir {
		fmt.Fprintf(tw, "%s\t%s\t\n", g.Name, strings.Join(g.Members, ", "))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	for _, warn := range warnings {
		fmt.Fprintf(w, "! [%s] %s\n", warn.Code, warn.Message)
	}
	return nil
}
