package report

import (
	"fmt"

	"github.com/andresuchdata/vaxstock/backend-go/internal/domain"
)

// BuildReport assembles the report table from one snapshot.
//
// Groups come first, in directory order: a group-total row followed by one
// row per member in listed order. Facilities not claimed by any group follow
// in facility-list order. Every facility reaches the grand total exactly once.
// The result depends only on the inputs, so repeated calls are identical.
func BuildReport(facilities []domain.Facility, records []domain.CounterRecord, dir Directory, demo domain.Demographics) Report {
	idx, duplicates := NewIndex(records)
	groups, covered, warnings := dir.resolve(facilities)

	for _, id := range duplicates {
		warnings = append(warnings, Warning{
			Code:    WarnDuplicateRecord,
			Name:    string(id),
			Message: fmt.Sprintf("facility %s has more than one counter record; records were summed", id),
		})
	}

	rows := make([]Row, 0, len(groups)+len(facilities))
	var grand Totals

	for _, g := range groups {
		groupTotal := idx.Sum(g.ids())
		rows = append(rows, Row{
			Kind:   RowGroup,
			Group:  g.name,
			Name:   g.name,
			Totals: groupTotal,
			KPIs:   ComputeKPIs(groupTotal),
		})
		for _, f := range g.members {
			rows = append(rows, facilityRow(RowMember, g.name, f, idx[f.ID]))
		}
		grand = grand.Add(groupTotal)
	}

	seen := make(map[domain.FacilityID]struct{}, len(facilities))
	for _, f := range facilities {
		if _, ok := covered[f.ID]; ok {
			continue
		}
		if _, ok := seen[f.ID]; ok {
			continue
		}
		seen[f.ID] = struct{}{}

		t := idx[f.ID]
		rows = append(rows, facilityRow(RowUngrouped, "", f, t))
		grand = grand.Add(t)
	}

	if warnings == nil {
		warnings = []Warning{}
	}

	return Report{
		EPSPName:   demo.EPSPName,
		Rows:       rows,
		GrandTotal: grand,
		GrandKPIs:  ComputeKPIs(grand),
		Coverage:   ComputeCoverage(grand.N, demo),
		Warnings:   warnings,
	}
}

// ComputeCoverage derives the coverage rates for n doses. Missing or zero
// targets count as 1.
func ComputeCoverage(n int64, demo domain.Demographics) Coverage {
	t2 := demo.Cible2To11m.Int64()
	t12 := demo.Cible12To59m.Int64()
	total := t2 + t12

	return Coverage{
		Target2To11m:  t2,
		Target12To59m: t12,
		TargetTotal:   total,
		Rate2To11m:    CoverageRate(n, t2),
		Rate12To59m:   CoverageRate(n, t12),
		Overall:       CoverageRate(n, total),
	}
}

func facilityRow(kind RowKind, group string, f domain.Facility, t Totals) Row {
	return Row{
		Kind:       kind,
		Group:      group,
		FacilityID: f.ID,
		Name:       f.Name,
		Type:       f.Type,
		Totals:     t,
		KPIs:       ComputeKPIs(t),
	}
}
