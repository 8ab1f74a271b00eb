package report

import (
	"encoding/json"
	"testing"

	"github.com/andresuchdata/vaxstock/backend-go/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDirectory() Directory {
	return Directory{
		{Name: "Secteur Nord", Members: []string{"Salle de soins Nord", "Polyclinique Centre"}},
	}
}

func rowNames(rows []Row) []string {
	names := make([]string, len(rows))
	for i, r := range rows {
		names[i] = string(r.Kind) + ":" + r.Name
	}
	return names
}

func TestBuildReport_RowOrder(t *testing.T) {
	rep := BuildReport(sampleFacilities(), sampleRecords(), sampleDirectory(), domain.Demographics{})

	assert.Equal(t, []string{
		"group:Secteur Nord",
		"member:Salle de soins Nord",
		"member:Polyclinique Centre",
		"ungrouped:Salle de soins Sud",
		"ungrouped:Equipe mobile",
	}, rowNames(rep.Rows))
	assert.Empty(t, rep.Warnings)
}

func TestBuildReport_GroupAndMemberTotals(t *testing.T) {
	rep := BuildReport(sampleFacilities(), sampleRecords(), sampleDirectory(), domain.Demographics{})

	group := rep.Rows[0]
	assert.Equal(t, Totals{N: 240, O: 590, Q: 5, R: 1}, group.Totals)
	assert.Equal(t, int64(584), group.KPIs.Usable)
	assert.Equal(t, "20.00%", group.KPIs.WastageRate.String())

	member := rep.Rows[1]
	assert.Equal(t, "Secteur Nord", member.Group)
	assert.Equal(t, domain.FacilityID("2"), member.FacilityID)
	assert.Equal(t, Totals{N: 40, O: 90, Q: 1}, member.Totals)
	assert.Equal(t, "20.00%", member.KPIs.WastageRate.String())

	sud := rep.Rows[3]
	assert.Equal(t, "Salle de soins", sud.Type)
	assert.Equal(t, NotApplicableSymbol, sud.KPIs.WastageRate.String())
}

func TestBuildReport_GrandTotalCountsEachFacilityOnce(t *testing.T) {
	facilities, records := sampleFacilities(), sampleRecords()
	rep := BuildReport(facilities, records, sampleDirectory(), domain.Demographics{})

	var want Totals
	for _, rec := range records {
		want = want.Add(TotalsOf(rec))
	}
	assert.Equal(t, want, rep.GrandTotal)
	assert.Equal(t, ComputeKPIs(want), rep.GrandKPIs)

	var fromRows Totals
	for _, row := range rep.Rows {
		if row.Kind != RowMember {
			fromRows = fromRows.Add(row.Totals)
		}
	}
	assert.Equal(t, rep.GrandTotal, fromRows)
}

func TestBuildReport_NoDirectoryMatchesFlatTable(t *testing.T) {
	rep := BuildReport(sampleFacilities(), sampleRecords(), nil, domain.Demographics{})

	require.Len(t, rep.Rows, 4)
	for i, f := range sampleFacilities() {
		assert.Equal(t, RowUngrouped, rep.Rows[i].Kind)
		assert.Equal(t, f.ID, rep.Rows[i].FacilityID)
	}
	assert.Equal(t, int64(262), rep.GrandTotal.N)
}

func TestBuildReport_MissingMemberIsSkipped(t *testing.T) {
	dir := Directory{{Name: "Secteur Nord", Members: []string{"Salle de soins Nord", "Fermée"}}}

	rep := BuildReport(sampleFacilities(), sampleRecords(), dir, domain.Demographics{})

	assert.Equal(t, []string{
		"group:Secteur Nord",
		"member:Salle de soins Nord",
		"ungrouped:Polyclinique Centre",
		"ungrouped:Salle de soins Sud",
		"ungrouped:Equipe mobile",
	}, rowNames(rep.Rows))
	assert.Equal(t, Totals{N: 40, O: 90, Q: 1}, rep.Rows[0].Totals)
	require.Len(t, rep.Warnings, 1)
	assert.Equal(t, WarnUnknownMember, rep.Warnings[0].Code)
	assert.Equal(t, "Fermée", rep.Warnings[0].Name)
}

func TestBuildReport_OverlappingMemberGoesToFirstGroup(t *testing.T) {
	dir := Directory{
		{Name: "A", Members: []string{"Salle de soins Nord", "Salle de soins Sud"}},
		{Name: "B", Members: []string{"Salle de soins Sud", "Equipe mobile"}},
	}

	rep := BuildReport(sampleFacilities(), sampleRecords(), dir, domain.Demographics{})

	assert.Equal(t, []string{
		"group:A",
		"member:Salle de soins Nord",
		"member:Salle de soins Sud",
		"group:B",
		"member:Equipe mobile",
		"ungrouped:Polyclinique Centre",
	}, rowNames(rep.Rows))
	assert.Equal(t, Totals{N: 7, O: 20, Q: 2, R: 2}, rep.Rows[3].Totals)
	assert.Equal(t, int64(262), rep.GrandTotal.N)

	require.Len(t, rep.Warnings, 1)
	assert.Equal(t, WarnOverlappingMember, rep.Warnings[0].Code)
	assert.Equal(t, "B", rep.Warnings[0].Group)
}

func TestBuildReport_NormalizedNameJoin(t *testing.T) {
	dir := Directory{{Name: "Mobile", Members: []string{"  EQUIPE   mobile "}}}

	rep := BuildReport(sampleFacilities(), sampleRecords(), dir, domain.Demographics{})

	require.Equal(t, RowMember, rep.Rows[1].Kind)
	assert.Equal(t, domain.FacilityID("4"), rep.Rows[1].FacilityID)
	assert.Equal(t, "Equipe mobile", rep.Rows[1].Name)
}

func TestBuildReport_DuplicateRecordsWarn(t *testing.T) {
	records := append(sampleRecords(), domain.CounterRecord{LocationID: "3", N: 5})

	rep := BuildReport(sampleFacilities(), records, nil, domain.Demographics{})

	require.Len(t, rep.Warnings, 1)
	assert.Equal(t, WarnDuplicateRecord, rep.Warnings[0].Code)
	assert.Equal(t, int64(20), rep.Rows[2].Totals.N)
}

func TestBuildReport_EmptySnapshot(t *testing.T) {
	rep := BuildReport(nil, nil, sampleDirectory(), domain.Demographics{})

	require.Len(t, rep.Rows, 1)
	assert.Equal(t, RowGroup, rep.Rows[0].Kind)
	assert.Equal(t, Totals{}, rep.GrandTotal)
	assert.Equal(t, NotApplicableSymbol, rep.GrandKPIs.WastageRate.String())
	assert.Equal(t, "0.00%", rep.Coverage.Overall.String())
}

func TestBuildReport_Coverage(t *testing.T) {
	facilities := []domain.Facility{{ID: "1", Name: "Polyclinique Centre"}}
	records := []domain.CounterRecord{{LocationID: "1", N: 250}}
	demo := domain.Demographics{EPSPName: "EPSP Test", Cible2To11m: 1000, Cible12To59m: 4000}

	rep := BuildReport(facilities, records, nil, demo)

	assert.Equal(t, "EPSP Test", rep.EPSPName)
	assert.Equal(t, "25.00%", rep.Coverage.Rate2To11m.String())
	assert.Equal(t, "6.25%", rep.Coverage.Rate12To59m.String())
	assert.Equal(t, "5.00%", rep.Coverage.Overall.String())
	assert.Equal(t, int64(5000), rep.Coverage.TargetTotal)
}

func TestBuildReport_CoverageWithoutTargets(t *testing.T) {
	c := ComputeCoverage(3, domain.Demographics{})

	assert.Equal(t, "300.00%", c.Rate2To11m.String())
	assert.Equal(t, "300.00%", c.Rate12To59m.String())
	assert.Equal(t, "300.00%", c.Overall.String())
}

func TestBuildReport_Idempotent(t *testing.T) {
	dir := Directory{
		{Name: "A", Members: []string{"Salle de soins Sud", "Nowhere"}},
		{Name: "B", Members: []string{"Salle de soins Sud", "Equipe mobile"}},
	}
	demo := domain.Demographics{Cible2To11m: 900, Cible12To59m: 100}

	first, err := json.Marshal(BuildReport(sampleFacilities(), sampleRecords(), dir, demo))
	require.NoError(t, err)
	second, err := json.Marshal(BuildReport(sampleFacilities(), sampleRecords(), dir, demo))
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
}
