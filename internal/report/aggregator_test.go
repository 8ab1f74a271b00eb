package report

import (
	"testing"

	"github.com/andresuchdata/vaxstock/backend-go/internal/domain"
	"github.com/stretchr/testify/assert"
)

func sampleFacilities() []domain.Facility {
	return []domain.Facility{
		{ID: "1", Name: "Polyclinique Centre", Type: "Polyclinique"},
		{ID: "2", Name: "Salle de soins Nord", Type: "Salle de soins"},
		{ID: "3", Name: "Salle de soins Sud", Type: "Salle de soins"},
		{ID: "4", Name: "Equipe mobile", Type: "Equipe mobile"},
	}
}

func sampleRecords() []domain.CounterRecord {
	return []domain.CounterRecord{
		{LocationID: "1", N: 200, O: 500, Q: 4, R: 1},
		{LocationID: "2", N: 40, O: 90, Q: 1, R: 0},
		{LocationID: "3", N: 15, O: 30, Q: 0, R: 0},
		{LocationID: "4", N: 7, O: 20, Q: 2, R: 2},
	}
}

func TestSumForFacilities(t *testing.T) {
	got := SumForFacilities([]string{"Salle de soins Nord", "Salle de soins Sud"}, sampleFacilities(), sampleRecords())
	assert.Equal(t, Totals{N: 55, O: 120, Q: 1, R: 0}, got)
}

func TestSumForFacilities_UnknownNamesContributeNothing(t *testing.T) {
	got := SumForFacilities([]string{"Salle de soins Nord", "Nowhere"}, sampleFacilities(), sampleRecords())
	assert.Equal(t, Totals{N: 40, O: 90, Q: 1}, got)
}

func TestSumForFacilities_NoMatchIsZero(t *testing.T) {
	assert.Equal(t, Totals{}, SumForFacilities(nil, sampleFacilities(), sampleRecords()))
	assert.Equal(t, Totals{}, SumForFacilities([]string{"Nowhere"}, sampleFacilities(), sampleRecords()))
	assert.Equal(t, Totals{}, SumForFacilities([]string{"Equipe mobile"}, sampleFacilities(), nil))
}

func TestSumForFacilities_ExactNameMatch(t *testing.T) {
	got := SumForFacilities([]string{"equipe mobile"}, sampleFacilities(), sampleRecords())
	assert.Equal(t, Totals{}, got)
}

func TestSumForFacilities_Additive(t *testing.T) {
	facilities, records := sampleFacilities(), sampleRecords()

	a := SumForFacilities([]string{"Polyclinique Centre"}, facilities, records)
	b := SumForFacilities([]string{"Equipe mobile"}, facilities, records)
	both := SumForFacilities([]string{"Polyclinique Centre", "Equipe mobile"}, facilities, records)

	assert.Equal(t, a.Add(b), both)
	assert.Equal(t, a.N+b.N, both.N)
	assert.Equal(t, a.O+b.O, both.O)
	assert.Equal(t, a.Q+b.Q, both.Q)
	assert.Equal(t, a.R+b.R, both.R)
}

func TestSumForFacilities_OrderIndependent(t *testing.T) {
	facilities, records := sampleFacilities(), sampleRecords()
	reversed := make([]domain.CounterRecord, len(records))
	for i, rec := range records {
		reversed[len(records)-1-i] = rec
	}

	names := []string{"Polyclinique Centre", "Salle de soins Sud", "Equipe mobile"}
	assert.Equal(t,
		SumForFacilities(names, facilities, records),
		SumForFacilities(names, facilities, reversed),
	)
}

func TestNewIndex_SumsAndReportsDuplicates(t *testing.T) {
	records := append(sampleRecords(), domain.CounterRecord{LocationID: "2", N: 1, O: 1, Q: 1, R: 1})

	idx, dups := NewIndex(records)

	assert.Equal(t, []domain.FacilityID{"2"}, dups)
	assert.Equal(t, Totals{N: 41, O: 91, Q: 2, R: 1}, idx["2"])
	assert.Equal(t, Totals{}, idx["missing"])
	assert.Equal(t, Totals{N: 207, O: 520, Q: 6, R: 3}, idx.Sum([]domain.FacilityID{"1", "4", "missing"}))
}
