package report

import "github.com/andresuchdata/vaxstock/backend-go/internal/domain"

// SumForFacilities resolves names to facility ids by exact name match and sums
// the counters of every record belonging to one of them. Names without a
// matching facility contribute nothing.
func SumForFacilities(names []string, facilities []domain.Facility, records []domain.CounterRecord) Totals {
	wanted := make(map[string]struct{}, len(names))
	for _, name := range names {
		wanted[name] = struct{}{}
	}

	ids := make(map[domain.FacilityID]struct{}, len(names))
	for _, f := range facilities {
		if _, ok := wanted[f.Name]; ok {
			ids[f.ID] = struct{}{}
		}
	}

	var total Totals
	if len(ids) == 0 {
		return total
	}
	for _, rec := range records {
		if _, ok := ids[rec.LocationID]; ok {
			total = total.Add(TotalsOf(rec))
		}
	}
	return total
}

// Index maps a facility id to its summed counters. It is built once per report
// so groups do not rescan the record list.
type Index map[domain.FacilityID]Totals

// NewIndex sums records per facility. Facilities with more than one record are
// returned in first-seen order; their records are summed like any other.
func NewIndex(records []domain.CounterRecord) (Index, []domain.FacilityID) {
	idx := make(Index, len(records))
	var duplicates []domain.FacilityID
	seen := make(map[domain.FacilityID]int, len(records))

	for _, rec := range records {
		idx[rec.LocationID] = idx[rec.LocationID].Add(TotalsOf(rec))
		seen[rec.LocationID]++
		if seen[rec.LocationID] == 2 {
			duplicates = append(duplicates, rec.LocationID)
		}
	}
	return idx, duplicates
}

// Sum adds up the totals of the given facilities. Unknown ids count as zero.
func (idx Index) Sum(ids []domain.FacilityID) Totals {
	var total Totals
	for _, id := range ids {
		total = total.Add(idx[id])
	}
	return total
}
