// backend-go/internal/domain/models.go
package domain

// Facility is a health-service delivery point (polyclinic, health center, mobile team).
type Facility struct {
	ID   FacilityID `json:"id" db:"id"`
	Name string     `json:"name" db:"name"`
	Type string     `json:"type" db:"type"`
}

// CounterRecord is one facility's counters summed over the reporting period.
// The json names match the pre-aggregated inventory form served by /api/data.
type CounterRecord struct {
	LocationID FacilityID `json:"location_id" db:"location_id"`
	N          Count      `json:"total_N" db:"total_n"`
	O          Count      `json:"total_O" db:"total_o"`
	Q          Count      `json:"total_Q" db:"total_q"`
	R          Count      `json:"total_R" db:"total_r"`
}

// InventoryEntry is a single weekly submission from a facility.
//   - N: doses administered
//   - O: opening / available stock
//   - Q: quantity discarded or expired
//   - R: quantity returned or rejected
type InventoryEntry struct {
	LocationID FacilityID `json:"location_id" db:"location_id"`
	Date       string     `json:"date" db:"entry_date"`
	N          Count      `json:"N" db:"n"`
	O          Count      `json:"O" db:"o"`
	Q          Count      `json:"Q" db:"q"`
	R          Count      `json:"R" db:"r"`
}

// Demographics holds the EPSP configuration and the coverage denominators.
type Demographics struct {
	EPSPName        string `json:"epsp_name" db:"epsp_name"`
	NbrPolyclinique Count  `json:"nbr_polyclinique" db:"nbr_polyclinique"`
	PopTotal        Count  `json:"pop_total" db:"pop_total"`
	Cible2To11m     Count  `json:"cible_2_11m" db:"cible_2_11m"`
	Cible12To59m    Count  `json:"cible_12_59m" db:"cible_12_59m"`
	CibleTotal      Count  `json:"cible_total" db:"-"`
}

// WithTotal returns a copy with CibleTotal derived from the two age-band targets.
func (d Demographics) WithTotal() Demographics {
	d.CibleTotal = d.Cible2To11m + d.Cible12To59m
	return d
}

// Snapshot is everything a dashboard refresh needs. It is replaced wholesale
// on every refresh and never merged.
type Snapshot struct {
	Demo      Demographics    `json:"demo"`
	Locations []Facility      `json:"locations"`
	Inventory []CounterRecord `json:"inventory"`
}

// Period bounds the inventory entries summed into a snapshot. Empty bounds are open.
type Period struct {
	From string `json:"from,omitempty"`
	To   string `json:"to,omitempty"`
}

// IsZero reports whether the period covers all entries.
func (p Period) IsZero() bool {
	return p.From == "" && p.To == ""
}
