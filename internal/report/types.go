package report

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/andresuchdata/vaxstock/backend-go/internal/domain"
	"github.com/shopspring/decimal"
)

// NotApplicableSymbol is how a rate with a zero denominator is rendered,
// for single facilities, groups and the grand total alike.
const NotApplicableSymbol = "-"

// Totals are summed inventory counters.
type Totals struct {
	N int64 `json:"N"`
	O int64 `json:"O"`
	Q int64 `json:"Q"`
	R int64 `json:"R"`
}

// TotalsOf converts a counter record into totals.
func TotalsOf(rec domain.CounterRecord) Totals {
	return Totals{
		N: rec.N.Int64(),
		O: rec.O.Int64(),
		Q: rec.Q.Int64(),
		R: rec.R.Int64(),
	}
}

// Add returns the counter-wise sum of t and o.
func (t Totals) Add(o Totals) Totals {
	return Totals{
		N: t.N + o.N,
		O: t.O + o.O,
		Q: t.Q + o.Q,
		R: t.R + o.R,
	}
}

// Usable is O - Q - R. A negative value signals over-consumption or a data
// entry anomaly and is reported as is.
func (t Totals) Usable() int64 {
	return t.O - t.Q - t.R
}

// Rate is a percentage, or the not-applicable sentinel when its denominator was zero.
type Rate struct {
	value      decimal.Decimal
	applicable bool
}

// NotApplicable returns the sentinel rate.
func NotApplicable() Rate { return Rate{} }

// NewRate wraps a percentage value.
func NewRate(pct decimal.Decimal) Rate {
	return Rate{value: pct, applicable: true}
}

// Applicable is false for the sentinel.
func (r Rate) Applicable() bool { return r.applicable }

// Decimal returns the unrounded percentage; zero for the sentinel.
func (r Rate) Decimal() decimal.Decimal { return r.value }

// String formats the rate with two decimals and a percent sign.
func (r Rate) String() string {
	if !r.applicable {
		return NotApplicableSymbol
	}
	return r.value.StringFixed(2) + "%"
}

func (r Rate) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

func (r *Rate) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	s = strings.TrimSpace(s)
	if s == "" || s == NotApplicableSymbol {
		*r = NotApplicable()
		return nil
	}
	d, err := decimal.NewFromString(strings.TrimSuffix(s, "%"))
	if err != nil {
		return fmt.Errorf("invalid rate %q: %w", s, err)
	}
	*r = NewRate(d)
	return nil
}

// RowKind tells group totals, group members and ungrouped facilities apart.
type RowKind string

const (
	RowGroup     RowKind = "group"
	RowMember    RowKind = "member"
	RowUngrouped RowKind = "ungrouped"
)

// Row is one line of the report table.
type Row struct {
	Kind       RowKind           `json:"kind"`
	Group      string            `json:"group,omitempty"`
	FacilityID domain.FacilityID `json:"facility_id,omitempty"`
	Name       string            `json:"name"`
	Type       string            `json:"type,omitempty"`
	Totals     Totals            `json:"totals"`
	KPIs       KPIs              `json:"kpis"`
}

// Coverage is doses administered against the demographic targets.
type Coverage struct {
	Target2To11m  int64 `json:"target_2_11m"`
	Target12To59m int64 `json:"target_12_59m"`
	TargetTotal   int64 `json:"target_total"`
	Rate2To11m    Rate  `json:"coverage_2_11m"`
	Rate12To59m   Rate  `json:"coverage_12_59m"`
	Overall       Rate  `json:"coverage"`
}

// Report is the assembled report: ordered rows, grand total and top-level KPIs.
type Report struct {
	EPSPName   string    `json:"epsp_name"`
	Rows       []Row     `json:"rows"`
	GrandTotal Totals    `json:"grand_total"`
	GrandKPIs  KPIs      `json:"grand_kpis"`
	Coverage   Coverage  `json:"coverage"`
	Warnings   []Warning `json:"warnings"`
}
