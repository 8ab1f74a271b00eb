package report

import "github.com/shopspring/decimal"

// WastagePopulationPerDose is the vaccination program's population-per-dose-unit
// constant used by the wastage model.
const WastagePopulationPerDose = 50

var hundred = decimal.NewFromInt(100)

// KPIs are the metrics derived from a set of totals.
type KPIs struct {
	Usable      int64 `json:"usable"`
	WastageRate Rate  `json:"wastage_rate"`
}

// ComputeKPIs derives usable stock and the wastage rate:
//
//	usable = O - Q - R
//	denom  = (Q + R) * WastagePopulationPerDose
//	rate   = (denom - N) / denom * 100
//
// A zero denominator yields the not-applicable rate. Neither value is clamped.
func ComputeKPIs(t Totals) KPIs {
	kpis := KPIs{Usable: t.Usable(), WastageRate: NotApplicable()}

	denom := (t.Q + t.R) * WastagePopulationPerDose
	if denom == 0 {
		return kpis
	}

	kpis.WastageRate = percentage(denom-t.N, denom)
	return kpis
}

// CoverageRate is n as a percentage of target. A zero or negative target
// counts as 1.
func CoverageRate(n, target int64) Rate {
	if target <= 0 {
		target = 1
	}
	return percentage(n, target)
}

func percentage(num, denom int64) Rate {
	return NewRate(decimal.NewFromInt(num).Mul(hundred).Div(decimal.NewFromInt(denom)))
}
