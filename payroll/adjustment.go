/*
adjustment.go - Period adjustment schedule policies

PURPOSE:
  Two distinct selection policies over the same schedule shape:

  1. EscalateValue (compounding): applies every entry with
     period <= requested period as a successive multiplicative increase.
     Used for value escalation. Two consecutive 10% rounds on 100 yield
     121, not 120.

  2. ActivePeriodIndex (as-of lookup): picks the single latest entry whose
     effective date <= the given date. Used by presentation layers to
     auto-select the active period index for display.

  These are deliberately separate functions. A shared helper risks
  silently applying the wrong policy.

PERCENT NORMALIZATION:
  Schedule percentages arrive either as fractions (0.10) or whole
  percents (10). Values > 1 are divided by 100 before use.
*/
package payroll

import (
	"sort"

	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// normalizePercent converts whole-percent values (>1) to fractions.
func normalizePercent(p decimal.Decimal) decimal.Decimal {
	p = ClampNonNegative(p)
	if p.GreaterThan(decimal.NewFromInt(1)) {
		return p.Div(oneHundred)
	}
	return p
}

// =============================================================================
// COMPOUNDING ESCALATION
// =============================================================================

// EscalateValue applies every schedule entry with Period <= period to the
// value, ascending, each as a successive multiplicative increase. An empty
// or missing schedule returns the value unchanged.
func EscalateValue(value decimal.Decimal, period int, schedule []AdjustmentEntry) decimal.Decimal {
	if len(schedule) == 0 {
		return value
	}

	applicable := make([]AdjustmentEntry, 0, len(schedule))
	for _, e := range schedule {
		if e.Period <= period {
			applicable = append(applicable, e)
		}
	}
	sort.SliceStable(applicable, func(i, j int) bool {
		return applicable[i].Period < applicable[j].Period
	})

	one := decimal.NewFromInt(1)
	for _, e := range applicable {
		value = value.Mul(one.Add(normalizePercent(e.Percent)))
	}
	return value
}

// =============================================================================
// AS-OF LOOKUP
// =============================================================================

// ActivePeriodIndex returns the Period of the latest schedule entry whose
// EffectiveFrom <= asOf, for display-time auto-selection only. Entries
// without an effective date are skipped. Returns (0, false) when no entry
// qualifies.
func ActivePeriodIndex(schedule []AdjustmentEntry, asOf Date) (int, bool) {
	best := AdjustmentEntry{}
	found := false
	for _, e := range schedule {
		if e.EffectiveFrom.IsZero() || e.EffectiveFrom.After(asOf) {
			continue
		}
		if !found || e.EffectiveFrom.After(best.EffectiveFrom) ||
			(e.EffectiveFrom.Equal(best.EffectiveFrom) && e.Period > best.Period) {
			best = e
			found = true
		}
	}
	return best.Period, found
}
