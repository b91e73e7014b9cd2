/*
contribution.go - Social contribution and supplementary pension

PURPOSE:
  Cumulative marginal tiered contribution: each bracket contributes
  (min(base, bracket.max) - bracket.min) * rate for the span the base
  actually covers. This is NOT a single-rate lookup.

  Ceiling-applicable regimes clamp the base to the table ceiling first;
  the amount above the ceiling is reported separately as the excess, which
  feeds the supplementary-pension formula.

SUPPLEMENTARY PENSION:
  result = excess * (mandatoryRate + voluntaryRate)
  Excess is zero whenever the regime has no ceiling or the participant is
  not enrolled. The voluntary rate arrives as an already-normalized
  fraction at the call site.
*/
package payroll

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// CONTRIBUTION CALCULATOR
// =============================================================================

// ContributionResult carries both figures a regime may need.
type ContributionResult struct {
	// Contribution is the tiered amount on the (possibly clamped) base.
	Contribution decimal.Decimal

	// Excess is max(0, base - ceiling) for capped regimes, zero otherwise.
	// It is the supplementary-pension base.
	Excess decimal.Decimal
}

// Contribution computes the cumulative tiered contribution for the base.
// When capped is true the base is clamped to the table ceiling before the
// bracket walk and the amount above the ceiling is reported as Excess.
// An empty bracket list degrades to zero contribution.
func Contribution(base decimal.Decimal, table ContributionTable, capped bool) ContributionResult {
	base = ClampNonNegative(base)

	result := ContributionResult{Contribution: decimal.Zero, Excess: decimal.Zero}
	effective := base

	if capped && table.Ceiling.IsPositive() {
		if base.GreaterThan(table.Ceiling) {
			result.Excess = base.Sub(table.Ceiling)
			effective = table.Ceiling
		}
	}

	for _, b := range table.Brackets {
		if !effective.GreaterThan(b.Min) {
			continue
		}
		top := decimal.Min(effective, b.Max)
		span := top.Sub(b.Min)
		if !span.IsPositive() {
			continue
		}
		result.Contribution = result.Contribution.Add(span.Mul(ClampNonNegative(b.Rate)))
	}

	return result
}

// =============================================================================
// SUPPLEMENTARY PENSION
// =============================================================================

// SupplementaryPension applies the mandatory plus voluntary rates to the
// ceiling excess. Both rates are fractions.
func SupplementaryPension(excess, mandatoryRate, voluntaryRate decimal.Decimal) decimal.Decimal {
	excess = ClampNonNegative(excess)
	if excess.IsZero() {
		return decimal.Zero
	}
	rate := ClampNonNegative(mandatoryRate).Add(ClampNonNegative(voluntaryRate))
	return excess.Mul(rate)
}
