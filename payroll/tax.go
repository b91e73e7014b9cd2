/*
tax.go - Tax formulas

PURPOSE:
  Two interchangeable strategies over the versioned tax tables:

  Simple:      max(0, base * topRate - fixedDeduction)
               The default monthly figure.

  Progressive: genuine marginal bracket lookup, used for prior-period
               (EA) income which must not take the top-rate shortcut.

  Both clamp negative inputs to zero tax. Never negative tax.
*/
package payroll

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// SIMPLE FORMULA
// =============================================================================

// SimpleTax computes max(0, base*topRate - fixedDeduction).
func SimpleTax(base, topRate, fixedDeduction decimal.Decimal) decimal.Decimal {
	base = ClampNonNegative(base)
	tax := base.Mul(ClampNonNegative(topRate)).Sub(fixedDeduction)
	return ClampNonNegative(tax)
}

// =============================================================================
// PROGRESSIVE FORMULA
// =============================================================================

// ProgressiveTax finds the bracket where min < base <= max and computes
// max(0, base*rate - deduction). A base above every range falls back to
// the last bracket; an empty bracket list degrades to zero.
func ProgressiveTax(base decimal.Decimal, brackets []TaxBracket) decimal.Decimal {
	base = ClampNonNegative(base)
	if len(brackets) == 0 {
		return decimal.Zero
	}

	bracket := brackets[len(brackets)-1]
	for _, b := range brackets {
		if base.GreaterThan(b.Min) && base.LessThanOrEqual(b.Max) {
			bracket = b
			break
		}
	}

	tax := base.Mul(ClampNonNegative(bracket.Rate)).Sub(bracket.Deduction)
	return ClampNonNegative(tax)
}
