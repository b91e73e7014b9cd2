/*
thirteenth.go - 13th salary (annual supplementary payment)

PURPOSE:
  Outside the designated closing period of the year, only advance halves
  are paid: half the base without the function value, and half the
  function value, each manually overridable.

  In the closing period the full 13th base is paid, with contribution and
  tax computed on the base minus the exempt qualification portion and
  minus the function value unless the regime includes function value in
  the contribution base. Tax uses the progressive brackets when the table
  carries them, falling back to the simple top-rate formula.
*/
package payroll

import (
	"github.com/shopspring/decimal"
)

// ThirteenthResult carries either the advance halves or the full closing
// figures; the unused side stays zero.
type ThirteenthResult struct {
	AdvanceBase     decimal.Decimal
	AdvanceFunction decimal.Decimal

	Full         decimal.Decimal
	Contribution decimal.Decimal
	Tax          decimal.Decimal
}

func (e *Engine) thirteenth(p CalculationParams, base BaseComposition) ThirteenthResult {
	if !p.Thirteenth {
		return ThirteenthResult{}
	}

	if !p.ClosingPeriod {
		return e.thirteenthAdvance(p, base)
	}
	return e.thirteenthClosing(p, base)
}

func (e *Engine) thirteenthAdvance(p CalculationParams, base BaseComposition) ThirteenthResult {
	two := decimal.NewFromInt(2)

	advBase := Round2(base.TotalWithoutFunction().Div(two))
	if p.ThirteenthBaseAdvanceOverride != nil {
		advBase = Round2(ClampNonNegative(*p.ThirteenthBaseAdvanceOverride))
	}

	advFunction := Round2(base.FunctionValue.Div(two))
	if p.ThirteenthFunctionAdvanceOverride != nil {
		advFunction = Round2(ClampNonNegative(*p.ThirteenthFunctionAdvanceOverride))
	}

	return ThirteenthResult{AdvanceBase: advBase, AdvanceFunction: advFunction}
}

func (e *Engine) thirteenthClosing(p CalculationParams, base BaseComposition) ThirteenthResult {
	full := Round2(base.Total())

	// Qualification amounts are exempt; the function value joins the
	// base only for regimes that carry it in the contribution base.
	exemptBase := full.Sub(base.Qualification)
	if !p.FunctionInContributionBase {
		exemptBase = exemptBase.Sub(base.FunctionValue)
	}
	exemptBase = ClampNonNegative(exemptBase)

	table := e.cfg.ContributionTableFor(p.ContributionTableKey)
	contribution := Round2(Contribution(exemptBase, table, p.CeilingApplies).Contribution)

	taxBase := exemptBase.Sub(contribution)
	taxTable := e.cfg.TaxTableFor(p.TaxTableKey)
	var tax decimal.Decimal
	if len(taxTable.Brackets) > 0 {
		tax = ProgressiveTax(taxBase, taxTable.Brackets)
	} else {
		tax = SimpleTax(taxBase, e.cfg.Rules.TopTaxRate, taxTable.FixedDeduction)
	}

	return ThirteenthResult{
		Full:         full,
		Contribution: contribution,
		Tax:          Round2(tax),
	}
}
