/*
components.go - Base-pay composition and benefit amounts

PURPOSE:
  Every component calculator starts from the same period-adjusted base
  composition: tier salary, gratification, specific gratification,
  qualification addition, function value and manually entered fixed
  extras. This file builds that composition and the benefit credits.

ESCALATION:
  Table values (salary, function) pass through EscalateValue with the
  caller-supplied period index before composition. Rates derived from the
  salary (gratification, specific gratification) inherit the escalation
  multiplicatively.

DEGRADATION:
  Missing table entries resolve to zero pieces; only an absent config or
  absent rules is fatal (checked in NewEngine).
*/
package payroll

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// BASE COMPOSITION
// =============================================================================

// BaseComposition is the period-adjusted set of base-pay pieces. Each
// piece is rounded to 2 decimals so every downstream sum is exact.
type BaseComposition struct {
	Salary                decimal.Decimal
	Gratification         decimal.Decimal
	SpecificGratification decimal.Decimal
	Qualification         decimal.Decimal
	FunctionValue         decimal.Decimal
	FixedExtras           decimal.Decimal
}

// TotalWithoutFunction sums every piece except the function value.
func (b BaseComposition) TotalWithoutFunction() decimal.Decimal {
	return b.Salary.
		Add(b.Gratification).
		Add(b.SpecificGratification).
		Add(b.Qualification).
		Add(b.FixedExtras)
}

// Total is the full base including the function value.
func (b BaseComposition) Total() decimal.Decimal {
	return b.TotalWithoutFunction().Add(b.FunctionValue)
}

func (e *Engine) baseComposition(p CalculationParams) BaseComposition {
	rules := e.cfg.Rules

	salary := EscalateValue(e.cfg.SalaryTable.Lookup(p.Role, p.PayTier), p.PeriodIndex, e.cfg.Adjustments)
	salary = Round2(salary)

	gratification := Round2(salary.Mul(ClampNonNegative(rules.GratificationMultiplier)))

	specific := decimal.Zero
	if p.SpecificGratification {
		specific = Round2(salary.Mul(ClampNonNegative(rules.SpecificGratificationRate)))
	}

	function := EscalateValue(e.cfg.FunctionTable.Lookup(p.FunctionCode), p.PeriodIndex, e.cfg.Adjustments)

	return BaseComposition{
		Salary:                salary,
		Gratification:         gratification,
		SpecificGratification: specific,
		Qualification:         Round2(ClampNonNegative(p.QualificationAmount)),
		FunctionValue:         Round2(function),
		FixedExtras:           Round2(ClampNonNegative(p.FixedExtras)),
	}
}

// =============================================================================
// BENEFITS
// =============================================================================

func (e *Engine) foodBenefit(p CalculationParams) decimal.Decimal {
	if !p.FoodBenefit {
		return decimal.Zero
	}
	return Round2(ClampNonNegative(e.cfg.Benefits.FoodMonthly))
}

// transportBenefit returns the monthly transport credit and the salary-based
// discount. The discount never exceeds the benefit itself.
func (e *Engine) transportBenefit(p CalculationParams, salary decimal.Decimal) (benefit, discount decimal.Decimal) {
	if !p.TransportBenefit {
		return decimal.Zero, decimal.Zero
	}
	rules := e.cfg.Rules

	benefit = Round2(ClampNonNegative(e.cfg.Benefits.TransportDaily).Mul(ClampNonNegative(rules.TransportWorkDays)))
	discount = Round2(salary.Mul(ClampNonNegative(rules.TransportDiscountRate)))
	if discount.GreaterThan(benefit) {
		discount = benefit
	}
	return benefit, discount
}

// transportMonthly is the discount base the dailies resolver divides by
// the configured transport divisor.
func (e *Engine) transportMonthly() decimal.Decimal {
	return Round2(ClampNonNegative(e.cfg.Benefits.TransportDaily).Mul(ClampNonNegative(e.cfg.Rules.TransportWorkDays)))
}

// =============================================================================
// PERMANENCE BONUS ESTIMATE
// =============================================================================

// permanenceBonusEstimate estimates the contribution on the permanence
// bonus, folded into the overtime and leave-indemnity bases. The bonus
// base always excludes the qualification addition; the function value and
// specific gratification are included only when the regime carries the
// function value in the contribution base.
func (e *Engine) permanenceBonusEstimate(p CalculationParams, base BaseComposition) decimal.Decimal {
	if !p.PermanenceBonus {
		return decimal.Zero
	}
	rules := e.cfg.Rules
	if !rules.PermanenceBonusRate.IsPositive() {
		return decimal.Zero
	}

	bonusBase := base.Salary.Add(base.Gratification).Add(base.FixedExtras)
	if p.FunctionInContributionBase {
		bonusBase = bonusBase.Add(base.FunctionValue).Add(base.SpecificGratification)
	}

	bonus := bonusBase.Mul(ClampNonNegative(rules.PermanenceBonusRate))
	table := e.cfg.ContributionTableFor(p.ContributionTableKey)
	return Round2(Contribution(bonus, table, p.CeilingApplies).Contribution)
}
