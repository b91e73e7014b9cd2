package payroll

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// FUNCTION SUBSTITUTION
// =============================================================================

// substitutionPay pays the difference between the substituted function's
// value and the current baseline (current function value plus specific
// gratification), prorated by days. Functions at or below the baseline
// are never compensated.
func (e *Engine) substitutionPay(p CalculationParams, base BaseComposition) decimal.Decimal {
	if len(p.Substitutions) == 0 {
		return decimal.Zero
	}
	divisor := e.cfg.Rules.DaysPerMonth
	if !divisor.IsPositive() {
		return decimal.Zero
	}

	baseline := base.FunctionValue.Add(base.SpecificGratification)
	total := decimal.Zero
	for _, s := range p.Substitutions {
		target := EscalateValue(e.cfg.FunctionTable.Lookup(s.FunctionCode), p.PeriodIndex, e.cfg.Adjustments)
		diff := target.Sub(baseline)
		if !diff.IsPositive() {
			continue
		}
		total = total.Add(diff.Div(divisor).Mul(ClampNonNegative(s.Days)))
	}
	return Round2(total)
}

// =============================================================================
// COMPENSATORY LEAVE INDEMNITY
// =============================================================================

// leaveIndemnity pays unused compensatory leave:
// (full base with the chosen-or-current function value, plus the
// permanence-bonus estimate) / days-per-month * days.
func (e *Engine) leaveIndemnity(p CalculationParams, base BaseComposition, bonusEstimate decimal.Decimal) decimal.Decimal {
	days := ClampNonNegative(p.CompensatoryLeaveDays)
	if days.IsZero() {
		return decimal.Zero
	}
	divisor := e.cfg.Rules.DaysPerMonth
	if !divisor.IsPositive() {
		return decimal.Zero
	}

	functionValue := base.FunctionValue
	if p.LeaveFunctionCode != "" {
		functionValue = Round2(EscalateValue(e.cfg.FunctionTable.Lookup(p.LeaveFunctionCode), p.PeriodIndex, e.cfg.Adjustments))
	}

	daily := base.TotalWithoutFunction().Add(functionValue).Add(bonusEstimate).Div(divisor)
	return Round2(daily.Mul(days))
}
