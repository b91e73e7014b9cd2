package payroll

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// OVERTIME
// =============================================================================

// OvertimeResult carries the two premium amounts separately; they are
// separate breakdown entries.
type OvertimeResult struct {
	Premium50  decimal.Decimal
	Premium100 decimal.Decimal
}

// overtime computes hourly premiums. The hourly rate divides the full
// base (plus the permanence-bonus contribution estimate, when the
// participant receives the bonus) by the monthly overtime-hour divisor.
func (e *Engine) overtime(p CalculationParams, base BaseComposition, bonusEstimate decimal.Decimal) OvertimeResult {
	hours50 := ClampNonNegative(p.OvertimeHours50)
	hours100 := ClampNonNegative(p.OvertimeHours100)
	if hours50.IsZero() && hours100.IsZero() {
		return OvertimeResult{}
	}

	divisor := e.cfg.Rules.OvertimeHourDivisor
	if !divisor.IsPositive() {
		return OvertimeResult{}
	}

	rate := base.Total().Add(bonusEstimate).Div(divisor)
	return OvertimeResult{
		Premium50:  Round2(rate.Mul(decimal.NewFromFloat(1.5)).Mul(hours50)),
		Premium100: Round2(rate.Mul(decimal.NewFromInt(2)).Mul(hours100)),
	}
}
