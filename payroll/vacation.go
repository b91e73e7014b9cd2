package payroll

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// VACATION THIRD
// =============================================================================

// VacationThirdResult carries the credit and, when the third was advanced
// in a prior period, the matching debit that prevents double payment.
type VacationThirdResult struct {
	Amount decimal.Decimal

	// Taxable is false when the third was anticipated: it was already
	// taxed in the period it was advanced.
	Taxable bool

	// AdvanceDebit matches the third (or the manually supplied amount)
	// when anticipated, zero otherwise.
	AdvanceDebit decimal.Decimal
}

// vacationThird computes a third of the full base including the function
// value, overridable by a manual amount.
func (e *Engine) vacationThird(p CalculationParams, base BaseComposition) VacationThirdResult {
	if !p.VacationThird {
		return VacationThirdResult{}
	}

	amount := Round2(base.Total().Div(decimal.NewFromInt(3)))
	if p.VacationThirdOverride != nil {
		amount = Round2(ClampNonNegative(*p.VacationThirdOverride))
	}

	result := VacationThirdResult{Amount: amount, Taxable: true}
	if p.VacationThirdAnticipated {
		result.Taxable = false
		result.AdvanceDebit = amount
		if p.VacationThirdAnticipatedDebit != nil {
			result.AdvanceDebit = Round2(ClampNonNegative(*p.VacationThirdAnticipatedDebit))
		}
	}
	return result
}
