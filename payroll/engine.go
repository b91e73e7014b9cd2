/*
engine.go - Payroll orchestrator

PURPOSE:
  Composes every component result plus the free-form manual line items
  into gross total, total deductions and net pay. Owns the canonical
  lists of what counts as taxable, contribution-bearing, or prior-period
  (EA) income.

CANONICAL INCOME LISTS:
  Contribution-bearing: salary, gratification, specific gratification,
    fixed extras, overtime, substitution, the function value only for
    regimes that include it, and manual items flagged as such.
  Taxable: the contribution-bearing set plus qualification, function
    value, leave indemnity and the vacation third (unless anticipated),
    minus the contribution itself. Benefits and travel allowances are
    indemnities and stay out.
  EA: manual items flagged prior-period; taxed with the progressive
    brackets, never the top-rate shortcut.

PURITY:
  Calculate is a pure function of params + config. No shared mutable
  state; callers may run many calculations concurrently against the same
  config snapshot.

SEE ALSO:
  - components.go, vacation.go, thirteenth.go, overtime.go,
    substitution.go, dailies.go: The component calculators
  - types.go: Breakdown key contract
*/
package payroll

import (
	"github.com/shopspring/decimal"
)

// CreditKeys lists every breakdown key composed into TotalGross.
// Together with DebitKeys this is part of the output contract: summing
// the listed credit lines minus the listed debit lines reproduces NetPay.
var CreditKeys = []string{
	KeyBaseSalary,
	KeyGratification,
	KeySpecificGratification,
	KeyQualification,
	KeyFunctionValue,
	KeyFixedExtras,
	KeyFoodBenefit,
	KeyTransportBenefit,
	KeyVacationThird,
	KeyThirteenthAdvanceBase,
	KeyThirteenthAdvanceFunction,
	KeyThirteenthSalary,
	KeyOvertime50,
	KeyOvertime100,
	KeySubstitution,
	KeyLeave,
	KeyDailiesNet,
	KeyManualCredits,
}

// DebitKeys lists every breakdown key composed into TotalDeductions.
var DebitKeys = []string{
	KeyIncomeTax,
	KeyIncomeTaxPriorPeriod,
	KeyContribution,
	KeySupplementaryPension,
	KeyThirteenthContribution,
	KeyThirteenthTax,
	KeyTransportDiscount,
	KeyVacationThirdDebit,
	KeyManualDebits,
}

// =============================================================================
// ENGINE
// =============================================================================

// Engine computes payroll results against one immutable config snapshot.
type Engine struct {
	cfg *OrganizationConfig
}

// NewEngine validates the fatal preconditions: the engine must not guess
// rule constants, so an absent config or absent rules is an error.
func NewEngine(cfg *OrganizationConfig) (*Engine, error) {
	if cfg == nil {
		return nil, ErrMissingConfig
	}
	if cfg.Rules == nil {
		return nil, ErrMissingRules
	}
	return &Engine{cfg: cfg}, nil
}

// Calculate is a convenience for one-shot calls.
func Calculate(cfg *OrganizationConfig, p CalculationParams) (CalculationResult, error) {
	engine, err := NewEngine(cfg)
	if err != nil {
		return CalculationResult{}, err
	}
	return engine.Calculate(p)
}

// =============================================================================
// ORCHESTRATION
// =============================================================================

// Calculate composes all component results into the final figures.
// NetPay always equals TotalGross minus TotalDeductions exactly: both
// totals are sums of the same breakdown lines the caller can inspect.
func (e *Engine) Calculate(p CalculationParams) (CalculationResult, error) {
	if e == nil || e.cfg == nil {
		return CalculationResult{}, ErrMissingConfig
	}
	if e.cfg.Rules == nil {
		return CalculationResult{}, ErrMissingRules
	}

	bd := Breakdown{}
	gross := decimal.Zero
	deductions := decimal.Zero

	credit := func(key string, amount decimal.Decimal) {
		if amount.IsZero() && key != KeyBaseSalary {
			return
		}
		bd[key] = amount
		gross = gross.Add(amount)
	}
	debit := func(key string, amount decimal.Decimal) {
		if amount.IsZero() && key != KeyIncomeTax && key != KeyContribution {
			return
		}
		bd[key] = amount
		deductions = deductions.Add(amount)
	}
	info := func(key string, amount decimal.Decimal) {
		if !amount.IsZero() {
			bd[key] = amount
		}
	}

	// ---- Components -------------------------------------------------------

	base := e.baseComposition(p)
	bonusEstimate := e.permanenceBonusEstimate(p, base)

	credit(KeyBaseSalary, base.Salary)
	credit(KeyGratification, base.Gratification)
	credit(KeySpecificGratification, base.SpecificGratification)
	credit(KeyQualification, base.Qualification)
	credit(KeyFunctionValue, base.FunctionValue)
	credit(KeyFixedExtras, base.FixedExtras)

	foodBenefit := e.foodBenefit(p)
	transportBenefit, transportDiscount := e.transportBenefit(p, base.Salary)
	credit(KeyFoodBenefit, foodBenefit)
	credit(KeyTransportBenefit, transportBenefit)
	debit(KeyTransportDiscount, transportDiscount)

	overtime := e.overtime(p, base, bonusEstimate)
	credit(KeyOvertime50, overtime.Premium50)
	credit(KeyOvertime100, overtime.Premium100)

	substitution := e.substitutionPay(p, base)
	credit(KeySubstitution, substitution)

	leave := e.leaveIndemnity(p, base, bonusEstimate)
	credit(KeyLeave, leave)

	vacation := e.vacationThird(p, base)
	credit(KeyVacationThird, vacation.Amount)
	debit(KeyVacationThirdDebit, vacation.AdvanceDebit)

	thirteenth := e.thirteenth(p, base)
	credit(KeyThirteenthAdvanceBase, thirteenth.AdvanceBase)
	credit(KeyThirteenthAdvanceFunction, thirteenth.AdvanceFunction)
	credit(KeyThirteenthSalary, thirteenth.Full)
	debit(KeyThirteenthContribution, thirteenth.Contribution)
	debit(KeyThirteenthTax, thirteenth.Tax)

	if p.Dailies != nil {
		dailiesCfg := e.cfg.Dailies
		// Under the derived scheme an unset reference per-diem falls back
		// to the reference value: the period-adjusted salary times the
		// configured reference-value rate.
		if dailiesCfg.DerivedScheme && !dailiesCfg.ReferencePerDiem.IsPositive() {
			dailiesCfg.ReferencePerDiem = base.Salary.Mul(ClampNonNegative(e.cfg.Rules.ReferenceValueRate))
		}
		resolver := &DailiesResolver{
			Config:           dailiesCfg,
			FoodMonthly:      ClampNonNegative(e.cfg.Benefits.FoodMonthly),
			TransportMonthly: e.transportMonthly(),
		}
		dailies := resolver.Resolve(*p.Dailies, p.Role, p.FunctionCode)
		info(KeyDailiesGross, dailies.Gross)
		info(KeyDailiesCut, dailies.Cut)
		info(KeyDailiesGloss, dailies.Gloss)
		info(KeyDailiesFoodDiscount, dailies.FoodDiscount)
		info(KeyDailiesTransportDiscount, dailies.TransportDiscount)
		credit(KeyDailiesNet, dailies.Net)
	}

	// ---- Manual line items ------------------------------------------------

	manualCredits := decimal.Zero
	manualDebits := decimal.Zero
	taxableItems := decimal.Zero
	contributionItems := decimal.Zero
	priorPeriodItems := decimal.Zero

	for _, item := range p.LineItems {
		amount := Round2(ClampNonNegative(item.Amount))
		if !item.IsCredit {
			manualDebits = manualDebits.Add(amount)
			continue
		}
		manualCredits = manualCredits.Add(amount)
		if item.IsPriorPeriodIncome {
			if item.IncludeInTaxBase {
				priorPeriodItems = priorPeriodItems.Add(amount)
			}
			continue
		}
		if item.IncludeInTaxBase {
			taxableItems = taxableItems.Add(amount)
		}
		if item.IncludeInContributionBase {
			contributionItems = contributionItems.Add(amount)
		}
	}
	credit(KeyManualCredits, manualCredits)
	debit(KeyManualDebits, manualDebits)

	// ---- Contribution and pension -----------------------------------------

	contributionBase := base.Salary.
		Add(base.Gratification).
		Add(base.SpecificGratification).
		Add(base.FixedExtras).
		Add(overtime.Premium50).
		Add(overtime.Premium100).
		Add(substitution).
		Add(contributionItems)
	if p.FunctionInContributionBase {
		contributionBase = contributionBase.Add(base.FunctionValue)
	}

	table := e.cfg.ContributionTableFor(p.ContributionTableKey)
	contributionResult := Contribution(contributionBase, table, p.CeilingApplies)
	contribution := Round2(contributionResult.Contribution)
	debit(KeyContribution, contribution)
	info(KeyContributionExcess, contributionResult.Excess)

	if p.SupplementaryPension {
		pension := Round2(SupplementaryPension(
			contributionResult.Excess,
			e.cfg.Rules.SupplementaryPensionRate,
			p.VoluntaryPensionRate,
		))
		debit(KeySupplementaryPension, pension)
	}

	// ---- Taxes ------------------------------------------------------------

	taxableBase := contributionBase.
		Add(base.Qualification).
		Add(leave).
		Add(taxableItems).
		Sub(contribution)
	if !p.FunctionInContributionBase {
		taxableBase = taxableBase.Add(base.FunctionValue)
	}
	if vacation.Taxable {
		taxableBase = taxableBase.Add(vacation.Amount)
	}

	taxTable := e.cfg.TaxTableFor(p.TaxTableKey)
	tax := Round2(SimpleTax(taxableBase, e.cfg.Rules.TopTaxRate, taxTable.FixedDeduction))
	debit(KeyIncomeTax, tax)

	if priorPeriodItems.IsPositive() {
		priorTax := Round2(ProgressiveTax(priorPeriodItems, taxTable.Brackets))
		debit(KeyIncomeTaxPriorPeriod, priorTax)
	}

	// ---- Totals -----------------------------------------------------------

	return CalculationResult{
		NetPay:          gross.Sub(deductions),
		TotalGross:      gross,
		TotalDeductions: deductions,
		TotalBenefits:   foodBenefit.Add(transportBenefit),
		Breakdown:       bd,
	}, nil
}
