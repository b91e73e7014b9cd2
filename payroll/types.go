/*
Package payroll implements the payroll calculation engine.

PURPOSE:
  This package contains the core types and algorithms for computing a
  public-sector employee's net pay from declarative inputs (role, pay
  tier, assigned function, benefit elections, time-based events) against
  an organization-specific rule configuration.

KEY CONCEPTS IN THIS FILE (types.go):
  - CalculationParams: One employee's inputs for one calculation
  - LineItem: Free-form manual credit/debit entries
  - CalculationResult: Net pay, totals, and the named Breakdown
  - Breakdown keys: A stable contract consumed by export/presentation layers

DESIGN PRINCIPLES:
  1. Purity: Every calculation is a pure function of params + config
  2. Precision: Uses decimal.Decimal to avoid floating-point errors
  3. Degradation: Missing optional tables resolve to zero, never panic
  4. Stability: Breakdown key names are a documented contract

USAGE:
  engine, err := payroll.NewEngine(cfg)
  result, err := engine.Calculate(params)
  fmt.Println(result.NetPay, result.Breakdown[payroll.KeyBaseSalary])

SEE ALSO:
  - config.go: OrganizationConfig and rule tables
  - engine.go: The orchestrator composing all components
  - dailies.go: Travel-allowance resolver
*/
package payroll

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// MONEY HELPERS
// =============================================================================

// Money creates a decimal monetary value from a float literal.
// Convenience for call sites and tests; storage always uses decimal.
func Money(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}

// MustParseMoney parses a decimal string, returning zero on failure.
func MustParseMoney(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Round2 rounds to 2 decimal places. Applied only at documented points:
// component outputs and the dailies gross.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// ClampNonNegative floors a value at zero. All day counts, percentages and
// monetary inputs pass through this before use.
func ClampNonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// =============================================================================
// LINE ITEMS - Free-form manual credits and debits
// =============================================================================

// LineItem is a manually entered credit or debit composed into the totals
// by the orchestrator.
type LineItem struct {
	Description string
	IsCredit    bool
	Amount      decimal.Decimal

	// IncludeInTaxBase marks the amount as taxable income.
	IncludeInTaxBase bool

	// IncludeInContributionBase marks the amount as contribution-bearing.
	IncludeInContributionBase bool

	// IsPriorPeriodIncome marks income attributable to an earlier fiscal
	// period. Such income is taxed with the progressive bracket method
	// instead of the simplified top-rate formula.
	IsPriorPeriodIncome bool
}

// =============================================================================
// SUBSTITUTION - Days spent substituting another function
// =============================================================================

type Substitution struct {
	FunctionCode string
	Days         decimal.Decimal
}

// =============================================================================
// EMBARKATION - Addition options for travel allowances
// =============================================================================

type EmbarkationOption string

const (
	EmbarkationNone EmbarkationOption = "none"
	EmbarkationHalf EmbarkationOption = "half"
	EmbarkationFull EmbarkationOption = "full"
)

// =============================================================================
// DAILIES PARAMS - Travel-allowance inputs
// =============================================================================

// DailiesParams selects between two input modes:
//   - Date-range mode: StartDate/EndDate parse as ISO dates (2006-01-02)
//   - Manual mode: ManualDays plus manual discount-day counts
//
// Malformed dates degrade to manual mode rather than failing the whole
// calculation.
type DailiesParams struct {
	// Date-range mode (inclusive both ends; swapped if reversed).
	StartDate string
	EndDate   string

	// Manual mode fallback.
	ManualDays                  decimal.Decimal
	ManualFoodDiscountDays      decimal.Decimal
	ManualTransportDiscountDays decimal.Decimal

	Embarkation EmbarkationOption

	// External gloss: benefit already provided in kind during travel.
	LodgingProvided   bool
	MealsProvided     bool
	TransportProvided bool

	// Internal benefit discounts.
	DiscountFood      bool
	DiscountTransport bool
}

// =============================================================================
// CALCULATION PARAMS - One employee, one period, one calculation
// =============================================================================

// CalculationParams is the flat caller-supplied record for one calculation.
// The period index is explicit: auto-selection of the active period is the
// presentation layer's job (via ActivePeriodIndex), never the engine's.
type CalculationParams struct {
	OrganizationID string

	Role         string
	PayTier      string
	FunctionCode string
	PeriodIndex  int

	// Base composition extras.
	QualificationAmount   decimal.Decimal
	SpecificGratification bool
	FixedExtras           decimal.Decimal

	// Contribution / pension regime.
	ContributionTableKey       string
	TaxTableKey                string
	CeilingApplies             bool
	SupplementaryPension       bool
	VoluntaryPensionRate       decimal.Decimal // already-normalized fraction
	FunctionInContributionBase bool

	// Benefit elections.
	FoodBenefit      bool
	TransportBenefit bool

	// Vacation third.
	VacationThird                 bool
	VacationThirdOverride         *decimal.Decimal
	VacationThirdAnticipated      bool
	VacationThirdAnticipatedDebit *decimal.Decimal

	// 13th salary.
	Thirteenth                        bool
	ClosingPeriod                     bool
	ThirteenthBaseAdvanceOverride     *decimal.Decimal
	ThirteenthFunctionAdvanceOverride *decimal.Decimal

	// Overtime.
	OvertimeHours50  decimal.Decimal
	OvertimeHours100 decimal.Decimal
	PermanenceBonus  bool

	// Function substitution and compensatory leave.
	Substitutions         []Substitution
	CompensatoryLeaveDays decimal.Decimal
	LeaveFunctionCode     string // empty = use the currently assigned function

	// Travel allowance. Nil means no travel this period.
	Dailies *DailiesParams

	LineItems []LineItem
}

// =============================================================================
// BREAKDOWN KEYS - Stable output contract
// =============================================================================

// Breakdown key names are a documented contract consumed by presentation and
// export collaborators. Renaming a key is a breaking change.
const (
	KeyBaseSalary            = "base_salary"
	KeyGratification         = "gratification"
	KeySpecificGratification = "specific_gratification"
	KeyQualification         = "qualification_addition"
	KeyFunctionValue         = "function_value"
	KeyFixedExtras           = "fixed_extras"

	KeyFoodBenefit       = "food_benefit"
	KeyTransportBenefit  = "transport_benefit"
	KeyTransportDiscount = "transport_discount"

	KeyVacationThird      = "vacation_third"
	KeyVacationThirdDebit = "vacation_third_advance_debit"

	KeyThirteenthAdvanceBase     = "thirteenth_advance_base"
	KeyThirteenthAdvanceFunction = "thirteenth_advance_function"
	KeyThirteenthSalary          = "thirteenth_salary"
	KeyThirteenthContribution    = "thirteenth_contribution"
	KeyThirteenthTax             = "thirteenth_tax"

	KeyOvertime50   = "overtime_50"
	KeyOvertime100  = "overtime_100"
	KeySubstitution = "substitution"
	KeyLeave        = "leave_indemnity"

	KeyDailiesGross             = "dailies_gross"
	KeyDailiesCut               = "dailies_cap_cut"
	KeyDailiesGloss             = "dailies_gloss"
	KeyDailiesFoodDiscount      = "dailies_food_discount"
	KeyDailiesTransportDiscount = "dailies_transport_discount"
	KeyDailiesNet               = "dailies_net"

	KeyIncomeTax            = "income_tax"
	KeyIncomeTaxPriorPeriod = "income_tax_prior_period"
	KeyContribution         = "contribution"
	KeyContributionExcess   = "contribution_ceiling_excess"
	KeySupplementaryPension = "supplementary_pension"

	KeyManualCredits = "manual_credits"
	KeyManualDebits  = "manual_debits"
)

// =============================================================================
// CALCULATION RESULT
// =============================================================================

// Breakdown maps stable key names to sub-amounts. It is purely derived
// output data, rebuilt on every call.
type Breakdown map[string]decimal.Decimal

// Get returns the named amount, or zero when absent.
func (b Breakdown) Get(key string) decimal.Decimal {
	if v, ok := b[key]; ok {
		return v
	}
	return decimal.Zero
}

// CalculationResult is the engine output. NetPay always equals
// TotalGross minus TotalDeductions exactly.
type CalculationResult struct {
	NetPay          decimal.Decimal
	TotalGross      decimal.Decimal
	TotalDeductions decimal.Decimal
	TotalBenefits   decimal.Decimal
	Breakdown       Breakdown
}
