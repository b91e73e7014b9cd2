/*
config.go - Organization-specific, versionable rule configuration

PURPOSE:
  Defines the OrganizationConfig consumed read-only by the engine: salary
  tables, tax brackets, contribution tables, benefit rates, travel-allowance
  rules, and the percentage-adjustment schedule. One snapshot is resolved
  per calculation call (by organization and as-of date) and treated as a
  value; the engine never mutates it.

KEY CONCEPTS:
  - SalaryTable: role -> pay tier -> base monetary value
  - FunctionTable: function code -> monetary value (NoFunctionCode = none)
  - ContributionTable: ceiling plus ordered cumulative brackets
  - TaxTable: fixed deduction (simple formula) and/or progressive brackets
  - PayrollRules: the named rate/divisor constants the engine must not guess
  - DailiesConfig: per-diem rates, embarkation, gloss, cap and discounts
  - AdjustmentEntry: one escalation round in the adjustment schedule

INVARIANTS:
  - All monetary tables are non-negative
  - Bracket lists are contiguous and non-overlapping, ordered ascending
  - Schedule percentages may be fractions (<=1) or whole percents (>1);
    the resolver normalizes them

SEE ALSO:
  - adjustment.go: Schedule selection policies
  - store.go: Versioned snapshot resolution
  - factory: JSON representation of this configuration
*/
package payroll

import (
	"github.com/shopspring/decimal"
)

// NoFunctionCode is the sentinel function code denoting "no assigned
// function". Its table value, if any, is ignored.
const NoFunctionCode = "none"

// =============================================================================
// RATE TABLES
// =============================================================================

// SalaryTable maps role -> pay tier -> base monetary value.
type SalaryTable map[string]map[string]decimal.Decimal

// Lookup returns the base value for a role and tier, or zero when the
// table has no such entry (degraded, not an error).
func (t SalaryTable) Lookup(role, tier string) decimal.Decimal {
	if tiers, ok := t[role]; ok {
		if v, ok := tiers[tier]; ok {
			return ClampNonNegative(v)
		}
	}
	return decimal.Zero
}

// FunctionTable maps function code -> monetary value.
type FunctionTable map[string]decimal.Decimal

func (t FunctionTable) Lookup(code string) decimal.Decimal {
	if code == "" || code == NoFunctionCode {
		return decimal.Zero
	}
	if v, ok := t[code]; ok {
		return ClampNonNegative(v)
	}
	return decimal.Zero
}

// =============================================================================
// CONTRIBUTION TABLES
// =============================================================================

// ContributionBracket is one tier of the cumulative marginal computation:
// the span (Min, Max] contributes at Rate.
type ContributionBracket struct {
	Min  decimal.Decimal
	Max  decimal.Decimal
	Rate decimal.Decimal
}

// ContributionTable is one versioned social-contribution table.
// Ceiling is the statutory base cap for ceiling-applicable regimes.
type ContributionTable struct {
	Ceiling  decimal.Decimal
	Brackets []ContributionBracket
}

// =============================================================================
// TAX TABLES
// =============================================================================

// TaxBracket is one progressive bracket: base in (Min, Max] is taxed at
// Rate minus Deduction.
type TaxBracket struct {
	Min       decimal.Decimal
	Max       decimal.Decimal
	Rate      decimal.Decimal
	Deduction decimal.Decimal
}

// TaxTable is one versioned tax table. FixedDeduction serves the simple
// top-rate formula; Brackets serve the progressive formula used for
// prior-period income.
type TaxTable struct {
	FixedDeduction decimal.Decimal
	Brackets       []TaxBracket
}

// =============================================================================
// PAYROLL RULES - Named rate/divisor constants
// =============================================================================

// PayrollRules are the core rule constants. Their absence is a fatal
// precondition failure: the engine never silently defaults them.
type PayrollRules struct {
	GratificationMultiplier   decimal.Decimal
	SpecificGratificationRate decimal.Decimal
	ReferenceValueRate        decimal.Decimal
	DaysPerMonth              decimal.Decimal
	OvertimeHourDivisor       decimal.Decimal
	TransportWorkDays         decimal.Decimal
	TransportDiscountRate     decimal.Decimal
	TopTaxRate                decimal.Decimal

	// Supplementary-pension mandatory rate applied to the ceiling excess.
	SupplementaryPensionRate decimal.Decimal

	// Permanence-bonus rate applied when estimating the bonus folded into
	// the overtime and leave-indemnity bases.
	PermanenceBonusRate decimal.Decimal
}

// =============================================================================
// BENEFITS
// =============================================================================

// BenefitsConfig carries the monthly/daily benefit values. The same
// amounts feed both the benefit credits and the dailies discounts.
type BenefitsConfig struct {
	FoodMonthly    decimal.Decimal
	TransportDaily decimal.Decimal
}

// =============================================================================
// DAILIES CONFIG - Travel-allowance rules
// =============================================================================

// DailiesConfig drives the travel-allowance resolver.
//
// Rate resolution order: commission-function override first, then the
// derived-from-reference scheme, then the flat role-rate table. Role keys
// are matched case-insensitively with a small alias list (see dailies.go).
type DailiesConfig struct {
	// Flat per-diem rates keyed by normalized role key.
	Rates map[string]decimal.Decimal

	// Any assigned function code whose lowercase form starts with this
	// prefix uses CommissionRate regardless of role.
	CommissionPrefix string
	CommissionRate   decimal.Decimal

	// Derived scheme: rate = ReferencePerDiem * DerivedPercentages[key],
	// overriding the flat table when a percentage exists for the key.
	DerivedScheme      bool
	ReferencePerDiem   decimal.Decimal
	DerivedPercentages map[string]decimal.Decimal

	// Embarkation addition: fixed values, or percentages of the reference
	// per-diem under the derived scheme. EmbarkationHalfPct defaults to
	// EmbarkationFullPct / 2 when unset.
	EmbarkationFullValue decimal.Decimal
	EmbarkationHalfValue decimal.Decimal
	EmbarkationFullPct   decimal.Decimal
	EmbarkationHalfPct   decimal.Decimal

	// External gloss percentages (benefit already provided in kind).
	LodgingGlossPct   decimal.Decimal
	MealsGlossPct     decimal.Decimal
	TransportGlossPct decimal.Decimal

	// Per-diem spending cap (budget-law limit).
	CapEnabled bool
	CapLimit   decimal.Decimal

	// Discount rules.
	FoodDivisor                     decimal.Decimal
	TransportDivisor                decimal.Decimal
	ExcludeWeekendsAndHolidays      bool
	Holidays                        []Date
	HalfDailyOnBusinessReturnDay    bool
	HalfDiscountOnBusinessReturnDay bool
}

// =============================================================================
// ADJUSTMENT SCHEDULE
// =============================================================================

// AdjustmentEntry is one legally-mandated revision round. Percent may be
// a fraction (0.10) or a whole percent (10); EscalateValue normalizes.
// EffectiveFrom serves the as-of selection policy only.
type AdjustmentEntry struct {
	Period        int
	Percent       decimal.Decimal
	EffectiveFrom Date
}

// =============================================================================
// ORGANIZATION CONFIG - The full snapshot
// =============================================================================

// OrganizationConfig is one resolved, immutable configuration snapshot.
type OrganizationConfig struct {
	OrganizationID string

	SalaryTable        SalaryTable
	FunctionTable      FunctionTable
	ContributionTables map[string]ContributionTable
	TaxTables          map[string]TaxTable
	Rules              *PayrollRules
	Benefits           BenefitsConfig
	Dailies            DailiesConfig
	Adjustments        []AdjustmentEntry
}

// ContributionTableFor returns the named contribution table; a missing
// key degrades to an empty table (zero contribution).
func (c *OrganizationConfig) ContributionTableFor(key string) ContributionTable {
	if t, ok := c.ContributionTables[key]; ok {
		return t
	}
	return ContributionTable{}
}

// TaxTableFor returns the named tax table; a missing key degrades to an
// empty table (zero tax).
func (c *OrganizationConfig) TaxTableFor(key string) TaxTable {
	if t, ok := c.TaxTables[key]; ok {
		return t
	}
	return TaxTable{}
}
