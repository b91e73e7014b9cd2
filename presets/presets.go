/*
presets.go - Pre-built organization configurations

PURPOSE:
  Provides ready-to-use organization configurations for common payroll
  regimes. These are convenience functions that set up the salary table,
  bracket tables, rule constants and travel-allowance rules according to
  typical public-sector patterns.

AVAILABLE PRESETS:
  StandardPublicSector: Progressive tax + tiered contribution with ceiling,
                        derived per-diem scheme, calendar-aware travel days
  FixedRateAgency:      Flat per-diem rates per role, manual travel days,
                        no contribution ceiling
  DemoOrganization:     Small, hand-checkable numbers for scenarios and
                        local development

CUSTOMIZATION:
  These are starting points. Real organizations usually need:
  - Their own salary and function tables
  - Yearly bracket revisions (save a new version in the config store)
  - Local holiday calendars

SEE ALSO:
  - payroll/config.go: Config type definitions
  - factory/config.go: JSON-based config creation
  - api/scenarios.go: Demo data built on these presets
*/
package presets

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/payroll-engine/payroll"
)

func d(f float64) decimal.Decimal { return decimal.NewFromFloat(f) }

// =============================================================================
// COMMON ORGANIZATION PRESETS
// =============================================================================

// StandardPublicSector returns a configuration resembling a typical
// public-sector regime: progressive income tax brackets, a tiered
// contribution table with a ceiling, and a derived per-diem scheme where
// travel rates are percentages of a reference value.
func StandardPublicSector(orgID string) *payroll.OrganizationConfig {
	return &payroll.OrganizationConfig{
		OrganizationID: orgID,
		SalaryTable: payroll.SalaryTable{
			"analyst": {
				"a1": d(3000), "a2": d(3300), "a3": d(3630),
			},
			"technician": {
				"t1": d(2000), "t2": d(2200),
			},
			"auditor": {
				"s1": d(8000), "s2": d(8800),
			},
		},
		FunctionTable: payroll.FunctionTable{
			"dir-1": d(1200),
			"dir-2": d(2400),
			"coord": d(800),
		},
		ContributionTables: map[string]payroll.ContributionTable{
			"default": {
				Ceiling: d(7786.02),
				Brackets: []payroll.ContributionBracket{
					{Min: d(0), Max: d(1412), Rate: d(0.075)},
					{Min: d(1412), Max: d(2666.68), Rate: d(0.09)},
					{Min: d(2666.68), Max: d(4000.03), Rate: d(0.12)},
					{Min: d(4000.03), Max: d(7786.02), Rate: d(0.14)},
				},
			},
		},
		TaxTables: map[string]payroll.TaxTable{
			"default": {
				FixedDeduction: d(896),
				Brackets: []payroll.TaxBracket{
					{Min: d(0), Max: d(2259.20), Rate: d(0), Deduction: d(0)},
					{Min: d(2259.20), Max: d(2826.65), Rate: d(0.075), Deduction: d(169.44)},
					{Min: d(2826.65), Max: d(3751.05), Rate: d(0.15), Deduction: d(381.44)},
					{Min: d(3751.05), Max: d(4664.68), Rate: d(0.225), Deduction: d(662.77)},
					{Min: d(4664.68), Max: d(999999999), Rate: d(0.275), Deduction: d(896)},
				},
			},
		},
		Rules: &payroll.PayrollRules{
			GratificationMultiplier:   d(0.6),
			SpecificGratificationRate: d(0.35),
			ReferenceValueRate:        d(0.02),
			DaysPerMonth:              d(30),
			OvertimeHourDivisor:       d(200),
			TransportWorkDays:         d(22),
			TransportDiscountRate:     d(0.06),
			TopTaxRate:                d(0.275),
			SupplementaryPensionRate:  d(0.085),
			PermanenceBonusRate:       d(0.05),
		},
		Benefits: payroll.BenefitsConfig{
			FoodMonthly:    d(880),
			TransportDaily: d(12),
		},
		Dailies: payroll.DailiesConfig{
			DerivedScheme: true,
			DerivedPercentages: map[string]decimal.Decimal{
				"analyst":    d(0.5),
				"technician": d(0.4),
				"auditor":    d(0.7),
			},
			EmbarkationFullPct:              d(0.8),
			LodgingGlossPct:                 d(0.25),
			MealsGlossPct:                   d(0.25),
			TransportGlossPct:               d(0.1),
			CapEnabled:                      true,
			CapLimit:                        d(700),
			FoodDivisor:                     d(30),
			TransportDivisor:                d(22),
			ExcludeWeekendsAndHolidays:      true,
			HalfDailyOnBusinessReturnDay:    true,
			HalfDiscountOnBusinessReturnDay: true,
		},
		Adjustments: []payroll.AdjustmentEntry{
			{Period: 1, Percent: d(5), EffectiveFrom: payroll.NewDate(2024, time.May, 1)},
			{Period: 2, Percent: d(4.5), EffectiveFrom: payroll.NewDate(2025, time.May, 1)},
		},
	}
}

// FixedRateAgency returns a configuration for organizations that publish
// flat per-diem rates per role and record travel days manually. No
// contribution ceiling applies, so the whole base is contribution-bearing.
func FixedRateAgency(orgID string) *payroll.OrganizationConfig {
	return &payroll.OrganizationConfig{
		OrganizationID: orgID,
		SalaryTable: payroll.SalaryTable{
			"analyst":    {"a1": d(4200)},
			"technician": {"t1": d(2800)},
		},
		FunctionTable: payroll.FunctionTable{
			"chief": d(1500),
		},
		ContributionTables: map[string]payroll.ContributionTable{
			"default": {
				Brackets: []payroll.ContributionBracket{
					{Min: d(0), Max: d(999999999), Rate: d(0.11)},
				},
			},
		},
		TaxTables: map[string]payroll.TaxTable{
			"default": {FixedDeduction: d(896)},
		},
		Rules: &payroll.PayrollRules{
			GratificationMultiplier:  d(0.5),
			DaysPerMonth:             d(30),
			OvertimeHourDivisor:      d(220),
			TransportWorkDays:        d(22),
			TransportDiscountRate:    d(0.06),
			TopTaxRate:               d(0.275),
			SupplementaryPensionRate: d(0.085),
		},
		Benefits: payroll.BenefitsConfig{
			FoodMonthly:    d(660),
			TransportDaily: d(10),
		},
		Dailies: payroll.DailiesConfig{
			Rates: map[string]decimal.Decimal{
				"analyst":    d(320),
				"technician": d(240),
			},
			CommissionPrefix:     "com",
			CommissionRate:       d(450),
			EmbarkationFullValue: d(180),
			EmbarkationHalfValue: d(90),
			FoodDivisor:          d(30),
			TransportDivisor:     d(22),
		},
	}
}

// DemoOrganization returns a small configuration with round numbers that
// are easy to verify by hand. Used by the scenario loader and tests.
func DemoOrganization() *payroll.OrganizationConfig {
	return &payroll.OrganizationConfig{
		OrganizationID: "demo",
		SalaryTable: payroll.SalaryTable{
			"analyst":    {"a1": d(3000)},
			"technician": {"t1": d(2000)},
		},
		FunctionTable: payroll.FunctionTable{
			"dir-1": d(1200),
		},
		ContributionTables: map[string]payroll.ContributionTable{
			"default": {
				Ceiling: d(5000),
				Brackets: []payroll.ContributionBracket{
					{Min: d(0), Max: d(1000), Rate: d(0.08)},
					{Min: d(1000), Max: d(3000), Rate: d(0.09)},
					{Min: d(3000), Max: d(5000), Rate: d(0.11)},
				},
			},
		},
		TaxTables: map[string]payroll.TaxTable{
			"default": {
				FixedDeduction: d(675),
				Brackets: []payroll.TaxBracket{
					{Min: d(0), Max: d(2000), Rate: d(0), Deduction: d(0)},
					{Min: d(2000), Max: d(3000), Rate: d(0.15), Deduction: d(300)},
					{Min: d(3000), Max: d(999999999), Rate: d(0.275), Deduction: d(675)},
				},
			},
		},
		Rules: &payroll.PayrollRules{
			GratificationMultiplier: d(0.6),
			DaysPerMonth:            d(30),
			OvertimeHourDivisor:     d(200),
			TransportWorkDays:       d(20),
			TransportDiscountRate:   d(0.06),
			TopTaxRate:              d(0.275),
		},
		Benefits: payroll.BenefitsConfig{
			FoodMonthly:    d(600),
			TransportDaily: d(10),
		},
		Dailies: payroll.DailiesConfig{
			Rates: map[string]decimal.Decimal{
				"analyst":    d(100),
				"technician": d(80),
			},
			FoodDivisor:      d(30),
			TransportDivisor: d(30),
		},
		Adjustments: []payroll.AdjustmentEntry{
			{Period: 1, Percent: d(10), EffectiveFrom: payroll.NewDate(2024, time.January, 1)},
			{Period: 2, Percent: d(10), EffectiveFrom: payroll.NewDate(2025, time.January, 1)},
		},
	}
}
