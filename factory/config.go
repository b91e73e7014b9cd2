/*
Package factory provides JSON to Go configuration conversion.

PURPOSE:
  Converts JSON organization-config definitions into payroll.OrganizationConfig
  objects. This enables rule configuration without code changes - an HR
  administrator can define salary tables, brackets and travel rules in
  JSON, and the factory creates the proper Go structs.

WHY JSON?
  - Non-developers can modify rule tables
  - Easy integration with admin UI
  - Version control for configuration definitions
  - Database storage of config snapshots (store/sqlite persists this form)

JSON SCHEMA (abbreviated):
  {
    "organization_id": "org-1",
    "salary_table": {"analyst": {"a1": 3000.0}},
    "function_table": {"dir-1": 1200.0},
    "contribution_tables": {
      "v1": {"ceiling": 5000, "brackets": [{"min": 0, "max": 1000, "rate": 0.08}]}
    },
    "tax_tables": {
      "v1": {"fixed_deduction": 675,
             "brackets": [{"min": 0, "max": 2000, "rate": 0, "deduction": 0}]}
    },
    "rules": {"gratification_multiplier": 0.6, "top_tax_rate": 0.275, ...},
    "benefits": {"food_monthly": 600, "transport_daily": 10},
    "dailies": {"rates": {"analyst": 100}, "cap_enabled": true, "cap_limit": 500, ...},
    "adjustments": [{"period": 1, "percent": 10, "effective_from": "2024-01-01"}]
  }

VALIDATION:
  - organization_id and rules are required (the engine treats absent
    rules as a fatal precondition)
  - Bracket lists are sorted by lower bound on parse
  - Holiday dates must be ISO (2006-01-02); a malformed date fails the
    parse rather than silently dropping the holiday

SEE ALSO:
  - payroll/config.go: Target types
  - store/sqlite: Persists the JSON form
*/
package factory

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/warp/payroll-engine/payroll"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// ConfigJSON is the JSON representation of an organization configuration.
type ConfigJSON struct {
	OrganizationID     string                           `json:"organization_id"`
	SalaryTable        map[string]map[string]float64    `json:"salary_table,omitempty"`
	FunctionTable      map[string]float64               `json:"function_table,omitempty"`
	ContributionTables map[string]ContributionTableJSON `json:"contribution_tables,omitempty"`
	TaxTables          map[string]TaxTableJSON          `json:"tax_tables,omitempty"`
	Rules              *RulesJSON                       `json:"rules,omitempty"`
	Benefits           *BenefitsJSON                    `json:"benefits,omitempty"`
	Dailies            *DailiesJSON                     `json:"dailies,omitempty"`
	Adjustments        []AdjustmentJSON                 `json:"adjustments,omitempty"`
}

type ContributionTableJSON struct {
	Ceiling  float64                   `json:"ceiling,omitempty"`
	Brackets []ContributionBracketJSON `json:"brackets,omitempty"`
}

type ContributionBracketJSON struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Rate float64 `json:"rate"`
}

type TaxTableJSON struct {
	FixedDeduction float64          `json:"fixed_deduction,omitempty"`
	Brackets       []TaxBracketJSON `json:"brackets,omitempty"`
}

type TaxBracketJSON struct {
	Min       float64 `json:"min"`
	Max       float64 `json:"max"`
	Rate      float64 `json:"rate"`
	Deduction float64 `json:"deduction"`
}

type RulesJSON struct {
	GratificationMultiplier   float64 `json:"gratification_multiplier"`
	SpecificGratificationRate float64 `json:"specific_gratification_rate"`
	ReferenceValueRate        float64 `json:"reference_value_rate"`
	DaysPerMonth              float64 `json:"days_per_month"`
	OvertimeHourDivisor       float64 `json:"overtime_hour_divisor"`
	TransportWorkDays         float64 `json:"transport_work_days"`
	TransportDiscountRate     float64 `json:"transport_discount_rate"`
	TopTaxRate                float64 `json:"top_tax_rate"`
	SupplementaryPensionRate  float64 `json:"supplementary_pension_rate"`
	PermanenceBonusRate       float64 `json:"permanence_bonus_rate"`
}

type BenefitsJSON struct {
	FoodMonthly    float64 `json:"food_monthly"`
	TransportDaily float64 `json:"transport_daily"`
}

type DailiesJSON struct {
	Rates              map[string]float64 `json:"rates,omitempty"`
	CommissionPrefix   string             `json:"commission_prefix,omitempty"`
	CommissionRate     float64            `json:"commission_rate,omitempty"`
	DerivedScheme      bool               `json:"derived_scheme,omitempty"`
	ReferencePerDiem   float64            `json:"reference_per_diem,omitempty"`
	DerivedPercentages map[string]float64 `json:"derived_percentages,omitempty"`

	EmbarkationFullValue float64 `json:"embarkation_full_value,omitempty"`
	EmbarkationHalfValue float64 `json:"embarkation_half_value,omitempty"`
	EmbarkationFullPct   float64 `json:"embarkation_full_pct,omitempty"`
	EmbarkationHalfPct   float64 `json:"embarkation_half_pct,omitempty"`

	LodgingGlossPct   float64 `json:"lodging_gloss_pct,omitempty"`
	MealsGlossPct     float64 `json:"meals_gloss_pct,omitempty"`
	TransportGlossPct float64 `json:"transport_gloss_pct,omitempty"`

	CapEnabled bool    `json:"cap_enabled,omitempty"`
	CapLimit   float64 `json:"cap_limit,omitempty"`

	FoodDivisor                     float64  `json:"food_divisor,omitempty"`
	TransportDivisor                float64  `json:"transport_divisor,omitempty"`
	ExcludeWeekendsAndHolidays      bool     `json:"exclude_weekends_and_holidays,omitempty"`
	Holidays                        []string `json:"holidays,omitempty"`
	HalfDailyOnBusinessReturnDay    bool     `json:"half_daily_on_business_return_day,omitempty"`
	HalfDiscountOnBusinessReturnDay bool     `json:"half_discount_on_business_return_day,omitempty"`
}

type AdjustmentJSON struct {
	Period        int     `json:"period"`
	Percent       float64 `json:"percent"`
	EffectiveFrom string  `json:"effective_from,omitempty"`
}

// =============================================================================
// FACTORY
// =============================================================================

type ConfigFactory struct{}

func NewConfigFactory() *ConfigFactory {
	return &ConfigFactory{}
}

// ParseConfig converts a JSON string into an OrganizationConfig.
func (f *ConfigFactory) ParseConfig(jsonStr string) (*payroll.OrganizationConfig, error) {
	var cj ConfigJSON
	if err := json.Unmarshal([]byte(jsonStr), &cj); err != nil {
		return nil, fmt.Errorf("invalid config JSON: %w", err)
	}
	return f.FromJSON(cj)
}

// FromJSON converts the parsed JSON form into the engine's config type.
func (f *ConfigFactory) FromJSON(cj ConfigJSON) (*payroll.OrganizationConfig, error) {
	if cj.OrganizationID == "" {
		return nil, fmt.Errorf("organization_id is required")
	}
	if cj.Rules == nil {
		return nil, fmt.Errorf("rules are required: %w", payroll.ErrMissingRules)
	}

	cfg := &payroll.OrganizationConfig{
		OrganizationID:     cj.OrganizationID,
		SalaryTable:        payroll.SalaryTable{},
		FunctionTable:      payroll.FunctionTable{},
		ContributionTables: map[string]payroll.ContributionTable{},
		TaxTables:          map[string]payroll.TaxTable{},
		Rules:              convertRules(cj.Rules),
	}

	for role, tiers := range cj.SalaryTable {
		cfg.SalaryTable[role] = map[string]decimal.Decimal{}
		for tier, value := range tiers {
			cfg.SalaryTable[role][tier] = decimal.NewFromFloat(value)
		}
	}
	for code, value := range cj.FunctionTable {
		cfg.FunctionTable[code] = decimal.NewFromFloat(value)
	}

	for key, table := range cj.ContributionTables {
		cfg.ContributionTables[key] = convertContributionTable(table)
	}
	for key, table := range cj.TaxTables {
		cfg.TaxTables[key] = convertTaxTable(table)
	}

	if cj.Benefits != nil {
		cfg.Benefits = payroll.BenefitsConfig{
			FoodMonthly:    decimal.NewFromFloat(cj.Benefits.FoodMonthly),
			TransportDaily: decimal.NewFromFloat(cj.Benefits.TransportDaily),
		}
	}

	if cj.Dailies != nil {
		dailies, err := convertDailies(cj.Dailies)
		if err != nil {
			return nil, err
		}
		cfg.Dailies = dailies
	}

	for _, a := range cj.Adjustments {
		entry := payroll.AdjustmentEntry{
			Period:  a.Period,
			Percent: decimal.NewFromFloat(a.Percent),
		}
		if a.EffectiveFrom != "" {
			d, err := payroll.ParseDate(a.EffectiveFrom)
			if err != nil {
				return nil, fmt.Errorf("adjustment period %d: %w", a.Period, err)
			}
			entry.EffectiveFrom = d
		}
		cfg.Adjustments = append(cfg.Adjustments, entry)
	}

	return cfg, nil
}

func convertRules(r *RulesJSON) *payroll.PayrollRules {
	return &payroll.PayrollRules{
		GratificationMultiplier:   decimal.NewFromFloat(r.GratificationMultiplier),
		SpecificGratificationRate: decimal.NewFromFloat(r.SpecificGratificationRate),
		ReferenceValueRate:        decimal.NewFromFloat(r.ReferenceValueRate),
		DaysPerMonth:              decimal.NewFromFloat(r.DaysPerMonth),
		OvertimeHourDivisor:       decimal.NewFromFloat(r.OvertimeHourDivisor),
		TransportWorkDays:         decimal.NewFromFloat(r.TransportWorkDays),
		TransportDiscountRate:     decimal.NewFromFloat(r.TransportDiscountRate),
		TopTaxRate:                decimal.NewFromFloat(r.TopTaxRate),
		SupplementaryPensionRate:  decimal.NewFromFloat(r.SupplementaryPensionRate),
		PermanenceBonusRate:       decimal.NewFromFloat(r.PermanenceBonusRate),
	}
}

func convertContributionTable(t ContributionTableJSON) payroll.ContributionTable {
	table := payroll.ContributionTable{Ceiling: decimal.NewFromFloat(t.Ceiling)}
	for _, b := range t.Brackets {
		table.Brackets = append(table.Brackets, payroll.ContributionBracket{
			Min:  decimal.NewFromFloat(b.Min),
			Max:  decimal.NewFromFloat(b.Max),
			Rate: decimal.NewFromFloat(b.Rate),
		})
	}
	sort.Slice(table.Brackets, func(i, j int) bool {
		return table.Brackets[i].Min.LessThan(table.Brackets[j].Min)
	})
	return table
}

func convertTaxTable(t TaxTableJSON) payroll.TaxTable {
	table := payroll.TaxTable{FixedDeduction: decimal.NewFromFloat(t.FixedDeduction)}
	for _, b := range t.Brackets {
		table.Brackets = append(table.Brackets, payroll.TaxBracket{
			Min:       decimal.NewFromFloat(b.Min),
			Max:       decimal.NewFromFloat(b.Max),
			Rate:      decimal.NewFromFloat(b.Rate),
			Deduction: decimal.NewFromFloat(b.Deduction),
		})
	}
	sort.Slice(table.Brackets, func(i, j int) bool {
		return table.Brackets[i].Min.LessThan(table.Brackets[j].Min)
	})
	return table
}

func convertDailies(d *DailiesJSON) (payroll.DailiesConfig, error) {
	cfg := payroll.DailiesConfig{
		CommissionPrefix:                d.CommissionPrefix,
		CommissionRate:                  decimal.NewFromFloat(d.CommissionRate),
		DerivedScheme:                   d.DerivedScheme,
		ReferencePerDiem:                decimal.NewFromFloat(d.ReferencePerDiem),
		EmbarkationFullValue:            decimal.NewFromFloat(d.EmbarkationFullValue),
		EmbarkationHalfValue:            decimal.NewFromFloat(d.EmbarkationHalfValue),
		EmbarkationFullPct:              decimal.NewFromFloat(d.EmbarkationFullPct),
		EmbarkationHalfPct:              decimal.NewFromFloat(d.EmbarkationHalfPct),
		LodgingGlossPct:                 decimal.NewFromFloat(d.LodgingGlossPct),
		MealsGlossPct:                   decimal.NewFromFloat(d.MealsGlossPct),
		TransportGlossPct:               decimal.NewFromFloat(d.TransportGlossPct),
		CapEnabled:                      d.CapEnabled,
		CapLimit:                        decimal.NewFromFloat(d.CapLimit),
		FoodDivisor:                     decimal.NewFromFloat(d.FoodDivisor),
		TransportDivisor:                decimal.NewFromFloat(d.TransportDivisor),
		ExcludeWeekendsAndHolidays:      d.ExcludeWeekendsAndHolidays,
		HalfDailyOnBusinessReturnDay:    d.HalfDailyOnBusinessReturnDay,
		HalfDiscountOnBusinessReturnDay: d.HalfDiscountOnBusinessReturnDay,
	}

	if len(d.Rates) > 0 {
		cfg.Rates = map[string]decimal.Decimal{}
		for key, rate := range d.Rates {
			cfg.Rates[key] = decimal.NewFromFloat(rate)
		}
	}
	if len(d.DerivedPercentages) > 0 {
		cfg.DerivedPercentages = map[string]decimal.Decimal{}
		for key, pct := range d.DerivedPercentages {
			cfg.DerivedPercentages[key] = decimal.NewFromFloat(pct)
		}
	}

	for _, s := range d.Holidays {
		date, err := payroll.ParseDate(s)
		if err != nil {
			return payroll.DailiesConfig{}, fmt.Errorf("holiday %q: %w", s, err)
		}
		cfg.Holidays = append(cfg.Holidays, date)
	}

	return cfg, nil
}

// =============================================================================
// ROUND-TRIP - Config back to its JSON form for persistence
// =============================================================================

// ToJSON converts a config back into the JSON schema. The SQLite store
// persists this form.
func (f *ConfigFactory) ToJSON(cfg *payroll.OrganizationConfig) (ConfigJSON, error) {
	if cfg == nil {
		return ConfigJSON{}, payroll.ErrMissingConfig
	}

	cj := ConfigJSON{OrganizationID: cfg.OrganizationID}

	if len(cfg.SalaryTable) > 0 {
		cj.SalaryTable = map[string]map[string]float64{}
		for role, tiers := range cfg.SalaryTable {
			cj.SalaryTable[role] = map[string]float64{}
			for tier, value := range tiers {
				cj.SalaryTable[role][tier], _ = value.Float64()
			}
		}
	}
	if len(cfg.FunctionTable) > 0 {
		cj.FunctionTable = map[string]float64{}
		for code, value := range cfg.FunctionTable {
			cj.FunctionTable[code], _ = value.Float64()
		}
	}

	if len(cfg.ContributionTables) > 0 {
		cj.ContributionTables = map[string]ContributionTableJSON{}
		for key, table := range cfg.ContributionTables {
			tj := ContributionTableJSON{}
			tj.Ceiling, _ = table.Ceiling.Float64()
			for _, b := range table.Brackets {
				bj := ContributionBracketJSON{}
				bj.Min, _ = b.Min.Float64()
				bj.Max, _ = b.Max.Float64()
				bj.Rate, _ = b.Rate.Float64()
				tj.Brackets = append(tj.Brackets, bj)
			}
			cj.ContributionTables[key] = tj
		}
	}
	if len(cfg.TaxTables) > 0 {
		cj.TaxTables = map[string]TaxTableJSON{}
		for key, table := range cfg.TaxTables {
			tj := TaxTableJSON{}
			tj.FixedDeduction, _ = table.FixedDeduction.Float64()
			for _, b := range table.Brackets {
				bj := TaxBracketJSON{}
				bj.Min, _ = b.Min.Float64()
				bj.Max, _ = b.Max.Float64()
				bj.Rate, _ = b.Rate.Float64()
				bj.Deduction, _ = b.Deduction.Float64()
				tj.Brackets = append(tj.Brackets, bj)
			}
			cj.TaxTables[key] = tj
		}
	}

	if cfg.Rules != nil {
		r := &RulesJSON{}
		r.GratificationMultiplier, _ = cfg.Rules.GratificationMultiplier.Float64()
		r.SpecificGratificationRate, _ = cfg.Rules.SpecificGratificationRate.Float64()
		r.ReferenceValueRate, _ = cfg.Rules.ReferenceValueRate.Float64()
		r.DaysPerMonth, _ = cfg.Rules.DaysPerMonth.Float64()
		r.OvertimeHourDivisor, _ = cfg.Rules.OvertimeHourDivisor.Float64()
		r.TransportWorkDays, _ = cfg.Rules.TransportWorkDays.Float64()
		r.TransportDiscountRate, _ = cfg.Rules.TransportDiscountRate.Float64()
		r.TopTaxRate, _ = cfg.Rules.TopTaxRate.Float64()
		r.SupplementaryPensionRate, _ = cfg.Rules.SupplementaryPensionRate.Float64()
		r.PermanenceBonusRate, _ = cfg.Rules.PermanenceBonusRate.Float64()
		cj.Rules = r
	}

	b := &BenefitsJSON{}
	b.FoodMonthly, _ = cfg.Benefits.FoodMonthly.Float64()
	b.TransportDaily, _ = cfg.Benefits.TransportDaily.Float64()
	cj.Benefits = b

	cj.Dailies = dailiesToJSON(cfg.Dailies)

	for _, a := range cfg.Adjustments {
		aj := AdjustmentJSON{Period: a.Period}
		aj.Percent, _ = a.Percent.Float64()
		if !a.EffectiveFrom.IsZero() {
			aj.EffectiveFrom = a.EffectiveFrom.String()
		}
		cj.Adjustments = append(cj.Adjustments, aj)
	}

	return cj, nil
}

func dailiesToJSON(d payroll.DailiesConfig) *DailiesJSON {
	dj := &DailiesJSON{
		CommissionPrefix:                d.CommissionPrefix,
		DerivedScheme:                   d.DerivedScheme,
		CapEnabled:                      d.CapEnabled,
		ExcludeWeekendsAndHolidays:      d.ExcludeWeekendsAndHolidays,
		HalfDailyOnBusinessReturnDay:    d.HalfDailyOnBusinessReturnDay,
		HalfDiscountOnBusinessReturnDay: d.HalfDiscountOnBusinessReturnDay,
	}
	dj.CommissionRate, _ = d.CommissionRate.Float64()
	dj.ReferencePerDiem, _ = d.ReferencePerDiem.Float64()
	dj.EmbarkationFullValue, _ = d.EmbarkationFullValue.Float64()
	dj.EmbarkationHalfValue, _ = d.EmbarkationHalfValue.Float64()
	dj.EmbarkationFullPct, _ = d.EmbarkationFullPct.Float64()
	dj.EmbarkationHalfPct, _ = d.EmbarkationHalfPct.Float64()
	dj.LodgingGlossPct, _ = d.LodgingGlossPct.Float64()
	dj.MealsGlossPct, _ = d.MealsGlossPct.Float64()
	dj.TransportGlossPct, _ = d.TransportGlossPct.Float64()
	dj.CapLimit, _ = d.CapLimit.Float64()
	dj.FoodDivisor, _ = d.FoodDivisor.Float64()
	dj.TransportDivisor, _ = d.TransportDivisor.Float64()

	if len(d.Rates) > 0 {
		dj.Rates = map[string]float64{}
		for key, rate := range d.Rates {
			dj.Rates[key], _ = rate.Float64()
		}
	}
	if len(d.DerivedPercentages) > 0 {
		dj.DerivedPercentages = map[string]float64{}
		for key, pct := range d.DerivedPercentages {
			dj.DerivedPercentages[key], _ = pct.Float64()
		}
	}
	for _, h := range d.Holidays {
		dj.Holidays = append(dj.Holidays, h.String())
	}
	return dj
}
