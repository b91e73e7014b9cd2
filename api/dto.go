/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

TYPES:
  Calculation:
    CalculateRequest, CalculationParamsDTO, CalculationResultDTO

  Config:
    SaveConfigRequest (wraps factory.ConfigJSON), ConfigVersionDTO

  Holidays:
    HolidayDTO, CreateHolidayRequest

  Scenarios:
    ScenarioDTO, LoadScenarioRequest

MONEY:
  Amounts cross the wire as JSON numbers (float64). The conversion to
  decimal happens exactly once, at the DTO boundary; everything past the
  handlers is decimal arithmetic.

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - factory/config.go: ConfigJSON type
*/
package api

import (
	"github.com/shopspring/decimal"

	"github.com/warp/payroll-engine/factory"
	"github.com/warp/payroll-engine/payroll"
)

// =============================================================================
// CALCULATION TYPES
// =============================================================================

// CalculateRequest is the request body for POST /api/calculations.
// AsOf selects the config version in effect on that date; empty means today.
type CalculateRequest struct {
	OrganizationID string               `json:"organization_id"`
	AsOf           string               `json:"as_of,omitempty"`
	Params         CalculationParamsDTO `json:"params"`
}

// CalculationParamsDTO mirrors payroll.CalculationParams for the wire.
type CalculationParamsDTO struct {
	Role         string `json:"role"`
	PayTier      string `json:"pay_tier"`
	FunctionCode string `json:"function_code,omitempty"`
	PeriodIndex  int    `json:"period_index"`

	QualificationAmount   float64 `json:"qualification_amount,omitempty"`
	SpecificGratification bool    `json:"specific_gratification,omitempty"`
	FixedExtras           float64 `json:"fixed_extras,omitempty"`

	ContributionTableKey       string  `json:"contribution_table_key,omitempty"`
	TaxTableKey                string  `json:"tax_table_key,omitempty"`
	CeilingApplies             bool    `json:"ceiling_applies,omitempty"`
	SupplementaryPension       bool    `json:"supplementary_pension,omitempty"`
	VoluntaryPensionRate       float64 `json:"voluntary_pension_rate,omitempty"`
	FunctionInContributionBase bool    `json:"function_in_contribution_base,omitempty"`

	FoodBenefit      bool `json:"food_benefit,omitempty"`
	TransportBenefit bool `json:"transport_benefit,omitempty"`

	VacationThird                 bool     `json:"vacation_third,omitempty"`
	VacationThirdOverride         *float64 `json:"vacation_third_override,omitempty"`
	VacationThirdAnticipated      bool     `json:"vacation_third_anticipated,omitempty"`
	VacationThirdAnticipatedDebit *float64 `json:"vacation_third_anticipated_debit,omitempty"`

	Thirteenth                        bool     `json:"thirteenth,omitempty"`
	ClosingPeriod                     bool     `json:"closing_period,omitempty"`
	ThirteenthBaseAdvanceOverride     *float64 `json:"thirteenth_base_advance_override,omitempty"`
	ThirteenthFunctionAdvanceOverride *float64 `json:"thirteenth_function_advance_override,omitempty"`

	OvertimeHours50  float64 `json:"overtime_hours_50,omitempty"`
	OvertimeHours100 float64 `json:"overtime_hours_100,omitempty"`
	PermanenceBonus  bool    `json:"permanence_bonus,omitempty"`

	Substitutions         []SubstitutionDTO `json:"substitutions,omitempty"`
	CompensatoryLeaveDays float64           `json:"compensatory_leave_days,omitempty"`
	LeaveFunctionCode     string            `json:"leave_function_code,omitempty"`

	Dailies *DailiesParamsDTO `json:"dailies,omitempty"`

	LineItems []LineItemDTO `json:"line_items,omitempty"`
}

type SubstitutionDTO struct {
	FunctionCode string  `json:"function_code"`
	Days         float64 `json:"days"`
}

type DailiesParamsDTO struct {
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`

	ManualDays                  float64 `json:"manual_days,omitempty"`
	ManualFoodDiscountDays      float64 `json:"manual_food_discount_days,omitempty"`
	ManualTransportDiscountDays float64 `json:"manual_transport_discount_days,omitempty"`

	Embarkation string `json:"embarkation,omitempty"` // none | half | full

	LodgingProvided   bool `json:"lodging_provided,omitempty"`
	MealsProvided     bool `json:"meals_provided,omitempty"`
	TransportProvided bool `json:"transport_provided,omitempty"`

	DiscountFood      bool `json:"discount_food,omitempty"`
	DiscountTransport bool `json:"discount_transport,omitempty"`
}

type LineItemDTO struct {
	Description               string  `json:"description"`
	IsCredit                  bool    `json:"is_credit"`
	Amount                    float64 `json:"amount"`
	IncludeInTaxBase          bool    `json:"include_in_tax_base,omitempty"`
	IncludeInContributionBase bool    `json:"include_in_contribution_base,omitempty"`
	IsPriorPeriodIncome       bool    `json:"is_prior_period_income,omitempty"`
}

// CalculationResultDTO is the response for POST /api/calculations.
type CalculationResultDTO struct {
	OrganizationID  string             `json:"organization_id"`
	ConfigVersion   int                `json:"config_version"`
	NetPay          float64            `json:"net_pay"`
	TotalGross      float64            `json:"total_gross"`
	TotalDeductions float64            `json:"total_deductions"`
	TotalBenefits   float64            `json:"total_benefits"`
	Breakdown       map[string]float64 `json:"breakdown"`
}

// BreakdownKeysDTO documents the output contract: which breakdown keys
// compose the gross total and which compose the deductions.
type BreakdownKeysDTO struct {
	Credits []string `json:"credits"`
	Debits  []string `json:"debits"`
}

// CalculationRunDTO is one persisted calculation in history responses.
type CalculationRunDTO struct {
	ID             string  `json:"id"`
	OrganizationID string  `json:"organization_id"`
	ConfigVersion  int     `json:"config_version"`
	NetPay         float64 `json:"net_pay"`
	CreatedAt      string  `json:"created_at"`
}

// =============================================================================
// CONFIG TYPES
// =============================================================================

// SaveConfigRequest creates a new config version for an organization.
type SaveConfigRequest struct {
	EffectiveFrom string             `json:"effective_from"`
	Config        factory.ConfigJSON `json:"config"`
}

// ConfigVersionDTO summarizes one stored config version.
type ConfigVersionDTO struct {
	OrganizationID string `json:"organization_id"`
	Version        int    `json:"version"`
	EffectiveFrom  string `json:"effective_from"`
}

// ConfigDTO returns a full resolved config.
type ConfigDTO struct {
	Version       int                `json:"version"`
	EffectiveFrom string             `json:"effective_from"`
	Config        factory.ConfigJSON `json:"config"`
}

// ActivePeriodDTO reports which adjustment period is in effect on a date.
type ActivePeriodDTO struct {
	OrganizationID string `json:"organization_id"`
	AsOf           string `json:"as_of"`
	PeriodIndex    int    `json:"period_index"`
	Found          bool   `json:"found"`
}

// =============================================================================
// HOLIDAY TYPES
// =============================================================================

type HolidayDTO struct {
	ID             string `json:"id"`
	OrganizationID string `json:"organization_id"`
	Date           string `json:"date"`
	Name           string `json:"name,omitempty"`
}

type CreateHolidayRequest struct {
	OrganizationID string `json:"organization_id"`
	Date           string `json:"date"`
	Name           string `json:"name,omitempty"`
}

// =============================================================================
// SCENARIO TYPES
// =============================================================================

type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// DTO <-> DOMAIN CONVERSION
// =============================================================================

func optDecimal(f *float64) *decimal.Decimal {
	if f == nil {
		return nil
	}
	d := decimal.NewFromFloat(*f)
	return &d
}

func (p CalculationParamsDTO) toDomain(orgID string) payroll.CalculationParams {
	params := payroll.CalculationParams{
		OrganizationID: orgID,

		Role:         p.Role,
		PayTier:      p.PayTier,
		FunctionCode: p.FunctionCode,
		PeriodIndex:  p.PeriodIndex,

		QualificationAmount:   decimal.NewFromFloat(p.QualificationAmount),
		SpecificGratification: p.SpecificGratification,
		FixedExtras:           decimal.NewFromFloat(p.FixedExtras),

		ContributionTableKey:       p.ContributionTableKey,
		TaxTableKey:                p.TaxTableKey,
		CeilingApplies:             p.CeilingApplies,
		SupplementaryPension:       p.SupplementaryPension,
		VoluntaryPensionRate:       decimal.NewFromFloat(p.VoluntaryPensionRate),
		FunctionInContributionBase: p.FunctionInContributionBase,

		FoodBenefit:      p.FoodBenefit,
		TransportBenefit: p.TransportBenefit,

		VacationThird:                 p.VacationThird,
		VacationThirdOverride:         optDecimal(p.VacationThirdOverride),
		VacationThirdAnticipated:      p.VacationThirdAnticipated,
		VacationThirdAnticipatedDebit: optDecimal(p.VacationThirdAnticipatedDebit),

		Thirteenth:                        p.Thirteenth,
		ClosingPeriod:                     p.ClosingPeriod,
		ThirteenthBaseAdvanceOverride:     optDecimal(p.ThirteenthBaseAdvanceOverride),
		ThirteenthFunctionAdvanceOverride: optDecimal(p.ThirteenthFunctionAdvanceOverride),

		OvertimeHours50:  decimal.NewFromFloat(p.OvertimeHours50),
		OvertimeHours100: decimal.NewFromFloat(p.OvertimeHours100),
		PermanenceBonus:  p.PermanenceBonus,

		CompensatoryLeaveDays: decimal.NewFromFloat(p.CompensatoryLeaveDays),
		LeaveFunctionCode:     p.LeaveFunctionCode,
	}

	for _, s := range p.Substitutions {
		params.Substitutions = append(params.Substitutions, payroll.Substitution{
			FunctionCode: s.FunctionCode,
			Days:         decimal.NewFromFloat(s.Days),
		})
	}

	if p.Dailies != nil {
		params.Dailies = &payroll.DailiesParams{
			StartDate:                   p.Dailies.StartDate,
			EndDate:                     p.Dailies.EndDate,
			ManualDays:                  decimal.NewFromFloat(p.Dailies.ManualDays),
			ManualFoodDiscountDays:      decimal.NewFromFloat(p.Dailies.ManualFoodDiscountDays),
			ManualTransportDiscountDays: decimal.NewFromFloat(p.Dailies.ManualTransportDiscountDays),
			Embarkation:                 payroll.EmbarkationOption(p.Dailies.Embarkation),
			LodgingProvided:             p.Dailies.LodgingProvided,
			MealsProvided:               p.Dailies.MealsProvided,
			TransportProvided:           p.Dailies.TransportProvided,
			DiscountFood:                p.Dailies.DiscountFood,
			DiscountTransport:           p.Dailies.DiscountTransport,
		}
		if params.Dailies.Embarkation == "" {
			params.Dailies.Embarkation = payroll.EmbarkationNone
		}
	}

	for _, item := range p.LineItems {
		params.LineItems = append(params.LineItems, payroll.LineItem{
			Description:               item.Description,
			IsCredit:                  item.IsCredit,
			Amount:                    decimal.NewFromFloat(item.Amount),
			IncludeInTaxBase:          item.IncludeInTaxBase,
			IncludeInContributionBase: item.IncludeInContributionBase,
			IsPriorPeriodIncome:       item.IsPriorPeriodIncome,
		})
	}

	return params
}

func toResultDTO(orgID string, version int, result payroll.CalculationResult) CalculationResultDTO {
	dto := CalculationResultDTO{
		OrganizationID: orgID,
		ConfigVersion:  version,
		Breakdown:      make(map[string]float64, len(result.Breakdown)),
	}
	dto.NetPay, _ = result.NetPay.Float64()
	dto.TotalGross, _ = result.TotalGross.Float64()
	dto.TotalDeductions, _ = result.TotalDeductions.Float64()
	dto.TotalBenefits, _ = result.TotalBenefits.Float64()
	for key, amount := range result.Breakdown {
		dto.Breakdown[key], _ = amount.Float64()
	}
	return dto
}
