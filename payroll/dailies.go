/*
dailies.go - Travel-allowance (per-diem) resolver

PURPOSE:
  Resolves the full travel-allowance figure set for one trip: the daily
  rate, embarkation addition, calendar and deductible day counts, the two
  half-day return-date adjustments, the budget-law spending cap, external
  gloss, and the internal benefit discounts.

INPUT MODES:
  Date-range: caller supplies start/end calendar dates (inclusive).
              The resolver counts days itself, and weekend/holiday
              exclusion is forced ON for deductible days regardless of
              the base config flag.
  Manual:     caller supplies the day count and discount-day counts
              directly. Also the fallback when a date fails to parse.

TWO HALF-DAY RULES:
  Both trigger on "the return day is a business day", but they are
  independent quantities and are computed separately:
  - HalfDailyOnBusinessReturnDay: halves the PAYABLE amount for the
    return day (the traveler returns mid-day).
  - HalfDiscountOnBusinessReturnDay: halves the benefit DISCOUNTS for
    the return day.
  One is never derived from the other.

RATE RESOLUTION (no reflection, normalized-key lookup):
  1. Commission override: assigned function code starting with the
     configured prefix uses the fixed commission rate.
  2. Derived scheme: a configured percentage for the resolved key makes
     the rate referencePerDiem * percentage.
  3. Flat role table, case-insensitive with role aliases
     ("analista" -> analyst, "tecnico" -> technician).
  A role with no configured rate degrades to zero.

CAP (budget-law limit):
  Applied once at the whole-trip level. payableDays splits into full days
  plus a fractional part; maxAllowed = fullDays*limit + min(partial-day
  amount, limit), so proration still respects the limit for the
  fractional day.
*/
package payroll

import (
	"strings"

	"github.com/shopspring/decimal"
)

// roleRateAliases maps source-data role spellings onto the rate-table keys.
var roleRateAliases = map[string]string{
	"analista": "analyst",
	"tecnico":  "technician",
}

var pointFive = decimal.NewFromFloat(0.5)

// =============================================================================
// RESULT
// =============================================================================

type DailiesMode string

const (
	DailiesManual    DailiesMode = "manual"
	DailiesDateRange DailiesMode = "date_range"
)

// DailiesResult carries every sub-figure the breakdown exposes.
type DailiesResult struct {
	Mode DailiesMode

	CalendarDays          decimal.Decimal
	DeductibleDays        decimal.Decimal
	PayableDays           decimal.Decimal
	FoodDiscountDays      decimal.Decimal
	TransportDiscountDays decimal.Decimal

	DailyRate   decimal.Decimal
	Embarkation decimal.Decimal

	Gross             decimal.Decimal
	Cut               decimal.Decimal
	Gloss             decimal.Decimal
	FoodDiscount      decimal.Decimal
	TransportDiscount decimal.Decimal
	Net               decimal.Decimal
}

// =============================================================================
// RESOLVER
// =============================================================================

// DailiesResolver computes travel allowances against one config snapshot.
// FoodMonthly and TransportMonthly are the benefit amounts the discount
// formula divides by the configured divisors.
type DailiesResolver struct {
	Config           DailiesConfig
	FoodMonthly      decimal.Decimal
	TransportMonthly decimal.Decimal
}

// Resolve computes the full figure set for one trip.
func (r *DailiesResolver) Resolve(p DailiesParams, role, functionCode string) DailiesResult {
	result := DailiesResult{Mode: DailiesManual}
	holidays := NewHolidaySet(r.Config.Holidays)

	start, errStart := ParseDate(p.StartDate)
	end, errEnd := ParseDate(p.EndDate)

	if errStart == nil && errEnd == nil {
		result.Mode = DailiesDateRange
		if end.Before(start) {
			start, end = end, start
		}

		calendar := decimal.NewFromInt(int64(DaysInclusive(start, end)))
		// Date-range mode always excludes weekends and holidays from the
		// deductible count, regardless of the config flag.
		deductible := decimal.NewFromInt(int64(holidays.CountBusinessDays(start, end)))
		returnIsBusiness := holidays.IsBusinessDay(end)

		payable := calendar
		if r.Config.HalfDailyOnBusinessReturnDay && returnIsBusiness {
			payable = payable.Sub(pointFive)
		}

		discountDays := deductible
		if r.Config.HalfDiscountOnBusinessReturnDay && returnIsBusiness {
			discountDays = discountDays.Sub(pointFive)
		}
		discountDays = ClampNonNegative(discountDays)

		result.CalendarDays = calendar
		result.DeductibleDays = deductible
		result.PayableDays = ClampNonNegative(payable)
		result.FoodDiscountDays = discountDays
		result.TransportDiscountDays = discountDays
	} else {
		days := ClampNonNegative(p.ManualDays)
		result.CalendarDays = days
		result.DeductibleDays = days
		result.PayableDays = days
		result.FoodDiscountDays = ClampNonNegative(p.ManualFoodDiscountDays)
		result.TransportDiscountDays = ClampNonNegative(p.ManualTransportDiscountDays)
	}

	result.DailyRate = r.resolveRate(role, functionCode)
	result.Embarkation = r.embarkationAddition(p.Embarkation)

	result.Gross = Round2(result.PayableDays.Mul(result.DailyRate).Add(result.Embarkation))
	result.Cut = r.capCut(result.PayableDays, result.DailyRate, result.Embarkation, result.Gross)
	result.Gloss = r.externalGloss(p, result.PayableDays, result.DailyRate)

	if p.DiscountFood {
		result.FoodDiscount = r.benefitDiscount(r.FoodMonthly, r.Config.FoodDivisor, result.FoodDiscountDays)
	}
	if p.DiscountTransport {
		result.TransportDiscount = r.benefitDiscount(r.TransportMonthly, r.Config.TransportDivisor, result.TransportDiscountDays)
	}

	net := result.Gross.
		Sub(result.Cut).
		Sub(result.Gloss).
		Sub(result.FoodDiscount).
		Sub(result.TransportDiscount)
	result.Net = ClampNonNegative(net)

	return result
}

// =============================================================================
// RATE RESOLUTION
// =============================================================================

// resolveRateKey normalizes the role into a rate-table key and reports
// whether the assigned function triggers the commission override.
func (r *DailiesResolver) resolveRateKey(role, functionCode string) (string, bool) {
	if r.Config.CommissionPrefix != "" && functionCode != "" && functionCode != NoFunctionCode {
		if strings.HasPrefix(strings.ToLower(functionCode), strings.ToLower(r.Config.CommissionPrefix)) {
			return "commission", true
		}
	}

	key := strings.ToLower(strings.TrimSpace(role))
	if alias, ok := roleRateAliases[key]; ok {
		key = alias
	}
	return key, false
}

func (r *DailiesResolver) resolveRate(role, functionCode string) decimal.Decimal {
	key, commission := r.resolveRateKey(role, functionCode)

	// The derived scheme overrides the flat table whenever a percentage
	// exists for the resolved key, commission included.
	if r.Config.DerivedScheme {
		if pct, ok := r.Config.DerivedPercentages[key]; ok {
			return r.Config.ReferencePerDiem.Mul(normalizePercent(pct))
		}
	}

	if commission {
		return ClampNonNegative(r.Config.CommissionRate)
	}
	if rate, ok := r.Config.Rates[key]; ok {
		return ClampNonNegative(rate)
	}
	// Literal match for roles outside the alias list.
	if rate, ok := r.Config.Rates[role]; ok {
		return ClampNonNegative(rate)
	}
	return decimal.Zero
}

// =============================================================================
// EMBARKATION ADDITION
// =============================================================================

func (r *DailiesResolver) embarkationAddition(opt EmbarkationOption) decimal.Decimal {
	switch opt {
	case EmbarkationFull:
		if r.Config.DerivedScheme && r.Config.EmbarkationFullPct.IsPositive() {
			return r.Config.ReferencePerDiem.Mul(normalizePercent(r.Config.EmbarkationFullPct))
		}
		return ClampNonNegative(r.Config.EmbarkationFullValue)

	case EmbarkationHalf:
		if r.Config.DerivedScheme && r.Config.EmbarkationFullPct.IsPositive() {
			halfPct := r.Config.EmbarkationHalfPct
			if !halfPct.IsPositive() {
				halfPct = r.Config.EmbarkationFullPct.Div(decimal.NewFromInt(2))
			}
			return r.Config.ReferencePerDiem.Mul(normalizePercent(halfPct))
		}
		return ClampNonNegative(r.Config.EmbarkationHalfValue)

	default:
		return decimal.Zero
	}
}

// =============================================================================
// CAP ENFORCEMENT
// =============================================================================

// capCut computes the whole-trip cut above the budget-law limit.
func (r *DailiesResolver) capCut(payableDays, rate, embarkation, gross decimal.Decimal) decimal.Decimal {
	if !r.Config.CapEnabled || !r.Config.CapLimit.IsPositive() {
		return decimal.Zero
	}

	limit := r.Config.CapLimit
	fullDays := payableDays.Floor()
	partialQty := payableDays.Sub(fullDays)

	maxAllowed := fullDays.Mul(limit)
	partialAmount := partialQty.Mul(rate).Add(embarkation)
	maxAllowed = maxAllowed.Add(decimal.Min(partialAmount, limit))

	return ClampNonNegative(gross.Sub(maxAllowed))
}

// =============================================================================
// GLOSS AND DISCOUNTS
// =============================================================================

// externalGloss deducts for benefits already provided in kind. The
// percentage applies to payableDays * rate; the embarkation addition is
// excluded from this base.
func (r *DailiesResolver) externalGloss(p DailiesParams, payableDays, rate decimal.Decimal) decimal.Decimal {
	pct := decimal.Zero
	if p.LodgingProvided {
		pct = pct.Add(normalizePercent(r.Config.LodgingGlossPct))
	}
	if p.MealsProvided {
		pct = pct.Add(normalizePercent(r.Config.MealsGlossPct))
	}
	if p.TransportProvided {
		pct = pct.Add(normalizePercent(r.Config.TransportGlossPct))
	}
	if pct.IsZero() {
		return decimal.Zero
	}
	return Round2(payableDays.Mul(rate).Mul(pct))
}

func (r *DailiesResolver) benefitDiscount(monthly, divisor, days decimal.Decimal) decimal.Decimal {
	if !divisor.IsPositive() || !monthly.IsPositive() {
		return decimal.Zero
	}
	return Round2(monthly.Div(divisor).Mul(days))
}
