package payroll_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/warp/payroll-engine/payroll"
)

// =============================================================================
// TEST FIXTURES
// =============================================================================

func testRules() *payroll.PayrollRules {
	return &payroll.PayrollRules{
		GratificationMultiplier:   money(0.6),
		SpecificGratificationRate: money(0.2),
		ReferenceValueRate:        money(0.1),
		DaysPerMonth:              money(30),
		OvertimeHourDivisor:       money(200),
		TransportWorkDays:         money(22),
		TransportDiscountRate:     money(0.06),
		TopTaxRate:                money(0.275),
		SupplementaryPensionRate:  money(0.085),
		PermanenceBonusRate:       money(0.05),
	}
}

func testConfig() *payroll.OrganizationConfig {
	return &payroll.OrganizationConfig{
		OrganizationID: "org-1",
		SalaryTable: payroll.SalaryTable{
			"analyst": {"a1": money(3000), "a2": money(4500)},
		},
		FunctionTable: payroll.FunctionTable{
			"dir-1": money(1200),
			"dir-2": money(2000),
		},
		ContributionTables: map[string]payroll.ContributionTable{
			"v1": contributionTable(),
		},
		TaxTables: map[string]payroll.TaxTable{
			"v1": {FixedDeduction: money(675), Brackets: progressiveBrackets()},
		},
		Rules:    testRules(),
		Benefits: payroll.BenefitsConfig{FoodMonthly: money(600), TransportDaily: money(10)},
		Dailies:  dailiesConfig(),
	}
}

func baseParams() payroll.CalculationParams {
	return payroll.CalculationParams{
		OrganizationID:       "org-1",
		Role:                 "analyst",
		PayTier:              "a1",
		FunctionCode:         payroll.NoFunctionCode,
		ContributionTableKey: "v1",
		TaxTableKey:          "v1",
	}
}

// =============================================================================
// PRECONDITIONS
// =============================================================================

func TestCalculate_MissingConfigIsFatal(t *testing.T) {
	_, err := payroll.Calculate(nil, baseParams())

	if !errors.Is(err, payroll.ErrMissingConfig) {
		t.Fatalf("expected ErrMissingConfig, got %v", err)
	}
}

func TestCalculate_MissingRulesIsFatal(t *testing.T) {
	cfg := testConfig()
	cfg.Rules = nil

	_, err := payroll.Calculate(cfg, baseParams())

	if !errors.Is(err, payroll.ErrMissingRules) {
		t.Fatalf("expected ErrMissingRules, got %v", err)
	}
}

// =============================================================================
// BASE COMPOSITION AND CORE DEDUCTIONS
// =============================================================================

func TestCalculate_BaseSalaryWithGratification(t *testing.T) {
	// GIVEN: Tier salary 3000, gratification multiplier 0.6
	// WHEN: Calculating with no other toggles
	// THEN: Gross = 4800; contribution and tax follow the v1 tables

	result, err := payroll.Calculate(testConfig(), baseParams())
	if err != nil {
		t.Fatal(err)
	}

	if !approxEqual(result.Breakdown.Get(payroll.KeyBaseSalary), money(3000)) {
		t.Errorf("base salary: got %v", result.Breakdown.Get(payroll.KeyBaseSalary))
	}
	if !approxEqual(result.Breakdown.Get(payroll.KeyGratification), money(1800)) {
		t.Errorf("gratification: got %v", result.Breakdown.Get(payroll.KeyGratification))
	}
	if !approxEqual(result.TotalGross, money(4800)) {
		t.Errorf("gross: got %v", result.TotalGross)
	}

	// Contribution on 4800: 1000*0.08 + 2000*0.09 + 1800*0.11 = 458
	if !approxEqual(result.Breakdown.Get(payroll.KeyContribution), money(458)) {
		t.Errorf("contribution: got %v", result.Breakdown.Get(payroll.KeyContribution))
	}
	// Tax on 4800 - 458 = 4342: 4342*0.275 - 675 = 519.05
	if !approxEqual(result.Breakdown.Get(payroll.KeyIncomeTax), money(519.05)) {
		t.Errorf("tax: got %v", result.Breakdown.Get(payroll.KeyIncomeTax))
	}
}

func TestCalculate_PeriodAdjustmentEscalatesSalary(t *testing.T) {
	cfg := testConfig()
	cfg.Adjustments = []payroll.AdjustmentEntry{
		{Period: 1, Percent: money(10)},
		{Period: 2, Percent: money(10)},
	}
	p := baseParams()
	p.PeriodIndex = 2

	result, err := payroll.Calculate(cfg, p)
	if err != nil {
		t.Fatal(err)
	}

	if !approxEqual(result.Breakdown.Get(payroll.KeyBaseSalary), money(3630)) {
		t.Errorf("expected escalated salary 3630, got %v", result.Breakdown.Get(payroll.KeyBaseSalary))
	}
}

func TestCalculate_NetEqualsGrossMinusDeductions(t *testing.T) {
	result, err := payroll.Calculate(testConfig(), kitchenSinkParams())
	if err != nil {
		t.Fatal(err)
	}

	expected := result.TotalGross.Sub(result.TotalDeductions)
	if !result.NetPay.Equal(expected) {
		t.Errorf("net %v != gross %v - deductions %v", result.NetPay, result.TotalGross, result.TotalDeductions)
	}
}

func TestCalculate_BreakdownRoundTrip(t *testing.T) {
	// GIVEN: A scenario exercising every component
	// WHEN: Hand-summing the documented credit and debit lines
	// THEN: The sums reproduce NetPay exactly

	result, err := payroll.Calculate(testConfig(), kitchenSinkParams())
	if err != nil {
		t.Fatal(err)
	}

	credits := decimal.Zero
	for _, key := range payroll.CreditKeys {
		credits = credits.Add(result.Breakdown.Get(key))
	}
	debits := decimal.Zero
	for _, key := range payroll.DebitKeys {
		debits = debits.Add(result.Breakdown.Get(key))
	}

	if !credits.Sub(debits).Equal(result.NetPay) {
		t.Errorf("breakdown round-trip: %v - %v != net %v", credits, debits, result.NetPay)
	}
	if !credits.Equal(result.TotalGross) {
		t.Errorf("credit lines sum %v != gross %v", credits, result.TotalGross)
	}
}

// kitchenSinkParams exercises every component at once.
func kitchenSinkParams() payroll.CalculationParams {
	p := baseParams()
	p.FunctionCode = "dir-1"
	p.SpecificGratification = true
	p.QualificationAmount = money(300)
	p.FixedExtras = money(150)
	p.CeilingApplies = true
	p.SupplementaryPension = true
	p.VoluntaryPensionRate = money(0.05)
	p.FoodBenefit = true
	p.TransportBenefit = true
	p.VacationThird = true
	p.Thirteenth = true
	p.OvertimeHours50 = money(10)
	p.OvertimeHours100 = money(5)
	p.PermanenceBonus = true
	p.Substitutions = []payroll.Substitution{{FunctionCode: "dir-2", Days: money(10)}}
	p.CompensatoryLeaveDays = money(5)
	p.Dailies = &payroll.DailiesParams{
		StartDate:    "2026-03-02",
		EndDate:      "2026-03-06",
		Embarkation:  payroll.EmbarkationFull,
		DiscountFood: true,
	}
	p.LineItems = []payroll.LineItem{
		{Description: "back pay", IsCredit: true, Amount: money(2500), IncludeInTaxBase: true, IsPriorPeriodIncome: true},
		{Description: "bonus", IsCredit: true, Amount: money(400), IncludeInTaxBase: true, IncludeInContributionBase: true},
		{Description: "union dues", IsCredit: false, Amount: money(50)},
	}
	return p
}

// =============================================================================
// BENEFITS
// =============================================================================

func TestCalculate_TransportBenefitAndDiscount(t *testing.T) {
	p := baseParams()
	p.FoodBenefit = true
	p.TransportBenefit = true

	result, err := payroll.Calculate(testConfig(), p)
	if err != nil {
		t.Fatal(err)
	}

	// Transport: 10/day * 22 work days = 220; discount = 6% of 3000 = 180
	if !approxEqual(result.Breakdown.Get(payroll.KeyTransportBenefit), money(220)) {
		t.Errorf("transport benefit: got %v", result.Breakdown.Get(payroll.KeyTransportBenefit))
	}
	if !approxEqual(result.Breakdown.Get(payroll.KeyTransportDiscount), money(180)) {
		t.Errorf("transport discount: got %v", result.Breakdown.Get(payroll.KeyTransportDiscount))
	}
	if !approxEqual(result.TotalBenefits, money(820)) {
		t.Errorf("total benefits: got %v", result.TotalBenefits)
	}
}

// =============================================================================
// VACATION THIRD
// =============================================================================

func TestCalculate_VacationThirdDefault(t *testing.T) {
	p := baseParams()
	p.VacationThird = true

	result, err := payroll.Calculate(testConfig(), p)
	if err != nil {
		t.Fatal(err)
	}

	// (3000 + 1800) / 3 = 1600
	if !approxEqual(result.Breakdown.Get(payroll.KeyVacationThird), money(1600)) {
		t.Errorf("vacation third: got %v", result.Breakdown.Get(payroll.KeyVacationThird))
	}
}

func TestCalculate_AnticipatedVacationThird(t *testing.T) {
	// GIVEN: The third was advanced (and taxed) in a prior period
	// WHEN: Calculating this period
	// THEN: A matching debit prevents double payment, and the third is
	//       excluded from this period's tax base

	plain := baseParams()
	plain.VacationThird = true

	anticipated := plain
	anticipated.VacationThirdAnticipated = true

	plainResult, err := payroll.Calculate(testConfig(), plain)
	if err != nil {
		t.Fatal(err)
	}
	anticipatedResult, err := payroll.Calculate(testConfig(), anticipated)
	if err != nil {
		t.Fatal(err)
	}

	third := anticipatedResult.Breakdown.Get(payroll.KeyVacationThird)
	debit := anticipatedResult.Breakdown.Get(payroll.KeyVacationThirdDebit)
	if !third.Equal(debit) {
		t.Errorf("anticipated debit %v must match the third %v", debit, third)
	}

	if !anticipatedResult.Breakdown.Get(payroll.KeyIncomeTax).
		LessThan(plainResult.Breakdown.Get(payroll.KeyIncomeTax)) {
		t.Error("anticipated third must not be taxed again this period")
	}
}

// =============================================================================
// 13TH SALARY
// =============================================================================

func TestCalculate_ThirteenthAdvanceOutsideClosingPeriod(t *testing.T) {
	p := baseParams()
	p.FunctionCode = "dir-1"
	p.Thirteenth = true

	result, err := payroll.Calculate(testConfig(), p)
	if err != nil {
		t.Fatal(err)
	}

	// Half of base without function (4800/2) and half of function (1200/2).
	if !approxEqual(result.Breakdown.Get(payroll.KeyThirteenthAdvanceBase), money(2400)) {
		t.Errorf("advance base: got %v", result.Breakdown.Get(payroll.KeyThirteenthAdvanceBase))
	}
	if !approxEqual(result.Breakdown.Get(payroll.KeyThirteenthAdvanceFunction), money(600)) {
		t.Errorf("advance function: got %v", result.Breakdown.Get(payroll.KeyThirteenthAdvanceFunction))
	}
	if !result.Breakdown.Get(payroll.KeyThirteenthSalary).IsZero() {
		t.Error("full 13th must not be paid outside the closing period")
	}
}

func TestCalculate_ThirteenthClosingPeriod(t *testing.T) {
	p := baseParams()
	p.FunctionCode = "dir-1"
	p.Thirteenth = true
	p.ClosingPeriod = true

	result, err := payroll.Calculate(testConfig(), p)
	if err != nil {
		t.Fatal(err)
	}

	// Full 13th = 4800 + 1200 = 6000. The function value stays out of the
	// contribution base for this regime: base 4800 -> contribution 458;
	// tax on 4800 - 458 = 4342 progressively: 519.05.
	if !approxEqual(result.Breakdown.Get(payroll.KeyThirteenthSalary), money(6000)) {
		t.Errorf("full 13th: got %v", result.Breakdown.Get(payroll.KeyThirteenthSalary))
	}
	if !approxEqual(result.Breakdown.Get(payroll.KeyThirteenthContribution), money(458)) {
		t.Errorf("13th contribution: got %v", result.Breakdown.Get(payroll.KeyThirteenthContribution))
	}
	if !approxEqual(result.Breakdown.Get(payroll.KeyThirteenthTax), money(519.05)) {
		t.Errorf("13th tax: got %v", result.Breakdown.Get(payroll.KeyThirteenthTax))
	}
	if !result.Breakdown.Get(payroll.KeyThirteenthAdvanceBase).IsZero() {
		t.Error("advance halves must not be paid in the closing period")
	}
}

// =============================================================================
// OVERTIME
// =============================================================================

func TestCalculate_OvertimePremiums(t *testing.T) {
	p := baseParams()
	p.OvertimeHours50 = money(10)
	p.OvertimeHours100 = money(5)

	result, err := payroll.Calculate(testConfig(), p)
	if err != nil {
		t.Fatal(err)
	}

	// Hourly rate = 4800 / 200 = 24; 24*1.5*10 = 360; 24*2*5 = 240.
	if !approxEqual(result.Breakdown.Get(payroll.KeyOvertime50), money(360)) {
		t.Errorf("overtime 50: got %v", result.Breakdown.Get(payroll.KeyOvertime50))
	}
	if !approxEqual(result.Breakdown.Get(payroll.KeyOvertime100), money(240)) {
		t.Errorf("overtime 100: got %v", result.Breakdown.Get(payroll.KeyOvertime100))
	}
}

// =============================================================================
// SUBSTITUTION AND LEAVE
// =============================================================================

func TestCalculate_SubstitutionPay(t *testing.T) {
	p := baseParams()
	p.Substitutions = []payroll.Substitution{{FunctionCode: "dir-2", Days: money(15)}}

	result, err := payroll.Calculate(testConfig(), p)
	if err != nil {
		t.Fatal(err)
	}

	// No current function: 2000 / 30 * 15 = 1000.
	if !approxEqual(result.Breakdown.Get(payroll.KeySubstitution), money(1000)) {
		t.Errorf("substitution: got %v", result.Breakdown.Get(payroll.KeySubstitution))
	}
}

func TestCalculate_SubstitutionNeverNegative(t *testing.T) {
	// GIVEN: Current function worth more than the substituted one
	// WHEN: Calculating for any day count
	// THEN: Substitution pay is zero

	p := baseParams()
	p.FunctionCode = "dir-2"
	p.Substitutions = []payroll.Substitution{{FunctionCode: "dir-1", Days: money(20)}}

	result, err := payroll.Calculate(testConfig(), p)
	if err != nil {
		t.Fatal(err)
	}

	if !result.Breakdown.Get(payroll.KeySubstitution).IsZero() {
		t.Errorf("expected zero substitution pay, got %v", result.Breakdown.Get(payroll.KeySubstitution))
	}
}

func TestCalculate_LeaveIndemnity(t *testing.T) {
	p := baseParams()
	p.CompensatoryLeaveDays = money(6)

	result, err := payroll.Calculate(testConfig(), p)
	if err != nil {
		t.Fatal(err)
	}

	// 4800 / 30 * 6 = 960.
	if !approxEqual(result.Breakdown.Get(payroll.KeyLeave), money(960)) {
		t.Errorf("leave indemnity: got %v", result.Breakdown.Get(payroll.KeyLeave))
	}
}

// =============================================================================
// CEILING AND SUPPLEMENTARY PENSION
// =============================================================================

func TestCalculate_CeilingExcessFeedsSupplementaryPension(t *testing.T) {
	// GIVEN: Contribution base 5800 against a 5000 ceiling, enrolled with
	//        a 5% voluntary rate
	// WHEN: Calculating
	// THEN: Excess 800; pension = 800 * (0.085 + 0.05) = 108

	p := baseParams()
	p.FixedExtras = money(1000) // 3000 + 1800 + 1000 = 5800
	p.CeilingApplies = true
	p.SupplementaryPension = true
	p.VoluntaryPensionRate = money(0.05)

	result, err := payroll.Calculate(testConfig(), p)
	if err != nil {
		t.Fatal(err)
	}

	if !approxEqual(result.Breakdown.Get(payroll.KeyContributionExcess), money(800)) {
		t.Errorf("excess: got %v", result.Breakdown.Get(payroll.KeyContributionExcess))
	}
	if !approxEqual(result.Breakdown.Get(payroll.KeySupplementaryPension), money(108)) {
		t.Errorf("pension: got %v", result.Breakdown.Get(payroll.KeySupplementaryPension))
	}
	// Contribution is computed on the clamped base (5000): 480.
	if !approxEqual(result.Breakdown.Get(payroll.KeyContribution), money(480)) {
		t.Errorf("contribution: got %v", result.Breakdown.Get(payroll.KeyContribution))
	}
}

// =============================================================================
// PRIOR-PERIOD (EA) INCOME
// =============================================================================

func TestCalculate_PriorPeriodIncomeTaxedProgressively(t *testing.T) {
	// GIVEN: A 2500 prior-period credit
	// WHEN: Calculating
	// THEN: It is taxed with the brackets (2500*0.15 - 300 = 75), not the
	//       top-rate shortcut, and stays out of the regular tax base

	plain := baseParams()

	withEA := baseParams()
	withEA.LineItems = []payroll.LineItem{
		{Description: "court-ordered back pay", IsCredit: true, Amount: money(2500),
			IncludeInTaxBase: true, IsPriorPeriodIncome: true},
	}

	plainResult, err := payroll.Calculate(testConfig(), plain)
	if err != nil {
		t.Fatal(err)
	}
	eaResult, err := payroll.Calculate(testConfig(), withEA)
	if err != nil {
		t.Fatal(err)
	}

	if !approxEqual(eaResult.Breakdown.Get(payroll.KeyIncomeTaxPriorPeriod), money(75)) {
		t.Errorf("EA tax: got %v", eaResult.Breakdown.Get(payroll.KeyIncomeTaxPriorPeriod))
	}
	if !eaResult.Breakdown.Get(payroll.KeyIncomeTax).Equal(plainResult.Breakdown.Get(payroll.KeyIncomeTax)) {
		t.Error("EA income must not inflate the regular tax base")
	}
}

// =============================================================================
// DEGRADATION
// =============================================================================

func TestCalculate_MissingOptionalTablesDegradeToZero(t *testing.T) {
	cfg := testConfig()
	cfg.ContributionTables = nil
	cfg.TaxTables = nil

	result, err := payroll.Calculate(cfg, baseParams())
	if err != nil {
		t.Fatal(err)
	}

	if !result.Breakdown.Get(payroll.KeyContribution).IsZero() {
		t.Errorf("expected zero contribution, got %v", result.Breakdown.Get(payroll.KeyContribution))
	}
	// Simple tax still applies the top rate with a zero deduction.
	// Base 4800 * 0.275 = 1320.
	if !approxEqual(result.Breakdown.Get(payroll.KeyIncomeTax), money(1320)) {
		t.Errorf("expected tax 1320, got %v", result.Breakdown.Get(payroll.KeyIncomeTax))
	}
}

func TestCalculate_UnknownRoleDegradesToZeroSalary(t *testing.T) {
	p := baseParams()
	p.Role = "no-such-role"

	result, err := payroll.Calculate(testConfig(), p)
	if err != nil {
		t.Fatal(err)
	}

	if !result.Breakdown.Get(payroll.KeyBaseSalary).IsZero() {
		t.Errorf("expected zero salary, got %v", result.Breakdown.Get(payroll.KeyBaseSalary))
	}
}
