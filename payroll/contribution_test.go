package payroll_test

import (
	"testing"

	"github.com/warp/payroll-engine/payroll"
)

func contributionTable() payroll.ContributionTable {
	return payroll.ContributionTable{
		Ceiling: money(5000),
		Brackets: []payroll.ContributionBracket{
			{Min: money(0), Max: money(1000), Rate: money(0.08)},
			{Min: money(1000), Max: money(3000), Rate: money(0.09)},
			{Min: money(3000), Max: money(5000), Rate: money(0.11)},
		},
	}
}

// =============================================================================
// TIERED COMPUTATION
// =============================================================================

func TestContribution_CumulativeTiers(t *testing.T) {
	// GIVEN: Three tiers at 8%, 9%, 11%
	// WHEN: Computing on a base of 3500
	// THEN: Each tier contributes only its own span:
	//       1000*0.08 + 2000*0.09 + 500*0.11 = 80 + 180 + 55 = 315

	result := payroll.Contribution(money(3500), contributionTable(), false)

	if !approxEqual(result.Contribution, money(315)) {
		t.Errorf("expected 315, got %v", result.Contribution)
	}
	if !result.Excess.IsZero() {
		t.Errorf("uncapped regime must report zero excess, got %v", result.Excess)
	}
}

func TestContribution_MonotonicInBase(t *testing.T) {
	// GIVEN: A table with no ceiling applied
	// WHEN: Increasing the base
	// THEN: The contribution never decreases

	table := contributionTable()
	prev := payroll.Contribution(money(0), table, false).Contribution
	for base := 100.0; base <= 8000; base += 100 {
		current := payroll.Contribution(money(base), table, false).Contribution
		if current.LessThan(prev) {
			t.Fatalf("contribution decreased at base %v: %v < %v", base, current, prev)
		}
		prev = current
	}
}

// =============================================================================
// CEILING
// =============================================================================

func TestContribution_CappedNeverExceedsCeilingContribution(t *testing.T) {
	// GIVEN: A base well above the ceiling
	// WHEN: Computing capped
	// THEN: The contribution equals the ceiling's own contribution, and
	//       the excess is exactly base - ceiling

	table := contributionTable()
	atCeiling := payroll.Contribution(table.Ceiling, table, false)
	capped := payroll.Contribution(money(7500), table, true)

	if capped.Contribution.GreaterThan(atCeiling.Contribution) {
		t.Errorf("capped contribution %v exceeds ceiling contribution %v",
			capped.Contribution, atCeiling.Contribution)
	}
	if !approxEqual(capped.Excess, money(2500)) {
		t.Errorf("expected excess 2500, got %v", capped.Excess)
	}
}

func TestContribution_CappedBelowCeilingHasNoExcess(t *testing.T) {
	result := payroll.Contribution(money(4000), contributionTable(), true)

	if !result.Excess.IsZero() {
		t.Errorf("expected zero excess below ceiling, got %v", result.Excess)
	}
}

func TestContribution_EmptyTableDegradesToZero(t *testing.T) {
	result := payroll.Contribution(money(3000), payroll.ContributionTable{}, true)

	if !result.Contribution.IsZero() {
		t.Errorf("expected zero contribution for empty table, got %v", result.Contribution)
	}
}

// =============================================================================
// SUPPLEMENTARY PENSION
// =============================================================================

func TestSupplementaryPension(t *testing.T) {
	tests := []struct {
		name          string
		excess        float64
		mandatory     float64
		voluntary     float64
		want          float64
	}{
		{"mandatory only", 1000, 0.085, 0, 85},
		{"mandatory plus voluntary", 1000, 0.085, 0.05, 135},
		{"zero excess", 0, 0.085, 0.05, 0},
		{"negative excess clamped", -500, 0.085, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := payroll.SupplementaryPension(money(tt.excess), money(tt.mandatory), money(tt.voluntary))
			if !approxEqual(got, money(tt.want)) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}
