package payroll_test

import (
	"testing"

	"github.com/warp/payroll-engine/payroll"
)

// =============================================================================
// SIMPLE FORMULA
// =============================================================================

func TestSimpleTax(t *testing.T) {
	tests := []struct {
		name      string
		base      float64
		rate      float64
		deduction float64
		want      float64
	}{
		{"above deduction", 10000, 0.275, 675, 2075},
		{"deduction exceeds tax", 1000, 0.275, 675, 0},
		{"zero base", 0, 0.275, 675, 0},
		{"negative base treated as zero", -500, 0.275, 100, 0},
		{"zero rate", 10000, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := payroll.SimpleTax(money(tt.base), money(tt.rate), money(tt.deduction))
			if !approxEqual(got, money(tt.want)) {
				t.Errorf("SimpleTax(%v) = %v, want %v", tt.base, got, tt.want)
			}
		})
	}
}

// =============================================================================
// PROGRESSIVE FORMULA
// =============================================================================

func progressiveBrackets() []payroll.TaxBracket {
	return []payroll.TaxBracket{
		{Min: money(0), Max: money(2000), Rate: money(0), Deduction: money(0)},
		{Min: money(2000), Max: money(3000), Rate: money(0.15), Deduction: money(300)},
		{Min: money(3000), Max: money(5000), Rate: money(0.275), Deduction: money(675)},
	}
}

func TestProgressiveTax(t *testing.T) {
	tests := []struct {
		name string
		base float64
		want float64
	}{
		{"exempt bracket", 1500, 0},
		{"middle bracket", 2500, 75},       // 2500*0.15 - 300
		{"top bracket", 4000, 425},         // 4000*0.275 - 675
		{"bracket upper bound inclusive", 3000, 150}, // 3000*0.15 - 300
		{"beyond all ranges falls back to last bracket", 8000, 1525}, // 8000*0.275 - 675
		{"negative base", -100, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := payroll.ProgressiveTax(money(tt.base), progressiveBrackets())
			if !approxEqual(got, money(tt.want)) {
				t.Errorf("ProgressiveTax(%v) = %v, want %v", tt.base, got, tt.want)
			}
		})
	}
}

func TestProgressiveTax_Idempotent(t *testing.T) {
	// GIVEN: The same base and table
	// WHEN: Running the selection twice
	// THEN: Bracket choice and amount are identical

	first := payroll.ProgressiveTax(money(2500), progressiveBrackets())
	second := payroll.ProgressiveTax(money(2500), progressiveBrackets())

	if !first.Equal(second) {
		t.Errorf("expected identical results, got %v and %v", first, second)
	}
}

func TestProgressiveTax_EmptyBracketsDegradeToZero(t *testing.T) {
	got := payroll.ProgressiveTax(money(5000), nil)

	if !got.IsZero() {
		t.Errorf("expected zero tax for missing brackets, got %v", got)
	}
}
