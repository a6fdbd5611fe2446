package core

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 0.01
}

func TestCalculateTaxExtraction(t *testing.T) {
	cases := []struct {
		revenue float64
		rate    float64
	}{
		{1200, 20},
		{0, 20},
		{1000, 0},
		{999.99, 18},
		{1, 1},
	}
	for i, tc := range cases {
		r := Calculate(CalcInput{GrossRevenue: tc.revenue, TaxRatePercent: tc.rate, ProductionMinutes: 1})
		wantTax := tc.revenue * tc.rate / (100 + tc.rate)
		if !almostEqual(r.TaxAmount, wantTax) {
			t.Fatalf("case %d tax=%v want %v", i, r.TaxAmount, wantTax)
		}
		// tax + net revenue must reassemble the gross revenue
		if math.Abs(r.TaxAmount+r.RevenueExTax-tc.revenue) > 1e-9 {
			t.Fatalf("case %d tax+net=%v revenue=%v", i, r.TaxAmount+r.RevenueExTax, tc.revenue)
		}
	}
}

func TestCalculateOverheadMonotonic(t *testing.T) {
	prev := -1.0
	for minutes := 1; minutes <= 120; minutes += 7 {
		r := Calculate(CalcInput{GrossRevenue: 100, ProductionMinutes: minutes, ExpensePerMinute: 0.5})
		if r.AllocatedOverhead <= prev {
			t.Fatalf("overhead not increasing at %d minutes: %v <= %v", minutes, r.AllocatedOverhead, prev)
		}
		prev = r.AllocatedOverhead
	}
}

func TestCalculateMinutesCoercion(t *testing.T) {
	for _, minutes := range []int{-5, 0, 1} {
		r := Calculate(CalcInput{GrossRevenue: 100, ProductionMinutes: minutes, ExpensePerMinute: 2})
		if r.ProductionMinutes != 1 {
			t.Fatalf("minutes=%d coerced to %d, want 1", minutes, r.ProductionMinutes)
		}
		if r.AllocatedOverhead != 2 {
			t.Fatalf("minutes=%d overhead=%v, want 2", minutes, r.AllocatedOverhead)
		}
	}
}

func TestCalculateZeroCostMarginSentinel(t *testing.T) {
	cases := []struct {
		revenue float64
		want    float64
	}{
		{0, 0},
		{1, 100},
		{50000, 100}, // magnitude does not matter
	}
	for i, tc := range cases {
		r := Calculate(CalcInput{GrossRevenue: tc.revenue, ProductionMinutes: 1})
		if r.TotalCost != 0 {
			t.Fatalf("case %d expected zero total cost, got %v", i, r.TotalCost)
		}
		if r.ProfitMarginPercent != tc.want {
			t.Fatalf("case %d margin=%v want %v", i, r.ProfitMarginPercent, tc.want)
		}
	}
}

func TestCalculateWorkedExample(t *testing.T) {
	// revenue 1200 incl. 20% tax, 60 minutes at 1.0/minute overhead
	r := Calculate(CalcInput{
		GrossRevenue:      1200,
		MaterialCost:      300,
		ProductionMinutes: 60,
		TaxRatePercent:    20,
		ExpensePerMinute:  1.0,
	})
	checks := []struct {
		name string
		got  float64
		want float64
	}{
		{"tax", r.TaxAmount, 200},
		{"revenueExTax", r.RevenueExTax, 1000},
		{"markup", r.Markup, 700},
		{"overhead", r.AllocatedOverhead, 60},
		{"totalCost", r.TotalCost, 360},
		{"netProfit", r.NetProfit, 640},
		{"margin", r.ProfitMarginPercent, 177.78},
	}
	for _, c := range checks {
		if !almostEqual(c.got, c.want) {
			t.Fatalf("%s=%v want %v", c.name, c.got, c.want)
		}
	}
}

func TestCalculateNegativeMarkup(t *testing.T) {
	r := Calculate(CalcInput{GrossRevenue: 120, MaterialCost: 500, ProductionMinutes: 10, TaxRatePercent: 20})
	if r.Markup >= 0 {
		t.Fatalf("expected negative markup, got %v", r.Markup)
	}
	if r.NetProfit >= 0 {
		t.Fatalf("expected loss, got %v", r.NetProfit)
	}
}
