package core

// CalcInput carries the numbers a profit/loss calculation needs. The
// per-minute expense rate comes from the expense configuration and is
// captured here so the calculation itself stays free of I/O.
type CalcInput struct {
	GrossRevenue      float64 // tax-inclusive
	MaterialCost      float64
	ProductionMinutes int
	TaxRatePercent    float64
	ExpensePerMinute  float64
}

// CalcResult is the full cost/profit breakdown for one sale. Values
// are unrounded; rounding to 2 decimals happens once, at persistence,
// so intermediate steps do not compound rounding error.
type CalcResult struct {
	ProductionMinutes   int // coerced to >= 1
	TaxAmount           float64
	RevenueExTax        float64
	Markup              float64
	AllocatedOverhead   float64
	TotalCost           float64
	NetProfit           float64
	ProfitMarginPercent float64
}

// Calculate computes the tax breakdown, overhead allocation and
// profit figures for a sale. It is deterministic and does no I/O.
//
// The revenue is assumed tax-inclusive, so the tax share is extracted
// as revenue * rate / (100 + rate). Markup is informational only: the
// pre-overhead difference between net revenue and material cost.
func Calculate(in CalcInput) CalcResult {
	minutes := in.ProductionMinutes
	if minutes < 1 {
		minutes = 1
	}

	taxAmount := in.GrossRevenue * in.TaxRatePercent / (100 + in.TaxRatePercent)
	revenueExTax := in.GrossRevenue - taxAmount
	markup := revenueExTax - in.MaterialCost

	allocatedOverhead := in.ExpensePerMinute * float64(minutes)
	totalCost := in.MaterialCost + allocatedOverhead
	netProfit := revenueExTax - totalCost

	var margin float64
	if totalCost > 0 {
		margin = netProfit / totalCost * 100
	} else if revenueExTax != 0 {
		// Zero-cost sale with revenue reports a flat 100% regardless
		// of the revenue magnitude. Kept for record compatibility.
		margin = 100
	}

	return CalcResult{
		ProductionMinutes:   minutes,
		TaxAmount:           taxAmount,
		RevenueExTax:        revenueExTax,
		Markup:              markup,
		AllocatedOverhead:   allocatedOverhead,
		TotalCost:           totalCost,
		NetProfit:           netProfit,
		ProfitMarginPercent: margin,
	}
}
