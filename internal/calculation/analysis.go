package calculation

import (
	"math"

	"github.com/dwz/networth-planner/internal/domain"
	"github.com/shopspring/decimal"
)

// ProjectionMetrics summarizes a projection for reporting: absolute
// growth, total return and compound annual growth rate between the
// first and final rows.
type ProjectionMetrics struct {
	InitialNetWorth decimal.Decimal `json:"initial_net_worth"`
	FinalNetWorth   decimal.Decimal `json:"final_net_worth"`
	Growth          decimal.Decimal `json:"growth"`
	TotalReturn     decimal.Decimal `json:"total_return"`
	CAGR            decimal.Decimal `json:"cagr"`
	FinalExpenses   decimal.Decimal `json:"final_expenses"`
}

// SummarizeProjection computes the reporting metrics for a result.
// TotalReturn and CAGR are zero for an empty result, a zero-length
// horizon, or a non-positive starting net worth; the ratio-based
// formulas are undefined there.
func SummarizeProjection(result *domain.ProjectionResult) ProjectionMetrics {
	var metrics ProjectionMetrics
	first := result.FirstRow()
	final := result.FinalRow()
	if first == nil || final == nil {
		return metrics
	}

	metrics.InitialNetWorth = first.TotalNetWorth
	metrics.FinalNetWorth = final.TotalNetWorth
	metrics.Growth = final.TotalNetWorth.Sub(first.TotalNetWorth)
	metrics.FinalExpenses = final.TotalExpenses

	years := result.Years()
	if years == 0 || !first.TotalNetWorth.IsPositive() {
		return metrics
	}

	ratio := final.TotalNetWorth.Div(first.TotalNetWorth)
	metrics.TotalReturn = ratio.Sub(decimal.NewFromInt(1))

	// The fractional exponent forces float math here; shopspring Pow
	// only handles integer exponents exactly.
	if ratio.IsPositive() {
		cagr := math.Pow(ratio.InexactFloat64(), 1/float64(years)) - 1
		metrics.CAGR = decimal.NewFromFloat(cagr)
	}
	return metrics
}
