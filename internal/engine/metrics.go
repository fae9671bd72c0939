package engine

import (
	"math"

	"golang-backtest/internal/dto"
)

// TradingDaysPerYear is the annualization base for CAGR and Sharpe.
const TradingDaysPerYear = 252

// ComputeStats reduces an equity curve and its per-bar return series to
// summary statistics. It is a pure function, callable without a
// simulation. Degenerate inputs yield non-finite values, never panics:
// a wiped-out account gives a NaN CAGR, zero-variance returns a NaN
// Sharpe. Callers must check finiteness before display.
func ComputeStats(curve []dto.EquityPoint, returns []float64) dto.BacktestStats {
	stats := dto.BacktestStats{
		CAGR:   math.NaN(),
		Sharpe: math.NaN(),
	}
	if len(curve) == 0 {
		return stats
	}

	final := curve[len(curve)-1].Equity
	stats.TotalReturn = final - 1

	if m := len(returns); m > 0 {
		stats.CAGR = math.Pow(1+stats.TotalReturn, TradingDaysPerYear/float64(m)) - 1
	}

	stats.Sharpe = sharpe(returns)
	stats.MaxDrawdown = maxDrawdown(curve)
	return stats
}

// sharpe is mean/sampleStdDev scaled to annual. NaN with fewer than two
// observations or zero variance.
func sharpe(returns []float64) float64 {
	m := len(returns)
	if m < 2 {
		return math.NaN()
	}
	var sum float64
	for _, r := range returns {
		sum += r
	}
	mean := sum / float64(m)

	var ss float64
	for _, r := range returns {
		d := r - mean
		ss += d * d
	}
	stdDev := math.Sqrt(ss / float64(m-1))
	if stdDev == 0 {
		return math.NaN()
	}
	return mean / stdDev * math.Sqrt(TradingDaysPerYear)
}

// maxDrawdown is the most negative fractional decline from the running
// peak, 0 when the curve never declines or the peak is not positive.
func maxDrawdown(curve []dto.EquityPoint) float64 {
	peak := math.Inf(-1)
	worst := 0.0
	for _, p := range curve {
		if p.Equity > peak {
			peak = p.Equity
		}
		if peak > 0 {
			if dd := (p.Equity - peak) / peak; dd < worst {
				worst = dd
			}
		}
	}
	return worst
}
