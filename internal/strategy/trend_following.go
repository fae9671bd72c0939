package strategy

import (
	"golang-backtest/internal/dto"
	"golang-backtest/internal/indicator"
)

// TrendFollowing wants exposure while the fast moving average sits above
// the slow one and the close confirms above the slow average. The rule is
// stateless per bar: a single crossing bar flips the desired exposure.
type TrendFollowing struct {
	FastWindow int
	SlowWindow int
}

func (s *TrendFollowing) Name() string {
	return dto.StrategyTrendFollowing
}

func (s *TrendFollowing) Signals(bars []dto.StockOHLCV) []int {
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	fast := indicator.SMA(closes, s.FastWindow)
	slow := indicator.SMA(closes, s.SlowWindow)

	signals := make([]int, len(bars))
	for i := range bars {
		if fast[i].Valid && slow[i].Valid &&
			fast[i].Float64 > slow[i].Float64 &&
			closes[i] > slow[i].Float64 {
			signals[i] = 1
		}
	}
	return signals
}
