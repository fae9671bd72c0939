package strategy

import (
	"golang-backtest/internal/dto"
	"golang-backtest/internal/indicator"
)

// MeanReversion is a two-state machine carried across bars: it goes long
// when the oscillator dips below the entry threshold and flattens when it
// recovers above the exit threshold. While the oscillator is still in
// warm-up the current state is held unchanged. The initial state is flat.
type MeanReversion struct {
	RSIPeriod      int
	EntryThreshold float64
	ExitThreshold  float64
}

func (s *MeanReversion) Name() string {
	return dto.StrategyMeanReversion
}

func (s *MeanReversion) Signals(bars []dto.StockOHLCV) []int {
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	rsi := indicator.RSI(closes, s.RSIPeriod)

	signals := make([]int, len(bars))
	long := false
	for i := range bars {
		if rsi[i].Valid {
			if !long && rsi[i].Float64 < s.EntryThreshold {
				long = true
			} else if long && rsi[i].Float64 > s.ExitThreshold {
				long = false
			}
		}
		if long {
			signals[i] = 1
		}
	}
	return signals
}
