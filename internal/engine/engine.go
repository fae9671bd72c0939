// Package engine walks a price series once against a precomputed signal
// slice and produces an equity curve, trade ledger and summary stats.
// Execution is next-bar-close: the exposure decided with data through bar
// i-1 is applied to the return realized from close[i-1] to close[i].
package engine

import (
	"golang-backtest/internal/dto"
	"golang-backtest/internal/indicator"
)

type VolumeGate struct {
	Enabled        bool
	Window         int
	ThresholdRatio float64
}

type EventScaling struct {
	Enabled        bool
	CountThreshold int
	ScaleFactor    float64
}

type Config struct {
	FeeBps            float64
	SlippageBps       float64
	ATRPeriod         int
	ATRStopMultiplier float64
	VolumeGate        VolumeGate
	EventScaling      EventScaling
}

// CostRate is the per-transaction cost rate. Fee and slippage are each
// clamped to [0, 200] bps and the combined rate to [0, 0.1].
func CostRate(feeBps, slippageBps float64) float64 {
	fee := clamp(feeBps, 0, 200)
	slip := clamp(slippageBps, 0, 200)
	return clamp((fee+slip)/10000, 0, 0.1)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// tradeState is the position automaton threaded through one run. It is
// owned by a single Run call and never shared.
type tradeState struct {
	long       bool
	entryPrice float64
	stopLevel  indicator.Value
}

// Run simulates signals over bars. signals[i] is the exposure desired
// after seeing bar i; events scales exposure on high-event days. It
// returns nil when the series is too short to simulate (fewer than 2
// bars) — that sentinel is distinct from a zero-valued result.
//
// Identical inputs always produce an identical result; the walk has no
// randomness and no hidden state between calls.
func Run(bars []dto.StockOHLCV, signals []int, cfg Config, events dto.EventCountByDate) *dto.BacktestResult {
	if len(bars) < 2 || len(signals) < len(bars) {
		return nil
	}

	costRate := CostRate(cfg.FeeBps, cfg.SlippageBps)
	atr := indicator.ATR(bars, cfg.ATRPeriod)
	var volRatio []indicator.Value
	if cfg.VolumeGate.Enabled {
		volRatio = indicator.VolumeRatio(bars, cfg.VolumeGate.Window)
	}

	res := &dto.BacktestResult{
		StartDate:    bars[0].Timestamp,
		EndDate:      bars[len(bars)-1].Timestamp,
		EquityCurve:  make([]dto.EquityPoint, 0, len(bars)-1),
		DailyReturns: make([]float64, 0, len(bars)-1),
	}

	var state tradeState
	equity := 1.0

	for i := 1; i < len(bars); i++ {
		desired := signals[i-1]
		fill := bars[i-1].Close

		// Entry gating blocks new entries on thin volume; it never
		// forces an exit.
		if desired == 1 && !state.long && cfg.VolumeGate.Enabled {
			vr := volRatio[i-1]
			if !vr.Valid || vr.Float64 < cfg.VolumeGate.ThresholdRatio {
				desired = 0
			}
		}

		switch {
		case desired == 1 && !state.long:
			equity *= 1 - costRate
			res.TradeCount++
			state.long = true
			state.entryPrice = fill
			state.stopLevel = indicator.Value{}
			if a := atr[i-1]; a.Valid && a.Float64 > 0 {
				state.stopLevel = indicator.Value{
					Valid:   true,
					Float64: fill - cfg.ATRStopMultiplier*a.Float64,
				}
			}
			res.Trades = append(res.Trades, dto.TradeLog{
				Date: bars[i-1].Timestamp, Action: "entry", Price: fill,
			})

		case desired == 0 && state.long:
			equity *= 1 - costRate
			res.TradeCount++
			pnl := fill/state.entryPrice - 1
			if pnl >= 0 {
				res.WinCount++
			} else {
				res.LossCount++
			}
			res.Trades = append(res.Trades, dto.TradeLog{
				Date: bars[i-1].Timestamp, Action: "exit", Price: fill, PnL: pnl,
			})
			state = tradeState{}
		}

		r := 0.0
		if state.long {
			exposure := 1.0
			if cfg.EventScaling.Enabled && events[bars[i].DateKey()] >= cfg.EventScaling.CountThreshold {
				exposure = clamp(cfg.EventScaling.ScaleFactor, 0, 1)
			}
			prevClose := bars[i-1].Close
			if exposure > 0 {
				// A position closed by the signal this bar is no longer
				// held here, so it can never also be stop-checked.
				if state.stopLevel.Valid && bars[i].Low <= state.stopLevel.Float64 && prevClose > 0 {
					stop := state.stopLevel.Float64
					r = exposure * (stop/prevClose - 1)
					equity *= 1 + r
					equity *= 1 - costRate
					res.TradeCount++
					pnl := stop/state.entryPrice - 1
					if pnl >= 0 {
						res.WinCount++
					} else {
						res.LossCount++
					}
					res.Trades = append(res.Trades, dto.TradeLog{
						Date: bars[i].Timestamp, Action: "stop", Price: stop, PnL: pnl,
					})
					state = tradeState{}
				} else {
					r = exposure * (bars[i].Close/prevClose - 1)
					equity *= 1 + r
				}
			}
		}

		res.EquityCurve = append(res.EquityCurve, dto.EquityPoint{
			Date:   bars[i].Timestamp,
			Equity: equity,
		})
		res.DailyReturns = append(res.DailyReturns, r)
	}

	res.Stats = ComputeStats(res.EquityCurve, res.DailyReturns)
	res.Stats.CostBps = costRate * 10000
	return res
}
