package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang-backtest/internal/dto"
)

func testBars(closes []float64) []dto.StockOHLCV {
	bars := make([]dto.StockOHLCV, len(closes))
	day := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	for i, c := range closes {
		bars[i] = dto.StockOHLCV{
			Timestamp: day.AddDate(0, 0, i),
			Open:      c,
			High:      c,
			Low:       c,
			Close:     c,
			Volume:    1000,
		}
	}
	return bars
}

func TestCostRate(t *testing.T) {
	tests := []struct {
		name   string
		fee    float64
		slip   float64
		want   float64
	}{
		{name: "zero", fee: 0, slip: 0, want: 0},
		{name: "fifty each", fee: 50, slip: 50, want: 0.01},
		{name: "bps clamped to 200", fee: 1000, slip: 1000, want: 0.04},
		{name: "negative clamped to zero", fee: -10, slip: 5, want: 0.0005},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, CostRate(tt.fee, tt.slip), 1e-12)
		})
	}
}

func TestRun_TooFewBars(t *testing.T) {
	assert.Nil(t, Run(testBars([]float64{100}), []int{1}, Config{}, nil))
	assert.Nil(t, Run(nil, nil, Config{}, nil))
}

// Frictionless uptrend held throughout: entry on the first bar's close,
// equity compounds with the price, no exits.
func TestRun_FrictionlessHold(t *testing.T) {
	bars := testBars([]float64{100, 105, 110})
	res := Run(bars, []int{1, 1, 1}, Config{}, nil)
	require.NotNil(t, res)

	assert.Equal(t, 1, res.TradeCount)
	assert.Equal(t, 0, res.WinCount)
	assert.Equal(t, 0, res.LossCount)
	require.Len(t, res.EquityCurve, 2)
	assert.InDelta(t, 1.05, res.EquityCurve[0].Equity, 1e-12)
	assert.InDelta(t, 1.05*(110.0/105.0), res.EquityCurve[1].Equity, 1e-12)
	assert.InDelta(t, 0.10, res.Stats.TotalReturn, 1e-9)
}

// Entry cost multiplies equity at the state transition, before the bar's
// price move is applied.
func TestRun_EntryCostCompounds(t *testing.T) {
	bars := testBars([]float64{100, 105, 110})
	cfg := Config{FeeBps: 50, SlippageBps: 50}
	res := Run(bars, []int{1, 1, 1}, cfg, nil)
	require.NotNil(t, res)

	assert.InDelta(t, 0.99*1.05, res.EquityCurve[0].Equity, 1e-12)
	assert.InDelta(t, 0.99*1.05*(110.0/105.0), res.EquityCurve[1].Equity, 1e-12)
	assert.InDelta(t, 100.0, res.Stats.CostBps, 1e-12)
}

// Event scaling on a qualifying date halves the realized return without
// recording any trade.
func TestRun_EventScaling(t *testing.T) {
	bars := testBars([]float64{100, 105, 110})
	cfg := Config{
		EventScaling: EventScaling{Enabled: true, CountThreshold: 2, ScaleFactor: 0.5},
	}
	events := dto.EventCountByDate{
		bars[2].DateKey(): 3,
	}
	res := Run(bars, []int{1, 1, 1}, cfg, events)
	require.NotNil(t, res)

	require.Len(t, res.DailyReturns, 2)
	assert.InDelta(t, 0.05, res.DailyReturns[0], 1e-12)
	assert.InDelta(t, 0.5*(110.0/105.0-1), res.DailyReturns[1], 1e-12)
	assert.Equal(t, 1, res.TradeCount) // entry only, scaling adds nothing
}

func TestRun_EventScalingBelowThresholdIgnored(t *testing.T) {
	bars := testBars([]float64{100, 105, 110})
	cfg := Config{
		EventScaling: EventScaling{Enabled: true, CountThreshold: 5, ScaleFactor: 0.5},
	}
	events := dto.EventCountByDate{bars[2].DateKey(): 3}
	res := Run(bars, []int{1, 1, 1}, cfg, events)
	require.NotNil(t, res)
	assert.InDelta(t, 110.0/105.0-1, res.DailyReturns[1], 1e-12)
}

// With the gate threshold above any achievable ratio the engine never
// opens a position.
func TestRun_VolumeGateBlocksEntries(t *testing.T) {
	bars := testBars([]float64{100, 101, 102, 103, 104, 105})
	cfg := Config{
		VolumeGate: VolumeGate{Enabled: true, Window: 2, ThresholdRatio: 99},
	}
	res := Run(bars, []int{1, 1, 1, 1, 1, 1}, cfg, nil)
	require.NotNil(t, res)

	assert.Equal(t, 0, res.TradeCount)
	for _, r := range res.DailyReturns {
		assert.Zero(t, r)
	}
	for _, p := range res.EquityCurve {
		assert.InDelta(t, 1.0, p.Equity, 1e-12)
	}
}

// Gating never forces an exit: a position opened while the gate passes
// survives bars where the gate would block.
func TestRun_VolumeGateDoesNotExit(t *testing.T) {
	bars := testBars([]float64{100, 101, 102, 103})
	for i := range bars {
		bars[i].Volume = 1000
	}
	cfg := Config{
		VolumeGate: VolumeGate{Enabled: true, Window: 2, ThresholdRatio: 0.5},
	}
	res := Run(bars, []int{1, 1, 1, 1}, cfg, nil)
	require.NotNil(t, res)

	// Gate passes at index 1 (ratio 1.0); entry at i=2 fill close[1].
	assert.Equal(t, 1, res.TradeCount)
	assert.InDelta(t, 103.0/101.0, res.EquityCurve[len(res.EquityCurve)-1].Equity, 1e-12)
}

// A zero ATR multiplier puts the stop at the entry price, so the first
// bar whose low touches the entry liquidates that same bar.
func TestRun_StopLossAtEntry(t *testing.T) {
	bars := testBars([]float64{100, 100, 100, 101})
	bars[2].Low = 99 // touches the stop
	bars[2].High = 101
	bars[1].High = 101
	bars[1].Low = 99.5
	cfg := Config{ATRPeriod: 1, ATRStopMultiplier: 0}
	res := Run(bars, []int{0, 1, 1, 1}, cfg, nil)
	require.NotNil(t, res)

	// Entry at i=2 (fill close[1]=100, ATR[1] defined and positive),
	// stop level 100, liquidated by low[2]=99 the same bar.
	require.Len(t, res.Trades, 3)
	assert.Equal(t, "entry", res.Trades[0].Action)
	assert.Equal(t, "stop", res.Trades[1].Action)
	assert.InDelta(t, 100.0, res.Trades[1].Price, 1e-12)
	// stop/entry - 1 = 0, classified as a win.
	assert.Equal(t, 1, res.WinCount)
	// Flat again afterwards; the remaining signal re-enters at i=3.
	assert.Equal(t, "entry", res.Trades[2].Action)
}

// A signal-driven exit on bar i precludes the stop check on the same bar.
func TestRun_SignalExitBeforeStopCheck(t *testing.T) {
	bars := testBars([]float64{100, 100, 100, 50})
	bars[1].High = 103
	bars[1].Low = 98 // true range 5, stop at 95
	bars[3].Low = 40
	cfg := Config{ATRPeriod: 1, ATRStopMultiplier: 1}
	res := Run(bars, []int{0, 1, 0, 0}, cfg, nil)
	require.NotNil(t, res)

	// Entry at i=2, signal exit at i=3 at fill close[2]; the crash low
	// on bar 3 sits under the stop but must not produce a second,
	// stop-driven exit.
	require.Len(t, res.Trades, 2)
	assert.Equal(t, "entry", res.Trades[0].Action)
	assert.Equal(t, "exit", res.Trades[1].Action)
	assert.Equal(t, 2, res.TradeCount)
}

func TestRun_SignalExitClassification(t *testing.T) {
	bars := testBars([]float64{100, 110, 105, 104})
	res := Run(bars, []int{1, 1, 0, 0}, Config{}, nil)
	require.NotNil(t, res)

	// Entry fill 100, exit at i=3 fill close[2]=105: pnl +5%.
	assert.Equal(t, 2, res.TradeCount)
	assert.Equal(t, 1, res.WinCount)
	assert.Equal(t, 0, res.LossCount)
	assert.LessOrEqual(t, res.WinCount+res.LossCount, res.TradeCount)
}

func TestRun_Deterministic(t *testing.T) {
	bars := testBars([]float64{100, 103, 101, 106, 104, 108, 102, 109, 111, 107})
	for i := range bars {
		bars[i].High = bars[i].Close + 2
		bars[i].Low = bars[i].Close - 2
		bars[i].Volume = int64(900 + 17*i)
	}
	signals := []int{0, 1, 1, 0, 1, 1, 1, 0, 1, 1}
	cfg := Config{
		FeeBps: 10, SlippageBps: 5,
		ATRPeriod: 3, ATRStopMultiplier: 2,
		VolumeGate:   VolumeGate{Enabled: true, Window: 3, ThresholdRatio: 0.8},
		EventScaling: EventScaling{Enabled: true, CountThreshold: 1, ScaleFactor: 0.5},
	}
	events := dto.EventCountByDate{bars[5].DateKey(): 2}

	first := Run(bars, signals, cfg, events)
	second := Run(bars, signals, cfg, events)
	require.NotNil(t, first)
	assert.Equal(t, first, second)
}
