package dto

import (
	"encoding/json"
	"math"
	"time"
)

// BacktestRequest describes one simulation run: which series to load,
// which signal strategy to apply and which simulation parameters to
// override from the configured defaults.
type BacktestRequest struct {
	Symbol     string            `json:"symbol" validate:"required"`
	Exchange   string            `json:"exchange"`
	Source     string            `json:"source" validate:"omitempty,oneof=yahoo csv"`
	File       string            `json:"file"`
	Range      string            `json:"range"`
	Interval   string            `json:"interval"`
	Strategy   StrategyParams    `json:"strategy"`
	Simulation *SimulationParams `json:"simulation,omitempty"`
}

type StrategyParams struct {
	Name           string  `json:"name" validate:"required,oneof=trend_following mean_reversion"`
	FastWindow     int     `json:"fast_window"`
	SlowWindow     int     `json:"slow_window"`
	RSIPeriod      int     `json:"rsi_period"`
	EntryThreshold float64 `json:"entry_threshold"`
	ExitThreshold  float64 `json:"exit_threshold"`
}

// SimulationParams overrides per-field; nil means "use configured default".
type SimulationParams struct {
	FeeBps              *float64 `json:"fee_bps,omitempty" validate:"omitempty"`
	SlippageBps         *float64 `json:"slippage_bps,omitempty"`
	ATRPeriod           *int     `json:"atr_period,omitempty"`
	ATRStopMultiplier   *float64 `json:"atr_stop_multiplier,omitempty"`
	VolumeGateEnabled   *bool    `json:"volume_gate_enabled,omitempty"`
	VolumeGateWindow    *int     `json:"volume_gate_window,omitempty"`
	VolumeGateThreshold *float64 `json:"volume_gate_threshold,omitempty"`
	EventScalingEnabled *bool    `json:"event_scaling_enabled,omitempty"`
	EventCountThreshold *int     `json:"event_count_threshold,omitempty"`
	EventScaleFactor    *float64 `json:"event_scale_factor,omitempty"`
}

// EquityPoint is one point of the simulated equity curve.
type EquityPoint struct {
	Date   time.Time `json:"date"`
	Equity float64   `json:"equity"`
}

// TradeLog records one executed transaction during the simulation.
type TradeLog struct {
	Date   time.Time `json:"date"`
	Action string    `json:"action"` // entry, exit, stop
	Price  float64   `json:"price"`
	PnL    float64   `json:"pnl"` // fractional, exits only
}

// BacktestStats are the summary statistics reduced from one run.
// Sharpe and CAGR may legitimately be non-finite (zero-variance returns,
// total wipeout); those are explicit results, not failures, and are
// serialized as JSON null so the wire format never carries Inf/NaN.
type BacktestStats struct {
	TotalReturn float64
	CAGR        float64
	Sharpe      float64
	MaxDrawdown float64
	CostBps     float64
}

func (s BacktestStats) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		TotalReturn *float64 `json:"total_return"`
		CAGR        *float64 `json:"cagr"`
		Sharpe      *float64 `json:"sharpe"`
		MaxDrawdown *float64 `json:"max_drawdown"`
		CostBps     *float64 `json:"cost_bps"`
	}{
		TotalReturn: finiteOrNull(s.TotalReturn),
		CAGR:        finiteOrNull(s.CAGR),
		Sharpe:      finiteOrNull(s.Sharpe),
		MaxDrawdown: finiteOrNull(s.MaxDrawdown),
		CostBps:     finiteOrNull(s.CostBps),
	})
}

func (s *BacktestStats) UnmarshalJSON(data []byte) error {
	var raw struct {
		TotalReturn *float64 `json:"total_return"`
		CAGR        *float64 `json:"cagr"`
		Sharpe      *float64 `json:"sharpe"`
		MaxDrawdown *float64 `json:"max_drawdown"`
		CostBps     *float64 `json:"cost_bps"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	s.TotalReturn = nanIfNull(raw.TotalReturn)
	s.CAGR = nanIfNull(raw.CAGR)
	s.Sharpe = nanIfNull(raw.Sharpe)
	s.MaxDrawdown = nanIfNull(raw.MaxDrawdown)
	s.CostBps = nanIfNull(raw.CostBps)
	return nil
}

func finiteOrNull(f float64) *float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

func nanIfNull(f *float64) float64 {
	if f == nil {
		return math.NaN()
	}
	return *f
}

// BacktestResult is the full outcome of one simulation run. Produced
// once per run and immutable thereafter.
type BacktestResult struct {
	Symbol       string        `json:"symbol"`
	Strategy     string        `json:"strategy"`
	StartDate    time.Time     `json:"start_date"`
	EndDate      time.Time     `json:"end_date"`
	EquityCurve  []EquityPoint `json:"equity_curve"`
	DailyReturns []float64     `json:"daily_returns"`
	Trades       []TradeLog    `json:"trades"`
	TradeCount   int           `json:"trade_count"`
	WinCount     int           `json:"win_count"`
	LossCount    int           `json:"loss_count"`
	Stats        BacktestStats `json:"stats"`
}

// SweepRequest runs the same backtest over a grid of strategy
// parameters, one independent simulation per combination.
type SweepRequest struct {
	Base        BacktestRequest `json:"base" validate:"required"`
	FastWindows []int           `json:"fast_windows,omitempty"`
	SlowWindows []int           `json:"slow_windows,omitempty"`
	RSIPeriods  []int           `json:"rsi_periods,omitempty"`
}

type SweepEntry struct {
	Strategy   StrategyParams `json:"strategy"`
	Stats      BacktestStats  `json:"stats"`
	TradeCount int            `json:"trade_count"`
}

type SweepResult struct {
	Symbol  string       `json:"symbol"`
	Runs    int          `json:"runs"`
	Entries []SweepEntry `json:"entries"`
}
