// Package strategy turns indicator series into per-bar desired exposure.
// A signal slice is aligned with the bar slice; element i is the exposure
// (0 flat, 1 long) decided using information through bar i only. The
// engine shifts signals by one bar before applying them, so look-ahead is
// impossible by construction.
package strategy

import (
	"fmt"

	"golang-backtest/internal/dto"
)

type SignalGenerator interface {
	Name() string
	Signals(bars []dto.StockOHLCV) []int
}

// New builds a signal generator from request parameters, applying the
// usual defaults for fields left at zero.
func New(params dto.StrategyParams) (SignalGenerator, error) {
	switch params.Name {
	case dto.StrategyTrendFollowing:
		fast, slow := params.FastWindow, params.SlowWindow
		if fast <= 0 {
			fast = 20
		}
		if slow <= 0 {
			slow = 50
		}
		if fast >= slow {
			return nil, fmt.Errorf("trend following: fast window %d must be below slow window %d", fast, slow)
		}
		return &TrendFollowing{FastWindow: fast, SlowWindow: slow}, nil
	case dto.StrategyMeanReversion:
		period := params.RSIPeriod
		if period <= 0 {
			period = 14
		}
		entry, exit := params.EntryThreshold, params.ExitThreshold
		if entry == 0 {
			entry = 30
		}
		if exit == 0 {
			exit = 55
		}
		if entry >= exit {
			return nil, fmt.Errorf("mean reversion: entry threshold %.2f must be below exit threshold %.2f", entry, exit)
		}
		return &MeanReversion{RSIPeriod: period, EntryThreshold: entry, ExitThreshold: exit}, nil
	default:
		return nil, fmt.Errorf("unknown strategy %q", params.Name)
	}
}
