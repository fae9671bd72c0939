package strategy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang-backtest/internal/dto"
)

func barsFromCloses(closes []float64) []dto.StockOHLCV {
	bars := make([]dto.StockOHLCV, len(closes))
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
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

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		params  dto.StrategyParams
		want    string
		wantErr bool
	}{
		{
			name:   "trend following with defaults",
			params: dto.StrategyParams{Name: dto.StrategyTrendFollowing},
			want:   dto.StrategyTrendFollowing,
		},
		{
			name:   "mean reversion with defaults",
			params: dto.StrategyParams{Name: dto.StrategyMeanReversion},
			want:   dto.StrategyMeanReversion,
		},
		{
			name:    "fast window must be below slow",
			params:  dto.StrategyParams{Name: dto.StrategyTrendFollowing, FastWindow: 50, SlowWindow: 20},
			wantErr: true,
		},
		{
			name:    "entry threshold must be below exit",
			params:  dto.StrategyParams{Name: dto.StrategyMeanReversion, EntryThreshold: 70, ExitThreshold: 30},
			wantErr: true,
		},
		{
			name:    "unknown strategy",
			params:  dto.StrategyParams{Name: "martingale"},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen, err := New(tt.params)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, gen.Name())
		})
	}
}

func TestTrendFollowing_Signals(t *testing.T) {
	// Ten flat bars then a steady ramp: once both averages are defined
	// and the ramp has pulled the fast average over the slow one the
	// signal turns on.
	closes := []float64{100, 100, 100, 100, 100, 100, 100, 100, 100, 100,
		101, 102, 103, 104, 105, 106, 107, 108}
	gen := &TrendFollowing{FastWindow: 3, SlowWindow: 8}
	signals := gen.Signals(barsFromCloses(closes))

	require.Len(t, signals, len(closes))
	// Warm-up: slow average undefined before index 7.
	for i := 0; i < 7; i++ {
		assert.Equal(t, 0, signals[i], "index %d", i)
	}
	// Flat segment: fast equals slow, strict inequality keeps us out.
	assert.Equal(t, 0, signals[7])
	assert.Equal(t, 0, signals[9])
	// Deep into the ramp both averages are defined and ordered.
	assert.Equal(t, 1, signals[14])
	assert.Equal(t, 1, signals[len(closes)-1])
}

func TestTrendFollowing_FlipsWithoutHysteresis(t *testing.T) {
	closes := []float64{100, 100, 100, 100, 100, 110, 110, 110, 60, 60, 60}
	gen := &TrendFollowing{FastWindow: 2, SlowWindow: 4}
	signals := gen.Signals(barsFromCloses(closes))

	assert.Equal(t, 1, signals[6])
	// The collapse at index 8 drags the close under the slow average the
	// same bar; no holding period applies.
	assert.Equal(t, 0, signals[8])
}

func TestMeanReversion_Signals(t *testing.T) {
	// A slide below the entry threshold, then a recovery above the exit
	// threshold.
	closes := []float64{100, 99, 98, 97, 96, 95, 94, 93, 92, 91,
		95, 99, 103, 107, 111, 115}
	gen := &MeanReversion{RSIPeriod: 4, EntryThreshold: 30, ExitThreshold: 55}
	signals := gen.Signals(barsFromCloses(closes))

	// Warm-up holds the initial flat state.
	for i := 0; i < 4; i++ {
		assert.Equal(t, 0, signals[i], "index %d", i)
	}
	// Monotonic losses pin the oscillator at 0, well under entry.
	assert.Equal(t, 1, signals[5])
	assert.Equal(t, 1, signals[9])
	// The rally lifts the oscillator over the exit threshold eventually.
	assert.Equal(t, 0, signals[len(closes)-1])
}

func TestMeanReversion_HoldsStateThroughWarmUp(t *testing.T) {
	closes := []float64{100, 99, 98}
	gen := &MeanReversion{RSIPeriod: 10, EntryThreshold: 30, ExitThreshold: 55}
	signals := gen.Signals(barsFromCloses(closes))
	for i, s := range signals {
		assert.Equal(t, 0, s, "index %d", i)
	}
}
