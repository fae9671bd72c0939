package indicator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang-backtest/internal/dto"
)

func barsFromCloses(closes []float64, volume int64) []dto.StockOHLCV {
	bars := make([]dto.StockOHLCV, len(closes))
	day := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	for i, c := range closes {
		bars[i] = dto.StockOHLCV{
			Timestamp: day.AddDate(0, 0, i),
			Open:      c,
			High:      c + 1,
			Low:       c - 1,
			Close:     c,
			Volume:    volume,
		}
	}
	return bars
}

func TestSMA(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		window int
		index  int
		want   float64
	}{
		{
			name:   "first defined index",
			values: []float64{1, 2, 3, 4, 5},
			window: 3,
			index:  2,
			want:   2,
		},
		{
			name:   "sliding window drops oldest",
			values: []float64{1, 2, 3, 4, 5},
			window: 3,
			index:  4,
			want:   4,
		},
		{
			name:   "window of one is identity",
			values: []float64{7, 9},
			window: 1,
			index:  1,
			want:   9,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SMA(tt.values, tt.window)
			require.Len(t, got, len(tt.values))
			require.True(t, got[tt.index].Valid)
			assert.InDelta(t, tt.want, got[tt.index].Float64, 1e-12)
		})
	}
}

func TestSMA_WarmUpUndefined(t *testing.T) {
	got := SMA([]float64{1, 2, 3, 4}, 3)
	assert.False(t, got[0].Valid)
	assert.False(t, got[1].Valid)
	assert.True(t, got[2].Valid)
}

func TestSMA_MatchesTrailingMean(t *testing.T) {
	values := []float64{3.5, 1.25, 8, 2.75, 6.5, 4.125, 9.25, 0.5}
	window := 4
	got := SMA(values, window)
	for i := window - 1; i < len(values); i++ {
		var sum float64
		for j := i - window + 1; j <= i; j++ {
			sum += values[j]
		}
		require.True(t, got[i].Valid, "index %d", i)
		assert.InDelta(t, sum/float64(window), got[i].Float64, 1e-12, "index %d", i)
	}
}

func TestRSI_WarmUpAndRange(t *testing.T) {
	closes := []float64{44, 44.5, 43.8, 44.2, 45.1, 44.9, 45.6, 46.2, 45.8, 46.5, 47.1, 46.4}
	period := 5
	got := RSI(closes, period)
	for i := 0; i < period; i++ {
		assert.False(t, got[i].Valid, "index %d should be warm-up", i)
	}
	for i := period; i < len(closes); i++ {
		require.True(t, got[i].Valid, "index %d", i)
		assert.GreaterOrEqual(t, got[i].Float64, 0.0)
		assert.LessOrEqual(t, got[i].Float64, 100.0)
	}
}

func TestRSI_AllGainsIsHundred(t *testing.T) {
	closes := []float64{10, 11, 12, 13, 14, 15, 16}
	got := RSI(closes, 3)
	for i := 3; i < len(closes); i++ {
		require.True(t, got[i].Valid)
		assert.Equal(t, 100.0, got[i].Float64)
	}
}

func TestRSI_AllLossesIsZero(t *testing.T) {
	closes := []float64{16, 15, 14, 13, 12, 11, 10}
	got := RSI(closes, 3)
	for i := 3; i < len(closes); i++ {
		require.True(t, got[i].Valid)
		assert.InDelta(t, 0.0, got[i].Float64, 1e-12)
	}
}

func TestRSI_TooShortSeries(t *testing.T) {
	got := RSI([]float64{1, 2, 3}, 5)
	for _, v := range got {
		assert.False(t, v.Valid)
	}
}

func TestTrueRange(t *testing.T) {
	bar := dto.StockOHLCV{High: 105, Low: 101, Close: 103}

	// Plain high-low when the previous close is inside the range.
	assert.InDelta(t, 4.0, TrueRange(bar, 102), 1e-12)
	// Gap up from below the range: |high - prevClose| dominates.
	assert.InDelta(t, 10.0, TrueRange(bar, 95), 1e-12)
	// Gap down from above the range: |low - prevClose| dominates.
	assert.InDelta(t, 19.0, TrueRange(bar, 120), 1e-12)
}

func TestATR_WarmUpAndNonNegative(t *testing.T) {
	closes := []float64{100, 102, 101, 104, 103, 105, 104, 107}
	bars := barsFromCloses(closes, 1000)
	period := 3
	got := ATR(bars, period)

	// Bar 0 has no true range, so the first defined index is period, not
	// period-1.
	for i := 0; i < period; i++ {
		assert.False(t, got[i].Valid, "index %d", i)
	}
	for i := period; i < len(bars); i++ {
		require.True(t, got[i].Valid, "index %d", i)
		assert.GreaterOrEqual(t, got[i].Float64, 0.0)
	}
}

func TestATR_SimpleRollingAverage(t *testing.T) {
	closes := []float64{100, 102, 101, 104, 103}
	bars := barsFromCloses(closes, 1000)
	got := ATR(bars, 2)

	// True range per bar with high=close+1, low=close-1:
	// tr[1]=|102-100|+1=3, tr[2]=|101-102|+1 -> max(2, 2, 2)=2 ...
	tr := make([]float64, len(bars))
	for i := 1; i < len(bars); i++ {
		tr[i] = TrueRange(bars[i], bars[i-1].Close)
	}
	require.True(t, got[2].Valid)
	assert.InDelta(t, (tr[1]+tr[2])/2, got[2].Float64, 1e-12)
	require.True(t, got[3].Valid)
	assert.InDelta(t, (tr[2]+tr[3])/2, got[3].Float64, 1e-12)
}

func TestVolumeRatio(t *testing.T) {
	bars := barsFromCloses([]float64{1, 1, 1, 1}, 0)
	bars[0].Volume = 100
	bars[1].Volume = 100
	bars[2].Volume = 100
	bars[3].Volume = 200

	got := VolumeRatio(bars, 2)
	assert.False(t, got[0].Valid)
	require.True(t, got[1].Valid)
	assert.InDelta(t, 1.0, got[1].Float64, 1e-12)
	require.True(t, got[3].Valid)
	// avg(100,200)=150, ratio 200/150
	assert.InDelta(t, 200.0/150.0, got[3].Float64, 1e-12)
}

func TestVolumeRatio_ZeroAverageUndefined(t *testing.T) {
	bars := barsFromCloses([]float64{1, 1, 1}, 0)
	got := VolumeRatio(bars, 2)
	for _, v := range got {
		assert.False(t, v.Valid)
	}
}
