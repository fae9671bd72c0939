// Package indicator computes per-bar numeric series from a price series.
// Every function returns a slice aligned index-for-index with its input;
// warm-up indices carry an invalid Value rather than NaN, so "not yet
// available" is never conflated with a computed number.
package indicator

import (
	"math"

	"golang-backtest/internal/dto"
)

// Value is one point of an indicator series.
type Value struct {
	Valid   bool
	Float64 float64
}

func some(f float64) Value {
	return Value{Valid: true, Float64: f}
}

// SMA computes the simple moving average over a sliding sum. An index is
// defined once window observations have accumulated.
func SMA(values []float64, window int) []Value {
	out := make([]Value, len(values))
	if window <= 0 {
		return out
	}
	var sum float64
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		if i >= window-1 {
			out[i] = some(sum / float64(window))
		}
	}
	return out
}

// RSI computes the relative-strength oscillator with Wilder-style
// recursive smoothing. The first value appears at index period from the
// simple average of the accumulated gains and losses; later values use
// avg = (avg*(period-1) + current) / period. A zero average loss maps to
// 100 by convention.
func RSI(closes []float64, period int) []Value {
	out := make([]Value, len(closes))
	if period <= 0 || len(closes) <= period {
		return out
	}

	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		delta := closes[i] - closes[i-1]
		if delta > 0 {
			avgGain += delta
		} else {
			avgLoss += -delta
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)
	out[period] = some(rsiValue(avgGain, avgLoss))

	for i := period + 1; i < len(closes); i++ {
		delta := closes[i] - closes[i-1]
		var gain, loss float64
		if delta > 0 {
			gain = delta
		} else {
			loss = -delta
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
		out[i] = some(rsiValue(avgGain, avgLoss))
	}
	return out
}

func rsiValue(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		// RS is treated as infinite.
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}

// TrueRange is max(high-low, |high-prevClose|, |low-prevClose|).
func TrueRange(bar dto.StockOHLCV, prevClose float64) float64 {
	tr := bar.High - bar.Low
	if hc := math.Abs(bar.High - prevClose); hc > tr {
		tr = hc
	}
	if lc := math.Abs(bar.Low - prevClose); lc > tr {
		tr = lc
	}
	return tr
}

// ATR is a simple rolling average of true range over period bars. This
// is deliberately not the Wilder-smoothed variant. Bar 0 has no true
// range; a value is emitted once period defined true-range observations
// have been seen, and the denominator is the count of defined
// observations inside the current window.
func ATR(bars []dto.StockOHLCV, period int) []Value {
	out := make([]Value, len(bars))
	if period <= 0 || len(bars) == 0 {
		return out
	}

	tr := make([]float64, len(bars))
	defined := make([]bool, len(bars))
	for i := 1; i < len(bars); i++ {
		tr[i] = TrueRange(bars[i], bars[i-1].Close)
		defined[i] = true
	}

	var sum float64
	inWindow := 0
	seen := 0
	for i := range bars {
		if defined[i] {
			sum += tr[i]
			inWindow++
			seen++
		}
		if j := i - period; j >= 0 && defined[j] {
			sum -= tr[j]
			inWindow--
		}
		if seen >= period && inWindow > 0 {
			out[i] = some(sum / float64(inWindow))
		}
	}
	return out
}

// VolumeRatio is the current bar's volume over the simple average volume
// of the trailing window bars (current bar included). Undefined while
// the window is not full or when the average is zero.
func VolumeRatio(bars []dto.StockOHLCV, window int) []Value {
	out := make([]Value, len(bars))
	if window <= 0 {
		return out
	}
	var sum float64
	for i, b := range bars {
		sum += float64(b.Volume)
		if i >= window {
			sum -= float64(bars[i-window].Volume)
		}
		if i >= window-1 {
			avg := sum / float64(window)
			if avg != 0 {
				out[i] = some(float64(b.Volume) / avg)
			}
		}
	}
	return out
}
