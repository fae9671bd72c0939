package utils

import (
	"fmt"
	"math"
	"time"
)

func ToPointer[T any](value T) *T {
	return &value
}

// ValueOr dereferences ptr or falls back to def when nil.
func ValueOr[T any](ptr *T, def T) T {
	if ptr == nil {
		return def
	}
	return *ptr
}

// TruncateToDay drops the time-of-day component in UTC.
func TruncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// FormatPercentage renders a fraction as a signed percentage, or "n/a"
// for non-finite values the stats layer is allowed to produce.
func FormatPercentage(fraction float64) string {
	if math.IsNaN(fraction) || math.IsInf(fraction, 0) {
		return "n/a"
	}
	return fmt.Sprintf("%+.2f%%", fraction*100)
}

// FormatRatio renders a plain ratio with the same non-finite guard.
func FormatRatio(value float64) string {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", value)
}
