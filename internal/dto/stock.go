package dto

import "time"

// StockOHLCV is one aggregated bar of price/volume data (one trading day
// at the default interval).
type StockOHLCV struct {
	Timestamp time.Time `json:"timestamp"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    int64     `json:"volume"`
}

// DateKey returns the calendar-day identifier used to join bars against
// the market-event counts.
func (o StockOHLCV) DateKey() string {
	return o.Timestamp.Format(time.DateOnly)
}

// StockData is a validated price series: bars sorted ascending by
// timestamp and deduplicated per calendar day. Repositories guarantee
// this before the series reaches the engine; the engine does not re-sort.
type StockData struct {
	Symbol   string       `json:"symbol"`
	Exchange string       `json:"exchange"`
	Interval string       `json:"interval"`
	OHLCV    []StockOHLCV `json:"ohlcv"`
}

// EventCountByDate maps a calendar-day key (see StockOHLCV.DateKey) to
// the number of external events recorded on that day. Missing keys mean
// zero events.
type EventCountByDate map[string]int

type GetStockDataParam struct {
	Symbol   string
	Exchange string
	Source   string
	File     string
	Range    string
	Interval string
}
