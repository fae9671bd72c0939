package model

import "time"

// MarketEvent is one externally sourced event (news item, filing,
// corporate action) already classified upstream. The engine only ever
// sees these aggregated to a per-day count.
type MarketEvent struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Symbol    string    `gorm:"not null;index:idx_market_events_symbol_date" json:"symbol"`
	EventDate time.Time `gorm:"not null;index:idx_market_events_symbol_date" json:"event_date"`
	Source    string    `json:"source"`
	Headline  string    `json:"headline"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (MarketEvent) TableName() string {
	return "market_events"
}

// EventDateCount is the grouped projection used by the count query.
type EventDateCount struct {
	EventDate time.Time
	Count     int
}
