package model

import (
	"time"

	"gorm.io/datatypes"
)

// BacktestRun is one persisted simulation outcome. The request and the
// summary stats are stored as JSON so runs stay comparable even when the
// parameter surface grows.
type BacktestRun struct {
	ID         uint           `gorm:"primarykey" json:"id"`
	Symbol     string         `gorm:"not null;index" json:"symbol"`
	Strategy   string         `gorm:"not null" json:"strategy"`
	StartDate  time.Time      `gorm:"not null" json:"start_date"`
	EndDate    time.Time      `gorm:"not null" json:"end_date"`
	Request    datatypes.JSON `gorm:"type:jsonb" json:"request"`
	Stats      datatypes.JSON `gorm:"type:jsonb" json:"stats"`
	TradeCount int            `gorm:"not null" json:"trade_count"`
	WinCount   int            `gorm:"not null" json:"win_count"`
	LossCount  int            `gorm:"not null" json:"loss_count"`
	CreatedAt  time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

func (BacktestRun) TableName() string {
	return "backtest_runs"
}

type GetBacktestRunParam struct {
	Symbol string
	Limit  int
}
