package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"golang-backtest/internal/dto"
	"golang-backtest/internal/model"
)

type MarketEventRepository interface {
	CountByDate(ctx context.Context, symbol string, from, to time.Time) (dto.EventCountByDate, error)
	Insert(ctx context.Context, events []model.MarketEvent) error
}

type marketEventRepository struct {
	db *gorm.DB
}

func NewMarketEventRepository(db *gorm.DB) MarketEventRepository {
	return &marketEventRepository{db: db}
}

// CountByDate aggregates stored events to the per-day counts the engine
// consumes. Days without rows are simply absent from the map.
func (r *marketEventRepository) CountByDate(ctx context.Context, symbol string, from, to time.Time) (dto.EventCountByDate, error) {
	var rows []model.EventDateCount
	err := r.db.WithContext(ctx).
		Model(&model.MarketEvent{}).
		Select("DATE(event_date) AS event_date, COUNT(*) AS count").
		Where("symbol = ? AND event_date >= ? AND event_date <= ?", symbol, from, to).
		Group("DATE(event_date)").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(dto.EventCountByDate, len(rows))
	for _, row := range rows {
		counts[row.EventDate.Format(time.DateOnly)] = row.Count
	}
	return counts, nil
}

func (r *marketEventRepository) Insert(ctx context.Context, events []model.MarketEvent) error {
	if len(events) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&events).Error
}
