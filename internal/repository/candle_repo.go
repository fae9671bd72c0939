package repository

import (
	"context"
	"fmt"

	"golang-backtest/config"
	"golang-backtest/internal/dto"
	"golang-backtest/pkg/cache"
)

type CandleRepository interface {
	Get(ctx context.Context, param dto.GetStockDataParam) (*dto.StockData, error)
}

// candleRepository routes by source and caches provider responses so a
// parameter sweep fetches each series once.
type candleRepository struct {
	yahooRepo YahooFinanceRepository
	csvRepo   CSVRepository
	cache     cache.Cache
	cfg       *config.Config
}

func NewCandleRepository(cfg *config.Config, yahooRepo YahooFinanceRepository, csvRepo CSVRepository, inmemoryCache cache.Cache) CandleRepository {
	return &candleRepository{
		yahooRepo: yahooRepo,
		csvRepo:   csvRepo,
		cache:     inmemoryCache,
		cfg:       cfg,
	}
}

func (r *candleRepository) Get(ctx context.Context, param dto.GetStockDataParam) (*dto.StockData, error) {
	if param.Source == dto.SourceCSV {
		return r.csvRepo.Get(ctx, param)
	}

	key := fmt.Sprintf("candles:%s:%s:%s:%s", param.Exchange, param.Symbol, param.Range, param.Interval)
	if cached, found := r.cache.Get(key); found {
		if data, ok := cached.(*dto.StockData); ok {
			return data, nil
		}
	}

	data, err := r.yahooRepo.Get(ctx, param)
	if err != nil {
		return nil, err
	}
	r.cache.Set(key, data, r.cfg.Cache.DefaultExpiration)
	return data, nil
}
