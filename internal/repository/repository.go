package repository

import (
	"gorm.io/gorm"

	"golang-backtest/config"
	"golang-backtest/pkg/cache"
	"golang-backtest/pkg/logger"
)

type Repository struct {
	CandleRepo      CandleRepository
	YahooRepo       YahooFinanceRepository
	CSVRepo         CSVRepository
	MarketEventRepo MarketEventRepository
	BacktestRunRepo BacktestRunRepository
}

func NewRepository(cfg *config.Config, inmemoryCache cache.Cache, db *gorm.DB, log *logger.Logger) (*Repository, error) {
	yahooRepo := NewYahooFinanceRepository(cfg, log)
	csvRepo := NewCSVRepository(log)

	return &Repository{
		CandleRepo:      NewCandleRepository(cfg, yahooRepo, csvRepo, inmemoryCache),
		YahooRepo:       yahooRepo,
		CSVRepo:         csvRepo,
		MarketEventRepo: NewMarketEventRepository(db),
		BacktestRunRepo: NewBacktestRunRepository(db),
	}, nil
}
