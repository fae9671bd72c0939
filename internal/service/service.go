package service

import (
	"golang-backtest/config"
	"golang-backtest/internal/repository"
	"golang-backtest/pkg/logger"
)

type Service struct {
	BacktestService  BacktestService
	SweepService     SweepService
	EventService     EventService
	SchedulerService SchedulerService
}

func NewService(
	cfg *config.Config,
	log *logger.Logger,
	repo *repository.Repository,
) *Service {
	backtestService := NewBacktestService(cfg, log, repo.CandleRepo, repo.MarketEventRepo, repo.BacktestRunRepo)
	sweepService := NewSweepService(cfg, log, repo.CandleRepo, repo.MarketEventRepo)
	eventService := NewEventService(log, repo.MarketEventRepo)
	schedulerService := NewSchedulerService(cfg, log, repo.BacktestRunRepo, backtestService)

	return &Service{
		BacktestService:  backtestService,
		SweepService:     sweepService,
		EventService:     eventService,
		SchedulerService: schedulerService,
	}
}
