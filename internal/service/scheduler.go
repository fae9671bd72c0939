package service

import (
	"context"
	"encoding/json"

	"github.com/robfig/cron/v3"

	"golang-backtest/config"
	"golang-backtest/internal/dto"
	"golang-backtest/internal/model"
	"golang-backtest/internal/repository"
	"golang-backtest/pkg/logger"
)

// SchedulerService re-runs the most recent persisted backtests on fresh
// data so saved strategies keep an up-to-date result row.
type SchedulerService interface {
	Start(ctx context.Context) error
	Stop()
	RefreshRecentRuns(ctx context.Context)
}

type schedulerService struct {
	cfg             *config.Config
	log             *logger.Logger
	cron            *cron.Cron
	backtestRunRepo repository.BacktestRunRepository
	backtestService BacktestService
}

func NewSchedulerService(
	cfg *config.Config,
	log *logger.Logger,
	backtestRunRepo repository.BacktestRunRepository,
	backtestService BacktestService,
) SchedulerService {
	return &schedulerService{
		cfg:             cfg,
		log:             log,
		cron:            cron.New(),
		backtestRunRepo: backtestRunRepo,
		backtestService: backtestService,
	}
}

func (s *schedulerService) Start(ctx context.Context) error {
	if !s.cfg.Scheduler.Enabled {
		s.log.Info("Scheduler disabled")
		return nil
	}
	_, err := s.cron.AddFunc(s.cfg.Scheduler.RefreshSpec, func() {
		s.RefreshRecentRuns(ctx)
	})
	if err != nil {
		return err
	}
	s.cron.Start()
	s.log.Info("Scheduler started", logger.StringField("spec", s.cfg.Scheduler.RefreshSpec))
	return nil
}

func (s *schedulerService) Stop() {
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
}

func (s *schedulerService) RefreshRecentRuns(ctx context.Context) {
	runs, err := s.backtestRunRepo.Find(ctx, model.GetBacktestRunParam{
		Limit: s.cfg.Scheduler.RecentRuns,
	})
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to load recent runs for refresh", logger.ErrorField(err))
		return
	}

	seen := make(map[string]bool)
	for _, run := range runs {
		var req dto.BacktestRequest
		if err := json.Unmarshal(run.Request, &req); err != nil {
			s.log.WarnContext(ctx, "Skipping run with unreadable request",
				logger.IntField("run_id", int(run.ID)), logger.ErrorField(err))
			continue
		}
		// CSV-sourced runs are frozen snapshots; refreshing them cannot
		// change the outcome.
		if req.Source == dto.SourceCSV {
			continue
		}
		key := req.Symbol + "|" + req.Strategy.Name
		if seen[key] {
			continue
		}
		seen[key] = true

		if _, err := s.backtestService.RunBacktest(ctx, req); err != nil {
			s.log.WarnContext(ctx, "Scheduled backtest refresh failed",
				logger.StringField("symbol", req.Symbol), logger.ErrorField(err))
		}
	}
}
