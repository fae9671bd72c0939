package service

import (
	"context"
	"fmt"
	"math"
	"sort"

	"golang.org/x/sync/errgroup"

	"golang-backtest/config"
	"golang-backtest/internal/dto"
	"golang-backtest/internal/engine"
	"golang-backtest/internal/repository"
	"golang-backtest/internal/strategy"
	"golang-backtest/pkg/logger"
	"golang-backtest/pkg/utils"
)

// SweepService evaluates one request over a grid of strategy parameters.
// The engine is pure and each run owns its state, so runs parallelize at
// whole-run granularity with no synchronization inside a run.
type SweepService interface {
	RunSweep(ctx context.Context, req dto.SweepRequest) (*dto.SweepResult, error)
}

type sweepService struct {
	cfg             *config.Config
	log             *logger.Logger
	candleRepo      repository.CandleRepository
	marketEventRepo repository.MarketEventRepository
}

func NewSweepService(
	cfg *config.Config,
	log *logger.Logger,
	candleRepo repository.CandleRepository,
	marketEventRepo repository.MarketEventRepository,
) SweepService {
	return &sweepService{
		cfg:             cfg,
		log:             log,
		candleRepo:      candleRepo,
		marketEventRepo: marketEventRepo,
	}
}

func (s *sweepService) RunSweep(ctx context.Context, req dto.SweepRequest) (*dto.SweepResult, error) {
	variants, err := s.buildVariants(req)
	if err != nil {
		return nil, err
	}
	if max := s.cfg.Sweep.MaxRuns; max > 0 && len(variants) > max {
		return nil, fmt.Errorf("sweep of %d runs exceeds the limit of %d", len(variants), max)
	}

	base := req.Base
	data, err := s.candleRepo.Get(ctx, dto.GetStockDataParam{
		Symbol:   base.Symbol,
		Exchange: base.Exchange,
		Source:   base.Source,
		File:     base.File,
		Range:    defaultString(base.Range, dto.RangeOneYear),
		Interval: defaultString(base.Interval, dto.IntervalDaily),
	})
	if err != nil {
		return nil, err
	}
	if len(data.OHLCV) < 2 {
		return nil, ErrInsufficientData
	}

	simCfg := engineConfig(s.cfg, base.Simulation)

	var events dto.EventCountByDate
	if simCfg.EventScaling.Enabled {
		from := utils.TruncateToDay(data.OHLCV[0].Timestamp)
		to := utils.TruncateToDay(data.OHLCV[len(data.OHLCV)-1].Timestamp)
		events, err = s.marketEventRepo.CountByDate(ctx, base.Symbol, from, to)
		if err != nil {
			s.log.WarnContext(ctx, "Failed to load event counts for sweep", logger.ErrorField(err))
			events = nil
		}
	}

	// Each goroutine writes its own index; no further synchronization is
	// needed across runs.
	entries := make([]dto.SweepEntry, len(variants))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Sweep.MaxConcurrency)
	for i, params := range variants {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			gen, err := strategy.New(params)
			if err != nil {
				return err
			}
			result := engine.Run(data.OHLCV, gen.Signals(data.OHLCV), simCfg, events)
			if result == nil {
				return ErrInsufficientData
			}
			entries[i] = dto.SweepEntry{
				Strategy:   params,
				Stats:      result.Stats,
				TradeCount: result.TradeCount,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Rank by Sharpe, best first; non-finite sorts last.
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i].Stats.Sharpe, entries[j].Stats.Sharpe
		aFinite := !math.IsNaN(a) && !math.IsInf(a, 0)
		bFinite := !math.IsNaN(b) && !math.IsInf(b, 0)
		if aFinite != bFinite {
			return aFinite
		}
		return a > b
	})

	s.log.InfoContext(ctx, "Parameter sweep completed",
		logger.StringField("symbol", base.Symbol),
		logger.IntField("runs", len(entries)))
	return &dto.SweepResult{
		Symbol:  base.Symbol,
		Runs:    len(entries),
		Entries: entries,
	}, nil
}

func (s *sweepService) buildVariants(req dto.SweepRequest) ([]dto.StrategyParams, error) {
	base := req.Base.Strategy
	var variants []dto.StrategyParams

	switch base.Name {
	case dto.StrategyTrendFollowing:
		fasts := req.FastWindows
		if len(fasts) == 0 {
			fasts = []int{base.FastWindow}
		}
		slows := req.SlowWindows
		if len(slows) == 0 {
			slows = []int{base.SlowWindow}
		}
		for _, fast := range fasts {
			for _, slow := range slows {
				if fast >= slow && slow != 0 {
					continue
				}
				params := base
				params.FastWindow = fast
				params.SlowWindow = slow
				variants = append(variants, params)
			}
		}
	case dto.StrategyMeanReversion:
		periods := req.RSIPeriods
		if len(periods) == 0 {
			periods = []int{base.RSIPeriod}
		}
		for _, period := range periods {
			params := base
			params.RSIPeriod = period
			variants = append(variants, params)
		}
	default:
		return nil, fmt.Errorf("unknown strategy %q", base.Name)
	}

	if len(variants) == 0 {
		return nil, fmt.Errorf("sweep produced no parameter combinations")
	}
	return variants, nil
}
