package service

import (
	"context"
	"encoding/json"
	"errors"

	"golang-backtest/config"
	"golang-backtest/internal/dto"
	"golang-backtest/internal/engine"
	"golang-backtest/internal/model"
	"golang-backtest/internal/repository"
	"golang-backtest/internal/strategy"
	"golang-backtest/pkg/logger"
	"golang-backtest/pkg/utils"
)

// ErrInsufficientData marks a series too short to simulate (fewer than
// two bars). It is a property of the input, not a transient failure.
var ErrInsufficientData = errors.New("price series has fewer than 2 bars")

// BacktestService runs one simulation end to end: load candles, build
// signals, simulate, persist the outcome.
type BacktestService interface {
	RunBacktest(ctx context.Context, req dto.BacktestRequest) (*dto.BacktestResult, error)
	GetRun(ctx context.Context, id uint) (*model.BacktestRun, error)
}

type backtestService struct {
	cfg             *config.Config
	log             *logger.Logger
	candleRepo      repository.CandleRepository
	marketEventRepo repository.MarketEventRepository
	backtestRunRepo repository.BacktestRunRepository
}

func NewBacktestService(
	cfg *config.Config,
	log *logger.Logger,
	candleRepo repository.CandleRepository,
	marketEventRepo repository.MarketEventRepository,
	backtestRunRepo repository.BacktestRunRepository,
) BacktestService {
	return &backtestService{
		cfg:             cfg,
		log:             log,
		candleRepo:      candleRepo,
		marketEventRepo: marketEventRepo,
		backtestRunRepo: backtestRunRepo,
	}
}

func (s *backtestService) RunBacktest(ctx context.Context, req dto.BacktestRequest) (*dto.BacktestResult, error) {
	data, err := s.candleRepo.Get(ctx, dto.GetStockDataParam{
		Symbol:   req.Symbol,
		Exchange: req.Exchange,
		Source:   req.Source,
		File:     req.File,
		Range:    defaultString(req.Range, dto.RangeOneYear),
		Interval: defaultString(req.Interval, dto.IntervalDaily),
	})
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to load candles for backtest",
			logger.StringField("symbol", req.Symbol), logger.ErrorField(err))
		return nil, err
	}

	gen, err := strategy.New(req.Strategy)
	if err != nil {
		return nil, err
	}

	simCfg := engineConfig(s.cfg, req.Simulation)

	var events dto.EventCountByDate
	if simCfg.EventScaling.Enabled && len(data.OHLCV) > 0 {
		from := utils.TruncateToDay(data.OHLCV[0].Timestamp)
		to := utils.TruncateToDay(data.OHLCV[len(data.OHLCV)-1].Timestamp)
		events, err = s.marketEventRepo.CountByDate(ctx, req.Symbol, from, to)
		if err != nil {
			s.log.WarnContext(ctx, "Failed to load event counts, proceeding without scaling",
				logger.StringField("symbol", req.Symbol), logger.ErrorField(err))
			events = nil
		}
	}

	result := engine.Run(data.OHLCV, gen.Signals(data.OHLCV), simCfg, events)
	if result == nil {
		return nil, ErrInsufficientData
	}
	result.Symbol = req.Symbol
	result.Strategy = gen.Name()

	s.persistRun(ctx, req, result)

	s.log.InfoContext(ctx, "Backtest completed",
		logger.StringField("symbol", req.Symbol),
		logger.StringField("strategy", result.Strategy),
		logger.IntField("trade_count", result.TradeCount),
		logger.Float64Field("total_return", result.Stats.TotalReturn))
	return result, nil
}

func (s *backtestService) GetRun(ctx context.Context, id uint) (*model.BacktestRun, error) {
	return s.backtestRunRepo.FindByID(ctx, id)
}

// engineConfig merges per-request overrides onto the configured defaults.
func engineConfig(appCfg *config.Config, overrides *dto.SimulationParams) engine.Config {
	bt := appCfg.Backtest
	cfg := engine.Config{
		FeeBps:            bt.FeeBps,
		SlippageBps:       bt.SlippageBps,
		ATRPeriod:         bt.ATRPeriod,
		ATRStopMultiplier: bt.ATRStopMultiplier,
		VolumeGate: engine.VolumeGate{
			Enabled:        bt.VolumeGateEnabled,
			Window:         bt.VolumeGateWindow,
			ThresholdRatio: bt.VolumeGateThreshold,
		},
		EventScaling: engine.EventScaling{
			Enabled:        bt.EventScalingEnabled,
			CountThreshold: bt.EventCountThreshold,
			ScaleFactor:    bt.EventScaleFactor,
		},
	}
	if overrides == nil {
		return cfg
	}

	cfg.FeeBps = utils.ValueOr(overrides.FeeBps, cfg.FeeBps)
	cfg.SlippageBps = utils.ValueOr(overrides.SlippageBps, cfg.SlippageBps)
	cfg.ATRPeriod = utils.ValueOr(overrides.ATRPeriod, cfg.ATRPeriod)
	cfg.ATRStopMultiplier = utils.ValueOr(overrides.ATRStopMultiplier, cfg.ATRStopMultiplier)
	cfg.VolumeGate.Enabled = utils.ValueOr(overrides.VolumeGateEnabled, cfg.VolumeGate.Enabled)
	cfg.VolumeGate.Window = utils.ValueOr(overrides.VolumeGateWindow, cfg.VolumeGate.Window)
	cfg.VolumeGate.ThresholdRatio = utils.ValueOr(overrides.VolumeGateThreshold, cfg.VolumeGate.ThresholdRatio)
	cfg.EventScaling.Enabled = utils.ValueOr(overrides.EventScalingEnabled, cfg.EventScaling.Enabled)
	cfg.EventScaling.CountThreshold = utils.ValueOr(overrides.EventCountThreshold, cfg.EventScaling.CountThreshold)
	cfg.EventScaling.ScaleFactor = utils.ValueOr(overrides.EventScaleFactor, cfg.EventScaling.ScaleFactor)
	return cfg
}

// persistRun stores the outcome; persistence failures are logged, not
// returned, because the computed result is already in hand.
func (s *backtestService) persistRun(ctx context.Context, req dto.BacktestRequest, result *dto.BacktestResult) {
	reqJSON, err := json.Marshal(req)
	if err != nil {
		s.log.WarnContext(ctx, "Failed to marshal backtest request", logger.ErrorField(err))
		return
	}
	statsJSON, err := json.Marshal(result.Stats)
	if err != nil {
		s.log.WarnContext(ctx, "Failed to marshal backtest stats", logger.ErrorField(err))
		return
	}

	run := &model.BacktestRun{
		Symbol:     result.Symbol,
		Strategy:   result.Strategy,
		StartDate:  result.StartDate,
		EndDate:    result.EndDate,
		Request:    reqJSON,
		Stats:      statsJSON,
		TradeCount: result.TradeCount,
		WinCount:   result.WinCount,
		LossCount:  result.LossCount,
	}
	if err := s.backtestRunRepo.Create(ctx, run); err != nil {
		s.log.WarnContext(ctx, "Failed to persist backtest run", logger.ErrorField(err))
	}
}

func defaultString(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
