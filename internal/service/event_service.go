package service

import (
	"context"
	"fmt"
	"time"

	"golang-backtest/internal/dto"
	"golang-backtest/internal/model"
	"golang-backtest/internal/repository"
	"golang-backtest/pkg/logger"
)

// EventService ingests upstream-classified market events; the engine
// later consumes them aggregated to per-day counts.
type EventService interface {
	Ingest(ctx context.Context, req dto.IngestEventsRequest) (*dto.IngestEventsResult, error)
}

type eventService struct {
	log             *logger.Logger
	marketEventRepo repository.MarketEventRepository
}

func NewEventService(log *logger.Logger, marketEventRepo repository.MarketEventRepository) EventService {
	return &eventService{
		log:             log,
		marketEventRepo: marketEventRepo,
	}
}

func (s *eventService) Ingest(ctx context.Context, req dto.IngestEventsRequest) (*dto.IngestEventsResult, error) {
	events := make([]model.MarketEvent, 0, len(req.Events))
	for _, in := range req.Events {
		date, err := time.Parse(time.DateOnly, in.Date)
		if err != nil {
			return nil, fmt.Errorf("invalid event date %q: %w", in.Date, err)
		}
		events = append(events, model.MarketEvent{
			Symbol:    in.Symbol,
			EventDate: date,
			Source:    in.Source,
			Headline:  in.Headline,
		})
	}

	if err := s.marketEventRepo.Insert(ctx, events); err != nil {
		s.log.ErrorContext(ctx, "Failed to insert market events", logger.ErrorField(err))
		return nil, err
	}

	s.log.InfoContext(ctx, "Market events ingested", logger.IntField("count", len(events)))
	return &dto.IngestEventsResult{Inserted: len(events)}, nil
}
