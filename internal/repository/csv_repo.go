package repository

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"golang-backtest/internal/dto"
	"golang-backtest/pkg/logger"
)

type CSVRepository interface {
	Get(ctx context.Context, param dto.GetStockDataParam) (*dto.StockData, error)
}

// csvRepository loads daily bars from a local file with the header
// date,open,high,low,close,volume. It exists for offline and
// reproducible runs where no provider should be contacted.
type csvRepository struct {
	logger *logger.Logger
}

func NewCSVRepository(log *logger.Logger) CSVRepository {
	return &csvRepository{logger: log}
}

func (r *csvRepository) Get(ctx context.Context, param dto.GetStockDataParam) (*dto.StockData, error) {
	if param.File == "" {
		return nil, fmt.Errorf("csv source requires a file path")
	}

	f, err := os.Open(param.File)
	if err != nil {
		return nil, fmt.Errorf("failed to open candle file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse candle file %s: %w", param.File, err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("candle file %s has no data rows", param.File)
	}

	var bars []dto.StockOHLCV
	for i, rec := range records[1:] {
		bar, err := parseBarRecord(rec)
		if err != nil {
			r.logger.WarnContext(ctx, "Skipping malformed candle row",
				logger.StringField("file", param.File),
				logger.IntField("row", i+2),
				logger.ErrorField(err))
			continue
		}
		bars = append(bars, bar)
	}

	bars = NormalizeBars(bars)
	if len(bars) == 0 {
		return nil, fmt.Errorf("no valid rows in candle file %s", param.File)
	}

	return &dto.StockData{
		Symbol:   param.Symbol,
		Exchange: param.Exchange,
		Interval: dto.IntervalDaily,
		OHLCV:    bars,
	}, nil
}

func parseBarRecord(rec []string) (dto.StockOHLCV, error) {
	if len(rec) < 6 {
		return dto.StockOHLCV{}, fmt.Errorf("expected 6 columns, got %d", len(rec))
	}
	ts, err := time.Parse(time.DateOnly, rec[0])
	if err != nil {
		return dto.StockOHLCV{}, fmt.Errorf("bad date %q: %w", rec[0], err)
	}
	fields := make([]float64, 4)
	for i := 0; i < 4; i++ {
		f, err := strconv.ParseFloat(rec[i+1], 64)
		if err != nil {
			return dto.StockOHLCV{}, fmt.Errorf("bad price %q: %w", rec[i+1], err)
		}
		fields[i] = f
	}
	volume, err := strconv.ParseInt(rec[5], 10, 64)
	if err != nil {
		return dto.StockOHLCV{}, fmt.Errorf("bad volume %q: %w", rec[5], err)
	}
	return dto.StockOHLCV{
		Timestamp: ts,
		Open:      fields[0],
		High:      fields[1],
		Low:       fields[2],
		Close:     fields[3],
		Volume:    volume,
	}, nil
}
