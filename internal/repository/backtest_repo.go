package repository

import (
	"context"

	"gorm.io/gorm"

	"golang-backtest/internal/model"
	"golang-backtest/pkg/utils"
)

type BacktestRunRepository interface {
	Create(ctx context.Context, run *model.BacktestRun) error
	FindByID(ctx context.Context, id uint) (*model.BacktestRun, error)
	Find(ctx context.Context, param model.GetBacktestRunParam) ([]model.BacktestRun, error)
}

type backtestRunRepository struct {
	db *gorm.DB
}

func NewBacktestRunRepository(db *gorm.DB) BacktestRunRepository {
	return &backtestRunRepository{db: db}
}

func (r *backtestRunRepository) Create(ctx context.Context, run *model.BacktestRun) error {
	return r.db.WithContext(ctx).Create(run).Error
}

func (r *backtestRunRepository) FindByID(ctx context.Context, id uint) (*model.BacktestRun, error) {
	var run model.BacktestRun
	err := r.db.WithContext(ctx).First(&run, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &run, nil
}

func (r *backtestRunRepository) Find(ctx context.Context, param model.GetBacktestRunParam) ([]model.BacktestRun, error) {
	opts := []utils.DBOption{
		utils.WithOrder("created_at DESC"),
	}
	if param.Symbol != "" {
		opts = append(opts, utils.WithWhere("symbol = ?", param.Symbol))
	}
	if param.Limit > 0 {
		opts = append(opts, utils.WithLimit(param.Limit))
	}

	var runs []model.BacktestRun
	err := utils.ApplyOptions(r.db.WithContext(ctx), opts...).Find(&runs).Error
	if err != nil {
		return nil, err
	}
	return runs, nil
}
