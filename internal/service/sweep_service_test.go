package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang-backtest/internal/dto"
)

func baseSweepRequest(strategyName string) dto.SweepRequest {
	return dto.SweepRequest{
		Base: dto.BacktestRequest{
			Symbol: "BBCA",
			Strategy: dto.StrategyParams{
				Name:       strategyName,
				FastWindow: 20,
				SlowWindow: 50,
				RSIPeriod:  14,
			},
		},
	}
}

func TestBuildVariantsTrendFollowing(t *testing.T) {
	s := &sweepService{}

	req := baseSweepRequest(dto.StrategyTrendFollowing)
	req.FastWindows = []int{10, 20, 60}
	req.SlowWindows = []int{50, 100}

	variants, err := s.buildVariants(req)
	require.NoError(t, err)

	// 10x50, 10x100, 20x50, 20x100, 60x100; 60x50 is skipped.
	require.Len(t, variants, 5)
	for _, v := range variants {
		assert.Less(t, v.FastWindow, v.SlowWindow)
		assert.Equal(t, dto.StrategyTrendFollowing, v.Name)
	}
}

func TestBuildVariantsMeanReversion(t *testing.T) {
	s := &sweepService{}

	req := baseSweepRequest(dto.StrategyMeanReversion)
	req.RSIPeriods = []int{7, 14, 21}

	variants, err := s.buildVariants(req)
	require.NoError(t, err)
	require.Len(t, variants, 3)
	assert.Equal(t, 7, variants[0].RSIPeriod)
	assert.Equal(t, 21, variants[2].RSIPeriod)
}

func TestBuildVariantsFallsBackToBaseParams(t *testing.T) {
	s := &sweepService{}

	variants, err := s.buildVariants(baseSweepRequest(dto.StrategyTrendFollowing))
	require.NoError(t, err)
	require.Len(t, variants, 1)
	assert.Equal(t, 20, variants[0].FastWindow)
	assert.Equal(t, 50, variants[0].SlowWindow)
}

func TestBuildVariantsUnknownStrategy(t *testing.T) {
	s := &sweepService{}

	_, err := s.buildVariants(baseSweepRequest("momentum"))
	assert.Error(t, err)
}

func TestBuildVariantsAllCombinationsSkipped(t *testing.T) {
	s := &sweepService{}

	req := baseSweepRequest(dto.StrategyTrendFollowing)
	req.FastWindows = []int{100, 200}
	req.SlowWindows = []int{50}

	_, err := s.buildVariants(req)
	assert.Error(t, err)
}
