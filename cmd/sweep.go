package cmd

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"golang-backtest/internal/dto"
	"golang-backtest/internal/repository"
	"golang-backtest/internal/service"
	"golang-backtest/pkg/utils"
)

var sweepFlags struct {
	symbol      string
	exchange    string
	source      string
	file        string
	dataRange   string
	interval    string
	strategy    string
	fastWindows []int
	slowWindows []int
	rsiPeriods  []int
}

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run a parameter sweep and print runs ranked by Sharpe",
	Run:   runSweepCmd,
}

func init() {
	f := sweepCmd.Flags()
	f.StringVar(&sweepFlags.symbol, "symbol", "", "ticker symbol (required)")
	f.StringVar(&sweepFlags.exchange, "exchange", "", "exchange suffix for yahoo symbols")
	f.StringVar(&sweepFlags.source, "source", dto.SourceYahoo, "candle source: yahoo or csv")
	f.StringVar(&sweepFlags.file, "file", "", "csv file path when source is csv")
	f.StringVar(&sweepFlags.dataRange, "range", dto.RangeOneYear, "yahoo data range")
	f.StringVar(&sweepFlags.interval, "interval", dto.IntervalDaily, "candle interval")
	f.StringVar(&sweepFlags.strategy, "strategy", dto.StrategyTrendFollowing, "signal strategy")
	f.IntSliceVar(&sweepFlags.fastWindows, "fast-windows", nil, "fast SMA windows to try")
	f.IntSliceVar(&sweepFlags.slowWindows, "slow-windows", nil, "slow SMA windows to try")
	f.IntSliceVar(&sweepFlags.rsiPeriods, "rsi-periods", nil, "RSI periods to try")
	_ = sweepCmd.MarkFlagRequired("symbol")
}

func runSweepCmd(cmd *cobra.Command, args []string) {
	ctx := context.Background()

	appDep, err := NewAppDependency(ctx)
	if err != nil {
		log.Fatalf("Failed to create app dependency: %v", err)
	}
	defer appDep.Close()

	repo, err := repository.NewRepository(appDep.cfg, appDep.cache, appDep.db.DB, appDep.log)
	if err != nil {
		log.Fatalf("Failed to create repository: %v", err)
	}
	services := service.NewService(appDep.cfg, appDep.log, repo)

	result, err := services.SweepService.RunSweep(ctx, dto.SweepRequest{
		Base: dto.BacktestRequest{
			Symbol:   sweepFlags.symbol,
			Exchange: sweepFlags.exchange,
			Source:   sweepFlags.source,
			File:     sweepFlags.file,
			Range:    sweepFlags.dataRange,
			Interval: sweepFlags.interval,
			Strategy: dto.StrategyParams{Name: sweepFlags.strategy},
		},
		FastWindows: sweepFlags.fastWindows,
		SlowWindows: sweepFlags.slowWindows,
		RSIPeriods:  sweepFlags.rsiPeriods,
	})
	if err != nil {
		log.Fatalf("Sweep failed: %v", err)
	}

	fmt.Printf("%s — %d runs\n", result.Symbol, result.Runs)

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("#", "Params", "Sharpe", "Total Return", "CAGR", "Max Drawdown", "Trades")
	for i, entry := range result.Entries {
		table.Append(
			fmt.Sprintf("%d", i+1),
			formatSweepParams(entry.Strategy),
			utils.FormatRatio(entry.Stats.Sharpe),
			utils.FormatPercentage(entry.Stats.TotalReturn),
			utils.FormatPercentage(entry.Stats.CAGR),
			utils.FormatPercentage(entry.Stats.MaxDrawdown),
			fmt.Sprintf("%d", entry.TradeCount),
		)
	}
	table.Render()
}

func formatSweepParams(params dto.StrategyParams) string {
	switch params.Name {
	case dto.StrategyMeanReversion:
		return fmt.Sprintf("rsi=%d", params.RSIPeriod)
	default:
		return fmt.Sprintf("fast=%d slow=%d", params.FastWindow, params.SlowWindow)
	}
}
