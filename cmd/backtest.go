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

var backtestFlags struct {
	symbol    string
	exchange  string
	source    string
	file      string
	dataRange string
	interval  string
	strategy  string
	fast      int
	slow      int
	rsi       int
	entry     float64
	exit      float64
}

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Run a single backtest and print the result",
	Run:   runBacktestCmd,
}

func init() {
	f := backtestCmd.Flags()
	f.StringVar(&backtestFlags.symbol, "symbol", "", "ticker symbol (required)")
	f.StringVar(&backtestFlags.exchange, "exchange", "", "exchange suffix for yahoo symbols")
	f.StringVar(&backtestFlags.source, "source", dto.SourceYahoo, "candle source: yahoo or csv")
	f.StringVar(&backtestFlags.file, "file", "", "csv file path when source is csv")
	f.StringVar(&backtestFlags.dataRange, "range", dto.RangeOneYear, "yahoo data range")
	f.StringVar(&backtestFlags.interval, "interval", dto.IntervalDaily, "candle interval")
	f.StringVar(&backtestFlags.strategy, "strategy", dto.StrategyTrendFollowing, "signal strategy")
	f.IntVar(&backtestFlags.fast, "fast", 0, "fast SMA window")
	f.IntVar(&backtestFlags.slow, "slow", 0, "slow SMA window")
	f.IntVar(&backtestFlags.rsi, "rsi-period", 0, "RSI period")
	f.Float64Var(&backtestFlags.entry, "entry", 0, "RSI entry threshold")
	f.Float64Var(&backtestFlags.exit, "exit", 0, "RSI exit threshold")
	_ = backtestCmd.MarkFlagRequired("symbol")
}

func runBacktestCmd(cmd *cobra.Command, args []string) {
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

	result, err := services.BacktestService.RunBacktest(ctx, dto.BacktestRequest{
		Symbol:   backtestFlags.symbol,
		Exchange: backtestFlags.exchange,
		Source:   backtestFlags.source,
		File:     backtestFlags.file,
		Range:    backtestFlags.dataRange,
		Interval: backtestFlags.interval,
		Strategy: dto.StrategyParams{
			Name:           backtestFlags.strategy,
			FastWindow:     backtestFlags.fast,
			SlowWindow:     backtestFlags.slow,
			RSIPeriod:      backtestFlags.rsi,
			EntryThreshold: backtestFlags.entry,
			ExitThreshold:  backtestFlags.exit,
		},
	})
	if err != nil {
		log.Fatalf("Backtest failed: %v", err)
	}

	printBacktestResult(result)
}

func printBacktestResult(result *dto.BacktestResult) {
	fmt.Printf("%s (%s) %s — %s\n",
		result.Symbol, result.Strategy,
		result.StartDate.Format("2006-01-02"), result.EndDate.Format("2006-01-02"))

	stats := tablewriter.NewWriter(os.Stdout)
	stats.Header("Total Return", "CAGR", "Sharpe", "Max Drawdown", "Cost (bps)", "Trades", "Win/Loss")
	stats.Append(
		utils.FormatPercentage(result.Stats.TotalReturn),
		utils.FormatPercentage(result.Stats.CAGR),
		utils.FormatRatio(result.Stats.Sharpe),
		utils.FormatPercentage(result.Stats.MaxDrawdown),
		fmt.Sprintf("%.0f", result.Stats.CostBps),
		fmt.Sprintf("%d", result.TradeCount),
		fmt.Sprintf("%d/%d", result.WinCount, result.LossCount),
	)
	stats.Render()

	if len(result.Trades) == 0 {
		return
	}
	trades := tablewriter.NewWriter(os.Stdout)
	trades.Header("Date", "Action", "Price", "PnL")
	for _, trade := range result.Trades {
		pnl := ""
		if trade.Action != "entry" {
			pnl = utils.FormatPercentage(trade.PnL)
		}
		trades.Append(
			trade.Date.Format("2006-01-02"),
			trade.Action,
			fmt.Sprintf("%.2f", trade.Price),
			pnl,
		)
	}
	trades.Render()
}
