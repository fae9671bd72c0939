package dto

const (
	SourceYahoo = "yahoo"
	SourceCSV   = "csv"
)

const (
	StrategyTrendFollowing = "trend_following"
	StrategyMeanReversion  = "mean_reversion"
)

const (
	IntervalDaily = "1d"

	RangeOneYear = "1y"
)
