package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Log          Logger             `mapstructure:"logger"`
	DB           Database           `mapstructure:"database"`
	API          API                `mapstructure:"api"`
	Cache        Cache              `mapstructure:"cache"`
	YahooFinance YahooFinanceConfig `mapstructure:"yahoo_finance"`
	Backtest     BacktestConfig     `mapstructure:"backtest"`
	Sweep        SweepConfig        `mapstructure:"sweep"`
	Scheduler    SchedulerConfig    `mapstructure:"scheduler"`
}

type Logger struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
}

type Database struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	DBName          string `mapstructure:"name"`
	SSLMode         string `mapstructure:"ssl_mode"`
	TimeZone        string `mapstructure:"time_zone"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime string `mapstructure:"conn_max_lifetime"`
	LogLevel        string `mapstructure:"log_level"`
}

type API struct {
	Port int `mapstructure:"port"`
}

type Cache struct {
	DefaultExpiration time.Duration `mapstructure:"default_expiration"`
	CleanupInterval   time.Duration `mapstructure:"cleanup_interval"`
}

type YahooFinanceConfig struct {
	BaseURL             string        `mapstructure:"base_url"`
	Timeout             time.Duration `mapstructure:"timeout"`
	MaxRequestPerMinute int           `mapstructure:"max_request_per_minute"`
}

// BacktestConfig carries the simulation defaults; a request may override
// any of them per run.
type BacktestConfig struct {
	FeeBps              float64 `mapstructure:"fee_bps"`
	SlippageBps         float64 `mapstructure:"slippage_bps"`
	ATRPeriod           int     `mapstructure:"atr_period"`
	ATRStopMultiplier   float64 `mapstructure:"atr_stop_multiplier"`
	VolumeGateEnabled   bool    `mapstructure:"volume_gate_enabled"`
	VolumeGateWindow    int     `mapstructure:"volume_gate_window"`
	VolumeGateThreshold float64 `mapstructure:"volume_gate_threshold"`
	EventScalingEnabled bool    `mapstructure:"event_scaling_enabled"`
	EventCountThreshold int     `mapstructure:"event_count_threshold"`
	EventScaleFactor    float64 `mapstructure:"event_scale_factor"`
}

type SweepConfig struct {
	MaxConcurrency int `mapstructure:"max_concurrency"`
	MaxRuns        int `mapstructure:"max_runs"`
}

type SchedulerConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	RefreshSpec string `mapstructure:"refresh_spec"`
	RecentRuns  int    `mapstructure:"recent_runs"`
}

func Load() (*Config, error) {
	// Ignore a missing .env; containerized deployments inject real env.
	_ = godotenv.Load()

	viper.SetConfigType("yaml")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		fmt.Println("No config file loaded:", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.encoding", "json")

	viper.SetDefault("api.port", 8080)

	viper.SetDefault("cache.default_expiration", 15*time.Minute)
	viper.SetDefault("cache.cleanup_interval", 30*time.Minute)

	viper.SetDefault("yahoo_finance.base_url", "https://query1.finance.yahoo.com/v8/finance/chart")
	viper.SetDefault("yahoo_finance.timeout", 10*time.Second)
	viper.SetDefault("yahoo_finance.max_request_per_minute", 30)

	viper.SetDefault("backtest.fee_bps", 10)
	viper.SetDefault("backtest.slippage_bps", 5)
	viper.SetDefault("backtest.atr_period", 14)
	viper.SetDefault("backtest.atr_stop_multiplier", 2.5)
	viper.SetDefault("backtest.volume_gate_window", 20)
	viper.SetDefault("backtest.volume_gate_threshold", 0.75)
	viper.SetDefault("backtest.event_count_threshold", 3)
	viper.SetDefault("backtest.event_scale_factor", 0.5)

	viper.SetDefault("sweep.max_concurrency", 4)
	viper.SetDefault("sweep.max_runs", 256)

	viper.SetDefault("scheduler.refresh_spec", "0 18 * * 1-5")
	viper.SetDefault("scheduler.recent_runs", 10)
}
