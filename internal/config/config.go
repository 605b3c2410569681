package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration
type Config struct {
	MarketData MarketDataConfig `mapstructure:"market_data"`
	Simulation SimulationConfig `mapstructure:"simulation"`
	Report     ReportConfig     `mapstructure:"report"`
	Telegram   TelegramConfig   `mapstructure:"telegram"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// MarketDataConfig holds the Yahoo Finance chart API configuration
type MarketDataConfig struct {
	APIBaseURL    string        `mapstructure:"api_base_url"`
	Symbol        string        `mapstructure:"symbol"`
	LookbackRange string        `mapstructure:"lookback_range"`
	Interval      string        `mapstructure:"interval"`
	Timeout       time.Duration `mapstructure:"timeout"`
	FallbackPrice float64       `mapstructure:"fallback_price"`
	MinSanePrice  float64       `mapstructure:"min_sane_price"`
	MaxSanePrice  float64       `mapstructure:"max_sane_price"`
}

// Regression holds the coefficients of one affine price relation:
// price = WTI*Slope + Intercept.
type Regression struct {
	Slope     float64 `mapstructure:"slope"`
	Intercept float64 `mapstructure:"intercept"`
}

// SimulationConfig holds the cost model coefficients
type SimulationConfig struct {
	Benzene       Regression `mapstructure:"benzene"`
	Ethylene      Regression `mapstructure:"ethylene"`
	SMMarket      Regression `mapstructure:"sm_market"`
	BenzeneYield  float64    `mapstructure:"benzene_yield"`
	EthyleneYield float64    `mapstructure:"ethylene_yield"`
	TargetMargin  float64    `mapstructure:"target_margin"`
	RiskPremium   float64    `mapstructure:"risk_premium"`
}

// ReportConfig holds the output file configuration
type ReportConfig struct {
	CSVPath   string `mapstructure:"csv_path"`
	ChartPath string `mapstructure:"chart_path"`
	DPI       int    `mapstructure:"dpi"`
}

// TelegramConfig holds Telegram notification configuration
type TelegramConfig struct {
	BotToken       string        `mapstructure:"bot_token"`
	ChatID         string        `mapstructure:"chat_id"`
	Enabled        bool          `mapstructure:"enabled"`
	MaxRetries     int           `mapstructure:"max_retries"`
	RetryDelayBase time.Duration `mapstructure:"retry_delay_base"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from file and environment variables.
// A missing config file is not an error: the defaults fully describe the
// simulation, so the binary runs with no file present at all.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(path)

	setDefaults(v)

	v.SetEnvPrefix("IRANSIM")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults configures default values for all configuration options
func setDefaults(v *viper.Viper) {
	// Market data defaults: WTI front month, most recent daily close.
	// The fallback price is a fixed historical anchor with no refresh
	// mechanism; bump it by hand when it drifts too far from the market.
	v.SetDefault("market_data.api_base_url", "https://query1.finance.yahoo.com")
	v.SetDefault("market_data.symbol", "CL=F")
	v.SetDefault("market_data.lookback_range", "2d")
	v.SetDefault("market_data.interval", "1d")
	v.SetDefault("market_data.timeout", "30s")
	v.SetDefault("market_data.fallback_price", 78.45)
	v.SetDefault("market_data.min_sane_price", 20.0)
	v.SetDefault("market_data.max_sane_price", 200.0)

	// Regression coefficients from the weekly raw-material workbook
	v.SetDefault("simulation.benzene.slope", 10.22)
	v.SetDefault("simulation.benzene.intercept", 151.78)
	v.SetDefault("simulation.ethylene.slope", 6.12)
	v.SetDefault("simulation.ethylene.intercept", 629.75)
	v.SetDefault("simulation.sm_market.slope", 11.36)
	v.SetDefault("simulation.sm_market.intercept", 132.90)
	v.SetDefault("simulation.benzene_yield", 0.8)
	v.SetDefault("simulation.ethylene_yield", 0.3)
	v.SetDefault("simulation.target_margin", 150.0)
	v.SetDefault("simulation.risk_premium", 0.0)

	// Report defaults
	v.SetDefault("report.csv_path", "simulation_result.csv")
	v.SetDefault("report.chart_path", "risk_simulation_report.png")
	v.SetDefault("report.dpi", 150)

	// Telegram defaults
	v.SetDefault("telegram.enabled", false)
	v.SetDefault("telegram.max_retries", 3)
	v.SetDefault("telegram.retry_delay_base", "1s")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// Validate checks that all configuration values are valid
func (c *Config) Validate() error {
	if c.MarketData.APIBaseURL == "" {
		return fmt.Errorf("market_data.api_base_url is required")
	}
	if c.MarketData.Symbol == "" {
		return fmt.Errorf("market_data.symbol is required")
	}
	if c.MarketData.Timeout < time.Second {
		return fmt.Errorf("market_data.timeout must be at least 1 second")
	}
	if c.MarketData.FallbackPrice <= 0 {
		return fmt.Errorf("market_data.fallback_price must be positive")
	}
	if c.MarketData.MinSanePrice >= c.MarketData.MaxSanePrice {
		return fmt.Errorf("market_data.min_sane_price must be below market_data.max_sane_price")
	}

	if c.Simulation.BenzeneYield <= 0 || c.Simulation.EthyleneYield <= 0 {
		return fmt.Errorf("simulation yields must be positive")
	}
	if c.Simulation.Benzene.Slope == 0 || c.Simulation.Ethylene.Slope == 0 || c.Simulation.SMMarket.Slope == 0 {
		return fmt.Errorf("simulation regression slopes must be non-zero")
	}

	if c.Report.CSVPath == "" {
		return fmt.Errorf("report.csv_path is required")
	}
	if c.Report.ChartPath == "" {
		return fmt.Errorf("report.chart_path is required")
	}
	if c.Report.DPI < 72 {
		return fmt.Errorf("report.dpi must be at least 72")
	}

	if c.Telegram.Enabled {
		if c.Telegram.BotToken == "" {
			return fmt.Errorf("telegram.bot_token is required when telegram is enabled")
		}
		if c.Telegram.ChatID == "" {
			return fmt.Errorf("telegram.chat_id is required when telegram is enabled")
		}
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[c.Logging.Format] {
		return fmt.Errorf("logging.format must be one of: json, text")
	}

	return nil
}
