// =================================
// File: internal/config/config.go
// =================================
package config

import (
	"errors"
	"net/url"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

type Config struct {
	TradeHost      string  `mapstructure:"trade_host"`
	DataHost       string  `mapstructure:"data_host"`
	TimeoutMs      int     `mapstructure:"timeout_ms"`
	SlippageBps    int     `mapstructure:"slippage_bps"`
	PriceImpactMax float64 `mapstructure:"price_impact_max"`
	Retries        int     `mapstructure:"retries"`
	RateLimit      int     `mapstructure:"rate_limit"`
	PriorityTier   string  `mapstructure:"priority_tier"`
	DebugLogging   bool    `mapstructure:"debug_logging"`
	LogFile        string  `mapstructure:"log_file"`
}

const (
	DefaultTradeHost      = "https://transaction-v1.raydium.io"
	DefaultDataHost       = "https://api-v3.raydium.io"
	DefaultTimeoutMs      = 10000
	DefaultSlippageBps    = 10
	DefaultPriceImpactMax = 0.1
	DefaultRetries        = 3
	DefaultRateLimit      = 300
	DefaultPriorityTier   = "h"
)

func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	defaults := map[string]interface{}{
		"trade_host":       DefaultTradeHost,
		"data_host":        DefaultDataHost,
		"timeout_ms":       DefaultTimeoutMs,
		"slippage_bps":     DefaultSlippageBps,
		"price_impact_max": DefaultPriceImpactMax,
		"retries":          DefaultRetries,
		"rate_limit":       DefaultRateLimit,
		"priority_tier":    DefaultPriorityTier,
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := loadEnvironmentVariables(v, &cfg); err != nil {
		return nil, err
	}

	return &cfg, validateConfig(&cfg)
}

func validateConfig(cfg *Config) error {
	if err := validateURLWithCache(cfg.TradeHost, "http"); err != nil {
		return errors.New("invalid trade_host URL")
	}
	if err := validateURLWithCache(cfg.DataHost, "http"); err != nil {
		return errors.New("invalid data_host URL")
	}
	return validateNumericParams(cfg)
}

func validateNumericParams(cfg *Config) error {
	if cfg.TimeoutMs <= 0 {
		return errors.New("invalid timeout_ms")
	}
	if cfg.SlippageBps < 0 || cfg.SlippageBps >= 10000 {
		return errors.New("invalid slippage_bps")
	}
	if cfg.PriceImpactMax <= 0 || cfg.PriceImpactMax >= 1 {
		return errors.New("invalid price_impact_max")
	}
	if cfg.Retries < 0 {
		return errors.New("invalid retries count")
	}
	if cfg.RateLimit <= 0 {
		return errors.New("invalid rate_limit")
	}
	switch cfg.PriorityTier {
	case "m", "h", "vh":
	default:
		return errors.New("invalid priority_tier")
	}
	return nil
}

var urlCache sync.Map

func validateURLWithCache(rawURL string, protocol string) error {
	if _, ok := urlCache.Load(rawURL); ok {
		return nil
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return errors.New("invalid URL format")
	}
	if !strings.HasPrefix(parsed.Scheme, protocol) {
		return errors.New("invalid URL protocol")
	}
	urlCache.Store(rawURL, parsed)
	return nil
}

func loadEnvironmentVariables(v *viper.Viper, cfg *Config) error {
	v.AutomaticEnv()
	v.SetEnvPrefix("RAYDIUM_SWAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	envTradeHost := v.GetString("TRADE_HOST")
	if envTradeHost != "" {
		cfg.TradeHost = envTradeHost
	}

	envDataHost := v.GetString("DATA_HOST")
	if envDataHost != "" {
		cfg.DataHost = envDataHost
	}
	return nil
}
