package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// PriceSource selects where FullRefresh takes CurrentPrice from.
type PriceSource string

const (
	// PriceSourceDirectory uses the price quoted on the directory listing.
	PriceSourceDirectory PriceSource = "directory"
	// PriceSourceLastClose bootstraps the price from the last close of the
	// fetched bar series.
	PriceSourceLastClose PriceSource = "lastclose"
)

type Config struct {
	DirectoryBaseURL string `json:"directory_base_url"`
	DirectoryPages   int    `json:"directory_pages"`
	MaxTickers       int    `json:"max_tickers"`
	UserAgent        string `json:"user_agent"`

	LookbackDays   int `json:"lookback_days"`
	ExtremeDays    int `json:"extreme_days"`
	WorkerPoolSize int `json:"worker_pool_size"`

	PriceSource  PriceSource `json:"price_source"`
	ExcludeToday bool        `json:"exclude_today"`

	FetchTimeout   time.Duration `json:"fetch_timeout"`
	RetryMax       int           `json:"retry_max"`
	RetryBaseDelay time.Duration `json:"retry_base_delay"`

	Debug bool `json:"debug"`
}

func DefaultConfig() *Config {
	cfg := &Config{
		DirectoryBaseURL: "https://companiesmarketcap.com/usa/largest-companies-in-the-usa-by-market-cap/",
		DirectoryPages:   2,
		MaxTickers:       200,
		UserAgent:        "Mozilla/5.0 (compatible; MomentumGo/1.0)",

		LookbackDays:   20,
		ExtremeDays:    2,
		WorkerPoolSize: 8,

		PriceSource:  PriceSourceDirectory,
		ExcludeToday: true,

		FetchTimeout:   30 * time.Second,
		RetryMax:       3,
		RetryBaseDelay: 1 * time.Second,

		Debug: false,
	}

	// Load environment variables from .env file
	_ = godotenv.Load()

	cfg.loadFromEnv()

	return cfg
}

func (c *Config) loadFromEnv() {
	if val := os.Getenv("MOMENTUM_DIRECTORY_URL"); val != "" {
		c.DirectoryBaseURL = val
	}
	if val := os.Getenv("MOMENTUM_DIRECTORY_PAGES"); val != "" {
		if v, err := strconv.Atoi(val); err == nil {
			c.DirectoryPages = v
		}
	}
	if val := os.Getenv("MOMENTUM_MAX_TICKERS"); val != "" {
		if v, err := strconv.Atoi(val); err == nil {
			c.MaxTickers = v
		}
	}
	if val := os.Getenv("MOMENTUM_USER_AGENT"); val != "" {
		c.UserAgent = val
	}

	if val := os.Getenv("MOMENTUM_LOOKBACK_DAYS"); val != "" {
		if v, err := strconv.Atoi(val); err == nil {
			c.LookbackDays = v
		}
	}
	if val := os.Getenv("MOMENTUM_EXTREME_DAYS"); val != "" {
		if v, err := strconv.Atoi(val); err == nil {
			c.ExtremeDays = v
		}
	}
	if val := os.Getenv("MOMENTUM_WORKERS"); val != "" {
		if v, err := strconv.Atoi(val); err == nil {
			c.WorkerPoolSize = v
		}
	}

	if val := os.Getenv("MOMENTUM_PRICE_SOURCE"); val != "" {
		c.PriceSource = PriceSource(val)
	}
	if val := os.Getenv("MOMENTUM_EXCLUDE_TODAY"); val != "" {
		if v, err := strconv.ParseBool(val); err == nil {
			c.ExcludeToday = v
		}
	}

	if val := os.Getenv("MOMENTUM_FETCH_TIMEOUT"); val != "" {
		if v, err := time.ParseDuration(val); err == nil {
			c.FetchTimeout = v
		}
	}
	if val := os.Getenv("MOMENTUM_RETRY_MAX"); val != "" {
		if v, err := strconv.Atoi(val); err == nil {
			c.RetryMax = v
		}
	}
	if val := os.Getenv("MOMENTUM_RETRY_BASE_DELAY"); val != "" {
		if v, err := time.ParseDuration(val); err == nil {
			c.RetryBaseDelay = v
		}
	}

	if val := os.Getenv("MOMENTUM_DEBUG"); val != "" {
		if v, err := strconv.ParseBool(val); err == nil {
			c.Debug = v
		}
	}
}

// Validate rejects configurations the refresh operations cannot run with.
func (c *Config) Validate() error {
	if c.DirectoryPages < 1 {
		return fmt.Errorf("directory pages must be at least 1, got %d", c.DirectoryPages)
	}
	if c.LookbackDays < 1 {
		return fmt.Errorf("lookback days must be at least 1, got %d", c.LookbackDays)
	}
	if c.WorkerPoolSize < 1 {
		return fmt.Errorf("worker pool size must be at least 1, got %d", c.WorkerPoolSize)
	}
	switch c.PriceSource {
	case PriceSourceDirectory, PriceSourceLastClose:
	default:
		return fmt.Errorf("unknown price source %q", c.PriceSource)
	}
	return nil
}
