package config

import (
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.LookbackDays != 20 {
		t.Errorf("LookbackDays = %d, want 20", cfg.LookbackDays)
	}
	if cfg.DirectoryPages != 2 {
		t.Errorf("DirectoryPages = %d, want 2", cfg.DirectoryPages)
	}
	if cfg.PriceSource != PriceSourceDirectory {
		t.Errorf("PriceSource = %q, want %q", cfg.PriceSource, PriceSourceDirectory)
	}
	if !cfg.ExcludeToday {
		t.Errorf("ExcludeToday should default to true")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadFromEnvOverrides(t *testing.T) {
	t.Setenv("MOMENTUM_LOOKBACK_DAYS", "30")
	t.Setenv("MOMENTUM_WORKERS", "16")
	t.Setenv("MOMENTUM_PRICE_SOURCE", "lastclose")
	t.Setenv("MOMENTUM_EXCLUDE_TODAY", "false")
	t.Setenv("MOMENTUM_FETCH_TIMEOUT", "5s")

	cfg := DefaultConfig()

	if cfg.LookbackDays != 30 {
		t.Errorf("LookbackDays = %d, want 30", cfg.LookbackDays)
	}
	if cfg.WorkerPoolSize != 16 {
		t.Errorf("WorkerPoolSize = %d, want 16", cfg.WorkerPoolSize)
	}
	if cfg.PriceSource != PriceSourceLastClose {
		t.Errorf("PriceSource = %q, want lastclose", cfg.PriceSource)
	}
	if cfg.ExcludeToday {
		t.Errorf("ExcludeToday not overridden")
	}
	if cfg.FetchTimeout != 5*time.Second {
		t.Errorf("FetchTimeout = %v, want 5s", cfg.FetchTimeout)
	}
}

func TestLoadFromEnvIgnoresMalformedValues(t *testing.T) {
	t.Setenv("MOMENTUM_LOOKBACK_DAYS", "not-a-number")
	t.Setenv("MOMENTUM_EXCLUDE_TODAY", "not-a-bool")

	cfg := DefaultConfig()

	if cfg.LookbackDays != 20 {
		t.Errorf("malformed env leaked: LookbackDays = %d", cfg.LookbackDays)
	}
	if !cfg.ExcludeToday {
		t.Errorf("malformed env leaked: ExcludeToday = false")
	}
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()

	cfg.DirectoryPages = 0
	if err := cfg.Validate(); err == nil {
		t.Errorf("expected error for zero pages")
	}
	cfg = DefaultConfig()

	cfg.LookbackDays = 0
	if err := cfg.Validate(); err == nil {
		t.Errorf("expected error for zero lookback")
	}
	cfg = DefaultConfig()

	cfg.WorkerPoolSize = 0
	if err := cfg.Validate(); err == nil {
		t.Errorf("expected error for zero workers")
	}
	cfg = DefaultConfig()

	cfg.PriceSource = "quotes"
	if err := cfg.Validate(); err == nil {
		t.Errorf("expected error for unknown price source")
	}
}
