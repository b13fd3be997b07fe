package dataflows

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestNormalizeSymbol(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"AAPL", "AAPL"},
		{" aapl ", "AAPL"},
		{"BRK.B", "BRK-B"},
		{"bf.a", "BF-A"},
	}
	for _, c := range cases {
		if got := NormalizeSymbol(c.in); got != c.want {
			t.Errorf("NormalizeSymbol(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestValidateSymbol(t *testing.T) {
	if err := ValidateSymbol("AAPL"); err != nil {
		t.Errorf("ValidateSymbol(AAPL): %v", err)
	}
	if err := ValidateSymbol(""); err == nil {
		t.Errorf("expected error for empty symbol")
	}
	if err := ValidateSymbol("WAYTOOLONGSYM"); err == nil {
		t.Errorf("expected error for overlong symbol")
	}
}

func TestParsePrice(t *testing.T) {
	cases := []struct {
		in    string
		want  float64
		valid bool
	}{
		{"$227.50", 227.50, true},
		{"$1,234.56", 1234.56, true},
		{" 99.9 ", 99.9, true},
		{"N/A", 0, false},
		{"", 0, false},
	}
	for _, c := range cases {
		got := ParsePrice(c.in)
		if got.Valid != c.valid {
			t.Errorf("ParsePrice(%q).Valid = %v, want %v", c.in, got.Valid, c.valid)
			continue
		}
		if c.valid && !got.Decimal.Equal(decimal.NewFromFloat(c.want)) {
			t.Errorf("ParsePrice(%q) = %s, want %v", c.in, got.Decimal, c.want)
		}
	}
}

func TestWithRetryEventuallySucceeds(t *testing.T) {
	cfg := &RetryConfig{MaxRetries: 3, BaseDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond, Multiplier: 2.0}

	attempts := 0
	err := WithRetry(context.Background(), cfg, func() error {
		attempts++
		if attempts < 3 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithRetry: %v", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestWithRetryGivesUp(t *testing.T) {
	cfg := &RetryConfig{MaxRetries: 2, BaseDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond, Multiplier: 2.0}

	attempts := 0
	err := WithRetry(context.Background(), cfg, func() error {
		attempts++
		return errors.New("still down")
	})
	if err == nil {
		t.Fatalf("expected error after exhausting retries")
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3 (initial + 2 retries)", attempts)
	}
}

func TestWithRetryStopsOnCancelledContext(t *testing.T) {
	cfg := &RetryConfig{MaxRetries: 5, BaseDelay: 50 * time.Millisecond, MaxDelay: time.Second, Multiplier: 2.0}

	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	err := WithRetry(ctx, cfg, func() error {
		attempts++
		return errors.New("transient")
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if attempts > 2 {
		t.Errorf("retry kept going after cancel: %d attempts", attempts)
	}
}
