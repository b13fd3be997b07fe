package scanner

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mzkii/MomentumGo/internal/models"
)

func breakoutRecord(symbol string, price decimal.NullDecimal, high, low float64) models.TickerRecord {
	return models.TickerRecord{
		Symbol:       symbol,
		Name:         symbol + " Inc.",
		CurrentPrice: price,
		High20:       d(high),
		Low20:        d(low),
		LastBarDate:  time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC),
	}
}

func TestDetectBreakoutsPartitions(t *testing.T) {
	records := []models.TickerRecord{
		breakoutRecord("UP", nd(105), 100, 80),     // above high
		breakoutRecord("MID", nd(90), 100, 80),     // inside the band
		breakoutRecord("DOWN", nd(75), 100, 80),    // below low
		breakoutRecord("EDGEHI", nd(100), 100, 80), // equal is not a breakout
		breakoutRecord("EDGELO", nd(80), 100, 80),
		breakoutRecord("NOPX", decimal.NullDecimal{}, 100, 80),
		breakoutRecord("UP2", nd(101), 100, 80),
	}

	b := DetectBreakouts(records)

	if len(b.AboveHigh) != 2 {
		t.Fatalf("AboveHigh = %d, want 2", len(b.AboveHigh))
	}
	if b.AboveHigh[0].Symbol != "UP" || b.AboveHigh[1].Symbol != "UP2" {
		t.Errorf("AboveHigh order not snapshot order: %s, %s",
			b.AboveHigh[0].Symbol, b.AboveHigh[1].Symbol)
	}
	if len(b.BelowLow) != 1 || b.BelowLow[0].Symbol != "DOWN" {
		t.Fatalf("BelowLow = %v", b.BelowLow)
	}

	// Disjointness over any snapshot with high20 >= low20.
	seen := map[string]bool{}
	for _, r := range b.AboveHigh {
		seen[r.Symbol] = true
	}
	for _, r := range b.BelowLow {
		if seen[r.Symbol] {
			t.Errorf("%s appears in both partitions", r.Symbol)
		}
	}
}

func TestDetectBreakoutsEmptySnapshot(t *testing.T) {
	b := DetectBreakouts(nil)
	if len(b.AboveHigh) != 0 || len(b.BelowLow) != 0 {
		t.Fatalf("expected empty partitions, got %+v", b)
	}
}

func TestDetectBreakoutsDoesNotMutateInput(t *testing.T) {
	records := []models.TickerRecord{
		breakoutRecord("UP", nd(105), 100, 80),
	}
	_ = DetectBreakouts(records)

	if !records[0].CurrentPrice.Decimal.Equal(d(105)) {
		t.Errorf("input snapshot mutated")
	}
}
