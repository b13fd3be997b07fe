package scanner

import (
	"github.com/mzkii/MomentumGo/internal/models"
)

// Breakouts partitions a snapshot into records trading strictly above their
// 20-day high and strictly below their 20-day low. Records with a null price
// land in neither list, snapshot order is preserved, and the two partitions
// are disjoint as long as High20 >= Low20.
type Breakouts struct {
	AboveHigh []models.TickerRecord
	BelowLow  []models.TickerRecord
}

// DetectBreakouts is a pure function of the given snapshot.
func DetectBreakouts(records []models.TickerRecord) Breakouts {
	var b Breakouts
	for _, r := range records {
		if !r.CurrentPrice.Valid {
			continue
		}
		price := r.CurrentPrice.Decimal
		switch {
		case price.GreaterThan(r.High20):
			b.AboveHigh = append(b.AboveHigh, r)
		case price.LessThan(r.Low20):
			b.BelowLow = append(b.BelowLow, r)
		}
	}
	return b
}
