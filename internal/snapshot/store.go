package snapshot

import (
	"errors"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mzkii/MomentumGo/internal/models"
)

// ErrNotInitialized is returned by operations that require a prior full
// refresh when the snapshot is still empty.
var ErrNotInitialized = errors.New("snapshot not initialized: run a full refresh first")

// Clock carries the refresh timestamps shown alongside the snapshot. Zero
// times mean the corresponding refresh has never run.
type Clock struct {
	LastFullRefresh  time.Time
	LastQuickRefresh time.Time
	LatestDataDate   time.Time
}

// Store owns the in-memory snapshot of tracked records and the refresh clock.
// Records keep the discovery order of the last full refresh and are unique by
// symbol. All mutation goes through Replace and UpdatePrices; there is no
// persisted backing, state lives for the process lifetime only.
type Store struct {
	mu      sync.RWMutex
	records []models.TickerRecord
	clock   Clock
	now     func() time.Time
}

func NewStore() *Store {
	return &Store{now: time.Now}
}

// Replace swaps in a fully built record set atomically and stamps the full
// refresh time. It is the only operation that may change High20/Low20.
func (s *Store) Replace(records []models.TickerRecord, latestDataDate time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = make([]models.TickerRecord, len(records))
	copy(s.records, records)
	s.clock.LastFullRefresh = s.now()
	s.clock.LatestDataDate = latestDataDate
}

// UpdatePrices merges new current prices by symbol key and returns how many
// tracked records were actually updated. Records whose symbol is absent from
// the mapping keep their prior price; extrema are never touched. Fails with
// ErrNotInitialized when no full refresh has happened.
func (s *Store) UpdatePrices(priceBySymbol map[string]decimal.NullDecimal) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.records) == 0 {
		return 0, ErrNotInitialized
	}

	updated := 0
	for i := range s.records {
		if price, ok := priceBySymbol[s.records[i].Symbol]; ok {
			s.records[i].CurrentPrice = price
			updated++
		}
	}
	s.clock.LastQuickRefresh = s.now()

	return updated, nil
}

// Read returns a copy of the current snapshot in stable order.
func (s *Store) Read() []models.TickerRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.TickerRecord, len(s.records))
	copy(out, s.records)
	return out
}

// ReadClock returns the current refresh timestamps.
func (s *Store) ReadClock() Clock {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.clock
}

// Len returns the number of tracked records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
