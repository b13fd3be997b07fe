package scanner

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mzkii/MomentumGo/internal/config"
	"github.com/mzkii/MomentumGo/internal/models"
	"github.com/mzkii/MomentumGo/internal/snapshot"
)

// ErrRefreshInFlight is returned when a refresh is requested while another one
// is still running. Refreshes are non-reentrant; concurrent full refreshes
// would race on the store.
var ErrRefreshInFlight = errors.New("a refresh operation is already in flight")

// DirectoryProvider yields ranked (symbol, name, price) listings.
type DirectoryProvider interface {
	Fetch(ctx context.Context, maxCount int) ([]models.Listing, error)
}

// MarketDataProvider yields ascending daily OHLC bars for a symbol.
type MarketDataProvider interface {
	DailyBars(ctx context.Context, symbol string, lookbackDays int) ([]models.Bar, error)
}

// Result summarizes a refresh: a shrinking Succeeded count is how partial
// degradation stays observable.
type Result struct {
	Requested int
	Succeeded int
	Skipped   int
}

// Extremes holds the disjoint outcome of a new-extreme check.
type Extremes struct {
	NewHighs []models.ExtremeHit
	NewLows  []models.ExtremeHit
}

// Scanner composes the two providers and the snapshot store into the three
// refresh operations.
type Scanner struct {
	cfg    *config.Config
	log    *zap.Logger
	dir    DirectoryProvider
	market MarketDataProvider
	store  *snapshot.Store

	refreshMu sync.Mutex
	now       func() time.Time
}

func New(cfg *config.Config, log *zap.Logger, dir DirectoryProvider, market MarketDataProvider, store *snapshot.Store) *Scanner {
	return &Scanner{
		cfg:    cfg,
		log:    log,
		dir:    dir,
		market: market,
		store:  store,
		now:    time.Now,
	}
}

// Store exposes the underlying snapshot store for read-only consumers.
func (s *Scanner) Store() *snapshot.Store {
	return s.store
}

type barsResult struct {
	bars []models.Bar
	err  error
}

// fetchBars runs per-symbol market-data fetches through a bounded worker pool.
// Results are index-aligned with symbols; a failed symbol carries its error
// and never cancels its siblings.
func (s *Scanner) fetchBars(ctx context.Context, symbols []string, lookbackDays int) []barsResult {
	results := make([]barsResult, len(symbols))
	sem := make(chan struct{}, s.cfg.WorkerPoolSize)

	var wg sync.WaitGroup
	for i, symbol := range symbols {
		wg.Add(1)
		go func(i int, symbol string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			fetchCtx, cancel := context.WithTimeout(ctx, s.cfg.FetchTimeout)
			defer cancel()

			bars, err := s.market.DailyBars(fetchCtx, symbol, lookbackDays)
			results[i] = barsResult{bars: bars, err: err}
		}(i, symbol)
	}
	wg.Wait()

	return results
}

// FullRefresh rebuilds the entire snapshot: directory fetch, per-symbol
// 20-trading-day bar fetch, extrema computation, then one atomic swap.
// Symbols that fail or come back empty are omitted, never fatal.
func (s *Scanner) FullRefresh(ctx context.Context) (Result, error) {
	if !s.refreshMu.TryLock() {
		return Result{}, ErrRefreshInFlight
	}
	defer s.refreshMu.Unlock()

	fetched, err := s.dir.Fetch(ctx, s.cfg.MaxTickers)
	if err != nil {
		return Result{}, err
	}

	// A rank shift across the page boundary between page fetches can surface
	// the same symbol on both pages; snapshot keys must stay unique.
	listings, duplicates := dedupeListings(fetched)
	if duplicates > 0 {
		s.log.Warn("dropped duplicate directory rows", zap.Int("count", duplicates))
	}

	symbols := make([]string, len(listings))
	for i, l := range listings {
		symbols[i] = l.Symbol
	}
	barsBySymbol := s.fetchBars(ctx, symbols, s.cfg.LookbackDays)

	records := make([]models.TickerRecord, 0, len(listings))
	var latestDataDate time.Time
	skipped := duplicates

	for i, listing := range listings {
		res := barsBySymbol[i]
		if res.err != nil {
			s.log.Warn("skipping symbol: fetch failed",
				zap.String("symbol", listing.Symbol), zap.Error(res.err))
			skipped++
			continue
		}

		window := s.trimWindow(res.bars)
		if len(window) == 0 {
			s.log.Warn("skipping symbol: empty bar series",
				zap.String("symbol", listing.Symbol))
			skipped++
			continue
		}

		high, low := windowExtrema(window)
		lastBar := window[len(window)-1]

		price := listing.Price
		if s.cfg.PriceSource == config.PriceSourceLastClose {
			price = decimal.NullDecimal{Decimal: lastBar.Close, Valid: true}
		}

		records = append(records, models.TickerRecord{
			Symbol:       listing.Symbol,
			Name:         listing.Name,
			CurrentPrice: price,
			High20:       high,
			Low20:        low,
			LastBarDate:  lastBar.Date,
		})

		if lastBar.Date.After(latestDataDate) {
			latestDataDate = lastBar.Date
		}
	}

	s.store.Replace(records, latestDataDate)

	result := Result{Requested: len(fetched), Succeeded: len(records), Skipped: skipped}
	s.log.Info("full refresh complete",
		zap.Int("requested", result.Requested),
		zap.Int("succeeded", result.Succeeded),
		zap.Int("skipped", result.Skipped))
	return result, nil
}

// QuickRefresh re-fetches only the directory prices and merges them into the
// snapshot by symbol key. Merging by key, not list position, keeps records
// correct when the directory ranking shifts between calls.
func (s *Scanner) QuickRefresh(ctx context.Context) (Result, error) {
	if !s.refreshMu.TryLock() {
		return Result{}, ErrRefreshInFlight
	}
	defer s.refreshMu.Unlock()

	if s.store.Len() == 0 {
		return Result{}, snapshot.ErrNotInitialized
	}

	listings, err := s.dir.Fetch(ctx, s.cfg.MaxTickers)
	if err != nil {
		return Result{}, err
	}

	prices := make(map[string]decimal.NullDecimal, len(listings))
	for _, l := range listings {
		// First occurrence wins, matching discovery-order semantics.
		if _, ok := prices[l.Symbol]; !ok {
			prices[l.Symbol] = l.Price
		}
	}

	updated, err := s.store.UpdatePrices(prices)
	if err != nil {
		return Result{}, err
	}

	result := Result{Requested: s.store.Len(), Succeeded: updated}
	s.log.Info("quick price refresh complete",
		zap.Int("tracked", result.Requested),
		zap.Int("updated", result.Succeeded))
	return result, nil
}

// dedupeListings keeps the first, discovery-order occurrence of each symbol
// and reports how many later duplicates were dropped.
func dedupeListings(listings []models.Listing) ([]models.Listing, int) {
	seen := make(map[string]struct{}, len(listings))
	unique := make([]models.Listing, 0, len(listings))
	for _, l := range listings {
		if _, ok := seen[l.Symbol]; ok {
			continue
		}
		seen[l.Symbol] = struct{}{}
		unique = append(unique, l)
	}
	return unique, len(listings) - len(unique)
}

// CheckNewExtremes fetches a short bar window for every tracked symbol and
// compares today's high/low against the stored 20-day baseline. The baseline
// is deliberately not rolled forward intra-day; breakouts are measured against
// the last full refresh. The store is never written.
func (s *Scanner) CheckNewExtremes(ctx context.Context) (Extremes, error) {
	if !s.refreshMu.TryLock() {
		return Extremes{}, ErrRefreshInFlight
	}
	defer s.refreshMu.Unlock()

	records := s.store.Read()
	if len(records) == 0 {
		return Extremes{}, snapshot.ErrNotInitialized
	}

	symbols := make([]string, len(records))
	for i, r := range records {
		symbols[i] = r.Symbol
	}
	barsBySymbol := s.fetchBars(ctx, symbols, s.cfg.ExtremeDays)

	var extremes Extremes
	for i, record := range records {
		res := barsBySymbol[i]
		if res.err != nil {
			s.log.Warn("skipping symbol in extreme check",
				zap.String("symbol", record.Symbol), zap.Error(res.err))
			continue
		}
		if len(res.bars) == 0 {
			continue
		}

		today := res.bars[len(res.bars)-1]
		if today.High.GreaterThan(record.High20) {
			extremes.NewHighs = append(extremes.NewHighs, models.ExtremeHit{
				Symbol:   record.Symbol,
				Name:     record.Name,
				Today:    today.High,
				Baseline: record.High20,
			})
		}
		if today.Low.LessThan(record.Low20) {
			extremes.NewLows = append(extremes.NewLows, models.ExtremeHit{
				Symbol:   record.Symbol,
				Name:     record.Name,
				Today:    today.Low,
				Baseline: record.Low20,
			})
		}
	}

	s.log.Info("new-extreme check complete",
		zap.Int("tracked", len(records)),
		zap.Int("new_highs", len(extremes.NewHighs)),
		zap.Int("new_lows", len(extremes.NewLows)))
	return extremes, nil
}

// trimWindow drops today's in-progress bar when configured to, so a partially
// formed trading day cannot contaminate the extrema window.
func (s *Scanner) trimWindow(bars []models.Bar) []models.Bar {
	if !s.cfg.ExcludeToday || len(bars) == 0 {
		return bars
	}
	last := bars[len(bars)-1].Date
	if sameDay(last, s.now()) {
		return bars[:len(bars)-1]
	}
	return bars
}

// windowExtrema computes max(High) and min(Low) over a non-empty window.
func windowExtrema(bars []models.Bar) (high, low decimal.Decimal) {
	high, low = bars[0].High, bars[0].Low
	for _, b := range bars[1:] {
		if b.High.GreaterThan(high) {
			high = b.High
		}
		if b.Low.LessThan(low) {
			low = b.Low
		}
	}
	return high, low
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
