package dataflows

import (
	"context"
	"fmt"
	"time"

	finance "github.com/piquette/finance-go"
	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	"go.uber.org/zap"

	"github.com/mzkii/MomentumGo/internal/config"
	"github.com/mzkii/MomentumGo/internal/models"
)

// YahooClient fetches daily OHLC bars from the Yahoo Finance chart API.
type YahooClient struct {
	retry *RetryConfig
	log   *zap.Logger
}

// NewYahooClient creates a new market-data client
func NewYahooClient(cfg *config.Config, log *zap.Logger) *YahooClient {
	return &YahooClient{
		retry: &RetryConfig{
			MaxRetries: cfg.RetryMax,
			BaseDelay:  cfg.RetryBaseDelay,
			MaxDelay:   30 * cfg.RetryBaseDelay,
			Multiplier: 2.0,
		},
		log: log,
	}
}

// DailyBars returns up to lookbackDays of the most recent daily bars for the
// symbol, ascending by date. Unknown or delisted symbols yield an empty slice
// rather than an error. The symbol is normalized to the vendor's class-share
// convention before lookup.
func (yc *YahooClient) DailyBars(ctx context.Context, symbol string, lookbackDays int) ([]models.Bar, error) {
	if err := ValidateSymbol(symbol); err != nil {
		return nil, err
	}
	vendorSymbol := NormalizeSymbol(symbol)

	// Calendar buffer so weekends and holidays still leave enough trading days.
	end := time.Now()
	start := end.AddDate(0, 0, -(lookbackDays*2 + 10))

	var bars []models.Bar
	err := WithRetry(ctx, yc.retry, func() error {
		params := &chart.Params{
			Symbol:   vendorSymbol,
			Start:    datetime.New(&start),
			End:      datetime.New(&end),
			Interval: datetime.OneDay,
		}
		params.Context = &ctx

		fetched, err := yc.collectBars(chart.Get(params))
		if err != nil {
			return fmt.Errorf("failed to fetch bars for %s: %w", vendorSymbol, err)
		}
		bars = fetched
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(bars) > lookbackDays {
		bars = bars[len(bars)-lookbackDays:]
	}

	if len(bars) == 0 {
		yc.log.Debug("empty bar series", zap.String("symbol", vendorSymbol))
	}

	return bars, nil
}

// collectBars drains a chart iterator into our bar model.
func (yc *YahooClient) collectBars(iter *chart.Iter) ([]models.Bar, error) {
	var bars []models.Bar
	for iter.Next() {
		b := iter.Bar()
		bars = append(bars, models.Bar{
			Date:  time.Unix(int64(b.Timestamp), 0).UTC(),
			High:  b.High,
			Low:   b.Low,
			Close: b.Close,
		})
	}
	if err := iter.Err(); err != nil {
		// Yahoo reports unknown symbols as a not-found error; callers expect
		// an empty series in that case.
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return bars, nil
}

// isNotFound reports whether the chart API rejected the symbol itself.
func isNotFound(err error) bool {
	if yErr, ok := err.(*finance.YfinError); ok {
		return yErr.Code == "Not Found"
	}
	return false
}
