package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Listing represents one row of the ticker directory, in source ranking order.
// Price is null when the directory quotes no parseable price for the row.
type Listing struct {
	Symbol string              `json:"symbol"`
	Name   string              `json:"name"`
	Price  decimal.NullDecimal `json:"price"`
}

// Bar represents a single daily OHLC bar.
type Bar struct {
	Date  time.Time       `json:"date"`
	High  decimal.Decimal `json:"high"`
	Low   decimal.Decimal `json:"low"`
	Close decimal.Decimal `json:"close"`
}

// TickerRecord is the tracked state for one symbol: the quoted price from the
// directory and the trailing 20-trading-day extrema from the last full refresh.
// High20 >= Low20 holds for any record built from a non-empty bar series.
type TickerRecord struct {
	Symbol       string              `json:"symbol"`
	Name         string              `json:"name"`
	CurrentPrice decimal.NullDecimal `json:"current_price"`
	High20       decimal.Decimal     `json:"high_20"`
	Low20        decimal.Decimal     `json:"low_20"`
	LastBarDate  time.Time           `json:"last_bar_date"`
}

// ExtremeHit is one new-extreme result row: today's intraday high (or low)
// against the stored 20-day baseline.
type ExtremeHit struct {
	Symbol   string          `json:"symbol"`
	Name     string          `json:"name"`
	Today    decimal.Decimal `json:"today"`
	Baseline decimal.Decimal `json:"baseline"`
}
