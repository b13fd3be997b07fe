package dataflows

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/mzkii/MomentumGo/internal/config"
	"github.com/mzkii/MomentumGo/internal/models"
)

// DirectoryClient scrapes the ranked large-cap listing pages. Every call goes
// back to the source; the client keeps no local cache, so repeated fetches are
// safe and always current.
type DirectoryClient struct {
	client  *resty.Client
	baseURL string
	pages   int
	retry   *RetryConfig
	log     *zap.Logger
}

// NewDirectoryClient creates a new directory client
func NewDirectoryClient(cfg *config.Config, log *zap.Logger) *DirectoryClient {
	client := resty.New()
	client.SetTimeout(cfg.FetchTimeout)
	client.SetHeader("User-Agent", cfg.UserAgent)

	return &DirectoryClient{
		client:  client,
		baseURL: cfg.DirectoryBaseURL,
		pages:   cfg.DirectoryPages,
		retry: &RetryConfig{
			MaxRetries: cfg.RetryMax,
			BaseDelay:  cfg.RetryBaseDelay,
			MaxDelay:   30 * cfg.RetryBaseDelay,
			Multiplier: 2.0,
		},
		log: log,
	}
}

// Fetch returns up to maxCount listings across the configured pages, in source
// ranking order. maxCount <= 0 means no cap.
func (dc *DirectoryClient) Fetch(ctx context.Context, maxCount int) ([]models.Listing, error) {
	var listings []models.Listing

	for page := 1; page <= dc.pages; page++ {
		if maxCount > 0 && len(listings) >= maxCount {
			break
		}

		pageURL := dc.pageURL(page)

		var doc *goquery.Document
		err := WithRetry(ctx, dc.retry, func() error {
			resp, err := dc.client.R().SetContext(ctx).Get(pageURL)
			if err != nil {
				return fmt.Errorf("failed to fetch directory page %d: %w", page, err)
			}

			if resp.StatusCode() != 200 {
				return fmt.Errorf("HTTP error %d when fetching directory page %d", resp.StatusCode(), page)
			}

			doc, err = goquery.NewDocumentFromReader(strings.NewReader(resp.String()))
			if err != nil {
				return fmt.Errorf("failed to parse HTML: %w", err)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}

		listings = append(listings, dc.parseListingPage(doc)...)
	}

	if maxCount > 0 && len(listings) > maxCount {
		listings = listings[:maxCount]
	}

	return listings, nil
}

// pageURL builds the URL for a listing page; page 1 is the bare base URL.
func (dc *DirectoryClient) pageURL(page int) string {
	if page == 1 {
		return dc.baseURL
	}
	return fmt.Sprintf("%s?page=%d", dc.baseURL, page)
}

// parseListingPage extracts listing rows from one directory page. Rows without
// a name or symbol marker, or with fewer than five cells, are skipped.
func (dc *DirectoryClient) parseListingPage(doc *goquery.Document) []models.Listing {
	var listings []models.Listing

	doc.Find("table tbody tr").Each(func(i int, row *goquery.Selection) {
		name := strings.TrimSpace(row.Find("div.company-name").Text())
		symbol := strings.TrimSpace(row.Find("div.company-code").Text())
		cols := row.Find("td")

		if name == "" || symbol == "" || cols.Length() < 5 {
			return
		}

		price := ParsePrice(cols.Eq(4).Text())
		if !price.Valid {
			dc.log.Warn("unparseable price cell, keeping listing with null price",
				zap.String("symbol", symbol))
		}

		listings = append(listings, models.Listing{
			Symbol: symbol,
			Name:   name,
			Price:  price,
		})
	})

	return listings
}
