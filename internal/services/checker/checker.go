package checker

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/Houeta/price-tracker/internal/fetcher"
	"github.com/Houeta/price-tracker/internal/models"
	"github.com/Houeta/price-tracker/internal/parser"
	"github.com/shopspring/decimal"
)

// Checker is an orchestrator that turns tracked URLs into price samples.
type Checker struct {
	log       *slog.Logger
	fetcher   fetcher.PageFetcher
	extractor parser.FieldExtractor
	delay     time.Duration
	now       func() time.Time
	sleep     func(ctx context.Context, d time.Duration)
}

type Interface interface {
	// CheckAll checks every URL in order and returns one sample per URL.
	CheckAll(ctx context.Context, urls []string) []models.PriceSample
	// CheckOne checks a single URL.
	CheckOne(ctx context.Context, url string) models.PriceSample
}

// NewChecker creates a new Checker that waits delay between consecutive fetches.
func NewChecker(
	log *slog.Logger,
	pageFetcher fetcher.PageFetcher,
	extractor parser.FieldExtractor,
	delay time.Duration,
) *Checker {
	return &Checker{
		log:       log,
		fetcher:   pageFetcher,
		extractor: extractor,
		delay:     delay,
		now:       time.Now,
		sleep:     sleepContext,
	}
}

// CheckAll checks the URLs sequentially. A failing URL is reported in its own
// sample and never stops the batch.
func (c *Checker) CheckAll(ctx context.Context, urls []string) []models.PriceSample {
	const opn = "checker.CheckAll"
	log := c.log.With("op", opn)

	log.InfoContext(ctx, "Checking tracked products", "count", len(urls))

	samples := make([]models.PriceSample, 0, len(urls))
	okCount := 0
	for i, url := range urls {
		if i > 0 && c.delay > 0 {
			c.sleep(ctx, c.delay)
		}

		sample := c.CheckOne(ctx, url)
		if sample.OK() {
			okCount++
		}
		samples = append(samples, sample)
	}

	log.InfoContext(ctx, "Price check complete", "checked", len(samples), "ok", okCount,
		"failed", len(samples)-okCount)

	return samples
}

// CheckOne fetches and parses one product page.
func (c *Checker) CheckOne(ctx context.Context, url string) models.PriceSample {
	const opn = "checker.CheckOne"
	log := c.log.With("op", opn, "url", url)

	sample := models.PriceSample{URL: url}

	// 1. Retrieving the product page
	page, err := c.fetcher.Fetch(ctx, url)
	sample.FetchedAt = c.now()
	if err != nil {
		sample.Status = statusForFetchError(err)
		sample.Reason = err.Error()
		log.WarnContext(ctx, "Failed to fetch product page", "status", sample.Status, "error", err)
		return sample
	}

	// 2. Extracting title and price
	fields, err := c.extractor.Extract(ctx, page)
	if err != nil {
		sample.Status = models.StatusParseFailed
		sample.Reason = err.Error()
		log.WarnContext(ctx, "Failed to extract product fields", "error", err)
		return sample
	}

	// 3. Assembling the sample
	sample.Title = fields.Title
	sample.Price = decimal.NewNullDecimal(fields.Price)
	sample.Currency = fields.Currency
	sample.Status = models.StatusOK

	log.InfoContext(ctx, "Product checked", "title", sample.Title, "price", fields.Price.StringFixed(2))

	return sample
}

func statusForFetchError(err error) models.Status {
	var httpErr *fetcher.HTTPError
	if errors.As(err, &httpErr) {
		if httpErr.StatusCode == http.StatusNotFound || httpErr.StatusCode == http.StatusGone {
			return models.StatusNotFound
		}
		return models.StatusHTTPError
	}

	return models.StatusNetworkError
}

// sleepContext waits for d or until ctx is done.
func sleepContext(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
