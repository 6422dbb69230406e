package tracker

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"sync"

	"github.com/Houeta/price-tracker/internal/models"
	"github.com/Houeta/price-tracker/internal/repository/sqlite"
	"github.com/Houeta/price-tracker/internal/services/checker"
	"github.com/Houeta/price-tracker/internal/services/notifier"
)

// ResultsLog records every checked sample.
type ResultsLog interface {
	Append(samples []models.PriceSample) error
}

// Report summarizes one cycle.
type Report struct {
	Samples   []models.PriceSample
	Outcome   notifier.Outcome
	NotifyErr error
}

// Tracker runs check cycles and remembers the last good sample of every product.
type Tracker struct {
	log      *slog.Logger
	checker  checker.Interface
	notifier notifier.Interface
	repo     sqlite.SampleRepository
	results  ResultsLog

	mu       sync.RWMutex
	previous map[string]models.PriceSample
}

// NewTracker creates a Tracker. repo and results may be nil.
func NewTracker(
	log *slog.Logger,
	chk checker.Interface,
	ntf notifier.Interface,
	repo sqlite.SampleRepository,
	results ResultsLog,
) *Tracker {
	return &Tracker{
		log:      log,
		checker:  chk,
		notifier: ntf,
		repo:     repo,
		results:  results,
		previous: make(map[string]models.PriceSample),
	}
}

// Restore seeds the last known prices from the repository.
func (t *Tracker) Restore(ctx context.Context) error {
	const opn = "tracker.Restore"

	if t.repo == nil {
		return nil
	}

	samples, err := t.repo.GetLastSamples(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", opn, err)
	}

	t.mu.Lock()
	maps.Copy(t.previous, samples)
	t.mu.Unlock()

	t.log.InfoContext(ctx, "Restored last known prices", "op", opn, "count", len(samples))

	return nil
}

// RunCycle checks urls, alerts on drops against the previous good samples and
// remembers the new good ones. Persistence failures are logged only.
func (t *Tracker) RunCycle(ctx context.Context, urls []string, cfg models.AlertConfig) Report {
	const opn = "tracker.RunCycle"
	log := t.log.With("op", opn)

	if len(urls) == 0 {
		log.InfoContext(ctx, "No products to check")
		return Report{Outcome: notifier.OutcomeSkipped}
	}

	samples := t.checker.CheckAll(ctx, urls)

	t.mu.RLock()
	previous := maps.Clone(t.previous)
	t.mu.RUnlock()

	outcome, err := t.notifier.Notify(ctx, samples, previous, cfg)
	if err != nil {
		log.ErrorContext(ctx, "Failed to notify about price drops", "error", err)
	}

	good := make([]models.PriceSample, 0, len(samples))
	for _, sample := range samples {
		if sample.OK() {
			good = append(good, sample)
		}
	}

	t.mu.Lock()
	for _, sample := range good {
		t.previous[sample.URL] = sample
	}
	t.mu.Unlock()

	if t.repo != nil && len(good) > 0 {
		if repoErr := t.repo.SaveSamples(ctx, good); repoErr != nil {
			log.ErrorContext(ctx, "Failed to save last known prices", "error", repoErr)
		}
	}

	if t.results != nil {
		if resErr := t.results.Append(samples); resErr != nil {
			log.ErrorContext(ctx, "Failed to append results", "error", resErr)
		}
	}

	return Report{Samples: samples, Outcome: outcome, NotifyErr: err}
}

// Previous returns the last good sample of url.
func (t *Tracker) Previous(url string) (models.PriceSample, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	sample, ok := t.previous[url]
	return sample, ok
}

// Forget drops everything known about url.
func (t *Tracker) Forget(ctx context.Context, url string) {
	const opn = "tracker.Forget"

	t.mu.Lock()
	delete(t.previous, url)
	t.mu.Unlock()

	if t.repo == nil {
		return
	}

	if err := t.repo.DeleteSample(ctx, url); err != nil {
		t.log.ErrorContext(ctx, "Failed to forget last known price", "op", opn, "url", url, "error", err)
	}
}
