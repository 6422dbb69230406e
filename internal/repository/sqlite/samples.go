package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/Houeta/price-tracker/internal/models"
	"github.com/shopspring/decimal"
)

// GetLastSamples loads the last known good sample of every product.
func (r *Repository) GetLastSamples(ctx context.Context) (map[string]models.PriceSample, error) {
	const opn = "repository.sqlite.GetLastSamples"

	rows, err := r.db.QueryContext(ctx, "SELECT url, title, price, currency, fetched_at FROM last_samples")
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get samples: %w", opn, err)
	}
	defer rows.Close()

	samples := make(map[string]models.PriceSample)
	for rows.Next() {
		var (
			sample    models.PriceSample
			price     string
			fetchedAt string
		)
		if err = rows.Scan(&sample.URL, &sample.Title, &price, &sample.Currency, &fetchedAt); err != nil {
			return nil, fmt.Errorf("%s: failed to scan sample: %w", opn, err)
		}

		amount, err := decimal.NewFromString(price)
		if err != nil {
			return nil, fmt.Errorf("%s: invalid price %q for %s: %w", opn, price, sample.URL, err)
		}
		if sample.FetchedAt, err = time.Parse(time.RFC3339Nano, fetchedAt); err != nil {
			return nil, fmt.Errorf("%s: invalid fetched_at %q for %s: %w", opn, fetchedAt, sample.URL, err)
		}

		sample.Price = decimal.NewNullDecimal(amount)
		sample.Status = models.StatusOK
		samples[sample.URL] = sample
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows iteration error: %w", opn, err)
	}

	return samples, nil
}

// SaveSamples atomically upserts the ok samples using a transaction. Failed samples are ignored.
func (r *Repository) SaveSamples(ctx context.Context, samples []models.PriceSample) error {
	const opn = "repository.sqlite.SaveSamples"

	// 1. begin transaction
	tx, err := r.db.BeginTx(ctx, nil) //nolint:varnamelen // tx its a default naming for transaction
	if err != nil {
		return fmt.Errorf("%s: failed to begin transaction: %w", opn, err)
	}
	defer tx.Rollback() //nolint:errcheck // a committed transaction makes Rollback return sql.ErrTxDone

	// 2. Preparing a request for the effective upsert of samples.
	stmt, err := tx.PrepareContext(
		ctx,
		"INSERT OR REPLACE INTO last_samples (url, title, price, currency, fetched_at) VALUES (?, ?, ?, ?, ?)",
	)
	if err != nil {
		return fmt.Errorf("%s: failed to prepare upsert statement: %w", opn, err)
	}
	defer stmt.Close()

	// 3. Upsert each good sample.
	saved := 0
	for _, s := range samples {
		if !s.OK() {
			continue
		}
		_, err = stmt.ExecContext(ctx, s.URL, s.Title, s.Price.Decimal.String(), s.Currency,
			s.FetchedAt.UTC().Format(time.RFC3339Nano))
		if err != nil {
			return fmt.Errorf("%s: failed to save sample for %s: %w", opn, s.URL, err)
		}
		saved++
	}

	// 4. If all operations went through without errors - confirm the transaction.
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%s: failed to commit transaction: %w", opn, err)
	}

	r.log.DebugContext(ctx, "Saved last samples", "op", opn, "count", saved)

	return nil
}

// DeleteSample removes the stored sample of url.
func (r *Repository) DeleteSample(ctx context.Context, url string) error {
	const opn = "repository.sqlite.DeleteSample"
	_, err := r.db.ExecContext(ctx, "DELETE FROM last_samples WHERE url = ?", url)
	if err != nil {
		return fmt.Errorf("%s: %w", opn, err)
	}

	return nil
}
