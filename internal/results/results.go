// Package results appends every checked sample to a CSV file a person can open in a spreadsheet.
package results

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/Houeta/price-tracker/internal/models"
	"github.com/Houeta/price-tracker/internal/store"
	"github.com/spf13/afero"
)

// Header is the first row of a new results file.
var Header = []string{"timestamp", "title", "price", "currency", "status", "reason", "url", "asin"}

// Log is an append-only CSV results file.
type Log struct {
	log  *slog.Logger
	fs   afero.Fs
	path string
	mu   sync.Mutex
}

// NewLog creates a results log at path. The file is created on the first Append.
func NewLog(log *slog.Logger, fsys afero.Fs, path string) *Log {
	return &Log{log: log, fs: fsys, path: path}
}

// Append writes one row per sample. The header is written when the file is new.
func (l *Log) Append(samples []models.PriceSample) error {
	const opn = "results.Append"

	if len(samples) == 0 {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	_, err := l.fs.Stat(l.path)
	isNew := errors.Is(err, fs.ErrNotExist)
	if err != nil && !isNew {
		return fmt.Errorf("%s: failed to stat %s: %w", opn, l.path, err)
	}

	file, err := l.fs.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("%s: failed to open %s: %w", opn, l.path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if isNew {
		if err = writer.Write(Header); err != nil {
			return fmt.Errorf("%s: failed to write header: %w", opn, err)
		}
	}

	for _, sample := range samples {
		if err = writer.Write(Row(sample)); err != nil {
			return fmt.Errorf("%s: failed to write row: %w", opn, err)
		}
	}

	writer.Flush()
	if err = writer.Error(); err != nil {
		return fmt.Errorf("%s: failed to flush %s: %w", opn, l.path, err)
	}

	l.log.Debug("Results appended", "op", opn, "rows", len(samples), "path", l.path)

	return nil
}

// Row renders a sample in Header order.
func Row(sample models.PriceSample) []string {
	price := ""
	if sample.OK() {
		price = sample.Price.Decimal.StringFixed(2)
	}

	asin, err := store.ParseProductURL(sample.URL)
	if err != nil {
		asin = ""
	}

	return []string{
		sample.FetchedAt.Format(time.DateTime),
		sample.Title,
		price,
		sample.Currency,
		string(sample.Status),
		sample.Reason,
		sample.URL,
		asin,
	}
}
