package store

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/Houeta/price-tracker/internal/models"
	"github.com/spf13/afero"
)

// Store is the ordered list of tracked product URLs backed by a flat text file,
// one URL per line. Every mutation is persisted before it returns.
type Store struct {
	log  *slog.Logger
	fs   afero.Fs
	path string

	mu       sync.RWMutex
	products []models.TrackedProduct
	now      func() time.Time
}

// NewStore creates an empty store bound to path on fsys.
func NewStore(log *slog.Logger, fsys afero.Fs, path string) *Store {
	return &Store{log: log, fs: fsys, path: path, now: time.Now}
}

// Load replaces the in-memory list with the content of the backing file.
// A missing file is an empty store.
func (s *Store) Load() ([]string, error) {
	const opn = "store.Load"

	data, err := afero.ReadFile(s.fs, s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.mu.Lock()
		s.products = nil
		s.mu.Unlock()
		s.log.Info("Tracked products file not found, starting empty", "op", opn, "path", s.path)
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read %s: %w", opn, s.path, err)
	}

	addedAt := s.now()
	if info, statErr := s.fs.Stat(s.path); statErr == nil {
		addedAt = info.ModTime()
	}

	var products []models.TrackedProduct
	seen := make(map[string]struct{})

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for lineNo := 1; scanner.Scan(); lineNo++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		asin, err := ParseProductURL(line)
		if err != nil {
			return nil, fmt.Errorf("%s: %s line %d: %w", opn, s.path, lineNo, err)
		}

		if _, dup := seen[line]; dup {
			s.log.Warn("Skipping duplicate URL", "op", opn, "line", lineNo, "url", line)
			continue
		}
		seen[line] = struct{}{}

		products = append(products, models.TrackedProduct{URL: line, ASIN: asin, AddedAt: addedAt})
	}

	if err = scanner.Err(); err != nil {
		return nil, fmt.Errorf("%s: failed to scan %s: %w", opn, s.path, err)
	}

	s.mu.Lock()
	s.products = products
	s.mu.Unlock()

	s.log.Info("Loaded tracked products", "op", opn, "count", len(products))

	return urlsOf(products), nil
}

// Add appends rawURL to the list and persists it.
func (s *Store) Add(rawURL string) (models.TrackedProduct, error) {
	const opn = "store.Add"

	rawURL = strings.TrimSpace(rawURL)

	asin, err := ParseProductURL(rawURL)
	if err != nil {
		return models.TrackedProduct{}, fmt.Errorf("%s: %w", opn, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(rawURL) >= 0 {
		return models.TrackedProduct{}, fmt.Errorf("%s: %w: %s", opn, models.ErrDuplicateURL, rawURL)
	}

	product := models.TrackedProduct{URL: rawURL, ASIN: asin, AddedAt: s.now()}
	previous := s.products
	s.products = append(append([]models.TrackedProduct(nil), previous...), product)

	if err = s.persistLocked(); err != nil {
		s.products = previous
		return models.TrackedProduct{}, fmt.Errorf("%s: %w", opn, err)
	}

	s.log.Info("Product added", "op", opn, "url", rawURL, "asin", asin)

	return product, nil
}

// Remove deletes rawURL from the list and persists the change.
func (s *Store) Remove(rawURL string) error {
	const opn = "store.Remove"

	rawURL = strings.TrimSpace(rawURL)

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(rawURL)
	if idx < 0 {
		return fmt.Errorf("%s: %w: %s", opn, models.ErrNotFound, rawURL)
	}

	previous := s.products
	remaining := make([]models.TrackedProduct, 0, len(previous)-1)
	remaining = append(remaining, previous[:idx]...)
	s.products = append(remaining, previous[idx+1:]...)

	if err := s.persistLocked(); err != nil {
		s.products = previous
		return fmt.Errorf("%s: %w", opn, err)
	}

	s.log.Info("Product removed", "op", opn, "url", rawURL)

	return nil
}

// List returns the tracked products in insertion order.
func (s *Store) List() []models.TrackedProduct {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]models.TrackedProduct(nil), s.products...)
}

// URLs returns the tracked URLs in insertion order.
func (s *Store) URLs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return urlsOf(s.products)
}

// Len returns the number of tracked products.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.products)
}

// Persist rewrites the backing file from the in-memory list.
func (s *Store) Persist() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.persistLocked()
}

// persistLocked writes to a temporary file in the same directory and renames it over
// the backing file, so readers never observe a partially written list.
func (s *Store) persistLocked() error {
	const opn = "store.Persist"

	dir := filepath.Dir(s.path)
	if err := s.fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%s: failed to create directory %s: %w", opn, dir, err)
	}

	tmp, err := afero.TempFile(s.fs, dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%s: failed to create temp file: %w", opn, err)
	}
	tmpName := tmp.Name()

	var buf bytes.Buffer
	for _, p := range s.products {
		buf.WriteString(p.URL)
		buf.WriteByte('\n')
	}

	if _, err = tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		_ = s.fs.Remove(tmpName)
		return fmt.Errorf("%s: failed to write temp file: %w", opn, err)
	}

	if err = tmp.Sync(); err != nil {
		tmp.Close()
		_ = s.fs.Remove(tmpName)
		return fmt.Errorf("%s: failed to sync temp file: %w", opn, err)
	}

	if err = tmp.Close(); err != nil {
		_ = s.fs.Remove(tmpName)
		return fmt.Errorf("%s: failed to close temp file: %w", opn, err)
	}

	if err = s.fs.Rename(tmpName, s.path); err != nil {
		_ = s.fs.Remove(tmpName)
		return fmt.Errorf("%s: failed to replace %s: %w", opn, s.path, err)
	}

	s.log.Debug("Tracked products saved", "op", opn, "path", s.path, "count", len(s.products))

	return nil
}

func (s *Store) indexOf(rawURL string) int {
	for i, p := range s.products {
		if p.URL == rawURL {
			return i
		}
	}

	return -1
}

func urlsOf(products []models.TrackedProduct) []string {
	urls := make([]string, 0, len(products))
	for _, p := range products {
		urls = append(urls, p.URL)
	}

	return urls
}
