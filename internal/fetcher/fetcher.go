package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/Houeta/price-tracker/internal/models"
)

// DefaultUserAgent mimics a desktop browser; Amazon rejects bare clients.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
	"(KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36"

// maxBodySize caps how much of a product page is read into memory.
const maxBodySize = 8 << 20

// PageFetcher downloads a single product page.
type PageFetcher interface {
	Fetch(ctx context.Context, rawURL string) (*RawPage, error)
}

// RawPage is the undecoded markup of a product page.
type RawPage struct {
	URL        string
	StatusCode int
	Body       string
}

// HTTPError is returned for non-2xx responses. It matches models.ErrHTTP.
type HTTPError struct {
	StatusCode int
	Status     string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("status code error: [%d] %s", e.StatusCode, e.Status)
}

func (e *HTTPError) Is(target error) bool {
	return target == models.ErrHTTP
}

// Fetcher issues one GET per call. It never retries.
type Fetcher struct {
	log       *slog.Logger
	client    *http.Client
	userAgent string
}

// NewFetcher creates a Fetcher whose requests give up after timeout.
func NewFetcher(log *slog.Logger, timeout time.Duration, userAgent string) *Fetcher {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	return &Fetcher{
		log:       log,
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
	}
}

// Fetch downloads rawURL and returns its body.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*RawPage, error) {
	const opn = "fetcher.Fetch"

	reqURL, err := url.Parse(rawURL)
	if err != nil || (reqURL.Scheme != "http" && reqURL.Scheme != "https") || reqURL.Host == "" {
		return nil, fmt.Errorf("%s: %w: %q", opn, models.ErrInvalidURL, rawURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create new request %s: %w", opn, reqURL.String(), err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	f.log.DebugContext(ctx, "Send request", "op", opn, "method", req.Method, "URL", req.URL)

	res, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to request %s: %w", opn, rawURL, errors.Join(models.ErrNetwork, err))
	}
	defer res.Body.Close()

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("%s: %w", opn, &HTTPError{StatusCode: res.StatusCode, Status: res.Status})
	}

	body, err := io.ReadAll(io.LimitReader(res.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read response body: %w", opn, errors.Join(models.ErrNetwork, err))
	}

	f.log.InfoContext(ctx, "Successfully received http response", "op", opn, "status code", res.StatusCode,
		"bytes", len(body))

	return &RawPage{URL: rawURL, StatusCode: res.StatusCode, Body: string(body)}, nil
}
