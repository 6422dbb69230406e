package fetcher

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/Houeta/price-tracker/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockRoundTripper — its a mock for http.RoundTripper.
type mockRoundTripper struct {
	response *http.Response
	err      error
	request  *http.Request
}

func (m *mockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	m.request = req
	return m.response, m.err
}

type errReader int

func (errReader) Read(_ []byte) (int, error) {
	return 0, errors.New("test error: forced read failure")
}

func TestFetch(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := t.Context()

	testCases := []struct {
		name         string
		mockResponse *http.Response
		mockError    error
		url          string
		expectedErr  error
		errContains  string
		expectedBody string
	}{
		{
			name: "Successful request (200 OK)",
			mockResponse: &http.Response{
				StatusCode: http.StatusOK,
				Body:       io.NopCloser(strings.NewReader("<html>OK</html>")),
			},
			url:          "https://www.amazon.com/dp/B000000001",
			expectedBody: "<html>OK</html>",
		},
		{
			name: "Rate limited (503)",
			mockResponse: &http.Response{
				StatusCode: http.StatusServiceUnavailable,
				Status:     "503 Service Unavailable",
				Body:       io.NopCloser(strings.NewReader("")),
			},
			url:         "https://www.amazon.com/dp/B000000001",
			expectedErr: models.ErrHTTP,
			errContains: "status code error: [503]",
		},
		{
			name:        "Network error",
			mockError:   errors.New("connection reset by peer"),
			url:         "https://www.amazon.com/dp/B000000001",
			expectedErr: models.ErrNetwork,
			errContains: "connection reset by peer",
		},
		{
			name: "Body read failure",
			mockResponse: &http.Response{
				StatusCode: http.StatusOK,
				Body:       io.NopCloser(errReader(0)),
			},
			url:         "https://www.amazon.com/dp/B000000001",
			expectedErr: models.ErrNetwork,
			errContains: "failed to read response body",
		},
		{
			name:        "Invalid URL",
			url:         "://invalid-url",
			expectedErr: models.ErrInvalidURL,
		},
		{
			name:        "Unsupported scheme",
			url:         "ftp://www.amazon.com/dp/B000000001",
			expectedErr: models.ErrInvalidURL,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			transport := &mockRoundTripper{response: tc.mockResponse, err: tc.mockError}
			f := NewFetcher(logger, time.Second, "")
			f.client = &http.Client{Transport: transport}

			page, err := f.Fetch(ctx, tc.url)

			if tc.expectedErr != nil {
				require.ErrorIs(t, err, tc.expectedErr)
				assert.Nil(t, page)
				if tc.errContains != "" {
					assert.Contains(t, err.Error(), tc.errContains)
				}
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.expectedBody, page.Body)
			assert.Equal(t, http.StatusOK, page.StatusCode)
			assert.Equal(t, DefaultUserAgent, transport.request.Header.Get("User-Agent"))
			assert.NotEmpty(t, transport.request.Header.Get("Accept-Language"))
		})
	}
}

func TestFetch_HTTPErrorCarriesStatus(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f := NewFetcher(logger, time.Second, "custom-agent/1.0")
	f.client = &http.Client{Transport: &mockRoundTripper{response: &http.Response{
		StatusCode: http.StatusNotFound,
		Status:     "404 Not Found",
		Body:       io.NopCloser(strings.NewReader("")),
	}}}

	_, err := f.Fetch(t.Context(), "https://www.amazon.com/dp/B000000001")

	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.StatusCode)
	assert.Equal(t, "custom-agent/1.0", f.userAgent)
}

func TestFetch_Timeout(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f := NewFetcher(logger, 10*time.Millisecond, "")
	f.client.Transport = &slowRoundTripper{delay: time.Second}

	_, err := f.Fetch(t.Context(), "https://www.amazon.com/dp/B000000001")

	require.ErrorIs(t, err, models.ErrNetwork)
}

// slowRoundTripper blocks until the request context is done or delay passes.
type slowRoundTripper struct {
	delay time.Duration
}

func (s *slowRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	select {
	case <-req.Context().Done():
		return nil, req.Context().Err()
	case <-time.After(s.delay):
		return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(strings.NewReader(""))}, nil
	}
}
