package results_test

import (
	"encoding/csv"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/Houeta/price-tracker/internal/models"
	"github.com/Houeta/price-tracker/internal/results"
	"github.com/shopspring/decimal"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const resultsPath = "price_history.csv"

var checkedAt = time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

func readRows(t *testing.T, fsys afero.Fs) [][]string {
	t.Helper()

	data, err := afero.ReadFile(fsys, resultsPath)
	require.NoError(t, err)

	rows, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	require.NoError(t, err)

	return rows
}

func TestLog_Append(t *testing.T) {
	fsys := afero.NewMemMapFs()
	log := results.NewLog(slog.New(slog.NewTextHandler(io.Discard, nil)), fsys, resultsPath)

	ok := models.PriceSample{
		URL:       "https://www.amazon.com/dp/B000000001",
		Title:     "Echo Dot, 5th Gen",
		Price:     decimal.NewNullDecimal(decimal.RequireFromString("49.9")),
		Currency:  "USD",
		FetchedAt: checkedAt,
		Status:    models.StatusOK,
	}
	failed := models.PriceSample{
		URL:       "https://www.amazon.com/dp/B000000002",
		FetchedAt: checkedAt,
		Status:    models.StatusNetworkError,
		Reason:    "timeout",
	}

	require.NoError(t, log.Append([]models.PriceSample{ok}))
	require.NoError(t, log.Append([]models.PriceSample{failed}))

	rows := readRows(t, fsys)
	require.Len(t, rows, 3)
	assert.Equal(t, results.Header, rows[0])
	assert.Equal(t, []string{
		"2026-03-01 09:30:00", "Echo Dot, 5th Gen", "49.90", "USD", "ok", "",
		"https://www.amazon.com/dp/B000000001", "B000000001",
	}, rows[1])
	assert.Equal(t, "", rows[2][2])
	assert.Equal(t, "network_error", rows[2][4])
	assert.Equal(t, "timeout", rows[2][5])
}

func TestLog_AppendEmpty(t *testing.T) {
	fsys := afero.NewMemMapFs()
	log := results.NewLog(slog.New(slog.NewTextHandler(io.Discard, nil)), fsys, resultsPath)

	require.NoError(t, log.Append(nil))

	exists, err := afero.Exists(fsys, resultsPath)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestLog_AppendReadOnlyFs(t *testing.T) {
	fsys := afero.NewReadOnlyFs(afero.NewMemMapFs())
	log := results.NewLog(slog.New(slog.NewTextHandler(io.Discard, nil)), fsys, resultsPath)

	err := log.Append([]models.PriceSample{{URL: "x", Status: models.StatusParseFailed}})
	require.Error(t, err)
}
