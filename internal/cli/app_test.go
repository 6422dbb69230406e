package cli_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/Houeta/price-tracker/internal/cli"
	"github.com/Houeta/price-tracker/internal/config"
	"github.com/Houeta/price-tracker/internal/models"
	"github.com/Houeta/price-tracker/internal/services/notifier"
	"github.com/Houeta/price-tracker/internal/services/scheduler"
	"github.com/Houeta/price-tracker/internal/services/tracker"
	"github.com/Houeta/price-tracker/internal/store"
	"github.com/Houeta/price-tracker/test/mocks"
	"github.com/shopspring/decimal"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	urlA = "https://www.amazon.com/dp/B000000001"
	urlB = "https://www.amazon.com/dp/B000000002"
)

type fixture struct {
	store     *store.Store
	checker   *mocks.Checker
	tracker   *mocks.Tracker
	scheduler *mocks.Scheduler
	saved     []config.Settings
	tick      scheduler.TickFunc
	out       *bytes.Buffer
}

func newFixture(t *testing.T, urls ...string) *fixture {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f := &fixture{
		store:     store.NewStore(logger, afero.NewMemMapFs(), "tracked_products.txt"),
		checker:   new(mocks.Checker),
		tracker:   mocks.NewTracker(t),
		scheduler: new(mocks.Scheduler),
		out:       new(bytes.Buffer),
	}

	for _, url := range urls {
		_, err := f.store.Add(url)
		require.NoError(t, err)
	}

	t.Cleanup(func() {
		f.checker.AssertExpectations(t)
		f.scheduler.AssertExpectations(t)
	})

	return f
}

func (f *fixture) run(t *testing.T, input string) *cli.App {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	app := cli.NewApp(logger, strings.NewReader(input), f.out, cli.Deps{
		Store:   f.store,
		Checker: f.checker,
		Tracker: f.tracker,
		NewScheduler: func(tick scheduler.TickFunc) cli.Scheduler {
			f.tick = tick
			return f.scheduler
		},
		Settings: config.DefaultSettings(24 * time.Hour),
		SaveSettings: func(s config.Settings) error {
			f.saved = append(f.saved, s)
			return nil
		},
	})

	require.NoError(t, app.Run(t.Context()))

	return app
}

func okSample(url, price string) models.PriceSample {
	return models.PriceSample{
		URL:       url,
		Title:     "Echo Dot",
		Price:     decimal.NewNullDecimal(decimal.RequireFromString(price)),
		Currency:  "USD",
		FetchedAt: time.Now(),
		Status:    models.StatusOK,
	}
}

// ==== Menu loop ====

func TestApp_Exit(t *testing.T) {
	f := newFixture(t)
	f.run(t, "8\n")

	assert.Contains(t, f.out.String(), "1. Add product")
	assert.Contains(t, f.out.String(), "8. Exit")
	assert.Contains(t, f.out.String(), "Goodbye!")
}

func TestApp_MenuShowsStatus(t *testing.T) {
	f := newFixture(t, urlA, urlB)
	f.run(t, "6\ny\nsmtp.example.com\n\nbot@example.com\nsecret\nme@example.com\n\n\n\n8\n")

	out := f.out.String()
	assert.Contains(t, out, "Checking every 24h0m0s | Alerts: off | Tracked products: 2")
	assert.Contains(t, out, "Alerts: on (email to me@example.com, drop of 10%)")
}

func TestApp_EOFExits(t *testing.T) {
	f := newFixture(t)
	f.run(t, "")

	assert.Contains(t, f.out.String(), "Enter your choice")
}

func TestApp_InvalidChoice(t *testing.T) {
	f := newFixture(t)
	f.run(t, "9\nabc\n8\n")

	assert.Equal(t, 2, strings.Count(f.out.String(), "Invalid choice"))
}

func TestApp_CanceledContext(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	app := cli.NewApp(slog.New(slog.NewTextHandler(io.Discard, nil)), strings.NewReader(""), f.out,
		cli.Deps{Store: f.store})
	require.NoError(t, app.Run(ctx))
}

// ==== Add / Remove / List ====

func TestApp_Add(t *testing.T) {
	f := newFixture(t)
	f.checker.On("CheckOne", mock.Anything, urlA).Return(okSample(urlA, "49.99")).Once()

	f.run(t, "1\n"+urlA+"\n8\n")

	assert.Equal(t, []string{urlA}, f.store.URLs())
	assert.Contains(t, f.out.String(), "Added product B000000001")
	assert.Contains(t, f.out.String(), "Echo Dot: $49.99")
}

func TestApp_AddRejected(t *testing.T) {
	f := newFixture(t, urlA)
	f.run(t, "1\nhttps://example.com/item\n1\n"+urlA+"\n8\n")

	assert.Contains(t, f.out.String(), "not a valid Amazon product URL")
	assert.Contains(t, f.out.String(), "already being tracked")
	assert.Equal(t, 1, f.store.Len())
}

func TestApp_RemoveByNumber(t *testing.T) {
	f := newFixture(t, urlA, urlB)
	f.tracker.On("Previous", mock.Anything).Return(models.PriceSample{}, false)
	f.tracker.On("Forget", mock.Anything, urlB).Once()

	f.run(t, "2\n2\n8\n")

	assert.Equal(t, []string{urlA}, f.store.URLs())
	assert.Contains(t, f.out.String(), "Product removed.")
}

func TestApp_RemoveByURL(t *testing.T) {
	f := newFixture(t, urlA)
	f.tracker.On("Previous", urlA).Return(models.PriceSample{}, false)
	f.tracker.On("Forget", mock.Anything, urlA).Once()

	f.run(t, "2\n"+urlA+"\n8\n")

	assert.Equal(t, 0, f.store.Len())
}

func TestApp_RemoveUnknown(t *testing.T) {
	f := newFixture(t, urlA)
	f.tracker.On("Previous", urlA).Return(models.PriceSample{}, false)

	f.run(t, "2\n5\n2\n"+urlB+"\n8\n")

	assert.Contains(t, f.out.String(), "There is no product number 5.")
	assert.Contains(t, f.out.String(), "That product is not being tracked.")
	assert.Equal(t, 1, f.store.Len())
}

func TestApp_List(t *testing.T) {
	f := newFixture(t, urlA, urlB)
	f.tracker.On("Previous", urlA).Return(okSample(urlA, "1234.56"), true)
	f.tracker.On("Previous", urlB).Return(models.PriceSample{}, false)

	f.run(t, "3\n8\n")

	out := f.out.String()
	assert.Contains(t, out, "Tracking 2 product(s):")
	assert.Contains(t, out, "1. Echo Dot\n   "+urlA)
	assert.Contains(t, out, "2. "+urlB)
	assert.Contains(t, out, "ASIN B000000001")
	assert.Contains(t, out, "last price $1,234.56")
	assert.Contains(t, out, "last price not checked yet")
}

func TestApp_ListEmpty(t *testing.T) {
	f := newFixture(t)
	f.run(t, "3\n8\n")

	assert.Contains(t, f.out.String(), "No products are being tracked.")
}

// ==== Check / Monitor ====

func TestApp_CheckNow(t *testing.T) {
	f := newFixture(t, urlA, urlB)
	report := tracker.Report{
		Samples: []models.PriceSample{
			okSample(urlA, "19.99"),
			{URL: urlB, Status: models.StatusNetworkError, Reason: "timeout"},
		},
		Outcome:   notifier.OutcomeError,
		NotifyErr: errors.New("smtp down"),
	}
	f.tracker.On("RunCycle", mock.Anything, []string{urlA, urlB}, mock.Anything).Return(report).Once()

	f.run(t, "4\n8\n")

	out := f.out.String()
	assert.Contains(t, out, "Echo Dot: $19.99")
	assert.Contains(t, out, urlB+": network_error (timeout)")
	assert.Contains(t, out, "1 of 2 product(s) checked successfully.")
	assert.Contains(t, out, "Alert failed: smtp down")
}

func TestApp_CheckNowEmpty(t *testing.T) {
	f := newFixture(t)
	f.run(t, "4\n8\n")

	assert.Contains(t, f.out.String(), "No products to check.")
}

func TestApp_Monitor(t *testing.T) {
	f := newFixture(t, urlA)
	f.tracker.On("RunCycle", mock.Anything, []string{urlA}, mock.Anything).
		Return(tracker.Report{Samples: []models.PriceSample{okSample(urlA, "5.00")}, Outcome: notifier.OutcomeSkipped}).
		Once()

	f.scheduler.On("Start", mock.Anything, 24*time.Hour).Run(func(args mock.Arguments) {
		f.tick(args.Get(0).(context.Context))
	}).Return(nil).Once()
	f.scheduler.On("Done").Return(make(chan struct{})).Once()
	f.scheduler.On("Stop").Return()

	f.run(t, "5\n\n8\n")

	out := f.out.String()
	assert.Contains(t, out, "Monitoring every 24h0m0s")
	assert.Contains(t, out, "Scheduled check at")
	assert.Contains(t, out, "Echo Dot: $5.00")
	assert.Contains(t, out, "Monitoring stopped.")
	assert.Contains(t, out, "Goodbye!")
}

func TestApp_MonitorEOF(t *testing.T) {
	f := newFixture(t, urlA)
	f.scheduler.On("Start", mock.Anything, 24*time.Hour).Return(nil).Once()
	f.scheduler.On("Done").Return(make(chan struct{})).Once()
	f.scheduler.On("Stop").Return()

	f.run(t, "5\n")

	assert.NotContains(t, f.out.String(), "Goodbye!")
}

func TestApp_MonitorStartFails(t *testing.T) {
	f := newFixture(t, urlA)
	f.scheduler.On("Start", mock.Anything, 24*time.Hour).Return(scheduler.ErrAlreadyStarted).Once()

	f.run(t, "5\n8\n")

	assert.Contains(t, f.out.String(), "Error: failed to start monitoring")
}

// ==== Settings ====

func TestApp_ConfigureAlerts(t *testing.T) {
	f := newFixture(t)
	input := strings.Join([]string{
		"6", "y", "smtp.example.com", "", "bot@example.com", "secret", "me@example.com", "", "absolute", "7.5",
		"8",
	}, "\n") + "\n"

	app := f.run(t, input)

	require.Len(t, f.saved, 1)
	alerts := f.saved[0].Alerts
	assert.True(t, alerts.Enabled)
	assert.Equal(t, models.SMTP{Host: "smtp.example.com", Port: 587, Username: "bot@example.com", Password: "secret"},
		alerts.SMTP)
	assert.Equal(t, "me@example.com", alerts.Recipient)
	assert.Equal(t, models.ThresholdAbsolute, alerts.Threshold.Kind)
	assert.True(t, alerts.Threshold.Value.Equal(decimal.RequireFromString("7.5")))
	assert.Equal(t, f.saved[0], app.Settings())
	assert.Contains(t, f.out.String(), "Alerts enabled, threshold 7.50.")
}

func TestApp_ConfigureAlertsInvalid(t *testing.T) {
	f := newFixture(t)
	input := "6\ny\n" + strings.Repeat("\n", 8) + "8\n"

	f.run(t, input)

	assert.Empty(t, f.saved)
	assert.Contains(t, f.out.String(), "Alert settings were not saved")
}

func TestApp_DisableAlerts(t *testing.T) {
	f := newFixture(t)
	f.run(t, "6\nn\n8\n")

	require.Len(t, f.saved, 1)
	assert.False(t, f.saved[0].Alerts.Enabled)
	assert.Contains(t, f.out.String(), "Alerts disabled.")
}

func TestApp_ChangeInterval(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected time.Duration
	}{
		{name: "Duration", input: "45m", expected: 45 * time.Minute},
		{name: "Seconds", input: "3600", expected: time.Hour},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			f.run(t, "7\n"+tc.input+"\n8\n")

			require.Len(t, f.saved, 1)
			assert.Equal(t, tc.expected, f.saved[0].CheckInterval)
		})
	}
}

func TestApp_ChangeIntervalInvalid(t *testing.T) {
	f := newFixture(t)
	f.run(t, "7\nsoon\n7\n-5\n8\n")

	assert.Empty(t, f.saved)
	assert.Equal(t, 2, strings.Count(f.out.String(), "Invalid interval"))
}
