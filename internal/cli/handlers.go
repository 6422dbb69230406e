package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Houeta/price-tracker/internal/config"
	"github.com/Houeta/price-tracker/internal/models"
	"github.com/Houeta/price-tracker/internal/services/notifier"
	"github.com/Houeta/price-tracker/internal/services/tracker"
	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// addHandler tracks a new URL and shows its current price.
func (a *App) addHandler(ctx context.Context) error {
	raw, err := a.prompt(ctx, "Enter Amazon product URL: ")
	if err != nil {
		return err
	}

	product, err := a.deps.Store.Add(raw)
	switch {
	case errors.Is(err, models.ErrInvalidURL):
		a.println("That is not a valid Amazon product URL.")
		return nil
	case errors.Is(err, models.ErrDuplicateURL):
		a.println("This product is already being tracked.")
		return nil
	case err != nil:
		return fmt.Errorf("failed to add product: %w", err)
	}

	a.log.InfoContext(ctx, "Product added", "url", product.URL, "asin", product.ASIN)
	a.printf("Added product %s. Checking the current price...\n", product.ASIN)
	a.println(describeSample(a.deps.Checker.CheckOne(ctx, product.URL)))

	return nil
}

// removeHandler accepts either a list number or the URL itself.
func (a *App) removeHandler(ctx context.Context) error {
	products := a.deps.Store.List()
	if len(products) == 0 {
		a.println("No products are being tracked.")
		return nil
	}

	a.printProducts(products)

	raw, err := a.prompt(ctx, "Enter the number or URL of the product to remove: ")
	if err != nil {
		return err
	}

	target := raw
	if n, convErr := strconv.Atoi(raw); convErr == nil {
		if n < 1 || n > len(products) {
			a.printf("There is no product number %d.\n", n)
			return nil
		}
		target = products[n-1].URL
	}

	if err = a.deps.Store.Remove(target); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			a.println("That product is not being tracked.")
			return nil
		}
		return fmt.Errorf("failed to remove product: %w", err)
	}

	a.deps.Tracker.Forget(ctx, target)
	a.log.InfoContext(ctx, "Product removed", "url", target)
	a.println("Product removed.")

	return nil
}

func (a *App) listHandler(_ context.Context) error {
	products := a.deps.Store.List()
	if len(products) == 0 {
		a.println("No products are being tracked.")
		return nil
	}

	a.printProducts(products)

	return nil
}

func (a *App) printProducts(products []models.TrackedProduct) {
	a.printf("Tracking %d product(s):\n", len(products))
	for i, product := range products {
		lastPrice := "not checked yet"
		sample, ok := a.deps.Tracker.Previous(product.URL)
		if ok {
			lastPrice = formatPrice(sample.Price.Decimal, sample.Currency)
		}

		if ok && sample.Title != "" {
			a.printf("%d. %s\n   %s\n", i+1, sample.Title, product.URL)
		} else {
			a.printf("%d. %s\n", i+1, product.URL)
		}
		a.printf("   ASIN %s, added %s, last price %s\n",
			product.ASIN, humanize.Time(product.AddedAt), lastPrice)
	}
}

func (a *App) checkHandler(ctx context.Context) error {
	urls := a.deps.Store.URLs()
	if len(urls) == 0 {
		a.println("No products to check. Add one first.")
		return nil
	}

	a.printf("Checking %d product(s)...\n", len(urls))
	a.printReport(a.deps.Tracker.RunCycle(ctx, urls, a.settings.Alerts))

	return nil
}

func (a *App) printReport(report tracker.Report) {
	okCount := 0
	for _, sample := range report.Samples {
		if sample.OK() {
			okCount++
		}
		a.printf("  - %s\n", describeSample(sample))
	}
	a.printf("%d of %d product(s) checked successfully.\n", okCount, len(report.Samples))

	switch report.Outcome {
	case notifier.OutcomeSent:
		a.println("Price drop alert sent.")
	case notifier.OutcomeError:
		a.printf("Alert failed: %v\n", report.NotifyErr)
	case notifier.OutcomeSkipped:
		if a.settings.Alerts.Enabled {
			a.println("No alert needed.")
		}
	}
}

// monitorHandler blocks until Enter, end of input or cancellation while the
// scheduler checks prices in the background.
func (a *App) monitorHandler(ctx context.Context) error {
	if len(a.deps.Store.URLs()) == 0 {
		a.println("No products to monitor. Add one first.")
		return nil
	}

	alerts := a.settings.Alerts
	sched := a.deps.NewScheduler(func(tickCtx context.Context) {
		a.printf("\nScheduled check at %s\n", time.Now().Format(time.DateTime))
		a.printReport(a.deps.Tracker.RunCycle(tickCtx, a.deps.Store.URLs(), alerts))
	})

	if err := sched.Start(ctx, a.settings.CheckInterval); err != nil {
		return fmt.Errorf("failed to start monitoring: %w", err)
	}
	defer sched.Stop()

	a.log.InfoContext(ctx, "Monitoring started", "interval", a.settings.CheckInterval)
	a.printf("Monitoring every %s. Press Enter to return to the menu or Ctrl+C to exit.\n",
		a.settings.CheckInterval)

	select {
	case res := <-a.lines.next():
		if _, err := a.lines.take(res); err != nil {
			return err
		}
	case <-sched.Done():
	case <-ctx.Done():
		return ctx.Err()
	}

	sched.Stop()
	a.log.InfoContext(ctx, "Monitoring stopped")
	a.println("Monitoring stopped.")

	return nil
}

// alertsHandler edits the alert settings. An empty answer keeps the current value.
func (a *App) alertsHandler(ctx context.Context) error {
	next := a.settings
	alerts := &next.Alerts

	answer, err := a.promptDefault(ctx, "Enable price drop alerts? (y/n)", yesNo(alerts.Enabled))
	if err != nil {
		return err
	}
	alerts.Enabled = strings.HasPrefix(strings.ToLower(answer), "y")

	if alerts.Enabled {
		if err = a.editAlerts(ctx, alerts); err != nil {
			return err
		}

		if err = alerts.Validate(); err != nil {
			a.printf("Alert settings were not saved: %v\n", err)
			return nil
		}
	}

	if err = a.save(next); err != nil {
		return err
	}

	if alerts.Enabled {
		a.printf("Alerts enabled, threshold %s.\n", alerts.Threshold)
	} else {
		a.println("Alerts disabled.")
	}

	return nil
}

func (a *App) editAlerts(ctx context.Context, alerts *models.AlertConfig) error {
	var err error

	if alerts.SMTP.Host, err = a.promptDefault(ctx, "SMTP server", alerts.SMTP.Host); err != nil {
		return err
	}

	port, err := a.promptDefault(ctx, "SMTP port", strconv.Itoa(alerts.SMTP.Port))
	if err != nil {
		return err
	}
	if alerts.SMTP.Port, err = strconv.Atoi(port); err != nil {
		return fmt.Errorf("%w: invalid SMTP port %q", models.ErrConfig, port)
	}

	if alerts.SMTP.Username, err = a.promptDefault(ctx, "SMTP username (sender address)",
		alerts.SMTP.Username); err != nil {
		return err
	}

	password, err := a.promptSecret(ctx, "SMTP password (leave empty to keep): ")
	if err != nil {
		return err
	}
	if password != "" {
		alerts.SMTP.Password = password
	}

	if alerts.Recipient, err = a.promptDefault(ctx, "Recipient email", alerts.Recipient); err != nil {
		return err
	}

	if alerts.Telegram.Token, err = a.promptDefault(ctx, "Telegram bot token (- to disable)",
		alerts.Telegram.Token); err != nil {
		return err
	}
	if alerts.Telegram.Token == "-" {
		alerts.Telegram = models.Telegram{}
	} else if alerts.Telegram.Token != "" {
		chat, promptErr := a.promptDefault(ctx, "Telegram chat ID", strconv.FormatInt(alerts.Telegram.ChatID, 10))
		if promptErr != nil {
			return promptErr
		}
		if alerts.Telegram.ChatID, err = strconv.ParseInt(chat, 10, 64); err != nil {
			return fmt.Errorf("%w: invalid Telegram chat ID %q", models.ErrConfig, chat)
		}
	}

	kind, err := a.promptDefault(ctx, "Threshold type (percent/absolute)", string(alerts.Threshold.Kind))
	if err != nil {
		return err
	}
	alerts.Threshold.Kind = models.ThresholdKind(strings.ToLower(kind))

	value, err := a.promptDefault(ctx, "Threshold value", alerts.Threshold.Value.String())
	if err != nil {
		return err
	}
	if alerts.Threshold.Value, err = decimal.NewFromString(value); err != nil {
		return fmt.Errorf("%w: invalid threshold value %q", models.ErrConfig, value)
	}

	return nil
}

// intervalHandler accepts a Go duration ("30m") or whole seconds.
func (a *App) intervalHandler(ctx context.Context) error {
	raw, err := a.promptDefault(ctx, "Check interval (e.g. 30m, 6h or seconds)", a.settings.CheckInterval.String())
	if err != nil {
		return err
	}

	interval, err := parseInterval(raw)
	if err != nil {
		a.printf("Invalid interval %q. Use a duration like 30m or a number of seconds.\n", raw)
		return nil
	}

	next := a.settings
	next.CheckInterval = interval
	if err = a.save(next); err != nil {
		return err
	}

	a.printf("Prices will be checked every %s.\n", interval)

	return nil
}

func parseInterval(raw string) (time.Duration, error) {
	interval, err := time.ParseDuration(raw)
	if err != nil {
		seconds, convErr := strconv.Atoi(raw)
		if convErr != nil {
			return 0, err
		}
		interval = time.Duration(seconds) * time.Second
	}

	if interval <= 0 {
		return 0, errors.New("interval must be positive")
	}

	return interval, nil
}

func (a *App) save(next config.Settings) error {
	if err := a.deps.SaveSettings(next); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	a.settings = next

	return nil
}

func (a *App) promptDefault(ctx context.Context, label, current string) (string, error) {
	if current != "" {
		label = fmt.Sprintf("%s [%s]", label, current)
	}

	answer, err := a.prompt(ctx, label+": ")
	if err != nil {
		return "", err
	}

	if answer == "" {
		return current, nil
	}

	return answer, nil
}

func yesNo(b bool) string {
	if b {
		return "y"
	}
	return "n"
}
