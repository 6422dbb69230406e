package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/Houeta/price-tracker/internal/config"
)

// Deps are the collaborators the menu dispatches to.
type Deps struct {
	Store        ProductStore
	Checker      Checker
	Tracker      Tracker
	NewScheduler SchedulerFactory
	Settings     config.Settings
	SaveSettings SettingsSaver
	// ReadPassword is optional; without it secrets are read as plain lines.
	ReadPassword PasswordFunc
}

type route struct {
	title   string
	handler func(ctx context.Context) error
}

// App is the interactive numbered menu.
type App struct {
	log      *slog.Logger
	out      io.Writer
	lines    *lineReader
	deps     Deps
	settings config.Settings
	routes   map[string]route
}

// NewApp creates a menu reading from in and writing to out.
func NewApp(log *slog.Logger, in io.Reader, out io.Writer, deps Deps) *App {
	app := &App{
		log:      log,
		out:      out,
		lines:    newLineReader(in),
		deps:     deps,
		settings: deps.Settings,
	}

	app.registerRoutes()

	return app
}

// registerRoutes configures all menu actions.
func (a *App) registerRoutes() {
	a.routes = map[string]route{
		"1": {title: "Add product", handler: a.addHandler},
		"2": {title: "Remove product", handler: a.removeHandler},
		"3": {title: "List products", handler: a.listHandler},
		"4": {title: "Check prices now", handler: a.checkHandler},
		"5": {title: "Start monitoring", handler: a.monitorHandler},
		"6": {title: "Configure alerts", handler: a.alertsHandler},
		"7": {title: "Change check interval", handler: a.intervalHandler},
		"8": {title: "Exit"},
	}
}

// Run shows the menu until the user exits, input ends or ctx is canceled.
func (a *App) Run(ctx context.Context) error {
	a.log.InfoContext(ctx, "Menu is starting...")

	for {
		a.printMenu()

		choice, err := a.prompt(ctx, "Enter your choice (1-8): ")
		if err != nil {
			return a.finish(ctx, err)
		}

		selected, ok := a.routes[choice]
		if !ok {
			a.println("Invalid choice. Please enter a number from 1 to 8.")
			continue
		}

		if selected.handler == nil {
			a.println("Goodbye!")
			return nil
		}

		if err = selected.handler(ctx); err != nil {
			if errors.Is(err, io.EOF) || ctx.Err() != nil {
				return a.finish(ctx, err)
			}
			a.log.ErrorContext(ctx, "Menu action failed", "action", selected.title, "error", err)
			a.printf("Error: %v\n", err)
		}
	}
}

// Settings returns the settings as last edited from the menu.
func (a *App) Settings() config.Settings {
	return a.settings
}

func (a *App) finish(ctx context.Context, err error) error {
	if errors.Is(err, io.EOF) {
		a.println("")
		a.log.InfoContext(ctx, "Input closed, exiting")
		return nil
	}

	if ctx.Err() != nil {
		a.log.InfoContext(ctx, "Menu stopped", "reason", context.Cause(ctx))
		return nil
	}

	return err
}

func (a *App) printMenu() {
	keys := make([]string, 0, len(a.routes))
	for key := range a.routes {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	a.println("")
	a.println("=== Amazon Price Tracker ===")
	a.printf("Checking every %s | Alerts: %s | Tracked products: %d\n",
		a.settings.CheckInterval, a.alertStatus(), len(a.deps.Store.URLs()))
	for _, key := range keys {
		a.printf("%s. %s\n", key, a.routes[key].title)
	}
}

func (a *App) alertStatus() string {
	alerts := a.settings.Alerts
	if !alerts.Enabled {
		return "off"
	}

	var channels []string
	if alerts.SMTP.Configured() {
		channels = append(channels, "email to "+alerts.Recipient)
	}
	if alerts.Telegram.Configured() {
		channels = append(channels, "telegram")
	}

	return fmt.Sprintf("on (%s, drop of %s)", strings.Join(channels, ", "), alerts.Threshold)
}

func (a *App) prompt(ctx context.Context, label string) (string, error) {
	a.printf("%s", label)
	return a.lines.read(ctx)
}

// promptSecret reads without echo when a terminal is available and no other read is pending.
func (a *App) promptSecret(ctx context.Context, label string) (string, error) {
	if a.deps.ReadPassword == nil || a.lines.busy() {
		return a.prompt(ctx, label)
	}

	a.printf("%s", label)
	secret, err := a.deps.ReadPassword()
	a.println("")
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}

	return secret, nil
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func (a *App) println(line string) {
	fmt.Fprintln(a.out, line)
}
