package cli

import (
	"context"
	"time"

	"github.com/Houeta/price-tracker/internal/config"
	"github.com/Houeta/price-tracker/internal/models"
	"github.com/Houeta/price-tracker/internal/services/scheduler"
	"github.com/Houeta/price-tracker/internal/services/tracker"
)

type ProductStore interface {
	// Add validates and persists a new product URL.
	Add(rawURL string) (models.TrackedProduct, error)
	// Remove deletes a product URL and persists the list.
	Remove(rawURL string) error
	// List returns the tracked products in insertion order.
	List() []models.TrackedProduct
	URLs() []string
}

type Checker interface {
	CheckOne(ctx context.Context, url string) models.PriceSample
}

type Tracker interface {
	// RunCycle checks every URL and alerts on price drops.
	RunCycle(ctx context.Context, urls []string, cfg models.AlertConfig) tracker.Report
	// Previous returns the last good sample of a product.
	Previous(url string) (models.PriceSample, bool)
	// Forget drops the last good sample of a removed product.
	Forget(ctx context.Context, url string)
}

type Scheduler interface {
	Start(ctx context.Context, interval time.Duration) error
	Stop()
	Done() <-chan struct{}
}

// SchedulerFactory returns a fresh Scheduler for every monitoring session.
type SchedulerFactory func(tick scheduler.TickFunc) Scheduler

// SettingsSaver persists the settings edited from the menu.
type SettingsSaver func(settings config.Settings) error
