package mocks

import (
	"context"
	"time"

	"github.com/Houeta/price-tracker/internal/models"
	"github.com/Houeta/price-tracker/internal/services/tracker"
	"github.com/stretchr/testify/mock"
)

// Tracker is a mock type for the cli.Tracker type.
type Tracker struct {
	mock.Mock
}

// RunCycle provides a mock function with given fields: ctx, urls, cfg.
func (m *Tracker) RunCycle(ctx context.Context, urls []string, cfg models.AlertConfig) tracker.Report {
	return m.Called(ctx, urls, cfg).Get(0).(tracker.Report)
}

// Previous provides a mock function with given fields: url.
func (m *Tracker) Previous(url string) (models.PriceSample, bool) {
	ret := m.Called(url)
	return ret.Get(0).(models.PriceSample), ret.Bool(1)
}

// Forget provides a mock function with given fields: ctx, url.
func (m *Tracker) Forget(ctx context.Context, url string) {
	m.Called(ctx, url)
}

// NewTracker creates a new instance of Tracker and asserts its expectations on cleanup.
func NewTracker(t mock.TestingT) *Tracker {
	m := &Tracker{}
	m.Mock.Test(t)

	if c, ok := t.(interface{ Cleanup(func()) }); ok {
		c.Cleanup(func() { m.AssertExpectations(t) })
	}

	return m
}

// Scheduler is a mock type for the cli.Scheduler type.
type Scheduler struct {
	mock.Mock
}

// Start provides a mock function with given fields: ctx, interval.
func (m *Scheduler) Start(ctx context.Context, interval time.Duration) error {
	return m.Called(ctx, interval).Error(0)
}

// Stop provides a mock function with no fields.
func (m *Scheduler) Stop() {
	m.Called()
}

// Done provides a mock function with no fields.
func (m *Scheduler) Done() <-chan struct{} {
	var done <-chan struct{}
	if v := m.Called().Get(0); v != nil {
		done = v.(chan struct{})
	}

	return done
}
