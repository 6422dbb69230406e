package mocks

import (
	"context"

	"github.com/Houeta/price-tracker/internal/models"
	"github.com/Houeta/price-tracker/internal/services/notifier"
	"github.com/stretchr/testify/mock"
)

// Checker is a mock type for the checker.Interface type.
type Checker struct {
	mock.Mock
}

// CheckAll provides a mock function with given fields: ctx, urls.
func (m *Checker) CheckAll(ctx context.Context, urls []string) []models.PriceSample {
	ret := m.Called(ctx, urls)

	var samples []models.PriceSample
	if v := ret.Get(0); v != nil {
		samples = v.([]models.PriceSample)
	}

	return samples
}

// CheckOne provides a mock function with given fields: ctx, url.
func (m *Checker) CheckOne(ctx context.Context, url string) models.PriceSample {
	return m.Called(ctx, url).Get(0).(models.PriceSample)
}

// Notifier is a mock type for the notifier.Interface type.
type Notifier struct {
	mock.Mock
}

// Notify provides a mock function with given fields: ctx, samples, previous, cfg.
func (m *Notifier) Notify(
	ctx context.Context,
	samples []models.PriceSample,
	previous map[string]models.PriceSample,
	cfg models.AlertConfig,
) (notifier.Outcome, error) {
	ret := m.Called(ctx, samples, previous, cfg)
	return ret.Get(0).(notifier.Outcome), ret.Error(1)
}

// Sender is a mock type for the notifier.Sender type.
type Sender struct {
	mock.Mock
}

// Send provides a mock function with given fields: ctx, msg.
func (m *Sender) Send(ctx context.Context, msg notifier.Message) error {
	return m.Called(ctx, msg).Error(0)
}

// Name provides a mock function with no fields.
func (m *Sender) Name() string {
	return m.Called().String(0)
}

// ResultsLog is a mock type for the tracker.ResultsLog type.
type ResultsLog struct {
	mock.Mock
}

// Append provides a mock function with given fields: samples.
func (m *ResultsLog) Append(samples []models.PriceSample) error {
	return m.Called(samples).Error(0)
}
