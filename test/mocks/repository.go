package mocks

import (
	"context"

	"github.com/Houeta/price-tracker/internal/models"
	"github.com/stretchr/testify/mock"
)

// SampleRepository is a mock type for the sqlite.SampleRepository type.
type SampleRepository struct {
	mock.Mock
}

// GetLastSamples provides a mock function with given fields: ctx.
func (m *SampleRepository) GetLastSamples(ctx context.Context) (map[string]models.PriceSample, error) {
	ret := m.Called(ctx)

	var samples map[string]models.PriceSample
	if v := ret.Get(0); v != nil {
		samples = v.(map[string]models.PriceSample)
	}

	return samples, ret.Error(1)
}

// SaveSamples provides a mock function with given fields: ctx, samples.
func (m *SampleRepository) SaveSamples(ctx context.Context, samples []models.PriceSample) error {
	return m.Called(ctx, samples).Error(0)
}

// DeleteSample provides a mock function with given fields: ctx, url.
func (m *SampleRepository) DeleteSample(ctx context.Context, url string) error {
	return m.Called(ctx, url).Error(0)
}
