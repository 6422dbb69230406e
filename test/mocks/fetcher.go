package mocks

import (
	"context"

	"github.com/Houeta/price-tracker/internal/fetcher"
	"github.com/Houeta/price-tracker/internal/parser"
	"github.com/stretchr/testify/mock"
)

// PageFetcher is a mock type for the fetcher.PageFetcher type.
type PageFetcher struct {
	mock.Mock
}

// Fetch provides a mock function with given fields: ctx, rawURL.
func (m *PageFetcher) Fetch(ctx context.Context, rawURL string) (*fetcher.RawPage, error) {
	ret := m.Called(ctx, rawURL)

	var page *fetcher.RawPage
	if v := ret.Get(0); v != nil {
		page = v.(*fetcher.RawPage)
	}

	return page, ret.Error(1)
}

// NewPageFetcher creates a new instance of PageFetcher and asserts its expectations on cleanup.
func NewPageFetcher(t mock.TestingT) *PageFetcher {
	m := &PageFetcher{}
	m.Mock.Test(t)

	if c, ok := t.(interface{ Cleanup(func()) }); ok {
		c.Cleanup(func() { m.AssertExpectations(t) })
	}

	return m
}

// FieldExtractor is a mock type for the parser.FieldExtractor type.
type FieldExtractor struct {
	mock.Mock
}

// Extract provides a mock function with given fields: ctx, page.
func (m *FieldExtractor) Extract(ctx context.Context, page *fetcher.RawPage) (*parser.Fields, error) {
	ret := m.Called(ctx, page)

	var fields *parser.Fields
	if v := ret.Get(0); v != nil {
		fields = v.(*parser.Fields)
	}

	return fields, ret.Error(1)
}

// NewFieldExtractor creates a new instance of FieldExtractor and asserts its expectations on cleanup.
func NewFieldExtractor(t mock.TestingT) *FieldExtractor {
	m := &FieldExtractor{}
	m.Mock.Test(t)

	if c, ok := t.(interface{ Cleanup(func()) }); ok {
		c.Cleanup(func() { m.AssertExpectations(t) })
	}

	return m
}
