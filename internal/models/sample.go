package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status is the outcome of a single price check.
type Status string

const (
	StatusOK           Status = "ok"
	StatusNotFound     Status = "not_found"
	StatusParseFailed  Status = "parse_failed"
	StatusNetworkError Status = "network_error"
	StatusHTTPError    Status = "http_error"
)

// PriceSample is the result of one price-check attempt for one product.
// Price is valid only when Status is StatusOK.
type PriceSample struct {
	URL       string
	Title     string
	Price     decimal.NullDecimal
	Currency  string
	FetchedAt time.Time
	Status    Status
	Reason    string // Reason describes the failure for non-ok samples.
}

// OK reports whether the sample carries a usable price.
func (s PriceSample) OK() bool {
	return s.Status == StatusOK && s.Price.Valid
}

// PriceDrop describes a price decrease between two good samples of the same product.
type PriceDrop struct {
	Previous PriceSample
	Current  PriceSample
	Amount   decimal.Decimal
	Percent  decimal.Decimal
}
