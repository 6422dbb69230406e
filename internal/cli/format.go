package cli

import (
	"github.com/Houeta/price-tracker/internal/models"
	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

var currencySymbols = map[string]string{
	"USD": "$",
	"GBP": "£",
	"EUR": "€",
	"JPY": "¥",
	"INR": "₹",
}

// formatPrice renders amount with digit grouping, e.g. "$1,234.56".
func formatPrice(amount decimal.Decimal, currency string) string {
	value := printer.Sprintf("%.2f", amount.InexactFloat64())
	if symbol, ok := currencySymbols[currency]; ok {
		return symbol + value
	}
	if currency == "" {
		return value
	}

	return value + " " + currency
}

func describeSample(sample models.PriceSample) string {
	if sample.OK() {
		title := sample.Title
		if title == "" {
			title = sample.URL
		}
		return printer.Sprintf("%s: %s (checked %s)", title, formatPrice(sample.Price.Decimal, sample.Currency),
			humanize.Time(sample.FetchedAt))
	}

	if sample.Reason != "" {
		return printer.Sprintf("%s: %s (%s)", sample.URL, sample.Status, sample.Reason)
	}

	return printer.Sprintf("%s: %s", sample.URL, sample.Status)
}
