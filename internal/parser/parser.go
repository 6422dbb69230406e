package parser

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Houeta/price-tracker/internal/fetcher"
	"github.com/Houeta/price-tracker/internal/models"
	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"
)

// FieldExtractor pulls the product fields out of a downloaded page.
type FieldExtractor interface {
	Extract(ctx context.Context, page *fetcher.RawPage) (*Fields, error)
}

// Fields are the values extracted from one product page.
type Fields struct {
	Title    string
	Price    decimal.Decimal
	Currency string
}

// Parser tries an ordered list of strategies for the title and, independently, for the price.
type Parser struct {
	log    *slog.Logger
	titles []Strategy
	prices []Strategy
}

// NewParser creates a Parser with the default Amazon strategies.
func NewParser(log *slog.Logger) *Parser {
	return &Parser{log: log, titles: TitleStrategies(), prices: PriceStrategies()}
}

// Extract parses the page markup and returns the product title and price.
func (p *Parser) Extract(ctx context.Context, page *fetcher.RawPage) (*Fields, error) {
	const opn = "parser.Extract"

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page.Body))
	if err != nil {
		return nil, fmt.Errorf("%s: %w: data cannot be parsed as HTML: %w", opn, models.ErrParse, err)
	}

	title, ok := firstMatch(doc, p.titles)
	if !ok {
		return nil, fmt.Errorf("%s: %w: product title not found", opn, models.ErrParse)
	}

	priceText, ok := firstMatch(doc, p.prices)
	if !ok {
		return nil, fmt.Errorf("%s: %w: price not found", opn, models.ErrParse)
	}

	price, currency, err := ParsePrice(priceText)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opn, err)
	}

	p.log.DebugContext(ctx, "Parsed product", "op", opn, "URL", page.URL, "title", title,
		"price", price.String(), "currency", currency)

	return &Fields{Title: title, Price: price, Currency: currency}, nil
}

func firstMatch(doc *goquery.Document, strategies []Strategy) (string, bool) {
	for _, strategy := range strategies {
		if text, ok := strategy(doc); ok {
			return text, true
		}
	}

	return "", false
}
