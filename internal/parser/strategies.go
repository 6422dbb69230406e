package parser

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Strategy looks for one field in a parsed page and reports whether it found a non-empty value.
type Strategy func(doc *goquery.Document) (string, bool)

// TitleStrategies returns the title candidates in priority order.
func TitleStrategies() []Strategy {
	return []Strategy{
		BySelector("#productTitle"),
		BySelector("#title"),
		ByAttr(`meta[name="title"]`, "content"),
		ByAttr(`meta[property="og:title"]`, "content"),
	}
}

// PriceStrategies returns the price candidates in priority order.
// Page layouts differ by category and locale, so no single selector is reliable.
func PriceStrategies() []Strategy {
	return []Strategy{
		BySelector("#corePrice_feature_div .a-price .a-offscreen"),
		BySelector("#corePriceDisplay_desktop_feature_div .a-price .a-offscreen"),
		BySelector(".a-price .a-offscreen"),
		BySelector("span.a-offscreen"),
		BySelector("#priceblock_ourprice"),
		BySelector("#priceblock_dealprice"),
		BySelector("#price_inside_buybox"),
		BySelector(".a-price-range .a-offscreen"),
		WholeAndFraction("span.a-price-whole", "span.a-price-fraction"),
	}
}

// BySelector matches the text of the first element selected by selector.
func BySelector(selector string) Strategy {
	return func(doc *goquery.Document) (string, bool) {
		text := cleanText(doc.Find(selector).First().Text())
		return text, text != ""
	}
}

// ByAttr matches an attribute of the first element selected by selector.
func ByAttr(selector, attr string) Strategy {
	return func(doc *goquery.Document) (string, bool) {
		text := cleanText(doc.Find(selector).First().AttrOr(attr, ""))
		return text, text != ""
	}
}

// WholeAndFraction joins Amazon's split price markup ("1,234." + "56").
func WholeAndFraction(wholeSelector, fractionSelector string) Strategy {
	return func(doc *goquery.Document) (string, bool) {
		whole := doc.Find(wholeSelector).First()
		rawWhole := cleanText(whole.Text())
		wholeText := strings.TrimRight(rawWhole, ".,")
		if wholeText == "" {
			return "", false
		}

		separator := "."
		if strings.HasSuffix(rawWhole, ",") {
			separator = ","
		}

		fraction := cleanText(whole.Parent().Find(fractionSelector).First().Text())
		if fraction == "" {
			fraction = cleanText(doc.Find(fractionSelector).First().Text())
		}
		if fraction == "" {
			return wholeText, true
		}

		return wholeText + separator + fraction, true
	}
}

func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
