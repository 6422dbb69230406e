package store

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/Houeta/price-tracker/internal/models"
)

var (
	reAmazonHost = regexp.MustCompile(`^(?:[a-z0-9-]+\.)*amazon\.[a-z]{2,3}(?:\.[a-z]{2})?$`)
	reASINPath   = regexp.MustCompile(`(?i)/(?:dp|gp/product|gp/aw/d)/([a-z0-9]{10})(?:/|$)`)
)

// ParseProductURL validates rawURL as an Amazon product link and returns its ASIN.
func ParseProductURL(rawURL string) (string, error) {
	if strings.TrimSpace(rawURL) == "" {
		return "", fmt.Errorf("%w: empty URL", models.ErrInvalidURL)
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("%w: %w", models.ErrInvalidURL, err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("%w: scheme must be http or https", models.ErrInvalidURL)
	}

	if !reAmazonHost.MatchString(strings.ToLower(u.Hostname())) {
		return "", fmt.Errorf("%w: %q is not an Amazon host", models.ErrInvalidURL, u.Hostname())
	}

	matches := reASINPath.FindStringSubmatch(u.EscapedPath())
	if len(matches) < 2 {
		return "", fmt.Errorf("%w: no product identifier in %q", models.ErrInvalidURL, u.Path)
	}

	return strings.ToUpper(matches[1]), nil
}
