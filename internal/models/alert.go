package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ThresholdKind selects how a price drop is measured.
type ThresholdKind string

const (
	ThresholdPercent  ThresholdKind = "percent"
	ThresholdAbsolute ThresholdKind = "absolute"
)

// Threshold is the drop magnitude that triggers an alert.
type Threshold struct {
	Kind  ThresholdKind
	Value decimal.Decimal
}

// Crossed reports whether a drop of amount (percent of the previous price) reaches the threshold.
func (t Threshold) Crossed(amount, percent decimal.Decimal) bool {
	if !amount.IsPositive() {
		return false
	}

	switch t.Kind {
	case ThresholdAbsolute:
		return amount.GreaterThanOrEqual(t.Value)
	default:
		return percent.GreaterThanOrEqual(t.Value)
	}
}

// String renders the threshold for display, e.g. "10%" or "5.00".
func (t Threshold) String() string {
	if t.Kind == ThresholdAbsolute {
		return t.Value.StringFixed(2)
	}
	return t.Value.String() + "%"
}

// SMTP holds the outbound mail server settings.
type SMTP struct {
	Host     string
	Port     int
	Username string
	Password string
}

// Configured reports whether enough SMTP settings are present to send mail.
func (s SMTP) Configured() bool {
	return s.Host != "" && s.Port > 0 && s.Username != ""
}

// Telegram holds the optional Telegram delivery settings.
type Telegram struct {
	Token  string
	ChatID int64
}

// Configured reports whether Telegram delivery is set up.
func (t Telegram) Configured() bool {
	return t.Token != "" && t.ChatID != 0
}

// AlertConfig is loaded once at startup and is not changed during a monitoring run.
type AlertConfig struct {
	Enabled   bool
	Recipient string
	SMTP      SMTP
	Telegram  Telegram
	Threshold Threshold
}

// Validate checks that an enabled configuration can actually deliver alerts.
func (c AlertConfig) Validate() error {
	if !c.Enabled {
		return nil
	}

	var problems []string
	if !c.SMTP.Configured() && !c.Telegram.Configured() {
		problems = append(problems, "no delivery channel configured")
	}
	if c.SMTP.Configured() && !strings.Contains(c.Recipient, "@") {
		problems = append(problems, "recipient address is missing or invalid")
	}
	if c.Threshold.Kind != ThresholdPercent && c.Threshold.Kind != ThresholdAbsolute {
		problems = append(problems, fmt.Sprintf("unknown threshold kind %q", c.Threshold.Kind))
	}
	if c.Threshold.Value.IsNegative() {
		problems = append(problems, "threshold must not be negative")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrConfig, strings.Join(problems, "; "))
	}

	return nil
}
