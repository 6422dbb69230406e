package notifier

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Houeta/price-tracker/internal/models"
	"github.com/shopspring/decimal"
)

// Outcome is the result of one Notify call.
type Outcome string

const (
	OutcomeSent    Outcome = "sent"
	OutcomeSkipped Outcome = "skipped"
	OutcomeError   Outcome = "error"
)

// Message is a composed alert, independent of the delivery channel.
type Message struct {
	Subject string
	Body    string
}

// Sender delivers a Message over one channel.
type Sender interface {
	Name() string
	Send(ctx context.Context, msg Message) error
}

// SenderFactory builds the senders for a configuration.
type SenderFactory func(cfg models.AlertConfig) ([]Sender, error)

type Interface interface {
	// Notify sends one alert if any product dropped past the configured threshold.
	Notify(
		ctx context.Context,
		samples []models.PriceSample,
		previous map[string]models.PriceSample,
		cfg models.AlertConfig,
	) (Outcome, error)
}

// Notifier compares fresh samples with the last known good ones and sends price-drop alerts.
type Notifier struct {
	log        *slog.Logger
	newSenders SenderFactory
}

// NewNotifier creates a Notifier. A nil factory uses DefaultSenders.
func NewNotifier(log *slog.Logger, factory SenderFactory) *Notifier {
	if factory == nil {
		factory = DefaultSenders
	}

	return &Notifier{log: log, newSenders: factory}
}

// Notify composes a single message for every product whose drop crosses the threshold.
// Transport failures are returned, not retried.
func (n *Notifier) Notify(
	ctx context.Context,
	samples []models.PriceSample,
	previous map[string]models.PriceSample,
	cfg models.AlertConfig,
) (Outcome, error) {
	const opn = "notifier.Notify"
	log := n.log.With("op", opn)

	if !cfg.Enabled {
		log.DebugContext(ctx, "Alerts disabled, skipping")
		return OutcomeSkipped, nil
	}

	if err := cfg.Validate(); err != nil {
		return OutcomeError, fmt.Errorf("%s: %w", opn, err)
	}

	drops := DetectDrops(samples, previous, cfg.Threshold)
	if len(drops) == 0 {
		log.InfoContext(ctx, "No price drop crossed the threshold", "threshold", cfg.Threshold.String())
		return OutcomeSkipped, nil
	}

	senders, err := n.newSenders(cfg)
	if err != nil {
		return OutcomeError, fmt.Errorf("%s: %w: %w", opn, models.ErrConfig, err)
	}

	msg := Compose(drops)

	var errs []error
	for _, sender := range senders {
		if err = sender.Send(ctx, msg); err != nil {
			log.ErrorContext(ctx, "Failed to send alert", "sender", sender.Name(), "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", sender.Name(), err))
			continue
		}
		log.InfoContext(ctx, "Alert sent", "sender", sender.Name(), "drops", len(drops))
	}

	if len(errs) > 0 {
		return OutcomeError, fmt.Errorf("%s: %w: %w", opn, models.ErrNotify, errors.Join(errs...))
	}

	return OutcomeSent, nil
}

var hundred = decimal.NewFromInt(100)

// DetectDrops returns the drops that cross threshold, in sample order.
// Only ok samples with an ok previous sample are compared.
func DetectDrops(
	samples []models.PriceSample,
	previous map[string]models.PriceSample,
	threshold models.Threshold,
) []models.PriceDrop {
	var drops []models.PriceDrop
	for _, current := range samples {
		if !current.OK() {
			continue
		}

		prev, ok := previous[current.URL]
		if !ok || !prev.OK() || !prev.Price.Decimal.IsPositive() {
			continue
		}

		amount := prev.Price.Decimal.Sub(current.Price.Decimal)
		percent := amount.Mul(hundred).Div(prev.Price.Decimal)
		if !threshold.Crossed(amount, percent) {
			continue
		}

		drops = append(drops, models.PriceDrop{Previous: prev, Current: current, Amount: amount, Percent: percent})
	}

	return drops
}

// Compose renders the alert message for drops.
func Compose(drops []models.PriceDrop) Message {
	first := drops[0]
	subject := fmt.Sprintf("Price Drop: %s - %s", displayTitle(first.Current),
		formatPrice(first.Current.Price.Decimal, first.Current.Currency))
	if len(drops) > 1 {
		subject = fmt.Sprintf("Price Drop: %s and %d more", displayTitle(first.Current), len(drops)-1)
	}

	var body strings.Builder
	for i, drop := range drops {
		if i > 0 {
			body.WriteString("\n")
		}
		fmt.Fprintf(&body, "Product: %s\n", displayTitle(drop.Current))
		fmt.Fprintf(&body, "Current Price: %s\n", formatPrice(drop.Current.Price.Decimal, drop.Current.Currency))
		fmt.Fprintf(&body, "Previous Price: %s\n", formatPrice(drop.Previous.Price.Decimal, drop.Previous.Currency))
		fmt.Fprintf(&body, "Price dropped by %s (%s%%)\n", formatPrice(drop.Amount, drop.Current.Currency),
			drop.Percent.StringFixed(1))
		fmt.Fprintf(&body, "URL: %s\n", drop.Current.URL)
		fmt.Fprintf(&body, "Checked at: %s\n", drop.Current.FetchedAt.Format(time.DateTime))
	}

	return Message{Subject: subject, Body: body.String()}
}

func displayTitle(s models.PriceSample) string {
	if s.Title != "" {
		return s.Title
	}
	return s.URL
}

func formatPrice(amount decimal.Decimal, currency string) string {
	switch currency {
	case "USD", "":
		return "$" + amount.StringFixed(2)
	case "EUR":
		return amount.StringFixed(2) + " €"
	case "GBP":
		return "£" + amount.StringFixed(2)
	default:
		return amount.StringFixed(2) + " " + currency
	}
}

// DefaultSenders builds an SMTP sender and a Telegram sender for whatever is configured.
func DefaultSenders(cfg models.AlertConfig) ([]Sender, error) {
	var senders []Sender

	if cfg.SMTP.Configured() {
		senders = append(senders, NewSMTPSender(cfg.SMTP, cfg.Recipient))
	}

	if cfg.Telegram.Configured() {
		tg, err := NewTelegramSender(cfg.Telegram)
		if err != nil {
			return nil, err
		}
		senders = append(senders, tg)
	}

	if len(senders) == 0 {
		return nil, errors.New("no delivery channel configured")
	}

	return senders, nil
}
