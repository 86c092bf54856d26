// Package pricing estimates the messaging cost of a broadcast.
//
// Per-message prices come only from configuration. Different screens of the
// product historically showed different prices for the same channel, so no
// default is assumed: an unpriced channel is an error.
package pricing

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/shopspring/decimal"

	"recoverydesk/internal/config"
	"recoverydesk/internal/validation"
)

var (
	ErrChannelNotPriced = errors.New("channel has no configured price")
	ErrInvalidPrice     = errors.New("invalid channel price")
)

// MaxCostPlaces is the most decimal places a per-message cost may have. It
// matches the scale of the stored estimated cost, so a stored estimate always
// equals the computed one.
const MaxCostPlaces = 4

// Price is the cost of a single message on a channel.
type Price struct {
	CostPerMessage decimal.Decimal `json:"cost_per_message"`
	Currency       string          `json:"currency"`
}

// Estimate is the priced cost of sending count messages.
type Estimate struct {
	Channel        string          `json:"channel"`
	Count          int             `json:"count"`
	CostPerMessage decimal.Decimal `json:"cost_per_message"`
	Total          decimal.Decimal `json:"total"`
	Currency       string          `json:"currency"`
}

// Table maps a normalized channel key to its price.
type Table struct {
	prices map[string]Price
}

// NewTable builds a price table from configuration.
func NewTable(cfg config.PricingConfig) (*Table, error) {
	t := &Table{prices: make(map[string]Price, len(cfg.Channels))}
	for name, pc := range cfg.Channels {
		channel := validation.NormalizeChannel(name)
		if !validation.ValidateChannel(channel) {
			return nil, fmt.Errorf("%w: bad channel key %q", ErrInvalidPrice, name)
		}
		cost, err := decimal.NewFromString(pc.CostPerMessage)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidPrice, channel, err)
		}
		if cost.IsNegative() {
			return nil, fmt.Errorf("%w: %s: negative cost", ErrInvalidPrice, channel)
		}
		if !cost.Equal(cost.Truncate(MaxCostPlaces)) {
			return nil, fmt.Errorf("%w: %s: more than %d decimal places", ErrInvalidPrice, channel, MaxCostPlaces)
		}
		if pc.Currency == "" {
			return nil, fmt.Errorf("%w: %s: currency is required", ErrInvalidPrice, channel)
		}
		t.prices[channel] = Price{CostPerMessage: cost, Currency: pc.Currency}
	}
	return t, nil
}

// Channels returns the priced channel keys in sorted order.
func (t *Table) Channels() []string {
	channels := make([]string, 0, len(t.prices))
	for c := range t.prices {
		channels = append(channels, c)
	}
	sort.Strings(channels)
	return channels
}

// Price returns the configured price for channel.
func (t *Table) Price(channel string) (Price, error) {
	p, ok := t.prices[validation.NormalizeChannel(channel)]
	if !ok {
		return Price{}, ErrChannelNotPriced
	}
	return p, nil
}

// Estimate prices count messages on channel. Negative counts are treated as zero.
func (t *Table) Estimate(channel string, count int) (Estimate, error) {
	channel = validation.NormalizeChannel(channel)
	p, err := t.Price(channel)
	if err != nil {
		return Estimate{}, err
	}
	count = max(count, 0)
	return Estimate{
		Channel:        channel,
		Count:          count,
		CostPerMessage: p.CostPerMessage,
		Total:          p.CostPerMessage.Mul(decimal.NewFromInt(int64(count))),
		Currency:       p.Currency,
	}, nil
}

// Currencies returns the distinct currencies in use.
func (t *Table) Currencies() []string {
	seen := make(map[string]bool)
	var out []string
	for _, c := range t.Channels() {
		cur := t.prices[c].Currency
		if !seen[cur] {
			seen[cur] = true
			out = append(out, cur)
		}
	}
	return out
}

// LogWarnings reports configuration that is likely a mistake.
func (t *Table) LogWarnings(logger *slog.Logger) {
	if len(t.prices) == 0 {
		logger.Warn("no channel pricing configured; cost estimates are unavailable")
		return
	}
	if cur := t.Currencies(); len(cur) > 1 {
		logger.Warn("channel pricing mixes currencies; totals are not comparable across channels", "currencies", cur)
	}
}
