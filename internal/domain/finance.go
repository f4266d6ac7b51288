package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ConsignmentSettings is an immutable configuration snapshot passed into
// payout calculations. The engine never mutates it.
type ConsignmentSettings struct {
	DefaultCommissionRate decimal.Decimal            `json:"default_commission_rate"` // fraction, 0-1
	PlatformFeeRates      map[string]decimal.Decimal `json:"platform_fee_rates"`      // export channel -> fee fraction
	PaymentTermsDays      int                        `json:"payment_terms_days"`
	MinimumPayout         decimal.Decimal            `json:"minimum_payout"`
	AutoRepassThreshold   decimal.Decimal            `json:"auto_repass_threshold"`
}

// FeeRateFor returns the configured platform fee rate for a channel. The
// second result is false when the channel has no entry, letting callers
// tell "not configured" apart from "configured at zero".
func (s ConsignmentSettings) FeeRateFor(channel string) (decimal.Decimal, bool) {
	rate, ok := s.PlatformFeeRates[channel]
	if !ok {
		return decimal.Zero, false
	}
	return rate, true
}

// DefaultConsignmentSettings returns the defaults applied when a caller
// supplies no settings: 30% commission, 2.9% shopify fee, 1000.00
// auto-repass threshold. Each call returns a fresh value so callers can
// adjust their copy without sharing state.
func DefaultConsignmentSettings() ConsignmentSettings {
	return ConsignmentSettings{
		DefaultCommissionRate: decimal.NewFromFloat(0.30),
		PlatformFeeRates: map[string]decimal.Decimal{
			"shopify": decimal.NewFromFloat(0.029),
		},
		PaymentTermsDays:    30,
		MinimumPayout:       decimal.NewFromInt(50),
		AutoRepassThreshold: decimal.NewFromInt(1000),
	}
}

// FinancialBreakdown is the exact payout split for one sale.
// GrossAmount = (GrossAmount - PlatformFee) + PlatformFee and
// NetToOwner = (GrossAmount - PlatformFee) - Commission.
type FinancialBreakdown struct {
	GrossAmount decimal.Decimal `json:"gross_amount"`
	PlatformFee decimal.Decimal `json:"platform_fee"`
	Commission  decimal.Decimal `json:"commission"`
	NetToOwner  decimal.Decimal `json:"net_to_owner"`

	// ChannelConfigured is false when the export channel had no fee-rate
	// entry and the permissive zero-fee default applied.
	ChannelConfigured bool `json:"channel_configured"`
}

// Payout is one ledger entry produced from a completed sale.
type Payout struct {
	OrderID    string             `json:"order_id"`
	SKU        string             `json:"sku"`
	OwnerID    string             `json:"owner_id"`
	Channel    string             `json:"channel"`
	Breakdown  FinancialBreakdown `json:"breakdown"`
	AutoRepass bool               `json:"auto_repass"`
	SoldAt     time.Time          `json:"sold_at"`
}
