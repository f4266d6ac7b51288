package vufs

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"vufs/engine/internal/domain"
)

// Calculator computes consignment payout splits against one immutable
// settings snapshot. All money math runs on shopspring/decimal so no cents
// are lost to binary floating point. Safe for concurrent use.
type Calculator struct {
	settings domain.ConsignmentSettings
	now      func() time.Time
}

// NewCalculator creates a calculator over the given settings; nil falls
// back to domain.DefaultConsignmentSettings().
func NewCalculator(settings *domain.ConsignmentSettings) *Calculator {
	s := domain.DefaultConsignmentSettings()
	if settings != nil {
		s = *settings
	}
	return &Calculator{
		settings: s,
		now:      time.Now,
	}
}

// Settings returns the snapshot the calculator was built with.
func (c *Calculator) Settings() domain.ConsignmentSettings {
	return c.settings
}

// Calculate splits a sold price into platform fee, commission, and net
// payout to the owner. An export channel without a configured fee rate is
// not an error: it silently gets a zero fee (a compatibility policy), and
// the breakdown's ChannelConfigured flag lets callers audit that case.
// No rounding is applied; display rounding belongs to the caller.
func (c *Calculator) Calculate(soldPrice decimal.Decimal, channel string) domain.FinancialBreakdown {
	feeRate, configured := c.settings.FeeRateFor(channel)

	gross := soldPrice
	platformFee := gross.Mul(feeRate)
	commissionBase := gross.Sub(platformFee)
	commission := commissionBase.Mul(c.settings.DefaultCommissionRate)
	netToOwner := commissionBase.Sub(commission)

	return domain.FinancialBreakdown{
		GrossAmount:       gross,
		PlatformFee:       platformFee,
		Commission:        commission,
		NetToOwner:        netToOwner,
		ChannelConfigured: configured,
	}
}

// ShouldAutoRepass reports whether accumulated owner proceeds trigger an
// automatic payout. The threshold is inclusive: an exactly-equal amount
// qualifies.
func (c *Calculator) ShouldAutoRepass(amount decimal.Decimal) bool {
	return amount.GreaterThanOrEqual(c.settings.AutoRepassThreshold)
}

// ExportFilename renders the deterministic per-channel export name
// vufs_export_{channel}_{YYYY-MM-DD}_{HHMMSS}.csv. A zero timestamp uses
// the calculator's clock, which tests may replace.
func (c *Calculator) ExportFilename(channel string, at time.Time) string {
	if at.IsZero() {
		at = c.now()
	}
	return fmt.Sprintf("vufs_export_%s_%s_%s.csv",
		channel,
		at.Format("2006-01-02"),
		at.Format("150405"))
}
