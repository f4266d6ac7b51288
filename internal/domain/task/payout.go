package task

import (
	"time"

	"github.com/shopspring/decimal"

	"vufs/engine/internal/domain"
)

type PayoutTask struct {
	OrderID   string          `json:"order_id"`
	SKU       string          `json:"sku"`
	OwnerID   string          `json:"owner_id"`
	Channel   string          `json:"channel"` // export channel the sale went through
	SoldPrice decimal.Decimal `json:"sold_price"`
	SoldAt    time.Time       `json:"sold_at"`
}

func (t *PayoutTask) TaskType() string {
	return "PayoutTask"
}

func (t *PayoutTask) TaskValue() ([]byte, error) {
	return marshalTask(t)
}

// Payout builds the ledger record for this sale from a computed breakdown.
func (t *PayoutTask) Payout(breakdown domain.FinancialBreakdown, autoRepass bool) *domain.Payout {
	return &domain.Payout{
		OrderID:    t.OrderID,
		SKU:        t.SKU,
		OwnerID:    t.OwnerID,
		Channel:    t.Channel,
		Breakdown:  breakdown,
		AutoRepass: autoRepass,
		SoldAt:     t.SoldAt,
	}
}
