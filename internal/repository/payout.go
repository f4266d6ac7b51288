package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"vufs/engine/internal/domain"
)

type PayoutRepository interface {
	SaveCatalogItem(ctx context.Context, item *domain.CatalogItem, vufsCode string, keywords []string) error
	SavePayout(ctx context.Context, payout *domain.Payout) error
	ListUnexportedPayouts(ctx context.Context, channel string) ([]*domain.Payout, error)
	MarkPayoutsExported(ctx context.Context, channel string, orderIDs []string) error
}

type payoutRepository struct {
	db *pgxpool.Pool
}

func NewPayoutRepository(db *pgxpool.Pool) PayoutRepository {
	return &payoutRepository{
		db: db,
	}
}

func (r *payoutRepository) SaveCatalogItem(ctx context.Context, item *domain.CatalogItem, vufsCode string, keywords []string) error {
	query := `
	INSERT INTO catalog_items (sku, vufs_code, category, keywords, data)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (sku)
	DO UPDATE SET vufs_code = $2, category = $3, keywords = $4, data = $5`
	_, err := r.db.Exec(ctx, query, item.SKU, vufsCode, item.Category.String(), keywords, item)
	if err != nil {
		return fmt.Errorf("failed to save catalog item %s: %w", item.SKU, err)
	}

	return nil
}

func (r *payoutRepository) SavePayout(ctx context.Context, payout *domain.Payout) error {
	query := `
	INSERT INTO payouts (order_id, channel, owner_id, exported, data)
	VALUES ($1, $2, $3, false, $4)
	ON CONFLICT (order_id)
	DO UPDATE SET channel = $2, owner_id = $3, data = $4`
	_, err := r.db.Exec(ctx, query, payout.OrderID, payout.Channel, payout.OwnerID, payout)
	if err != nil {
		return fmt.Errorf("failed to save payout for order %s: %w", payout.OrderID, err)
	}

	return nil
}

func (r *payoutRepository) ListUnexportedPayouts(ctx context.Context, channel string) ([]*domain.Payout, error) {
	query := `
	SELECT data FROM payouts
	WHERE channel = $1 AND exported = false
	ORDER BY order_id`
	rows, err := r.db.Query(ctx, query, channel)
	if err != nil {
		return nil, fmt.Errorf("failed to list unexported payouts for channel %s: %w", channel, err)
	}
	defer rows.Close()

	var payouts []*domain.Payout
	for rows.Next() {
		var payout domain.Payout
		if err := rows.Scan(&payout); err != nil {
			return nil, fmt.Errorf("failed to scan payout row: %w", err)
		}
		payouts = append(payouts, &payout)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read payout rows: %w", err)
	}

	return payouts, nil
}

func (r *payoutRepository) MarkPayoutsExported(ctx context.Context, channel string, orderIDs []string) error {
	if len(orderIDs) == 0 {
		return nil
	}

	query := `
	UPDATE payouts SET exported = true
	WHERE channel = $1 AND order_id = ANY($2)`
	_, err := r.db.Exec(ctx, query, channel, orderIDs)
	if err != nil {
		return fmt.Errorf("failed to mark payouts exported for channel %s: %w", channel, err)
	}

	return nil
}
