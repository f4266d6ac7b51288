package exporter

import (
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"vufs/engine/internal/domain"
	"vufs/engine/internal/vufs"
)

func testPayout(orderID string, net int64, soldAt time.Time) *domain.Payout {
	gross := decimal.NewFromInt(net).Mul(decimal.NewFromInt(2))
	return &domain.Payout{
		OrderID: orderID,
		SKU:     "APP-NIK-TSH-0001",
		OwnerID: "owner-1",
		Channel: "shopify",
		Breakdown: domain.FinancialBreakdown{
			GrossAmount:       gross,
			PlatformFee:       decimal.Zero,
			Commission:        decimal.NewFromInt(net),
			NetToOwner:        decimal.NewFromInt(net),
			ChannelConfigured: true,
		},
		SoldAt: soldAt,
	}
}

func TestBuildExport(t *testing.T) {
	t.Parallel()

	calc := vufs.NewCalculator(nil) // 30-day terms, 50.00 minimum payout
	e := NewExporter(t.TempDir())

	soldAt := time.Date(2026, time.January, 15, 12, 0, 0, 0, time.UTC)
	payouts := []*domain.Payout{
		testPayout("order-1", 200, soldAt),
		testPayout("order-2", 10, soldAt), // below minimum, held back
		testPayout("order-3", 50, soldAt), // exactly at minimum, included
	}

	filename, data, included, err := e.Build(calc, "shopify", payouts, soldAt)
	require.NoError(t, err)
	require.Equal(t, "vufs_export_shopify_2026-01-15_120000.csv", filename)

	require.Len(t, included, 2)
	require.Equal(t, "order-1", included[0].OrderID)
	require.Equal(t, "order-3", included[1].OrderID)

	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3) // header + 2 rows

	require.Equal(t, "order_id", records[0][0])
	require.Equal(t, "order-1", records[1][0])
	require.Equal(t, "200", records[1][6])
	require.Equal(t, "2026-01-15T12:00:00Z", records[1][8])
	require.Equal(t, "2026-02-14T12:00:00Z", records[1][9]) // 30-day terms
}

func TestWriteExport(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	e := NewExporter(dir)

	path, err := e.Write("vufs_export_shopify_2026-01-15_120000.csv", []byte("order_id\n"))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(path, dir))
	require.True(t, strings.HasSuffix(path, ".csv"))
}
