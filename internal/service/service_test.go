package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"vufs/engine/internal/domain"
	"vufs/engine/internal/domain/task"
	"vufs/engine/internal/exporter"
	"vufs/engine/internal/vufs"
)

type fakeQueue struct {
	added []task.Task
}

func (q *fakeQueue) AddTask(ctx context.Context, t task.Task) (string, error) {
	q.added = append(q.added, t)
	return "msg-1", nil
}

func (q *fakeQueue) GetTask(ctx context.Context, group, consumer, stream string) (*redis.XMessage, error) {
	return nil, nil
}

func (q *fakeQueue) AckTask(ctx context.Context, stream, group, msgID string) error { return nil }

func (q *fakeQueue) CreateGroup(ctx context.Context, stream, group string) error { return nil }

func (q *fakeQueue) AutoClaim(ctx context.Context, group, consumer, stream string, minIdleTime time.Duration) ([]redis.XMessage, error) {
	return nil, nil
}

func (q *fakeQueue) EnsureStreamsExist(ctx context.Context) error { return nil }

type savedItem struct {
	item     *domain.CatalogItem
	vufsCode string
	keywords []string
}

type fakeRepository struct {
	items      map[string]savedItem
	payouts    map[string]*domain.Payout
	exported   map[string]bool
	saveErr    error
	exportedBy map[string][]string
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		items:      make(map[string]savedItem),
		payouts:    make(map[string]*domain.Payout),
		exported:   make(map[string]bool),
		exportedBy: make(map[string][]string),
	}
}

func (r *fakeRepository) SaveCatalogItem(ctx context.Context, item *domain.CatalogItem, vufsCode string, keywords []string) error {
	r.items[item.SKU] = savedItem{item: item, vufsCode: vufsCode, keywords: keywords}
	return nil
}

func (r *fakeRepository) SavePayout(ctx context.Context, payout *domain.Payout) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.payouts[payout.OrderID] = payout
	return nil
}

func (r *fakeRepository) ListUnexportedPayouts(ctx context.Context, channel string) ([]*domain.Payout, error) {
	var out []*domain.Payout
	for _, payout := range r.payouts {
		if payout.Channel == channel && !r.exported[payout.OrderID] {
			out = append(out, payout)
		}
	}
	return out, nil
}

func (r *fakeRepository) MarkPayoutsExported(ctx context.Context, channel string, orderIDs []string) error {
	for _, id := range orderIDs {
		r.exported[id] = true
	}
	r.exportedBy[channel] = append(r.exportedBy[channel], orderIDs...)
	return nil
}

type fakeChannelClient struct {
	feeRates map[string]decimal.Decimal
	uploads  []string
}

func (c *fakeChannelClient) FetchFeeSchedule(ctx context.Context, channel string) (decimal.Decimal, error) {
	rate, ok := c.feeRates[channel]
	if !ok {
		return decimal.Zero, errors.New("fee page unavailable")
	}
	return rate, nil
}

func (c *fakeChannelClient) UploadExport(ctx context.Context, channel, filename string, payload []byte) error {
	c.uploads = append(c.uploads, filename)
	return nil
}

type fakeSequences struct {
	next    int
	markers map[string]string
}

func (s *fakeSequences) NextSKUSequence(ctx context.Context, category domain.ItemCategory, brandCode string) (int, error) {
	s.next++
	return s.next, nil
}

func (s *fakeSequences) GetLastExportMarker(ctx context.Context, channel string) (string, error) {
	return s.markers[channel], nil
}

func (s *fakeSequences) SetLastExportMarker(ctx context.Context, channel string, orderID string) error {
	if s.markers == nil {
		s.markers = make(map[string]string)
	}
	s.markers[channel] = orderID
	return nil
}

func newTestService(t *testing.T, repo *fakeRepository, q *fakeQueue, c *fakeChannelClient) *Service {
	t.Helper()
	return NewService(
		repo,
		c,
		q,
		&fakeSequences{},
		exporter.NewExporter(t.TempDir()),
		vufs.NewCalculator(nil),
		[]string{"shopify", "mercado"},
		"vufs_consumer",
		120,
	)
}

func TestListItem(t *testing.T) {
	t.Parallel()

	repo := newFakeRepository()
	svc := newTestService(t, repo, &fakeQueue{}, &fakeChannelClient{})

	item := domain.CatalogItem{
		Category:  domain.ItemCategoryApparel,
		Color:     "Black",
		Size:      "M",
		Gender:    "Men",
		Condition: "New",
		Price:     decimal.NewFromInt(100),
		OwnerID:   "owner-1",
		Apparel: &domain.ApparelDetails{
			PieceType: "T-Shirt",
			Material:  "Cotton",
			Fit:       "Regular",
		},
	}
	category := domain.CategoryHierarchy{
		Page:             "men",
		BlueSubcategory:  "clothing",
		WhiteSubcategory: "shirts",
		GraySubcategory:  "casual",
	}
	brand := domain.BrandHierarchy{Brand: "nike"}

	listed, vufsCode, err := svc.ListItem(context.Background(), item, category, brand, "T-Shirt")
	require.NoError(t, err)
	require.Equal(t, "APP-NIK-TSH-0001", listed.SKU)
	require.Equal(t, "Nike", listed.Brand)
	require.Equal(t, "VG-APPA-NIKX-00000001", vufsCode)
	require.True(t, vufs.IsValidVUFSCode(vufsCode))

	saved, ok := repo.items[listed.SKU]
	require.True(t, ok)
	require.Equal(t, vufsCode, saved.vufsCode)
	require.Contains(t, saved.keywords, "nike")
	require.Contains(t, saved.keywords, "men clothing")
}

func TestListItemNonASCIIBrand(t *testing.T) {
	t.Parallel()

	repo := newFakeRepository()
	svc := newTestService(t, repo, &fakeQueue{}, &fakeChannelClient{})

	item := domain.CatalogItem{
		Category:  domain.ItemCategoryApparel,
		Color:     "White",
		Size:      "S",
		Gender:    "Women",
		Condition: "New",
		Price:     decimal.NewFromInt(80),
		OwnerID:   "owner-2",
		Apparel: &domain.ApparelDetails{
			PieceType: "Dress",
			Material:  "Silk",
			Fit:       "Slim",
		},
	}
	category := domain.CategoryHierarchy{
		Page:             "Women",
		BlueSubcategory:  "Clothing",
		WhiteSubcategory: "Dresses",
		GraySubcategory:  "Evening",
	}
	brand := domain.BrandHierarchy{Brand: "Éclair Paris"}

	// The accented initial is outside the VUFS alphabet; the code segment
	// keeps the remaining initial and pads, instead of rejecting the item.
	listed, vufsCode, err := svc.ListItem(context.Background(), item, category, brand, "Dress")
	require.NoError(t, err)
	require.Equal(t, "VG-APPA-PXXX-00000001", vufsCode)
	require.True(t, vufs.IsValidVUFSCode(vufsCode))
	require.Equal(t, "APP-ÉP-DRE-0001", listed.SKU)
}

func TestListItemHierarchyErrors(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, newFakeRepository(), &fakeQueue{}, &fakeChannelClient{})

	_, _, err := svc.ListItem(context.Background(), domain.CatalogItem{},
		domain.CategoryHierarchy{}, domain.BrandHierarchy{}, "T-Shirt")
	require.Error(t, err)
	require.Contains(t, err.Error(), "Page is required")
	require.Contains(t, err.Error(), "Gray subcategory is required")
	require.Contains(t, err.Error(), "Brand is required")
}

func TestProcessPayout(t *testing.T) {
	t.Parallel()

	repo := newFakeRepository()
	svc := newTestService(t, repo, &fakeQueue{}, &fakeChannelClient{})

	payoutTask := &task.PayoutTask{
		OrderID:   "order-1",
		SKU:       "APP-NIK-TSH-0001",
		OwnerID:   "owner-1",
		Channel:   "shopify",
		SoldPrice: decimal.NewFromInt(1000),
		SoldAt:    time.Date(2026, time.January, 15, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, svc.processPayout(context.Background(), payoutTask))

	payout, ok := repo.payouts["order-1"]
	require.True(t, ok)
	require.True(t, decimal.RequireFromString("679.7").Equal(payout.Breakdown.NetToOwner),
		"got %s", payout.Breakdown.NetToOwner)
	require.False(t, payout.AutoRepass, "679.7 is under the 1000 threshold")

	bigSale := &task.PayoutTask{
		OrderID:   "order-2",
		Channel:   "shopify",
		SoldPrice: decimal.NewFromInt(2000),
	}
	require.NoError(t, svc.processPayout(context.Background(), bigSale))
	require.True(t, repo.payouts["order-2"].AutoRepass)
}

func TestProcessMessageRequeuesFailedPayout(t *testing.T) {
	t.Parallel()

	repo := newFakeRepository()
	repo.saveErr = errors.New("db down")
	q := &fakeQueue{}
	svc := newTestService(t, repo, q, &fakeChannelClient{})

	payoutTask := &task.PayoutTask{OrderID: "order-1", Channel: "shopify", SoldPrice: decimal.NewFromInt(100)}
	data, err := payoutTask.TaskValue()
	require.NoError(t, err)

	msg := &redis.XMessage{
		ID: "1-0",
		Values: map[string]interface{}{
			"task_type": "PayoutTask",
			"task_data": string(data),
		},
	}
	require.NoError(t, svc.processMessage(context.Background(), msg))

	require.Len(t, q.added, 1)
	retry, ok := q.added[0].(*task.PayoutRetryTask)
	require.True(t, ok)
	require.Equal(t, "order-1", retry.Original.OrderID)
	require.Equal(t, "db down", retry.Error)
}

func TestExportChannel(t *testing.T) {
	t.Parallel()

	repo := newFakeRepository()
	client := &fakeChannelClient{}
	svc := newTestService(t, repo, &fakeQueue{}, client)

	soldAt := time.Date(2026, time.February, 1, 9, 30, 0, 0, time.UTC)
	for _, p := range []*task.PayoutTask{
		{OrderID: "order-1", Channel: "shopify", SoldPrice: decimal.NewFromInt(1000), SoldAt: soldAt},
		{OrderID: "order-2", Channel: "shopify", SoldPrice: decimal.NewFromInt(10), SoldAt: soldAt}, // net below minimum
	} {
		require.NoError(t, svc.processPayout(context.Background(), p))
	}

	exportTask := &task.ChannelExportTask{Channel: "shopify", RequestedAt: soldAt}
	require.NoError(t, svc.exportChannel(context.Background(), exportTask))

	require.Equal(t, []string{"vufs_export_shopify_2026-02-01_093000.csv"}, client.uploads)
	require.Equal(t, []string{"order-1"}, repo.exportedBy["shopify"])
	require.True(t, repo.exported["order-1"])
	require.False(t, repo.exported["order-2"], "held payout must stay unexported")
}

func TestSyncFeeSchedules(t *testing.T) {
	t.Parallel()

	client := &fakeChannelClient{
		feeRates: map[string]decimal.Decimal{
			"mercado": decimal.NewFromFloat(0.05),
		},
	}
	svc := newTestService(t, newFakeRepository(), &fakeQueue{}, client)

	require.NoError(t, svc.SyncFeeSchedules(context.Background()))

	settings := svc.calculator().Settings()
	rate, ok := settings.FeeRateFor("mercado")
	require.True(t, ok)
	require.True(t, decimal.NewFromFloat(0.05).Equal(rate))

	// shopify's fee page was unavailable; its configured rate survives.
	rate, ok = settings.FeeRateFor("shopify")
	require.True(t, ok)
	require.True(t, decimal.NewFromFloat(0.029).Equal(rate))
}
