package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"vufs/engine/internal/client"
	"vufs/engine/internal/domain"
	"vufs/engine/internal/domain/task"
	"vufs/engine/internal/exporter"
	"vufs/engine/internal/queue"
	"vufs/engine/internal/repository"
	"vufs/engine/internal/state"
	"vufs/engine/internal/vufs"
)

type Service struct {
	repository  repository.PayoutRepository
	client      client.ChannelClient
	queue       queue.Queue
	sequences   state.SequenceAllocator
	exporter    *exporter.Exporter
	channels    []string
	groupName   string
	minIdleTime time.Duration

	// calc is swapped wholesale when fee schedules are re-synced; the
	// calculator itself stays immutable.
	calcMu sync.RWMutex
	calc   *vufs.Calculator
}

func NewService(
	repository repository.PayoutRepository,
	client client.ChannelClient,
	queue queue.Queue,
	sequences state.SequenceAllocator,
	exporter *exporter.Exporter,
	calc *vufs.Calculator,
	channels []string,
	groupName string,
	minIdleTime int,
) *Service {
	return &Service{
		repository:  repository,
		client:      client,
		queue:       queue,
		sequences:   sequences,
		exporter:    exporter,
		calc:        calc,
		channels:    channels,
		groupName:   groupName,
		minIdleTime: time.Duration(minIdleTime) * time.Second,
	}
}

func (s *Service) calculator() *vufs.Calculator {
	s.calcMu.RLock()
	defer s.calcMu.RUnlock()
	return s.calc
}

// ListItem validates and normalizes a candidate catalog item, assigns its
// SKU and VUFS code, derives its search keywords, and persists the result.
// Validation failures come back as one error listing every defect.
func (s *Service) ListItem(
	ctx context.Context,
	item domain.CatalogItem,
	category domain.CategoryHierarchy,
	brand domain.BrandHierarchy,
	itemTypeLabel string,
) (*domain.CatalogItem, string, error) {
	var errs []string
	errs = append(errs, vufs.ValidateCategoryHierarchy(category)...)
	errs = append(errs, vufs.ValidateBrandHierarchy(brand)...)
	if len(errs) > 0 {
		return nil, "", fmt.Errorf("hierarchy validation failed: %s", strings.Join(errs, "; "))
	}

	category = vufs.NormalizeCategoryHierarchy(category)
	brand = vufs.NormalizeBrandHierarchy(brand)

	brandCode := vufs.BrandCode(brand.Brand)
	sequence, err := s.sequences.NextSKUSequence(ctx, item.Category, brandCode)
	if err != nil {
		return nil, "", fmt.Errorf("failed to allocate SKU sequence: %w", err)
	}

	item.Brand = brand.Brand
	item.SKU = vufs.GenerateSKU(item.Category, brand.Brand, itemTypeLabel, sequence)

	if errs := vufs.ValidateCatalogItem(item); len(errs) > 0 {
		return nil, "", fmt.Errorf("item validation failed: %s", strings.Join(errs, "; "))
	}

	vufsCode, ok := vufs.BuildVUFSCode(
		vufsCategoryCode(item.Category),
		padBrandCode(brandCode),
		fmt.Sprintf("%08d", sequence),
	)
	if !ok {
		return nil, "", fmt.Errorf("failed to build VUFS code for SKU %s", item.SKU)
	}

	keywords := vufs.GenerateSearchKeywords(category, brand)

	if err := s.repository.SaveCatalogItem(ctx, &item, vufsCode, keywords); err != nil {
		return nil, "", fmt.Errorf("failed to persist catalog item: %w", err)
	}

	log.Infof("✅ Listed item %s (%s) with %d keywords", item.SKU, vufsCode, len(keywords))
	return &item, vufsCode, nil
}

// vufsCategoryCode maps a category to its fixed 4-letter VUFS code segment.
func vufsCategoryCode(category domain.ItemCategory) string {
	runes := []rune(category.String())
	if len(runes) > 4 {
		runes = runes[:4]
	}
	return string(runes)
}

// padBrandCode widens a SKU brand code to the 4-character VUFS segment,
// padding with X ("CK" -> "CKXX"). Only A-Z and 0-9 survive the VUFS
// contract, so runes outside it (accented initials like É) are dropped
// rather than byte-mangled.
func padBrandCode(brandCode string) string {
	runes := make([]rune, 0, 4)
	for _, r := range brandCode {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			runes = append(runes, r)
			if len(runes) == 4 {
				break
			}
		}
	}
	for len(runes) < 4 {
		runes = append(runes, 'X')
	}
	return string(runes)
}

// RecordSale enqueues a completed sale for payout processing.
func (s *Service) RecordSale(ctx context.Context, sale *task.PayoutTask) error {
	if _, err := s.queue.AddTask(ctx, sale); err != nil {
		return fmt.Errorf("failed to enqueue payout for order %s: %w", sale.OrderID, err)
	}
	log.Infof("📦 Queued payout for order %s on channel %s", sale.OrderID, sale.Channel)
	return nil
}

// RequestExport enqueues an export run for every configured channel.
func (s *Service) RequestExport(ctx context.Context, at time.Time) error {
	for _, channel := range s.channels {
		exportTask := &task.ChannelExportTask{
			Channel:     channel,
			RequestedAt: at,
		}
		if _, err := s.queue.AddTask(ctx, exportTask); err != nil {
			return fmt.Errorf("failed to enqueue export for channel %s: %w", channel, err)
		}
	}
	return nil
}

// SyncFeeSchedules refreshes the platform fee rates from the channels'
// published fee pages and swaps in a calculator over the updated snapshot.
// A channel whose page cannot be fetched keeps its configured rate.
func (s *Service) SyncFeeSchedules(ctx context.Context) error {
	current := s.calculator().Settings()

	updated := make(map[string]decimal.Decimal, len(current.PlatformFeeRates))
	for channel, rate := range current.PlatformFeeRates {
		updated[channel] = rate
	}

	changed := false
	for _, channel := range s.channels {
		rate, err := s.client.FetchFeeSchedule(ctx, channel)
		if err != nil {
			log.Warnf("⚠️ Fee sync failed for channel %s, keeping configured rate: %v", channel, err)
			continue
		}
		if existing, ok := updated[channel]; !ok || !existing.Equal(rate) {
			log.Infof("🔄 Fee rate for channel %s updated to %s", channel, rate)
			updated[channel] = rate
			changed = true
		}
	}

	if !changed {
		return nil
	}

	current.PlatformFeeRates = updated
	s.calcMu.Lock()
	s.calc = vufs.NewCalculator(&current)
	s.calcMu.Unlock()
	return nil
}

// RunWorkers starts the stream consumers: payout workers, retry workers at
// half strength, and a single export worker so channel exports never race
// each other.
func (s *Service) RunWorkers(ctx context.Context, numWorkers int) error {
	var wg sync.WaitGroup

	s.runWorkersForStream(ctx, &wg, numWorkers, task.StreamName("PayoutTask"), "payout")
	s.runWorkersForStream(ctx, &wg, max(1, numWorkers/2), task.StreamName("PayoutRetryTask"), "retry")
	s.runWorkersForStream(ctx, &wg, 1, task.StreamName("ChannelExportTask"), "export")

	wg.Wait()
	return nil
}

func (s *Service) runWorkersForStream(ctx context.Context, wg *sync.WaitGroup, numWorkers int, streamName, workerType string) {
	// Auto-claimer for this stream
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(s.minIdleTime)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				consumer := fmt.Sprintf("autoclaimer-%s-%d", workerType, time.Now().UnixNano())
				claimedMessages, err := s.queue.AutoClaim(ctx, s.groupName, consumer, streamName, s.minIdleTime)
				if err != nil {
					log.Errorf("❌ Failed to auto-claim messages for %s: %v", streamName, err)
					continue
				}
				for _, msg := range claimedMessages {
					if err := s.processMessage(ctx, &msg); err != nil {
						log.Errorf("❌ Failed to process auto-claimed message %s: %v", msg.ID, err)
					}
				}
			}
		}
	}()

	// Regular workers for this stream
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			consumer := fmt.Sprintf("%s-worker-%d", workerType, workerID)
			log.Infof("🚀 Starting %s worker %d as consumer %s", workerType, workerID, consumer)
			for {
				select {
				case <-ctx.Done():
					log.Infof("🛑 %s worker %d stopping", workerType, workerID)
					return
				default:
					msg, err := s.queue.GetTask(ctx, s.groupName, consumer, streamName)
					if err != nil {
						log.Errorf("❌ Failed to get task from %s: %v", streamName, err)
						continue
					}

					if msg != nil {
						if err := s.processMessage(ctx, msg); err != nil {
							log.Errorf("❌ Failed to process message %s: %v", msg.ID, err)
						}
					}
				}
			}
		}(i + 1)
	}
}

func (s *Service) processMessage(ctx context.Context, msg *redis.XMessage) error {
	taskType, ok := msg.Values["task_type"].(string)
	if !ok {
		return fmt.Errorf("invalid task type in message %s", msg.ID)
	}

	taskData, ok := msg.Values["task_data"].(string)
	if !ok {
		return fmt.Errorf("invalid task data in message %s", msg.ID)
	}

	streamName := task.StreamName(taskType)
	switch taskType {
	case "PayoutTask":
		payoutTask, err := task.UnmarshalTask[*task.PayoutTask]([]byte(taskData))
		if err != nil {
			return fmt.Errorf("failed to unmarshal payout task data: %w", err)
		}

		if err := s.processPayout(ctx, payoutTask); err != nil {
			// Move to the retry queue instead of failing completely
			retryTask := &task.PayoutRetryTask{
				Original:     *payoutTask,
				RetryCount:   0,
				Error:        err.Error(),
				FailureStage: "save",
			}
			if _, addErr := s.queue.AddTask(ctx, retryTask); addErr != nil {
				log.Errorf("❌ Failed to add retry task for order %s: %v", payoutTask.OrderID, addErr)
			} else {
				log.Warnf("🔄 Added order %s to retry queue due to error: %v", payoutTask.OrderID, err)
			}
		}

	case "PayoutRetryTask":
		retryTask, err := task.UnmarshalTask[*task.PayoutRetryTask]([]byte(taskData))
		if err != nil {
			return fmt.Errorf("failed to unmarshal retry task data: %w", err)
		}

		if err := s.retryPayout(ctx, retryTask); err != nil {
			return fmt.Errorf("failed to retry payout: %w", err)
		}

	case "ChannelExportTask":
		exportTask, err := task.UnmarshalTask[*task.ChannelExportTask]([]byte(taskData))
		if err != nil {
			return fmt.Errorf("failed to unmarshal export task data: %w", err)
		}

		if err := s.exportChannel(ctx, exportTask); err != nil {
			return fmt.Errorf("failed to export channel %s: %w", exportTask.Channel, err)
		}

	default:
		return fmt.Errorf("unknown task type: %s", taskType)
	}

	if err := s.queue.AckTask(ctx, streamName, s.groupName, msg.ID); err != nil {
		return fmt.Errorf("failed to ack message %s: %w", msg.ID, err)
	}

	return nil
}

func (s *Service) processPayout(ctx context.Context, payoutTask *task.PayoutTask) error {
	calc := s.calculator()

	breakdown := calc.Calculate(payoutTask.SoldPrice, payoutTask.Channel)
	if !breakdown.ChannelConfigured {
		// Zero fee applied by policy; flag it so operators can audit
		// misconfigured channels instead of silently under-charging.
		log.Warnf("⚠️ Channel %s has no configured fee rate, applied zero fee for order %s",
			payoutTask.Channel, payoutTask.OrderID)
	}

	autoRepass := calc.ShouldAutoRepass(breakdown.NetToOwner)
	payout := payoutTask.Payout(breakdown, autoRepass)

	if err := s.repository.SavePayout(ctx, payout); err != nil {
		return fmt.Errorf("failed to save payout for order %s: %w", payoutTask.OrderID, err)
	}

	log.Infof("💰 Payout saved for order %s: net %s to owner %s (auto-repass: %t)",
		payout.OrderID, breakdown.NetToOwner, payout.OwnerID, autoRepass)
	return nil
}

func (s *Service) retryPayout(ctx context.Context, retryTask *task.PayoutRetryTask) error {
	retryTask.RetryCount++

	log.Infof("🔄 Retrying payout for order %s (attempt %d)",
		retryTask.Original.OrderID, retryTask.RetryCount)

	if err := s.processPayout(ctx, &retryTask.Original); err != nil {
		// Re-queue with the incremented count - retry indefinitely
		newRetryTask := &task.PayoutRetryTask{
			Original:     retryTask.Original,
			RetryCount:   retryTask.RetryCount,
			Error:        err.Error(),
			FailureStage: "save",
		}
		if _, addErr := s.queue.AddTask(ctx, newRetryTask); addErr != nil {
			log.Errorf("❌ Failed to re-add retry task for order %s: %v", retryTask.Original.OrderID, addErr)
			return addErr
		}

		log.Warnf("🔄 Payout for order %s failed again, will retry (attempt %d): %v",
			retryTask.Original.OrderID, retryTask.RetryCount, err)
		return nil
	}

	log.Infof("✅ Successfully recovered payout for order %s after %d attempts",
		retryTask.Original.OrderID, retryTask.RetryCount)
	return nil
}

func (s *Service) exportChannel(ctx context.Context, exportTask *task.ChannelExportTask) error {
	marker, err := s.sequences.GetLastExportMarker(ctx, exportTask.Channel)
	if err != nil {
		return err
	}
	if marker != "" {
		log.Infof("🔄 Resuming exports for channel %s after order %s", exportTask.Channel, marker)
	}

	payouts, err := s.repository.ListUnexportedPayouts(ctx, exportTask.Channel)
	if err != nil {
		return fmt.Errorf("failed to load payouts for channel %s: %w", exportTask.Channel, err)
	}
	if len(payouts) == 0 {
		log.Infof("Nothing to export for channel %s", exportTask.Channel)
		return nil
	}

	filename, data, included, err := s.exporter.Build(s.calculator(), exportTask.Channel, payouts, exportTask.RequestedAt)
	if err != nil {
		return fmt.Errorf("failed to build export for channel %s: %w", exportTask.Channel, err)
	}
	if len(included) == 0 {
		log.Infof("All %d payouts for channel %s are below the minimum, export skipped",
			len(payouts), exportTask.Channel)
		return nil
	}

	if _, err := s.exporter.Write(filename, data); err != nil {
		return err
	}

	if err := s.client.UploadExport(ctx, exportTask.Channel, filename, data); err != nil {
		return err
	}

	orderIDs := make([]string, len(included))
	for i, payout := range included {
		orderIDs[i] = payout.OrderID
	}
	if err := s.repository.MarkPayoutsExported(ctx, exportTask.Channel, orderIDs); err != nil {
		return err
	}
	if err := s.sequences.SetLastExportMarker(ctx, exportTask.Channel, orderIDs[len(orderIDs)-1]); err != nil {
		log.Warnf("⚠️ Failed to save export marker for channel %s: %v", exportTask.Channel, err)
	}

	log.Infof("✅ Exported %d payouts for channel %s as %s", len(included), exportTask.Channel, filename)
	return nil
}
