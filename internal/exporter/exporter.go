package exporter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"

	"vufs/engine/internal/domain"
	"vufs/engine/internal/vufs"
)

// Exporter renders per-channel payout export files. Payouts below the
// configured minimum are held back from the file; they stay unexported
// until the owner's balance clears the minimum.
type Exporter struct {
	outputDir string
}

func NewExporter(outputDir string) *Exporter {
	return &Exporter{
		outputDir: outputDir,
	}
}

// Build renders the CSV export for one channel against the caller's current
// calculator snapshot. It returns the deterministic filename, the file
// contents, and the payouts that made the cut (the rest are held for a
// later run).
func (e *Exporter) Build(calc *vufs.Calculator, channel string, payouts []*domain.Payout, at time.Time) (string, []byte, []*domain.Payout, error) {
	settings := calc.Settings()
	terms := time.Duration(settings.PaymentTermsDays) * 24 * time.Hour

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"order_id", "sku", "owner_id", "gross_amount", "platform_fee", "commission", "net_to_owner", "auto_repass", "sold_at", "due_at"}
	if err := w.Write(header); err != nil {
		return "", nil, nil, fmt.Errorf("failed to write export header: %w", err)
	}

	included := make([]*domain.Payout, 0, len(payouts))
	for _, payout := range payouts {
		if payout.Breakdown.NetToOwner.LessThan(settings.MinimumPayout) {
			log.Debugf("Holding payout %s: net %s below minimum %s",
				payout.OrderID, payout.Breakdown.NetToOwner, settings.MinimumPayout)
			continue
		}

		row := []string{
			payout.OrderID,
			payout.SKU,
			payout.OwnerID,
			payout.Breakdown.GrossAmount.String(),
			payout.Breakdown.PlatformFee.String(),
			payout.Breakdown.Commission.String(),
			payout.Breakdown.NetToOwner.String(),
			strconv.FormatBool(payout.AutoRepass),
			payout.SoldAt.UTC().Format(time.RFC3339),
			payout.SoldAt.Add(terms).UTC().Format(time.RFC3339),
		}
		if err := w.Write(row); err != nil {
			return "", nil, nil, fmt.Errorf("failed to write export row for order %s: %w", payout.OrderID, err)
		}
		included = append(included, payout)
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", nil, nil, fmt.Errorf("failed to flush export: %w", err)
	}

	filename := calc.ExportFilename(channel, at)
	return filename, buf.Bytes(), included, nil
}

// Write saves a built export under the configured output directory and
// returns the full path.
func (e *Exporter) Write(filename string, data []byte) (string, error) {
	if err := os.MkdirAll(e.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	path := filepath.Join(e.outputDir, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write export file %s: %w", path, err)
	}

	return path, nil
}
