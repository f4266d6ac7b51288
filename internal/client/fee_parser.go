package client

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// feeScheduleParser extracts the platform fee fraction from a channel's
// published fee-schedule page. Channels render the schedule as an HTML
// table with a "Platform Fee" row holding a percentage like "2.9%".
type feeScheduleParser struct {
	percentRegex *regexp.Regexp
}

func newFeeScheduleParser() *feeScheduleParser {
	return &feeScheduleParser{
		percentRegex: regexp.MustCompile(`(\d+(?:\.\d+)?)\s*%`),
	}
}

func (p *feeScheduleParser) ParseFeeRate(html string) (decimal.Decimal, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse HTML: %w", err)
	}

	// Look for the table row labeled "Platform Fee" first.
	var percentText string
	doc.Find("tr").Each(func(i int, tr *goquery.Selection) {
		if percentText != "" {
			return
		}
		rowText := strings.TrimSpace(tr.Text())
		if strings.Contains(rowText, "Platform Fee") {
			if matches := p.percentRegex.FindStringSubmatch(rowText); len(matches) > 1 {
				percentText = matches[1]
			}
		}
	})

	// Some channels publish the fee in running text instead of a table.
	if percentText == "" {
		fullText := doc.Text()
		re := regexp.MustCompile(`Platform Fee[^%]*?(\d+(?:\.\d+)?)\s*%`)
		if matches := re.FindStringSubmatch(fullText); len(matches) > 1 {
			percentText = matches[1]
			log.Debugf("Found fee rate via full text: %s%%", percentText)
		}
	}

	if percentText == "" {
		return decimal.Zero, fmt.Errorf("no platform fee found in fee schedule page")
	}

	percent, err := decimal.NewFromString(percentText)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse fee percentage %q: %w", percentText, err)
	}

	return percent.Div(decimal.NewFromInt(100)), nil
}
