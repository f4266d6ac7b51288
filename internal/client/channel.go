package client

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"go.uber.org/ratelimit"
	"resty.dev/v3"

	"vufs/engine/internal/config"
)

// ChannelClient talks to the export channels' marketplace endpoints: it
// reads each channel's published fee-schedule page and uploads generated
// payout export files.
type ChannelClient interface {
	FetchFeeSchedule(ctx context.Context, channel string) (decimal.Decimal, error)
	UploadExport(ctx context.Context, channel, filename string, payload []byte) error
}

type channelClient struct {
	rl         ratelimit.Limiter
	config     config.ChannelsConfig
	httpClient *resty.Client
	parser     *feeScheduleParser
}

func NewChannelClient(cfg config.ChannelsConfig) ChannelClient {
	client := resty.New().
		SetTimeout(time.Duration(cfg.Timeout)*time.Second).
		SetRetryCount(cfg.MaxRetries).
		SetRetryWaitTime(2*time.Second).
		SetRetryMaxWaitTime(10*time.Second).
		SetHeader("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8").
		SetHeader("Accept-Language", "en-US,en;q=0.5")

	return &channelClient{
		rl:         ratelimit.New(cfg.MaxRequestsPerSecond),
		config:     cfg,
		httpClient: client,
		parser:     newFeeScheduleParser(),
	}
}

func (c *channelClient) endpoint(channel string) (string, error) {
	baseURL, ok := c.config.Endpoints[channel]
	if !ok {
		return "", fmt.Errorf("no endpoint configured for channel %s", channel)
	}
	return baseURL, nil
}

func (c *channelClient) FetchFeeSchedule(ctx context.Context, channel string) (decimal.Decimal, error) {
	baseURL, err := c.endpoint(channel)
	if err != nil {
		return decimal.Zero, err
	}

	c.rl.Take()

	url := baseURL + c.config.FeePagePath
	resp, err := c.httpClient.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to fetch fee schedule from %s: %w", url, err)
	}
	if resp.IsError() {
		return decimal.Zero, fmt.Errorf("fee schedule request to %s returned status %d", url, resp.StatusCode())
	}

	rate, err := c.parser.ParseFeeRate(resp.String())
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse fee schedule for channel %s: %w", channel, err)
	}

	log.Debugf("Fetched fee rate %s for channel %s", rate, channel)
	return rate, nil
}

func (c *channelClient) UploadExport(ctx context.Context, channel, filename string, payload []byte) error {
	baseURL, err := c.endpoint(channel)
	if err != nil {
		return err
	}

	c.rl.Take()

	url := baseURL + "/exports"
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetFileReader("file", filename, bytes.NewReader(payload)).
		Post(url)
	if err != nil {
		return fmt.Errorf("failed to upload export %s to %s: %w", filename, url, err)
	}
	if resp.IsError() {
		return fmt.Errorf("export upload to %s returned status %d", url, resp.StatusCode())
	}

	log.Infof("✅ Uploaded export %s to channel %s", filename, channel)
	return nil
}
