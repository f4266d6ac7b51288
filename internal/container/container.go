package container

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"vufs/engine/internal/client"
	"vufs/engine/internal/config"
	"vufs/engine/internal/exporter"
	"vufs/engine/internal/queue"
	"vufs/engine/internal/repository"
	"vufs/engine/internal/service"
	"vufs/engine/internal/state"
	"vufs/engine/internal/vufs"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// Container holds all initialized components
type Container struct {
	Config     *config.Config
	Client     client.ChannelClient
	Repository repository.PayoutRepository
	Queue      queue.Queue
	Sequences  state.SequenceAllocator

	Service *service.Service

	db    *pgxpool.Pool
	redis *redis.Client
}

// New creates a new container with all dependencies initialized
func New(cfg *config.Config) (*Container, error) {
	container := &Container{
		Config: cfg,
	}

	db, err := pgxpool.New(context.Background(),
		fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
			cfg.Database.Host,
			cfg.Database.Port,
			cfg.Database.User,
			cfg.Database.Password,
			cfg.Database.Name,
		))
	if err != nil {
		return nil, err
	}
	container.db = db

	payoutRepo := repository.NewPayoutRepository(db)
	container.Repository = payoutRepo

	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.Database,
	})

	// Test connection
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	log.Info("✅ Connected to Redis successfully")

	redisQueue, err := queue.NewRedisQueue(rdb, cfg.Redis)
	if err != nil {
		return nil, err
	}
	container.Queue = redisQueue

	container.redis = rdb
	sequences := state.NewRedisSequenceAllocator(rdb)
	container.Sequences = sequences

	channelClient := client.NewChannelClient(cfg.Channels)
	container.Client = channelClient

	settings := cfg.Consignment.Settings()
	calc := vufs.NewCalculator(&settings)

	channels := make([]string, 0, len(cfg.Channels.Endpoints))
	for channel := range cfg.Channels.Endpoints {
		channels = append(channels, channel)
	}
	sort.Strings(channels)

	service := service.NewService(
		payoutRepo,
		channelClient,
		redisQueue,
		sequences,
		exporter.NewExporter(cfg.Export.OutputDir),
		calc,
		channels,
		cfg.Redis.ConsumerGroup,
		cfg.Redis.MinIdleTime,
	)
	container.Service = service

	return container, nil
}

// Run syncs the channel fee schedules, queues an export pass, and starts
// the payout workers.
func (c *Container) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := c.Service.SyncFeeSchedules(ctx); err != nil {
			return err
		}
		return c.Service.RequestExport(ctx, time.Now())
	})

	g.Go(func() error {
		return c.Service.RunWorkers(ctx, c.Config.Channels.MaxWorkers)
	})

	return g.Wait()
}

// Close performs cleanup when shutting down
func (c *Container) Close() error {
	log.Info("Shutting down container...")

	c.db.Close()
	c.redis.Close()

	log.Info("Container shut down successfully")
	return nil
}
