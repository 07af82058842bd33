package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hostel/config"
	"hostel/infras/otel"
	"hostel/infras/redis"
	"hostel/internal/notification"
	"hostel/shared/cache"
	"hostel/shared/constant"
	"hostel/shared/logger"

	"github.com/rs/zerolog/log"
)

const fetchWindow = 20

func newStore(cfg *config.Config) notification.Store {
	if cfg.Cache.Redis.Primary.Host == constant.Empty {
		log.Warn().Msg("Redis not configured, notifications are kept in memory")

		return notification.NewMemoryStore()
	}

	redisCache := cache.NewRedisCache(redis.New(cfg), otel.New(cfg))

	return notification.NewRedisStore(redisCache, cfg.Notifier.StoreKey)
}

func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.Configure(cfg)

	strategy, err := notification.NewStrategy(cfg.Notifier.Strategy)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid notifier strategy")
	}

	poller := notification.NewPoller(notification.Options{
		Fetcher: notification.NewHTTPFetcher(
			cfg.Notifier.BaseURL,
			time.Duration(cfg.Notifier.TimeoutSeconds)*time.Second,
			fetchWindow,
		),
		Strategy: strategy,
		Store:    newStore(cfg),
		Session:  notification.NewSession(cfg.Notifier.Token),
		Interval: time.Duration(cfg.Notifier.IntervalSeconds) * time.Second,
		Handler: func(n notification.Notification) {
			log.Info().
				Str("booking_id", n.BookingID).
				Str("reference", n.Reference).
				Int64("sequence", n.Sequence).
				Msg(n.Message)
		},
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := poller.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to start notification poller")
	}

	log.Info().
		Str("base_url", cfg.Notifier.BaseURL).
		Str("strategy", cfg.Notifier.Strategy).
		Int("interval_seconds", cfg.Notifier.IntervalSeconds).
		Msg("Notification poller started")

	<-ctx.Done()

	poller.Stop()

	log.Info().Int("unread", poller.UnreadCount()).Msg("Notification poller stopped")
}
