package redis

import (
	"context"
	"net"
	"time"

	"hostel/config"

	goRedis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Options maps the cache configuration onto client options.
func Options(config *config.Config) *goRedis.Options {
	redisCfg := config.Cache.Redis

	return &goRedis.Options{
		Addr:         net.JoinHostPort(redisCfg.Primary.Host, redisCfg.Primary.Port),
		Password:     redisCfg.Primary.Password,
		DB:           redisCfg.Primary.DB,
		ClientName:   config.App.Name,
		PoolSize:     redisCfg.PoolSize,
		DialTimeout:  time.Duration(redisCfg.DialTimeoutSeconds) * time.Second,
		ReadTimeout:  time.Duration(redisCfg.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(redisCfg.ReadTimeoutSeconds) * time.Second,
	}
}

// New connects to the primary and exits the process when it does not answer a ping.
// Rate limiting, list caching and event deduplication all depend on it.
func New(config *config.Config) *goRedis.Client {
	opts := Options(config)
	client := goRedis.NewClient(opts)

	ctx := context.Background()
	if opts.DialTimeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, opts.DialTimeout)
		defer cancel()
	}

	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatal().Err(err).Str("addr", opts.Addr).Msg("Failed to connect to Redis")
	}

	log.Info().
		Int("db", opts.DB).
		Str("addr", opts.Addr).
		Int("poolSize", opts.PoolSize).
		Msg("Connected to Redis")

	return client
}
