package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Client wraps the go-redis client.
type Client struct {
	*goredis.Client
	log zerolog.Logger
}

// New connects to url and pings it.
func New(ctx context.Context, url string, baseLogger *zerolog.Logger) (*Client, error) {
	log := baseLogger.With().Str("component", "redis").Logger()

	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 2 * time.Second
	opts.WriteTimeout = 2 * time.Second

	client := goredis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	log.Info().Str("addr", opts.Addr).Msg("Redis connection established")
	return &Client{Client: client, log: log}, nil
}

// Close closes the Redis connection.
func (c *Client) Close() error {
	c.log.Info().Msg("Closing Redis connection")
	return c.Client.Close()
}
