// Package redis publishes batch completion events on a Redis channel.
//
// The channel name may contain the {format} placeholder, which is replaced
// by the event's format, so positional and final batches can be
// subscribed to separately.
package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/pithecene-io/hmvalidate/adapter"
)

// DefaultChannel is the default pub/sub channel name.
const DefaultChannel = "hmvalidate:batch_completed"

// FormatPlaceholder is replaced by the event format in channel names.
const FormatPlaceholder = "{format}"

// DefaultTimeout is the default per-publish timeout.
const DefaultTimeout = 5 * time.Second

// DefaultRetries is the default number of retry attempts.
const DefaultRetries = 3

// Config configures the Redis adapter.
type Config struct {
	// URL is the connection URL (required), redis://[:password@]host:port[/db].
	URL string
	// Channel is the channel name, optionally containing {format}.
	Channel string
	// Timeout bounds each PUBLISH (default 5s).
	Timeout time.Duration
	// Retries is the number of retries after the first attempt.
	Retries int
}

// Adapter publishes batch completion events via Redis PUBLISH.
type Adapter struct {
	config Config
	client *goredis.Client
}

// New creates a Redis adapter. The URL is required and must parse.
func New(cfg Config) (*Adapter, error) {
	if cfg.URL == "" {
		return nil, errors.New("redis adapter requires a URL")
	}
	opts, err := goredis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("redis adapter: invalid URL: %w", err)
	}
	if cfg.Retries < 0 {
		return nil, fmt.Errorf("retries must be >= 0, got %d", cfg.Retries)
	}
	if cfg.Channel == "" {
		cfg.Channel = DefaultChannel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Adapter{
		config: cfg,
		client: goredis.NewClient(opts),
	}, nil
}

// ChannelFor returns the channel an event is published on.
func (a *Adapter) ChannelFor(event *adapter.BatchCompletedEvent) string {
	return strings.ReplaceAll(a.config.Channel, FormatPlaceholder, event.Format)
}

// Publish sends the JSON event to the event's channel, retrying with
// backoff on failure. Zero subscribers is not an error.
func (a *Adapter) Publish(ctx context.Context, event *adapter.BatchCompletedEvent) error {
	body, err := adapter.Encode(event)
	if err != nil {
		return fmt.Errorf("redis: marshal event: %w", err)
	}
	channel := a.ChannelFor(event)
	closed := func(err error) bool { return errors.Is(err, goredis.ErrClosed) }
	return adapter.Retry(ctx, "redis", a.config.Retries, closed, func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, a.config.Timeout)
		defer cancel()
		return a.client.Publish(ctx, channel, body).Err()
	})
}

// Close releases the client connection pool.
func (a *Adapter) Close() error {
	return a.client.Close()
}

var _ adapter.Adapter = (*Adapter)(nil)
