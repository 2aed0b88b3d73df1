package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	lodelib "github.com/justapithecus/lode/lode"
	"github.com/urfave/cli/v2"

	"github.com/pithecene-io/hmvalidate/adapter"
	"github.com/pithecene-io/hmvalidate/adapter/redis"
	"github.com/pithecene-io/hmvalidate/adapter/webhook"
	"github.com/pithecene-io/hmvalidate/cli/config"
	"github.com/pithecene-io/hmvalidate/lode"
	"github.com/pithecene-io/hmvalidate/metrics"
)

// storageChoice holds parsed verdict storage configuration.
type storageChoice struct {
	backend   string // "fs" or "s3"
	path      string // fs: directory, s3: bucket/prefix
	dataset   string
	region    string
	endpoint  string
	pathStyle bool
}

// adapterChoice holds parsed notification configuration.
type adapterChoice struct {
	kind    string // "webhook", "redis" or empty
	url     string
	channel string
	headers map[string]string
	timeout time.Duration
	retries int
}

// pick returns the flag value when the flag was set, else the config
// value, else the flag default.
func pick(c *cli.Context, flag, fromConfig string) string {
	if c.IsSet(flag) || fromConfig == "" {
		return c.String(flag)
	}
	return fromConfig
}

func storageChoiceFrom(c *cli.Context, cfg config.StorageConfig) storageChoice {
	s := storageChoice{
		backend:   pick(c, "storage-backend", cfg.Backend),
		path:      pick(c, "storage-path", cfg.Path),
		dataset:   pick(c, "storage-dataset", cfg.Dataset),
		region:    pick(c, "storage-region", cfg.Region),
		endpoint:  pick(c, "storage-endpoint", cfg.Endpoint),
		pathStyle: c.Bool("storage-s3-path-style"),
	}
	if !c.IsSet("storage-s3-path-style") && cfg.S3PathStyle {
		s.pathStyle = true
	}
	if s.dataset == "" {
		s.dataset = lode.DefaultDataset
	}
	return s
}

func (s storageChoice) enabled() bool {
	return s.path != ""
}

// label is the storage dimension reported in metrics.
func (s storageChoice) label() string {
	if !s.enabled() {
		return "none"
	}
	return s.backend
}

func (s storageChoice) validate() error {
	switch s.backend {
	case "fs", "s3":
		return nil
	default:
		return fmt.Errorf("unknown storage backend: %s (must be fs or s3)", s.backend)
	}
}

func (s storageChoice) s3Config() lode.S3Config {
	bucket, prefix := lode.ParseS3Path(s.path)
	return lode.S3Config{
		Bucket:       bucket,
		Prefix:       prefix,
		Region:       s.region,
		Endpoint:     s.endpoint,
		UsePathStyle: s.pathStyle,
	}
}

// openStorage creates the verdict sink and log uploader for one batch.
// Both are nil when storage is disabled.
func openStorage(ctx context.Context, s storageChoice, cfg lode.Config, collector *metrics.Collector) (lode.ResultSink, lode.FileWriter, error) {
	if !s.enabled() {
		return nil, nil, nil
	}

	var client *lode.LodeClient
	var err error
	switch s.backend {
	case "fs":
		client, err = lode.NewLodeClient(cfg, s.path)
	case "s3":
		client, err = lode.NewLodeS3Client(ctx, cfg, s.s3Config())
	default:
		return nil, nil, s.validate()
	}
	if err != nil {
		return nil, nil, err
	}

	sink := lode.NewInstrumentedSink(lode.NewSink(cfg, client), collector)
	return sink, client, nil
}

// openReadDataset opens the stored dataset for queries.
func openReadDataset(ctx context.Context, s storageChoice) (lodelib.Dataset, error) {
	if !s.enabled() {
		return nil, fmt.Errorf("--storage-path is required")
	}
	switch s.backend {
	case "fs":
		return lode.NewReadDatasetFS(s.dataset, s.path)
	case "s3":
		return lode.NewReadDatasetS3(ctx, s.dataset, s.s3Config())
	default:
		return nil, s.validate()
	}
}

func adapterChoiceFrom(c *cli.Context, cfg config.AdapterConfig) (adapterChoice, error) {
	a := adapterChoice{
		kind:    pick(c, "adapter", cfg.Type),
		url:     pick(c, "adapter-url", cfg.URL),
		channel: pick(c, "adapter-channel", cfg.Channel),
		timeout: c.Duration("adapter-timeout"),
		retries: c.Int("adapter-retries"),
		headers: map[string]string{},
	}
	if !c.IsSet("adapter-timeout") && cfg.Timeout.Duration > 0 {
		a.timeout = cfg.Timeout.Duration
	}
	if !c.IsSet("adapter-retries") && cfg.Retries != nil {
		a.retries = *cfg.Retries
	}
	for k, v := range cfg.Headers {
		a.headers[k] = v
	}
	for _, h := range c.StringSlice("adapter-header") {
		k, v, ok := strings.Cut(h, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return adapterChoice{}, fmt.Errorf("invalid --adapter-header %q (want Key=Value)", h)
		}
		a.headers[strings.TrimSpace(k)] = v
	}
	return a, nil
}

// buildAdapter creates the completion notifier. Returns nil when no
// adapter is configured.
func buildAdapter(a adapterChoice) (adapter.Adapter, error) {
	switch a.kind {
	case "":
		return nil, nil
	case "webhook":
		return webhook.New(webhook.Config{
			URL:     a.url,
			Headers: a.headers,
			Timeout: a.timeout,
			Retries: a.retries,
		})
	case "redis":
		if len(a.headers) > 0 {
			return nil, fmt.Errorf("--adapter-header is only supported by the webhook adapter")
		}
		return redis.New(redis.Config{
			URL:     a.url,
			Channel: a.channel,
			Timeout: a.timeout,
			Retries: a.retries,
		})
	default:
		return nil, fmt.Errorf("unknown adapter: %s (must be webhook or redis)", a.kind)
	}
}
