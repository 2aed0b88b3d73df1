// Package webhook posts batch completion events to an HTTP endpoint.
//
// The body is the JSON event. The event's routing attributes are repeated
// as X-Hmvalidate-* headers, so a receiver can drop passing batches or
// route by format without decoding the body.
package webhook

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/textproto"
	"time"

	"github.com/pithecene-io/hmvalidate/adapter"
	"github.com/pithecene-io/hmvalidate/iox"
	"github.com/pithecene-io/hmvalidate/types"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 10 * time.Second

// DefaultRetries is the default number of retry attempts.
const DefaultRetries = 3

// HeaderPrefix prefixes every event attribute header.
const HeaderPrefix = "X-Hmvalidate-"

// Config configures the webhook adapter.
type Config struct {
	// URL is the endpoint to POST to (required).
	URL string
	// Headers are added to each request after the attribute headers and
	// may override them.
	Headers map[string]string
	// Timeout is the per-request timeout (default 10s).
	Timeout time.Duration
	// Retries is the number of retries after the first attempt.
	Retries int
}

// Adapter publishes batch completion events via HTTP POST.
type Adapter struct {
	config Config
	client *http.Client
}

// New creates a webhook adapter. The URL is required.
func New(cfg Config) (*Adapter, error) {
	if cfg.URL == "" {
		return nil, errors.New("webhook adapter requires a URL")
	}
	if cfg.Retries < 0 {
		return nil, fmt.Errorf("retries must be >= 0, got %d", cfg.Retries)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Adapter{
		config: cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.Code)
}

// rejected reports a 4xx response; the receiver will not accept a resend.
func rejected(err error) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.Code >= 400 && statusErr.Code < 500
}

// Publish posts the event. 5xx responses and network errors are retried
// with backoff; 4xx responses fail at once.
func (a *Adapter) Publish(ctx context.Context, event *adapter.BatchCompletedEvent) error {
	body, err := adapter.Encode(event)
	if err != nil {
		return fmt.Errorf("webhook: marshal event: %w", err)
	}
	header := a.header(event)
	return adapter.Retry(ctx, "webhook", a.config.Retries, rejected, func(ctx context.Context) error {
		return a.post(ctx, header, body)
	})
}

func (a *Adapter) header(event *adapter.BatchCompletedEvent) http.Header {
	h := make(http.Header)
	h.Set("Content-Type", "application/json")
	h.Set("User-Agent", "hmvalidate/"+types.Version)
	for k, v := range event.Attributes() {
		h.Set(textproto.CanonicalMIMEHeaderKey(HeaderPrefix+k), v)
	}
	for k, v := range a.config.Headers {
		h.Set(k, v)
	}
	return h
}

func (a *Adapter) post(ctx context.Context, header http.Header, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.config.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header = header.Clone()

	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer iox.DiscardClose(resp.Body)
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{Code: resp.StatusCode}
	}
	return nil
}

// Close releases idle connections.
func (a *Adapter) Close() error {
	a.client.CloseIdleConnections()
	return nil
}

var _ adapter.Adapter = (*Adapter)(nil)
