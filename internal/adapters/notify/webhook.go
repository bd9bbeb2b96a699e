// Package notify delivers weekly reports to a chat webhook.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/okian/picksheet/internal/adapters/breaker"
	"github.com/okian/picksheet/pkg/logger"
	"github.com/okian/picksheet/pkg/metrics"
	"github.com/sony/gobreaker"
)

// Defaults for the webhook notifier.
const (
	defaultTimeout = 10 * time.Second
	breakerName    = "webhook"
	headerDelivery = "X-Delivery-ID"
)

// Notifier sends a message and returns its delivery id.
type Notifier interface {
	Send(ctx context.Context, msg Message) (string, error)
	Configured() bool
}

// Webhook posts messages as JSON to a webhook URL.
type Webhook struct {
	url       string
	username  string
	client    *http.Client
	breaker   *gobreaker.CircuitBreaker
	breakOpts []breaker.Option
	logger    logger.Logger
}

// Option configures a Webhook.
type Option func(*Webhook)

// WithUsername sets the display name used when a message has none.
func WithUsername(name string) Option {
	return func(w *Webhook) {
		w.username = name
	}
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(w *Webhook) {
		if c != nil {
			w.client = c
		}
	}
}

// WithBreakerOptions tunes the circuit breaker around deliveries.
func WithBreakerOptions(opts ...breaker.Option) Option {
	return func(w *Webhook) {
		w.breakOpts = append(w.breakOpts, opts...)
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(w *Webhook) {
		if l != nil {
			w.logger = l
		}
	}
}

// NewWebhook returns a notifier posting to url. An empty url yields a
// notifier whose Send always fails with ErrNotConfigured.
func NewWebhook(url string, opts ...Option) *Webhook {
	w := &Webhook{
		url:    url,
		client: &http.Client{Timeout: defaultTimeout},
		logger: logger.Get(),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.breaker = breaker.New(breakerName, append(w.breakOpts, breaker.WithLogger(w.logger))...)
	return w
}

// Configured reports whether a webhook URL is set.
func (w *Webhook) Configured() bool { return w.url != "" }

// Send posts msg. Non-2xx answers, transport errors and an open breaker
// all surface as ErrDelivery.
func (w *Webhook) Send(ctx context.Context, msg Message) (string, error) {
	if !w.Configured() {
		return "", ErrNotConfigured
	}
	if msg.Username == "" {
		msg.Username = w.username
	}
	body, err := json.Marshal(msg)
	if err != nil {
		return "", fmt.Errorf("%w: encode: %v", ErrDelivery, err)
	}
	id := uuid.NewString()

	_, err = w.breaker.Execute(func() (interface{}, error) {
		return nil, w.post(ctx, id, body)
	})
	if err != nil {
		if !errors.Is(err, ErrDelivery) {
			err = fmt.Errorf("%w: %v", ErrDelivery, err)
		}
		metrics.RecordErrorByComponent("notify", "delivery")
		w.logger.Error(ctx, "webhook delivery failed",
			logger.String("delivery_id", id),
			logger.Error(err),
		)
		return id, err
	}
	w.logger.Info(ctx, "webhook delivered", logger.String("delivery_id", id))
	return id, nil
}

func (w *Webhook) post(ctx context.Context, id string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDelivery, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(headerDelivery, id)

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDelivery, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("%w: status %d", ErrDelivery, resp.StatusCode)
	}
	return nil
}
