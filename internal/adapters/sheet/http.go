package sheet

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/okian/picksheet/internal/adapters/breaker"
	"github.com/okian/picksheet/pkg/logger"
	"github.com/okian/picksheet/pkg/metrics"
	"github.com/sony/gobreaker"
)

// Defaults for the HTTP source.
const (
	defaultTimeout   = 10 * time.Second
	defaultUserAgent = "picksheet/1.0"
	maxBodyBytes     = 8 << 20
	breakerName      = "sheet"
)

// HTTPSource downloads a published CSV export of the sheet.
type HTTPSource struct {
	url       string
	client    *http.Client
	userAgent string
	maxBody   int64
	breaker   *gobreaker.CircuitBreaker
	breakOpts []breaker.Option
	logger    logger.Logger
}

// HTTPOption configures an HTTPSource.
type HTTPOption func(*HTTPSource)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(s *HTTPSource) {
		if c != nil {
			s.client = c
		}
	}
}

// WithTimeout sets the per-request timeout of the default client.
func WithTimeout(d time.Duration) HTTPOption {
	return func(s *HTTPSource) {
		if d > 0 {
			s.client.Timeout = d
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) HTTPOption {
	return func(s *HTTPSource) {
		if ua != "" {
			s.userAgent = ua
		}
	}
}

// WithMaxBodyBytes caps the accepted export size. Larger bodies fail with
// ErrParse instead of being cut short.
func WithMaxBodyBytes(n int64) HTTPOption {
	return func(s *HTTPSource) {
		if n > 0 {
			s.maxBody = n
		}
	}
}

// WithBreakerOptions tunes the circuit breaker around downloads.
func WithBreakerOptions(opts ...breaker.Option) HTTPOption {
	return func(s *HTTPSource) {
		s.breakOpts = append(s.breakOpts, opts...)
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) HTTPOption {
	return func(s *HTTPSource) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewHTTPSource returns a source downloading url.
func NewHTTPSource(url string, opts ...HTTPOption) *HTTPSource {
	s := &HTTPSource{
		url:       url,
		client:    &http.Client{Timeout: defaultTimeout},
		userAgent: defaultUserAgent,
		maxBody:   maxBodyBytes,
		logger:    logger.Get(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.breaker = breaker.New(breakerName, append(s.breakOpts, breaker.WithLogger(s.logger))...)
	return s
}

// Fetch downloads and parses the sheet. Non-2xx responses are ErrStatus,
// transport failures and an open breaker are ErrFetch, and malformed or
// oversized CSV is ErrParse.
func (s *HTTPSource) Fetch(ctx context.Context) ([][]string, error) {
	start := time.Now()
	out, err := s.breaker.Execute(func() (interface{}, error) {
		return s.download(ctx)
	})
	latency := float64(time.Since(start).Milliseconds())
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			err = fmt.Errorf("%w: %v", ErrFetch, err)
		}
		metrics.RecordSheetFetch("error", latency)
		metrics.RecordErrorByComponent("sheet", errorType(err))
		s.logger.Warn(ctx, "sheet fetch failed",
			logger.String("url", s.url),
			logger.Error(err),
		)
		return nil, err
	}
	grid := out.([][]string)
	metrics.RecordSheetFetch("ok", latency)
	s.logger.Debug(ctx, "sheet fetched",
		logger.Int("rows", len(grid)),
		logger.Float64("latency_ms", latency),
	)
	return grid, nil
}

func (s *HTTPSource) download(ctx context.Context) ([][]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "text/csv")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, s.maxBody))
		return nil, fmt.Errorf("%w: %d", ErrStatus, resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, s.maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	if int64(len(body)) > s.maxBody {
		return nil, fmt.Errorf("%w: export larger than %d bytes", ErrParse, s.maxBody)
	}
	return parseCSV(bytes.NewReader(body))
}

func errorType(err error) string {
	switch {
	case errors.Is(err, ErrStatus):
		return "status"
	case errors.Is(err, ErrParse):
		return "parse"
	default:
		return "fetch"
	}
}
