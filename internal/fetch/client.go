// Package fetch downloads remote images.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/vmunix/vaultimg/internal/config"
)

const (
	defaultUserAgent = "vaultimg"
	defaultTimeout   = 30 * time.Second
	defaultMaxBytes  = 50 << 20
	sniffBytes       = 3072
)

var (
	// ErrNotImage is returned by Probe when the resource is not an image.
	ErrNotImage = errors.New("resource is not an image")
	// ErrTooLarge is returned when a body exceeds the configured limit.
	ErrTooLarge = errors.New("response too large")
)

// StatusError is returned for non-2xx responses.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d %s", e.URL, e.Code, http.StatusText(e.Code))
}

// Client fetches URLs with a shared rate limit.
type Client struct {
	userAgent  string
	maxBytes   int64
	httpClient *http.Client
	limiter    *rate.Limiter // nil means unlimited
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithMaxBytes bounds response bodies.
func WithMaxBytes(n int64) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxBytes = n
		}
	}
}

// WithRateLimit allows perSecond requests with the given burst. Zero disables limiting.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(c *Client) {
		if perSecond <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// NewClient creates a fetch client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		userAgent:  defaultUserAgent,
		maxBytes:   defaultMaxBytes,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FromConfig creates a client from the [fetch] section.
func FromConfig(cfg config.FetchConfig) *Client {
	return NewClient(
		WithUserAgent(cfg.UserAgent),
		WithTimeout(cfg.Timeout.Duration),
		WithMaxBytes(cfg.MaxBytes),
		WithRateLimit(cfg.RatePerSecond, cfg.Burst),
	)
}

func (c *Client) do(ctx context.Context, method, url string) (*http.Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	return c.httpClient.Do(req)
}

// FetchBytes downloads url and returns its body.
func (c *Client) FetchBytes(ctx context.Context, url string) ([]byte, error) {
	resp, err := c.do(ctx, http.MethodGet, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{URL: url, Code: resp.StatusCode}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if int64(len(data)) > c.maxBytes {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, c.maxBytes)
	}
	return data, nil
}

// ProbeResult describes a remote image.
type ProbeResult struct {
	ContentType string `json:"content_type"`
	// Extension is "jpg" or "png" when the type maps to one, else empty.
	Extension string `json:"extension,omitempty"`
}

// Probe checks that url serves an image. It sends HEAD first and falls back
// to sniffing the start of a GET body when the server does not answer HEAD
// usefully.
func (c *Client) Probe(ctx context.Context, url string) (*ProbeResult, error) {
	resp, err := c.do(ctx, http.MethodHead, url)
	if err != nil {
		return nil, err
	}
	resp.Body.Close()

	ct := mediaType(resp.Header.Get("Content-Type"))
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode <= 299 && ct != "" && ct != "application/octet-stream":
		if !strings.HasPrefix(ct, "image/") {
			return nil, fmt.Errorf("%w: %s has content type %s", ErrNotImage, url, ct)
		}
		return &ProbeResult{ContentType: ct, Extension: extensionFor(ct)}, nil
	case resp.StatusCode == http.StatusNotFound:
		return nil, &StatusError{URL: url, Code: resp.StatusCode}
	}
	return c.sniff(ctx, url)
}

func (c *Client) sniff(ctx context.Context, url string) (*ProbeResult, error) {
	resp, err := c.do(ctx, http.MethodGet, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{URL: url, Code: resp.StatusCode}
	}
	head, err := io.ReadAll(io.LimitReader(resp.Body, sniffBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	res, ok := Detect(head)
	if !ok {
		return nil, fmt.Errorf("%w: %s looks like %s", ErrNotImage, url, res.ContentType)
	}
	return res, nil
}

func mediaType(header string) string {
	if header == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(header)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(header))
	}
	return mt
}
