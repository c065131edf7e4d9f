// Package fetch downloads pages and images with bounded time, size and retries.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultTimeout   = 15 * time.Second
	DefaultMaxBytes  = 5 << 20
	DefaultUserAgent = "Mozilla/5.0 (compatible; recipebox/1.0)"
)

// Exported errors.
var (
	ErrStatus          = errors.New("unexpected HTTP status")
	ErrTooLarge        = errors.New("response body too large")
	ErrContentType     = errors.New("unsupported content type")
	ErrUnsupportedURL  = errors.New("unsupported URL scheme")
	errTooManyRedirect = errors.New("too many redirects")
)

// HTMLTypes are the content-type prefixes accepted for pages.
var HTMLTypes = []string{"text/html", "application/xhtml+xml"}

// ImageTypes are the content-type prefixes accepted for images.
var ImageTypes = []string{"image/"}

// Client wraps http.Client and provides timeouts and limited retry on transient errors.
type Client struct {
	HTTPClient *http.Client
	UserAgent  string
	// MaxAttempts includes the initial attempt. Minimum 1.
	MaxAttempts int
	// PerRequestTimeout bounds each attempt.
	PerRequestTimeout time.Duration
	// MaxBytes caps the body size. Zero means DefaultMaxBytes.
	MaxBytes int64
	// RedirectMaxHops caps redirect following to avoid loops. Zero means default (5).
	RedirectMaxHops int
	// ContentTypes lists accepted content-type prefixes. Empty means HTMLTypes.
	ContentTypes []string
	// Backoff is the base delay between attempts; attempt i waits (i+1)*Backoff.
	Backoff time.Duration
}

// Response is a successfully downloaded body.
type Response struct {
	Body        []byte
	ContentType string
	FinalURL    string
}

func (c *Client) getHTTPClient() *http.Client {
	if c.HTTPClient != nil {
		// Clone to attach our redirect policy without mutating caller's client
		base := *c.HTTPClient
		base.CheckRedirect = c.checkRedirectFunc()
		return &base
	}
	return &http.Client{CheckRedirect: c.checkRedirectFunc()}
}

// Get issues a GET with context, browser-like headers, and bounded retry for transient errors.
func (c *Client) Get(ctx context.Context, rawURL string) (*Response, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse url %q: %w", rawURL, err)
	}
	if !isHTTPScheme(u) {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedURL, rawURL)
	}

	attempts := c.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}
	backoff := c.Backoff
	if backoff <= 0 {
		backoff = 200 * time.Millisecond
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		resp, err := c.tryOnce(ctx, u.String())
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if !isTransient(err) || i == attempts-1 || ctx.Err() != nil {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Duration(i+1) * backoff):
		}
	}
	return nil, lastErr
}

// transientError marks failures worth retrying.
type transientError struct{ err error }

func (e *transientError) Error() string { return e.err.Error() }
func (e *transientError) Unwrap() error { return e.err }

func (c *Client) tryOnce(ctx context.Context, rawURL string) (*Response, error) {
	timeout := c.PerRequestTimeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	ua := c.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}
	req.Header.Set("User-Agent", ua)
	req.Header.Set("Accept", c.acceptHeader())
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := c.getHTTPClient().Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, &transientError{err}
		}
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 && resp.StatusCode <= 599 {
		return nil, &transientError{fmt.Errorf("%w: %d", ErrStatus, resp.StatusCode)}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %d", ErrStatus, resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if !c.allowed(contentType) {
		return nil, fmt.Errorf("%w: %s", ErrContentType, contentType)
	}

	maxBytes := c.MaxBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	if resp.ContentLength > maxBytes {
		return nil, fmt.Errorf("%w: content-length %d exceeds %d", ErrTooLarge, resp.ContentLength, maxBytes)
	}
	b, err := io.ReadAll(io.LimitReader(resp.Body, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if int64(len(b)) > maxBytes {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, maxBytes)
	}
	return &Response{Body: b, ContentType: contentType, FinalURL: resp.Request.URL.String()}, nil
}

func isTransient(err error) bool {
	var t *transientError
	return errors.As(err, &t)
}

func (c *Client) checkRedirectFunc() func(req *http.Request, via []*http.Request) error {
	max := c.RedirectMaxHops
	if max <= 0 {
		max = 5
	}
	return func(req *http.Request, via []*http.Request) error {
		if len(via) >= max {
			return errTooManyRedirect
		}
		// Only allow http/https during redirects
		if !isHTTPScheme(req.URL) {
			return ErrUnsupportedURL
		}
		return nil
	}
}

func isHTTPScheme(u *url.URL) bool {
	if u == nil || u.Host == "" {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return scheme == "http" || scheme == "https"
}

func (c *Client) types() []string {
	if len(c.ContentTypes) == 0 {
		return HTMLTypes
	}
	return c.ContentTypes
}

func (c *Client) allowed(ct string) bool {
	ct = strings.ToLower(strings.TrimSpace(ct))
	// Servers that omit the header are given the benefit of the doubt.
	if ct == "" {
		return true
	}
	for _, prefix := range c.types() {
		if strings.HasPrefix(ct, prefix) {
			return true
		}
	}
	return false
}

func (c *Client) acceptHeader() string {
	types := c.types()
	parts := make([]string, 0, len(types)+1)
	for _, t := range types {
		if strings.HasSuffix(t, "/") {
			t += "*"
		}
		parts = append(parts, t)
	}
	parts = append(parts, "*/*;q=0.8")
	return strings.Join(parts, ",")
}
