// Package spoonacular proxies recipe searches to the Spoonacular API.
package spoonacular

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"recipebox/internal/recipe"
)

const (
	DefaultBaseURL = "https://api.spoonacular.com"
	DefaultNumber  = 10
	MaxNumber      = 100

	maxBody = 4 << 20
)

// Client calls the complexSearch endpoint and returns its payload untouched.
type Client struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
	Timeout    time.Duration
}

// NewClient creates a new search client.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		APIKey:     apiKey,
		HTTPClient: &http.Client{},
		Timeout:    timeout,
	}
}

// ClampNumber maps a requested result count onto 1..MaxNumber, using
// DefaultNumber when n is not positive.
func ClampNumber(n int) int {
	switch {
	case n <= 0:
		return DefaultNumber
	case n > MaxNumber:
		return MaxNumber
	}
	return n
}

// Search runs a complexSearch query.
func (c *Client) Search(ctx context.Context, query string, number int) (json.RawMessage, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: query", recipe.ErrMissingInput)
	}
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("number", strconv.Itoa(ClampNumber(number)))
	endpoint := c.BaseURL + "/recipes/complexSearch?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("x-api-key", c.APIKey)

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	start := time.Now()
	resp, err := httpClient.Do(req)
	if err != nil {
		// url.Error carries the request URL; keep only the cause.
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return nil, fmt.Errorf("%w: search request: %w", recipe.ErrUpstreamService, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("%w: read search response: %w", recipe.ErrUpstreamService, err)
	}
	log.Debug().Str("query", query).Int("status", resp.StatusCode).Dur("elapsed", time.Since(start)).Msg("spoonacular search")

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: search returned status %d", recipe.ErrUpstreamService, resp.StatusCode)
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("%w: search returned invalid JSON", recipe.ErrUpstreamService)
	}
	return json.RawMessage(body), nil
}
