// Package client fetches metadata specs from the Elements admin API.
package client

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

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"

	"github.com/NamazuStudios/elements-formgen/pkg/metadata"
)

// SessionHeader carries the session secret on every request.
const SessionHeader = "Elements-SessionSecret"

// ErrSpecNotFound is returned when the API answers 404 for a spec id.
var ErrSpecNotFound = errors.New("client: metadata spec not found")

// APIError is a non-2xx response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("client: api returned %d", e.StatusCode)
	}
	return fmt.Sprintf("client: api returned %d: %s", e.StatusCode, e.Message)
}

// Config holds client configuration.
type Config struct {
	BaseURL       string
	SessionSecret string
	Timeout       time.Duration
	HTTPClient    *http.Client
	Logger        *zerolog.Logger
}

// Client talks to the metadata spec endpoints.
type Client struct {
	baseURL       string
	sessionSecret string
	httpClient    *http.Client
	logger        zerolog.Logger
}

// New creates a client. BaseURL is required.
func New(cfg Config) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, errors.New("client: base url is required")
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("client: parse base url: %w", err)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	return &Client{
		baseURL:       base,
		sessionSecret: cfg.SessionSecret,
		httpClient:    httpClient,
		logger:        logger.With().Str("component", "metadata_client").Logger(),
	}, nil
}

// ListOptions pages and filters ListMetadataSpecs.
type ListOptions struct {
	Offset int
	Count  int
	Search string
}

// Pagination is the list envelope returned by the API.
type Pagination[T any] struct {
	Offset        int  `json:"offset"`
	Total         int  `json:"total"`
	Approximation bool `json:"approximation"`
	Objects       []T  `json:"objects"`
}

// ListMetadataSpecs returns one page of specs. Specs are returned as sent;
// use GetMetadataSpec for a checked tree.
func (c *Client) ListMetadataSpecs(ctx context.Context, opts ListOptions) (Pagination[metadata.MetadataSpec], error) {
	query := url.Values{}
	query.Set("offset", strconv.Itoa(opts.Offset))
	if opts.Count > 0 {
		query.Set("count", strconv.Itoa(opts.Count))
	}
	if search := strings.TrimSpace(opts.Search); search != "" {
		query.Set("search", search)
	}

	var page Pagination[metadata.MetadataSpec]
	if err := c.get(ctx, "/metadata_spec?"+query.Encode(), &page); err != nil {
		return Pagination[metadata.MetadataSpec]{}, err
	}
	return page, nil
}

// GetMetadataSpec fetches one spec and checks it is well formed.
func (c *Client) GetMetadataSpec(ctx context.Context, id string) (*metadata.MetadataSpec, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, errors.New("client: spec id is required")
	}

	var spec metadata.MetadataSpec
	err := c.get(ctx, "/metadata_spec/"+url.PathEscape(id), &spec)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrSpecNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	if err := metadata.ValidateSpec(&spec); err != nil {
		return nil, fmt.Errorf("client: spec %s: %w", id, err)
	}
	return &spec, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("client: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.sessionSecret != "" {
		req.Header.Set(SessionHeader, c.sessionSecret)
	}

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("client: send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("client: read response: %w", err)
	}

	c.logger.Debug().
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(started)).
		Msg("api request")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{StatusCode: resp.StatusCode, Message: errorMessage(body)}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("client: decode response: %w", err)
	}
	return nil
}

// errorMessage pulls a human readable message out of an error body.
func errorMessage(body []byte) string {
	if gjson.ValidBytes(body) {
		parsed := gjson.ParseBytes(body)
		for _, key := range []string{"message", "error.message", "error"} {
			if value := parsed.Get(key); value.Type == gjson.String && value.String() != "" {
				return value.String()
			}
		}
	}
	text := strings.TrimSpace(string(body))
	if len(text) > 200 {
		text = text[:200]
	}
	return text
}
