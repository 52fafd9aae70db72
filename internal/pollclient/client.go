package pollclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const (
	collectionPath  = "/api/polls"
	maxResponseBody = 1 << 20
)

// Config configures Client. Cache is optional.
type Config struct {
	BaseURL    string
	HTTPClient *http.Client
	Cache      *Cache
}

// Client talks to the poll collection endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
	cache      *Cache
}

func New(cfg Config) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, errors.New("pollclient: base URL is required")
	}
	if _, err := url.Parse(base); err != nil {
		return nil, errors.Wrap(err, "pollclient: invalid base URL")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{baseURL: base, httpClient: httpClient, cache: cfg.Cache}, nil
}

// ListKey is the cache key of a list request, e.g. /api/polls?offset=0&page_size=100.
func ListKey(offset, pageSize int) string {
	return fmt.Sprintf("%s?offset=%d&page_size=%d", collectionPath, offset, pageSize)
}

// List fetches one page, serving from the cache when an entry exists.
func (c *Client) List(ctx context.Context, offset, pageSize int) (ListResponse, error) {
	key := ListKey(offset, pageSize)
	if c.cache != nil {
		if resp, ok := c.cache.Get(key); ok {
			return resp, nil
		}
	}

	var resp ListResponse
	if err := c.do(ctx, http.MethodGet, key, nil, &resp); err != nil {
		return ListResponse{}, err
	}
	if resp.Data == nil {
		resp.Data = []Poll{}
	}
	if c.cache != nil {
		c.cache.Set(key, resp)
	}
	return resp, nil
}

// CreatePoll submits one poll. There is no retry.
func (c *Client) CreatePoll(ctx context.Context, req CreatePollRequest) (Poll, error) {
	for i := range req.Choices {
		if req.Choices[i].Votes == nil {
			req.Choices[i].Votes = []Vote{}
		}
	}
	body, err := json.Marshal(req)
	if err != nil {
		return Poll{}, errors.Wrap(err, "pollclient: encode request")
	}
	var resp createResponse
	if err := c.do(ctx, http.MethodPost, collectionPath, body, &resp); err != nil {
		return Poll{}, err
	}
	return resp.Data, nil
}

// Invalidate drops a cached list response.
func (c *Client) Invalidate(key string) {
	if c.cache != nil {
		c.cache.Invalidate(key)
	}
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return errors.Wrap(err, "pollclient: build request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrapf(err, "pollclient: %s %s", method, path)
	}
	defer res.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBody))
	if err != nil {
		return errors.Wrap(err, "pollclient: read response")
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return newAPIError(res.StatusCode, payload)
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return errors.Wrap(err, "pollclient: decode response")
	}
	return nil
}
