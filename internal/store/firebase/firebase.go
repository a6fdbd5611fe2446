// Package firebase is the REST adapter for a Firebase-style realtime
// database: every subtree is addressable as <base>/<path>.json and
// plain HTTP verbs map onto get/set/push/update/delete.
package firebase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"kolipanel/internal/store"
)

// requestTimeout bounds every store call; the app treats a timeout
// like any other unavailable result and retries on the next refresh.
const requestTimeout = 5 * time.Second

// Client talks to one database identified by its base URL.
type Client struct {
	http *resty.Client
}

var _ store.Client = (*Client)(nil)

// New builds a client for the database at baseURL.
func New(baseURL string) *Client {
	rc := resty.New().
		SetBaseURL(strings.TrimSuffix(baseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetTimeout(requestTimeout)

	return &Client{http: rc}
}

func nodeURL(path string) string {
	return "/" + strings.Trim(path, "/") + ".json"
}

func (c *Client) Get(ctx context.Context, path string) (json.RawMessage, error) {
	resp, err := c.http.R().SetContext(ctx).Get(nodeURL(path))
	if err != nil {
		return nil, fmt.Errorf("store get %s: %w", path, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("store get %s: status %d", path, resp.StatusCode())
	}
	body := bytes.TrimSpace(resp.Body())
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		// The store reports a missing subtree as a 200 with null.
		return nil, nil
	}
	return json.RawMessage(body), nil
}

func (c *Client) Set(ctx context.Context, path string, value any) error {
	resp, err := c.http.R().SetContext(ctx).SetBody(value).Put(nodeURL(path))
	if err != nil {
		return fmt.Errorf("store set %s: %w", path, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("store set %s: status %d", path, resp.StatusCode())
	}
	return nil
}

func (c *Client) Push(ctx context.Context, path string, value any) (string, error) {
	// The store answers a POST with {"name": "<generated key>"}.
	pushed := struct {
		Name string `json:"name"`
	}{}

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(value).
		SetResult(&pushed).
		Post(nodeURL(path))
	if err != nil {
		return "", fmt.Errorf("store push %s: %w", path, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("store push %s: status %d", path, resp.StatusCode())
	}
	if pushed.Name == "" {
		return "", fmt.Errorf("store push %s: no key in response", path)
	}
	return pushed.Name, nil
}

func (c *Client) Update(ctx context.Context, path string, partial any) error {
	resp, err := c.http.R().SetContext(ctx).SetBody(partial).Patch(nodeURL(path))
	if err != nil {
		return fmt.Errorf("store update %s: %w", path, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("store update %s: status %d", path, resp.StatusCode())
	}
	return nil
}

func (c *Client) Delete(ctx context.Context, path string) error {
	resp, err := c.http.R().SetContext(ctx).Delete(nodeURL(path))
	if err != nil {
		return fmt.Errorf("store delete %s: %w", path, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("store delete %s: status %d", path, resp.StatusCode())
	}
	return nil
}

// Probe asks for the shallow root, which answers quickly regardless
// of database size. Used at startup to warn about misconfiguration.
func (c *Client) Probe(ctx context.Context) bool {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("shallow", "true").
		Get("/.json")
	return err == nil && resp.StatusCode() == http.StatusOK
}
