// Package sparql implements the outbound SPARQL 1.1 Query+Update protocol
// client and the ZPT query builder. No example repo in the retrieval pack
// speaks SPARQL, so this client is a deliberately small stdlib net/http
// implementation (see DESIGN.md's standard-library justifications) wrapped
// in the same retry/circuit-breaker idiom used for the embedding outbound
// calls.
package sparql

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	apperrors "github.com/danja/semem-go/pkg/errors"
	"github.com/danja/semem-go/pkg/resilience"
	"github.com/danja/semem-go/pkg/retry"
)

// Config describes one SPARQL endpoint's coordinates (§6).
type Config struct {
	QueryURL  string
	UpdateURL string
	User      string
	Password  string
	Timeout   time.Duration
}

// Client is an HTTP SPARQL 1.1 Query+Update protocol client.
type Client struct {
	cfg        Config
	httpClient *http.Client
	breaker    *resilience.Breaker
	retryPolicy retry.Policy
}

// New creates a SPARQL client. timeout defaults to 5s when zero, matching
// §5's documented default for SPARQL health/requests.
func New(cfg Config, breaker *resilience.Breaker) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 5 * time.Second
	}
	return &Client{
		cfg:         cfg,
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		breaker:     breaker,
		retryPolicy: retry.DefaultPolicy,
	}
}

// Query executes a read-only SPARQL query, retried with backoff on
// transient failures and short-circuited by the breaker when the endpoint
// has been failing repeatedly.
func (c *Client) Query(ctx context.Context, query string) ([]byte, error) {
	return resilience.ExecuteCtx(ctx, c.breaker, func(ctx context.Context) ([]byte, error) {
		var body []byte
		err := retry.Do(ctx, c.retryPolicy, isRetryable, func(ctx context.Context) error {
			b, err := c.doRequest(ctx, c.cfg.QueryURL, query, "application/sparql-query")
			if err != nil {
				return err
			}
			body = b
			return nil
		})
		return body, err
	})
}

// Update executes a SPARQL update.
func (c *Client) Update(ctx context.Context, update string) error {
	_, err := resilience.ExecuteCtx(ctx, c.breaker, func(ctx context.Context) (struct{}, error) {
		err := retry.Do(ctx, c.retryPolicy, isRetryable, func(ctx context.Context) error {
			_, err := c.doRequest(ctx, c.cfg.UpdateURL, update, "application/sparql-update")
			return err
		})
		return struct{}{}, err
	})
	return err
}

func (c *Client) doRequest(ctx context.Context, url, payload, contentType string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBufferString(payload))
	if err != nil {
		return nil, apperrors.NewInternal("build sparql request", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/sparql-results+json")
	if c.cfg.User != "" {
		req.SetBasicAuth(c.cfg.User, c.cfg.Password)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.NewTransient("sparql request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.NewTransient("sparql response read failed", err)
	}

	if resp.StatusCode >= 500 {
		return nil, apperrors.NewTransient("sparql endpoint returned 5xx", fmt.Errorf("status %d", resp.StatusCode))
	}
	if resp.StatusCode >= 400 {
		return nil, apperrors.NewProtocol("sparql endpoint returned %d: %s", resp.StatusCode, string(body))
	}
	return body, nil
}

func isRetryable(err error) bool {
	return apperrors.IsTransient(err)
}
