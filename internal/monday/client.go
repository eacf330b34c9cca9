// Package monday is a read-only client for the Monday.com GraphQL API.
//
// Items live on a single configured board. The provider owns all item
// state; nothing is persisted locally beyond an optional short-lived page
// cache.
package monday

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const (
	// DefaultAPIURL is the Monday.com GraphQL endpoint.
	DefaultAPIURL = "https://api.monday.com/v2"

	// pageLimit is the items_page page size.
	pageLimit = 100

	// maxAttempts bounds retries of transient failures (initial call plus
	// two retries).
	maxAttempts = 3

	// listCacheTTL bounds how long a full board listing is reused within a
	// session before paginating again.
	listCacheTTL = 30 * time.Second
)

// ColumnValue is one column cell of an item. Order follows the board's
// column order as returned by the provider.
type ColumnValue struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Item is a CRM record: a row on the configured board.
type Item struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	ColumnValues []ColumnValue `json:"column_values"`
}

// Account identifies the authenticated Monday user, from the "me" query.
type Account struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Client issues queries against one Monday board.
type Client struct {
	httpClient *http.Client
	apiURL     string
	apiKey     string
	boardID    int64
	logger     *slog.Logger

	mu        sync.Mutex
	cached    []Item
	cacheTime time.Time
}

// Config holds client construction parameters.
type Config struct {
	APIKey  string
	APIURL  string // defaults to DefaultAPIURL
	BoardID int64
	Timeout time.Duration // per-request timeout, defaults to 30s
}

// New creates a Monday client. The API key must be non-empty; callers
// disable CRM features entirely when no key is configured.
func New(cfg Config, logger *slog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("monday API key required")
	}
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		apiURL:     cfg.APIURL,
		apiKey:     cfg.APIKey,
		boardID:    cfg.BoardID,
		logger:     logger,
	}, nil
}

// graphQLRequest is the request payload for GraphQL operations.
type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

// graphQLResponse is the response payload from GraphQL operations.
type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphQLError  `json:"errors,omitempty"`
}

// graphQLError represents a GraphQL error.
type graphQLError struct {
	Message string `json:"message"`
}

// call sends one GraphQL query and decodes the data payload into result.
// Transport failures and throttling responses are retried with exponential
// backoff, bounded by maxAttempts; auth rejections and semantic GraphQL
// errors are permanent.
func (c *Client) call(ctx context.Context, query string, variables map[string]any, result any) error {
	operation := func() error {
		return c.callOnce(ctx, query, variables, result)
	}

	bo := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxAttempts-1),
		ctx,
	)
	return backoff.Retry(operation, bo)
}

func (c *Client) callOnce(ctx context.Context, query string, variables map[string]any, result any) error {
	reqBody, err := json.Marshal(graphQLRequest{
		Query:     query,
		Variables: variables,
	})
	if err != nil {
		return backoff.Permanent(fmt.Errorf("marshal request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(reqBody))
	if err != nil {
		return backoff.Permanent(fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Authorization", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return backoff.Permanent(fmt.Errorf("%w: %v", ErrNetwork, err))
		}
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response: %v", ErrNetwork, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return backoff.Permanent(fmt.Errorf("%w: %s", ErrAuth, resp.Status))
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		// Rate limiting and server faults are retryable.
		return fmt.Errorf("%w: %s", ErrNetwork, resp.Status)
	case resp.StatusCode != http.StatusOK:
		// A 4xx other than auth/throttling means the request itself is bad;
		// neither a retry nor the "CRM unreachable" reply fits.
		return backoff.Permanent(fmt.Errorf("monday API error: %s - %s", resp.Status, truncateBody(body)))
	}

	var gqlResp graphQLResponse
	if err := json.Unmarshal(body, &gqlResp); err != nil {
		return backoff.Permanent(fmt.Errorf("%w: decode response: %v", ErrNetwork, err))
	}

	if len(gqlResp.Errors) > 0 {
		msgs := make([]string, len(gqlResp.Errors))
		for i, e := range gqlResp.Errors {
			msgs[i] = e.Message
		}
		joined := strings.Join(msgs, "; ")
		if strings.Contains(strings.ToLower(joined), "not authenticated") ||
			strings.Contains(strings.ToLower(joined), "unauthorized") {
			return backoff.Permanent(fmt.Errorf("%w: %s", ErrAuth, joined))
		}
		return backoff.Permanent(fmt.Errorf("monday API error: %s", joined))
	}

	if result != nil {
		if err := json.Unmarshal(gqlResp.Data, result); err != nil {
			return backoff.Permanent(fmt.Errorf("decode data: %w", err))
		}
	}
	return nil
}

const meQuery = `query { me { name email } }`

// Me returns the authenticated account. Used by the connectivity check.
func (c *Client) Me(ctx context.Context) (Account, error) {
	var data struct {
		Me Account `json:"me"`
	}
	if err := c.call(ctx, meQuery, nil, &data); err != nil {
		return Account{}, err
	}
	if data.Me.Name == "" && data.Me.Email == "" {
		return Account{}, fmt.Errorf("%w: empty account in response", ErrAuth)
	}
	return data.Me, nil
}

const firstPageQuery = `
query($board_id: [ID!]!, $limit: Int!) {
  boards(ids: $board_id) {
    items_page(limit: $limit) {
      cursor
      items {
        id
        name
        column_values {
          id
          text
        }
      }
    }
  }
}`

const nextPageQuery = `
query($cursor: String!, $limit: Int!) {
  next_items_page(cursor: $cursor, limit: $limit) {
    cursor
    items {
      id
      name
      column_values {
        id
        text
      }
    }
  }
}`

type itemsPage struct {
	Cursor string `json:"cursor"`
	Items  []Item `json:"items"`
}

// ListAll paginates through the board's full item set, in board order.
// A listing fetched within the last listCacheTTL is reused to keep repeated
// lookups in one session from re-paginating the whole board.
func (c *Client) ListAll(ctx context.Context) ([]Item, error) {
	c.mu.Lock()
	if c.cached != nil && time.Since(c.cacheTime) < listCacheTTL {
		items := c.cached
		c.mu.Unlock()
		return items, nil
	}
	c.mu.Unlock()

	var firstPage struct {
		Boards []struct {
			ItemsPage itemsPage `json:"items_page"`
		} `json:"boards"`
	}
	err := c.call(ctx, firstPageQuery, map[string]any{
		"board_id": []int64{c.boardID},
		"limit":    pageLimit,
	}, &firstPage)
	if err != nil {
		return nil, err
	}

	if len(firstPage.Boards) == 0 {
		c.logger.Warn("no boards found", "board_id", c.boardID)
		return []Item{}, nil
	}

	page := firstPage.Boards[0].ItemsPage
	items := append([]Item{}, page.Items...)

	for page.Cursor != "" {
		var next struct {
			NextItemsPage itemsPage `json:"next_items_page"`
		}
		err := c.call(ctx, nextPageQuery, map[string]any{
			"cursor": page.Cursor,
			"limit":  pageLimit,
		}, &next)
		if err != nil {
			return nil, err
		}
		page = next.NextItemsPage
		items = append(items, page.Items...)
	}

	c.logger.Info("fetched items from board", "board_id", c.boardID, "items", len(items))

	c.mu.Lock()
	c.cached = items
	c.cacheTime = time.Now()
	c.mu.Unlock()

	return items, nil
}

// Search returns board items whose name or any column text contains the
// term, case-insensitively, preserving board order. An empty result is not
// an error. The filter runs client-side over the full listing, matching
// the behavior the board's operators rely on (column text matches included).
func (c *Client) Search(ctx context.Context, text string) ([]Item, error) {
	term := strings.ToLower(strings.TrimSpace(text))
	if term == "" {
		c.logger.Warn("empty search term")
		return []Item{}, nil
	}

	items, err := c.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	var results []Item
	for _, item := range items {
		if strings.Contains(strings.ToLower(item.Name), term) {
			results = append(results, item)
			continue
		}
		for _, cv := range item.ColumnValues {
			if strings.Contains(strings.ToLower(cv.Text), term) {
				results = append(results, item)
				break
			}
		}
	}

	c.logger.Info("monday search", "term", term, "matches", len(results))
	if results == nil {
		return []Item{}, nil
	}
	return results, nil
}

func truncateBody(b []byte) string {
	const max = 200
	s := string(b)
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
