package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go-cityreport/internal/config"
)

// Client wraps the managed backend's row CRUD surface. Persistence, auth and
// the change feed all live server-side; this adapter only passes parameters.
type Client struct {
	baseURL    string
	anonKey    string
	serviceKey string
	http       *http.Client
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.BackendURL, "/"),
		anonKey:    cfg.AnonKey,
		serviceKey: cfg.ServiceRoleKey,
		http:       &http.Client{Timeout: 30 * time.Second},
	}
}

// SelectOptions narrows a table read. Filters use the backend's operator
// syntax, e.g. {"user_id": "eq.<id>"}. Range bounds are inclusive row offsets.
type SelectOptions struct {
	Filters map[string]string
	Order   string // "<column>.<asc|desc>"
	Range   *RowRange
	Count   bool // request an exact total row count
}

type RowRange struct {
	From int
	To   int
}

// Select reads rows from a table into dest and returns the exact total count
// when one was requested (-1 otherwise).
func (c *Client) Select(ctx context.Context, table string, opts SelectOptions, dest any) (int, error) {
	q := url.Values{}
	q.Set("select", "*")
	if opts.Order != "" {
		q.Set("order", opts.Order)
	}
	for col, cond := range opts.Filters {
		q.Set(col, cond)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.restURL(table)+"?"+q.Encode(), nil)
	if err != nil {
		return -1, err
	}
	c.setAuthHeaders(req, c.anonKey)
	if opts.Range != nil {
		req.Header.Set("Range-Unit", "items")
		req.Header.Set("Range", fmt.Sprintf("%d-%d", opts.Range.From, opts.Range.To))
	}
	if opts.Count {
		req.Header.Set("Prefer", "count=exact")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return -1, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return -1, readError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return -1, fmt.Errorf("decode %s rows: %w", table, err)
	}

	count := -1
	if opts.Count {
		count = parseTotal(resp.Header.Get("Content-Range"))
	}
	return count, nil
}

// Update issues a partial update to rows matching the filter.
func (c *Client) Update(ctx context.Context, table string, filter map[string]string, patch any) error {
	body, err := json.Marshal(patch)
	if err != nil {
		return err
	}

	q := url.Values{}
	for col, cond := range filter {
		q.Set(col, cond)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, c.restURL(table)+"?"+q.Encode(), bytes.NewReader(body))
	if err != nil {
		return err
	}
	c.setAuthHeaders(req, c.anonKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "return=minimal")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return readError(resp)
	}
	return nil
}

// Insert creates rows in a table. Used by the seeder.
func (c *Client) Insert(ctx context.Context, table string, rows any) error {
	body, err := json.Marshal(rows)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.restURL(table), bytes.NewReader(body))
	if err != nil {
		return err
	}
	c.setAuthHeaders(req, c.anonKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "return=minimal")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return readError(resp)
	}
	return nil
}

func (c *Client) restURL(table string) string {
	return c.baseURL + "/rest/v1/" + table
}

func (c *Client) setAuthHeaders(req *http.Request, key string) {
	req.Header.Set("apikey", key)
	req.Header.Set("Authorization", "Bearer "+key)
}

func readError(resp *http.Response) error {
	payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var apiErr struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(payload, &apiErr) == nil && apiErr.Message != "" {
		return fmt.Errorf("backend error (%d): %s", resp.StatusCode, apiErr.Message)
	}
	return fmt.Errorf("backend error (%d): %s", resp.StatusCode, strings.TrimSpace(string(payload)))
}

// parseTotal extracts the exact total from a Content-Range header like
// "0-9/25" or "*/25". Returns -1 when no total was reported.
func parseTotal(contentRange string) int {
	idx := strings.LastIndex(contentRange, "/")
	if idx < 0 {
		return -1
	}
	total := contentRange[idx+1:]
	if total == "*" || total == "" {
		return -1
	}
	n, err := strconv.Atoi(total)
	if err != nil {
		return -1
	}
	return n
}
