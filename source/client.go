// Package source reads rows from the hosted source store's REST query API.
// The pipeline only ever issues unfiltered range reads ordered by a
// timestamp column, plus one unfiltered exact count per table.
package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/datbolt/dbmigrate/logger"
)

// Row is one source row as returned by the query API.
type Row map[string]interface{}

// QueryError is returned when the query API answers with an error payload.
// It aborts the current table's migration; there is no retry.
type QueryError struct {
	Table   string
	Status  int
	Message string
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("source query failed for table %v (HTTP %v): %v", e.Table, e.Status, e.Message)
}

// Client talks to the source query API. It is long-lived and created once
// at startup by the run orchestrator.
type Client struct {
	log        logger.Logger
	baseURL    string
	serviceKey string
	// No timeout on purpose: the pipeline has no retry or cancellation
	// policy beyond process termination.
	httpClient *http.Client
}

// NewClient returns a Client for the query API rooted at baseURL.
func NewClient(log logger.Logger, baseURL, serviceKey string) *Client {
	return &Client{
		log:        log,
		baseURL:    strings.TrimRight(baseURL, "/"),
		serviceKey: serviceKey,
		httpClient: &http.Client{},
	}
}

// Ping verifies the query API is reachable and the credential is accepted.
func (c *Client) Ping(ctx context.Context) error {
	req, err := c.newRequest(ctx, c.baseURL+"/rest/v1/")
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "unable to reach source query API")
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode >= 400 {
		return errors.Errorf("source query API rejected connection check: %v", resp.Status)
	}
	return nil
}

// Count returns the total number of rows in the given source table.
func (c *Client) Count(ctx context.Context, table string) (int, error) {
	req, err := c.newRequest(ctx, c.tableURL(table, url.Values{"select": {"*"}, "limit": {"1"}}))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Prefer", "count=exact")
	req.Header.Set("Range", "0-0")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, errors.Wrapf(err, "count request failed for table %v", table)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode >= 400 {
		return 0, c.queryError(table, resp)
	}
	// Content-Range is "<from>-<to>/<total>" or "*/<total>" for an empty range.
	cr := resp.Header.Get("Content-Range")
	idx := strings.LastIndex(cr, "/")
	if idx < 0 {
		return 0, &QueryError{Table: table, Status: resp.StatusCode, Message: fmt.Sprintf("missing or malformed Content-Range header %q", cr)}
	}
	total, err := strconv.Atoi(cr[idx+1:])
	if err != nil {
		return 0, &QueryError{Table: table, Status: resp.StatusCode, Message: fmt.Sprintf("unparseable row count in Content-Range header %q", cr)}
	}
	return total, nil
}

// FetchPage returns up to limit rows from table starting at the zero-based
// row offset, ordered ascending by orderBy.
func (c *Client) FetchPage(ctx context.Context, table, orderBy string, offset, limit int) ([]Row, error) {
	q := url.Values{
		"select": {"*"},
		"order":  {orderBy + ".asc"},
		"offset": {strconv.Itoa(offset)},
		"limit":  {strconv.Itoa(limit)},
	}
	req, err := c.newRequest(ctx, c.tableURL(table, q))
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "page request failed for table %v offset %v", table, offset)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode >= 400 {
		return nil, c.queryError(table, resp)
	}
	var rows []Row
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, &QueryError{Table: table, Status: resp.StatusCode, Message: fmt.Sprintf("unable to decode row payload: %v", err)}
	}
	c.log.Debug("fetched ", len(rows), " rows from ", table, " at offset ", offset)
	return rows, nil
}

func (c *Client) tableURL(table string, q url.Values) string {
	return fmt.Sprintf("%v/rest/v1/%v?%v", c.baseURL, url.PathEscape(table), q.Encode())
}

func (c *Client) newRequest(ctx context.Context, rawURL string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "unable to build source request")
	}
	req.Header.Set("apikey", c.serviceKey)
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// queryError turns an error payload from the query API into a QueryError.
func (c *Client) queryError(table string, resp *http.Response) *QueryError {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	msg := strings.TrimSpace(string(body))
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		msg = payload.Message
	}
	if msg == "" {
		msg = resp.Status
	}
	return &QueryError{Table: table, Status: resp.StatusCode, Message: msg}
}
