// Package ninox implements the remote record-store client: paginated record
// fetch, table-field introspection and chunked batch writes with
// partial-success reporting.
package ninox

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cenkalti/backoff/v4"
)

const (
	defaultPerPage         = 1000
	defaultInsertBatchSize = 400
	defaultUpdateBatchSize = 300
)

type Config struct {
	BaseURL    string
	APIToken   string
	TeamID     string
	DatabaseID string

	ParticipantsTable string
	ReportTable       string

	// PMAsText uploads the PM sentinel as the text "PM"; when false the
	// field is left null (for stores whose Hp columns are numeric).
	PMAsText bool

	InsertBatchSize int
	UpdateBatchSize int
}

type Client struct {
	cfg  Config
	http *http.Client
}

func NewClient(cfg Config) *Client {
	if cfg.InsertBatchSize <= 0 {
		cfg.InsertBatchSize = defaultInsertBatchSize
	}
	if cfg.UpdateBatchSize <= 0 {
		cfg.UpdateBatchSize = defaultUpdateBatchSize
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: 60 * time.Second},
	}
}

// BatchError reports a failed batch write together with how many records
// were submitted before the failure.
type BatchError struct {
	Op     string
	Done   int
	Total  int
	Status int
	Body   string
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("%s: %d of %d records submitted, status %d: %s", e.Op, e.Done, e.Total, e.Status, e.Body)
}

type record struct {
	ID     string                 `json:"id"`
	Fields map[string]interface{} `json:"fields"`
}

func (c *Client) recordsURL(table string) string {
	return fmt.Sprintf("%s/teams/%s/databases/%s/tables/%s/records",
		c.cfg.BaseURL, c.cfg.TeamID, c.cfg.DatabaseID, table)
}

func (c *Client) tablesURL() string {
	return fmt.Sprintf("%s/teams/%s/databases/%s/tables",
		c.cfg.BaseURL, c.cfg.TeamID, c.cfg.DatabaseID)
}

// getJSON fetches a URL and decodes the response body, retrying transient
// failures with a short constant backoff.
func (c *Client) getJSON(ctx context.Context, rawURL string, out interface{}) error {
	var body []byte
	err := backoff.Retry(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
			if err != nil {
				return backoff.Permanent(err)
			}
			req.Header.Set("Authorization", "Bearer "+c.cfg.APIToken)

			resp, err := c.http.Do(req)
			if err != nil {
				return fmt.Errorf("http.Get: %w", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				io.Copy(io.Discard, resp.Body)
				return fmt.Errorf("status code error: %d %s", resp.StatusCode, resp.Status)
			}

			body, err = io.ReadAll(resp.Body)
			if err != nil {
				return fmt.Errorf("read body: %w", err)
			}
			return nil
		},
		backoff.WithContext(
			backoff.WithMaxRetries(backoff.NewConstantBackOff(10*time.Millisecond), 10),
			ctx,
		),
	)
	if err != nil {
		return err
	}

	return sonic.Unmarshal(body, out)
}

// fetchRecords pages through a table until a short page signals the end.
func (c *Client) fetchRecords(ctx context.Context, table string) ([]record, error) {
	var out []record
	offset := 0
	for {
		u, err := url.Parse(c.recordsURL(table))
		if err != nil {
			return nil, err
		}
		q := u.Query()
		q.Set("perPage", strconv.Itoa(defaultPerPage))
		q.Set("offset", strconv.Itoa(offset))
		u.RawQuery = q.Encode()

		var page []record
		if err := c.getJSON(ctx, u.String(), &page); err != nil {
			return nil, fmt.Errorf("fetch records table %s offset %d: %w", table, offset, err)
		}
		if len(page) == 0 {
			break
		}
		out = append(out, page...)
		if len(page) < defaultPerPage {
			break
		}
		offset += defaultPerPage
	}
	return out, nil
}

// TableFields returns the field names the store reports for a table. An
// empty set means introspection was inconclusive; writers then send every
// column as-is.
func (c *Client) TableFields(ctx context.Context, table string) (map[string]bool, error) {
	var tables []struct {
		ID     string `json:"id"`
		Fields []struct {
			Name string `json:"name"`
		} `json:"fields"`
		Columns []struct {
			Name string `json:"name"`
		} `json:"columns"`
	}
	if err := c.getJSON(ctx, c.tablesURL(), &tables); err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}

	fields := make(map[string]bool)
	for _, t := range tables {
		if t.ID != table {
			continue
		}
		for _, f := range t.Fields {
			if f.Name != "" {
				fields[f.Name] = true
			}
		}
		for _, col := range t.Columns {
			if col.Name != "" {
				fields[col.Name] = true
			}
		}
		break
	}
	return fields, nil
}

// postBatch submits one chunk of rows. Non-200 halts the caller's loop.
func (c *Client) postBatch(ctx context.Context, table string, rows interface{}) (int, string, error) {
	payload, err := sonic.Marshal(rows)
	if err != nil {
		return 0, "", fmt.Errorf("marshal batch: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.recordsURL(table), bytes.NewReader(payload))
	if err != nil {
		return 0, "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, "", fmt.Errorf("http.Post: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body), nil
}
