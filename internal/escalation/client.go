// Package escalation posts escalation events to the data API log sink.
package escalation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// DefaultType is the event type recorded by the log sheet for escalations.
const DefaultType = "🚨エスカレーション"

// Entry is a single log event.
type Entry struct {
	Message  string `json:"message"`
	Reply    string `json:"reply"`
	Type     string `json:"type"`
	UserName string `json:"userName"`
}

// Logger records escalation events.
type Logger interface {
	Log(ctx context.Context, entry Entry) error
}

// Client posts entries to the data API. The response status is ignored.
type Client struct {
	httpClient  *http.Client
	url         string
	defaultType string
}

// NewClient creates a log sink client. A nil httpClient uses http.DefaultClient.
func NewClient(httpClient *http.Client, url, defaultType string) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if defaultType == "" {
		defaultType = DefaultType
	}
	return &Client{httpClient: httpClient, url: url, defaultType: defaultType}
}

// Log posts one entry. Only transport failures are reported; the call is never retried.
func (c *Client) Log(ctx context.Context, entry Entry) error {
	if entry.Type == "" {
		entry.Type = c.defaultType
	}

	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal log entry: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build log request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("post log entry: %w", err)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
	return nil
}

var _ Logger = (*Client)(nil)
