// Package faq fetches FAQ data from the spreadsheet-backed data API and
// provides keyword matching and menu helpers over it.
package faq

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/ashureev/faqbot/internal/domain"
)

// maxPayloadSize caps the data API response body.
const maxPayloadSize = 8 << 20

// ErrUnavailable is returned when FAQ data could not be loaded.
var ErrUnavailable = errors.New("faq data unavailable")

// Source loads the FAQ dataset.
type Source interface {
	FetchAll(ctx context.Context) (domain.Dataset, error)
}

// Client reads FAQ records and the employee roster from the data API.
type Client struct {
	httpClient *http.Client
	url        string
}

// NewClient creates a data API client. A nil httpClient uses http.DefaultClient.
func NewClient(httpClient *http.Client, url string) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{httpClient: httpClient, url: url}
}

// FetchAll performs one read against the data API.
// On any failure it returns an empty dataset and an error wrapping ErrUnavailable.
func (c *Client) FetchAll(ctx context.Context) (domain.Dataset, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("%w: build request: %v", ErrUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return domain.Dataset{}, fmt.Errorf("%w: unexpected status %d", ErrUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadSize))
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("%w: read body: %v", ErrUnavailable, err)
	}

	data, err := Decode(body)
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return data, nil
}

// cell is a spreadsheet value that may arrive as a string, number, bool or null.
type cell string

func (c *cell) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*c = ""
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*c = cell(s)
	case bytes.Equal(b, []byte("true")), bytes.Equal(b, []byte("false")):
		*c = cell(b)
	default:
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return fmt.Errorf("unsupported cell value %s", b)
		}
		if i, err := strconv.ParseInt(n.String(), 10, 64); err == nil {
			*c = cell(strconv.FormatInt(i, 10))
			return nil
		}
		*c = cell(n.String())
	}
	return nil
}

type wireRecord struct {
	Category cell `json:"category"`
	Summary  cell `json:"summary"`
	Keywords cell `json:"keywords"`
	Answer   cell `json:"answer"`
}

type wireObject struct {
	FAQ       []wireRecord `json:"faq"`
	Employees []cell       `json:"employees"`
}

// Decode parses either a bare record array or a {faq, employees} object.
func Decode(body []byte) (domain.Dataset, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return domain.Dataset{}, errors.New("empty payload")
	}

	switch body[0] {
	case '[':
		var records []wireRecord
		if err := json.Unmarshal(body, &records); err != nil {
			return domain.Dataset{}, fmt.Errorf("decode faq list: %w", err)
		}
		return domain.Dataset{FAQ: toRecords(records), Employees: []string{}}, nil
	case '{':
		var obj wireObject
		if err := json.Unmarshal(body, &obj); err != nil {
			return domain.Dataset{}, fmt.Errorf("decode faq object: %w", err)
		}
		employees := make([]string, 0, len(obj.Employees))
		for _, e := range obj.Employees {
			employees = append(employees, string(e))
		}
		return domain.Dataset{FAQ: toRecords(obj.FAQ), Employees: employees}, nil
	default:
		return domain.Dataset{}, errors.New("payload is neither an array nor an object")
	}
}

func toRecords(in []wireRecord) []domain.FaqRecord {
	out := make([]domain.FaqRecord, 0, len(in))
	for _, r := range in {
		out = append(out, domain.FaqRecord{
			Category: string(r.Category),
			Summary:  string(r.Summary),
			Keywords: string(r.Keywords),
			Answer:   string(r.Answer),
		})
	}
	return out
}
