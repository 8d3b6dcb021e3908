// Package domain contains core domain types for the FAQ chat widget.
package domain

import "strings"

// FaqRecord is one FAQ entry as served by the data source.
// Keywords keeps the raw comma-separated form.
type FaqRecord struct {
	Category string `json:"category"`
	Summary  string `json:"summary,omitempty"`
	Keywords string `json:"keywords"`
	Answer   string `json:"answer"`
}

// KeywordList returns the trimmed, non-empty keywords in their listed order.
func (r FaqRecord) KeywordList() []string {
	parts := strings.Split(r.Keywords, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if kw := strings.TrimSpace(p); kw != "" {
			out = append(out, kw)
		}
	}
	return out
}

// Label returns the summary, falling back to the first keyword token.
func (r FaqRecord) Label() string {
	if r.Summary != "" {
		return r.Summary
	}
	first, _, _ := strings.Cut(r.Keywords, ",")
	return strings.TrimSpace(first)
}

// HasKeyword reports whether kw is one of the record's keywords.
func (r FaqRecord) HasKeyword(kw string) bool {
	for _, k := range r.KeywordList() {
		if k == kw {
			return true
		}
	}
	return false
}

// Dataset is everything fetched from the data source in one read.
type Dataset struct {
	FAQ       []FaqRecord `json:"faq"`
	Employees []string    `json:"employees"`
}

// Empty reports whether no FAQ data is available.
func (d *Dataset) Empty() bool {
	return d == nil || len(d.FAQ) == 0
}
