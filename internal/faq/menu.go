package faq

import (
	"sort"

	"github.com/ashureev/faqbot/internal/domain"
)

// Topic is a menu entry pointing at a record by its dataset index.
type Topic struct {
	ID    int    `json:"id"`
	Label string `json:"label"`
}

// Categories returns the sorted distinct non-empty categories.
func Categories(records []domain.FaqRecord) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, r := range records {
		if r.Category == "" {
			continue
		}
		if _, ok := seen[r.Category]; ok {
			continue
		}
		seen[r.Category] = struct{}{}
		out = append(out, r.Category)
	}
	sort.Strings(out)
	return out
}

// HasCategory reports whether any record belongs to category.
func HasCategory(records []domain.FaqRecord, category string) bool {
	if category == "" {
		return false
	}
	for _, r := range records {
		if r.Category == category {
			return true
		}
	}
	return false
}

// TopicsIn lists the records of a category in data order.
func TopicsIn(records []domain.FaqRecord, category string) []Topic {
	out := []Topic{}
	for i, r := range records {
		if r.Category != category {
			continue
		}
		out = append(out, Topic{ID: i, Label: r.Label()})
	}
	return out
}
