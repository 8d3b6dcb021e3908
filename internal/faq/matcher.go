package faq

import (
	"strings"

	"github.com/ashureev/faqbot/internal/domain"
)

// Search returns the first record having any keyword contained in query.
// Matching is case-insensitive substring containment over the trimmed query;
// records and keywords are tried in their listed order.
func Search(query string, records []domain.FaqRecord) (domain.FaqRecord, bool) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return domain.FaqRecord{}, false
	}

	for _, r := range records {
		for _, piece := range strings.Split(r.Keywords, ",") {
			kw := strings.ToLower(strings.TrimSpace(piece))
			if kw == "" {
				continue
			}
			if strings.Contains(q, kw) {
				return r, true
			}
		}
	}
	return domain.FaqRecord{}, false
}
