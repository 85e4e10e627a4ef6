package report

import (
	"context"
	"fmt"
	"francoggm/donations-go-redis/internal/models"
	"strings"
	"time"
)

// ObjectIndex is implemented by stores that can enumerate their objects by
// write time.
type ObjectIndex interface {
	Keys(ctx context.Context, from, to *time.Time) ([]string, error)
}

// Summary lists the reports exported within a time range, counted per webform.
type Summary struct {
	Total    int            `json:"total"`
	Webforms map[string]int `json:"webforms"`
	Keys     []string       `json:"keys"`
}

// Summarize returns the reports written within [from, to]. Nil bounds are
// open. Stores without an index report ErrNotFound.
func (r *Reader) Summarize(ctx context.Context, from, to *time.Time) (*Summary, error) {
	index, ok := r.objects.(ObjectIndex)
	if !ok {
		return nil, fmt.Errorf("%w: report index", models.ErrNotFound)
	}

	if from != nil && to != nil && from.After(*to) {
		return nil, &models.ValidationError{Field: "from", Reason: "must not be after to"}
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	keys, err := index.Keys(ctx, from, to)
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		Total:    len(keys),
		Webforms: make(map[string]int),
		Keys:     keys,
	}
	if summary.Keys == nil {
		summary.Keys = []string{}
	}

	for _, key := range keys {
		summary.Webforms[webformOf(key)]++
	}

	return summary, nil
}

// webformOf extracts the webform segment of donations/<webform>/<file>.
func webformOf(key string) string {
	parts := strings.Split(key, "/")
	if len(parts) < 3 {
		return ""
	}

	return parts[len(parts)-2]
}
