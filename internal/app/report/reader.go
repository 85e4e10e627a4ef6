// Package report exposes exported donation records by key.
package report

import (
	"context"
	"fmt"
	"francoggm/donations-go-redis/internal/models"
	"strings"
	"time"
)

type ObjectReader interface {
	Get(ctx context.Context, key string) (*models.ExportedObject, error)
}

// Reader is read only; objects never change once written.
type Reader struct {
	objects ObjectReader
	timeout time.Duration
}

func NewReader(objects ObjectReader, timeout time.Duration) *Reader {
	return &Reader{
		objects: objects,
		timeout: timeout,
	}
}

func (r *Reader) Read(ctx context.Context, key string) (*models.ExportedObject, error) {
	if key == "" || strings.Contains(key, "..") || strings.HasPrefix(key, "/") {
		return nil, fmt.Errorf("%w: report %q", models.ErrNotFound, key)
	}

	if r.objects == nil {
		return nil, fmt.Errorf("%w: report %q", models.ErrNotFound, key)
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	return r.objects.Get(ctx, key)
}

// Filename is the attachment name of key: its last path segment.
func Filename(key string) string {
	if i := strings.LastIndex(key, "/"); i >= 0 {
		return key[i+1:]
	}

	return key
}
