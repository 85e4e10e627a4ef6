package report

import (
	"context"
	"fmt"
	"francoggm/donations-go-redis/internal/app/export"
	"francoggm/donations-go-redis/internal/models"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubReader map[string]*models.ExportedObject

func (s stubReader) Get(ctx context.Context, key string) (*models.ExportedObject, error) {
	if _, ok := ctx.Deadline(); !ok {
		return nil, fmt.Errorf("missing deadline")
	}

	obj, ok := s[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrNotFound, key)
	}
	return obj, nil
}

func TestReader_Read(t *testing.T) {
	r := NewReader(stubReader{
		"donations/donate/a.csv": {Key: "donations/donate/a.csv", Content: []byte("x"), ContentType: "text/csv"},
	}, time.Second)

	obj, err := r.Read(context.Background(), "donations/donate/a.csv")
	require.NoError(t, err)
	assert.Equal(t, []byte("x"), obj.Content)

	for _, key := range []string{"", "donations/donate/b.csv", "../etc/passwd", "/abs.csv"} {
		_, err := r.Read(context.Background(), key)
		assert.ErrorIs(t, err, models.ErrNotFound, key)
	}
}

func TestReader_NoStore(t *testing.T) {
	_, err := NewReader(nil, time.Second).Read(context.Background(), "a.csv")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestReader_ReadsBackSubmittedRecord(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := export.NewRedisStore(client)
	record := &models.PaymentRecord{
		TransactionID: "test_token_1",
		WebformID:     "donate",
		Data:          models.PaymentData{{Key: "amount", Value: int64(500)}, {Key: "currency", Value: "USD"}},
		Timestamp:     time.Now(),
	}
	payload, err := export.EncodeCSV(record)
	require.NoError(t, err)

	key := export.RecordKey(record)
	require.NoError(t, store.Put(context.Background(), key, payload, export.ContentTypeCSV))

	obj, err := NewReader(store, time.Second).Read(context.Background(), key)
	require.NoError(t, err)
	assert.Equal(t, payload, obj.Content)
	assert.Equal(t, export.ContentTypeCSV, obj.ContentType)
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "a.csv", Filename("donations/donate/a.csv"))
	assert.Equal(t, "a.csv", Filename("a.csv"))
}
