package report

import (
	"context"
	"francoggm/donations-go-redis/internal/app/export"
	"francoggm/donations-go-redis/internal/models"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReader_Summarize(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := export.NewRedisStore(client)
	ctx := context.Background()

	for _, key := range []string{
		"donations/spring/a.csv",
		"donations/spring/b.csv",
		"donations/autumn/c.csv",
	} {
		require.NoError(t, store.Put(ctx, key, []byte("x"), export.ContentTypeCSV))
	}

	summary, err := NewReader(store, time.Second).Summarize(ctx, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, map[string]int{"spring": 2, "autumn": 1}, summary.Webforms)
	assert.ElementsMatch(t, []string{"donations/spring/a.csv", "donations/spring/b.csv", "donations/autumn/c.csv"}, summary.Keys)

	future := time.Now().Add(time.Hour)
	summary, err = NewReader(store, time.Second).Summarize(ctx, &future, nil)
	require.NoError(t, err)
	assert.Zero(t, summary.Total)
	assert.Empty(t, summary.Keys)
}

func TestReader_SummarizeRejectsInvertedRange(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	from := time.Now()
	to := from.Add(-time.Minute)

	_, err := NewReader(export.NewRedisStore(client), time.Second).Summarize(context.Background(), &from, &to)
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestReader_SummarizeWithoutIndex(t *testing.T) {
	_, err := NewReader(stubReader{}, time.Second).Summarize(context.Background(), nil, nil)
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = NewReader(nil, time.Second).Summarize(context.Background(), nil, nil)
	assert.ErrorIs(t, err, models.ErrNotFound)
}
