package export

import (
	"context"
	"errors"
	"fmt"
	"francoggm/donations-go-redis/internal/models"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	objectKeyPrefix = "export:"
	objectIndexKey  = "export:index"
)

// RedisStore keeps every object in its own hash and indexes keys by write time.
type RedisStore struct {
	cache *redis.Client
	now   func() time.Time
}

func NewRedisStore(cache *redis.Client) *RedisStore {
	return &RedisStore{
		cache: cache,
		now:   time.Now,
	}
}

func (s *RedisStore) Put(ctx context.Context, key string, payload []byte, contentType string) error {
	objectKey := objectKeyPrefix + key
	createdAt := s.now().UTC()

	err := s.cache.Watch(ctx, func(tx *redis.Tx) error {
		exists, err := tx.Exists(ctx, objectKey).Result()
		if err != nil {
			return err
		}
		if exists > 0 {
			return fmt.Errorf("%w: %s", ErrObjectExists, key)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, objectKey,
				"content", payload,
				"content_type", contentType,
				"created_at", createdAt.UnixMilli(),
			)
			pipe.ZAdd(ctx, objectIndexKey, redis.Z{
				Score:  float64(createdAt.UnixMilli()),
				Member: key,
			})
			return nil
		})
		return err
	}, objectKey)
	if err != nil {
		return fmt.Errorf("failed to write export object %s: %w", key, err)
	}

	return nil
}

func (s *RedisStore) Get(ctx context.Context, key string) (*models.ExportedObject, error) {
	fields, err := s.cache.HGetAll(ctx, objectKeyPrefix+key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read export object %s: %w", key, err)
	}

	content, ok := fields["content"]
	if !ok {
		return nil, fmt.Errorf("%w: export object %s", models.ErrNotFound, key)
	}

	object := &models.ExportedObject{
		Key:         key,
		Content:     []byte(content),
		ContentType: fields["content_type"],
	}

	if ms, err := strconv.ParseInt(fields["created_at"], 10, 64); err == nil {
		object.CreatedAt = time.UnixMilli(ms).UTC()
	}

	return object, nil
}

// Keys lists object keys written within [from, to]. Nil bounds are open.
func (s *RedisStore) Keys(ctx context.Context, from, to *time.Time) ([]string, error) {
	lower, upper := "-inf", "+inf"
	if from != nil {
		lower = strconv.FormatInt(from.UnixMilli(), 10)
	}
	if to != nil {
		upper = strconv.FormatInt(to.UnixMilli(), 10)
	}

	keys, err := s.cache.ZRangeByScore(ctx, objectIndexKey, &redis.ZRangeBy{Min: lower, Max: upper}).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("failed to list export objects: %w", err)
	}

	return keys, nil
}
