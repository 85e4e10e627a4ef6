// Package export persists finalized donation records to an external object
// store for asynchronous reporting.
package export

import (
	"context"
	"francoggm/donations-go-redis/internal/logging"
	"francoggm/donations-go-redis/internal/models"
	"log/slog"
	"time"
)

// ObjectStore writes immutable objects addressed by key.
type ObjectStore interface {
	Put(ctx context.Context, key string, payload []byte, contentType string) error
}

// Queue submits payloads to an ObjectStore. It performs exactly one write per
// Submit: retries and multipart uploads are the caller's business.
type Queue struct {
	enabled bool
	store   ObjectStore
	timeout time.Duration
	logger  *slog.Logger
}

// NewQueue returns a queue writing to store. A nil store means the queue is
// not provisioned for this environment.
func NewQueue(enabled bool, store ObjectStore, timeout time.Duration, logger *slog.Logger) *Queue {
	return &Queue{
		enabled: enabled,
		store:   store,
		timeout: timeout,
		logger:  logger,
	}
}

// Submit writes payload under key. Failures are returned as *QueueError.
func (q *Queue) Submit(ctx context.Context, key string, payload []byte, contentType string) error {
	logger := logging.WithRequestID(ctx, q.logger).With(slog.String("key", key))

	err := q.put(ctx, key, payload, contentType)
	if err == nil {
		submissionsTotal.WithLabelValues("ok").Inc()
		logger.Debug("export object written", slog.Int("bytes", len(payload)))
		return nil
	}

	qerr := classify(key, err)
	submissionsTotal.WithLabelValues(qerr.Kind.String()).Inc()

	switch qerr.Kind {
	case KindDisabledHandler:
		logger.Info("export handler disabled, record dropped")
	case KindInvalidEnvironment:
		logger.Warn("export queue not provisioned for this environment, record dropped")
	case KindGeneric:
		logger.Error("export failed", slog.Any("error", qerr.Err))
	}

	return qerr
}

func (q *Queue) put(ctx context.Context, key string, payload []byte, contentType string) error {
	if !q.enabled {
		return ErrHandlerDisabled
	}
	if q.store == nil {
		return ErrEnvironmentNotProvisioned
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, q.timeout)
		defer cancel()
	}

	start := time.Now()
	defer func() {
		submissionDuration.Observe(time.Since(start).Seconds())
	}()

	return q.store.Put(ctx, key, payload, contentType)
}

// SubmitRecord encodes record as CSV and submits it under its report key.
func (q *Queue) SubmitRecord(ctx context.Context, record *models.PaymentRecord) (string, error) {
	key := RecordKey(record)

	payload, err := EncodeCSV(record)
	if err != nil {
		qerr := newQueueError(KindGeneric, key, err)
		submissionsTotal.WithLabelValues(qerr.Kind.String()).Inc()
		q.logger.Error("failed to encode export record", slog.String("key", key), slog.Any("error", err))
		return key, qerr
	}

	return key, q.Submit(ctx, key, payload, ContentTypeCSV)
}
