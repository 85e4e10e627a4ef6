// Package donation binds a submission to a frequency and provider, charges it
// once and hands the normalized record to the export queue.
package donation

import (
	"context"
	"errors"
	"fmt"
	"francoggm/donations-go-redis/internal/app/provider"
	"francoggm/donations-go-redis/internal/logging"
	"francoggm/donations-go-redis/internal/models"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

type FrequencyResolver interface {
	Get(id string) (models.FrequencyDefinition, error)
}

type ProviderBinder interface {
	Bind(frequencyID, providerID string) (provider.Provider, error)
}

// RecordExporter persists a finalized record and returns its key.
type RecordExporter interface {
	SubmitRecord(ctx context.Context, record *models.PaymentRecord) (string, error)
}

type Config struct {
	PaymentTimeout time.Duration
	ExportTimeout  time.Duration
}

type Pipeline struct {
	cfg         Config
	frequencies FrequencyResolver
	providers   ProviderBinder
	exporter    RecordExporter
	logger      *slog.Logger
	now         func() time.Time
}

func NewPipeline(cfg Config, frequencies FrequencyResolver, providers ProviderBinder, exporter RecordExporter, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		cfg:         cfg,
		frequencies: frequencies,
		providers:   providers,
		exporter:    exporter,
		logger:      logger,
		now:         time.Now,
	}
}

// Outcome is the result of a successful payment. ExportErr is set when the
// record could not be exported; the payment itself stands.
type Outcome struct {
	Result        *models.PaymentResult
	Record        *models.PaymentRecord
	ExportKey     string
	ExportErr     error
	ExportSkipped bool
}

// Process runs the submission through the pipeline. The gateway is called at
// most once; failed payments are never retried here.
func (p *Pipeline) Process(ctx context.Context, req *models.PaymentRequest) (*Outcome, error) {
	logger := logging.WithRequestID(ctx, p.logger).With(
		slog.String("webform_id", req.WebformID),
		slog.String("frequency", req.FrequencyID),
		slog.String("provider", req.ProviderID),
	)

	freq, err := p.frequencies.Get(req.FrequencyID)
	if err != nil {
		rejectedTotal.WithLabelValues("configuration").Inc()
		return nil, fmt.Errorf("%w: %w", models.ErrConfiguration, err)
	}

	prov, err := p.providers.Bind(freq.ID, req.ProviderID)
	if err != nil {
		rejectedTotal.WithLabelValues("configuration").Inc()
		return nil, err
	}

	if err := validate(req, freq, prov.Definition()); err != nil {
		rejectedTotal.WithLabelValues("validation").Inc()
		return nil, err
	}

	if req.IdempotencyKey == "" {
		req.IdempotencyKey = uuid.NewString()
	}

	result, err := p.charge(ctx, logger, prov, req)
	if err != nil {
		return nil, err
	}

	record := &models.PaymentRecord{
		TransactionID: prov.ExtractTransactionID(result.RawResult),
		WebformID:     req.WebformID,
		ProviderID:    req.ProviderID,
		FrequencyID:   req.FrequencyID,
		Data:          prov.ExtractPaymentData(req, result.RawResult),
		Timestamp:     p.now().UTC(),
	}

	outcome := &Outcome{Result: result, Record: record}
	p.export(ctx, logger, outcome)

	return outcome, nil
}

func (p *Pipeline) charge(ctx context.Context, logger *slog.Logger, prov provider.Provider, req *models.PaymentRequest) (*models.PaymentResult, error) {
	// a started payment runs to completion or to its own deadline
	callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.cfg.PaymentTimeout)
	defer cancel()

	start := time.Now()
	result, err := prov.ProcessPayment(callCtx, req)
	paymentDuration.WithLabelValues(req.ProviderID).Observe(time.Since(start).Seconds())

	if err == nil && (result == nil || !result.Success) {
		status := provider.StatusDeclined
		if result != nil && result.Status != "" {
			status = result.Status
		}
		err = models.NewPaymentFailure(status, errors.New("gateway reported an unsuccessful payment"))
	}
	if err == nil && result.TransactionID == "" {
		err = models.NewSystemError(provider.StatusInvalidResponse, errors.New("payment accepted without a transaction id"))
	}

	if err != nil {
		var perr *models.PaymentProcessingError
		if !errors.As(err, &perr) {
			perr = models.NewSystemError("provider_error", err)
		}

		paymentsTotal.WithLabelValues(req.ProviderID, outcomeLabel(perr.Code)).Inc()

		if perr.Code == models.PaymentFailure {
			logger.Info("payment declined", slog.String("status", perr.Status))
		} else {
			logger.Error("payment processing failed", slog.String("status", perr.Status), slog.Any("error", perr.Err))
		}

		return nil, perr
	}

	paymentsTotal.WithLabelValues(req.ProviderID, "success").Inc()
	logger.Info("payment processed", slog.String("transaction_id", result.TransactionID), slog.String("status", result.Status))

	return result, nil
}

func (p *Pipeline) export(ctx context.Context, logger *slog.Logger, outcome *Outcome) {
	exportCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.cfg.ExportTimeout)
	defer cancel()

	key, err := p.exporter.SubmitRecord(exportCtx, outcome.Record)
	outcome.ExportKey = key
	if err == nil {
		return
	}

	var silenced interface{ Silenced() bool }
	if errors.As(err, &silenced) && silenced.Silenced() {
		outcome.ExportSkipped = true
		return
	}

	// the queue already logged at error level; the payment is not rolled back
	outcome.ExportErr = err
	logger.Warn("donation record not exported", slog.String("transaction_id", outcome.Record.TransactionID))
}

func outcomeLabel(code models.PaymentErrorCode) string {
	switch code {
	case models.PaymentFailure:
		return "payment_failure"
	default:
		return "system_error"
	}
}
