package handlers

import (
	"context"
	"francoggm/donations-go-redis/internal/app/donation"
	"francoggm/donations-go-redis/internal/app/provider"
	"francoggm/donations-go-redis/internal/app/report"
	"francoggm/donations-go-redis/internal/logging"
	"francoggm/donations-go-redis/internal/models"
	"log/slog"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
)

type DonationProcessor interface {
	Process(ctx context.Context, req *models.PaymentRequest) (*donation.Outcome, error)
}

type FrequencyLister interface {
	List() []models.FrequencyDefinition
	Get(id string) (models.FrequencyDefinition, error)
}

type ProviderLister interface {
	Get(id string) (provider.Provider, error)
	ForFrequency(frequencyID string, enabledOnly bool) []provider.Provider
}

type ReportReader interface {
	Read(ctx context.Context, key string) (*models.ExportedObject, error)
	Summarize(ctx context.Context, from, to *time.Time) (*report.Summary, error)
}

type Handlers struct {
	pipeline    DonationProcessor
	frequencies FrequencyLister
	providers   ProviderLister
	reports     ReportReader
	logger      *slog.Logger
}

func NewHandlers(pipeline DonationProcessor, frequencies FrequencyLister, providers ProviderLister, reports ReportReader, logger *slog.Logger) *Handlers {
	return &Handlers{
		pipeline:    pipeline,
		frequencies: frequencies,
		providers:   providers,
		reports:     reports,
		logger:      logger,
	}
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func (h *Handlers) writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	data, err := sonic.Marshal(body)
	if err != nil {
		logging.WithRequestID(r.Context(), h.logger).Error("failed to encode response", slog.Any("error", err))
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data)
}
