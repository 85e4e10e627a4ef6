package handlers

import (
	"errors"
	"francoggm/donations-go-redis/internal/logging"
	"francoggm/donations-go-redis/internal/models"
	"log/slog"
	"net/http"
)

type errorResponse struct {
	Error  string `json:"error"`
	Code   string `json:"code"`
	Field  string `json:"field,omitempty"`
	Status string `json:"status,omitempty"`
}

// writeError translates the error taxonomy into HTTP responses.
func (h *Handlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		verr *models.ValidationError
		perr *models.PaymentProcessingError
	)

	switch {
	case errors.As(err, &verr):
		h.writeJSON(w, r, http.StatusUnprocessableEntity, errorResponse{
			Error: verr.Error(), Code: "validation_error", Field: verr.Field,
		})
	case errors.Is(err, models.ErrValidation):
		h.writeJSON(w, r, http.StatusUnprocessableEntity, errorResponse{Error: err.Error(), Code: "validation_error"})
	case errors.Is(err, models.ErrConfiguration):
		h.writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: err.Error(), Code: "configuration_error"})
	case errors.Is(err, models.ErrNotFound):
		h.writeJSON(w, r, http.StatusNotFound, errorResponse{Error: err.Error(), Code: "not_found"})
	case errors.As(err, &perr) && perr.Code == models.PaymentFailure:
		h.writeJSON(w, r, http.StatusPaymentRequired, errorResponse{
			Error: "the payment was declined", Code: string(perr.Code), Status: perr.Status,
		})
	case errors.As(err, &perr):
		h.writeJSON(w, r, http.StatusBadGateway, errorResponse{
			Error: "the payment could not be processed", Code: string(perr.Code), Status: perr.Status,
		})
	default:
		logging.WithRequestID(r.Context(), h.logger).Error("unhandled error", slog.Any("error", err))
		h.writeJSON(w, r, http.StatusInternalServerError, errorResponse{Error: "internal error", Code: "internal_error"})
	}
}
