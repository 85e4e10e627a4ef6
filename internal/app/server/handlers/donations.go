package handlers

import (
	"francoggm/donations-go-redis/internal/models"
	"io"
	"net/http"

	"github.com/bytedance/sonic"
)

type paymentField struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

type exportStatus struct {
	State string `json:"state"` // exported|skipped|failed
	Key   string `json:"key,omitempty"`
}

type donationResponse struct {
	Success       bool           `json:"success"`
	TransactionID string         `json:"transactionId"`
	Status        string         `json:"status"`
	PaymentData   []paymentField `json:"paymentData"`
	Export        exportStatus   `json:"export"`
}

func (h *Handlers) ProcessDonation(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		h.writeError(w, r, &models.ValidationError{Field: "body", Reason: "could not be read"})
		return
	}

	var req models.PaymentRequest
	if err := sonic.Unmarshal(body, &req); err != nil {
		h.writeError(w, r, &models.ValidationError{Field: "body", Reason: "is not valid JSON"})
		return
	}

	outcome, err := h.pipeline.Process(r.Context(), &req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	res := donationResponse{
		Success:       outcome.Result.Success,
		TransactionID: outcome.Record.TransactionID,
		Status:        outcome.Result.Status,
		PaymentData:   make([]paymentField, 0, len(outcome.Record.Data)),
		Export:        exportStatus{State: "exported", Key: outcome.ExportKey},
	}
	for _, f := range outcome.Record.Data {
		res.PaymentData = append(res.PaymentData, paymentField{Key: f.Key, Value: f.Value})
	}

	switch {
	case outcome.ExportSkipped:
		res.Export = exportStatus{State: "skipped"}
	case outcome.ExportErr != nil:
		res.Export = exportStatus{State: "failed"}
	}

	h.writeJSON(w, r, http.StatusOK, res)
}
