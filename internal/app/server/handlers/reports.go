package handlers

import (
	"fmt"
	"francoggm/donations-go-redis/internal/app/report"
	"francoggm/donations-go-redis/internal/models"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
)

func (h *Handlers) GetReport(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "*")

	object, err := h.reports.Read(r.Context(), key)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.Filename(object.Key)))
	w.Header().Set("Content-Length", strconv.Itoa(len(object.Content)))
	w.WriteHeader(http.StatusOK)
	w.Write(object.Content)
}

// ListReports summarizes the reports exported between the optional from and
// to query parameters (RFC 3339).
func (h *Handlers) ListReports(w http.ResponseWriter, r *http.Request) {
	from, err := parseTimeParam(r, "from")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	to, err := parseTimeParam(r, "to")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	summary, err := h.reports.Summarize(r.Context(), from, to)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, summary)
}

func parseTimeParam(r *http.Request, name string) (*time.Time, error) {
	value := r.URL.Query().Get(name)
	if value == "" {
		return nil, nil
	}

	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, &models.ValidationError{Field: name, Reason: "must be an RFC 3339 timestamp"}
	}

	return &t, nil
}
