package handlers

import (
	"francoggm/donations-go-redis/internal/models"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

func (h *Handlers) ListFrequencies(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, h.frequencies.List())
}

func (h *Handlers) ListProviders(w http.ResponseWriter, r *http.Request) {
	frequencyID := chi.URLParam(r, "frequencyID")
	if _, err := h.frequencies.Get(frequencyID); err != nil {
		h.writeError(w, r, err)
		return
	}

	enabledOnly := r.URL.Query().Get("enabled") == "true"

	defs := make([]models.ProviderDefinition, 0)
	for _, p := range h.providers.ForFrequency(frequencyID, enabledOnly) {
		defs = append(defs, p.Definition())
	}

	h.writeJSON(w, r, http.StatusOK, defs)
}

type formResponse struct {
	WebformID   string                         `json:"webformId"`
	FrequencyID string                         `json:"frequencyId"`
	Form        *models.CompositeForm          `json:"form"`
	Standalone  map[string]*models.FormElement `json:"standalone"`
}

// BuildForm assembles the composite payment form of a webform for one
// frequency. The providers query parameter selects providers by id; without
// it the providers enabled by default are used.
func (h *Handlers) BuildForm(w http.ResponseWriter, r *http.Request) {
	state := &models.FormState{
		WebformID:   chi.URLParam(r, "webformID"),
		FrequencyID: r.URL.Query().Get("frequency"),
	}

	freq, err := h.frequencies.Get(state.FrequencyID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	selected := h.providers.ForFrequency(freq.ID, true)
	if ids := r.URL.Query().Get("providers"); ids != "" {
		selected = selected[:0:0]
		for _, id := range strings.Split(ids, ",") {
			p, err := h.providers.Get(strings.TrimSpace(id))
			if err != nil {
				h.writeError(w, r, err)
				return
			}
			if p.Definition().FrequencyID != freq.ID {
				h.writeError(w, r, &models.ValidationError{Field: "providers", Reason: id + " does not support " + freq.ID})
				return
			}
			selected = append(selected, p)
		}
	}

	form := models.NewCompositeForm()
	standalone := make(map[string]*models.FormElement)
	for _, p := range selected {
		p.AugmentCompositeForm(state, form)
		if el := p.DescribeFormElement(); el != nil {
			standalone[p.Definition().ID] = el
		}
	}

	if err := form.Validate(); err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, formResponse{
		WebformID:   state.WebformID,
		FrequencyID: freq.ID,
		Form:        form,
		Standalone:  standalone,
	})
}
