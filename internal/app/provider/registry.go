package provider

import (
	"fmt"
	"francoggm/donations-go-redis/internal/models"
)

// FrequencyLookup reports whether a frequency id is registered.
type FrequencyLookup interface {
	Has(id string) bool
}

// Registry keeps providers in registration order. It is filled at startup and
// only read afterwards.
type Registry struct {
	frequencies FrequencyLookup
	providers   []Provider
	index       map[string]int
}

func NewRegistry(frequencies FrequencyLookup) *Registry {
	return &Registry{
		frequencies: frequencies,
		index:       make(map[string]int),
	}
}

func (r *Registry) Register(p Provider) error {
	def := p.Definition()
	if err := def.Validate(); err != nil {
		return err
	}

	if _, ok := r.index[def.ID]; ok {
		return fmt.Errorf("%w: provider %q already registered", models.ErrConfiguration, def.ID)
	}

	if !r.frequencies.Has(def.FrequencyID) {
		return fmt.Errorf("%w: provider %q references unknown frequency %q", models.ErrConfiguration, def.ID, def.FrequencyID)
	}

	r.index[def.ID] = len(r.providers)
	r.providers = append(r.providers, p)

	return nil
}

func (r *Registry) Get(id string) (Provider, error) {
	i, ok := r.index[id]
	if !ok {
		return nil, fmt.Errorf("%w: %w: provider %q", models.ErrConfiguration, models.ErrNotFound, id)
	}

	return r.providers[i], nil
}

func (r *Registry) List() []Provider {
	out := make([]Provider, len(r.providers))
	copy(out, r.providers)
	return out
}

// ForFrequency returns the providers bound to frequencyID. With enabledOnly
// set, providers not enabled by default are left out.
func (r *Registry) ForFrequency(frequencyID string, enabledOnly bool) []Provider {
	var out []Provider
	for _, p := range r.providers {
		def := p.Definition()
		if def.FrequencyID != frequencyID {
			continue
		}
		if enabledOnly && !def.EnableByDefault {
			continue
		}
		out = append(out, p)
	}

	return out
}

// Bind resolves the provider for a frequency/provider pair. A provider bound
// to another frequency is a configuration error.
func (r *Registry) Bind(frequencyID, providerID string) (Provider, error) {
	p, err := r.Get(providerID)
	if err != nil {
		return nil, err
	}

	if def := p.Definition(); def.FrequencyID != frequencyID {
		return nil, fmt.Errorf("%w: provider %q is bound to frequency %q, not %q",
			models.ErrConfiguration, providerID, def.FrequencyID, frequencyID)
	}

	return p, nil
}
