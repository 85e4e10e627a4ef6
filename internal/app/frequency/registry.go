// Package frequency holds the donation cadence definitions known to the process.
package frequency

import (
	"cmp"
	"fmt"
	"francoggm/donations-go-redis/internal/models"
	"slices"
)

// Registry is populated at startup and read-only afterwards, so concurrent
// reads need no locking.
type Registry struct {
	definitions []models.FrequencyDefinition
	index       map[string]int
}

func NewRegistry(definitions ...models.FrequencyDefinition) (*Registry, error) {
	r := &Registry{
		index: make(map[string]int),
	}

	for _, def := range definitions {
		if err := r.Register(def); err != nil {
			return nil, err
		}
	}

	return r, nil
}

func (r *Registry) Register(def models.FrequencyDefinition) error {
	if def.ID == "" {
		return fmt.Errorf("%w: frequency id is empty", models.ErrConfiguration)
	}

	if _, ok := r.index[def.ID]; ok {
		return fmt.Errorf("%w: frequency %q already registered", models.ErrConfiguration, def.ID)
	}

	r.index[def.ID] = len(r.definitions)
	r.definitions = append(r.definitions, def)

	return nil
}

// List returns the definitions ordered by weight. Equal weights keep their
// registration order.
func (r *Registry) List() []models.FrequencyDefinition {
	list := slices.Clone(r.definitions)
	slices.SortStableFunc(list, func(a, b models.FrequencyDefinition) int {
		return cmp.Compare(a.Weight, b.Weight)
	})

	return list
}

func (r *Registry) Get(id string) (models.FrequencyDefinition, error) {
	i, ok := r.index[id]
	if !ok {
		return models.FrequencyDefinition{}, fmt.Errorf("%w: frequency %q", models.ErrNotFound, id)
	}

	return r.definitions[i], nil
}

func (r *Registry) Has(id string) bool {
	_, ok := r.index[id]
	return ok
}
