package frequency

import (
	"francoggm/donations-go-redis/internal/models"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(defs []models.FrequencyDefinition) []string {
	out := make([]string, 0, len(defs))
	for _, d := range defs {
		out = append(out, d.ID)
	}
	return out
}

func TestRegistry_ListOrdersByWeight(t *testing.T) {
	r, err := NewRegistry(
		models.FrequencyDefinition{ID: "fixed_period", Weight: 20},
		models.FrequencyDefinition{ID: "one_off", Weight: -5},
		models.FrequencyDefinition{ID: "recurring", Weight: 10},
	)
	require.NoError(t, err)

	list := r.List()
	assert.Equal(t, []string{"one_off", "recurring", "fixed_period"}, ids(list))

	for i := 1; i < len(list); i++ {
		assert.LessOrEqual(t, list[i-1].Weight, list[i].Weight)
	}
}

func TestRegistry_ListKeepsRegistrationOrderForTies(t *testing.T) {
	r, err := NewRegistry(
		models.FrequencyDefinition{ID: "c"},
		models.FrequencyDefinition{ID: "a"},
		models.FrequencyDefinition{ID: "heavy", Weight: 1},
		models.FrequencyDefinition{ID: "b"},
	)
	require.NoError(t, err)

	assert.Equal(t, []string{"c", "a", "b", "heavy"}, ids(r.List()))
	// repeated calls are deterministic
	assert.Equal(t, ids(r.List()), ids(r.List()))
}

func TestRegistry_RegisterRejectsDuplicates(t *testing.T) {
	r, err := NewRegistry(models.FrequencyDefinition{ID: "one_off"})
	require.NoError(t, err)

	err = r.Register(models.FrequencyDefinition{ID: "one_off", Weight: 3})
	require.ErrorIs(t, err, models.ErrConfiguration)

	_, err = NewRegistry(models.FrequencyDefinition{ID: "x"}, models.FrequencyDefinition{ID: "x"})
	require.ErrorIs(t, err, models.ErrConfiguration)
}

func TestRegistry_Get(t *testing.T) {
	r, err := NewRegistry(models.FrequencyDefinition{ID: "recurring", Label: "Monthly", HasDuration: true})
	require.NoError(t, err)

	def, err := r.Get("recurring")
	require.NoError(t, err)
	assert.Equal(t, "Monthly", def.Label)
	assert.True(t, def.HasDuration)

	_, err = r.Get("weekly")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestRegistry_ListReturnsCopy(t *testing.T) {
	r, err := NewRegistry(models.FrequencyDefinition{ID: "one_off", Label: "Once"})
	require.NoError(t, err)

	list := r.List()
	list[0].Label = "changed"

	def, err := r.Get("one_off")
	require.NoError(t, err)
	assert.Equal(t, "Once", def.Label)
}
