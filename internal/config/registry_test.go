package config

import (
	"francoggm/donations-go-redis/internal/models"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleTable = `
frequencies:
  - id: one_off
    label: One-off
    ui_label: Give once
  - id: recurring
    label: Monthly
    ui_label: Give monthly
    weight: 5
providers:
  - id: card_element
    variant: card_element
    label: Card
    ui_label: Card
    type: one_off
    js_view: cardElement
    frequency_id: one_off
    payment_type: card
    payment_upper_limit: 5000000
    requires_customer_fields: true
    enable_by_default: true
`

func TestParseRegistrationTable(t *testing.T) {
	table, err := ParseRegistrationTable([]byte(sampleTable))
	require.NoError(t, err)

	require.Len(t, table.Frequencies, 2)
	assert.Equal(t, 0, table.Frequencies[0].Weight)
	assert.Equal(t, 5, table.Frequencies[1].Weight)
	assert.False(t, table.Frequencies[1].HasDuration)

	require.Len(t, table.Providers, 1)
	p := table.Providers[0]
	assert.Equal(t, "card_element", p.Variant)
	assert.Equal(t, models.ProviderTypeOneOff, p.Type)
	assert.Equal(t, models.PaymentTypeCard, p.PaymentType)
	assert.Equal(t, int64(5_000_000), p.PaymentUpperLimit)
	assert.True(t, p.RequiresCustomerFields)
	assert.NoError(t, p.Validate())
}

func TestParseRegistrationTable_UnknownField(t *testing.T) {
	_, err := ParseRegistrationTable([]byte("frequencies:\n  - id: x\n    colour: red\n"))
	assert.ErrorIs(t, err, models.ErrConfiguration)
}

func TestLoadRegistrationTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleTable), 0o600))

	table, err := LoadRegistrationTable(path)
	require.NoError(t, err)
	assert.Len(t, table.Providers, 1)

	_, err = LoadRegistrationTable(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
