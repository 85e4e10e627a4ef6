package models

import "fmt"

type ProviderType string

const (
	ProviderTypeAll       ProviderType = "all"
	ProviderTypeOneOff    ProviderType = "one_off"
	ProviderTypeRecurring ProviderType = "recurring"
)

type PaymentType string

const (
	PaymentTypeCard   PaymentType = "card"
	PaymentTypeBank   PaymentType = "bank"
	PaymentTypeWallet PaymentType = "wallet"
)

// ProviderDefinition is the registration record of one gateway integration.
// PaymentUpperLimit is expressed in currency minor units.
type ProviderDefinition struct {
	ID                     string       `json:"id" yaml:"id"`
	Variant                string       `json:"-" yaml:"variant"`
	Label                  string       `json:"label" yaml:"label"`
	UILabel                string       `json:"uiLabel" yaml:"ui_label"`
	Description            string       `json:"description" yaml:"description"`
	Type                   ProviderType `json:"type" yaml:"type"`
	JSView                 string       `json:"jsView" yaml:"js_view"`
	FrequencyID            string       `json:"frequencyId" yaml:"frequency_id"`
	PaymentType            PaymentType  `json:"paymentType" yaml:"payment_type"`
	PaymentUpperLimit      int64        `json:"paymentUpperLimit" yaml:"payment_upper_limit"`
	RequiresCustomerFields bool         `json:"requiresCustomerFields" yaml:"requires_customer_fields"`
	EnableByDefault        bool         `json:"enableByDefault" yaml:"enable_by_default"`
}

// Validate checks the definition's own fields. Cross references such as
// FrequencyID are checked by the provider registry.
func (d ProviderDefinition) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("%w: provider id is empty", ErrConfiguration)
	}

	switch d.Type {
	case ProviderTypeAll, ProviderTypeOneOff, ProviderTypeRecurring:
	default:
		return fmt.Errorf("%w: provider %q has unknown type %q", ErrConfiguration, d.ID, d.Type)
	}

	switch d.PaymentType {
	case PaymentTypeCard, PaymentTypeBank, PaymentTypeWallet:
	default:
		return fmt.Errorf("%w: provider %q has unknown payment type %q", ErrConfiguration, d.ID, d.PaymentType)
	}

	if d.PaymentUpperLimit <= 0 {
		return fmt.Errorf("%w: provider %q payment upper limit must be positive", ErrConfiguration, d.ID)
	}

	if d.FrequencyID == "" {
		return fmt.Errorf("%w: provider %q is not bound to a frequency", ErrConfiguration, d.ID)
	}

	return nil
}
