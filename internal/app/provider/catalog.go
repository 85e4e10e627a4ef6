package provider

import (
	"fmt"
	"francoggm/donations-go-redis/internal/models"
	"time"
)

// Variant names select the implementation of a provider definition.
const (
	VariantCardElement      = "card_element"
	VariantPaymentElement   = "payment_element"
	VariantCardSubscription = "card_subscription"
	VariantHostedFields     = "hosted_fields"
	VariantRedirect         = "redirect"
	VariantTest             = "test"
)

// Gateways holds the endpoints and credentials the variants are built with.
type Gateways struct {
	CardURL          string
	CardSecret       string
	HostedURL        string
	HostedMerchantID string
	HostedSecret     string
	RedirectURL      string
	Timeout          time.Duration
	Breaker          BreakerConfig

	RedirectEnabled bool
	TestEnabled     bool
}

func DefaultFrequencies() []models.FrequencyDefinition {
	return []models.FrequencyDefinition{
		{ID: "one_off", Label: "One-off", UILabel: "Give once", Weight: 0},
		{ID: "recurring", Label: "Recurring", UILabel: "Give monthly", Weight: 10},
		{ID: "fixed_period", Label: "Fixed period", UILabel: "Give monthly for a set period", Weight: 20, HasDuration: true},
	}
}

func DefaultDefinitions() []models.ProviderDefinition {
	return []models.ProviderDefinition{
		{
			ID: "card_element", Variant: VariantCardElement,
			Label: "Card (card element)", UILabel: "Credit or debit card",
			Description: "Card payments collected with the gateway card element.",
			Type:        models.ProviderTypeOneOff, JSView: "cardElement", FrequencyID: "one_off",
			PaymentType: models.PaymentTypeCard, PaymentUpperLimit: 100_000_000,
			RequiresCustomerFields: true, EnableByDefault: true,
		},
		{
			ID: "payment_element", Variant: VariantPaymentElement,
			Label: "Card (payment element)", UILabel: "Card or wallet",
			Description: "Payments confirmed through the gateway payment element.",
			Type:        models.ProviderTypeOneOff, JSView: "paymentElement", FrequencyID: "one_off",
			PaymentType: models.PaymentTypeWallet, PaymentUpperLimit: 100_000_000,
			RequiresCustomerFields: true,
		},
		{
			ID: "card_subscription", Variant: VariantCardSubscription,
			Label: "Card subscription", UILabel: "Monthly card payment",
			Description: "Recurring monthly card payments.",
			Type:        models.ProviderTypeRecurring, JSView: "cardElement", FrequencyID: "recurring",
			PaymentType: models.PaymentTypeCard, PaymentUpperLimit: 10_000_000,
			RequiresCustomerFields: true, EnableByDefault: true,
		},
		{
			ID: "card_fixed_period", Variant: VariantCardSubscription,
			Label: "Card fixed period", UILabel: "Monthly card payment for a set period",
			Description: "Monthly card payments ending after a number of instalments.",
			Type:        models.ProviderTypeRecurring, JSView: "cardElement", FrequencyID: "fixed_period",
			PaymentType: models.PaymentTypeCard, PaymentUpperLimit: 10_000_000,
			RequiresCustomerFields: true, EnableByDefault: true,
		},
		{
			ID: "hosted_fields", Variant: VariantHostedFields,
			Label: "Hosted card fields", UILabel: "Card (secure fields)",
			Description: "Card payments through gateway hosted fields.",
			Type:        models.ProviderTypeOneOff, JSView: "hostedFields", FrequencyID: "one_off",
			PaymentType: models.PaymentTypeCard, PaymentUpperLimit: 50_000_000,
			RequiresCustomerFields: true,
		},
		{
			ID: "redirect", Variant: VariantRedirect,
			Label: "Hosted checkout", UILabel: "Pay on the gateway website",
			Description: "Redirects the donor to an external checkout page.",
			Type:        models.ProviderTypeOneOff, FrequencyID: "one_off",
			PaymentType: models.PaymentTypeBank, PaymentUpperLimit: 100_000_000,
		},
		{
			ID: "test", Variant: VariantTest,
			Label: "Test", UILabel: "Test payment",
			Description: "Fake payments for non-production environments.",
			Type:        models.ProviderTypeAll, FrequencyID: "one_off",
			PaymentType: models.PaymentTypeCard, PaymentUpperLimit: 100_000,
			EnableByDefault: true,
		},
	}
}

// Build constructs every provider named by defs and registers it. Variants of
// the same gateway share one transport. Disabled variants are skipped.
func Build(frequencies FrequencyLookup, defs []models.ProviderDefinition, gw Gateways) (*Registry, error) {
	registry := NewRegistry(frequencies)

	var cardClient, hostedClient *GatewayClient
	cardTransport := func() *GatewayClient {
		if cardClient == nil {
			cardClient = NewGatewayClient("card-gateway", gw.CardURL, gw.CardSecret, gw.Timeout, gw.Breaker)
		}
		return cardClient
	}
	hostedTransport := func() *GatewayClient {
		if hostedClient == nil {
			hostedClient = NewGatewayClient("hosted-gateway", gw.HostedURL, gw.HostedSecret, gw.Timeout, gw.Breaker)
		}
		return hostedClient
	}

	for _, def := range defs {
		var p Provider

		switch def.Variant {
		case VariantCardElement:
			p = NewCardElement(def, cardTransport())
		case VariantPaymentElement:
			p = NewPaymentElement(def, cardTransport())
		case VariantCardSubscription:
			p = NewCardSubscription(def, cardTransport())
		case VariantHostedFields:
			p = NewHostedFields(def, hostedTransport(), gw.HostedMerchantID)
		case VariantRedirect:
			if !gw.RedirectEnabled {
				continue
			}
			p = NewRedirect(def, gw.RedirectURL)
		case VariantTest:
			if !gw.TestEnabled {
				continue
			}
			p = NewTestGateway(def)
		default:
			return nil, fmt.Errorf("%w: provider %q has unknown variant %q", models.ErrConfiguration, def.ID, def.Variant)
		}

		if err := registry.Register(p); err != nil {
			return nil, err
		}
	}

	return registry, nil
}
