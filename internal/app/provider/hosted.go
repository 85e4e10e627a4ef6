package provider

import (
	"context"
	"fmt"
	"francoggm/donations-go-redis/internal/models"
)

// HostedFields is a card gateway whose card inputs live in gateway hosted
// iframes. It injects no standalone element; the client library mounts the
// fields and fills the nonce.
type HostedFields struct {
	base
	client     *GatewayClient
	merchantID string
}

func NewHostedFields(def models.ProviderDefinition, client *GatewayClient, merchantID string) *HostedFields {
	return &HostedFields{
		base:       newBase(def, nil, hostedFieldsAugment(def)),
		client:     client,
		merchantID: merchantID,
	}
}

func hostedFieldsAugment(def models.ProviderDefinition) AugmentFunc {
	return func(state *models.FormState, form *models.CompositeForm) {
		form.AttachLibrary("hosted_fields/client")
		form.AttachLibrary("donation/hosted_fields")

		form.AddElement(&models.FormElement{
			Name:       def.ID,
			Type:       "container",
			Attributes: map[string]string{"data-provider": def.ID},
			Children: []*models.FormElement{
				{Name: "card_number", Type: "markup", Markup: `<div id="hosted-card-number"></div>`},
				{Name: "expiration_date", Type: "markup", Markup: `<div id="hosted-expiration-date"></div>`},
				{Name: "cvv", Type: "markup", Markup: `<div id="hosted-cvv"></div>`},
				{Name: "payment_method_nonce", Type: "hidden"},
			},
		})
	}
}

func (p *HostedFields) ProcessPayment(ctx context.Context, req *models.PaymentRequest) (*models.PaymentResult, error) {
	payload := map[string]any{
		"merchant_account_id":  p.merchantID,
		"payment_method_nonce": req.PaymentToken,
		"amount":               req.Amount,
		"currency":             req.Currency,
		"order_id":             req.IdempotencyKey,
		"customer": map[string]any{
			"first_name": req.Donor.FirstName,
			"last_name":  req.Donor.LastName,
			"email":      req.Donor.Email,
		},
		"options": map[string]any{"submit_for_settlement": true},
	}

	raw, err := p.client.Post(ctx, "/transactions", req.IdempotencyKey, payload)
	if err != nil {
		return nil, err
	}

	status := lookupString(raw, "transaction", "status")
	switch status {
	case "authorized", "submitted_for_settlement", "settling", "settled":
	default:
		code := lookupString(raw, "transaction", "processor_response_code")
		if code == "" {
			code = StatusDeclined
		}
		return nil, models.NewPaymentFailure(code, fmt.Errorf("%s returned status %q", p.client.Name(), status))
	}

	return newResult(p, req, raw, status)
}

func (p *HostedFields) ExtractTransactionID(raw models.RawResult) string {
	return lookupString(raw, "transaction", "id")
}

func (p *HostedFields) ExtractPaymentData(req *models.PaymentRequest, raw models.RawResult) models.PaymentData {
	data := p.commonData(req, p.ExtractTransactionID(raw))
	data = data.Set("status", lookupString(raw, "transaction", "status"))
	data = data.Set("card_type", lookupString(raw, "transaction", "credit_card", "card_type"))
	data = data.Set("card_last4", lookupString(raw, "transaction", "credit_card", "last_4"))

	return data
}
