package provider

import (
	"context"
	"fmt"
	"francoggm/donations-go-redis/internal/models"
)

const cardGatewayLibrary = "card_gateway/client"

// cardGateway is shared by the card family variants. They differ in client
// widget and endpoint, not in transport or response shape.
type cardGateway struct {
	base
	client *GatewayClient
	path   string
}

func (g *cardGateway) charge(ctx context.Context, req *models.PaymentRequest, payload map[string]any, self Provider) (*models.PaymentResult, error) {
	payload["amount"] = req.Amount
	payload["currency"] = req.Currency
	payload["description"] = fmt.Sprintf("Donation via webform %s", req.WebformID)
	payload["metadata"] = map[string]any{
		"webform_id": req.WebformID,
		"frequency":  req.FrequencyID,
		"email":      req.Donor.Email,
	}

	raw, err := g.client.Post(ctx, g.path, req.IdempotencyKey, payload)
	if err != nil {
		return nil, err
	}

	status := lookupString(raw, "status")
	switch status {
	case "succeeded", "active", "processing", "requires_capture":
	default:
		return nil, models.NewPaymentFailure(declineStatus(raw), fmt.Errorf("%s returned status %q", g.client.Name(), status))
	}

	return newResult(self, req, raw, status)
}

func (g *cardGateway) ExtractTransactionID(raw models.RawResult) string {
	return lookupString(raw, "id")
}

func (g *cardGateway) ExtractPaymentData(req *models.PaymentRequest, raw models.RawResult) models.PaymentData {
	data := g.commonData(req, g.ExtractTransactionID(raw))
	data = data.Set("status", lookupString(raw, "status"))
	data = data.Set("card_brand", lookupString(raw, "payment_method", "card", "brand"))
	data = data.Set("card_last4", lookupString(raw, "payment_method", "card", "last4"))

	return data
}

func cardLibraries(widget string) AugmentFunc {
	return func(state *models.FormState, form *models.CompositeForm) {
		form.AttachLibrary(cardGatewayLibrary)
		form.AttachLibrary(widget)
	}
}

// CardElement collects a single-use card token through the gateway's card widget.
type CardElement struct {
	cardGateway
}

func NewCardElement(def models.ProviderDefinition, client *GatewayClient) *CardElement {
	p := &CardElement{}
	p.cardGateway = cardGateway{
		base:   newBase(def, cardElementDescribe(def), cardLibraries("donation/card_element"), cardElementFields(def)),
		client: client,
		path:   "/v1/charges",
	}

	return p
}

func cardElementDescribe(def models.ProviderDefinition) func() *models.FormElement {
	return func() *models.FormElement {
		return &models.FormElement{
			Name:       def.ID,
			Type:       "container",
			Markup:     `<div class="card-element"></div>`,
			Attributes: map[string]string{"data-js-view": def.JSView},
		}
	}
}

func cardElementFields(def models.ProviderDefinition) AugmentFunc {
	return func(state *models.FormState, form *models.CompositeForm) {
		form.AddElement(&models.FormElement{
			Name:       def.ID,
			Type:       "container",
			Attributes: map[string]string{"data-provider": def.ID},
			Children: []*models.FormElement{
				{Name: "card_mount", Type: "markup", Markup: `<div class="card-element"></div>`},
				{Name: "payment_token", Type: "hidden"},
			},
		})
	}
}

func (p *CardElement) ProcessPayment(ctx context.Context, req *models.PaymentRequest) (*models.PaymentResult, error) {
	return p.charge(ctx, req, map[string]any{"source": req.PaymentToken}, p)
}

// PaymentElement confirms a payment intent created by the gateway's payment widget.
type PaymentElement struct {
	cardGateway
}

func NewPaymentElement(def models.ProviderDefinition, client *GatewayClient) *PaymentElement {
	p := &PaymentElement{}
	p.cardGateway = cardGateway{
		base:   newBase(def, paymentElementDescribe(def), cardLibraries("donation/payment_element"), paymentElementFields(def)),
		client: client,
		path:   "/v1/payment_intents",
	}

	return p
}

func paymentElementDescribe(def models.ProviderDefinition) func() *models.FormElement {
	return func() *models.FormElement {
		return &models.FormElement{
			Name:       def.ID,
			Type:       "container",
			Markup:     `<div class="payment-element"></div>`,
			Attributes: map[string]string{"data-js-view": def.JSView},
		}
	}
}

func paymentElementFields(def models.ProviderDefinition) AugmentFunc {
	return func(state *models.FormState, form *models.CompositeForm) {
		form.AddElement(&models.FormElement{
			Name:       def.ID,
			Type:       "container",
			Attributes: map[string]string{"data-provider": def.ID},
			Children: []*models.FormElement{
				{Name: "payment_mount", Type: "markup", Markup: `<div class="payment-element"></div>`},
				{Name: "payment_method", Type: "hidden"},
			},
		})
	}
}

func (p *PaymentElement) ProcessPayment(ctx context.Context, req *models.PaymentRequest) (*models.PaymentResult, error) {
	return p.charge(ctx, req, map[string]any{
		"payment_method": req.PaymentToken,
		"confirm":        true,
	}, p)
}

// CardSubscription starts a recurring charge. Its form is the card element
// form extended with the instalment count.
type CardSubscription struct {
	cardGateway
}

func NewCardSubscription(def models.ProviderDefinition, client *GatewayClient) *CardSubscription {
	p := &CardSubscription{}
	p.cardGateway = cardGateway{
		base: newBase(def, cardElementDescribe(def),
			cardLibraries("donation/card_element"),
			Compose(cardElementFields(def), subscriptionFields(def)),
		),
		client: client,
		path:   "/v1/subscriptions",
	}

	return p
}

func subscriptionFields(def models.ProviderDefinition) AugmentFunc {
	return func(state *models.FormState, form *models.CompositeForm) {
		container := form.Element(def.ID)
		if container == nil {
			return
		}

		container.Children = append(container.Children, &models.FormElement{
			Name:  "instalments",
			Type:  "number",
			Title: "Number of monthly payments (leave empty for no end date)",
		})
	}
}

func (p *CardSubscription) ProcessPayment(ctx context.Context, req *models.PaymentRequest) (*models.PaymentResult, error) {
	payload := map[string]any{
		"source":   req.PaymentToken,
		"interval": "month",
	}
	if req.Duration > 0 {
		payload["iterations"] = req.Duration
	}

	return p.charge(ctx, req, payload, p)
}

func (p *CardSubscription) ExtractPaymentData(req *models.PaymentRequest, raw models.RawResult) models.PaymentData {
	data := p.cardGateway.ExtractPaymentData(req, raw)
	return data.Set("duration", req.Duration)
}
