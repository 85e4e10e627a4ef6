package provider

import (
	"context"
	"francoggm/donations-go-redis/internal/models"

	"github.com/google/uuid"
)

const StatusPendingRedirect = "pending_redirect"

// Redirect hands the donor over to the gateway's hosted checkout. Nothing is
// authorized here: the result is a pending reference that the redirect step
// settles later.
type Redirect struct {
	base
	checkoutURL string
}

func NewRedirect(def models.ProviderDefinition, checkoutURL string) *Redirect {
	return &Redirect{
		base:        newBase(def, redirectDescribe(def), redirectAugment(def)),
		checkoutURL: checkoutURL,
	}
}

func redirectPrompt(def models.ProviderDefinition) *models.FormElement {
	return &models.FormElement{
		Name:   def.ID,
		Type:   "markup",
		Markup: "<p>You will be redirected to " + def.Label + " to complete your donation.</p>",
	}
}

func redirectDescribe(def models.ProviderDefinition) func() *models.FormElement {
	return func() *models.FormElement {
		return redirectPrompt(def)
	}
}

func redirectAugment(def models.ProviderDefinition) AugmentFunc {
	return func(state *models.FormState, form *models.CompositeForm) {
		form.AddElement(redirectPrompt(def))
	}
}

func (p *Redirect) ProcessPayment(ctx context.Context, req *models.PaymentRequest) (*models.PaymentResult, error) {
	reference := "redirect_" + uuid.NewString()
	raw := models.RawResult{
		"reference":    reference,
		"status":       StatusPendingRedirect,
		"redirect_url": p.checkoutURL + "/checkout/" + reference,
	}

	return newResult(p, req, raw, StatusPendingRedirect)
}

func (p *Redirect) ExtractTransactionID(raw models.RawResult) string {
	return lookupString(raw, "reference")
}

func (p *Redirect) ExtractPaymentData(req *models.PaymentRequest, raw models.RawResult) models.PaymentData {
	data := p.commonData(req, p.ExtractTransactionID(raw))
	data = data.Set("status", lookupString(raw, "status"))
	data = data.Set("redirect_url", lookupString(raw, "redirect_url"))

	return data
}
