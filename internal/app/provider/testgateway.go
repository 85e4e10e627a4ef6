package provider

import (
	"context"
	"francoggm/donations-go-redis/internal/models"
	"strings"

	"github.com/google/uuid"
)

const TestTransactionPrefix = "test_token_"

// TestGateway succeeds without contacting anything. It is only registered
// outside production.
type TestGateway struct {
	base
}

func NewTestGateway(def models.ProviderDefinition) *TestGateway {
	return &TestGateway{
		base: newBase(def, testDescribe(def), testAugment(def)),
	}
}

func testNotice(def models.ProviderDefinition) *models.FormElement {
	return &models.FormElement{
		Name:   def.ID,
		Type:   "markup",
		Markup: "<p>Test payments are not charged.</p>",
	}
}

func testDescribe(def models.ProviderDefinition) func() *models.FormElement {
	return func() *models.FormElement {
		return testNotice(def)
	}
}

func testAugment(def models.ProviderDefinition) AugmentFunc {
	return func(state *models.FormState, form *models.CompositeForm) {
		form.AddElement(testNotice(def))
	}
}

func (p *TestGateway) ProcessPayment(ctx context.Context, req *models.PaymentRequest) (*models.PaymentResult, error) {
	raw := models.RawResult{
		"token":  TestTransactionPrefix + strings.ReplaceAll(uuid.NewString(), "-", ""),
		"status": "succeeded",
	}

	return newResult(p, req, raw, "succeeded")
}

func (p *TestGateway) ExtractTransactionID(raw models.RawResult) string {
	return lookupString(raw, "token")
}

func (p *TestGateway) ExtractPaymentData(req *models.PaymentRequest, raw models.RawResult) models.PaymentData {
	data := p.commonData(req, p.ExtractTransactionID(raw))
	return data.Set("status", lookupString(raw, "status"))
}
