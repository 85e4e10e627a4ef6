// Package provider normalizes heterogeneous payment gateways behind one contract.
//
// Providers are constructed explicitly from a startup registration table (see
// catalog.go) and kept in a Registry that is read-only once the process serves
// requests.
package provider

import (
	"context"
	"fmt"
	"francoggm/donations-go-redis/internal/models"
	"strconv"
)

type Provider interface {
	Definition() models.ProviderDefinition

	// DescribeFormElement returns the provider's standalone element, or nil when
	// the provider injects no element of its own.
	DescribeFormElement() *models.FormElement

	// AugmentCompositeForm attaches provider fields, markup and client libraries
	// to the form shared by all providers of a webform.
	AugmentCompositeForm(state *models.FormState, form *models.CompositeForm)

	// ProcessPayment may call the gateway synchronously. Irrecoverable gateway
	// failures are returned as *models.PaymentProcessingError.
	ProcessPayment(ctx context.Context, req *models.PaymentRequest) (*models.PaymentResult, error)

	// ExtractTransactionID never fails; it returns "" when raw has no identifier.
	ExtractTransactionID(raw models.RawResult) string

	ExtractPaymentData(req *models.PaymentRequest, raw models.RawResult) models.PaymentData
}

// AugmentFunc mutates a composite form on behalf of one provider.
type AugmentFunc func(state *models.FormState, form *models.CompositeForm)

// Compose runs base and then each extension in order. Variants extend a base
// augmentation this way instead of overriding it.
func Compose(base AugmentFunc, extensions ...AugmentFunc) AugmentFunc {
	return func(state *models.FormState, form *models.CompositeForm) {
		if base != nil {
			base(state, form)
		}
		for _, ext := range extensions {
			ext(state, form)
		}
	}
}

const providerSelectorName = "payment_provider"

// baseAugment registers the provider as an option of the shared provider
// selector and records its js view.
func baseAugment(def models.ProviderDefinition) AugmentFunc {
	return func(state *models.FormState, form *models.CompositeForm) {
		selector := form.Element(providerSelectorName)
		if selector == nil {
			selector = &models.FormElement{
				Name:     providerSelectorName,
				Type:     "radios",
				Title:    "Payment method",
				Required: true,
			}
			form.AddElement(selector)
		}

		selector.Options = append(selector.Options, models.FormOption{Value: def.ID, Label: def.UILabel})

		if def.JSView != "" {
			form.SetJSView(def.ID, def.JSView)
		}
	}
}

// customerFields adds the donor fields a provider needs, once per form.
func customerFields(state *models.FormState, form *models.CompositeForm) {
	if form.Element("customer") != nil {
		return
	}

	form.AddElement(&models.FormElement{
		Name: "customer",
		Type: "fieldset",
		Children: []*models.FormElement{
			{Name: "first_name", Type: "textfield", Title: "First name", Required: true},
			{Name: "last_name", Type: "textfield", Title: "Last name", Required: true},
			{Name: "email", Type: "email", Title: "Email", Required: true},
		},
	})
}

// base carries what every variant shares: its definition, its standalone
// element builder and its composed form augmentation.
type base struct {
	def      models.ProviderDefinition
	describe func() *models.FormElement
	augment  AugmentFunc
}

func newBase(def models.ProviderDefinition, describe func() *models.FormElement, extensions ...AugmentFunc) base {
	baseFn := baseAugment(def)
	if def.RequiresCustomerFields {
		baseFn = Compose(baseFn, customerFields)
	}

	return base{
		def:      def,
		describe: describe,
		augment:  Compose(baseFn, extensions...),
	}
}

func (b *base) Definition() models.ProviderDefinition {
	return b.def
}

func (b *base) DescribeFormElement() *models.FormElement {
	if b.describe == nil {
		return nil
	}

	return b.describe()
}

func (b *base) AugmentCompositeForm(state *models.FormState, form *models.CompositeForm) {
	b.augment(state, form)
}

// commonData is the normalized prefix shared by all providers' payment data.
func (b *base) commonData(req *models.PaymentRequest, transactionID string) models.PaymentData {
	return models.PaymentData{
		{Key: "transaction_id", Value: transactionID},
		{Key: "provider", Value: b.def.ID},
		{Key: "frequency", Value: req.FrequencyID},
		{Key: "webform_id", Value: req.WebformID},
		{Key: "amount", Value: req.Amount},
		{Key: "currency", Value: req.Currency},
		{Key: "first_name", Value: req.Donor.FirstName},
		{Key: "last_name", Value: req.Donor.LastName},
		{Key: "email", Value: req.Donor.Email},
	}
}

// lookupString walks nested objects of raw and returns the string at path.
func lookupString(raw models.RawResult, path ...string) string {
	var current any = map[string]any(raw)

	for _, key := range path {
		obj, ok := current.(map[string]any)
		if !ok {
			return ""
		}
		current = obj[key]
	}

	switch v := current.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case fmt.Stringer:
		return v.String()
	default:
		return ""
	}
}

// newResult builds the result of an accepted payment. An accepted payment
// without a transaction id cannot be reconciled and is a system error.
func newResult(p Provider, req *models.PaymentRequest, raw models.RawResult, status string) (*models.PaymentResult, error) {
	transactionID := p.ExtractTransactionID(raw)
	if transactionID == "" {
		return nil, models.NewSystemError(StatusInvalidResponse,
			fmt.Errorf("%s reported status %q without a transaction id", p.Definition().ID, status))
	}

	return &models.PaymentResult{
		Success:       true,
		TransactionID: transactionID,
		Status:        status,
		RawResult:     raw,
		PaymentData:   p.ExtractPaymentData(req, raw),
	}, nil
}
