package provider

import (
	"context"
	"encoding/json"
	"errors"
	"francoggm/donations-go-redis/internal/models"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFakeGateway(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *atomic.Int32) {
	t.Helper()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	return srv, &hits
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func asPaymentError(t *testing.T, err error) *models.PaymentProcessingError {
	t.Helper()

	var perr *models.PaymentProcessingError
	require.True(t, errors.As(err, &perr), "expected PaymentProcessingError, got %v", err)
	return perr
}

func TestCardElement_ProcessPayment_Success(t *testing.T) {
	var gotBody map[string]any
	var gotKey, gotAuth, gotPath string

	srv, hits := newFakeGateway(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("Idempotency-Key")
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)

		writeJSON(w, http.StatusOK, map[string]any{
			"id":     "ch_42",
			"status": "succeeded",
			"payment_method": map[string]any{
				"card": map[string]any{"brand": "visa", "last4": "4242"},
			},
		})
	})

	client := NewGatewayClient("card-gateway", srv.URL, "sk_test", time.Second, DefaultBreakerConfig())
	p := NewCardElement(testDefinition("card_element", VariantCardElement, "one_off"), client)

	req := &models.PaymentRequest{
		Amount:         1500,
		Currency:       "GBP",
		FrequencyID:    "one_off",
		ProviderID:     "card_element",
		WebformID:      "donate",
		PaymentToken:   "tok_visa",
		IdempotencyKey: "idem-1",
	}

	res, err := p.ProcessPayment(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, int32(1), hits.Load())
	assert.Equal(t, "/v1/charges", gotPath)
	assert.Equal(t, "idem-1", gotKey)
	assert.Equal(t, "Bearer sk_test", gotAuth)
	assert.Equal(t, "tok_visa", gotBody["source"])
	assert.EqualValues(t, 1500, gotBody["amount"])

	assert.True(t, res.Success)
	assert.Equal(t, "ch_42", res.TransactionID)
	assert.Equal(t, "succeeded", res.Status)
	brand, _ := res.PaymentData.Get("card_brand")
	assert.Equal(t, "visa", brand)
}

func TestGatewayClient_Failures(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       any
		wantCode   models.PaymentErrorCode
		wantStatus string
	}{
		{
			name:       "decline",
			status:     http.StatusPaymentRequired,
			body:       map[string]any{"decline_code": "insufficient_funds"},
			wantCode:   models.PaymentFailure,
			wantStatus: "insufficient_funds",
		},
		{
			name:       "decline without code",
			status:     http.StatusUnprocessableEntity,
			body:       map[string]any{},
			wantCode:   models.PaymentFailure,
			wantStatus: StatusDeclined,
		},
		{
			name:       "server error",
			status:     http.StatusServiceUnavailable,
			body:       map[string]any{"error": "down"},
			wantCode:   models.PaymentSystemError,
			wantStatus: StatusGatewayError,
		},
		{
			name:       "unauthorized",
			status:     http.StatusUnauthorized,
			body:       map[string]any{},
			wantCode:   models.PaymentSystemError,
			wantStatus: StatusGatewayError,
		},
		{
			name:       "failed charge status",
			status:     http.StatusOK,
			body:       map[string]any{"id": "ch_1", "status": "failed"},
			wantCode:   models.PaymentFailure,
			wantStatus: "failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, hits := newFakeGateway(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tt.status, tt.body)
			})

			client := NewGatewayClient("card-gateway", srv.URL, "", time.Second, DefaultBreakerConfig())
			p := NewCardElement(testDefinition("card_element", VariantCardElement, "one_off"), client)

			_, err := p.ProcessPayment(context.Background(), &models.PaymentRequest{Amount: 100, Currency: "USD"})
			perr := asPaymentError(t, err)

			assert.Equal(t, tt.wantCode, perr.Code)
			assert.Equal(t, tt.wantStatus, perr.Status)
			assert.Equal(t, int32(1), hits.Load())
		})
	}
}

func TestGatewayClient_HonoursDeadline(t *testing.T) {
	srv, _ := newFakeGateway(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		writeJSON(w, http.StatusOK, map[string]any{"id": "late", "status": "succeeded"})
	})

	client := NewGatewayClient("card-gateway", srv.URL, "", time.Minute, DefaultBreakerConfig())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := client.Post(ctx, "/v1/charges", "", map[string]any{})

	perr := asPaymentError(t, err)
	assert.Equal(t, models.PaymentSystemError, perr.Code)
	assert.Equal(t, StatusGatewayUnreachable, perr.Status)
	assert.Less(t, time.Since(start), 250*time.Millisecond)
}

func TestGatewayClient_BreakerOpensOnSystemErrorsOnly(t *testing.T) {
	srv, hits := newFakeGateway(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, map[string]any{})
	})

	cfg := DefaultBreakerConfig()
	client := NewGatewayClient("card-gateway", srv.URL, "", time.Second, cfg)

	for i := uint32(0); i < cfg.MinRequests; i++ {
		_, err := client.Post(context.Background(), "/v1/charges", "", map[string]any{})
		assert.Equal(t, StatusGatewayError, asPaymentError(t, err).Status)
	}

	_, err := client.Post(context.Background(), "/v1/charges", "", map[string]any{})
	perr := asPaymentError(t, err)
	assert.Equal(t, models.PaymentSystemError, perr.Code)
	assert.Equal(t, StatusGatewayUnavailable, perr.Status)
	assert.Equal(t, int32(cfg.MinRequests), hits.Load())
}

func TestGatewayClient_DeclinesDoNotOpenBreaker(t *testing.T) {
	srv, hits := newFakeGateway(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusPaymentRequired, map[string]any{"decline_code": "card_declined"})
	})

	cfg := DefaultBreakerConfig()
	client := NewGatewayClient("card-gateway", srv.URL, "", time.Second, cfg)

	calls := int(cfg.MinRequests) * 2
	for i := 0; i < calls; i++ {
		_, err := client.Post(context.Background(), "/v1/charges", "", map[string]any{})
		assert.Equal(t, models.PaymentFailure, asPaymentError(t, err).Code)
	}
	assert.Equal(t, int32(calls), hits.Load())
}

func TestHostedFields_ProcessPayment(t *testing.T) {
	var gotBody map[string]any
	srv, _ := newFakeGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transactions", r.URL.Path)
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		writeJSON(w, http.StatusOK, map[string]any{
			"transaction": map[string]any{
				"id":          "bt_1",
				"status":      "submitted_for_settlement",
				"credit_card": map[string]any{"card_type": "Visa", "last_4": "1111"},
			},
		})
	})

	client := NewGatewayClient("hosted-gateway", srv.URL, "", time.Second, DefaultBreakerConfig())
	p := NewHostedFields(testDefinition("hosted_fields", VariantHostedFields, "one_off"), client, "merchant-eur")

	res, err := p.ProcessPayment(context.Background(), &models.PaymentRequest{
		Amount: 999, Currency: "EUR", PaymentToken: "nonce-1",
	})
	require.NoError(t, err)

	assert.Equal(t, "bt_1", res.TransactionID)
	assert.Equal(t, "merchant-eur", gotBody["merchant_account_id"])
	assert.Equal(t, "nonce-1", gotBody["payment_method_nonce"])
	last4, _ := res.PaymentData.Get("card_last4")
	assert.Equal(t, "1111", last4)
}

func TestHostedFields_ProcessorDeclined(t *testing.T) {
	srv, _ := newFakeGateway(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"transaction": map[string]any{
				"id":                      "bt_2",
				"status":                  "processor_declined",
				"processor_response_code": "2001",
			},
		})
	})

	client := NewGatewayClient("hosted-gateway", srv.URL, "", time.Second, DefaultBreakerConfig())
	p := NewHostedFields(testDefinition("hosted_fields", VariantHostedFields, "one_off"), client, "m")

	_, err := p.ProcessPayment(context.Background(), &models.PaymentRequest{Amount: 1})
	perr := asPaymentError(t, err)
	assert.Equal(t, models.PaymentFailure, perr.Code)
	assert.Equal(t, "2001", perr.Status)
}

func TestCardElement_AcceptedWithoutTransactionIDIsSystemError(t *testing.T) {
	srv, hits := newFakeGateway(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"status": "succeeded"})
	})

	client := NewGatewayClient("card-gateway", srv.URL, "", time.Second, DefaultBreakerConfig())
	p := NewCardElement(testDefinition("card_element", VariantCardElement, "one_off"), client)

	res, err := p.ProcessPayment(context.Background(), &models.PaymentRequest{Amount: 100, Currency: "EUR"})
	assert.Nil(t, res)
	perr := asPaymentError(t, err)
	assert.Equal(t, models.PaymentSystemError, perr.Code)
	assert.Equal(t, StatusInvalidResponse, perr.Status)
	assert.Equal(t, int32(1), hits.Load())
}

func TestCardElement_NumericTransactionID(t *testing.T) {
	srv, _ := newFakeGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":9007199254740993,"status":"succeeded"}`))
	})

	client := NewGatewayClient("card-gateway", srv.URL, "", time.Second, DefaultBreakerConfig())
	p := NewCardElement(testDefinition("card_element", VariantCardElement, "one_off"), client)

	res, err := p.ProcessPayment(context.Background(), &models.PaymentRequest{Amount: 100, Currency: "EUR"})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "9007199254740993", res.TransactionID)

	id, _ := res.PaymentData.Get("transaction_id")
	assert.Equal(t, "9007199254740993", id)
}

func TestHostedFields_AcceptedWithoutTransactionIDIsSystemError(t *testing.T) {
	srv, _ := newFakeGateway(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"transaction": map[string]any{"status": "authorized"},
		})
	})

	client := NewGatewayClient("hosted-gateway", srv.URL, "", time.Second, DefaultBreakerConfig())
	p := NewHostedFields(testDefinition("hosted_fields", VariantHostedFields, "one_off"), client, "m")

	_, err := p.ProcessPayment(context.Background(), &models.PaymentRequest{Amount: 1})
	perr := asPaymentError(t, err)
	assert.Equal(t, models.PaymentSystemError, perr.Code)
	assert.Equal(t, StatusInvalidResponse, perr.Status)
}
