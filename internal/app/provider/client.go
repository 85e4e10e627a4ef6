package provider

import (
	"context"
	"errors"
	"fmt"
	"francoggm/donations-go-redis/internal/models"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/sony/gobreaker"
	"github.com/valyala/fasthttp"
)

// Machine statuses reported on PaymentProcessingError.
const (
	StatusEncodeFailed       = "encode_failed"
	StatusGatewayUnavailable = "gateway_unavailable"
	StatusGatewayUnreachable = "gateway_unreachable"
	StatusGatewayError       = "gateway_error"
	StatusInvalidResponse    = "invalid_response"
	StatusDeclined           = "declined"
)

type BreakerConfig struct {
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold float64
	MinRequests      uint32
}

func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxRequests:      3,
		Interval:         30 * time.Second,
		Timeout:          60 * time.Second,
		FailureThreshold: 0.6,
		MinRequests:      5,
	}
}

// rawDecoder keeps numeric gateway ids exact.
var rawDecoder = sonic.Config{UseNumber: true}.Froze()

// GatewayClient is the transport shared by the variants of one gateway. It
// performs a single request per call; it never retries.
type GatewayClient struct {
	name    string
	url     string
	secret  string
	timeout time.Duration
	client  *fasthttp.Client
	breaker *gobreaker.CircuitBreaker
}

func NewGatewayClient(name, url, secret string, timeout time.Duration, cfg BreakerConfig) *GatewayClient {
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.FailureThreshold
		},
		// declines are the gateway working as intended
		IsSuccessful: func(err error) bool {
			var perr *models.PaymentProcessingError
			if errors.As(err, &perr) {
				return perr.Code == models.PaymentFailure
			}
			return err == nil
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("gateway circuit breaker state changed",
				slog.String("gateway", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()))
		},
	}

	return &GatewayClient{
		name:    name,
		url:     strings.TrimRight(url, "/"),
		secret:  secret,
		timeout: timeout,
		client:  &fasthttp.Client{MaxConnsPerHost: 50},
		breaker: gobreaker.NewCircuitBreaker(settings),
	}
}

func (c *GatewayClient) Name() string {
	return c.name
}

// Post sends payload to path and decodes the JSON response. The call ends at
// the context deadline, or after the client timeout when ctx has none.
func (c *GatewayClient) Post(ctx context.Context, path, idempotencyKey string, payload any) (models.RawResult, error) {
	body, err := sonic.Marshal(payload)
	if err != nil {
		return nil, models.NewSystemError(StatusEncodeFailed, fmt.Errorf("failed to marshal %s payload: %w", c.name, err))
	}

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(c.timeout)
	}

	res, err := c.breaker.Execute(func() (interface{}, error) {
		return c.do(path, idempotencyKey, body, deadline)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, models.NewSystemError(StatusGatewayUnavailable, fmt.Errorf("%s: %w", c.name, err))
		}
		return nil, err
	}

	return res.(models.RawResult), nil
}

func (c *GatewayClient) do(path, idempotencyKey string, body []byte, deadline time.Time) (models.RawResult, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer func() {
		fasthttp.ReleaseRequest(req)
		fasthttp.ReleaseResponse(resp)
	}()

	req.SetRequestURI(c.url + path)
	req.Header.SetMethod(http.MethodPost)
	req.Header.SetContentType("application/json")
	if c.secret != "" {
		req.Header.Set("Authorization", "Bearer "+c.secret)
	}
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}
	req.SetBody(body)

	if err := c.client.DoDeadline(req, resp, deadline); err != nil {
		return nil, models.NewSystemError(StatusGatewayUnreachable, fmt.Errorf("failed to call %s: %w", c.name, err))
	}

	statusCode := resp.StatusCode()
	raw := make(models.RawResult)
	decodeErr := rawDecoder.Unmarshal(resp.Body(), &raw)

	switch {
	case statusCode >= http.StatusInternalServerError:
		return nil, models.NewSystemError(StatusGatewayError, fmt.Errorf("%s responded with status code: %d", c.name, statusCode))
	case statusCode == http.StatusPaymentRequired || statusCode == http.StatusUnprocessableEntity:
		return nil, models.NewPaymentFailure(declineStatus(raw), fmt.Errorf("%s declined the payment", c.name))
	case statusCode < http.StatusOK || statusCode >= http.StatusMultipleChoices:
		return nil, models.NewSystemError(StatusGatewayError, fmt.Errorf("%s responded with status code: %d", c.name, statusCode))
	}

	if decodeErr != nil {
		return nil, models.NewSystemError(StatusInvalidResponse, fmt.Errorf("failed to decode %s response: %w", c.name, decodeErr))
	}

	return raw, nil
}

func declineStatus(raw models.RawResult) string {
	for _, path := range [][]string{{"decline_code"}, {"error", "code"}, {"status"}} {
		if s := lookupString(raw, path...); s != "" {
			return s
		}
	}

	return StatusDeclined
}
