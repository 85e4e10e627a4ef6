package export

import (
	"context"
	"fmt"
	"francoggm/donations-go-redis/internal/models"
	"net/http"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
)

// HTTPStore addresses objects as endpoint + "/" + key on a remote object
// service.
type HTTPStore struct {
	endpoint string
	token    string
	timeout  time.Duration
	client   *fasthttp.Client
}

func NewHTTPStore(endpoint, token string, timeout time.Duration) *HTTPStore {
	return &HTTPStore{
		endpoint: strings.TrimRight(endpoint, "/"),
		token:    token,
		timeout:  timeout,
		client:   &fasthttp.Client{MaxConnsPerHost: 20},
	}
}

func (s *HTTPStore) deadline(ctx context.Context) time.Time {
	if deadline, ok := ctx.Deadline(); ok {
		return deadline
	}

	return time.Now().Add(s.timeout)
}

func (s *HTTPStore) Put(ctx context.Context, key string, payload []byte, contentType string) error {
	if s.token == "" {
		return ErrEnvironmentNotProvisioned
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer func() {
		fasthttp.ReleaseRequest(req)
		fasthttp.ReleaseResponse(resp)
	}()

	req.SetRequestURI(s.endpoint + "/" + key)
	req.Header.SetMethod(http.MethodPut)
	req.Header.SetContentType(contentType)
	req.Header.Set("Authorization", "Bearer "+s.token)
	req.Header.Set("If-None-Match", "*")
	req.SetBody(payload)

	if err := s.client.DoDeadline(req, resp, s.deadline(ctx)); err != nil {
		return fmt.Errorf("failed to put export object %s: %w", key, err)
	}

	switch statusCode := resp.StatusCode(); {
	case statusCode == http.StatusPreconditionFailed || statusCode == http.StatusConflict:
		return fmt.Errorf("%w: %s", ErrObjectExists, key)
	case statusCode < http.StatusOK || statusCode >= http.StatusMultipleChoices:
		return fmt.Errorf("put export object %s failed with status code: %d", key, statusCode)
	}

	return nil
}

func (s *HTTPStore) Get(ctx context.Context, key string) (*models.ExportedObject, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer func() {
		fasthttp.ReleaseRequest(req)
		fasthttp.ReleaseResponse(resp)
	}()

	req.SetRequestURI(s.endpoint + "/" + key)
	req.Header.SetMethod(http.MethodGet)
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	if err := s.client.DoDeadline(req, resp, s.deadline(ctx)); err != nil {
		return nil, fmt.Errorf("failed to get export object %s: %w", key, err)
	}

	switch statusCode := resp.StatusCode(); {
	case statusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: export object %s", models.ErrNotFound, key)
	case statusCode != http.StatusOK:
		return nil, fmt.Errorf("get export object %s failed with status code: %d", key, statusCode)
	}

	content := make([]byte, len(resp.Body()))
	copy(content, resp.Body())

	return &models.ExportedObject{
		Key:         key,
		Content:     content,
		ContentType: string(resp.Header.ContentType()),
	}, nil
}
