// Package remote is the narrow client for the HTTPS document API. The API
// speaks whole-document JSON: GET returns the full current state, PUT pushes
// a partial patch merged server-side. Every fetch result is an authoritative
// snapshot for the reconciliation layer to merge local overrides onto.
package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/valyala/fasthttp"
	"golang.org/x/time/rate"

	"kitlocal/pkg/logger"
	"kitlocal/pkg/models"
	"kitlocal/pkg/normalize"
)

const requestTimeout = 15 * time.Second

type Client struct {
	baseURL string
	apiKey  string
	http    *fasthttp.Client
	limiter *rate.Limiter
}

// New returns a client for baseURL. rps/burst bound outbound request rate;
// non-positive values fall back to 5 rps / 10 burst.
func New(baseURL, apiKey string, rps float64, burst int) *Client {
	if rps <= 0 {
		rps = 5
	}
	if burst <= 0 {
		burst = 10
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &fasthttp.Client{},
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// FetchChatState fetches the full chat snapshot and normalizes it.
func (c *Client) FetchChatState(ctx context.Context) (models.ChatState, error) {
	body, err := c.do(ctx, fasthttp.MethodGet, "/v1/chat-state", nil)
	if err != nil {
		return models.EmptyChatState(), err
	}
	var raw any
	if err := json.Unmarshal(body, &raw); err != nil {
		// malformed payload reads as no data
		logger.Warn("chat_state_malformed", "error", err)
		return models.EmptyChatState(), nil
	}
	return normalize.ChatState(raw), nil
}

// PushChatPatch sends a partial chat-state patch; the server merges it.
func (c *Client) PushChatPatch(ctx context.Context, patch any) error {
	b, err := json.Marshal(patch)
	if err != nil {
		return err
	}
	_, err = c.do(ctx, fasthttp.MethodPut, "/v1/chat-state", b)
	return err
}

// FetchDocument fetches an arbitrary whole-document JSON payload (profile,
// usage) by path and returns the raw body.
func (c *Client) FetchDocument(ctx context.Context, path string) ([]byte, error) {
	return c.do(ctx, fasthttp.MethodGet, path, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.baseURL + path)
	req.Header.SetMethod(method)
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}
	if body != nil {
		req.SetBody(body)
	}

	if err := c.http.DoTimeout(req, resp, requestTimeout); err != nil {
		logger.Warn("remote_request_failed", "method", method, "path", path, "error", err)
		return nil, err
	}
	if sc := resp.StatusCode(); sc < 200 || sc >= 300 {
		logger.Warn("remote_request_status", "method", method, "path", path, "status", sc)
		return nil, fmt.Errorf("remote: %s %s returned %d", method, path, sc)
	}
	return append([]byte(nil), resp.Body()...), nil
}
