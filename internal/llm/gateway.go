package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	app_errors "studio/backend/internal/errors"
)

// LLMProvider talks to an OpenAI-compatible chat completions gateway.
type LLMProvider interface {
	// StreamChat starts a streaming completion and returns the raw
	// text/event-stream body. The caller must close it.
	StreamChat(ctx context.Context, req *ChatRequest) (io.ReadCloser, error)
	ListModels(ctx context.Context) (*ListModelsResponse, error)
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
	Stream   bool      `json:"stream"`
}

type Model struct {
	ID      string `json:"id"`
	Object  string `json:"object,omitempty"`
	OwnedBy string `json:"owned_by,omitempty"`
}

type ListModelsResponse struct {
	Object string  `json:"object,omitempty"`
	Data   []Model `json:"data"`
}

// IDs returns the model identifiers in gateway order.
func (r *ListModelsResponse) IDs() []string {
	ids := make([]string, len(r.Data))
	for i, m := range r.Data {
		ids[i] = m.ID
	}
	return ids
}

type gatewayProvider struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

func NewGatewayProvider(baseURL, apiKey string) LLMProvider {
	return &gatewayProvider{
		client:  &http.Client{},
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
	}
}

func (p *gatewayProvider) StreamChat(ctx context.Context, req *ChatRequest) (io.ReadCloser, error) {
	req.Stream = true
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("could not marshal request: %w", err)
	}

	httpReq, err := p.newRequest(ctx, http.MethodPost, "/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: request failed: %v", app_errors.ErrUpstream, err)
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}
	return resp.Body, nil
}

func (p *gatewayProvider) ListModels(ctx context.Context) (*ListModelsResponse, error) {
	httpReq, err := p.newRequest(ctx, http.MethodGet, "/models", nil)
	if err != nil {
		return nil, err
	}

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: request failed: %v", app_errors.ErrUpstream, err)
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var out ListModelsResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: could not decode model list: %v", app_errors.ErrUpstream, err)
	}
	return &out, nil
}

func (p *gatewayProvider) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, p.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("could not create request: %w", err)
	}
	if p.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.apiKey)
	}
	return req, nil
}

// checkStatus classifies a failed response and closes its body. Successful
// responses are left open.
func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: gateway returned 429", app_errors.ErrRateLimited)
	case http.StatusPaymentRequired:
		return fmt.Errorf("%w: gateway returned 402", app_errors.ErrQuotaExceeded)
	}
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return fmt.Errorf("%w: status %d: %s", app_errors.ErrUpstream, resp.StatusCode, strings.TrimSpace(string(snippet)))
}
