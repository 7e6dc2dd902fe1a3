package openrouter

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"gemini2api/internal/core"
	"gemini2api/internal/util"

	"github.com/bytedance/sonic"
)

// Client calls an OpenRouter-style aggregator over its OpenAI-compatible API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     core.Logger
}

// Config holds the dependencies for an OpenRouter client.
type Config struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
	Logger     core.Logger
}

// NewClient creates an OpenRouter client instance.
func NewClient(cfg Config) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = core.OpenRouterDefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	logger := cfg.Logger
	if logger == nil {
		logger = &core.NopLogger{}
	}

	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     logger,
	}
}

// ModelsResult carries the aggregator's model data together with its own
// HTTP status code so the caller can propagate the status unchanged.
type ModelsResult struct {
	Data       []any
	StatusCode int
}

// ListModels fetches the aggregator model list. The data field defaults to an
// empty sequence when absent from the upstream response.
func (c *Client) ListModels(ctx context.Context) (*ModelsResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+core.OpenRouterModelsPath, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set(core.HeaderAuthorization, core.AuthBearerPrefix+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, core.MaxResponseBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var payload map[string]any
	if err := sonic.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode model list: %w", err)
	}

	data, _ := payload["data"].([]any)
	if data == nil {
		data = []any{}
	}

	c.logger.Debug("OpenRouter model list status: %d, models: %d", resp.StatusCode, len(data))

	return &ModelsResult{Data: data, StatusCode: resp.StatusCode}, nil
}

// StreamChatCompletions forwards the caller's payload to the aggregator's
// streaming chat endpoint. The payload is opaque passthrough; only the stream
// flag is mutated. The caller owns the response body; the upstream status is
// deliberately not inspected, its body lines are relayed whatever they are.
func (c *Client) StreamChatCompletions(ctx context.Context, payload map[string]any) (*http.Response, error) {
	payload["stream"] = true

	payloadBytes, err := util.MarshalJSON(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+core.OpenRouterChatCompletionsPath, bytes.NewBuffer(payloadBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set(core.HeaderAuthorization, core.AuthBearerPrefix+c.apiKey)
	req.Header.Set(core.HeaderContentType, core.ContentTypeJSON)
	req.Header.Set(core.HeaderAccept, core.ContentTypeEventStream)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}

	c.logger.Debug("OpenRouter chat response status: %d", resp.StatusCode)

	return resp, nil
}
