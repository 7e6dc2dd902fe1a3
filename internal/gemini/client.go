package gemini

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"gemini2api/internal/core"
	"gemini2api/internal/util"

	"github.com/bytedance/sonic"
)

// Client calls the Generative Language REST API directly with an API key.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     core.Logger
}

// Config holds the dependencies for a Gemini client.
type Config struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
	Logger     core.Logger
}

// NewClient creates a Gemini client instance.
func NewClient(cfg Config) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = core.GeminiDefaultBaseURL
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

// ListModels fetches the full model list, following pagination.
func (c *Client) ListModels(ctx context.Context) ([]core.GeminiModel, error) {
	var models []core.GeminiModel
	pageToken := ""

	for {
		page, err := c.listModelsPage(ctx, pageToken)
		if err != nil {
			return nil, err
		}
		models = append(models, page.Models...)
		if page.NextPageToken == "" {
			return models, nil
		}
		pageToken = page.NextPageToken
	}
}

func (c *Client) listModelsPage(ctx context.Context, pageToken string) (*core.GeminiModelsPage, error) {
	endpoint := fmt.Sprintf("%s/%s/models?pageSize=%d", c.baseURL, core.GeminiAPIVersion, core.GeminiModelsPageSize)
	if pageToken != "" {
		endpoint += "&pageToken=" + url.QueryEscape(pageToken)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set(core.HeaderGoogAPIKey, c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, core.MaxResponseBodySize))
		return nil, fmt.Errorf("model list failed with status %d: %s", resp.StatusCode, string(body))
	}

	var page core.GeminiModelsPage
	if err := sonic.ConfigDefault.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("failed to decode model list: %w", err)
	}

	return &page, nil
}

// StreamGenerateContent opens a streaming generation call. On success the
// caller owns the response body. A non-200 upstream status is turned into an
// error carrying the body excerpt, and the body is closed here.
func (c *Client) StreamGenerateContent(ctx context.Context, model string, contents any) (*http.Response, error) {
	payloadBytes, err := util.MarshalJSON(core.GenerateContentRequest{Contents: contents})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/%s/%s%s?%s",
		c.baseURL, core.GeminiAPIVersion, normalizeModelName(model),
		core.GeminiStreamGenerateVerb, core.GeminiStreamAltQuery)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(payloadBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set(core.HeaderContentType, core.ContentTypeJSON)
	req.Header.Set(core.HeaderAccept, core.ContentTypeEventStream)
	req.Header.Set(core.HeaderCacheControl, core.CacheControlNoCache)
	req.Header.Set(core.HeaderGoogAPIKey, c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}

	c.logger.Debug("Gemini API response status: %d", resp.StatusCode)

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, core.MaxResponseBodySize))
		_ = resp.Body.Close()
		return nil, fmt.Errorf("generate content failed with status %d: %s", resp.StatusCode, string(body))
	}

	return resp, nil
}

// normalizeModelName ensures the REST resource prefix is present, so callers
// can pass either "gemini-2.5-flash" or "models/gemini-2.5-flash".
func normalizeModelName(model string) string {
	if strings.HasPrefix(model, core.GeminiModelNamePrefix) {
		return model
	}
	return core.GeminiModelNamePrefix + model
}
