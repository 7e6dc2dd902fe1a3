package openrouter

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"gemini2api/internal/core"

	"github.com/bytedance/sonic"
)

func TestNewClient_Defaults(t *testing.T) {
	client := NewClient(Config{APIKey: "test-key"})
	if client.baseURL != core.OpenRouterDefaultBaseURL {
		t.Errorf("期望默认地址 '%s'，实际 '%s'", core.OpenRouterDefaultBaseURL, client.baseURL)
	}
	if client.httpClient == nil {
		t.Error("httpClient 不应为nil")
	}
}

func TestNewClient_TrimsTrailingSlash(t *testing.T) {
	client := NewClient(Config{APIKey: "k", BaseURL: "https://openrouter.ai/api/v1/"})
	if client.baseURL != "https://openrouter.ai/api/v1" {
		t.Errorf("末尾斜杠应被去除，实际 '%s'", client.baseURL)
	}
}

func TestClient_ListModels(t *testing.T) {
	var gotPath, gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get(core.HeaderAuthorization)
		w.Header().Set(core.HeaderContentType, core.ContentTypeJSON)
		_, _ = w.Write([]byte(`{"data":[{"id":"openai/gpt-4o"},{"id":"anthropic/claude-3.5-sonnet"}]}`))
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "or-key", BaseURL: server.URL})
	result, err := client.ListModels(context.Background())
	if err != nil {
		t.Fatalf("ListModels 不应失败: %v", err)
	}

	if gotPath != core.OpenRouterModelsPath {
		t.Errorf("期望路径 '%s'，实际 '%s'", core.OpenRouterModelsPath, gotPath)
	}
	if gotAuth != core.AuthBearerPrefix+"or-key" {
		t.Errorf("期望Bearer认证头，实际 '%s'", gotAuth)
	}
	if result.StatusCode != http.StatusOK {
		t.Errorf("期望状态码 200，实际 %d", result.StatusCode)
	}
	if len(result.Data) != 2 {
		t.Errorf("期望2个模型，实际 %d 个", len(result.Data))
	}
}

func TestClient_ListModels_StatusPropagation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(core.HeaderContentType, core.ContentTypeJSON)
		w.WriteHeader(http.StatusPaymentRequired)
		_, _ = w.Write([]byte(`{"error":{"message":"Insufficient credits"}}`))
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "k", BaseURL: server.URL})
	result, err := client.ListModels(context.Background())
	if err != nil {
		t.Fatalf("非200状态不应视为错误: %v", err)
	}

	if result.StatusCode != http.StatusPaymentRequired {
		t.Errorf("上游状态码应原样保留，期望 402，实际 %d", result.StatusCode)
	}
	if result.Data == nil {
		t.Error("Data应为空列表而非nil")
	}
	if len(result.Data) != 0 {
		t.Errorf("期望空Data，实际 %d 个", len(result.Data))
	}
}

func TestClient_ListModels_InvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json at all"))
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "k", BaseURL: server.URL})
	_, err := client.ListModels(context.Background())
	if err == nil {
		t.Fatal("无法解析的响应应返回错误")
	}
	if !strings.Contains(err.Error(), "failed to decode model list") {
		t.Errorf("错误信息不匹配: %v", err)
	}
}

func TestClient_StreamChatCompletions(t *testing.T) {
	var gotPath, gotAuth, gotAccept, gotContentType string
	var gotBody []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get(core.HeaderAuthorization)
		gotAccept = r.Header.Get(core.HeaderAccept)
		gotContentType = r.Header.Get(core.HeaderContentType)
		gotBody, _ = io.ReadAll(r.Body)
		w.Header().Set(core.HeaderContentType, core.ContentTypeEventStream)
		_, _ = w.Write([]byte("data: {\"id\":\"gen-1\"}\n\ndata: [DONE]\n\n"))
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "or-key", BaseURL: server.URL})
	payload := map[string]any{
		"model":    "openai/gpt-4o",
		"messages": []any{map[string]any{"role": "user", "content": "hi"}},
		"stream":   false,
	}

	resp, err := client.StreamChatCompletions(context.Background(), payload)
	if err != nil {
		t.Fatalf("StreamChatCompletions 不应失败: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if gotPath != core.OpenRouterChatCompletionsPath {
		t.Errorf("期望路径 '%s'，实际 '%s'", core.OpenRouterChatCompletionsPath, gotPath)
	}
	if gotAuth != core.AuthBearerPrefix+"or-key" {
		t.Errorf("期望Bearer认证头，实际 '%s'", gotAuth)
	}
	if gotAccept != core.ContentTypeEventStream {
		t.Errorf("期望Accept '%s'，实际 '%s'", core.ContentTypeEventStream, gotAccept)
	}
	if gotContentType != core.ContentTypeJSON {
		t.Errorf("期望Content-Type '%s'，实际 '%s'", core.ContentTypeJSON, gotContentType)
	}

	var sent map[string]any
	if err := sonic.Unmarshal(gotBody, &sent); err != nil {
		t.Fatalf("请求体应为有效JSON: %v", err)
	}
	if sent["stream"] != true {
		t.Error("stream标志应被强制为true")
	}
	if sent["model"] != "openai/gpt-4o" {
		t.Errorf("model字段应原样转发，实际 '%v'", sent["model"])
	}
	if _, ok := sent["messages"].([]any); !ok {
		t.Error("messages字段应原样转发")
	}
}

func TestClient_StreamChatCompletions_NoStatusCheck(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"Invalid API key"}}`))
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "bad", BaseURL: server.URL})
	resp, err := client.StreamChatCompletions(context.Background(), map[string]any{"model": "x"})
	if err != nil {
		t.Fatalf("非200状态不应视为错误: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("上游状态码应原样保留，期望 401，实际 %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "Invalid API key") {
		t.Error("上游响应体应可供调用方读取")
	}
}
