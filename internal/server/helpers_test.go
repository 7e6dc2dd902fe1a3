package server

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"gemini2api/internal/core"

	"github.com/gin-gonic/gin"
)

func TestWriteSSEData(t *testing.T) {
	var buf bytes.Buffer
	n, err := writeSSEData(&buf, []byte(`{"a":1}`))
	if err != nil {
		t.Fatalf("写入失败: %v", err)
	}
	expected := "data: {\"a\":1}\n\n"
	if buf.String() != expected {
		t.Errorf("期望 %q，实际 %q", expected, buf.String())
	}
	if n != len(expected) {
		t.Errorf("期望写入 %d 字节，实际 %d", len(expected), n)
	}
}

func TestWriteSSERaw(t *testing.T) {
	tests := []struct {
		name, line, expected string
	}{
		{"数据行", `data: {"id":"gen-1"}`, "data: {\"id\":\"gen-1\"}\n\n"},
		{"注释行", ": OPENROUTER PROCESSING", ": OPENROUTER PROCESSING\n\n"},
		{"结束标记行", "data: [DONE]", "data: [DONE]\n\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if _, err := writeSSERaw(&buf, tt.line); err != nil {
				t.Fatalf("写入失败: %v", err)
			}
			if buf.String() != tt.expected {
				t.Errorf("期望 %q，实际 %q", tt.expected, buf.String())
			}
		})
	}
}

func TestWriteSSEDone(t *testing.T) {
	var buf bytes.Buffer
	if _, err := writeSSEDone(&buf); err != nil {
		t.Fatalf("写入失败: %v", err)
	}
	expected := core.StreamChunkPrefix + core.StreamChunkDoneMessage + "\n\n"
	if buf.String() != expected {
		t.Errorf("期望 %q，实际 %q", expected, buf.String())
	}
}

func TestIsMissingPayload(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		expected bool
	}{
		{"nil 视为缺失", nil, true},
		{"空字符串视为缺失", "", true},
		{"空数组视为缺失", []any{}, true},
		{"空对象视为缺失", map[string]any{}, true},
		{"非空字符串存在", "讲个笑话", false},
		{"非空数组存在", []any{map[string]any{"role": "user"}}, false},
		{"非空对象存在", map[string]any{"parts": []any{}}, false},
		{"其他类型不视为缺失", 42, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isMissingPayload(tt.value); got != tt.expected {
				t.Errorf("期望 %v，实际 %v", tt.expected, got)
			}
		})
	}
}

func TestRespondWithOpenAIError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	respondWithOpenAIError(c, http.StatusBadRequest, core.ErrMsgMissingMessages)

	if w.Code != http.StatusBadRequest {
		t.Errorf("期望 400，实际 %d", w.Code)
	}
	if !bytes.Contains(w.Body.Bytes(), []byte(core.ErrMsgMissingMessages)) {
		t.Errorf("响应体应包含错误信息: %s", w.Body.String())
	}
}
