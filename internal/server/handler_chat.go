package server

import (
	"net/http"
	"time"

	"gemini2api/internal/core"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
)

func (s *Server) chatCompletions(c *gin.Context) {
	startTime := time.Now()
	defer trackPerformanceWithMetrics(s.metricsService, startTime)()

	body, err := c.GetRawData()
	if err != nil {
		recordRequestResultWithMetrics(s.metricsService, false, startTime, "", "")
		respondWithOpenAIError(c, http.StatusBadRequest, core.ErrMsgInvalidJSONBody)
		return
	}

	var request map[string]any
	if err := sonic.Unmarshal(body, &request); err != nil {
		recordRequestResultWithMetrics(s.metricsService, false, startTime, "", "")
		respondWithOpenAIError(c, http.StatusBadRequest, core.ErrMsgInvalidJSONBody)
		return
	}

	if s.gemini != nil {
		s.chatViaGemini(c, request, startTime)
		return
	}

	s.chatViaOpenRouter(c, request, startTime)
}

func (s *Server) chatViaGemini(c *gin.Context, request map[string]any, startTime time.Time) {
	model, _ := request["model"].(string)
	if model == "" {
		model = core.GeminiDefaultModel
	}

	raw := request["messages"]
	if isMissingPayload(raw) {
		raw = request["contents"]
	}
	if isMissingPayload(raw) {
		recordRequestResultWithMetrics(s.metricsService, false, startTime, model, core.ProviderGemini)
		respondWithOpenAIError(c, http.StatusBadRequest, core.ErrMsgMissingMessages)
		return
	}

	resolved := s.requestProcessor.ResolveContents(raw)
	if resolved.Translated {
		s.config.Logger.Debug("Translated chat messages to Gemini contents (cache hit: %v)", resolved.CacheHit)
	} else {
		s.config.Logger.Debug("Forwarding request contents to Gemini untouched")
	}

	//nolint:bodyclose // resp.Body closed below via defer
	resp, err := s.gemini.StreamGenerateContent(c.Request.Context(), model, resolved.Contents)
	if err != nil {
		recordRequestResultWithMetrics(s.metricsService, false, startTime, model, core.ProviderGemini)
		respondWithOpenAIError(c, http.StatusInternalServerError, err.Error())
		return
	}
	defer func() { _ = resp.Body.Close() }()

	s.relayGeminiStream(c, resp, model, startTime)
}

func (s *Server) chatViaOpenRouter(c *gin.Context, request map[string]any, startTime time.Time) {
	model, _ := request["model"].(string)

	// The SSE contract is committed before the upstream call so a connect
	// failure still surfaces in-band instead of as an HTTP status.
	setStreamingHeaders(c)

	//nolint:bodyclose // resp.Body closed below via defer
	resp, err := s.openrouter.StreamChatCompletions(c.Request.Context(), request)
	if err != nil {
		s.config.Logger.Error("OpenRouter request failed: %v", err)
		writeStreamFailure(c, err)
		recordRequestResultWithMetrics(s.metricsService, false, startTime, model, core.ProviderOpenRouter)
		return
	}
	defer func() { _ = resp.Body.Close() }()

	s.relayOpenRouterStream(c, resp, model, startTime)
}

// isMissingPayload reports whether a messages or contents value counts as
// absent. An empty sequence is treated the same as a missing field.
func isMissingPayload(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case []any:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	}
	return false
}
