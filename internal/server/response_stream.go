package server

import (
	"fmt"
	"net/http"
	"time"

	"gemini2api/internal/core"
	"gemini2api/internal/gemini"
	"gemini2api/internal/openrouter"
	"gemini2api/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// relayGeminiStream re-emits a Gemini SSE body as OpenAI chat completion
// chunks. Every chunk shares one generated stream ID; the finish_reason
// stays null because Gemini's own finish signal ends the upstream body.
func (s *Server) relayGeminiStream(c *gin.Context, resp *http.Response, model string, startTime time.Time) {
	setStreamingHeaders(c)

	streamID := core.ResponseIDPrefix + uuid.New().String()
	success := true
	ctx := c.Request.Context()

	gemini.RelayStream(ctx, resp.Body, s.config.Logger, func(ev core.StreamEvent) bool {
		switch ev.Kind {
		case core.StreamEventData:
			chunk := core.StreamResponse{
				ID:     streamID,
				Object: core.ChatCompletionChunkObjectType,
				Choices: []core.StreamChoice{{
					Delta:        core.StreamDelta{Content: ev.Text},
					Index:        0,
					FinishReason: nil,
				}},
			}
			chunkJSON, err := util.MarshalJSON(chunk)
			if err != nil {
				s.config.Logger.Warn("Failed to marshal stream chunk: %v", err)
				return true
			}
			_, _ = writeSSEData(c.Writer, chunkJSON)
			c.Writer.Flush()
		case core.StreamEventError:
			success = false
			writeStreamError(c, ev.Err)
		case core.StreamEventDone:
			_, _ = writeSSEDone(c.Writer)
			c.Writer.Flush()
		}
		return ctx.Err() == nil
	})

	if ctx.Err() != nil {
		s.config.Logger.Debug("Client disconnected during Gemini relay")
		success = false
	}

	recordRequestResultWithMetrics(s.metricsService, success, startTime, model, core.ProviderGemini)
}

// relayOpenRouterStream copies the aggregator's SSE body through verbatim,
// line by line. The done sentinel is always appended locally.
func (s *Server) relayOpenRouterStream(c *gin.Context, resp *http.Response, model string, startTime time.Time) {
	success := true
	ctx := c.Request.Context()

	openrouter.RelayLines(ctx, resp.Body, s.config.Logger, func(ev core.StreamEvent) bool {
		switch ev.Kind {
		case core.StreamEventData:
			_, _ = writeSSERaw(c.Writer, ev.Text)
			c.Writer.Flush()
		case core.StreamEventError:
			success = false
			writeStreamError(c, ev.Err)
		case core.StreamEventDone:
			_, _ = writeSSEDone(c.Writer)
			c.Writer.Flush()
		}
		return ctx.Err() == nil
	})

	if ctx.Err() != nil {
		s.config.Logger.Debug("Client disconnected during OpenRouter relay")
		success = false
	}

	recordRequestResultWithMetrics(s.metricsService, success, startTime, model, core.ProviderOpenRouter)
}

// writeStreamError sends an in-band error frame without ending the stream.
func writeStreamError(c *gin.Context, message string) {
	frame, err := util.MarshalJSON(gin.H{"error": message})
	if err != nil {
		return
	}
	_, _ = writeSSEData(c.Writer, frame)
	c.Writer.Flush()
}

// writeStreamFailure reports a relay that never produced a stream: one
// in-band error frame followed by the done sentinel.
func writeStreamFailure(c *gin.Context, err error) {
	writeStreamError(c, fmt.Sprintf("Streaming failed: %v", err))
	_, _ = writeSSEDone(c.Writer)
	c.Writer.Flush()
}
