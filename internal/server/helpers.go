package server

import (
	"fmt"
	"io"
	"time"

	"gemini2api/internal/core"
	"gemini2api/internal/metrics"

	"github.com/gin-gonic/gin"
)

// setStreamingHeaders sets streaming response HTTP headers
func setStreamingHeaders(c *gin.Context) {
	c.Header(core.HeaderContentType, core.ContentTypeEventStream)
	c.Header(core.HeaderCacheControl, core.CacheControlNoCache)
	c.Header(core.HeaderConnection, core.ConnectionKeepAlive)
}

// writeSSEData writes SSE format data
func writeSSEData(w io.Writer, data []byte) (int, error) {
	return fmt.Fprintf(w, "%s%s\n\n", core.StreamChunkPrefix, string(data))
}

// writeSSERaw writes one upstream line back out with SSE framing preserved
func writeSSERaw(w io.Writer, line string) (int, error) {
	return fmt.Fprintf(w, "%s\n\n", line)
}

// writeSSEDone writes SSE end marker
func writeSSEDone(w io.Writer) (int, error) {
	return fmt.Fprintf(w, "%s%s\n\n", core.StreamChunkPrefix, core.StreamChunkDoneMessage)
}

// respondWithOpenAIError returns OpenAI format error response
func respondWithOpenAIError(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"error": message})
}

// trackPerformanceWithMetrics records performance metrics
func trackPerformanceWithMetrics(m *metrics.MetricsService, startTime time.Time) func() {
	return func() {
		duration := time.Since(startTime)
		m.RecordHTTPRequest(duration)
	}
}

// recordRequestResultWithMetrics records request result
func recordRequestResultWithMetrics(m *metrics.MetricsService, success bool, startTime time.Time, model, provider string) {
	if success {
		metrics.RecordSuccessWithMetrics(m, startTime, model, provider)
	} else {
		metrics.RecordFailureWithMetrics(m, startTime, model, provider)
	}
}
