package gemini

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"gemini2api/internal/core"

	"github.com/bytedance/sonic"
)

// ProcessStream reads the SSE body of a streaming generation call and invokes
// onEvent for each decoded event. Returning false from onEvent stops the read.
func ProcessStream(ctx context.Context, body io.Reader, logger core.Logger, onEvent func(event *core.GenerateContentResponse) bool) error {
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, core.MaxScannerBufferSize), core.MaxScannerBufferSize)
	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" || !strings.HasPrefix(line, core.StreamChunkPrefix) {
			continue
		}

		dataStr := strings.TrimSpace(strings.TrimPrefix(line, core.StreamChunkPrefix))
		if dataStr == core.StreamChunkDoneMessage {
			break
		}
		if dataStr == "" {
			continue
		}

		var event core.GenerateContentResponse
		if err := sonic.Unmarshal([]byte(dataStr), &event); err != nil {
			logger.Error("Error unmarshalling stream event: %v", err)
			continue
		}

		if !onEvent(&event) {
			break
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("stream read error: %w", err)
	}

	return nil
}

// RelayStream converts a streaming generation body into tagged stream events.
// Events without text are skipped. A read failure surfaces as one Error event.
// The sequence always ends with a single Done event unless the consumer stops
// early by returning false.
func RelayStream(ctx context.Context, body io.Reader, logger core.Logger, emit func(core.StreamEvent) bool) {
	stopped := false

	err := ProcessStream(ctx, body, logger, func(event *core.GenerateContentResponse) bool {
		text := event.JoinCandidateText()
		if text == "" {
			return true
		}
		if !emit(core.StreamEvent{Kind: core.StreamEventData, Text: text}) {
			stopped = true
			return false
		}
		return true
	})
	if stopped {
		return
	}

	if err != nil {
		if !emit(core.StreamEvent{Kind: core.StreamEventError, Err: err.Error()}) {
			return
		}
	}

	emit(core.StreamEvent{Kind: core.StreamEventDone})
}
