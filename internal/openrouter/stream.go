package openrouter

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"gemini2api/internal/core"
	"gemini2api/internal/util"
)

// RelayLines reads the aggregator's SSE body line by line and reports each
// non-empty line verbatim as a data event. The wire framing is left to the
// consumer; read failures surface as a single error event. A done event is
// always the last one delivered unless the consumer stops early.
func RelayLines(ctx context.Context, body io.Reader, logger core.Logger, emit func(core.StreamEvent) bool) {
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, core.MaxScannerBufferSize), core.MaxScannerBufferSize)

	stopped := false
	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line := scanner.Text()
		if line == "" {
			continue
		}

		logger.Debug("OpenRouter relay line: %s", util.TruncateString(line, 50, 0, "..."))

		if !emit(core.StreamEvent{Kind: core.StreamEventData, Text: line}) {
			stopped = true
			break
		}
	}

	if stopped {
		return
	}

	if err := scanner.Err(); err != nil {
		if !emit(core.StreamEvent{Kind: core.StreamEventError, Err: fmt.Sprintf("Streaming failed: %v", err)}) {
			return
		}
	}

	emit(core.StreamEvent{Kind: core.StreamEventDone})
}
