package process

import (
	"gemini2api/internal/cache"
	"gemini2api/internal/convert"
	"gemini2api/internal/core"
)

// RequestProcessor handles request processing
type RequestProcessor struct {
	cache   core.Cache
	metrics core.MetricsCollector
	logger  core.Logger
}

// NewRequestProcessor creates a new request processor
func NewRequestProcessor(c core.Cache, metrics core.MetricsCollector, logger core.Logger) *RequestProcessor {
	return &RequestProcessor{
		cache:   c,
		metrics: metrics,
		logger:  logger,
	}
}

// ProcessMessagesResult message processing result
type ProcessMessagesResult struct {
	Contents []core.GeminiContent
	CacheHit bool
}

// ProcessMessages processes message conversion with cache
func (p *RequestProcessor) ProcessMessages(messages []core.ChatMessage) ProcessMessagesResult {
	cacheKey := cache.GenerateMessagesCacheKey(messages)

	if cachedAny, found := p.cache.Get(cacheKey); found {
		if contents, ok := cachedAny.([]core.GeminiContent); ok {
			p.metrics.RecordCacheHit()
			return ProcessMessagesResult{
				Contents: contents,
				CacheHit: true,
			}
		}
		p.logger.Warn("Cache format mismatch for messages (key: %s), regenerating", cache.TruncateCacheKey(cacheKey, 16))
	}

	p.metrics.RecordCacheMiss()
	contents := convert.OpenAIMessagesToGeminiContents(messages)

	p.cache.Set(cacheKey, contents, core.MessageConversionCacheTTL)

	return ProcessMessagesResult{
		Contents: contents,
		CacheHit: false,
	}
}

// ResolvedContents is the outcome of shape resolution on a request's message
// payload: either contents translated from chat messages, or the caller's
// value untouched for native passthrough.
type ResolvedContents struct {
	Contents   any
	Translated bool
	CacheHit   bool
}

// ResolveContents decides at the request boundary whether the raw payload is
// a chat message sequence to translate or already Gemini-shaped. A sequence
// whose first object carries "parts" is treated as native contents; one whose
// first object carries "role" or "content" is translated. A bare string
// becomes a single user turn. Everything else passes through untouched.
func (p *RequestProcessor) ResolveContents(raw any) ResolvedContents {
	switch v := raw.(type) {
	case string:
		return p.translate([]core.ChatMessage{{Role: core.RoleUser, Content: v}})
	case []any:
		if len(v) == 0 {
			return ResolvedContents{Contents: v}
		}
		first, ok := v[0].(map[string]any)
		if !ok {
			return ResolvedContents{Contents: v}
		}
		if _, native := first["parts"]; native {
			return ResolvedContents{Contents: v}
		}
		_, hasRole := first["role"]
		_, hasContent := first["content"]
		if !hasRole && !hasContent {
			return ResolvedContents{Contents: v}
		}
		return p.translate(chatMessagesFromRaw(v))
	default:
		return ResolvedContents{Contents: raw}
	}
}

func (p *RequestProcessor) translate(messages []core.ChatMessage) ResolvedContents {
	result := p.ProcessMessages(messages)
	return ResolvedContents{
		Contents:   result.Contents,
		Translated: true,
		CacheHit:   result.CacheHit,
	}
}

func chatMessagesFromRaw(items []any) []core.ChatMessage {
	messages := make([]core.ChatMessage, 0, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		role, _ := obj["role"].(string)
		messages = append(messages, core.ChatMessage{Role: role, Content: obj["content"]})
	}
	return messages
}
