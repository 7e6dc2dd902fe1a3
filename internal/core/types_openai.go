package core

// ChatMessage represents a single message in an OpenAI chat completion request.
// Content is either a plain string or an array of content parts.
type ChatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content,omitempty"`
}

// StreamDelta carries the incremental text of a streaming response chunk.
type StreamDelta struct {
	Content string `json:"content"`
}

// StreamChoice represents a single choice in an OpenAI streaming response chunk.
// FinishReason is serialized even while null so clients see the field on every chunk.
type StreamChoice struct {
	Delta        StreamDelta `json:"delta"`
	Index        int         `json:"index"`
	FinishReason *string     `json:"finish_reason"`
}

// StreamResponse is the OpenAI-compatible streaming response chunk.
type StreamResponse struct {
	ID      string         `json:"id"`
	Object  string         `json:"object"`
	Choices []StreamChoice `json:"choices"`
}
