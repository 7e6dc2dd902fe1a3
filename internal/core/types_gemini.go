package core

import "strings"

// GeminiModel is a single model entry from the Generative Language models endpoint.
type GeminiModel struct {
	Name                       string   `json:"name"`
	DisplayName                string   `json:"displayName,omitempty"`
	Description                string   `json:"description,omitempty"`
	InputTokenLimit            int      `json:"inputTokenLimit,omitempty"`
	OutputTokenLimit           int      `json:"outputTokenLimit,omitempty"`
	SupportedGenerationMethods []string `json:"supportedGenerationMethods,omitempty"`
}

// GeminiModelsPage is one page of the paginated models listing.
type GeminiModelsPage struct {
	Models        []GeminiModel `json:"models"`
	NextPageToken string        `json:"nextPageToken,omitempty"`
}

// GeminiPart is a single content part. Only text parts are produced by the translator.
type GeminiPart struct {
	Text string `json:"text"`
}

// GeminiContent is one turn of a Gemini conversation.
type GeminiContent struct {
	Role  string       `json:"role"`
	Parts []GeminiPart `json:"parts"`
}

// GenerateContentRequest is the payload sent to the streaming generation endpoint.
// Contents stays untyped so provider-native request bodies pass through unmodified.
type GenerateContentRequest struct {
	Contents any `json:"contents"`
}

// GeminiCandidateContent holds the parts of a single streamed candidate.
type GeminiCandidateContent struct {
	Parts []GeminiPart `json:"parts,omitempty"`
	Role  string       `json:"role,omitempty"`
}

// GeminiCandidate is one candidate in a streamed generation event.
type GeminiCandidate struct {
	Content      GeminiCandidateContent `json:"content"`
	FinishReason string                 `json:"finishReason,omitempty"`
	Index        int                    `json:"index,omitempty"`
}

// GenerateContentResponse is a single event of a streamed generation.
type GenerateContentResponse struct {
	Candidates []GeminiCandidate `json:"candidates,omitempty"`
}

// JoinCandidateText returns the concatenated text of the first candidate's parts.
// Events without text parts (safety or citation metadata) yield an empty string.
func (r *GenerateContentResponse) JoinCandidateText() string {
	if len(r.Candidates) == 0 {
		return ""
	}
	var b strings.Builder
	for _, part := range r.Candidates[0].Content.Parts {
		b.WriteString(part.Text)
	}
	return b.String()
}
