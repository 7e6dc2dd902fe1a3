package core

// ModelArchitecture describes the input/output modalities of a catalog entry.
type ModelArchitecture struct {
	Modality         string   `json:"modality"`
	InputModalities  []string `json:"input_modalities"`
	OutputModalities []string `json:"output_modalities"`
	Tokenizer        string   `json:"tokenizer"`
	InstructType     *string  `json:"instruct_type"`
}

// TopProvider holds the serving limits advertised for a catalog entry.
type TopProvider struct {
	ContextLength       int  `json:"context_length"`
	MaxCompletionTokens int  `json:"max_completion_tokens"`
	IsModerated         bool `json:"is_moderated"`
}

// ModelDescriptor is a single aggregator-style model catalog entry.
// PerRequestLimits is always serialized, null when absent.
type ModelDescriptor struct {
	ID                  string            `json:"id"`
	CanonicalSlug       string            `json:"canonical_slug"`
	Name                string            `json:"name"`
	Created             int64             `json:"created"`
	Description         string            `json:"description"`
	ContextLength       int               `json:"context_length"`
	Architecture        ModelArchitecture `json:"architecture"`
	TopProvider         TopProvider       `json:"top_provider"`
	PerRequestLimits    any               `json:"per_request_limits"`
	SupportedParameters []string          `json:"supported_parameters"`
}

// ModelList is the OpenAI-compatible model list response.
type ModelList struct {
	Object string            `json:"object"`
	Data   []ModelDescriptor `json:"data"`
}
