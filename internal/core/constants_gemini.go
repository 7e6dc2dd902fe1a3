package core

// Gemini API endpoint constants
const (
	GeminiDefaultBaseURL     = "https://generativelanguage.googleapis.com"
	GeminiAPIVersion         = "v1beta"
	GeminiStreamGenerateVerb = ":streamGenerateContent"
	GeminiStreamAltQuery     = "alt=sse"
	GeminiModelsPageSize     = 1000
)

// Gemini API header constants
const (
	HeaderGoogAPIKey = "x-goog-api-key"
)

// Gemini model constants
const (
	GeminiDefaultModel    = "gemini-2.5-flash"
	GeminiModelNamePrefix = "models/"
	GeminiRoleModel       = "model"
	ProviderGemini        = "gemini"
)

// Model catalog mapping defaults
const (
	ModelDefaultTokenLimit = 4096
	ModelTokenizerGemini   = "Gemini"
	ModelModalityTextText  = "text->text"
	ModelModalityText      = "text"
)

// Model catalog cache constants
const (
	ModelsCacheFilePath = "gemini_models_cache.json"
)
