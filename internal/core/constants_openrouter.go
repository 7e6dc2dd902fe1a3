package core

// OpenRouter API endpoint constants
const (
	OpenRouterDefaultBaseURL      = "https://openrouter.ai/api/v1"
	OpenRouterModelsPath          = "/models"
	OpenRouterChatCompletionsPath = "/chat/completions"
	ProviderOpenRouter            = "openrouter"
)
