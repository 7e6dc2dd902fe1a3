package convert

import (
	"gemini2api/internal/core"
	"gemini2api/internal/util"
)

// MapOpenAIRole maps an OpenAI message role to a Gemini content role.
// Anything that is not user or assistant maps to system.
func MapOpenAIRole(role string) string {
	switch role {
	case core.RoleUser:
		return core.RoleUser
	case core.RoleAssistant:
		return core.GeminiRoleModel
	default:
		return core.RoleSystem
	}
}

// OpenAIMessagesToGeminiContents converts OpenAI chat messages to Gemini contents.
// Messages whose content resolves to empty text are dropped without error.
// Order is preserved and adjacent same-role messages are never merged.
func OpenAIMessagesToGeminiContents(messages []core.ChatMessage) []core.GeminiContent {
	var contents []core.GeminiContent
	for _, msg := range messages {
		text := util.ExtractTextContent(msg.Content)
		if text == "" {
			continue
		}
		contents = append(contents, core.GeminiContent{
			Role:  MapOpenAIRole(msg.Role),
			Parts: []core.GeminiPart{{Text: text}},
		})
	}
	return contents
}
