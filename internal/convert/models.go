package convert

import (
	"strings"

	"gemini2api/internal/core"
)

// GeminiModelsToCatalog maps Gemini model metadata to aggregator-style catalog
// entries. Absent optional fields get defaults: the display name falls back to
// the slug, token limits to 4096 and supported parameters to an empty list.
func GeminiModelsToCatalog(models []core.GeminiModel) core.ModelList {
	data := make([]core.ModelDescriptor, 0, len(models))
	for _, m := range models {
		slug := strings.TrimPrefix(m.Name, core.GeminiModelNamePrefix)

		name := m.DisplayName
		if name == "" {
			name = slug
		}

		contextLength := m.InputTokenLimit
		if contextLength == 0 {
			contextLength = core.ModelDefaultTokenLimit
		}
		maxCompletionTokens := m.OutputTokenLimit
		if maxCompletionTokens == 0 {
			maxCompletionTokens = core.ModelDefaultTokenLimit
		}

		supportedParams := m.SupportedGenerationMethods
		if supportedParams == nil {
			supportedParams = []string{}
		}

		data = append(data, core.ModelDescriptor{
			ID:            slug,
			CanonicalSlug: slug,
			Name:          name,
			Created:       0,
			Description:   m.Description,
			ContextLength: contextLength,
			Architecture: core.ModelArchitecture{
				Modality:         core.ModelModalityTextText,
				InputModalities:  []string{core.ModelModalityText},
				OutputModalities: []string{core.ModelModalityText},
				Tokenizer:        core.ModelTokenizerGemini,
				InstructType:     nil,
			},
			TopProvider: core.TopProvider{
				ContextLength:       contextLength,
				MaxCompletionTokens: maxCompletionTokens,
				IsModerated:         false,
			},
			PerRequestLimits:    nil,
			SupportedParameters: supportedParams,
		})
	}

	return core.ModelList{
		Object: core.ModelListObjectType,
		Data:   data,
	}
}
