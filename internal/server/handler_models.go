package server

import (
	"net/http"

	"gemini2api/internal/convert"
	"gemini2api/internal/core"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
)

// listModels serves the model catalog with a three-tier strategy: a stored
// catalog replays byte for byte, otherwise Gemini is fetched and the mapped
// catalog stored, otherwise the OpenRouter list is returned carrying the
// aggregator's own status code.
func (s *Server) listModels(c *gin.Context) {
	if catalog := s.loadStoredCatalog(); catalog != nil {
		c.Data(http.StatusOK, core.ContentTypeJSON, catalog)
		return
	}

	if s.gemini != nil {
		s.listGeminiModels(c)
		return
	}

	s.listOpenRouterModels(c)
}

// loadStoredCatalog returns the stored catalog bytes, or nil when nothing
// usable is stored. Any valid JSON wins; only corrupt bytes force a refetch.
func (s *Server) loadStoredCatalog() []byte {
	catalog, err := s.config.Storage.LoadCatalog()
	if err != nil {
		s.config.Logger.Warn("Failed to load stored model catalog: %v", err)
		return nil
	}
	if catalog == nil {
		return nil
	}

	var cached core.ModelList
	if err := sonic.Unmarshal(catalog, &cached); err != nil {
		s.config.Logger.Warn("Stored model catalog is corrupt, refetching: %v", err)
		return nil
	}

	s.config.Logger.Debug("Serving %d models from stored catalog", len(cached.Data))
	return catalog
}

func (s *Server) listGeminiModels(c *gin.Context) {
	models, err := s.gemini.ListModels(c.Request.Context())
	if err != nil {
		s.config.Logger.Error("Failed to fetch Gemini models: %v", err)
		respondWithOpenAIError(c, http.StatusInternalServerError, err.Error())
		return
	}

	catalog := convert.GeminiModelsToCatalog(models)
	c.JSON(http.StatusOK, catalog)

	s.storeCatalog(catalog)
}

// storeCatalog persists the catalog pretty-printed so the stored bytes stay
// readable on disk. Failures only cost the next request a refetch.
func (s *Server) storeCatalog(catalog core.ModelList) {
	data, err := sonic.MarshalIndent(catalog, "", "  ")
	if err != nil {
		s.config.Logger.Warn("Failed to marshal model catalog for storage: %v", err)
		return
	}
	if err := s.config.Storage.SaveCatalog(data); err != nil {
		s.config.Logger.Warn("Failed to store model catalog: %v", err)
	}
}

func (s *Server) listOpenRouterModels(c *gin.Context) {
	result, err := s.openrouter.ListModels(c.Request.Context())
	if err != nil {
		s.config.Logger.Error("Failed to fetch OpenRouter models: %v", err)
		respondWithOpenAIError(c, http.StatusInternalServerError, err.Error())
		return
	}

	c.JSON(result.StatusCode, gin.H{"object": core.ModelListObjectType, "data": result.Data})
}

// refreshModels drops the stored catalog so the next listing refetches upstream.
func (s *Server) refreshModels(c *gin.Context) {
	if err := s.config.Storage.ClearCatalog(); err != nil {
		s.config.Logger.Error("Failed to clear model catalog: %v", err)
		respondWithOpenAIError(c, http.StatusInternalServerError, err.Error())
		return
	}
	s.config.Logger.Info("Model catalog cleared")
	c.JSON(http.StatusOK, gin.H{"status": "cache cleared"})
}
