package services

import (
	"fmt"

	"github.com/SamiaIslam22/ucsb-rag-chatbot/internal/core/domain"
	"github.com/SamiaIslam22/ucsb-rag-chatbot/internal/core/ports/driven"
	"github.com/SamiaIslam22/ucsb-rag-chatbot/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyRetrievalMode   = "retrieval.mode"
	keyRetrievalTopK   = "retrieval.top_k"
	keyRetrievalWeight = "retrieval.keyword_weight"
	keyEmbedProvider   = "embedding.provider"
	keyEmbedModel      = "embedding.model"
	keyEmbedBaseURL    = "embedding.base_url"
	keyEmbedAPIKey     = "embedding.api_key"
	keyLLMProvider     = "llm.provider"
	keyLLMModel        = "llm.model"
	keyLLMBaseURL      = "llm.base_url"
	keyLLMAPIKey       = "llm.api_key"
	keyStorageDBPath   = "storage.database_path"
	keyStorageCSVPath  = "storage.csv_path"
	keyStorageWatch    = "storage.watch"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Retrieval: domain.RetrievalSettings{
			Mode:          s.getSearchMode(defaults.Retrieval.Mode),
			TopK:          s.getInt(keyRetrievalTopK, defaults.Retrieval.TopK),
			KeywordWeight: s.getFloat(keyRetrievalWeight, defaults.Retrieval.KeywordWeight),
		},
		Embedding: domain.EmbeddingSettings{
			Provider: s.getProvider(keyEmbedProvider, defaults.Embedding.Provider),
			Model:    s.getString(keyEmbedModel, defaults.Embedding.Model),
			BaseURL:  s.configStore.GetString(keyEmbedBaseURL), // No default - empty is valid for cloud providers
			APIKey:   s.configStore.GetString(keyEmbedAPIKey),
		},
		LLM: domain.LLMSettings{
			Provider: s.getProvider(keyLLMProvider, defaults.LLM.Provider),
			Model:    s.getString(keyLLMModel, defaults.LLM.Model),
			BaseURL:  s.configStore.GetString(keyLLMBaseURL), // No default - empty is valid for cloud providers
			APIKey:   s.configStore.GetString(keyLLMAPIKey),
		},
		Storage: domain.StorageSettings{
			DatabasePath: s.getString(keyStorageDBPath, defaults.Storage.DatabasePath),
			CSVPath:      s.configStore.GetString(keyStorageCSVPath),
			Watch:        s.configStore.GetBool(keyStorageWatch),
		},
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if err := s.configStore.Set(keyRetrievalMode, settings.Retrieval.Mode.String()); err != nil {
		return fmt.Errorf("save retrieval mode: %w", err)
	}
	if err := s.configStore.Set(keyRetrievalTopK, settings.Retrieval.TopK); err != nil {
		return fmt.Errorf("save retrieval top_k: %w", err)
	}
	if err := s.configStore.Set(keyRetrievalWeight, settings.Retrieval.KeywordWeight); err != nil {
		return fmt.Errorf("save retrieval keyword_weight: %w", err)
	}

	if err := s.configStore.Set(keyEmbedProvider, settings.Embedding.Provider.String()); err != nil {
		return fmt.Errorf("save embedding provider: %w", err)
	}
	if err := s.configStore.Set(keyEmbedModel, settings.Embedding.Model); err != nil {
		return fmt.Errorf("save embedding model: %w", err)
	}
	if err := s.configStore.Set(keyEmbedBaseURL, settings.Embedding.BaseURL); err != nil {
		return fmt.Errorf("save embedding base_url: %w", err)
	}
	if settings.Embedding.APIKey != "" {
		if err := s.configStore.Set(keyEmbedAPIKey, settings.Embedding.APIKey); err != nil {
			return fmt.Errorf("save embedding api_key: %w", err)
		}
	}

	if err := s.configStore.Set(keyLLMProvider, settings.LLM.Provider.String()); err != nil {
		return fmt.Errorf("save llm provider: %w", err)
	}
	if err := s.configStore.Set(keyLLMModel, settings.LLM.Model); err != nil {
		return fmt.Errorf("save llm model: %w", err)
	}
	if err := s.configStore.Set(keyLLMBaseURL, settings.LLM.BaseURL); err != nil {
		return fmt.Errorf("save llm base_url: %w", err)
	}
	if settings.LLM.APIKey != "" {
		if err := s.configStore.Set(keyLLMAPIKey, settings.LLM.APIKey); err != nil {
			return fmt.Errorf("save llm api_key: %w", err)
		}
	}

	if err := s.configStore.Set(keyStorageDBPath, settings.Storage.DatabasePath); err != nil {
		return fmt.Errorf("save storage database_path: %w", err)
	}
	if err := s.configStore.Set(keyStorageCSVPath, settings.Storage.CSVPath); err != nil {
		return fmt.Errorf("save storage csv_path: %w", err)
	}
	if err := s.configStore.Set(keyStorageWatch, settings.Storage.Watch); err != nil {
		return fmt.Errorf("save storage watch: %w", err)
	}

	return nil
}

// getSearchMode reads the retrieval mode with a fallback default.
func (s *SettingsService) getSearchMode(def domain.SearchMode) domain.SearchMode {
	raw := s.configStore.GetString(keyRetrievalMode)
	if raw == "" {
		return def
	}
	mode := domain.SearchMode(raw)
	if !mode.IsValid() {
		return def
	}
	return mode
}

// getProvider reads an AI provider with a fallback default.
func (s *SettingsService) getProvider(key string, def domain.AIProvider) domain.AIProvider {
	raw := s.configStore.GetString(key)
	if raw == "" {
		return def
	}
	provider := domain.AIProvider(raw)
	if !provider.IsValid() {
		return def
	}
	return provider
}

// getString reads a string value with a fallback default.
func (s *SettingsService) getString(key, def string) string {
	if val := s.configStore.GetString(key); val != "" {
		return val
	}
	return def
}

// getInt reads an int value with a fallback default.
func (s *SettingsService) getInt(key string, def int) int {
	if val := s.configStore.GetInt(key); val != 0 {
		return val
	}
	return def
}

// getFloat reads a float value with a fallback default.
func (s *SettingsService) getFloat(key string, def float64) float64 {
	if _, ok := s.configStore.Get(key); !ok {
		return def
	}
	return s.configStore.GetFloat(key)
}
