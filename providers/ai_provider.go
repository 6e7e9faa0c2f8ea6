package providers

import (
	"fmt"
	"time"

	"github.com/duckyhq/ducky/providers/contracts"
	"github.com/duckyhq/ducky/providers/ollama"
	"github.com/duckyhq/ducky/providers/openai"
	contracts2 "github.com/duckyhq/ducky/token_management/contracts"
)

// AIProviderConfig is the provider section of the application config.
type AIProviderConfig struct {
	Provider              string   `mapstructure:"provider"`
	BaseURL               string   `mapstructure:"base_url"`
	Model                 string   `mapstructure:"model"`
	ApiKey                string   `mapstructure:"api_key"`
	Temperature           *float32 `mapstructure:"temperature"`
	MaxTokens             int      `mapstructure:"max_tokens"`
	RequestTimeoutSeconds int      `mapstructure:"request_timeout_seconds"`
}

// ChatProviderFactory creates the chat provider based on the configured name.
func ChatProviderFactory(config *AIProviderConfig, tokenManagement contracts2.ITokenManagement) (contracts.IChatAIProvider, error) {
	timeout := time.Duration(config.RequestTimeoutSeconds) * time.Second

	switch config.Provider {
	case "openai", "azure", "openrouter":
		return openai.NewOpenAIChatProvider(&openai.OpenAIConfig{
			BaseURL:         config.BaseURL,
			Model:           config.Model,
			ApiKey:          config.ApiKey,
			Temperature:     config.Temperature,
			MaxTokens:       config.MaxTokens,
			RequestTimeout:  timeout,
			TokenManagement: tokenManagement,
		}), nil
	case "ollama":
		return ollama.NewOllamaChatProvider(&ollama.OllamaConfig{
			BaseURL:         config.BaseURL,
			Model:           config.Model,
			Temperature:     config.Temperature,
			RequestTimeout:  timeout,
			TokenManagement: tokenManagement,
		}), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", config.Provider)
	}
}
