package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/duckyhq/ducky/providers/contracts"
	"github.com/duckyhq/ducky/providers/models"
	contracts2 "github.com/duckyhq/ducky/token_management/contracts"
)

// OllamaConfig implements the chat provider against a local Ollama server.
type OllamaConfig struct {
	BaseURL         string
	Model           string
	Temperature     *float32
	RequestTimeout  time.Duration
	TokenManagement contracts2.ITokenManagement
}

const defaultBaseURL = "http://localhost:11434/api"

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaChatCompletionRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	Stream      bool      `json:"stream"`
	Temperature *float32  `json:"temperature,omitempty"`
}

type ollamaChatCompletionResponse struct {
	Message message `json:"message"`
	Done    bool    `json:"done"`
}

// NewOllamaChatProvider initializes a new Ollama provider.
func NewOllamaChatProvider(config *OllamaConfig) contracts.IChatAIProvider {
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}
	return config
}

func (ollamaProvider *OllamaConfig) ChatCompletionRequest(ctx context.Context, userInput string, prompt string) (string, error) {
	reqBody := ollamaChatCompletionRequest{
		Model: ollamaProvider.Model,
		Messages: []message{
			{Role: "system", Content: prompt},
			{Role: "user", Content: userInput},
		},
		Stream:      false,
		Temperature: ollamaProvider.Temperature,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("error marshalling request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", fmt.Sprintf("%s/chat", ollamaProvider.BaseURL), bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: ollamaProvider.RequestTimeout}
	resp, err := client.Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			return "", fmt.Errorf("request canceled: %w", err)
		}
		return "", fmt.Errorf("error sending request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("error reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiError models.AIError
		if err := json.Unmarshal(body, &apiError); err != nil {
			return "", fmt.Errorf("API request failed with status code '%d'", resp.StatusCode)
		}
		return "", fmt.Errorf("API request failed with status code '%d' - %s", resp.StatusCode, apiError.Error.Message)
	}

	var response ollamaChatCompletionResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("error unmarshalling response: %w", err)
	}

	content := response.Message.Content
	if ollamaProvider.TokenManagement != nil {
		ollamaProvider.TokenManagement.UsedTokens(prompt+userInput, content)
	}
	return content, nil
}
