package openai

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

// OpenAIConfig implements the chat provider against any OpenAI-compatible
// chat completions endpoint.
type OpenAIConfig struct {
	BaseURL         string
	Model           string
	ApiKey          string
	Temperature     *float32
	MaxTokens       int
	RequestTimeout  time.Duration
	TokenManagement contracts2.ITokenManagement
}

const defaultBaseURL = "https://api.openai.com/v1"

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	Temperature *float32  `json:"temperature,omitempty"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message message `json:"message"`
	} `json:"choices"`
}

// NewOpenAIChatProvider initializes a new OpenAI-compatible provider.
func NewOpenAIChatProvider(config *OpenAIConfig) contracts.IChatAIProvider {
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}
	return config
}

func (openAIProvider *OpenAIConfig) ChatCompletionRequest(ctx context.Context, userInput string, prompt string) (string, error) {
	reqBody := chatCompletionRequest{
		Model: openAIProvider.Model,
		Messages: []message{
			{Role: "system", Content: prompt},
			{Role: "user", Content: userInput},
		},
		Temperature: openAIProvider.Temperature,
		MaxTokens:   openAIProvider.MaxTokens,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("error marshalling request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", fmt.Sprintf("%s/chat/completions", openAIProvider.BaseURL), bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", openAIProvider.ApiKey))

	client := &http.Client{Timeout: openAIProvider.RequestTimeout}
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

	var response chatCompletionResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("error unmarshalling response: %w", err)
	}
	if len(response.Choices) == 0 {
		return "", fmt.Errorf("response contained no choices")
	}

	content := response.Choices[0].Message.Content
	if openAIProvider.TokenManagement != nil {
		openAIProvider.TokenManagement.UsedTokens(prompt+userInput, content)
	}
	return content, nil
}
