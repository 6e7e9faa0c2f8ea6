package token_management

import (
	"fmt"
	"strings"
	"sync"

	"github.com/duckyhq/ducky/constants/lipgloss"
	"github.com/duckyhq/ducky/token_management/contracts"
)

// TokenManager keeps a running estimate of prompt and completion tokens.
// Counts are approximate (4 characters per token) but good enough to show
// the cost of a monitoring session.
type TokenManager struct {
	mutex            sync.Mutex
	promptTokens     int
	completionTokens int
	requestCount     int
}

func NewTokenManager() contracts.ITokenManagement {
	return &TokenManager{}
}

// estimateTokens uses the rough 4-characters-per-token heuristic.
func estimateTokens(text string) int {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return 0
	}
	return (len(trimmed) + 3) / 4
}

func (tm *TokenManager) UsedTokens(prompt string, completion string) {
	tm.mutex.Lock()
	defer tm.mutex.Unlock()
	tm.promptTokens += estimateTokens(prompt)
	tm.completionTokens += estimateTokens(completion)
	tm.requestCount++
}

func (tm *TokenManager) DisplayTokens(provider string, model string) {
	tm.mutex.Lock()
	defer tm.mutex.Unlock()

	total := tm.promptTokens + tm.completionTokens
	details := fmt.Sprintf("Token Usage - %s/%s | Requests: %d | Input: ~%d | Output: ~%d | Total: ~%d",
		provider, model, tm.requestCount, tm.promptTokens, tm.completionTokens, total)
	fmt.Println(lipgloss.Gray.Render(details))
}

func (tm *TokenManager) ClearToken() {
	tm.mutex.Lock()
	defer tm.mutex.Unlock()
	tm.promptTokens = 0
	tm.completionTokens = 0
	tm.requestCount = 0
}
