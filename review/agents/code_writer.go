package agents

import (
	"context"
	"fmt"
	"log"

	"github.com/duckyhq/ducky/embed_data"
	contracts_provider "github.com/duckyhq/ducky/providers/contracts"
	"github.com/duckyhq/ducky/review/models"
)

// CodeWriter derives a concrete fix for the warning. The solution is an
// optional extra: a provider failure yields an empty solution, never a
// cancelled pipeline.
type CodeWriter struct {
	provider contracts_provider.IChatAIProvider
}

func NewCodeWriter(provider contracts_provider.IChatAIProvider) *CodeWriter {
	return &CodeWriter{provider: provider}
}

func (a *CodeWriter) Name() string { return "CodeWriter" }

func (a *CodeWriter) ShouldProcess(agentContext *models.AgentContext) bool {
	return agentContext.Warning.HasFinding() && agentContext.NewVersion != ""
}

// Analyze exists to satisfy the stage interface; the executor routes this
// stage through ComposeSolution instead.
func (a *CodeWriter) Analyze(ctx context.Context, agentContext *models.AgentContext) (models.Signal, *models.WarningMessage, error) {
	return models.Continue, agentContext.Warning, nil
}

type codeWriterResponse struct {
	Solution    string `json:"solution"`
	Explanation string `json:"explanation"`
}

func (a *CodeWriter) ComposeSolution(ctx context.Context, agentContext *models.AgentContext) (models.Signal, string, error) {
	userInput := fmt.Sprintf("Changed file: %s\n\nCurrent Version:\n%s\n\nWarning:\n%s",
		agentContext.FilePath, agentContext.NewVersion, formatWarning(agentContext.Warning))

	raw, err := a.provider.ChatCompletionRequest(ctx, userInput, string(embed_data.CodeWriterPrompt))
	if err != nil {
		log.Printf("code writer: provider call failed: %v", err)
		return models.Continue, "", nil
	}

	var parsed codeWriterResponse
	if !decodeStrict(raw, &parsed) {
		log.Printf("code writer: malformed response, skipping solution")
		return models.Continue, "", nil
	}

	solution := parsed.Solution
	if solution != "" && parsed.Explanation != "" {
		solution = fmt.Sprintf("%s\n\n%s", parsed.Explanation, solution)
	}
	return models.Continue, solution, nil
}
