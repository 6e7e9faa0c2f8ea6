package agents

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/duckyhq/ducky/embed_data"
	contracts_provider "github.com/duckyhq/ducky/providers/contracts"
	"github.com/duckyhq/ducky/review/contracts"
	"github.com/duckyhq/ducky/review/models"
	snapshot_contracts "github.com/duckyhq/ducky/snapshot/contracts"
	snapshot_models "github.com/duckyhq/ducky/snapshot/models"
)

const (
	maxDigestFiles       = 20
	maxDigestFileContent = 1500
)

// ContextAwareness enriches the warning with project-level impact by
// retrieving sibling files from the snapshot store.
type ContextAwareness struct {
	provider contracts_provider.IChatAIProvider
	store    snapshot_contracts.ISnapshotStore
}

func NewContextAwareness(provider contracts_provider.IChatAIProvider, store snapshot_contracts.ISnapshotStore) contracts.IReviewAgent {
	return &ContextAwareness{provider: provider, store: store}
}

func (a *ContextAwareness) Name() string { return "ContextAwareness" }

func (a *ContextAwareness) ShouldProcess(agentContext *models.AgentContext) bool {
	return agentContext.Warning.HasFinding()
}

type contextAwarenessResponse struct {
	AdditionalContext string   `json:"additional_context"`
	Suggestion        string   `json:"suggestion"`
	RelatedFiles      []string `json:"related_files"`
	ConfidenceDelta   float64  `json:"confidence_delta"`
}

func (a *ContextAwareness) Analyze(ctx context.Context, agentContext *models.AgentContext) (models.Signal, *models.WarningMessage, error) {
	files, err := a.store.ProjectFiles(agentContext.ProjectID, agentContext.FilePath)
	if err != nil {
		log.Printf("context awareness: project file query failed: %v", err)
		return models.Continue, agentContext.Warning, nil
	}
	if len(files) == 0 {
		return models.Continue, agentContext.Warning, nil
	}

	userInput := fmt.Sprintf("Changed file: %s\n\nNew Version:\n%s\n\nCurrent Warning:\n%s\nProject digest:\n%s",
		agentContext.FilePath, agentContext.NewVersion, formatWarning(agentContext.Warning), projectDigest(files))

	raw, err := a.provider.ChatCompletionRequest(ctx, userInput, string(embed_data.ContextAwarenessPrompt))
	if err != nil {
		log.Printf("context awareness: provider call failed: %v", err)
		return models.Continue, agentContext.Warning, nil
	}

	var parsed contextAwarenessResponse
	if !decodeStrict(raw, &parsed) {
		log.Printf("context awareness: malformed response, keeping warning as-is")
		return models.Continue, agentContext.Warning, nil
	}

	warning := agentContext.Warning
	warning.AppendDescription(parsed.AdditionalContext)
	warning.AppendSuggestion(parsed.Suggestion)
	for _, related := range parsed.RelatedFiles {
		warning.AddAffectedFile(related)
	}

	delta := clamp(parsed.ConfidenceDelta, -0.3, 0.3)
	warning.AdjustConfidence(delta)
	warning.AddContribution(models.Contribution{
		Agent:            a.Name(),
		Reasoning:        parsed.AdditionalContext,
		ConfidenceImpact: delta,
	})

	return models.Continue, warning, nil
}

// projectDigest renders a bounded sample of the project's files so the
// prompt stays within reasonable size for large trees.
func projectDigest(files []snapshot_models.FileRecord) string {
	var b strings.Builder
	for i, file := range files {
		if i >= maxDigestFiles {
			fmt.Fprintf(&b, "... and %d more files\n", len(files)-maxDigestFiles)
			break
		}
		content := file.Content
		if len(content) > maxDigestFileContent {
			content = content[:maxDigestFileContent] + "\n... [truncated]"
		}
		fmt.Fprintf(&b, "**File: %s**\n%s\n---------\n", file.Path, content)
	}
	return b.String()
}
