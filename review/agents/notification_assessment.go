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

// NotificationAssessment checks the dismissal history and cancels the
// pipeline when the user keeps dismissing similar warnings. Every failure
// path falls open to notifying.
type NotificationAssessment struct {
	provider contracts_provider.IChatAIProvider
	store    snapshot_contracts.ISnapshotStore
}

func NewNotificationAssessment(provider contracts_provider.IChatAIProvider, store snapshot_contracts.ISnapshotStore) contracts.IReviewAgent {
	return &NotificationAssessment{provider: provider, store: store}
}

func (a *NotificationAssessment) Name() string { return "NotificationAssessment" }

func (a *NotificationAssessment) ShouldProcess(agentContext *models.AgentContext) bool {
	return agentContext.Warning.HasFinding()
}

type notificationAssessmentResponse struct {
	ShouldNotify    bool   `json:"should_notify"`
	Reasoning       string `json:"reasoning"`
	SimilarityFound string `json:"similarity_found"`
}

func (a *NotificationAssessment) Analyze(ctx context.Context, agentContext *models.AgentContext) (models.Signal, *models.WarningMessage, error) {
	dismissals, err := a.store.ListDismissals(agentContext.ProjectID)
	if err != nil {
		log.Printf("notification assessment: dismissal query failed: %v", err)
		return models.Continue, agentContext.Warning, nil
	}
	if len(dismissals) == 0 {
		return models.Continue, agentContext.Warning, nil
	}

	userInput := fmt.Sprintf("Current Warning:\n%s\nPreviously dismissed warnings:\n%s",
		formatWarning(agentContext.Warning), formatDismissalHistory(dismissals))

	raw, err := a.provider.ChatCompletionRequest(ctx, userInput, string(embed_data.NotificationAssessmentPrompt))
	if err != nil {
		log.Printf("notification assessment: provider call failed: %v", err)
		return models.Continue, agentContext.Warning, nil
	}

	var parsed notificationAssessmentResponse
	if !decodeStrict(raw, &parsed) {
		log.Printf("notification assessment: malformed response, defaulting to notify")
		return models.Continue, agentContext.Warning, nil
	}

	if !parsed.ShouldNotify {
		log.Printf("notification assessment: suppressing warning (%s)", parsed.Reasoning)
		return models.Cancel, nil, nil
	}

	agentContext.Warning.AddContribution(models.Contribution{
		Agent:     a.Name(),
		Reasoning: parsed.Reasoning,
	})
	return models.Continue, agentContext.Warning, nil
}

// formatDismissalHistory renders the last ten dismissals for the prompt.
func formatDismissalHistory(dismissals []snapshot_models.Dismissal) string {
	if len(dismissals) > 10 {
		dismissals = dismissals[len(dismissals)-10:]
	}

	var b strings.Builder
	for i, dismissal := range dismissals {
		warning := dismissal.Warning
		if len(warning) > 200 {
			warning = warning[:200] + "..."
		}
		fmt.Fprintf(&b, "Dismissal #%d (%s): %s\n", i+1, dismissal.CreatedAt.Format("2006-01-02"), warning)
	}
	return b.String()
}
