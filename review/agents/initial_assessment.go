package agents

import (
	"context"
	"fmt"
	"log"
	"path"
	"strings"

	"github.com/duckyhq/ducky/embed_data"
	contracts_provider "github.com/duckyhq/ducky/providers/contracts"
	"github.com/duckyhq/ducky/review/contracts"
	"github.com/duckyhq/ducky/review/models"
)

// InitialAssessment is the first pipeline stage: it decides whether the
// change contains a finding at all and seeds the warning. A whitespace-only
// edit cancels the pipeline before any provider call.
type InitialAssessment struct {
	provider contracts_provider.IChatAIProvider
}

func NewInitialAssessment(provider contracts_provider.IChatAIProvider) contracts.IReviewAgent {
	return &InitialAssessment{provider: provider}
}

func (a *InitialAssessment) Name() string { return "InitialAssessment" }

func (a *InitialAssessment) ShouldProcess(agentContext *models.AgentContext) bool {
	return true
}

type initialAssessmentResponse struct {
	HasIssue    bool    `json:"has_issue"`
	Title       string  `json:"title"`
	Severity    string  `json:"severity"`
	Description string  `json:"description"`
	Suggestion  string  `json:"suggestion"`
	Confidence  float64 `json:"confidence"`
	Reasoning   string  `json:"reasoning"`
}

func (a *InitialAssessment) Analyze(ctx context.Context, agentContext *models.AgentContext) (models.Signal, *models.WarningMessage, error) {
	// Trivial-change short circuit: nothing but whitespace moved.
	if strings.TrimSpace(agentContext.OldVersion) == strings.TrimSpace(agentContext.NewVersion) {
		return models.Cancel, nil, nil
	}

	userInput := fmt.Sprintf("File Path: %s\n\nOld Version:\n%s\n\nNew Version:\n%s",
		agentContext.FilePath, agentContext.OldVersion, agentContext.NewVersion)

	raw, err := a.provider.ChatCompletionRequest(ctx, userInput, string(embed_data.InitialAssessmentPrompt))
	if err != nil {
		log.Printf("initial assessment: provider call failed: %v", err)
		return models.Continue, a.degradedWarning(agentContext, "provider call failed"), nil
	}

	var parsed initialAssessmentResponse
	if !decodeStrict(raw, &parsed) {
		log.Printf("initial assessment: malformed response, using degraded fallback")
		return models.Continue, a.degradedWarning(agentContext, "response could not be parsed"), nil
	}

	if !parsed.HasIssue {
		return models.Cancel, nil, nil
	}

	warning := agentContext.Warning
	warning.SetTitle(parsed.Title)
	warning.SetSeverity(models.ParseSeverity(parsed.Severity))
	warning.AppendDescription(parsed.Description)
	warning.AppendSuggestion(parsed.Suggestion)
	warning.AddAffectedFile(agentContext.FilePath)

	delta := clamp(parsed.Confidence, 0, 1)
	warning.AdjustConfidence(delta)
	warning.AddContribution(models.Contribution{
		Agent:            a.Name(),
		Reasoning:        parsed.Reasoning,
		ConfidenceImpact: delta,
	})

	return models.Continue, warning, nil
}

// degradedWarning is the typed fallback when the first stage cannot get a
// usable verdict: a low-confidence finding that keeps the pipeline alive so
// the user still hears about the change.
func (a *InitialAssessment) degradedWarning(agentContext *models.AgentContext, reason string) *models.WarningMessage {
	warning := agentContext.Warning
	warning.SetTitle(fmt.Sprintf("Unreviewed change in %s", path.Base(agentContext.FilePath)))
	warning.SetSeverity(models.SeverityLow)
	warning.AppendDescription(fmt.Sprintf("Automated review was degraded (%s); the change was recorded but not analyzed.", reason))
	warning.AddAffectedFile(agentContext.FilePath)
	warning.AdjustConfidence(0.2)
	warning.AddContribution(models.Contribution{
		Agent:            a.Name(),
		Reasoning:        reason,
		ConfidenceImpact: 0.2,
	})
	return warning
}
