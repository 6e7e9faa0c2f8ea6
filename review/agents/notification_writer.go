package agents

import (
	"context"
	"fmt"
	"log"
	"path"

	"github.com/duckyhq/ducky/embed_data"
	contracts_provider "github.com/duckyhq/ducky/providers/contracts"
	"github.com/duckyhq/ducky/review/models"
)

// NotificationWriter turns the accumulated warning into the short text the
// user actually sees. It never blocks a finding: when the provider fails it
// falls back to a deterministic rendering of the warning title.
type NotificationWriter struct {
	provider contracts_provider.IChatAIProvider
}

func NewNotificationWriter(provider contracts_provider.IChatAIProvider) *NotificationWriter {
	return &NotificationWriter{provider: provider}
}

func (a *NotificationWriter) Name() string { return "NotificationWriter" }

func (a *NotificationWriter) ShouldProcess(agentContext *models.AgentContext) bool {
	return agentContext.Warning.HasFinding()
}

// Analyze exists to satisfy the stage interface; the executor routes this
// stage through ComposeNotification instead.
func (a *NotificationWriter) Analyze(ctx context.Context, agentContext *models.AgentContext) (models.Signal, *models.WarningMessage, error) {
	return models.Continue, agentContext.Warning, nil
}

type notificationWriterResponse struct {
	Notification string `json:"notification"`
}

func (a *NotificationWriter) ComposeNotification(ctx context.Context, agentContext *models.AgentContext) (models.Signal, string, error) {
	userInput := fmt.Sprintf("Changed file: %s\n\nWarning:\n%s", agentContext.FilePath, formatWarning(agentContext.Warning))

	raw, err := a.provider.ChatCompletionRequest(ctx, userInput, string(embed_data.NotificationWriterPrompt))
	if err != nil {
		log.Printf("notification writer: provider call failed: %v", err)
		return models.Continue, a.fallbackText(agentContext), nil
	}

	var parsed notificationWriterResponse
	if !decodeStrict(raw, &parsed) || parsed.Notification == "" {
		log.Printf("notification writer: malformed response, using fallback text")
		return models.Continue, a.fallbackText(agentContext), nil
	}

	return models.Continue, parsed.Notification, nil
}

func (a *NotificationWriter) fallbackText(agentContext *models.AgentContext) string {
	return fmt.Sprintf("%s (%s severity) in %s",
		agentContext.Warning.Title(), agentContext.Warning.Severity(), path.Base(agentContext.FilePath))
}
