package contracts

import (
	"context"

	"github.com/duckyhq/ducky/review/models"
)

// IReviewAgent is the uniform capability boundary for pipeline stages. The
// executor treats every stage identically: evaluate ShouldProcess, then
// Analyze. A returned error is isolated by the executor and treated as if
// the stage had no effect; stages that can produce degraded-but-useful
// output are expected to handle their own sub-errors and return a warning
// instead.
type IReviewAgent interface {
	Name() string
	ShouldProcess(agentContext *models.AgentContext) bool
	Analyze(ctx context.Context, agentContext *models.AgentContext) (models.Signal, *models.WarningMessage, error)
}

// INotificationComposer marks the terminal stage whose result is the short
// human-facing notification text. The executor captures the string
// separately instead of replacing the accumulated warning.
type INotificationComposer interface {
	ComposeNotification(ctx context.Context, agentContext *models.AgentContext) (models.Signal, string, error)
}

// ISolutionComposer marks the terminal stage whose result is the derived
// fix text, captured separately like the notification.
type ISolutionComposer interface {
	ComposeSolution(ctx context.Context, agentContext *models.AgentContext) (models.Signal, string, error)
}

// INotifier receives the output of a completed run. A nil output never
// reaches it.
type INotifier interface {
	Notify(output *models.PipelineOutput)
}

// IChatState exposes whether a discussion about an earlier finding is in
// progress; new pipeline runs are not admitted while it is.
type IChatState interface {
	IsActive() bool
}
