package review

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"

	"github.com/duckyhq/ducky/review/contracts"
	"github.com/duckyhq/ducky/review/models"
	watcher_models "github.com/duckyhq/ducky/watcher/models"
)

var (
	// ErrNoChanges rejects a run with nothing to analyze.
	ErrNoChanges = errors.New("no changes to analyze")
	// ErrEmptyChange rejects a change whose versions are both empty, or a
	// new file with no content.
	ErrEmptyChange = errors.New("change carries no content")
)

// Executor runs the review stages in order over a single change. Stages
// communicate through the shared warning; a Cancel from any stage ends the
// run with no output, and a panicking or erroring stage is isolated as if it
// had no effect.
type Executor struct {
	agents []contracts.IReviewAgent
}

func NewExecutor(agents []contracts.IReviewAgent) *Executor {
	return &Executor{agents: agents}
}

// Execute analyzes the first change of the batch. It returns a nil output
// (and nil error) when the pipeline decides there is nothing to tell the
// user.
func (e *Executor) Execute(ctx context.Context, changes []watcher_models.FileChange) (*models.PipelineOutput, error) {
	if len(changes) == 0 {
		return nil, ErrNoChanges
	}

	// One change per run keeps each notification about a single file; the
	// rest of the batch is already persisted and picked up on later edits.
	change := changes[0]
	if change.OldVersion == "" && change.NewVersion == "" {
		return nil, ErrEmptyChange
	}
	if change.IsNewFile && change.NewVersion == "" {
		return nil, ErrEmptyChange
	}

	agentContext := &models.AgentContext{
		OldVersion: change.OldVersion,
		NewVersion: change.NewVersion,
		FilePath:   change.Path,
		ProjectID:  change.ProjectID,
		Warning:    models.NewWarningMessage(),
	}

	var notification, solution string

	for _, agent := range e.agents {
		if !agent.ShouldProcess(agentContext) {
			continue
		}

		signal, result, err := e.runStage(ctx, agent, agentContext, &notification, &solution)
		if err != nil {
			log.Printf("pipeline stage %s failed, continuing: %v", agent.Name(), err)
			continue
		}
		if signal == models.Cancel {
			log.Printf("pipeline cancelled by %s", agent.Name())
			return nil, nil
		}
		if result != nil {
			agentContext.Warning = result
		}
	}

	if !agentContext.Warning.HasFinding() {
		return nil, nil
	}

	return &models.PipelineOutput{
		ID:           uuid.NewString(),
		Notification: notification,
		Warning:      agentContext.Warning,
		Solution:     solution,
		OldVersion:   change.OldVersion,
		NewVersion:   change.NewVersion,
		FilePath:     change.Path,
		ProjectID:    change.ProjectID,
	}, nil
}

// runStage dispatches one stage with panic isolation. Composer stages are
// routed to their compose method and their text captured; every other stage
// goes through Analyze.
func (e *Executor) runStage(ctx context.Context, agent contracts.IReviewAgent, agentContext *models.AgentContext, notification, solution *string) (signal models.Signal, result *models.WarningMessage, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("pipeline stage %s panicked: %v", agent.Name(), r)
			signal, result, err = models.Continue, nil, nil
		}
	}()

	switch composer := agent.(type) {
	case contracts.INotificationComposer:
		signal, text, composeErr := composer.ComposeNotification(ctx, agentContext)
		if composeErr == nil && signal == models.Continue {
			*notification = text
		}
		return signal, nil, composeErr
	case contracts.ISolutionComposer:
		signal, text, composeErr := composer.ComposeSolution(ctx, agentContext)
		if composeErr == nil && signal == models.Continue {
			*solution = text
		}
		return signal, nil, composeErr
	default:
		return agent.Analyze(ctx, agentContext)
	}
}
