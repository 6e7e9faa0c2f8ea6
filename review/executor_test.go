package review

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duckyhq/ducky/review/contracts"
	"github.com/duckyhq/ducky/review/models"
	watcher_models "github.com/duckyhq/ducky/watcher/models"
)

// stubAgent is a configurable pipeline stage for executor tests.
type stubAgent struct {
	name    string
	skip    bool
	analyze func(agentContext *models.AgentContext) (models.Signal, *models.WarningMessage, error)
	called  bool
}

func (s *stubAgent) Name() string { return s.name }

func (s *stubAgent) ShouldProcess(agentContext *models.AgentContext) bool { return !s.skip }

func (s *stubAgent) Analyze(ctx context.Context, agentContext *models.AgentContext) (models.Signal, *models.WarningMessage, error) {
	s.called = true
	if s.analyze != nil {
		return s.analyze(agentContext)
	}
	return models.Continue, agentContext.Warning, nil
}

// stubNotificationComposer is a terminal stage that emits fixed text.
type stubNotificationComposer struct {
	stubAgent
	text string
}

func (s *stubNotificationComposer) ComposeNotification(ctx context.Context, agentContext *models.AgentContext) (models.Signal, string, error) {
	s.called = true
	return models.Continue, s.text, nil
}

// cancellingComposer is a terminal stage that cancels instead of composing.
type cancellingComposer struct {
	stubAgent
}

func (s *cancellingComposer) ComposeNotification(ctx context.Context, agentContext *models.AgentContext) (models.Signal, string, error) {
	s.called = true
	return models.Cancel, "", nil
}

type stubSolutionComposer struct {
	stubAgent
	text string
}

func (s *stubSolutionComposer) ComposeSolution(ctx context.Context, agentContext *models.AgentContext) (models.Signal, string, error) {
	s.called = true
	return models.Continue, s.text, nil
}

func testChange() watcher_models.FileChange {
	return watcher_models.FileChange{
		Filename:   "main.go",
		Path:       "/project/main.go",
		OldVersion: "package main\n",
		NewVersion: "package main\n\nfunc main() {}\n",
		LastEdit:   time.Now(),
		ProjectID:  7,
	}
}

func titleAgent(name, title string) *stubAgent {
	return &stubAgent{
		name: name,
		analyze: func(agentContext *models.AgentContext) (models.Signal, *models.WarningMessage, error) {
			agentContext.Warning.SetTitle(title)
			return models.Continue, agentContext.Warning, nil
		},
	}
}

func TestExecutor_RejectsEmptyBatch(t *testing.T) {
	executor := NewExecutor(nil)
	_, err := executor.Execute(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoChanges)
}

func TestExecutor_RejectsContentlessChange(t *testing.T) {
	executor := NewExecutor(nil)

	_, err := executor.Execute(context.Background(), []watcher_models.FileChange{{Path: "/p/a.go"}})
	assert.ErrorIs(t, err, ErrEmptyChange)

	_, err = executor.Execute(context.Background(), []watcher_models.FileChange{{Path: "/p/b.go", IsNewFile: true}})
	assert.ErrorIs(t, err, ErrEmptyChange)
}

func TestExecutor_OnlyFirstChangeAnalyzed(t *testing.T) {
	var seenPath string
	agent := &stubAgent{
		name: "probe",
		analyze: func(agentContext *models.AgentContext) (models.Signal, *models.WarningMessage, error) {
			seenPath = agentContext.FilePath
			return models.Cancel, nil, nil
		},
	}
	executor := NewExecutor([]contracts.IReviewAgent{agent})

	first := testChange()
	second := testChange()
	second.Path = "/project/other.go"

	output, err := executor.Execute(context.Background(), []watcher_models.FileChange{first, second})
	require.NoError(t, err)
	assert.Nil(t, output)
	assert.Equal(t, first.Path, seenPath)
}

func TestExecutor_CancelStopsPipeline(t *testing.T) {
	canceller := &stubAgent{
		name: "canceller",
		analyze: func(agentContext *models.AgentContext) (models.Signal, *models.WarningMessage, error) {
			return models.Cancel, nil, nil
		},
	}
	downstream := titleAgent("downstream", "should never run")
	executor := NewExecutor([]contracts.IReviewAgent{canceller, downstream})

	output, err := executor.Execute(context.Background(), []watcher_models.FileChange{testChange()})
	require.NoError(t, err)
	assert.Nil(t, output)
	assert.False(t, downstream.called)
}

func TestExecutor_ShouldProcessSkipsStage(t *testing.T) {
	skipped := &stubAgent{name: "skipped", skip: true}
	executor := NewExecutor([]contracts.IReviewAgent{skipped, titleAgent("finder", "Found something")})

	output, err := executor.Execute(context.Background(), []watcher_models.FileChange{testChange()})
	require.NoError(t, err)
	require.NotNil(t, output)
	assert.False(t, skipped.called)
	assert.Equal(t, "Found something", output.Warning.Title())
}

func TestExecutor_StageErrorIsolated(t *testing.T) {
	failing := &stubAgent{
		name: "failing",
		analyze: func(agentContext *models.AgentContext) (models.Signal, *models.WarningMessage, error) {
			return models.Continue, nil, errors.New("boom")
		},
	}
	executor := NewExecutor([]contracts.IReviewAgent{failing, titleAgent("finder", "Survived")})

	output, err := executor.Execute(context.Background(), []watcher_models.FileChange{testChange()})
	require.NoError(t, err)
	require.NotNil(t, output)
	assert.Equal(t, "Survived", output.Warning.Title())
}

func TestExecutor_StagePanicIsolated(t *testing.T) {
	panicking := &stubAgent{
		name: "panicking",
		analyze: func(agentContext *models.AgentContext) (models.Signal, *models.WarningMessage, error) {
			panic("stage exploded")
		},
	}
	executor := NewExecutor([]contracts.IReviewAgent{panicking, titleAgent("finder", "Survived panic")})

	output, err := executor.Execute(context.Background(), []watcher_models.FileChange{testChange()})
	require.NoError(t, err)
	require.NotNil(t, output)
	assert.Equal(t, "Survived panic", output.Warning.Title())
}

func TestExecutor_NoFindingYieldsNilOutput(t *testing.T) {
	passive := &stubAgent{name: "passive"}
	executor := NewExecutor([]contracts.IReviewAgent{passive})

	output, err := executor.Execute(context.Background(), []watcher_models.FileChange{testChange()})
	require.NoError(t, err)
	assert.Nil(t, output)
	assert.True(t, passive.called)
}

func TestExecutor_ComposerCancelStopsRun(t *testing.T) {
	canceller := &cancellingComposer{stubAgent: stubAgent{name: "writer"}}
	solver := &stubSolutionComposer{stubAgent: stubAgent{name: "fixer"}, text: "never emitted"}
	executor := NewExecutor([]contracts.IReviewAgent{
		titleAgent("finder", "Bug found"),
		canceller,
		solver,
	})

	output, err := executor.Execute(context.Background(), []watcher_models.FileChange{testChange()})
	require.NoError(t, err)
	assert.Nil(t, output)
	assert.True(t, canceller.called)
	assert.False(t, solver.called)
}

func TestExecutor_ComposersCaptured(t *testing.T) {
	notifier := &stubNotificationComposer{stubAgent: stubAgent{name: "writer"}, text: "heads up"}
	solver := &stubSolutionComposer{stubAgent: stubAgent{name: "fixer"}, text: "patch it"}
	executor := NewExecutor([]contracts.IReviewAgent{
		titleAgent("finder", "Bug found"),
		notifier,
		solver,
	})

	change := testChange()
	output, err := executor.Execute(context.Background(), []watcher_models.FileChange{change})
	require.NoError(t, err)
	require.NotNil(t, output)

	assert.NotEmpty(t, output.ID)
	assert.Equal(t, "heads up", output.Notification)
	assert.Equal(t, "patch it", output.Solution)
	assert.Equal(t, "Bug found", output.Warning.Title())
	assert.Equal(t, change.OldVersion, output.OldVersion)
	assert.Equal(t, change.NewVersion, output.NewVersion)
	assert.Equal(t, change.Path, output.FilePath)
	assert.Equal(t, change.ProjectID, output.ProjectID)
}
