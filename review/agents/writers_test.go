package agents

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duckyhq/ducky/review/models"
)

func TestNotificationWriter_ComposesText(t *testing.T) {
	provider := &fakeProvider{response: `{"notification": "Unchecked error in main.go, worth a look."}`}
	agent := NewNotificationWriter(provider)

	signal, text, err := agent.ComposeNotification(context.Background(), findingContext())
	require.NoError(t, err)
	assert.Equal(t, models.Continue, signal)
	assert.Equal(t, "Unchecked error in main.go, worth a look.", text)
}

func TestNotificationWriter_FallbackOnProviderError(t *testing.T) {
	provider := &fakeProvider{err: errors.New("down")}
	agent := NewNotificationWriter(provider)

	signal, text, err := agent.ComposeNotification(context.Background(), findingContext())
	require.NoError(t, err)
	assert.Equal(t, models.Continue, signal)
	assert.Contains(t, text, "Unchecked error")
	assert.Contains(t, text, "main.go")
}

func TestNotificationWriter_FallbackOnEmptyResponse(t *testing.T) {
	provider := &fakeProvider{response: `{"notification": ""}`}
	agent := NewNotificationWriter(provider)

	_, text, err := agent.ComposeNotification(context.Background(), findingContext())
	require.NoError(t, err)
	assert.NotEmpty(t, text)
}

func TestCodeWriter_ShouldProcess(t *testing.T) {
	agent := NewCodeWriter(&fakeProvider{})

	assert.True(t, agent.ShouldProcess(findingContext()))
	assert.False(t, agent.ShouldProcess(newAgentContext()), "no finding")

	deleted := findingContext()
	deleted.NewVersion = ""
	assert.False(t, agent.ShouldProcess(deleted), "nothing to fix in a deletion")
}

func TestCodeWriter_ComposesSolution(t *testing.T) {
	provider := &fakeProvider{response: `{"solution": "if err != nil { return err }", "explanation": "Handle the error."}`}
	agent := NewCodeWriter(provider)

	signal, solution, err := agent.ComposeSolution(context.Background(), findingContext())
	require.NoError(t, err)
	assert.Equal(t, models.Continue, signal)
	assert.Contains(t, solution, "Handle the error.")
	assert.Contains(t, solution, "if err != nil { return err }")
}

func TestCodeWriter_EmptySolutionOnFailure(t *testing.T) {
	for _, provider := range []*fakeProvider{
		{err: errors.New("down")},
		{response: "no json here"},
	} {
		agent := NewCodeWriter(provider)
		signal, solution, err := agent.ComposeSolution(context.Background(), findingContext())
		require.NoError(t, err)
		assert.Equal(t, models.Continue, signal)
		assert.Empty(t, solution)
	}
}

func TestCreatePipelineAgents_OrderAndComposers(t *testing.T) {
	agents := CreatePipelineAgents(&fakeProvider{}, &stubStore{})
	require.Len(t, agents, 6)

	names := make([]string, 0, len(agents))
	for _, agent := range agents {
		names = append(names, agent.Name())
	}
	assert.Equal(t, []string{
		"InitialAssessment",
		"NotificationAssessment",
		"ContextAwareness",
		"SyntaxValidation",
		"NotificationWriter",
		"CodeWriter",
	}, names)
}
