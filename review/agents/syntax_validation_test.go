package agents

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duckyhq/ducky/review/models"
)

func TestSyntaxValidation_ShouldProcess(t *testing.T) {
	agent := NewSyntaxValidation()

	agentContext := newAgentContext()
	assert.True(t, agent.ShouldProcess(agentContext))

	agentContext.FilePath = "/project/readme.md"
	assert.False(t, agent.ShouldProcess(agentContext), "unsupported language")

	agentContext.FilePath = "/project/main.go"
	agentContext.NewVersion = ""
	assert.False(t, agent.ShouldProcess(agentContext), "deletions have nothing to parse")
}

func TestSyntaxValidation_ValidSourcePassesThrough(t *testing.T) {
	agent := NewSyntaxValidation()

	agentContext := newAgentContext()
	signal, warning, err := agent.Analyze(context.Background(), agentContext)
	require.NoError(t, err)
	assert.Equal(t, models.Continue, signal)
	assert.False(t, warning.HasFinding())
}

func TestSyntaxValidation_BrokenSourceSeedsWarning(t *testing.T) {
	agent := NewSyntaxValidation()

	agentContext := newAgentContext()
	agentContext.NewVersion = "package main\n\nfunc main() {\n\tif x := 1 {\n"

	signal, warning, err := agent.Analyze(context.Background(), agentContext)
	require.NoError(t, err)
	assert.Equal(t, models.Continue, signal)
	require.NotNil(t, warning)

	assert.Equal(t, "Syntax errors in main.go", warning.Title())
	assert.Equal(t, models.SeverityHigh, warning.Severity())
	assert.NotEmpty(t, warning.Description())
	assert.Contains(t, warning.AffectedFiles(), "/project/main.go")
}

func TestSyntaxValidation_EscalatesExistingFinding(t *testing.T) {
	agent := NewSyntaxValidation()

	agentContext := newAgentContext()
	agentContext.Warning.SetTitle("Earlier finding")
	agentContext.Warning.SetSeverity(models.SeverityMedium)
	agentContext.NewVersion = "def broken(:\n    pass\n"
	agentContext.FilePath = "/project/script.py"

	signal, warning, err := agent.Analyze(context.Background(), agentContext)
	require.NoError(t, err)
	assert.Equal(t, models.Continue, signal)

	// Title stays with the first finding; severity moves one step up.
	assert.Equal(t, "Earlier finding", warning.Title())
	assert.Equal(t, models.SeverityHigh, warning.Severity())
}
