package agents

import (
	contracts_provider "github.com/duckyhq/ducky/providers/contracts"
	"github.com/duckyhq/ducky/review/contracts"
	snapshot_contracts "github.com/duckyhq/ducky/snapshot/contracts"
)

// CreatePipelineAgents assembles the review stages in their fixed order.
// The two composers come last; the executor captures their text output
// instead of a warning.
func CreatePipelineAgents(provider contracts_provider.IChatAIProvider, store snapshot_contracts.ISnapshotStore) []contracts.IReviewAgent {
	return []contracts.IReviewAgent{
		NewInitialAssessment(provider),
		NewNotificationAssessment(provider, store),
		NewContextAwareness(provider, store),
		NewSyntaxValidation(),
		NewNotificationWriter(provider),
		NewCodeWriter(provider),
	}
}
