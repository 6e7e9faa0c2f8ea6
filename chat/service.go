package chat

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/pterm/pterm"

	"github.com/duckyhq/ducky/constants/lipgloss"
	"github.com/duckyhq/ducky/embed_data"
	contracts_provider "github.com/duckyhq/ducky/providers/contracts"
	"github.com/duckyhq/ducky/review/models"
	"github.com/duckyhq/ducky/utils"
)

// IChatSession marks a discussion as active for its duration so the
// coordinator holds back new pipeline runs.
type IChatSession interface {
	SetActive(notificationID string)
	SetInactive()
}

// Service runs an interactive discussion about one pipeline output. History
// is kept in-memory for the session only.
type Service struct {
	provider contracts_provider.IChatAIProvider
	state    IChatSession
	reader   *bufio.Reader
}

func NewService(provider contracts_provider.IChatAIProvider, state IChatSession, input io.Reader) *Service {
	return &Service{
		provider: provider,
		state:    state,
		reader:   bufio.NewReader(input),
	}
}

// Discuss loops over user questions about the finding until the user types
// :q, sends EOF or the context is cancelled.
func (s *Service) Discuss(ctx context.Context, output *models.PipelineOutput) error {
	s.state.SetActive(output.ID)
	defer s.state.SetInactive()

	pterm.Println(lipgloss.Info.Render("Discussing: ") + output.Warning.Title())
	pterm.Println(lipgloss.Gray.Render("type your question, :q to finish"))

	var history strings.Builder
	fmt.Fprintf(&history, "Finding: %s\n", output.Warning.Title())
	for _, description := range output.Warning.Description() {
		fmt.Fprintf(&history, "Detail: %s\n", description)
	}
	fmt.Fprintf(&history, "File: %s\n\nOld Version:\n%s\n\nNew Version:\n%s\n",
		output.FilePath, output.OldVersion, output.NewVersion)
	if output.Solution != "" {
		fmt.Fprintf(&history, "\nSuggested fix:\n%s\n", output.Solution)
	}

	for {
		userInput, err := utils.InputPromptWithContext(ctx, s.reader)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
		if userInput == "" {
			continue
		}
		if userInput == ":q" || userInput == "exit" {
			return nil
		}

		fmt.Fprintf(&history, "\nUser: %s\n", userInput)

		answer, err := s.provider.ChatCompletionRequest(ctx, history.String(), string(embed_data.ChatPrompt))
		if err != nil {
			pterm.Println(lipgloss.Red.Render("chat request failed: " + err.Error()))
			continue
		}

		fmt.Fprintf(&history, "Assistant: %s\n", answer)
		pterm.Println(answer)
	}
}
