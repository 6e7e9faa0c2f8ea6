package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/duckyhq/ducky/chat"
	"github.com/duckyhq/ducky/constants/lipgloss"
	"github.com/duckyhq/ducky/notify"
	"github.com/duckyhq/ducky/review"
	"github.com/duckyhq/ducky/review/agents"
	"github.com/duckyhq/ducky/review/models"
	snapshot_models "github.com/duckyhq/ducky/snapshot/models"
	"github.com/duckyhq/ducky/utils"
	"github.com/duckyhq/ducky/watcher"
)

// watchCmd: ducky watch [path]
var watchCmd = &cobra.Command{
	Use:   "watch [path]",
	Short: "Watch a project directory and review changes as they happen.",
	Long: `The 'watch' subcommand starts the monitoring loop for a project
directory. Detected changes are persisted to the snapshot store and run
through the review pipeline; findings are shown as terminal notifications
that can be discussed or dismissed.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		rootDependencies := handleRootCommand(cmd)
		if rootDependencies == nil {
			return
		}

		path := rootDependencies.Cwd
		if len(args) > 0 {
			path = args[0]
		}
		handleWatchCommand(rootDependencies, path)
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

// watchNotifier renders each finding to the terminal and queues it for the
// interactive loop. The queue is bounded; when the user is behind, older
// findings stay visible in the scrollback but are not queued for discussion.
type watchNotifier struct {
	terminal *notify.TerminalNotifier
	outputs  chan *models.PipelineOutput
}

func (n *watchNotifier) Notify(output *models.PipelineOutput) {
	n.terminal.Notify(output)
	select {
	case n.outputs <- output:
	default:
	}
}

func handleWatchCommand(rootDependencies *RootDependencies, path string) {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	go utils.GracefulShutdown(ctx, cancel, func() {
		rootDependencies.TokenManagement.ClearToken()
	})

	projectID, rootPath, err := resolveProject(rootDependencies, path)
	if err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Error registering project: %v", err)))
		return
	}

	notifier := &watchNotifier{
		terminal: notify.NewTerminalNotifier(rootDependencies.Config.Theme),
		outputs:  make(chan *models.PipelineOutput, 4),
	}

	executor := review.NewExecutor(agents.CreatePipelineAgents(rootDependencies.CurrentChatProvider, rootDependencies.Store))
	coordinator := review.NewCoordinator(
		rootDependencies.Config.MaxConcurrentPipelines,
		rootDependencies.ChatState,
		executor,
		notifier,
	)

	monitor := watcher.NewMonitor(
		rootDependencies.Scanner,
		rootDependencies.Store,
		coordinator,
		time.Duration(rootDependencies.Config.ScanIntervalSeconds)*time.Second,
	)

	go func() {
		if err := monitor.Start(ctx, rootPath, projectID); err != nil {
			fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
			cancel()
		}
	}()

	fmt.Println(lipgloss.BoxStyle.Render(fmt.Sprintf("Watching %s (every %ds)", rootPath, rootDependencies.Config.ScanIntervalSeconds)))

	reader := bufio.NewReader(os.Stdin)
	chatService := chat.NewService(rootDependencies.CurrentChatProvider, rootDependencies.ChatState, os.Stdin)

	for {
		select {
		case <-ctx.Done():
			if !coordinator.WaitForCompletion(10 * time.Second) {
				fmt.Println(lipgloss.Yellow.Render("Shutting down with pipelines still running."))
			}
			fmt.Println(lipgloss.Yellow.Render("\n🔄 Exiting..."))
			return

		case output := <-notifier.outputs:
			handleFinding(ctx, rootDependencies, chatService, reader, output)
		}
	}
}

// handleFinding runs the per-notification interaction: discuss, dismiss, or
// move on.
func handleFinding(ctx context.Context, rootDependencies *RootDependencies, chatService *chat.Service, reader *bufio.Reader, output *models.PipelineOutput) {
	fmt.Println(lipgloss.Gray.Render("[d]iscuss, [x] dismiss, or Enter to continue"))

	answer, err := utils.InputPromptWithContext(ctx, reader)
	if err != nil {
		return
	}

	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "d", "discuss":
		if err := chatService.Discuss(ctx, output); err != nil {
			fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
		}
		rootDependencies.TokenManagement.DisplayTokens(
			rootDependencies.Config.AIProviderConfig.Provider,
			rootDependencies.Config.AIProviderConfig.Model,
		)
	case "x", "dismiss":
		dismissal := snapshot_models.Dismissal{
			ProjectID:  output.ProjectID,
			Warning:    output.Warning.Title(),
			Suggestion: strings.Join(output.Warning.Suggestions(), "\n"),
		}
		if err := rootDependencies.Store.AddDismissal(dismissal); err != nil {
			fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Error recording dismissal: %v", err)))
			return
		}
		fmt.Println(lipgloss.Green.Render("✓ Dismissed; similar findings will be held back."))
	}
}
