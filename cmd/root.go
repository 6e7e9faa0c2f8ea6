package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/duckyhq/ducky/config"
	"github.com/duckyhq/ducky/constants/lipgloss"
	"github.com/duckyhq/ducky/providers"
	contracts_provider "github.com/duckyhq/ducky/providers/contracts"
	"github.com/duckyhq/ducky/review"
	"github.com/duckyhq/ducky/snapshot"
	snapshot_contracts "github.com/duckyhq/ducky/snapshot/contracts"
	"github.com/duckyhq/ducky/token_management"
	token_contracts "github.com/duckyhq/ducky/token_management/contracts"
	"github.com/duckyhq/ducky/utils"
	"github.com/duckyhq/ducky/watcher"
	watcher_contracts "github.com/duckyhq/ducky/watcher/contracts"
)

// RootDependencies holds the wired collaborators shared by every subcommand.
type RootDependencies struct {
	Config              *config.Config
	Cwd                 string
	Store               snapshot_contracts.ISnapshotStore
	Scanner             watcher_contracts.IChangeScanner
	ChatState           *review.ChatState
	CurrentChatProvider contracts_provider.IChatAIProvider
	TokenManagement     token_contracts.ITokenManagement
}

// rootCmd: ducky
var rootCmd = &cobra.Command{
	Use:   "ducky",
	Short: "Watch a project directory and review changes as they happen.",
	Long: `Ducky monitors a project directory, detects file changes against a
persistent snapshot, and runs each change through a staged review pipeline.
Findings arrive as terminal notifications with an optional suggested fix, and
each finding can be discussed interactively.`,
	Run: func(cmd *cobra.Command, args []string) {
		if versionFlag, _ := cmd.Flags().GetBool("version"); versionFlag {
			deps := handleRootCommand(cmd)
			if deps != nil {
				fmt.Println(deps.Config.Version)
			}
			return
		}
		_ = cmd.Help()
	},
}

// handleRootCommand loads configuration and wires the shared dependencies.
func handleRootCommand(cmd *cobra.Command) *RootDependencies {
	cwd, err := os.Getwd()
	if err != nil {
		fmt.Println(lipgloss.Red.Render("Error getting current directory"))
		return nil
	}

	cfg := config.LoadConfigs(cmd.Root(), cwd)

	store, err := snapshot.NewStore(cfg.SnapshotDir)
	if err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Error opening snapshot store: %v", err)))
		return nil
	}

	tokenManagement := token_management.NewTokenManager()

	provider, err := providers.ChatProviderFactory(cfg.AIProviderConfig, tokenManagement)
	if err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Error building chat provider: %v", err)))
		return nil
	}

	return &RootDependencies{
		Config:              cfg,
		Cwd:                 cwd,
		Store:               store,
		Scanner:             watcher.NewChangeScanner(store),
		ChatState:           review.NewChatState(),
		CurrentChatProvider: provider,
		TokenManagement:     tokenManagement,
	}
}

// resolveProject registers (or looks up) the project for the given path.
func resolveProject(deps *RootDependencies, path string) (int64, string, error) {
	normalized := utils.NormalizePath(path)

	if project, ok := deps.Store.GetProjectByPath(normalized); ok {
		return project.ID, normalized, nil
	}

	project, err := deps.Store.RegisterProject(normalized, filepath.Base(normalized), "terminal")
	if err != nil {
		return 0, "", err
	}
	return project.ID, normalized, nil
}

// Execute adds all child commands to the root command and executes it.
func Execute() {
	config.InitFlags(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
		os.Exit(1)
	}
}
