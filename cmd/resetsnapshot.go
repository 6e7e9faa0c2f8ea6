package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/duckyhq/ducky/constants/lipgloss"
)

// resetSnapshotCmd: ducky reset-snapshot
var resetSnapshotCmd = &cobra.Command{
	Use:   "reset-snapshot",
	Short: "Reset the snapshot store for all projects.",
	Long: `The 'reset-snapshot' command removes all persisted snapshot state:
the project registry, every project's file records, and the dismissal
history. The next watch session starts from a clean baseline.`,
	Run: func(cmd *cobra.Command, args []string) {
		force, _ := cmd.Flags().GetBool("force")
		handleResetSnapshotCommand(force, cmd)
	},
}

func init() {
	resetSnapshotCmd.Flags().BoolP("force", "f", false, "Reset without confirmation")
	rootCmd.AddCommand(resetSnapshotCmd)
}

func handleResetSnapshotCommand(force bool, cmd *cobra.Command) {
	rootDependencies := handleRootCommand(cmd)
	if rootDependencies == nil {
		return
	}

	if !force {
		reader := bufio.NewReader(os.Stdin)
		fmt.Print("Are you sure you want to reset the entire snapshot store? (y/N): ")
		response, _ := reader.ReadString('\n')
		response = strings.TrimSpace(strings.ToLower(response))
		if response != "y" && response != "yes" {
			fmt.Println(lipgloss.Yellow.Render("Snapshot reset cancelled."))
			return
		}
	}

	if err := rootDependencies.Store.Reset(); err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Error resetting snapshot store: %v", err)))
		return
	}

	fmt.Println(lipgloss.Green.Render("✓ Snapshot store has been successfully reset!"))
}
