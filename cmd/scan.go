package cmd

import (
	"fmt"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/duckyhq/ducky/constants/lipgloss"
)

// scanCmd: ducky scan [path]
var scanCmd = &cobra.Command{
	Use:   "scan [path]",
	Short: "Run a single scan and show the detected changes.",
	Long: `The 'scan' subcommand diffs the project directory against the
snapshot store once and prints the detected changes. With --apply the
changes are also written to the snapshot, making them the baseline for the
next scan or watch session.`,
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

		apply, _ := cmd.Flags().GetBool("apply")
		handleScanCommand(rootDependencies, path, apply)
	},
}

func init() {
	scanCmd.Flags().Bool("apply", false, "Persist the detected changes to the snapshot store")
	rootCmd.AddCommand(scanCmd)
}

func handleScanCommand(rootDependencies *RootDependencies, path string, apply bool) {
	projectID, rootPath, err := resolveProject(rootDependencies, path)
	if err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Error registering project: %v", err)))
		return
	}

	// A zero baseline diffs the full tree against the snapshot, so a fresh
	// project reports everything as new.
	baseline := time.Time{}
	changes, err := rootDependencies.Scanner.Scan(rootPath, projectID, &baseline)
	if err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Scan failed: %v", err)))
		return
	}

	if len(changes) == 0 {
		fmt.Println(lipgloss.Green.Render("No changes since the last snapshot."))
		return
	}

	for _, change := range changes {
		switch {
		case change.IsDeletion():
			pterm.Println(lipgloss.Red.Render("deleted  ") + change.Path)
		case change.IsNewFile:
			pterm.Println(lipgloss.Green.Render("new      ") + change.Path)
		default:
			pterm.Println(lipgloss.Yellow.Render("modified ") + change.Path)
		}
	}
	fmt.Printf("%d change(s) detected.\n", len(changes))

	if apply {
		if err := rootDependencies.Store.ApplyChanges(changes); err != nil {
			fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Error persisting changes: %v", err)))
			return
		}
		fmt.Println(lipgloss.Green.Render("✓ Snapshot updated."))
	}
}
