package notify

import (
	"fmt"
	"os"
	"strings"

	"github.com/pterm/pterm"

	"github.com/duckyhq/ducky/constants/lipgloss"
	"github.com/duckyhq/ducky/review/models"
	"github.com/duckyhq/ducky/utils"
)

// TerminalNotifier renders completed pipeline runs to the terminal: a boxed
// notification line, the warning details and, when present, the highlighted
// solution.
type TerminalNotifier struct {
	Theme string
}

func NewTerminalNotifier(theme string) *TerminalNotifier {
	return &TerminalNotifier{Theme: theme}
}

func (n *TerminalNotifier) Notify(output *models.PipelineOutput) {
	fmt.Println()

	notification := output.Notification
	if notification == "" {
		notification = output.Warning.Title()
	}
	fmt.Println(lipgloss.BoxStyle.Render(notification))

	severity := string(output.Warning.Severity())
	style, ok := lipgloss.SeverityStyles[severity]
	if !ok {
		style = lipgloss.Yellow
	}
	fmt.Printf("%s %s (confidence %.2f)\n",
		style.Render(strings.ToUpper(severity)), output.Warning.Title(), output.Warning.Confidence())

	for _, description := range output.Warning.Description() {
		pterm.Info.Println(description)
	}
	for _, suggestion := range output.Warning.Suggestions() {
		pterm.Println(lipgloss.Green.Render("suggestion: ") + suggestion)
	}
	if files := output.Warning.AffectedFiles(); len(files) > 0 {
		pterm.Println(lipgloss.Gray.Render("affected: " + strings.Join(files, ", ")))
	}

	if output.Solution != "" {
		fmt.Println(lipgloss.Info.Render("Suggested fix:"))
		language := utils.GetSupportedLanguage(output.FilePath)
		utils.RenderHighlightedCode(os.Stdout, output.Solution, language, n.Theme)
	}

	fmt.Println(lipgloss.Gray.Render("notification id: " + output.ID))
}
