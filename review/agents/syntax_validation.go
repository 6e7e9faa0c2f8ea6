package agents

import (
	"context"
	"fmt"
	"path"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/csharp"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/java"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/duckyhq/ducky/review/contracts"
	"github.com/duckyhq/ducky/review/models"
	"github.com/duckyhq/ducky/utils"
)

// maxReportedSyntaxErrors bounds how many parse errors one file contributes.
const maxReportedSyntaxErrors = 5

// SyntaxValidation parses the new version with tree-sitter and enhances the
// warning with any syntax errors. Runs entirely locally, no provider call.
type SyntaxValidation struct{}

func NewSyntaxValidation() contracts.IReviewAgent {
	return &SyntaxValidation{}
}

func (a *SyntaxValidation) Name() string { return "SyntaxValidation" }

func (a *SyntaxValidation) ShouldProcess(agentContext *models.AgentContext) bool {
	return agentContext.NewVersion != "" && languageFor(agentContext.FilePath) != nil
}

func languageFor(filePath string) *sitter.Language {
	switch utils.GetSupportedLanguage(filePath) {
	case "csharp":
		return csharp.GetLanguage()
	case "go":
		return golang.GetLanguage()
	case "python":
		return python.GetLanguage()
	case "java":
		return java.GetLanguage()
	case "javascript":
		return javascript.GetLanguage()
	case "typescript":
		return typescript.GetLanguage()
	default:
		return nil
	}
}

func (a *SyntaxValidation) Analyze(ctx context.Context, agentContext *models.AgentContext) (models.Signal, *models.WarningMessage, error) {
	lang := languageFor(agentContext.FilePath)
	source := []byte(agentContext.NewVersion)

	parser := sitter.NewParser()
	parser.SetLanguage(lang)
	tree := parser.Parse(nil, source)
	defer tree.Close()

	errors := collectSyntaxErrors(tree.RootNode(), source)
	if len(errors) == 0 {
		return models.Continue, agentContext.Warning, nil
	}

	warning := agentContext.Warning
	filename := path.Base(agentContext.FilePath)

	if !warning.HasFinding() {
		warning.SetTitle(fmt.Sprintf("Syntax errors in %s", filename))
		warning.SetSeverity(models.SeverityHigh)
	} else {
		// A finding that also fails to parse is more urgent than assessed.
		warning.Escalate()
	}

	for _, description := range errors {
		warning.AppendDescription(description)
	}
	warning.AppendSuggestion(fmt.Sprintf("Fix the syntax errors in %s before anything else; the file does not parse.", filename))
	warning.AddAffectedFile(agentContext.FilePath)
	warning.AdjustConfidence(0.2)
	warning.AddContribution(models.Contribution{
		Agent:            a.Name(),
		Reasoning:        fmt.Sprintf("tree-sitter found %d parse error(s)", len(errors)),
		ConfidenceImpact: 0.2,
	})

	return models.Continue, warning, nil
}

// collectSyntaxErrors walks the parse tree gathering ERROR and missing
// nodes, capped at maxReportedSyntaxErrors.
func collectSyntaxErrors(node *sitter.Node, source []byte) []string {
	var errors []string
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if len(errors) >= maxReportedSyntaxErrors {
			return
		}
		if n.Type() == "ERROR" {
			snippet := n.Content(source)
			if len(snippet) > 80 {
				snippet = snippet[:80] + "..."
			}
			errors = append(errors, fmt.Sprintf("Parse error at line %d: %q", n.StartPoint().Row+1, snippet))
		} else if n.IsMissing() {
			errors = append(errors, fmt.Sprintf("Missing %s at line %d", n.Type(), n.StartPoint().Row+1))
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(node)
	return errors
}
