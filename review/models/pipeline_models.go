package models

// Signal is the control value a stage returns to the executor.
type Signal int

const (
	// Continue hands the (possibly updated) warning to the next stage.
	Continue Signal = iota
	// Cancel stops the pipeline immediately; the run produces no output.
	Cancel
)

func (s Signal) String() string {
	if s == Cancel {
		return "cancel"
	}
	return "continue"
}

// Severity levels, ordered from least to most urgent.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

var severityOrder = []Severity{SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical}

// ParseSeverity maps free-form input to a Severity, defaulting to medium.
func ParseSeverity(value string) Severity {
	for _, s := range severityOrder {
		if string(s) == value {
			return s
		}
	}
	return SeverityMedium
}

func severityIndex(s Severity) int {
	for i, candidate := range severityOrder {
		if candidate == s {
			return i
		}
	}
	return 1 // medium
}

// Contribution is one stage's entry in the warning's audit trail.
type Contribution struct {
	Agent            string
	Reasoning        string
	ConfidenceImpact float64
}

// WarningMessage is the finding accumulated across pipeline stages. It only
// exposes append and bounded-adjust operations: descriptions, suggestions,
// affected files and contributions can grow but never shrink, the title is
// set exactly once, severity moves one level at a time and confidence stays
// clamped to [0,1].
type WarningMessage struct {
	title         string
	severity      Severity
	severitySet   bool
	description   []string
	suggestions   []string
	affectedFiles []string
	confidence    float64
	contributions []Contribution
}

// NewWarningMessage returns an empty warning with medium severity.
func NewWarningMessage() *WarningMessage {
	return &WarningMessage{severity: SeverityMedium}
}

// SetTitle records the title; the first non-empty write wins and later
// calls are ignored.
func (w *WarningMessage) SetTitle(title string) {
	if w.title == "" && title != "" {
		w.title = title
	}
}

func (w *WarningMessage) Title() string { return w.title }

// HasFinding reports whether any stage has populated the warning.
func (w *WarningMessage) HasFinding() bool { return w.title != "" }

// SetSeverity records the severity; the first write wins, so only the stage
// that opens the finding picks the starting level. Later stages move it one
// step at a time with Escalate/Deescalate.
func (w *WarningMessage) SetSeverity(s Severity) {
	if !w.severitySet {
		w.severity = s
		w.severitySet = true
	}
}

func (w *WarningMessage) Severity() Severity { return w.severity }

// Escalate raises the severity by one level, capped at critical.
func (w *WarningMessage) Escalate() {
	if i := severityIndex(w.severity); i < len(severityOrder)-1 {
		w.severity = severityOrder[i+1]
	}
}

// Deescalate lowers the severity by one level, floored at low.
func (w *WarningMessage) Deescalate() {
	if i := severityIndex(w.severity); i > 0 {
		w.severity = severityOrder[i-1]
	}
}

func (w *WarningMessage) AppendDescription(text string) {
	if text != "" {
		w.description = append(w.description, text)
	}
}

func (w *WarningMessage) AppendSuggestion(text string) {
	if text != "" {
		w.suggestions = append(w.suggestions, text)
	}
}

// AddAffectedFile appends a path unless it is already present.
func (w *WarningMessage) AddAffectedFile(path string) {
	if path == "" {
		return
	}
	for _, existing := range w.affectedFiles {
		if existing == path {
			return
		}
	}
	w.affectedFiles = append(w.affectedFiles, path)
}

// AdjustConfidence adds delta to the confidence, clamping to [0,1].
func (w *WarningMessage) AdjustConfidence(delta float64) {
	w.confidence += delta
	if w.confidence < 0 {
		w.confidence = 0
	}
	if w.confidence > 1 {
		w.confidence = 1
	}
}

func (w *WarningMessage) Confidence() float64 { return w.confidence }

// AddContribution appends to the audit trail; entries are never pruned.
func (w *WarningMessage) AddContribution(c Contribution) {
	w.contributions = append(w.contributions, c)
}

func (w *WarningMessage) Description() []string {
	return append([]string(nil), w.description...)
}

func (w *WarningMessage) Suggestions() []string {
	return append([]string(nil), w.suggestions...)
}

func (w *WarningMessage) AffectedFiles() []string {
	return append([]string(nil), w.affectedFiles...)
}

func (w *WarningMessage) Contributions() []Contribution {
	return append([]Contribution(nil), w.contributions...)
}

// AgentContext is the per-run working context threaded through the stages.
type AgentContext struct {
	OldVersion string
	NewVersion string
	FilePath   string
	ProjectID  int64
	Warning    *WarningMessage
}

// PipelineOutput is the terminal artifact of a completed run. It carries the
// originating versions so a follow-up chat can reconstruct the full context.
type PipelineOutput struct {
	ID           string
	Notification string
	Warning      *WarningMessage
	Solution     string
	OldVersion   string
	NewVersion   string
	FilePath     string
	ProjectID    int64
}
