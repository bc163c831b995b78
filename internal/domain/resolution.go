package domain

import (
	"errors"
	"time"
)

var (
	ErrApplicationNotFound = errors.New("application not found")
	ErrFieldNotFound       = errors.New("field not found")
	ErrKnowledgeNotFound   = errors.New("knowledge bundle not found")
	ErrGenerationFailed    = errors.New("generation failed")
	ErrEmptyGeneration     = errors.New("generation returned no usable content")
)

// Source attributes a resolved value to where it came from.
type Source string

const (
	SourceProfile   Source = "profile"
	SourceDocument  Source = "document"
	SourcePrevious  Source = "previous"
	SourceGenerated Source = "generated"
	SourceManual    Source = "manual"
)

// Severity of a validation issue.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is one validation finding.
type Issue struct {
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

// ValidationResult scores a single value. IsValid is false whenever an
// error-severity issue exists.
type ValidationResult struct {
	IsValid      bool     `json:"is_valid"`
	Score        int      `json:"score"`
	Improvements []string `json:"improvements,omitempty"`
	Issues       []Issue  `json:"issues,omitempty"`
}

// HasErrors reports whether any issue is an error.
func (v ValidationResult) HasErrors() bool {
	for _, issue := range v.Issues {
		if issue.Severity == SeverityError {
			return true
		}
	}
	return false
}

// ErrorCount counts error-severity issues.
func (v ValidationResult) ErrorCount() int {
	n := 0
	for _, issue := range v.Issues {
		if issue.Severity == SeverityError {
			n++
		}
	}
	return n
}

// ResolvedValue is the engine's output for one field.
type ResolvedValue struct {
	FieldID        string           `json:"field_id"`
	Value          string           `json:"value"`
	Confidence     float64          `json:"confidence"`
	Source         Source           `json:"source,omitempty"`
	Validation     ValidationResult `json:"validation"`
	Alternatives   []string         `json:"alternatives,omitempty"`
	NeedsUserInput bool             `json:"needs_user_input,omitempty"`
	UserPrompt     string           `json:"user_prompt,omitempty"`
	ResolvedAt     time.Time        `json:"resolved_at"`
}

// IsComplete reports whether the value counts toward completion.
func (r ResolvedValue) IsComplete() bool {
	return r.Value != "" && !r.NeedsUserInput
}

// ReadinessLevel summarizes whether an application is submission-quality.
type ReadinessLevel string

const (
	ReadinessReady     ReadinessLevel = "ready"
	ReadinessNeedsWork ReadinessLevel = "needs_work"
	ReadinessNotReady  ReadinessLevel = "not_ready"
)

// ApplicationSnapshot is the application-level aggregate. It is always a
// full recompute from current field state.
type ApplicationSnapshot struct {
	TotalFields          int            `json:"total_fields"`
	CompletedFields      int            `json:"completed_fields"`
	CompletionPercentage int            `json:"completion_percentage"`
	OverallConfidence    int            `json:"overall_confidence"`
	MissingRequirements  []string       `json:"missing_requirements"`
	CriticalIssues       int            `json:"critical_issues"`
	ReadinessLevel       ReadinessLevel `json:"readiness_level"`
}

// ApplicationState is the persisted working state of one application.
type ApplicationState struct {
	ID     string                   `json:"id"`
	Grant  Grant                    `json:"grant"`
	User   UserContext              `json:"user"`
	Fields []Field                  `json:"fields"`
	Values map[string]ResolvedValue `json:"values"`
	// SettingsHash fingerprints the resolution settings of the last full pass.
	SettingsHash string    `json:"settings_hash,omitempty"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Field looks up a field by ID.
func (s *ApplicationState) Field(id string) (Field, bool) {
	for _, f := range s.Fields {
		if f.ID == id {
			return f, true
		}
	}
	return Field{}, false
}
