package domain

// InputKind is the HTML-level input type of a form field.
type InputKind string

const (
	InputText     InputKind = "text"
	InputTextarea InputKind = "textarea"
	InputSelect   InputKind = "select"
	InputCheckbox InputKind = "checkbox"
	InputRadio    InputKind = "radio"
	InputDate     InputKind = "date"
	InputNumber   InputKind = "number"
	InputFile     InputKind = "file"
)

// IsFreeText reports whether the input accepts arbitrary text.
func (k InputKind) IsFreeText() bool {
	return k == InputText || k == InputTextarea || k == ""
}

// LengthUnit says how a field's MaxLength is counted.
type LengthUnit string

const (
	LengthChars LengthUnit = "chars"
	LengthWords LengthUnit = "words"
)

// FieldCategory is the semantic tag assigned to a field by the classifier.
type FieldCategory string

const (
	CategoryOrganizationIdentity FieldCategory = "organization_identity"
	CategoryTaxIdentifier        FieldCategory = "tax_identifier"
	CategoryContactInfo          FieldCategory = "contact_info"
	CategoryAddressLocation      FieldCategory = "address_location"
	CategoryMissionVision        FieldCategory = "mission_vision"
	CategoryBudgetSummary        FieldCategory = "budget_summary"
	CategoryProjectDates         FieldCategory = "project_dates"
	CategoryCertifications       FieldCategory = "certifications"

	CategoryProblemNeed         FieldCategory = "problem_need"
	CategorySolutionApproach    FieldCategory = "solution_approach"
	CategoryGoalsObjectives     FieldCategory = "goals_objectives"
	CategoryImpactOutcomes      FieldCategory = "impact_outcomes"
	CategoryEvaluationPlan      FieldCategory = "evaluation_plan"
	CategorySustainabilityPlan  FieldCategory = "sustainability_plan"
	CategoryBudgetJustification FieldCategory = "budget_justification"
	CategoryTeamQualifications  FieldCategory = "team_qualifications"
	CategoryOrganizationHistory FieldCategory = "organization_history"
	CategoryTechnicalInnovation FieldCategory = "technical_innovation"
	CategoryCommercialization   FieldCategory = "commercialization"
	CategoryProjectTimeline     FieldCategory = "project_timeline"

	CategoryOther FieldCategory = "other"
)

var narrativeCategories = map[FieldCategory]bool{
	CategoryProblemNeed:         true,
	CategorySolutionApproach:    true,
	CategoryGoalsObjectives:     true,
	CategoryImpactOutcomes:      true,
	CategoryEvaluationPlan:      true,
	CategorySustainabilityPlan:  true,
	CategoryBudgetJustification: true,
	CategoryTeamQualifications:  true,
	CategoryOrganizationHistory: true,
	CategoryTechnicalInnovation: true,
	CategoryCommercialization:   true,
	CategoryProjectTimeline:     true,
}

// IsNarrative reports whether answers in this category are authored prose.
func (c FieldCategory) IsNarrative() bool {
	return narrativeCategories[c]
}

// IsProse reports whether a text answer in this category may be drafted when
// no knowledge source has it. Fact categories must come from the user.
func (c FieldCategory) IsProse() bool {
	return c.IsNarrative() || c == CategoryMissionVision || c == CategoryOther || c == ""
}

// Field is a single application question.
type Field struct {
	ID              string        `json:"id" yaml:"id"`
	Label           string        `json:"label" yaml:"label"`
	Description     string        `json:"description,omitempty" yaml:"description,omitempty"`
	InputKind       InputKind     `json:"input_kind" yaml:"input_kind"`
	Required        bool          `json:"required" yaml:"required"`
	MaxLength       int           `json:"max_length,omitempty" yaml:"max_length,omitempty"`
	LengthUnit      LengthUnit    `json:"length_unit,omitempty" yaml:"length_unit,omitempty"`
	Options         []string      `json:"options,omitempty" yaml:"options,omitempty"`
	Category        FieldCategory `json:"category,omitempty" yaml:"category,omitempty"`
	NeedsGeneration bool          `json:"needs_generation" yaml:"needs_generation"`
}

// NeedsGeneration derives whether a field must be authored as prose.
// File uploads and short structured inputs never need generation.
func NeedsGeneration(kind InputKind, category FieldCategory) bool {
	switch kind {
	case InputFile, InputSelect, InputCheckbox, InputRadio, InputDate, InputNumber:
		return false
	}
	return category.IsNarrative()
}

// WordLimit returns the field's limit expressed in words, approximating
// character limits at five characters per word. Zero means unlimited.
func (f Field) WordLimit() int {
	if f.MaxLength <= 0 {
		return 0
	}
	if f.LengthUnit == LengthWords {
		return f.MaxLength
	}
	return f.MaxLength / 5
}

// CharLimit returns the character limit, or zero when the field is limited by words or not at all.
func (f Field) CharLimit() int {
	if f.MaxLength <= 0 || f.LengthUnit == LengthWords {
		return 0
	}
	return f.MaxLength
}

// Title is the human-facing name used in missing-requirement lists.
func (f Field) Title() string {
	if f.Label != "" {
		return f.Label
	}
	return f.ID
}
