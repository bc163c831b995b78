package classifier

import (
	"testing"

	"autoapply/internal/domain"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		label string
		id    string
		want  domain.FieldCategory
	}{
		{"Budget Justification", "budget_justification", domain.CategoryBudgetJustification},
		{"Total Project Budget", "total_budget", domain.CategoryBudgetSummary},
		{"Amount Requested", "amount_requested", domain.CategoryBudgetSummary},
		{"Organization Name", "org_name", domain.CategoryOrganizationIdentity},
		{"EIN", "ein", domain.CategoryTaxIdentifier},
		{"Contact Email", "contact_email", domain.CategoryContactInfo},
		{"Mailing Address", "address", domain.CategoryAddressLocation},
		{"Mission Statement", "mission", domain.CategoryMissionVision},
		{"501(c)(3) Determination Letter", "irs_letter", domain.CategoryCertifications},
		{"Project Timeline", "timeline", domain.CategoryProjectTimeline},
		{"Project Start Date", "start_date", domain.CategoryProjectDates},
		{"Key Personnel", "key_personnel", domain.CategoryTeamQualifications},
		{"Statement of Need", "need_statement", domain.CategoryProblemNeed},
		{"Evaluation Plan", "evaluation_plan", domain.CategoryEvaluationPlan},
		{"Sustainability Plan", "sustainability", domain.CategorySustainabilityPlan},
		{"Expected Outcomes", "outcomes", domain.CategoryImpactOutcomes},
		{"Goals and Objectives", "goals", domain.CategoryGoalsObjectives},
		{"Commercialization Plan", "commercialization", domain.CategoryCommercialization},
		{"Technical Innovation", "innovation", domain.CategoryTechnicalInnovation},
		{"Project Description", "project_description", domain.CategorySolutionApproach},
		{"Organizational History", "org_history", domain.CategoryOrganizationHistory},
		{"Website", "website", domain.CategoryOther},
		{"City", "city", domain.CategoryOther},
		{"", "", domain.CategoryOther},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			got := Classify(tt.label, tt.id)
			if got != tt.want {
				t.Errorf("Classify(%q, %q) = %s, want %s", tt.label, tt.id, got, tt.want)
			}
		})
	}
}

func TestClassify_Deterministic(t *testing.T) {
	first := Classify("Budget Narrative and Justification", "budget_narrative")
	for i := 0; i < 50; i++ {
		if got := Classify("Budget Narrative and Justification", "budget_narrative"); got != first {
			t.Fatalf("iteration %d: got %s, want %s", i, got, first)
		}
	}
	if first != domain.CategoryBudgetJustification {
		t.Errorf("expected budget_justification, got %s", first)
	}
}

func TestAnalyze_NeedsGeneration(t *testing.T) {
	fields := []domain.Field{
		{ID: "need", Label: "Statement of Need", InputKind: domain.InputTextarea},
		{ID: "need_doc", Label: "Needs Assessment Upload", InputKind: domain.InputFile},
		{ID: "org_name", Label: "Organization Name", InputKind: domain.InputText},
		{ID: "start_date", Label: "Start Date", InputKind: domain.InputDate},
		{ID: "custom", Label: "Anything else?"},
	}

	got := New().Analyze(fields)

	if !got[0].NeedsGeneration {
		t.Error("narrative textarea should need generation")
	}
	if got[1].NeedsGeneration {
		t.Error("file upload should never need generation")
	}
	if got[2].NeedsGeneration {
		t.Error("organization name should not need generation")
	}
	if got[3].NeedsGeneration {
		t.Error("date input should not need generation")
	}
	if got[4].Category != domain.CategoryOther || got[4].InputKind != domain.InputText {
		t.Errorf("expected other/text defaults, got %s/%s", got[4].Category, got[4].InputKind)
	}
	if fields[0].Category != "" {
		t.Error("Analyze must not mutate its input")
	}
}

func TestAnalyze_KeepsPresetCategory(t *testing.T) {
	got := New().Analyze([]domain.Field{{ID: "x", Label: "Website", Category: domain.CategoryContactInfo}})
	if got[0].Category != domain.CategoryContactInfo {
		t.Errorf("expected preset category to be kept, got %s", got[0].Category)
	}
}
