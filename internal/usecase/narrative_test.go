package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"autoapply/internal/domain"
)

func TestBuildGenerationRequest(t *testing.T) {
	c := NewNarrativeCoordinator()
	field := domain.Field{
		ID:          "need",
		Label:       "Statement of Need",
		Description: "Describe the problem.",
		Category:    domain.CategoryProblemNeed,
		MaxLength:   300,
		LengthUnit:  domain.LengthWords,
	}

	req := c.BuildGenerationRequest(GenerationInput{
		Field:              field,
		Grant:              sampleGrant(),
		User:               domain.UserContext{Knowledge: sampleKnowledge(), CustomInstructions: "Use first person plural."},
		ReferenceAnswer:    "Earlier answer.",
		CustomInstructions: "Mention the waitlist.",
		Fresh:              true,
	})

	if req.Question != "Statement of Need\nDescribe the problem." {
		t.Errorf("unexpected question %q", req.Question)
	}
	if req.Constraints.WordLimit != 300 {
		t.Errorf("expected word limit 300, got %d", req.Constraints.WordLimit)
	}
	if req.Constraints.Tone != ToneFor(domain.FunderFoundation) {
		t.Errorf("expected foundation tone, got %+v", req.Constraints.Tone)
	}
	if req.Context.CustomInstructions != "Use first person plural.\nMention the waitlist." {
		t.Errorf("unexpected instructions %q", req.Context.CustomInstructions)
	}
	if req.Context.ReferenceAnswer != "Earlier answer." || !req.Fresh {
		t.Errorf("expected reference answer and fresh flag, got %+v", req)
	}
	if !strings.HasPrefix(req.Context.UserProfileSummary, "Riverbend Youth Alliance\n") {
		t.Errorf("expected summary to start with organization name, got %q", req.Context.UserProfileSummary)
	}
}

func TestBuildGenerationRequest_CharLimit(t *testing.T) {
	c := NewNarrativeCoordinator()
	req := c.BuildGenerationRequest(GenerationInput{
		Field: domain.Field{ID: "summary", MaxLength: 1800, LengthUnit: domain.LengthChars},
	})
	if req.Constraints.WordLimit != 360 {
		t.Errorf("expected word limit 360, got %d", req.Constraints.WordLimit)
	}
}

func TestToneFor_Default(t *testing.T) {
	if ToneFor("unknown") != defaultTone {
		t.Error("expected default tone for unknown funder type")
	}
	if ToneFor(domain.FunderFederal) == ToneFor(domain.FunderCorporate) {
		t.Error("expected distinct tones per funder type")
	}
}

func TestApplyGenerationResponse(t *testing.T) {
	c := NewNarrativeCoordinator()

	v, err := c.ApplyGenerationResponse("need", domain.GenerationResponse{Content: "  Answer.  ", QualityScore: 120, Alternatives: []string{"Alt."}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Value != "Answer." || v.Confidence != 1 || v.Source != domain.SourceGenerated {
		t.Errorf("unexpected value %+v", v)
	}
	if len(v.Alternatives) != 1 {
		t.Errorf("expected 1 alternative, got %d", len(v.Alternatives))
	}

	if _, err := c.ApplyGenerationResponse("need", domain.GenerationResponse{Content: "   "}); !errors.Is(err, domain.ErrEmptyGeneration) {
		t.Errorf("expected ErrEmptyGeneration, got %v", err)
	}
}

func TestGenerationFailurePrompt(t *testing.T) {
	f := domain.Field{ID: "need", Label: "Statement of Need"}
	tests := []struct {
		err      error
		contains string
	}{
		{context.DeadlineExceeded, "in time"},
		{domain.ErrEmptyGeneration, "came back empty"},
		{domain.ErrGenerationFailed, "automatically"},
	}
	for _, tt := range tests {
		got := GenerationFailurePrompt(f, tt.err)
		if !strings.Contains(got, tt.contains) || !strings.Contains(got, "Statement of Need") {
			t.Errorf("prompt for %v: got %q", tt.err, got)
		}
	}
}

func TestMissingInputPrompt(t *testing.T) {
	withOptions := MissingInputPrompt(domain.Field{ID: "type", Options: []string{"Nonprofit", "Tribal"}})
	if !strings.Contains(withOptions, "Nonprofit, Tribal") {
		t.Errorf("expected options in prompt, got %q", withOptions)
	}
	upload := MissingInputPrompt(domain.Field{ID: "letter", InputKind: domain.InputFile})
	if !strings.Contains(upload, "upload") {
		t.Errorf("expected upload prompt, got %q", upload)
	}
}

func TestProfileSummary(t *testing.T) {
	if ProfileSummary(nil) != "" {
		t.Error("expected empty summary for nil bundle")
	}

	k := &domain.KnowledgeBundle{
		OrganizationID: "riverbend",
		Documents: []domain.DocumentExtraction{{
			Team: &domain.TeamData{Members: []domain.TeamMember{{Name: "Ana Ruiz"}, {Name: "Li Chen", Role: "Director"}}},
		}},
	}
	summary := ProfileSummary(k)
	if !strings.Contains(summary, "Team: Ana Ruiz\n") || !strings.Contains(summary, "Team: Li Chen, Director") {
		t.Errorf("unexpected team lines %q", summary)
	}

	onlyPrior := &domain.KnowledgeBundle{
		OrganizationID:    "riverbend",
		PriorApplications: []domain.PriorApplication{{ID: "p1"}},
	}
	if got := ProfileSummary(onlyPrior); got != "riverbend" {
		t.Errorf("expected organization id fallback, got %q", got)
	}
}
