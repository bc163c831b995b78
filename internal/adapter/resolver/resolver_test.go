package resolver

import (
	"testing"
	"time"

	"autoapply/internal/adapter/classifier"
	"autoapply/internal/domain"
)

func field(id, label string) domain.Field {
	f := domain.Field{ID: id, Label: label, InputKind: domain.InputText}
	f.Category = classifier.Classify(label, id)
	return f
}

func testKnowledge() *domain.KnowledgeBundle {
	now := time.Now()
	return &domain.KnowledgeBundle{
		OrganizationID: "org-1",
		Profile: &domain.Profile{
			OrganizationName: "River City Literacy",
			EIN:              "12-3456789",
			Mission:          "We teach adults to read.",
			Website:          "https://rcl.example.org",
			City:             "Springfield",
			State:            "IL",
			Address:          "12 Main St",
			Zip:              "62701",
			Email:            "grants@rcl.example.org",
		},
		Documents: []domain.DocumentExtraction{
			{DocumentID: "audit-2023", DocumentType: "financial_statement", Confidence: 0.5,
				Financial: &domain.FinancialData{AnnualBudget: 850000, RequestedAmount: 50000}},
			{DocumentID: "annual-report", DocumentType: "annual_report", Confidence: 0.9,
				Organization: &domain.OrganizationInfo{Name: "River City Literacy Inc.", EIN: "99-9999999"}},
		},
		PriorApplications: []domain.PriorApplication{
			{ID: "old", Status: domain.StatusSubmitted, SubmittedAt: now.Add(-48 * time.Hour),
				Answers: map[string]string{"need_statement": "old need"}},
			{ID: "new", Status: domain.StatusAwarded, SubmittedAt: now.Add(-time.Hour),
				Answers: map[string]string{"statement_of_need_statement": "", "need": "new need"}},
			{ID: "draft", Status: domain.StatusDraft, SubmittedAt: now,
				Answers: map[string]string{"need_statement": "draft need"}},
		},
	}
}

func TestProfileResolver_CategoryMap(t *testing.T) {
	r := NewProfileResolver()
	res := r.Resolve(field("org_name", "Organization Name"), testKnowledge())
	if res.Value != "River City Literacy" {
		t.Errorf("expected profile name, got %q", res.Value)
	}
	if res.Confidence != ProfileWeight {
		t.Errorf("expected confidence %.2f, got %.2f", ProfileWeight, res.Confidence)
	}
}

func TestProfileResolver_LabelFallback(t *testing.T) {
	r := NewProfileResolver()
	k := testKnowledge()

	tests := []struct {
		id, label, want string
	}{
		{"website", "Website", "https://rcl.example.org"},
		{"city", "City", "Springfield"},
		{"state", "State", "IL"},
	}
	for _, tt := range tests {
		res := r.Resolve(field(tt.id, tt.label), k)
		if res.Value != tt.want {
			t.Errorf("%s: expected %q, got %q", tt.label, tt.want, res.Value)
		}
	}
}

func TestProfileResolver_Address(t *testing.T) {
	res := NewProfileResolver().Resolve(field("address", "Mailing Address"), testKnowledge())
	if res.Value != "12 Main St, Springfield, IL 62701" {
		t.Errorf("unexpected address %q", res.Value)
	}
}

func TestProfileResolver_NoProfile(t *testing.T) {
	res := NewProfileResolver().Resolve(field("org_name", "Organization Name"), &domain.KnowledgeBundle{})
	if res.Found() {
		t.Errorf("expected miss, got %q", res.Value)
	}
}

func TestDocumentResolver(t *testing.T) {
	k := testKnowledge()

	res := NewDocumentResolver(false).Resolve(field("amount_requested", "Amount Requested"), k)
	if res.Value != "50000" || res.Confidence != DocumentWeight {
		t.Errorf("expected 50000 @ %.2f, got %q @ %.2f", DocumentWeight, res.Value, res.Confidence)
	}

	res = NewDocumentResolver(false).Resolve(field("total_budget", "Total Budget"), k)
	if res.Value != "850000" {
		t.Errorf("expected annual budget, got %q", res.Value)
	}

	res = NewDocumentResolver(true).Resolve(field("ein", "EIN"), k)
	if res.Value != "99-9999999" {
		t.Errorf("expected extracted EIN, got %q", res.Value)
	}
	extraction := 0.9
	if want := DocumentWeight * extraction; res.Confidence != want {
		t.Errorf("expected combined confidence %.3f, got %.3f", want, res.Confidence)
	}
}

func TestPreviousApplicationResolver(t *testing.T) {
	r := NewPreviousApplicationResolver(5)
	res := r.Resolve(field("need_statement", "Statement of Need"), testKnowledge())

	if res.Value != "new need" {
		t.Errorf("expected newest submitted answer, got %q", res.Value)
	}
	if res.Detail != "new" {
		t.Errorf("expected detail 'new', got %q", res.Detail)
	}
	if res.Confidence != PreviousWeight {
		t.Errorf("expected %.2f, got %.2f", PreviousWeight, res.Confidence)
	}
}

func TestPreviousApplicationResolver_Limit(t *testing.T) {
	k := &domain.KnowledgeBundle{}
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		answers := map[string]string{}
		if i == 0 {
			answers["mission"] = "oldest"
		}
		k.PriorApplications = append(k.PriorApplications, domain.PriorApplication{
			ID: "app", Status: domain.StatusSubmitted, SubmittedAt: base.AddDate(0, 0, i), Answers: answers,
		})
	}

	res := NewPreviousApplicationResolver(5).Resolve(field("mission", "Mission"), k)
	if res.Found() {
		t.Errorf("answer from the 7th most recent application must be ignored, got %q", res.Value)
	}
}

func TestChain_ProfileWins(t *testing.T) {
	chain := DefaultChain(0.5, false, 5)
	k := testKnowledge()
	k.PriorApplications = append(k.PriorApplications, domain.PriorApplication{
		ID: "p", Status: domain.StatusAwarded, SubmittedAt: time.Now(),
		Answers: map[string]string{"org_name": "Somebody Else"},
	})

	out, ok := chain.Resolve(field("org_name", "Organization Name"), k, nil)
	if !ok {
		t.Fatal("expected a resolution")
	}
	if out.Source != domain.SourceProfile {
		t.Errorf("expected profile source, got %s", out.Source)
	}
}

func TestChain_FloorSkipsLowConfidence(t *testing.T) {
	chain := DefaultChain(0.7, false, 5)
	_, ok := chain.Resolve(field("need_statement", "Statement of Need"), testKnowledge(), nil)
	if ok {
		t.Error("previous-application value below the floor must not be accepted")
	}
}

func TestChain_AcceptRejects(t *testing.T) {
	chain := DefaultChain(0.5, false, 5)
	k := testKnowledge()
	out, ok := chain.Resolve(field("ein", "EIN"), k, func(v string) (string, bool) {
		return v, v != "12-3456789"
	})
	if !ok || out.Source != domain.SourceDocument {
		t.Errorf("expected fallthrough to document source, got %v %s", ok, out.Source)
	}
}
