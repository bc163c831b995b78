package usecase

import (
	"fmt"
	"testing"

	"autoapply/internal/domain"
)

func completeValue(id string, confidence float64) domain.ResolvedValue {
	return domain.ResolvedValue{FieldID: id, Value: "value for " + id, Confidence: confidence}
}

func TestAggregate_Completion(t *testing.T) {
	fields := make([]domain.Field, 10)
	resolved := make(map[string]domain.ResolvedValue)
	for i := range fields {
		id := fmt.Sprintf("f%d", i)
		fields[i] = domain.Field{ID: id}
		if i < 6 {
			resolved[id] = completeValue(id, 0.9)
		}
	}

	snap := Aggregate(fields, resolved)
	if snap.TotalFields != 10 || snap.CompletedFields != 6 {
		t.Errorf("expected 6/10 fields, got %d/%d", snap.CompletedFields, snap.TotalFields)
	}
	if snap.CompletionPercentage != 60 {
		t.Errorf("expected completion 60, got %d", snap.CompletionPercentage)
	}
}

func TestAggregate_ConfidenceIgnoresIncompleteValues(t *testing.T) {
	fields := []domain.Field{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	resolved := map[string]domain.ResolvedValue{
		"a": completeValue("a", 0.9),
		"b": completeValue("b", 0.9),
		"c": {FieldID: "c", NeedsUserInput: true, UserPrompt: "please answer"},
	}

	snap := Aggregate(fields, resolved)
	if snap.OverallConfidence != 90 {
		t.Errorf("expected confidence 90, got %d", snap.OverallConfidence)
	}
}

func TestAggregate_MissingRequirements(t *testing.T) {
	fields := []domain.Field{
		{ID: "name", Label: "Organization Name", Required: true},
		{ID: "ein", Required: true},
		{ID: "website", Label: "Website"},
	}
	resolved := map[string]domain.ResolvedValue{
		"name": completeValue("name", 0.9),
		"ein":  {FieldID: "ein", NeedsUserInput: true},
	}

	snap := Aggregate(fields, resolved)
	if len(snap.MissingRequirements) != 1 || snap.MissingRequirements[0] != "ein" {
		t.Errorf("expected [ein], got %v", snap.MissingRequirements)
	}
}

func TestAggregate_Empty(t *testing.T) {
	snap := Aggregate(nil, nil)
	if snap.CompletionPercentage != 0 || snap.OverallConfidence != 0 {
		t.Errorf("expected zero snapshot, got %+v", snap)
	}
	if snap.MissingRequirements == nil {
		t.Error("expected non-nil missing requirements")
	}
	if snap.ReadinessLevel != domain.ReadinessNotReady {
		t.Errorf("expected not_ready, got %s", snap.ReadinessLevel)
	}
}

func TestAggregate_CriticalIssues(t *testing.T) {
	fields := []domain.Field{{ID: "a"}, {ID: "b"}}
	bad := completeValue("a", 0.8)
	bad.Validation = domain.ValidationResult{Issues: []domain.Issue{
		{Severity: domain.SeverityError, Message: "too long"},
		{Severity: domain.SeverityWarning, Message: "vague"},
	}}
	resolved := map[string]domain.ResolvedValue{"a": bad, "b": completeValue("b", 0.8)}

	snap := Aggregate(fields, resolved)
	if snap.CriticalIssues != 1 {
		t.Errorf("expected 1 critical issue, got %d", snap.CriticalIssues)
	}
	if snap.ReadinessLevel != domain.ReadinessNotReady {
		t.Errorf("expected not_ready with errors, got %s", snap.ReadinessLevel)
	}
}

func TestReadiness(t *testing.T) {
	tests := []struct {
		name     string
		snap     domain.ApplicationSnapshot
		expected domain.ReadinessLevel
	}{
		{"ready", domain.ApplicationSnapshot{CompletionPercentage: 85}, domain.ReadinessReady},
		{"needs work", domain.ApplicationSnapshot{CompletionPercentage: 50}, domain.ReadinessNeedsWork},
		{"not ready", domain.ApplicationSnapshot{CompletionPercentage: 30}, domain.ReadinessNotReady},
		{"boundary ready", domain.ApplicationSnapshot{CompletionPercentage: 80}, domain.ReadinessReady},
		{"boundary needs work", domain.ApplicationSnapshot{CompletionPercentage: 40}, domain.ReadinessNeedsWork},
		{"missing requirement", domain.ApplicationSnapshot{CompletionPercentage: 90, MissingRequirements: []string{"EIN"}}, domain.ReadinessNeedsWork},
		{"critical issue", domain.ApplicationSnapshot{CompletionPercentage: 95, CriticalIssues: 1}, domain.ReadinessNotReady},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := readiness(tt.snap); got != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, got)
			}
		})
	}
}
