package validator

import (
	"strings"

	"autoapply/internal/domain"
)

// MergeCritique folds a collaborator critique into a heuristic result.
// The refined score replaces the heuristic score only when the heuristic
// found no errors; an error-carrying result stays invalid.
func MergeCritique(base domain.ValidationResult, critique domain.CritiqueResponse) domain.ValidationResult {
	out := base
	out.Issues = append([]domain.Issue(nil), base.Issues...)
	out.Improvements = mergeSuggestions(base.Improvements, critique.Suggestions)

	refined := int(normalizeScore(critique.Score) + 0.5)
	if base.HasErrors() {
		if refined < out.Score {
			out.Score = refined
		}
	} else {
		out.Score = refined
	}
	out.Score = clampScore(out.Score)
	out.IsValid = !out.HasErrors()
	return out
}

// normalizeScore clamps a 0..100 critique score.
func normalizeScore(s float64) float64 {
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}

func mergeSuggestions(existing, extra []string) []string {
	seen := make(map[string]bool, len(existing)+len(extra))
	out := make([]string, 0, len(existing)+len(extra))
	for _, list := range [][]string{extra, existing} {
		for _, s := range list {
			s = strings.TrimSpace(s)
			key := strings.ToLower(s)
			if s == "" || seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, s)
		}
	}
	return out
}
