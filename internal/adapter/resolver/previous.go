package resolver

import (
	"sort"
	"strings"

	"autoapply/internal/domain"
	"autoapply/internal/port"
)

// PreviousWeight is the confidence of answers repurposed from prior applications.
const PreviousWeight = 0.65

// DefaultPreviousLimit is how many recent applications are scanned.
const DefaultPreviousLimit = 5

// PreviousApplicationResolver reuses answers from recently submitted or awarded applications.
type PreviousApplicationResolver struct {
	limit int
}

// NewPreviousApplicationResolver creates a resolver scanning up to limit applications.
func NewPreviousApplicationResolver(limit int) *PreviousApplicationResolver {
	if limit <= 0 {
		limit = DefaultPreviousLimit
	}
	return &PreviousApplicationResolver{limit: limit}
}

// Source implements port.SourceResolver.
func (r *PreviousApplicationResolver) Source() domain.Source {
	return domain.SourcePrevious
}

// Resolve implements port.SourceResolver. A prior answer matches when its key
// and the field id contain one another, ignoring case.
func (r *PreviousApplicationResolver) Resolve(field domain.Field, knowledge *domain.KnowledgeBundle) port.Resolution {
	if knowledge == nil || field.ID == "" {
		return port.Resolution{}
	}
	fieldKey := strings.ToLower(field.ID)

	for _, app := range r.recent(knowledge.PriorApplications) {
		keys := make([]string, 0, len(app.Answers))
		for k := range app.Answers {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			key := strings.ToLower(k)
			if key == "" || !(strings.Contains(key, fieldKey) || strings.Contains(fieldKey, key)) {
				continue
			}
			if value := strings.TrimSpace(app.Answers[k]); value != "" {
				return port.Resolution{Value: value, Confidence: PreviousWeight, Detail: app.ID}
			}
		}
	}
	return port.Resolution{}
}

// recent returns submitted or awarded applications, newest first, capped at the limit.
func (r *PreviousApplicationResolver) recent(apps []domain.PriorApplication) []domain.PriorApplication {
	eligible := make([]domain.PriorApplication, 0, len(apps))
	for _, app := range apps {
		if app.Status == domain.StatusSubmitted || app.Status == domain.StatusAwarded {
			eligible = append(eligible, app)
		}
	}
	sort.SliceStable(eligible, func(i, j int) bool {
		return eligible[i].SubmittedAt.After(eligible[j].SubmittedAt)
	})
	if len(eligible) > r.limit {
		eligible = eligible[:r.limit]
	}
	return eligible
}
