package resolver

import (
	"regexp"
	"strings"

	"autoapply/internal/domain"
	"autoapply/internal/port"
)

// DocumentWeight is the confidence of the document channel. It reflects
// cross-document reliability, not the quality of a single extraction.
const DocumentWeight = 0.75

type extractor func(doc *domain.DocumentExtraction, label string) string

var requestPattern = regexp.MustCompile(`request`)

var documentExtractors = map[domain.FieldCategory]extractor{
	domain.CategoryOrganizationIdentity: func(d *domain.DocumentExtraction, _ string) string {
		if d.Organization == nil {
			return ""
		}
		return d.Organization.Name
	},
	domain.CategoryTaxIdentifier: func(d *domain.DocumentExtraction, _ string) string {
		if d.Organization == nil {
			return ""
		}
		return d.Organization.EIN
	},
	domain.CategoryMissionVision: func(d *domain.DocumentExtraction, _ string) string {
		if d.Organization == nil {
			return ""
		}
		return d.Organization.Mission
	},
	domain.CategoryAddressLocation: func(d *domain.DocumentExtraction, _ string) string {
		if d.Organization == nil {
			return ""
		}
		return d.Organization.Address
	},
	domain.CategoryContactInfo: func(d *domain.DocumentExtraction, label string) string {
		if d.Organization == nil {
			return ""
		}
		if strings.Contains(label, "phone") {
			return d.Organization.Phone
		}
		return d.Organization.Email
	},
	domain.CategoryBudgetSummary: func(d *domain.DocumentExtraction, label string) string {
		if d.Financial == nil {
			return ""
		}
		if requestPattern.MatchString(label) {
			return formatAmount(d.Financial.RequestedAmount)
		}
		return formatAmount(d.Financial.AnnualBudget)
	},
	domain.CategoryProjectDates: func(d *domain.DocumentExtraction, label string) string {
		if d.Program == nil {
			return ""
		}
		if strings.Contains(label, "end") {
			return d.Program.EndDate
		}
		return d.Program.StartDate
	},
}

// DocumentResolver answers fields from upstream document extractions.
type DocumentResolver struct {
	combineConfidence bool
}

// NewDocumentResolver creates a document resolver. When combineConfidence is
// set, the channel weight is multiplied by the extraction's own confidence.
func NewDocumentResolver(combineConfidence bool) *DocumentResolver {
	return &DocumentResolver{combineConfidence: combineConfidence}
}

// Source implements port.SourceResolver.
func (r *DocumentResolver) Source() domain.Source {
	return domain.SourceDocument
}

// Resolve implements port.SourceResolver. Documents are scanned in order and
// the first one carrying a value wins.
func (r *DocumentResolver) Resolve(field domain.Field, knowledge *domain.KnowledgeBundle) port.Resolution {
	if knowledge == nil || len(knowledge.Documents) == 0 {
		return port.Resolution{}
	}
	extract, ok := documentExtractors[field.Category]
	if !ok {
		return port.Resolution{}
	}

	label := strings.ToLower(strings.ReplaceAll(field.Label+" "+field.ID, "_", " "))
	for i := range knowledge.Documents {
		doc := &knowledge.Documents[i]
		value := strings.TrimSpace(extract(doc, label))
		if value == "" {
			continue
		}
		confidence := DocumentWeight
		if r.combineConfidence {
			confidence *= clamp01(doc.Confidence)
		}
		return port.Resolution{Value: value, Confidence: confidence, Detail: doc.DocumentID}
	}
	return port.Resolution{}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
