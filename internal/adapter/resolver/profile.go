package resolver

import (
	"regexp"
	"strconv"
	"strings"

	"autoapply/internal/domain"
	"autoapply/internal/port"
)

// ProfileWeight is the fixed confidence of values read from the organization profile.
const ProfileWeight = 0.90

type profileAttribute func(p *domain.Profile) string

var profileAttributes = map[string]profileAttribute{
	"organization_name": func(p *domain.Profile) string { return p.OrganizationName },
	"ein":               func(p *domain.Profile) string { return p.EIN },
	"mission":           func(p *domain.Profile) string { return p.Mission },
	"website":           func(p *domain.Profile) string { return p.Website },
	"city":              func(p *domain.Profile) string { return p.City },
	"state":             func(p *domain.Profile) string { return p.State },
	"email":             func(p *domain.Profile) string { return p.Email },
	"phone":             func(p *domain.Profile) string { return p.Phone },
	"contact":           contactLine,
	"address":           addressLine,
	"annual_budget":     func(p *domain.Profile) string { return formatAmount(p.AnnualBudget) },
	"certifications":    func(p *domain.Profile) string { return strings.Join(p.Certifications, ", ") },
}

// categoryAttributes maps a category to the profile attribute that answers it.
var categoryAttributes = map[domain.FieldCategory]string{
	domain.CategoryOrganizationIdentity: "organization_name",
	domain.CategoryTaxIdentifier:        "ein",
	domain.CategoryMissionVision:        "mission",
	domain.CategoryAddressLocation:      "address",
	domain.CategoryCertifications:       "certifications",
}

type labelKeyword struct {
	pattern   *regexp.Regexp
	attribute string
}

// labelKeywords is consulted in order when a category has no direct mapping.
var labelKeywords = []labelKeyword{
	{regexp.MustCompile(`organi[sz]ation name|legal name|applicant name`), "organization_name"},
	{regexp.MustCompile(`mission`), "mission"},
	{regexp.MustCompile(`\bein\b|tax id|employer identification`), "ein"},
	{regexp.MustCompile(`website|\burl\b|web site`), "website"},
	{regexp.MustCompile(`\bcity\b`), "city"},
	{regexp.MustCompile(`\bstate\b`), "state"},
	{regexp.MustCompile(`annual (operating )?budget|organi[sz]ation(al)? budget|operating budget`), "annual_budget"},
	{regexp.MustCompile(`e ?mail`), "email"},
	{regexp.MustCompile(`phone`), "phone"},
	{regexp.MustCompile(`contact`), "contact"},
}

// ProfileResolver answers fields from the self-declared organization profile.
type ProfileResolver struct{}

// NewProfileResolver creates a profile resolver.
func NewProfileResolver() *ProfileResolver {
	return &ProfileResolver{}
}

// Source implements port.SourceResolver.
func (r *ProfileResolver) Source() domain.Source {
	return domain.SourceProfile
}

// Resolve implements port.SourceResolver.
func (r *ProfileResolver) Resolve(field domain.Field, knowledge *domain.KnowledgeBundle) port.Resolution {
	if knowledge == nil || knowledge.Profile == nil {
		return port.Resolution{}
	}

	attr, ok := categoryAttributes[field.Category]
	if !ok {
		attr = attributeForLabel(field.Label + " " + field.ID)
	}
	if attr == "" {
		return port.Resolution{}
	}

	value := strings.TrimSpace(profileAttributes[attr](knowledge.Profile))
	if value == "" {
		return port.Resolution{}
	}
	return port.Resolution{Value: value, Confidence: ProfileWeight, Detail: attr}
}

func attributeForLabel(label string) string {
	text := strings.ToLower(strings.ReplaceAll(label, "_", " "))
	for _, kw := range labelKeywords {
		if kw.pattern.MatchString(text) {
			return kw.attribute
		}
	}
	return ""
}

func contactLine(p *domain.Profile) string {
	parts := make([]string, 0, 2)
	if p.Email != "" {
		parts = append(parts, p.Email)
	}
	if p.Phone != "" {
		parts = append(parts, p.Phone)
	}
	return strings.Join(parts, ", ")
}

func addressLine(p *domain.Profile) string {
	if p.Address == "" {
		return ""
	}
	line := p.Address
	locality := strings.TrimSpace(strings.Join(nonEmpty(p.City, strings.TrimSpace(p.State+" "+p.Zip)), ", "))
	if locality != "" {
		line += ", " + locality
	}
	return line
}

func nonEmpty(values ...string) []string {
	out := values[:0]
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

func formatAmount(v float64) string {
	if v <= 0 {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
