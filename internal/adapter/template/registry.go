package template

import (
	"regexp"
	"sort"
	"strings"

	"autoapply/internal/domain"
)

// Template is a canonical ordered field list for a class of grants.
type Template struct {
	Name   string         `json:"name"`
	Fields []domain.Field `json:"fields"`
}

// MatchKind records which precedence tier selected a template.
type MatchKind string

const (
	MatchProgram    MatchKind = "program"
	MatchFunder     MatchKind = "funder"
	MatchDomain     MatchKind = "domain"
	MatchFunderType MatchKind = "funder_type"
	MatchGeneric    MatchKind = "generic"
)

// Selection is the result of template selection.
type Selection struct {
	Template Template  `json:"template"`
	Match    MatchKind `json:"match"`
}

type keywordRule struct {
	pattern  *regexp.Regexp
	template string
}

var (
	programPattern = regexp.MustCompile(`\b(sbir|sttr)\b`)
	phaseTwo       = regexp.MustCompile(`phase\s*(ii|2)\b`)
	phaseOne       = regexp.MustCompile(`phase\s*(i|1)\b`)
)

var funderRules = []keywordRule{
	{regexp.MustCompile(`national science foundation|\bnsf\b`), "nsf_standard"},
	{regexp.MustCompile(`national institutes? of health|\bnih\b`), "nih_research"},
	{regexp.MustCompile(`national endowment for the arts|\bnea\b`), "nea_arts"},
	{regexp.MustCompile(`department of education|\bdoed\b`), "ed_discretionary"},
}

var domainRules = []keywordRule{
	{regexp.MustCompile(`educat|school|\bstem\b|literacy|student`), "education"},
	{regexp.MustCompile(`environment|climate|conservation|sustainab|energy`), "environment"},
	{regexp.MustCompile(`health|medical|wellness|\bmental\b|clinic`), "health"},
	{regexp.MustCompile(`\barts?\b|\bcultur|music|theat|museum`), "arts_culture"},
	{regexp.MustCompile(`workforce|job training|employment|apprentice`), "workforce"},
	{regexp.MustCompile(`technolog|innovation|\btech\b|software|materials|research`), "technology_innovation"},
}

var funderTypeTemplates = map[domain.FunderType]string{
	domain.FunderFederal:    "federal",
	domain.FunderFoundation: "foundation",
	domain.FunderCorporate:  "corporate",
	domain.FunderState:      "state",
}

// Registry holds the known templates and selects among them.
type Registry struct {
	templates map[string][]domain.Field
}

// NewRegistry creates a registry preloaded with the built-in templates.
func NewRegistry() *Registry {
	return &Registry{templates: builtinTemplates()}
}

// Register adds or replaces a template.
func (r *Registry) Register(name string, fields []domain.Field) {
	r.templates[name] = fields
}

// Get returns a template by name.
func (r *Registry) Get(name string) (Template, bool) {
	fields, ok := r.templates[name]
	if !ok {
		return Template{}, false
	}
	return Template{Name: name, Fields: append([]domain.Field(nil), fields...)}, true
}

// Names lists the registered templates in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.templates))
	for name := range r.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Select picks the template for a grant. Precedence, first hit wins:
// program keyword, named funder, domain keyword, funder type, generic.
func (r *Registry) Select(grant domain.Grant) Selection {
	signature := strings.ToLower(grant.Title + " " + grant.Category)

	if programPattern.MatchString(signature) {
		name := "sbir_generic"
		switch {
		case phaseTwo.MatchString(signature):
			name = "sbir_phase_2"
		case phaseOne.MatchString(signature):
			name = "sbir_phase_1"
		}
		if sel, ok := r.selection(name, MatchProgram); ok {
			return sel
		}
	}

	funder := strings.ToLower(grant.Funder)
	for _, rule := range funderRules {
		if rule.pattern.MatchString(funder) {
			if sel, ok := r.selection(rule.template, MatchFunder); ok {
				return sel
			}
		}
	}

	for _, rule := range domainRules {
		if rule.pattern.MatchString(signature) {
			if sel, ok := r.selection(rule.template, MatchDomain); ok {
				return sel
			}
		}
	}

	if name, ok := funderTypeTemplates[grant.FunderType]; ok {
		if sel, ok := r.selection(name, MatchFunderType); ok {
			return sel
		}
	}

	sel, ok := r.selection("generic", MatchGeneric)
	if !ok {
		sel = Selection{Template: Template{Name: "generic", Fields: genericFields()}, Match: MatchGeneric}
	}
	return sel
}

func (r *Registry) selection(name string, kind MatchKind) (Selection, bool) {
	t, ok := r.Get(name)
	if !ok {
		return Selection{}, false
	}
	return Selection{Template: t, Match: kind}, true
}
