package classifier

import (
	"regexp"
	"strings"

	"autoapply/internal/domain"
)

// rule maps a pattern to a category. Rules are evaluated in slice order and
// the first match wins, so narrower rules must come before broader ones
// (budget justification before budget, timeline before dates).
type rule struct {
	pattern  *regexp.Regexp
	category domain.FieldCategory
}

var rules = []rule{
	{regexp.MustCompile(`budget (justification|narrative|explanation|rationale)|justif(y|ication).*(cost|budget|expense)|cost (justification|narrative)`), domain.CategoryBudgetJustification},
	{regexp.MustCompile(`budget|amount requested|requested amount|request amount|total cost|funding request|\bamount\b`), domain.CategoryBudgetSummary},
	{regexp.MustCompile(`\bein\b|tax id|taxpayer|employer identification|\bduns\b|\buei\b|\btin\b`), domain.CategoryTaxIdentifier},
	{regexp.MustCompile(`contact|e ?mail|phone|telephone`), domain.CategoryContactInfo},
	{regexp.MustCompile(`address|street|mailing|postal|\bzip\b`), domain.CategoryAddressLocation},
	{regexp.MustCompile(`organi[sz]ation name|legal name|applicant name|entity name|\borg name\b|name of (the )?(organi[sz]ation|applicant)`), domain.CategoryOrganizationIdentity},
	{regexp.MustCompile(`mission|vision`), domain.CategoryMissionVision},
	{regexp.MustCompile(`certif|501 ?\(?c\)?|accredit|licen[cs]e|registration`), domain.CategoryCertifications},
	{regexp.MustCompile(`timeline|milestone|schedule|work ?plan`), domain.CategoryProjectTimeline},
	{regexp.MustCompile(`start date|end date|project period|period of performance|\bdates?\b`), domain.CategoryProjectDates},
	{regexp.MustCompile(`\bteam\b|personnel|\bstaff\b|key person|qualification|principal investigator|\bpi\b|biograph|leadership`), domain.CategoryTeamQualifications},
	{regexp.MustCompile(`\bneeds?\b|problem|challenge|\bgap\b|significance`), domain.CategoryProblemNeed},
	{regexp.MustCompile(`evaluat|assessment|measur|metrics|monitor`), domain.CategoryEvaluationPlan},
	{regexp.MustCompile(`sustainab|long term|continu|after the grant|future funding`), domain.CategorySustainabilityPlan},
	{regexp.MustCompile(`impact|outcome|benefit|\bresults?\b|broader`), domain.CategoryImpactOutcomes},
	{regexp.MustCompile(`\bgoals?\b|objective|\baims?\b`), domain.CategoryGoalsObjectives},
	{regexp.MustCompile(`commerciali|\bmarket|revenue model|customer`), domain.CategoryCommercialization},
	{regexp.MustCompile(`innovat|technical|technolog|research (plan|strategy)|r ?& ?d|feasibility`), domain.CategoryTechnicalInnovation},
	{regexp.MustCompile(`approach|solution|method|project (description|narrative|summary)|program description|abstract|activities|implementation|design`), domain.CategorySolutionApproach},
	{regexp.MustCompile(`history|background|about (your|the) organi[sz]ation|track record|capacity|experience`), domain.CategoryOrganizationHistory},
}

var separators = strings.NewReplacer("_", " ", "-", " ", ".", " ", "/", " ")

// Classify maps a field's label and id to a semantic category. It never fails;
// unmatched fields fall into CategoryOther.
func Classify(label, fieldID string) domain.FieldCategory {
	text := normalize(label + " " + fieldID)
	for _, r := range rules {
		if r.pattern.MatchString(text) {
			return r.category
		}
	}
	return domain.CategoryOther
}

func normalize(s string) string {
	s = separators.Replace(strings.ToLower(s))
	return strings.Join(strings.Fields(s), " ")
}

// Classifier assigns categories and derives NeedsGeneration for form fields.
type Classifier struct{}

// New creates a classifier.
func New() *Classifier {
	return &Classifier{}
}

// Analyze returns copies of fields with Category and NeedsGeneration set.
// A category already present on the input is kept.
func (c *Classifier) Analyze(fields []domain.Field) []domain.Field {
	out := make([]domain.Field, len(fields))
	for i, f := range fields {
		if f.Category == "" {
			f.Category = Classify(f.Label, f.ID)
		}
		if f.InputKind == "" {
			f.InputKind = domain.InputText
		}
		f.NeedsGeneration = domain.NeedsGeneration(f.InputKind, f.Category)
		out[i] = f
	}
	return out
}
