package validator

import (
	"fmt"
	"regexp"
	"strings"

	"autoapply/internal/domain"
)

const (
	errorPenalty   = 30
	warningPenalty = 10
)

// Limits are the field-level constraints a value is checked against.
type Limits struct {
	Required  bool
	WordLimit int
	CharLimit int
}

// LimitsFor derives limits from a field definition.
func LimitsFor(f domain.Field) Limits {
	limits := Limits{Required: f.Required, CharLimit: f.CharLimit()}
	if f.LengthUnit == domain.LengthWords {
		limits.WordLimit = f.MaxLength
	}
	return limits
}

// minimumWords is the length below which an answer looks unsubstantial.
var minimumWords = map[domain.FieldCategory]int{
	domain.CategoryMissionVision:       10,
	domain.CategoryProblemNeed:         75,
	domain.CategorySolutionApproach:    100,
	domain.CategoryGoalsObjectives:     50,
	domain.CategoryImpactOutcomes:      50,
	domain.CategoryEvaluationPlan:      60,
	domain.CategorySustainabilityPlan:  50,
	domain.CategoryBudgetJustification: 50,
	domain.CategoryTeamQualifications:  50,
	domain.CategoryOrganizationHistory: 50,
	domain.CategoryTechnicalInnovation: 100,
	domain.CategoryCommercialization:   75,
	domain.CategoryProjectTimeline:     40,
}

// requiredKeywords lists terms at least one of which a strong answer mentions.
var requiredKeywords = map[domain.FieldCategory][]string{
	domain.CategoryBudgetJustification: {"personnel", "equipment", "cost", "indirect", "salary", "supplies", "travel"},
	domain.CategoryEvaluationPlan:      {"measure", "metric", "data", "survey", "indicator", "baseline", "track"},
	domain.CategoryImpactOutcomes:      {"increase", "reduce", "improve", "outcome", "result", "served", "percent"},
	domain.CategoryGoalsObjectives:     {"goal", "objective", "by ", "will"},
	domain.CategorySustainabilityPlan:  {"funding", "revenue", "partner", "continue", "diversif"},
	domain.CategoryTeamQualifications:  {"experience", "years", "led", "expertise", "degree", "background"},
	domain.CategoryProblemNeed:         {"data", "percent", "%", "according", "rate", "community"},
	domain.CategoryCommercialization:   {"market", "customer", "revenue", "pricing", "sales"},
	domain.CategoryProjectTimeline:     {"month", "quarter", "week", "phase", "milestone", "year"},
	domain.CategoryTechnicalInnovation: {"novel", "innovat", "prototype", "feasib", "technical"},
}

var (
	numberPattern     = regexp.MustCompile(`\d`)
	properNounPattern = regexp.MustCompile(`[a-z,;:]\s+[A-Z][a-z]+`)
	metricPattern     = regexp.MustCompile(`[%$]|\b(19|20)\d{2}\b|\b(january|february|march|april|may|june|july|august|september|october|november|december)\b`)
	placeholderText   = regexp.MustCompile(`(?i)lorem ipsum|\bTBD\b|\[insert[^\]]*\]|\bxx+\b|<placeholder>`)
	informalText      = regexp.MustCompile(`(?i)\b(awesome|gonna|wanna|stuff|kinda|super cool|lol)\b|!!`)
)

// Validator scores content against category rules. It is stateless and safe for concurrent use.
type Validator struct{}

// New creates a validator.
func New() *Validator {
	return &Validator{}
}

// Validate runs, in order: emptiness, length, tone, specificity and keyword
// checks. The score is a deduction from 100; IsValid requires zero errors.
func (v *Validator) Validate(content string, category domain.FieldCategory, limits Limits) domain.ValidationResult {
	var res domain.ValidationResult
	content = strings.TrimSpace(content)

	if content == "" {
		if limits.Required {
			addIssue(&res, domain.SeverityError, "This field is required.")
			res.Improvements = append(res.Improvements, "Provide an answer; required fields cannot be left blank.")
		}
		return Finalize(res, 0)
	}

	words := WordCount(content)
	narrative := category.IsNarrative()

	if min := minimumWords[category]; min > 0 && words < min {
		addIssue(&res, domain.SeverityWarning, fmt.Sprintf("Answer is short (%d words); reviewers expect at least %d.", words, min))
		res.Improvements = append(res.Improvements, "Expand the answer with more detail.")
	}
	if limits.WordLimit > 0 && words > limits.WordLimit {
		addIssue(&res, domain.SeverityError, fmt.Sprintf("Answer is %d words; the limit is %d.", words, limits.WordLimit))
		res.Improvements = append(res.Improvements, fmt.Sprintf("Trim the answer by at least %d words.", words-limits.WordLimit))
	}
	if chars := len([]rune(content)); limits.CharLimit > 0 && chars > limits.CharLimit {
		addIssue(&res, domain.SeverityError, fmt.Sprintf("Answer is %d characters; the limit is %d.", chars, limits.CharLimit))
		res.Improvements = append(res.Improvements, fmt.Sprintf("Trim the answer by at least %d characters.", chars-limits.CharLimit))
	}

	if placeholderText.MatchString(content) {
		addIssue(&res, domain.SeverityError, "Answer contains placeholder text.")
		res.Improvements = append(res.Improvements, "Replace placeholder text with real content.")
	}
	if narrative && informalText.MatchString(content) {
		addIssue(&res, domain.SeverityWarning, "Tone is informal for a grant application.")
		res.Improvements = append(res.Improvements, "Use a professional register.")
	}

	if narrative && !isSpecific(content) {
		addIssue(&res, domain.SeverityWarning, "Answer lacks concrete evidence.")
		res.Improvements = append(res.Improvements, "Add concrete evidence: numbers, dates, named partners or measurable results.")
	}

	if keywords := requiredKeywords[category]; len(keywords) > 0 && !containsAny(content, keywords) {
		addIssue(&res, domain.SeverityWarning, "Answer does not reference expected topics.")
		res.Improvements = append(res.Improvements, "Reference at least one of: "+strings.Join(keywords, ", ")+".")
	}

	if category == domain.CategoryOther {
		addIssue(&res, domain.SeverityWarning, "Field could not be categorized; review before submitting.")
	}

	return Finalize(res, 100)
}

// Finalize applies issue penalties to base and derives IsValid from the issues.
func Finalize(res domain.ValidationResult, base int) domain.ValidationResult {
	score := base
	for _, issue := range res.Issues {
		switch issue.Severity {
		case domain.SeverityError:
			score -= errorPenalty
		case domain.SeverityWarning:
			score -= warningPenalty
		}
	}
	res.Score = clampScore(score)
	res.IsValid = !res.HasErrors()
	return res
}

// WordCount counts whitespace-separated words.
func WordCount(s string) int {
	return len(strings.Fields(s))
}

func isSpecific(content string) bool {
	return numberPattern.MatchString(content) ||
		properNounPattern.MatchString(content) ||
		metricPattern.MatchString(strings.ToLower(content))
}

func containsAny(content string, keywords []string) bool {
	lower := strings.ToLower(content)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func addIssue(res *domain.ValidationResult, severity domain.Severity, msg string) {
	res.Issues = append(res.Issues, domain.Issue{Severity: severity, Message: msg})
}

func clampScore(s int) int {
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}
