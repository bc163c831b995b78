package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"autoapply/internal/domain"
)

// toneProfiles maps funder type to writing hints.
var toneProfiles = map[domain.FunderType]domain.ToneProfile{
	domain.FunderFederal: {
		Formality:  "formal and precise",
		Emphasis:   "compliance, measurable objectives and methodology",
		Vocabulary: "technical; mirror the solicitation's terminology",
	},
	domain.FunderFoundation: {
		Formality:  "professional and warm",
		Emphasis:   "mission alignment and community impact",
		Vocabulary: "plain language with concrete stories",
	},
	domain.FunderCorporate: {
		Formality:  "professional and concise",
		Emphasis:   "return on investment, visibility and partnership",
		Vocabulary: "business-oriented",
	},
	domain.FunderState: {
		Formality:  "formal",
		Emphasis:   "local benefit, accountability and statutory priorities",
		Vocabulary: "public-sector terminology",
	},
}

var defaultTone = domain.ToneProfile{
	Formality:  "professional",
	Emphasis:   "clear need and measurable impact",
	Vocabulary: "plain language",
}

// ToneFor returns the tone profile for a funder type.
func ToneFor(t domain.FunderType) domain.ToneProfile {
	if tone, ok := toneProfiles[t]; ok {
		return tone
	}
	return defaultTone
}

// NarrativeCoordinator packages generation requests and turns responses into values.
type NarrativeCoordinator struct {
	now func() time.Time
}

func NewNarrativeCoordinator() *NarrativeCoordinator {
	return &NarrativeCoordinator{now: time.Now}
}

// GenerationInput is everything a single generation request is built from.
type GenerationInput struct {
	Field              domain.Field
	Grant              domain.Grant
	User               domain.UserContext
	ReferenceAnswer    string
	CustomInstructions string
	Fresh              bool
}

// BuildGenerationRequest packages the question, word budget, tone and context.
func (c *NarrativeCoordinator) BuildGenerationRequest(in GenerationInput) domain.GenerationRequest {
	question := in.Field.Title()
	if in.Field.Description != "" {
		question += "\n" + in.Field.Description
	}

	instructions := strings.TrimSpace(in.CustomInstructions)
	if base := strings.TrimSpace(in.User.CustomInstructions); base != "" {
		if instructions == "" {
			instructions = base
		} else {
			instructions = base + "\n" + instructions
		}
	}

	return domain.GenerationRequest{
		FieldID:  in.Field.ID,
		Question: question,
		Category: in.Field.Category,
		Context: domain.GenerationContext{
			GrantTitle:         in.Grant.Title,
			Funder:             in.Grant.Funder,
			FunderType:         in.Grant.FunderType,
			Amount:             in.Grant.Amount,
			Requirements:       append([]string(nil), in.Grant.Requirements...),
			UserProfileSummary: ProfileSummary(in.User.Knowledge),
			ReferenceAnswer:    in.ReferenceAnswer,
			CustomInstructions: instructions,
		},
		Constraints: domain.GenerationConstraints{
			WordLimit: in.Field.WordLimit(),
			Tone:      ToneFor(in.Grant.FunderType),
		},
		Fresh: in.Fresh,
	}
}

// ApplyGenerationResponse converts a collaborator response into a generated value.
// Blank content is an ErrEmptyGeneration.
func (c *NarrativeCoordinator) ApplyGenerationResponse(fieldID string, resp domain.GenerationResponse) (domain.ResolvedValue, error) {
	content := strings.TrimSpace(resp.Content)
	if content == "" {
		return domain.ResolvedValue{}, domain.ErrEmptyGeneration
	}
	return domain.ResolvedValue{
		FieldID:      fieldID,
		Value:        content,
		Confidence:   normalizeQuality(resp.QualityScore),
		Source:       domain.SourceGenerated,
		Alternatives: append([]string(nil), resp.Alternatives...),
		ResolvedAt:   c.now(),
	}, nil
}

// Unresolved builds a value that asks the user for input.
func (c *NarrativeCoordinator) Unresolved(fieldID, prompt string) domain.ResolvedValue {
	return domain.ResolvedValue{
		FieldID:        fieldID,
		NeedsUserInput: true,
		UserPrompt:     prompt,
		ResolvedAt:     c.now(),
	}
}

// GenerationFailurePrompt explains a failed generation to the user.
func GenerationFailurePrompt(f domain.Field, err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Sprintf("We could not draft %q in time. Please write this answer or try regenerating it.", f.Title())
	case errors.Is(err, domain.ErrEmptyGeneration):
		return fmt.Sprintf("The draft for %q came back empty. Please write this answer or regenerate it with more guidance.", f.Title())
	default:
		return fmt.Sprintf("We could not draft %q automatically. Please write this answer or try regenerating it.", f.Title())
	}
}

// MissingInputPrompt asks the user for a value no knowledge source could supply.
func MissingInputPrompt(f domain.Field) string {
	if len(f.Options) > 0 {
		return fmt.Sprintf("Please choose a value for %q (%s).", f.Title(), strings.Join(f.Options, ", "))
	}
	switch f.InputKind {
	case domain.InputFile:
		return fmt.Sprintf("Please upload the file requested for %q.", f.Title())
	case domain.InputDate:
		return fmt.Sprintf("Please provide the date for %q.", f.Title())
	}
	return fmt.Sprintf("We found no saved information for %q. Please provide it or add it to your organization profile.", f.Title())
}

// ProfileSummary condenses a knowledge bundle into prompt context.
// When the profile names the organization, the name is the first line.
func ProfileSummary(k *domain.KnowledgeBundle) string {
	if k.IsEmpty() {
		return ""
	}

	var lines []string
	add := func(label, value string) {
		if value = strings.TrimSpace(value); value != "" {
			lines = append(lines, label+": "+value)
		}
	}

	if p := k.Profile; p != nil {
		if p.OrganizationName != "" {
			lines = append(lines, p.OrganizationName)
		}
		add("Type", p.OrganizationType)
		add("Mission", p.Mission)
		add("Vision", p.Vision)
		add("Location", strings.Trim(strings.Join([]string{p.City, p.State}, ", "), ", "))
		if p.FoundedYear > 0 {
			add("Founded", strconv.Itoa(p.FoundedYear))
		}
		if p.AnnualBudget > 0 {
			add("Annual budget", strconv.FormatFloat(p.AnnualBudget, 'f', -1, 64))
		}
		if p.StaffCount > 0 {
			add("Staff", strconv.Itoa(p.StaffCount))
		}
		add("Focus areas", strings.Join(p.FocusAreas, ", "))
	}

	for _, doc := range k.Documents {
		if doc.Program != nil {
			add("Program", strings.TrimSpace(doc.Program.Name+" "+doc.Program.Description))
			add("Beneficiaries", doc.Program.Beneficiaries)
			add("Outcomes", strings.Join(doc.Program.Outcomes, "; "))
		}
		if doc.Team != nil {
			for _, m := range doc.Team.Members {
				add("Team", strings.Trim(m.Name+", "+m.Role, ", "))
			}
		}
	}

	if len(lines) == 0 {
		lines = append(lines, k.OrganizationID)
	}
	return strings.Join(lines, "\n")
}

// normalizeQuality maps a 0-100 quality score onto 0-1.
func normalizeQuality(score float64) float64 {
	c := score / 100
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}
