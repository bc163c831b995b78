package domain

// FunderType is the coarse classification of a grant-making entity.
type FunderType string

const (
	FunderFederal    FunderType = "federal"
	FunderFoundation FunderType = "foundation"
	FunderCorporate  FunderType = "corporate"
	FunderState      FunderType = "state"
)

// Grant describes the target opportunity. It doubles as the signature the
// template registry matches against.
type Grant struct {
	ID           string     `json:"id" yaml:"id"`
	Title        string     `json:"title" yaml:"title"`
	Funder       string     `json:"funder" yaml:"funder"`
	FunderType   FunderType `json:"funder_type" yaml:"funder_type"`
	Category     string     `json:"category,omitempty" yaml:"category,omitempty"`
	Amount       float64    `json:"amount,omitempty" yaml:"amount,omitempty"`
	Deadline     string     `json:"deadline,omitempty" yaml:"deadline,omitempty"`
	Requirements []string   `json:"requirements,omitempty" yaml:"requirements,omitempty"`
}

// ToneProfile holds writing hints for a funder type.
type ToneProfile struct {
	Formality  string `json:"formality"`
	Emphasis   string `json:"emphasis"`
	Vocabulary string `json:"vocabulary"`
}

// GenerationContext is the grant and organization context sent with a generation request.
type GenerationContext struct {
	GrantTitle         string     `json:"grant_title"`
	Funder             string     `json:"funder"`
	FunderType         FunderType `json:"funder_type"`
	Amount             float64    `json:"amount,omitempty"`
	Requirements       []string   `json:"requirements,omitempty"`
	UserProfileSummary string     `json:"user_profile_summary"`
	ReferenceAnswer    string     `json:"reference_answer,omitempty"`
	CustomInstructions string     `json:"custom_instructions,omitempty"`
}

// GenerationConstraints bounds the generated text.
type GenerationConstraints struct {
	WordLimit int         `json:"word_limit,omitempty"`
	Tone      ToneProfile `json:"tone"`
}

// GenerationRequest is sent to the text-generation collaborator.
type GenerationRequest struct {
	FieldID     string                `json:"field_id"`
	Question    string                `json:"question"`
	Category    FieldCategory         `json:"category"`
	Context     GenerationContext     `json:"context"`
	Constraints GenerationConstraints `json:"constraints"`
	// Fresh asks caching layers to skip stored responses.
	Fresh bool `json:"-"`
}

// GenerationResponse is returned by the text-generation collaborator.
type GenerationResponse struct {
	Content      string   `json:"content"`
	QualityScore float64  `json:"quality_score"`
	Alternatives []string `json:"alternatives,omitempty"`
}

// CritiqueRequest asks the collaborator to review existing content.
type CritiqueRequest struct {
	Question  string        `json:"question"`
	Category  FieldCategory `json:"category"`
	Content   string        `json:"content"`
	WordLimit int           `json:"word_limit,omitempty"`
	Funder    string        `json:"funder,omitempty"`
	Tone      ToneProfile   `json:"tone"`
}

// CritiqueResponse carries suggested revisions and a refined score.
type CritiqueResponse struct {
	Score       float64  `json:"score"`
	Suggestions []string `json:"suggestions"`
	Revision    string   `json:"revision,omitempty"`
}
