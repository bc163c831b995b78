package domain

import "time"

// Profile is the self-declared organization record.
type Profile struct {
	OrganizationName string   `json:"organization_name" yaml:"organization_name"`
	OrganizationType string   `json:"organization_type,omitempty" yaml:"organization_type,omitempty"`
	EIN              string   `json:"ein,omitempty" yaml:"ein,omitempty"`
	Mission          string   `json:"mission,omitempty" yaml:"mission,omitempty"`
	Vision           string   `json:"vision,omitempty" yaml:"vision,omitempty"`
	Website          string   `json:"website,omitempty" yaml:"website,omitempty"`
	Email            string   `json:"email,omitempty" yaml:"email,omitempty"`
	Phone            string   `json:"phone,omitempty" yaml:"phone,omitempty"`
	Address          string   `json:"address,omitempty" yaml:"address,omitempty"`
	City             string   `json:"city,omitempty" yaml:"city,omitempty"`
	State            string   `json:"state,omitempty" yaml:"state,omitempty"`
	Zip              string   `json:"zip,omitempty" yaml:"zip,omitempty"`
	FoundedYear      int      `json:"founded_year,omitempty" yaml:"founded_year,omitempty"`
	AnnualBudget     float64  `json:"annual_budget,omitempty" yaml:"annual_budget,omitempty"`
	StaffCount       int      `json:"staff_count,omitempty" yaml:"staff_count,omitempty"`
	FocusAreas       []string `json:"focus_areas,omitempty" yaml:"focus_areas,omitempty"`
	Certifications   []string `json:"certifications,omitempty" yaml:"certifications,omitempty"`
}

// OrganizationInfo is organization identity extracted from a document.
type OrganizationInfo struct {
	Name    string `json:"name,omitempty" yaml:"name,omitempty"`
	EIN     string `json:"ein,omitempty" yaml:"ein,omitempty"`
	Mission string `json:"mission,omitempty" yaml:"mission,omitempty"`
	Address string `json:"address,omitempty" yaml:"address,omitempty"`
	Website string `json:"website,omitempty" yaml:"website,omitempty"`
	Email   string `json:"email,omitempty" yaml:"email,omitempty"`
	Phone   string `json:"phone,omitempty" yaml:"phone,omitempty"`
}

// FinancialData is financial information extracted from a document.
type FinancialData struct {
	AnnualBudget    float64 `json:"annual_budget,omitempty" yaml:"annual_budget,omitempty"`
	TotalRevenue    float64 `json:"total_revenue,omitempty" yaml:"total_revenue,omitempty"`
	TotalExpenses   float64 `json:"total_expenses,omitempty" yaml:"total_expenses,omitempty"`
	RequestedAmount float64 `json:"requested_amount,omitempty" yaml:"requested_amount,omitempty"`
	FiscalYear      string  `json:"fiscal_year,omitempty" yaml:"fiscal_year,omitempty"`
}

// TeamMember is a person listed in an extracted team record.
type TeamMember struct {
	Name string `json:"name" yaml:"name"`
	Role string `json:"role,omitempty" yaml:"role,omitempty"`
	Bio  string `json:"bio,omitempty" yaml:"bio,omitempty"`
}

// TeamData is team information extracted from a document.
type TeamData struct {
	Members []TeamMember `json:"members,omitempty" yaml:"members,omitempty"`
}

// ProgramData is program information extracted from a document.
type ProgramData struct {
	Name          string   `json:"name,omitempty" yaml:"name,omitempty"`
	Description   string   `json:"description,omitempty" yaml:"description,omitempty"`
	Beneficiaries string   `json:"beneficiaries,omitempty" yaml:"beneficiaries,omitempty"`
	Outcomes      []string `json:"outcomes,omitempty" yaml:"outcomes,omitempty"`
	StartDate     string   `json:"start_date,omitempty" yaml:"start_date,omitempty"`
	EndDate       string   `json:"end_date,omitempty" yaml:"end_date,omitempty"`
}

// DocumentExtraction is the typed output of the upstream document-intelligence step.
type DocumentExtraction struct {
	DocumentID   string            `json:"document_id" yaml:"document_id"`
	DocumentType string            `json:"document_type" yaml:"document_type"`
	Confidence   float64           `json:"confidence" yaml:"confidence"`
	Organization *OrganizationInfo `json:"organization,omitempty" yaml:"organization,omitempty"`
	Financial    *FinancialData    `json:"financial,omitempty" yaml:"financial,omitempty"`
	Team         *TeamData         `json:"team,omitempty" yaml:"team,omitempty"`
	Program      *ProgramData      `json:"program,omitempty" yaml:"program,omitempty"`
}

// ApplicationStatus is the lifecycle state of a prior application.
type ApplicationStatus string

const (
	StatusDraft     ApplicationStatus = "draft"
	StatusSubmitted ApplicationStatus = "submitted"
	StatusAwarded   ApplicationStatus = "awarded"
	StatusRejected  ApplicationStatus = "rejected"
)

// PriorApplication is a previously completed application.
type PriorApplication struct {
	ID          string            `json:"id" yaml:"id"`
	GrantTitle  string            `json:"grant_title,omitempty" yaml:"grant_title,omitempty"`
	Status      ApplicationStatus `json:"status" yaml:"status"`
	SubmittedAt time.Time         `json:"submitted_at" yaml:"submitted_at"`
	Answers     map[string]string `json:"answers" yaml:"answers"`
}

// KnowledgeBundle is everything known about an organization for one resolution pass.
// None of it is mutated by the engine.
type KnowledgeBundle struct {
	OrganizationID    string               `json:"organization_id" yaml:"organization_id"`
	Profile           *Profile             `json:"profile,omitempty" yaml:"profile,omitempty"`
	Documents         []DocumentExtraction `json:"documents,omitempty" yaml:"documents,omitempty"`
	PriorApplications []PriorApplication   `json:"prior_applications,omitempty" yaml:"prior_applications,omitempty"`
}

// IsEmpty reports whether no knowledge source carries any data.
func (k *KnowledgeBundle) IsEmpty() bool {
	return k == nil || (k.Profile == nil && len(k.Documents) == 0 && len(k.PriorApplications) == 0)
}

// Clone returns a copy whose slices and maps are not shared with k.
func (k *KnowledgeBundle) Clone() *KnowledgeBundle {
	if k == nil {
		return &KnowledgeBundle{}
	}
	out := &KnowledgeBundle{OrganizationID: k.OrganizationID}
	if k.Profile != nil {
		p := *k.Profile
		p.FocusAreas = append([]string(nil), k.Profile.FocusAreas...)
		p.Certifications = append([]string(nil), k.Profile.Certifications...)
		out.Profile = &p
	}
	out.Documents = append([]DocumentExtraction(nil), k.Documents...)
	out.PriorApplications = make([]PriorApplication, len(k.PriorApplications))
	for i, app := range k.PriorApplications {
		answers := make(map[string]string, len(app.Answers))
		for key, v := range app.Answers {
			answers[key] = v
		}
		app.Answers = answers
		out.PriorApplications[i] = app
	}
	return out
}

// UserContext is the caller-supplied organization context for a pass.
type UserContext struct {
	UserID             string           `json:"user_id,omitempty" yaml:"user_id,omitempty"`
	Knowledge          *KnowledgeBundle `json:"knowledge,omitempty" yaml:"knowledge,omitempty"`
	CustomInstructions string           `json:"custom_instructions,omitempty" yaml:"custom_instructions,omitempty"`
}
