package port

import "autoapply/internal/domain"

// ApplicationStore persists working application state.
// Implementations must be safe for concurrent use.
type ApplicationStore interface {
	SaveApplication(state *domain.ApplicationState) error

	GetApplication(id string) (*domain.ApplicationState, error)

	ListApplications() ([]string, error)

	// PutValue atomically replaces one field's resolved value.
	PutValue(appID string, value domain.ResolvedValue) error

	DeleteApplication(id string) error
}

// KnowledgeStore persists organization knowledge bundles.
type KnowledgeStore interface {
	PutKnowledge(bundle *domain.KnowledgeBundle) error

	GetKnowledge(orgID string) (*domain.KnowledgeBundle, error)
}
