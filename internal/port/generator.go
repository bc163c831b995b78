package port

import (
	"context"

	"autoapply/internal/domain"
)

// Generator is the external text-generation collaborator.
type Generator interface {
	// Generate authors content for a single field.
	Generate(ctx context.Context, req domain.GenerationRequest) (domain.GenerationResponse, error)
}

// Critic reviews existing content on demand.
type Critic interface {
	Critique(ctx context.Context, req domain.CritiqueRequest) (domain.CritiqueResponse, error)
}
