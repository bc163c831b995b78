package llm

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"autoapply/internal/domain"
)

// MockGenerator produces deterministic answers without a network round trip.
// Fields listed in FailFields return ErrGenerationFailed.
type MockGenerator struct {
	QualityScore float64
	FailFields   map[string]bool

	mu    sync.Mutex
	calls map[string]int
}

// NewMockGenerator creates a mock reporting the given quality score.
func NewMockGenerator(qualityScore float64) *MockGenerator {
	return &MockGenerator{QualityScore: qualityScore, calls: make(map[string]int)}
}

// Generate implements port.Generator.
func (m *MockGenerator) Generate(ctx context.Context, req domain.GenerationRequest) (domain.GenerationResponse, error) {
	if err := ctx.Err(); err != nil {
		return domain.GenerationResponse{}, err
	}

	m.mu.Lock()
	if m.calls == nil {
		m.calls = make(map[string]int)
	}
	m.calls[req.FieldID]++
	fail := m.FailFields[req.FieldID]
	m.mu.Unlock()

	if fail {
		return domain.GenerationResponse{}, fmt.Errorf("%w: mock failure for %s", domain.ErrGenerationFailed, req.FieldID)
	}

	org := firstLine(req.Context.UserProfileSummary)
	if org == "" {
		org = "Our organization"
	}
	content := fmt.Sprintf("%s responds to %q for %s. %s",
		org, req.Question, req.Context.GrantTitle, req.Context.CustomInstructions)

	return domain.GenerationResponse{
		Content:      strings.TrimSpace(content),
		QualityScore: m.QualityScore,
	}, nil
}

// Critique implements port.Critic.
func (m *MockGenerator) Critique(ctx context.Context, req domain.CritiqueRequest) (domain.CritiqueResponse, error) {
	if err := ctx.Err(); err != nil {
		return domain.CritiqueResponse{}, err
	}
	return domain.CritiqueResponse{
		Score:       m.QualityScore,
		Suggestions: []string{"Tie each claim to a measurable outcome."},
	}, nil
}

// Calls returns how many times a field was generated.
func (m *MockGenerator) Calls(fieldID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[fieldID]
}

// ModelName reports the mock's model name.
func (m *MockGenerator) ModelName() string {
	return "mock"
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(line)
}
