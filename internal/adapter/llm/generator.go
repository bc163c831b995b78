package llm

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"go.uber.org/zap"

	"autoapply/internal/domain"
	"autoapply/internal/port"
)

//go:embed prompts/*
var promptFS embed.FS

var (
	generateSystem = mustRead("prompts/generate_system.txt")
	critiqueSystem = mustRead("prompts/critique_system.txt")
	generateUser   = template.Must(template.ParseFS(promptFS, "prompts/generate_user.tmpl"))
	critiqueUser   = template.Must(template.ParseFS(promptFS, "prompts/critique_user.tmpl"))
)

func mustRead(name string) string {
	data, err := promptFS.ReadFile(name)
	if err != nil {
		panic(err)
	}
	return string(data)
}

// Generator implements port.Generator and port.Critic on top of a chat model.
type Generator struct {
	llm    port.LLM
	logger *zap.Logger
}

// NewGenerator wraps an LLM. A nil logger disables logging.
func NewGenerator(llm port.LLM, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{llm: llm, logger: logger.Named("generator")}
}

type generationPayload struct {
	Content      string   `json:"content"`
	QualityScore float64  `json:"quality_score"`
	Alternatives []string `json:"alternatives"`
}

// Generate implements port.Generator. Malformed output is reported as
// ErrGenerationFailed and blank output as ErrEmptyGeneration.
func (g *Generator) Generate(ctx context.Context, req domain.GenerationRequest) (domain.GenerationResponse, error) {
	userPrompt, err := render(generateUser, req)
	if err != nil {
		return domain.GenerationResponse{}, err
	}

	raw, err := g.llm.GenerateWithSystem(ctx, generateSystem, userPrompt)
	if err != nil {
		return domain.GenerationResponse{}, fmt.Errorf("%w: %v", domain.ErrGenerationFailed, err)
	}

	var payload generationPayload
	if err := json.Unmarshal([]byte(extractJSON(raw)), &payload); err != nil {
		g.logger.Debug("unparseable generation output", zap.String("field_id", req.FieldID), zap.Int("bytes", len(raw)))
		return domain.GenerationResponse{}, fmt.Errorf("%w: malformed response: %v", domain.ErrGenerationFailed, err)
	}

	content := strings.TrimSpace(payload.Content)
	if content == "" {
		return domain.GenerationResponse{}, domain.ErrEmptyGeneration
	}

	alternatives := make([]string, 0, len(payload.Alternatives))
	for _, alt := range payload.Alternatives {
		if alt = strings.TrimSpace(alt); alt != "" && alt != content {
			alternatives = append(alternatives, alt)
		}
	}

	return domain.GenerationResponse{
		Content:      content,
		QualityScore: payload.QualityScore,
		Alternatives: alternatives,
	}, nil
}

// Critique implements port.Critic.
func (g *Generator) Critique(ctx context.Context, req domain.CritiqueRequest) (domain.CritiqueResponse, error) {
	userPrompt, err := render(critiqueUser, req)
	if err != nil {
		return domain.CritiqueResponse{}, err
	}

	raw, err := g.llm.GenerateWithSystem(ctx, critiqueSystem, userPrompt)
	if err != nil {
		return domain.CritiqueResponse{}, fmt.Errorf("critique request failed: %w", err)
	}

	var resp domain.CritiqueResponse
	if err := json.Unmarshal([]byte(extractJSON(raw)), &resp); err != nil {
		return domain.CritiqueResponse{}, fmt.Errorf("failed to parse critique: %w", err)
	}
	resp.Revision = strings.TrimSpace(resp.Revision)
	return resp, nil
}

func render(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render prompt: %w", err)
	}
	return buf.String(), nil
}

// extractJSON returns the outermost JSON object in s, ignoring code fences and chatter.
func extractJSON(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		return s[start : end+1]
	}
	return s
}
