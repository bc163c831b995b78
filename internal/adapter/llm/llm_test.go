package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"autoapply/internal/domain"
)

type fakeLLM struct {
	reply      string
	err        error
	lastSystem string
	lastUser   string
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string) (string, error) {
	return f.GenerateWithSystem(ctx, "", prompt)
}

func (f *fakeLLM) GenerateWithSystem(_ context.Context, system, user string) (string, error) {
	f.lastSystem, f.lastUser = system, user
	return f.reply, f.err
}

func (f *fakeLLM) ModelName() string { return "fake" }

func sampleRequest() domain.GenerationRequest {
	return domain.GenerationRequest{
		FieldID:  "need",
		Question: "Describe the need",
		Category: domain.CategoryProblemNeed,
		Context: domain.GenerationContext{
			GrantTitle:         "Community Literacy Fund",
			Funder:             "Acme Foundation",
			FunderType:         domain.FunderFoundation,
			Amount:             50000,
			Requirements:       []string{"Serve adults"},
			UserProfileSummary: "River City Literacy",
			CustomInstructions: "Mention the library partnership.",
		},
		Constraints: domain.GenerationConstraints{
			WordLimit: 300,
			Tone:      domain.ToneProfile{Formality: "warm", Emphasis: "community impact", Vocabulary: "plain"},
		},
	}
}

func TestChatClient(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"hello"}}]}`))
	}))
	defer srv.Close()

	c, err := NewChatClient(ClientOptions{Provider: "custom", Model: "m1", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("NewChatClient failed: %v", err)
	}

	out, err := c.GenerateWithSystem(context.Background(), "sys", "user")
	if err != nil {
		t.Fatalf("GenerateWithSystem failed: %v", err)
	}
	if out != "hello" {
		t.Errorf("expected hello, got %q", out)
	}
	if got.Model != "m1" || len(got.Messages) != 2 || got.Messages[0].Role != "system" {
		t.Errorf("unexpected request %+v", got)
	}
}

func TestChatClient_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c, _ := NewChatClient(ClientOptions{Provider: "custom", BaseURL: srv.URL})
	if _, err := c.Generate(context.Background(), "x"); err == nil {
		t.Error("expected error for non-200 status")
	}
}

func TestNewChatClient_MissingKey(t *testing.T) {
	t.Setenv("AUTOAPPLY_TEST_KEY", "")
	_, err := NewChatClient(ClientOptions{Provider: "openai", APIKeyEnv: "AUTOAPPLY_TEST_KEY"})
	if err == nil {
		t.Error("expected error when API key is missing")
	}
}

func TestGenerator_ParsesFencedJSON(t *testing.T) {
	llm := &fakeLLM{reply: "```json\n{\"content\":\" Adults in Springfield lack access. \",\"quality_score\":82,\"alternatives\":[\"alt\",\"\"]}\n```"}
	g := NewGenerator(llm, nil)

	resp, err := g.Generate(context.Background(), sampleRequest())
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if resp.Content != "Adults in Springfield lack access." {
		t.Errorf("unexpected content %q", resp.Content)
	}
	if resp.QualityScore != 82 {
		t.Errorf("expected score 82, got %v", resp.QualityScore)
	}
	if len(resp.Alternatives) != 1 {
		t.Errorf("expected 1 alternative, got %v", resp.Alternatives)
	}

	for _, want := range []string{"Community Literacy Fund", "Serve adults", "at most 300 words", "library partnership", "Describe the need"} {
		if !strings.Contains(llm.lastUser, want) {
			t.Errorf("prompt missing %q:\n%s", want, llm.lastUser)
		}
	}
}

func TestGenerator_Failures(t *testing.T) {
	tests := []struct {
		name  string
		llm   *fakeLLM
		match error
	}{
		{"transport error", &fakeLLM{err: errors.New("timeout")}, domain.ErrGenerationFailed},
		{"malformed", &fakeLLM{reply: "I cannot help with that"}, domain.ErrGenerationFailed},
		{"empty content", &fakeLLM{reply: `{"content":"   ","quality_score":90}`}, domain.ErrEmptyGeneration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewGenerator(tt.llm, nil).Generate(context.Background(), sampleRequest())
			if !errors.Is(err, tt.match) {
				t.Errorf("expected %v, got %v", tt.match, err)
			}
		})
	}
}

func TestGenerator_Critique(t *testing.T) {
	llm := &fakeLLM{reply: `{"score":74,"suggestions":["Add a baseline."],"revision":" Better. "}`}
	resp, err := NewGenerator(llm, nil).Critique(context.Background(), domain.CritiqueRequest{
		Question: "Evaluation plan", Content: "We will survey.", WordLimit: 200,
	})
	if err != nil {
		t.Fatalf("Critique failed: %v", err)
	}
	if resp.Score != 74 || len(resp.Suggestions) != 1 || resp.Revision != "Better." {
		t.Errorf("unexpected critique %+v", resp)
	}
	if !strings.Contains(llm.lastUser, "We will survey.") {
		t.Error("critique prompt must include the answer under review")
	}
}

func TestMockGenerator(t *testing.T) {
	m := NewMockGenerator(80)
	m.FailFields = map[string]bool{"bad": true}

	resp, err := m.Generate(context.Background(), sampleRequest())
	if err != nil || resp.Content == "" {
		t.Fatalf("expected content, got %q, %v", resp.Content, err)
	}

	req := sampleRequest()
	req.FieldID = "bad"
	if _, err := m.Generate(context.Background(), req); !errors.Is(err, domain.ErrGenerationFailed) {
		t.Errorf("expected ErrGenerationFailed, got %v", err)
	}
	if m.Calls("need") != 1 || m.Calls("bad") != 1 {
		t.Errorf("unexpected call counts")
	}
}
