package llm

import (
	"context"
	"errors"
	"testing"

	"google.golang.org/genai"

	"mbti-universe/internal/config"
)

func TestGeminiClient_MissingKeyFailsBeforeNetwork(t *testing.T) {
	client := NewGeminiClient("", "", 0.7, nil)

	if _, err := client.Generate(context.Background(), nil, "hola"); !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
	if _, err := client.GenerateStream(context.Background(), nil, "hola", nil); !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey on stream, got %v", err)
	}
	if client.client != nil {
		t.Fatalf("expected genai client not to be created")
	}
	if client.model != defaultGeminiModel {
		t.Fatalf("expected default model, got %q", client.model)
	}
}

func TestToGeminiHistory_MapsRoles(t *testing.T) {
	contents := toGeminiHistory([]Turn{
		{Role: "model", Text: "welcome"},
		{Role: "user", Text: "q1"},
		{Role: "assistant", Text: "a1"},
	})
	if len(contents) != 3 {
		t.Fatalf("expected 3 contents, got %d", len(contents))
	}
	want := []string{string(genai.RoleModel), string(genai.RoleUser), string(genai.RoleModel)}
	for i, c := range contents {
		if c.Role != want[i] {
			t.Fatalf("content %d: expected role %s, got %s", i, want[i], c.Role)
		}
		if len(c.Parts) != 1 {
			t.Fatalf("content %d: expected one part", i)
		}
	}
	if contents[1].Parts[0].Text != "q1" {
		t.Fatalf("unexpected text %q", contents[1].Parts[0].Text)
	}
}

func TestNewGenerator(t *testing.T) {
	cases := []struct {
		provider string
		wantErr  bool
		check    func(Generator) bool
	}{
		{provider: "", check: func(g Generator) bool { _, ok := g.(*GeminiClient); return ok }},
		{provider: "Gemini", check: func(g Generator) bool { _, ok := g.(*GeminiClient); return ok }},
		{provider: "openai", check: func(g Generator) bool { _, ok := g.(*HTTPClient); return ok }},
		{provider: "unknown", wantErr: true},
	}
	for _, c := range cases {
		gen, err := NewGenerator(&config.Config{LLMProvider: c.provider}, nil)
		if c.wantErr {
			if err == nil {
				t.Fatalf("provider %q: expected error", c.provider)
			}
			continue
		}
		if err != nil {
			t.Fatalf("provider %q: unexpected error %v", c.provider, err)
		}
		if !c.check(gen) {
			t.Fatalf("provider %q: unexpected generator %T", c.provider, gen)
		}
	}
}

func TestNewGeneratorWithInstruction(t *testing.T) {
	gen, err := NewGenerator(&config.Config{}, nil)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if gen.(*GeminiClient).system != SystemInstruction {
		t.Fatalf("expected consultant persona by default")
	}

	judge, err := NewGeneratorWithInstruction(&config.Config{}, nil, "evalúa")
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if judge.(*GeminiClient).system != "evalúa" {
		t.Fatalf("expected judge instruction, got %q", judge.(*GeminiClient).system)
	}

	plain, err := NewGeneratorWithInstruction(&config.Config{LLMProvider: "openai"}, nil, "")
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if plain.(*HTTPClient).system != "" {
		t.Fatalf("expected no system instruction, got %q", plain.(*HTTPClient).system)
	}
}
