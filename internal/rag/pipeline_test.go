package rag

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/midonacion/causabot/internal/knowledge"
	"github.com/midonacion/causabot/internal/log"
)

// stubSearcher implements Searcher with scripted results.
type stubSearcher struct {
	count       int
	results     []knowledge.Result
	err         error
	searchCalls int
	lastTopN    int
}

func (s *stubSearcher) Search(_ context.Context, _ string, topN int) ([]knowledge.Result, error) {
	s.searchCalls++
	s.lastTopN = topN
	if s.err != nil {
		return nil, s.err
	}
	return s.results, nil
}

func (s *stubSearcher) Count() int { return s.count }

// stubGenerator implements Generator with a scripted response.
type stubGenerator struct {
	response   string
	err        error
	calls      int
	lastPrompt string
}

func (g *stubGenerator) Generate(_ context.Context, prompt string) (string, error) {
	g.calls++
	g.lastPrompt = prompt
	if g.err != nil {
		return "", g.err
	}
	return g.response, nil
}

func TestPipelineAnswerEmptyIndex(t *testing.T) {
	searcher := &stubSearcher{count: 0}
	generator := &stubGenerator{response: "no debería llamarse"}

	p := NewPipeline(searcher, generator, 2, log.NewNop())
	got := p.Answer(context.Background(), "quiero ayudar")

	if got.Text != emptyKnowledgeMessage {
		t.Errorf("Text = %q, want canned empty-knowledge message", got.Text)
	}
	if got.Action != ActionNone {
		t.Errorf("Action = %q, want %q", got.Action, ActionNone)
	}

	// The short-circuit happens before retrieval and generation.
	if searcher.searchCalls != 0 {
		t.Errorf("searchCalls = %d, want 0", searcher.searchCalls)
	}
	if generator.calls != 0 {
		t.Errorf("generator calls = %d, want 0", generator.calls)
	}
}

func TestPipelineAnswerActions(t *testing.T) {
	hits := []knowledge.Result{
		{Document: knowledge.Document{ID: "103", Content: "ID de la Causa: 103. Título: Patitas Felices."}},
	}

	tests := []struct {
		name           string
		modelResponse  string
		wantText       string
		wantAction     string
		wantURL        string
		wantButtonText string
	}{
		{
			name:          "plain recommendation",
			modelResponse: "Te recomiendo Patitas Felices.",
			wantText:      "Te recomiendo Patitas Felices.",
			wantAction:    ActionNone,
		},
		{
			name:          "donation confirmation",
			modelResponse: "¿Confirmas tu donación? [INTENT:CONFIRM_DONATE]",
			wantText:      "¿Confirmas tu donación?",
			wantAction:    ActionOfferDonation,
			wantURL:       "/donaciones",
		},
		{
			name:           "details offer",
			modelResponse:  "Patitas Felices rescata animales. [INTENT:SHOW_DETAILS][URL:/iniciativa/103]",
			wantText:       "Patitas Felices rescata animales.",
			wantAction:     ActionOfferDetails,
			wantURL:        "/iniciativa/103",
			wantButtonText: "Ver más detalles",
		},
		{
			name:          "malformed details degrades to plain text",
			modelResponse: "Patitas Felices rescata animales. [INTENT:SHOW_DETAILS]",
			wantText:      "Patitas Felices rescata animales.",
			wantAction:    ActionNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			searcher := &stubSearcher{count: 1, results: hits}
			generator := &stubGenerator{response: tt.modelResponse}

			p := NewPipeline(searcher, generator, 2, log.NewNop())
			got := p.Answer(context.Background(), "háblame de Patitas Felices")

			if got.Text != tt.wantText {
				t.Errorf("Text = %q, want %q", got.Text, tt.wantText)
			}
			if got.Action != tt.wantAction {
				t.Errorf("Action = %q, want %q", got.Action, tt.wantAction)
			}
			if got.URL != tt.wantURL {
				t.Errorf("URL = %q, want %q", got.URL, tt.wantURL)
			}
			if got.ButtonText != tt.wantButtonText {
				t.Errorf("ButtonText = %q, want %q", got.ButtonText, tt.wantButtonText)
			}
		})
	}
}

func TestPipelineAnswerPromptContainsContext(t *testing.T) {
	searcher := &stubSearcher{
		count: 2,
		results: []knowledge.Result{
			{Document: knowledge.Document{ID: "103", Content: "ID de la Causa: 103. Título: Patitas Felices."}},
			{Document: knowledge.Document{ID: "101", Content: "ID de la Causa: 101. Título: Fondo Global."}},
		},
	}
	generator := &stubGenerator{response: "ok"}

	p := NewPipeline(searcher, generator, 2, log.NewNop())
	p.Answer(context.Background(), "quiero ayudar a animales")

	if searcher.lastTopN != 2 {
		t.Errorf("lastTopN = %d, want 2", searcher.lastTopN)
	}
	if !strings.Contains(generator.lastPrompt, "### CAUSA 1\nID de la Causa: 103.") {
		t.Error("prompt should carry the first retrieved document")
	}
	if !strings.Contains(generator.lastPrompt, "Pregunta del usuario: 'quiero ayudar a animales'") {
		t.Error("prompt should carry the user question")
	}
}

func TestPipelineAnswerErrorPaths(t *testing.T) {
	tests := []struct {
		name      string
		searcher  *stubSearcher
		generator *stubGenerator
	}{
		{
			name:      "retrieval failure",
			searcher:  &stubSearcher{count: 1, err: errors.New("query failed")},
			generator: &stubGenerator{response: "no debería llamarse"},
		},
		{
			name:      "generation failure",
			searcher:  &stubSearcher{count: 1},
			generator: &stubGenerator{err: errors.New("model unavailable")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPipeline(tt.searcher, tt.generator, 2, log.NewNop())
			got := p.Answer(context.Background(), "hola")

			if got.Text != processingErrorMessage {
				t.Errorf("Text = %q, want canned error message", got.Text)
			}
			if got.Action != ActionNone {
				t.Errorf("Action = %q, want %q", got.Action, ActionNone)
			}
			// Raw error details never reach the client.
			if strings.Contains(got.Text, "query failed") || strings.Contains(got.Text, "model unavailable") {
				t.Errorf("Text %q leaks internal error details", got.Text)
			}
		})
	}
}

func TestPipelineDefaultTopN(t *testing.T) {
	searcher := &stubSearcher{count: 1}
	generator := &stubGenerator{response: "ok"}

	p := NewPipeline(searcher, generator, 0, log.NewNop())
	p.Answer(context.Background(), "hola")

	if searcher.lastTopN != DefaultTopN {
		t.Errorf("lastTopN = %d, want %d", searcher.lastTopN, DefaultTopN)
	}
}
