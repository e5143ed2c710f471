package rag

import (
	"context"
	"log/slog"

	"github.com/midonacion/causabot/internal/knowledge"
)

// Action values returned to API clients alongside the response text.
const (
	ActionNone          = "none"
	ActionOfferDonation = "offer_donation"
	ActionOfferDetails  = "offer_details"
)

// Canned Spanish responses for degraded situations. The model is never
// consulted for these.
const (
	emptyKnowledgeMessage  = "Lo siento, la base de conocimiento está vacía..."
	processingErrorMessage = "Lo siento, hubo un error al procesar tu solicitud."
)

// Fixed action parameters.
const (
	donationsURL      = "/donaciones"
	detailsButtonText = "Ver más detalles"
)

// Result is the complete answer to a user query: the text to display plus
// the UI action derived from the model's control tokens.
type Result struct {
	Text       string
	Action     string
	URL        string
	ButtonText string
}

// Searcher is the retrieval dependency of the pipeline.
type Searcher interface {
	Search(ctx context.Context, query string, topN int) ([]knowledge.Result, error)
	Count() int
}

// Pipeline runs the full retrieve-compose-generate-parse flow for a query.
type Pipeline struct {
	searcher  Searcher
	generator Generator
	parser    *IntentParser
	topN      int
	logger    *slog.Logger
}

// NewPipeline wires the pipeline. topN below 1 falls back to DefaultTopN.
func NewPipeline(searcher Searcher, generator Generator, topN int, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	if topN < 1 {
		topN = DefaultTopN
	}

	return &Pipeline{
		searcher:  searcher,
		generator: generator,
		parser:    NewIntentParser(logger),
		topN:      topN,
		logger:    logger,
	}
}

// Answer resolves a user query end to end. An empty index short-circuits to
// a canned message without calling the model. Retrieval or generation
// failures are logged and mapped to an apologetic message with no action;
// internal error details never reach the client.
func (p *Pipeline) Answer(ctx context.Context, query string) Result {
	if p.searcher.Count() == 0 {
		p.logger.Warn("query against empty knowledge base")
		return Result{Text: emptyKnowledgeMessage, Action: ActionNone}
	}

	hits, err := p.searcher.Search(ctx, query, p.topN)
	if err != nil {
		p.logger.Error("retrieval failed", "error", err)
		return Result{Text: processingErrorMessage, Action: ActionNone}
	}

	prompt := ComposePrompt(query, hits)

	text, err := p.generator.Generate(ctx, prompt)
	if err != nil {
		p.logger.Error("generation failed", "error", err)
		return Result{Text: processingErrorMessage, Action: ActionNone}
	}

	clean, intent := p.parser.Parse(text)

	switch intent.Signal {
	case SignalConfirmDonate:
		return Result{
			Text:   clean,
			Action: ActionOfferDonation,
			URL:    donationsURL,
		}
	case SignalShowDetails:
		return Result{
			Text:       clean,
			Action:     ActionOfferDetails,
			URL:        intent.URL,
			ButtonText: detailsButtonText,
		}
	default:
		return Result{Text: clean, Action: ActionNone}
	}
}
