package rag

import (
	"log/slog"
	"strings"
)

// Signal classifies the control token found in a model response.
type Signal int

const (
	// SignalNone means the response carried no actionable token.
	SignalNone Signal = iota
	// SignalConfirmDonate means the user confirmed a donation.
	SignalConfirmDonate
	// SignalShowDetails means the user asked for cause details.
	SignalShowDetails
)

// String returns the signal name for logging.
func (s Signal) String() string {
	switch s {
	case SignalConfirmDonate:
		return "confirm_donate"
	case SignalShowDetails:
		return "show_details"
	default:
		return "none"
	}
}

// Intent is the structured outcome of parsing a model response.
type Intent struct {
	Signal Signal
	URL    string // Detail page path; set only for SignalShowDetails
}

// IntentParser extracts control tokens from generated text.
type IntentParser struct {
	logger *slog.Logger
}

// NewIntentParser creates a parser. A nil logger falls back to the default.
func NewIntentParser(logger *slog.Logger) *IntentParser {
	if logger == nil {
		logger = slog.Default()
	}
	return &IntentParser{logger: logger}
}

// Parse splits a model response into user-facing text and a structured
// intent. The donation token wins over the details token when both appear.
// A details token without a well-formed URL token is stripped from the text
// but yields no signal, so a malformed response degrades to plain text
// instead of a broken action. Responses without tokens pass through
// unchanged.
func (p *IntentParser) Parse(text string) (string, Intent) {
	if strings.Contains(text, TokenConfirmDonate) {
		clean := strings.TrimSpace(strings.ReplaceAll(text, TokenConfirmDonate, ""))
		return clean, Intent{Signal: SignalConfirmDonate}
	}

	if strings.Contains(text, TokenShowDetails) {
		clean := strings.ReplaceAll(text, TokenShowDetails, "")

		url := ""
		if m := urlTokenPattern.FindStringSubmatch(clean); m != nil {
			url = m[1]
		}
		clean = strings.TrimSpace(urlTokenPattern.ReplaceAllString(clean, ""))

		if url == "" {
			p.logger.Warn("details token without URL, degrading to plain text")
			return clean, Intent{Signal: SignalNone}
		}

		return clean, Intent{Signal: SignalShowDetails, URL: url}
	}

	return text, Intent{Signal: SignalNone}
}
