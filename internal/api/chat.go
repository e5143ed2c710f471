package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/midonacion/causabot/internal/rag"
)

// promptRequiredMessage is returned when the prompt field is missing or empty.
const promptRequiredMessage = "Error: Se requiere el campo 'prompt'."

// maxPromptBytes bounds the request body size.
const maxPromptBytes = 64 << 10

// Answerer resolves a user query into a displayable result.
type Answerer interface {
	Answer(ctx context.Context, query string) rag.Result
}

// chatHandler serves the conversational endpoint.
type chatHandler struct {
	answerer Answerer
	logger   *slog.Logger
}

// chatRequest is the inbound payload of POST /api/chat.
type chatRequest struct {
	Prompt string `json:"prompt"`
}

// chatResponse is the outbound payload. Every field is always present so
// clients can read actions without existence checks.
type chatResponse struct {
	Respuesta  string `json:"respuesta"`
	Action     string `json:"action"`
	URL        string `json:"url"`
	ButtonText string `json:"button_text"`
}

// send handles POST /api/chat.
func (h *chatHandler) send(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxPromptBytes)

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"respuesta": promptRequiredMessage})
		return
	}

	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"respuesta": promptRequiredMessage})
		return
	}

	result := h.answerer.Answer(r.Context(), prompt)

	requestID, _ := requestIDFromContext(r.Context())
	h.logger.Info("chat answered",
		"action", result.Action,
		"request_id", requestID,
	)

	writeJSON(w, http.StatusOK, chatResponse{
		Respuesta:  result.Text,
		Action:     result.Action,
		URL:        result.URL,
		ButtonText: result.ButtonText,
	})
}
