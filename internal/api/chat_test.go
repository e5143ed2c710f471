package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/midonacion/causabot/internal/log"
	"github.com/midonacion/causabot/internal/rag"
)

// stubAnswerer returns a fixed result and records the last query.
type stubAnswerer struct {
	result    rag.Result
	lastQuery string
	calls     int
}

func (s *stubAnswerer) Answer(_ context.Context, query string) rag.Result {
	s.calls++
	s.lastQuery = query
	return s.result
}

// decodeData decodes the recorded JSON body into v.
func decodeData(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("decoding response body: %v", err)
	}
}

func TestChatSend(t *testing.T) {
	answerer := &stubAnswerer{result: rag.Result{
		Text:       "Patitas Felices rescata animales.",
		Action:     rag.ActionOfferDetails,
		URL:        "/iniciativa/103",
		ButtonText: "Ver más detalles",
	}}
	h := &chatHandler{answerer: answerer, logger: log.NewNop()}

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/chat",
		strings.NewReader(`{"prompt": "háblame de Patitas Felices"}`))

	h.send(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("send() status = %d, want %d", w.Code, http.StatusOK)
	}

	var body chatResponse
	decodeData(t, w, &body)

	if body.Respuesta != "Patitas Felices rescata animales." {
		t.Errorf("respuesta = %q", body.Respuesta)
	}
	if body.Action != rag.ActionOfferDetails {
		t.Errorf("action = %q, want %q", body.Action, rag.ActionOfferDetails)
	}
	if body.URL != "/iniciativa/103" {
		t.Errorf("url = %q, want %q", body.URL, "/iniciativa/103")
	}
	if body.ButtonText != "Ver más detalles" {
		t.Errorf("button_text = %q", body.ButtonText)
	}

	if answerer.lastQuery != "háblame de Patitas Felices" {
		t.Errorf("answerer received %q", answerer.lastQuery)
	}
}

func TestChatSendAlwaysCarriesActionFields(t *testing.T) {
	// A plain answer still serializes every field so clients need no
	// existence checks.
	answerer := &stubAnswerer{result: rag.Result{
		Text:   "Te recomiendo el Fondo Global.",
		Action: rag.ActionNone,
	}}
	h := &chatHandler{answerer: answerer, logger: log.NewNop()}

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/chat",
		strings.NewReader(`{"prompt": "quiero ayudar"}`))

	h.send(w, r)

	var raw map[string]any
	decodeData(t, w, &raw)

	for _, field := range []string{"respuesta", "action", "url", "button_text"} {
		if _, ok := raw[field]; !ok {
			t.Errorf("response missing field %q", field)
		}
	}
	if raw["action"] != rag.ActionNone {
		t.Errorf("action = %v, want %q", raw["action"], rag.ActionNone)
	}
}

func TestChatSendBadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing prompt field", `{}`},
		{"empty prompt", `{"prompt": ""}`},
		{"whitespace prompt", `{"prompt": "   "}`},
		{"malformed JSON", `{"prompt": `},
		{"empty body", ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			answerer := &stubAnswerer{}
			h := &chatHandler{answerer: answerer, logger: log.NewNop()}

			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(tt.body))

			h.send(w, r)

			if w.Code != http.StatusBadRequest {
				t.Fatalf("send() status = %d, want %d", w.Code, http.StatusBadRequest)
			}

			var body map[string]string
			decodeData(t, w, &body)
			if body["respuesta"] != promptRequiredMessage {
				t.Errorf("respuesta = %q, want %q", body["respuesta"], promptRequiredMessage)
			}

			if answerer.calls != 0 {
				t.Errorf("answerer called %d times on bad request, want 0", answerer.calls)
			}
		})
	}
}
