package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/midonacion/causabot/internal/log"
	"github.com/midonacion/causabot/internal/rag"
)

// stubCounter implements Counter with a fixed document count.
type stubCounter struct{ n int }

func (s stubCounter) Count() int { return s.n }

func newTestServer(t *testing.T, cfg ServerConfig) *Server {
	t.Helper()
	if cfg.Logger == nil {
		cfg.Logger = log.NewNop()
	}
	srv, err := NewServer(cfg)
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	return srv
}

func TestNewServerRequiresAnswerer(t *testing.T) {
	if _, err := NewServer(ServerConfig{Logger: log.NewNop()}); err == nil {
		t.Fatal("NewServer() error = nil, want error without answerer")
	}
}

func TestServerChatRoute(t *testing.T) {
	answerer := &stubAnswerer{result: rag.Result{
		Text:   "¿Confirmas tu donación?",
		Action: rag.ActionOfferDonation,
		URL:    "/donaciones",
	}}
	srv := newTestServer(t, ServerConfig{Answerer: answerer})

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/chat",
		strings.NewReader(`{"prompt": "quiero donar"}`))
	r.RemoteAddr = "10.0.0.1:1234"

	srv.Handler().ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if got := w.Header().Get("X-Request-ID"); got == "" {
		t.Error("X-Request-ID header missing")
	}

	var body chatResponse
	decodeData(t, w, &body)
	if body.Action != rag.ActionOfferDonation || body.URL != "/donaciones" {
		t.Errorf("unexpected body: %+v", body)
	}
}

func TestServerMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t, ServerConfig{Answerer: &stubAnswerer{}})

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/chat", nil)
	r.RemoteAddr = "10.0.0.1:1234"

	srv.Handler().ServeHTTP(w, r)

	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusMethodNotAllowed)
	}
}

func TestServerHealthAndReady(t *testing.T) {
	srv := newTestServer(t, ServerConfig{
		Answerer: &stubAnswerer{},
		Index:    stubCounter{n: 5},
	})

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("/health status = %d, want %d", w.Code, http.StatusOK)
	}

	w = httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("/ready status = %d, want %d", w.Code, http.StatusOK)
	}

	var ready map[string]any
	decodeData(t, w, &ready)
	if ready["documents"] != float64(5) {
		t.Errorf("documents = %v, want 5", ready["documents"])
	}
}

func TestServerCORSPreflight(t *testing.T) {
	srv := newTestServer(t, ServerConfig{
		Answerer:    &stubAnswerer{},
		CORSOrigins: []string{"http://localhost:5173"},
	})

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodOptions, "/api/chat", nil)
	r.Header.Set("Origin", "http://localhost:5173")
	r.RemoteAddr = "10.0.0.1:1234"

	srv.Handler().ServeHTTP(w, r)

	if w.Code != http.StatusNoContent {
		t.Fatalf("preflight status = %d, want %d", w.Code, http.StatusNoContent)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("Allow-Origin = %q", got)
	}

	// An origin not on the list gets no CORS headers.
	w = httptest.NewRecorder()
	r = httptest.NewRequest(http.MethodOptions, "/api/chat", nil)
	r.Header.Set("Origin", "http://evil.example")
	r.RemoteAddr = "10.0.0.1:1234"

	srv.Handler().ServeHTTP(w, r)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("Allow-Origin = %q for unlisted origin, want empty", got)
	}
}

func TestServerRateLimit(t *testing.T) {
	srv := newTestServer(t, ServerConfig{
		Answerer:  &stubAnswerer{result: rag.Result{Text: "ok", Action: rag.ActionNone}},
		RateBurst: 1,
	})

	body := `{"prompt": "hola"}`

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(body))
	r.RemoteAddr = "10.0.0.9:1234"
	srv.Handler().ServeHTTP(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("first request status = %d, want %d", w.Code, http.StatusOK)
	}

	// The burst is spent; the immediate follow-up is rejected.
	w = httptest.NewRecorder()
	r = httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(body))
	r.RemoteAddr = "10.0.0.9:1234"
	srv.Handler().ServeHTTP(w, r)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("second request status = %d, want %d", w.Code, http.StatusTooManyRequests)
	}
	if got := w.Header().Get("Retry-After"); got != "1" {
		t.Errorf("Retry-After = %q, want %q", got, "1")
	}

	// A different client is unaffected.
	w = httptest.NewRecorder()
	r = httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(body))
	r.RemoteAddr = "10.0.0.10:1234"
	srv.Handler().ServeHTTP(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("other client status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestServerRecoversFromPanic(t *testing.T) {
	panicking := answererFunc(func() { panic("boom") })
	srv := newTestServer(t, ServerConfig{Answerer: panicking})

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/chat",
		strings.NewReader(`{"prompt": "hola"}`))
	r.RemoteAddr = "10.0.0.1:1234"

	srv.Handler().ServeHTTP(w, r)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusInternalServerError)
	}
}

// answererFunc adapts a func into an Answerer for panic tests.
type answererFunc func()

func (f answererFunc) Answer(_ context.Context, _ string) rag.Result {
	f()
	return rag.Result{}
}
