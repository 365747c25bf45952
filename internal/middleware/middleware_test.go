package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/physim/physim/internal/logger"
)

func TestRecoverPassesThroughWhenNoPanic(t *testing.T) {
	handler := Recover(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/healthz", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}
}

func TestRecoverCatchesPanicAndReturns500(t *testing.T) {
	handler := Recover(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	req := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", w.Code)
	}
}

func TestRunIDGeneratesWhenAbsent(t *testing.T) {
	var seen string
	handler := RunID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = r.Context().Value(logger.RunIDKey).(string)
	}))

	req := httptest.NewRequest("GET", "/healthz", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Header().Get("X-Run-ID") == "" {
		t.Error("expected X-Run-ID response header to be set")
	}
	if seen == "" {
		t.Error("expected a run id to be attached to the request context")
	}
}

func TestRunIDPropagatesExistingHeader(t *testing.T) {
	handler := RunID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest("GET", "/healthz", nil)
	req.Header.Set("X-Run-ID", "fixed-id")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if got := w.Header().Get("X-Run-ID"); got != "fixed-id" {
		t.Errorf("expected run id to be propagated unchanged, got %q", got)
	}
}
