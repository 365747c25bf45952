// Package middleware wraps cmd/physimd's admin HTTP handlers with panic
// recovery and run-id propagation. Adapted from the teacher's
// internal/middleware/recovery.go and requestid.go: the teacher's broad
// middleware stack (CORS, ETag, gzip, request validation, a second
// rate limiter) served a public REST API and has no referent on an
// admin server exposing only /metrics and /healthz, so only the two
// middlewares every HTTP surface in the pack carries regardless of
// domain are kept.
package middleware

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"runtime/debug"

	"github.com/physim/physim/internal/errorreport"
	"github.com/physim/physim/internal/logger"
)

// Recover catches a panic in the wrapped handler, logs it, reports it
// via errorreport, and returns 500 instead of crashing the admin server.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.ErrorContext(r.Context(), "panic recovered in admin handler",
					"error", rec, "stack", string(debug.Stack()), "method", r.Method, "path", r.URL.Path)
				errorreport.CapturePanic(rec, "", "admin-http", "")
				http.Error(w, "internal server error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// RunID attaches a run id to the request context (generating one if the
// caller didn't supply X-Run-ID), so handler-side logging lines up with
// the same run id a pipeline step reports under.
func RunID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		runID := r.Header.Get("X-Run-ID")
		if runID == "" {
			runID = generateRunID()
		}
		w.Header().Set("X-Run-ID", runID)
		ctx := context.WithValue(r.Context(), logger.RunIDKey, runID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func generateRunID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "unknown"
	}
	return hex.EncodeToString(b)
}
