package main

import (
	"crypto/rand"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/trace"
	"time"

	"github.com/myrjola/fitplan/internal/errors"
	"github.com/myrjola/fitplan/internal/logging"
)

// responseRecorder remembers the first status code sent to the client.
type responseRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *responseRecorder) WriteHeader(status int) {
	if rec.status == 0 {
		rec.status = status
	}
	rec.ResponseWriter.WriteHeader(status)
}

func (rec *responseRecorder) Write(b []byte) (int, error) {
	if rec.status == 0 {
		rec.status = http.StatusOK
	}
	n, err := rec.ResponseWriter.Write(b)
	if err != nil {
		return n, fmt.Errorf("write response: %w", err)
	}
	return n, nil
}

func (rec *responseRecorder) Unwrap() http.ResponseWriter {
	return rec.ResponseWriter
}

// statusCode is 200 when the handler wrote nothing, matching what net/http sends.
func (rec *responseRecorder) statusCode() int {
	if rec.status == 0 {
		return http.StatusOK
	}
	return rec.status
}

// apiHeaders marks every response as an uncacheable JSON API response that browsers must never render or frame.
func apiHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'; base-uri 'none'")
		h.Set("Referrer-Policy", "no-referrer")
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "deny")
		h.Set("Cross-Origin-Resource-Policy", "cross-origin")
		h.Set("Strict-Transport-Security", "max-age=63072000; includeSubDomains; preload")
		h.Set("Cache-Control", "no-store")

		next.ServeHTTP(w, r)
	})
}

// logRequests gives each request a request_id for log correlation and runs it as a runtime/trace task. Requests that
// take at least slowRequestThreshold leave a flight recorder trace when the recorder is enabled.
func (app *application) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx := logging.WithAttrs(r.Context(),
			slog.String("request_id", rand.Text()),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("remote_addr", r.RemoteAddr))
		ctx, task := trace.NewTask(ctx, "HTTP "+r.Method+" "+r.URL.Path)
		defer task.End()

		rec := &responseRecorder{ResponseWriter: w, status: 0}
		next.ServeHTTP(rec, r.WithContext(ctx))

		elapsed := time.Since(start)
		status := rec.statusCode()
		level := slog.LevelInfo
		if status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		app.logger.LogAttrs(ctx, level, "request completed",
			slog.Int("status_code", status),
			slog.Int64("request_bytes", r.ContentLength),
			slog.Duration("duration", elapsed))

		if app.flightRecorder != nil && elapsed >= app.slowRequestThreshold {
			app.flightRecorder.CaptureSlowRequestTrace(ctx, elapsed)
		}
	})
}

func (app *application) recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			excp := recover()
			if excp == nil {
				return
			}
			if excp == http.ErrAbortHandler { //nolint:errorlint // sentinel panic value.
				panic(excp)
			}
			app.serverError(w, r, errors.DecoratePanic(excp))
		}()

		next.ServeHTTP(w, r)
	})
}
