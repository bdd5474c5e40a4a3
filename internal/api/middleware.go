package api

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

// requestLogger logs one line per request through slog.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			defer func() {
				status := ww.Status()
				if status == 0 {
					status = http.StatusOK
				}
				level := slog.LevelDebug
				switch {
				case status >= 500:
					level = slog.LevelError
				case status >= 400:
					level = slog.LevelWarn
				}
				logger.Log(r.Context(), level, "http request",
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.Int("status", status),
					slog.Int("bytes", ww.BytesWritten()),
					slog.Duration("duration", time.Since(start)),
					slog.String("request_id", middleware.GetReqID(r.Context())),
				)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}

// clientIP returns the request's client address without a port. RealIP has
// already folded forwarding headers into remoteAddr.
func clientIP(remoteAddr string) string {
	if strings.HasPrefix(remoteAddr, "[") {
		if end := strings.Index(remoteAddr, "]"); end > 0 {
			return remoteAddr[1:end]
		}
	}
	if i := strings.LastIndexByte(remoteAddr, ':'); i >= 0 && strings.Count(remoteAddr, ":") == 1 {
		return remoteAddr[:i]
	}
	return remoteAddr
}
