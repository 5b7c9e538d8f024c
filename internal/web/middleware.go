package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/ivanmalyshevv/weblarek/internal/app"
)

// requestLogger logs one line per request through the app logger.
func requestLogger(log *app.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				entry := log.WithFields(map[string]any{
					"request_id": requestID(r),
					"method":     r.Method,
					"path":       r.URL.Path,
					"status":     ww.Status(),
					"bytes":      ww.BytesWritten(),
					"took":       time.Since(start).String(),
					"remote":     r.RemoteAddr,
				})
				if ww.Status() >= http.StatusInternalServerError {
					entry.Warn("request")
					return
				}
				entry.Debug("request")
			}()
			next.ServeHTTP(ww, r)
		})
	}
}

func requestID(r *http.Request) string {
	return middleware.GetReqID(r.Context())
}
