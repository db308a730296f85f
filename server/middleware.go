package server

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/kasuboski/reelbox/pkg/logger"
)

const requestIDHeader = "X-Request-Id"

// LogMiddleware attaches a request scoped logger tagged with the path and request id
// and logs the outcome of every request at debug.
func (s Server) LogMiddleware() mux.MiddlewareFunc {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := requestID(r)
			log := s.baseLogger.With("request_path", r.URL.Path, "id", id)
			w.Header().Set(requestIDHeader, id)

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()
			h.ServeHTTP(rec, r.WithContext(logger.WithCtx(r.Context(), log)))

			log.Debugw("handled request",
				"method", r.Method,
				"status", rec.status,
				"elapsed", time.Since(start))
		})
	}
}

// requestID keeps a well formed id sent by the caller and mints one otherwise.
func requestID(r *http.Request) string {
	if id, err := uuid.Parse(r.Header.Get(requestIDHeader)); err == nil {
		return id.String()
	}
	return uuid.New().String()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
