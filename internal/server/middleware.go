package server

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/castlemilk/reclaim/internal/logger"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(b)
	r.bytes += n
	return n, err
}

// requestLogger attaches a request-scoped logger to the context and logs
// one line per request.
func requestLogger(base zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			reqLog := logger.WithFields(base, map[string]interface{}{
				"request_id": uuid.NewString(),
				"method":     r.Method,
				"path":       r.URL.Path,
			})
			rec := &statusRecorder{ResponseWriter: w}
			next.ServeHTTP(rec, r.WithContext(logger.WithContext(r.Context(), reqLog)))

			if rec.status == 0 {
				rec.status = http.StatusOK
			}
			ev := reqLog.Info()
			if rec.status >= http.StatusInternalServerError {
				ev = reqLog.Error()
			}
			ev.Int("status", rec.status).
				Int("bytes", rec.bytes).
				Dur("duration", time.Since(start)).
				Msg("request")
		})
	}
}
