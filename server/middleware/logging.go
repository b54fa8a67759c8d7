package middleware

import (
	"net/http"
	"time"

	"github.com/kbukum/streamkit/logger"
)

const slowRequest = 500 * time.Millisecond

// RequestLogger logs every request with method, path, status and duration.
// Probe paths are served without logging.
func RequestLogger(log *logger.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isProbe(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			sw := newStatusWriter(w)
			next.ServeHTTP(sw, r)
			duration := time.Since(start)

			fields := map[string]interface{}{
				"method":              r.Method,
				"path":                r.URL.Path,
				logger.FieldStatus:    sw.status,
				logger.FieldDuration:  duration.Milliseconds(),
				"bytes":               sw.written,
				logger.FieldRequestID: r.Header.Get(HeaderRequestID),
			}
			if q := r.URL.RawQuery; q != "" {
				fields["query"] = q
			}
			if duration > slowRequest {
				fields["slow"] = true
			}
			logByStatus(log, fields, sw.status)
		})
	}
}

func isProbe(path string) bool {
	switch path {
	case "/health", "/version":
		return true
	}
	return false
}

func logByStatus(log *logger.Logger, fields map[string]interface{}, status int) {
	switch {
	case status >= 500:
		log.Error("Request completed", fields)
	case status >= 400:
		log.Warn("Request completed", fields)
	default:
		log.Debug("Request completed", fields)
	}
}
