package httpapi

import (
	"log"
	"net/http"
	"time"

	"github.com/ua-parser/uap-go/uaparser"
)

// responseWriter wraps http.ResponseWriter to capture the status code for
// the access log line, matching the teacher's own responseWriter.
type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

var uaParser = uaparser.NewFromSaved()

// withAccessLog logs one line per request with status, latency, and a
// parsed User-Agent summary.
func withAccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		client := "-"
		if ua := r.UserAgent(); ua != "" {
			if parsed := uaParser.Parse(ua); parsed != nil && parsed.UserAgent != nil {
				client = parsed.UserAgent.Family
			}
		}
		log.Printf("[http] %s %s %d %s %v", r.Method, r.URL.Path, wrapped.status, client, time.Since(start))
	})
}
