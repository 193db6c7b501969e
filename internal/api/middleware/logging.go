package middleware

import (
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// Logging returns middleware that logs method, path, status, duration and the
// session id for every request. A session issued by this response wins over
// the request cookie.
func Logging(cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rw, r)

			sessionID := issuedSessionID(rw.Header(), cookieName)
			if sessionID == "" {
				if c, err := r.Cookie(cookieName); err == nil {
					sessionID = c.Value
				}
			}

			log.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", rw.status).
				Dur("duration", time.Since(start)).
				Str("remote_addr", r.RemoteAddr).
				Str("user_agent", r.UserAgent()).
				Str("session_id", sessionID).
				Msg("http request")
		})
	}
}

// issuedSessionID returns the session cookie set on the response, if any.
func issuedSessionID(h http.Header, cookieName string) string {
	resp := http.Response{Header: h}
	for _, c := range resp.Cookies() {
		if c.Name == cookieName {
			return c.Value
		}
	}
	return ""
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.status = code
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	rw.wroteHeader = true
	return rw.ResponseWriter.Write(b)
}
