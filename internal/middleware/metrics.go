package middleware

import (
	"crypto/subtle"
	"net/http"
)

// MetricsAuthMiddleware guards the Prometheus scrape endpoint with HTTP
// basic auth. Leaving both credentials unset keeps the endpoint open,
// which is the expected shape for local development.
type MetricsAuthMiddleware struct {
	username []byte
	password []byte
	open     bool
}

// NewMetricsAuthMiddleware builds the middleware from the configured
// scrape credentials.
func NewMetricsAuthMiddleware(username, password string) *MetricsAuthMiddleware {
	return &MetricsAuthMiddleware{
		username: []byte(username),
		password: []byte(password),
		open:     username == "" && password == "",
	}
}

// Handler rejects requests that do not carry the configured credentials.
func (m *MetricsAuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.open {
			next.ServeHTTP(w, r)
			return
		}

		user, pass, ok := r.BasicAuth()
		if !ok || !m.credentialsMatch(user, pass) {
			w.Header().Set("WWW-Authenticate", `Basic realm="lmk-metrics"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// credentialsMatch compares both values in constant time so a wrong
// username and a wrong password take the same time to reject.
func (m *MetricsAuthMiddleware) credentialsMatch(user, pass string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(user), m.username) == 1
	passOK := subtle.ConstantTimeCompare([]byte(pass), m.password) == 1
	return userOK && passOK
}
