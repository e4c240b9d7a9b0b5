package auth

import (
	"net/http"
	"remindbot/internal/http/handlers/response"
	"strings"
)

const (
	AUTH_TOKEN_PREFIX  = "Bearer "
	AUTH_TOKEN_MAX_LEN = 1024
	AUTH_TOKEN_PARAM   = "token"
)

type TokenValidator interface {
	ValidateToken(token string) bool
}

// ParseToken reads the token from the Authorization header or, for clients
// that cannot set headers such as EventSource, from the "token" query
// parameter.
func ParseToken(r *http.Request) (token string, ok bool) {
	header := r.Header.Get("authorization")
	if header != "" {
		parts := strings.SplitN(header, AUTH_TOKEN_PREFIX, 2)
		if len(parts) != 2 {
			return token, false
		}
		token = parts[1]
	} else {
		token = r.URL.Query().Get(AUTH_TOKEN_PARAM)
	}
	if token == "" || len(token) > AUTH_TOKEN_MAX_LEN {
		return "", false
	}
	return token, true
}

// RequireToken rejects requests without a token accepted by validator.
func RequireToken(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
			token, ok := ParseToken(r)
			if !ok || !validator.ValidateToken(token) {
				response.RenderUnauthorized(rw)
				return
			}
			next.ServeHTTP(rw, r)
		})
	}
}
