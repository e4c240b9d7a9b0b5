package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

type staticValidator string

func (v staticValidator) ValidateToken(token string) bool {
	return token == string(v)
}

func TestRequireToken(t *testing.T) {
	cases := []struct {
		id             int
		url            string
		header         string
		expectedStatus int
	}{
		{id: 1, url: "/", header: "Bearer secret", expectedStatus: http.StatusOK},
		{id: 2, url: "/?token=secret", expectedStatus: http.StatusOK},
		{id: 3, url: "/", expectedStatus: http.StatusUnauthorized},
		{id: 4, url: "/", header: "Bearer wrong", expectedStatus: http.StatusUnauthorized},
		{id: 5, url: "/", header: "secret", expectedStatus: http.StatusUnauthorized},
		{id: 6, url: "/?token=", expectedStatus: http.StatusUnauthorized},
	}
	next := http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(http.StatusOK)
	})
	handler := RequireToken(staticValidator("secret"))(next)

	for _, c := range cases {
		req := httptest.NewRequest(http.MethodGet, c.url, nil)
		if c.header != "" {
			req.Header.Set("Authorization", c.header)
		}
		rw := httptest.NewRecorder()

		handler.ServeHTTP(rw, req)

		assert.Equal(t, c.expectedStatus, rw.Code, c.id)
	}
}
