package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestBearerAuthenticator(t *testing.T) {
	tests := []struct {
		name           string
		authorization  string
		expectedStatus int
	}{
		{name: "valid token", authorization: "Bearer secret-token", expectedStatus: http.StatusOK},
		{name: "lowercase scheme", authorization: "bearer secret-token", expectedStatus: http.StatusOK},
		{name: "missing header", authorization: "", expectedStatus: http.StatusUnauthorized},
		{name: "no scheme", authorization: "secret-token", expectedStatus: http.StatusUnauthorized},
		{name: "wrong scheme", authorization: "Basic secret-token", expectedStatus: http.StatusUnauthorized},
		{name: "wrong token", authorization: "Bearer nope", expectedStatus: http.StatusUnauthorized},
		{name: "token with surrounding spaces", authorization: "Bearer  secret-token", expectedStatus: http.StatusOK},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			authenticator := NewBearerAuthenticator("secret-token")
			handler := authenticator.Authenticator(okHandler())

			req := httptest.NewRequest(http.MethodPost, "/v1/sql", nil)
			if test.authorization != "" {
				req.Header.Set("Authorization", test.authorization)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, test.expectedStatus, rec.Code)
			if test.expectedStatus == http.StatusUnauthorized {
				assert.Contains(t, rec.Body.String(), "detail")
			}
		})
	}
}

func TestNoneAuthenticatorPassesThrough(t *testing.T) {
	authenticator, err := NewNoneAuthenticator()
	require.NoError(t, err)
	handler := authenticator.Authenticator(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
