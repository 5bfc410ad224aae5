package auth

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// BearerAuthenticator guards requests with a static bearer token. The
// comparison runs in constant time.
type BearerAuthenticator struct {
	token string
}

func NewBearerAuthenticator(token string) *BearerAuthenticator {
	return &BearerAuthenticator{token: token}
}

func (b *BearerAuthenticator) Authenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		scheme, credentials, found := strings.Cut(header, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") {
			unauthorized(w, "Missing bearer token")
			return
		}

		credentials = strings.TrimSpace(credentials)
		if subtle.ConstantTimeCompare([]byte(credentials), []byte(b.token)) != 1 {
			unauthorized(w, "Invalid bearer token")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func unauthorized(w http.ResponseWriter, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"detail":"` + detail + `"}`))
}
