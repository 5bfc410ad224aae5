package auth

import (
	"net/http"

	"go.uber.org/zap"
)

type Authenticator interface {
	Authenticator(next http.Handler) http.Handler
}

const (
	BearerAuthentication string = "bearer"
	NoneAuthentication   string = "none"
)

// NewAuthenticator selects the authentication scheme from the configured
// token. An empty token disables authentication. The token value itself is
// never logged.
func NewAuthenticator(token string) (Authenticator, error) {
	if token == "" {
		zap.S().Named("auth").Infof("authentication: '%s'", NoneAuthentication)
		return NewNoneAuthenticator()
	}
	zap.S().Named("auth").Infof("authentication: '%s'", BearerAuthentication)
	return NewBearerAuthenticator(token), nil
}
