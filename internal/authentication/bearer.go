// Package authentication attaches Vinli access tokens to requests and inspects their claims.
package authentication

import (
	"net/http"
	"strings"
)

const authorizationHeader = "Authorization"

// Bearer attaches an OAuth2 bearer token to outgoing requests. The header value is formatted once
// and never changes; construct a new Bearer to use a different token.
type Bearer struct {
	header string
}

// NewBearer returns a Bearer for accessToken. Surrounding whitespace, which is common when tokens
// are read from files, is removed.
func NewBearer(accessToken string) Bearer {
	return Bearer{header: "Bearer " + strings.TrimSpace(accessToken)}
}

// Header returns the formatted Authorization header value.
func (b Bearer) Header() string {
	return b.header
}

// Intercept adds the Authorization header to req.
func (b Bearer) Intercept(req *http.Request) {
	req.Header.Set(authorizationHeader, b.header)
}
