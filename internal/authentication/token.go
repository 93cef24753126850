package authentication

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrOpaqueToken is returned by InspectToken when the access token is not a JWT. Opaque tokens
// are valid bearer tokens; they just can't be inspected locally.
var ErrOpaqueToken = errors.New("access token is not a JWT")

// TokenInfo holds the claims of an access token that are useful to clients.
//
// The claims are read without verifying the token's signature, so they must only be used for
// diagnostics (e.g., warning the user that a token has expired). The backend remains the
// authority on whether a token is valid.
type TokenInfo struct {
	Subject   string
	Issuer    string
	Audience  []string
	ExpiresAt time.Time
	IssuedAt  time.Time
}

// Expired returns true if the token has an expiry time before now.
func (t *TokenInfo) Expired(now time.Time) bool {
	return !t.ExpiresAt.IsZero() && now.After(t.ExpiresAt)
}

// InspectToken extracts claims from accessToken without verifying it.
func InspectToken(accessToken string) (*TokenInfo, error) {
	accessToken = strings.TrimSpace(accessToken)
	if strings.Count(accessToken, ".") != 2 {
		return nil, ErrOpaqueToken
	}
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(accessToken, &claims); err != nil {
		return nil, fmt.Errorf("malformed access token: %w", err)
	}
	info := TokenInfo{
		Subject:  claims.Subject,
		Issuer:   claims.Issuer,
		Audience: claims.Audience,
	}
	if claims.ExpiresAt != nil {
		info.ExpiresAt = claims.ExpiresAt.Time
	}
	if claims.IssuedAt != nil {
		info.IssuedAt = claims.IssuedAt.Time
	}
	return &info, nil
}
