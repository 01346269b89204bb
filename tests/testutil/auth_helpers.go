package testutil

import (
	"strings"

	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gin-gonic/gin"

	"github.com/hazel-ko/artcommissions-api/middleware"
)

// MockValidatedClaims builds a ValidatedClaims value the way the JWT
// middleware would after validating a real token.
func MockValidatedClaims(subject, issuer, role string, scopes []string) *validator.ValidatedClaims {
	return &validator.ValidatedClaims{
		RegisteredClaims: validator.RegisteredClaims{
			Issuer:  issuer,
			Subject: subject,
		},
		CustomClaims: &middleware.CustomClaims{
			Scope: strings.Join(scopes, " "),
			Role:  role,
		},
	}
}

// SetMockAuthContext populates a Gin context the same way EnsureValidToken
// does, so handlers under test see a normal authenticated request.
func SetMockAuthContext(c *gin.Context, auth0ID, role string) {
	c.Set("user_id", auth0ID)
	c.Set("access_token", "mock-token")
	c.Set("validated_claims", MockValidatedClaims(auth0ID, "https://test.example.com/", role, nil))
}

// MockAuthMiddleware returns a middleware that authenticates every request
// as the given Auth0 subject and role.
func MockAuthMiddleware(auth0ID, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		SetMockAuthContext(c, auth0ID, role)
		c.Next()
	}
}
