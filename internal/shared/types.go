package shared

import "github.com/golang-jwt/jwt/v5"

// shared types across the application
// 1st: error taxonomy lives in errors.go
// 2nd: access token claims used by the auth service and middleware

// TokenTypeAccess marks bearer tokens issued by the token endpoint.
const TokenTypeAccess = "access"

type AuthClaims struct {
	UserID   string `json:"user_id"`  // user identifier(UUID)
	Username string `json:"username"` // username at issue time
	Type     string `json:"type"`
	jwt.RegisteredClaims
}
