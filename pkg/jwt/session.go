package jwt

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims are the claims of a session token issued by the identity
// provider. Subject carries the opaque user id.
type SessionClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
}

// SessionVerifier validates identity-provider session tokens that share an
// HMAC secret with this service.
type SessionVerifier struct {
	signingKey []byte
	issuer     string
}

func NewSessionVerifier(signingKey, issuer string) *SessionVerifier {
	return &SessionVerifier{signingKey: []byte(signingKey), issuer: issuer}
}

// Validate parses and validates a token string, returning claims.
func (v *SessionVerifier) Validate(tokenStr string) (*SessionClaims, error) {
	if len(v.signingKey) == 0 {
		return nil, errors.New("session verification disabled")
	}
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"})}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}
	token, err := jwt.ParseWithClaims(tokenStr, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		return v.signingKey, nil
	}, opts...)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.Subject == "" {
		return nil, errors.New("missing subject")
	}
	return claims, nil
}
