package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessClaims is the payload of the lt_access cookie. It caches a grant;
// it is never proof that the grant still exists.
type AccessClaims struct {
	jwt.RegisteredClaims
	GrantID    uuid.UUID `json:"gid"`
	Code       string    `json:"code"`
	CuratorID  uuid.UUID `json:"cid"`
	IssuedAtMs int64     `json:"iat_ms"`
}

// Grant is the subset of a grant record embedded in a token.
type Grant struct {
	GrantID   uuid.UUID
	CuratorID uuid.UUID
	Code      string
	IssuedAt  time.Time
}

// Codec mints and verifies access tokens. It never touches storage.
type Codec struct {
	signingKey []byte
	issuer     string
	ttl        time.Duration
	now        func() time.Time
}

func NewCodec(signingKey string, issuer string, ttl time.Duration) *Codec {
	return &Codec{
		signingKey: []byte(signingKey),
		issuer:     issuer,
		ttl:        ttl,
		now:        time.Now,
	}
}

// WithClock returns a copy of the codec reading time from now.
func (c *Codec) WithClock(now func() time.Time) *Codec {
	cp := *c
	cp.now = now
	return &cp
}

// TTL is also the cookie max-age.
func (c *Codec) TTL() time.Duration { return c.ttl }

// Mint signs an HS256 token for g that expires after the codec TTL.
func (c *Codec) Mint(g Grant) (string, error) {
	if g.GrantID == uuid.Nil || g.CuratorID == uuid.Nil {
		return "", errors.New("grant and curator ids are required")
	}
	issued := g.IssuedAt
	if issued.IsZero() {
		issued = c.now()
	}
	claims := AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    c.issuer,
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(issued.Add(c.ttl)),
			ID:        uuid.New().String(),
		},
		GrantID:    g.GrantID,
		Code:       g.Code,
		CuratorID:  g.CuratorID,
		IssuedAtMs: issued.UnixMilli(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.signingKey)
}

// Verify returns the claims of a well-formed, correctly signed, unexpired
// token and nil for anything else.
func (c *Codec) Verify(tokenStr string) *AccessClaims {
	if tokenStr == "" {
		return nil
	}
	token, err := jwt.ParseWithClaims(tokenStr, &AccessClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return c.signingKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(c.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return nil
	}

	claims, ok := token.Claims.(*AccessClaims)
	if !ok || !token.Valid {
		return nil
	}
	if claims.GrantID == uuid.Nil || claims.CuratorID == uuid.Nil {
		return nil
	}
	return claims
}
