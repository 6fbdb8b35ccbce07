package jwt_test

import (
	"strings"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	jwtpkg "innercloset/gatekeeper/pkg/jwt"
)

const testKey = "0123456789abcdef0123456789abcdef"

func newGrant() jwtpkg.Grant {
	return jwtpkg.Grant{
		GrantID:   uuid.New(),
		CuratorID: uuid.New(),
		Code:      "SUMMER24",
		IssuedAt:  time.Now(),
	}
}

func TestMintVerifyRoundTrip(t *testing.T) {
	codec := jwtpkg.NewCodec(testKey, "innercloset", 180*24*time.Hour)
	g := newGrant()

	token, err := codec.Mint(g)
	require.NoError(t, err)

	claims := codec.Verify(token)
	require.NotNil(t, claims)
	require.Equal(t, g.GrantID, claims.GrantID)
	require.Equal(t, g.CuratorID, claims.CuratorID)
	require.Equal(t, "SUMMER24", claims.Code)
	require.Equal(t, g.IssuedAt.UnixMilli(), claims.IssuedAtMs)
	require.WithinDuration(t, g.IssuedAt.Add(180*24*time.Hour), claims.ExpiresAt.Time, time.Second)
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	codec := jwtpkg.NewCodec(testKey, "innercloset", time.Hour)
	token, err := codec.Mint(newGrant())
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	require.Nil(t, codec.Verify(tampered))
}

func TestVerifyRejectsForeignKey(t *testing.T) {
	minter := jwtpkg.NewCodec("another-secret-another-secret-xx", "innercloset", time.Hour)
	verifier := jwtpkg.NewCodec(testKey, "innercloset", time.Hour)

	token, err := minter.Mint(newGrant())
	require.NoError(t, err)
	require.Nil(t, verifier.Verify(token))
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	issued := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	codec := jwtpkg.NewCodec(testKey, "innercloset", time.Hour)
	g := newGrant()
	g.IssuedAt = issued

	token, err := codec.Mint(g)
	require.NoError(t, err)

	within := codec.WithClock(func() time.Time { return issued.Add(30 * time.Minute) })
	require.NotNil(t, within.Verify(token))

	after := codec.WithClock(func() time.Time { return issued.Add(2 * time.Hour) })
	require.Nil(t, after.Verify(token))
}

func TestVerifyRejectsMalformedAndWrongIssuer(t *testing.T) {
	codec := jwtpkg.NewCodec(testKey, "innercloset", time.Hour)
	require.Nil(t, codec.Verify(""))
	require.Nil(t, codec.Verify("not-a-token"))

	other := jwtpkg.NewCodec(testKey, "someone-else", time.Hour)
	token, err := other.Mint(newGrant())
	require.NoError(t, err)
	require.Nil(t, codec.Verify(token))
}

func TestVerifyRequiresExpiration(t *testing.T) {
	claims := gojwt.MapClaims{
		"iss": "innercloset",
		"gid": uuid.NewString(),
		"cid": uuid.NewString(),
	}
	token, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString([]byte(testKey))
	require.NoError(t, err)

	codec := jwtpkg.NewCodec(testKey, "innercloset", time.Hour)
	require.Nil(t, codec.Verify(token))
}

func TestVerifyRejectsNoneAlgorithm(t *testing.T) {
	claims := gojwt.MapClaims{
		"iss": "innercloset",
		"exp": time.Now().Add(time.Hour).Unix(),
		"gid": uuid.NewString(),
		"cid": uuid.NewString(),
	}
	token, err := gojwt.NewWithClaims(gojwt.SigningMethodNone, claims).SignedString(gojwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	codec := jwtpkg.NewCodec(testKey, "innercloset", time.Hour)
	require.Nil(t, codec.Verify(token))
}

func TestMintRequiresIDs(t *testing.T) {
	codec := jwtpkg.NewCodec(testKey, "innercloset", time.Hour)
	_, err := codec.Mint(jwtpkg.Grant{Code: "X"})
	require.Error(t, err)
}

func TestSessionVerifier(t *testing.T) {
	v := jwtpkg.NewSessionVerifier(testKey, "idp")

	sign := func(c gojwt.MapClaims) string {
		s, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, c).SignedString([]byte(testKey))
		require.NoError(t, err)
		return s
	}

	claims, err := v.Validate(sign(gojwt.MapClaims{
		"iss":   "idp",
		"sub":   "user-1",
		"email": "a@acme.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	}))
	require.NoError(t, err)
	require.Equal(t, "user-1", claims.Subject)
	require.Equal(t, "a@acme.com", claims.Email)

	_, err = v.Validate(sign(gojwt.MapClaims{"iss": "idp", "exp": time.Now().Add(time.Hour).Unix()}))
	require.Error(t, err)

	_, err = v.Validate(sign(gojwt.MapClaims{"iss": "other", "sub": "user-1"}))
	require.Error(t, err)
}
