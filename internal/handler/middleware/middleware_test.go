package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"innercloset/gatekeeper/internal/config"
	"innercloset/gatekeeper/internal/handler/middleware"
	"innercloset/gatekeeper/internal/repository"
	jwtpkg "innercloset/gatekeeper/pkg/jwt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func signSession(t *testing.T, key, subject string) string {
	t.Helper()
	claims := jwtpkg.SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
	require.NoError(t, err)
	return signed
}

func serve(r *gin.Engine, method, path, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	req.RemoteAddr = "203.0.113.7:5000"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimiterRejectsBurst(t *testing.T) {
	limit, err := middleware.NewRateLimiter(repository.NewMemoryLimiterStore(), 3, "1m")
	require.NoError(t, err)

	r := gin.New()
	r.POST("/redeem", limit, func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 3; i++ {
		w := serve(r, http.MethodPost, "/redeem", "")
		require.Equal(t, http.StatusOK, w.Code)
		require.NotEmpty(t, w.Header().Get("X-RateLimit-Remaining"))
	}
	w := serve(r, http.MethodPost, "/redeem", "")
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	require.JSONEq(t, `{"ok":false,"reason":"rate_limited"}`, w.Body.String())
}

func TestRateLimiterConfigErrors(t *testing.T) {
	_, err := middleware.NewRateLimiter(repository.NewMemoryLimiterStore(), 3, "soon")
	require.Error(t, err)

	_, err = middleware.NewRateLimiter(repository.NewMemoryLimiterStore(), 0, "1m")
	require.Error(t, err)
}

func TestRecoveryReturnsServerError(t *testing.T) {
	r := gin.New()
	r.Use(middleware.Recovery(zap.NewNop()))
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := serve(r, http.MethodGet, "/boom", "")
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.JSONEq(t, `{"ok":false,"reason":"server_error"}`, w.Body.String())
}

func TestSessionIsOptional(t *testing.T) {
	verifier := jwtpkg.NewSessionVerifier("idp-secret", "")
	r := gin.New()
	r.Use(middleware.Session(verifier))
	r.GET("/whoami", func(c *gin.Context) {
		claims, ok := middleware.SessionClaims(c)
		if !ok {
			c.String(http.StatusOK, "anonymous")
			return
		}
		c.String(http.StatusOK, claims.Subject)
	})

	assert.Equal(t, "anonymous", serve(r, http.MethodGet, "/whoami", "").Body.String())
	assert.Equal(t, "anonymous", serve(r, http.MethodGet, "/whoami", "garbage").Body.String())
	assert.Equal(t, "anonymous", serve(r, http.MethodGet, "/whoami", signSession(t, "other-secret", "user-1")).Body.String())
	assert.Equal(t, "user-1", serve(r, http.MethodGet, "/whoami", signSession(t, "idp-secret", "user-1")).Body.String())
}

func TestAdminAuth(t *testing.T) {
	verifier := jwtpkg.NewSessionVerifier("idp-secret", "")
	r := gin.New()
	r.Use(middleware.Session(verifier))
	r.GET("/admin", middleware.RequireSession(), middleware.AdminAuth([]string{"admin-1"}, zap.NewNop()), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodGet, "/admin", "").Code)
	assert.Equal(t, http.StatusForbidden, serve(r, http.MethodGet, "/admin", signSession(t, "idp-secret", "user-1")).Code)
	assert.Equal(t, http.StatusNoContent, serve(r, http.MethodGet, "/admin", signSession(t, "idp-secret", "admin-1")).Code)
}

func TestCORSAllowsConfiguredOrigin(t *testing.T) {
	r := gin.New()
	r.Use(middleware.CORS(config.CORSConfig{
		AllowedOrigins:   []string{"https://shop.example"},
		AllowCredentials: true,
	}))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "https://shop.example")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, "https://shop.example", w.Header().Get("Access-Control-Allow-Origin"))
	require.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusForbidden, w.Code)
}
