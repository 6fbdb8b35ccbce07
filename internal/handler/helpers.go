package handler

import (
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"innercloset/gatekeeper/internal/handler/middleware"
)

// sessionUser returns the authenticated user id and email, both empty for
// anonymous requests.
func sessionUser(c *gin.Context) (userID, email string) {
	claims, ok := middleware.SessionClaims(c)
	if !ok {
		return "", ""
	}
	return claims.Subject, claims.Email
}

// CookieSettings shape the lt_access cookie.
type CookieSettings struct {
	Name   string
	Domain string
	Secure bool
	MaxAge time.Duration
}

func (s CookieSettings) set(c *gin.Context, value string) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     s.Name,
		Value:    value,
		Path:     "/",
		Domain:   s.Domain,
		MaxAge:   int(s.MaxAge.Seconds()),
		Secure:   s.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s CookieSettings) clear(c *gin.Context) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     s.Name,
		Value:    "",
		Path:     "/",
		Domain:   s.Domain,
		MaxAge:   -1,
		Secure:   s.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s CookieSettings) read(c *gin.Context) string {
	v, err := c.Cookie(s.Name)
	if err != nil {
		return ""
	}
	return v
}

// JitterDelay returns a delay source uniformly distributed in [lo, hi].
func JitterDelay(lo, hi time.Duration) func() time.Duration {
	return func() time.Duration {
		if hi <= lo {
			return lo
		}
		return lo + rand.N(hi-lo+1)
	}
}
