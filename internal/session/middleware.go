package session

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	CtxClaimsKey = "session_claims"

	// CookieName is the gateway session cookie the admin console carries.
	CookieName = "chinguetti_session"
)

// AuthMiddleware accepts the gateway session either as a Bearer header or
// as the session cookie. Invalid or missing sessions abort with 401 and an
// Arabic message so the console can redirect to the login form.
func AuthMiddleware(tokens TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c)
		if raw == "" {
			if v, err := c.Cookie(CookieName); err == nil {
				raw = v
			}
		}
		if raw == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "يرجى تسجيل الدخول أولا"})
			c.Abort()
			return
		}

		claims, err := tokens.Parse(raw)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "انتهت الجلسة، يرجى تسجيل الدخول مرة أخرى"})
			c.Abort()
			return
		}

		c.Set(CtxClaimsKey, claims)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if h == "" || !strings.HasPrefix(strings.ToLower(h), "bearer ") {
		return ""
	}
	return strings.TrimSpace(h[len("Bearer "):])
}

func MustGetClaims(c *gin.Context) *Claims {
	v, ok := c.Get(CtxClaimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*Claims)
	return claims
}
