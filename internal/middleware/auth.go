package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"hotelstay/internal/pkg/jwt"
	"hotelstay/internal/pkg/response"
)

type TokenValidator interface {
	ValidateToken(token string) (*jwt.Claims, error)
}

// JWTAuth authenticates the manager from the bearer token and stores
// "manager_id" and "role" on the context. Browsers cannot set headers on a
// websocket handshake, so upgrade requests may pass the token as access_token.
func JWTAuth(tokens TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, code := bearerToken(c)
		if code != "" {
			response.Error(c, http.StatusUnauthorized, code, "Authorization token required")
			c.Abort()
			return
		}

		claims, err := tokens.ValidateToken(raw)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set("manager_id", claims.ManagerID)
		c.Set("role", claims.Role)
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, string) {
	header := c.GetHeader("Authorization")
	if header == "" {
		if strings.EqualFold(c.GetHeader("Upgrade"), "websocket") && c.Query("access_token") != "" {
			return c.Query("access_token"), ""
		}
		return "", "AUTH_HEADER_MISSING"
	}
	scheme, token, ok := strings.Cut(header, " ")
	token = strings.TrimSpace(token)
	if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", "INVALID_AUTH_FORMAT"
	}
	return token, ""
}
