package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hotelstay/internal/domain"
	"hotelstay/internal/pkg/response"
)

// RequireRole lets the request through when the token carries one of roles.
func RequireRole(roles ...domain.ManagerRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("role")
		if role == "" {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Role not found in token")
			c.Abort()
			return
		}

		for _, r := range roles {
			if string(r) == role {
				c.Next()
				return
			}
		}
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Access denied: insufficient permissions")
		c.Abort()
	}
}

func AdminOnly() gin.HandlerFunc {
	return RequireRole(domain.RoleAdmin)
}
