package middleware

import (
	"net/http"
	"strings"
	"time"

	"Pharmetix/models"
	"Pharmetix/pkg/context"
	"Pharmetix/pkg/jwt"
	"Pharmetix/pkg/log"
	"Pharmetix/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// 剩余有效期不足时下发新的 access token
const rotateBuffer = 5 * time.Minute

// Auth validates the bearer token and, when roles are given, requires one of them.
// The caller's id and role are stored under context.CtxUserID and context.CtxRole.
func Auth(secret []byte, expire time.Duration, roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Abort(c, http.StatusUnauthorized, "missing Authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Abort(c, http.StatusUnauthorized, "malformed Authorization header")
			return
		}

		claims, err := jwt.ParseToken(secret, jwt.TokenTypeAccess, parts[1])
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, err.Error())
			return
		}
		if claims.Status == models.UserBanned {
			response.Abort(c, http.StatusForbidden, "your account has been banned")
			return
		}
		if len(roles) > 0 && !hasRole(roles, claims.Role) {
			response.Abort(c, http.StatusForbidden, "you are not allowed to access this resource")
			return
		}

		if expire > 0 && jwt.ShouldRotateToken(claims, rotateBuffer) {
			newToken, err := jwt.GenerateToken(secret, claims.UserID, claims.Role, claims.Status, jwt.TokenTypeAccess, expire)
			if err != nil {
				log.L.Warn("rotate access token", zap.Int64("user_id", claims.UserID), zap.Error(err))
			} else {
				c.Header("X-New-Access-Token", newToken)
			}
		}

		c.Set(context.CtxUserID, claims.UserID)
		c.Set(context.CtxRole, claims.Role)
		c.Next()
	}
}

func hasRole(roles []models.Role, role models.Role) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
