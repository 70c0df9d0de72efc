package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"yoplan/pkg/utils"
)

const (
	ContextUserID = "user_id"
	ContextRole   = "role"
)

// tokenFromRequest prefers the httpOnly cookie and falls back to a bearer header.
func tokenFromRequest(c *gin.Context) string {
	if cookie, err := c.Cookie(utils.TokenCookieName); err == nil && cookie != "" {
		return cookie
	}
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}

func AuthRequired(tokens *utils.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := tokenFromRequest(c)
		if tokenString == "" {
			utils.RespondError(c, http.StatusUnauthorized, "로그인이 필요합니다.")
			c.Abort()
			return
		}

		claims, err := tokens.ValidateToken(tokenString)
		if err != nil {
			utils.RespondError(c, http.StatusUnauthorized, "유효하지 않거나 만료된 토큰입니다.")
			c.Abort()
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextRole, claims.Role)
		c.Next()
	}
}

// OptionalAuth attaches the user when a valid token is present and never
// rejects the request.
func OptionalAuth(tokens *utils.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString := tokenFromRequest(c); tokenString != "" {
			if claims, err := tokens.ValidateToken(tokenString); err == nil {
				c.Set(ContextUserID, claims.UserID)
				c.Set(ContextRole, claims.Role)
			}
		}
		c.Next()
	}
}

// CurrentUserID returns the authenticated user id, if any.
func CurrentUserID(c *gin.Context) (uuid.UUID, bool) {
	raw := c.GetString(ContextUserID)
	if raw == "" {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
