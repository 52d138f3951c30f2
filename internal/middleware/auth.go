package middleware

import (
	"net/http"

	"storefront-be/internal/auth"
	"storefront-be/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const sessionCartCookie = "session_cart_id"

// AuthMiddleware parses the bearer token (if any) and stores the identity in
// the request context. Anonymous requests pass through with only a session
// cart id, minted on first contact.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		if token := auth.ExtractAccessToken(c.Request); token != "" {
			if claims, err := auth.ParseJWT(token); err == nil {
				ctx = utils.SetUserContext(ctx, claims.UserID, claims.Email, claims.Role)
			}
		}

		sessionID, err := c.Cookie(sessionCartCookie)
		if err != nil || sessionID == "" {
			sessionID = uuid.New().String()
			c.SetCookie(sessionCartCookie, sessionID, 86400*30, "/", "", false, true)
		}
		ctx = utils.WithSessionCartID(ctx, sessionID)

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequireAuth aborts the request when no authenticated user is present.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := utils.GetUserIDFromContext(c.Request.Context()); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "user is not authenticated",
			})
			return
		}
		c.Next()
	}
}

// RequireAdmin aborts the request unless the authenticated user is an admin.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		if _, ok := utils.GetUserIDFromContext(ctx); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "user is not authenticated",
			})
			return
		}
		if utils.GetUserRoleFromContext(ctx) != utils.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"message": "admin access required",
			})
			return
		}
		c.Next()
	}
}
