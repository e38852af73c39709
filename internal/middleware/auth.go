package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-tracker/internal/constants"
	apierrors "github.com/yukikurage/task-tracker/internal/errors"
)

// TokenParser verifies bearer tokens.
type TokenParser interface {
	Parse(token string) (uint64, error)
}

// RequireAuth checks if the user is authenticated via session or, when tokens
// is not nil, via an `Authorization: Bearer` token. Anonymous requests are
// redirected to the login endpoint.
func RequireAuth(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		if header := c.GetHeader("Authorization"); header != "" && tokens != nil {
			raw, found := strings.CutPrefix(header, "Bearer ")
			if !found {
				apierrors.Unauthorized(c, "Invalid authorization header")
				c.Abort()
				return
			}
			userID, err := tokens.Parse(strings.TrimSpace(raw))
			if err != nil {
				apierrors.Unauthorized(c, "Token is expired or invalid")
				c.Abort()
				return
			}
			c.Set(constants.ContextKeyUserID, userID)
			c.Next()
			return
		}

		session := sessions.Default(c)
		userID := session.Get(constants.ContextKeyUserID)

		if userID == nil {
			RedirectToLogin(c)
			c.Abort()
			return
		}

		// Store user ID in context for easy access in handlers
		c.Set(constants.ContextKeyUserID, userID)
		c.Next()
	}
}

// RedirectToLogin answers 303 See Other pointing at the login endpoint with
// the requested path as `next`.
func RedirectToLogin(c *gin.Context) {
	location := constants.LoginPath + "?next=" + url.QueryEscape(c.Request.URL.RequestURI())
	c.Header("Location", location)
	c.JSON(http.StatusSeeOther, gin.H{
		"redirect_to": location,
		"error":       "Authentication required",
	})
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}

	switch v := userID.(type) {
	case uint64:
		return v, true
	case uint:
		return uint64(v), true
	case int:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	default:
		return 0, false
	}
}
