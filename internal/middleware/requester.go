package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-tracker/internal/constants"
	apierrors "github.com/yukikurage/task-tracker/internal/errors"
	"github.com/yukikurage/task-tracker/internal/models"
	"github.com/yukikurage/task-tracker/internal/policy"
	"github.com/yukikurage/task-tracker/internal/services"
)

// RequesterResolver resolves an authenticated user into a policy requester.
type RequesterResolver interface {
	Requester(userID uint64, defaultRole models.Role) (policy.Requester, error)
}

// LoadRequester resolves the authenticated user's profile, creating it with
// defaultRole when missing, and stores the requester in the context.
// It must run after RequireAuth.
func LoadRequester(resolver RequesterResolver, defaultRole models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := GetUserID(c)
		if !exists {
			RedirectToLogin(c)
			c.Abort()
			return
		}

		requester, err := resolver.Requester(userID, defaultRole)
		if err != nil {
			if errors.Is(err, services.ErrUserNotFound) {
				RedirectToLogin(c)
			} else {
				apierrors.InternalError(c, "Failed to load profile")
			}
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyRequester, requester)
		c.Next()
	}
}

// GetRequester retrieves the requester stored by LoadRequester
func GetRequester(c *gin.Context) (policy.Requester, bool) {
	value, exists := c.Get(constants.ContextKeyRequester)
	if !exists {
		return policy.Requester{}, false
	}
	requester, ok := value.(policy.Requester)
	return requester, ok
}
