package middleware

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/J5Chen/Climate-Stories-Map/internal/models"
)

// CurrentUserKey is the gin context key holding the session user.
const CurrentUserKey = "current_user"

// Session value keys.
const (
	SessionUsername = "username"
	SessionRole     = "role"
)

// SessionUser is the authenticated identity carried by a session cookie:
// username and role only.
type SessionUser struct {
	Username string
	Role     string
}

// LoadUser reads the session and, when it holds a well-formed identity,
// stores it in the request context. A malformed session (wrong types,
// missing keys) is treated as anonymous, never as an error.
func LoadUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)

		username, ok := session.Get(SessionUsername).(string)
		if !ok || username == "" {
			c.Next()
			return
		}
		role, ok := session.Get(SessionRole).(string)
		if !ok {
			c.Next()
			return
		}

		c.Set(CurrentUserKey, &SessionUser{Username: username, Role: role})
		c.Next()
	}
}

// CurrentUser returns the session user from the context, or nil when the
// request is anonymous.
func CurrentUser(c *gin.Context) *SessionUser {
	if u, exists := c.Get(CurrentUserKey); exists {
		if user, ok := u.(*SessionUser); ok {
			return user
		}
	}
	return nil
}

// AuthRequired ensures a user is logged in, redirecting to the login page
// otherwise.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// ModeratorRequired admits admin and moderator sessions only.
func ModeratorRequired() gin.HandlerFunc {
	return requireRole(func(role string) bool { return models.CanModerate(role) })
}

// AdminRequired admits admin sessions only.
func AdminRequired() gin.HandlerFunc {
	return requireRole(func(role string) bool { return role == models.RoleAdmin })
}

func requireRole(allowed func(string) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil || !allowed(user.Role) {
			session := sessions.Default(c)
			session.AddFlash("You do not have permission to access this page.")
			session.Save()
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}
