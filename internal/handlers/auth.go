package handlers

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/J5Chen/Climate-Stories-Map/internal/middleware"
	"github.com/J5Chen/Climate-Stories-Map/internal/models"
)

// CredentialVerifier is the slice of the auth service the login flow needs.
type CredentialVerifier interface {
	VerifyUser(ctx context.Context, username, password string) (*models.User, error)
}

// AuthHandler serves the login and logout entry points.
type AuthHandler struct {
	auth CredentialVerifier
}

// NewAuthHandler returns a handler backed by the given credential verifier.
func NewAuthHandler(auth CredentialVerifier) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// ShowLogin renders the login form, surfacing any flash notices left by
// the access-control redirects.
func (h *AuthHandler) ShowLogin(c *gin.Context) {
	session := sessions.Default(c)
	flashes := session.Flashes()
	session.Save()

	obj := gin.H{}
	if len(flashes) > 0 {
		obj["Notice"] = flashes[0]
	}
	Render(c, http.StatusOK, "auth/login.html", obj)
}

// Login verifies the submitted credentials and opens a session holding the
// username and role only.
func (h *AuthHandler) Login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	user, err := h.auth.VerifyUser(c.Request.Context(), username, password)
	if err != nil {
		log.Printf("login: verify failed for %q: %v", username, err)
		Render(c, http.StatusInternalServerError, "auth/login.html", gin.H{"Error": "Something went wrong, try again"})
		return
	}
	if user == nil {
		Render(c, http.StatusUnauthorized, "auth/login.html", gin.H{"Error": "Invalid credentials"})
		return
	}

	session := sessions.Default(c)
	session.Set(middleware.SessionUsername, user.Username)
	session.Set(middleware.SessionRole, user.Role)
	if err := session.Save(); err != nil {
		log.Printf("login: session save failed: %v", err)
		Render(c, http.StatusInternalServerError, "auth/login.html", gin.H{"Error": "Something went wrong, try again"})
		return
	}

	c.Redirect(http.StatusFound, "/admin")
}

// Logout destroys the session and returns to the login page.
func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Save()
	c.Redirect(http.StatusFound, "/login")
}
