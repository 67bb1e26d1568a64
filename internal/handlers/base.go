package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/J5Chen/Climate-Stories-Map/internal/middleware"
)

// Render injects common template variables (current user, request path)
// before rendering a view.
func Render(c *gin.Context, code int, name string, obj gin.H) {
	if obj == nil {
		obj = gin.H{}
	}

	if user := middleware.CurrentUser(c); user != nil {
		obj["CurrentUser"] = user
	}
	obj["CurrentPath"] = c.Request.URL.Path

	c.HTML(code, name, obj)
}

// RenderError renders the shared error page.
func RenderError(c *gin.Context, code int, message string) {
	Render(c, code, "error.html", gin.H{"Error": message})
}
