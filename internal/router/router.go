package router

import (
	"github.com/gin-gonic/gin"

	"github.com/J5Chen/Climate-Stories-Map/internal/handlers"
	"github.com/J5Chen/Climate-Stories-Map/internal/middleware"
)

// Handlers bundles the route handlers for registration.
type Handlers struct {
	Auth  *handlers.AuthHandler
	Posts *handlers.PostHandler
	Admin *handlers.AdminHandler
}

// RegisterRoutes wires the public API, the login flow and the admin panel.
// Guards are applied per route group so no mutating route can miss one.
func RegisterRoutes(r *gin.Engine, h *Handlers) {
	// Public submission endpoint; CAPTCHA-gated instead of session-gated.
	r.POST("/api/posts/create", h.Posts.Create)

	// The rest of the API requires a logged-in session.
	api := r.Group("/api")
	api.Use(middleware.AuthRequired())
	{
		api.GET("/posts", h.Posts.List)
		api.PUT("/posts/update/:id", h.Posts.Update)
		api.DELETE("/posts/delete/:id", h.Posts.Delete)
	}

	// Login / logout
	r.GET("/login", h.Auth.ShowLogin)
	r.POST("/login", h.Auth.Login)
	r.GET("/logout", h.Auth.Logout)

	// Admin panel, admin and moderator roles only.
	admin := r.Group("/admin")
	admin.Use(middleware.ModeratorRequired())
	{
		admin.GET("", h.Admin.Index)

		admin.GET("/posts", h.Admin.ListPosts)
		admin.GET("/posts/new", h.Admin.ShowNewPost)
		admin.POST("/posts/new", h.Admin.CreatePost)
		admin.GET("/posts/:id/edit", h.Admin.ShowEditPost)
		admin.POST("/posts/:id/edit", h.Admin.UpdatePost)
		admin.POST("/posts/:id/delete", h.Admin.DeletePost)

		admin.GET("/users", h.Admin.ListUsers)
		admin.GET("/users/new", h.Admin.ShowNewUser)
		admin.POST("/users/new", h.Admin.CreateUser)
		admin.GET("/users/:id/edit", h.Admin.ShowEditUser)
		admin.POST("/users/:id/edit", h.Admin.UpdateUser)
		admin.POST("/users/:id/delete", h.Admin.DeleteUser)
	}
}
