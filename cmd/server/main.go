package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/multitemplate"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"

	"github.com/J5Chen/Climate-Stories-Map/internal/config"
	"github.com/J5Chen/Climate-Stories-Map/internal/db"
	"github.com/J5Chen/Climate-Stories-Map/internal/handlers"
	"github.com/J5Chen/Climate-Stories-Map/internal/middleware"
	"github.com/J5Chen/Climate-Stories-Map/internal/router"
	"github.com/J5Chen/Climate-Stories-Map/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	mongo, err := db.Connect(cfg.MongoURI)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		mongo.Close(ctx)
	}()

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://127.0.0.1:3000", "http://localhost:8080"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Cookie sessions signed with the secret key; fixed 60-minute lifetime.
	store := cookie.NewStore([]byte(cfg.SecretKey))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int(config.SessionLifetime.Seconds()),
		HttpOnly: true,
	})
	r.Use(sessions.Sessions("climate_stories_session", store))
	r.Use(middleware.LoadUser())

	r.HTMLRender = loadTemplates("./web/templates")

	// Repositories and services
	postRepo := db.NewPostRepo(mongo)
	userRepo := db.NewUserRepo(mongo)
	authService := services.NewAuthService(userRepo)
	captcha := services.NewCaptchaVerifier(cfg.CaptchaSecret, cfg.CaptchaURL)
	uploader := services.NewImageUploader(cfg.CDNKey, cfg.CDNURL)

	bootstrapAdmin(authService)

	router.RegisterRoutes(r, &router.Handlers{
		Auth:  handlers.NewAuthHandler(authService),
		Posts: handlers.NewPostHandler(postRepo, captcha, uploader, cfg.AutoApprovePosts),
		Admin: handlers.NewAdminHandler(postRepo, userRepo, authService),
	})

	// Serve the map frontend: static assets with an index.html fallback,
	// JSON 404s for unknown API paths.
	r.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			c.JSON(http.StatusNotFound, gin.H{"error": "Endpoint not found", "path": c.Request.URL.Path})
			return
		}
		serveStatic(c, "./web/static")
	})

	log.Printf("Climate Stories Map server starting on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}

// bootstrapAdmin creates the initial admin account from the environment
// when configured and not already present. Password complexity rules apply
// here the same as everywhere else.
func bootstrapAdmin(auth *services.AuthService) {
	username := os.Getenv("ADMIN_USERNAME")
	password := os.Getenv("ADMIN_PASSWORD")
	if username == "" || password == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := auth.CreateUser(ctx, username, password, "admin"); err != nil {
		log.Printf("Admin bootstrap skipped: %v", err)
		return
	}
	log.Printf("Admin account %q created", username)
}

// serveStatic serves a file from the static root, falling back to
// index.html so client-side routes resolve.
func serveStatic(c *gin.Context, root string) {
	reqPath := filepath.Clean(c.Request.URL.Path)
	if strings.Contains(reqPath, "..") {
		c.Status(http.StatusBadRequest)
		return
	}

	full := filepath.Join(root, reqPath)
	if info, err := os.Stat(full); err == nil && !info.IsDir() {
		c.File(full)
		return
	}
	c.File(filepath.Join(root, "index.html"))
}

func loadTemplates(templatesDir string) multitemplate.Renderer {
	r := multitemplate.NewRenderer()

	layouts, err := filepath.Glob(templatesDir + "/layouts/*.html")
	if err != nil {
		panic(err)
	}

	assemble := func(view string) []string {
		files := make([]string, 0, len(layouts)+1)
		files = append(files, layouts...)
		files = append(files, view)
		return files
	}

	r.AddFromFiles("auth/login.html", assemble(templatesDir+"/views/auth/login.html")...)
	r.AddFromFiles("error.html", assemble(templatesDir+"/views/error.html")...)

	r.AddFromFiles("admin/post_list.html", assemble(templatesDir+"/views/admin/post_list.html")...)
	r.AddFromFiles("admin/post_edit.html", assemble(templatesDir+"/views/admin/post_edit.html")...)
	r.AddFromFiles("admin/user_list.html", assemble(templatesDir+"/views/admin/user_list.html")...)
	r.AddFromFiles("admin/user_edit.html", assemble(templatesDir+"/views/admin/user_edit.html")...)

	return r
}
