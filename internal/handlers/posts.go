package handlers

import (
	"context"
	"errors"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/J5Chen/Climate-Stories-Map/internal/db"
	"github.com/J5Chen/Climate-Stories-Map/internal/models"
	"github.com/J5Chen/Climate-Stories-Map/internal/schemas"
	"github.com/J5Chen/Climate-Stories-Map/internal/utils"
)

const maxImageSize = 5 * 1024 * 1024 // 5 MB

var allowedImageExts = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true,
}

// PostStore is the slice of the post repository the API handlers need.
type PostStore interface {
	Insert(ctx context.Context, post *models.Post) (primitive.ObjectID, error)
	List(ctx context.Context, filter bson.M) ([]models.Post, error)
	UpdateByID(ctx context.Context, id primitive.ObjectID, set bson.M) (int64, error)
	DeleteByID(ctx context.Context, id primitive.ObjectID) (int64, error)
}

// Captcha verifies a submitted challenge token.
type Captcha interface {
	Verify(token string) (bool, error)
}

// Uploader forwards an image file to the external host.
type Uploader interface {
	Configured() bool
	Upload(file multipart.File, header *multipart.FileHeader) (string, error)
}

// PostHandler exposes the public story API: create, list, update, delete.
type PostHandler struct {
	posts       PostStore
	captcha     Captcha
	uploader    Uploader
	autoApprove bool
}

// NewPostHandler wires the API handlers to their collaborators.
func NewPostHandler(posts PostStore, captcha Captcha, uploader Uploader, autoApprove bool) *PostHandler {
	return &PostHandler{
		posts:       posts,
		captcha:     captcha,
		uploader:    uploader,
		autoApprove: autoApprove,
	}
}

// Create handles POST /api/posts/create: a multipart form carrying a
// postData JSON payload and an optional image file. CAPTCHA verification
// is skipped for local development hosts.
func (h *PostHandler) Create(c *gin.Context) {
	postData := c.PostForm("postData")
	if postData == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Post data missing"})
		return
	}

	in, err := schemas.LoadPost([]byte(postData))
	if err != nil {
		var fe schemas.FieldErrors
		if errors.As(err, &fe) {
			c.JSON(http.StatusBadRequest, gin.H{"errors": fe})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if !isLocalRequest(c) {
		if in.CaptchaToken == "" {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "CAPTCHA token missing"})
			return
		}
		ok, err := h.captcha.Verify(in.CaptchaToken)
		if err != nil {
			log.Printf("create: captcha verification error: %v", err)
		}
		if err != nil || !ok {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "CAPTCHA verification failed"})
			return
		}
	}

	post := models.Post{
		Title: in.Title,
		Content: models.Content{
			Description: utils.SanitizeText(in.Content.Description),
			Image:       in.Content.Image,
		},
		Location:     in.Location,
		Tag:          in.Tag,
		OptionalTags: in.OptionalTags,
		CreatedAt:    time.Now().UTC(),
		Status:       in.Status,
	}
	if h.autoApprove {
		post.Status = models.StatusApproved
	}

	if url, ok := h.handleImageUpload(c); ok {
		post.Content.Image = &url
	} else if c.IsAborted() {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	id, err := h.posts.Insert(ctx, &post)
	if err != nil {
		log.Printf("create: insert failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Post created", "post_id": id.Hex()})
}

// handleImageUpload validates and forwards an attached image, if any. It
// returns the hosted URL and true on success. Invalid files abort the
// request with a 400; a failed upload is only logged - story creation
// proceeds without the image.
func (h *PostHandler) handleImageUpload(c *gin.Context) (string, bool) {
	file, header, err := c.Request.FormFile("image")
	if err != nil || header.Filename == "" {
		return "", false
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedImageExts[ext] {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid file type. Only images are allowed."})
		return "", false
	}
	if header.Size > maxImageSize {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "File too large. Maximum size is 5MB."})
		return "", false
	}

	if !h.uploader.Configured() {
		log.Println("create: CDN key not configured, skipping image upload")
		return "", false
	}

	url, err := h.uploader.Upload(file, header)
	if err != nil {
		log.Printf("create: image upload failed, continuing without image: %v", err)
		return "", false
	}
	return url, true
}

// List handles GET /api/posts: approved posts, optionally narrowed by a
// sentiment tag and/or a set of optional tags (logical AND of both).
func (h *PostHandler) List(c *gin.Context) {
	filter, err := schemas.LoadTagFilter(c.Query("tag"), c.QueryArray("optionalTags"))
	if err != nil {
		var fe schemas.FieldErrors
		if errors.As(err, &fe) {
			c.JSON(http.StatusBadRequest, gin.H{"errors": fe})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	posts, err := h.posts.List(ctx, db.ListFilter(filter.Tag, filter.OptionalTags))
	if err != nil {
		log.Printf("list: query failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	out := make([]gin.H, 0, len(posts))
	for i := range posts {
		out = append(out, postJSON(&posts[i]))
	}
	c.JSON(http.StatusOK, out)
}

// Update handles PUT /api/posts/update/:id with a full post payload
// applied as a partial update.
func (h *PostHandler) Update(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read request body"})
		return
	}

	in, err := schemas.LoadPost(body)
	if err != nil {
		var fe schemas.FieldErrors
		if errors.As(err, &fe) {
			c.JSON(http.StatusBadRequest, gin.H{"errors": fe})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if in.CaptchaToken == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "CAPTCHA token missing"})
		return
	}
	ok, err := h.captcha.Verify(in.CaptchaToken)
	if err != nil {
		log.Printf("update: captcha verification error: %v", err)
	}
	if err != nil || !ok {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "CAPTCHA verification failed"})
		return
	}

	now := time.Now().UTC()
	set := bson.M{
		"title": in.Title,
		"content": models.Content{
			Description: utils.SanitizeText(in.Content.Description),
			Image:       in.Content.Image,
		},
		"location":      in.Location,
		"tag":           in.Tag,
		"optional_tags": in.OptionalTags,
		"status":        in.Status,
		"updated_at":    now,
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	matched, err := h.posts.UpdateByID(ctx, id, set)
	if err != nil {
		log.Printf("update: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if matched == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "Post not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post updated"})
}

// Delete handles DELETE /api/posts/delete/:id.
func (h *PostHandler) Delete(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	deleted, err := h.posts.DeleteByID(ctx, id)
	if err != nil {
		log.Printf("delete: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if deleted == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "Post not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post deleted"})
}

// postJSON shapes a stored post for API clients: id stringified, createdAt
// in ISO-8601, optional tags under their external name.
func postJSON(p *models.Post) gin.H {
	createdAt := p.CreatedAt
	if createdAt.IsZero() {
		// Legacy documents may predate the created_at field.
		createdAt = time.Now().UTC()
	}
	tags := p.OptionalTags
	if tags == nil {
		tags = []string{}
	}
	return gin.H{
		"_id":          p.ID.Hex(),
		"title":        p.Title,
		"content":      p.Content,
		"location":     p.Location,
		"tag":          p.Tag,
		"optionalTags": tags,
		"createdAt":    createdAt.Format(time.RFC3339),
		"status":       p.Status,
	}
}

// isLocalRequest reports whether the request originates from a recognized
// local development host.
func isLocalRequest(c *gin.Context) bool {
	host := c.Request.Host
	return strings.HasPrefix(host, "localhost") || strings.HasPrefix(host, "127.0.0.1")
}
