package handlers

import (
	"context"
	"log"
	"net/http"
	"regexp"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/J5Chen/Climate-Stories-Map/internal/models"
	"github.com/J5Chen/Climate-Stories-Map/internal/services"
	"github.com/J5Chen/Climate-Stories-Map/internal/utils"
)

// AdminPostStore is the slice of the post repository the panel needs.
type AdminPostStore interface {
	List(ctx context.Context, filter bson.M) ([]models.Post, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error)
	Insert(ctx context.Context, post *models.Post) (primitive.ObjectID, error)
	UpdateByID(ctx context.Context, id primitive.ObjectID, set bson.M) (int64, error)
	DeleteByID(ctx context.Context, id primitive.ObjectID) (int64, error)
}

// AdminUserStore is the slice of the user repository the panel needs.
type AdminUserStore interface {
	List(ctx context.Context) ([]models.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	UpdateByID(ctx context.Context, id primitive.ObjectID, set bson.M) (int64, error)
	DeleteByID(ctx context.Context, id primitive.ObjectID) (int64, error)
}

// UserCreator creates accounts with the password rules enforced.
type UserCreator interface {
	CreateUser(ctx context.Context, username, password, role string) error
}

// AdminHandler serves the tabular browse/edit/delete panel bound to the
// stories and users collections. Access control (admin or moderator) is
// applied by the route group middleware.
type AdminHandler struct {
	posts AdminPostStore
	users AdminUserStore
	auth  UserCreator
}

// NewAdminHandler wires the panel to its stores.
func NewAdminHandler(posts AdminPostStore, users AdminUserStore, auth UserCreator) *AdminHandler {
	return &AdminHandler{posts: posts, users: users, auth: auth}
}

// Index redirects to the post list, the panel's default landing view.
func (h *AdminHandler) Index(c *gin.Context) {
	c.Redirect(http.StatusFound, "/admin/posts")
}

// PostQuery captures the list view's filter and sort parameters.
type PostQuery struct {
	Title    string `form:"title"`
	TitleOp  string `form:"title_op"` // like | eq | ne
	Tag      string `form:"tag"`
	TagOp    string `form:"tag_op"` // eq | ne
	Status   string `form:"status"`
	StatusOp string `form:"status_op"` // eq | ne
	After    string `form:"created_after"`
	Before   string `form:"created_before"`
	Sort     string `form:"sort"`  // title | created_at | status
	Order    string `form:"order"` // asc | desc
}

// postAdminFilter builds the mongo filter for the panel's list view.
func postAdminFilter(q PostQuery) bson.M {
	filter := bson.M{}

	if q.Title != "" {
		switch q.TitleOp {
		case "eq":
			filter["title"] = q.Title
		case "ne":
			filter["title"] = bson.M{"$ne": q.Title}
		default:
			filter["title"] = bson.M{"$regex": regexp.QuoteMeta(q.Title), "$options": "i"}
		}
	}
	if q.Tag != "" {
		if q.TagOp == "ne" {
			filter["tag"] = bson.M{"$ne": q.Tag}
		} else {
			filter["tag"] = q.Tag
		}
	}
	if q.Status != "" {
		if q.StatusOp == "ne" {
			filter["status"] = bson.M{"$ne": q.Status}
		} else {
			filter["status"] = q.Status
		}
	}

	created := bson.M{}
	if t, err := time.Parse("2006-01-02", q.After); err == nil {
		created["$gt"] = t
	}
	if t, err := time.Parse("2006-01-02", q.Before); err == nil {
		created["$lt"] = t
	}
	if len(created) > 0 {
		filter["created_at"] = created
	}

	return filter
}

// sortPosts orders the list view in place by the requested column.
func sortPosts(posts []models.Post, column, order string) {
	desc := order == "desc"
	sort.SliceStable(posts, func(i, j int) bool {
		var less bool
		switch column {
		case "status":
			less = posts[i].Status < posts[j].Status
		case "created_at":
			less = posts[i].CreatedAt.Before(posts[j].CreatedAt)
		default:
			less = posts[i].Title < posts[j].Title
		}
		if desc {
			return !less
		}
		return less
	})
}

// ListPosts renders the sortable, filterable post table.
func (h *AdminHandler) ListPosts(c *gin.Context) {
	var q PostQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		RenderError(c, http.StatusBadRequest, "Invalid filter parameters")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	posts, err := h.posts.List(ctx, postAdminFilter(q))
	if err != nil {
		log.Printf("admin: list posts: %v", err)
		RenderError(c, http.StatusInternalServerError, "Failed to load posts")
		return
	}
	sortPosts(posts, q.Sort, q.Order)

	rows := make([]gin.H, 0, len(posts))
	for i := range posts {
		p := &posts[i]
		row := gin.H{
			"ID":           p.ID.Hex(),
			"Title":        p.Title,
			"Description":  utils.RenderMarkdown(p.Content.Description),
			"Tag":          p.Tag,
			"OptionalTags": FromPost(p).OptionalTags,
			"CreatedAt":    p.CreatedAt.Format("2006-01-02 15:04"),
			"Status":       p.Status,
			"Location":     p.Location,
		}
		if p.Content.Image != nil {
			row["Image"] = *p.Content.Image
		}
		rows = append(rows, row)
	}

	Render(c, http.StatusOK, "admin/post_list.html", gin.H{
		"Title": "Posts",
		"Posts": rows,
		"Query": q,
		"Tags":  models.SentimentTags,
	})
}

// ShowNewPost renders an empty post form.
func (h *AdminHandler) ShowNewPost(c *gin.Context) {
	Render(c, http.StatusOK, "admin/post_edit.html", gin.H{
		"Title": "New Post",
		"Form":  PostForm{Status: models.StatusPending},
		"Tags":  models.SentimentTags,
	})
}

// CreatePost stores a post submitted through the panel form.
func (h *AdminHandler) CreatePost(c *gin.Context) {
	form, ok := h.bindPostForm(c, "New Post")
	if !ok {
		return
	}

	post := form.ToPost()
	post.CreatedAt = time.Now().UTC()
	if post.Status == "" {
		post.Status = models.StatusPending
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	if _, err := h.posts.Insert(ctx, &post); err != nil {
		log.Printf("admin: create post: %v", err)
		RenderError(c, http.StatusInternalServerError, "Failed to create post")
		return
	}

	c.Redirect(http.StatusFound, "/admin/posts")
}

// ShowEditPost loads a post and presents it through the flattened form.
func (h *AdminHandler) ShowEditPost(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		RenderError(c, http.StatusBadRequest, "Invalid post ID")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	post, err := h.posts.FindByID(ctx, id)
	if err != nil {
		RenderError(c, http.StatusNotFound, "Post not found")
		return
	}

	Render(c, http.StatusOK, "admin/post_edit.html", gin.H{
		"Title": "Edit Post",
		"ID":    id.Hex(),
		"Form":  FromPost(post),
		"Tags":  models.SentimentTags,
	})
}

// UpdatePost reassembles the nested document from the form and applies it.
func (h *AdminHandler) UpdatePost(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		RenderError(c, http.StatusBadRequest, "Invalid post ID")
		return
	}

	form, ok := h.bindPostForm(c, "Edit Post")
	if !ok {
		return
	}

	post := form.ToPost()
	now := time.Now().UTC()
	set := bson.M{
		"title":         post.Title,
		"content":       post.Content,
		"location":      post.Location,
		"tag":           post.Tag,
		"optional_tags": post.OptionalTags,
		"status":        post.Status,
		"updated_at":    now,
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	matched, err := h.posts.UpdateByID(ctx, id, set)
	if err != nil {
		log.Printf("admin: update post: %v", err)
		RenderError(c, http.StatusInternalServerError, "Failed to update post")
		return
	}
	if matched == 0 {
		RenderError(c, http.StatusNotFound, "Post not found")
		return
	}

	c.Redirect(http.StatusFound, "/admin/posts")
}

// DeletePost removes a post from the panel.
func (h *AdminHandler) DeletePost(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		RenderError(c, http.StatusBadRequest, "Invalid post ID")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	if _, err := h.posts.DeleteByID(ctx, id); err != nil {
		log.Printf("admin: delete post: %v", err)
		RenderError(c, http.StatusInternalServerError, "Failed to delete post")
		return
	}

	c.Redirect(http.StatusFound, "/admin/posts")
}

// bindPostForm binds and form-level validates the flattened post form,
// re-rendering the form page on failure.
func (h *AdminHandler) bindPostForm(c *gin.Context, title string) (PostForm, bool) {
	var form PostForm
	if err := c.ShouldBind(&form); err != nil {
		RenderError(c, http.StatusBadRequest, "Invalid form data")
		return form, false
	}

	var errMsg string
	switch {
	case form.Title == "":
		errMsg = "Title is required"
	case form.ContentDescription == "":
		errMsg = "Description is required"
	case !models.ValidTag(form.Tag):
		errMsg = "Tag must be one of: Positive, Neutral, Negative"
	}
	if errMsg != "" {
		obj := gin.H{"Title": title, "Form": form, "Tags": models.SentimentTags, "Error": errMsg}
		if id := c.Param("id"); id != "" {
			obj["ID"] = id
		}
		Render(c, http.StatusBadRequest, "admin/post_edit.html", obj)
		return form, false
	}
	return form, true
}

// ListUsers renders the account table.
func (h *AdminHandler) ListUsers(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	users, err := h.users.List(ctx)
	if err != nil {
		log.Printf("admin: list users: %v", err)
		RenderError(c, http.StatusInternalServerError, "Failed to load users")
		return
	}

	Render(c, http.StatusOK, "admin/user_list.html", gin.H{
		"Title": "Users",
		"Users": users,
	})
}

// ShowNewUser renders an empty account form.
func (h *AdminHandler) ShowNewUser(c *gin.Context) {
	Render(c, http.StatusOK, "admin/user_edit.html", gin.H{"Title": "New User"})
}

// CreateUser creates an account, enforcing the password complexity rules.
func (h *AdminHandler) CreateUser(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")
	role := c.PostForm("role")

	if username == "" {
		Render(c, http.StatusBadRequest, "admin/user_edit.html", gin.H{"Title": "New User", "Error": "Username is required"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	if err := h.auth.CreateUser(ctx, username, password, role); err != nil {
		Render(c, http.StatusBadRequest, "admin/user_edit.html", gin.H{
			"Title":    "New User",
			"Error":    err.Error(),
			"Username": username,
			"Role":     role,
		})
		return
	}

	c.Redirect(http.StatusFound, "/admin/users")
}

// ShowEditUser loads an account for editing.
func (h *AdminHandler) ShowEditUser(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		RenderError(c, http.StatusBadRequest, "Invalid user ID")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	user, err := h.users.FindByID(ctx, id)
	if err != nil {
		RenderError(c, http.StatusNotFound, "User not found")
		return
	}

	Render(c, http.StatusOK, "admin/user_edit.html", gin.H{
		"Title":    "Edit User",
		"ID":       id.Hex(),
		"Username": user.Username,
		"Role":     user.Role,
	})
}

// UpdateUser changes an account's role and, when a new password is given,
// rehashes it after the complexity check.
func (h *AdminHandler) UpdateUser(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		RenderError(c, http.StatusBadRequest, "Invalid user ID")
		return
	}

	role := c.PostForm("role")
	password := c.PostForm("password")

	set := bson.M{"role": role}
	if password != "" {
		if err := services.ValidatePasswordComplexity(password); err != nil {
			Render(c, http.StatusBadRequest, "admin/user_edit.html", gin.H{
				"Title": "Edit User",
				"ID":    id.Hex(),
				"Role":  role,
				"Error": err.Error(),
			})
			return
		}
		hash, err := utils.HashPassword(password)
		if err != nil {
			RenderError(c, http.StatusInternalServerError, "Failed to update user")
			return
		}
		set["password"] = hash
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	matched, err := h.users.UpdateByID(ctx, id, set)
	if err != nil {
		log.Printf("admin: update user: %v", err)
		RenderError(c, http.StatusInternalServerError, "Failed to update user")
		return
	}
	if matched == 0 {
		RenderError(c, http.StatusNotFound, "User not found")
		return
	}

	c.Redirect(http.StatusFound, "/admin/users")
}

// DeleteUser removes an account.
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		RenderError(c, http.StatusBadRequest, "Invalid user ID")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	if _, err := h.users.DeleteByID(ctx, id); err != nil {
		log.Printf("admin: delete user: %v", err)
		RenderError(c, http.StatusInternalServerError, "Failed to delete user")
		return
	}

	c.Redirect(http.StatusFound, "/admin/users")
}
