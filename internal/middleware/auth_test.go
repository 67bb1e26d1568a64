package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// testApp wires a minimal engine with real cookie sessions: a helper route
// that writes arbitrary session values, plus guarded probe routes.
func testApp() *gin.Engine {
	r := gin.New()
	store := cookie.NewStore([]byte("test-secret"))
	r.Use(sessions.Sessions("test_session", store))
	r.Use(LoadUser())

	r.GET("/set", func(c *gin.Context) {
		session := sessions.Default(c)
		if u := c.Query("username"); u != "" {
			session.Set(SessionUsername, u)
		}
		if role := c.Query("role"); role != "" {
			session.Set(SessionRole, role)
		}
		if c.Query("broken") == "true" {
			// Wrong value type under the role key.
			session.Set(SessionUsername, "mallory")
			session.Set(SessionRole, 42)
		}
		session.Save()
		c.Status(http.StatusOK)
	})

	authed := r.Group("/", AuthRequired())
	authed.GET("/listing", func(c *gin.Context) { c.String(http.StatusOK, "listing") })

	admin := r.Group("/admin", ModeratorRequired())
	admin.GET("/posts", func(c *gin.Context) {
		c.String(http.StatusOK, "posts for "+CurrentUser(c).Username)
	})

	adminOnly := r.Group("/settings", AdminRequired())
	adminOnly.GET("", func(c *gin.Context) { c.String(http.StatusOK, "settings") })

	return r
}

// login performs the /set request and returns the session cookies.
func login(t *testing.T, r *gin.Engine, query string) []*http.Cookie {
	t.Helper()
	req := httptest.NewRequest("GET", "/set?"+query, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Result().Cookies()
}

func get(r *gin.Engine, path string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAnonymousRedirectedToLogin(t *testing.T) {
	r := testApp()

	for _, path := range []string{"/listing", "/admin/posts", "/settings"} {
		w := get(r, path, nil)
		if w.Code != http.StatusFound {
			t.Errorf("GET %s anonymous: status = %d, want 302", path, w.Code)
		}
		if loc := w.Header().Get("Location"); loc != "/login" {
			t.Errorf("GET %s anonymous: redirect = %q, want /login", path, loc)
		}
	}
}

func TestModeratorAccess(t *testing.T) {
	r := testApp()
	cookies := login(t, r, "username=mod&role=moderator")

	if w := get(r, "/listing", cookies); w.Code != http.StatusOK {
		t.Errorf("moderator /listing: status = %d", w.Code)
	}
	if w := get(r, "/admin/posts", cookies); w.Code != http.StatusOK {
		t.Errorf("moderator /admin/posts: status = %d", w.Code)
	}
	// Admin-only surface stays closed to moderators.
	if w := get(r, "/settings", cookies); w.Code != http.StatusFound {
		t.Errorf("moderator /settings: status = %d, want 302", w.Code)
	}
}

func TestAdminAccess(t *testing.T) {
	r := testApp()
	cookies := login(t, r, "username=root&role=admin")

	for _, path := range []string{"/listing", "/admin/posts", "/settings"} {
		if w := get(r, path, cookies); w.Code != http.StatusOK {
			t.Errorf("admin %s: status = %d", path, w.Code)
		}
	}
}

func TestMalformedSessionTreatedAsAnonymous(t *testing.T) {
	r := testApp()
	cookies := login(t, r, "broken=true")

	w := get(r, "/admin/posts", cookies)
	if w.Code != http.StatusFound {
		t.Errorf("malformed session: status = %d, want 302 redirect", w.Code)
	}

	w = get(r, "/listing", cookies)
	if w.Code != http.StatusFound {
		t.Errorf("malformed session on /listing: status = %d, want 302", w.Code)
	}
}

func TestRegularRoleCannotModerate(t *testing.T) {
	r := testApp()
	cookies := login(t, r, "username=vis&role=viewer")

	if w := get(r, "/listing", cookies); w.Code != http.StatusOK {
		t.Errorf("viewer /listing: status = %d, want 200", w.Code)
	}
	if w := get(r, "/admin/posts", cookies); w.Code != http.StatusFound {
		t.Errorf("viewer /admin/posts: status = %d, want 302", w.Code)
	}
}
