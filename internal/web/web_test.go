package web

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/member-portal/internal/auth"
	"github.com/yourusername/member-portal/internal/logging"
	"github.com/yourusername/member-portal/internal/storage"
	"github.com/yourusername/member-portal/internal/token"
)

type brokenVisitorStore struct{}

func (brokenVisitorStore) Add(context.Context, *storage.Registration) error {
	return errors.New("disk on fire")
}

func newPageRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tmpl, err := Templates()
	require.NoError(t, err)

	router := gin.New()
	router.SetHTMLTemplate(tmpl)
	router.StaticFileFS(StylesPath, "styles.css", Static())
	router.GET("/", Landing)
	router.GET("/normal", NormalForm)
	router.GET("/core", CoreChoice)
	router.GET("/core/signup", SignupForm)
	router.GET("/core/login", LoginForm)
	router.GET("/dashboard", func(c *gin.Context) {
		c.Request = c.Request.WithContext(auth.WithClaims(c.Request.Context(), &token.Claims{
			Role:     token.RoleCoreMember,
			Username: "alice",
		}))
		c.Next()
	}, Dashboard)
	return router
}

func get(router *gin.Engine, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestPagesRender(t *testing.T) {
	router := newPageRouter(t)

	tests := []struct {
		path string
		want []string
	}{
		{"/", []string{"Normal User", "Core Member", `href="/styles.css"`}},
		{"/normal", []string{`action="/normal/register"`, `name="email"`}},
		{"/core", []string{"/core/signup", "/core/login"}},
		{"/core/signup", []string{"Core Member Sign Up", `action="/core/signup"`, `type="password"`}},
		{"/core/login", []string{"Core Member Login", `action="/core/login"`}},
	}
	for _, tt := range tests {
		rec := get(router, tt.path)
		require.Equal(t, http.StatusOK, rec.Code, tt.path)
		assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
		for _, w := range tt.want {
			assert.Contains(t, rec.Body.String(), w, tt.path)
		}
	}
}

func TestDashboardRendersUsername(t *testing.T) {
	rec := get(newPageRouter(t), "/dashboard")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Welcome, Core Member!")
	assert.Contains(t, rec.Body.String(), "Signed in as alice")
}

func TestStylesheetServed(t *testing.T) {
	rec := get(newPageRouter(t), StylesPath)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/css")
	assert.Contains(t, rec.Body.String(), ".page-container")
}

func TestRegisterHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	visitors := storage.NewVisitorStore()
	router := gin.New()
	router.POST("/normal/register", RegisterHandler(visitors, logging.Discard()))

	form := url.Values{"name": {"Bob"}, "email": {"bob@example.com"}}
	req := httptest.NewRequest(http.MethodPost, "/normal/register", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "Welcome, Bob!")
	assert.Equal(t, 1, visitors.Len())

	req = httptest.NewRequest(http.MethodPost, "/normal/register", bytes.NewBufferString(`{"name":"Bob"}`))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid input data")
	assert.Equal(t, 1, visitors.Len())
}

func TestRegisterHandlerStoreFailure(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/normal/register", RegisterHandler(brokenVisitorStore{}, logging.Discard()))

	req := httptest.NewRequest(http.MethodPost, "/normal/register",
		bytes.NewBufferString(`{"name":"Bob","email":"bob@example.com"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "disk on fire")
}
