package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/task-tracker/internal/constants"
	"github.com/yukikurage/task-tracker/internal/models"
	"github.com/yukikurage/task-tracker/internal/policy"
	"github.com/yukikurage/task-tracker/internal/services"
)

type stubTokens map[string]uint64

func (s stubTokens) Parse(token string) (uint64, error) {
	if id, ok := s[token]; ok {
		return id, nil
	}
	return 0, services.ErrInvalidToken
}

type stubResolver struct {
	requester policy.Requester
	err       error
	gotRole   models.Role
}

func (s *stubResolver) Requester(userID uint64, defaultRole models.Role) (policy.Requester, error) {
	s.gotRole = defaultRole
	if s.err != nil {
		return policy.Requester{}, s.err
	}
	r := s.requester
	r.UserID = userID
	return r, nil
}

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(sessions.Sessions(constants.SessionCookieName, cookie.NewStore([]byte("secret"))))
	r.POST("/login", func(c *gin.Context) {
		session := sessions.Default(c)
		session.Set(constants.ContextKeyUserID, uint64(7))
		if err := session.Save(); err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.Status(http.StatusNoContent)
	})
	return r
}

func TestRequireAuth_Session(t *testing.T) {
	r := newRouter()
	r.GET("/private", RequireAuth(nil), func(c *gin.Context) {
		userID, ok := GetUserID(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"user_id": userID})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/private?x=1", nil))
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/api/auth/login?next=%2Fprivate%3Fx%3D1", w.Header().Get("Location"))

	login := httptest.NewRecorder()
	r.ServeHTTP(login, httptest.NewRequest(http.MethodPost, "/login", nil))
	require.Equal(t, http.StatusNoContent, login.Code)

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	for _, c := range login.Result().Cookies() {
		req.AddCookie(c)
	}
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":7}`, w.Body.String())
}

func TestRequireAuth_Bearer(t *testing.T) {
	r := newRouter()
	r.GET("/private", RequireAuth(stubTokens{"good": 42}), func(c *gin.Context) {
		userID, _ := GetUserID(c)
		c.JSON(http.StatusOK, gin.H{"user_id": userID})
	})

	tests := []struct {
		name   string
		header string
		code   int
	}{
		{"valid", "Bearer good", http.StatusOK},
		{"unknown token", "Bearer bad", http.StatusUnauthorized},
		{"wrong scheme", "Token good", http.StatusUnauthorized},
		{"no header", "", http.StatusSeeOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/private", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.code, w.Code)
		})
	}
}

func TestRequireAuth_BearerIgnoredWithoutParser(t *testing.T) {
	r := newRouter()
	r.GET("/private", RequireAuth(nil), func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer good")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusSeeOther, w.Code)
}

func TestGetUserID(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	_, ok := GetUserID(c)
	assert.False(t, ok)

	for _, v := range []any{uint64(3), uint(3), 3} {
		c.Set(constants.ContextKeyUserID, v)
		id, ok := GetUserID(c)
		assert.True(t, ok)
		assert.Equal(t, uint64(3), id)
	}

	c.Set(constants.ContextKeyUserID, -1)
	_, ok = GetUserID(c)
	assert.False(t, ok)

	c.Set(constants.ContextKeyUserID, "3")
	_, ok = GetUserID(c)
	assert.False(t, ok)
}

func TestRequireTaskID(t *testing.T) {
	r := newRouter()
	r.GET("/tasks/:id", RequireTaskID(), func(c *gin.Context) {
		id, ok := GetTaskID(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"id": id})
	})

	tests := []struct {
		path string
		code int
	}{
		{"/tasks/12", http.StatusOK},
		{"/tasks/0", http.StatusNotFound},
		{"/tasks/-1", http.StatusNotFound},
		{"/tasks/abc", http.StatusNotFound},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))
		assert.Equal(t, tt.code, w.Code, tt.path)
	}
}

func TestLoadRequester(t *testing.T) {
	resolver := &stubResolver{requester: policy.Requester{Role: models.RoleTester}}
	r := newRouter()
	r.GET("/me", RequireAuth(stubTokens{"good": 9}), LoadRequester(resolver, models.RoleManager), func(c *gin.Context) {
		requester, ok := GetRequester(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"user_id": requester.UserID, "role": requester.Role})
	})

	serve := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer good")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := serve()
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":9,"role":"tester"}`, w.Body.String())
	assert.Equal(t, models.RoleManager, resolver.gotRole)

	resolver.err = services.ErrUserNotFound
	assert.Equal(t, http.StatusSeeOther, serve().Code)

	resolver.err = errors.New("database is down")
	assert.Equal(t, http.StatusInternalServerError, serve().Code)
}

func TestRequestID(t *testing.T) {
	r := newRouter()
	r.GET("/ping", RequestID(), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(constants.ContextKeyRequestID))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	generated := w.Header().Get(constants.RequestIDHeader)
	_, err := uuid.Parse(generated)
	require.NoError(t, err)
	assert.Equal(t, generated, w.Body.String())

	sent := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(constants.RequestIDHeader, sent)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, sent, w.Header().Get(constants.RequestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(constants.RequestIDHeader, "not a uuid\nforged log line")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.NotContains(t, w.Header().Get(constants.RequestIDHeader), "forged")
}

func TestLogFormatter(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Set(constants.ContextKeyRequestID, "req-1")

	line := LogFormatter(gin.LogFormatterParams{
		TimeStamp:  time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		StatusCode: http.StatusOK,
		Method:     http.MethodGet,
		Path:       "/api/tasks",
		Keys:       c.Keys,
	})

	assert.Contains(t, line, "2026-01-02T03:04:05Z")
	assert.Contains(t, line, `"/api/tasks"`)
	assert.Contains(t, line, "req-1")
}
