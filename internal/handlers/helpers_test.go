package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/task-tracker/internal/constants"
	"github.com/yukikurage/task-tracker/internal/dto"
	"github.com/yukikurage/task-tracker/internal/models"
	"github.com/yukikurage/task-tracker/internal/repository"
	"github.com/yukikurage/task-tracker/internal/services"
	"github.com/yukikurage/task-tracker/internal/testutil"
	"gorm.io/gorm"
)

type fakeDrafter struct {
	tasks []services.GeneratedTask
	err   error
}

func (f *fakeDrafter) GenerateTasksFromText(ctx context.Context, text string) ([]services.GeneratedTask, error) {
	return f.tasks, f.err
}

type apiEnv struct {
	db     *gorm.DB
	router *gin.Engine
	tokens *services.TokenService
	auth   *services.AuthService
}

type envOption func(*envConfig)

type envConfig struct {
	drafter   services.TaskDrafter
	tokensOff bool
}

func withDrafter(d services.TaskDrafter) envOption {
	return func(c *envConfig) { c.drafter = d }
}

func withoutTokens() envOption {
	return func(c *envConfig) { c.tokensOff = true }
}

// newAPIEnv mounts the full route table on an in-memory database.
func newAPIEnv(t *testing.T, opts ...envOption) *apiEnv {
	t.Helper()

	var cfg envConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	gin.SetMode(gin.TestMode)
	RegisterValidators()

	db := testutil.NewDB(t)
	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	authService := services.NewAuthService(userRepo)
	profileService := services.NewProfileService(profileRepo, userRepo)

	env := &apiEnv{db: db, auth: authService}

	routes := Routes{
		Tasks:      NewTaskHandler(services.NewTaskService(taskRepo, userRepo, cfg.drafter)),
		Profiles:   NewProfileHandler(profileService),
		Dashboard:  NewDashboardHandler(services.NewDashboardService(taskRepo)),
		Requesters: profileService,
	}
	if !cfg.tokensOff {
		env.tokens = services.NewTokenService("test-secret", time.Hour)
		routes.Tokens = env.tokens
	}
	routes.Auth = NewAuthHandler(authService, profileService, env.tokens)

	r := gin.New()
	r.Use(sessions.Sessions(constants.SessionCookieName, cookie.NewStore([]byte("secret"))))
	routes.Register(r)
	env.router = r

	return env
}

// request sends body as JSON. When user is not nil the request carries a
// bearer token for them.
func (e *apiEnv) request(t *testing.T, method, path string, body any, user *models.User, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		req = httptest.NewRequest(method, path, bytes.NewReader(raw))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	if user != nil {
		token, _, err := e.tokens.Issue(user)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *apiEnv) requestWithHeader(t *testing.T, method, path, key, value string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, nil)
	req.Header.Set(key, value)
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

type errorBody struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details"`
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

// requireRedirect checks a 303 answer and returns its body.
func requireRedirect(t *testing.T, w *httptest.ResponseRecorder, location string) dto.RedirectResponse {
	t.Helper()

	require.Equal(t, http.StatusSeeOther, w.Code, w.Body.String())
	require.Equal(t, location, w.Header().Get("Location"))
	body := decode[dto.RedirectResponse](t, w)
	require.Equal(t, location, body.RedirectTo)
	return body
}
