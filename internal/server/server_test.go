package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"yatube/internal/config"
	"yatube/internal/database"
	"yatube/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var serverTestDBCounter atomic.Int64

type testServer struct {
	app *fiber.App
	db  *gorm.DB
	srv *Server
}

// newTestServer builds a full server on an in-memory SQLite database and a
// miniredis instance.
func newTestServer(t *testing.T) *testServer {
	t.Helper()

	dsn := fmt.Sprintf("file:servertest%d?mode=memory&cache=shared", serverTestDBCounter.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(database.PersistentModels()...))

	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	cfg := &config.Config{
		JWTSecret: "test-secret-key-for-unit-tests-only!",
		Port:      "0",
		Env:       "test",
	}

	srv := NewServerWithDeps(cfg, db, redisClient)
	return &testServer{app: srv.BuildApp(), db: db, srv: srv}
}

func (ts *testServer) request(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := ts.app.Test(req, -1)
	require.NoError(t, err)
	return res
}

func decodeBody(t *testing.T, res *http.Response, dest any) {
	t.Helper()
	defer func() { _ = res.Body.Close() }()
	require.NoError(t, json.NewDecoder(res.Body).Decode(dest))
}

// createUser inserts a user directly and returns a valid access token.
func (ts *testServer) createUser(t *testing.T, username string) (*models.User, string) {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	require.NoError(t, err)
	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: string(hashed),
	}
	require.NoError(t, ts.db.Create(user).Error)

	token, err := ts.srv.generateToken(user, "access", accessTokenTTL)
	require.NoError(t, err)
	return user, token
}

func (ts *testServer) createPost(t *testing.T, user *models.User, text string) *models.Post {
	t.Helper()
	post := &models.Post{Text: text, UserID: user.ID}
	require.NoError(t, ts.db.Create(post).Error)
	return post
}

func (ts *testServer) createGroup(t *testing.T, slug string) *models.Group {
	t.Helper()
	group := &models.Group{Title: slug, Slug: slug, Description: "about " + slug}
	require.NoError(t, ts.db.Create(group).Error)
	return group
}

func assertUnauthenticatedBody(t *testing.T, res *http.Response) {
	t.Helper()
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	var body map[string]string
	decodeBody(t, res, &body)
	assert.Equal(t, "Authentication credentials were not provided.", body["detail"])
}

func TestHealthEndpoints(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	res := ts.request(t, http.MethodGet, "/health/live", "", nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	_ = res.Body.Close()

	res = ts.request(t, http.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	var body struct {
		Status string `json:"status"`
		Checks struct {
			Database string `json:"database"`
			Redis    string `json:"redis"`
		} `json:"checks"`
	}
	decodeBody(t, res, &body)
	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, "healthy", body.Checks.Database)
	assert.Equal(t, "healthy", body.Checks.Redis)
}

func TestAuthMiddleware(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	t.Run("missing header", func(t *testing.T) {
		res := ts.request(t, http.MethodPost, "/api/v1/posts", "", map[string]string{"text": "hi"})
		assertUnauthenticatedBody(t, res)
	})

	t.Run("malformed token", func(t *testing.T) {
		res := ts.request(t, http.MethodPost, "/api/v1/posts", "not-a-jwt", map[string]string{"text": "hi"})
		assertUnauthenticatedBody(t, res)
	})

	t.Run("refresh token rejected on API routes", func(t *testing.T) {
		user, _ := ts.createUser(t, "refuser")
		refresh, err := ts.srv.generateToken(user, "refresh", refreshTokenTTL)
		require.NoError(t, err)
		res := ts.request(t, http.MethodPost, "/api/v1/posts", refresh, map[string]string{"text": "hi"})
		assertUnauthenticatedBody(t, res)
	})

	t.Run("valid token accepted", func(t *testing.T) {
		_, token := ts.createUser(t, "validuser")
		res := ts.request(t, http.MethodPost, "/api/v1/posts", token, map[string]string{"text": "hi"})
		assert.Equal(t, http.StatusCreated, res.StatusCode)
		_ = res.Body.Close()
	})
}
