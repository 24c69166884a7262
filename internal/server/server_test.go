package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"inkwell/internal/cache"
	"inkwell/internal/config"
	"inkwell/internal/database"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestServerWithRedis is like setupTestServer but backs the server with
// a miniredis instance for blacklist and cache behavior.
func setupTestServerWithRedis(t *testing.T) (*Server, *fiber.App) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = redisClient.Close() })

	cfg := &config.Config{
		JWTSecret:      "handler-test-secret",
		Env:            "test",
		BaseURL:        "http://localhost:8460",
		ImageUploadDir: t.TempDir(),
	}

	s, err := NewServerWithDeps(cfg, db, redisClient)
	require.NoError(t, err)
	s.mailer = &fakeMailer{}

	app := fiber.New()
	s.SetupRoutes(app)
	return s, app
}

func TestLivenessCheck(t *testing.T) {
	_, app, _ := setupTestServer(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health/live", nil))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestReadinessWithoutRedis(t *testing.T) {
	_, app, _ := setupTestServer(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	body := decodeBody(t, resp)
	checks := body["checks"].(map[string]any)
	assert.Equal(t, "healthy", checks["database"])
	assert.Equal(t, "unavailable", checks["redis"])
}

func TestReadinessWithRedis(t *testing.T) {
	_, app := setupTestServerWithRedis(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAnonymousFeedIsCachedOnce(t *testing.T) {
	s, app := setupTestServerWithRedis(t)
	author := createTestUser(t, s, "author", true)
	createTestBlog(t, s, author.ID, "Cached entry", true)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/blogs", nil))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	require.Len(t, body["blogs"], 1)

	// The repository populated the feed key; the handler adds no second
	// caching layer on top of it.
	keys, err := s.redis.Keys(context.Background(), "blogs:*").Result()
	require.NoError(t, err)
	assert.Equal(t, []string{cache.FeedKey}, keys)

	// A cache hit serves the same page.
	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/blogs", nil))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body = decodeBody(t, resp)
	assert.Len(t, body["blogs"], 1)
}

func TestLogoutRevokesToken(t *testing.T) {
	s, app := setupTestServerWithRedis(t)
	user := createTestUser(t, s, "leaver", true)
	token := authToken(t, s, user)

	// Token works before logout.
	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	req = httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	// The same token is now rejected.
	req = httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestTokenIssuerAndAudienceEnforced(t *testing.T) {
	s, app, _ := setupTestServer(t)
	user := createTestUser(t, s, "imposter", true)

	forge := func(iss, aud string) string {
		now := time.Now()
		claims := jwt.MapClaims{
			"sub": strconv.FormatUint(uint64(user.ID), 10),
			"iss": iss,
			"aud": aud,
			"exp": now.Add(time.Hour).Unix(),
			"iat": now.Unix(),
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
			SignedString([]byte(s.config.JWTSecret))
		require.NoError(t, err)
		return token
	}

	tests := []struct {
		name           string
		token          string
		expectedStatus int
	}{
		{"Valid", forge(tokenIssuer, tokenAudience), http.StatusOK},
		{"Wrong issuer", forge("someone-else", tokenAudience), http.StatusUnauthorized},
		{"Wrong audience", forge(tokenIssuer, "other-client"), http.StatusUnauthorized},
		{"Tampered", forge(tokenIssuer, tokenAudience) + "x", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
			req.Header.Set("Authorization", "Bearer "+tt.token)
			resp, err := app.Test(req)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
		})
	}
}
