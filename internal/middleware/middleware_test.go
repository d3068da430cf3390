package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"contacts_backend/database"
	"contacts_backend/internal/auth"
	"contacts_backend/internal/models"
	"contacts_backend/internal/ratelimit"
	"contacts_backend/internal/services"
	"contacts_backend/pkg/apperrors"
	"contacts_backend/pkg/contextkeys"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.OpenMemory("mw_" + name)
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})
	return db
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func txFrom(c *gin.Context) *gorm.DB {
	return c.MustGet(string(contextkeys.DBContextKey)).(*gorm.DB)
}

func countUsers(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&models.User{}).Count(&n).Error)
	return n
}

func TestRequestIDMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	t.Run("generates id and process time", func(t *testing.T) {
		w := serve(r, httptest.NewRequest(http.MethodGet, "/ping", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, w.Header().Get(HeaderRequestID))
		assert.NotEmpty(t, w.Header().Get(HeaderProcessTime))
	})

	t.Run("reuses client id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set(HeaderRequestID, "abc-123")
		w := serve(r, req)
		assert.Equal(t, "abc-123", w.Header().Get(HeaderRequestID))
	})
}

func TestDBSessionMiddleware(t *testing.T) {
	db := newTestDB(t)

	r := gin.New()
	r.Use(gin.CustomRecovery(func(c *gin.Context, _ any) {
		c.AbortWithStatus(http.StatusInternalServerError)
	}))
	r.Use(DBSessionMiddleware(db))

	insert := func(c *gin.Context, name string) {
		require.NoError(t, txFrom(c).Create(&models.User{
			Username: name, Email: name + "@example.com", PasswordHash: "x", Role: models.UserRoleUser,
		}).Error)
	}
	r.POST("/ok", func(c *gin.Context) {
		insert(c, "ok")
		c.Status(http.StatusCreated)
	})
	r.POST("/client-error", func(c *gin.Context) {
		insert(c, "client")
		apperrors.HandleError(c, apperrors.ErrContactNotFound)
	})
	r.POST("/server-error", func(c *gin.Context) {
		insert(c, "server")
		apperrors.HandleError(c, apperrors.InternalError(assert.AnError))
	})
	r.POST("/panic", func(c *gin.Context) {
		insert(c, "panic")
		panic("boom")
	})

	w := serve(r, httptest.NewRequest(http.MethodPost, "/ok", nil))
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.EqualValues(t, 1, countUsers(t, db))

	w = serve(r, httptest.NewRequest(http.MethodPost, "/client-error", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.EqualValues(t, 2, countUsers(t, db), "4xx keeps the writes")

	w = serve(r, httptest.NewRequest(http.MethodPost, "/server-error", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.EqualValues(t, 2, countUsers(t, db), "5xx rolls back")

	w = serve(r, httptest.NewRequest(http.MethodPost, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.EqualValues(t, 2, countUsers(t, db), "panic rolls back")
}

func TestCORSMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware([]string{"http://localhost:3000"}))
	r.GET("/api/contacts", func(c *gin.Context) { c.Status(http.StatusOK) })

	t.Run("preflight from allowed origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/contacts", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		req.Header.Set("Access-Control-Request-Method", http.MethodGet)
		w := serve(r, req)
		assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("simple request passes through", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/contacts", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		w := serve(r, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("unknown origin gets no allow header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/contacts", nil)
		req.Header.Set("Origin", "http://evil.example")
		w := serve(r, req)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(RateLimitMiddleware(ratelimit.NewMemoryLimiter(), "login", ratelimit.PerMinute(2)))
	r.POST("/login", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 2; i++ {
		w := serve(r, httptest.NewRequest(http.MethodPost, "/login", nil))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	}

	w := serve(r, httptest.NewRequest(http.MethodPost, "/login", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Rate limit exceeded", body["error"])
	assert.Equal(t, string(apperrors.CodeLimitExceeded), body["code"])
}

func TestRateLimitMiddleware_NilLimiter(t *testing.T) {
	r := gin.New()
	r.Use(RateLimitMiddleware(nil, "me", ratelimit.PerMinute(1)))
	r.GET("/me", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, serve(r, httptest.NewRequest(http.MethodGet, "/me", nil)).Code)
	}
}

func TestAuthMiddleware(t *testing.T) {
	db := newTestDB(t)
	codec, err := auth.NewTokenCodec("test-secret", "HS256", time.Minute)
	require.NoError(t, err)

	container := services.NewServiceContainer(services.Dependencies{
		Codec:  codec,
		Hasher: auth.NewBcryptHasher(0),
		TTL:    services.TokenTTLs{Access: time.Minute, Refresh: time.Hour},
	})

	for _, u := range []models.User{
		{Username: "alice", Email: "alice@example.com", PasswordHash: "x", EmailVerified: true, Role: models.UserRoleUser},
		{Username: "root", Email: "root@example.com", PasswordHash: "x", EmailVerified: true, Role: models.UserRoleAdmin},
	} {
		require.NoError(t, db.Create(&u).Error)
	}

	r := gin.New()
	r.Use(DBSessionMiddleware(db))
	handler := func(c *gin.Context) {
		user, ok := CurrentUser(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"username": user.Username})
	}
	r.GET("/me", AuthMiddleware(container.AuthService), handler)
	r.GET("/admin", AdminMiddleware(container.AuthService), handler)

	bearer := func(path, username string, typ auth.TokenType) *http.Request {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		token, err := codec.Issue(username, typ, time.Minute)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
		return req
	}

	t.Run("missing header", func(t *testing.T) {
		w := serve(r, httptest.NewRequest(http.MethodGet, "/me", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))
		assert.Contains(t, w.Body.String(), "Could not validate credentials")
	})

	t.Run("malformed header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Token abc")
		assert.Equal(t, http.StatusUnauthorized, serve(r, req).Code)
	})

	t.Run("valid access token", func(t *testing.T) {
		w := serve(r, bearer("/me", "alice", auth.TokenTypeAccess))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"username":"alice"}`, w.Body.String())
	})

	t.Run("refresh token is not an access token", func(t *testing.T) {
		w := serve(r, bearer("/me", "alice", auth.TokenTypeRefresh))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("unknown subject", func(t *testing.T) {
		w := serve(r, bearer("/me", "ghost", auth.TokenTypeAccess))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("admin route refuses users", func(t *testing.T) {
		w := serve(r, bearer("/admin", "alice", auth.TokenTypeAccess))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("admin route accepts admins", func(t *testing.T) {
		w := serve(r, bearer("/admin", "root", auth.TokenTypeAccess))
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
