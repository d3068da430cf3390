package helpers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"contacts_backend/database"
	"contacts_backend/internal/app"
	"contacts_backend/internal/config"
	"contacts_backend/internal/email"
	"contacts_backend/internal/ratelimit"
	"contacts_backend/internal/services"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// TestServer runs the full router on a private in-memory SQLite database.
type TestServer struct {
	Server   *httptest.Server
	DB       *gorm.DB
	Config   *config.Config
	Services *services.ServiceContainer
	Mailbox  *Mailbox
	Uploader *FakeUploader
}

// Option tweaks the configuration or infrastructure before the router is built.
type Option func(cfg *config.Config, infra *app.Infrastructure)

// WithRateLimits enables in-process rate limiting.
func WithRateLimits() Option {
	return func(cfg *config.Config, infra *app.Infrastructure) {
		cfg.RateLimit.Enabled = true
		infra.Limiter = ratelimit.NewMemoryLimiter()
	}
}

// WithoutUploader leaves avatar uploads unconfigured.
func WithoutUploader() Option {
	return func(_ *config.Config, infra *app.Infrastructure) {
		infra.Uploader = nil
	}
}

func NewTestServer(t *testing.T, opts ...Option) *TestServer {
	t.Helper()

	t.Setenv("DATABASE_URL", "sqlite://unused")
	t.Setenv("JWT_SECRET", "test_secret_key_for_integration_tests")
	cfg, err := config.Load(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.OpenMemory("it_" + name)
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	mailbox := &Mailbox{}
	uploader := &FakeUploader{BaseURL: "https://images.test/avatars/"}
	infra := app.Infrastructure{
		DB:       db,
		Email:    mailbox,
		Pages:    email.NewTemplateManager(),
		Uploader: uploader,
	}
	for _, opt := range opts {
		opt(cfg, &infra)
	}

	router, container, err := app.SetupRouter(cfg, infra)
	require.NoError(t, err)
	mailbox.wait = container.EmailService.Wait

	ts := &TestServer{
		Server:   httptest.NewServer(router),
		DB:       db,
		Config:   cfg,
		Services: container,
		Mailbox:  mailbox,
		Uploader: uploader,
	}
	t.Cleanup(ts.Close)
	return ts
}

func (ts *TestServer) Close() {
	ts.Server.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = ts.Services.EmailService.Wait(ctx)
	sqlDB, _ := ts.DB.DB()
	sqlDB.Close()
}

// SendRequest sends body as JSON and returns the response with its body read.
func (ts *TestServer) SendRequest(t *testing.T, method, path, token string, body interface{}) (*http.Response, string) {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reqBody = strings.NewReader(b)
		default:
			jsonBody, err := json.Marshal(body)
			require.NoError(t, err)
			reqBody = bytes.NewBuffer(jsonBody)
		}
	}

	req, err := http.NewRequest(method, ts.Server.URL+path, reqBody)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return ts.do(t, req, token)
}

// SendForm posts an application/x-www-form-urlencoded body.
func (ts *TestServer) SendForm(t *testing.T, path string, form url.Values) (*http.Response, string) {
	t.Helper()

	req, err := http.NewRequest(http.MethodPost, ts.Server.URL+path, strings.NewReader(form.Encode()))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return ts.do(t, req, "")
}

// SendFile sends a multipart request with a single file field.
func (ts *TestServer) SendFile(t *testing.T, method, path, token, field, filename, contentType string, content []byte) (*http.Response, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	header := make(map[string][]string)
	header["Content-Disposition"] = []string{`form-data; name="` + field + `"; filename="` + filename + `"`}
	header["Content-Type"] = []string{contentType}
	part, err := mw.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req, err := http.NewRequest(method, ts.Server.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return ts.do(t, req, token)
}

func (ts *TestServer) do(t *testing.T, req *http.Request, token string) (*http.Response, string) {
	t.Helper()

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	res, err := ts.Server.Client().Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res, string(resBody)
}
