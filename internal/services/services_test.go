package services

import (
	"context"
	"encoding/json"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"contacts_backend/database"
	"contacts_backend/internal/auth"
	"contacts_backend/internal/cache"
	"contacts_backend/internal/models"
	"contacts_backend/internal/repositories"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// newTestDB returns a migrated in-memory database private to t.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.OpenMemory(name)
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})
	return db
}

type sentEmail struct {
	Kind  string
	To    string
	Token string
}

// recordingEmails captures dispatched emails synchronously.
type recordingEmails struct {
	mu   sync.Mutex
	sent []sentEmail
}

func (r *recordingEmails) SendVerification(_ context.Context, user *models.User, token string) {
	r.record("verification", user.Email, token)
}

func (r *recordingEmails) SendPasswordReset(_ context.Context, user *models.User, token string) {
	r.record("password_reset", user.Email, token)
}

func (r *recordingEmails) Wait(context.Context) error { return nil }

func (r *recordingEmails) record(kind, to, token string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, sentEmail{Kind: kind, To: to, Token: token})
}

func (r *recordingEmails) byKind(kind string) []sentEmail {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []sentEmail
	for _, e := range r.sent {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

func (r *recordingEmails) last(t *testing.T, kind string) sentEmail {
	t.Helper()
	all := r.byKind(kind)
	require.NotEmpty(t, all, "no %s email sent", kind)
	return all[len(all)-1]
}

// jsonStore is an in-process cache.Store that round-trips through JSON
// like the Redis store does.
type jsonStore struct {
	mu   sync.Mutex
	data map[string][]byte
	gets int
}

func newJSONStore() *jsonStore {
	return &jsonStore{data: map[string][]byte{}}
}

func (s *jsonStore) Get(_ context.Context, key string, dest any) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gets++
	b, ok := s.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dest)
}

func (s *jsonStore) Set(_ context.Context, key string, value any, _ time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = b
	return nil
}

func (s *jsonStore) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.data, k)
	}
	return nil
}

func (s *jsonStore) has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.data[key]
	return ok
}

type fakeUploader struct {
	url      string
	err      error
	username string
	body     string
}

func (f *fakeUploader) UploadAvatar(_ context.Context, file io.Reader, username string) (string, error) {
	b, _ := io.ReadAll(file)
	f.username = username
	f.body = string(b)
	return f.url, f.err
}

type authFixture struct {
	db     *gorm.DB
	svc    AuthService
	codec  *auth.TokenCodec
	emails *recordingEmails
	store  *jsonStore
	users  *cache.ReadThrough
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	codec, err := auth.NewTokenCodec("test-secret", "HS256", 15*time.Minute)
	require.NoError(t, err)

	store := newJSONStore()
	users := cache.NewReadThrough(store, time.Hour)
	emails := &recordingEmails{}

	svc := NewAuthService(
		repositories.NewUserRepository(),
		codec,
		auth.NewBcryptHasher(bcrypt.MinCost),
		users,
		emails,
		TokenTTLs{
			Access:        15 * time.Minute,
			Refresh:       7 * 24 * time.Hour,
			PasswordReset: time.Hour,
			Verification:  24 * time.Hour,
		},
	)
	return &authFixture{
		db:     newTestDB(t),
		svc:    svc,
		codec:  codec,
		emails: emails,
		store:  store,
		users:  users,
	}
}

