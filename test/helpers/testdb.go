package helpers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"testing"
	"time"

	"contacts_backend/internal/auth"
	"contacts_backend/internal/email"
	"contacts_backend/internal/models"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Mailbox is an email.Provider that keeps every message in memory.
type Mailbox struct {
	mu       sync.Mutex
	messages []*email.Message
	wait     func(ctx context.Context) error
}

func (m *Mailbox) Send(_ context.Context, msg *email.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, msg)
	return nil
}

// Messages waits for in-flight dispatches and returns the messages sent to
// recipient with the given template.
func (m *Mailbox) Messages(t *testing.T, template, recipient string) []*email.Message {
	t.Helper()
	if m.wait != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		require.NoError(t, m.wait(ctx))
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*email.Message
	for _, msg := range m.messages {
		if msg.Template != template {
			continue
		}
		for _, to := range msg.To {
			if to == recipient {
				out = append(out, msg)
				break
			}
		}
	}
	return out
}

// LastToken returns the token carried by the latest matching message.
func (m *Mailbox) LastToken(t *testing.T, template, recipient string) string {
	t.Helper()
	msgs := m.Messages(t, template, recipient)
	require.NotEmpty(t, msgs, "no %s email for %s", template, recipient)
	token, ok := msgs[len(msgs)-1].Data["token"].(string)
	require.True(t, ok, "message has no token")
	return token
}

// FakeUploader records uploads and returns BaseURL+username.
type FakeUploader struct {
	mu      sync.Mutex
	BaseURL string
	Err     error
	Uploads map[string][]byte
}

func (u *FakeUploader) UploadAvatar(_ context.Context, file io.Reader, username string) (string, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.Err != nil {
		return "", u.Err
	}
	data, err := io.ReadAll(file)
	if err != nil {
		return "", err
	}
	if u.Uploads == nil {
		u.Uploads = make(map[string][]byte)
	}
	u.Uploads[username] = data
	return u.BaseURL + username, nil
}

// CreateUser inserts a verified user with a bcrypt hash of password.
func CreateUser(t *testing.T, db *gorm.DB, username, password string, role models.UserRole) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	emailAddr := username + "@example.com"
	user := &models.User{
		Username:      username,
		Email:         emailAddr,
		PasswordHash:  string(hash),
		EmailVerified: true,
		Role:          role,
		Avatar:        auth.GravatarURL(emailAddr),
	}
	require.NoError(t, db.Create(user).Error, "create user %s", username)
	return user
}

// Tokens is the body of a successful login.
type Tokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// Login logs in through the OAuth2 password form.
func Login(t *testing.T, ts *TestServer, username, password string) Tokens {
	t.Helper()

	res, body := ts.SendForm(t, "/api/auth/login", url.Values{
		"username": {username},
		"password": {password},
	})
	require.Equal(t, http.StatusOK, res.StatusCode, body)

	var tokens Tokens
	require.NoError(t, json.Unmarshal([]byte(body), &tokens))
	require.NotEmpty(t, tokens.AccessToken)
	return tokens
}

// CreateAndLoginUser creates a verified user and returns its access token.
func CreateAndLoginUser(t *testing.T, ts *TestServer, username string, role models.UserRole) (string, *models.User) {
	t.Helper()
	const password = "password123"
	user := CreateUser(t, ts.DB, username, password, role)
	return Login(t, ts, username, password).AccessToken, user
}

// CreateContact posts a contact and returns its id.
func CreateContact(t *testing.T, ts *TestServer, token string, body map[string]interface{}) uint {
	t.Helper()

	res, resBody := ts.SendRequest(t, http.MethodPost, "/api/contacts", token, body)
	require.Equal(t, http.StatusCreated, res.StatusCode, resBody)

	var created struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal([]byte(resBody), &created))
	return created.ID
}

// ContactBody is a valid create-contact payload unique per name.
func ContactBody(name, birthday string) map[string]interface{} {
	body := map[string]interface{}{
		"first_name": name,
		"last_name":  "Tester",
		"email":      fmt.Sprintf("%s@contacts.test", name),
		"phone":      "+380501234567",
	}
	if birthday != "" {
		body["birthday"] = birthday
	}
	return body
}
