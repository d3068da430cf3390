package integration_test

import (
	"encoding/json"
	"net/http"
	"net/url"
	"testing"

	"contacts_backend/internal/email"
	"contacts_backend/internal/models"
	"contacts_backend/test/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthFlow_RegisterConfirmLogin(t *testing.T) {
	ts := helpers.NewTestServer(t)

	registerBody := map[string]interface{}{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "super_password123",
	}
	res, body := ts.SendRequest(t, http.MethodPost, "/api/auth/register", "", registerBody)
	require.Equal(t, http.StatusCreated, res.StatusCode, body)

	var user map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(body), &user))
	assert.Equal(t, "alice", user["username"])
	assert.Equal(t, "USER", user["role"])
	assert.Equal(t, false, user["email_verified"])
	assert.Contains(t, user["avatar"], "gravatar.com")
	assert.NotContains(t, body, "password")

	// Unverified accounts cannot log in.
	res, body = ts.SendForm(t, "/api/auth/login", url.Values{
		"username": {"alice"},
		"password": {"super_password123"},
	})
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	assert.Contains(t, body, "Email not verified")

	token := ts.Mailbox.LastToken(t, email.TemplateVerifyEmail, "alice@example.com")
	res, body = ts.SendRequest(t, http.MethodGet, "/api/auth/confirmed_email/"+token, "", nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	assert.Contains(t, body, "Email confirmed")

	// Confirming twice is harmless.
	res, _ = ts.SendRequest(t, http.MethodGet, "/api/auth/confirmed_email/"+token, "", nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	tokens := helpers.Login(t, ts, "alice", "super_password123")
	assert.Equal(t, "bearer", tokens.TokenType)

	res, body = ts.SendRequest(t, http.MethodGet, "/api/auth/me", tokens.AccessToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	assert.Contains(t, body, `"email_verified":true`)
}

func TestLogin_JSONBody(t *testing.T) {
	ts := helpers.NewTestServer(t)
	helpers.CreateUser(t, ts.DB, "bob", "password123", models.UserRoleUser)

	res, body := ts.SendRequest(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "bob",
		"password": "password123",
	})
	assert.Equal(t, http.StatusOK, res.StatusCode, body)
	assert.Contains(t, body, "access_token")
}

func TestLogin_InvalidCredentials(t *testing.T) {
	ts := helpers.NewTestServer(t)
	helpers.CreateUser(t, ts.DB, "bob", "password123", models.UserRoleUser)

	for name, form := range map[string]url.Values{
		"wrong password": {"username": {"bob"}, "password": {"nope-nope"}},
		"unknown user":   {"username": {"nobody"}, "password": {"password123"}},
	} {
		t.Run(name, func(t *testing.T) {
			res, body := ts.SendForm(t, "/api/auth/login", form)
			assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
			assert.Contains(t, body, "Invalid credentials")
		})
	}
}

func TestRegister_Conflicts(t *testing.T) {
	ts := helpers.NewTestServer(t)
	helpers.CreateUser(t, ts.DB, "taken", "password123", models.UserRoleUser)

	res, body := ts.SendRequest(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "other",
		"email":    "taken@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusConflict, res.StatusCode)
	assert.Contains(t, body, "email already exists")

	res, body = ts.SendRequest(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "taken",
		"email":    "fresh@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusConflict, res.StatusCode)
	assert.Contains(t, body, "username already exists")

	res, _ = ts.SendRequest(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "boss",
		"email":    "boss@example.com",
		"password": "password123",
		"role":     "ADMIN",
	})
	assert.Equal(t, http.StatusForbidden, res.StatusCode)
}

func TestRegister_Validation(t *testing.T) {
	ts := helpers.NewTestServer(t)

	res, body := ts.SendRequest(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "al",
		"email":    "not-an-email",
		"password": "short",
	})
	require.Equal(t, http.StatusUnprocessableEntity, res.StatusCode)

	var errBody struct {
		Detail map[string]string `json:"detail"`
		Code   string            `json:"code"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &errBody))
	assert.Equal(t, "VALIDATION_FAILED", errBody.Code)
	assert.Contains(t, errBody.Detail, "username")
	assert.Contains(t, errBody.Detail, "email")
	assert.Contains(t, errBody.Detail, "password")

	res, _ = ts.SendRequest(t, http.MethodPost, "/api/auth/register", "", "{not json")
	assert.Equal(t, http.StatusUnprocessableEntity, res.StatusCode)
}

func TestRefreshToken_SingleValidity(t *testing.T) {
	ts := helpers.NewTestServer(t)
	helpers.CreateUser(t, ts.DB, "carol", "password123", models.UserRoleUser)

	first := helpers.Login(t, ts, "carol", "password123")

	res, body := ts.SendRequest(t, http.MethodPost, "/api/auth/refresh_token", "", map[string]string{
		"refresh_token": first.RefreshToken,
	})
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	var refreshed helpers.Tokens
	require.NoError(t, json.Unmarshal([]byte(body), &refreshed))
	assert.Equal(t, first.RefreshToken, refreshed.RefreshToken)
	assert.NotEmpty(t, refreshed.AccessToken)

	second := helpers.Login(t, ts, "carol", "password123")
	require.NotEqual(t, first.RefreshToken, second.RefreshToken)

	res, body = ts.SendRequest(t, http.MethodPost, "/api/auth/refresh_token", "", map[string]string{
		"refresh_token": first.RefreshToken,
	})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Contains(t, body, "Invalid refresh token")

	res, _ = ts.SendRequest(t, http.MethodPost, "/api/auth/refresh_token", "", map[string]string{
		"refresh_token": second.RefreshToken,
	})
	assert.Equal(t, http.StatusOK, res.StatusCode)

	// An access token is not a refresh token.
	res, _ = ts.SendRequest(t, http.MethodPost, "/api/auth/refresh_token", "", map[string]string{
		"refresh_token": second.AccessToken,
	})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestResendVerificationEmail(t *testing.T) {
	ts := helpers.NewTestServer(t)

	res, _ := ts.SendRequest(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "dave",
		"email":    "dave@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, res.StatusCode)

	res, body := ts.SendRequest(t, http.MethodPost, "/api/auth/resend_verification_email", "", map[string]string{
		"email": "dave@example.com",
	})
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, "Verification email sent")
	assert.Len(t, ts.Mailbox.Messages(t, email.TemplateVerifyEmail, "dave@example.com"), 2)

	res, body = ts.SendRequest(t, http.MethodPost, "/api/auth/resend_verification_email", "", map[string]string{
		"email": "ghost@example.com",
	})
	assert.Equal(t, http.StatusOK, res.StatusCode, "unknown emails are not revealed")
	assert.Contains(t, body, "Verification email sent")

	helpers.CreateUser(t, ts.DB, "erin", "password123", models.UserRoleUser)
	res, body = ts.SendRequest(t, http.MethodPost, "/api/auth/resend_verification_email", "", map[string]string{
		"email": "erin@example.com",
	})
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, "Email already verified")
}

func TestPasswordReset_Flow(t *testing.T) {
	ts := helpers.NewTestServer(t)
	helpers.CreateUser(t, ts.DB, "frank", "password123", models.UserRoleUser)

	res, _ := ts.SendRequest(t, http.MethodPost, "/api/auth/request_password_reset", "", map[string]string{
		"email": "frank@example.com",
	})
	require.Equal(t, http.StatusOK, res.StatusCode)
	token := ts.Mailbox.LastToken(t, email.TemplateResetPassword, "frank@example.com")

	res, page := ts.SendRequest(t, http.MethodGet, "/api/auth/password_reset/"+token, "", nil)
	require.Equal(t, http.StatusOK, res.StatusCode, page)
	assert.Contains(t, res.Header.Get("Content-Type"), "text/html")
	assert.Contains(t, page, "frank")
	assert.Contains(t, page, "/api/auth/password_reset")

	res, body := ts.SendRequest(t, http.MethodPost, "/api/auth/password_reset", "", map[string]string{
		"password":             "new_password456",
		"password_reset_token": token,
	})
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	assert.Contains(t, body, "Password updated successfully")

	helpers.Login(t, ts, "frank", "new_password456")

	res, _ = ts.SendForm(t, "/api/auth/login", url.Values{"username": {"frank"}, "password": {"password123"}})
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	// The token is single use.
	res, _ = ts.SendRequest(t, http.MethodPost, "/api/auth/password_reset", "", map[string]string{
		"password":             "third_password789",
		"password_reset_token": token,
	})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	res, _ = ts.SendRequest(t, http.MethodGet, "/api/auth/password_reset/"+token, "", nil)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestRequestPasswordReset_UnknownEmail(t *testing.T) {
	ts := helpers.NewTestServer(t)

	res, body := ts.SendRequest(t, http.MethodPost, "/api/auth/request_password_reset", "", map[string]string{
		"email": "nobody@example.com",
	})
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.JSONEq(t, `{"message":"Password reset requested successfully"}`, body)
	assert.Empty(t, ts.Mailbox.Messages(t, email.TemplateResetPassword, "nobody@example.com"))
}

func TestMe_RequiresBearerToken(t *testing.T) {
	ts := helpers.NewTestServer(t)

	res, body := ts.SendRequest(t, http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	assert.Equal(t, "Bearer", res.Header.Get("WWW-Authenticate"))
	assert.Contains(t, body, "Could not validate credentials")

	res, _ = ts.SendRequest(t, http.MethodGet, "/api/auth/me", "garbage.token.value", nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
}

func TestRateLimit_Login(t *testing.T) {
	ts := helpers.NewTestServer(t, helpers.WithRateLimits())
	form := url.Values{"username": {"nobody"}, "password": {"password123"}}

	for i := 0; i < ts.Config.RateLimit.Login; i++ {
		res, _ := ts.SendForm(t, "/api/auth/login", form)
		require.Equal(t, http.StatusUnauthorized, res.StatusCode)
	}

	res, body := ts.SendForm(t, "/api/auth/login", form)
	assert.Equal(t, http.StatusTooManyRequests, res.StatusCode)
	assert.Contains(t, body, "Rate limit exceeded")
	assert.NotEmpty(t, res.Header.Get("Retry-After"))
}

func TestRateLimit_PasswordReset(t *testing.T) {
	ts := helpers.NewTestServer(t, helpers.WithRateLimits())
	body := map[string]string{"password": "newpassword1", "password_reset_token": "not-a-token"}

	for i := 0; i < ts.Config.RateLimit.PasswordReset; i++ {
		res, _ := ts.SendRequest(t, http.MethodPost, "/api/auth/password_reset", "", body)
		require.Equal(t, http.StatusBadRequest, res.StatusCode)
	}

	res, resBody := ts.SendRequest(t, http.MethodPost, "/api/auth/password_reset", "", body)
	assert.Equal(t, http.StatusTooManyRequests, res.StatusCode)
	assert.Contains(t, resBody, "Rate limit exceeded")
}

func TestResponseHeaders(t *testing.T) {
	ts := helpers.NewTestServer(t)

	res, _ := ts.SendRequest(t, http.MethodGet, "/api/healthchecker", "", nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.NotEmpty(t, res.Header.Get("X-Request-ID"))
	assert.NotEmpty(t, res.Header.Get("X-Process-Time"))
}
