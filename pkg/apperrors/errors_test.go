package apperrors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_MarshalJSON(t *testing.T) {
	b, err := json.Marshal(ErrContactNotFound)
	require.NoError(t, err)
	assert.JSONEq(t, `{"detail":"Contact not found","code":"NOT_FOUND"}`, string(b))

	b, err = json.Marshal(ValidationError(map[string]string{"email": "Must be a valid email address"}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"detail":{"email":"Must be a valid email address"},"code":"VALIDATION_FAILED"}`, string(b))
}

func TestAppError_CopiesKeepIdentity(t *testing.T) {
	cause := errors.New("pq: connection reset")
	wrapped := ErrDatabaseUnavailable.WithError(cause)

	assert.True(t, errors.Is(wrapped, ErrDatabaseUnavailable))
	assert.True(t, errors.Is(wrapped, cause))
	assert.Nil(t, ErrDatabaseUnavailable.Err, "predefined error must not be mutated")

	detailed := ErrUploadFailed.WithDetails("Image hosting is not configured")
	assert.True(t, errors.Is(detailed, ErrUploadFailed))
	assert.Nil(t, ErrUploadFailed.Details)

	assert.False(t, errors.Is(ErrInvalidToken, ErrInvalidRefreshToken))

	inChain := fmt.Errorf("create contact: %w", ErrContactEmailExists)
	appErr, ok := AsAppError(inChain)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, appErr.HTTPCode)
}

func TestHandleError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		err        error
		debug      bool
		wantStatus int
		wantBody   string
		wantAuth   bool
	}{
		{
			name:       "unauthorized sets challenge",
			err:        ErrCouldNotValidateCredentials,
			wantStatus: http.StatusUnauthorized,
			wantBody:   `{"detail":"Could not validate credentials","code":"UNAUTHORIZED"}`,
			wantAuth:   true,
		},
		{
			name:       "forbidden",
			err:        ErrInsufficientPermissions,
			wantStatus: http.StatusForbidden,
			wantBody:   `{"detail":"Forbidden","code":"FORBIDDEN"}`,
		},
		{
			name:       "plain error hidden",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"detail":"Internal server error","code":"INTERNAL_ERROR"}`,
		},
		{
			name:       "plain error in debug",
			err:        errors.New("boom"),
			debug:      true,
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"detail":"boom","code":"INTERNAL_ERROR"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			h := &GinErrorHandler{Debug: tt.debug}
			h.HandleGinError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.JSONEq(t, tt.wantBody, w.Body.String())
			assert.True(t, c.IsAborted())
			require.Len(t, c.Errors, 1)
			if tt.wantAuth {
				assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))
			} else {
				assert.Empty(t, w.Header().Get("WWW-Authenticate"))
			}
		})
	}
}
