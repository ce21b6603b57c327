package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	t.Run("without detail", func(t *testing.T) {
		err := New(ErrCodeUnauthorized, "Unauthorized", http.StatusUnauthorized)
		assert.Equal(t, "unauthorized: Unauthorized", err.Error())
	})

	t.Run("with detail", func(t *testing.T) {
		err := NewWithDetail(ErrCodeSigningFailed, "Failed to sign message", "provider said no", http.StatusInternalServerError)
		assert.Equal(t, "signing_failed: Failed to sign message (provider said no)", err.Error())
	})
}

func TestAppError_JSONShape(t *testing.T) {
	// Clients read the message from the "error" key; the status code
	// never appears in the body.
	raw, err := json.Marshal(ErrMissingCredential)
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &body))

	assert.Equal(t, "Missing Privy access token", body["error"])
	assert.Equal(t, "missing_credential", body["code"])
	assert.NotContains(t, body, "StatusCode")
	assert.NotContains(t, body, "detail")
}

func TestPredefinedErrors(t *testing.T) {
	tests := []struct {
		err    *AppError
		code   string
		status int
	}{
		{ErrMissingCredential, ErrCodeMissingCredential, http.StatusUnauthorized},
		{ErrUnauthorized, ErrCodeUnauthorized, http.StatusUnauthorized},
		{ErrNoUserRecord, ErrCodeNoUserRecord, http.StatusNotFound},
		{ErrNoWalletFound, ErrCodeNoWalletFound, http.StatusNotFound},
		{ErrBadRequest, ErrCodeBadRequest, http.StatusBadRequest},
		{ErrInternalError, ErrCodeInternalError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.status, tt.err.StatusCode)
		})
	}
}

func TestConstructors(t *testing.T) {
	t.Run("MissingInput", func(t *testing.T) {
		err := MissingInput("sub")
		assert.Equal(t, ErrCodeMissingInput, err.Code)
		assert.Equal(t, "Missing sub claim", err.Message)
		assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	})

	t.Run("ProvisioningFailed", func(t *testing.T) {
		err := ProvisioningFailed("duplicate custom_user_id")
		assert.Equal(t, ErrCodeProvisioningFailed, err.Code)
		assert.Equal(t, "duplicate custom_user_id", err.Detail)
		assert.Equal(t, http.StatusInternalServerError, err.StatusCode)
	})

	t.Run("SigningFailed", func(t *testing.T) {
		err := SigningFailed("user jwt rejected")
		assert.Equal(t, ErrCodeSigningFailed, err.Code)
		assert.Equal(t, http.StatusInternalServerError, err.StatusCode)
	})

	t.Run("TransactionFailed", func(t *testing.T) {
		err := TransactionFailed("sponsorship rejected")
		assert.Equal(t, ErrCodeTransactionFailed, err.Code)
		assert.Equal(t, http.StatusInternalServerError, err.StatusCode)
	})
}

func TestIsAppError(t *testing.T) {
	t.Run("direct AppError", func(t *testing.T) {
		appErr, ok := IsAppError(ErrUnauthorized)
		require.True(t, ok)
		assert.Equal(t, ErrUnauthorized, appErr)
	})

	t.Run("wrapped AppError", func(t *testing.T) {
		wrapped := fmt.Errorf("handler: %w", ErrNoWalletFound)
		appErr, ok := IsAppError(wrapped)
		require.True(t, ok)
		assert.Equal(t, ErrCodeNoWalletFound, appErr.Code)
	})

	t.Run("plain error", func(t *testing.T) {
		_, ok := IsAppError(fmt.Errorf("boom"))
		assert.False(t, ok)
	})
}
