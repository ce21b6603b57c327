package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wallet-bridge/wallet-bridge/internal/app"
	"github.com/wallet-bridge/wallet-bridge/internal/config"
	"github.com/wallet-bridge/wallet-bridge/internal/middleware"
	"github.com/wallet-bridge/wallet-bridge/internal/privy"
	"github.com/wallet-bridge/wallet-bridge/internal/supabase"
	apperrors "github.com/wallet-bridge/wallet-bridge/pkg/errors"
	"github.com/wallet-bridge/wallet-bridge/pkg/types"
)

// stubBridge returns canned results per action.
type stubBridge struct {
	createRecord *privy.UserRecord
	createErr    error
	signResult   *app.SignMessageResult
	signErr      error
	sendResult   *app.SendTransactionResult
	sendErr      error

	lastSession *types.Session
}

func (s *stubBridge) CreateUser(ctx context.Context, req *app.CreateUserRequest) (*privy.UserRecord, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	return s.createRecord, nil
}

func (s *stubBridge) SignMessage(ctx context.Context, session *types.Session) (*app.SignMessageResult, error) {
	s.lastSession = session
	if s.signErr != nil {
		return nil, s.signErr
	}
	return s.signResult, nil
}

func (s *stubBridge) SendTransaction(ctx context.Context, session *types.Session) (*app.SendTransactionResult, error) {
	s.lastSession = session
	if s.sendErr != nil {
		return nil, s.sendErr
	}
	return s.sendResult, nil
}

// stubValidator accepts the token "valid-token" and rejects everything else.
type stubValidator struct{}

func (stubValidator) GetUser(ctx context.Context, accessToken string) (*supabase.User, error) {
	if accessToken != "valid-token" {
		return nil, supabase.ErrInvalidToken
	}
	return &supabase.User{ID: "user-123", Email: "a@example.com"}, nil
}

func newTestServer(bridge BridgeService) *Server {
	cfg := &config.Config{Port: 8080, SupabaseCookieName: "sb-access-token", ChainCAIP2: "eip155:84532"}
	sessionAuth := middleware.NewSessionAuth(stubValidator{}, cfg.SupabaseCookieName)
	rateLimiter := middleware.NewRateLimiter(100, 100, false)
	return NewServer(cfg, bridge, sessionAuth, rateLimiter)
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestHandleCreateUser(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		bridge := &stubBridge{createRecord: &privy.UserRecord{
			ID: "did:privy:abc",
			LinkedAccounts: []privy.LinkedAccount{
				{Type: privy.AccountTypeCustomAuth, CustomUserID: "user-123"},
			},
		}}
		server := newTestServer(bridge)

		req := httptest.NewRequest(http.MethodPost, "/v1/users", strings.NewReader(`{"sub":"user-123"}`))
		rec := httptest.NewRecorder()
		server.Handler().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, true, body["success"])
		record := body["providerUserRecord"].(map[string]any)
		assert.Equal(t, "did:privy:abc", record["id"])
	})

	t.Run("invalid JSON", func(t *testing.T) {
		server := newTestServer(&stubBridge{})

		req := httptest.NewRequest(http.MethodPost, "/v1/users", strings.NewReader(`{not json`))
		rec := httptest.NewRecorder()
		server.Handler().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing sub", func(t *testing.T) {
		server := newTestServer(&stubBridge{createErr: apperrors.MissingInput("sub")})

		req := httptest.NewRequest(http.MethodPost, "/v1/users", strings.NewReader(`{}`))
		rec := httptest.NewRecorder()
		server.Handler().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "Missing sub claim", body["error"])
	})

	t.Run("method not allowed", func(t *testing.T) {
		server := newTestServer(&stubBridge{})

		req := httptest.NewRequest(http.MethodGet, "/v1/users", nil)
		rec := httptest.NewRecorder()
		server.Handler().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})

	t.Run("non-AppError becomes a generic internal error", func(t *testing.T) {
		server := newTestServer(&stubBridge{createErr: context.DeadlineExceeded})

		req := httptest.NewRequest(http.MethodPost, "/v1/users", strings.NewReader(`{"sub":"user-123"}`))
		rec := httptest.NewRecorder()
		server.Handler().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "internal_error", body["code"])
	})
}

func TestHandleSignMessage(t *testing.T) {
	t.Run("success via bearer header", func(t *testing.T) {
		bridge := &stubBridge{signResult: &app.SignMessageResult{
			Message:       "hello world",
			Signature:     "0xsig",
			WalletAddress: "0x2222222222222222222222222222222222222222",
		}}
		server := newTestServer(bridge)

		req := httptest.NewRequest(http.MethodPost, "/v1/wallet/sign-message", nil)
		req.Header.Set("Authorization", "Bearer valid-token")
		rec := httptest.NewRecorder()
		server.Handler().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, true, body["success"])
		assert.Equal(t, "hello world", body["message"])
		assert.Equal(t, "0xsig", body["signature"])
		assert.Equal(t, "0x2222222222222222222222222222222222222222", body["walletAddress"])

		require.NotNil(t, bridge.lastSession)
		assert.Equal(t, "user-123", bridge.lastSession.Subject)
		assert.Equal(t, "valid-token", bridge.lastSession.Token)
	})

	t.Run("success via session cookie", func(t *testing.T) {
		bridge := &stubBridge{signResult: &app.SignMessageResult{Message: "hello world", Signature: "0xsig"}}
		server := newTestServer(bridge)

		req := httptest.NewRequest(http.MethodPost, "/v1/wallet/sign-message", nil)
		req.AddCookie(&http.Cookie{Name: "sb-access-token", Value: "valid-token"})
		rec := httptest.NewRecorder()
		server.Handler().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("no credential", func(t *testing.T) {
		server := newTestServer(&stubBridge{})

		req := httptest.NewRequest(http.MethodPost, "/v1/wallet/sign-message", nil)
		rec := httptest.NewRecorder()
		server.Handler().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "Missing Privy access token", body["error"])
	})

	t.Run("rejected credential", func(t *testing.T) {
		server := newTestServer(&stubBridge{})

		req := httptest.NewRequest(http.MethodPost, "/v1/wallet/sign-message", nil)
		req.Header.Set("Authorization", "Bearer wrong-token")
		rec := httptest.NewRecorder()
		server.Handler().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "Unauthorized", body["error"])
	})

	t.Run("no user record", func(t *testing.T) {
		server := newTestServer(&stubBridge{signErr: apperrors.ErrNoUserRecord})

		req := httptest.NewRequest(http.MethodPost, "/v1/wallet/sign-message", nil)
		req.Header.Set("Authorization", "Bearer valid-token")
		rec := httptest.NewRecorder()
		server.Handler().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "Privy user not found", body["error"])
	})

	t.Run("no embedded wallet", func(t *testing.T) {
		server := newTestServer(&stubBridge{signErr: apperrors.ErrNoWalletFound})

		req := httptest.NewRequest(http.MethodPost, "/v1/wallet/sign-message", nil)
		req.Header.Set("Authorization", "Bearer valid-token")
		rec := httptest.NewRecorder()
		server.Handler().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "No embedded wallet found", body["error"])
	})

	t.Run("method not allowed", func(t *testing.T) {
		server := newTestServer(&stubBridge{})

		req := httptest.NewRequest(http.MethodGet, "/v1/wallet/sign-message", nil)
		req.Header.Set("Authorization", "Bearer valid-token")
		rec := httptest.NewRecorder()
		server.Handler().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestHandleSendTransaction(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		bridge := &stubBridge{sendResult: &app.SendTransactionResult{
			TransactionHash: "0xhash",
			WalletAddress:   "0x2222222222222222222222222222222222222222",
			Chain:           "eip155:84532",
		}}
		server := newTestServer(bridge)

		req := httptest.NewRequest(http.MethodPost, "/v1/wallet/send-transaction", nil)
		req.Header.Set("Authorization", "Bearer valid-token")
		rec := httptest.NewRecorder()
		server.Handler().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, true, body["success"])
		assert.Equal(t, "0xhash", body["transactionHash"])
		assert.Equal(t, "eip155:84532", body["chain"])
	})

	t.Run("no credential", func(t *testing.T) {
		server := newTestServer(&stubBridge{})

		req := httptest.NewRequest(http.MethodPost, "/v1/wallet/send-transaction", nil)
		rec := httptest.NewRecorder()
		server.Handler().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("transaction failure", func(t *testing.T) {
		server := newTestServer(&stubBridge{sendErr: apperrors.TransactionFailed("sponsorship rejected")})

		req := httptest.NewRequest(http.MethodPost, "/v1/wallet/send-transaction", nil)
		req.Header.Set("Authorization", "Bearer valid-token")
		rec := httptest.NewRecorder()
		server.Handler().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "transaction_failed", body["code"])
	})
}

func TestHandleHealth(t *testing.T) {
	server := newTestServer(&stubBridge{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "ok", body["status"])
}

func TestRequestIDPropagation(t *testing.T) {
	server := newTestServer(&stubBridge{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}
