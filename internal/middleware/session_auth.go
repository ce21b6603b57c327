package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/wallet-bridge/wallet-bridge/internal/supabase"
	apperrors "github.com/wallet-bridge/wallet-bridge/pkg/errors"
	"github.com/wallet-bridge/wallet-bridge/pkg/types"
)

// ContextKey is a type for context keys
type ContextKey string

const (
	// SessionKey is the context key for the resolved session
	SessionKey ContextKey = "session"
)

// SessionValidator validates an access token against the auth provider and
// returns the user it belongs to. Satisfied by *supabase.Client.
type SessionValidator interface {
	GetUser(ctx context.Context, accessToken string) (*supabase.User, error)
}

// SessionAuth resolves the request credential into a session. The credential
// arrives either as an Authorization bearer header or as the auth provider's
// session cookie; either way it is validated with a live call to the
// provider, never by decoding alone.
type SessionAuth struct {
	validator  SessionValidator
	cookieName string
}

// NewSessionAuth creates the session resolution middleware.
func NewSessionAuth(validator SessionValidator, cookieName string) *SessionAuth {
	return &SessionAuth{
		validator:  validator,
		cookieName: cookieName,
	}
}

// Resolve extracts and validates the request credential. Read-only: no
// session state is created or mutated.
func (m *SessionAuth) Resolve(r *http.Request) (*types.Session, *apperrors.AppError) {
	token := bearerToken(r)
	if token == "" {
		if cookie, err := r.Cookie(m.cookieName); err == nil && cookie.Value != "" {
			token = cookie.Value
		}
	}
	if token == "" {
		return nil, apperrors.ErrMissingCredential
	}

	// Tokens that are already expired by their own claims are rejected
	// before the network round-trip. Tokens that do not parse as JWTs are
	// still sent to the provider; it is the authority on validity.
	expiresAt, expired := peekExpiry(token)
	if expired {
		return nil, apperrors.ErrUnauthorized
	}

	user, err := m.validator.GetUser(r.Context(), token)
	if err != nil {
		if errors.Is(err, supabase.ErrInvalidToken) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, apperrors.NewWithDetail(
			apperrors.ErrCodeInternalError,
			"Failed to validate session",
			err.Error(),
			http.StatusInternalServerError,
		)
	}

	return &types.Session{
		Subject:   user.ID,
		Email:     user.Email,
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

// Authenticate is the middleware that guards session-scoped endpoints.
// On success the resolved session is stored in the request context.
func (m *SessionAuth) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, appErr := m.Resolve(r)
		if appErr != nil {
			writeError(w, appErr)
			return
		}

		ctx := context.WithValue(r.Context(), SessionKey, session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// bearerToken extracts the token from an "Authorization: Bearer" header.
func bearerToken(r *http.Request) string {
	parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// peekExpiry reads the exp claim without verifying the signature. Returns
// the expiry (zero when unknown) and whether the token is already expired.
func peekExpiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, time.Now().After(exp.Time)
}

// writeError writes an error response
func writeError(w http.ResponseWriter, err *apperrors.AppError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.StatusCode)
	json.NewEncoder(w).Encode(err)
}

// GetSession extracts the resolved session from the request context
func GetSession(ctx context.Context) (*types.Session, bool) {
	session, ok := ctx.Value(SessionKey).(*types.Session)
	return session, ok
}
