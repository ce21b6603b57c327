package api

import (
	"encoding/json"
	"net/http"

	"github.com/wallet-bridge/wallet-bridge/internal/app"
	"github.com/wallet-bridge/wallet-bridge/internal/privy"
	apperrors "github.com/wallet-bridge/wallet-bridge/pkg/errors"
)

// CreateUserResponse represents a successful user provisioning
type CreateUserResponse struct {
	Success            bool              `json:"success"`
	ProviderUserRecord *privy.UserRecord `json:"providerUserRecord"`
}

// handleUsers handles user provisioning operations
func (s *Server) handleUsers(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleCreateUser(w, r)
	default:
		s.writeError(w, apperrors.New(
			apperrors.ErrCodeBadRequest,
			"Method not allowed",
			http.StatusMethodNotAllowed,
		))
	}
}

// handleCreateUser provisions a wallet-linked user record for the subject
// given in the request body. The record and its wallet are created by one
// provider call; duplicate-call behavior is the provider's.
func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req app.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, apperrors.NewWithDetail(
			apperrors.ErrCodeBadRequest,
			"Invalid request body",
			err.Error(),
			http.StatusBadRequest,
		))
		return
	}

	record, err := s.bridgeService.CreateUser(r.Context(), &req)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, CreateUserResponse{
		Success:            true,
		ProviderUserRecord: record,
	})
}
