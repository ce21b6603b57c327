package api

import (
	"net/http"

	"github.com/wallet-bridge/wallet-bridge/internal/middleware"
	apperrors "github.com/wallet-bridge/wallet-bridge/pkg/errors"
)

// SignMessageResponse represents a successful message signing
type SignMessageResponse struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	Signature     string `json:"signature"`
	WalletAddress string `json:"walletAddress"`
}

// handleSignMessage signs the fixed message with the session subject's
// embedded wallet. The signed payload is never caller-supplied.
func (s *Server) handleSignMessage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, apperrors.New(
			apperrors.ErrCodeBadRequest,
			"Method not allowed",
			http.StatusMethodNotAllowed,
		))
		return
	}

	session, ok := middleware.GetSession(r.Context())
	if !ok {
		s.writeError(w, apperrors.ErrUnauthorized)
		return
	}

	result, err := s.bridgeService.SignMessage(r.Context(), session)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, SignMessageResponse{
		Success:       true,
		Message:       result.Message,
		Signature:     result.Signature,
		WalletAddress: result.WalletAddress,
	})
}
