package api

import (
	"net/http"

	"github.com/wallet-bridge/wallet-bridge/internal/middleware"
	apperrors "github.com/wallet-bridge/wallet-bridge/pkg/errors"
)

// SendTransactionResponse represents an accepted sponsored transaction
type SendTransactionResponse struct {
	Success         bool   `json:"success"`
	TransactionHash string `json:"transactionHash"`
	WalletAddress   string `json:"walletAddress"`
	Chain           string `json:"chain"`
}

// handleSendTransaction submits the fixed zero-value transaction from the
// session subject's embedded wallet. Destination, value, and chain are
// never caller-influenced; the response does not wait for inclusion.
func (s *Server) handleSendTransaction(w http.ResponseWriter, r *http.Request) {
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

	result, err := s.bridgeService.SendTransaction(r.Context(), session)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, SendTransactionResponse{
		Success:         true,
		TransactionHash: result.TransactionHash,
		WalletAddress:   result.WalletAddress,
		Chain:           result.Chain,
	})
}
