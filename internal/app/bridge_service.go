// Package app implements the three bridge actions: user provisioning,
// message signing, and sponsored transaction submission. Each action is a
// linear pass: resolved session in, one wallet provider call out. The
// providers hold all durable state.
package app

import (
	"context"
	"errors"
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/wallet-bridge/wallet-bridge/internal/logger"
	"github.com/wallet-bridge/wallet-bridge/internal/metrics"
	"github.com/wallet-bridge/wallet-bridge/internal/privy"
	"github.com/wallet-bridge/wallet-bridge/internal/storage"
	"github.com/wallet-bridge/wallet-bridge/internal/validation"
	apperrors "github.com/wallet-bridge/wallet-bridge/pkg/errors"
	"github.com/wallet-bridge/wallet-bridge/pkg/types"
)

// signMessagePayload is the only message this service ever signs. The
// payload is never caller-supplied.
const signMessagePayload = "hello world"

// zeroValue is the wei amount of every submitted transaction.
var zeroValue = hexutil.EncodeUint64(0)

// zeroAddress is the transaction sink: no spendable balance, harmless
// no-op recipient.
var zeroAddress = common.Address{}.Hex()

// WalletDirectory is the subset of the wallet provider client the service
// uses. It is an interface to allow unit tests without a live provider.
type WalletDirectory interface {
	CreateUser(ctx context.Context, params privy.CreateUserParams) (*privy.UserRecord, error)
	GetUserByCustomAuthID(ctx context.Context, customUserID string) (*privy.UserRecord, error)
	SignMessage(ctx context.Context, walletID, message, userJWT string) (*privy.SignResult, error)
	SendTransaction(ctx context.Context, walletID, caip2 string, tx privy.TransactionRequest, userJWT string) (*privy.SendResult, error)
}

// Auditor appends action outcomes to the audit trail.
type Auditor interface {
	Log(ctx context.Context, entry *storage.AuditLogEntry) error
}

// BridgeService composes session, lookup, and provider calls into the
// three actions.
type BridgeService struct {
	directory  WalletDirectory
	chainCAIP2 string
	audit      Auditor // nil when auditing is disabled
}

// NewBridgeService creates the service. audit may be nil.
func NewBridgeService(directory WalletDirectory, chainCAIP2 string, audit Auditor) *BridgeService {
	return &BridgeService{
		directory:  directory,
		chainCAIP2: chainCAIP2,
		audit:      audit,
	}
}

// CreateUserRequest carries the inputs of the CreateUser action.
type CreateUserRequest struct {
	Sub   string `json:"sub"`
	Email string `json:"email,omitempty"`
}

// SignMessageResult is the outcome of the SignMessage action.
type SignMessageResult struct {
	Message       string
	Signature     string
	WalletAddress string
}

// SendTransactionResult is the outcome of the SendTransaction action.
type SendTransactionResult struct {
	TransactionHash string
	WalletAddress   string
	Chain           string
}

// CreateUser provisions a provider user record linked to req.Sub as a
// custom-auth identity, with one ethereum wallet created in the same call.
// Duplicate calls for the same sub are the provider's concern; this service
// does not guarantee idempotency.
func (s *BridgeService) CreateUser(ctx context.Context, req *CreateUserRequest) (*privy.UserRecord, error) {
	if req == nil || req.Sub == "" {
		return nil, apperrors.MissingInput("sub")
	}

	record, err := s.directory.CreateUser(ctx, privy.CreateUserParams{
		Sub:   req.Sub,
		Email: req.Email,
	})
	metrics.ObserveProviderCall("privy", "create_user", err)
	if err != nil {
		logger.Error(ctx, "failed to create provider user", "sub", req.Sub, "error", err)
		appErr := apperrors.ProvisioningFailed(providerDetail(err))
		s.auditFailure(ctx, req.Sub, storage.AuditActionUserCreated, appErr)
		return nil, appErr
	}

	logger.Info(ctx, "created provider user", "sub", req.Sub, "user_id", record.ID)
	s.auditSuccess(ctx, req.Sub, storage.AuditActionUserCreated, nil, nil)
	return record, nil
}

// SignMessage signs the fixed message with the session subject's embedded
// wallet. The session's bearer token is re-presented to the provider, which
// authorizes the signing independently of our session check.
func (s *BridgeService) SignMessage(ctx context.Context, session *types.Session) (*SignMessageResult, error) {
	wallet, err := s.lookupWallet(ctx, session.Subject)
	if err != nil {
		return nil, err
	}

	result, err := s.directory.SignMessage(ctx, wallet.ID, signMessagePayload, session.Token)
	metrics.ObserveProviderCall("privy", "sign_message", err)
	if err != nil {
		logger.Error(ctx, "failed to sign message", "sub", session.Subject, "wallet_id", wallet.ID, "error", err)
		appErr := apperrors.SigningFailed(providerDetail(err))
		s.auditFailure(ctx, session.Subject, storage.AuditActionMessageSigned, appErr)
		return nil, appErr
	}

	logger.Info(ctx, "signed message", "sub", session.Subject, "wallet_id", wallet.ID)
	s.auditSuccess(ctx, session.Subject, storage.AuditActionMessageSigned, &wallet.ID, nil)
	return &SignMessageResult{
		Message:       signMessagePayload,
		Signature:     result.Signature,
		WalletAddress: wallet.Address,
	}, nil
}

// SendTransaction submits a zero-value transaction to the zero address on
// the configured chain, gas sponsored by the provider. Destination, value,
// and chain are never caller-influenced. Returns once the provider accepts
// the transaction; inclusion is not awaited.
func (s *BridgeService) SendTransaction(ctx context.Context, session *types.Session) (*SendTransactionResult, error) {
	wallet, err := s.lookupWallet(ctx, session.Subject)
	if err != nil {
		return nil, err
	}

	tx := privy.TransactionRequest{
		To:    zeroAddress,
		Value: zeroValue,
	}

	result, err := s.directory.SendTransaction(ctx, wallet.ID, s.chainCAIP2, tx, session.Token)
	metrics.ObserveProviderCall("privy", "send_transaction", err)
	if err != nil {
		logger.Error(ctx, "failed to send transaction", "sub", session.Subject, "wallet_id", wallet.ID, "error", err)
		appErr := apperrors.TransactionFailed(providerDetail(err))
		s.auditFailure(ctx, session.Subject, storage.AuditActionTransactionSent, appErr)
		return nil, appErr
	}

	logger.Info(ctx, "sent transaction",
		"sub", session.Subject,
		"wallet_id", wallet.ID,
		"tx_hash", result.Hash,
		"chain", validation.ChainName(s.chainCAIP2),
	)
	s.auditSuccess(ctx, session.Subject, storage.AuditActionTransactionSent, &wallet.ID, &result.Hash)
	return &SendTransactionResult{
		TransactionHash: result.Hash,
		WalletAddress:   wallet.Address,
		Chain:           s.chainCAIP2,
	}, nil
}

// lookupWallet maps a subject to its embedded wallet through the provider
// directory. Every call re-queries the provider; the mapping is never
// cached locally.
func (s *BridgeService) lookupWallet(ctx context.Context, subject string) (*types.WalletAccount, error) {
	record, err := s.directory.GetUserByCustomAuthID(ctx, subject)
	metrics.ObserveProviderCall("privy", "get_user", err)
	if err != nil {
		if errors.Is(err, privy.ErrUserNotFound) {
			return nil, apperrors.ErrNoUserRecord
		}
		logger.Error(ctx, "failed to look up provider user", "sub", subject, "error", err)
		return nil, apperrors.NewWithDetail(
			apperrors.ErrCodeInternalError,
			"Failed to look up user",
			providerDetail(err),
			http.StatusInternalServerError,
		)
	}

	account, ok := record.EmbeddedWallet()
	if !ok {
		return nil, apperrors.ErrNoWalletFound
	}
	if err := validation.ValidateEthereumAddress(account.Address); err != nil {
		logger.Warn(ctx, "embedded wallet has malformed address", "sub", subject, "wallet_id", account.ID, "error", err)
	}
	return &types.WalletAccount{
		ID:        account.ID,
		Address:   account.Address,
		ChainType: account.ChainType,
	}, nil
}

// providerDetail unwraps a provider API error to its message so callers
// see what the provider said, not the transport wrapping.
func providerDetail(err error) string {
	var apiErr *privy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}

func (s *BridgeService) auditSuccess(ctx context.Context, subject, action string, walletID, txHash *string) {
	s.writeAudit(ctx, &storage.AuditLogEntry{
		Subject:   subject,
		Action:    action,
		Outcome:   storage.AuditOutcomeSuccess,
		WalletID:  walletID,
		TxHash:    txHash,
		RequestID: logger.GetRequestID(ctx),
	})
}

func (s *BridgeService) auditFailure(ctx context.Context, subject, action string, appErr *apperrors.AppError) {
	s.writeAudit(ctx, &storage.AuditLogEntry{
		Subject:      subject,
		Action:       action,
		Outcome:      storage.AuditOutcomeFailure,
		ErrorCode:    &appErr.Code,
		ErrorMessage: &appErr.Detail,
		RequestID:    logger.GetRequestID(ctx),
	})
}

// writeAudit best-effort appends to the trail; audit failures never fail
// the action.
func (s *BridgeService) writeAudit(ctx context.Context, entry *storage.AuditLogEntry) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Log(ctx, entry); err != nil {
		logger.Warn(ctx, "failed to write audit log entry", "action", entry.Action, "error", err)
	}
}
