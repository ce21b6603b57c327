package api

import (
	"context"

	"github.com/wallet-bridge/wallet-bridge/internal/app"
	"github.com/wallet-bridge/wallet-bridge/internal/privy"
	"github.com/wallet-bridge/wallet-bridge/pkg/types"
)

// BridgeService is the subset of app.BridgeService used by the API layer.
// It is an interface to allow handler-level unit tests without live providers.
type BridgeService interface {
	CreateUser(ctx context.Context, req *app.CreateUserRequest) (*privy.UserRecord, error)
	SignMessage(ctx context.Context, session *types.Session) (*app.SignMessageResult, error)
	SendTransaction(ctx context.Context, session *types.Session) (*app.SendTransactionResult, error)
}
