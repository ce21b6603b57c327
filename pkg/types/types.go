// Package types contains the domain types shared across the service.
package types

import "time"

// Session is the resolved credential material for an authenticated subject.
// It is produced once per request by the session middleware and passed
// explicitly into each action; nothing reads auth state from ambient globals.
type Session struct {
	// Subject is the auth provider's stable user id. It doubles as the
	// custom-auth external id under which the wallet provider stores the
	// subject's user record.
	Subject string

	// Email is informational only; the linking key is always Subject.
	Email string

	// Token is the raw bearer token the credential arrived with. Wallet
	// provider calls that act on behalf of the session re-present it as
	// the user-JWT authorization context.
	Token string

	// ExpiresAt is the token expiry as reported by its claims, if the
	// token was parseable. Zero when unknown.
	ExpiresAt time.Time
}

// WalletAccount is this service's view of a provider-managed wallet.
// Immutable once provisioned; the wallet provider is the system of record.
type WalletAccount struct {
	ID        string `json:"id"`
	Address   string `json:"address"`
	ChainType string `json:"chain_type"`
}
