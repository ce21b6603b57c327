package privy

import "fmt"

// Linked account discriminants. A user record carries a heterogeneous list
// of linked accounts; entries are told apart by their "type" tag.
const (
	AccountTypeCustomAuth = "custom_auth"
	AccountTypeWallet     = "wallet"

	// WalletClientEmbedded marks wallets whose keys the provider custodies,
	// as opposed to linked self-custodied wallets.
	WalletClientEmbedded = "privy"

	// ChainTypeEthereum is the only chain type this service provisions.
	ChainTypeEthereum = "ethereum"
)

// LinkedAccount is one entry of a user record's linked_accounts list.
// Only the fields relevant to the account's type are populated.
type LinkedAccount struct {
	Type         string `json:"type"`
	CustomUserID string `json:"custom_user_id,omitempty"`
	ID           string `json:"id,omitempty"`
	Address      string `json:"address,omitempty"`
	ChainType    string `json:"chain_type,omitempty"`
	WalletClient string `json:"wallet_client,omitempty"`
}

// UserRecord is the wallet provider's representation of a principal.
type UserRecord struct {
	ID             string          `json:"id"`
	CreatedAt      int64           `json:"created_at"`
	LinkedAccounts []LinkedAccount `json:"linked_accounts"`
}

// EmbeddedWallet selects the first provider-managed wallet from the linked
// accounts. Returns false when the record has no qualifying entry. When a
// subject has several embedded wallets the first match wins.
func (u *UserRecord) EmbeddedWallet() (*LinkedAccount, bool) {
	for i := range u.LinkedAccounts {
		acct := &u.LinkedAccounts[i]
		if acct.Type == AccountTypeWallet && acct.WalletClient == WalletClientEmbedded && acct.ID != "" {
			return acct, true
		}
	}
	return nil, false
}

// CustomAuthID returns the custom-auth external id the record is linked
// under, or empty when the record has no custom-auth account.
func (u *UserRecord) CustomAuthID() string {
	for _, acct := range u.LinkedAccounts {
		if acct.Type == AccountTypeCustomAuth {
			return acct.CustomUserID
		}
	}
	return ""
}

// CreateUserParams describes a user-creation call. The provider creates the
// record and provisions its wallet in the same call; partial creation is the
// provider's problem, not ours.
type CreateUserParams struct {
	// Sub becomes the custom_user_id the record is linked under. Every
	// later lookup uses this exact value; the two must never diverge.
	Sub string

	// Email is informational; it is not forwarded to the provider because
	// the custom-auth id alone is the linking key.
	Email string
}

// AuthorizationContext carries the end user's bearer token for provider
// calls that sign on behalf of a session.
type AuthorizationContext struct {
	UserJWTs []string `json:"user_jwts"`
}

// TransactionRequest is the minimal transaction shape submitted for
// sponsored sending. The provider fills in nonce, gas, and signature.
type TransactionRequest struct {
	To    string `json:"to"`
	Value string `json:"value"`
}

// SignResult is the outcome of a personal_sign call.
type SignResult struct {
	Signature string `json:"signature"`
	Encoding  string `json:"encoding,omitempty"`
}

// SendResult is the outcome of an eth_sendTransaction call.
type SendResult struct {
	Hash  string `json:"hash"`
	CAIP2 string `json:"caip2,omitempty"`
}

// APIError is a non-2xx response from the wallet provider.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("privy: status %d: %s", e.StatusCode, e.Message)
}
