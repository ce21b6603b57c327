// Package privy is a client for the wallet provider's REST API: the user
// directory, embedded wallet provisioning, and the wallet RPC surface used
// for message signing and sponsored transaction submission.
package privy

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// ErrUserNotFound is returned when no user record exists for the requested
// custom-auth id.
var ErrUserNotFound = fmt.Errorf("privy: user not found")

// Client talks to the wallet provider. All calls authenticate with the app
// credentials; calls that act on behalf of an end user additionally carry
// that user's bearer token in the request body.
type Client struct {
	baseURL    string
	appID      string
	appSecret  string
	httpClient *http.Client
}

// NewClient creates a client for the given API base URL and app credentials.
func NewClient(baseURL, appID, appSecret string) *Client {
	return &Client{
		baseURL:   baseURL,
		appID:     appID,
		appSecret: appSecret,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// CreateUser creates a user record linked to params.Sub as a custom-auth
// identity and provisions one ethereum embedded wallet in the same call.
func (c *Client) CreateUser(ctx context.Context, params CreateUserParams) (*UserRecord, error) {
	if params.Sub == "" {
		return nil, fmt.Errorf("privy: sub is required")
	}

	body := map[string]any{
		"linked_accounts": []map[string]any{
			{
				"type":           AccountTypeCustomAuth,
				"custom_user_id": params.Sub,
			},
		},
		"wallets": []map[string]any{
			{
				"chain_type": ChainTypeEthereum,
			},
		},
	}

	var record UserRecord
	if err := c.do(ctx, http.MethodPost, "/v1/users", body, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// GetUserByCustomAuthID looks up the user record linked to the given
// custom-auth external id. Returns ErrUserNotFound when no record exists.
func (c *Client) GetUserByCustomAuthID(ctx context.Context, customUserID string) (*UserRecord, error) {
	if customUserID == "" {
		return nil, fmt.Errorf("privy: custom user id is required")
	}

	path := "/v1/users/custom_auth/" + url.PathEscape(customUserID)

	var record UserRecord
	err := c.do(ctx, http.MethodGet, path, nil, &record)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if record.ID == "" {
		return nil, ErrUserNotFound
	}
	return &record, nil
}

// SignMessage asks the provider to personal_sign the message with the given
// wallet. userJWT authorizes signing on behalf of the session that owns the
// wallet; the provider re-checks it independently of our own session check.
func (c *Client) SignMessage(ctx context.Context, walletID, message, userJWT string) (*SignResult, error) {
	body := map[string]any{
		"method": "personal_sign",
		"params": map[string]any{
			"message":  message,
			"encoding": "utf-8",
		},
		"authorization_context": AuthorizationContext{
			UserJWTs: []string{userJWT},
		},
	}

	var resp struct {
		Method string     `json:"method"`
		Data   SignResult `json:"data"`
	}
	if err := c.do(ctx, http.MethodPost, "/v1/wallets/"+url.PathEscape(walletID)+"/rpc", body, &resp); err != nil {
		return nil, err
	}
	if resp.Data.Signature == "" {
		return nil, fmt.Errorf("privy: signing response carried no signature")
	}
	return &resp.Data, nil
}

// SendTransaction submits tx on the chain identified by caip2, with the
// provider sponsoring gas. Returns once the provider accepts the
// transaction; inclusion is not awaited.
func (c *Client) SendTransaction(ctx context.Context, walletID, caip2 string, tx TransactionRequest, userJWT string) (*SendResult, error) {
	body := map[string]any{
		"method":  "eth_sendTransaction",
		"caip2":   caip2,
		"sponsor": true,
		"params": map[string]any{
			"transaction": tx,
		},
		"authorization_context": AuthorizationContext{
			UserJWTs: []string{userJWT},
		},
	}

	var resp struct {
		Method string     `json:"method"`
		Data   SendResult `json:"data"`
	}
	if err := c.do(ctx, http.MethodPost, "/v1/wallets/"+url.PathEscape(walletID)+"/rpc", body, &resp); err != nil {
		return nil, err
	}
	if resp.Data.Hash == "" {
		return nil, fmt.Errorf("privy: transaction response carried no hash")
	}
	return &resp.Data, nil
}

// do runs one authenticated request and decodes the JSON response into out.
func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.SetBasicAuth(c.appID, c.appSecret)
	req.Header.Set("privy-app-id", c.appID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call wallet provider: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    decodeErrorMessage(resp.Body),
		}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// decodeErrorMessage extracts the provider's error message from a failure
// body, falling back to the raw body when it is not the usual JSON shape.
func decodeErrorMessage(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(raw) == 0 {
		return "no error detail"
	}

	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Message != "" {
			return payload.Message
		}
	}
	return string(raw)
}
