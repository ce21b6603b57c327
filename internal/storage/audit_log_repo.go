package storage

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// AuditLogRepo appends action outcomes to the audit trail. Append-only;
// nothing in the service reads these rows back.
type AuditLogRepo struct {
	db DBTX
}

// NewAuditLogRepo creates a new audit log repository
func NewAuditLogRepo(db DBTX) *AuditLogRepo {
	return &AuditLogRepo{db: db}
}

// AuditLogEntry records one action outcome
type AuditLogEntry struct {
	Subject      string  `json:"subject"`
	Action       string  `json:"action"`
	Outcome      string  `json:"outcome"`
	WalletID     *string `json:"wallet_id,omitempty"`
	TxHash       *string `json:"tx_hash,omitempty"`
	ErrorCode    *string `json:"error_code,omitempty"`
	ErrorMessage *string `json:"error_message,omitempty"`
	RequestID    string  `json:"request_id,omitempty"`
}

// Log creates a new audit log entry
func (r *AuditLogRepo) Log(ctx context.Context, entry *AuditLogEntry) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO action_audit_logs (
			id, subject, action, outcome, wallet_id, tx_hash,
			error_code, error_message, request_id, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`,
		uuid.New(),
		entry.Subject,
		entry.Action,
		entry.Outcome,
		entry.WalletID,
		entry.TxHash,
		entry.ErrorCode,
		entry.ErrorMessage,
		entry.RequestID,
		time.Now(),
	)
	return err
}

// Audit action constants
const (
	AuditActionUserCreated     = "user_created"
	AuditActionMessageSigned   = "message_signed"
	AuditActionTransactionSent = "transaction_sent"
)

// Audit outcome constants
const (
	AuditOutcomeSuccess = "success"
	AuditOutcomeFailure = "failure"
)
