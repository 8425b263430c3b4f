package database

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// AuditRepository handles database operations for the purchase_audit_log table
type AuditRepository struct {
	db DB
}

// NewAuditRepository creates a new AuditRepository
func NewAuditRepository(db DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// AuditRecord is one row of the purchase/wallet audit trail
type AuditRecord struct {
	CustomerID *string
	Action     string // e.g. "purchase", "purchase_blocked", "cancel", "top_up"
	EntityType string // "subscription", "wallet", "intent"
	EntityID   *string
	IPAddress  string
	UserAgent  string
	Details    map[string]interface{}
}

// Insert writes an audit record; details are stored as JSONB
func (r *AuditRepository) Insert(record AuditRecord) error {
	detailsJSON, err := json.Marshal(record.Details)
	if err != nil {
		return fmt.Errorf("failed to marshal audit details: %w", err)
	}

	query := `
		INSERT INTO purchase_audit_log (
			id, customer_id, action, entity_type, entity_id,
			ip_address, user_agent, details
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err = r.db.Exec(
		query,
		uuid.New().String(), record.CustomerID, record.Action, record.EntityType,
		record.EntityID, record.IPAddress, record.UserAgent, detailsJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to insert audit record: %w", err)
	}

	return nil
}
