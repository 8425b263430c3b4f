package database

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/ramadandelights-sys/OfficeXpress-v2-sub001/internal/models"
)

// PurchaseIntentRepository handles database operations for the
// purchase_intents table
type PurchaseIntentRepository struct {
	db DB
}

// NewPurchaseIntentRepository creates a new PurchaseIntentRepository
func NewPurchaseIntentRepository(db DB) *PurchaseIntentRepository {
	return &PurchaseIntentRepository{db: db}
}

const intentColumns = `id, customer_id, step, route_id, weekdays, time_slot_id,
	   pickup_point_id, dropoff_point_id, quoted_fee, status, expires_at,
	   created_at, updated_at`

// Create inserts a new open intent at the route step
func (r *PurchaseIntentRepository) Create(intent *models.PurchaseIntent) error {
	query := `
		INSERT INTO purchase_intents (
			id, customer_id, step, status, expires_at
		) VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`

	if intent.ID == "" {
		intent.ID = uuid.New().String()
	}
	if intent.Step == "" {
		intent.Step = models.StepRoute
	}
	if intent.Status == "" {
		intent.Status = models.IntentOpen
	}

	return r.db.QueryRow(
		query,
		intent.ID, intent.CustomerID, intent.Step, intent.Status, intent.ExpiresAt,
	).Scan(&intent.CreatedAt, &intent.UpdatedAt)
}

// GetByID retrieves an intent by ID
func (r *PurchaseIntentRepository) GetByID(intentID string) (*models.PurchaseIntent, error) {
	query := `
		SELECT ` + intentColumns + `
		FROM purchase_intents
		WHERE id = $1
	`

	return scanIntent(r.db.QueryRow(query, intentID))
}

// Update persists the intent's step, selections, quote and status
func (r *PurchaseIntentRepository) Update(intent *models.PurchaseIntent) error {
	query := `
		UPDATE purchase_intents
		SET step = $2, route_id = $3, weekdays = $4, time_slot_id = $5,
			pickup_point_id = $6, dropoff_point_id = $7, quoted_fee = $8,
			status = $9, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	return r.db.QueryRow(
		query,
		intent.ID, intent.Step, intent.RouteID, intent.Weekdays, intent.TimeSlotID,
		intent.PickupPointID, intent.DropoffPointID, intent.QuotedFee,
		intent.Status,
	).Scan(&intent.UpdatedAt)
}

// SweepExpireDue marks open intents past their TTL as expired. Returns the
// number of rows transitioned.
func (r *PurchaseIntentRepository) SweepExpireDue(now time.Time) (int64, error) {
	query := `
		UPDATE purchase_intents
		SET status = 'expired', updated_at = NOW()
		WHERE status = 'open'
		  AND expires_at < $1
	`

	result, err := r.db.Exec(query, now)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// scanIntent scans a single purchase intent
func scanIntent(row scanner) (*models.PurchaseIntent, error) {
	intent := &models.PurchaseIntent{}
	var routeID, timeSlotID, pickupPointID, dropoffPointID sql.NullString
	var quotedFee sql.NullInt64

	err := row.Scan(
		&intent.ID, &intent.CustomerID, &intent.Step, &routeID, &intent.Weekdays,
		&timeSlotID, &pickupPointID, &dropoffPointID, &quotedFee,
		&intent.Status, &intent.ExpiresAt, &intent.CreatedAt, &intent.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if routeID.Valid {
		intent.RouteID = &routeID.String
	}
	if timeSlotID.Valid {
		intent.TimeSlotID = &timeSlotID.String
	}
	if pickupPointID.Valid {
		intent.PickupPointID = &pickupPointID.String
	}
	if dropoffPointID.Valid {
		intent.DropoffPointID = &dropoffPointID.String
	}
	if quotedFee.Valid {
		fee := models.Paisa(quotedFee.Int64)
		intent.QuotedFee = &fee
	}

	return intent, nil
}
