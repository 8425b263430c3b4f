package database

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/ramadandelights-sys/OfficeXpress-v2-sub001/internal/models"
)

// SubscriptionRepository handles database operations for the subscriptions table
type SubscriptionRepository struct {
	db DB
}

// NewSubscriptionRepository creates a new SubscriptionRepository
func NewSubscriptionRepository(db DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

const subscriptionColumns = `id, customer_id, route_id, weekdays, time_slot_id,
	   pickup_point_id, dropoff_point_id, monthly_fee, payment_method, status,
	   start_date, end_date, cancellation_requested_at, created_at, updated_at`

// Create inserts a new subscription. Used directly for cash purchases; the
// online path goes through WalletRepository.PurchaseWithWallet so the
// insert shares a transaction with the wallet debit.
func (r *SubscriptionRepository) Create(sub *models.Subscription) error {
	return insertSubscription(r.db, sub)
}

// insertSubscription runs the subscription insert on either the pool or an
// open transaction
func insertSubscription(e execer, sub *models.Subscription) error {
	query := `
		INSERT INTO subscriptions (
			id, customer_id, route_id, weekdays, time_slot_id,
			pickup_point_id, dropoff_point_id, monthly_fee, payment_method,
			status, start_date
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
		)
		RETURNING created_at, updated_at
	`

	if sub.ID == "" {
		sub.ID = uuid.New().String()
	}
	if sub.Status == "" {
		sub.Status = models.SubscriptionActive
	}

	return e.QueryRow(
		query,
		sub.ID, sub.CustomerID, sub.RouteID, sub.Weekdays, sub.TimeSlotID,
		sub.PickupPointID, sub.DropoffPointID, sub.MonthlyFee, sub.PaymentMethod,
		sub.Status, sub.StartDate,
	).Scan(&sub.CreatedAt, &sub.UpdatedAt)
}

// GetByID retrieves a subscription by ID
func (r *SubscriptionRepository) GetByID(subscriptionID string) (*models.Subscription, error) {
	query := `
		SELECT ` + subscriptionColumns + `
		FROM subscriptions
		WHERE id = $1
	`

	return scanSubscription(r.db.QueryRow(query, subscriptionID))
}

// GetByCustomer retrieves all subscriptions of a customer, newest first
func (r *SubscriptionRepository) GetByCustomer(customerID string) ([]models.Subscription, error) {
	query := `
		SELECT ` + subscriptionColumns + `
		FROM subscriptions
		WHERE customer_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(query, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	subs := []models.Subscription{}
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, *sub)
	}

	return subs, rows.Err()
}

// GetSubscribedWeekdays returns the union of weekdays the customer already
// holds through live (active or pending-cancellation) subscriptions on the
// given route
func (r *SubscriptionRepository) GetSubscribedWeekdays(customerID, routeID string) ([]int, error) {
	query := `
		SELECT weekdays
		FROM subscriptions
		WHERE customer_id = $1
		  AND route_id = $2
		  AND status IN ('active', 'pending_cancellation')
	`

	rows, err := r.db.Query(query, customerID, routeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seen := make(map[int]bool)
	for rows.Next() {
		var weekdays models.IntArray
		if err := rows.Scan(&weekdays); err != nil {
			return nil, err
		}
		for _, d := range weekdays {
			seen[d] = true
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	result := make([]int, 0, len(seen))
	for d := 0; d <= 6; d++ {
		if seen[d] {
			result = append(result, d)
		}
	}
	return result, nil
}

// UpdateCancellation persists a customer-initiated cancellation request
func (r *SubscriptionRepository) UpdateCancellation(sub *models.Subscription) error {
	query := `
		UPDATE subscriptions
		SET status = $2, end_date = $3, cancellation_requested_at = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	return r.db.QueryRow(
		query,
		sub.ID, sub.Status, sub.EndDate, sub.CancellationRequestedAt,
	).Scan(&sub.UpdatedAt)
}

// SweepCancelDue transitions pending-cancellation subscriptions whose end
// date has passed to the terminal cancelled state. Returns the number of
// rows transitioned.
func (r *SubscriptionRepository) SweepCancelDue(now time.Time) (int64, error) {
	query := `
		UPDATE subscriptions
		SET status = 'cancelled', updated_at = NOW()
		WHERE status = 'pending_cancellation'
		  AND end_date IS NOT NULL
		  AND end_date < $1
	`

	result, err := r.db.Exec(query, now)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// SweepExpireDue transitions active subscriptions whose end date has passed
// to the terminal expired state. Returns the number of rows transitioned.
func (r *SubscriptionRepository) SweepExpireDue(now time.Time) (int64, error) {
	query := `
		UPDATE subscriptions
		SET status = 'expired', updated_at = NOW()
		WHERE status = 'active'
		  AND end_date IS NOT NULL
		  AND end_date < $1
	`

	result, err := r.db.Exec(query, now)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// scanSubscription scans a single subscription
func scanSubscription(row scanner) (*models.Subscription, error) {
	sub := &models.Subscription{}
	var endDate sql.NullTime
	var cancellationRequestedAt sql.NullTime

	err := row.Scan(
		&sub.ID, &sub.CustomerID, &sub.RouteID, &sub.Weekdays, &sub.TimeSlotID,
		&sub.PickupPointID, &sub.DropoffPointID, &sub.MonthlyFee, &sub.PaymentMethod,
		&sub.Status, &sub.StartDate, &endDate, &cancellationRequestedAt,
		&sub.CreatedAt, &sub.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if endDate.Valid {
		sub.EndDate = &endDate.Time
	}
	if cancellationRequestedAt.Valid {
		sub.CancellationRequestedAt = &cancellationRequestedAt.Time
	}
	sub.MonthlyFeeDisplay = sub.MonthlyFee.Display()

	return sub, nil
}
