package models

import (
	"errors"
	"time"
)

// SubscriptionStatus represents the lifecycle state of a carpool subscription
type SubscriptionStatus string

const (
	SubscriptionActive              SubscriptionStatus = "active"
	SubscriptionPendingCancellation SubscriptionStatus = "pending_cancellation"
	SubscriptionCancelled           SubscriptionStatus = "cancelled"
	SubscriptionExpired             SubscriptionStatus = "expired"
)

// PaymentMethod represents how a subscription is paid
type PaymentMethod string

const (
	PaymentMethodOnline PaymentMethod = "online" // prepaid wallet debit
	PaymentMethodCash   PaymentMethod = "cash"   // cash to driver, no upfront debit
)

// Subscription represents a customer's monthly carpool seat on a route
type Subscription struct {
	ID                       string             `json:"id" db:"id"`
	CustomerID               string             `json:"customer_id" db:"customer_id"`
	RouteID                  string             `json:"route_id" db:"route_id"`
	Weekdays                 IntArray           `json:"weekdays" db:"weekdays"`
	TimeSlotID               string             `json:"time_slot_id" db:"time_slot_id"`
	PickupPointID            string             `json:"pickup_point_id" db:"pickup_point_id"`
	DropoffPointID           string             `json:"dropoff_point_id" db:"dropoff_point_id"`
	MonthlyFee               Paisa              `json:"monthly_fee" db:"monthly_fee"`
	MonthlyFeeDisplay        string             `json:"monthly_fee_display" db:"-"`
	PaymentMethod            PaymentMethod      `json:"payment_method" db:"payment_method"`
	Status                   SubscriptionStatus `json:"status" db:"status"`
	StartDate                time.Time          `json:"start_date" db:"start_date"`
	EndDate                  *time.Time         `json:"end_date,omitempty" db:"end_date"`
	CancellationRequestedAt  *time.Time         `json:"cancellation_requested_at,omitempty" db:"cancellation_requested_at"`
	CreatedAt                time.Time          `json:"created_at" db:"created_at"`
	UpdatedAt                time.Time          `json:"updated_at" db:"updated_at"`
}

// IsLive reports whether the subscription still occupies its (route, weekday)
// slots. Pending-cancellation subscriptions remain usable until the end date.
func (s *Subscription) IsLive() bool {
	return s.Status == SubscriptionActive || s.Status == SubscriptionPendingCancellation
}

// ErrSubscriptionTerminal is returned when a customer tries to cancel a
// subscription that already reached a terminal state.
var ErrSubscriptionTerminal = errors.New("subscription is already cancelled or expired")

// RequestCancellation applies the customer-initiated transition. Cancelling
// an already pending subscription is a no-op, not an error; the returned
// bool reports whether anything changed.
func (s *Subscription) RequestCancellation(endDate time.Time) (bool, error) {
	switch s.Status {
	case SubscriptionPendingCancellation:
		return false, nil
	case SubscriptionActive:
		now := time.Now()
		s.Status = SubscriptionPendingCancellation
		s.EndDate = &endDate
		s.CancellationRequestedAt = &now
		s.UpdatedAt = now
		return true, nil
	default:
		return false, ErrSubscriptionTerminal
	}
}

// PurchaseRequest represents the request to purchase a subscription
type PurchaseRequest struct {
	RouteID        string        `json:"route_id" binding:"required"`
	Weekdays       []int         `json:"weekdays" binding:"required"`
	TimeSlotID     string        `json:"time_slot_id" binding:"required"`
	PickupPointID  string        `json:"pickup_point_id" binding:"required"`
	DropoffPointID string        `json:"dropoff_point_id" binding:"required"`
	StartDate      string        `json:"start_date" binding:"required"` // YYYY-MM-DD
	PaymentMethod  PaymentMethod `json:"payment_method" binding:"required"`
	IntentID       *string       `json:"intent_id,omitempty"`
}

// Validate validates the purchase request
func (r *PurchaseRequest) Validate() error {
	if len(r.Weekdays) == 0 {
		return errors.New("at least one weekday must be selected")
	}
	if err := ValidateWeekdays(r.Weekdays); err != nil {
		return err
	}
	if r.PaymentMethod != PaymentMethodOnline && r.PaymentMethod != PaymentMethodCash {
		return errors.New("payment_method must be 'online' or 'cash'")
	}
	if _, err := time.Parse("2006-01-02", r.StartDate); err != nil {
		return errors.New("start_date must be in YYYY-MM-DD format")
	}
	return nil
}
