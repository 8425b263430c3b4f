package models

import (
	"errors"
	"time"
)

// Wallet represents a customer's prepaid balance for online subscription
// purchases. The non-negative balance invariant is enforced at debit time.
type Wallet struct {
	ID             string    `json:"id" db:"id"`
	CustomerID     string    `json:"customer_id" db:"customer_id"`
	Balance        Paisa     `json:"balance" db:"balance"`
	BalanceDisplay string    `json:"balance_display" db:"-"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// WalletTransactionKind classifies wallet movements
type WalletTransactionKind string

const (
	WalletTxTopUp         WalletTransactionKind = "top_up"
	WalletTxPurchaseDebit WalletTransactionKind = "purchase_debit"
)

// WalletTransaction is one signed movement on a wallet
type WalletTransaction struct {
	ID        string                `json:"id" db:"id"`
	WalletID  string                `json:"wallet_id" db:"wallet_id"`
	Amount    Paisa                 `json:"amount" db:"amount"` // positive credit, negative debit
	Kind      WalletTransactionKind `json:"kind" db:"kind"`
	Reference string                `json:"reference" db:"reference"`
	CreatedAt time.Time             `json:"created_at" db:"created_at"`
}

// TopUpRequest represents a wallet top-up submission
type TopUpRequest struct {
	Amount Paisa `json:"amount" binding:"required"`
}

// Validate validates the top-up request
func (r *TopUpRequest) Validate() error {
	if r.Amount <= 0 {
		return errors.New("amount must be positive")
	}
	// Single top-up ceiling mirrors the payment gateway's transaction limit
	if r.Amount > 100000*100 {
		return errors.New("amount exceeds the maximum single top-up of ৳100,000")
	}
	return nil
}
