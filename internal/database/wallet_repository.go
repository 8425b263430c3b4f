package database

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/ramadandelights-sys/OfficeXpress-v2-sub001/internal/models"
)

// ErrInsufficientBalance is returned when a wallet debit would take the
// balance below zero. This is an expected branch of the purchase flow, not
// a failure.
var ErrInsufficientBalance = errors.New("insufficient wallet balance")

// WalletRepository handles database operations for the wallets and
// wallet_transactions tables
type WalletRepository struct {
	db DB
}

// NewWalletRepository creates a new WalletRepository
func NewWalletRepository(db DB) *WalletRepository {
	return &WalletRepository{db: db}
}

// GetOrCreateByCustomer fetches the customer's wallet, creating an empty one
// on first use
func (r *WalletRepository) GetOrCreateByCustomer(customerID string) (*models.Wallet, error) {
	query := `
		INSERT INTO wallets (id, customer_id, balance)
		VALUES ($1, $2, 0)
		ON CONFLICT (customer_id) DO UPDATE SET customer_id = EXCLUDED.customer_id
		RETURNING id, customer_id, balance, updated_at
	`

	wallet := &models.Wallet{}
	err := r.db.QueryRow(query, uuid.New().String(), customerID).Scan(
		&wallet.ID, &wallet.CustomerID, &wallet.Balance, &wallet.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}
	wallet.BalanceDisplay = wallet.Balance.Display()

	return wallet, nil
}

// Credit adds funds to a customer's wallet and records the movement,
// creating the wallet on first top-up. Both writes happen in one
// transaction.
func (r *WalletRepository) Credit(customerID string, amount models.Paisa, reference string) (*models.Wallet, error) {
	if amount <= 0 {
		return nil, errors.New("credit amount must be positive")
	}

	tx, err := r.db.Beginx()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	wallet := &models.Wallet{}
	err = tx.QueryRow(`
		INSERT INTO wallets (id, customer_id, balance)
		VALUES ($1, $2, $3)
		ON CONFLICT (customer_id) DO UPDATE
		SET balance = wallets.balance + EXCLUDED.balance, updated_at = NOW()
		RETURNING id, customer_id, balance, updated_at
	`, uuid.New().String(), customerID, amount).Scan(
		&wallet.ID, &wallet.CustomerID, &wallet.Balance, &wallet.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to credit wallet: %w", err)
	}

	_, err = tx.Exec(`
		INSERT INTO wallet_transactions (id, wallet_id, amount, kind, reference)
		VALUES ($1, $2, $3, $4, $5)
	`, uuid.New().String(), wallet.ID, amount, models.WalletTxTopUp, reference)
	if err != nil {
		return nil, fmt.Errorf("failed to record wallet transaction: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit wallet credit: %w", err)
	}
	wallet.BalanceDisplay = wallet.Balance.Display()

	return wallet, nil
}

// PurchaseWithWallet atomically debits the customer's wallet by the
// subscription's monthly fee and creates the subscription. Either both
// writes commit or neither does; a balance below the fee aborts with
// ErrInsufficientBalance and leaves the wallet untouched.
func (r *WalletRepository) PurchaseWithWallet(sub *models.Subscription) error {
	fee := sub.MonthlyFee
	if fee < 0 {
		return errors.New("monthly fee cannot be negative")
	}

	// The debit's ledger row references the subscription, so the ID has to
	// exist before the debit is inserted
	if sub.ID == "" {
		sub.ID = uuid.New().String()
	}

	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Conditional debit: the WHERE clause enforces the non-negative balance
	// invariant without a read-modify-write race
	var walletID string
	err = tx.QueryRow(`
		UPDATE wallets
		SET balance = balance - $2, updated_at = NOW()
		WHERE customer_id = $1
		  AND balance >= $2
		RETURNING id
	`, sub.CustomerID, fee).Scan(&walletID)
	if err != nil {
		if isNoRows(err) {
			return ErrInsufficientBalance
		}
		return fmt.Errorf("failed to debit wallet: %w", err)
	}

	_, err = tx.Exec(`
		INSERT INTO wallet_transactions (id, wallet_id, amount, kind, reference)
		VALUES ($1, $2, $3, $4, $5)
	`, uuid.New().String(), walletID, -fee, models.WalletTxPurchaseDebit, sub.ID)
	if err != nil {
		return fmt.Errorf("failed to record wallet transaction: %w", err)
	}

	if err := insertSubscription(tx, sub); err != nil {
		return fmt.Errorf("failed to create subscription: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit purchase: %w", err)
	}

	return nil
}

// GetTransactions retrieves a wallet's movements, newest first
func (r *WalletRepository) GetTransactions(walletID string, limit int) ([]models.WalletTransaction, error) {
	query := `
		SELECT id, wallet_id, amount, kind, reference, created_at
		FROM wallet_transactions
		WHERE wallet_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.db.Query(query, walletID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	txs := []models.WalletTransaction{}
	for rows.Next() {
		var t models.WalletTransaction
		if err := rows.Scan(&t.ID, &t.WalletID, &t.Amount, &t.Kind, &t.Reference, &t.CreatedAt); err != nil {
			return nil, err
		}
		txs = append(txs, t)
	}

	return txs, rows.Err()
}
