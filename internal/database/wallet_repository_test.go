package database

import (
	"database/sql"
	"database/sql/driver"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramadandelights-sys/OfficeXpress-v2-sub001/internal/models"
)

// newTestDB returns a sqlmock-backed DB
func newTestDB(t *testing.T) (DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return &PostgresDB{DB: sqlx.NewDb(db, "sqlmock")}, mock
}

func testSubscription() *models.Subscription {
	return &models.Subscription{
		CustomerID:     "cust-1",
		RouteID:        "route-1",
		Weekdays:       models.IntArray{1, 3},
		TimeSlotID:     "slot-1",
		PickupPointID:  "pp-1",
		DropoffPointID: "dp-1",
		MonthlyFee:     models.Paisa(35000),
		PaymentMethod:  models.PaymentMethodOnline,
		Status:         models.SubscriptionActive,
		StartDate:      time.Date(2027, 2, 1, 0, 0, 0, 0, time.UTC),
	}
}

// argCapture records the matched driver value for later assertions
type argCapture struct{ v *driver.Value }

func (c argCapture) Match(v driver.Value) bool {
	*c.v = v
	return true
}

func TestPurchaseWithWallet_CommitsDebitAndSubscription(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewWalletRepository(db)
	sub := testSubscription()

	var debitReference driver.Value
	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE wallets").
		WithArgs("cust-1", int64(35000)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("wallet-1"))
	mock.ExpectExec("INSERT INTO wallet_transactions").
		WithArgs(sqlmock.AnyArg(), "wallet-1", int64(-35000), "purchase_debit", argCapture{&debitReference}).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery("INSERT INTO subscriptions").
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).
			AddRow(time.Now(), time.Now()))
	mock.ExpectCommit()

	err := repo.PurchaseWithWallet(sub)
	require.NoError(t, err)

	assert.NotEmpty(t, sub.ID)
	// The ledger row ties back to the subscription it paid for
	assert.Equal(t, sub.ID, debitReference)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPurchaseWithWallet_InsufficientBalance(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewWalletRepository(db)

	// The conditional debit matches no wallet row
	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE wallets").
		WithArgs("cust-1", int64(35000)).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	err := repo.PurchaseWithWallet(testSubscription())
	assert.ErrorIs(t, err, ErrInsufficientBalance)

	// Nothing else was written
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPurchaseWithWallet_SubscriptionInsertFailureRollsBack(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewWalletRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE wallets").
		WithArgs("cust-1", int64(35000)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("wallet-1"))
	mock.ExpectExec("INSERT INTO wallet_transactions").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery("INSERT INTO subscriptions").
		WillReturnError(sql.ErrConnDone)
	mock.ExpectRollback()

	err := repo.PurchaseWithWallet(testSubscription())
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrInsufficientBalance)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCredit(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewWalletRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO wallets").
		WithArgs(sqlmock.AnyArg(), "cust-1", int64(50000)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "customer_id", "balance", "updated_at"}).
			AddRow("wallet-1", "cust-1", int64(85000), time.Now()))
	mock.ExpectExec("INSERT INTO wallet_transactions").
		WithArgs(sqlmock.AnyArg(), "wallet-1", int64(50000), "top_up", "ref-123").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	wallet, err := repo.Credit("cust-1", models.Paisa(50000), "ref-123")
	require.NoError(t, err)

	assert.Equal(t, models.Paisa(85000), wallet.Balance)
	assert.Equal(t, "৳850.00", wallet.BalanceDisplay)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCredit_CreatesWalletOnFirstTopUp(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewWalletRepository(db)

	// No wallets row exists yet; the upsert creates one holding the credit
	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO wallets").
		WithArgs(sqlmock.AnyArg(), "cust-new", int64(50000)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "customer_id", "balance", "updated_at"}).
			AddRow("wallet-9", "cust-new", int64(50000), time.Now()))
	mock.ExpectExec("INSERT INTO wallet_transactions").
		WithArgs(sqlmock.AnyArg(), "wallet-9", int64(50000), "top_up", "ref-first").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	wallet, err := repo.Credit("cust-new", models.Paisa(50000), "ref-first")
	require.NoError(t, err)

	assert.Equal(t, models.Paisa(50000), wallet.Balance)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCredit_RejectsNonPositiveAmount(t *testing.T) {
	db, _ := newTestDB(t)
	repo := NewWalletRepository(db)

	_, err := repo.Credit("cust-1", 0, "ref")
	assert.Error(t, err)

	_, err = repo.Credit("cust-1", -100, "ref")
	assert.Error(t, err)
}

func TestGetOrCreateByCustomer(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewWalletRepository(db)

	mock.ExpectQuery("INSERT INTO wallets").
		WithArgs(sqlmock.AnyArg(), "cust-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "customer_id", "balance", "updated_at"}).
			AddRow("wallet-1", "cust-1", int64(0), time.Now()))

	wallet, err := repo.GetOrCreateByCustomer("cust-1")
	require.NoError(t, err)

	assert.Equal(t, models.Paisa(0), wallet.Balance)
	assert.Equal(t, "৳0.00", wallet.BalanceDisplay)
}
