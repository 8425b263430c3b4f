package services

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramadandelights-sys/OfficeXpress-v2-sub001/internal/database"
	"github.com/ramadandelights-sys/OfficeXpress-v2-sub001/internal/models"
)

func newLifecycleService(db database.DB) *LifecycleService {
	service := NewLifecycleService(
		database.NewSubscriptionRepository(db),
		NewAuditService(database.NewAuditRepository(db), testLogger()),
		testLogger(),
	)
	service.now = func() time.Time { return time.Date(2027, 1, 15, 10, 0, 0, 0, time.UTC) }
	return service
}

var subscriptionColumns = []string{
	"id", "customer_id", "route_id", "weekdays", "time_slot_id",
	"pickup_point_id", "dropoff_point_id", "monthly_fee", "payment_method", "status",
	"start_date", "end_date", "cancellation_requested_at", "created_at", "updated_at",
}

func subscriptionRow(id, customerID string, status models.SubscriptionStatus) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(subscriptionColumns).
		AddRow(id, customerID, "route-1", []byte("{1,3}"), "slot-1",
			"pp-1", "dp-1", int64(35000), "online", string(status),
			time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC), nil, nil, now, now)
}

func TestCancel_ActiveSubscription(t *testing.T) {
	db, mock := newTestDB(t)
	service := newLifecycleService(db)

	mock.ExpectQuery("SELECT (.+) FROM subscriptions").
		WithArgs("sub-1").
		WillReturnRows(subscriptionRow("sub-1", "cust-1", models.SubscriptionActive))

	mock.ExpectQuery("UPDATE subscriptions").
		WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(time.Now()))

	mock.ExpectExec("INSERT INTO purchase_audit_log").
		WillReturnResult(sqlmock.NewResult(1, 1))

	sub, changed, err := service.Cancel("cust-1", "sub-1", ClientMeta{})
	require.NoError(t, err)

	assert.True(t, changed)
	assert.Equal(t, models.SubscriptionPendingCancellation, sub.Status)
	assert.True(t, sub.IsLive())
	require.NotNil(t, sub.EndDate)
	// Usable until the end of the current billing month
	assert.Equal(t, time.Date(2027, 1, 31, 0, 0, 0, 0, time.UTC), *sub.EndDate)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancel_AlreadyPendingIsNoOp(t *testing.T) {
	db, mock := newTestDB(t)
	service := newLifecycleService(db)

	mock.ExpectQuery("SELECT (.+) FROM subscriptions").
		WithArgs("sub-1").
		WillReturnRows(subscriptionRow("sub-1", "cust-1", models.SubscriptionPendingCancellation))

	sub, changed, err := service.Cancel("cust-1", "sub-1", ClientMeta{})
	require.NoError(t, err)

	// Repeating the request succeeds without writing anything
	assert.False(t, changed)
	assert.Equal(t, models.SubscriptionPendingCancellation, sub.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancel_TerminalSubscription(t *testing.T) {
	for _, status := range []models.SubscriptionStatus{models.SubscriptionCancelled, models.SubscriptionExpired} {
		db, mock := newTestDB(t)
		service := newLifecycleService(db)

		mock.ExpectQuery("SELECT (.+) FROM subscriptions").
			WithArgs("sub-1").
			WillReturnRows(subscriptionRow("sub-1", "cust-1", status))

		_, _, err := service.Cancel("cust-1", "sub-1", ClientMeta{})
		assert.ErrorIs(t, err, models.ErrSubscriptionTerminal)
	}
}

func TestCancel_NotOwner(t *testing.T) {
	db, mock := newTestDB(t)
	service := newLifecycleService(db)

	mock.ExpectQuery("SELECT (.+) FROM subscriptions").
		WithArgs("sub-1").
		WillReturnRows(subscriptionRow("sub-1", "someone-else", models.SubscriptionActive))

	_, _, err := service.Cancel("cust-1", "sub-1", ClientMeta{})
	assert.ErrorIs(t, err, ErrNotSubscriptionOwner)
}

func TestCancel_NotFound(t *testing.T) {
	db, mock := newTestDB(t)
	service := newLifecycleService(db)

	mock.ExpectQuery("SELECT (.+) FROM subscriptions").
		WithArgs("sub-1").
		WillReturnError(sql.ErrNoRows)

	_, _, err := service.Cancel("cust-1", "sub-1", ClientMeta{})
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestSweep(t *testing.T) {
	db, mock := newTestDB(t)
	service := newLifecycleService(db)

	mock.ExpectExec("UPDATE subscriptions").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("UPDATE subscriptions").
		WillReturnResult(sqlmock.NewResult(0, 1))

	service.Sweep()

	assert.NoError(t, mock.ExpectationsWereMet())
}
