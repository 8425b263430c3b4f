package database

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramadandelights-sys/OfficeXpress-v2-sub001/internal/models"
)

func TestCreate_GeneratesIDAndDefaults(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewSubscriptionRepository(db)

	sub := testSubscription()
	sub.Status = ""

	mock.ExpectQuery("INSERT INTO subscriptions").
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).
			AddRow(time.Now(), time.Now()))

	err := repo.Create(sub)
	require.NoError(t, err)

	assert.NotEmpty(t, sub.ID)
	assert.Equal(t, models.SubscriptionActive, sub.Status)
}

func TestGetSubscribedWeekdays_UnionAcrossLiveSubscriptions(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewSubscriptionRepository(db)

	mock.ExpectQuery("SELECT weekdays FROM subscriptions").
		WithArgs("cust-1", "route-1").
		WillReturnRows(sqlmock.NewRows([]string{"weekdays"}).
			AddRow([]byte("{3,1}")).
			AddRow([]byte("{5,3}")))

	weekdays, err := repo.GetSubscribedWeekdays("cust-1", "route-1")
	require.NoError(t, err)

	// Deduplicated union in ascending order
	assert.Equal(t, []int{1, 3, 5}, weekdays)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetSubscribedWeekdays_NoneHeld(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewSubscriptionRepository(db)

	mock.ExpectQuery("SELECT weekdays FROM subscriptions").
		WithArgs("cust-1", "route-1").
		WillReturnRows(sqlmock.NewRows([]string{"weekdays"}))

	weekdays, err := repo.GetSubscribedWeekdays("cust-1", "route-1")
	require.NoError(t, err)
	assert.Empty(t, weekdays)
}

func TestGetByCustomer(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewSubscriptionRepository(db)

	now := time.Now()
	endDate := time.Date(2027, 1, 31, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{
		"id", "customer_id", "route_id", "weekdays", "time_slot_id",
		"pickup_point_id", "dropoff_point_id", "monthly_fee", "payment_method", "status",
		"start_date", "end_date", "cancellation_requested_at", "created_at", "updated_at",
	}).
		AddRow("sub-2", "cust-1", "route-1", []byte("{5}"), "slot-2",
			"pp-1", "dp-1", int64(20000), "cash", "pending_cancellation",
			now, endDate, now, now, now).
		AddRow("sub-1", "cust-1", "route-1", []byte("{1,3}"), "slot-1",
			"pp-1", "dp-1", int64(35000), "online", "active",
			now, nil, nil, now, now)

	mock.ExpectQuery("SELECT (.+) FROM subscriptions").
		WithArgs("cust-1").
		WillReturnRows(rows)

	subs, err := repo.GetByCustomer("cust-1")
	require.NoError(t, err)
	require.Len(t, subs, 2)

	assert.Equal(t, models.SubscriptionPendingCancellation, subs[0].Status)
	require.NotNil(t, subs[0].EndDate)
	assert.Equal(t, "৳200.00", subs[0].MonthlyFeeDisplay)

	assert.Equal(t, models.SubscriptionActive, subs[1].Status)
	assert.Nil(t, subs[1].EndDate)
	assert.Equal(t, models.IntArray{1, 3}, subs[1].Weekdays)
}

func TestSweepCancelDue(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewSubscriptionRepository(db)

	mock.ExpectExec("UPDATE subscriptions").
		WithArgs(sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 3))

	count, err := repo.SweepCancelDue(time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestSweepExpireDue(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewSubscriptionRepository(db)

	mock.ExpectExec("UPDATE subscriptions").
		WithArgs(sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	count, err := repo.SweepExpireDue(time.Now())
	require.NoError(t, err)
	assert.Zero(t, count)
}
