package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestCancellation(t *testing.T) {
	endDate := time.Date(2027, 1, 31, 0, 0, 0, 0, time.UTC)

	sub := &Subscription{Status: SubscriptionActive}
	changed, err := sub.RequestCancellation(endDate)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, SubscriptionPendingCancellation, sub.Status)
	require.NotNil(t, sub.EndDate)
	assert.Equal(t, endDate, *sub.EndDate)
	assert.NotNil(t, sub.CancellationRequestedAt)
	assert.True(t, sub.IsLive())

	// Second request is a no-op, not an error
	changed, err = sub.RequestCancellation(endDate.AddDate(0, 1, 0))
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, endDate, *sub.EndDate)
}

func TestRequestCancellation_TerminalStates(t *testing.T) {
	endDate := time.Date(2027, 1, 31, 0, 0, 0, 0, time.UTC)

	for _, status := range []SubscriptionStatus{SubscriptionCancelled, SubscriptionExpired} {
		sub := &Subscription{Status: status}
		_, err := sub.RequestCancellation(endDate)
		assert.ErrorIs(t, err, ErrSubscriptionTerminal)
		assert.Equal(t, status, sub.Status)
		assert.False(t, sub.IsLive())
	}
}

func TestValidateWeekdays(t *testing.T) {
	assert.NoError(t, ValidateWeekdays(nil))
	assert.NoError(t, ValidateWeekdays([]int{0, 6}))
	assert.Error(t, ValidateWeekdays([]int{-1}))
	assert.Error(t, ValidateWeekdays([]int{7}))
	assert.Error(t, ValidateWeekdays([]int{2, 2}))
}

func TestPurchaseRequestValidate(t *testing.T) {
	valid := PurchaseRequest{
		RouteID:        "route-1",
		Weekdays:       []int{1, 3},
		TimeSlotID:     "slot-1",
		PickupPointID:  "pp-1",
		DropoffPointID: "dp-1",
		StartDate:      "2027-02-01",
		PaymentMethod:  PaymentMethodOnline,
	}
	assert.NoError(t, valid.Validate())

	noWeekdays := valid
	noWeekdays.Weekdays = nil
	assert.Error(t, noWeekdays.Validate())

	badMethod := valid
	badMethod.PaymentMethod = "card"
	assert.Error(t, badMethod.Validate())

	badDate := valid
	badDate.StartDate = "01-02-2027"
	assert.Error(t, badDate.Validate())
}
