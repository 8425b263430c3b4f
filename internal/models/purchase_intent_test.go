package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openIntent() *PurchaseIntent {
	return &PurchaseIntent{
		ID:         "intent-1",
		CustomerID: "cust-1",
		Step:       StepRoute,
		Status:     IntentOpen,
		ExpiresAt:  time.Now().Add(30 * time.Minute),
	}
}

func strptr(s string) *string { return &s }

func TestIntentAdvance_RequiresStepSelections(t *testing.T) {
	intent := openIntent()

	// Route step gate: no route chosen yet
	err := intent.Advance()
	assert.ErrorIs(t, err, ErrIntentStepIncomplete)
	assert.Equal(t, StepRoute, intent.Step)

	require.NoError(t, intent.Apply(&IntentAdvanceRequest{RouteID: strptr("route-1")}))
	require.NoError(t, intent.Advance())
	assert.Equal(t, StepSchedule, intent.Step)

	// Schedule step gate: weekdays alone are not enough
	require.NoError(t, intent.Apply(&IntentAdvanceRequest{Weekdays: []int{1, 3}}))
	err = intent.Advance()
	assert.ErrorIs(t, err, ErrIntentStepIncomplete)

	require.NoError(t, intent.Apply(&IntentAdvanceRequest{TimeSlotID: strptr("slot-1")}))
	require.NoError(t, intent.Advance())
	assert.Equal(t, StepPoints, intent.Step)

	require.NoError(t, intent.Apply(&IntentAdvanceRequest{
		PickupPointID:  strptr("pp-1"),
		DropoffPointID: strptr("dp-1"),
	}))
	require.NoError(t, intent.Advance())
	assert.Equal(t, StepQuote, intent.Step)

	// Quote step gate: the computed fee must be stored before confirming
	err = intent.Advance()
	assert.ErrorIs(t, err, ErrIntentStepIncomplete)

	fee := Paisa(35000)
	intent.QuotedFee = &fee
	require.NoError(t, intent.Advance())
	assert.Equal(t, StepConfirm, intent.Step)

	// The confirm step is consumed by the purchase endpoint, never advanced
	assert.Error(t, intent.Advance())
}

func TestIntentApply_RouteChangeClearsLaterSelections(t *testing.T) {
	intent := openIntent()
	fee := Paisa(35000)

	require.NoError(t, intent.Apply(&IntentAdvanceRequest{
		RouteID:        strptr("route-1"),
		Weekdays:       []int{1},
		TimeSlotID:     strptr("slot-1"),
		PickupPointID:  strptr("pp-1"),
		DropoffPointID: strptr("dp-1"),
	}))
	intent.QuotedFee = &fee

	require.NoError(t, intent.Apply(&IntentAdvanceRequest{RouteID: strptr("route-2")}))

	assert.Empty(t, intent.Weekdays)
	assert.Nil(t, intent.TimeSlotID)
	assert.Nil(t, intent.PickupPointID)
	assert.Nil(t, intent.DropoffPointID)
	assert.Nil(t, intent.QuotedFee)
}

func TestIntentApply_WeekdayChangeInvalidatesQuote(t *testing.T) {
	intent := openIntent()
	fee := Paisa(35000)

	require.NoError(t, intent.Apply(&IntentAdvanceRequest{
		RouteID:  strptr("route-1"),
		Weekdays: []int{1},
	}))
	intent.QuotedFee = &fee

	require.NoError(t, intent.Apply(&IntentAdvanceRequest{Weekdays: []int{1, 3}}))
	assert.Nil(t, intent.QuotedFee)
}

func TestIntentBack_KeepsSelections(t *testing.T) {
	intent := openIntent()
	intent.Step = StepPoints
	intent.RouteID = strptr("route-1")
	intent.Weekdays = IntArray{1, 3}
	intent.TimeSlotID = strptr("slot-1")

	require.NoError(t, intent.Back())
	assert.Equal(t, StepSchedule, intent.Step)
	assert.Equal(t, IntArray{1, 3}, intent.Weekdays)
	assert.NotNil(t, intent.TimeSlotID)

	require.NoError(t, intent.Back())
	assert.Equal(t, StepRoute, intent.Step)

	// Already at the first step
	assert.Error(t, intent.Back())
}

func TestIntentTransitions_RejectNonOpenStatus(t *testing.T) {
	for _, status := range []IntentStatus{IntentConfirmed, IntentExpired, IntentAbandoned} {
		intent := openIntent()
		intent.Status = status

		assert.ErrorIs(t, intent.Apply(&IntentAdvanceRequest{}), ErrIntentNotOpen)
		assert.ErrorIs(t, intent.Advance(), ErrIntentNotOpen)
		assert.ErrorIs(t, intent.Back(), ErrIntentNotOpen)
	}
}

func TestIntentIsExpired(t *testing.T) {
	intent := openIntent()
	intent.ExpiresAt = time.Now().Add(-time.Minute)
	assert.True(t, intent.IsExpired(time.Now()))

	// Only open intents expire by TTL
	intent.Status = IntentConfirmed
	assert.False(t, intent.IsExpired(time.Now()))
}

func TestIntentApply_RejectsInvalidWeekdays(t *testing.T) {
	intent := openIntent()
	assert.Error(t, intent.Apply(&IntentAdvanceRequest{Weekdays: []int{9}}))
}
