package services

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramadandelights-sys/OfficeXpress-v2-sub001/internal/database"
)

func TestBuildWeekdayOptions(t *testing.T) {
	options := BuildWeekdayOptions([]int{1, 3, 5}, []int{3})

	require.Len(t, options, 7)

	selectable := []int{}
	for _, o := range options {
		if o.Selectable {
			selectable = append(selectable, o.Weekday)
		}
	}
	// Exactly the operating weekdays minus the subscribed ones
	assert.Equal(t, []int{1, 5}, selectable)

	assert.Equal(t, "Sunday", options[0].Name)
	assert.False(t, options[0].Operating)
	assert.False(t, options[0].Selectable)

	assert.True(t, options[3].Operating)
	assert.True(t, options[3].AlreadySubscribed)
	assert.False(t, options[3].Selectable)
}

func TestBuildWeekdayOptions_NothingSubscribed(t *testing.T) {
	options := BuildWeekdayOptions([]int{0, 6}, nil)

	for _, o := range options {
		assert.Equal(t, o.Operating, o.Selectable)
		assert.False(t, o.AlreadySubscribed)
	}
}

func TestBuildWeekdayOptions_FullySubscribed(t *testing.T) {
	options := BuildWeekdayOptions([]int{1, 3}, []int{1, 3})

	for _, o := range options {
		assert.False(t, o.Selectable)
	}
}

func TestWeekdayAvailability(t *testing.T) {
	db, mock := newTestDB(t)
	service := NewEligibilityService(
		database.NewRouteRepository(db),
		database.NewSubscriptionRepository(db),
	)

	mock.ExpectQuery("SELECT (.+) FROM routes").
		WithArgs("route-1").
		WillReturnRows(routeRow("route-1", 5000, "{1,3,5}", true))

	mock.ExpectQuery("SELECT weekdays FROM subscriptions").
		WithArgs("cust-1", "route-1").
		WillReturnRows(sqlmock.NewRows([]string{"weekdays"}).AddRow([]byte("{5}")))

	availability, err := service.WeekdayAvailability("cust-1", "route-1")
	require.NoError(t, err)

	assert.False(t, availability.NoOperatingDays)
	require.Len(t, availability.Options, 7)
	assert.True(t, availability.Options[1].Selectable)
	assert.True(t, availability.Options[3].Selectable)
	assert.False(t, availability.Options[5].Selectable)
	assert.True(t, availability.Options[5].AlreadySubscribed)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWeekdayAvailability_NoOperatingDays(t *testing.T) {
	db, mock := newTestDB(t)
	service := NewEligibilityService(
		database.NewRouteRepository(db),
		database.NewSubscriptionRepository(db),
	)

	mock.ExpectQuery("SELECT (.+) FROM routes").
		WithArgs("route-1").
		WillReturnRows(routeRow("route-1", 5000, "{}", true))

	mock.ExpectQuery("SELECT weekdays FROM subscriptions").
		WithArgs("cust-1", "route-1").
		WillReturnRows(sqlmock.NewRows([]string{"weekdays"}))

	availability, err := service.WeekdayAvailability("cust-1", "route-1")
	require.NoError(t, err)

	// An explicit state, not an empty list the client must interpret
	assert.True(t, availability.NoOperatingDays)
	for _, o := range availability.Options {
		assert.False(t, o.Selectable)
	}
}
