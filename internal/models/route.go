package models

import (
	"errors"
	"time"
)

// PointType distinguishes pickup stops from drop-off stops on a route
type PointType string

const (
	PointTypePickup  PointType = "pickup"
	PointTypeDropoff PointType = "dropoff"
)

// WeekdayNames maps Sunday-first weekday indexes (0-6) to display names
var WeekdayNames = [7]string{
	"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday",
}

// Route represents a fixed origin-destination shuttle path with scheduled
// weekdays and a per-seat monthly price
type Route struct {
	ID                  string    `json:"id" db:"id"`
	Name                string    `json:"name" db:"name"`
	FromLabel           string    `json:"from_label" db:"from_label"`
	ToLabel             string    `json:"to_label" db:"to_label"`
	FromLat             *float64  `json:"from_lat,omitempty" db:"from_lat"`
	FromLng             *float64  `json:"from_lng,omitempty" db:"from_lng"`
	ToLat               *float64  `json:"to_lat,omitempty" db:"to_lat"`
	ToLng               *float64  `json:"to_lng,omitempty" db:"to_lng"`
	PricePerSeat        Paisa     `json:"price_per_seat" db:"price_per_seat"`
	PricePerSeatDisplay string    `json:"price_per_seat_display" db:"-"`
	OperatingWeekdays   IntArray  `json:"operating_weekdays" db:"operating_weekdays"`
	EstimatedDistanceKm *float64  `json:"estimated_distance_km,omitempty" db:"estimated_distance_km"`
	IsActive            bool      `json:"is_active" db:"is_active"`
	CreatedAt           time.Time `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time `json:"updated_at" db:"updated_at"`
}

// OperatesOn reports whether the route runs on the given weekday (0-6)
func (r *Route) OperatesOn(weekday int) bool {
	return r.OperatingWeekdays.Contains(weekday)
}

// HasOperatingDays reports whether any operating weekdays are configured.
// A route without operating days must surface an explicit state, never an
// empty selectable list.
func (r *Route) HasOperatingDays() bool {
	return len(r.OperatingWeekdays) > 0
}

// PickupPoint represents a boarding or drop-off location on a route
type PickupPoint struct {
	ID            string    `json:"id" db:"id"`
	RouteID       string    `json:"route_id" db:"route_id"`
	Name          string    `json:"name" db:"name"`
	PointType     PointType `json:"point_type" db:"point_type"`
	SequenceOrder int       `json:"sequence_order" db:"sequence_order"`
	Lat           *float64  `json:"lat,omitempty" db:"lat"`
	Lng           *float64  `json:"lng,omitempty" db:"lng"`
	IsVisible     bool      `json:"is_visible" db:"is_visible"`
}

// TimeSlot represents a scheduled departure time on a route
type TimeSlot struct {
	ID            string `json:"id" db:"id"`
	RouteID       string `json:"route_id" db:"route_id"`
	DepartureTime string `json:"departure_time" db:"departure_time"` // HH:MM local
}

// BlackoutDate represents a calendar date on which a route does not operate
type BlackoutDate struct {
	RouteID string    `json:"route_id" db:"route_id"`
	Date    time.Time `json:"date" db:"blackout_date"`
	Reason  *string   `json:"reason,omitempty" db:"reason"`
}

// WeekdayOption is one entry of the seven-day eligibility result
type WeekdayOption struct {
	Weekday           int    `json:"weekday"` // 0-6, Sunday-first
	Name              string `json:"name"`
	Operating         bool   `json:"operating"`
	AlreadySubscribed bool   `json:"already_subscribed"`
	Selectable        bool   `json:"selectable"`
}

// WeekdayAvailability is the full eligibility response for a route
type WeekdayAvailability struct {
	RouteID         string          `json:"route_id"`
	NoOperatingDays bool            `json:"no_operating_days"`
	Options         []WeekdayOption `json:"options"`
}

// ValidateWeekdays checks that all entries are in the 0-6 range and unique
func ValidateWeekdays(weekdays []int) error {
	seen := make(map[int]bool)
	for _, d := range weekdays {
		if d < 0 || d > 6 {
			return errors.New("weekday must be between 0 (Sunday) and 6 (Saturday)")
		}
		if seen[d] {
			return errors.New("duplicate weekday in selection")
		}
		seen[d] = true
	}
	return nil
}
