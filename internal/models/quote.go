package models

import "errors"

// QuoteRequest represents a monthly cost quote request
type QuoteRequest struct {
	RouteID  string `json:"route_id" binding:"required"`
	Weekdays []int  `json:"weekdays"`
}

// Validate validates the quote request
func (r *QuoteRequest) Validate() error {
	if r.RouteID == "" {
		return errors.New("route_id is required")
	}
	return ValidateWeekdays(r.Weekdays)
}

// Quote is the computed monthly fee for a (route, weekday-set) pair over the
// next billing month. A fee of zero is only ever produced by an empty
// weekday selection; unavailable pricing data yields an error, never zero.
type Quote struct {
	RouteID              string `json:"route_id"`
	MonthlyFee           Paisa  `json:"monthly_fee"`
	MonthlyFeeDisplay    string `json:"monthly_fee_display"`
	ServiceableDays      int    `json:"serviceable_days"`
	BlackoutDaysExcluded int    `json:"blackout_days_excluded"`
	WindowStart          string `json:"window_start"` // YYYY-MM-DD
	WindowEnd            string `json:"window_end"`   // YYYY-MM-DD
}
