package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ramadandelights-sys/OfficeXpress-v2-sub001/internal/database"
	"github.com/ramadandelights-sys/OfficeXpress-v2-sub001/internal/models"
)

// ErrCostUnavailable is returned when route or price data cannot be loaded.
// The calculator reports "unknown" in that case; it never falls back to a
// zero fee, which a customer could mistake for a free subscription.
var ErrCostUnavailable = errors.New("cost unavailable")

// PricingService computes monthly subscription fees. The billing window is
// the full calendar month after the quote date; each selected weekday
// contributes its exact occurrence count within that window, minus any
// occurrences falling on the route's blackout dates.
type PricingService struct {
	routeRepo    *database.RouteRepository
	blackoutRepo *database.BlackoutRepository
	logger       *logrus.Logger

	now func() time.Time // injectable clock for tests
}

// NewPricingService creates a new PricingService
func NewPricingService(routeRepo *database.RouteRepository, blackoutRepo *database.BlackoutRepository, logger *logrus.Logger) *PricingService {
	return &PricingService{
		routeRepo:    routeRepo,
		blackoutRepo: blackoutRepo,
		logger:       logger,
		now:          time.Now,
	}
}

// BillingWindow returns the first and last day of the month following ref
func BillingWindow(ref time.Time) (start, end time.Time) {
	start = time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location()).AddDate(0, 1, 0)
	end = start.AddDate(0, 1, -1)
	return start, end
}

// Quote computes the monthly fee for a (route, weekday-set) pair
func (s *PricingService) Quote(routeID string, weekdays []int) (*models.Quote, error) {
	if err := models.ValidateWeekdays(weekdays); err != nil {
		return nil, err
	}

	route, err := s.routeRepo.GetByID(routeID)
	if err != nil {
		s.logger.WithError(err).WithField("route_id", routeID).Warn("Route lookup failed during quote")
		return nil, fmt.Errorf("%w: route data could not be loaded", ErrCostUnavailable)
	}
	if route.PricePerSeat <= 0 {
		return nil, fmt.Errorf("%w: route has no price configured", ErrCostUnavailable)
	}

	windowStart, windowEnd := BillingWindow(s.now())

	blackouts, err := s.blackoutRepo.GetDatesInRange(routeID, windowStart, windowEnd)
	if err != nil {
		s.logger.WithError(err).WithField("route_id", routeID).Warn("Blackout lookup failed during quote")
		return nil, fmt.Errorf("%w: blackout data could not be loaded", ErrCostUnavailable)
	}

	blackoutSet := make(map[string]bool, len(blackouts))
	for _, b := range blackouts {
		blackoutSet[b.Date.Format("2006-01-02")] = true
	}

	selected := make(map[int]bool, len(weekdays))
	for _, d := range weekdays {
		selected[d] = true
	}

	// Exact calendar counting: walk every date of the billing window
	serviceable := 0
	excluded := 0
	for d := windowStart; !d.After(windowEnd); d = d.AddDate(0, 0, 1) {
		if !selected[int(d.Weekday())] {
			continue
		}
		if blackoutSet[d.Format("2006-01-02")] {
			excluded++
			continue
		}
		serviceable++
	}

	fee := models.Paisa(int64(serviceable) * int64(route.PricePerSeat))

	return &models.Quote{
		RouteID:              routeID,
		MonthlyFee:           fee,
		MonthlyFeeDisplay:    fee.Display(),
		ServiceableDays:      serviceable,
		BlackoutDaysExcluded: excluded,
		WindowStart:          windowStart.Format("2006-01-02"),
		WindowEnd:            windowEnd.Format("2006-01-02"),
	}, nil
}
