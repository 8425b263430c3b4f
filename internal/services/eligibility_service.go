package services

import (
	"github.com/ramadandelights-sys/OfficeXpress-v2-sub001/internal/database"
	"github.com/ramadandelights-sys/OfficeXpress-v2-sub001/internal/models"
)

// EligibilityService determines which weekdays a customer may select on a
// route. A weekday is selectable only when the route operates on it and the
// customer does not already hold a live subscription covering it.
type EligibilityService struct {
	routeRepo *database.RouteRepository
	subRepo   *database.SubscriptionRepository
}

// NewEligibilityService creates a new EligibilityService
func NewEligibilityService(routeRepo *database.RouteRepository, subRepo *database.SubscriptionRepository) *EligibilityService {
	return &EligibilityService{
		routeRepo: routeRepo,
		subRepo:   subRepo,
	}
}

// WeekdayAvailability computes the seven-entry eligibility result for a
// customer on a route
func (s *EligibilityService) WeekdayAvailability(customerID, routeID string) (*models.WeekdayAvailability, error) {
	route, err := s.routeRepo.GetByID(routeID)
	if err != nil {
		return nil, err
	}

	subscribed, err := s.subRepo.GetSubscribedWeekdays(customerID, routeID)
	if err != nil {
		return nil, err
	}

	return &models.WeekdayAvailability{
		RouteID:         routeID,
		NoOperatingDays: !route.HasOperatingDays(),
		Options:         BuildWeekdayOptions(route.OperatingWeekdays, subscribed),
	}, nil
}

// BuildWeekdayOptions derives the selectable flag for each of the seven
// weekdays from the route's operating set and the customer's already
// subscribed set. No side effects; exactly the operating weekdays not yet
// subscribed come out selectable.
func BuildWeekdayOptions(operating []int, subscribed []int) []models.WeekdayOption {
	operatingSet := make(map[int]bool, len(operating))
	for _, d := range operating {
		operatingSet[d] = true
	}
	subscribedSet := make(map[int]bool, len(subscribed))
	for _, d := range subscribed {
		subscribedSet[d] = true
	}

	options := make([]models.WeekdayOption, 7)
	for d := 0; d <= 6; d++ {
		options[d] = models.WeekdayOption{
			Weekday:           d,
			Name:              models.WeekdayNames[d],
			Operating:         operatingSet[d],
			AlreadySubscribed: subscribedSet[d],
			Selectable:        operatingSet[d] && !subscribedSet[d],
		}
	}
	return options
}
