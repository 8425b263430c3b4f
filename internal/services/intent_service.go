package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ramadandelights-sys/OfficeXpress-v2-sub001/internal/database"
	"github.com/ramadandelights-sys/OfficeXpress-v2-sub001/internal/models"
)

var (
	// ErrIntentNotFound is returned when the intent does not exist or
	// belongs to another customer
	ErrIntentNotFound = errors.New("purchase intent not found")

	// ErrIntentExpired is returned when the intent's TTL elapsed before
	// the customer finished the wizard
	ErrIntentExpired = errors.New("purchase intent has expired")
)

// IntentService drives the subscription purchase wizard. Each intent is a
// linear state machine; this service validates the current step's
// selections against the catalog before letting the intent advance, and
// computes the quote when the wizard reaches the quote step.
type IntentService struct {
	intentRepo *database.PurchaseIntentRepository
	routeRepo  *database.RouteRepository
	slotRepo   *database.TimeSlotRepository
	pointRepo  *database.PickupPointRepository
	subRepo    *database.SubscriptionRepository
	pricing    *PricingService
	logger     *logrus.Logger

	ttl time.Duration
	now func() time.Time
}

// NewIntentService creates a new IntentService
func NewIntentService(
	intentRepo *database.PurchaseIntentRepository,
	routeRepo *database.RouteRepository,
	slotRepo *database.TimeSlotRepository,
	pointRepo *database.PickupPointRepository,
	subRepo *database.SubscriptionRepository,
	pricing *PricingService,
	logger *logrus.Logger,
	ttl time.Duration,
) *IntentService {
	return &IntentService{
		intentRepo: intentRepo,
		routeRepo:  routeRepo,
		slotRepo:   slotRepo,
		pointRepo:  pointRepo,
		subRepo:    subRepo,
		pricing:    pricing,
		logger:     logger,
		ttl:        ttl,
		now:        time.Now,
	}
}

// Start opens a new wizard intent for the customer
func (s *IntentService) Start(customerID string) (*models.PurchaseIntent, error) {
	intent := &models.PurchaseIntent{
		CustomerID: customerID,
		Step:       models.StepRoute,
		Status:     models.IntentOpen,
		ExpiresAt:  s.now().Add(s.ttl),
	}
	if err := s.intentRepo.Create(intent); err != nil {
		return nil, fmt.Errorf("failed to create purchase intent: %w", err)
	}
	return intent, nil
}

// Get loads a customer's intent
func (s *IntentService) Get(customerID, intentID string) (*models.PurchaseIntent, error) {
	return s.load(customerID, intentID)
}

// Advance records the request's selections, validates the current step's
// gate against the catalog and moves the intent forward. Reaching the quote
// step computes and stores the monthly fee.
func (s *IntentService) Advance(customerID, intentID string, req *models.IntentAdvanceRequest) (*models.PurchaseIntent, error) {
	intent, err := s.load(customerID, intentID)
	if err != nil {
		return nil, err
	}

	if err := intent.Apply(req); err != nil {
		return nil, err
	}
	if err := s.validateStep(customerID, intent); err != nil {
		return nil, err
	}
	if err := intent.Advance(); err != nil {
		return nil, err
	}

	if intent.Step == models.StepQuote {
		quote, err := s.pricing.Quote(*intent.RouteID, intent.Weekdays)
		if err != nil {
			return nil, err
		}
		intent.QuotedFee = &quote.MonthlyFee
	}

	if err := s.intentRepo.Update(intent); err != nil {
		return nil, fmt.Errorf("failed to update purchase intent: %w", err)
	}
	return intent, nil
}

// Back moves the intent one step backwards, keeping all selections
func (s *IntentService) Back(customerID, intentID string) (*models.PurchaseIntent, error) {
	intent, err := s.load(customerID, intentID)
	if err != nil {
		return nil, err
	}

	if err := intent.Back(); err != nil {
		return nil, err
	}

	if err := s.intentRepo.Update(intent); err != nil {
		return nil, fmt.Errorf("failed to update purchase intent: %w", err)
	}
	return intent, nil
}

// Abandon discards an open intent
func (s *IntentService) Abandon(customerID, intentID string) error {
	intent, err := s.load(customerID, intentID)
	if err != nil {
		return err
	}

	intent.Status = models.IntentAbandoned
	if err := s.intentRepo.Update(intent); err != nil {
		return fmt.Errorf("failed to abandon purchase intent: %w", err)
	}
	return nil
}

// SweepExpired marks open intents past their TTL as expired
func (s *IntentService) SweepExpired() {
	count, err := s.intentRepo.SweepExpireDue(s.now())
	if err != nil {
		s.logger.WithError(err).Error("Intent expiry sweep failed")
		return
	}
	if count > 0 {
		s.logger.WithField("count", count).Info("Expired purchase intents")
	}
}

// load fetches an intent, enforcing ownership and the TTL
func (s *IntentService) load(customerID, intentID string) (*models.PurchaseIntent, error) {
	intent, err := s.intentRepo.GetByID(intentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrIntentNotFound
		}
		return nil, fmt.Errorf("failed to load purchase intent: %w", err)
	}
	if intent.CustomerID != customerID {
		return nil, ErrIntentNotFound
	}

	if intent.IsExpired(s.now()) {
		intent.Status = models.IntentExpired
		if err := s.intentRepo.Update(intent); err != nil {
			s.logger.WithError(err).WithField("intent_id", intent.ID).Warn("Failed to persist intent expiry")
		}
		return nil, ErrIntentExpired
	}

	return intent, nil
}

// validateStep checks the current step's selections against the catalog
func (s *IntentService) validateStep(customerID string, intent *models.PurchaseIntent) error {
	switch intent.Step {
	case models.StepRoute:
		if intent.RouteID == nil {
			return models.ErrIntentStepIncomplete
		}
		route, err := s.routeRepo.GetByID(*intent.RouteID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrRouteNotFound
			}
			return fmt.Errorf("failed to load route: %w", err)
		}
		if !route.IsActive {
			return ErrRouteNotFound
		}

	case models.StepSchedule:
		if intent.RouteID == nil || len(intent.Weekdays) == 0 || intent.TimeSlotID == nil {
			return models.ErrIntentStepIncomplete
		}
		route, err := s.routeRepo.GetByID(*intent.RouteID)
		if err != nil {
			return fmt.Errorf("failed to load route: %w", err)
		}
		for _, d := range intent.Weekdays {
			if !route.OperatesOn(d) {
				return ErrWeekdayNotOperating
			}
		}
		subscribed, err := s.subRepo.GetSubscribedWeekdays(customerID, *intent.RouteID)
		if err != nil {
			return fmt.Errorf("failed to load subscribed weekdays: %w", err)
		}
		for _, d := range subscribed {
			if intent.Weekdays.Contains(d) {
				return ErrWeekdayConflict
			}
		}
		slot, err := s.slotRepo.GetByID(*intent.TimeSlotID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrSelectionMismatch
			}
			return fmt.Errorf("failed to load time slot: %w", err)
		}
		if slot.RouteID != *intent.RouteID {
			return ErrSelectionMismatch
		}

	case models.StepPoints:
		if intent.PickupPointID == nil || intent.DropoffPointID == nil {
			return models.ErrIntentStepIncomplete
		}
		pickup, err := s.pointRepo.GetByID(*intent.PickupPointID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrSelectionMismatch
			}
			return fmt.Errorf("failed to load pickup point: %w", err)
		}
		if pickup.RouteID != *intent.RouteID || pickup.PointType != models.PointTypePickup {
			return ErrSelectionMismatch
		}
		dropoff, err := s.pointRepo.GetByID(*intent.DropoffPointID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrSelectionMismatch
			}
			return fmt.Errorf("failed to load drop-off point: %w", err)
		}
		if dropoff.RouteID != *intent.RouteID || dropoff.PointType != models.PointTypeDropoff {
			return ErrSelectionMismatch
		}
	}

	return nil
}
