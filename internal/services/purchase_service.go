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
	// ErrRouteNotFound is returned when the requested route does not exist
	// or is inactive
	ErrRouteNotFound = errors.New("route not found")

	// ErrWeekdayNotOperating is returned when a selected weekday is outside
	// the route's operating set
	ErrWeekdayNotOperating = errors.New("route does not operate on a selected weekday")

	// ErrWeekdayConflict is returned when the customer already holds a live
	// subscription for a selected weekday on this route
	ErrWeekdayConflict = errors.New("already subscribed for a selected weekday on this route")

	// ErrSelectionMismatch is returned when the time slot or a point does
	// not belong to the chosen route, or a point has the wrong type
	ErrSelectionMismatch = errors.New("selection does not belong to the chosen route")
)

// ClientMeta carries request metadata into the audit trail
type ClientMeta struct {
	IPAddress string
	UserAgent string
}

// InsufficientBalanceError reports the funding-gate branch with the figures
// the client needs to offer a top-up: the required fee, the current balance
// and the shortfall
type InsufficientBalanceError struct {
	Fee     models.Paisa
	Balance models.Paisa
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient wallet balance: need %s, have %s",
		e.Fee.Display(), e.Balance.Display())
}

// Unwrap keeps errors.Is(err, database.ErrInsufficientBalance) working
func (e *InsufficientBalanceError) Unwrap() error {
	return database.ErrInsufficientBalance
}

// Shortfall is the amount the customer must top up before retrying
func (e *InsufficientBalanceError) Shortfall() models.Paisa {
	return e.Fee - e.Balance
}

// PurchaseService orchestrates subscription purchases: it validates the
// selection against the catalog, recomputes the fee server-side, applies
// the wallet funding gate for online payments and creates the subscription.
type PurchaseService struct {
	routeRepo  *database.RouteRepository
	slotRepo   *database.TimeSlotRepository
	pointRepo  *database.PickupPointRepository
	subRepo    *database.SubscriptionRepository
	walletRepo *database.WalletRepository
	intentRepo *database.PurchaseIntentRepository
	pricing    *PricingService
	audit      *AuditService
	logger     *logrus.Logger
}

// NewPurchaseService creates a new PurchaseService
func NewPurchaseService(
	routeRepo *database.RouteRepository,
	slotRepo *database.TimeSlotRepository,
	pointRepo *database.PickupPointRepository,
	subRepo *database.SubscriptionRepository,
	walletRepo *database.WalletRepository,
	intentRepo *database.PurchaseIntentRepository,
	pricing *PricingService,
	audit *AuditService,
	logger *logrus.Logger,
) *PurchaseService {
	return &PurchaseService{
		routeRepo:  routeRepo,
		slotRepo:   slotRepo,
		pointRepo:  pointRepo,
		subRepo:    subRepo,
		walletRepo: walletRepo,
		intentRepo: intentRepo,
		pricing:    pricing,
		audit:      audit,
		logger:     logger,
	}
}

// Purchase validates and executes a subscription purchase. Online payments
// pass through the wallet funding gate: the debit and the subscription
// insert commit together or not at all, and an insufficient balance returns
// database.ErrInsufficientBalance with nothing written. Cash purchases skip
// the gate entirely.
func (s *PurchaseService) Purchase(customerID string, req *models.PurchaseRequest, meta ClientMeta) (*models.Subscription, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	route, err := s.routeRepo.GetByID(req.RouteID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRouteNotFound
		}
		return nil, fmt.Errorf("failed to load route: %w", err)
	}
	if !route.IsActive {
		return nil, ErrRouteNotFound
	}

	for _, d := range req.Weekdays {
		if !route.OperatesOn(d) {
			return nil, ErrWeekdayNotOperating
		}
	}

	subscribed, err := s.subRepo.GetSubscribedWeekdays(customerID, req.RouteID)
	if err != nil {
		return nil, fmt.Errorf("failed to load subscribed weekdays: %w", err)
	}
	subscribedSet := make(map[int]bool, len(subscribed))
	for _, d := range subscribed {
		subscribedSet[d] = true
	}
	for _, d := range req.Weekdays {
		if subscribedSet[d] {
			return nil, ErrWeekdayConflict
		}
	}

	if err := s.checkSelection(route.ID, req); err != nil {
		return nil, err
	}

	// The fee is always recomputed here; a client-supplied amount is never
	// trusted
	quote, err := s.pricing.Quote(req.RouteID, req.Weekdays)
	if err != nil {
		return nil, err
	}

	startDate, _ := time.Parse("2006-01-02", req.StartDate)

	sub := &models.Subscription{
		CustomerID:     customerID,
		RouteID:        req.RouteID,
		Weekdays:       models.IntArray(req.Weekdays),
		TimeSlotID:     req.TimeSlotID,
		PickupPointID:  req.PickupPointID,
		DropoffPointID: req.DropoffPointID,
		MonthlyFee:     quote.MonthlyFee,
		PaymentMethod:  req.PaymentMethod,
		Status:         models.SubscriptionActive,
		StartDate:      startDate,
	}

	switch req.PaymentMethod {
	case models.PaymentMethodOnline:
		if err := s.walletRepo.PurchaseWithWallet(sub); err != nil {
			if errors.Is(err, database.ErrInsufficientBalance) {
				s.audit.LogPurchaseBlocked(customerID, req.RouteID, quote.MonthlyFee, meta)
				balance := models.Paisa(0)
				if wallet, werr := s.walletRepo.GetOrCreateByCustomer(customerID); werr == nil {
					balance = wallet.Balance
				}
				return nil, &InsufficientBalanceError{Fee: quote.MonthlyFee, Balance: balance}
			}
			return nil, err
		}
	case models.PaymentMethodCash:
		if err := s.subRepo.Create(sub); err != nil {
			return nil, fmt.Errorf("failed to create subscription: %w", err)
		}
	}
	sub.MonthlyFeeDisplay = sub.MonthlyFee.Display()

	if req.IntentID != nil {
		s.confirmIntent(customerID, *req.IntentID)
	}

	s.audit.LogPurchase(customerID, sub, meta)
	s.logger.WithFields(logrus.Fields{
		"subscription_id": sub.ID,
		"route_id":        sub.RouteID,
		"payment_method":  sub.PaymentMethod,
		"monthly_fee":     sub.MonthlyFee,
	}).Info("Subscription purchased")

	return sub, nil
}

// checkSelection verifies the time slot and both points belong to the route
// and carry the right point type
func (s *PurchaseService) checkSelection(routeID string, req *models.PurchaseRequest) error {
	slot, err := s.slotRepo.GetByID(req.TimeSlotID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrSelectionMismatch
		}
		return fmt.Errorf("failed to load time slot: %w", err)
	}
	if slot.RouteID != routeID {
		return ErrSelectionMismatch
	}

	pickup, err := s.pointRepo.GetByID(req.PickupPointID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrSelectionMismatch
		}
		return fmt.Errorf("failed to load pickup point: %w", err)
	}
	if pickup.RouteID != routeID || pickup.PointType != models.PointTypePickup {
		return ErrSelectionMismatch
	}

	dropoff, err := s.pointRepo.GetByID(req.DropoffPointID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrSelectionMismatch
		}
		return fmt.Errorf("failed to load drop-off point: %w", err)
	}
	if dropoff.RouteID != routeID || dropoff.PointType != models.PointTypeDropoff {
		return ErrSelectionMismatch
	}

	return nil
}

// confirmIntent marks the wizard intent that produced this purchase as
// confirmed. Best effort: a failure here does not undo the purchase.
func (s *PurchaseService) confirmIntent(customerID, intentID string) {
	intent, err := s.intentRepo.GetByID(intentID)
	if err != nil {
		s.logger.WithError(err).WithField("intent_id", intentID).Warn("Failed to load intent for confirmation")
		return
	}
	if intent.CustomerID != customerID || intent.Status != models.IntentOpen {
		return
	}
	intent.Status = models.IntentConfirmed
	if err := s.intentRepo.Update(intent); err != nil {
		s.logger.WithError(err).WithField("intent_id", intentID).Warn("Failed to confirm intent")
	}
}
