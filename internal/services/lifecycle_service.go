package services

import (
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ramadandelights-sys/OfficeXpress-v2-sub001/internal/database"
	"github.com/ramadandelights-sys/OfficeXpress-v2-sub001/internal/models"
)

// ErrNotSubscriptionOwner is returned when a customer addresses a
// subscription belonging to someone else
var ErrNotSubscriptionOwner = errors.New("subscription does not belong to this customer")

// LifecycleService applies subscription state transitions: the
// customer-initiated cancellation request and the date-driven sweeps into
// the terminal states.
type LifecycleService struct {
	subRepo *database.SubscriptionRepository
	audit   *AuditService
	logger  *logrus.Logger

	now func() time.Time
}

// NewLifecycleService creates a new LifecycleService
func NewLifecycleService(subRepo *database.SubscriptionRepository, audit *AuditService, logger *logrus.Logger) *LifecycleService {
	return &LifecycleService{
		subRepo: subRepo,
		audit:   audit,
		logger:  logger,
		now:     time.Now,
	}
}

// Cancel applies the customer-initiated cancellation. The subscription
// remains usable until the end of the current billing month; repeating the
// request on an already pending subscription changes nothing and succeeds.
// The returned bool reports whether this call performed the transition.
func (s *LifecycleService) Cancel(customerID, subscriptionID string, meta ClientMeta) (*models.Subscription, bool, error) {
	sub, err := s.subRepo.GetByID(subscriptionID)
	if err != nil {
		return nil, false, err
	}
	if sub.CustomerID != customerID {
		return nil, false, ErrNotSubscriptionOwner
	}

	changed, err := sub.RequestCancellation(endOfMonth(s.now()))
	if err != nil {
		return nil, false, err
	}

	if changed {
		if err := s.subRepo.UpdateCancellation(sub); err != nil {
			return nil, false, err
		}
		s.audit.LogCancellation(customerID, sub.ID, meta)
		s.logger.WithFields(logrus.Fields{
			"subscription_id": sub.ID,
			"end_date":        sub.EndDate,
		}).Info("Subscription cancellation requested")
	}

	return sub, changed, nil
}

// Sweep applies the date-driven terminal transitions: pending cancellations
// whose end date has passed become cancelled, active subscriptions past
// their end date become expired
func (s *LifecycleService) Sweep() {
	now := s.now()

	cancelled, err := s.subRepo.SweepCancelDue(now)
	if err != nil {
		s.logger.WithError(err).Error("Cancellation sweep failed")
	}

	expired, err := s.subRepo.SweepExpireDue(now)
	if err != nil {
		s.logger.WithError(err).Error("Expiry sweep failed")
	}

	if cancelled > 0 || expired > 0 {
		s.logger.WithFields(logrus.Fields{
			"cancelled": cancelled,
			"expired":   expired,
		}).Info("Subscription lifecycle sweep completed")
	}
}

// endOfMonth returns the last day of ref's month at midnight
func endOfMonth(ref time.Time) time.Time {
	firstOfMonth := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
	return firstOfMonth.AddDate(0, 1, -1)
}
