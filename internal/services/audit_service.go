package services

import (
	"github.com/sirupsen/logrus"

	"github.com/ramadandelights-sys/OfficeXpress-v2-sub001/internal/database"
	"github.com/ramadandelights-sys/OfficeXpress-v2-sub001/internal/models"
	"github.com/ramadandelights-sys/OfficeXpress-v2-sub001/internal/utils"
)

// AuditService records purchase and wallet events for back-office review.
// Audit writes are best effort: a failed insert is logged but never fails
// the customer's request.
type AuditService struct {
	repo   *database.AuditRepository
	logger *logrus.Logger
}

// NewAuditService creates a new AuditService
func NewAuditService(repo *database.AuditRepository, logger *logrus.Logger) *AuditService {
	return &AuditService{repo: repo, logger: logger}
}

// LogPurchase records a completed subscription purchase
func (s *AuditService) LogPurchase(customerID string, sub *models.Subscription, meta ClientMeta) {
	s.insert(database.AuditRecord{
		CustomerID: &customerID,
		Action:     "purchase",
		EntityType: "subscription",
		EntityID:   &sub.ID,
		IPAddress:  meta.IPAddress,
		UserAgent:  meta.UserAgent,
		Details: map[string]interface{}{
			"route_id":       sub.RouteID,
			"weekdays":       sub.Weekdays,
			"monthly_fee":    sub.MonthlyFee,
			"payment_method": sub.PaymentMethod,
			"device_info":    utils.ParseUserAgent(meta.UserAgent),
		},
	})
}

// LogPurchaseBlocked records a purchase stopped by the wallet funding gate
func (s *AuditService) LogPurchaseBlocked(customerID, routeID string, fee models.Paisa, meta ClientMeta) {
	s.insert(database.AuditRecord{
		CustomerID: &customerID,
		Action:     "purchase_blocked",
		EntityType: "subscription",
		IPAddress:  meta.IPAddress,
		UserAgent:  meta.UserAgent,
		Details: map[string]interface{}{
			"route_id":    routeID,
			"monthly_fee": fee,
			"reason":      "insufficient_balance",
			"device_info": utils.ParseUserAgent(meta.UserAgent),
		},
	})
}

// LogCancellation records a customer-initiated cancellation request
func (s *AuditService) LogCancellation(customerID, subscriptionID string, meta ClientMeta) {
	s.insert(database.AuditRecord{
		CustomerID: &customerID,
		Action:     "cancel",
		EntityType: "subscription",
		EntityID:   &subscriptionID,
		IPAddress:  meta.IPAddress,
		UserAgent:  meta.UserAgent,
		Details: map[string]interface{}{
			"device_info": utils.ParseUserAgent(meta.UserAgent),
		},
	})
}

// LogTopUp records a wallet top-up
func (s *AuditService) LogTopUp(customerID, walletID string, amount models.Paisa, reference string, meta ClientMeta) {
	s.insert(database.AuditRecord{
		CustomerID: &customerID,
		Action:     "top_up",
		EntityType: "wallet",
		EntityID:   &walletID,
		IPAddress:  meta.IPAddress,
		UserAgent:  meta.UserAgent,
		Details: map[string]interface{}{
			"amount":      amount,
			"reference":   reference,
			"device_info": utils.ParseUserAgent(meta.UserAgent),
		},
	})
}

func (s *AuditService) insert(record database.AuditRecord) {
	if err := s.repo.Insert(record); err != nil {
		s.logger.WithError(err).WithField("action", record.Action).Error("Failed to write audit record")
	}
}
