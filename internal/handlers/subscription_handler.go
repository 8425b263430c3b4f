package handlers

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ramadandelights-sys/OfficeXpress-v2-sub001/internal/database"
	"github.com/ramadandelights-sys/OfficeXpress-v2-sub001/internal/middleware"
	"github.com/ramadandelights-sys/OfficeXpress-v2-sub001/internal/models"
	"github.com/ramadandelights-sys/OfficeXpress-v2-sub001/internal/services"
)

// SubscriptionHandler serves quotes, purchases, listing and cancellation
type SubscriptionHandler struct {
	subRepo   *database.SubscriptionRepository
	pricing   *services.PricingService
	purchase  *services.PurchaseService
	lifecycle *services.LifecycleService
	logger    *logrus.Logger
}

// NewSubscriptionHandler creates a new SubscriptionHandler
func NewSubscriptionHandler(
	subRepo *database.SubscriptionRepository,
	pricing *services.PricingService,
	purchase *services.PurchaseService,
	lifecycle *services.LifecycleService,
	logger *logrus.Logger,
) *SubscriptionHandler {
	return &SubscriptionHandler{
		subRepo:   subRepo,
		pricing:   pricing,
		purchase:  purchase,
		lifecycle: lifecycle,
		logger:    logger,
	}
}

// Quote computes the monthly fee for a (route, weekday-set) pair
func (h *SubscriptionHandler) Quote(c *gin.Context) {
	var req models.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	quote, err := h.pricing.Quote(req.RouteID, req.Weekdays)
	if err != nil {
		if errors.Is(err, services.ErrCostUnavailable) {
			// Never coerce unavailable pricing data to a zero fee
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error":   "cost_unavailable",
				"message": "The monthly cost could not be computed right now. Please try again.",
			})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, quote)
}

// Purchase creates a subscription, applying the wallet funding gate for
// online payments
func (h *SubscriptionHandler) Purchase(c *gin.Context) {
	customerCtx, exists := middleware.GetCustomerContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req models.PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	meta := services.ClientMeta{
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}

	sub, err := h.purchase.Purchase(customerCtx.CustomerID.String(), &req, meta)
	if err != nil {
		var insufficient *services.InsufficientBalanceError
		switch {
		case errors.As(err, &insufficient):
			// Expected branch, not a failure: the customer is sent into
			// the top-up flow
			c.JSON(http.StatusPaymentRequired, gin.H{
				"error":            "insufficient_balance",
				"message":          "Wallet balance is not enough for this subscription. Top up and try again.",
				"required":         insufficient.Fee,
				"required_display": insufficient.Fee.Display(),
				"balance":          insufficient.Balance,
				"balance_display":  insufficient.Balance.Display(),
				"shortfall":        insufficient.Shortfall(),
				"top_up_path":      "/api/v1/wallet/top-up",
			})
		case errors.Is(err, services.ErrRouteNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
		case errors.Is(err, services.ErrWeekdayConflict):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrWeekdayNotOperating),
			errors.Is(err, services.ErrSelectionMismatch):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrCostUnavailable):
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error":   "cost_unavailable",
				"message": "The monthly cost could not be computed right now. Please try again.",
			})
		default:
			h.logger.WithError(err).Error("Purchase failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Purchase failed"})
		}
		return
	}

	c.JSON(http.StatusCreated, sub)
}

// ListSubscriptions returns the customer's subscriptions, newest first
func (h *SubscriptionHandler) ListSubscriptions(c *gin.Context) {
	customerCtx, exists := middleware.GetCustomerContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	subs, err := h.subRepo.GetByCustomer(customerCtx.CustomerID.String())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load subscriptions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"subscriptions": subs, "total": len(subs)})
}

// Cancel applies the customer-initiated cancellation. Re-cancelling an
// already pending subscription succeeds without changing anything.
func (h *SubscriptionHandler) Cancel(c *gin.Context) {
	customerCtx, exists := middleware.GetCustomerContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	meta := services.ClientMeta{
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}

	sub, changed, err := h.lifecycle.Cancel(customerCtx.CustomerID.String(), c.Param("id"), meta)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows), errors.Is(err, services.ErrNotSubscriptionOwner):
			c.JSON(http.StatusNotFound, gin.H{"error": "Subscription not found"})
		case errors.Is(err, models.ErrSubscriptionTerminal):
			c.JSON(http.StatusConflict, gin.H{"error": "Subscription is already cancelled or expired"})
		default:
			h.logger.WithError(err).Error("Cancellation failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Cancellation failed"})
		}
		return
	}

	message := "Cancellation requested. The subscription remains usable until its end date."
	if !changed {
		message = "Cancellation was already requested for this subscription."
	}

	c.JSON(http.StatusOK, gin.H{"subscription": sub, "changed": changed, "message": message})
}
