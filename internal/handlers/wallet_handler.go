package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ramadandelights-sys/OfficeXpress-v2-sub001/internal/database"
	"github.com/ramadandelights-sys/OfficeXpress-v2-sub001/internal/middleware"
	"github.com/ramadandelights-sys/OfficeXpress-v2-sub001/internal/models"
	"github.com/ramadandelights-sys/OfficeXpress-v2-sub001/internal/services"
	"github.com/ramadandelights-sys/OfficeXpress-v2-sub001/pkg/payments"
)

// WalletHandler serves wallet balance, top-up and transaction history
type WalletHandler struct {
	walletRepo *database.WalletRepository
	gateway    payments.Gateway
	audit      *services.AuditService
	logger     *logrus.Logger
}

// NewWalletHandler creates a new WalletHandler
func NewWalletHandler(
	walletRepo *database.WalletRepository,
	gateway payments.Gateway,
	audit *services.AuditService,
	logger *logrus.Logger,
) *WalletHandler {
	return &WalletHandler{
		walletRepo: walletRepo,
		gateway:    gateway,
		audit:      audit,
		logger:     logger,
	}
}

// GetWallet returns the customer's wallet, creating an empty one on first use
func (h *WalletHandler) GetWallet(c *gin.Context) {
	customerCtx, exists := middleware.GetCustomerContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	wallet, err := h.walletRepo.GetOrCreateByCustomer(customerCtx.CustomerID.String())
	if err != nil {
		h.logger.WithError(err).Error("Failed to load wallet")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load wallet"})
		return
	}

	c.JSON(http.StatusOK, wallet)
}

// TopUp charges the payment gateway and credits the wallet on success
func (h *WalletHandler) TopUp(c *gin.Context) {
	customerCtx, exists := middleware.GetCustomerContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req models.TopUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.gateway.InitiateTopUp(payments.TopUpRequest{
		CustomerID:  customerCtx.CustomerID.String(),
		AmountPaisa: int64(req.Amount),
	})
	if err != nil {
		h.logger.WithError(err).Error("Payment gateway top-up failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "Payment service is unavailable. Please try again."})
		return
	}
	if result.Status != "credited" {
		c.JSON(http.StatusBadGateway, gin.H{
			"error":     "Payment was not completed",
			"status":    result.Status,
			"reference": result.Reference,
		})
		return
	}

	wallet, err := h.walletRepo.Credit(customerCtx.CustomerID.String(), req.Amount, result.Reference)
	if err != nil {
		// The gateway charge succeeded but the credit did not land. Surface
		// the reference so support can reconcile.
		h.logger.WithError(err).WithField("reference", result.Reference).
			Error("Failed to credit wallet after successful payment")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Top-up could not be recorded. Contact support with the reference.",
			"reference": result.Reference,
		})
		return
	}

	h.audit.LogTopUp(customerCtx.CustomerID.String(), wallet.ID, req.Amount, result.Reference, services.ClientMeta{
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	})

	c.JSON(http.StatusOK, gin.H{"wallet": wallet, "reference": result.Reference})
}

// GetTransactions returns the wallet's movements, newest first
func (h *WalletHandler) GetTransactions(c *gin.Context) {
	customerCtx, exists := middleware.GetCustomerContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	limit := 50
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 200 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 200"})
			return
		}
		limit = parsed
	}

	wallet, err := h.walletRepo.GetOrCreateByCustomer(customerCtx.CustomerID.String())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load wallet"})
		return
	}

	txs, err := h.walletRepo.GetTransactions(wallet.ID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load transactions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"wallet_id": wallet.ID, "transactions": txs, "total": len(txs)})
}
