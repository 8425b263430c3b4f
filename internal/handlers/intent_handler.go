package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ramadandelights-sys/OfficeXpress-v2-sub001/internal/middleware"
	"github.com/ramadandelights-sys/OfficeXpress-v2-sub001/internal/models"
	"github.com/ramadandelights-sys/OfficeXpress-v2-sub001/internal/services"
)

// IntentHandler serves the subscription purchase wizard endpoints
type IntentHandler struct {
	intents *services.IntentService
	logger  *logrus.Logger
}

// NewIntentHandler creates a new IntentHandler
func NewIntentHandler(intents *services.IntentService, logger *logrus.Logger) *IntentHandler {
	return &IntentHandler{intents: intents, logger: logger}
}

// Start opens a new wizard intent
func (h *IntentHandler) Start(c *gin.Context) {
	customerCtx, exists := middleware.GetCustomerContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	intent, err := h.intents.Start(customerCtx.CustomerID.String())
	if err != nil {
		h.logger.WithError(err).Error("Failed to start purchase intent")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start purchase"})
		return
	}

	c.JSON(http.StatusCreated, intent)
}

// Get returns the current wizard state
func (h *IntentHandler) Get(c *gin.Context) {
	customerCtx, exists := middleware.GetCustomerContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	intent, err := h.intents.Get(customerCtx.CustomerID.String(), c.Param("id"))
	if err != nil {
		h.respondIntentError(c, err)
		return
	}

	c.JSON(http.StatusOK, intent)
}

// Advance records selections and moves the wizard forward one step
func (h *IntentHandler) Advance(c *gin.Context) {
	customerCtx, exists := middleware.GetCustomerContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req models.IntentAdvanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	intent, err := h.intents.Advance(customerCtx.CustomerID.String(), c.Param("id"), &req)
	if err != nil {
		h.respondIntentError(c, err)
		return
	}

	c.JSON(http.StatusOK, intent)
}

// Back moves the wizard one step backwards, keeping selections
func (h *IntentHandler) Back(c *gin.Context) {
	customerCtx, exists := middleware.GetCustomerContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	intent, err := h.intents.Back(customerCtx.CustomerID.String(), c.Param("id"))
	if err != nil {
		h.respondIntentError(c, err)
		return
	}

	c.JSON(http.StatusOK, intent)
}

// Abandon discards an open intent
func (h *IntentHandler) Abandon(c *gin.Context) {
	customerCtx, exists := middleware.GetCustomerContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.intents.Abandon(customerCtx.CustomerID.String(), c.Param("id")); err != nil {
		h.respondIntentError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Purchase abandoned"})
}

// respondIntentError maps wizard errors onto HTTP statuses
func (h *IntentHandler) respondIntentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrIntentNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Purchase intent not found"})
	case errors.Is(err, services.ErrIntentExpired):
		c.JSON(http.StatusGone, gin.H{"error": "This purchase has expired. Please start again."})
	case errors.Is(err, models.ErrIntentNotOpen):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrRouteNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
	case errors.Is(err, services.ErrWeekdayConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrIntentStepIncomplete),
		errors.Is(err, services.ErrWeekdayNotOperating),
		errors.Is(err, services.ErrSelectionMismatch):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrCostUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "cost_unavailable",
			"message": "The monthly cost could not be computed right now. Please try again.",
		})
	default:
		h.logger.WithError(err).Error("Purchase intent operation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Purchase operation failed"})
	}
}
