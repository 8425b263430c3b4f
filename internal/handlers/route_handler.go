package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ramadandelights-sys/OfficeXpress-v2-sub001/internal/cache"
	"github.com/ramadandelights-sys/OfficeXpress-v2-sub001/internal/database"
	"github.com/ramadandelights-sys/OfficeXpress-v2-sub001/internal/middleware"
	"github.com/ramadandelights-sys/OfficeXpress-v2-sub001/internal/models"
	"github.com/ramadandelights-sys/OfficeXpress-v2-sub001/internal/services"
)

// RouteHandler serves the route/weekday catalog
type RouteHandler struct {
	routeRepo    *database.RouteRepository
	pointRepo    *database.PickupPointRepository
	slotRepo     *database.TimeSlotRepository
	blackoutRepo *database.BlackoutRepository
	eligibility  *services.EligibilityService
	catalogCache *cache.Cache
	logger       *logrus.Logger
}

// NewRouteHandler creates a new RouteHandler
func NewRouteHandler(
	routeRepo *database.RouteRepository,
	pointRepo *database.PickupPointRepository,
	slotRepo *database.TimeSlotRepository,
	blackoutRepo *database.BlackoutRepository,
	eligibility *services.EligibilityService,
	catalogCache *cache.Cache,
	logger *logrus.Logger,
) *RouteHandler {
	return &RouteHandler{
		routeRepo:    routeRepo,
		pointRepo:    pointRepo,
		slotRepo:     slotRepo,
		blackoutRepo: blackoutRepo,
		eligibility:  eligibility,
		catalogCache: catalogCache,
		logger:       logger,
	}
}

const routeListCacheKey = "catalog:routes:active"

// ListRoutes returns all active routes, served from the catalog cache when
// possible
func (h *RouteHandler) ListRoutes(c *gin.Context) {
	var routes []models.Route
	hit, err := h.catalogCache.GetJSON(c.Request.Context(), routeListCacheKey, &routes)
	if err != nil {
		h.logger.WithError(err).Warn("Route cache read failed, falling back to database")
	}

	if !hit {
		routes, err = h.routeRepo.GetAllActive()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load routes"})
			return
		}
		if err := h.catalogCache.SetJSON(c.Request.Context(), routeListCacheKey, routes); err != nil {
			h.logger.WithError(err).Warn("Route cache write failed")
		}
	}

	c.JSON(http.StatusOK, gin.H{"routes": routes, "total": len(routes)})
}

// GetRoute returns a single route
func (h *RouteHandler) GetRoute(c *gin.Context) {
	route, err := h.routeRepo.GetByID(c.Param("id"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load route"})
		return
	}

	c.JSON(http.StatusOK, route)
}

// GetPickupPoints returns a route's visible points, optionally filtered by
// the type query parameter (pickup or dropoff)
func (h *RouteHandler) GetPickupPoints(c *gin.Context) {
	var pointType *models.PointType
	if raw := c.Query("type"); raw != "" {
		pt := models.PointType(raw)
		if pt != models.PointTypePickup && pt != models.PointTypeDropoff {
			c.JSON(http.StatusBadRequest, gin.H{"error": "type must be 'pickup' or 'dropoff'"})
			return
		}
		pointType = &pt
	}

	points, err := h.pointRepo.GetByRoute(c.Param("id"), pointType)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load pickup points"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"points": points, "total": len(points)})
}

// GetTimeSlots returns a route's departure time slots
func (h *RouteHandler) GetTimeSlots(c *gin.Context) {
	slots, err := h.slotRepo.GetByRoute(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load time slots"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"time_slots": slots, "total": len(slots)})
}

// GetBlackoutDates returns a route's blackout dates in a date range,
// defaulting to the next 90 days
func (h *RouteHandler) GetBlackoutDates(c *gin.Context) {
	from := time.Now()
	to := from.AddDate(0, 0, 90)

	if raw := c.Query("from"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "from must be in YYYY-MM-DD format"})
			return
		}
		from = parsed
	}
	if raw := c.Query("to"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "to must be in YYYY-MM-DD format"})
			return
		}
		to = parsed
	}

	dates, err := h.blackoutRepo.GetDatesInRange(c.Param("id"), from, to)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load blackout dates"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"blackout_dates": dates, "total": len(dates)})
}

// GetWeekdayAvailability returns the seven-entry eligibility result for the
// requesting customer on this route
func (h *RouteHandler) GetWeekdayAvailability(c *gin.Context) {
	customerCtx, exists := middleware.GetCustomerContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	availability, err := h.eligibility.WeekdayAvailability(customerCtx.CustomerID.String(), c.Param("id"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute weekday availability"})
		return
	}

	c.JSON(http.StatusOK, availability)
}
