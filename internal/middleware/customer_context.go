package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CustomerContextKey is the key used to store customer information in the
// Gin context
const CustomerContextKey = "customer"

// CustomerIDHeader carries the authenticated customer's ID. Authentication
// itself happens at the upstream gateway; this service trusts the header
// the gateway injects after verifying the session.
const CustomerIDHeader = "X-Customer-ID"

// CustomerContext represents the requesting customer's identity
type CustomerContext struct {
	CustomerID uuid.UUID `json:"customer_id"`
}

// CustomerMiddleware requires a well-formed customer identity header and
// stores it in the request context
func CustomerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(CustomerIDHeader)
		if raw == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "Customer identity header is required",
				"code":    "MISSING_CUSTOMER_ID",
			})
			c.Abort()
			return
		}

		customerID, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "Customer identity header must be a UUID",
				"code":    "INVALID_CUSTOMER_ID",
			})
			c.Abort()
			return
		}

		c.Set(CustomerContextKey, CustomerContext{CustomerID: customerID})
		c.Next()
	}
}

// GetCustomerContext retrieves the customer context from the Gin context
func GetCustomerContext(c *gin.Context) (CustomerContext, bool) {
	value, exists := c.Get(CustomerContextKey)
	if !exists {
		return CustomerContext{}, false
	}

	customerCtx, ok := value.(CustomerContext)
	return customerCtx, ok
}
