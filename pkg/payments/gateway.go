// Package payments wraps the external payment service used to fund
// customer wallets. Top-ups are the only outbound operation this system
// performs; purchase debits happen against the local wallet ledger.
package payments

import (
	"fmt"

	"github.com/google/uuid"
)

// TopUpRequest represents a wallet funding request sent to the gateway
type TopUpRequest struct {
	CustomerID  string
	AmountPaisa int64
	Reference   string // idempotency reference; generated when empty
}

// TopUpResult is the gateway's answer to a top-up request
type TopUpResult struct {
	Reference string
	Status    string // "credited" or "failed"
	Message   string
}

// Gateway initiates wallet top-ups with the external payment service
type Gateway interface {
	InitiateTopUp(req TopUpRequest) (*TopUpResult, error)
}

// MockGateway credits instantly without contacting any service. Used in
// development mode so the funding flow can be exercised end to end.
type MockGateway struct{}

// NewMockGateway creates a new MockGateway
func NewMockGateway() *MockGateway {
	return &MockGateway{}
}

// InitiateTopUp approves every request immediately
func (g *MockGateway) InitiateTopUp(req TopUpRequest) (*TopUpResult, error) {
	if req.AmountPaisa <= 0 {
		return nil, fmt.Errorf("top-up amount must be positive")
	}

	reference := req.Reference
	if reference == "" {
		reference = "mock-" + uuid.New().String()
	}

	return &TopUpResult{
		Reference: reference,
		Status:    "credited",
		Message:   "instant credit (development mode)",
	}, nil
}
