package payments

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// HTTPGateway talks to the external payment service over its JSON API
type HTTPGateway struct {
	apiURL string
	apiKey string
	client *http.Client
}

// HTTPConfig holds configuration for the HTTP gateway
type HTTPConfig struct {
	APIURL  string
	APIKey  string
	Timeout time.Duration
}

// NewHTTPGateway creates a new HTTPGateway
func NewHTTPGateway(cfg HTTPConfig) *HTTPGateway {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &HTTPGateway{
		apiURL: cfg.APIURL,
		apiKey: cfg.APIKey,
		client: &http.Client{Timeout: timeout},
	}
}

type topUpPayload struct {
	CustomerID string `json:"customer_id"`
	Amount     int64  `json:"amount"` // paisa
	Reference  string `json:"reference"`
}

type topUpResponse struct {
	Status    string `json:"status"`
	Reference string `json:"reference"`
	Message   string `json:"message,omitempty"`
}

// InitiateTopUp submits the top-up and waits for the gateway's verdict
func (g *HTTPGateway) InitiateTopUp(req TopUpRequest) (*TopUpResult, error) {
	if req.AmountPaisa <= 0 {
		return nil, fmt.Errorf("top-up amount must be positive")
	}

	reference := req.Reference
	if reference == "" {
		reference = uuid.New().String()
	}

	body, err := json.Marshal(topUpPayload{
		CustomerID: req.CustomerID,
		Amount:     req.AmountPaisa,
		Reference:  reference,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal top-up request: %w", err)
	}

	httpReq, err := http.NewRequest(http.MethodPost, g.apiURL+"/top-ups", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build top-up request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("payment service unreachable: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read payment service response: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("payment service returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var parsed topUpResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse payment service response: %w", err)
	}

	result := &TopUpResult{
		Reference: parsed.Reference,
		Status:    parsed.Status,
		Message:   parsed.Message,
	}
	if result.Reference == "" {
		result.Reference = reference
	}

	return result, nil
}
