package models

import (
	"errors"
	"time"
)

// IntentStep enumerates the stages of the subscription purchase wizard.
// The flow is linear: each step has a validation gate that must pass before
// the intent may advance, and the customer may step back freely.
type IntentStep string

const (
	StepRoute    IntentStep = "route"    // choose a route
	StepSchedule IntentStep = "schedule" // choose weekdays and a time slot
	StepPoints   IntentStep = "points"   // choose pickup and drop-off points
	StepQuote    IntentStep = "quote"    // review the computed monthly fee
	StepConfirm  IntentStep = "confirm"  // choose payment method and purchase
)

// stepOrder defines the forward sequence of the wizard
var stepOrder = []IntentStep{StepRoute, StepSchedule, StepPoints, StepQuote, StepConfirm}

// IntentStatus represents the status of a purchase intent
type IntentStatus string

const (
	IntentOpen      IntentStatus = "open"
	IntentConfirmed IntentStatus = "confirmed" // purchase completed from this intent
	IntentExpired   IntentStatus = "expired"   // TTL elapsed before confirmation
	IntentAbandoned IntentStatus = "abandoned" // customer discarded the wizard
)

var (
	// ErrIntentNotOpen is returned when a transition is attempted on a
	// confirmed, expired or abandoned intent.
	ErrIntentNotOpen = errors.New("purchase intent is no longer open")

	// ErrIntentStepIncomplete is returned when the current step's required
	// selections are missing.
	ErrIntentStepIncomplete = errors.New("current step is incomplete")
)

// PurchaseIntent is the server-side state of one customer's pass through the
// subscription purchase wizard. Selections accumulate as the intent advances;
// stepping back keeps earlier selections so the customer can revise them.
type PurchaseIntent struct {
	ID             string       `json:"id" db:"id"`
	CustomerID     string       `json:"customer_id" db:"customer_id"`
	Step           IntentStep   `json:"step" db:"step"`
	RouteID        *string      `json:"route_id,omitempty" db:"route_id"`
	Weekdays       IntArray     `json:"weekdays,omitempty" db:"weekdays"`
	TimeSlotID     *string      `json:"time_slot_id,omitempty" db:"time_slot_id"`
	PickupPointID  *string      `json:"pickup_point_id,omitempty" db:"pickup_point_id"`
	DropoffPointID *string      `json:"dropoff_point_id,omitempty" db:"dropoff_point_id"`
	QuotedFee      *Paisa       `json:"quoted_fee,omitempty" db:"quoted_fee"`
	Status         IntentStatus `json:"status" db:"status"`
	ExpiresAt      time.Time    `json:"expires_at" db:"expires_at"`
	CreatedAt      time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at" db:"updated_at"`
}

// IntentAdvanceRequest carries the selections for the intent's current step
type IntentAdvanceRequest struct {
	RouteID        *string `json:"route_id,omitempty"`
	Weekdays       []int   `json:"weekdays,omitempty"`
	TimeSlotID     *string `json:"time_slot_id,omitempty"`
	PickupPointID  *string `json:"pickup_point_id,omitempty"`
	DropoffPointID *string `json:"dropoff_point_id,omitempty"`
}

// Apply records the request's selections onto the intent without advancing
func (i *PurchaseIntent) Apply(req *IntentAdvanceRequest) error {
	if i.Status != IntentOpen {
		return ErrIntentNotOpen
	}
	if req.RouteID != nil {
		// Changing the route invalidates every later selection
		if i.RouteID == nil || *i.RouteID != *req.RouteID {
			i.Weekdays = nil
			i.TimeSlotID = nil
			i.PickupPointID = nil
			i.DropoffPointID = nil
			i.QuotedFee = nil
		}
		i.RouteID = req.RouteID
	}
	if req.Weekdays != nil {
		if err := ValidateWeekdays(req.Weekdays); err != nil {
			return err
		}
		i.Weekdays = IntArray(req.Weekdays)
		i.QuotedFee = nil // stale quote
	}
	if req.TimeSlotID != nil {
		i.TimeSlotID = req.TimeSlotID
	}
	if req.PickupPointID != nil {
		i.PickupPointID = req.PickupPointID
	}
	if req.DropoffPointID != nil {
		i.DropoffPointID = req.DropoffPointID
	}
	return nil
}

// Advance moves the intent to the next step if the current step's gate
// passes. Advancing past the confirm step is not possible; the purchase
// endpoint consumes the intent instead.
func (i *PurchaseIntent) Advance() error {
	if i.Status != IntentOpen {
		return ErrIntentNotOpen
	}
	if err := i.stepGate(); err != nil {
		return err
	}
	idx := i.stepIndex()
	if idx < 0 || idx == len(stepOrder)-1 {
		return errors.New("already at the final step")
	}
	i.Step = stepOrder[idx+1]
	i.UpdatedAt = time.Now()
	return nil
}

// Back moves the intent one step backwards, keeping selections
func (i *PurchaseIntent) Back() error {
	if i.Status != IntentOpen {
		return ErrIntentNotOpen
	}
	idx := i.stepIndex()
	if idx <= 0 {
		return errors.New("already at the first step")
	}
	i.Step = stepOrder[idx-1]
	i.UpdatedAt = time.Now()
	return nil
}

// stepGate validates that the current step's required selections are present
func (i *PurchaseIntent) stepGate() error {
	switch i.Step {
	case StepRoute:
		if i.RouteID == nil {
			return ErrIntentStepIncomplete
		}
	case StepSchedule:
		if len(i.Weekdays) == 0 || i.TimeSlotID == nil {
			return ErrIntentStepIncomplete
		}
	case StepPoints:
		if i.PickupPointID == nil || i.DropoffPointID == nil {
			return ErrIntentStepIncomplete
		}
	case StepQuote:
		if i.QuotedFee == nil {
			return ErrIntentStepIncomplete
		}
	}
	return nil
}

func (i *PurchaseIntent) stepIndex() int {
	for idx, s := range stepOrder {
		if s == i.Step {
			return idx
		}
	}
	return -1
}

// IsExpired reports whether the intent's TTL has elapsed
func (i *PurchaseIntent) IsExpired(now time.Time) bool {
	return i.Status == IntentOpen && now.After(i.ExpiresAt)
}
