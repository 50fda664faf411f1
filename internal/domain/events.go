package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event types
const (
	EventTypeLoanApproved    = "loan.approved"
	EventTypeLoanActivated   = "loan.activated"
	EventTypePickupProcessed = "pickup.processed"
)

// DomainEvent represents a domain event
type DomainEvent interface {
	GetEventID() string
	GetEventType() string
	GetAggregateID() string
	GetOccurredAt() time.Time
	GetPayload() interface{}
}

// BaseEvent provides common event fields
type BaseEvent struct {
	EventID     string    `json:"event_id"`
	EventType   string    `json:"event_type"`
	AggregateID string    `json:"aggregate_id"`
	OccurredAt  time.Time `json:"occurred_at"`
}

func (e BaseEvent) GetEventID() string       { return e.EventID }
func (e BaseEvent) GetEventType() string     { return e.EventType }
func (e BaseEvent) GetAggregateID() string   { return e.AggregateID }
func (e BaseEvent) GetOccurredAt() time.Time { return e.OccurredAt }

func newBaseEvent(eventType, aggregateID string) BaseEvent {
	return BaseEvent{
		EventID:     uuid.New().String(),
		EventType:   eventType,
		AggregateID: aggregateID,
		OccurredAt:  time.Now(),
	}
}

// LoanApprovedEvent - an SMS intent telling the borrower when and where to
// collect their inputs.
type LoanApprovedEvent struct {
	BaseEvent
	Payload LoanApprovedPayload `json:"payload"`
}

func (e LoanApprovedEvent) GetPayload() interface{} { return e.Payload }

type LoanApprovedPayload struct {
	LoanID          string    `json:"loan_id"`
	Reference       string    `json:"reference"`
	BorrowerKind    string    `json:"borrower_kind"`
	BorrowerID      string    `json:"borrower_id"`
	PrincipalAmount int64     `json:"principal_amount"`
	PickupDate      time.Time `json:"pickup_date"`
	PickupLocation  string    `json:"pickup_location,omitempty"`
}

func NewLoanApprovedEvent(loanID string, payload LoanApprovedPayload) *LoanApprovedEvent {
	return &LoanApprovedEvent{
		BaseEvent: newBaseEvent(EventTypeLoanApproved, loanID),
		Payload:   payload,
	}
}

// LoanActivatedEvent - an SMS intent confirming disbursement and the
// repayment schedule.
type LoanActivatedEvent struct {
	BaseEvent
	Payload LoanActivatedPayload `json:"payload"`
}

func (e LoanActivatedEvent) GetPayload() interface{} { return e.Payload }

type LoanActivatedPayload struct {
	LoanID         string    `json:"loan_id"`
	Reference      string    `json:"reference"`
	BorrowerKind   string    `json:"borrower_kind"`
	BorrowerID     string    `json:"borrower_id"`
	TotalRepayment int64     `json:"total_repayment"`
	MonthlyPayment int64     `json:"monthly_payment"`
	DueDate        time.Time `json:"due_date"`
	DisbursedAt    time.Time `json:"disbursed_at"`
}

func NewLoanActivatedEvent(loanID string, payload LoanActivatedPayload) *LoanActivatedEvent {
	return &LoanActivatedEvent{
		BaseEvent: newBaseEvent(EventTypeLoanActivated, loanID),
		Payload:   payload,
	}
}

// PickupProcessedEvent - an SMS intent telling the farmer their produce was
// bought and for how much.
type PickupProcessedEvent struct {
	BaseEvent
	Payload PickupProcessedPayload `json:"payload"`
}

func (e PickupProcessedEvent) GetPayload() interface{} { return e.Payload }

type PickupProcessedPayload struct {
	PickupID    string    `json:"pickup_id"`
	PurchaseID  string    `json:"purchase_id"`
	FarmerID    string    `json:"farmer_id"`
	FarmerPhone string    `json:"farmer_phone"`
	WeightKg    float64   `json:"weight_kg"`
	TotalAmount int64     `json:"total_amount"`
	ProcessedAt time.Time `json:"processed_at"`
}

func NewPickupProcessedEvent(pickupID string, payload PickupProcessedPayload) *PickupProcessedEvent {
	return &PickupProcessedEvent{
		BaseEvent: newBaseEvent(EventTypePickupProcessed, pickupID),
		Payload:   payload,
	}
}

// EventPublisher interface
type EventPublisher interface {
	Publish(ctx context.Context, event DomainEvent) error
}

// EventSubscriber interface
type EventSubscriber interface {
	Subscribe(ctx context.Context, eventType string, handler EventHandler) error
}

// EventHandler processes events
type EventHandler func(ctx context.Context, event DomainEvent) error
