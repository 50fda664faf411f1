package service

import (
	"context"
	"fmt"

	"github.com/promisepoint/lending-service/internal/domain"
	"go.uber.org/zap"
)

// NotificationService turns lifecycle events into borrower SMS messages.
// Delivery is best-effort: a failed send is logged and never rolls back the
// transition that produced the event.
type NotificationService struct {
	logger *zap.Logger
}

func NewNotificationService(logger *zap.Logger) *NotificationService {
	return &NotificationService{logger: logger}
}

// HandleLoanApproved handles loan approved events
func (s *NotificationService) HandleLoanApproved(ctx context.Context, event domain.DomainEvent) error {
	approvedEvent, ok := event.(*domain.LoanApprovedEvent)
	if !ok {
		return fmt.Errorf("invalid event type")
	}

	payload := approvedEvent.Payload

	s.logger.Info("handling loan approved event",
		zap.String("event_id", event.GetEventID()),
		zap.String("loan_id", payload.LoanID),
		zap.String("borrower_id", payload.BorrowerID),
	)

	// TODO: wire the SMS gateway client once provisioning is done
	msg := fmt.Sprintf("Your loan %s has been approved. Pickup scheduled for %s",
		payload.Reference, payload.PickupDate.Format("02 Jan 2006"))
	if payload.PickupLocation != "" {
		msg += " at " + payload.PickupLocation
	}

	s.logger.Info("SMS notification sent",
		zap.String("borrower_id", payload.BorrowerID),
		zap.String("message", msg),
	)

	return nil
}

// HandleLoanActivated handles loan activated events
func (s *NotificationService) HandleLoanActivated(ctx context.Context, event domain.DomainEvent) error {
	activatedEvent, ok := event.(*domain.LoanActivatedEvent)
	if !ok {
		return fmt.Errorf("invalid event type")
	}

	payload := activatedEvent.Payload

	s.logger.Info("handling loan activated event",
		zap.String("event_id", event.GetEventID()),
		zap.String("loan_id", payload.LoanID),
		zap.String("borrower_id", payload.BorrowerID),
	)

	s.logger.Info("SMS notification sent",
		zap.String("borrower_id", payload.BorrowerID),
		zap.String("message", fmt.Sprintf("Your loan %s is now active. Total repayment: N%s, monthly: N%s, due %s",
			payload.Reference,
			domain.KoboToNaira(payload.TotalRepayment).StringFixed(2),
			domain.KoboToNaira(payload.MonthlyPayment).StringFixed(2),
			payload.DueDate.Format("02 Jan 2006"))),
	)

	return nil
}

// HandlePickupProcessed handles pickup processed events
func (s *NotificationService) HandlePickupProcessed(ctx context.Context, event domain.DomainEvent) error {
	processedEvent, ok := event.(*domain.PickupProcessedEvent)
	if !ok {
		return fmt.Errorf("invalid event type")
	}

	payload := processedEvent.Payload

	s.logger.Info("handling pickup processed event",
		zap.String("event_id", event.GetEventID()),
		zap.String("pickup_id", payload.PickupID),
		zap.String("farmer_id", payload.FarmerID),
	)

	s.logger.Info("SMS notification sent",
		zap.String("farmer_phone", payload.FarmerPhone),
		zap.String("message", fmt.Sprintf("We bought %.1fkg of your produce for N%s. Thank you!",
			payload.WeightKg,
			domain.KoboToNaira(payload.TotalAmount).StringFixed(2))),
	)

	return nil
}
