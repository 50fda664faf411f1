package domain

import (
	"fmt"
	"time"
)

type PickupStatus string

const (
	PickupStatusRequested    PickupStatus = "requested"
	PickupStatusApproved     PickupStatus = "approved"
	PickupStatusStaffUpdated PickupStatus = "staff_updated"
	PickupStatusProcessed    PickupStatus = "processed"
	PickupStatusCancelled    PickupStatus = "cancelled"
)

type PickupChannel string

const (
	ChannelUSSD  PickupChannel = "ussd"
	ChannelAdmin PickupChannel = "admin"
)

// PickupRequest schedules collection of a farmer's produce and, once
// processed, owns a one-way reference to the Purchase it produced. After
// processing the request is immutable.
type PickupRequest struct {
	ID          string
	Reference   string
	FarmerID    string
	FarmerName  string
	FarmerPhone string
	Channel     PickupChannel

	Status PickupStatus

	ScheduledDate   *time.Time
	AssignedStaffID string
	ApprovedNotes   string
	StaffNotes      string

	// Staff field proposal, optional until a staff member records one.
	ProposedWeightKg   float64
	ProposedPricePerKg int64 // kobo
	HasProposal        bool

	LinkedPurchaseID string
	ProcessedAt      *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time

	Version int64 // optimistic locking
}

func NewPickupRequest(farmerID, farmerName, farmerPhone string, channel PickupChannel, now time.Time) (*PickupRequest, error) {
	if farmerID == "" {
		return nil, fmt.Errorf("%w: farmer_id is required", ErrValidation)
	}
	if farmerName == "" {
		return nil, fmt.Errorf("%w: farmer_name is required", ErrValidation)
	}
	if farmerPhone == "" {
		return nil, fmt.Errorf("%w: farmer_phone is required", ErrValidation)
	}
	if channel != ChannelUSSD && channel != ChannelAdmin {
		return nil, fmt.Errorf("%w: channel must be ussd or admin", ErrValidation)
	}

	return &PickupRequest{
		FarmerID:    farmerID,
		FarmerName:  farmerName,
		FarmerPhone: farmerPhone,
		Channel:     channel,
		Status:      PickupStatusRequested,
		CreatedAt:   now,
		Version:     1,
	}, nil
}

func (p *PickupRequest) terminal() bool {
	return p.Status == PickupStatusProcessed || p.Status == PickupStatusCancelled
}

// Approve schedules the pickup. Permitted from any non-terminal state.
func (p *PickupRequest) Approve(scheduledDate *time.Time, approvedNotes, assignedStaffID string, now time.Time) error {
	if p.terminal() {
		return fmt.Errorf("%w: cannot approve pickup in status %s", ErrInvalidStateTransition, p.Status)
	}

	p.Status = PickupStatusApproved
	if scheduledDate != nil {
		p.ScheduledDate = scheduledDate
	}
	p.ApprovedNotes = approvedNotes
	if assignedStaffID != "" {
		p.AssignedStaffID = assignedStaffID
	}
	p.UpdatedAt = now
	return nil
}

// RecordStaffProposal lets the assigned staff member enter the weighed
// produce and offered price ahead of processing: approved -> staff_updated.
func (p *PickupRequest) RecordStaffProposal(weightKg float64, pricePerKgKobo int64, staffNotes string, now time.Time) error {
	if p.Status != PickupStatusApproved {
		return fmt.Errorf("%w: cannot record staff proposal for pickup in status %s", ErrInvalidStateTransition, p.Status)
	}
	if weightKg <= 0 {
		return fmt.Errorf("%w: weight must be positive", ErrValidation)
	}
	if pricePerKgKobo <= 0 {
		return fmt.Errorf("%w: price per kg must be positive", ErrValidation)
	}

	p.Status = PickupStatusStaffUpdated
	p.ProposedWeightKg = weightKg
	p.ProposedPricePerKg = pricePerKgKobo
	p.HasProposal = true
	p.StaffNotes = staffNotes
	p.UpdatedAt = now
	return nil
}

// Process marks the pickup processed and links the created purchase. The
// caller is responsible for creating the purchase in the same transaction.
func (p *PickupRequest) Process(purchaseID string, now time.Time) error {
	if p.Status == PickupStatusProcessed {
		return ErrAlreadyProcessed
	}
	if p.Status != PickupStatusApproved && p.Status != PickupStatusStaffUpdated {
		return fmt.Errorf("%w: cannot process pickup in status %s", ErrInvalidStateTransition, p.Status)
	}
	if purchaseID == "" {
		return fmt.Errorf("%w: purchase id is required", ErrValidation)
	}

	p.Status = PickupStatusProcessed
	p.LinkedPurchaseID = purchaseID
	p.ProcessedAt = &now
	p.UpdatedAt = now
	return nil
}

// Cancel is reachable from any non-terminal state.
func (p *PickupRequest) Cancel(now time.Time) error {
	if p.terminal() {
		return fmt.Errorf("%w: cannot cancel pickup in status %s", ErrInvalidStateTransition, p.Status)
	}

	p.Status = PickupStatusCancelled
	p.UpdatedAt = now
	return nil
}
