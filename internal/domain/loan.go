package domain

import (
	"fmt"
	"time"
)

type LoanStatus string

const (
	LoanStatusRequested LoanStatus = "requested"
	LoanStatusApproved  LoanStatus = "approved"
	LoanStatusActive    LoanStatus = "active"
	LoanStatusCompleted LoanStatus = "completed"
	LoanStatusDefaulted LoanStatus = "defaulted"
)

type DeliveryStatus string

const (
	DeliveryStatusPending   DeliveryStatus = "pending"
	DeliveryStatusDelivered DeliveryStatus = "delivered"
)

type BorrowerKind string

const (
	BorrowerFarmer BorrowerKind = "farmer"
	BorrowerStaff  BorrowerKind = "staff"
)

// Borrower is a tagged union: exactly one of FarmerID/StaffID is set,
// matching Kind.
type Borrower struct {
	Kind     BorrowerKind
	FarmerID string
	StaffID  string
}

func (b Borrower) Validate() error {
	switch b.Kind {
	case BorrowerFarmer:
		if b.FarmerID == "" || b.StaffID != "" {
			return fmt.Errorf("%w: farmer borrower requires farmer_id only", ErrValidation)
		}
	case BorrowerStaff:
		if b.StaffID == "" || b.FarmerID != "" {
			return fmt.Errorf("%w: staff borrower requires staff_id only", ErrValidation)
		}
	default:
		return fmt.Errorf("%w: borrower kind must be farmer or staff", ErrValidation)
	}
	return nil
}

// LoanItem is one physical input line on a farmer loan.
type LoanItem struct {
	Name       string
	Quantity   int64
	UnitPrice  int64 // kobo
	TotalPrice int64 // kobo, always quantity * unit price
}

// NewLoanItem derives the total price so the item invariant holds by
// construction.
func NewLoanItem(name string, quantity, unitPriceKobo int64) LoanItem {
	return LoanItem{
		Name:       name,
		Quantity:   quantity,
		UnitPrice:  unitPriceKobo,
		TotalPrice: quantity * unitPriceKobo,
	}
}

func validateItems(items []LoanItem) error {
	if len(items) == 0 {
		return fmt.Errorf("%w: at least one item is required", ErrValidation)
	}
	for i, it := range items {
		if it.Name == "" {
			return fmt.Errorf("%w: item %d has no name", ErrValidation, i)
		}
		if it.Quantity <= 0 {
			return fmt.Errorf("%w: item %q quantity must be positive", ErrValidation, it.Name)
		}
		if it.UnitPrice < 0 {
			return fmt.Errorf("%w: item %q unit price must not be negative", ErrValidation, it.Name)
		}
		if it.TotalPrice != it.Quantity*it.UnitPrice {
			return fmt.Errorf("%w: item %q total price does not equal quantity * unit price", ErrValidation, it.Name)
		}
	}
	return nil
}

// Loan is the aggregate root of the credit lifecycle:
// requested -> approved -> active -> completed, with active -> defaulted as
// the failure path. Farmer loans additionally carry a delivery sub-status
// that gates activation. All amounts are kobo; terms are copied from the
// loan type at creation and never re-read.
type Loan struct {
	ID        string
	Reference string
	Borrower  Borrower

	LoanTypeID     string
	InterestRate   float64 // percent, frozen at creation
	DurationMonths int

	PrincipalAmount   int64
	InterestAmount    int64
	TotalRepayment    int64
	MonthlyPayment    int64
	AmountPaid        int64
	AmountOutstanding int64

	Status         LoanStatus
	DeliveryStatus DeliveryStatus

	Items   []LoanItem
	Purpose string

	PickupDate     *time.Time
	PickupLocation string
	AdminNotes     string

	DueDate time.Time

	CreatedAt   time.Time
	ApprovedAt  *time.Time
	DisbursedAt *time.Time
	CompletedAt *time.Time
	DefaultedAt *time.Time

	DeliveryConfirmedAt *time.Time
	DeliveredByStaffID  string
	DeliveryNotes       string

	Version int64 // optimistic locking
}

// NewLoan validates a credit request against its loan type and freezes the
// derived amounts. monthlyPaymentKobo may be zero, in which case it is
// derived: floor(totalRepayment / durationMonths), with the final
// installment absorbing the remainder.
func NewLoan(borrower Borrower, loanType *LoanType, principalKobo int64, dueDate time.Time, items []LoanItem, monthlyPaymentKobo int64, purpose string, now time.Time) (*Loan, error) {
	if err := borrower.Validate(); err != nil {
		return nil, err
	}
	if principalKobo <= 0 {
		return nil, fmt.Errorf("%w: principal must be positive", ErrValidation)
	}
	if !dueDate.After(now) {
		return nil, fmt.Errorf("%w: due date must be in the future", ErrValidation)
	}
	if loanType == nil {
		return nil, fmt.Errorf("%w: loan type", ErrNotFound)
	}
	if !loanType.IsActive {
		return nil, fmt.Errorf("%w: loan type %s is not active", ErrValidation, loanType.ID)
	}
	if loanType.UserType != borrower.Kind {
		return nil, fmt.Errorf("%w: loan type %s is for %s borrowers", ErrValidation, loanType.ID, loanType.UserType)
	}
	if borrower.Kind == BorrowerStaff && !loanType.AmountWithinBounds(principalKobo) {
		return nil, fmt.Errorf("%w: principal outside loan type amount bounds", ErrValidation)
	}
	if borrower.Kind == BorrowerFarmer {
		if err := validateItems(items); err != nil {
			return nil, err
		}
	} else if len(items) > 0 {
		if err := validateItems(items); err != nil {
			return nil, err
		}
	}
	if monthlyPaymentKobo < 0 {
		return nil, fmt.Errorf("%w: monthly payment must not be negative", ErrValidation)
	}

	interest := PercentOf(principalKobo, loanType.InterestRate)
	total := principalKobo + interest
	monthly := monthlyPaymentKobo
	if monthly == 0 {
		monthly = total / int64(loanType.DurationMonths)
	}

	return &Loan{
		Borrower:          borrower,
		LoanTypeID:        loanType.ID,
		InterestRate:      loanType.InterestRate,
		DurationMonths:    loanType.DurationMonths,
		PrincipalAmount:   principalKobo,
		InterestAmount:    interest,
		TotalRepayment:    total,
		MonthlyPayment:    monthly,
		AmountPaid:        0,
		AmountOutstanding: total,
		Status:            LoanStatusRequested,
		DeliveryStatus:    DeliveryStatusPending,
		Items:             items,
		Purpose:           purpose,
		DueDate:           dueDate,
		CreatedAt:         now,
		Version:           1,
	}, nil
}

// FinalInstallment is the last scheduled payment: the regular installment
// plus whatever integer remainder the floor division left over.
func (l *Loan) FinalInstallment() int64 {
	if l.DurationMonths <= 1 {
		return l.TotalRepayment
	}
	return l.TotalRepayment - l.MonthlyPayment*int64(l.DurationMonths-1)
}

// Approve moves requested -> approved and records the scheduled pickup.
func (l *Loan) Approve(pickupDate time.Time, pickupLocation, adminNotes string, now time.Time) error {
	if l.Status != LoanStatusRequested {
		return fmt.Errorf("%w: cannot approve loan in status %s", ErrInvalidStateTransition, l.Status)
	}
	if pickupDate.Before(now) {
		return fmt.Errorf("%w: pickup date must not be in the past", ErrValidation)
	}

	l.Status = LoanStatusApproved
	l.PickupDate = &pickupDate
	l.PickupLocation = pickupLocation
	l.AdminNotes = adminNotes
	l.ApprovedAt = &now
	return nil
}

// RecordDelivery reconciles the loan's items to what was actually handed
// over and marks the delivery confirmed. Farmer loans only; idempotency
// guarded. Does not touch the main status.
func (l *Loan) RecordDelivery(items []LoanItem, deliveredByStaffID, deliveryNotes string, now time.Time) error {
	if l.Borrower.Kind != BorrowerFarmer {
		return fmt.Errorf("%w: delivery applies to farmer loans only", ErrValidation)
	}
	if l.DeliveryStatus == DeliveryStatusDelivered {
		return ErrAlreadyDelivered
	}
	if err := validateItems(items); err != nil {
		return err
	}

	l.Items = items
	l.DeliveryStatus = DeliveryStatusDelivered
	l.DeliveryConfirmedAt = &now
	l.DeliveredByStaffID = deliveredByStaffID
	l.DeliveryNotes = deliveryNotes
	return nil
}

// Activate moves approved -> active once the scheduled pickup date has
// passed and, for farmer loans, the physical delivery is confirmed.
func (l *Loan) Activate(now time.Time) error {
	if l.Status != LoanStatusApproved {
		return fmt.Errorf("%w: loan is %s, not approved", ErrPreconditionFailed, l.Status)
	}
	if l.PickupDate == nil || now.Before(*l.PickupDate) {
		return fmt.Errorf("%w: scheduled pickup date not reached", ErrPreconditionFailed)
	}
	if l.Borrower.Kind == BorrowerFarmer && l.DeliveryStatus != DeliveryStatusDelivered {
		return fmt.Errorf("%w: farmer loan items not yet delivered", ErrPreconditionFailed)
	}

	l.Status = LoanStatusActive
	l.DisbursedAt = &now
	return nil
}

// ApplyRepayment credits a repayment against the outstanding balance,
// capping at the total so amountPaid + amountOutstanding always equals
// totalRepayment. Overpayment is truncated.
func (l *Loan) ApplyRepayment(amountKobo int64, now time.Time) error {
	if l.Status != LoanStatusActive {
		return fmt.Errorf("%w: cannot repay loan in status %s", ErrInvalidStateTransition, l.Status)
	}
	if amountKobo <= 0 {
		return fmt.Errorf("%w: repayment amount must be positive", ErrValidation)
	}

	l.AmountPaid += amountKobo
	if l.AmountPaid > l.TotalRepayment {
		l.AmountPaid = l.TotalRepayment
	}
	l.AmountOutstanding = l.TotalRepayment - l.AmountPaid
	return nil
}

// MarkCompleted moves active -> completed once nothing is outstanding.
// Driven by the reconciliation job, not an admin action.
func (l *Loan) MarkCompleted(now time.Time) error {
	if l.Status != LoanStatusActive {
		return fmt.Errorf("%w: cannot complete loan in status %s", ErrInvalidStateTransition, l.Status)
	}
	if l.AmountOutstanding != 0 {
		return fmt.Errorf("%w: loan still has an outstanding balance", ErrPreconditionFailed)
	}

	l.Status = LoanStatusCompleted
	l.CompletedAt = &now
	return nil
}

// MarkDefaulted moves active -> defaulted for a loan past its due date with
// an outstanding balance. Driven by the reconciliation job.
func (l *Loan) MarkDefaulted(now time.Time) error {
	if l.Status != LoanStatusActive {
		return fmt.Errorf("%w: cannot default loan in status %s", ErrInvalidStateTransition, l.Status)
	}
	if !now.After(l.DueDate) {
		return fmt.Errorf("%w: loan is not yet past due", ErrPreconditionFailed)
	}
	if l.AmountOutstanding == 0 {
		return fmt.Errorf("%w: loan has no outstanding balance", ErrPreconditionFailed)
	}

	l.Status = LoanStatusDefaulted
	l.DefaultedAt = &now
	return nil
}
