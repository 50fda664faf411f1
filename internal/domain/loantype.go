package domain

import (
	"fmt"
	"time"
)

type LoanCategory string

const (
	CategoryInputCredit   LoanCategory = "input_credit"
	CategoryFarmTools     LoanCategory = "farm_tools"
	CategoryEquipment     LoanCategory = "equipment"
	CategoryPersonalLoan  LoanCategory = "personal_loan"
	CategoryEmergencyLoan LoanCategory = "emergency_loan"
)

var validCategories = map[LoanCategory]bool{
	CategoryInputCredit:   true,
	CategoryFarmTools:     true,
	CategoryEquipment:     true,
	CategoryPersonalLoan:  true,
	CategoryEmergencyLoan: true,
}

// LoanType is an admin-authored template a loan copies its terms from at
// creation time. Loan types are never hard-deleted, only deactivated, so
// existing loans keep a valid reference.
type LoanType struct {
	ID             string
	Name           string
	UserType       BorrowerKind
	Category       LoanCategory
	InterestRate   float64 // percent, 0-30
	DurationMonths int     // 1-60
	MinAmount      int64   // kobo, 0 = no bound; staff loans only
	MaxAmount      int64   // kobo, 0 = no bound; staff loans only
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func NewLoanType(name string, userType BorrowerKind, category LoanCategory, interestRate float64, durationMonths int, minAmount, maxAmount int64) (*LoanType, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: loan type name is required", ErrValidation)
	}
	if userType != BorrowerFarmer && userType != BorrowerStaff {
		return nil, fmt.Errorf("%w: user type must be farmer or staff", ErrValidation)
	}
	if !validCategories[category] {
		return nil, fmt.Errorf("%w: unknown loan category %q", ErrValidation, category)
	}
	if interestRate < 0 || interestRate > 30 {
		return nil, fmt.Errorf("%w: interest rate must be between 0 and 30 percent", ErrValidation)
	}
	if durationMonths < 1 || durationMonths > 60 {
		return nil, fmt.Errorf("%w: duration must be between 1 and 60 months", ErrValidation)
	}
	if minAmount < 0 || maxAmount < 0 {
		return nil, fmt.Errorf("%w: amount bounds must not be negative", ErrValidation)
	}
	if minAmount > 0 && maxAmount > 0 && minAmount > maxAmount {
		return nil, fmt.Errorf("%w: min amount exceeds max amount", ErrValidation)
	}

	return &LoanType{
		Name:           name,
		UserType:       userType,
		Category:       category,
		InterestRate:   interestRate,
		DurationMonths: durationMonths,
		MinAmount:      minAmount,
		MaxAmount:      maxAmount,
		IsActive:       true,
		CreatedAt:      time.Now(),
	}, nil
}

// AmountWithinBounds checks a principal against the optional min/max bounds.
func (lt *LoanType) AmountWithinBounds(principalKobo int64) bool {
	if lt.MinAmount > 0 && principalKobo < lt.MinAmount {
		return false
	}
	if lt.MaxAmount > 0 && principalKobo > lt.MaxAmount {
		return false
	}
	return true
}

func (lt *LoanType) Deactivate() {
	lt.IsActive = false
	lt.UpdatedAt = time.Now()
}
