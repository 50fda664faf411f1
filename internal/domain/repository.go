package domain

import (
	"context"
	"time"
)

// LoanFilter narrows loan listings and KPI aggregation. Nil fields match
// everything.
type LoanFilter struct {
	Status         *LoanStatus
	BorrowerKind   *BorrowerKind
	DeliveryStatus *DeliveryStatus
	CreatedFrom    *time.Time
	CreatedTo      *time.Time
}

type Pagination struct {
	Page     int
	PageSize int
}

func (p Pagination) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// LoanKPIs is the read-side aggregation over the loan collection.
type LoanKPIs struct {
	TotalLoans       int64
	CountsByStatus   map[LoanStatus]int64
	TotalDisbursed   int64 // kobo, sum of principal over ever-active loans
	TotalOutstanding int64 // kobo, sum of outstanding over active loans
	DefaultRate      float64
}

type LoanRepository interface {
	Create(ctx context.Context, loan *Loan) error
	FindByID(ctx context.Context, id string) (*Loan, error)
	FindByReference(ctx context.Context, reference string) (*Loan, error)
	// Save persists a mutated loan with a compare-and-swap on Version and
	// returns ErrOptimisticLock when a concurrent writer got there first.
	Save(ctx context.Context, loan *Loan) error
	List(ctx context.Context, filter LoanFilter, page Pagination) ([]*Loan, int64, error)
	// FindActive returns the active loans for the reconciliation pass.
	FindActive(ctx context.Context) ([]*Loan, error)
	KPIs(ctx context.Context, filter LoanFilter) (*LoanKPIs, error)
}

type LoanTypeRepository interface {
	Create(ctx context.Context, lt *LoanType) error
	FindByID(ctx context.Context, id string) (*LoanType, error)
	List(ctx context.Context, activeOnly bool) ([]*LoanType, error)
	Save(ctx context.Context, lt *LoanType) error
}

type PickupFilter struct {
	Statuses    []PickupStatus
	FarmerID    string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

type PickupRepository interface {
	Create(ctx context.Context, p *PickupRequest) error
	FindByID(ctx context.Context, id string) (*PickupRequest, error)
	// Save uses the same Version compare-and-swap contract as LoanRepository.
	Save(ctx context.Context, p *PickupRequest) error
	List(ctx context.Context, filter PickupFilter, page Pagination) ([]*PickupRequest, int64, error)
}

type PurchaseRepository interface {
	Create(ctx context.Context, p *Purchase) error
	FindByID(ctx context.Context, id string) (*Purchase, error)
	FindByPickupRequestID(ctx context.Context, pickupID string) (*Purchase, error)
}

// PickupUnitOfWork spans the two writes of pickup processing: creating the
// purchase and flipping the pickup to processed must commit or roll back
// together.
type PickupUnitOfWork interface {
	ProcessPickup(ctx context.Context, pickup *PickupRequest, purchase *Purchase) error
}
