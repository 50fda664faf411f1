package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/promisepoint/lending-service/internal/domain"
	"go.uber.org/zap"
)

// LoanService drives the credit lifecycle: create, approve, record delivery,
// activate, plus the read side (listing, KPIs). Completion and default are
// owned by the reconciliation service.
type LoanService struct {
	loanRepo       domain.LoanRepository
	loanTypeRepo   domain.LoanTypeRepository
	eventPublisher domain.EventPublisher // Optional - can be nil
	logger         *zap.Logger
	now            func() time.Time
}

func NewLoanService(
	loanRepo domain.LoanRepository,
	loanTypeRepo domain.LoanTypeRepository,
	eventPublisher domain.EventPublisher,
	logger *zap.Logger,
) *LoanService {
	return &LoanService{
		loanRepo:       loanRepo,
		loanTypeRepo:   loanTypeRepo,
		eventPublisher: eventPublisher,
		logger:         logger,
		now:            time.Now,
	}
}

// CreateLoanInput carries a fully converted request: every amount is already
// kobo. Naira conversion happens at the transport boundary, never here.
type CreateLoanInput struct {
	Borrower        domain.Borrower
	LoanTypeID      string
	PrincipalAmount int64 // kobo
	DueDate         time.Time
	Items           []domain.LoanItem
	MonthlyPayment  int64 // kobo, 0 = derive from terms
	Purpose         string
}

func (s *LoanService) CreateLoan(ctx context.Context, in CreateLoanInput) (*domain.Loan, error) {
	loanType, err := s.loanTypeRepo.FindByID(ctx, in.LoanTypeID)
	if err != nil {
		s.logger.Warn("loan type lookup failed",
			zap.Error(err),
			zap.String("loan_type_id", in.LoanTypeID),
		)
		return nil, fmt.Errorf("loan type %s: %w", in.LoanTypeID, err)
	}

	loan, err := domain.NewLoan(in.Borrower, loanType, in.PrincipalAmount, in.DueDate, in.Items, in.MonthlyPayment, in.Purpose, s.now())
	if err != nil {
		return nil, err
	}
	loan.ID = uuid.New().String()
	loan.Reference = domain.NewReference(domain.RefPrefixLoan)

	if err := s.loanRepo.Create(ctx, loan); err != nil {
		s.logger.Error("failed to create loan",
			zap.Error(err),
			zap.String("reference", loan.Reference),
		)
		return nil, fmt.Errorf("failed to create loan: %w", err)
	}

	s.logger.Info("loan created",
		zap.String("loan_id", loan.ID),
		zap.String("reference", loan.Reference),
		zap.String("borrower_kind", string(loan.Borrower.Kind)),
		zap.Int64("principal", loan.PrincipalAmount),
		zap.Int64("total_repayment", loan.TotalRepayment),
	)

	return loan, nil
}

type ApproveLoanInput struct {
	PickupDate     time.Time
	PickupLocation string
	AdminNotes     string
}

func (s *LoanService) ApproveLoanRequest(ctx context.Context, loanID string, in ApproveLoanInput) (*domain.Loan, error) {
	loan, err := s.loanRepo.FindByID(ctx, loanID)
	if err != nil {
		return nil, fmt.Errorf("loan %s: %w", loanID, err)
	}

	if err := loan.Approve(in.PickupDate, in.PickupLocation, in.AdminNotes, s.now()); err != nil {
		return nil, err
	}

	if err := s.loanRepo.Save(ctx, loan); err != nil {
		s.logger.Error("failed to save approved loan",
			zap.Error(err),
			zap.String("loan_id", loanID),
		)
		return nil, fmt.Errorf("failed to save loan: %w", err)
	}

	s.logger.Info("loan approved",
		zap.String("loan_id", loan.ID),
		zap.String("reference", loan.Reference),
		zap.Time("pickup_date", in.PickupDate),
	)

	if s.eventPublisher != nil {
		go s.publishLoanApproved(loan)
	}

	return loan, nil
}

type RecordDeliveryInput struct {
	Items              []domain.LoanItem
	DeliveredByStaffID string
	DeliveryNotes      string
}

func (s *LoanService) RecordLoanDelivery(ctx context.Context, loanID string, in RecordDeliveryInput) (*domain.Loan, error) {
	loan, err := s.loanRepo.FindByID(ctx, loanID)
	if err != nil {
		return nil, fmt.Errorf("loan %s: %w", loanID, err)
	}

	if err := loan.RecordDelivery(in.Items, in.DeliveredByStaffID, in.DeliveryNotes, s.now()); err != nil {
		return nil, err
	}

	if err := s.loanRepo.Save(ctx, loan); err != nil {
		s.logger.Error("failed to save loan delivery",
			zap.Error(err),
			zap.String("loan_id", loanID),
		)
		return nil, fmt.Errorf("failed to save loan: %w", err)
	}

	s.logger.Info("loan delivery recorded",
		zap.String("loan_id", loan.ID),
		zap.String("reference", loan.Reference),
		zap.Int("item_count", len(in.Items)),
		zap.String("delivered_by", in.DeliveredByStaffID),
	)

	return loan, nil
}

func (s *LoanService) ActivateLoan(ctx context.Context, loanID string) (*domain.Loan, error) {
	loan, err := s.loanRepo.FindByID(ctx, loanID)
	if err != nil {
		return nil, fmt.Errorf("loan %s: %w", loanID, err)
	}

	if err := loan.Activate(s.now()); err != nil {
		return nil, err
	}

	if err := s.loanRepo.Save(ctx, loan); err != nil {
		s.logger.Error("failed to save activated loan",
			zap.Error(err),
			zap.String("loan_id", loanID),
		)
		return nil, fmt.Errorf("failed to save loan: %w", err)
	}

	s.logger.Info("loan activated",
		zap.String("loan_id", loan.ID),
		zap.String("reference", loan.Reference),
		zap.Int64("total_repayment", loan.TotalRepayment),
	)

	if s.eventPublisher != nil {
		go s.publishLoanActivated(loan)
	}

	return loan, nil
}

func (s *LoanService) GetLoan(ctx context.Context, loanID string) (*domain.Loan, error) {
	return s.loanRepo.FindByID(ctx, loanID)
}

// LoanPage is the paginated listing result.
type LoanPage struct {
	Items      []*domain.Loan
	Total      int64
	Page       int
	PageSize   int
	TotalPages int
}

func (s *LoanService) ListLoans(ctx context.Context, filter domain.LoanFilter, page domain.Pagination) (*LoanPage, error) {
	if page.Page < 1 {
		page.Page = 1
	}
	if page.PageSize < 1 {
		page.PageSize = 20
	}
	if page.PageSize > 100 {
		page.PageSize = 100
	}

	loans, total, err := s.loanRepo.List(ctx, filter, page)
	if err != nil {
		s.logger.Error("failed to list loans", zap.Error(err))
		return nil, fmt.Errorf("failed to list loans: %w", err)
	}

	totalPages := int((total + int64(page.PageSize) - 1) / int64(page.PageSize))

	return &LoanPage{
		Items:      loans,
		Total:      total,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: totalPages,
	}, nil
}

func (s *LoanService) GetLoanKPIs(ctx context.Context, filter domain.LoanFilter) (*domain.LoanKPIs, error) {
	kpis, err := s.loanRepo.KPIs(ctx, filter)
	if err != nil {
		s.logger.Error("failed to compute loan KPIs", zap.Error(err))
		return nil, fmt.Errorf("failed to compute loan KPIs: %w", err)
	}
	return kpis, nil
}

// PendingDeliveries lists approved farmer loans still awaiting physical
// delivery - the loan half of the ops queue.
func (s *LoanService) PendingDeliveries(ctx context.Context, page domain.Pagination) (*LoanPage, error) {
	status := domain.LoanStatusApproved
	kind := domain.BorrowerFarmer
	delivery := domain.DeliveryStatusPending
	return s.ListLoans(ctx, domain.LoanFilter{
		Status:         &status,
		BorrowerKind:   &kind,
		DeliveryStatus: &delivery,
	}, page)
}

func (s *LoanService) publishLoanApproved(loan *domain.Loan) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	event := domain.NewLoanApprovedEvent(loan.ID, domain.LoanApprovedPayload{
		LoanID:          loan.ID,
		Reference:       loan.Reference,
		BorrowerKind:    string(loan.Borrower.Kind),
		BorrowerID:      borrowerID(loan),
		PrincipalAmount: loan.PrincipalAmount,
		PickupDate:      *loan.PickupDate,
		PickupLocation:  loan.PickupLocation,
	})

	if err := s.eventPublisher.Publish(ctx, event); err != nil {
		s.logger.Error("failed to publish loan approved event",
			zap.Error(err),
			zap.String("loan_id", loan.ID),
			zap.String("event_id", event.GetEventID()),
		)
	}
}

func (s *LoanService) publishLoanActivated(loan *domain.Loan) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	event := domain.NewLoanActivatedEvent(loan.ID, domain.LoanActivatedPayload{
		LoanID:         loan.ID,
		Reference:      loan.Reference,
		BorrowerKind:   string(loan.Borrower.Kind),
		BorrowerID:     borrowerID(loan),
		TotalRepayment: loan.TotalRepayment,
		MonthlyPayment: loan.MonthlyPayment,
		DueDate:        loan.DueDate,
		DisbursedAt:    *loan.DisbursedAt,
	})

	if err := s.eventPublisher.Publish(ctx, event); err != nil {
		s.logger.Error("failed to publish loan activated event",
			zap.Error(err),
			zap.String("loan_id", loan.ID),
			zap.String("event_id", event.GetEventID()),
		)
	}
}

func borrowerID(loan *domain.Loan) string {
	if loan.Borrower.Kind == domain.BorrowerFarmer {
		return loan.Borrower.FarmerID
	}
	return loan.Borrower.StaffID
}
