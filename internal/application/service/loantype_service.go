package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/promisepoint/lending-service/internal/domain"
	"go.uber.org/zap"
)

// LoanTypeService manages the admin-authored loan type registry. Types are
// deactivated rather than deleted so historical loans stay consistent.
type LoanTypeService struct {
	repo   domain.LoanTypeRepository
	logger *zap.Logger
}

func NewLoanTypeService(repo domain.LoanTypeRepository, logger *zap.Logger) *LoanTypeService {
	return &LoanTypeService{repo: repo, logger: logger}
}

type CreateLoanTypeInput struct {
	Name           string
	UserType       domain.BorrowerKind
	Category       domain.LoanCategory
	InterestRate   float64
	DurationMonths int
	MinAmount      int64 // kobo
	MaxAmount      int64 // kobo
}

func (s *LoanTypeService) CreateLoanType(ctx context.Context, in CreateLoanTypeInput) (*domain.LoanType, error) {
	lt, err := domain.NewLoanType(in.Name, in.UserType, in.Category, in.InterestRate, in.DurationMonths, in.MinAmount, in.MaxAmount)
	if err != nil {
		return nil, err
	}
	lt.ID = uuid.New().String()

	if err := s.repo.Create(ctx, lt); err != nil {
		s.logger.Error("failed to create loan type",
			zap.Error(err),
			zap.String("name", in.Name),
		)
		return nil, fmt.Errorf("failed to create loan type: %w", err)
	}

	s.logger.Info("loan type created",
		zap.String("loan_type_id", lt.ID),
		zap.String("name", lt.Name),
		zap.String("user_type", string(lt.UserType)),
		zap.Float64("interest_rate", lt.InterestRate),
	)

	return lt, nil
}

func (s *LoanTypeService) GetLoanType(ctx context.Context, id string) (*domain.LoanType, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *LoanTypeService) ListLoanTypes(ctx context.Context, activeOnly bool) ([]*domain.LoanType, error) {
	return s.repo.List(ctx, activeOnly)
}

func (s *LoanTypeService) DeactivateLoanType(ctx context.Context, id string) (*domain.LoanType, error) {
	lt, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loan type %s: %w", id, err)
	}

	lt.Deactivate()

	if err := s.repo.Save(ctx, lt); err != nil {
		s.logger.Error("failed to deactivate loan type",
			zap.Error(err),
			zap.String("loan_type_id", id),
		)
		return nil, fmt.Errorf("failed to deactivate loan type: %w", err)
	}

	s.logger.Info("loan type deactivated", zap.String("loan_type_id", id))

	return lt, nil
}
