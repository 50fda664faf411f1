package service

import (
	"context"
	"time"

	"github.com/promisepoint/lending-service/internal/domain"
	"go.uber.org/zap"
)

// ReconciliationService sweeps active loans and applies the system-driven
// transitions: fully repaid loans become completed, loans past due with an
// outstanding balance become defaulted. It is invoked on a schedule by the
// worker, never through the admin API.
type ReconciliationService struct {
	loanRepo domain.LoanRepository
	logger   *zap.Logger
	now      func() time.Time
}

func NewReconciliationService(loanRepo domain.LoanRepository, logger *zap.Logger) *ReconciliationService {
	return &ReconciliationService{
		loanRepo: loanRepo,
		logger:   logger,
		now:      time.Now,
	}
}

// ReconciliationReport summarizes one sweep.
type ReconciliationReport struct {
	Scanned   int
	Completed int
	Defaulted int
	Failed    int
}

// Run performs one reconciliation pass. Individual loan failures are logged
// and skipped; the sweep keeps going.
func (s *ReconciliationService) Run(ctx context.Context) (*ReconciliationReport, error) {
	loans, err := s.loanRepo.FindActive(ctx)
	if err != nil {
		s.logger.Error("failed to load active loans for reconciliation", zap.Error(err))
		return nil, err
	}

	now := s.now()
	report := &ReconciliationReport{Scanned: len(loans)}

	for _, loan := range loans {
		switch {
		case loan.AmountOutstanding == 0:
			if err := loan.MarkCompleted(now); err != nil {
				s.logger.Warn("failed to complete loan",
					zap.Error(err),
					zap.String("loan_id", loan.ID),
				)
				report.Failed++
				continue
			}
			if err := s.loanRepo.Save(ctx, loan); err != nil {
				s.logger.Warn("failed to save completed loan",
					zap.Error(err),
					zap.String("loan_id", loan.ID),
				)
				report.Failed++
				continue
			}
			report.Completed++
			s.logger.Info("loan completed",
				zap.String("loan_id", loan.ID),
				zap.String("reference", loan.Reference),
			)

		case now.After(loan.DueDate):
			if err := loan.MarkDefaulted(now); err != nil {
				s.logger.Warn("failed to default loan",
					zap.Error(err),
					zap.String("loan_id", loan.ID),
				)
				report.Failed++
				continue
			}
			if err := s.loanRepo.Save(ctx, loan); err != nil {
				s.logger.Warn("failed to save defaulted loan",
					zap.Error(err),
					zap.String("loan_id", loan.ID),
				)
				report.Failed++
				continue
			}
			report.Defaulted++
			s.logger.Info("loan defaulted",
				zap.String("loan_id", loan.ID),
				zap.String("reference", loan.Reference),
				zap.Int64("outstanding", loan.AmountOutstanding),
			)
		}
	}

	s.logger.Info("reconciliation pass finished",
		zap.Int("scanned", report.Scanned),
		zap.Int("completed", report.Completed),
		zap.Int("defaulted", report.Defaulted),
		zap.Int("failed", report.Failed),
	)

	return report, nil
}

// ApplyRepayment is the hook the external repayment subsystem calls to
// credit a payment against an active loan.
func (s *ReconciliationService) ApplyRepayment(ctx context.Context, loanID string, amountKobo int64) (*domain.Loan, error) {
	loan, err := s.loanRepo.FindByID(ctx, loanID)
	if err != nil {
		return nil, err
	}

	if err := loan.ApplyRepayment(amountKobo, s.now()); err != nil {
		return nil, err
	}

	if err := s.loanRepo.Save(ctx, loan); err != nil {
		s.logger.Error("failed to save repayment",
			zap.Error(err),
			zap.String("loan_id", loanID),
		)
		return nil, err
	}

	s.logger.Info("repayment applied",
		zap.String("loan_id", loan.ID),
		zap.Int64("amount", amountKobo),
		zap.Int64("outstanding", loan.AmountOutstanding),
	)

	return loan, nil
}
