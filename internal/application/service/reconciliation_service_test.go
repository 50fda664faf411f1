package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/promisepoint/lending-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func activeLoan(t *testing.T, paid int64) *domain.Loan {
	t.Helper()

	loan := storedRequestedLoan(t)
	pickupDate := testClock.AddDate(0, 0, 7)
	assert.NoError(t, loan.Approve(pickupDate, "", "", testClock))
	assert.NoError(t, loan.RecordDelivery(
		[]domain.LoanItem{domain.NewLoanItem("NPK Fertilizer 50kg", 10, 450000)},
		"STF042", "", pickupDate,
	))
	assert.NoError(t, loan.Activate(pickupDate.Add(time.Hour)))
	if paid > 0 {
		assert.NoError(t, loan.ApplyRepayment(paid, pickupDate.AddDate(0, 1, 0)))
	}
	return loan
}

func TestReconciliationRun_CompletesAndDefaults(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockLoanRepo := new(MockLoanRepository)
	service := NewReconciliationService(mockLoanRepo, zap.NewNop())

	fullyPaid := activeLoan(t, 5500000)
	pastDue := activeLoan(t, 1000000)
	current := activeLoan(t, 1000000)

	// Sweep runs a day after the due date of fullyPaid and pastDue; push
	// current's due date beyond the sweep time so it stays untouched.
	sweepTime := fullyPaid.DueDate.AddDate(0, 0, 1)
	current.DueDate = sweepTime.AddDate(0, 3, 0)
	service.now = func() time.Time { return sweepTime }

	mockLoanRepo.On("FindActive", ctx).Return([]*domain.Loan{fullyPaid, pastDue, current}, nil)
	mockLoanRepo.On("Save", ctx, fullyPaid).Return(nil)
	mockLoanRepo.On("Save", ctx, pastDue).Return(nil)

	// Act
	report, err := service.Run(ctx)

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, 3, report.Scanned)
	assert.Equal(t, 1, report.Completed)
	assert.Equal(t, 1, report.Defaulted)
	assert.Equal(t, 0, report.Failed)

	assert.Equal(t, domain.LoanStatusCompleted, fullyPaid.Status)
	assert.Equal(t, domain.LoanStatusDefaulted, pastDue.Status)
	assert.Equal(t, domain.LoanStatusActive, current.Status)
	mockLoanRepo.AssertExpectations(t)
}

func TestReconciliationRun_SaveFailureSkipsLoan(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockLoanRepo := new(MockLoanRepository)
	service := NewReconciliationService(mockLoanRepo, zap.NewNop())

	fullyPaid := activeLoan(t, 5500000)
	service.now = func() time.Time { return testClock.AddDate(0, 1, 0) }

	mockLoanRepo.On("FindActive", ctx).Return([]*domain.Loan{fullyPaid}, nil)
	mockLoanRepo.On("Save", ctx, fullyPaid).Return(domain.ErrOptimisticLock)

	// Act
	report, err := service.Run(ctx)

	// Assert - a stale write is counted, not fatal
	assert.NoError(t, err)
	assert.Equal(t, 1, report.Scanned)
	assert.Equal(t, 0, report.Completed)
	assert.Equal(t, 1, report.Failed)
	mockLoanRepo.AssertExpectations(t)
}

func TestReconciliationRun_RepoError(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockLoanRepo := new(MockLoanRepository)
	service := NewReconciliationService(mockLoanRepo, zap.NewNop())

	mockLoanRepo.On("FindActive", ctx).Return(nil, errors.New("database connection error"))

	// Act
	report, err := service.Run(ctx)

	// Assert
	assert.Nil(t, report)
	assert.Error(t, err)
}

func TestApplyRepayment_CreditsBalance(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockLoanRepo := new(MockLoanRepository)
	service := NewReconciliationService(mockLoanRepo, zap.NewNop())
	service.now = func() time.Time { return testClock.AddDate(0, 1, 0) }

	loan := activeLoan(t, 0)
	mockLoanRepo.On("FindByID", ctx, loan.ID).Return(loan, nil)
	mockLoanRepo.On("Save", ctx, loan).Return(nil)

	// Act
	result, err := service.ApplyRepayment(ctx, loan.ID, 2000000)

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, int64(2000000), result.AmountPaid)
	assert.Equal(t, int64(3500000), result.AmountOutstanding)
	mockLoanRepo.AssertExpectations(t)
}

func TestApplyRepayment_InactiveLoanRejected(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockLoanRepo := new(MockLoanRepository)
	service := NewReconciliationService(mockLoanRepo, zap.NewNop())

	loan := storedRequestedLoan(t)
	mockLoanRepo.On("FindByID", ctx, loan.ID).Return(loan, nil)

	// Act
	result, err := service.ApplyRepayment(ctx, loan.ID, 2000000)

	// Assert
	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
	mockLoanRepo.AssertNotCalled(t, "Save")
}
