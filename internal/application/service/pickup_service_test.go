package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/promisepoint/lending-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// MockPickupRepository is a mock implementation of PickupRepository
type MockPickupRepository struct {
	mock.Mock
}

func (m *MockPickupRepository) Create(ctx context.Context, p *domain.PickupRequest) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPickupRepository) FindByID(ctx context.Context, id string) (*domain.PickupRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PickupRequest), args.Error(1)
}

func (m *MockPickupRepository) Save(ctx context.Context, p *domain.PickupRequest) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPickupRepository) List(ctx context.Context, filter domain.PickupFilter, page domain.Pagination) ([]*domain.PickupRequest, int64, error) {
	args := m.Called(ctx, filter, page)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*domain.PickupRequest), args.Get(1).(int64), args.Error(2)
}

// MockPurchaseRepository is a mock implementation of PurchaseRepository
type MockPurchaseRepository struct {
	mock.Mock
}

func (m *MockPurchaseRepository) Create(ctx context.Context, p *domain.Purchase) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPurchaseRepository) FindByID(ctx context.Context, id string) (*domain.Purchase, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Purchase), args.Error(1)
}

func (m *MockPurchaseRepository) FindByPickupRequestID(ctx context.Context, pickupID string) (*domain.Purchase, error) {
	args := m.Called(ctx, pickupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Purchase), args.Error(1)
}

// MockPickupUnitOfWork is a mock implementation of PickupUnitOfWork
type MockPickupUnitOfWork struct {
	mock.Mock
}

func (m *MockPickupUnitOfWork) ProcessPickup(ctx context.Context, pickup *domain.PickupRequest, purchase *domain.Purchase) error {
	args := m.Called(ctx, pickup, purchase)
	return args.Error(0)
}

var pickupClock = time.Date(2025, 4, 1, 8, 0, 0, 0, time.UTC)

func newTestPickupService(pickupRepo *MockPickupRepository, purchaseRepo *MockPurchaseRepository, uow *MockPickupUnitOfWork) *PickupService {
	service := NewPickupService(pickupRepo, purchaseRepo, uow, nil, zap.NewNop())
	service.now = func() time.Time { return pickupClock }
	return service
}

func storedPickup(t *testing.T, status domain.PickupStatus) *domain.PickupRequest {
	t.Helper()

	pickup, err := domain.NewPickupRequest("FRM001", "Adaeze Obi", "+2348012345678", domain.ChannelUSSD, pickupClock)
	assert.NoError(t, err)
	pickup.ID = "pickup-1"
	pickup.Reference = "PPK-TEST0001"

	switch status {
	case domain.PickupStatusApproved:
		assert.NoError(t, pickup.Approve(nil, "", "STF042", pickupClock))
	case domain.PickupStatusStaffUpdated:
		assert.NoError(t, pickup.Approve(nil, "", "STF042", pickupClock))
		assert.NoError(t, pickup.RecordStaffProposal(50, 50000, "grade A maize", pickupClock))
	case domain.PickupStatusProcessed:
		assert.NoError(t, pickup.Approve(nil, "", "STF042", pickupClock))
		assert.NoError(t, pickup.Process("purchase-0", pickupClock))
	}

	return pickup
}

func TestCreatePickupRequest_Success(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockPickupRepo := new(MockPickupRepository)
	mockPurchaseRepo := new(MockPurchaseRepository)
	mockUoW := new(MockPickupUnitOfWork)
	service := newTestPickupService(mockPickupRepo, mockPurchaseRepo, mockUoW)

	mockPickupRepo.On("Create", ctx, mock.AnythingOfType("*domain.PickupRequest")).Return(nil)

	// Act
	pickup, err := service.CreatePickupRequest(ctx, CreatePickupInput{
		FarmerID:    "FRM001",
		FarmerName:  "Adaeze Obi",
		FarmerPhone: "+2348012345678",
		Channel:     domain.ChannelUSSD,
	})

	// Assert
	assert.NoError(t, err)
	assert.NotEmpty(t, pickup.ID)
	assert.NotEmpty(t, pickup.Reference)
	assert.Equal(t, domain.PickupStatusRequested, pickup.Status)
	mockPickupRepo.AssertExpectations(t)
}

func TestCreatePickupRequest_InvalidChannel(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockPickupRepo := new(MockPickupRepository)
	mockPurchaseRepo := new(MockPurchaseRepository)
	mockUoW := new(MockPickupUnitOfWork)
	service := newTestPickupService(mockPickupRepo, mockPurchaseRepo, mockUoW)

	// Act
	pickup, err := service.CreatePickupRequest(ctx, CreatePickupInput{
		FarmerID:    "FRM001",
		FarmerName:  "Adaeze Obi",
		FarmerPhone: "+2348012345678",
		Channel:     "sms",
	})

	// Assert
	assert.Nil(t, pickup)
	assert.ErrorIs(t, err, domain.ErrValidation)
	mockPickupRepo.AssertNotCalled(t, "Create")
}

func TestProcessPickupToPurchase_ExplicitValues(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockPickupRepo := new(MockPickupRepository)
	mockPurchaseRepo := new(MockPurchaseRepository)
	mockUoW := new(MockPickupUnitOfWork)
	service := newTestPickupService(mockPickupRepo, mockPurchaseRepo, mockUoW)

	pickup := storedPickup(t, domain.PickupStatusApproved)
	mockPickupRepo.On("FindByID", ctx, "pickup-1").Return(pickup, nil)
	mockUoW.On("ProcessPickup", ctx, pickup, mock.AnythingOfType("*domain.Purchase")).Return(nil)

	// Act - 50kg at N500/kg
	result, err := service.ProcessPickupToPurchase(ctx, "pickup-1", ProcessPickupInput{
		WeightKg:   50,
		PricePerKg: 50000,
		Location:   "Kaduna depot",
	})

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, domain.PickupStatusProcessed, result.Pickup.Status)
	assert.Equal(t, result.Purchase.ID, result.Pickup.LinkedPurchaseID)
	assert.Equal(t, int64(2500000), result.Purchase.TotalAmount) // N25,000
	assert.Equal(t, "pickup-1", result.Purchase.PickupRequestID)
	mockUoW.AssertExpectations(t)
}

func TestProcessPickupToPurchase_FallsBackToProposal(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockPickupRepo := new(MockPickupRepository)
	mockPurchaseRepo := new(MockPurchaseRepository)
	mockUoW := new(MockPickupUnitOfWork)
	service := newTestPickupService(mockPickupRepo, mockPurchaseRepo, mockUoW)

	pickup := storedPickup(t, domain.PickupStatusStaffUpdated)
	mockPickupRepo.On("FindByID", ctx, "pickup-1").Return(pickup, nil)
	mockUoW.On("ProcessPickup", ctx, pickup, mock.AnythingOfType("*domain.Purchase")).Return(nil)

	// Act - no explicit weight/price, proposal fills in
	result, err := service.ProcessPickupToPurchase(ctx, "pickup-1", ProcessPickupInput{})

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, float64(50), result.Purchase.WeightKg)
	assert.Equal(t, int64(50000), result.Purchase.PricePerKg)
	assert.Equal(t, int64(2500000), result.Purchase.TotalAmount)
	mockUoW.AssertExpectations(t)
}

func TestProcessPickupToPurchase_AlreadyProcessed(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockPickupRepo := new(MockPickupRepository)
	mockPurchaseRepo := new(MockPurchaseRepository)
	mockUoW := new(MockPickupUnitOfWork)
	service := newTestPickupService(mockPickupRepo, mockPurchaseRepo, mockUoW)

	pickup := storedPickup(t, domain.PickupStatusProcessed)
	mockPickupRepo.On("FindByID", ctx, "pickup-1").Return(pickup, nil)

	// Act
	result, err := service.ProcessPickupToPurchase(ctx, "pickup-1", ProcessPickupInput{
		WeightKg:   50,
		PricePerKg: 50000,
	})

	// Assert
	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrAlreadyProcessed)
	assert.Equal(t, "purchase-0", pickup.LinkedPurchaseID)
	mockUoW.AssertNotCalled(t, "ProcessPickup")
}

func TestProcessPickupToPurchase_FromRequestedRejected(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockPickupRepo := new(MockPickupRepository)
	mockPurchaseRepo := new(MockPurchaseRepository)
	mockUoW := new(MockPickupUnitOfWork)
	service := newTestPickupService(mockPickupRepo, mockPurchaseRepo, mockUoW)

	pickup := storedPickup(t, domain.PickupStatusRequested)
	mockPickupRepo.On("FindByID", ctx, "pickup-1").Return(pickup, nil)

	// Act
	result, err := service.ProcessPickupToPurchase(ctx, "pickup-1", ProcessPickupInput{
		WeightKg:   50,
		PricePerKg: 50000,
	})

	// Assert
	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
	mockUoW.AssertNotCalled(t, "ProcessPickup")
}

func TestProcessPickupToPurchase_TransactionFailure(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockPickupRepo := new(MockPickupRepository)
	mockPurchaseRepo := new(MockPurchaseRepository)
	mockUoW := new(MockPickupUnitOfWork)
	service := newTestPickupService(mockPickupRepo, mockPurchaseRepo, mockUoW)

	pickup := storedPickup(t, domain.PickupStatusApproved)
	mockPickupRepo.On("FindByID", ctx, "pickup-1").Return(pickup, nil)
	mockUoW.On("ProcessPickup", ctx, pickup, mock.AnythingOfType("*domain.Purchase")).
		Return(errors.New("database connection error"))

	// Act
	result, err := service.ProcessPickupToPurchase(ctx, "pickup-1", ProcessPickupInput{
		WeightKg:   50,
		PricePerKg: 50000,
	})

	// Assert
	assert.Nil(t, result)
	assert.Error(t, err)
	mockUoW.AssertExpectations(t)
}

func TestGetPurchase_Success(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockPickupRepo := new(MockPickupRepository)
	mockPurchaseRepo := new(MockPurchaseRepository)
	mockUoW := new(MockPickupUnitOfWork)
	service := newTestPickupService(mockPickupRepo, mockPurchaseRepo, mockUoW)

	purchase, err := domain.NewPurchase("FRM001", "pickup-1", 50, 50000, "Kaduna depot", "", pickupClock)
	assert.NoError(t, err)
	purchase.ID = "purchase-1"
	purchase.Reference = "PPC-TEST0001"

	mockPurchaseRepo.On("FindByID", ctx, "purchase-1").Return(purchase, nil)

	// Act
	result, err := service.GetPurchase(ctx, "purchase-1")

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, "purchase-1", result.ID)
	assert.Equal(t, int64(2500000), result.TotalAmount)
	mockPurchaseRepo.AssertExpectations(t)
}

func TestGetPurchaseForPickup_Success(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockPickupRepo := new(MockPickupRepository)
	mockPurchaseRepo := new(MockPurchaseRepository)
	mockUoW := new(MockPickupUnitOfWork)
	service := newTestPickupService(mockPickupRepo, mockPurchaseRepo, mockUoW)

	purchase, err := domain.NewPurchase("FRM001", "pickup-1", 50, 50000, "Kaduna depot", "", pickupClock)
	assert.NoError(t, err)
	purchase.ID = "purchase-1"

	mockPurchaseRepo.On("FindByPickupRequestID", ctx, "pickup-1").Return(purchase, nil)

	// Act
	result, err := service.GetPurchaseForPickup(ctx, "pickup-1")

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, "pickup-1", result.PickupRequestID)
	mockPurchaseRepo.AssertExpectations(t)
}

func TestGetPurchaseForPickup_NotProcessedYet(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockPickupRepo := new(MockPickupRepository)
	mockPurchaseRepo := new(MockPurchaseRepository)
	mockUoW := new(MockPickupUnitOfWork)
	service := newTestPickupService(mockPickupRepo, mockPurchaseRepo, mockUoW)

	mockPurchaseRepo.On("FindByPickupRequestID", ctx, "pickup-1").Return(nil, domain.ErrNotFound)

	// Act
	result, err := service.GetPurchaseForPickup(ctx, "pickup-1")

	// Assert
	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestApprovePickupRequest_Success(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockPickupRepo := new(MockPickupRepository)
	mockPurchaseRepo := new(MockPurchaseRepository)
	mockUoW := new(MockPickupUnitOfWork)
	service := newTestPickupService(mockPickupRepo, mockPurchaseRepo, mockUoW)

	pickup := storedPickup(t, domain.PickupStatusRequested)
	mockPickupRepo.On("FindByID", ctx, "pickup-1").Return(pickup, nil)
	mockPickupRepo.On("Save", ctx, pickup).Return(nil)

	scheduled := pickupClock.AddDate(0, 0, 3)

	// Act
	result, err := service.ApprovePickupRequest(ctx, "pickup-1", ApprovePickupInput{
		ScheduledDate:   &scheduled,
		AssignedStaffID: "STF042",
	})

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, domain.PickupStatusApproved, result.Status)
	mockPickupRepo.AssertExpectations(t)
}

func TestRecordStaffProposal_RequiresApproved(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockPickupRepo := new(MockPickupRepository)
	mockPurchaseRepo := new(MockPurchaseRepository)
	mockUoW := new(MockPickupUnitOfWork)
	service := newTestPickupService(mockPickupRepo, mockPurchaseRepo, mockUoW)

	pickup := storedPickup(t, domain.PickupStatusRequested)
	mockPickupRepo.On("FindByID", ctx, "pickup-1").Return(pickup, nil)

	// Act
	result, err := service.RecordStaffProposal(ctx, "pickup-1", StaffProposalInput{
		WeightKg:   50,
		PricePerKg: 50000,
	})

	// Assert
	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
	mockPickupRepo.AssertNotCalled(t, "Save")
}

func TestCancelPickupRequest_TerminalRejected(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockPickupRepo := new(MockPickupRepository)
	mockPurchaseRepo := new(MockPurchaseRepository)
	mockUoW := new(MockPickupUnitOfWork)
	service := newTestPickupService(mockPickupRepo, mockPurchaseRepo, mockUoW)

	pickup := storedPickup(t, domain.PickupStatusProcessed)
	mockPickupRepo.On("FindByID", ctx, "pickup-1").Return(pickup, nil)

	// Act
	result, err := service.CancelPickupRequest(ctx, "pickup-1")

	// Assert
	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
	mockPickupRepo.AssertNotCalled(t, "Save")
}

func TestActionablePickups_Filter(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockPickupRepo := new(MockPickupRepository)
	mockPurchaseRepo := new(MockPurchaseRepository)
	mockUoW := new(MockPickupUnitOfWork)
	service := newTestPickupService(mockPickupRepo, mockPurchaseRepo, mockUoW)

	mockPickupRepo.On("List", ctx, mock.MatchedBy(func(f domain.PickupFilter) bool {
		return len(f.Statuses) == 3
	}), domain.Pagination{Page: 1, PageSize: 20}).
		Return([]*domain.PickupRequest{}, int64(0), nil)

	// Act
	_, err := service.ActionablePickups(ctx, domain.Pagination{Page: 1, PageSize: 20})

	// Assert
	assert.NoError(t, err)
	mockPickupRepo.AssertExpectations(t)
}
