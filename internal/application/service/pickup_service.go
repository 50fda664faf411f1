package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/promisepoint/lending-service/internal/domain"
	"go.uber.org/zap"
)

// PickupService runs the produce-pickup workflow from request through
// processing into a purchase record.
type PickupService struct {
	pickupRepo     domain.PickupRepository
	purchaseRepo   domain.PurchaseRepository
	uow            domain.PickupUnitOfWork
	eventPublisher domain.EventPublisher // Optional - can be nil
	logger         *zap.Logger
	now            func() time.Time
}

func NewPickupService(
	pickupRepo domain.PickupRepository,
	purchaseRepo domain.PurchaseRepository,
	uow domain.PickupUnitOfWork,
	eventPublisher domain.EventPublisher,
	logger *zap.Logger,
) *PickupService {
	return &PickupService{
		pickupRepo:     pickupRepo,
		purchaseRepo:   purchaseRepo,
		uow:            uow,
		eventPublisher: eventPublisher,
		logger:         logger,
		now:            time.Now,
	}
}

type CreatePickupInput struct {
	FarmerID    string
	FarmerName  string
	FarmerPhone string
	Channel     domain.PickupChannel
}

func (s *PickupService) CreatePickupRequest(ctx context.Context, in CreatePickupInput) (*domain.PickupRequest, error) {
	pickup, err := domain.NewPickupRequest(in.FarmerID, in.FarmerName, in.FarmerPhone, in.Channel, s.now())
	if err != nil {
		return nil, err
	}
	pickup.ID = uuid.New().String()
	pickup.Reference = domain.NewReference(domain.RefPrefixPickup)

	if err := s.pickupRepo.Create(ctx, pickup); err != nil {
		s.logger.Error("failed to create pickup request",
			zap.Error(err),
			zap.String("farmer_id", in.FarmerID),
		)
		return nil, fmt.Errorf("failed to create pickup request: %w", err)
	}

	s.logger.Info("pickup request created",
		zap.String("pickup_id", pickup.ID),
		zap.String("reference", pickup.Reference),
		zap.String("farmer_id", pickup.FarmerID),
		zap.String("channel", string(pickup.Channel)),
	)

	return pickup, nil
}

type ApprovePickupInput struct {
	ScheduledDate   *time.Time
	ApprovedNotes   string
	AssignedStaffID string
}

func (s *PickupService) ApprovePickupRequest(ctx context.Context, pickupID string, in ApprovePickupInput) (*domain.PickupRequest, error) {
	pickup, err := s.pickupRepo.FindByID(ctx, pickupID)
	if err != nil {
		return nil, fmt.Errorf("pickup %s: %w", pickupID, err)
	}

	if err := pickup.Approve(in.ScheduledDate, in.ApprovedNotes, in.AssignedStaffID, s.now()); err != nil {
		return nil, err
	}

	if err := s.pickupRepo.Save(ctx, pickup); err != nil {
		s.logger.Error("failed to save approved pickup",
			zap.Error(err),
			zap.String("pickup_id", pickupID),
		)
		return nil, fmt.Errorf("failed to save pickup: %w", err)
	}

	s.logger.Info("pickup request approved",
		zap.String("pickup_id", pickup.ID),
		zap.String("assigned_staff_id", pickup.AssignedStaffID),
	)

	return pickup, nil
}

type StaffProposalInput struct {
	WeightKg   float64
	PricePerKg int64 // kobo
	StaffNotes string
}

func (s *PickupService) RecordStaffProposal(ctx context.Context, pickupID string, in StaffProposalInput) (*domain.PickupRequest, error) {
	pickup, err := s.pickupRepo.FindByID(ctx, pickupID)
	if err != nil {
		return nil, fmt.Errorf("pickup %s: %w", pickupID, err)
	}

	if err := pickup.RecordStaffProposal(in.WeightKg, in.PricePerKg, in.StaffNotes, s.now()); err != nil {
		return nil, err
	}

	if err := s.pickupRepo.Save(ctx, pickup); err != nil {
		s.logger.Error("failed to save staff proposal",
			zap.Error(err),
			zap.String("pickup_id", pickupID),
		)
		return nil, fmt.Errorf("failed to save pickup: %w", err)
	}

	s.logger.Info("staff proposal recorded",
		zap.String("pickup_id", pickup.ID),
		zap.Float64("weight_kg", in.WeightKg),
		zap.Int64("price_per_kg", in.PricePerKg),
	)

	return pickup, nil
}

type ProcessPickupInput struct {
	WeightKg   float64
	PricePerKg int64 // kobo; zero falls back to the staff proposal
	Location   string
	Notes      string
}

// ProcessPickupResult pairs the processed pickup with the purchase it
// produced.
type ProcessPickupResult struct {
	Pickup   *domain.PickupRequest
	Purchase *domain.Purchase
}

// ProcessPickupToPurchase converts an approved pickup into a purchase. The
// purchase insert and the pickup status flip commit in one transaction; a
// repeat call fails on the pickup's status guard before any write happens,
// so exactly one purchase ever exists per pickup.
func (s *PickupService) ProcessPickupToPurchase(ctx context.Context, pickupID string, in ProcessPickupInput) (*ProcessPickupResult, error) {
	pickup, err := s.pickupRepo.FindByID(ctx, pickupID)
	if err != nil {
		return nil, fmt.Errorf("pickup %s: %w", pickupID, err)
	}

	weight := in.WeightKg
	price := in.PricePerKg
	if weight == 0 && pickup.HasProposal {
		weight = pickup.ProposedWeightKg
	}
	if price == 0 && pickup.HasProposal {
		price = pickup.ProposedPricePerKg
	}

	now := s.now()
	purchase, err := domain.NewPurchase(pickup.FarmerID, pickup.ID, weight, price, in.Location, in.Notes, now)
	if err != nil {
		return nil, err
	}
	purchase.ID = uuid.New().String()
	purchase.Reference = domain.NewReference(domain.RefPrefixPurchase)

	if err := pickup.Process(purchase.ID, now); err != nil {
		return nil, err
	}

	if err := s.uow.ProcessPickup(ctx, pickup, purchase); err != nil {
		s.logger.Error("failed to process pickup",
			zap.Error(err),
			zap.String("pickup_id", pickupID),
		)
		return nil, fmt.Errorf("failed to process pickup: %w", err)
	}

	s.logger.Info("pickup processed into purchase",
		zap.String("pickup_id", pickup.ID),
		zap.String("purchase_id", purchase.ID),
		zap.Float64("weight_kg", purchase.WeightKg),
		zap.Int64("total_amount", purchase.TotalAmount),
	)

	if s.eventPublisher != nil {
		go s.publishPickupProcessed(pickup, purchase)
	}

	return &ProcessPickupResult{Pickup: pickup, Purchase: purchase}, nil
}

func (s *PickupService) CancelPickupRequest(ctx context.Context, pickupID string) (*domain.PickupRequest, error) {
	pickup, err := s.pickupRepo.FindByID(ctx, pickupID)
	if err != nil {
		return nil, fmt.Errorf("pickup %s: %w", pickupID, err)
	}

	if err := pickup.Cancel(s.now()); err != nil {
		return nil, err
	}

	if err := s.pickupRepo.Save(ctx, pickup); err != nil {
		s.logger.Error("failed to save cancelled pickup",
			zap.Error(err),
			zap.String("pickup_id", pickupID),
		)
		return nil, fmt.Errorf("failed to save pickup: %w", err)
	}

	s.logger.Info("pickup request cancelled", zap.String("pickup_id", pickup.ID))

	return pickup, nil
}

func (s *PickupService) GetPickup(ctx context.Context, pickupID string) (*domain.PickupRequest, error) {
	return s.pickupRepo.FindByID(ctx, pickupID)
}

func (s *PickupService) GetPurchase(ctx context.Context, purchaseID string) (*domain.Purchase, error) {
	return s.purchaseRepo.FindByID(ctx, purchaseID)
}

// GetPurchaseForPickup returns the purchase a processed pickup produced.
// ErrNotFound means the pickup has not been processed yet.
func (s *PickupService) GetPurchaseForPickup(ctx context.Context, pickupID string) (*domain.Purchase, error) {
	return s.purchaseRepo.FindByPickupRequestID(ctx, pickupID)
}

// PickupPage is the paginated listing result.
type PickupPage struct {
	Items      []*domain.PickupRequest
	Total      int64
	Page       int
	PageSize   int
	TotalPages int
}

func (s *PickupService) ListPickups(ctx context.Context, filter domain.PickupFilter, page domain.Pagination) (*PickupPage, error) {
	if page.Page < 1 {
		page.Page = 1
	}
	if page.PageSize < 1 {
		page.PageSize = 20
	}
	if page.PageSize > 100 {
		page.PageSize = 100
	}

	pickups, total, err := s.pickupRepo.List(ctx, filter, page)
	if err != nil {
		s.logger.Error("failed to list pickups", zap.Error(err))
		return nil, fmt.Errorf("failed to list pickups: %w", err)
	}

	totalPages := int((total + int64(page.PageSize) - 1) / int64(page.PageSize))

	return &PickupPage{
		Items:      pickups,
		Total:      total,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: totalPages,
	}, nil
}

// ActionablePickups lists pickups still needing staff action - the pickup
// half of the ops queue.
func (s *PickupService) ActionablePickups(ctx context.Context, page domain.Pagination) (*PickupPage, error) {
	return s.ListPickups(ctx, domain.PickupFilter{
		Statuses: []domain.PickupStatus{
			domain.PickupStatusRequested,
			domain.PickupStatusApproved,
			domain.PickupStatusStaffUpdated,
		},
	}, page)
}

func (s *PickupService) publishPickupProcessed(pickup *domain.PickupRequest, purchase *domain.Purchase) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	event := domain.NewPickupProcessedEvent(pickup.ID, domain.PickupProcessedPayload{
		PickupID:    pickup.ID,
		PurchaseID:  purchase.ID,
		FarmerID:    pickup.FarmerID,
		FarmerPhone: pickup.FarmerPhone,
		WeightKg:    purchase.WeightKg,
		TotalAmount: purchase.TotalAmount,
		ProcessedAt: *pickup.ProcessedAt,
	})

	if err := s.eventPublisher.Publish(ctx, event); err != nil {
		s.logger.Error("failed to publish pickup processed event",
			zap.Error(err),
			zap.String("pickup_id", pickup.ID),
			zap.String("event_id", event.GetEventID()),
		)
	}
}
