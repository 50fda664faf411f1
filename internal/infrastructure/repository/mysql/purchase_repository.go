package sqlrepository

import (
	"context"
	"errors"
	"fmt"

	"github.com/promisepoint/lending-service/internal/domain"
	"github.com/promisepoint/lending-service/internal/infrastructure/persistence"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type GORMPurchaseRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewPurchaseRepository(db *gorm.DB, logger *zap.Logger) *GORMPurchaseRepository {
	return &GORMPurchaseRepository{db: db, logger: logger}
}

func (r *GORMPurchaseRepository) Create(ctx context.Context, p *domain.Purchase) error {
	model := persistence.PurchaseModelFromDomain(p)

	result := r.db.WithContext(ctx).Create(model)
	if result.Error != nil {
		if isDuplicateError(result.Error) {
			// The unique index on pickup_request_id makes purchase creation
			// idempotent per pickup.
			return domain.ErrAlreadyProcessed
		}
		r.logger.Error("failed to create purchase", zap.Error(result.Error))
		return fmt.Errorf("failed to create purchase: %w", result.Error)
	}

	return nil
}

func (r *GORMPurchaseRepository) FindByID(ctx context.Context, id string) (*domain.Purchase, error) {
	var model persistence.PurchaseModel
	result := r.db.WithContext(ctx).First(&model, "id = ?", id)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", result.Error)
	}

	return model.ToDomain(), nil
}

func (r *GORMPurchaseRepository) FindByPickupRequestID(ctx context.Context, pickupID string) (*domain.Purchase, error) {
	var model persistence.PurchaseModel
	result := r.db.WithContext(ctx).First(&model, "pickup_request_id = ?", pickupID)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", result.Error)
	}

	return model.ToDomain(), nil
}
