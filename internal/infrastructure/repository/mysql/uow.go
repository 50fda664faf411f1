package sqlrepository

import (
	"context"
	"fmt"
	"time"

	"github.com/promisepoint/lending-service/internal/domain"
	"github.com/promisepoint/lending-service/internal/infrastructure/persistence"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// GORMPickupUnitOfWork commits the two writes of pickup processing in one
// database transaction: the purchase insert and the pickup's status flip.
// The pickup update is a compare-and-swap on version, so a concurrent
// processor loses the race, the transaction rolls back and no orphan
// purchase survives. The unique index on purchases.pickup_request_id is the
// backstop making purchase creation idempotent per pickup.
type GORMPickupUnitOfWork struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewPickupUnitOfWork(db *gorm.DB, logger *zap.Logger) *GORMPickupUnitOfWork {
	return &GORMPickupUnitOfWork{db: db, logger: logger}
}

func (u *GORMPickupUnitOfWork) ProcessPickup(ctx context.Context, pickup *domain.PickupRequest, purchase *domain.Purchase) error {
	err := u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		purchaseModel := persistence.PurchaseModelFromDomain(purchase)
		if err := tx.Create(purchaseModel).Error; err != nil {
			if isDuplicateError(err) {
				return domain.ErrAlreadyProcessed
			}
			return fmt.Errorf("failed to create purchase: %w", err)
		}

		pickupModel := persistence.PickupRequestModelFromDomain(pickup)
		result := tx.Model(&persistence.PickupRequestModel{}).
			Where("id = ? AND version = ?", pickup.ID, pickup.Version).
			Updates(map[string]interface{}{
				"status":             pickupModel.Status,
				"linked_purchase_id": pickupModel.LinkedPurchaseID,
				"processed_at":       pickupModel.ProcessedAt,
				"version":            gorm.Expr("version + 1"),
				"updated_at":         time.Now(),
			})

		if result.Error != nil {
			return fmt.Errorf("failed to update pickup: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return domain.ErrOptimisticLock
		}

		return nil
	})

	if err != nil {
		u.logger.Warn("pickup processing transaction failed",
			zap.Error(err),
			zap.String("pickup_id", pickup.ID),
		)
		return err
	}

	pickup.Version++

	return nil
}
