package sqlrepository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/promisepoint/lending-service/internal/domain"
	"github.com/promisepoint/lending-service/internal/infrastructure/persistence"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type GORMPickupRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewPickupRepository(db *gorm.DB, logger *zap.Logger) *GORMPickupRepository {
	return &GORMPickupRepository{db: db, logger: logger}
}

func (r *GORMPickupRepository) Create(ctx context.Context, p *domain.PickupRequest) error {
	model := persistence.PickupRequestModelFromDomain(p)

	result := r.db.WithContext(ctx).Create(model)
	if result.Error != nil {
		r.logger.Error("failed to create pickup request", zap.Error(result.Error))
		return fmt.Errorf("failed to create pickup request: %w", result.Error)
	}

	return nil
}

func (r *GORMPickupRepository) FindByID(ctx context.Context, id string) (*domain.PickupRequest, error) {
	var model persistence.PickupRequestModel
	result := r.db.WithContext(ctx).First(&model, "id = ?", id)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error("failed to query pickup request", zap.Error(result.Error))
		return nil, fmt.Errorf("database error: %w", result.Error)
	}

	return model.ToDomain(), nil
}

// Save uses the same version compare-and-swap as the loan repository.
func (r *GORMPickupRepository) Save(ctx context.Context, p *domain.PickupRequest) error {
	model := persistence.PickupRequestModelFromDomain(p)

	result := r.db.WithContext(ctx).
		Model(&persistence.PickupRequestModel{}).
		Where("id = ? AND version = ?", p.ID, p.Version).
		Updates(map[string]interface{}{
			"status":                model.Status,
			"scheduled_date":        model.ScheduledDate,
			"assigned_staff_id":     model.AssignedStaffID,
			"approved_notes":        model.ApprovedNotes,
			"staff_notes":           model.StaffNotes,
			"proposed_weight_kg":    model.ProposedWeightKg,
			"proposed_price_per_kg": model.ProposedPricePerKg,
			"has_proposal":          model.HasProposal,
			"linked_purchase_id":    model.LinkedPurchaseID,
			"processed_at":          model.ProcessedAt,
			"version":               gorm.Expr("version + 1"),
			"updated_at":            time.Now(),
		})

	if result.Error != nil {
		r.logger.Error("failed to save pickup request", zap.Error(result.Error))
		return fmt.Errorf("database error: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrOptimisticLock
	}

	p.Version++

	return nil
}

func (r *GORMPickupRepository) List(ctx context.Context, filter domain.PickupFilter, page domain.Pagination) ([]*domain.PickupRequest, int64, error) {
	applyFilter := func(q *gorm.DB) *gorm.DB {
		if len(filter.Statuses) > 0 {
			statuses := make([]string, len(filter.Statuses))
			for i, s := range filter.Statuses {
				statuses[i] = string(s)
			}
			q = q.Where("status IN ?", statuses)
		}
		if filter.FarmerID != "" {
			q = q.Where("farmer_id = ?", filter.FarmerID)
		}
		if filter.CreatedFrom != nil {
			q = q.Where("created_at >= ?", *filter.CreatedFrom)
		}
		if filter.CreatedTo != nil {
			q = q.Where("created_at <= ?", *filter.CreatedTo)
		}
		return q
	}

	var total int64
	if err := applyFilter(r.db.WithContext(ctx).Model(&persistence.PickupRequestModel{})).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count pickup requests: %w", err)
	}

	var models []persistence.PickupRequestModel
	query := applyFilter(r.db.WithContext(ctx)).
		Order("created_at DESC").
		Limit(page.PageSize).
		Offset(page.Offset())

	if err := query.Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to query pickup requests: %w", err)
	}

	pickups := make([]*domain.PickupRequest, len(models))
	for i := range models {
		pickups[i] = models[i].ToDomain()
	}

	return pickups, total, nil
}
