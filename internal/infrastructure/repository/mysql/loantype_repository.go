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

type GORMLoanTypeRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewLoanTypeRepository(db *gorm.DB, logger *zap.Logger) *GORMLoanTypeRepository {
	return &GORMLoanTypeRepository{db: db, logger: logger}
}

func (r *GORMLoanTypeRepository) Create(ctx context.Context, lt *domain.LoanType) error {
	model := persistence.LoanTypeModelFromDomain(lt)

	result := r.db.WithContext(ctx).Create(model)
	if result.Error != nil {
		r.logger.Error("failed to create loan type", zap.Error(result.Error))
		return fmt.Errorf("failed to create loan type: %w", result.Error)
	}

	return nil
}

func (r *GORMLoanTypeRepository) FindByID(ctx context.Context, id string) (*domain.LoanType, error) {
	var model persistence.LoanTypeModel
	result := r.db.WithContext(ctx).First(&model, "id = ?", id)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", result.Error)
	}

	return model.ToDomain(), nil
}

func (r *GORMLoanTypeRepository) List(ctx context.Context, activeOnly bool) ([]*domain.LoanType, error) {
	query := r.db.WithContext(ctx).Order("created_at DESC")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var models []persistence.LoanTypeModel
	if err := query.Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to query loan types: %w", err)
	}

	types := make([]*domain.LoanType, len(models))
	for i := range models {
		types[i] = models[i].ToDomain()
	}

	return types, nil
}

func (r *GORMLoanTypeRepository) Save(ctx context.Context, lt *domain.LoanType) error {
	model := persistence.LoanTypeModelFromDomain(lt)

	result := r.db.WithContext(ctx).
		Model(&persistence.LoanTypeModel{}).
		Where("id = ?", lt.ID).
		Updates(map[string]interface{}{
			"name":      model.Name,
			"is_active": model.IsActive,
		})

	if result.Error != nil {
		r.logger.Error("failed to save loan type", zap.Error(result.Error))
		return fmt.Errorf("database error: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}

	return nil
}
