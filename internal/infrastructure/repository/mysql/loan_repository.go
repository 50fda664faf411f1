package sqlrepository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/promisepoint/lending-service/internal/domain"
	"github.com/promisepoint/lending-service/internal/infrastructure/persistence"
	redisrepository "github.com/promisepoint/lending-service/internal/infrastructure/repository/redis"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type GORMLoanRepository struct {
	db        *gorm.DB
	redisRepo *redisrepository.RedisLoanRepository
	logger    *zap.Logger
}

func NewLoanRepository(db *gorm.DB, redisClient *redis.Client, logger *zap.Logger) *GORMLoanRepository {
	return &GORMLoanRepository{
		db:        db,
		redisRepo: redisrepository.NewRedisLoanRepository(redisClient, 5*time.Minute),
		logger:    logger,
	}
}

func (r *GORMLoanRepository) Create(ctx context.Context, loan *domain.Loan) error {
	model := persistence.LoanModelFromDomain(loan)

	result := r.db.WithContext(ctx).Create(model)
	if result.Error != nil {
		r.logger.Error("failed to create loan", zap.Error(result.Error))
		return fmt.Errorf("failed to create loan: %w", result.Error)
	}

	r.logger.Debug("loan created",
		zap.String("loan_id", loan.ID),
		zap.String("reference", loan.Reference),
	)

	return nil
}

func (r *GORMLoanRepository) FindByID(ctx context.Context, id string) (*domain.Loan, error) {
	// Try Redis cache first
	cached, err := r.redisRepo.FindByID(ctx, id)
	if err == nil {
		r.logger.Debug("loan cache hit", zap.String("loan_id", id))
		return cached, nil
	}

	var model persistence.LoanModel
	result := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		First(&model, "id = ?", id)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error("failed to query loan", zap.Error(result.Error))
		return nil, fmt.Errorf("database error: %w", result.Error)
	}

	loan := model.ToDomain()

	// Update cache asynchronously
	go r.redisRepo.Save(context.Background(), loan)

	return loan, nil
}

func (r *GORMLoanRepository) FindByReference(ctx context.Context, reference string) (*domain.Loan, error) {
	var model persistence.LoanModel
	result := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		First(&model, "reference = ?", reference)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", result.Error)
	}

	return model.ToDomain(), nil
}

// Save persists a mutated loan behind a compare-and-swap on the version
// column. Two concurrent transitions against the same loan cannot both
// succeed: the loser sees zero rows affected and gets ErrOptimisticLock.
// Items are replaced inside the same transaction so delivery reconciliation
// is atomic with the status fields.
func (r *GORMLoanRepository) Save(ctx context.Context, loan *domain.Loan) error {
	model := persistence.LoanModelFromDomain(loan)

	// Invalidate cache before writing so concurrent readers refetch.
	if err := r.redisRepo.Delete(ctx, loan.ID); err != nil {
		r.logger.Warn("failed to invalidate cache before save",
			zap.Error(err),
			zap.String("loan_id", loan.ID))
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&persistence.LoanModel{}).
			Where("id = ? AND version = ?", loan.ID, loan.Version).
			Updates(map[string]interface{}{
				"status":                model.Status,
				"delivery_status":       model.DeliveryStatus,
				"pickup_date":           model.PickupDate,
				"pickup_location":       model.PickupLocation,
				"admin_notes":           model.AdminNotes,
				"amount_paid":           model.AmountPaid,
				"amount_outstanding":    model.AmountOutstanding,
				"approved_at":           model.ApprovedAt,
				"disbursed_at":          model.DisbursedAt,
				"completed_at":          model.CompletedAt,
				"defaulted_at":          model.DefaultedAt,
				"delivery_confirmed_at": model.DeliveryConfirmedAt,
				"delivered_by_staff_id": model.DeliveredByStaffID,
				"delivery_notes":        model.DeliveryNotes,
				"version":               gorm.Expr("version + 1"),
				"updated_at":            time.Now(),
			})

		if result.Error != nil {
			return fmt.Errorf("database error: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return domain.ErrOptimisticLock
		}

		if err := tx.Where("loan_id = ?", loan.ID).Delete(&persistence.LoanItemModel{}).Error; err != nil {
			return fmt.Errorf("failed to clear loan items: %w", err)
		}
		if len(model.Items) > 0 {
			if err := tx.Create(&model.Items).Error; err != nil {
				return fmt.Errorf("failed to write loan items: %w", err)
			}
		}

		return nil
	})

	if err != nil {
		if !errors.Is(err, domain.ErrOptimisticLock) {
			r.logger.Error("failed to save loan", zap.Error(err), zap.String("loan_id", loan.ID))
		}
		return err
	}

	loan.Version++

	if err := r.redisRepo.Save(ctx, loan); err != nil {
		r.logger.Warn("failed to update cache after save",
			zap.Error(err),
			zap.String("loan_id", loan.ID))
	}

	r.logger.Debug("loan saved",
		zap.String("loan_id", loan.ID),
		zap.Int64("version", loan.Version),
	)

	return nil
}

func applyLoanFilter(q *gorm.DB, filter domain.LoanFilter) *gorm.DB {
	if filter.Status != nil {
		q = q.Where("status = ?", string(*filter.Status))
	}
	if filter.BorrowerKind != nil {
		q = q.Where("borrower_kind = ?", string(*filter.BorrowerKind))
	}
	if filter.DeliveryStatus != nil {
		q = q.Where("delivery_status = ?", string(*filter.DeliveryStatus))
	}
	if filter.CreatedFrom != nil {
		q = q.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		q = q.Where("created_at <= ?", *filter.CreatedTo)
	}
	return q
}

func (r *GORMLoanRepository) List(ctx context.Context, filter domain.LoanFilter, page domain.Pagination) ([]*domain.Loan, int64, error) {
	var total int64
	countQuery := applyLoanFilter(r.db.WithContext(ctx).Model(&persistence.LoanModel{}), filter)
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count loans: %w", err)
	}

	var models []persistence.LoanModel
	query := applyLoanFilter(r.db.WithContext(ctx), filter).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Order("created_at DESC").
		Limit(page.PageSize).
		Offset(page.Offset())

	if err := query.Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to query loans: %w", err)
	}

	loans := make([]*domain.Loan, len(models))
	for i := range models {
		loans[i] = models[i].ToDomain()
	}

	return loans, total, nil
}

func (r *GORMLoanRepository) FindActive(ctx context.Context) ([]*domain.Loan, error) {
	var models []persistence.LoanModel
	result := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Where("status = ?", string(domain.LoanStatusActive)).
		Find(&models)

	if result.Error != nil {
		return nil, fmt.Errorf("failed to query active loans: %w", result.Error)
	}

	loans := make([]*domain.Loan, len(models))
	for i := range models {
		loans[i] = models[i].ToDomain()
	}

	return loans, nil
}

func (r *GORMLoanRepository) KPIs(ctx context.Context, filter domain.LoanFilter) (*domain.LoanKPIs, error) {
	type statusCount struct {
		Status string
		Count  int64
	}

	var rows []statusCount
	query := applyLoanFilter(r.db.WithContext(ctx).Model(&persistence.LoanModel{}), filter)
	if err := query.Select("status, COUNT(*) AS count").Group("status").Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate loan statuses: %w", err)
	}

	kpis := &domain.LoanKPIs{
		CountsByStatus: make(map[domain.LoanStatus]int64),
	}
	for _, row := range rows {
		kpis.CountsByStatus[domain.LoanStatus(row.Status)] = row.Count
		kpis.TotalLoans += row.Count
	}

	type sums struct {
		Disbursed   int64
		Outstanding int64
	}
	var s sums
	sumQuery := applyLoanFilter(r.db.WithContext(ctx).Model(&persistence.LoanModel{}), filter)
	err := sumQuery.Select(
		"COALESCE(SUM(CASE WHEN status IN ('active','completed','defaulted') THEN principal_amount ELSE 0 END), 0) AS disbursed, " +
			"COALESCE(SUM(CASE WHEN status = 'active' THEN amount_outstanding ELSE 0 END), 0) AS outstanding",
	).Scan(&s).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate loan amounts: %w", err)
	}

	kpis.TotalDisbursed = s.Disbursed
	kpis.TotalOutstanding = s.Outstanding

	everActive := kpis.CountsByStatus[domain.LoanStatusActive] +
		kpis.CountsByStatus[domain.LoanStatusCompleted] +
		kpis.CountsByStatus[domain.LoanStatusDefaulted]
	if everActive > 0 {
		kpis.DefaultRate = float64(kpis.CountsByStatus[domain.LoanStatusDefaulted]) / float64(everActive)
	}

	return kpis, nil
}
