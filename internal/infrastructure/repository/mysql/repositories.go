package sqlrepository

import (
	"errors"
	"strings"

	"github.com/promisepoint/lending-service/internal/domain"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Repositories struct {
	Loan     domain.LoanRepository
	LoanType domain.LoanTypeRepository
	Pickup   domain.PickupRepository
	Purchase domain.PurchaseRepository
	UoW      domain.PickupUnitOfWork
}

func NewRepositories(db *gorm.DB, redisClient *redis.Client, logger *zap.Logger) *Repositories {
	return &Repositories{
		Loan:     NewLoanRepository(db, redisClient, logger),
		LoanType: NewLoanTypeRepository(db, logger),
		Pickup:   NewPickupRepository(db, logger),
		Purchase: NewPurchaseRepository(db, logger),
		UoW:      NewPickupUnitOfWork(db, logger),
	}
}

func isDuplicateError(err error) bool {
	if err == nil {
		return false
	}

	return errors.Is(err, gorm.ErrDuplicatedKey) ||
		strings.Contains(err.Error(), "Duplicate entry") ||
		strings.Contains(err.Error(), "UNIQUE constraint")
}
