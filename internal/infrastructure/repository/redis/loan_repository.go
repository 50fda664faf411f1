package redisrepository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/promisepoint/lending-service/internal/domain"
	"github.com/go-redis/redis/v8"
)

// RedisLoanRepository is a cache-aside layer in front of the MySQL loan
// store. It only serves reads; writers invalidate before touching MySQL.
type RedisLoanRepository struct {
	client   *redis.Client
	cacheTTL time.Duration
}

func NewRedisLoanRepository(client *redis.Client, cacheTTL time.Duration) *RedisLoanRepository {
	return &RedisLoanRepository{
		client:   client,
		cacheTTL: cacheTTL,
	}
}

func (r *RedisLoanRepository) FindByID(ctx context.Context, loanID string) (*domain.Loan, error) {
	key := r.loanKey(loanID)

	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get loan: %w", err)
	}

	var loan domain.Loan
	if err := json.Unmarshal(data, &loan); err != nil {
		return nil, fmt.Errorf("failed to unmarshal loan: %w", err)
	}

	return &loan, nil
}

func (r *RedisLoanRepository) Save(ctx context.Context, loan *domain.Loan) error {
	key := r.loanKey(loan.ID)

	data, err := json.Marshal(loan)
	if err != nil {
		return fmt.Errorf("failed to marshal loan: %w", err)
	}

	if err := r.client.Set(ctx, key, data, r.cacheTTL).Err(); err != nil {
		return fmt.Errorf("failed to save loan: %w", err)
	}

	return nil
}

func (r *RedisLoanRepository) Delete(ctx context.Context, loanID string) error {
	key := r.loanKey(loanID)
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete loan: %w", err)
	}
	return nil
}

func (r *RedisLoanRepository) loanKey(loanID string) string {
	return fmt.Sprintf("loan:%s", loanID)
}
