package dto

import (
	"errors"
	"time"

	"github.com/promisepoint/lending-service/internal/domain"
)

type CreateLoanTypeRequest struct {
	Name           string  `json:"name"`
	UserType       string  `json:"user_type"` // farmer | staff
	Category       string  `json:"category"`
	InterestRate   float64 `json:"interest_rate"`
	DurationMonths int     `json:"duration_months"`
	MinAmount      string  `json:"min_amount,omitempty"` // naira
	MaxAmount      string  `json:"max_amount,omitempty"` // naira
}

func (r *CreateLoanTypeRequest) Validate() error {
	if r.Name == "" {
		return errors.New("name is required")
	}
	if r.UserType == "" {
		return errors.New("user_type is required")
	}
	if r.Category == "" {
		return errors.New("category is required")
	}
	return nil
}

func (r *CreateLoanTypeRequest) GetMinAmountKobo() (int64, error) {
	if r.MinAmount == "" {
		return 0, nil
	}
	return domain.ParseNairaToKobo(r.MinAmount)
}

func (r *CreateLoanTypeRequest) GetMaxAmountKobo() (int64, error) {
	if r.MaxAmount == "" {
		return 0, nil
	}
	return domain.ParseNairaToKobo(r.MaxAmount)
}

type LoanTypeResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	UserType       string    `json:"user_type"`
	Category       string    `json:"category"`
	InterestRate   float64   `json:"interest_rate"`
	DurationMonths int       `json:"duration_months"`
	MinAmount      int64     `json:"min_amount,omitempty"` // kobo
	MaxAmount      int64     `json:"max_amount,omitempty"` // kobo
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
}

func NewLoanTypeResponse(lt *domain.LoanType) LoanTypeResponse {
	return LoanTypeResponse{
		ID:             lt.ID,
		Name:           lt.Name,
		UserType:       string(lt.UserType),
		Category:       string(lt.Category),
		InterestRate:   lt.InterestRate,
		DurationMonths: lt.DurationMonths,
		MinAmount:      lt.MinAmount,
		MaxAmount:      lt.MaxAmount,
		IsActive:       lt.IsActive,
		CreatedAt:      lt.CreatedAt,
	}
}
