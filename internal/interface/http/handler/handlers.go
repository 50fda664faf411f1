package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/promisepoint/lending-service/internal/application/service"
	"github.com/promisepoint/lending-service/internal/domain"
	sqlrepository "github.com/promisepoint/lending-service/internal/infrastructure/repository/mysql"
	"github.com/promisepoint/lending-service/internal/interface/http/dto"
	"go.uber.org/zap"
)

type Handlers struct {
	Loan     *LoanHandler
	Pickup   *PickupHandler
	LoanType *LoanTypeHandler
}

func NewHandlers(repos *sqlrepository.Repositories, eventPublisher domain.EventPublisher, logger *zap.Logger) *Handlers {
	loanService := service.NewLoanService(repos.Loan, repos.LoanType, eventPublisher, logger)
	pickupService := service.NewPickupService(repos.Pickup, repos.Purchase, repos.UoW, eventPublisher, logger)
	loanTypeService := service.NewLoanTypeService(repos.LoanType, logger)

	return &Handlers{
		Loan:     NewLoanHandler(loanService, logger),
		Pickup:   NewPickupHandler(pickupService, loanService, logger),
		LoanType: NewLoanTypeHandler(loanTypeService, logger),
	}
}

// HealthCheck handles the health check endpoint
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string, err error) {
	response := dto.ErrorResponse{
		Error:   message,
		Message: "",
	}

	if err != nil {
		response.Message = err.Error()
	}

	respondJSON(w, status, response)
}

// respondDomainError maps domain errors onto HTTP status codes. Lifecycle
// violations and stale-version writes both come back as conflicts so the
// caller knows to re-read and retry.
func respondDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		respondError(w, http.StatusNotFound, "not found", err)
	case errors.Is(err, domain.ErrValidation):
		respondError(w, http.StatusBadRequest, "validation failed", err)
	case errors.Is(err, domain.ErrInvalidStateTransition),
		errors.Is(err, domain.ErrPreconditionFailed),
		errors.Is(err, domain.ErrAlreadyDelivered),
		errors.Is(err, domain.ErrAlreadyProcessed),
		errors.Is(err, domain.ErrOptimisticLock):
		respondError(w, http.StatusConflict, "conflict", err)
	default:
		respondError(w, http.StatusInternalServerError, "internal error", err)
	}
}
