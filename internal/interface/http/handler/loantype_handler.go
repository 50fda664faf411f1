package handler

import (
	"encoding/json"
	"net/http"

	"github.com/promisepoint/lending-service/internal/application/service"
	"github.com/promisepoint/lending-service/internal/domain"
	"github.com/promisepoint/lending-service/internal/interface/http/dto"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type LoanTypeHandler struct {
	loanTypeService *service.LoanTypeService
	logger          *zap.Logger
}

func NewLoanTypeHandler(loanTypeService *service.LoanTypeService, logger *zap.Logger) *LoanTypeHandler {
	return &LoanTypeHandler{
		loanTypeService: loanTypeService,
		logger:          logger,
	}
}

// CreateLoanType registers a new product in the loan type catalogue
func (h *LoanTypeHandler) CreateLoanType(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateLoanTypeRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if err := req.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, "validation failed", err)
		return
	}

	minAmount, err := req.GetMinAmountKobo()
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid min amount", err)
		return
	}

	maxAmount, err := req.GetMaxAmountKobo()
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid max amount", err)
		return
	}

	lt, err := h.loanTypeService.CreateLoanType(r.Context(), service.CreateLoanTypeInput{
		Name:           req.Name,
		UserType:       domain.BorrowerKind(req.UserType),
		Category:       domain.LoanCategory(req.Category),
		InterestRate:   req.InterestRate,
		DurationMonths: req.DurationMonths,
		MinAmount:      minAmount,
		MaxAmount:      maxAmount,
	})
	if err != nil {
		h.logger.Warn("failed to create loan type", zap.Error(err))
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, dto.NewLoanTypeResponse(lt))
}

// GetLoanType retrieves a single loan type
func (h *LoanTypeHandler) GetLoanType(w http.ResponseWriter, r *http.Request) {
	loanTypeID := chi.URLParam(r, "loan_type_id")

	lt, err := h.loanTypeService.GetLoanType(r.Context(), loanTypeID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewLoanTypeResponse(lt))
}

// ListLoanTypes lists the catalogue, optionally only active products
func (h *LoanTypeHandler) ListLoanTypes(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") == "true"

	types, err := h.loanTypeService.ListLoanTypes(r.Context(), activeOnly)
	if err != nil {
		h.logger.Error("failed to list loan types", zap.Error(err))
		respondDomainError(w, err)
		return
	}

	items := make([]dto.LoanTypeResponse, len(types))
	for i, lt := range types {
		items[i] = dto.NewLoanTypeResponse(lt)
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"items": items,
		"count": len(items),
	})
}

// DeactivateLoanType retires a product without deleting it
func (h *LoanTypeHandler) DeactivateLoanType(w http.ResponseWriter, r *http.Request) {
	loanTypeID := chi.URLParam(r, "loan_type_id")

	lt, err := h.loanTypeService.DeactivateLoanType(r.Context(), loanTypeID)
	if err != nil {
		h.logger.Warn("failed to deactivate loan type",
			zap.Error(err),
			zap.String("loan_type_id", loanTypeID),
		)
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewLoanTypeResponse(lt))
}
