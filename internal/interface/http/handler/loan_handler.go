package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/promisepoint/lending-service/internal/application/service"
	"github.com/promisepoint/lending-service/internal/domain"
	"github.com/promisepoint/lending-service/internal/interface/http/dto"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type LoanHandler struct {
	loanService *service.LoanService
	logger      *zap.Logger
}

func NewLoanHandler(loanService *service.LoanService, logger *zap.Logger) *LoanHandler {
	return &LoanHandler{
		loanService: loanService,
		logger:      logger,
	}
}

// CreateLoan handles a new credit request
func (h *LoanHandler) CreateLoan(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateLoanRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if err := req.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, "validation failed", err)
		return
	}

	principal, err := req.GetPrincipalKobo()
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid principal amount", err)
		return
	}

	monthly, err := req.GetMonthlyPaymentKobo()
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid monthly payment", err)
		return
	}

	dueDate, err := req.GetDueDate()
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid due date", err)
		return
	}

	items, err := req.GetItems()
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid items", err)
		return
	}

	loan, err := h.loanService.CreateLoan(r.Context(), service.CreateLoanInput{
		Borrower:        req.GetBorrower(),
		LoanTypeID:      req.LoanTypeID,
		PrincipalAmount: principal,
		DueDate:         dueDate,
		Items:           items,
		MonthlyPayment:  monthly,
		Purpose:         req.Purpose,
	})
	if err != nil {
		h.logger.Warn("failed to create loan", zap.Error(err))
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, dto.NewLoanResponse(loan))
}

// ApproveLoan handles the requested -> approved transition
func (h *LoanHandler) ApproveLoan(w http.ResponseWriter, r *http.Request) {
	loanID := chi.URLParam(r, "loan_id")

	var req dto.ApproveLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if err := req.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, "validation failed", err)
		return
	}

	pickupDate, err := req.GetPickupDate()
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid pickup date", err)
		return
	}

	loan, err := h.loanService.ApproveLoanRequest(r.Context(), loanID, service.ApproveLoanInput{
		PickupDate:     pickupDate,
		PickupLocation: req.PickupLocation,
		AdminNotes:     req.AdminNotes,
	})
	if err != nil {
		h.logger.Warn("failed to approve loan",
			zap.Error(err),
			zap.String("loan_id", loanID),
		)
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewLoanResponse(loan))
}

// RecordDelivery reconciles a farmer loan's items to what was handed over
func (h *LoanHandler) RecordDelivery(w http.ResponseWriter, r *http.Request) {
	loanID := chi.URLParam(r, "loan_id")

	var req dto.RecordDeliveryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if err := req.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, "validation failed", err)
		return
	}

	items, err := req.GetItems()
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid items", err)
		return
	}

	loan, err := h.loanService.RecordLoanDelivery(r.Context(), loanID, service.RecordDeliveryInput{
		Items:              items,
		DeliveredByStaffID: req.DeliveredByStaffID,
		DeliveryNotes:      req.DeliveryNotes,
	})
	if err != nil {
		h.logger.Warn("failed to record loan delivery",
			zap.Error(err),
			zap.String("loan_id", loanID),
		)
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewLoanResponse(loan))
}

// ActivateLoan handles the approved -> active transition
func (h *LoanHandler) ActivateLoan(w http.ResponseWriter, r *http.Request) {
	loanID := chi.URLParam(r, "loan_id")

	loan, err := h.loanService.ActivateLoan(r.Context(), loanID)
	if err != nil {
		h.logger.Warn("failed to activate loan",
			zap.Error(err),
			zap.String("loan_id", loanID),
		)
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewLoanResponse(loan))
}

// GetLoan retrieves a single loan
func (h *LoanHandler) GetLoan(w http.ResponseWriter, r *http.Request) {
	loanID := chi.URLParam(r, "loan_id")

	loan, err := h.loanService.GetLoan(r.Context(), loanID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewLoanResponse(loan))
}

// ListLoans retrieves loans matching the query filters
func (h *LoanHandler) ListLoans(w http.ResponseWriter, r *http.Request) {
	filter, err := parseLoanFilter(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid filter", err)
		return
	}

	page := parsePagination(r)

	result, err := h.loanService.ListLoans(r.Context(), filter, page)
	if err != nil {
		h.logger.Error("failed to list loans", zap.Error(err))
		respondDomainError(w, err)
		return
	}

	items := make([]dto.LoanResponse, len(result.Items))
	for i, loan := range result.Items {
		items[i] = dto.NewLoanResponse(loan)
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"items": items,
		"pagination": map[string]interface{}{
			"page":        result.Page,
			"page_size":   result.PageSize,
			"total":       result.Total,
			"total_pages": result.TotalPages,
		},
	})
}

// GetLoanKPIs returns the aggregated loan metrics for the filter set
func (h *LoanHandler) GetLoanKPIs(w http.ResponseWriter, r *http.Request) {
	filter, err := parseLoanFilter(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid filter", err)
		return
	}

	kpis, err := h.loanService.GetLoanKPIs(r.Context(), filter)
	if err != nil {
		h.logger.Error("failed to compute loan KPIs", zap.Error(err))
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewLoanKPIResponse(kpis))
}

func parseLoanFilter(r *http.Request) (domain.LoanFilter, error) {
	var filter domain.LoanFilter
	q := r.URL.Query()

	if v := q.Get("status"); v != "" {
		status := domain.LoanStatus(v)
		filter.Status = &status
	}
	if v := q.Get("borrower_type"); v != "" {
		kind := domain.BorrowerKind(v)
		filter.BorrowerKind = &kind
	}
	if v := q.Get("delivery_status"); v != "" {
		ds := domain.DeliveryStatus(v)
		filter.DeliveryStatus = &ds
	}
	if v := q.Get("from"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return filter, err
		}
		filter.CreatedFrom = &t
	}
	if v := q.Get("to"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return filter, err
		}
		filter.CreatedTo = &t
	}

	return filter, nil
}

func parsePagination(r *http.Request) domain.Pagination {
	page := domain.Pagination{Page: 1, PageSize: 20}

	if v := r.URL.Query().Get("page"); v != "" {
		if p, err := strconv.Atoi(v); err == nil && p > 0 {
			page.Page = p
		}
	}
	if v := r.URL.Query().Get("page_size"); v != "" {
		if ps, err := strconv.Atoi(v); err == nil && ps > 0 {
			page.PageSize = ps
		}
	}

	return page
}
