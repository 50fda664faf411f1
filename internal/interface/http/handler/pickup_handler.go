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

type PickupHandler struct {
	pickupService *service.PickupService
	loanService   *service.LoanService
	logger        *zap.Logger
}

func NewPickupHandler(pickupService *service.PickupService, loanService *service.LoanService, logger *zap.Logger) *PickupHandler {
	return &PickupHandler{
		pickupService: pickupService,
		loanService:   loanService,
		logger:        logger,
	}
}

// CreatePickup handles a farmer's produce pickup request
func (h *PickupHandler) CreatePickup(w http.ResponseWriter, r *http.Request) {
	var req dto.CreatePickupRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if err := req.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, "validation failed", err)
		return
	}

	pickup, err := h.pickupService.CreatePickupRequest(r.Context(), service.CreatePickupInput{
		FarmerID:    req.FarmerID,
		FarmerName:  req.FarmerName,
		FarmerPhone: req.FarmerPhone,
		Channel:     domain.PickupChannel(req.Channel),
	})
	if err != nil {
		h.logger.Warn("failed to create pickup request", zap.Error(err))
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, dto.NewPickupResponse(pickup))
}

// ApprovePickup handles the requested -> approved transition
func (h *PickupHandler) ApprovePickup(w http.ResponseWriter, r *http.Request) {
	pickupID := chi.URLParam(r, "pickup_id")

	var req dto.ApprovePickupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	scheduledDate, err := req.GetScheduledDate()
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid scheduled date", err)
		return
	}

	pickup, err := h.pickupService.ApprovePickupRequest(r.Context(), pickupID, service.ApprovePickupInput{
		ScheduledDate:   scheduledDate,
		ApprovedNotes:   req.ApprovedNotes,
		AssignedStaffID: req.AssignedStaffID,
	})
	if err != nil {
		h.logger.Warn("failed to approve pickup",
			zap.Error(err),
			zap.String("pickup_id", pickupID),
		)
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewPickupResponse(pickup))
}

// StaffProposal records the field staff's weight and price assessment
func (h *PickupHandler) StaffProposal(w http.ResponseWriter, r *http.Request) {
	pickupID := chi.URLParam(r, "pickup_id")

	var req dto.StaffProposalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if err := req.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, "validation failed", err)
		return
	}

	pricePerKg, err := req.GetPricePerKgKobo()
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid price per kg", err)
		return
	}

	pickup, err := h.pickupService.RecordStaffProposal(r.Context(), pickupID, service.StaffProposalInput{
		WeightKg:   req.WeightKg,
		PricePerKg: pricePerKg,
		StaffNotes: req.StaffNotes,
	})
	if err != nil {
		h.logger.Warn("failed to record staff proposal",
			zap.Error(err),
			zap.String("pickup_id", pickupID),
		)
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewPickupResponse(pickup))
}

// ProcessPickup converts an approved pickup into a purchase record
func (h *PickupHandler) ProcessPickup(w http.ResponseWriter, r *http.Request) {
	pickupID := chi.URLParam(r, "pickup_id")

	var req dto.ProcessPickupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	pricePerKg, err := req.GetPricePerKgKobo()
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid price per kg", err)
		return
	}

	result, err := h.pickupService.ProcessPickupToPurchase(r.Context(), pickupID, service.ProcessPickupInput{
		WeightKg:   req.WeightKg,
		PricePerKg: pricePerKg,
		Location:   req.Location,
		Notes:      req.Notes,
	})
	if err != nil {
		h.logger.Warn("failed to process pickup",
			zap.Error(err),
			zap.String("pickup_id", pickupID),
		)
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"pickup":   dto.NewPickupResponse(result.Pickup),
		"purchase": dto.NewPurchaseResponse(result.Purchase),
	})
}

// CancelPickup handles cancellation from any non-terminal status
func (h *PickupHandler) CancelPickup(w http.ResponseWriter, r *http.Request) {
	pickupID := chi.URLParam(r, "pickup_id")

	pickup, err := h.pickupService.CancelPickupRequest(r.Context(), pickupID)
	if err != nil {
		h.logger.Warn("failed to cancel pickup",
			zap.Error(err),
			zap.String("pickup_id", pickupID),
		)
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewPickupResponse(pickup))
}

// GetPickup retrieves a single pickup request
func (h *PickupHandler) GetPickup(w http.ResponseWriter, r *http.Request) {
	pickupID := chi.URLParam(r, "pickup_id")

	pickup, err := h.pickupService.GetPickup(r.Context(), pickupID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewPickupResponse(pickup))
}

// GetPurchase retrieves a single purchase record
func (h *PickupHandler) GetPurchase(w http.ResponseWriter, r *http.Request) {
	purchaseID := chi.URLParam(r, "purchase_id")

	purchase, err := h.pickupService.GetPurchase(r.Context(), purchaseID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewPurchaseResponse(purchase))
}

// PickupPurchase retrieves the purchase produced by a processed pickup
func (h *PickupHandler) PickupPurchase(w http.ResponseWriter, r *http.Request) {
	pickupID := chi.URLParam(r, "pickup_id")

	purchase, err := h.pickupService.GetPurchaseForPickup(r.Context(), pickupID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewPurchaseResponse(purchase))
}

// ListPickups retrieves pickups matching the query filters
func (h *PickupHandler) ListPickups(w http.ResponseWriter, r *http.Request) {
	var filter domain.PickupFilter
	q := r.URL.Query()

	if v := q.Get("status"); v != "" {
		filter.Statuses = []domain.PickupStatus{domain.PickupStatus(v)}
	}
	filter.FarmerID = q.Get("farmer_id")

	page := parsePagination(r)

	result, err := h.pickupService.ListPickups(r.Context(), filter, page)
	if err != nil {
		h.logger.Error("failed to list pickups", zap.Error(err))
		respondDomainError(w, err)
		return
	}

	items := make([]dto.PickupResponse, len(result.Items))
	for i, pickup := range result.Items {
		items[i] = dto.NewPickupResponse(pickup)
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

// OpsQueue returns the combined field-operations worklist: approved farmer
// loans still awaiting delivery, and pickups awaiting staff action.
func (h *PickupHandler) OpsQueue(w http.ResponseWriter, r *http.Request) {
	page := parsePagination(r)

	deliveries, err := h.loanService.PendingDeliveries(r.Context(), page)
	if err != nil {
		h.logger.Error("failed to list pending deliveries", zap.Error(err))
		respondDomainError(w, err)
		return
	}

	pickups, err := h.pickupService.ActionablePickups(r.Context(), page)
	if err != nil {
		h.logger.Error("failed to list actionable pickups", zap.Error(err))
		respondDomainError(w, err)
		return
	}

	loanItems := make([]dto.LoanResponse, len(deliveries.Items))
	for i, loan := range deliveries.Items {
		loanItems[i] = dto.NewLoanResponse(loan)
	}

	pickupItems := make([]dto.PickupResponse, len(pickups.Items))
	for i, pickup := range pickups.Items {
		pickupItems[i] = dto.NewPickupResponse(pickup)
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"pending_deliveries": map[string]interface{}{
			"items": loanItems,
			"total": deliveries.Total,
		},
		"actionable_pickups": map[string]interface{}{
			"items": pickupItems,
			"total": pickups.Total,
		},
	})
}
