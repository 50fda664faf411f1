package dto

import (
	"errors"
	"time"

	"github.com/promisepoint/lending-service/internal/domain"
)

type CreatePickupRequest struct {
	FarmerID    string `json:"farmer_id"`
	FarmerName  string `json:"farmer_name"`
	FarmerPhone string `json:"farmer_phone"`
	Channel     string `json:"channel"` // ussd | admin
}

func (r *CreatePickupRequest) Validate() error {
	if r.FarmerID == "" {
		return errors.New("farmer_id is required")
	}
	if r.FarmerName == "" {
		return errors.New("farmer_name is required")
	}
	if r.FarmerPhone == "" {
		return errors.New("farmer_phone is required")
	}
	if r.Channel == "" {
		return errors.New("channel is required")
	}
	return nil
}

type ApprovePickupRequest struct {
	ScheduledDate   string `json:"scheduled_date,omitempty"` // YYYY-MM-DD
	ApprovedNotes   string `json:"approved_notes,omitempty"`
	AssignedStaffID string `json:"assigned_staff_id,omitempty"`
}

func (r *ApprovePickupRequest) GetScheduledDate() (*time.Time, error) {
	if r.ScheduledDate == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, r.ScheduledDate)
	if err != nil {
		return nil, errors.New("scheduled_date must be in format 'YYYY-MM-DD'")
	}
	return &t, nil
}

type StaffProposalRequest struct {
	WeightKg   float64 `json:"weight_kg"`
	PricePerKg string  `json:"price_per_kg"` // naira
	StaffNotes string  `json:"staff_notes,omitempty"`
}

func (r *StaffProposalRequest) Validate() error {
	if r.WeightKg <= 0 {
		return errors.New("weight_kg must be positive")
	}
	if r.PricePerKg == "" {
		return errors.New("price_per_kg is required")
	}
	return nil
}

func (r *StaffProposalRequest) GetPricePerKgKobo() (int64, error) {
	return domain.ParseNairaToKobo(r.PricePerKg)
}

type ProcessPickupRequest struct {
	WeightKg   float64 `json:"weight_kg"`
	PricePerKg string  `json:"price_per_kg"` // naira
	Location   string  `json:"location,omitempty"`
	Notes      string  `json:"notes,omitempty"`
}

func (r *ProcessPickupRequest) GetPricePerKgKobo() (int64, error) {
	if r.PricePerKg == "" {
		return 0, nil
	}
	return domain.ParseNairaToKobo(r.PricePerKg)
}

type PickupResponse struct {
	ID                 string     `json:"id"`
	Reference          string     `json:"reference"`
	FarmerID           string     `json:"farmer_id"`
	FarmerName         string     `json:"farmer_name"`
	FarmerPhone        string     `json:"farmer_phone"`
	Channel            string     `json:"channel"`
	Status             string     `json:"status"`
	ScheduledDate      *time.Time `json:"scheduled_date,omitempty"`
	AssignedStaffID    string     `json:"assigned_staff_id,omitempty"`
	ApprovedNotes      string     `json:"approved_notes,omitempty"`
	StaffNotes         string     `json:"staff_notes,omitempty"`
	ProposedWeightKg   float64    `json:"proposed_weight_kg,omitempty"`
	ProposedPricePerKg int64      `json:"proposed_price_per_kg,omitempty"` // kobo
	LinkedPurchaseID   string     `json:"linked_purchase_id,omitempty"`
	ProcessedAt        *time.Time `json:"processed_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
}

func NewPickupResponse(p *domain.PickupRequest) PickupResponse {
	return PickupResponse{
		ID:                 p.ID,
		Reference:          p.Reference,
		FarmerID:           p.FarmerID,
		FarmerName:         p.FarmerName,
		FarmerPhone:        p.FarmerPhone,
		Channel:            string(p.Channel),
		Status:             string(p.Status),
		ScheduledDate:      p.ScheduledDate,
		AssignedStaffID:    p.AssignedStaffID,
		ApprovedNotes:      p.ApprovedNotes,
		StaffNotes:         p.StaffNotes,
		ProposedWeightKg:   p.ProposedWeightKg,
		ProposedPricePerKg: p.ProposedPricePerKg,
		LinkedPurchaseID:   p.LinkedPurchaseID,
		ProcessedAt:        p.ProcessedAt,
		CreatedAt:          p.CreatedAt,
	}
}

type PurchaseResponse struct {
	ID               string    `json:"id"`
	Reference        string    `json:"reference"`
	FarmerID         string    `json:"farmer_id"`
	PickupRequestID  string    `json:"pickup_request_id"`
	WeightKg         float64   `json:"weight_kg"`
	PricePerKg       int64     `json:"price_per_kg"` // kobo
	TotalAmount      int64     `json:"total_amount"` // kobo
	TotalAmountNaira string    `json:"total_amount_naira"`
	Location         string    `json:"location,omitempty"`
	Notes            string    `json:"notes,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

func NewPurchaseResponse(p *domain.Purchase) PurchaseResponse {
	return PurchaseResponse{
		ID:               p.ID,
		Reference:        p.Reference,
		FarmerID:         p.FarmerID,
		PickupRequestID:  p.PickupRequestID,
		WeightKg:         p.WeightKg,
		PricePerKg:       p.PricePerKg,
		TotalAmount:      p.TotalAmount,
		TotalAmountNaira: domain.KoboToNaira(p.TotalAmount).StringFixed(2),
		Location:         p.Location,
		Notes:            p.Notes,
		CreatedAt:        p.CreatedAt,
	}
}
