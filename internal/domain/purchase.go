package domain

import (
	"fmt"
	"time"
)

// Purchase records produce bought from a farmer, created exactly once per
// processed pickup request.
type Purchase struct {
	ID              string
	Reference       string
	FarmerID        string
	PickupRequestID string
	WeightKg        float64
	PricePerKg      int64 // kobo
	TotalAmount     int64 // kobo, weight * price per kg
	Location        string
	Notes           string
	CreatedAt       time.Time
}

func NewPurchase(farmerID, pickupRequestID string, weightKg float64, pricePerKgKobo int64, location, notes string, now time.Time) (*Purchase, error) {
	if farmerID == "" {
		return nil, fmt.Errorf("%w: farmer_id is required", ErrValidation)
	}
	if weightKg <= 0 {
		return nil, fmt.Errorf("%w: weight must be positive", ErrValidation)
	}
	if pricePerKgKobo <= 0 {
		return nil, fmt.Errorf("%w: price per kg must be positive", ErrValidation)
	}

	return &Purchase{
		FarmerID:        farmerID,
		PickupRequestID: pickupRequestID,
		WeightKg:        weightKg,
		PricePerKg:      pricePerKgKobo,
		TotalAmount:     WeightTimesPrice(weightKg, pricePerKgKobo),
		Location:        location,
		Notes:           notes,
		CreatedAt:       now,
	}, nil
}
