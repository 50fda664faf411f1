package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestPickup(t *testing.T, now time.Time) *PickupRequest {
	t.Helper()

	pickup, err := NewPickupRequest("FRM001", "Adaeze Obi", "+2348012345678", ChannelUSSD, now)
	assert.NoError(t, err)
	return pickup
}

func TestNewPickupRequest(t *testing.T) {
	now := time.Date(2025, 4, 1, 8, 0, 0, 0, time.UTC)

	pickup := newTestPickup(t, now)

	assert.Equal(t, PickupStatusRequested, pickup.Status)
	assert.Equal(t, ChannelUSSD, pickup.Channel)
	assert.False(t, pickup.HasProposal)
	assert.Equal(t, int64(1), pickup.Version)
}

func TestNewPickupRequest_InvalidChannel(t *testing.T) {
	_, err := NewPickupRequest("FRM001", "Adaeze Obi", "+2348012345678", "sms", time.Now())
	assert.ErrorIs(t, err, ErrValidation)
}

func TestPickup_Approve(t *testing.T) {
	now := time.Date(2025, 4, 1, 8, 0, 0, 0, time.UTC)
	pickup := newTestPickup(t, now)

	scheduled := now.AddDate(0, 0, 3)
	err := pickup.Approve(&scheduled, "confirmed by ops", "STF042", now)

	assert.NoError(t, err)
	assert.Equal(t, PickupStatusApproved, pickup.Status)
	assert.Equal(t, scheduled, *pickup.ScheduledDate)
	assert.Equal(t, "STF042", pickup.AssignedStaffID)
}

func TestPickup_ApproveAfterProcessedRejected(t *testing.T) {
	now := time.Date(2025, 4, 1, 8, 0, 0, 0, time.UTC)
	pickup := newTestPickup(t, now)

	assert.NoError(t, pickup.Approve(nil, "", "", now))
	assert.NoError(t, pickup.Process("purchase-1", now))

	err := pickup.Approve(nil, "", "", now)
	assert.ErrorIs(t, err, ErrInvalidStateTransition)
}

func TestPickup_RecordStaffProposal(t *testing.T) {
	now := time.Date(2025, 4, 1, 8, 0, 0, 0, time.UTC)
	pickup := newTestPickup(t, now)
	assert.NoError(t, pickup.Approve(nil, "", "STF042", now))

	err := pickup.RecordStaffProposal(50, 50000, "grade A maize", now)

	assert.NoError(t, err)
	assert.Equal(t, PickupStatusStaffUpdated, pickup.Status)
	assert.True(t, pickup.HasProposal)
	assert.Equal(t, float64(50), pickup.ProposedWeightKg)
	assert.Equal(t, int64(50000), pickup.ProposedPricePerKg)
}

func TestPickup_RecordStaffProposalRequiresApproved(t *testing.T) {
	now := time.Date(2025, 4, 1, 8, 0, 0, 0, time.UTC)
	pickup := newTestPickup(t, now)

	err := pickup.RecordStaffProposal(50, 50000, "", now)
	assert.ErrorIs(t, err, ErrInvalidStateTransition)
}

func TestPickup_RecordStaffProposalValidation(t *testing.T) {
	now := time.Date(2025, 4, 1, 8, 0, 0, 0, time.UTC)
	pickup := newTestPickup(t, now)
	assert.NoError(t, pickup.Approve(nil, "", "", now))

	assert.ErrorIs(t, pickup.RecordStaffProposal(0, 50000, "", now), ErrValidation)
	assert.ErrorIs(t, pickup.RecordStaffProposal(50, 0, "", now), ErrValidation)
}

func TestPickup_ProcessFromApproved(t *testing.T) {
	now := time.Date(2025, 4, 1, 8, 0, 0, 0, time.UTC)
	pickup := newTestPickup(t, now)
	assert.NoError(t, pickup.Approve(nil, "", "", now))

	processedAt := now.AddDate(0, 0, 3)
	err := pickup.Process("purchase-1", processedAt)

	assert.NoError(t, err)
	assert.Equal(t, PickupStatusProcessed, pickup.Status)
	assert.Equal(t, "purchase-1", pickup.LinkedPurchaseID)
	assert.Equal(t, processedAt, *pickup.ProcessedAt)
}

func TestPickup_ProcessFromStaffUpdated(t *testing.T) {
	now := time.Date(2025, 4, 1, 8, 0, 0, 0, time.UTC)
	pickup := newTestPickup(t, now)
	assert.NoError(t, pickup.Approve(nil, "", "", now))
	assert.NoError(t, pickup.RecordStaffProposal(50, 50000, "", now))

	assert.NoError(t, pickup.Process("purchase-1", now))
	assert.Equal(t, PickupStatusProcessed, pickup.Status)
}

func TestPickup_ProcessTwice(t *testing.T) {
	now := time.Date(2025, 4, 1, 8, 0, 0, 0, time.UTC)
	pickup := newTestPickup(t, now)
	assert.NoError(t, pickup.Approve(nil, "", "", now))
	assert.NoError(t, pickup.Process("purchase-1", now))

	err := pickup.Process("purchase-2", now)

	assert.ErrorIs(t, err, ErrAlreadyProcessed)
	assert.Equal(t, "purchase-1", pickup.LinkedPurchaseID)
}

func TestPickup_ProcessFromRequestedRejected(t *testing.T) {
	now := time.Date(2025, 4, 1, 8, 0, 0, 0, time.UTC)
	pickup := newTestPickup(t, now)

	err := pickup.Process("purchase-1", now)
	assert.ErrorIs(t, err, ErrInvalidStateTransition)
}

func TestPickup_Cancel(t *testing.T) {
	now := time.Date(2025, 4, 1, 8, 0, 0, 0, time.UTC)

	// Cancellable from requested, approved and staff_updated
	for _, setup := range []func(p *PickupRequest){
		func(p *PickupRequest) {},
		func(p *PickupRequest) { _ = p.Approve(nil, "", "", now) },
		func(p *PickupRequest) {
			_ = p.Approve(nil, "", "", now)
			_ = p.RecordStaffProposal(50, 50000, "", now)
		},
	} {
		pickup := newTestPickup(t, now)
		setup(pickup)

		assert.NoError(t, pickup.Cancel(now))
		assert.Equal(t, PickupStatusCancelled, pickup.Status)
	}
}

func TestPickup_CancelTerminalRejected(t *testing.T) {
	now := time.Date(2025, 4, 1, 8, 0, 0, 0, time.UTC)

	pickup := newTestPickup(t, now)
	assert.NoError(t, pickup.Approve(nil, "", "", now))
	assert.NoError(t, pickup.Process("purchase-1", now))
	assert.ErrorIs(t, pickup.Cancel(now), ErrInvalidStateTransition)

	cancelled := newTestPickup(t, now)
	assert.NoError(t, cancelled.Cancel(now))
	assert.ErrorIs(t, cancelled.Cancel(now), ErrInvalidStateTransition)
}

func TestNewPurchase_ComputesTotal(t *testing.T) {
	now := time.Date(2025, 4, 4, 10, 0, 0, 0, time.UTC)

	// 50kg at N500/kg -> N25,000 = 2,500,000 kobo
	purchase, err := NewPurchase("FRM001", "pickup-1", 50, 50000, "Kaduna depot", "", now)

	assert.NoError(t, err)
	assert.Equal(t, int64(2500000), purchase.TotalAmount)
	assert.Equal(t, "pickup-1", purchase.PickupRequestID)
}

func TestNewPurchase_Validation(t *testing.T) {
	now := time.Now()

	_, err := NewPurchase("", "pickup-1", 50, 50000, "", "", now)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = NewPurchase("FRM001", "pickup-1", 0, 50000, "", "", now)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = NewPurchase("FRM001", "pickup-1", 50, 0, "", "", now)
	assert.ErrorIs(t, err, ErrValidation)
}
