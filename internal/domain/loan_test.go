package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func farmerLoanType() *LoanType {
	return &LoanType{
		ID:             "lt-input-credit",
		Name:           "Input Credit - Seeds & Fertilizer",
		UserType:       BorrowerFarmer,
		Category:       CategoryInputCredit,
		InterestRate:   10,
		DurationMonths: 6,
		IsActive:       true,
	}
}

func staffLoanType() *LoanType {
	return &LoanType{
		ID:             "lt-personal",
		Name:           "Staff Personal Loan",
		UserType:       BorrowerStaff,
		Category:       CategoryPersonalLoan,
		InterestRate:   5,
		DurationMonths: 12,
		MinAmount:      5000000,
		MaxAmount:      100000000,
		IsActive:       true,
	}
}

func requestedFarmerLoan(t *testing.T, now time.Time) *Loan {
	t.Helper()

	items := []LoanItem{
		NewLoanItem("NPK Fertilizer 50kg", 10, 450000),
		NewLoanItem("Maize Seed 10kg", 5, 100000),
	}

	loan, err := NewLoan(
		Borrower{Kind: BorrowerFarmer, FarmerID: "FRM001"},
		farmerLoanType(),
		5000000, // N50,000
		now.AddDate(0, 6, 0),
		items,
		0,
		"planting season inputs",
		now,
	)
	assert.NoError(t, err)
	return loan
}

func TestNewLoan_FarmerComputesDerivedAmounts(t *testing.T) {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	loan := requestedFarmerLoan(t, now)

	// N50,000 at 10% -> N5,000 interest, N55,000 total
	assert.Equal(t, int64(5000000), loan.PrincipalAmount)
	assert.Equal(t, int64(500000), loan.InterestAmount)
	assert.Equal(t, int64(5500000), loan.TotalRepayment)
	assert.Equal(t, int64(5500000), loan.AmountOutstanding)
	assert.Equal(t, int64(0), loan.AmountPaid)
	assert.Equal(t, LoanStatusRequested, loan.Status)
	assert.Equal(t, DeliveryStatusPending, loan.DeliveryStatus)
	assert.Equal(t, int64(1), loan.Version)

	// 5500000 / 6 floors to 916666, final installment absorbs the remainder
	assert.Equal(t, int64(916666), loan.MonthlyPayment)
	assert.Equal(t, int64(916670), loan.FinalInstallment())
	assert.Equal(t, loan.TotalRepayment, loan.MonthlyPayment*5+loan.FinalInstallment())
}

func TestNewLoan_FarmerWithoutItemsRejected(t *testing.T) {
	now := time.Now()

	loan, err := NewLoan(
		Borrower{Kind: BorrowerFarmer, FarmerID: "FRM001"},
		farmerLoanType(),
		5000000,
		now.AddDate(0, 6, 0),
		nil,
		0,
		"",
		now,
	)

	assert.Nil(t, loan)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestNewLoan_BorrowerKindMustMatchLoanType(t *testing.T) {
	now := time.Now()

	loan, err := NewLoan(
		Borrower{Kind: BorrowerStaff, StaffID: "STF001"},
		farmerLoanType(),
		5000000,
		now.AddDate(0, 6, 0),
		nil,
		0,
		"",
		now,
	)

	assert.Nil(t, loan)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestNewLoan_StaffPrincipalOutsideBounds(t *testing.T) {
	now := time.Now()

	// Below the N50,000 minimum
	loan, err := NewLoan(
		Borrower{Kind: BorrowerStaff, StaffID: "STF001"},
		staffLoanType(),
		1000000,
		now.AddDate(0, 12, 0),
		nil,
		0,
		"",
		now,
	)

	assert.Nil(t, loan)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestNewLoan_InactiveLoanTypeRejected(t *testing.T) {
	now := time.Now()
	lt := farmerLoanType()
	lt.IsActive = false

	loan, err := NewLoan(
		Borrower{Kind: BorrowerFarmer, FarmerID: "FRM001"},
		lt,
		5000000,
		now.AddDate(0, 6, 0),
		[]LoanItem{NewLoanItem("NPK Fertilizer 50kg", 1, 450000)},
		0,
		"",
		now,
	)

	assert.Nil(t, loan)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestNewLoan_DueDateMustBeFuture(t *testing.T) {
	now := time.Now()

	loan, err := NewLoan(
		Borrower{Kind: BorrowerFarmer, FarmerID: "FRM001"},
		farmerLoanType(),
		5000000,
		now.AddDate(0, -1, 0),
		[]LoanItem{NewLoanItem("NPK Fertilizer 50kg", 1, 450000)},
		0,
		"",
		now,
	)

	assert.Nil(t, loan)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestBorrower_Validate(t *testing.T) {
	assert.NoError(t, Borrower{Kind: BorrowerFarmer, FarmerID: "FRM001"}.Validate())
	assert.NoError(t, Borrower{Kind: BorrowerStaff, StaffID: "STF001"}.Validate())

	assert.ErrorIs(t, Borrower{Kind: BorrowerFarmer}.Validate(), ErrValidation)
	assert.ErrorIs(t, Borrower{Kind: BorrowerFarmer, FarmerID: "FRM001", StaffID: "STF001"}.Validate(), ErrValidation)
	assert.ErrorIs(t, Borrower{Kind: "admin", FarmerID: "FRM001"}.Validate(), ErrValidation)
}

func TestLoan_Approve(t *testing.T) {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	loan := requestedFarmerLoan(t, now)

	pickupDate := now.AddDate(0, 0, 7)
	err := loan.Approve(pickupDate, "Kaduna depot", "verified by ops", now)

	assert.NoError(t, err)
	assert.Equal(t, LoanStatusApproved, loan.Status)
	assert.Equal(t, pickupDate, *loan.PickupDate)
	assert.Equal(t, "Kaduna depot", loan.PickupLocation)
	assert.NotNil(t, loan.ApprovedAt)
}

func TestLoan_ApproveTwiceRejected(t *testing.T) {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	loan := requestedFarmerLoan(t, now)

	assert.NoError(t, loan.Approve(now.AddDate(0, 0, 7), "", "", now))

	err := loan.Approve(now.AddDate(0, 0, 14), "", "", now)
	assert.ErrorIs(t, err, ErrInvalidStateTransition)
}

func TestLoan_ApprovePickupDateInPast(t *testing.T) {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	loan := requestedFarmerLoan(t, now)

	err := loan.Approve(now.AddDate(0, 0, -1), "", "", now)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, LoanStatusRequested, loan.Status)
}

func TestLoan_RecordDelivery(t *testing.T) {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	loan := requestedFarmerLoan(t, now)
	assert.NoError(t, loan.Approve(now.AddDate(0, 0, 7), "", "", now))

	// Depot only had 8 bags in stock, delivered items replace requested ones
	delivered := []LoanItem{NewLoanItem("NPK Fertilizer 50kg", 8, 450000)}
	deliveryTime := now.AddDate(0, 0, 7)

	err := loan.RecordDelivery(delivered, "STF042", "partial stock", deliveryTime)

	assert.NoError(t, err)
	assert.Equal(t, DeliveryStatusDelivered, loan.DeliveryStatus)
	assert.Len(t, loan.Items, 1)
	assert.Equal(t, int64(8), loan.Items[0].Quantity)
	assert.Equal(t, "STF042", loan.DeliveredByStaffID)
	assert.Equal(t, deliveryTime, *loan.DeliveryConfirmedAt)

	// Main status untouched
	assert.Equal(t, LoanStatusApproved, loan.Status)
}

func TestLoan_RecordDeliveryTwice(t *testing.T) {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	loan := requestedFarmerLoan(t, now)
	assert.NoError(t, loan.Approve(now.AddDate(0, 0, 7), "", "", now))

	delivered := []LoanItem{NewLoanItem("NPK Fertilizer 50kg", 8, 450000)}
	assert.NoError(t, loan.RecordDelivery(delivered, "STF042", "", now.AddDate(0, 0, 7)))

	err := loan.RecordDelivery(delivered, "STF042", "", now.AddDate(0, 0, 8))
	assert.ErrorIs(t, err, ErrAlreadyDelivered)
}

func TestLoan_RecordDeliveryStaffLoanRejected(t *testing.T) {
	now := time.Now()

	loan, err := NewLoan(
		Borrower{Kind: BorrowerStaff, StaffID: "STF001"},
		staffLoanType(),
		10000000,
		now.AddDate(0, 12, 0),
		nil,
		0,
		"",
		now,
	)
	assert.NoError(t, err)

	err = loan.RecordDelivery([]LoanItem{NewLoanItem("item", 1, 100)}, "STF042", "", now)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestLoan_ActivateFarmerHappyPath(t *testing.T) {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	loan := requestedFarmerLoan(t, now)

	pickupDate := now.AddDate(0, 0, 7)
	assert.NoError(t, loan.Approve(pickupDate, "", "", now))
	assert.NoError(t, loan.RecordDelivery(
		[]LoanItem{NewLoanItem("NPK Fertilizer 50kg", 10, 450000)},
		"STF042", "", pickupDate,
	))

	err := loan.Activate(pickupDate.Add(2 * time.Hour))

	assert.NoError(t, err)
	assert.Equal(t, LoanStatusActive, loan.Status)
	assert.NotNil(t, loan.DisbursedAt)
}

func TestLoan_ActivateBeforePickupDate(t *testing.T) {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	loan := requestedFarmerLoan(t, now)

	pickupDate := now.AddDate(0, 0, 7)
	assert.NoError(t, loan.Approve(pickupDate, "", "", now))
	assert.NoError(t, loan.RecordDelivery(
		[]LoanItem{NewLoanItem("NPK Fertilizer 50kg", 10, 450000)},
		"STF042", "", now.AddDate(0, 0, 6),
	))

	err := loan.Activate(now.AddDate(0, 0, 6))
	assert.ErrorIs(t, err, ErrPreconditionFailed)
	assert.Equal(t, LoanStatusApproved, loan.Status)
}

func TestLoan_ActivateFarmerWithoutDelivery(t *testing.T) {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	loan := requestedFarmerLoan(t, now)

	pickupDate := now.AddDate(0, 0, 7)
	assert.NoError(t, loan.Approve(pickupDate, "", "", now))

	err := loan.Activate(pickupDate.Add(time.Hour))
	assert.ErrorIs(t, err, ErrPreconditionFailed)
}

func TestLoan_ActivateNotApproved(t *testing.T) {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	loan := requestedFarmerLoan(t, now)

	err := loan.Activate(now)
	assert.ErrorIs(t, err, ErrPreconditionFailed)
}

func TestLoan_ActivateStaffSkipsDeliveryGate(t *testing.T) {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	loan, err := NewLoan(
		Borrower{Kind: BorrowerStaff, StaffID: "STF001"},
		staffLoanType(),
		10000000,
		now.AddDate(0, 12, 0),
		nil,
		0,
		"",
		now,
	)
	assert.NoError(t, err)

	pickupDate := now.AddDate(0, 0, 3)
	assert.NoError(t, loan.Approve(pickupDate, "", "", now))

	assert.NoError(t, loan.Activate(pickupDate.Add(time.Hour)))
	assert.Equal(t, LoanStatusActive, loan.Status)
}

func TestLoan_ApplyRepayment(t *testing.T) {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	loan := requestedFarmerLoan(t, now)

	pickupDate := now.AddDate(0, 0, 7)
	assert.NoError(t, loan.Approve(pickupDate, "", "", now))
	assert.NoError(t, loan.RecordDelivery(
		[]LoanItem{NewLoanItem("NPK Fertilizer 50kg", 10, 450000)},
		"STF042", "", pickupDate,
	))
	assert.NoError(t, loan.Activate(pickupDate.Add(time.Hour)))

	assert.NoError(t, loan.ApplyRepayment(2000000, now.AddDate(0, 1, 0)))
	assert.Equal(t, int64(2000000), loan.AmountPaid)
	assert.Equal(t, int64(3500000), loan.AmountOutstanding)

	// Overpayment truncates at the total
	assert.NoError(t, loan.ApplyRepayment(9000000, now.AddDate(0, 2, 0)))
	assert.Equal(t, loan.TotalRepayment, loan.AmountPaid)
	assert.Equal(t, int64(0), loan.AmountOutstanding)
}

func TestLoan_ApplyRepaymentNotActive(t *testing.T) {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	loan := requestedFarmerLoan(t, now)

	err := loan.ApplyRepayment(1000000, now)
	assert.ErrorIs(t, err, ErrInvalidStateTransition)
}

func TestLoan_MarkCompleted(t *testing.T) {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	loan := requestedFarmerLoan(t, now)

	pickupDate := now.AddDate(0, 0, 7)
	assert.NoError(t, loan.Approve(pickupDate, "", "", now))
	assert.NoError(t, loan.RecordDelivery(
		[]LoanItem{NewLoanItem("NPK Fertilizer 50kg", 10, 450000)},
		"STF042", "", pickupDate,
	))
	assert.NoError(t, loan.Activate(pickupDate.Add(time.Hour)))

	// Still outstanding
	err := loan.MarkCompleted(now.AddDate(0, 3, 0))
	assert.ErrorIs(t, err, ErrPreconditionFailed)

	assert.NoError(t, loan.ApplyRepayment(loan.TotalRepayment, now.AddDate(0, 5, 0)))
	assert.NoError(t, loan.MarkCompleted(now.AddDate(0, 5, 0)))
	assert.Equal(t, LoanStatusCompleted, loan.Status)
	assert.NotNil(t, loan.CompletedAt)
}

func TestLoan_MarkDefaulted(t *testing.T) {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	loan := requestedFarmerLoan(t, now)

	pickupDate := now.AddDate(0, 0, 7)
	assert.NoError(t, loan.Approve(pickupDate, "", "", now))
	assert.NoError(t, loan.RecordDelivery(
		[]LoanItem{NewLoanItem("NPK Fertilizer 50kg", 10, 450000)},
		"STF042", "", pickupDate,
	))
	assert.NoError(t, loan.Activate(pickupDate.Add(time.Hour)))

	// Not yet past due
	err := loan.MarkDefaulted(now.AddDate(0, 3, 0))
	assert.ErrorIs(t, err, ErrPreconditionFailed)

	pastDue := loan.DueDate.AddDate(0, 0, 1)
	assert.NoError(t, loan.MarkDefaulted(pastDue))
	assert.Equal(t, LoanStatusDefaulted, loan.Status)
	assert.NotNil(t, loan.DefaultedAt)
}

func TestLoanItem_TotalPriceInvariant(t *testing.T) {
	item := NewLoanItem("Maize Seed 10kg", 5, 100000)
	assert.Equal(t, int64(500000), item.TotalPrice)

	// Tampered total fails validation
	item.TotalPrice = 400000
	err := validateItems([]LoanItem{item})
	assert.ErrorIs(t, err, ErrValidation)
}
