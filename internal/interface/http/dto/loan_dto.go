package dto

import (
	"errors"
	"fmt"
	"time"

	"github.com/promisepoint/lending-service/internal/domain"
)

const dateLayout = "2006-01-02"

// LoanItemRequest carries one requested or delivered input line. Prices
// arrive in naira and are converted to kobo here, at the boundary.
type LoanItemRequest struct {
	Name      string `json:"name"`
	Quantity  int64  `json:"quantity"`
	UnitPrice string `json:"unit_price"` // naira
}

func (r *LoanItemRequest) ToDomain() (domain.LoanItem, error) {
	if r.Name == "" {
		return domain.LoanItem{}, errors.New("item name is required")
	}
	if r.Quantity <= 0 {
		return domain.LoanItem{}, fmt.Errorf("item %q quantity must be positive", r.Name)
	}
	unitPriceKobo, err := domain.ParseNairaToKobo(r.UnitPrice)
	if err != nil {
		return domain.LoanItem{}, fmt.Errorf("item %q: invalid unit price", r.Name)
	}
	return domain.NewLoanItem(r.Name, r.Quantity, unitPriceKobo), nil
}

type CreateLoanRequest struct {
	BorrowerType    string            `json:"borrower_type"` // farmer | staff
	FarmerID        string            `json:"farmer_id,omitempty"`
	StaffID         string            `json:"staff_id,omitempty"`
	LoanTypeID      string            `json:"loan_type_id"`
	PrincipalAmount string            `json:"principal_amount"` // naira
	DueDate         string            `json:"due_date"`         // YYYY-MM-DD
	MonthlyPayment  string            `json:"monthly_payment,omitempty"`
	Purpose         string            `json:"purpose,omitempty"`
	Items           []LoanItemRequest `json:"items,omitempty"`
}

func (r *CreateLoanRequest) Validate() error {
	if r.BorrowerType == "" {
		return errors.New("borrower_type is required")
	}
	if r.LoanTypeID == "" {
		return errors.New("loan_type_id is required")
	}
	if r.PrincipalAmount == "" {
		return errors.New("principal_amount is required")
	}
	if r.DueDate == "" {
		return errors.New("due_date is required")
	}
	if _, err := time.Parse(dateLayout, r.DueDate); err != nil {
		return errors.New("due_date must be in format 'YYYY-MM-DD'")
	}
	return nil
}

func (r *CreateLoanRequest) GetBorrower() domain.Borrower {
	return domain.Borrower{
		Kind:     domain.BorrowerKind(r.BorrowerType),
		FarmerID: r.FarmerID,
		StaffID:  r.StaffID,
	}
}

func (r *CreateLoanRequest) GetPrincipalKobo() (int64, error) {
	return domain.ParseNairaToKobo(r.PrincipalAmount)
}

func (r *CreateLoanRequest) GetMonthlyPaymentKobo() (int64, error) {
	if r.MonthlyPayment == "" {
		return 0, nil
	}
	return domain.ParseNairaToKobo(r.MonthlyPayment)
}

func (r *CreateLoanRequest) GetDueDate() (time.Time, error) {
	return time.Parse(dateLayout, r.DueDate)
}

func (r *CreateLoanRequest) GetItems() ([]domain.LoanItem, error) {
	items := make([]domain.LoanItem, len(r.Items))
	for i := range r.Items {
		item, err := r.Items[i].ToDomain()
		if err != nil {
			return nil, err
		}
		items[i] = item
	}
	return items, nil
}

type ApproveLoanRequest struct {
	PickupDate     string `json:"pickup_date"` // YYYY-MM-DD
	PickupLocation string `json:"pickup_location,omitempty"`
	AdminNotes     string `json:"admin_notes,omitempty"`
}

func (r *ApproveLoanRequest) Validate() error {
	if r.PickupDate == "" {
		return errors.New("pickup_date is required")
	}
	if _, err := time.Parse(dateLayout, r.PickupDate); err != nil {
		return errors.New("pickup_date must be in format 'YYYY-MM-DD'")
	}
	return nil
}

func (r *ApproveLoanRequest) GetPickupDate() (time.Time, error) {
	return time.Parse(dateLayout, r.PickupDate)
}

type RecordDeliveryRequest struct {
	Items              []LoanItemRequest `json:"items"`
	DeliveredByStaffID string            `json:"delivered_by_staff_id,omitempty"`
	DeliveryNotes      string            `json:"delivery_notes,omitempty"`
}

func (r *RecordDeliveryRequest) Validate() error {
	if len(r.Items) == 0 {
		return errors.New("at least one delivered item is required")
	}
	return nil
}

func (r *RecordDeliveryRequest) GetItems() ([]domain.LoanItem, error) {
	items := make([]domain.LoanItem, len(r.Items))
	for i := range r.Items {
		item, err := r.Items[i].ToDomain()
		if err != nil {
			return nil, err
		}
		items[i] = item
	}
	return items, nil
}

type LoanItemResponse struct {
	Name       string `json:"name"`
	Quantity   int64  `json:"quantity"`
	UnitPrice  int64  `json:"unit_price"`  // kobo
	TotalPrice int64  `json:"total_price"` // kobo
}

type LoanResponse struct {
	ID                   string             `json:"id"`
	Reference            string             `json:"reference"`
	BorrowerType         string             `json:"borrower_type"`
	FarmerID             string             `json:"farmer_id,omitempty"`
	StaffID              string             `json:"staff_id,omitempty"`
	LoanTypeID           string             `json:"loan_type_id"`
	InterestRate         float64            `json:"interest_rate"`
	DurationMonths       int                `json:"duration_months"`
	PrincipalAmount      int64              `json:"principal_amount"` // kobo
	PrincipalAmountNaira string             `json:"principal_amount_naira"`
	InterestAmount       int64              `json:"interest_amount"`
	TotalRepayment       int64              `json:"total_repayment"`
	TotalRepaymentNaira  string             `json:"total_repayment_naira"`
	MonthlyPayment       int64              `json:"monthly_payment"`
	AmountPaid           int64              `json:"amount_paid"`
	AmountOutstanding    int64              `json:"amount_outstanding"`
	Status               string             `json:"status"`
	DeliveryStatus       string             `json:"delivery_status"`
	Items                []LoanItemResponse `json:"items,omitempty"`
	Purpose              string             `json:"purpose,omitempty"`
	PickupDate           *time.Time         `json:"pickup_date,omitempty"`
	PickupLocation       string             `json:"pickup_location,omitempty"`
	AdminNotes           string             `json:"admin_notes,omitempty"`
	DueDate              time.Time          `json:"due_date"`
	CreatedAt            time.Time          `json:"created_at"`
	ApprovedAt           *time.Time         `json:"approved_at,omitempty"`
	DisbursedAt          *time.Time         `json:"disbursed_at,omitempty"`
	CompletedAt          *time.Time         `json:"completed_at,omitempty"`
	DefaultedAt          *time.Time         `json:"defaulted_at,omitempty"`
	DeliveryConfirmedAt  *time.Time         `json:"delivery_confirmed_at,omitempty"`
	DeliveredByStaffID   string             `json:"delivered_by_staff_id,omitempty"`
	DeliveryNotes        string             `json:"delivery_notes,omitempty"`
}

func NewLoanResponse(loan *domain.Loan) LoanResponse {
	items := make([]LoanItemResponse, len(loan.Items))
	for i, it := range loan.Items {
		items[i] = LoanItemResponse{
			Name:       it.Name,
			Quantity:   it.Quantity,
			UnitPrice:  it.UnitPrice,
			TotalPrice: it.TotalPrice,
		}
	}

	return LoanResponse{
		ID:                   loan.ID,
		Reference:            loan.Reference,
		BorrowerType:         string(loan.Borrower.Kind),
		FarmerID:             loan.Borrower.FarmerID,
		StaffID:              loan.Borrower.StaffID,
		LoanTypeID:           loan.LoanTypeID,
		InterestRate:         loan.InterestRate,
		DurationMonths:       loan.DurationMonths,
		PrincipalAmount:      loan.PrincipalAmount,
		PrincipalAmountNaira: domain.KoboToNaira(loan.PrincipalAmount).StringFixed(2),
		InterestAmount:       loan.InterestAmount,
		TotalRepayment:       loan.TotalRepayment,
		TotalRepaymentNaira:  domain.KoboToNaira(loan.TotalRepayment).StringFixed(2),
		MonthlyPayment:       loan.MonthlyPayment,
		AmountPaid:           loan.AmountPaid,
		AmountOutstanding:    loan.AmountOutstanding,
		Status:               string(loan.Status),
		DeliveryStatus:       string(loan.DeliveryStatus),
		Items:                items,
		Purpose:              loan.Purpose,
		PickupDate:           loan.PickupDate,
		PickupLocation:       loan.PickupLocation,
		AdminNotes:           loan.AdminNotes,
		DueDate:              loan.DueDate,
		CreatedAt:            loan.CreatedAt,
		ApprovedAt:           loan.ApprovedAt,
		DisbursedAt:          loan.DisbursedAt,
		CompletedAt:          loan.CompletedAt,
		DefaultedAt:          loan.DefaultedAt,
		DeliveryConfirmedAt:  loan.DeliveryConfirmedAt,
		DeliveredByStaffID:   loan.DeliveredByStaffID,
		DeliveryNotes:        loan.DeliveryNotes,
	}
}

type LoanKPIResponse struct {
	TotalLoans       int64            `json:"total_loans"`
	CountsByStatus   map[string]int64 `json:"counts_by_status"`
	TotalDisbursed   int64            `json:"total_disbursed"` // kobo
	TotalOutstanding int64            `json:"total_outstanding"`
	DefaultRate      float64          `json:"default_rate"`
}

func NewLoanKPIResponse(kpis *domain.LoanKPIs) LoanKPIResponse {
	counts := make(map[string]int64, len(kpis.CountsByStatus))
	for status, count := range kpis.CountsByStatus {
		counts[string(status)] = count
	}
	return LoanKPIResponse{
		TotalLoans:       kpis.TotalLoans,
		CountsByStatus:   counts,
		TotalDisbursed:   kpis.TotalDisbursed,
		TotalOutstanding: kpis.TotalOutstanding,
		DefaultRate:      kpis.DefaultRate,
	}
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
