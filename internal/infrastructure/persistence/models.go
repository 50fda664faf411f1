package persistence

import (
	"time"

	"github.com/promisepoint/lending-service/internal/domain"
)

// LoanModel represents the database schema for loans
type LoanModel struct {
	ID        string `gorm:"primaryKey;type:varchar(50)"`
	Reference string `gorm:"type:varchar(20);uniqueIndex;not null"`

	BorrowerKind string `gorm:"type:varchar(10);not null;index"`
	FarmerID     string `gorm:"type:varchar(50);index"`
	StaffID      string `gorm:"type:varchar(50);index"`

	LoanTypeID     string  `gorm:"type:varchar(50);not null;index"`
	InterestRate   float64 `gorm:"not null"`
	DurationMonths int     `gorm:"not null"`

	PrincipalAmount   int64 `gorm:"not null"`
	InterestAmount    int64 `gorm:"not null"`
	TotalRepayment    int64 `gorm:"not null"`
	MonthlyPayment    int64 `gorm:"not null"`
	AmountPaid        int64 `gorm:"not null;default:0"`
	AmountOutstanding int64 `gorm:"not null"`

	Status         string `gorm:"type:varchar(20);not null;index"`
	DeliveryStatus string `gorm:"type:varchar(20);not null;index"`

	Items []LoanItemModel `gorm:"foreignKey:LoanID;constraint:OnDelete:CASCADE"`

	Purpose        string `gorm:"type:text"`
	PickupDate     *time.Time
	PickupLocation string `gorm:"type:varchar(255)"`
	AdminNotes     string `gorm:"type:text"`

	DueDate time.Time `gorm:"not null;index"`

	ApprovedAt  *time.Time
	DisbursedAt *time.Time
	CompletedAt *time.Time
	DefaultedAt *time.Time

	DeliveryConfirmedAt *time.Time
	DeliveredByStaffID  string `gorm:"type:varchar(50)"`
	DeliveryNotes       string `gorm:"type:text"`

	Version   int64     `gorm:"not null;default:1"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (LoanModel) TableName() string {
	return "loans"
}

// LoanItemModel is one input line on a farmer loan.
type LoanItemModel struct {
	ID         uint64 `gorm:"primaryKey;autoIncrement"`
	LoanID     string `gorm:"type:varchar(50);not null;index"`
	Position   int    `gorm:"not null"`
	Name       string `gorm:"type:varchar(100);not null"`
	Quantity   int64  `gorm:"not null"`
	UnitPrice  int64  `gorm:"not null"`
	TotalPrice int64  `gorm:"not null"`
}

func (LoanItemModel) TableName() string {
	return "loan_items"
}

// ToDomain converts database model to domain entity
func (m *LoanModel) ToDomain() *domain.Loan {
	items := make([]domain.LoanItem, len(m.Items))
	for i, it := range m.Items {
		items[i] = domain.LoanItem{
			Name:       it.Name,
			Quantity:   it.Quantity,
			UnitPrice:  it.UnitPrice,
			TotalPrice: it.TotalPrice,
		}
	}

	return &domain.Loan{
		ID:        m.ID,
		Reference: m.Reference,
		Borrower: domain.Borrower{
			Kind:     domain.BorrowerKind(m.BorrowerKind),
			FarmerID: m.FarmerID,
			StaffID:  m.StaffID,
		},
		LoanTypeID:          m.LoanTypeID,
		InterestRate:        m.InterestRate,
		DurationMonths:      m.DurationMonths,
		PrincipalAmount:     m.PrincipalAmount,
		InterestAmount:      m.InterestAmount,
		TotalRepayment:      m.TotalRepayment,
		MonthlyPayment:      m.MonthlyPayment,
		AmountPaid:          m.AmountPaid,
		AmountOutstanding:   m.AmountOutstanding,
		Status:              domain.LoanStatus(m.Status),
		DeliveryStatus:      domain.DeliveryStatus(m.DeliveryStatus),
		Items:               items,
		Purpose:             m.Purpose,
		PickupDate:          m.PickupDate,
		PickupLocation:      m.PickupLocation,
		AdminNotes:          m.AdminNotes,
		DueDate:             m.DueDate,
		CreatedAt:           m.CreatedAt,
		ApprovedAt:          m.ApprovedAt,
		DisbursedAt:         m.DisbursedAt,
		CompletedAt:         m.CompletedAt,
		DefaultedAt:         m.DefaultedAt,
		DeliveryConfirmedAt: m.DeliveryConfirmedAt,
		DeliveredByStaffID:  m.DeliveredByStaffID,
		DeliveryNotes:       m.DeliveryNotes,
		Version:             m.Version,
	}
}

// LoanModelFromDomain converts domain entity to database model
func LoanModelFromDomain(loan *domain.Loan) *LoanModel {
	items := make([]LoanItemModel, len(loan.Items))
	for i, it := range loan.Items {
		items[i] = LoanItemModel{
			LoanID:     loan.ID,
			Position:   i,
			Name:       it.Name,
			Quantity:   it.Quantity,
			UnitPrice:  it.UnitPrice,
			TotalPrice: it.TotalPrice,
		}
	}

	return &LoanModel{
		ID:                  loan.ID,
		Reference:           loan.Reference,
		BorrowerKind:        string(loan.Borrower.Kind),
		FarmerID:            loan.Borrower.FarmerID,
		StaffID:             loan.Borrower.StaffID,
		LoanTypeID:          loan.LoanTypeID,
		InterestRate:        loan.InterestRate,
		DurationMonths:      loan.DurationMonths,
		PrincipalAmount:     loan.PrincipalAmount,
		InterestAmount:      loan.InterestAmount,
		TotalRepayment:      loan.TotalRepayment,
		MonthlyPayment:      loan.MonthlyPayment,
		AmountPaid:          loan.AmountPaid,
		AmountOutstanding:   loan.AmountOutstanding,
		Status:              string(loan.Status),
		DeliveryStatus:      string(loan.DeliveryStatus),
		Items:               items,
		Purpose:             loan.Purpose,
		PickupDate:          loan.PickupDate,
		PickupLocation:      loan.PickupLocation,
		AdminNotes:          loan.AdminNotes,
		DueDate:             loan.DueDate,
		ApprovedAt:          loan.ApprovedAt,
		DisbursedAt:         loan.DisbursedAt,
		CompletedAt:         loan.CompletedAt,
		DefaultedAt:         loan.DefaultedAt,
		DeliveryConfirmedAt: loan.DeliveryConfirmedAt,
		DeliveredByStaffID:  loan.DeliveredByStaffID,
		DeliveryNotes:       loan.DeliveryNotes,
		Version:             loan.Version,
		CreatedAt:           loan.CreatedAt,
	}
}

// LoanTypeModel represents the database schema for loan types
type LoanTypeModel struct {
	ID             string    `gorm:"primaryKey;type:varchar(50)"`
	Name           string    `gorm:"type:varchar(100);not null"`
	UserType       string    `gorm:"type:varchar(10);not null;index"`
	Category       string    `gorm:"type:varchar(30);not null"`
	InterestRate   float64   `gorm:"not null"`
	DurationMonths int       `gorm:"not null"`
	MinAmount      int64     `gorm:"not null;default:0"`
	MaxAmount      int64     `gorm:"not null;default:0"`
	IsActive       bool      `gorm:"not null;default:true;index"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime"`
}

func (LoanTypeModel) TableName() string {
	return "loan_types"
}

func (m *LoanTypeModel) ToDomain() *domain.LoanType {
	return &domain.LoanType{
		ID:             m.ID,
		Name:           m.Name,
		UserType:       domain.BorrowerKind(m.UserType),
		Category:       domain.LoanCategory(m.Category),
		InterestRate:   m.InterestRate,
		DurationMonths: m.DurationMonths,
		MinAmount:      m.MinAmount,
		MaxAmount:      m.MaxAmount,
		IsActive:       m.IsActive,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

func LoanTypeModelFromDomain(lt *domain.LoanType) *LoanTypeModel {
	return &LoanTypeModel{
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

// PickupRequestModel represents the database schema for pickup requests
type PickupRequestModel struct {
	ID          string `gorm:"primaryKey;type:varchar(50)"`
	Reference   string `gorm:"type:varchar(20);uniqueIndex;not null"`
	FarmerID    string `gorm:"type:varchar(50);not null;index"`
	FarmerName  string `gorm:"type:varchar(100);not null"`
	FarmerPhone string `gorm:"type:varchar(20);not null"`
	Channel     string `gorm:"type:varchar(10);not null"`

	Status string `gorm:"type:varchar(20);not null;index"`

	ScheduledDate   *time.Time
	AssignedStaffID string `gorm:"type:varchar(50);index"`
	ApprovedNotes   string `gorm:"type:text"`
	StaffNotes      string `gorm:"type:text"`

	ProposedWeightKg   float64 `gorm:"not null;default:0"`
	ProposedPricePerKg int64   `gorm:"not null;default:0"`
	HasProposal        bool    `gorm:"not null;default:false"`

	LinkedPurchaseID string `gorm:"type:varchar(50)"`
	ProcessedAt      *time.Time

	Version   int64     `gorm:"not null;default:1"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (PickupRequestModel) TableName() string {
	return "pickup_requests"
}

func (m *PickupRequestModel) ToDomain() *domain.PickupRequest {
	return &domain.PickupRequest{
		ID:                 m.ID,
		Reference:          m.Reference,
		FarmerID:           m.FarmerID,
		FarmerName:         m.FarmerName,
		FarmerPhone:        m.FarmerPhone,
		Channel:            domain.PickupChannel(m.Channel),
		Status:             domain.PickupStatus(m.Status),
		ScheduledDate:      m.ScheduledDate,
		AssignedStaffID:    m.AssignedStaffID,
		ApprovedNotes:      m.ApprovedNotes,
		StaffNotes:         m.StaffNotes,
		ProposedWeightKg:   m.ProposedWeightKg,
		ProposedPricePerKg: m.ProposedPricePerKg,
		HasProposal:        m.HasProposal,
		LinkedPurchaseID:   m.LinkedPurchaseID,
		ProcessedAt:        m.ProcessedAt,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
		Version:            m.Version,
	}
}

func PickupRequestModelFromDomain(p *domain.PickupRequest) *PickupRequestModel {
	return &PickupRequestModel{
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
		HasProposal:        p.HasProposal,
		LinkedPurchaseID:   p.LinkedPurchaseID,
		ProcessedAt:        p.ProcessedAt,
		Version:            p.Version,
		CreatedAt:          p.CreatedAt,
	}
}

// PurchaseModel represents the database schema for purchases
type PurchaseModel struct {
	ID              string    `gorm:"primaryKey;type:varchar(50)"`
	Reference       string    `gorm:"type:varchar(20);uniqueIndex;not null"`
	FarmerID        string    `gorm:"type:varchar(50);not null;index"`
	PickupRequestID string    `gorm:"type:varchar(50);uniqueIndex;not null"`
	WeightKg        float64   `gorm:"not null"`
	PricePerKg      int64     `gorm:"not null"`
	TotalAmount     int64     `gorm:"not null"`
	Location        string    `gorm:"type:varchar(255)"`
	Notes           string    `gorm:"type:text"`
	CreatedAt       time.Time `gorm:"autoCreateTime"`
}

func (PurchaseModel) TableName() string {
	return "purchases"
}

func (m *PurchaseModel) ToDomain() *domain.Purchase {
	return &domain.Purchase{
		ID:              m.ID,
		Reference:       m.Reference,
		FarmerID:        m.FarmerID,
		PickupRequestID: m.PickupRequestID,
		WeightKg:        m.WeightKg,
		PricePerKg:      m.PricePerKg,
		TotalAmount:     m.TotalAmount,
		Location:        m.Location,
		Notes:           m.Notes,
		CreatedAt:       m.CreatedAt,
	}
}

func PurchaseModelFromDomain(p *domain.Purchase) *PurchaseModel {
	return &PurchaseModel{
		ID:              p.ID,
		Reference:       p.Reference,
		FarmerID:        p.FarmerID,
		PickupRequestID: p.PickupRequestID,
		WeightKg:        p.WeightKg,
		PricePerKg:      p.PricePerKg,
		TotalAmount:     p.TotalAmount,
		Location:        p.Location,
		Notes:           p.Notes,
		CreatedAt:       p.CreatedAt,
	}
}
