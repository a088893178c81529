package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrSanctionNotFound = errors.New("loan sanction not found")

// LoanSanction is the final sanctioned terms for an approved application.
// One sanction per application.
type LoanSanction struct {
	ID                     int64               `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	LoanApplicationID      int64               `gorm:"column:loanApplicationId;not null;uniqueIndex;index:sanction_loan_app" json:"loan_application_id"`
	SanctionLetterNumber   string              `gorm:"column:sanctionLetterNumber;type:varchar(100);not null;uniqueIndex;index:sanction_letter" json:"sanction_letter_number"`
	SanctionedAmount       decimal.Decimal     `gorm:"column:sanctionedAmount;type:decimal(15,2);not null" json:"sanctioned_amount"`
	SanctionedInterestRate decimal.Decimal     `gorm:"column:sanctionedInterestRate;type:decimal(8,4);not null" json:"sanctioned_interest_rate"`
	SanctionedTenureMonths int                 `gorm:"column:sanctionedTenureMonths;not null" json:"sanctioned_tenure_months"`
	SanctionDate           time.Time           `gorm:"column:sanctionDate;not null;index:sanction_date" json:"sanction_date"`
	ValidUntil             time.Time           `gorm:"column:validUntil;not null" json:"valid_until"`
	EmiType                string              `gorm:"column:emiType;type:varchar(20);not null" json:"emi_type"`
	EmiAmount              decimal.NullDecimal `gorm:"column:emiAmount;type:decimal(15,2)" json:"emi_amount,omitempty"`
	TotalInterestPayable   decimal.Decimal     `gorm:"column:totalInterestPayable;type:decimal(15,2);not null" json:"total_interest_payable"`
	TotalAmountPayable     decimal.Decimal     `gorm:"column:totalAmountPayable;type:decimal(15,2);not null" json:"total_amount_payable"`
	ProcessingFees         decimal.Decimal     `gorm:"column:processingFees;type:decimal(15,2);not null" json:"processing_fees"`
	OtherCharges           decimal.Decimal     `gorm:"column:otherCharges;type:decimal(15,2);not null;default:0" json:"other_charges"`
	AgreementGenerated     bool                `gorm:"column:agreementGenerated;not null;default:false" json:"agreement_generated"`
	AgreementURL           *string             `gorm:"column:agreementUrl;type:varchar(500)" json:"agreement_url,omitempty"`
	AgreementSignedAt      *time.Time          `gorm:"column:agreementSignedAt" json:"agreement_signed_at,omitempty"`
	AgreementIP            *string             `gorm:"column:agreementIp;type:varchar(50)" json:"agreement_ip,omitempty"`
	SanctionedBy           uuid.UUID           `gorm:"column:sanctionedBy;type:uuid;not null" json:"sanctioned_by"`
	CreatedAt              time.Time           `gorm:"column:createdAt;not null" json:"created_at"`
	UpdatedAt              time.Time           `gorm:"column:updatedAt;not null" json:"updated_at"`
}

// TableName maps the entity into the los namespace.
func (LoanSanction) TableName() string { return "los.loan_sanction" }

// Expired reports whether the sanction validity window has lapsed.
func (s *LoanSanction) Expired(now time.Time) bool {
	return now.After(s.ValidUntil)
}

// AttachAgreement records the generated agreement document.
func (s *LoanSanction) AttachAgreement(url string) {
	s.AgreementGenerated = true
	s.AgreementURL = &url
	s.UpdatedAt = time.Now()
}

// RecordSignature stamps the borrower's acceptance with the signing IP.
func (s *LoanSanction) RecordSignature(ip string) {
	now := time.Now()
	s.AgreementSignedAt = &now
	s.AgreementIP = &ip
	s.UpdatedAt = now
}

// LoanSanctionRepository provides access to sanction records.
type LoanSanctionRepository interface {
	Create(ctx context.Context, sanction *LoanSanction) error
	Update(ctx context.Context, sanction *LoanSanction) error
	FindByApplicationID(ctx context.Context, applicationID int64) (*LoanSanction, error)
	FindByLetterNumber(ctx context.Context, letterNumber string) (*LoanSanction, error)
}
