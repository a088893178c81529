package domain

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrDisbursementNotFound = errors.New("disbursement not found")
	ErrDisbursementFinal    = errors.New("disbursement already finalized")
)

// DisbursementStatus tracks the payout lifecycle.
type DisbursementStatus string

const (
	DisbursementStatusPending   DisbursementStatus = "pending"
	DisbursementStatusInitiated DisbursementStatus = "initiated"
	DisbursementStatusCompleted DisbursementStatus = "completed"
	DisbursementStatusFailed    DisbursementStatus = "failed"
	DisbursementStatusReversed  DisbursementStatus = "reversed"
)

// DisbursementStatusValues lists the closed set accepted by the
// disbursement_status column.
func DisbursementStatusValues() []string {
	return []string{"pending", "initiated", "completed", "failed", "reversed"}
}

// Valid reports whether the value belongs to the declared enum set.
func (s DisbursementStatus) Valid() bool {
	switch s {
	case DisbursementStatusPending, DisbursementStatusInitiated, DisbursementStatusCompleted,
		DisbursementStatusFailed, DisbursementStatusReversed:
		return true
	}
	return false
}

// Disbursement is one payout of sanctioned funds to the borrower's bank
// account.
type Disbursement struct {
	ID                       int64              `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	LoanApplicationID        int64              `gorm:"column:loanApplicationId;not null;index:disb_loan_app" json:"loan_application_id"`
	LoanSanctionID           int64              `gorm:"column:loanSanctionId;not null" json:"loan_sanction_id"`
	DisbursementAmount       decimal.Decimal    `gorm:"column:disbursementAmount;type:decimal(15,2);not null" json:"disbursement_amount"`
	DisbursementDate         time.Time          `gorm:"column:disbursementDate;not null;index:disb_date" json:"disbursement_date"`
	Status                   DisbursementStatus `gorm:"column:status;type:disbursement_status;not null;default:'pending';index:disb_status" json:"status"`
	BeneficiaryAccountNumber string             `gorm:"column:beneficiaryAccountNumber;type:varchar(50);not null" json:"beneficiary_account_number"`
	BeneficiaryIfsc          string             `gorm:"column:beneficiaryIfsc;type:varchar(20);not null" json:"beneficiary_ifsc"`
	BeneficiaryName          string             `gorm:"column:beneficiaryName;type:varchar(255);not null" json:"beneficiary_name"`
	BankName                 string             `gorm:"column:bankName;type:varchar(255);not null" json:"bank_name"`
	UtrNumber                *string            `gorm:"column:utrNumber;type:varchar(100);index:disb_utr" json:"utr_number,omitempty"`
	TransactionReference     *string            `gorm:"column:transactionReference;type:varchar(100)" json:"transaction_reference,omitempty"`
	PaymentGatewayReference  *string            `gorm:"column:paymentGatewayReference;type:varchar(100)" json:"payment_gateway_reference,omitempty"`
	InitiatedAt              *time.Time         `gorm:"column:initiatedAt" json:"initiated_at,omitempty"`
	CompletedAt              *time.Time         `gorm:"column:completedAt" json:"completed_at,omitempty"`
	FailureReason            *string            `gorm:"column:failureReason;type:text" json:"failure_reason,omitempty"`
	CreatedAt                time.Time          `gorm:"column:createdAt;not null" json:"created_at"`
	UpdatedAt                time.Time          `gorm:"column:updatedAt;not null" json:"updated_at"`
}

// TableName maps the entity into the lms namespace.
func (Disbursement) TableName() string { return "lms.disbursement" }

// Initiate marks the payout as sent to the banking rails.
func (d *Disbursement) Initiate() error {
	if d.Status != DisbursementStatusPending {
		return ErrDisbursementFinal
	}
	now := time.Now()
	d.Status = DisbursementStatusInitiated
	d.InitiatedAt = &now
	d.UpdatedAt = now
	return nil
}

// Complete records a successful payout with its UTR.
func (d *Disbursement) Complete(utrNumber string) error {
	if d.Status != DisbursementStatusInitiated {
		return ErrDisbursementFinal
	}
	now := time.Now()
	d.Status = DisbursementStatusCompleted
	d.UtrNumber = &utrNumber
	d.CompletedAt = &now
	d.UpdatedAt = now
	return nil
}

// Fail records a payout failure with the bank's reason.
func (d *Disbursement) Fail(reason string) error {
	switch d.Status {
	case DisbursementStatusPending, DisbursementStatusInitiated:
		d.Status = DisbursementStatusFailed
		d.FailureReason = &reason
		d.UpdatedAt = time.Now()
		return nil
	}
	return ErrDisbursementFinal
}

// Reverse unwinds a completed payout returned by the beneficiary bank.
func (d *Disbursement) Reverse(reason string) error {
	if d.Status != DisbursementStatusCompleted {
		return ErrDisbursementFinal
	}
	d.Status = DisbursementStatusReversed
	d.FailureReason = &reason
	d.UpdatedAt = time.Now()
	return nil
}

// DisbursementRepository provides access to payout records.
type DisbursementRepository interface {
	Create(ctx context.Context, disbursement *Disbursement) error
	Update(ctx context.Context, disbursement *Disbursement) error
	FindByID(ctx context.Context, id int64) (*Disbursement, error)
	FindByApplicationID(ctx context.Context, applicationID int64) ([]*Disbursement, error)
	FindByStatus(ctx context.Context, status DisbursementStatus, limit, offset int) ([]*Disbursement, int64, error)
}
