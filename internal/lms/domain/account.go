// Package domain holds the loan servicing entities: accounts, disbursements,
// EMI schedules, repayments, interest accrual, fees, collections and
// loan modifications.
package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrAccountNotFound   = errors.New("loan account not found")
	ErrAccountNotActive  = errors.New("loan account is not active")
	ErrAccountClosed     = errors.New("loan account is closed")
	ErrInvalidLoanStatus = errors.New("invalid loan status")
)

// LoanStatus tracks a serviced loan from disbursal to closure.
type LoanStatus string

const (
	LoanStatusActive     LoanStatus = "active"
	LoanStatusFullyPaid  LoanStatus = "fully_paid"
	LoanStatusForeclosed LoanStatus = "foreclosed"
	LoanStatusDefaulted  LoanStatus = "defaulted"
	LoanStatusClosed     LoanStatus = "closed"
)

// LoanStatusValues lists the closed set accepted by the loan_status column.
func LoanStatusValues() []string {
	return []string{"active", "fully_paid", "foreclosed", "defaulted", "closed"}
}

// Valid reports whether the value belongs to the declared enum set.
func (s LoanStatus) Valid() bool {
	switch s {
	case LoanStatusActive, LoanStatusFullyPaid, LoanStatusForeclosed,
		LoanStatusDefaulted, LoanStatusClosed:
		return true
	}
	return false
}

// LoanAccount is the servicing-side ledger head for a disbursed loan. One
// account per application. currentOutstanding tracks unpaid principal.
type LoanAccount struct {
	ID                   uuid.UUID       `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	LoanApplicationID    int64           `gorm:"column:loanApplicationId;not null;uniqueIndex;index:loan_acc_loan_app" json:"loan_application_id"`
	LoanSanctionID       int64           `gorm:"column:loanSanctionId;not null" json:"loan_sanction_id"`
	AccountNumber        string          `gorm:"column:accountNumber;type:varchar(50);not null;uniqueIndex;index:loan_acc_number" json:"account_number"`
	PrincipalAmount      decimal.Decimal `gorm:"column:principalAmount;type:decimal(15,2);not null" json:"principal_amount"`
	CurrentOutstanding   decimal.Decimal `gorm:"column:currentOutstanding;type:decimal(15,2);not null" json:"current_outstanding"`
	InterestRate         decimal.Decimal `gorm:"column:interestRate;type:decimal(8,4);not null" json:"interest_rate"`
	TenureMonths         int             `gorm:"column:tenureMonths;not null" json:"tenure_months"`
	LoanStartDate        time.Time       `gorm:"column:loanStartDate;not null" json:"loan_start_date"`
	LoanEndDate          time.Time       `gorm:"column:loanEndDate;not null" json:"loan_end_date"`
	NextEmiDueDate       *time.Time      `gorm:"column:nextEmiDueDate;type:date;index:loan_acc_next_emi" json:"next_emi_due_date,omitempty"`
	Status               LoanStatus      `gorm:"column:status;type:loan_status;not null;default:'active';index:loan_acc_status" json:"status"`
	TotalCollateralValue decimal.Decimal `gorm:"column:totalCollateralValue;type:decimal(15,2);not null" json:"total_collateral_value"`
	CurrentLtv           decimal.Decimal `gorm:"column:currentLtv;type:decimal(5,2);not null" json:"current_ltv"`
	CreatedAt            time.Time       `gorm:"column:createdAt;not null" json:"created_at"`
	UpdatedAt            time.Time       `gorm:"column:updatedAt;not null" json:"updated_at"`
}

// TableName maps the entity into the lms namespace.
func (LoanAccount) TableName() string { return "lms.loan_account" }

// NewLoanAccount opens an active account for a disbursed loan.
func NewLoanAccount(applicationID, sanctionID int64, accountNumber string, principal, interestRate decimal.Decimal, tenureMonths int, startDate time.Time, collateralValue, ltv decimal.Decimal) *LoanAccount {
	now := time.Now()
	return &LoanAccount{
		ID:                   uuid.New(),
		LoanApplicationID:    applicationID,
		LoanSanctionID:       sanctionID,
		AccountNumber:        accountNumber,
		PrincipalAmount:      principal,
		CurrentOutstanding:   principal,
		InterestRate:         interestRate,
		TenureMonths:         tenureMonths,
		LoanStartDate:        startDate,
		LoanEndDate:          startDate.AddDate(0, tenureMonths, 0),
		Status:               LoanStatusActive,
		TotalCollateralValue: collateralValue,
		CurrentLtv:           ltv,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
}

// Active reports whether the account still accrues interest and accepts EMIs.
func (a *LoanAccount) Active() bool { return a.Status == LoanStatusActive }

// ApplyPrincipalPayment reduces the outstanding by the principal component of
// a repayment. The account flips to fully_paid once outstanding hits zero.
func (a *LoanAccount) ApplyPrincipalPayment(principalComponent decimal.Decimal) error {
	if !a.Active() {
		return ErrAccountNotActive
	}
	a.CurrentOutstanding = a.CurrentOutstanding.Sub(principalComponent)
	if a.CurrentOutstanding.LessThanOrEqual(decimal.Zero) {
		a.CurrentOutstanding = decimal.Zero
		a.Status = LoanStatusFullyPaid
		a.NextEmiDueDate = nil
	}
	a.UpdatedAt = time.Now()
	return nil
}

// Foreclose settles the full outstanding ahead of tenure.
func (a *LoanAccount) Foreclose() error {
	if !a.Active() {
		return ErrAccountNotActive
	}
	a.CurrentOutstanding = decimal.Zero
	a.Status = LoanStatusForeclosed
	a.NextEmiDueDate = nil
	a.UpdatedAt = time.Now()
	return nil
}

// MarkDefaulted flags the account as a credit loss candidate.
func (a *LoanAccount) MarkDefaulted() error {
	if !a.Active() {
		return ErrAccountNotActive
	}
	a.Status = LoanStatusDefaulted
	a.UpdatedAt = time.Now()
	return nil
}

// Close finalizes a settled account.
func (a *LoanAccount) Close() error {
	switch a.Status {
	case LoanStatusFullyPaid, LoanStatusForeclosed:
		a.Status = LoanStatusClosed
		a.UpdatedAt = time.Now()
		return nil
	}
	return ErrInvalidLoanStatus
}

// RevalueCollateral refreshes the collateral mark and the resulting LTV.
// LTV is outstanding over collateral value, as a percentage.
func (a *LoanAccount) RevalueCollateral(collateralValue decimal.Decimal) {
	a.TotalCollateralValue = collateralValue
	if collateralValue.IsPositive() {
		a.CurrentLtv = a.CurrentOutstanding.Div(collateralValue).Mul(decimal.NewFromInt(100)).Round(2)
	} else {
		a.CurrentLtv = decimal.Zero
	}
	a.UpdatedAt = time.Now()
}

// LoanAccountRepository provides access to loan accounts.
type LoanAccountRepository interface {
	Create(ctx context.Context, account *LoanAccount) error
	Update(ctx context.Context, account *LoanAccount) error
	FindByID(ctx context.Context, id uuid.UUID) (*LoanAccount, error)
	FindByAccountNumber(ctx context.Context, accountNumber string) (*LoanAccount, error)
	FindByApplicationID(ctx context.Context, applicationID int64) (*LoanAccount, error)
	FindActive(ctx context.Context, limit, offset int) ([]*LoanAccount, int64, error)
}
