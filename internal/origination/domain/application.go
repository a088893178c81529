package domain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrApplicationNotFound  = errors.New("loan application not found")
	ErrInvalidTransition    = errors.New("invalid application status transition")
	ErrApplicationTerminal  = errors.New("application is in a terminal status")
	ErrMissingApprovalTerms = errors.New("approval terms are incomplete")
)

// LoanApplicationStatus tracks an application from draft through disbursal.
type LoanApplicationStatus string

const (
	ApplicationStatusDraft         LoanApplicationStatus = "draft"
	ApplicationStatusSubmitted     LoanApplicationStatus = "submitted"
	ApplicationStatusUnderReview   LoanApplicationStatus = "under_review"
	ApplicationStatusKycPending    LoanApplicationStatus = "kyc_pending"
	ApplicationStatusCreditPending LoanApplicationStatus = "credit_pending"
	ApplicationStatusApproved      LoanApplicationStatus = "approved"
	ApplicationStatusRejected      LoanApplicationStatus = "rejected"
	ApplicationStatusDisbursed     LoanApplicationStatus = "disbursed"
	ApplicationStatusCancelled     LoanApplicationStatus = "cancelled"
)

// LoanApplicationStatusValues lists the closed set accepted by the
// loan_application_status column.
func LoanApplicationStatusValues() []string {
	return []string{
		"draft", "submitted", "under_review", "kyc_pending",
		"credit_pending", "approved", "rejected", "disbursed", "cancelled",
	}
}

// Valid reports whether the value belongs to the declared enum set.
func (s LoanApplicationStatus) Valid() bool {
	switch s {
	case ApplicationStatusDraft, ApplicationStatusSubmitted, ApplicationStatusUnderReview,
		ApplicationStatusKycPending, ApplicationStatusCreditPending, ApplicationStatusApproved,
		ApplicationStatusRejected, ApplicationStatusDisbursed, ApplicationStatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transition is allowed from s.
func (s LoanApplicationStatus) Terminal() bool {
	switch s {
	case ApplicationStatusRejected, ApplicationStatusDisbursed, ApplicationStatusCancelled:
		return true
	}
	return false
}

// applicationTransitions is the allowed forward edge set. Cancellation is
// handled separately since it is reachable from every non-terminal status.
var applicationTransitions = map[LoanApplicationStatus][]LoanApplicationStatus{
	ApplicationStatusDraft:         {ApplicationStatusSubmitted},
	ApplicationStatusSubmitted:     {ApplicationStatusUnderReview},
	ApplicationStatusUnderReview:   {ApplicationStatusKycPending, ApplicationStatusCreditPending, ApplicationStatusApproved, ApplicationStatusRejected},
	ApplicationStatusKycPending:    {ApplicationStatusUnderReview, ApplicationStatusCreditPending, ApplicationStatusRejected},
	ApplicationStatusCreditPending: {ApplicationStatusApproved, ApplicationStatusRejected},
	ApplicationStatusApproved:      {ApplicationStatusDisbursed},
}

// CanTransition reports whether moving from s to next is allowed.
func (s LoanApplicationStatus) CanTransition(next LoanApplicationStatus) bool {
	if s.Terminal() {
		return false
	}
	if next == ApplicationStatusCancelled {
		return true
	}
	for _, allowed := range applicationTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// LoanApplication is one user's request for a loan against a product.
// Approved terms stay nil until the application reaches approved.
type LoanApplication struct {
	ID                    int64                 `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID                uuid.UUID             `gorm:"column:userId;type:uuid;not null;index:loan_app_user_id" json:"user_id"`
	LoanProductID         int64                 `gorm:"column:loanProductId;not null" json:"loan_product_id"`
	ApplicationNumber     string                `gorm:"column:applicationNumber;type:varchar(50);not null;uniqueIndex;index:loan_app_number" json:"application_number"`
	Status                LoanApplicationStatus `gorm:"column:status;type:loan_application_status;not null;default:'draft';index:loan_app_status" json:"status"`
	RequestedLoanAmount   decimal.Decimal       `gorm:"column:requestedLoanAmount;type:decimal(15,2);not null" json:"requested_loan_amount"`
	RequestedTenureMonths int                   `gorm:"column:requestedTenureMonths;not null" json:"requested_tenure_months"`
	EmiType               string                `gorm:"column:emiType;type:varchar(20);not null" json:"emi_type"`
	ApprovedLoanAmount    decimal.NullDecimal   `gorm:"column:approvedLoanAmount;type:decimal(15,2)" json:"approved_loan_amount,omitempty"`
	ApprovedTenureMonths  *int                  `gorm:"column:approvedTenureMonths" json:"approved_tenure_months,omitempty"`
	ApprovedInterestRate  decimal.NullDecimal   `gorm:"column:approvedInterestRate;type:decimal(8,4)" json:"approved_interest_rate,omitempty"`
	ApprovedEmiAmount     decimal.NullDecimal   `gorm:"column:approvedEmiAmount;type:decimal(15,2)" json:"approved_emi_amount,omitempty"`
	RejectionReason       *string               `gorm:"column:rejectionReason;type:text" json:"rejection_reason,omitempty"`
	SubmittedAt           *time.Time            `gorm:"column:submittedAt" json:"submitted_at,omitempty"`
	ApprovedAt            *time.Time            `gorm:"column:approvedAt" json:"approved_at,omitempty"`
	ReviewedBy            *uuid.UUID            `gorm:"column:reviewedBy;type:uuid" json:"reviewed_by,omitempty"`
	CreatedAt             time.Time             `gorm:"column:createdAt;not null;index:loan_app_created" json:"created_at"`
	UpdatedAt             time.Time             `gorm:"column:updatedAt;not null" json:"updated_at"`
}

// TableName maps the entity into the los namespace.
func (LoanApplication) TableName() string { return "los.loan_applications" }

// NewLoanApplication creates a draft application.
func NewLoanApplication(userID uuid.UUID, productID int64, applicationNumber, emiType string, amount decimal.Decimal, tenureMonths int) *LoanApplication {
	now := time.Now()
	return &LoanApplication{
		UserID:                userID,
		LoanProductID:         productID,
		ApplicationNumber:     applicationNumber,
		Status:                ApplicationStatusDraft,
		RequestedLoanAmount:   amount,
		RequestedTenureMonths: tenureMonths,
		EmiType:               emiType,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
}

func (a *LoanApplication) transition(next LoanApplicationStatus) error {
	if !a.Status.CanTransition(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, a.Status, next)
	}
	a.Status = next
	a.UpdatedAt = time.Now()
	return nil
}

// Submit moves a draft into the review pipeline and stamps submittedAt.
func (a *LoanApplication) Submit() error {
	if err := a.transition(ApplicationStatusSubmitted); err != nil {
		return err
	}
	now := time.Now()
	a.SubmittedAt = &now
	return nil
}

// StartReview takes a submitted application under review.
func (a *LoanApplication) StartReview(reviewerID uuid.UUID) error {
	if err := a.transition(ApplicationStatusUnderReview); err != nil {
		return err
	}
	a.ReviewedBy = &reviewerID
	return nil
}

// RequireKyc parks the application until KYC completes.
func (a *LoanApplication) RequireKyc() error {
	return a.transition(ApplicationStatusKycPending)
}

// RequireCreditCheck parks the application until the credit decision lands.
func (a *LoanApplication) RequireCreditCheck() error {
	return a.transition(ApplicationStatusCreditPending)
}

// Approve records the sanctioned terms. Approved fields are only ever set
// here, together with the status change.
func (a *LoanApplication) Approve(amount decimal.Decimal, tenureMonths int, interestRate, emiAmount decimal.Decimal) error {
	if amount.IsZero() || tenureMonths <= 0 || interestRate.IsZero() {
		return ErrMissingApprovalTerms
	}
	if err := a.transition(ApplicationStatusApproved); err != nil {
		return err
	}
	now := time.Now()
	a.ApprovedLoanAmount = decimal.NewNullDecimal(amount)
	a.ApprovedTenureMonths = &tenureMonths
	a.ApprovedInterestRate = decimal.NewNullDecimal(interestRate)
	a.ApprovedEmiAmount = decimal.NewNullDecimal(emiAmount)
	a.ApprovedAt = &now
	return nil
}

// Reject closes the application with a reason. Terminal.
func (a *LoanApplication) Reject(reason string) error {
	if err := a.transition(ApplicationStatusRejected); err != nil {
		return err
	}
	a.RejectionReason = &reason
	return nil
}

// MarkDisbursed records that the sanctioned loan was paid out. Terminal.
func (a *LoanApplication) MarkDisbursed() error {
	return a.transition(ApplicationStatusDisbursed)
}

// Cancel withdraws the application. Allowed from any non-terminal status.
func (a *LoanApplication) Cancel() error {
	return a.transition(ApplicationStatusCancelled)
}

// LoanApplicationRepository provides access to loan applications.
type LoanApplicationRepository interface {
	Create(ctx context.Context, app *LoanApplication) error
	Update(ctx context.Context, app *LoanApplication) error
	FindByID(ctx context.Context, id int64) (*LoanApplication, error)
	FindByApplicationNumber(ctx context.Context, number string) (*LoanApplication, error)
	FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*LoanApplication, int64, error)
	FindByStatus(ctx context.Context, status LoanApplicationStatus, limit, offset int) ([]*LoanApplication, int64, error)
}
