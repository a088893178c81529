package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrRestructuringNotFound = errors.New("restructuring not found")
	ErrRestructuringFinal    = errors.New("restructuring already finalized")
)

// RestructuringType classifies the relief being requested.
type RestructuringType string

const (
	RestructuringTenureExtension       RestructuringType = "tenure_extension"
	RestructuringInterestRateReduction RestructuringType = "interest_rate_reduction"
	RestructuringMoratorium            RestructuringType = "moratorium"
	RestructuringRescheduling          RestructuringType = "rescheduling"
	RestructuringRehabilitation        RestructuringType = "restructuring_and_rehabilitation"
	RestructuringOneTimeSettlement     RestructuringType = "one_time_settlement"
)

// RestructuringTypeValues lists the closed set accepted by the
// restructuring_type column.
func RestructuringTypeValues() []string {
	return []string{
		"tenure_extension", "interest_rate_reduction", "moratorium",
		"rescheduling", "restructuring_and_rehabilitation", "one_time_settlement",
	}
}

// Valid reports whether the value belongs to the declared enum set.
func (t RestructuringType) Valid() bool {
	switch t {
	case RestructuringTenureExtension, RestructuringInterestRateReduction, RestructuringMoratorium,
		RestructuringRescheduling, RestructuringRehabilitation, RestructuringOneTimeSettlement:
		return true
	}
	return false
}

// RestructuringStatus tracks a restructuring request through implementation.
type RestructuringStatus string

const (
	RestructuringStatusRequested   RestructuringStatus = "requested"
	RestructuringStatusUnderReview RestructuringStatus = "under_review"
	RestructuringStatusApproved    RestructuringStatus = "approved"
	RestructuringStatusRejected    RestructuringStatus = "rejected"
	RestructuringStatusImplemented RestructuringStatus = "implemented"
	RestructuringStatusCancelled   RestructuringStatus = "cancelled"
)

// RestructuringStatusValues lists the closed set accepted by the
// restructuring_status column.
func RestructuringStatusValues() []string {
	return []string{"requested", "under_review", "approved", "rejected", "implemented", "cancelled"}
}

// Valid reports whether the value belongs to the declared enum set.
func (s RestructuringStatus) Valid() bool {
	switch s {
	case RestructuringStatusRequested, RestructuringStatusUnderReview, RestructuringStatusApproved,
		RestructuringStatusRejected, RestructuringStatusImplemented, RestructuringStatusCancelled:
		return true
	}
	return false
}

// AdjustmentReason says why an account's rate changed.
type AdjustmentReason string

const (
	AdjustmentReasonRateRevision     AdjustmentReason = "rate_revision"
	AdjustmentReasonRestructuring    AdjustmentReason = "restructuring"
	AdjustmentReasonRegulatoryChange AdjustmentReason = "regulatory_change"
	AdjustmentReasonCustomerRequest  AdjustmentReason = "customer_request"
	AdjustmentReasonErrorCorrection  AdjustmentReason = "error_correction"
)

// AdjustmentReasonValues lists the closed set accepted by the
// adjustment_reason column.
func AdjustmentReasonValues() []string {
	return []string{"rate_revision", "restructuring", "regulatory_change", "customer_request", "error_correction"}
}

// Valid reports whether the value belongs to the declared enum set.
func (r AdjustmentReason) Valid() bool {
	switch r {
	case AdjustmentReasonRateRevision, AdjustmentReasonRestructuring, AdjustmentReasonRegulatoryChange,
		AdjustmentReasonCustomerRequest, AdjustmentReasonErrorCorrection:
		return true
	}
	return false
}

// LoanRestructuring is one relief request against an account.
type LoanRestructuring struct {
	ID                uuid.UUID           `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	LoanAccountID     uuid.UUID           `gorm:"column:loanAccountId;type:uuid;not null;index:loan_restruct_loan_acc" json:"loan_account_id"`
	RestructuringType RestructuringType   `gorm:"column:restructuringType;type:restructuring_type;not null" json:"restructuring_type"`
	RequestedDate     time.Time           `gorm:"column:requestedDate;type:date;not null;index:loan_restruct_req_date" json:"requested_date"`
	EffectiveDate     *time.Time          `gorm:"column:effectiveDate;type:date" json:"effective_date,omitempty"`
	ApprovedDate      *time.Time          `gorm:"column:approvedDate;type:date" json:"approved_date,omitempty"`
	ApprovedBy        *string             `gorm:"column:approvedBy;type:varchar(255)" json:"approved_by,omitempty"`
	Reason            string              `gorm:"column:reason;type:text;not null" json:"reason"`
	Status            RestructuringStatus `gorm:"column:status;type:restructuring_status;not null;default:'requested';index:loan_restruct_status" json:"status"`
	CreatedAt         time.Time           `gorm:"column:createdAt;not null" json:"created_at"`
	UpdatedAt         time.Time           `gorm:"column:updatedAt;not null" json:"updated_at"`
}

// TableName maps the entity into the lms namespace.
func (LoanRestructuring) TableName() string { return "lms.loan_restructuring" }

// NewLoanRestructuring opens a relief request.
func NewLoanRestructuring(accountID uuid.UUID, rType RestructuringType, reason string, requestedDate time.Time) *LoanRestructuring {
	now := time.Now()
	return &LoanRestructuring{
		ID:                uuid.New(),
		LoanAccountID:     accountID,
		RestructuringType: rType,
		RequestedDate:     requestedDate,
		Reason:            reason,
		Status:            RestructuringStatusRequested,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

func (r *LoanRestructuring) final() bool {
	switch r.Status {
	case RestructuringStatusRejected, RestructuringStatusImplemented, RestructuringStatusCancelled:
		return true
	}
	return false
}

// StartReview moves the request under review.
func (r *LoanRestructuring) StartReview() error {
	if r.Status != RestructuringStatusRequested {
		return ErrRestructuringFinal
	}
	r.Status = RestructuringStatusUnderReview
	r.UpdatedAt = time.Now()
	return nil
}

// Approve records the credit decision and when the new terms take effect.
func (r *LoanRestructuring) Approve(approvedBy string, effectiveDate time.Time) error {
	if r.Status != RestructuringStatusUnderReview {
		return ErrRestructuringFinal
	}
	now := time.Now()
	r.Status = RestructuringStatusApproved
	r.ApprovedBy = &approvedBy
	r.ApprovedDate = &now
	r.EffectiveDate = &effectiveDate
	r.UpdatedAt = now
	return nil
}

// Reject closes the request without relief.
func (r *LoanRestructuring) Reject() error {
	if r.final() {
		return ErrRestructuringFinal
	}
	r.Status = RestructuringStatusRejected
	r.UpdatedAt = time.Now()
	return nil
}

// MarkImplemented records that the approved terms were applied to the account.
func (r *LoanRestructuring) MarkImplemented() error {
	if r.Status != RestructuringStatusApproved {
		return ErrRestructuringFinal
	}
	r.Status = RestructuringStatusImplemented
	r.UpdatedAt = time.Now()
	return nil
}

// Cancel withdraws the request.
func (r *LoanRestructuring) Cancel() error {
	if r.final() {
		return ErrRestructuringFinal
	}
	r.Status = RestructuringStatusCancelled
	r.UpdatedAt = time.Now()
	return nil
}

// RestructuringTerms captures the before and after of an approved
// restructuring. One row per restructuring.
type RestructuringTerms struct {
	ID                   uuid.UUID       `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	LoanRestructuringID  uuid.UUID       `gorm:"column:loanRestructuringId;type:uuid;not null" json:"loan_restructuring_id"`
	OldTenure            int             `gorm:"column:oldTenure;not null" json:"old_tenure"`
	NewTenure            int             `gorm:"column:newTenure;not null" json:"new_tenure"`
	OldInterestRate      decimal.Decimal `gorm:"column:oldInterestRate;type:decimal(8,4);not null" json:"old_interest_rate"`
	NewInterestRate      decimal.Decimal `gorm:"column:newInterestRate;type:decimal(8,4);not null" json:"new_interest_rate"`
	OldEmiAmount         decimal.Decimal `gorm:"column:oldEmiAmount;type:decimal(15,2);not null" json:"old_emi_amount"`
	NewEmiAmount         decimal.Decimal `gorm:"column:newEmiAmount;type:decimal(15,2);not null" json:"new_emi_amount"`
	MoratoriumPeriod     int             `gorm:"column:moratoriumPeriod;not null;default:0" json:"moratorium_period"`
	MoratoriumReason     *string         `gorm:"column:moratoriumReason;type:text" json:"moratorium_reason,omitempty"`
	RestructuringCharges decimal.Decimal `gorm:"column:restructuringCharges;type:decimal(15,2);not null;default:0" json:"restructuring_charges"`
	CreatedAt            time.Time       `gorm:"column:createdAt;not null" json:"created_at"`
}

// TableName maps the entity into the lms namespace.
func (RestructuringTerms) TableName() string { return "lms.restructuring_terms" }

// InterestRateAdjustment is one applied rate change on an account, optionally
// linked to a restructuring. Append-only.
type InterestRateAdjustment struct {
	ID                    uuid.UUID        `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	LoanAccountID         uuid.UUID        `gorm:"column:loanAccountId;type:uuid;not null;index:int_rate_adj_loan_acc" json:"loan_account_id"`
	EffectiveFrom         time.Time        `gorm:"column:effectiveFrom;type:date;not null;index:int_rate_adj_eff" json:"effective_from"`
	PreviousRate          decimal.Decimal  `gorm:"column:previousRate;type:decimal(8,4);not null" json:"previous_rate"`
	NewRate               decimal.Decimal  `gorm:"column:newRate;type:decimal(8,4);not null" json:"new_rate"`
	AdjustmentReason      AdjustmentReason `gorm:"column:adjustmentReason;type:adjustment_reason;not null" json:"adjustment_reason"`
	ApprovedBy            *string          `gorm:"column:approvedBy;type:varchar(255)" json:"approved_by,omitempty"`
	ApprovedAt            *time.Time       `gorm:"column:approvedAt" json:"approved_at,omitempty"`
	LinkedToRestructuring bool             `gorm:"column:linkedToRestructuring;not null;default:false;index:int_rate_adj_restruct" json:"linked_to_restructuring"`
	CreatedAt             time.Time        `gorm:"column:createdAt;not null" json:"created_at"`
}

// TableName maps the entity into the lms namespace.
func (InterestRateAdjustment) TableName() string { return "lms.interest_rate_adjustment" }

// TenureChange is one applied tenure modification on an account. Append-only.
type TenureChange struct {
	ID              int64           `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	LoanAccountID   uuid.UUID       `gorm:"column:loanAccountId;type:uuid;not null;index:tenure_change_loan_acc" json:"loan_account_id"`
	OldTenureMonths int             `gorm:"column:oldTenureMonths;not null" json:"old_tenure_months"`
	NewTenureMonths int             `gorm:"column:newTenureMonths;not null" json:"new_tenure_months"`
	EffectiveDate   time.Time       `gorm:"column:effectiveDate;type:date;not null;index:tenure_change_eff" json:"effective_date"`
	Reason          string          `gorm:"column:reason;type:text;not null" json:"reason"`
	ImpactOnEmi     decimal.Decimal `gorm:"column:impactOnEmi;type:decimal(15,2);not null" json:"impact_on_emi"`
	ApprovedBy      *string         `gorm:"column:approvedBy;type:varchar(255)" json:"approved_by,omitempty"`
	ApprovedAt      *time.Time      `gorm:"column:approvedAt" json:"approved_at,omitempty"`
	CreatedAt       time.Time       `gorm:"column:createdAt;not null" json:"created_at"`
}

// TableName maps the entity into the lms namespace.
func (TenureChange) TableName() string { return "lms.tenure_change" }

// TopUpLoan is an additional amount lent on top of an existing account.
type TopUpLoan struct {
	ID                  int64           `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ParentLoanAccountID uuid.UUID       `gorm:"column:parentLoanAccountId;type:uuid;not null;index:top_up_parent_loan" json:"parent_loan_account_id"`
	TopUpAmount         decimal.Decimal `gorm:"column:topUpAmount;type:decimal(15,2);not null" json:"top_up_amount"`
	NewTotalLoan        decimal.Decimal `gorm:"column:newTotalLoan;type:decimal(15,2);not null" json:"new_total_loan"`
	NewTenure           int             `gorm:"column:newTenure;not null" json:"new_tenure"`
	NewInterestRate     decimal.Decimal `gorm:"column:newInterestRate;type:decimal(8,4);not null" json:"new_interest_rate"`
	ApprovedDate        *time.Time      `gorm:"column:approvedDate;type:date;index:top_up_app_date" json:"approved_date,omitempty"`
	DisbursedDate       *time.Time      `gorm:"column:disbursedDate;type:date" json:"disbursed_date,omitempty"`
	Status              string          `gorm:"column:status;type:varchar(50);not null;default:'pending';index:top_up_status" json:"status"`
	CreatedAt           time.Time       `gorm:"column:createdAt;not null" json:"created_at"`
}

// TableName maps the entity into the lms namespace.
func (TopUpLoan) TableName() string { return "lms.top_up_loan" }

// LoanRestructuringRepository provides access to relief requests.
type LoanRestructuringRepository interface {
	Create(ctx context.Context, restructuring *LoanRestructuring) error
	Update(ctx context.Context, restructuring *LoanRestructuring) error
	FindByID(ctx context.Context, id uuid.UUID) (*LoanRestructuring, error)
	FindByAccountID(ctx context.Context, accountID uuid.UUID) ([]*LoanRestructuring, error)
}

// RestructuringTermsRepository provides access to before/after term records.
type RestructuringTermsRepository interface {
	Create(ctx context.Context, terms *RestructuringTerms) error
	FindByRestructuringID(ctx context.Context, restructuringID uuid.UUID) (*RestructuringTerms, error)
}

// InterestRateAdjustmentRepository provides access to applied rate changes.
type InterestRateAdjustmentRepository interface {
	Create(ctx context.Context, adjustment *InterestRateAdjustment) error
	FindByAccountID(ctx context.Context, accountID uuid.UUID) ([]*InterestRateAdjustment, error)
}

// TenureChangeRepository provides access to applied tenure changes.
type TenureChangeRepository interface {
	Create(ctx context.Context, change *TenureChange) error
	FindByAccountID(ctx context.Context, accountID uuid.UUID) ([]*TenureChange, error)
}

// TopUpLoanRepository provides access to top-up records.
type TopUpLoanRepository interface {
	Create(ctx context.Context, topUp *TopUpLoan) error
	Update(ctx context.Context, topUp *TopUpLoan) error
	FindByParentAccountID(ctx context.Context, accountID uuid.UUID) ([]*TopUpLoan, error)
}
