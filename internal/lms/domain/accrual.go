package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrAccrualNotFound      = errors.New("interest accrual not found")
	ErrAccrualAlreadyPosted = errors.New("accrual already posted to ledger")
)

// AccrualStatus tracks the outcome of one accrual batch run.
type AccrualStatus string

const (
	AccrualStatusPending   AccrualStatus = "pending"
	AccrualStatusCompleted AccrualStatus = "completed"
	AccrualStatusFailed    AccrualStatus = "failed"
	AccrualStatusPartial   AccrualStatus = "partial"
)

// AccrualStatusValues lists the closed set accepted by the accrual_status column.
func AccrualStatusValues() []string {
	return []string{"pending", "completed", "failed", "partial"}
}

// Valid reports whether the value belongs to the declared enum set.
func (s AccrualStatus) Valid() bool {
	switch s {
	case AccrualStatusPending, AccrualStatusCompleted, AccrualStatusFailed, AccrualStatusPartial:
		return true
	}
	return false
}

// InterestAccrual is one day's interest charge against an account. Rows are
// append-only with at most one row per account and date; postedToLedger flips
// exactly once when the ledger picks the row up.
type InterestAccrual struct {
	ID                   uuid.UUID       `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	LoanAccountID        uuid.UUID       `gorm:"column:loanAccountId;type:uuid;not null;index:int_accr_loan_acc;uniqueIndex:int_accr_loan_date" json:"loan_account_id"`
	AccrualDate          time.Time       `gorm:"column:accrualDate;type:date;not null;index:int_accr_date;uniqueIndex:int_accr_loan_date" json:"accrual_date"`
	PrincipalOutstanding decimal.Decimal `gorm:"column:principalOutstanding;type:decimal(15,2);not null" json:"principal_outstanding"`
	InterestRate         decimal.Decimal `gorm:"column:interestRate;type:decimal(8,4);not null" json:"interest_rate"`
	DaysInPeriod         int             `gorm:"column:daysInPeriod;not null" json:"days_in_period"`
	AccruedInterest      decimal.Decimal `gorm:"column:accruedInterest;type:decimal(15,2);not null" json:"accrued_interest"`
	PostedToLedger       bool            `gorm:"column:postedToLedger;not null;default:false;index:int_accr_posted" json:"posted_to_ledger"`
	CreatedAt            time.Time       `gorm:"column:createdAt;not null" json:"created_at"`
}

// TableName maps the entity into the lms namespace.
func (InterestAccrual) TableName() string { return "lms.interest_accrual" }

// DailyInterest computes simple interest on outstanding for days at the
// annual rate over a dayCountBasis year, rounded to the paise.
func DailyInterest(outstanding, annualRatePercent decimal.Decimal, days, dayCountBasis int) decimal.Decimal {
	return outstanding.
		Mul(annualRatePercent).
		Mul(decimal.NewFromInt(int64(days))).
		Div(decimal.NewFromInt(int64(dayCountBasis)).Mul(decimal.NewFromInt(100))).
		Round(2)
}

// NewInterestAccrual computes and records one accrual period for an account.
func NewInterestAccrual(accountID uuid.UUID, accrualDate time.Time, outstanding, annualRatePercent decimal.Decimal, days, dayCountBasis int) *InterestAccrual {
	return &InterestAccrual{
		ID:                   uuid.New(),
		LoanAccountID:        accountID,
		AccrualDate:          accrualDate,
		PrincipalOutstanding: outstanding,
		InterestRate:         annualRatePercent,
		DaysInPeriod:         days,
		AccruedInterest:      DailyInterest(outstanding, annualRatePercent, days, dayCountBasis),
		CreatedAt:            time.Now(),
	}
}

// MarkPosted flips the ledger flag. One-way.
func (a *InterestAccrual) MarkPosted() error {
	if a.PostedToLedger {
		return ErrAccrualAlreadyPosted
	}
	a.PostedToLedger = true
	return nil
}

// AccrualRunLog summarizes one execution of the accrual batch.
type AccrualRunLog struct {
	ID                   int64           `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	RunDate              time.Time       `gorm:"column:runDate;type:date;not null;index:accrual_log_run_date" json:"run_date"`
	StartDate            time.Time       `gorm:"column:startDate;type:date;not null" json:"start_date"`
	EndDate              time.Time       `gorm:"column:endDate;type:date;not null" json:"end_date"`
	LoansProcessed       int             `gorm:"column:loansProcessed;not null" json:"loans_processed"`
	TotalAccruedInterest decimal.Decimal `gorm:"column:totalAccruedInterest;type:decimal(15,2);not null" json:"total_accrued_interest"`
	Status               AccrualStatus   `gorm:"column:status;type:accrual_status;not null;default:'pending';index:accrual_log_status" json:"status"`
	ErrorMessage         *string         `gorm:"column:errorMessage;type:text" json:"error_message,omitempty"`
	StartedAt            time.Time       `gorm:"column:startedAt;not null" json:"started_at"`
	CompletedAt          *time.Time      `gorm:"column:completedAt" json:"completed_at,omitempty"`
}

// TableName maps the entity into the lms namespace.
func (AccrualRunLog) TableName() string { return "lms.accrual_run_log" }

// Complete finalizes the run log with its totals.
func (l *AccrualRunLog) Complete(loansProcessed int, totalAccrued decimal.Decimal) {
	now := time.Now()
	l.LoansProcessed = loansProcessed
	l.TotalAccruedInterest = totalAccrued
	l.Status = AccrualStatusCompleted
	l.CompletedAt = &now
}

// CompletePartial finalizes a run where some accounts failed.
func (l *AccrualRunLog) CompletePartial(loansProcessed int, totalAccrued decimal.Decimal, errMsg string) {
	now := time.Now()
	l.LoansProcessed = loansProcessed
	l.TotalAccruedInterest = totalAccrued
	l.Status = AccrualStatusPartial
	l.ErrorMessage = &errMsg
	l.CompletedAt = &now
}

// Fail finalizes a run that could not proceed at all.
func (l *AccrualRunLog) Fail(errMsg string) {
	now := time.Now()
	l.Status = AccrualStatusFailed
	l.ErrorMessage = &errMsg
	l.CompletedAt = &now
}

// InterestRateHistory is the audit trail of effective rate changes on an
// account. Append-only.
type InterestRateHistory struct {
	ID            int64           `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	LoanAccountID uuid.UUID       `gorm:"column:loanAccountId;type:uuid;not null;index:int_rate_hist_loan_acc;index:int_rate_hist_loan_date" json:"loan_account_id"`
	EffectiveDate time.Time       `gorm:"column:effectiveDate;type:date;not null;index:int_rate_hist_eff_date;index:int_rate_hist_loan_date" json:"effective_date"`
	OldRate       decimal.Decimal `gorm:"column:oldRate;type:decimal(8,4);not null" json:"old_rate"`
	NewRate       decimal.Decimal `gorm:"column:newRate;type:decimal(8,4);not null" json:"new_rate"`
	Reason        string          `gorm:"column:reason;type:text;not null" json:"reason"`
	ChangedBy     string          `gorm:"column:changedBy;type:varchar(255);not null" json:"changed_by"`
	CreatedAt     time.Time       `gorm:"column:createdAt;not null" json:"created_at"`
}

// TableName maps the entity into the lms namespace.
func (InterestRateHistory) TableName() string { return "lms.interest_rate_history" }

// InterestAccrualRepository provides access to accrual rows.
type InterestAccrualRepository interface {
	Create(ctx context.Context, accrual *InterestAccrual) error
	CreateBatch(ctx context.Context, accruals []*InterestAccrual) error
	MarkPosted(ctx context.Context, ids []uuid.UUID) error
	FindUnposted(ctx context.Context, limit int) ([]*InterestAccrual, error)
	FindByAccountAndDate(ctx context.Context, accountID uuid.UUID, date time.Time) (*InterestAccrual, error)
}

// AccrualRunLogRepository provides access to batch run logs.
type AccrualRunLogRepository interface {
	Create(ctx context.Context, log *AccrualRunLog) error
	Update(ctx context.Context, log *AccrualRunLog) error
	FindByRunDate(ctx context.Context, date time.Time) ([]*AccrualRunLog, error)
}

// InterestRateHistoryRepository provides access to rate change records.
type InterestRateHistoryRepository interface {
	Create(ctx context.Context, history *InterestRateHistory) error
	FindByAccountID(ctx context.Context, accountID uuid.UUID) ([]*InterestRateHistory, error)
}
