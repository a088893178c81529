package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrFeeNotFound        = errors.New("fee not found")
	ErrFeeSettled         = errors.New("fee already settled")
	ErrFeeOverpayment     = errors.New("payment exceeds outstanding fee")
	ErrFeeWaiverExceeds   = errors.New("waiver exceeds outstanding fee")
	ErrFeeMasterInactive  = errors.New("fee master entry is not active")
	ErrFeeRateUnspecified = errors.New("fee master has neither rate nor fixed amount")
)

// FeeType classifies the charge.
type FeeType string

const (
	FeeTypeProcessing  FeeType = "processing"
	FeeTypePrepayment  FeeType = "prepayment"
	FeeTypeForeclosure FeeType = "foreclosure"
	FeeTypeBounce      FeeType = "bounce"
	FeeTypeLegal       FeeType = "legal"
	FeeTypeInspection  FeeType = "inspection"
	FeeTypeOther       FeeType = "other"
)

// FeeTypeValues lists the closed set accepted by the fee_type column.
func FeeTypeValues() []string {
	return []string{"processing", "prepayment", "foreclosure", "bounce", "legal", "inspection", "other"}
}

// Valid reports whether the value belongs to the declared enum set.
func (t FeeType) Valid() bool {
	switch t {
	case FeeTypeProcessing, FeeTypePrepayment, FeeTypeForeclosure,
		FeeTypeBounce, FeeTypeLegal, FeeTypeInspection, FeeTypeOther:
		return true
	}
	return false
}

// FeeCalculationMethod says how the fee amount is derived.
type FeeCalculationMethod string

const (
	FeeCalcFlatAmount              FeeCalculationMethod = "flat_amount"
	FeeCalcPercentageOfLoan        FeeCalculationMethod = "percentage_of_loan"
	FeeCalcPercentageOfOutstanding FeeCalculationMethod = "percentage_of_outstanding"
	FeeCalcPercentageOfEmi         FeeCalculationMethod = "percentage_of_emi"
	FeeCalcTiered                  FeeCalculationMethod = "tiered"
)

// FeeCalculationMethodValues lists the closed set accepted by the
// fee_calculation_method column.
func FeeCalculationMethodValues() []string {
	return []string{"flat_amount", "percentage_of_loan", "percentage_of_outstanding", "percentage_of_emi", "tiered"}
}

// Valid reports whether the value belongs to the declared enum set.
func (m FeeCalculationMethod) Valid() bool {
	switch m {
	case FeeCalcFlatAmount, FeeCalcPercentageOfLoan, FeeCalcPercentageOfOutstanding,
		FeeCalcPercentageOfEmi, FeeCalcTiered:
		return true
	}
	return false
}

// FeeStatus tracks a levied fee through payment or waiver.
type FeeStatus string

const (
	FeeStatusApplicable    FeeStatus = "applicable"
	FeeStatusApplied       FeeStatus = "applied"
	FeeStatusPartiallyPaid FeeStatus = "partially_paid"
	FeeStatusPaid          FeeStatus = "paid"
	FeeStatusWaived        FeeStatus = "waived"
	FeeStatusWrittenOff    FeeStatus = "written_off"
)

// FeeStatusValues lists the closed set accepted by the fee_status column.
func FeeStatusValues() []string {
	return []string{"applicable", "applied", "partially_paid", "paid", "waived", "written_off"}
}

// Valid reports whether the value belongs to the declared enum set.
func (s FeeStatus) Valid() bool {
	switch s {
	case FeeStatusApplicable, FeeStatusApplied, FeeStatusPartiallyPaid,
		FeeStatusPaid, FeeStatusWaived, FeeStatusWrittenOff:
		return true
	}
	return false
}

// FeeMaster is the catalog definition of a chargeable fee.
type FeeMaster struct {
	ID                uuid.UUID            `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	FeeCode           string               `gorm:"column:feeCode;type:varchar(50);not null;uniqueIndex;index:fee_master_code" json:"fee_code"`
	FeeName           string               `gorm:"column:feeName;type:varchar(255);not null" json:"fee_name"`
	FeeType           FeeType              `gorm:"column:feeType;type:fee_type;not null;index:fee_master_type" json:"fee_type"`
	CalculationMethod FeeCalculationMethod `gorm:"column:calculationMethod;type:fee_calculation_method;not null" json:"calculation_method"`
	Rate              decimal.NullDecimal  `gorm:"column:rate;type:decimal(8,4)" json:"rate,omitempty"`
	FixedAmount       decimal.NullDecimal  `gorm:"column:fixedAmount;type:decimal(15,2)" json:"fixed_amount,omitempty"`
	Applicability     string               `gorm:"column:applicability;type:varchar(100);not null" json:"applicability"`
	GlHead            string               `gorm:"column:glHead;type:varchar(100);not null" json:"gl_head"`
	IsActive          bool                 `gorm:"column:isActive;not null;default:true;index:fee_master_active" json:"is_active"`
	EffectiveDate     time.Time            `gorm:"column:effectiveDate;type:date;not null" json:"effective_date"`
	CreatedAt         time.Time            `gorm:"column:createdAt;not null" json:"created_at"`
}

// TableName maps the entity into the lms namespace.
func (FeeMaster) TableName() string { return "lms.fee_master" }

// ComputeAmount derives the fee amount against a base (loan amount,
// outstanding, or EMI, per the calculation method).
func (m *FeeMaster) ComputeAmount(base decimal.Decimal) (decimal.Decimal, error) {
	if !m.IsActive {
		return decimal.Zero, ErrFeeMasterInactive
	}
	switch m.CalculationMethod {
	case FeeCalcFlatAmount:
		if !m.FixedAmount.Valid {
			return decimal.Zero, ErrFeeRateUnspecified
		}
		return m.FixedAmount.Decimal, nil
	case FeeCalcPercentageOfLoan, FeeCalcPercentageOfOutstanding, FeeCalcPercentageOfEmi:
		if !m.Rate.Valid {
			return decimal.Zero, ErrFeeRateUnspecified
		}
		return base.Mul(m.Rate.Decimal).Div(decimal.NewFromInt(100)).Round(2), nil
	case FeeCalcTiered:
		// Tier tables live outside the master row; callers resolve tiers
		// before charging.
		return decimal.Zero, ErrFeeRateUnspecified
	}
	return decimal.Zero, ErrFeeRateUnspecified
}

// LoanFee is one fee levied on an account. The identity
// outstanding = fee - waived - paid holds at all times.
type LoanFee struct {
	ID                uuid.UUID       `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	LoanAccountID     uuid.UUID       `gorm:"column:loanAccountId;type:uuid;not null;index:loan_fees_loan_acc" json:"loan_account_id"`
	FeeID             uuid.UUID       `gorm:"column:feeId;type:uuid;not null;index:loan_fees_fee_id" json:"fee_id"`
	FeeAmount         decimal.Decimal `gorm:"column:feeAmount;type:decimal(15,2);not null" json:"fee_amount"`
	WaivedAmount      decimal.Decimal `gorm:"column:waivedAmount;type:decimal(15,2);not null;default:0" json:"waived_amount"`
	PaidAmount        decimal.Decimal `gorm:"column:paidAmount;type:decimal(15,2);not null;default:0" json:"paid_amount"`
	OutstandingAmount decimal.Decimal `gorm:"column:outstandingAmount;type:decimal(15,2);not null" json:"outstanding_amount"`
	ApplicableDate    time.Time       `gorm:"column:applicableDate;type:date;not null" json:"applicable_date"`
	DueDate           time.Time       `gorm:"column:dueDate;type:date;not null;index:loan_fees_due_date" json:"due_date"`
	Status            FeeStatus       `gorm:"column:status;type:fee_status;not null;default:'applicable';index:loan_fees_status" json:"status"`
	WaivedBy          *string         `gorm:"column:waivedBy;type:varchar(255)" json:"waived_by,omitempty"`
	WaivedReason      *string         `gorm:"column:waivedReason;type:text" json:"waived_reason,omitempty"`
	CreatedAt         time.Time       `gorm:"column:createdAt;not null" json:"created_at"`
}

// TableName maps the entity into the lms namespace.
func (LoanFee) TableName() string { return "lms.loan_fees" }

// NewLoanFee levies a fee on an account with the full amount outstanding.
func NewLoanFee(accountID, feeID uuid.UUID, amount decimal.Decimal, applicableDate, dueDate time.Time) *LoanFee {
	return &LoanFee{
		ID:                uuid.New(),
		LoanAccountID:     accountID,
		FeeID:             feeID,
		FeeAmount:         amount,
		WaivedAmount:      decimal.Zero,
		PaidAmount:        decimal.Zero,
		OutstandingAmount: amount,
		ApplicableDate:    applicableDate,
		DueDate:           dueDate,
		Status:            FeeStatusApplicable,
		CreatedAt:         time.Now(),
	}
}

func (f *LoanFee) settled() bool {
	switch f.Status {
	case FeeStatusPaid, FeeStatusWaived, FeeStatusWrittenOff:
		return true
	}
	return false
}

func (f *LoanFee) recomputeOutstanding() {
	f.OutstandingAmount = f.FeeAmount.Sub(f.WaivedAmount).Sub(f.PaidAmount)
	switch {
	case f.OutstandingAmount.LessThanOrEqual(decimal.Zero):
		f.OutstandingAmount = decimal.Zero
		if f.PaidAmount.IsPositive() {
			f.Status = FeeStatusPaid
		} else {
			f.Status = FeeStatusWaived
		}
	case f.PaidAmount.IsPositive() || f.WaivedAmount.IsPositive():
		f.Status = FeeStatusPartiallyPaid
	}
}

// RecordPayment applies a payment against the outstanding fee.
func (f *LoanFee) RecordPayment(amount decimal.Decimal) error {
	if f.settled() {
		return ErrFeeSettled
	}
	if amount.GreaterThan(f.OutstandingAmount) {
		return ErrFeeOverpayment
	}
	f.PaidAmount = f.PaidAmount.Add(amount)
	f.recomputeOutstanding()
	return nil
}

// Waive forgives part or all of the outstanding fee.
func (f *LoanFee) Waive(amount decimal.Decimal, waivedBy, reason string) error {
	if f.settled() {
		return ErrFeeSettled
	}
	if amount.GreaterThan(f.OutstandingAmount) {
		return ErrFeeWaiverExceeds
	}
	f.WaivedAmount = f.WaivedAmount.Add(amount)
	f.WaivedBy = &waivedBy
	f.WaivedReason = &reason
	f.recomputeOutstanding()
	return nil
}

// WriteOff abandons collection of the remaining outstanding.
func (f *LoanFee) WriteOff() error {
	if f.settled() {
		return ErrFeeSettled
	}
	f.Status = FeeStatusWrittenOff
	return nil
}

// FeePayment is one payment received against a levied fee. Append-only.
type FeePayment struct {
	ID                   uuid.UUID       `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	LoanFeeID            uuid.UUID       `gorm:"column:loanFeeId;type:uuid;not null;index:fee_pay_loan_fee" json:"loan_fee_id"`
	PaymentAmount        decimal.Decimal `gorm:"column:paymentAmount;type:decimal(15,2);not null" json:"payment_amount"`
	PaymentDate          time.Time       `gorm:"column:paymentDate;type:date;not null;index:fee_pay_date" json:"payment_date"`
	PaymentMode          string          `gorm:"column:paymentMode;type:varchar(50);not null" json:"payment_mode"`
	TransactionReference *string         `gorm:"column:transactionReference;type:varchar(100)" json:"transaction_reference,omitempty"`
	UtrNumber            *string         `gorm:"column:utrNumber;type:varchar(100);index:fee_pay_utr" json:"utr_number,omitempty"`
	CreatedAt            time.Time       `gorm:"column:createdAt;not null" json:"created_at"`
}

// TableName maps the entity into the lms namespace.
func (FeePayment) TableName() string { return "lms.fee_payment" }

// PenaltyCalculation records one late-payment penalty computed for an
// overdue installment.
type PenaltyCalculation struct {
	ID             uuid.UUID       `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	EmiScheduleID  int64           `gorm:"column:emiScheduleId;not null;index:penalty_emi_sched" json:"emi_schedule_id"`
	OverdueDays    int             `gorm:"column:overdueDays;not null" json:"overdue_days"`
	PenaltyAmount  decimal.Decimal `gorm:"column:penaltyAmount;type:decimal(15,2);not null" json:"penalty_amount"`
	CalculatedDate time.Time       `gorm:"column:calculatedDate;type:date;not null;index:penalty_calc_date" json:"calculated_date"`
	Waived         bool            `gorm:"column:waived;not null;default:false;index:penalty_waived" json:"waived"`
	WaivedBy       *string         `gorm:"column:waivedBy;type:varchar(255)" json:"waived_by,omitempty"`
	WaivedReason   *string         `gorm:"column:waivedReason;type:text" json:"waived_reason,omitempty"`
	CreatedAt      time.Time       `gorm:"column:createdAt;not null" json:"created_at"`
}

// TableName maps the entity into the lms namespace.
func (PenaltyCalculation) TableName() string { return "lms.penalty_calculation" }

// WaivePenalty forgives the penalty.
func (p *PenaltyCalculation) WaivePenalty(waivedBy, reason string) {
	p.Waived = true
	p.WaivedBy = &waivedBy
	p.WaivedReason = &reason
}

// FeeMasterRepository provides access to the fee catalog.
type FeeMasterRepository interface {
	Create(ctx context.Context, master *FeeMaster) error
	Update(ctx context.Context, master *FeeMaster) error
	FindByCode(ctx context.Context, code string) (*FeeMaster, error)
	FindActive(ctx context.Context) ([]*FeeMaster, error)
}

// LoanFeeRepository provides access to levied fees.
type LoanFeeRepository interface {
	Create(ctx context.Context, fee *LoanFee) error
	Update(ctx context.Context, fee *LoanFee) error
	FindByID(ctx context.Context, id uuid.UUID) (*LoanFee, error)
	FindByAccountID(ctx context.Context, accountID uuid.UUID) ([]*LoanFee, error)
	FindOverdue(ctx context.Context, asOf time.Time) ([]*LoanFee, error)
}

// FeePaymentRepository provides access to fee payments.
type FeePaymentRepository interface {
	Create(ctx context.Context, payment *FeePayment) error
	FindByLoanFeeID(ctx context.Context, loanFeeID uuid.UUID) ([]*FeePayment, error)
}

// PenaltyCalculationRepository provides access to penalty rows.
type PenaltyCalculationRepository interface {
	Create(ctx context.Context, penalty *PenaltyCalculation) error
	Update(ctx context.Context, penalty *PenaltyCalculation) error
	FindByEmiScheduleID(ctx context.Context, emiScheduleID int64) ([]*PenaltyCalculation, error)
}
