package domain

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrEmiNotFound      = errors.New("emi schedule entry not found")
	ErrEmiAlreadyPaid   = errors.New("emi already paid")
	ErrInvalidSchedule  = errors.New("invalid schedule parameters")
	ErrRepaymentInvalid = errors.New("invalid repayment amount")
)

// EmiStatus tracks one installment's payment state.
type EmiStatus string

const (
	EmiStatusScheduled     EmiStatus = "scheduled"
	EmiStatusPaid          EmiStatus = "paid"
	EmiStatusPartiallyPaid EmiStatus = "partially_paid"
	EmiStatusOverdue       EmiStatus = "overdue"
	EmiStatusWaived        EmiStatus = "waived"
)

// EmiStatusValues lists the closed set accepted by the emi_status column.
func EmiStatusValues() []string {
	return []string{"scheduled", "paid", "partially_paid", "overdue", "waived"}
}

// Valid reports whether the value belongs to the declared enum set.
func (s EmiStatus) Valid() bool {
	switch s {
	case EmiStatusScheduled, EmiStatusPaid, EmiStatusPartiallyPaid,
		EmiStatusOverdue, EmiStatusWaived:
		return true
	}
	return false
}

// EmiSchedule is one installment of an amortization plan. The opening and
// closing principal columns chain: each row's closing equals its opening
// minus its principal component, and the next row opens at that closing.
type EmiSchedule struct {
	ID                 int64               `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	LoanApplicationID  int64               `gorm:"column:loanApplicationId;not null;index:emi_loan_app;index:emi_installment" json:"loan_application_id"`
	LoanSanctionID     int64               `gorm:"column:loanSanctionId;not null" json:"loan_sanction_id"`
	InstallmentNumber  int                 `gorm:"column:installmentNumber;not null;index:emi_installment" json:"installment_number"`
	DueDate            time.Time           `gorm:"column:dueDate;type:date;not null;index:emi_due_date" json:"due_date"`
	PrincipalAmount    decimal.Decimal     `gorm:"column:principalAmount;type:decimal(15,2);not null" json:"principal_amount"`
	InterestAmount     decimal.Decimal     `gorm:"column:interestAmount;type:decimal(15,2);not null" json:"interest_amount"`
	TotalEmiAmount     decimal.Decimal     `gorm:"column:totalEmiAmount;type:decimal(15,2);not null" json:"total_emi_amount"`
	OpeningPrincipal   decimal.Decimal     `gorm:"column:openingPrincipal;type:decimal(15,2);not null" json:"opening_principal"`
	ClosingPrincipal   decimal.Decimal     `gorm:"column:closingPrincipal;type:decimal(15,2);not null" json:"closing_principal"`
	Status             EmiStatus           `gorm:"column:status;type:emi_status;not null;default:'scheduled';index:emi_status" json:"status"`
	PaidDate           *time.Time          `gorm:"column:paidDate" json:"paid_date,omitempty"`
	PaidAmount         decimal.NullDecimal `gorm:"column:paidAmount;type:decimal(15,2)" json:"paid_amount,omitempty"`
	OverdueDays        int                 `gorm:"column:overdueDays;not null;default:0" json:"overdue_days"`
	LatePaymentCharges decimal.Decimal     `gorm:"column:latePaymentCharges;type:decimal(15,2);not null;default:0" json:"late_payment_charges"`
	CreatedAt          time.Time           `gorm:"column:createdAt;not null" json:"created_at"`
	UpdatedAt          time.Time           `gorm:"column:updatedAt;not null" json:"updated_at"`
}

// TableName maps the entity into the lms namespace.
func (EmiSchedule) TableName() string { return "lms.emi_schedule" }

// MarkPaid settles the installment in full.
func (e *EmiSchedule) MarkPaid(amount decimal.Decimal, paidAt time.Time) error {
	if e.Status == EmiStatusPaid || e.Status == EmiStatusWaived {
		return ErrEmiAlreadyPaid
	}
	e.Status = EmiStatusPaid
	e.PaidDate = &paidAt
	e.PaidAmount = decimal.NewNullDecimal(amount)
	e.UpdatedAt = time.Now()
	return nil
}

// MarkPartiallyPaid records a payment short of the installment total.
func (e *EmiSchedule) MarkPartiallyPaid(amount decimal.Decimal, paidAt time.Time) error {
	if e.Status == EmiStatusPaid || e.Status == EmiStatusWaived {
		return ErrEmiAlreadyPaid
	}
	if amount.GreaterThanOrEqual(e.TotalEmiAmount) {
		return e.MarkPaid(amount, paidAt)
	}
	e.Status = EmiStatusPartiallyPaid
	e.PaidDate = &paidAt
	e.PaidAmount = decimal.NewNullDecimal(amount)
	e.UpdatedAt = time.Now()
	return nil
}

// MarkOverdue stamps the days-past-due count and any late charges.
func (e *EmiSchedule) MarkOverdue(overdueDays int, lateCharges decimal.Decimal) {
	e.Status = EmiStatusOverdue
	e.OverdueDays = overdueDays
	e.LatePaymentCharges = lateCharges
	e.UpdatedAt = time.Now()
}

// Waive forgives the installment.
func (e *EmiSchedule) Waive() error {
	if e.Status == EmiStatusPaid {
		return ErrEmiAlreadyPaid
	}
	e.Status = EmiStatusWaived
	e.UpdatedAt = time.Now()
	return nil
}

// MonthlyRate converts an annual percentage rate to a monthly fraction.
func MonthlyRate(annualRatePercent decimal.Decimal) decimal.Decimal {
	return annualRatePercent.Div(decimal.NewFromInt(1200))
}

// ReducingBalanceEmi computes the level installment for principal p over n
// months at the given annual rate, rounded to the paise.
func ReducingBalanceEmi(principal, annualRatePercent decimal.Decimal, tenureMonths int) decimal.Decimal {
	if annualRatePercent.IsZero() {
		return principal.Div(decimal.NewFromInt(int64(tenureMonths))).Round(2)
	}
	r := MonthlyRate(annualRatePercent)
	factor := decimal.NewFromInt(1).Add(r).Pow(decimal.NewFromInt(int64(tenureMonths)))
	return principal.Mul(r).Mul(factor).Div(factor.Sub(decimal.NewFromInt(1))).Round(2)
}

// BuildReducingBalanceSchedule amortizes principal over tenureMonths at the
// given annual rate, one installment per month starting at firstDueDate.
// Each row's interest is the monthly rate on its opening principal; the final
// row absorbs rounding so the chain closes at exactly zero.
func BuildReducingBalanceSchedule(applicationID, sanctionID int64, principal, annualRatePercent decimal.Decimal, tenureMonths int, firstDueDate time.Time) ([]*EmiSchedule, error) {
	if tenureMonths <= 0 || !principal.IsPositive() || annualRatePercent.IsNegative() {
		return nil, ErrInvalidSchedule
	}

	emi := ReducingBalanceEmi(principal, annualRatePercent, tenureMonths)
	r := MonthlyRate(annualRatePercent)
	now := time.Now()

	schedule := make([]*EmiSchedule, 0, tenureMonths)
	opening := principal
	for i := 1; i <= tenureMonths; i++ {
		interest := opening.Mul(r).Round(2)
		principalPart := emi.Sub(interest)
		total := emi
		if i == tenureMonths {
			// Final installment clears whatever principal remains.
			principalPart = opening
			total = principalPart.Add(interest)
		}
		closing := opening.Sub(principalPart)

		schedule = append(schedule, &EmiSchedule{
			LoanApplicationID:  applicationID,
			LoanSanctionID:     sanctionID,
			InstallmentNumber:  i,
			DueDate:            firstDueDate.AddDate(0, i-1, 0),
			PrincipalAmount:    principalPart,
			InterestAmount:     interest,
			TotalEmiAmount:     total,
			OpeningPrincipal:   opening,
			ClosingPrincipal:   closing,
			Status:             EmiStatusScheduled,
			LatePaymentCharges: decimal.Zero,
			CreatedAt:          now,
			UpdatedAt:          now,
		})
		opening = closing
	}
	return schedule, nil
}

// ValidateScheduleChain checks the principal chain of a schedule ordered by
// installment number: each row closes at opening minus principal, the next
// row opens at that closing, and the final row closes at zero.
func ValidateScheduleChain(schedule []*EmiSchedule) error {
	for i, row := range schedule {
		if !row.OpeningPrincipal.Sub(row.PrincipalAmount).Equal(row.ClosingPrincipal) {
			return ErrInvalidSchedule
		}
		if i > 0 && !schedule[i-1].ClosingPrincipal.Equal(row.OpeningPrincipal) {
			return ErrInvalidSchedule
		}
	}
	if n := len(schedule); n > 0 && !schedule[n-1].ClosingPrincipal.IsZero() {
		return ErrInvalidSchedule
	}
	return nil
}

// Repayment is one received payment allocated against a loan. Immutable once
// written; there is no updatedAt.
type Repayment struct {
	ID                     int64           `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	LoanApplicationID      int64           `gorm:"column:loanApplicationId;not null;index:repayment_loan_app" json:"loan_application_id"`
	EmiScheduleID          *int64          `gorm:"column:emiScheduleId;index:repayment_emi" json:"emi_schedule_id,omitempty"`
	PaymentAmount          decimal.Decimal `gorm:"column:paymentAmount;type:decimal(15,2);not null" json:"payment_amount"`
	PaymentDate            time.Time       `gorm:"column:paymentDate;not null;index:repayment_date" json:"payment_date"`
	PaymentMode            string          `gorm:"column:paymentMode;type:varchar(50);not null" json:"payment_mode"`
	PrincipalComponent     decimal.Decimal `gorm:"column:principalComponent;type:decimal(15,2);not null" json:"principal_component"`
	InterestComponent      decimal.Decimal `gorm:"column:interestComponent;type:decimal(15,2);not null" json:"interest_component"`
	LatePaymentCharges     decimal.Decimal `gorm:"column:latePaymentCharges;type:decimal(15,2);not null;default:0" json:"late_payment_charges"`
	TransactionReference   string          `gorm:"column:transactionReference;type:varchar(100);not null;index:repayment_txn" json:"transaction_reference"`
	UtrNumber              *string         `gorm:"column:utrNumber;type:varchar(100)" json:"utr_number,omitempty"`
	PaymentGatewayResponse json.RawMessage `gorm:"column:paymentGatewayResponse;type:jsonb" json:"payment_gateway_response,omitempty"`
	AllocatedToEmiNumbers  *string         `gorm:"column:allocatedToEmiNumbers;type:varchar(500)" json:"allocated_to_emi_numbers,omitempty"`
	ForeclosurePayment     bool            `gorm:"column:foreclosurePayment;not null;default:false" json:"foreclosure_payment"`
	CreatedAt              time.Time       `gorm:"column:createdAt;not null" json:"created_at"`
}

// TableName maps the entity into the lms namespace.
func (Repayment) TableName() string { return "lms.repayment" }

// Validate checks that the component breakdown sums to the payment amount.
func (r *Repayment) Validate() error {
	sum := r.PrincipalComponent.Add(r.InterestComponent).Add(r.LatePaymentCharges)
	if !sum.Equal(r.PaymentAmount) {
		return ErrRepaymentInvalid
	}
	return nil
}

// EmiScheduleRepository provides access to installment rows.
type EmiScheduleRepository interface {
	CreateBatch(ctx context.Context, schedule []*EmiSchedule) error
	Update(ctx context.Context, emi *EmiSchedule) error
	FindByApplicationID(ctx context.Context, applicationID int64) ([]*EmiSchedule, error)
	FindDueBefore(ctx context.Context, date time.Time, status EmiStatus) ([]*EmiSchedule, error)
}

// RepaymentRepository provides access to received payments.
type RepaymentRepository interface {
	Create(ctx context.Context, repayment *Repayment) error
	FindByApplicationID(ctx context.Context, applicationID int64) ([]*Repayment, error)
	FindByTransactionReference(ctx context.Context, ref string) (*Repayment, error)
}
