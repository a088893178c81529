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
	ErrSettlementNotFound      = errors.New("settlement not found")
	ErrInvalidSettlementStatus = errors.New("invalid settlement status transition")
)

// SettlementStatus tracks a payout batch through the transfer pipeline.
type SettlementStatus string

const (
	SettlementStatusPending    SettlementStatus = "pending"
	SettlementStatusProcessing SettlementStatus = "processing"
	SettlementStatusCompleted  SettlementStatus = "completed"
	SettlementStatusFailed     SettlementStatus = "failed"
	SettlementStatusCancelled  SettlementStatus = "cancelled"
)

// SettlementStatusValues lists the closed set accepted by the settlement_status column.
func SettlementStatusValues() []string {
	return []string{"pending", "processing", "completed", "failed", "cancelled"}
}

// Valid reports whether the value belongs to the declared enum set.
func (s SettlementStatus) Valid() bool {
	switch s {
	case SettlementStatusPending, SettlementStatusProcessing, SettlementStatusCompleted,
		SettlementStatusFailed, SettlementStatusCancelled:
		return true
	}
	return false
}

// Settlement is a payout batch covering a merchant's delivered orders over a
// period. Net amount must equal sales minus deductions plus adjustments.
type Settlement struct {
	ID                 uuid.UUID        `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	SettlementNumber   string           `gorm:"column:settlementNumber;type:varchar(50);not null;uniqueIndex" json:"settlement_number"`
	MerchantID         uuid.UUID        `gorm:"column:merchantId;type:uuid;not null;index:settlement_merchant" json:"merchant_id"`
	PeriodStart        time.Time        `gorm:"column:periodStart;type:date;not null" json:"period_start"`
	PeriodEnd          time.Time        `gorm:"column:periodEnd;type:date;not null" json:"period_end"`
	TotalOrders        int              `gorm:"column:totalOrders;not null;default:0" json:"total_orders"`
	TotalSalesAmount   decimal.Decimal  `gorm:"column:totalSalesAmount;type:decimal(15,2);not null;default:0" json:"total_sales_amount"`
	CommissionAmount   decimal.Decimal  `gorm:"column:commissionAmount;type:decimal(15,2);not null;default:0" json:"commission_amount"`
	RefundAmount       decimal.Decimal  `gorm:"column:refundAmount;type:decimal(15,2);not null;default:0" json:"refund_amount"`
	ReturnAmount       decimal.Decimal  `gorm:"column:returnAmount;type:decimal(15,2);not null;default:0" json:"return_amount"`
	CancellationAmount decimal.Decimal  `gorm:"column:cancellationAmount;type:decimal(15,2);not null;default:0" json:"cancellation_amount"`
	AdjustmentAmount   decimal.Decimal  `gorm:"column:adjustmentAmount;type:decimal(15,2);not null;default:0" json:"adjustment_amount"`
	NetAmount          decimal.Decimal  `gorm:"column:netAmount;type:decimal(15,2);not null;default:0" json:"net_amount"`
	Status             SettlementStatus `gorm:"column:status;type:settlement_status;not null;default:'pending';index:settlement_status" json:"status"`
	BankAccountNumber  *string          `gorm:"column:bankAccountNumber;type:varchar(50)" json:"bank_account_number,omitempty"`
	BankIfscCode       *string          `gorm:"column:bankIfscCode;type:varchar(20)" json:"bank_ifsc_code,omitempty"`
	UtrNumber          *string          `gorm:"column:utrNumber;type:varchar(50)" json:"utr_number,omitempty"`
	InitiatedAt        *time.Time       `gorm:"column:initiatedAt" json:"initiated_at,omitempty"`
	CompletedAt        *time.Time       `gorm:"column:completedAt" json:"completed_at,omitempty"`
	FailureReason      *string          `gorm:"column:failureReason;type:text" json:"failure_reason,omitempty"`
	RetryCount         int              `gorm:"column:retryCount;not null;default:0" json:"retry_count"`
	NextRetryAt        *time.Time       `gorm:"column:nextRetryAt" json:"next_retry_at,omitempty"`
	Notes              *string          `gorm:"column:notes;type:text" json:"notes,omitempty"`
	CreatedAt          time.Time        `gorm:"column:createdAt;not null;index:settlement_created" json:"created_at"`
	UpdatedAt          time.Time        `gorm:"column:updatedAt;not null" json:"updated_at"`
}

// TableName maps the entity into the merchant namespace.
func (Settlement) TableName() string { return "merchant.settlements" }

// NewSettlement opens a pending payout batch for a merchant and period.
func NewSettlement(number string, merchantID uuid.UUID, periodStart, periodEnd time.Time) *Settlement {
	now := time.Now()
	return &Settlement{
		ID:               uuid.New(),
		SettlementNumber: number,
		MerchantID:       merchantID,
		PeriodStart:      periodStart,
		PeriodEnd:        periodEnd,
		Status:           SettlementStatusPending,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// ComputeNet derives net = sales - commission - refunds - returns - cancellations + adjustments.
func (s *Settlement) ComputeNet() decimal.Decimal {
	return s.TotalSalesAmount.
		Sub(s.CommissionAmount).
		Sub(s.RefundAmount).
		Sub(s.ReturnAmount).
		Sub(s.CancellationAmount).
		Add(s.AdjustmentAmount)
}

// AddOrder accumulates one settled order into the batch totals.
func (s *Settlement) AddOrder(so *SettlementOrder) {
	s.TotalOrders++
	s.TotalSalesAmount = s.TotalSalesAmount.Add(so.OrderAmount)
	s.CommissionAmount = s.CommissionAmount.Add(so.CommissionAmount)
	s.RefundAmount = s.RefundAmount.Add(so.RefundAmount)
	s.ReturnAmount = s.ReturnAmount.Add(so.ReturnAmount)
	s.CancellationAmount = s.CancellationAmount.Add(so.CancellationAmount)
	s.NetAmount = s.ComputeNet()
	s.UpdatedAt = time.Now()
}

// Initiate moves a pending batch into processing toward the named account.
func (s *Settlement) Initiate(accountNumber, ifsc string) error {
	if s.Status != SettlementStatusPending {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidSettlementStatus, s.Status, SettlementStatusProcessing)
	}
	now := time.Now()
	s.Status = SettlementStatusProcessing
	s.BankAccountNumber = &accountNumber
	s.BankIfscCode = &ifsc
	s.InitiatedAt = &now
	s.UpdatedAt = now
	return nil
}

// Complete records the bank transfer reference and closes the batch.
func (s *Settlement) Complete(utr string) error {
	if s.Status != SettlementStatusProcessing {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidSettlementStatus, s.Status, SettlementStatusCompleted)
	}
	now := time.Now()
	s.Status = SettlementStatusCompleted
	s.UtrNumber = &utr
	s.CompletedAt = &now
	s.UpdatedAt = now
	return nil
}

// Fail marks a transfer failure and schedules the next retry.
func (s *Settlement) Fail(reason string, nextRetry *time.Time) error {
	if s.Status != SettlementStatusProcessing {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidSettlementStatus, s.Status, SettlementStatusFailed)
	}
	s.Status = SettlementStatusFailed
	s.FailureReason = &reason
	s.RetryCount++
	s.NextRetryAt = nextRetry
	s.UpdatedAt = time.Now()
	return nil
}

// Retry reopens a failed batch for another transfer attempt.
func (s *Settlement) Retry() error {
	if s.Status != SettlementStatusFailed {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidSettlementStatus, s.Status, SettlementStatusProcessing)
	}
	now := time.Now()
	s.Status = SettlementStatusProcessing
	s.InitiatedAt = &now
	s.UpdatedAt = now
	return nil
}

// Cancel withdraws a pending batch before any transfer starts.
func (s *Settlement) Cancel(reason string) error {
	if s.Status != SettlementStatusPending {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidSettlementStatus, s.Status, SettlementStatusCancelled)
	}
	s.Status = SettlementStatusCancelled
	s.Notes = &reason
	s.UpdatedAt = time.Now()
	return nil
}

// SettlementOrder links one delivered order into a payout batch with its
// per-order deduction breakdown.
type SettlementOrder struct {
	ID                 uuid.UUID       `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	SettlementID       uuid.UUID       `gorm:"column:settlementId;type:uuid;not null;index:settlement_order_settlement" json:"settlement_id"`
	OrderID            int64           `gorm:"column:orderId;not null;index:settlement_order_order" json:"order_id"`
	OrderAmount        decimal.Decimal `gorm:"column:orderAmount;type:decimal(15,2);not null" json:"order_amount"`
	CommissionRate     decimal.Decimal `gorm:"column:commissionRate;type:decimal(5,2);not null;default:0" json:"commission_rate"`
	CommissionAmount   decimal.Decimal `gorm:"column:commissionAmount;type:decimal(15,2);not null;default:0" json:"commission_amount"`
	RefundAmount       decimal.Decimal `gorm:"column:refundAmount;type:decimal(15,2);not null;default:0" json:"refund_amount"`
	ReturnAmount       decimal.Decimal `gorm:"column:returnAmount;type:decimal(15,2);not null;default:0" json:"return_amount"`
	CancellationAmount decimal.Decimal `gorm:"column:cancellationAmount;type:decimal(15,2);not null;default:0" json:"cancellation_amount"`
	NetAmount          decimal.Decimal `gorm:"column:netAmount;type:decimal(15,2);not null" json:"net_amount"`
	DeliveredAt        *time.Time      `gorm:"column:deliveredAt" json:"delivered_at,omitempty"`
	SettlementDate     *time.Time      `gorm:"column:settlementDate;type:date" json:"settlement_date,omitempty"`
	CreatedAt          time.Time       `gorm:"column:createdAt;not null" json:"created_at"`
}

// TableName maps the entity into the merchant namespace.
func (SettlementOrder) TableName() string { return "merchant.settlement_orders" }

// NewSettlementOrder computes the commission at the given rate and the
// resulting per-order net.
func NewSettlementOrder(settlementID uuid.UUID, orderID int64, orderAmount, commissionRate, refund, ret, cancellation decimal.Decimal, deliveredAt *time.Time) *SettlementOrder {
	commission := orderAmount.Mul(commissionRate).Div(decimal.NewFromInt(100)).Round(2)
	so := &SettlementOrder{
		ID:                 uuid.New(),
		SettlementID:       settlementID,
		OrderID:            orderID,
		OrderAmount:        orderAmount,
		CommissionRate:     commissionRate,
		CommissionAmount:   commission,
		RefundAmount:       refund,
		ReturnAmount:       ret,
		CancellationAmount: cancellation,
		DeliveredAt:        deliveredAt,
		CreatedAt:          time.Now(),
	}
	so.NetAmount = so.ComputeNet()
	return so
}

// ComputeNet derives net = order - commission - refund - return - cancellation.
func (so *SettlementOrder) ComputeNet() decimal.Decimal {
	return so.OrderAmount.
		Sub(so.CommissionAmount).
		Sub(so.RefundAmount).
		Sub(so.ReturnAmount).
		Sub(so.CancellationAmount)
}

// SettlementRepository provides access to payout batches and their orders.
type SettlementRepository interface {
	Create(ctx context.Context, settlement *Settlement, orders []*SettlementOrder) error
	Update(ctx context.Context, settlement *Settlement) error
	FindByID(ctx context.Context, id uuid.UUID) (*Settlement, error)
	FindByNumber(ctx context.Context, number string) (*Settlement, error)
	FindByMerchantID(ctx context.Context, merchantID uuid.UUID, limit, offset int) ([]*Settlement, int64, error)
	FindDueForRetry(ctx context.Context, now time.Time) ([]*Settlement, error)
	FindOrders(ctx context.Context, settlementID uuid.UUID) ([]*SettlementOrder, error)
}
