package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrEmiPlanNotFound = errors.New("emi plan not found")

// EmiPlan is a financing plan merchants can offer at checkout.
type EmiPlan struct {
	ID                uuid.UUID       `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	PlanName          string          `gorm:"column:planName;type:varchar(255);not null" json:"plan_name"`
	Tenure            int             `gorm:"column:tenure;not null" json:"tenure"`
	InterestRate      decimal.Decimal `gorm:"column:interestRate;type:decimal(15,2);not null" json:"interest_rate"`
	ProcessingFee     decimal.Decimal `gorm:"column:processingFee;type:decimal(15,2);not null" json:"processing_fee"`
	MinAmount         decimal.Decimal `gorm:"column:minAmount;type:decimal(15,2);not null" json:"min_amount"`
	MaxAmount         decimal.Decimal `gorm:"column:maxAmount;type:decimal(15,2);not null" json:"max_amount"`
	IsActive          bool            `gorm:"column:isActive;not null;default:true" json:"is_active"`
	ProcessingFeeType string          `gorm:"column:processingFeeType;type:varchar(20);not null;default:'fixed'" json:"processing_fee_type"`
	PlanDescription   *string         `gorm:"column:planDescription;type:text" json:"plan_description,omitempty"`
	CreatedAt         time.Time       `gorm:"column:createdAt;not null" json:"created_at"`
	UpdatedAt         time.Time       `gorm:"column:updatedAt;not null" json:"updated_at"`
}

// TableName maps the entity into the merchant namespace.
func (EmiPlan) TableName() string { return "merchant.merchant_emi_plans" }

// AcceptsAmount checks a cart value against the plan's range.
func (p *EmiPlan) AcceptsAmount(amount decimal.Decimal) bool {
	return p.IsActive &&
		amount.GreaterThanOrEqual(p.MinAmount) &&
		amount.LessThanOrEqual(p.MaxAmount)
}

// MerchantEmiPlan assigns an EMI plan to a merchant with merchant-level fee
// and subvention overrides.
type MerchantEmiPlan struct {
	ID                   uuid.UUID       `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	MerchantID           uuid.UUID       `gorm:"column:merchantId;type:uuid;not null" json:"merchant_id"`
	EmiPlanID            uuid.UUID       `gorm:"column:emiPlanId;type:uuid;not null" json:"emi_plan_id"`
	ProcessingFee        decimal.Decimal `gorm:"column:processingFee;type:decimal(15,2);not null" json:"processing_fee"`
	ProcessingFeeType    string          `gorm:"column:processingFeeType;type:varchar(20);not null;default:'fixed'" json:"processing_fee_type"`
	OverrideInterestRate bool            `gorm:"column:overrideIntrestRate;not null;default:false" json:"override_interest_rate"`
	Subvention           decimal.Decimal `gorm:"column:subvention;type:decimal(15,2);not null" json:"subvention"`
	SubventionType       string          `gorm:"column:subventionType;type:varchar(20);not null;default:'percentage'" json:"subvention_type"`
	IsActive             bool            `gorm:"column:isActive;not null;default:true" json:"is_active"`
	CreatedAt            time.Time       `gorm:"column:createdAt;not null" json:"created_at"`
	UpdatedAt            time.Time       `gorm:"column:updatedAt;not null" json:"updated_at"`
}

// TableName maps the entity into the merchant namespace.
func (MerchantEmiPlan) TableName() string { return "merchant.merchant_emi_plan_assignments" }

// MerchantVariantEmiPlan narrows an EMI plan assignment to one product
// variant, for SKU-level subvention deals.
type MerchantVariantEmiPlan struct {
	ID                   uuid.UUID       `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	MerchantID           uuid.UUID       `gorm:"column:merchantId;type:uuid;not null" json:"merchant_id"`
	VariantID            uuid.UUID       `gorm:"column:variantId;type:uuid;not null" json:"variant_id"`
	EmiPlanID            uuid.UUID       `gorm:"column:emiPlanId;type:uuid;not null" json:"emi_plan_id"`
	ProcessingFee        decimal.Decimal `gorm:"column:processingFee;type:decimal(15,2);not null" json:"processing_fee"`
	ProcessingFeeType    string          `gorm:"column:processingFeeType;type:varchar(20);not null;default:'fixed'" json:"processing_fee_type"`
	OverrideInterestRate bool            `gorm:"column:overrideIntrestRate;not null;default:false" json:"override_interest_rate"`
	Subvention           decimal.Decimal `gorm:"column:subvention;type:decimal(15,2);not null" json:"subvention"`
	SubventionType       string          `gorm:"column:subventionType;type:varchar(20);not null;default:'percentage'" json:"subvention_type"`
	IsActive             bool            `gorm:"column:isActive;not null;default:true" json:"is_active"`
	CreatedAt            time.Time       `gorm:"column:createdAt;not null" json:"created_at"`
	UpdatedAt            time.Time       `gorm:"column:updatedAt;not null" json:"updated_at"`
}

// TableName maps the entity into the merchant namespace.
func (MerchantVariantEmiPlan) TableName() string { return "merchant.merchant_variant_emi_plans" }

// EmiPlanRepository provides access to EMI plan definitions and assignments.
type EmiPlanRepository interface {
	Create(ctx context.Context, plan *EmiPlan) error
	Update(ctx context.Context, plan *EmiPlan) error
	FindByID(ctx context.Context, id uuid.UUID) (*EmiPlan, error)
	FindActive(ctx context.Context) ([]*EmiPlan, error)
	AssignToMerchant(ctx context.Context, assignment *MerchantEmiPlan) error
	FindByMerchantID(ctx context.Context, merchantID uuid.UUID) ([]*MerchantEmiPlan, error)
}
