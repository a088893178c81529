// Package domain holds the loan origination entities: products, applications,
// collateral, documents, sanctions and approval workflow.
package domain

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrProductNotFound     = errors.New("loan product not found")
	ErrProductInactive     = errors.New("loan product is not active")
	ErrInvalidLoanAmount   = errors.New("requested amount outside product limits")
	ErrInvalidTenure       = errors.New("requested tenure outside product limits")
	ErrInvalidMutualFund   = errors.New("invalid mutual fund type")
	ErrLtvConfigNotFound   = errors.New("ltv config not found for fund type")
	ErrCollateralShortfall = errors.New("collateral value below minimum")
)

// MutualFundType classifies pledgeable mutual fund schemes.
type MutualFundType string

const (
	MutualFundTypeEquity MutualFundType = "equity"
	MutualFundTypeDebt   MutualFundType = "debt"
	MutualFundTypeHybrid MutualFundType = "hybrid"
	MutualFundTypeETF    MutualFundType = "etf"
)

// MutualFundTypeValues lists the closed set accepted by the mutual_fund_type column.
func MutualFundTypeValues() []string {
	return []string{"equity", "debt", "hybrid", "etf"}
}

// Valid reports whether the value belongs to the declared enum set.
func (t MutualFundType) Valid() bool {
	switch t {
	case MutualFundTypeEquity, MutualFundTypeDebt, MutualFundTypeHybrid, MutualFundTypeETF:
		return true
	}
	return false
}

// LoanProduct defines the envelope a loan application must fit inside:
// amount range, tenure range and pricing.
type LoanProduct struct {
	ID                   int64           `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name                 string          `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Code                 string          `gorm:"column:code;type:varchar(50);not null;uniqueIndex" json:"code"`
	Description          *string         `gorm:"column:description;type:text" json:"description,omitempty"`
	MinLoanAmount        decimal.Decimal `gorm:"column:minLoanAmount;type:decimal(15,2);not null" json:"min_loan_amount"`
	MaxLoanAmount        decimal.Decimal `gorm:"column:maxLoanAmount;type:decimal(15,2);not null" json:"max_loan_amount"`
	MinTenureMonths      int             `gorm:"column:minTenureMonths;not null" json:"min_tenure_months"`
	MaxTenureMonths      int             `gorm:"column:maxTenureMonths;not null" json:"max_tenure_months"`
	BaseInterestRate     decimal.Decimal `gorm:"column:baseInterestRate;type:decimal(8,4);not null" json:"base_interest_rate"`
	ProcessingFeePercent decimal.Decimal `gorm:"column:processingFeePercent;type:decimal(8,4);not null" json:"processing_fee_percent"`
	PrepaymentFeePercent decimal.Decimal `gorm:"column:prepaymentFeePercent;type:decimal(8,4);not null;default:0" json:"prepayment_fee_percent"`
	IsActive             bool            `gorm:"column:isActive;not null;default:true" json:"is_active"`
	CreatedAt            time.Time       `gorm:"column:createdAt;not null" json:"created_at"`
	UpdatedAt            time.Time       `gorm:"column:updatedAt;not null" json:"updated_at"`
}

// TableName maps the entity into the los namespace.
func (LoanProduct) TableName() string { return "los.loan_products" }

// AcceptsAmount checks the requested principal against the product range.
func (p *LoanProduct) AcceptsAmount(amount decimal.Decimal) bool {
	return amount.GreaterThanOrEqual(p.MinLoanAmount) && amount.LessThanOrEqual(p.MaxLoanAmount)
}

// AcceptsTenure checks the requested tenure against the product range.
func (p *LoanProduct) AcceptsTenure(months int) bool {
	return months >= p.MinTenureMonths && months <= p.MaxTenureMonths
}

// LtvConfig sets the loan-to-value ratio and collateral floor per product and
// fund type.
type LtvConfig struct {
	ID                 int64           `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	LoanProductID      int64           `gorm:"column:loanProductId;not null" json:"loan_product_id"`
	MutualFundType     MutualFundType  `gorm:"column:mutualFundType;type:mutual_fund_type;not null" json:"mutual_fund_type"`
	LtvRatio           decimal.Decimal `gorm:"column:ltvRatio;type:decimal(5,2);not null" json:"ltv_ratio"`
	MinCollateralValue decimal.Decimal `gorm:"column:minCollateralValue;type:decimal(15,2);not null" json:"min_collateral_value"`
	CreatedAt          time.Time       `gorm:"column:createdAt;not null" json:"created_at"`
	UpdatedAt          time.Time       `gorm:"column:updatedAt;not null" json:"updated_at"`
}

// TableName maps the entity into the los namespace.
func (LtvConfig) TableName() string { return "los.ltv_config" }

// MaxLoanAgainst computes the maximum lendable amount for a collateral value
// under this LTV ratio. Ratio is a percentage.
func (c *LtvConfig) MaxLoanAgainst(collateralValue decimal.Decimal) decimal.Decimal {
	return collateralValue.Mul(c.LtvRatio).Div(decimal.NewFromInt(100)).Round(2)
}

// LoanProductRepository provides access to loan product definitions.
type LoanProductRepository interface {
	Create(ctx context.Context, product *LoanProduct) error
	Update(ctx context.Context, product *LoanProduct) error
	FindByID(ctx context.Context, id int64) (*LoanProduct, error)
	FindByCode(ctx context.Context, code string) (*LoanProduct, error)
	FindActive(ctx context.Context) ([]*LoanProduct, error)
}

// LtvConfigRepository provides access to LTV configuration rows.
type LtvConfigRepository interface {
	Create(ctx context.Context, cfg *LtvConfig) error
	FindByProductAndFundType(ctx context.Context, productID int64, fundType MutualFundType) (*LtvConfig, error)
	FindByProduct(ctx context.Context, productID int64) ([]*LtvConfig, error)
}
