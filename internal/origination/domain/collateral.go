package domain

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// MutualFundCollateral is one pledged folio backing a loan application.
// Units and NAV are captured at pledge time; collateralValue is their
// product and ltvApplied the ratio used for the decision.
type MutualFundCollateral struct {
	ID                    int64           `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	LoanApplicationID     int64           `gorm:"column:loanApplicationId;not null;index:mf_collateral_loan_app" json:"loan_application_id"`
	FundName              string          `gorm:"column:fundName;type:varchar(255);not null" json:"fund_name"`
	FundHouse             string          `gorm:"column:fundHouse;type:varchar(255);not null" json:"fund_house"`
	SchemeCode            string          `gorm:"column:schemeCode;type:varchar(50);not null" json:"scheme_code"`
	FolioNumber           string          `gorm:"column:folioNumber;type:varchar(50);not null;index:mf_collateral_folio" json:"folio_number"`
	MutualFundType        MutualFundType  `gorm:"column:mutualFundType;type:mutual_fund_type;not null" json:"mutual_fund_type"`
	UnitsPledged          decimal.Decimal `gorm:"column:unitsPledged;type:decimal(18,4);not null" json:"units_pledged"`
	NavAtPledge           decimal.Decimal `gorm:"column:navAtPledge;type:decimal(12,4);not null" json:"nav_at_pledge"`
	CollateralValue       decimal.Decimal `gorm:"column:collateralValue;type:decimal(15,2);not null" json:"collateral_value"`
	LtvApplied            decimal.Decimal `gorm:"column:ltvApplied;type:decimal(5,2);not null" json:"ltv_applied"`
	RtaVerified           bool            `gorm:"column:rtaVerified;not null;default:false" json:"rta_verified"`
	RtaVerificationDate   *time.Time      `gorm:"column:rtaVerificationDate" json:"rta_verification_date,omitempty"`
	PledgeReferenceNumber *string         `gorm:"column:pledgeReferenceNumber;type:varchar(100)" json:"pledge_reference_number,omitempty"`
	ValidateID            *string         `gorm:"column:validateId;type:varchar(100)" json:"validate_id,omitempty"`
	Isin                  *string         `gorm:"column:isin;type:varchar(50)" json:"isin,omitempty"`
	RtaName               *string         `gorm:"column:rtaName;type:varchar(50)" json:"rta_name,omitempty"`
	Amc                   *string         `gorm:"column:amc;type:varchar(100)" json:"amc,omitempty"`
	LienRefNo             *string         `gorm:"column:lienRefNo;type:varchar(100);index:mf_collateral_lien_ref" json:"lien_ref_no,omitempty"`
	LienStatus            *string         `gorm:"column:lienStatus;type:varchar(50)" json:"lien_status,omitempty"`
	LienRemarks           *string         `gorm:"column:lienRemarks;type:text" json:"lien_remarks,omitempty"`
	ClientID              *string         `gorm:"column:clientId;type:varchar(100)" json:"client_id,omitempty"`
	LenderCode            *string         `gorm:"column:lenderCode;type:varchar(100)" json:"lender_code,omitempty"`
	ApiResponse           json.RawMessage `gorm:"column:apiResponse;type:jsonb" json:"api_response,omitempty"`
	CreatedAt             time.Time       `gorm:"column:createdAt;not null" json:"created_at"`
	UpdatedAt             time.Time       `gorm:"column:updatedAt;not null" json:"updated_at"`
}

// TableName maps the entity into the los namespace.
func (MutualFundCollateral) TableName() string { return "los.mutual_fund_collateral" }

// PledgeValue recomputes value from units and NAV, rounded to the paise.
func (c *MutualFundCollateral) PledgeValue() decimal.Decimal {
	return c.UnitsPledged.Mul(c.NavAtPledge).Round(2)
}

// MarkRtaVerified records the registrar's confirmation of the lien.
func (c *MutualFundCollateral) MarkRtaVerified(lienRefNo, lienStatus string) {
	now := time.Now()
	c.RtaVerified = true
	c.RtaVerificationDate = &now
	c.LienRefNo = &lienRefNo
	c.LienStatus = &lienStatus
	c.UpdatedAt = now
}

// MutualFundCollateralRepository provides access to pledged collateral rows.
type MutualFundCollateralRepository interface {
	Create(ctx context.Context, collateral *MutualFundCollateral) error
	Update(ctx context.Context, collateral *MutualFundCollateral) error
	FindByApplicationID(ctx context.Context, applicationID int64) ([]*MutualFundCollateral, error)
	FindByFolioNumber(ctx context.Context, folio string) ([]*MutualFundCollateral, error)
}
