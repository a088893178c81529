// Package domain holds the merchant commerce entities: merchants, stores,
// catalog, EMI plans, QR codes, orders, settlements and analytics.
package domain

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrMerchantNotFound = errors.New("merchant not found")
	ErrMerchantInactive = errors.New("merchant is not active")
	ErrStoreNotFound    = errors.New("merchant store not found")
)

// StoreType classifies the sales surface a store represents.
type StoreType string

const (
	StoreTypePhysical  StoreType = "physical"
	StoreTypeOnline    StoreType = "online"
	StoreTypeHybrid    StoreType = "hybrid"
	StoreTypeWarehouse StoreType = "warehouse"
	StoreTypePopUp     StoreType = "pop_up"
)

// StoreTypeValues lists the closed set accepted by the store_type column.
func StoreTypeValues() []string {
	return []string{"physical", "online", "hybrid", "warehouse", "pop_up"}
}

// Valid reports whether the value belongs to the declared enum set.
func (t StoreType) Valid() bool {
	switch t {
	case StoreTypePhysical, StoreTypeOnline, StoreTypeHybrid, StoreTypeWarehouse, StoreTypePopUp:
		return true
	}
	return false
}

// GstVerificationStatus tracks the outcome of a GSTIN lookup.
type GstVerificationStatus string

const (
	GstStatusPending  GstVerificationStatus = "pending"
	GstStatusVerified GstVerificationStatus = "verified"
	GstStatusInactive GstVerificationStatus = "inactive"
	GstStatusInvalid  GstVerificationStatus = "invalid"
	GstStatusFailed   GstVerificationStatus = "failed"
	GstStatusMismatch GstVerificationStatus = "mismatch"
)

// GstVerificationStatusValues lists the closed set accepted by the
// gst_verification_status column.
func GstVerificationStatusValues() []string {
	return []string{"pending", "verified", "inactive", "invalid", "failed", "mismatch"}
}

// Valid reports whether the value belongs to the declared enum set.
func (s GstVerificationStatus) Valid() bool {
	switch s {
	case GstStatusPending, GstStatusVerified, GstStatusInactive,
		GstStatusInvalid, GstStatusFailed, GstStatusMismatch:
		return true
	}
	return false
}

// GstVerification is the shared GSTIN verification block carried by both KYC
// and store records. The raw API response is kept for audit.
type GstVerification struct {
	GstVerificationStatus *GstVerificationStatus `gorm:"column:gstVerificationStatus;type:gst_verification_status;default:'pending'" json:"gst_verification_status,omitempty"`
	GstVerifiedAt         *time.Time             `gorm:"column:gstVerifiedAt" json:"gst_verified_at,omitempty"`
	GstVerificationData   json.RawMessage        `gorm:"column:gstVerificationData;type:jsonb" json:"gst_verification_data,omitempty"`
	GstLegalName          *string                `gorm:"column:gstLegalName;type:varchar(255)" json:"gst_legal_name,omitempty"`
	GstTradeName          *string                `gorm:"column:gstTradeName;type:varchar(255)" json:"gst_trade_name,omitempty"`
	GstConstitution       *string                `gorm:"column:gstConstitution;type:varchar(100)" json:"gst_constitution,omitempty"`
	GstType               *string                `gorm:"column:gstType;type:varchar(50)" json:"gst_type,omitempty"`
	GstState              *string                `gorm:"column:gstState;type:varchar(100)" json:"gst_state,omitempty"`
	GstStateCode          *string                `gorm:"column:gstStateCode;type:varchar(10)" json:"gst_state_code,omitempty"`
	GstRegisteredDate     *string                `gorm:"column:gstRegisteredDate;type:varchar(20)" json:"gst_registered_date,omitempty"`
	GstActive             *bool                  `gorm:"column:gstActive" json:"gst_active,omitempty"`
	GstEinvoiceEnabled    *bool                  `gorm:"column:gstEinvoiceEnabled" json:"gst_einvoice_enabled,omitempty"`
}

// RecordGstResult stores a verification outcome with the raw API payload.
func (g *GstVerification) RecordGstResult(status GstVerificationStatus, data json.RawMessage) {
	now := time.Now()
	g.GstVerificationStatus = &status
	g.GstVerifiedAt = &now
	g.GstVerificationData = data
}

// Merchant is the selling party. KYC and store details hang off it.
type Merchant struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Slug        string    `gorm:"column:slug;type:varchar(255);not null" json:"slug"`
	Description *string   `gorm:"column:description;type:text" json:"description,omitempty"`
	IsActive    bool      `gorm:"column:isActive;default:false" json:"is_active"`
	CreatedAt   time.Time `gorm:"column:createdAt;not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updatedAt;not null" json:"updated_at"`
}

// TableName maps the entity into the merchant namespace.
func (Merchant) TableName() string { return "merchant.merchants" }

// NewMerchant registers a merchant awaiting KYC. Inactive until verified.
func NewMerchant(name, slug string) *Merchant {
	now := time.Now()
	return &Merchant{
		ID:        uuid.New(),
		Name:      name,
		Slug:      slug,
		IsActive:  false,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Activate opens the merchant for business.
func (m *Merchant) Activate() {
	m.IsActive = true
	m.UpdatedAt = time.Now()
}

// Deactivate suspends the merchant.
func (m *Merchant) Deactivate() {
	m.IsActive = false
	m.UpdatedAt = time.Now()
}

// MerchantKYC holds the merchant's business identity, bank and contact
// details, plus the GST verification block.
type MerchantKYC struct {
	ID                    uuid.UUID       `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	MerchantID            uuid.UUID       `gorm:"column:merchantId;type:uuid;not null" json:"merchant_id"`
	PanNumber             string          `gorm:"column:panNumber;type:varchar(10);not null" json:"pan_number"`
	Gstin                 string          `gorm:"column:gstin;type:varchar(15);not null" json:"gstin"`
	BankAccountNumber     string          `gorm:"column:bankAccountNumber;type:varchar(20);not null" json:"bank_account_number"`
	BankName              string          `gorm:"column:bankName;type:varchar(255);not null" json:"bank_name"`
	BankBranch            string          `gorm:"column:bankBranch;type:varchar(255);not null" json:"bank_branch"`
	BankIfsc              string          `gorm:"column:bankIfsc;type:varchar(11);not null" json:"bank_ifsc"`
	BankAccountHolderName string          `gorm:"column:bankAccountHolderName;type:varchar(255);not null" json:"bank_account_holder_name"`
	BankAccountType       string          `gorm:"column:bankAccountType;type:varchar(20);not null" json:"bank_account_type"`
	UpiID                 string          `gorm:"column:upiId;type:varchar(255);not null" json:"upi_id"`
	Status                string          `gorm:"column:status;type:varchar(20);not null;default:'pending'" json:"status"`
	PrimaryContactName    string          `gorm:"column:primaryContactName;type:varchar(255);not null" json:"primary_contact_name"`
	PrimaryContactPhone   string          `gorm:"column:primaryContactPhone;type:varchar(15);not null" json:"primary_contact_phone"`
	PrimaryContactEmail   string          `gorm:"column:primaryContactEmail;type:varchar(255);not null" json:"primary_contact_email"`
	BusinessPhone         *string         `gorm:"column:businessPhone;type:varchar(15)" json:"business_phone,omitempty"`
	BusinessEmail         *string         `gorm:"column:businessEmail;type:varchar(255)" json:"business_email,omitempty"`
	Address               string          `gorm:"column:address;type:text;not null" json:"address"`
	City                  string          `gorm:"column:city;type:varchar(100);not null" json:"city"`
	State                 string          `gorm:"column:state;type:varchar(100);not null" json:"state"`
	Pincode               string          `gorm:"column:pincode;type:varchar(10);not null" json:"pincode"`
	Country               *string         `gorm:"column:country;type:varchar(100);default:'India'" json:"country,omitempty"`
	CommissionRate        decimal.Decimal `gorm:"column:commissionRate;type:decimal(5,2);default:0" json:"commission_rate"`
	LogoURL               *string         `gorm:"column:logoUrl;type:varchar(500)" json:"logo_url,omitempty"`
	BusinessDescription   *string         `gorm:"column:businessDescription;type:text" json:"business_description,omitempty"`
	GstVerification       `gorm:"embedded"`
	CreatedAt             time.Time `gorm:"column:createdAt;not null" json:"created_at"`
	UpdatedAt             time.Time `gorm:"column:updatedAt;not null" json:"updated_at"`
}

// TableName maps the entity into the merchant namespace.
func (MerchantKYC) TableName() string { return "merchant.merchant_kyc" }

// MerchantStore is one sales location of a merchant, physical or online.
// Stores carry their own bank and GST identity for settlement routing.
type MerchantStore struct {
	ID                    uuid.UUID           `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	MerchantID            uuid.UUID           `gorm:"column:merchantId;type:uuid;not null;index:store_merchant_id" json:"merchant_id"`
	StoreName             string              `gorm:"column:storeName;type:varchar(255);not null" json:"store_name"`
	StoreCode             string              `gorm:"column:storeCode;type:varchar(50);not null;uniqueIndex;index:store_code" json:"store_code"`
	StoreType             StoreType           `gorm:"column:storeType;type:store_type;not null;index:store_type" json:"store_type"`
	Address               *string             `gorm:"column:address;type:text" json:"address,omitempty"`
	Landmark              *string             `gorm:"column:landmark;type:varchar(255)" json:"landmark,omitempty"`
	City                  *string             `gorm:"column:city;type:varchar(100)" json:"city,omitempty"`
	State                 *string             `gorm:"column:state;type:varchar(100)" json:"state,omitempty"`
	Pincode               *string             `gorm:"column:pincode;type:varchar(10)" json:"pincode,omitempty"`
	Country               *string             `gorm:"column:country;type:varchar(100);default:'India'" json:"country,omitempty"`
	Gstin                 string              `gorm:"column:gstin;type:varchar(15);not null" json:"gstin"`
	BankAccountNumber     string              `gorm:"column:bankAccountNumber;type:varchar(20);not null" json:"bank_account_number"`
	BankName              string              `gorm:"column:bankName;type:varchar(255);not null" json:"bank_name"`
	BankBranch            string              `gorm:"column:bankBranch;type:varchar(255);not null" json:"bank_branch"`
	BankIfsc              string              `gorm:"column:bankIfsc;type:varchar(11);not null" json:"bank_ifsc"`
	BankAccountHolderName string              `gorm:"column:bankAccountHolderName;type:varchar(255);not null" json:"bank_account_holder_name"`
	BankAccountType       string              `gorm:"column:bankAccountType;type:varchar(20);not null" json:"bank_account_type"`
	UpiID                 string              `gorm:"column:upiId;type:varchar(255);not null" json:"upi_id"`
	Status                string              `gorm:"column:status;type:varchar(20);not null;default:'pending'" json:"status"`
	Latitude              decimal.NullDecimal `gorm:"column:latitude;type:decimal(10,8);index:store_location" json:"latitude,omitempty"`
	Longitude             decimal.NullDecimal `gorm:"column:longitude;type:decimal(11,8);index:store_location" json:"longitude,omitempty"`
	RadiusKm              *int                `gorm:"column:radiusKm;default:10" json:"radius_km,omitempty"`
	Phone                 *string             `gorm:"column:phone;type:varchar(15)" json:"phone,omitempty"`
	Email                 *string             `gorm:"column:email;type:varchar(255)" json:"email,omitempty"`
	OperatingHours        json.RawMessage     `gorm:"column:operatingHours;type:jsonb" json:"operating_hours,omitempty"`
	IsActive              bool                `gorm:"column:isActive;default:true;index:store_active" json:"is_active"`
	IsDefault             bool                `gorm:"column:isDefault;default:false" json:"is_default"`
	SupportsPickup        bool                `gorm:"column:supportsPickup;default:true" json:"supports_pickup"`
	SupportsBopis         bool                `gorm:"column:supportsBopis;default:true" json:"supports_bopis"`
	CommissionRate        decimal.Decimal     `gorm:"column:commissionRate;type:decimal(5,2);default:0" json:"commission_rate"`
	StoreManagerName      *string             `gorm:"column:storeManagerName;type:varchar(255)" json:"store_manager_name,omitempty"`
	StoreManagerPhone     *string             `gorm:"column:storeManagerPhone;type:varchar(15)" json:"store_manager_phone,omitempty"`
	GstVerification       `gorm:"embedded"`
	CreatedAt             time.Time `gorm:"column:createdAt;not null" json:"created_at"`
	UpdatedAt             time.Time `gorm:"column:updatedAt;not null" json:"updated_at"`
}

// TableName maps the entity into the merchant namespace.
func (MerchantStore) TableName() string { return "merchant.merchant_stores" }

// CanFulfillPickup reports whether the store accepts buy-online-pickup-in-store.
func (s *MerchantStore) CanFulfillPickup() bool {
	return s.IsActive && s.SupportsPickup
}

// MerchantSettlementConfig sets a merchant's settlement cycle, destination
// bank account and payout thresholds.
type MerchantSettlementConfig struct {
	ID                        int64               `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	MerchantID                uuid.UUID           `gorm:"column:merchantId;type:uuid;not null;index:settlement_config_merchant" json:"merchant_id"`
	SettlementCycleDays       int                 `gorm:"column:settlementCycleDays;not null" json:"settlement_cycle_days"`
	SettlementDayOfMonth      *int                `gorm:"column:settlementDayOfMonth" json:"settlement_day_of_month,omitempty"`
	SettlementBankAccount     string              `gorm:"column:settlementBankAccount;type:varchar(35);not null" json:"settlement_bank_account"`
	SettlementBankIfsc        string              `gorm:"column:settlementBankIfsc;type:varchar(11);not null" json:"settlement_bank_ifsc"`
	SettlementBankAccountName string              `gorm:"column:settlementBankAccountName;type:varchar(255);not null" json:"settlement_bank_account_name"`
	ReservePercentage         *int                `gorm:"column:reservePercentage;default:0" json:"reserve_percentage,omitempty"`
	ReserveReleaseDays        *int                `gorm:"column:reserveReleaseDays" json:"reserve_release_days,omitempty"`
	MinimumSettlementAmount   decimal.NullDecimal `gorm:"column:minimumSettlementAmount;type:decimal(15,2);default:1000.00" json:"minimum_settlement_amount,omitempty"`
	AutoSettlementEnabled     bool                `gorm:"column:autoSettlementEnabled;default:true" json:"auto_settlement_enabled"`
	CreatedAt                 time.Time           `gorm:"column:createdAt;not null" json:"created_at"`
	UpdatedAt                 time.Time           `gorm:"column:updatedAt;not null" json:"updated_at"`
}

// TableName maps the entity into the merchant namespace.
func (MerchantSettlementConfig) TableName() string { return "merchant.merchant_settlement_config" }

// SettlementDue computes the settlement date for an order delivered at the
// given time under this cycle (T+N days).
func (c *MerchantSettlementConfig) SettlementDue(deliveredAt time.Time) time.Time {
	return deliveredAt.AddDate(0, 0, c.SettlementCycleDays)
}

// MerchantRepository provides access to merchant records.
type MerchantRepository interface {
	Create(ctx context.Context, merchant *Merchant) error
	Update(ctx context.Context, merchant *Merchant) error
	FindByID(ctx context.Context, id uuid.UUID) (*Merchant, error)
	FindBySlug(ctx context.Context, slug string) (*Merchant, error)
	FindActive(ctx context.Context, limit, offset int) ([]*Merchant, int64, error)
}

// MerchantKYCRepository provides access to merchant KYC records.
type MerchantKYCRepository interface {
	Create(ctx context.Context, kyc *MerchantKYC) error
	Update(ctx context.Context, kyc *MerchantKYC) error
	FindByMerchantID(ctx context.Context, merchantID uuid.UUID) (*MerchantKYC, error)
}

// MerchantStoreRepository provides access to store records.
type MerchantStoreRepository interface {
	Create(ctx context.Context, store *MerchantStore) error
	Update(ctx context.Context, store *MerchantStore) error
	FindByID(ctx context.Context, id uuid.UUID) (*MerchantStore, error)
	FindByMerchantID(ctx context.Context, merchantID uuid.UUID) ([]*MerchantStore, error)
	FindByStoreCode(ctx context.Context, code string) (*MerchantStore, error)
}

// MerchantSettlementConfigRepository provides access to settlement configs.
type MerchantSettlementConfigRepository interface {
	Create(ctx context.Context, config *MerchantSettlementConfig) error
	Update(ctx context.Context, config *MerchantSettlementConfig) error
	FindByMerchantID(ctx context.Context, merchantID uuid.UUID) (*MerchantSettlementConfig, error)
}
