package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrQrCodeNotFound = errors.New("qr code not found")

// JourneyType selects what a scanned QR resolves to: a plain payment, a
// product page, or a specific variant.
type JourneyType string

const (
	JourneyTypeBasic        JourneyType = "basic"
	JourneyTypeProductBased JourneyType = "productBased"
	JourneyTypeVariantBased JourneyType = "variantBased"
)

// JourneyTypeValues lists the closed set accepted by the journey column.
func JourneyTypeValues() []string {
	return []string{"basic", "productBased", "variantBased"}
}

// Valid reports whether the value belongs to the declared enum set.
func (t JourneyType) Valid() bool {
	switch t {
	case JourneyTypeBasic, JourneyTypeProductBased, JourneyTypeVariantBased:
		return true
	}
	return false
}

// QrCode is a scannable entry point into a merchant checkout journey.
type QrCode struct {
	ID          int64               `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	MerchantID  uuid.UUID           `gorm:"column:merchantId;type:uuid;not null" json:"merchant_id"`
	QrCode      string              `gorm:"column:qrCode;type:varchar(255);not null" json:"qr_code"`
	JourneyType JourneyType         `gorm:"column:journeyType;type:journey;default:'basic'" json:"journey_type"`
	Amount      decimal.NullDecimal `gorm:"column:amount;type:decimal(15,2)" json:"amount,omitempty"`
	ProductID   *uuid.UUID          `gorm:"column:productId;type:uuid" json:"product_id,omitempty"`
	VariantID   *uuid.UUID          `gorm:"column:variantId;type:uuid" json:"variant_id,omitempty"`
	ExpiresAt   *time.Time          `gorm:"column:expiresAt" json:"expires_at,omitempty"`
	QrCodeData  *string             `gorm:"column:qrCodeData;type:text" json:"qr_code_data,omitempty"`
	IsActive    bool                `gorm:"column:isActive;not null;default:true" json:"is_active"`
	CreatedAt   time.Time           `gorm:"column:createdAt;not null" json:"created_at"`
	UpdatedAt   time.Time           `gorm:"column:updatedAt;not null" json:"updated_at"`
}

// TableName maps the entity into the merchant namespace.
func (QrCode) TableName() string { return "merchant.qr_codes" }

// Usable reports whether the code can still be scanned.
func (q *QrCode) Usable(now time.Time) bool {
	if !q.IsActive {
		return false
	}
	return q.ExpiresAt == nil || now.Before(*q.ExpiresAt)
}

// Deactivate retires the code.
func (q *QrCode) Deactivate() {
	q.IsActive = false
	q.UpdatedAt = time.Now()
}

// QrCodeRepository provides access to QR codes.
type QrCodeRepository interface {
	Create(ctx context.Context, qr *QrCode) error
	Update(ctx context.Context, qr *QrCode) error
	FindByCode(ctx context.Context, code string) (*QrCode, error)
	FindByMerchantID(ctx context.Context, merchantID uuid.UUID) ([]*QrCode, error)
}
