package domain

import (
	"context"
	"crypto/subtle"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrApiKeyNotFound = errors.New("api key not found")

// SessionJourney records a page hit tied to a product and variant, shared
// across services for cross-context funnel stitching.
type SessionJourney struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Page      string    `gorm:"column:page;type:varchar(255);not null" json:"page"`
	ProductID uuid.UUID `gorm:"column:productId;type:uuid;not null" json:"product_id"`
	VariantID uuid.UUID `gorm:"column:variantId;type:uuid;not null" json:"variant_id"`
	CreatedAt time.Time `gorm:"column:createdAt;not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updatedAt;not null" json:"updated_at"`
}

// TableName maps the entity into the shared namespace.
func (SessionJourney) TableName() string { return "shared.session_journey" }

// ApiKey is a key/secret credential pair for service-to-service calls.
type ApiKey struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Key       string    `gorm:"column:key;type:varchar(255);not null" json:"key"`
	Secret    string    `gorm:"column:secret;type:varchar(255);not null" json:"-"`
	CreatedAt time.Time `gorm:"column:createdAt;not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updatedAt;not null" json:"updated_at"`
}

// TableName maps the entity into the shared namespace.
func (ApiKey) TableName() string { return "shared.api_keys" }

// Matches checks the presented secret in constant time.
func (k *ApiKey) Matches(secret string) bool {
	return subtle.ConstantTimeCompare([]byte(k.Secret), []byte(secret)) == 1
}

// SessionJourneyRepository provides access to shared journey hits.
type SessionJourneyRepository interface {
	Create(ctx context.Context, step *SessionJourney) error
	FindByProductID(ctx context.Context, productID uuid.UUID, limit int) ([]*SessionJourney, error)
}

// ApiKeyRepository provides access to service credentials.
type ApiKeyRepository interface {
	Create(ctx context.Context, key *ApiKey) error
	FindByKey(ctx context.Context, key string) (*ApiKey, error)
}
