package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrCorsConfigNotFound = errors.New("cors config not found")

// Cors is the legacy allow-list: one row per origin, no service scoping.
// Kept for migration; new lookups go through CorsConfig.
type Cors struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Origin    string    `gorm:"column:origin;type:varchar(255);not null" json:"origin"`
	CreatedAt time.Time `gorm:"column:createdAt;not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updatedAt;not null" json:"updated_at"`
}

// TableName maps the entity into the shared namespace.
func (Cors) TableName() string { return "shared.cors" }

// CorsConfig scopes an allowed origin to a service. service '*' applies the
// row to every service; origin '*' allows every origin for that service.
type CorsConfig struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Service   string    `gorm:"column:service;type:varchar(50);not null;index:cors_config_service;uniqueIndex:cors_config_service_origin" json:"service"`
	Origin    string    `gorm:"column:origin;type:varchar(255);not null;uniqueIndex:cors_config_service_origin" json:"origin"`
	IsActive  bool      `gorm:"column:isActive;not null;default:true;index:cors_config_active" json:"is_active"`
	CreatedAt time.Time `gorm:"column:createdAt;not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updatedAt;not null" json:"updated_at"`
}

// TableName maps the entity into the shared namespace.
func (CorsConfig) TableName() string { return "shared.cors_config" }

// NewCorsConfig creates an active rule for a service and origin.
func NewCorsConfig(service, origin string) *CorsConfig {
	now := time.Now()
	return &CorsConfig{
		ID:        uuid.New(),
		Service:   service,
		Origin:    origin,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Deactivate removes the rule from the allowed set on the next lookup.
func (c *CorsConfig) Deactivate() {
	c.IsActive = false
	c.UpdatedAt = time.Now()
}

// Reactivate puts the rule back into the allowed set.
func (c *CorsConfig) Reactivate() {
	c.IsActive = true
	c.UpdatedAt = time.Now()
}

// CorsConfigRepository provides access to the service-scoped allow list.
type CorsConfigRepository interface {
	Create(ctx context.Context, config *CorsConfig) error
	Update(ctx context.Context, config *CorsConfig) error
	FindByID(ctx context.Context, id uuid.UUID) (*CorsConfig, error)
	// ActiveOriginsForService returns origins of active rows whose service
	// matches the given name or the '*' wildcard.
	ActiveOriginsForService(ctx context.Context, service string) ([]string, error)
	List(ctx context.Context, service string) ([]*CorsConfig, error)
}
