package postgres

import (
	"context"
	"errors"

	"github.com/finvolv/lendingplatform/internal/shared/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type corsConfigRepository struct {
	db *gorm.DB
}

// NewCorsConfigRepository creates the GORM-backed CORS config repository.
func NewCorsConfigRepository(db *gorm.DB) domain.CorsConfigRepository {
	return &corsConfigRepository{db: db}
}

func (r *corsConfigRepository) Create(ctx context.Context, config *domain.CorsConfig) error {
	return r.db.WithContext(ctx).Create(config).Error
}

func (r *corsConfigRepository) Update(ctx context.Context, config *domain.CorsConfig) error {
	return r.db.WithContext(ctx).Save(config).Error
}

func (r *corsConfigRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.CorsConfig, error) {
	var config domain.CorsConfig
	if err := r.db.WithContext(ctx).Where(`"id" = ?`, id).First(&config).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCorsConfigNotFound
		}
		return nil, err
	}
	return &config, nil
}

func (r *corsConfigRepository) ActiveOriginsForService(ctx context.Context, service string) ([]string, error) {
	var origins []string
	err := r.db.WithContext(ctx).
		Model(&domain.CorsConfig{}).
		Where(`"isActive" = ? AND ("service" = ? OR "service" = ?)`, true, service, "*").
		Pluck("origin", &origins).Error
	if err != nil {
		return nil, err
	}
	return origins, nil
}

func (r *corsConfigRepository) List(ctx context.Context, service string) ([]*domain.CorsConfig, error) {
	query := r.db.WithContext(ctx).Model(&domain.CorsConfig{})
	if service != "" {
		query = query.Where(`"service" = ?`, service)
	}
	var configs []*domain.CorsConfig
	err := query.Order(`"service" ASC, "origin" ASC`).Find(&configs).Error
	return configs, err
}

type sessionJourneyRepository struct {
	db *gorm.DB
}

// NewSessionJourneyRepository creates the GORM-backed session journey repository.
func NewSessionJourneyRepository(db *gorm.DB) domain.SessionJourneyRepository {
	return &sessionJourneyRepository{db: db}
}

func (r *sessionJourneyRepository) Create(ctx context.Context, step *domain.SessionJourney) error {
	return r.db.WithContext(ctx).Create(step).Error
}

func (r *sessionJourneyRepository) FindByProductID(ctx context.Context, productID uuid.UUID, limit int) ([]*domain.SessionJourney, error) {
	var steps []*domain.SessionJourney
	err := r.db.WithContext(ctx).
		Where(`"productId" = ?`, productID).
		Order(`"createdAt" DESC`).
		Limit(limit).
		Find(&steps).Error
	return steps, err
}

type apiKeyRepository struct {
	db *gorm.DB
}

// NewApiKeyRepository creates the GORM-backed API key repository.
func NewApiKeyRepository(db *gorm.DB) domain.ApiKeyRepository {
	return &apiKeyRepository{db: db}
}

func (r *apiKeyRepository) Create(ctx context.Context, key *domain.ApiKey) error {
	return r.db.WithContext(ctx).Create(key).Error
}

func (r *apiKeyRepository) FindByKey(ctx context.Context, key string) (*domain.ApiKey, error) {
	var row domain.ApiKey
	if err := r.db.WithContext(ctx).Where(`"key" = ?`, key).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrApiKeyNotFound
		}
		return nil, err
	}
	return &row, nil
}
