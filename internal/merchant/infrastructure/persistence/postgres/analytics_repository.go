package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/finvolv/lendingplatform/internal/merchant/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type analyticsRepository struct {
	db *gorm.DB
}

// NewAnalyticsRepository creates the GORM-backed analytics repository.
func NewAnalyticsRepository(db *gorm.DB) domain.AnalyticsRepository {
	return &analyticsRepository{db: db}
}

func (r *analyticsRepository) InsertRaw(ctx context.Context, event *domain.MerchantAnalyticsRaw) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *analyticsRepository) InsertJourney(ctx context.Context, step *domain.UserJourney) error {
	return r.db.WithContext(ctx).Create(step).Error
}

func (r *analyticsRepository) FindRawByMerchant(ctx context.Context, merchantID uuid.UUID, from, to time.Time) ([]*domain.MerchantAnalyticsRaw, error) {
	var events []*domain.MerchantAnalyticsRaw
	err := r.db.WithContext(ctx).
		Where(`"merchantId" = ? AND "occurredAt" >= ? AND "occurredAt" < ?`, merchantID, from, to).
		Order(`"occurredAt" ASC`).
		Find(&events).Error
	return events, err
}

// UpsertDaily inserts or replaces the rollup row for (merchant, store, date).
func (r *analyticsRepository) UpsertDaily(ctx context.Context, row *domain.MerchantAnalyticsDaily) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "merchantId"}, {Name: "storeId"}, {Name: "date"},
			},
			UpdateAll: true,
		}).
		Create(row).Error
}

func (r *analyticsRepository) FindDaily(ctx context.Context, merchantID uuid.UUID, storeID *uuid.UUID, date time.Time) (*domain.MerchantAnalyticsDaily, error) {
	query := r.db.WithContext(ctx).Where(`"merchantId" = ? AND "date" = ?`, merchantID, date)
	if storeID != nil {
		query = query.Where(`"storeId" = ?`, *storeID)
	} else {
		query = query.Where(`"storeId" IS NULL`)
	}

	var row domain.MerchantAnalyticsDaily
	if err := query.First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAnalyticsRowNotFound
		}
		return nil, err
	}
	return &row, nil
}

func (r *analyticsRepository) FindDailyRange(ctx context.Context, merchantID uuid.UUID, from, to time.Time) ([]*domain.MerchantAnalyticsDaily, error) {
	var rows []*domain.MerchantAnalyticsDaily
	err := r.db.WithContext(ctx).
		Where(`"merchantId" = ? AND "date" >= ? AND "date" <= ?`, merchantID, from, to).
		Order(`"date" ASC`).
		Find(&rows).Error
	return rows, err
}
