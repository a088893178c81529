package postgres

import (
	"context"
	"errors"

	"github.com/finvolv/lendingplatform/internal/lms/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type collectionBucketRepository struct {
	db *gorm.DB
}

// NewCollectionBucketRepository creates the GORM-backed bucket repository.
func NewCollectionBucketRepository(db *gorm.DB) domain.CollectionBucketRepository {
	return &collectionBucketRepository{db: db}
}

func (r *collectionBucketRepository) Create(ctx context.Context, bucket *domain.CollectionBucket) error {
	return r.db.WithContext(ctx).Create(bucket).Error
}

func (r *collectionBucketRepository) Update(ctx context.Context, bucket *domain.CollectionBucket) error {
	return r.db.WithContext(ctx).Save(bucket).Error
}

func (r *collectionBucketRepository) FindActive(ctx context.Context) ([]*domain.CollectionBucket, error) {
	var rows []*domain.CollectionBucket
	err := r.db.WithContext(ctx).
		Where(`"isActive" = ?`, true).
		Order(`"minDpdDays" ASC`).
		Find(&rows).Error
	return rows, err
}

func (r *collectionBucketRepository) FindForDpd(ctx context.Context, dpdDays int) (*domain.CollectionBucket, error) {
	var bucket domain.CollectionBucket
	err := r.db.WithContext(ctx).
		Where(`"isActive" = ? AND "minDpdDays" <= ? AND "maxDpdDays" >= ?`, true, dpdDays, dpdDays).
		First(&bucket).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrBucketNotFound
		}
		return nil, err
	}
	return &bucket, nil
}

type loanCollectionStatusRepository struct {
	db *gorm.DB
}

// NewLoanCollectionStatusRepository creates the GORM-backed collection status repository.
func NewLoanCollectionStatusRepository(db *gorm.DB) domain.LoanCollectionStatusRepository {
	return &loanCollectionStatusRepository{db: db}
}

func (r *loanCollectionStatusRepository) Create(ctx context.Context, status *domain.LoanCollectionStatus) error {
	return r.db.WithContext(ctx).Create(status).Error
}

func (r *loanCollectionStatusRepository) Update(ctx context.Context, status *domain.LoanCollectionStatus) error {
	return r.db.WithContext(ctx).Save(status).Error
}

func (r *loanCollectionStatusRepository) FindByAccountID(ctx context.Context, accountID uuid.UUID) (*domain.LoanCollectionStatus, error) {
	var status domain.LoanCollectionStatus
	err := r.db.WithContext(ctx).Where(`"loanAccountId" = ?`, accountID).First(&status).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCollectionStatusNotFound
		}
		return nil, err
	}
	return &status, nil
}

func (r *loanCollectionStatusRepository) FindByDpdRange(ctx context.Context, minDpd, maxDpd int) ([]*domain.LoanCollectionStatus, error) {
	var rows []*domain.LoanCollectionStatus
	err := r.db.WithContext(ctx).
		Where(`"dpdDays" BETWEEN ? AND ?`, minDpd, maxDpd).
		Order(`"dpdDays" DESC`).
		Find(&rows).Error
	return rows, err
}

type collectionActivityRepository struct {
	db *gorm.DB
}

// NewCollectionActivityRepository creates the GORM-backed activity repository.
func NewCollectionActivityRepository(db *gorm.DB) domain.CollectionActivityRepository {
	return &collectionActivityRepository{db: db}
}

func (r *collectionActivityRepository) Create(ctx context.Context, activity *domain.CollectionActivity) error {
	return r.db.WithContext(ctx).Create(activity).Error
}

func (r *collectionActivityRepository) FindByCollectionStatusID(ctx context.Context, statusID int64) ([]*domain.CollectionActivity, error) {
	var rows []*domain.CollectionActivity
	err := r.db.WithContext(ctx).
		Where(`"loanCollectionStatusId" = ?`, statusID).
		Order(`"createdAt" DESC`).
		Find(&rows).Error
	return rows, err
}

type recoveryProceedingRepository struct {
	db *gorm.DB
}

// NewRecoveryProceedingRepository creates the GORM-backed proceeding repository.
func NewRecoveryProceedingRepository(db *gorm.DB) domain.RecoveryProceedingRepository {
	return &recoveryProceedingRepository{db: db}
}

func (r *recoveryProceedingRepository) Create(ctx context.Context, proceeding *domain.RecoveryProceeding) error {
	return r.db.WithContext(ctx).Create(proceeding).Error
}

func (r *recoveryProceedingRepository) Update(ctx context.Context, proceeding *domain.RecoveryProceeding) error {
	return r.db.WithContext(ctx).Save(proceeding).Error
}

func (r *recoveryProceedingRepository) FindByAccountID(ctx context.Context, accountID uuid.UUID) ([]*domain.RecoveryProceeding, error) {
	var rows []*domain.RecoveryProceeding
	err := r.db.WithContext(ctx).
		Where(`"loanAccountId" = ?`, accountID).
		Order(`"createdAt" ASC`).
		Find(&rows).Error
	return rows, err
}
