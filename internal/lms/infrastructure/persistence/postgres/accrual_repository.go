package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/finvolv/lendingplatform/internal/lms/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type interestAccrualRepository struct {
	db *gorm.DB
}

// NewInterestAccrualRepository creates the GORM-backed accrual repository.
func NewInterestAccrualRepository(db *gorm.DB) domain.InterestAccrualRepository {
	return &interestAccrualRepository{db: db}
}

func (r *interestAccrualRepository) Create(ctx context.Context, accrual *domain.InterestAccrual) error {
	return r.db.WithContext(ctx).Create(accrual).Error
}

func (r *interestAccrualRepository) CreateBatch(ctx context.Context, accruals []*domain.InterestAccrual) error {
	if len(accruals) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(accruals, 500).Error
}

func (r *interestAccrualRepository) MarkPosted(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	now := time.Now()
	return r.db.WithContext(ctx).Model(&domain.InterestAccrual{}).
		Where(`"id" IN ? AND "postedToLedger" = ?`, ids, false).
		Updates(map[string]any{"postedToLedger": true, "updatedAt": now}).Error
}

func (r *interestAccrualRepository) FindUnposted(ctx context.Context, limit int) ([]*domain.InterestAccrual, error) {
	var rows []*domain.InterestAccrual
	err := r.db.WithContext(ctx).
		Where(`"postedToLedger" = ?`, false).
		Order(`"accrualDate" ASC`).
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *interestAccrualRepository) FindByAccountAndDate(ctx context.Context, accountID uuid.UUID, date time.Time) (*domain.InterestAccrual, error) {
	var accrual domain.InterestAccrual
	err := r.db.WithContext(ctx).
		Where(`"loanAccountId" = ? AND "accrualDate" = ?`, accountID, date).
		First(&accrual).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAccrualNotFound
		}
		return nil, err
	}
	return &accrual, nil
}

type accrualRunLogRepository struct {
	db *gorm.DB
}

// NewAccrualRunLogRepository creates the GORM-backed run log repository.
func NewAccrualRunLogRepository(db *gorm.DB) domain.AccrualRunLogRepository {
	return &accrualRunLogRepository{db: db}
}

func (r *accrualRunLogRepository) Create(ctx context.Context, log *domain.AccrualRunLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *accrualRunLogRepository) Update(ctx context.Context, log *domain.AccrualRunLog) error {
	return r.db.WithContext(ctx).Save(log).Error
}

func (r *accrualRunLogRepository) FindByRunDate(ctx context.Context, date time.Time) ([]*domain.AccrualRunLog, error) {
	var rows []*domain.AccrualRunLog
	err := r.db.WithContext(ctx).
		Where(`"runDate" = ?`, date).
		Order(`"createdAt" ASC`).
		Find(&rows).Error
	return rows, err
}

type interestRateHistoryRepository struct {
	db *gorm.DB
}

// NewInterestRateHistoryRepository creates the GORM-backed rate history repository.
func NewInterestRateHistoryRepository(db *gorm.DB) domain.InterestRateHistoryRepository {
	return &interestRateHistoryRepository{db: db}
}

func (r *interestRateHistoryRepository) Create(ctx context.Context, history *domain.InterestRateHistory) error {
	return r.db.WithContext(ctx).Create(history).Error
}

func (r *interestRateHistoryRepository) FindByAccountID(ctx context.Context, accountID uuid.UUID) ([]*domain.InterestRateHistory, error) {
	var rows []*domain.InterestRateHistory
	err := r.db.WithContext(ctx).
		Where(`"loanAccountId" = ?`, accountID).
		Order(`"createdAt" ASC`).
		Find(&rows).Error
	return rows, err
}
