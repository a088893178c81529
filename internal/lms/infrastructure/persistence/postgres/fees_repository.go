package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/finvolv/lendingplatform/internal/lms/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type feeMasterRepository struct {
	db *gorm.DB
}

// NewFeeMasterRepository creates the GORM-backed fee master repository.
func NewFeeMasterRepository(db *gorm.DB) domain.FeeMasterRepository {
	return &feeMasterRepository{db: db}
}

func (r *feeMasterRepository) Create(ctx context.Context, master *domain.FeeMaster) error {
	return r.db.WithContext(ctx).Create(master).Error
}

func (r *feeMasterRepository) Update(ctx context.Context, master *domain.FeeMaster) error {
	return r.db.WithContext(ctx).Save(master).Error
}

func (r *feeMasterRepository) FindByCode(ctx context.Context, code string) (*domain.FeeMaster, error) {
	var master domain.FeeMaster
	if err := r.db.WithContext(ctx).Where(`"feeCode" = ?`, code).First(&master).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrFeeNotFound
		}
		return nil, err
	}
	return &master, nil
}

func (r *feeMasterRepository) FindActive(ctx context.Context) ([]*domain.FeeMaster, error) {
	var rows []*domain.FeeMaster
	err := r.db.WithContext(ctx).Where(`"isActive" = ?`, true).Find(&rows).Error
	return rows, err
}

type loanFeeRepository struct {
	db *gorm.DB
}

// NewLoanFeeRepository creates the GORM-backed loan fee repository.
func NewLoanFeeRepository(db *gorm.DB) domain.LoanFeeRepository {
	return &loanFeeRepository{db: db}
}

func (r *loanFeeRepository) Create(ctx context.Context, fee *domain.LoanFee) error {
	return r.db.WithContext(ctx).Create(fee).Error
}

func (r *loanFeeRepository) Update(ctx context.Context, fee *domain.LoanFee) error {
	return r.db.WithContext(ctx).Save(fee).Error
}

func (r *loanFeeRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.LoanFee, error) {
	var fee domain.LoanFee
	if err := r.db.WithContext(ctx).Where(`"id" = ?`, id).First(&fee).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrFeeNotFound
		}
		return nil, err
	}
	return &fee, nil
}

func (r *loanFeeRepository) FindByAccountID(ctx context.Context, accountID uuid.UUID) ([]*domain.LoanFee, error) {
	var rows []*domain.LoanFee
	err := r.db.WithContext(ctx).
		Where(`"loanAccountId" = ?`, accountID).
		Order(`"dueDate" ASC`).
		Find(&rows).Error
	return rows, err
}

func (r *loanFeeRepository) FindOverdue(ctx context.Context, asOf time.Time) ([]*domain.LoanFee, error) {
	var rows []*domain.LoanFee
	err := r.db.WithContext(ctx).
		Where(`"dueDate" < ? AND "outstandingAmount" > 0`, asOf).
		Order(`"dueDate" ASC`).
		Find(&rows).Error
	return rows, err
}

type feePaymentRepository struct {
	db *gorm.DB
}

// NewFeePaymentRepository creates the GORM-backed fee payment repository.
func NewFeePaymentRepository(db *gorm.DB) domain.FeePaymentRepository {
	return &feePaymentRepository{db: db}
}

func (r *feePaymentRepository) Create(ctx context.Context, payment *domain.FeePayment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

func (r *feePaymentRepository) FindByLoanFeeID(ctx context.Context, loanFeeID uuid.UUID) ([]*domain.FeePayment, error) {
	var rows []*domain.FeePayment
	err := r.db.WithContext(ctx).
		Where(`"loanFeeId" = ?`, loanFeeID).
		Order(`"createdAt" ASC`).
		Find(&rows).Error
	return rows, err
}

type penaltyCalculationRepository struct {
	db *gorm.DB
}

// NewPenaltyCalculationRepository creates the GORM-backed penalty repository.
func NewPenaltyCalculationRepository(db *gorm.DB) domain.PenaltyCalculationRepository {
	return &penaltyCalculationRepository{db: db}
}

func (r *penaltyCalculationRepository) Create(ctx context.Context, penalty *domain.PenaltyCalculation) error {
	return r.db.WithContext(ctx).Create(penalty).Error
}

func (r *penaltyCalculationRepository) Update(ctx context.Context, penalty *domain.PenaltyCalculation) error {
	return r.db.WithContext(ctx).Save(penalty).Error
}

func (r *penaltyCalculationRepository) FindByEmiScheduleID(ctx context.Context, emiScheduleID int64) ([]*domain.PenaltyCalculation, error) {
	var rows []*domain.PenaltyCalculation
	err := r.db.WithContext(ctx).Where(`"emiScheduleId" = ?`, emiScheduleID).Find(&rows).Error
	return rows, err
}
