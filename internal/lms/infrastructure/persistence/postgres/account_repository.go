package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/finvolv/lendingplatform/internal/lms/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type loanAccountRepository struct {
	db *gorm.DB
}

// NewLoanAccountRepository creates the GORM-backed loan account repository.
func NewLoanAccountRepository(db *gorm.DB) domain.LoanAccountRepository {
	return &loanAccountRepository{db: db}
}

func (r *loanAccountRepository) Create(ctx context.Context, account *domain.LoanAccount) error {
	return r.db.WithContext(ctx).Create(account).Error
}

func (r *loanAccountRepository) Update(ctx context.Context, account *domain.LoanAccount) error {
	return r.db.WithContext(ctx).Save(account).Error
}

func (r *loanAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.LoanAccount, error) {
	var account domain.LoanAccount
	if err := r.db.WithContext(ctx).Where(`"id" = ?`, id).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}
	return &account, nil
}

func (r *loanAccountRepository) FindByAccountNumber(ctx context.Context, accountNumber string) (*domain.LoanAccount, error) {
	var account domain.LoanAccount
	err := r.db.WithContext(ctx).Where(`"accountNumber" = ?`, accountNumber).First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}
	return &account, nil
}

func (r *loanAccountRepository) FindByApplicationID(ctx context.Context, applicationID int64) (*domain.LoanAccount, error) {
	var account domain.LoanAccount
	err := r.db.WithContext(ctx).Where(`"loanApplicationId" = ?`, applicationID).First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}
	return &account, nil
}

func (r *loanAccountRepository) FindActive(ctx context.Context, limit, offset int) ([]*domain.LoanAccount, int64, error) {
	var (
		accounts []*domain.LoanAccount
		total    int64
	)
	query := r.db.WithContext(ctx).Model(&domain.LoanAccount{}).
		Where(`"status" = ?`, domain.LoanStatusActive)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Order(`"accountNumber" ASC`).Limit(limit).Offset(offset).Find(&accounts).Error
	if err != nil {
		return nil, 0, err
	}
	return accounts, total, nil
}

type disbursementRepository struct {
	db *gorm.DB
}

// NewDisbursementRepository creates the GORM-backed disbursement repository.
func NewDisbursementRepository(db *gorm.DB) domain.DisbursementRepository {
	return &disbursementRepository{db: db}
}

func (r *disbursementRepository) Create(ctx context.Context, disbursement *domain.Disbursement) error {
	return r.db.WithContext(ctx).Create(disbursement).Error
}

func (r *disbursementRepository) Update(ctx context.Context, disbursement *domain.Disbursement) error {
	return r.db.WithContext(ctx).Save(disbursement).Error
}

func (r *disbursementRepository) FindByID(ctx context.Context, id int64) (*domain.Disbursement, error) {
	var disbursement domain.Disbursement
	if err := r.db.WithContext(ctx).Where(`"id" = ?`, id).First(&disbursement).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrDisbursementNotFound
		}
		return nil, err
	}
	return &disbursement, nil
}

func (r *disbursementRepository) FindByApplicationID(ctx context.Context, applicationID int64) ([]*domain.Disbursement, error) {
	var rows []*domain.Disbursement
	err := r.db.WithContext(ctx).Where(`"loanApplicationId" = ?`, applicationID).Find(&rows).Error
	return rows, err
}

func (r *disbursementRepository) FindByStatus(ctx context.Context, status domain.DisbursementStatus, limit, offset int) ([]*domain.Disbursement, int64, error) {
	var (
		rows  []*domain.Disbursement
		total int64
	)
	query := r.db.WithContext(ctx).Model(&domain.Disbursement{}).Where(`"status" = ?`, status)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Order(`"createdAt" ASC`).Limit(limit).Offset(offset).Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

type emiScheduleRepository struct {
	db *gorm.DB
}

// NewEmiScheduleRepository creates the GORM-backed EMI schedule repository.
func NewEmiScheduleRepository(db *gorm.DB) domain.EmiScheduleRepository {
	return &emiScheduleRepository{db: db}
}

func (r *emiScheduleRepository) CreateBatch(ctx context.Context, schedule []*domain.EmiSchedule) error {
	if len(schedule) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(schedule).Error
}

func (r *emiScheduleRepository) Update(ctx context.Context, emi *domain.EmiSchedule) error {
	return r.db.WithContext(ctx).Save(emi).Error
}

func (r *emiScheduleRepository) FindByApplicationID(ctx context.Context, applicationID int64) ([]*domain.EmiSchedule, error) {
	var rows []*domain.EmiSchedule
	err := r.db.WithContext(ctx).
		Where(`"loanApplicationId" = ?`, applicationID).
		Order(`"installmentNumber" ASC`).
		Find(&rows).Error
	return rows, err
}

func (r *emiScheduleRepository) FindDueBefore(ctx context.Context, date time.Time, status domain.EmiStatus) ([]*domain.EmiSchedule, error) {
	var rows []*domain.EmiSchedule
	err := r.db.WithContext(ctx).
		Where(`"dueDate" < ? AND "status" = ?`, date, status).
		Order(`"dueDate" ASC`).
		Find(&rows).Error
	return rows, err
}

type repaymentRepository struct {
	db *gorm.DB
}

// NewRepaymentRepository creates the GORM-backed repayment repository.
func NewRepaymentRepository(db *gorm.DB) domain.RepaymentRepository {
	return &repaymentRepository{db: db}
}

func (r *repaymentRepository) Create(ctx context.Context, repayment *domain.Repayment) error {
	return r.db.WithContext(ctx).Create(repayment).Error
}

func (r *repaymentRepository) FindByApplicationID(ctx context.Context, applicationID int64) ([]*domain.Repayment, error) {
	var rows []*domain.Repayment
	err := r.db.WithContext(ctx).
		Where(`"loanApplicationId" = ?`, applicationID).
		Order(`"createdAt" ASC`).
		Find(&rows).Error
	return rows, err
}

func (r *repaymentRepository) FindByTransactionReference(ctx context.Context, ref string) (*domain.Repayment, error) {
	var repayment domain.Repayment
	err := r.db.WithContext(ctx).Where(`"transactionReference" = ?`, ref).First(&repayment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrEmiNotFound
		}
		return nil, err
	}
	return &repayment, nil
}
