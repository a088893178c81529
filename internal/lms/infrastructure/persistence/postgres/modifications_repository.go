package postgres

import (
	"context"
	"errors"

	"github.com/finvolv/lendingplatform/internal/lms/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type loanRestructuringRepository struct {
	db *gorm.DB
}

// NewLoanRestructuringRepository creates the GORM-backed restructuring repository.
func NewLoanRestructuringRepository(db *gorm.DB) domain.LoanRestructuringRepository {
	return &loanRestructuringRepository{db: db}
}

func (r *loanRestructuringRepository) Create(ctx context.Context, restructuring *domain.LoanRestructuring) error {
	return r.db.WithContext(ctx).Create(restructuring).Error
}

func (r *loanRestructuringRepository) Update(ctx context.Context, restructuring *domain.LoanRestructuring) error {
	return r.db.WithContext(ctx).Save(restructuring).Error
}

func (r *loanRestructuringRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.LoanRestructuring, error) {
	var restructuring domain.LoanRestructuring
	if err := r.db.WithContext(ctx).Where(`"id" = ?`, id).First(&restructuring).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRestructuringNotFound
		}
		return nil, err
	}
	return &restructuring, nil
}

func (r *loanRestructuringRepository) FindByAccountID(ctx context.Context, accountID uuid.UUID) ([]*domain.LoanRestructuring, error) {
	var rows []*domain.LoanRestructuring
	err := r.db.WithContext(ctx).
		Where(`"loanAccountId" = ?`, accountID).
		Order(`"createdAt" DESC`).
		Find(&rows).Error
	return rows, err
}

type restructuringTermsRepository struct {
	db *gorm.DB
}

// NewRestructuringTermsRepository creates the GORM-backed terms repository.
func NewRestructuringTermsRepository(db *gorm.DB) domain.RestructuringTermsRepository {
	return &restructuringTermsRepository{db: db}
}

func (r *restructuringTermsRepository) Create(ctx context.Context, terms *domain.RestructuringTerms) error {
	return r.db.WithContext(ctx).Create(terms).Error
}

func (r *restructuringTermsRepository) FindByRestructuringID(ctx context.Context, restructuringID uuid.UUID) (*domain.RestructuringTerms, error) {
	var terms domain.RestructuringTerms
	err := r.db.WithContext(ctx).Where(`"loanRestructuringId" = ?`, restructuringID).First(&terms).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRestructuringNotFound
		}
		return nil, err
	}
	return &terms, nil
}

type interestRateAdjustmentRepository struct {
	db *gorm.DB
}

// NewInterestRateAdjustmentRepository creates the GORM-backed adjustment repository.
func NewInterestRateAdjustmentRepository(db *gorm.DB) domain.InterestRateAdjustmentRepository {
	return &interestRateAdjustmentRepository{db: db}
}

func (r *interestRateAdjustmentRepository) Create(ctx context.Context, adjustment *domain.InterestRateAdjustment) error {
	return r.db.WithContext(ctx).Create(adjustment).Error
}

func (r *interestRateAdjustmentRepository) FindByAccountID(ctx context.Context, accountID uuid.UUID) ([]*domain.InterestRateAdjustment, error) {
	var rows []*domain.InterestRateAdjustment
	err := r.db.WithContext(ctx).
		Where(`"loanAccountId" = ?`, accountID).
		Order(`"createdAt" ASC`).
		Find(&rows).Error
	return rows, err
}

type tenureChangeRepository struct {
	db *gorm.DB
}

// NewTenureChangeRepository creates the GORM-backed tenure change repository.
func NewTenureChangeRepository(db *gorm.DB) domain.TenureChangeRepository {
	return &tenureChangeRepository{db: db}
}

func (r *tenureChangeRepository) Create(ctx context.Context, change *domain.TenureChange) error {
	return r.db.WithContext(ctx).Create(change).Error
}

func (r *tenureChangeRepository) FindByAccountID(ctx context.Context, accountID uuid.UUID) ([]*domain.TenureChange, error) {
	var rows []*domain.TenureChange
	err := r.db.WithContext(ctx).
		Where(`"loanAccountId" = ?`, accountID).
		Order(`"createdAt" ASC`).
		Find(&rows).Error
	return rows, err
}

type topUpLoanRepository struct {
	db *gorm.DB
}

// NewTopUpLoanRepository creates the GORM-backed top-up loan repository.
func NewTopUpLoanRepository(db *gorm.DB) domain.TopUpLoanRepository {
	return &topUpLoanRepository{db: db}
}

func (r *topUpLoanRepository) Create(ctx context.Context, topUp *domain.TopUpLoan) error {
	return r.db.WithContext(ctx).Create(topUp).Error
}

func (r *topUpLoanRepository) Update(ctx context.Context, topUp *domain.TopUpLoan) error {
	return r.db.WithContext(ctx).Save(topUp).Error
}

func (r *topUpLoanRepository) FindByParentAccountID(ctx context.Context, accountID uuid.UUID) ([]*domain.TopUpLoan, error) {
	var rows []*domain.TopUpLoan
	err := r.db.WithContext(ctx).
		Where(`"parentLoanAccountId" = ?`, accountID).
		Order(`"createdAt" ASC`).
		Find(&rows).Error
	return rows, err
}
