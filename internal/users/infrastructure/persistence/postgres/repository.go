package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/finvolv/lendingplatform/internal/users/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates the GORM-backed user repository.
func NewUserRepository(db *gorm.DB) domain.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var user domain.User
	if err := r.db.WithContext(ctx).Where(`"id" = ?`, id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByStatus(ctx context.Context, status domain.UserStatus, limit, offset int) ([]*domain.User, int64, error) {
	var (
		users []*domain.User
		total int64
	)
	query := r.db.WithContext(ctx).Model(&domain.User{}).Where(`"status" = ?`, status)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := query.Limit(limit).Offset(offset).Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

type kycVerificationRepository struct {
	db *gorm.DB
}

// NewKycVerificationRepository creates the GORM-backed KYC repository.
func NewKycVerificationRepository(db *gorm.DB) domain.KycVerificationRepository {
	return &kycVerificationRepository{db: db}
}

func (r *kycVerificationRepository) Create(ctx context.Context, kyc *domain.KycVerification) error {
	return r.db.WithContext(ctx).Create(kyc).Error
}

func (r *kycVerificationRepository) Update(ctx context.Context, kyc *domain.KycVerification) error {
	return r.db.WithContext(ctx).Save(kyc).Error
}

func (r *kycVerificationRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.KycVerification, error) {
	var rows []*domain.KycVerification
	err := r.db.WithContext(ctx).
		Where(`"userId" = ?`, userID).
		Order(`"createdAt" DESC`).
		Find(&rows).Error
	return rows, err
}

type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates the GORM-backed transaction repository.
func NewTransactionRepository(db *gorm.DB) domain.TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) Create(ctx context.Context, txn *domain.Transaction) error {
	return r.db.WithContext(ctx).Create(txn).Error
}

func (r *transactionRepository) FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Transaction, int64, error) {
	var (
		txns  []*domain.Transaction
		total int64
	)
	query := r.db.WithContext(ctx).Model(&domain.Transaction{}).Where(`"userId" = ?`, userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Order(`"createdAt" DESC`).Limit(limit).Offset(offset).Find(&txns).Error
	if err != nil {
		return nil, 0, err
	}
	return txns, total, nil
}

func (r *transactionRepository) FindByOrderID(ctx context.Context, orderID string) ([]*domain.Transaction, error) {
	var txns []*domain.Transaction
	err := r.db.WithContext(ctx).Where(`"orderId" = ?`, orderID).Find(&txns).Error
	return txns, err
}

type idempotencyKeyRepository struct {
	db *gorm.DB
}

// NewIdempotencyKeyRepository creates the GORM-backed idempotency key repository.
func NewIdempotencyKeyRepository(db *gorm.DB) domain.IdempotencyKeyRepository {
	return &idempotencyKeyRepository{db: db}
}

func (r *idempotencyKeyRepository) Create(ctx context.Context, key *domain.IdempotencyKey) error {
	return r.db.WithContext(ctx).Create(key).Error
}

func (r *idempotencyKeyRepository) FindByKey(ctx context.Context, key string) (*domain.IdempotencyKey, error) {
	var row domain.IdempotencyKey
	if err := r.db.WithContext(ctx).Where(`"key" = ?`, key).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrIdempotencyKeyNotFound
		}
		return nil, err
	}
	return &row, nil
}

func (r *idempotencyKeyRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where(`"expiresAt" < ?`, before).
		Delete(&domain.IdempotencyKey{})
	return result.RowsAffected, result.Error
}
