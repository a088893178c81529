package postgres

import (
	"context"
	"errors"

	"github.com/finvolv/lendingplatform/internal/merchant/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type merchantRepository struct {
	db *gorm.DB
}

// NewMerchantRepository creates the GORM-backed merchant repository.
func NewMerchantRepository(db *gorm.DB) domain.MerchantRepository {
	return &merchantRepository{db: db}
}

func (r *merchantRepository) Create(ctx context.Context, merchant *domain.Merchant) error {
	return r.db.WithContext(ctx).Create(merchant).Error
}

func (r *merchantRepository) Update(ctx context.Context, merchant *domain.Merchant) error {
	return r.db.WithContext(ctx).Save(merchant).Error
}

func (r *merchantRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Merchant, error) {
	var merchant domain.Merchant
	if err := r.db.WithContext(ctx).Where(`"id" = ?`, id).First(&merchant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrMerchantNotFound
		}
		return nil, err
	}
	return &merchant, nil
}

func (r *merchantRepository) FindBySlug(ctx context.Context, slug string) (*domain.Merchant, error) {
	var merchant domain.Merchant
	if err := r.db.WithContext(ctx).Where(`"slug" = ?`, slug).First(&merchant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrMerchantNotFound
		}
		return nil, err
	}
	return &merchant, nil
}

func (r *merchantRepository) FindActive(ctx context.Context, limit, offset int) ([]*domain.Merchant, int64, error) {
	var (
		merchants []*domain.Merchant
		total     int64
	)
	query := r.db.WithContext(ctx).Model(&domain.Merchant{}).Where(`"isActive" = ?`, true)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Order(`"name" ASC`).Limit(limit).Offset(offset).Find(&merchants).Error
	if err != nil {
		return nil, 0, err
	}
	return merchants, total, nil
}

type merchantKYCRepository struct {
	db *gorm.DB
}

// NewMerchantKYCRepository creates the GORM-backed merchant KYC repository.
func NewMerchantKYCRepository(db *gorm.DB) domain.MerchantKYCRepository {
	return &merchantKYCRepository{db: db}
}

func (r *merchantKYCRepository) Create(ctx context.Context, kyc *domain.MerchantKYC) error {
	return r.db.WithContext(ctx).Create(kyc).Error
}

func (r *merchantKYCRepository) Update(ctx context.Context, kyc *domain.MerchantKYC) error {
	return r.db.WithContext(ctx).Save(kyc).Error
}

func (r *merchantKYCRepository) FindByMerchantID(ctx context.Context, merchantID uuid.UUID) (*domain.MerchantKYC, error) {
	var kyc domain.MerchantKYC
	err := r.db.WithContext(ctx).Where(`"merchantId" = ?`, merchantID).First(&kyc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrMerchantNotFound
		}
		return nil, err
	}
	return &kyc, nil
}

type merchantStoreRepository struct {
	db *gorm.DB
}

// NewMerchantStoreRepository creates the GORM-backed store repository.
func NewMerchantStoreRepository(db *gorm.DB) domain.MerchantStoreRepository {
	return &merchantStoreRepository{db: db}
}

func (r *merchantStoreRepository) Create(ctx context.Context, store *domain.MerchantStore) error {
	return r.db.WithContext(ctx).Create(store).Error
}

func (r *merchantStoreRepository) Update(ctx context.Context, store *domain.MerchantStore) error {
	return r.db.WithContext(ctx).Save(store).Error
}

func (r *merchantStoreRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.MerchantStore, error) {
	var store domain.MerchantStore
	if err := r.db.WithContext(ctx).Where(`"id" = ?`, id).First(&store).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrStoreNotFound
		}
		return nil, err
	}
	return &store, nil
}

func (r *merchantStoreRepository) FindByMerchantID(ctx context.Context, merchantID uuid.UUID) ([]*domain.MerchantStore, error) {
	var stores []*domain.MerchantStore
	err := r.db.WithContext(ctx).Where(`"merchantId" = ?`, merchantID).Find(&stores).Error
	return stores, err
}

func (r *merchantStoreRepository) FindByStoreCode(ctx context.Context, code string) (*domain.MerchantStore, error) {
	var store domain.MerchantStore
	err := r.db.WithContext(ctx).Where(`"storeCode" = ?`, code).First(&store).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrStoreNotFound
		}
		return nil, err
	}
	return &store, nil
}

type merchantSettlementConfigRepository struct {
	db *gorm.DB
}

// NewMerchantSettlementConfigRepository creates the GORM-backed settlement config repository.
func NewMerchantSettlementConfigRepository(db *gorm.DB) domain.MerchantSettlementConfigRepository {
	return &merchantSettlementConfigRepository{db: db}
}

func (r *merchantSettlementConfigRepository) Create(ctx context.Context, config *domain.MerchantSettlementConfig) error {
	return r.db.WithContext(ctx).Create(config).Error
}

func (r *merchantSettlementConfigRepository) Update(ctx context.Context, config *domain.MerchantSettlementConfig) error {
	return r.db.WithContext(ctx).Save(config).Error
}

func (r *merchantSettlementConfigRepository) FindByMerchantID(ctx context.Context, merchantID uuid.UUID) (*domain.MerchantSettlementConfig, error) {
	var config domain.MerchantSettlementConfig
	err := r.db.WithContext(ctx).Where(`"merchantId" = ?`, merchantID).First(&config).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrMerchantNotFound
		}
		return nil, err
	}
	return &config, nil
}

type qrCodeRepository struct {
	db *gorm.DB
}

// NewQrCodeRepository creates the GORM-backed QR code repository.
func NewQrCodeRepository(db *gorm.DB) domain.QrCodeRepository {
	return &qrCodeRepository{db: db}
}

func (r *qrCodeRepository) Create(ctx context.Context, qr *domain.QrCode) error {
	return r.db.WithContext(ctx).Create(qr).Error
}

func (r *qrCodeRepository) Update(ctx context.Context, qr *domain.QrCode) error {
	return r.db.WithContext(ctx).Save(qr).Error
}

func (r *qrCodeRepository) FindByCode(ctx context.Context, code string) (*domain.QrCode, error) {
	var qr domain.QrCode
	if err := r.db.WithContext(ctx).Where(`"qrCode" = ?`, code).First(&qr).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrQrCodeNotFound
		}
		return nil, err
	}
	return &qr, nil
}

func (r *qrCodeRepository) FindByMerchantID(ctx context.Context, merchantID uuid.UUID) ([]*domain.QrCode, error) {
	var codes []*domain.QrCode
	err := r.db.WithContext(ctx).Where(`"merchantId" = ?`, merchantID).Find(&codes).Error
	return codes, err
}
