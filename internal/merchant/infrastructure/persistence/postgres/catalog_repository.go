package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/finvolv/lendingplatform/internal/merchant/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository creates the GORM-backed product repository.
func NewProductRepository(db *gorm.DB) domain.ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

func (r *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	var product domain.Product
	if err := r.db.WithContext(ctx).Where(`"id" = ?`, id).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProductNotFound
		}
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) FindByMerchantID(ctx context.Context, merchantID uuid.UUID, limit, offset int) ([]*domain.Product, int64, error) {
	var (
		products []*domain.Product
		total    int64
	)
	query := r.db.WithContext(ctx).Model(&domain.Product{}).Where(`"merchantId" = ?`, merchantID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Order(`"createdAt" DESC`).Limit(limit).Offset(offset).Find(&products).Error
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (r *productRepository) FindBySku(ctx context.Context, merchantID uuid.UUID, sku string) (*domain.Product, error) {
	var product domain.Product
	err := r.db.WithContext(ctx).
		Where(`"merchantId" = ? AND "sku" = ?`, merchantID, sku).
		First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProductNotFound
		}
		return nil, err
	}
	return &product, nil
}

type productVariantRepository struct {
	db *gorm.DB
}

// NewProductVariantRepository creates the GORM-backed variant repository.
func NewProductVariantRepository(db *gorm.DB) domain.ProductVariantRepository {
	return &productVariantRepository{db: db}
}

func (r *productVariantRepository) Create(ctx context.Context, variant *domain.ProductVariant) error {
	return r.db.WithContext(ctx).Create(variant).Error
}

func (r *productVariantRepository) Update(ctx context.Context, variant *domain.ProductVariant) error {
	return r.db.WithContext(ctx).Save(variant).Error
}

func (r *productVariantRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.ProductVariant, error) {
	var variant domain.ProductVariant
	if err := r.db.WithContext(ctx).Where(`"id" = ?`, id).First(&variant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrVariantNotFound
		}
		return nil, err
	}
	return &variant, nil
}

func (r *productVariantRepository) FindByProductID(ctx context.Context, productID uuid.UUID) ([]*domain.ProductVariant, error) {
	var variants []*domain.ProductVariant
	err := r.db.WithContext(ctx).Where(`"productId" = ?`, productID).Find(&variants).Error
	return variants, err
}

func (r *productVariantRepository) FindLowStock(ctx context.Context, merchantID uuid.UUID) ([]*domain.ProductVariant, error) {
	var variants []*domain.ProductVariant
	err := r.db.WithContext(ctx).
		Joins(`JOIN merchant.products p ON p."id" = "product_variants"."productId"`).
		Where(`p."merchantId" = ?`, merchantID).
		Where(`"product_variants"."stockAvailable" <= "product_variants"."lowStockThreshold"`).
		Find(&variants).Error
	return variants, err
}

type merchantCategoryRepository struct {
	db *gorm.DB
}

// NewMerchantCategoryRepository creates the GORM-backed category repository.
func NewMerchantCategoryRepository(db *gorm.DB) domain.MerchantCategoryRepository {
	return &merchantCategoryRepository{db: db}
}

func (r *merchantCategoryRepository) Create(ctx context.Context, category *domain.MerchantCategory) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *merchantCategoryRepository) Update(ctx context.Context, category *domain.MerchantCategory) error {
	return r.db.WithContext(ctx).Save(category).Error
}

func (r *merchantCategoryRepository) FindByMerchantID(ctx context.Context, merchantID uuid.UUID) ([]*domain.MerchantCategory, error) {
	var categories []*domain.MerchantCategory
	err := r.db.WithContext(ctx).Where(`"merchantId" = ?`, merchantID).Find(&categories).Error
	return categories, err
}

type productChannelPricingRepository struct {
	db *gorm.DB
}

// NewProductChannelPricingRepository creates the GORM-backed channel pricing repository.
func NewProductChannelPricingRepository(db *gorm.DB) domain.ProductChannelPricingRepository {
	return &productChannelPricingRepository{db: db}
}

func (r *productChannelPricingRepository) Create(ctx context.Context, pricing *domain.ProductChannelPricing) error {
	if err := pricing.Validate(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(pricing).Error
}

func (r *productChannelPricingRepository) Update(ctx context.Context, pricing *domain.ProductChannelPricing) error {
	if err := pricing.Validate(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Save(pricing).Error
}

func (r *productChannelPricingRepository) FindEffective(ctx context.Context, productID uuid.UUID, channel string, at time.Time) ([]*domain.ProductChannelPricing, error) {
	var rows []*domain.ProductChannelPricing
	err := r.db.WithContext(ctx).
		Where(`"productId" = ? AND "channel" = ? AND "isActive" = ?`, productID, channel, true).
		Where(`"effectiveFrom" <= ? AND ("effectiveTo" IS NULL OR "effectiveTo" > ?)`, at, at).
		Find(&rows).Error
	return rows, err
}

type emiPlanRepository struct {
	db *gorm.DB
}

// NewEmiPlanRepository creates the GORM-backed EMI plan repository.
func NewEmiPlanRepository(db *gorm.DB) domain.EmiPlanRepository {
	return &emiPlanRepository{db: db}
}

func (r *emiPlanRepository) Create(ctx context.Context, plan *domain.EmiPlan) error {
	return r.db.WithContext(ctx).Create(plan).Error
}

func (r *emiPlanRepository) Update(ctx context.Context, plan *domain.EmiPlan) error {
	return r.db.WithContext(ctx).Save(plan).Error
}

func (r *emiPlanRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.EmiPlan, error) {
	var plan domain.EmiPlan
	if err := r.db.WithContext(ctx).Where(`"id" = ?`, id).First(&plan).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrEmiPlanNotFound
		}
		return nil, err
	}
	return &plan, nil
}

func (r *emiPlanRepository) FindActive(ctx context.Context) ([]*domain.EmiPlan, error) {
	var plans []*domain.EmiPlan
	err := r.db.WithContext(ctx).Where(`"isActive" = ?`, true).Find(&plans).Error
	return plans, err
}

func (r *emiPlanRepository) AssignToMerchant(ctx context.Context, assignment *domain.MerchantEmiPlan) error {
	return r.db.WithContext(ctx).Create(assignment).Error
}

func (r *emiPlanRepository) FindByMerchantID(ctx context.Context, merchantID uuid.UUID) ([]*domain.MerchantEmiPlan, error) {
	var assignments []*domain.MerchantEmiPlan
	err := r.db.WithContext(ctx).
		Where(`"merchantId" = ? AND "isActive" = ?`, merchantID, true).
		Find(&assignments).Error
	return assignments, err
}
