package domain

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrVariantNotFound   = errors.New("product variant not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// MerchantCategory is one node of a merchant-specific category tree. path
// is the materialized ancestry, level the depth.
type MerchantCategory struct {
	ID                int64           `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	MerchantID        uuid.UUID       `gorm:"column:merchantId;type:uuid;not null;index:category_merchant" json:"merchant_id"`
	Name              string          `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Slug              string          `gorm:"column:slug;type:varchar(255);not null;index:category_slug" json:"slug"`
	Description       *string         `gorm:"column:description;type:text" json:"description,omitempty"`
	Level             int             `gorm:"column:level;not null;default:0" json:"level"`
	Path              *string         `gorm:"column:path;type:text" json:"path,omitempty"`
	ImageURL          *string         `gorm:"column:imageUrl;type:varchar(500)" json:"image_url,omitempty"`
	IconURL           *string         `gorm:"column:iconUrl;type:varchar(500)" json:"icon_url,omitempty"`
	IsActive          bool            `gorm:"column:isActive;default:true;index:category_active" json:"is_active"`
	DisplayOrder      int             `gorm:"column:displayOrder;default:0;index:category_display_order" json:"display_order"`
	MetaTitle         *string         `gorm:"column:metaTitle;type:varchar(255)" json:"meta_title,omitempty"`
	MetaDescription   *string         `gorm:"column:metaDescription;type:text" json:"meta_description,omitempty"`
	MetaKeywords      *string         `gorm:"column:metaKeywords;type:text" json:"meta_keywords,omitempty"`
	AttributeTemplate json.RawMessage `gorm:"column:attributeTemplate;type:jsonb" json:"attribute_template,omitempty"`
	CreatedAt         time.Time       `gorm:"column:createdAt;not null" json:"created_at"`
	UpdatedAt         time.Time       `gorm:"column:updatedAt;not null" json:"updated_at"`
}

// TableName maps the entity into the merchant namespace.
func (MerchantCategory) TableName() string { return "merchant.merchant_categories" }

// Product is one catalog entry of a merchant. Variants carry per-SKU stock
// and pricing; bundles compose products.
type Product struct {
	ID                uuid.UUID           `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	MerchantID        uuid.UUID           `gorm:"column:merchantId;type:uuid;not null;index:product_merchant" json:"merchant_id"`
	CategoryID        *int64              `gorm:"column:categoryId;index:product_category" json:"category_id,omitempty"`
	Name              string              `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Slug              string              `gorm:"column:slug;type:varchar(255);not null;index:product_slug" json:"slug"`
	Sku               string              `gorm:"column:sku;type:varchar(100);not null;index:product_sku" json:"sku"`
	Barcode           *string             `gorm:"column:barcode;type:varchar(50);index:product_barcode" json:"barcode,omitempty"`
	ProductType       string              `gorm:"column:productType;type:varchar(20);not null;default:'product'" json:"product_type"`
	ShortDescription  *string             `gorm:"column:shortDescription;type:varchar(500)" json:"short_description,omitempty"`
	LongDescription   *string             `gorm:"column:longDescription;type:text" json:"long_description,omitempty"`
	BasePrice         decimal.Decimal     `gorm:"column:basePrice;type:decimal(15,2);not null" json:"base_price"`
	CompareAtPrice    decimal.NullDecimal `gorm:"column:compareAtPrice;type:decimal(15,2)" json:"compare_at_price,omitempty"`
	CostPrice         decimal.NullDecimal `gorm:"column:costPrice;type:decimal(15,2)" json:"cost_price,omitempty"`
	TaxRate           decimal.Decimal     `gorm:"column:taxRate;type:decimal(5,2);default:18.00" json:"tax_rate"`
	TaxIncluded       bool                `gorm:"column:taxIncluded;default:true" json:"tax_included"`
	TrackInventory    bool                `gorm:"column:trackInventory;default:true" json:"track_inventory"`
	AllowBackorder    bool                `gorm:"column:allowBackorder;default:false" json:"allow_backorder"`
	LowStockThreshold int                 `gorm:"column:lowStockThreshold;default:10" json:"low_stock_threshold"`
	IsActive          bool                `gorm:"column:isActive;default:true;index:product_active" json:"is_active"`
	IsFeatured        bool                `gorm:"column:isFeatured;default:false;index:product_featured" json:"is_featured"`
	MetaTitle         *string             `gorm:"column:metaTitle;type:varchar(255)" json:"meta_title,omitempty"`
	MetaDescription   *string             `gorm:"column:metaDescription;type:text" json:"meta_description,omitempty"`
	MetaKeywords      *string             `gorm:"column:metaKeywords;type:text" json:"meta_keywords,omitempty"`
	PrimaryImageURL   *string             `gorm:"column:primaryImageUrl;type:varchar(500)" json:"primary_image_url,omitempty"`
	AdditionalImages  json.RawMessage     `gorm:"column:additionalImages;type:jsonb" json:"additional_images,omitempty"`
	Attributes        json.RawMessage     `gorm:"column:attributes;type:jsonb" json:"attributes,omitempty"`
	Weight            decimal.NullDecimal `gorm:"column:weight;type:decimal(10,2)" json:"weight,omitempty"`
	WeightUnit        *string             `gorm:"column:weightUnit;type:varchar(10);default:'g'" json:"weight_unit,omitempty"`
	Length            decimal.NullDecimal `gorm:"column:length;type:decimal(10,2)" json:"length,omitempty"`
	Width             decimal.NullDecimal `gorm:"column:width;type:decimal(10,2)" json:"width,omitempty"`
	Height            decimal.NullDecimal `gorm:"column:height;type:decimal(10,2)" json:"height,omitempty"`
	DimensionUnit     *string             `gorm:"column:dimensionUnit;type:varchar(10);default:'cm'" json:"dimension_unit,omitempty"`
	Specifications    json.RawMessage     `gorm:"column:specifications;type:jsonb" json:"specifications,omitempty"`
	CreatedAt         time.Time           `gorm:"column:createdAt;not null;index:product_created" json:"created_at"`
	UpdatedAt         time.Time           `gorm:"column:updatedAt;not null" json:"updated_at"`
}

// TableName maps the entity into the merchant namespace.
func (Product) TableName() string { return "merchant.products" }

// ProductVariant is one purchasable SKU of a product (size, color).
type ProductVariant struct {
	ID                uuid.UUID           `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	ProductID         uuid.UUID           `gorm:"column:productId;type:uuid;not null;index:variant_product" json:"product_id"`
	VariantSku        string              `gorm:"column:variantSku;type:varchar(100);not null;index:variant_sku" json:"variant_sku"`
	VariantName       string              `gorm:"column:variantName;type:varchar(255);not null" json:"variant_name"`
	Barcode           *string             `gorm:"column:barcode;type:varchar(50);index:variant_barcode" json:"barcode,omitempty"`
	Attributes        json.RawMessage     `gorm:"column:attributes;type:jsonb;not null" json:"attributes"`
	Price             decimal.Decimal     `gorm:"column:price;type:decimal(15,2);not null" json:"price"`
	CompareAtPrice    decimal.NullDecimal `gorm:"column:compareAtPrice;type:decimal(15,2)" json:"compare_at_price,omitempty"`
	CostPrice         decimal.NullDecimal `gorm:"column:costPrice;type:decimal(15,2)" json:"cost_price,omitempty"`
	StockAvailable    int                 `gorm:"column:stockAvailable;not null;default:0;index:variant_stock" json:"stock_available"`
	StockOnOrder      int                 `gorm:"column:stockOnOrder;default:0" json:"stock_on_order"`
	LowStockThreshold int                 `gorm:"column:lowStockThreshold;default:5" json:"low_stock_threshold"`
	IsActive          bool                `gorm:"column:isActive;default:true;index:variant_active" json:"is_active"`
	ImageURL          *string             `gorm:"column:imageUrl;type:varchar(500)" json:"image_url,omitempty"`
	Weight            decimal.NullDecimal `gorm:"column:weight;type:decimal(10,2)" json:"weight,omitempty"`
	WeightUnit        *string             `gorm:"column:weightUnit;type:varchar(10);default:'g'" json:"weight_unit,omitempty"`
	CreatedAt         time.Time           `gorm:"column:createdAt;not null" json:"created_at"`
	UpdatedAt         time.Time           `gorm:"column:updatedAt;not null" json:"updated_at"`
}

// TableName maps the entity into the merchant namespace.
func (ProductVariant) TableName() string { return "merchant.product_variants" }

// LowOnStock reports whether available stock dipped to the threshold.
func (v *ProductVariant) LowOnStock() bool {
	return v.StockAvailable <= v.LowStockThreshold
}

// ReserveStock decrements available stock for an order.
func (v *ProductVariant) ReserveStock(quantity int) error {
	if quantity > v.StockAvailable {
		return ErrInsufficientStock
	}
	v.StockAvailable -= quantity
	v.UpdatedAt = time.Now()
	return nil
}

// ReleaseStock returns reserved stock after a cancellation.
func (v *ProductVariant) ReleaseStock(quantity int) {
	v.StockAvailable += quantity
	v.UpdatedAt = time.Now()
}

// ProductBundle composes products and variants into a single priced offer.
// components is a JSON array of typed references with quantities.
type ProductBundle struct {
	ID                 uuid.UUID           `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	MerchantID         uuid.UUID           `gorm:"column:merchantId;type:uuid;not null;index:bundle_merchant" json:"merchant_id"`
	Name               string              `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Slug               string              `gorm:"column:slug;type:varchar(255);not null;index:bundle_slug" json:"slug"`
	Sku                string              `gorm:"column:sku;type:varchar(100);not null;index:bundle_sku" json:"sku"`
	Description        *string             `gorm:"column:description;type:text" json:"description,omitempty"`
	BundlePrice        decimal.Decimal     `gorm:"column:bundlePrice;type:decimal(15,2);not null" json:"bundle_price"`
	CompareAtPrice     decimal.NullDecimal `gorm:"column:compareAtPrice;type:decimal(15,2)" json:"compare_at_price,omitempty"`
	DiscountAmount     decimal.NullDecimal `gorm:"column:discountAmount;type:decimal(15,2)" json:"discount_amount,omitempty"`
	DiscountPercentage decimal.NullDecimal `gorm:"column:discountPercentage;type:decimal(5,2)" json:"discount_percentage,omitempty"`
	Components         json.RawMessage     `gorm:"column:components;type:jsonb;not null" json:"components"`
	IsActive           bool                `gorm:"column:isActive;default:true;index:bundle_active" json:"is_active"`
	IsAvailable        bool                `gorm:"column:isAvailable;default:true" json:"is_available"`
	PrimaryImageURL    *string             `gorm:"column:primaryImageUrl;type:varchar(500)" json:"primary_image_url,omitempty"`
	CreatedAt          time.Time           `gorm:"column:createdAt;not null" json:"created_at"`
	UpdatedAt          time.Time           `gorm:"column:updatedAt;not null" json:"updated_at"`
}

// TableName maps the entity into the merchant namespace.
func (ProductBundle) TableName() string { return "merchant.product_bundles" }

// ProductChannelPricing overrides a price for one channel during a window.
// Exactly one of productId, productVariantId or bundleId is set.
type ProductChannelPricing struct {
	ID               uuid.UUID           `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	ProductID        *uuid.UUID          `gorm:"column:productId;type:uuid;index:channel_price_product" json:"product_id,omitempty"`
	ProductVariantID *uuid.UUID          `gorm:"column:productVariantId;type:uuid;index:channel_price_variant" json:"product_variant_id,omitempty"`
	BundleID         *uuid.UUID          `gorm:"column:bundleId;type:uuid;index:channel_price_bundle" json:"bundle_id,omitempty"`
	Channel          string              `gorm:"column:channel;type:varchar(20);not null;index:channel_price_channel" json:"channel"`
	PricingType      string              `gorm:"column:pricingType;type:varchar(20);not null;default:'standard'" json:"pricing_type"`
	Price            decimal.Decimal     `gorm:"column:price;type:decimal(15,2);not null" json:"price"`
	CompareAtPrice   decimal.NullDecimal `gorm:"column:compareAtPrice;type:decimal(15,2)" json:"compare_at_price,omitempty"`
	EffectiveFrom    time.Time           `gorm:"column:effectiveFrom;not null;index:channel_price_dates" json:"effective_from"`
	EffectiveTo      *time.Time          `gorm:"column:effectiveTo;index:channel_price_dates" json:"effective_to,omitempty"`
	StoreID          *uuid.UUID          `gorm:"column:storeId;type:uuid;index:channel_price_store" json:"store_id,omitempty"`
	IsActive         bool                `gorm:"column:isActive;default:true;index:channel_price_active" json:"is_active"`
	CreatedAt        time.Time           `gorm:"column:createdAt;not null" json:"created_at"`
	UpdatedAt        time.Time           `gorm:"column:updatedAt;not null" json:"updated_at"`
}

// TableName maps the entity into the merchant namespace.
func (ProductChannelPricing) TableName() string { return "merchant.product_channel_pricing" }

// Validate requires exactly one pricing target.
func (p *ProductChannelPricing) Validate() error {
	targets := 0
	if p.ProductID != nil {
		targets++
	}
	if p.ProductVariantID != nil {
		targets++
	}
	if p.BundleID != nil {
		targets++
	}
	if targets != 1 {
		return errors.New("channel pricing must target exactly one of product, variant or bundle")
	}
	return nil
}

// EffectiveAt reports whether the override applies at the given instant.
func (p *ProductChannelPricing) EffectiveAt(t time.Time) bool {
	if !p.IsActive || t.Before(p.EffectiveFrom) {
		return false
	}
	return p.EffectiveTo == nil || t.Before(*p.EffectiveTo)
}

// ProductRepository provides access to the product catalog.
type ProductRepository interface {
	Create(ctx context.Context, product *Product) error
	Update(ctx context.Context, product *Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	FindByMerchantID(ctx context.Context, merchantID uuid.UUID, limit, offset int) ([]*Product, int64, error)
	FindBySku(ctx context.Context, merchantID uuid.UUID, sku string) (*Product, error)
}

// ProductVariantRepository provides access to product variants.
type ProductVariantRepository interface {
	Create(ctx context.Context, variant *ProductVariant) error
	Update(ctx context.Context, variant *ProductVariant) error
	FindByID(ctx context.Context, id uuid.UUID) (*ProductVariant, error)
	FindByProductID(ctx context.Context, productID uuid.UUID) ([]*ProductVariant, error)
	FindLowStock(ctx context.Context, merchantID uuid.UUID) ([]*ProductVariant, error)
}

// MerchantCategoryRepository provides access to category trees.
type MerchantCategoryRepository interface {
	Create(ctx context.Context, category *MerchantCategory) error
	Update(ctx context.Context, category *MerchantCategory) error
	FindByMerchantID(ctx context.Context, merchantID uuid.UUID) ([]*MerchantCategory, error)
}

// ProductChannelPricingRepository provides access to channel price overrides.
type ProductChannelPricingRepository interface {
	Create(ctx context.Context, pricing *ProductChannelPricing) error
	Update(ctx context.Context, pricing *ProductChannelPricing) error
	FindEffective(ctx context.Context, productID uuid.UUID, channel string, at time.Time) ([]*ProductChannelPricing, error)
}
