package domain

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrAnalyticsRowNotFound = errors.New("analytics row not found")

// AnalyticsPeriod is the aggregation granularity for rollups.
type AnalyticsPeriod string

const (
	AnalyticsPeriodHourly  AnalyticsPeriod = "hourly"
	AnalyticsPeriodDaily   AnalyticsPeriod = "daily"
	AnalyticsPeriodWeekly  AnalyticsPeriod = "weekly"
	AnalyticsPeriodMonthly AnalyticsPeriod = "monthly"
)

// AnalyticsPeriodValues lists the closed set accepted by the analytics_period column.
func AnalyticsPeriodValues() []string {
	return []string{"hourly", "daily", "weekly", "monthly"}
}

// Valid reports whether the value belongs to the declared enum set.
func (p AnalyticsPeriod) Valid() bool {
	switch p {
	case AnalyticsPeriodHourly, AnalyticsPeriodDaily, AnalyticsPeriodWeekly, AnalyticsPeriodMonthly:
		return true
	}
	return false
}

// MerchantAnalyticsDaily is one merchant's (optionally per-store) metrics for
// a single day, rolled up from raw events and order data.
type MerchantAnalyticsDaily struct {
	ID         int64      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	MerchantID uuid.UUID  `gorm:"column:merchantId;type:uuid;not null;index:analytics_daily_merchant;uniqueIndex:analytics_daily_merchant_store_date" json:"merchant_id"`
	StoreID    *uuid.UUID `gorm:"column:storeId;type:uuid;index:analytics_daily_store;uniqueIndex:analytics_daily_merchant_store_date" json:"store_id,omitempty"`
	Date       time.Time  `gorm:"column:date;type:date;not null;index:analytics_daily_date;uniqueIndex:analytics_daily_merchant_store_date" json:"date"`

	// Sales metrics.
	TotalOrders       int             `gorm:"column:totalOrders;not null;default:0" json:"total_orders"`
	TotalSales        decimal.Decimal `gorm:"column:totalSales;type:decimal(15,2);not null;default:0" json:"total_sales"`
	TotalRefunds      decimal.Decimal `gorm:"column:totalRefunds;type:decimal(15,2);not null;default:0" json:"total_refunds"`
	NetSales          decimal.Decimal `gorm:"column:netSales;type:decimal(15,2);not null;default:0" json:"net_sales"`
	AverageOrderValue decimal.Decimal `gorm:"column:averageOrderValue;type:decimal(15,2);not null;default:0" json:"average_order_value"`
	TotalItems        int             `gorm:"column:totalItems;not null;default:0" json:"total_items"`
	CancelledOrders   int             `gorm:"column:cancelledOrders;not null;default:0" json:"cancelled_orders"`
	ReturnedOrders    int             `gorm:"column:returnedOrders;not null;default:0" json:"returned_orders"`

	// Inventory metrics.
	TotalProducts   int `gorm:"column:totalProducts;not null;default:0" json:"total_products"`
	OutOfStockItems int `gorm:"column:outOfStockItems;not null;default:0" json:"out_of_stock_items"`
	LowStockItems   int `gorm:"column:lowStockItems;not null;default:0" json:"low_stock_items"`

	// Customer metrics.
	NewCustomers       int `gorm:"column:newCustomers;not null;default:0" json:"new_customers"`
	ReturningCustomers int `gorm:"column:returningCustomers;not null;default:0" json:"returning_customers"`
	TotalCustomers     int `gorm:"column:totalCustomers;not null;default:0" json:"total_customers"`

	// Performance metrics.
	PageViews      int             `gorm:"column:pageViews;not null;default:0" json:"page_views"`
	UniqueVisitors int             `gorm:"column:uniqueVisitors;not null;default:0" json:"unique_visitors"`
	ConversionRate decimal.Decimal `gorm:"column:conversionRate;type:decimal(5,2);not null;default:0" json:"conversion_rate"`

	// Rating metrics.
	AverageRating decimal.Decimal `gorm:"column:averageRating;type:decimal(3,2);not null;default:0" json:"average_rating"`
	TotalReviews  int             `gorm:"column:totalReviews;not null;default:0" json:"total_reviews"`

	// Breakdown payloads.
	SalesByChannel     json.RawMessage `gorm:"column:salesByChannel;type:jsonb" json:"sales_by_channel,omitempty"`
	SalesByCategory    json.RawMessage `gorm:"column:salesByCategory;type:jsonb" json:"sales_by_category,omitempty"`
	TopSellingProducts json.RawMessage `gorm:"column:topSellingProducts;type:jsonb" json:"top_selling_products,omitempty"`
	HourlyDistribution json.RawMessage `gorm:"column:hourlyDistribution;type:jsonb" json:"hourly_distribution,omitempty"`

	CreatedAt time.Time `gorm:"column:createdAt;not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updatedAt;not null" json:"updated_at"`
}

// TableName maps the entity into the merchant namespace.
func (MerchantAnalyticsDaily) TableName() string { return "merchant.merchant_analytics_daily" }

// RecomputeDerived refreshes the metrics derived from the counters: net
// sales, average order value, and conversion rate.
func (a *MerchantAnalyticsDaily) RecomputeDerived() {
	a.NetSales = a.TotalSales.Sub(a.TotalRefunds)
	if a.TotalOrders > 0 {
		a.AverageOrderValue = a.TotalSales.Div(decimal.NewFromInt(int64(a.TotalOrders))).Round(2)
	} else {
		a.AverageOrderValue = decimal.Zero
	}
	if a.UniqueVisitors > 0 {
		a.ConversionRate = decimal.NewFromInt(int64(a.TotalOrders)).
			Mul(decimal.NewFromInt(100)).
			Div(decimal.NewFromInt(int64(a.UniqueVisitors))).
			Round(2)
	} else {
		a.ConversionRate = decimal.Zero
	}
	a.UpdatedAt = time.Now()
}

// MerchantAnalyticsRaw is one behavioral event as ingested, before rollup.
// Append-only.
type MerchantAnalyticsRaw struct {
	ID              uuid.UUID       `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	MerchantID      uuid.UUID       `gorm:"column:merchantId;type:uuid;not null;index:analytics_raw_merchant" json:"merchant_id"`
	StoreID         *uuid.UUID      `gorm:"column:storeId;type:uuid;index:analytics_raw_store" json:"store_id,omitempty"`
	EventType       string          `gorm:"column:eventType;type:varchar(50);not null;index:analytics_raw_event_type" json:"event_type"`
	EventName       string          `gorm:"column:eventName;type:varchar(100);not null" json:"event_name"`
	CustomerID      *uuid.UUID      `gorm:"column:customerId;type:uuid;index:analytics_raw_customer" json:"customer_id,omitempty"`
	SessionID       *string         `gorm:"column:sessionId;type:varchar(255);index:analytics_raw_session" json:"session_id,omitempty"`
	ProductID       *uuid.UUID      `gorm:"column:productId;type:uuid" json:"product_id,omitempty"`
	VariantID       *uuid.UUID      `gorm:"column:variantId;type:uuid" json:"variant_id,omitempty"`
	OrderID         *int64          `gorm:"column:orderId" json:"order_id,omitempty"`
	EventProperties json.RawMessage `gorm:"column:eventProperties;type:jsonb" json:"event_properties,omitempty"`
	UtmSource       *string         `gorm:"column:utmSource;type:varchar(255)" json:"utm_source,omitempty"`
	UtmMedium       *string         `gorm:"column:utmMedium;type:varchar(255)" json:"utm_medium,omitempty"`
	UtmCampaign     *string         `gorm:"column:utmCampaign;type:varchar(255)" json:"utm_campaign,omitempty"`
	IPAddress       *string         `gorm:"column:ipAddress;type:varchar(45)" json:"ip_address,omitempty"`
	UserAgent       *string         `gorm:"column:userAgent;type:text" json:"user_agent,omitempty"`
	Country         *string         `gorm:"column:country;type:varchar(100)" json:"country,omitempty"`
	City            *string         `gorm:"column:city;type:varchar(100)" json:"city,omitempty"`
	OccurredAt      time.Time       `gorm:"column:occurredAt;not null;index:analytics_raw_occurred" json:"occurred_at"`
	CreatedAt       time.Time       `gorm:"column:createdAt;not null" json:"created_at"`
}

// TableName maps the entity into the merchant namespace.
func (MerchantAnalyticsRaw) TableName() string { return "merchant.merchant_analytics_raw" }

// NewRawEvent stamps identity and receive time on an ingested event.
func NewRawEvent(merchantID uuid.UUID, eventType, eventName string, occurredAt time.Time) *MerchantAnalyticsRaw {
	return &MerchantAnalyticsRaw{
		ID:         uuid.New(),
		MerchantID: merchantID,
		EventType:  eventType,
		EventName:  eventName,
		OccurredAt: occurredAt,
		CreatedAt:  time.Now(),
	}
}

// UserJourney records one page step of a visitor session for funnel analysis.
type UserJourney struct {
	ID         uuid.UUID  `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	MerchantID uuid.UUID  `gorm:"column:merchantId;type:uuid;not null;index:user_journey_merchant" json:"merchant_id"`
	SessionID  string     `gorm:"column:sessionId;type:varchar(255);not null;index:user_journey_session" json:"session_id"`
	CustomerID *uuid.UUID `gorm:"column:customerId;type:uuid" json:"customer_id,omitempty"`
	Page       string     `gorm:"column:page;type:varchar(255);not null" json:"page"`
	ProductID  *uuid.UUID `gorm:"column:productId;type:uuid" json:"product_id,omitempty"`
	VariantID  *uuid.UUID `gorm:"column:variantId;type:uuid" json:"variant_id,omitempty"`
	Referrer   *string    `gorm:"column:referrer;type:varchar(500)" json:"referrer,omitempty"`
	CreatedAt  time.Time  `gorm:"column:createdAt;not null;index:user_journey_created" json:"created_at"`
}

// TableName maps the entity into the merchant namespace.
func (UserJourney) TableName() string { return "merchant.merchant_user_journey" }

// AnalyticsRepository provides access to raw events, journeys, and rollups.
type AnalyticsRepository interface {
	InsertRaw(ctx context.Context, event *MerchantAnalyticsRaw) error
	InsertJourney(ctx context.Context, step *UserJourney) error
	FindRawByMerchant(ctx context.Context, merchantID uuid.UUID, from, to time.Time) ([]*MerchantAnalyticsRaw, error)
	UpsertDaily(ctx context.Context, row *MerchantAnalyticsDaily) error
	FindDaily(ctx context.Context, merchantID uuid.UUID, storeID *uuid.UUID, date time.Time) (*MerchantAnalyticsDaily, error)
	FindDailyRange(ctx context.Context, merchantID uuid.UUID, from, to time.Time) ([]*MerchantAnalyticsDaily, error)
}
