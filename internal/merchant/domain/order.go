package domain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrOrderNotFound           = errors.New("order not found")
	ErrInvalidOrderTransition  = errors.New("invalid order status transition")
	ErrOrderTerminal           = errors.New("order is in a terminal status")
	ErrOrderTotalsInconsistent = errors.New("order totals do not add up")
)

// OrderStatus tracks an order from placement through fulfillment or unwind.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
	OrderStatusReturned   OrderStatus = "returned"
	OrderStatusRefunded   OrderStatus = "refunded"
	OrderStatusFailed     OrderStatus = "failed"
)

// OrderStatusValues lists the closed set accepted by the order_status column.
func OrderStatusValues() []string {
	return []string{
		"pending", "processing", "confirmed", "shipped", "delivered",
		"cancelled", "returned", "refunded", "failed",
	}
}

// Valid reports whether the value belongs to the declared enum set.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusConfirmed,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled,
		OrderStatusReturned, OrderStatusRefunded, OrderStatusFailed:
		return true
	}
	return false
}

// Terminal reports whether no further transition is allowed from s.
func (s OrderStatus) Terminal() bool {
	switch s {
	case OrderStatusCancelled, OrderStatusRefunded, OrderStatusFailed:
		return true
	}
	return false
}

// orderTransitions is the allowed forward edge set.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusProcessing, OrderStatusCancelled, OrderStatusFailed},
	OrderStatusProcessing: {OrderStatusConfirmed, OrderStatusCancelled, OrderStatusFailed},
	OrderStatusConfirmed:  {OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled},
	OrderStatusShipped:    {OrderStatusDelivered},
	OrderStatusDelivered:  {OrderStatusReturned},
	OrderStatusReturned:   {OrderStatusRefunded},
}

// CanTransition reports whether moving from s to next is allowed.
func (s OrderStatus) CanTransition(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// PaymentStatus tracks money movement for an order.
type PaymentStatus string

const (
	PaymentStatusPending           PaymentStatus = "pending"
	PaymentStatusPaid              PaymentStatus = "paid"
	PaymentStatusFailed            PaymentStatus = "failed"
	PaymentStatusRefunded          PaymentStatus = "refunded"
	PaymentStatusPartiallyRefunded PaymentStatus = "partially_refunded"
	PaymentStatusInitiated         PaymentStatus = "initiated"
)

// PaymentStatusValues lists the closed set accepted by the payment_status column.
func PaymentStatusValues() []string {
	return []string{"pending", "paid", "failed", "refunded", "partially_refunded", "initiated"}
}

// Valid reports whether the value belongs to the declared enum set.
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusFailed,
		PaymentStatusRefunded, PaymentStatusPartiallyRefunded, PaymentStatusInitiated:
		return true
	}
	return false
}

// ChannelType says where the order originated.
type ChannelType string

const (
	ChannelOnline      ChannelType = "online"
	ChannelOffline     ChannelType = "offline"
	ChannelPos         ChannelType = "pos"
	ChannelMarketplace ChannelType = "marketplace"
	ChannelSocialMedia ChannelType = "social_media"
	ChannelOther       ChannelType = "other"
)

// ChannelTypeValues lists the closed set accepted by the channel_type column.
func ChannelTypeValues() []string {
	return []string{"online", "offline", "pos", "marketplace", "social_media", "other"}
}

// Valid reports whether the value belongs to the declared enum set.
func (c ChannelType) Valid() bool {
	switch c {
	case ChannelOnline, ChannelOffline, ChannelPos, ChannelMarketplace, ChannelSocialMedia, ChannelOther:
		return true
	}
	return false
}

// FulfillmentType says how the goods reach the customer.
type FulfillmentType string

const (
	FulfillmentDelivery      FulfillmentType = "delivery"
	FulfillmentPickup        FulfillmentType = "pickup"
	FulfillmentStorePurchase FulfillmentType = "store_purchase"
	FulfillmentReserveOnline FulfillmentType = "reserve_online"
)

// FulfillmentTypeValues lists the closed set accepted by the fulfillment_type column.
func FulfillmentTypeValues() []string {
	return []string{"delivery", "pickup", "store_purchase", "reserve_online"}
}

// Valid reports whether the value belongs to the declared enum set.
func (f FulfillmentType) Valid() bool {
	switch f {
	case FulfillmentDelivery, FulfillmentPickup, FulfillmentStorePurchase, FulfillmentReserveOnline:
		return true
	}
	return false
}

// Order is the master commerce record. Line items snapshot product data at
// order time; totals are denormalized and must stay consistent.
type Order struct {
	ID                   int64           `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	OrderNumber          string          `gorm:"column:orderNumber;type:varchar(50);not null;uniqueIndex;index:order_number" json:"order_number"`
	CustomerID           uuid.UUID       `gorm:"column:customerId;type:uuid;not null;index:order_customer" json:"customer_id"`
	MerchantID           uuid.UUID       `gorm:"column:merchantId;type:uuid;not null;index:order_merchant" json:"merchant_id"`
	StoreID              *uuid.UUID      `gorm:"column:storeId;type:uuid;index:order_store" json:"store_id,omitempty"`
	Channel              ChannelType     `gorm:"column:channel;type:channel_type;not null;index:order_channel" json:"channel"`
	FulfillmentType      FulfillmentType `gorm:"column:fulfillmentType;type:fulfillment_type;not null;default:'delivery';index:order_fulfillment" json:"fulfillment_type"`
	Status               OrderStatus     `gorm:"column:status;type:order_status;not null;default:'pending';index:order_status" json:"status"`
	PaymentStatus        PaymentStatus   `gorm:"column:paymentStatus;type:payment_status;not null;default:'pending';index:order_payment_status" json:"payment_status"`
	SubtotalAmount       decimal.Decimal `gorm:"column:subtotalAmount;type:decimal(15,2);not null" json:"subtotal_amount"`
	DiscountAmount       decimal.Decimal `gorm:"column:discountAmount;type:decimal(15,2);default:0" json:"discount_amount"`
	TaxAmount            decimal.Decimal `gorm:"column:taxAmount;type:decimal(15,2);default:0" json:"tax_amount"`
	ShippingAmount       decimal.Decimal `gorm:"column:shippingAmount;type:decimal(15,2);default:0" json:"shipping_amount"`
	TotalAmount          decimal.Decimal `gorm:"column:totalAmount;type:decimal(15,2);not null" json:"total_amount"`
	CouponCode           *string         `gorm:"column:couponCode;type:varchar(50)" json:"coupon_code,omitempty"`
	CouponDiscount       decimal.Decimal `gorm:"column:couponDiscount;type:decimal(15,2);default:0" json:"coupon_discount"`
	PaymentMethod        *string         `gorm:"column:paymentMethod;type:varchar(50)" json:"payment_method,omitempty"`
	PaymentTransactionID *string         `gorm:"column:paymentTransactionId;type:varchar(255)" json:"payment_transaction_id,omitempty"`
	PaymentGateway       *string         `gorm:"column:paymentGateway;type:varchar(50)" json:"payment_gateway,omitempty"`
	DeliveryAddress      json.RawMessage `gorm:"column:deliveryAddress;type:jsonb" json:"delivery_address,omitempty"`
	BillingAddress       json.RawMessage `gorm:"column:billingAddress;type:jsonb" json:"billing_address,omitempty"`
	ExpectedDeliveryDate *time.Time      `gorm:"column:expectedDeliveryDate" json:"expected_delivery_date,omitempty"`
	DeliveredAt          *time.Time      `gorm:"column:deliveredAt" json:"delivered_at,omitempty"`
	PickupStoreID        *uuid.UUID      `gorm:"column:pickupStoreId;type:uuid;index:order_pickup_store" json:"pickup_store_id,omitempty"`
	PickupScheduledAt    *time.Time      `gorm:"column:pickupScheduledAt" json:"pickup_scheduled_at,omitempty"`
	PickupCompletedAt    *time.Time      `gorm:"column:pickupCompletedAt" json:"pickup_completed_at,omitempty"`
	CustomerNotes        *string         `gorm:"column:customerNotes;type:text" json:"customer_notes,omitempty"`
	GiftMessage          *string         `gorm:"column:giftMessage;type:text" json:"gift_message,omitempty"`
	IsGift               bool            `gorm:"column:isGift;default:false" json:"is_gift"`
	InternalNotes        *string         `gorm:"column:internalNotes;type:text" json:"internal_notes,omitempty"`
	IPAddress            *string         `gorm:"column:ipAddress;type:varchar(45)" json:"ip_address,omitempty"`
	UserAgent            *string         `gorm:"column:userAgent;type:text" json:"user_agent,omitempty"`
	Source               *string         `gorm:"column:source;type:varchar(50)" json:"source,omitempty"`
	UtmSource            *string         `gorm:"column:utmSource;type:varchar(255)" json:"utm_source,omitempty"`
	UtmMedium            *string         `gorm:"column:utmMedium;type:varchar(255)" json:"utm_medium,omitempty"`
	UtmCampaign          *string         `gorm:"column:utmCampaign;type:varchar(255)" json:"utm_campaign,omitempty"`
	LoanApplicationID    *int64          `gorm:"column:loanApplicationId" json:"loan_application_id,omitempty"`
	CreatedAt            time.Time       `gorm:"column:createdAt;not null;index:order_created" json:"created_at"`
	UpdatedAt            time.Time       `gorm:"column:updatedAt;not null" json:"updated_at"`
}

// TableName maps the entity into the merchant namespace.
func (Order) TableName() string { return "merchant.orders" }

// ValidateTotals checks total = subtotal - discount - coupon + tax + shipping.
func (o *Order) ValidateTotals() error {
	expected := o.SubtotalAmount.
		Sub(o.DiscountAmount).
		Sub(o.CouponDiscount).
		Add(o.TaxAmount).
		Add(o.ShippingAmount)
	if !o.TotalAmount.Equal(expected) {
		return ErrOrderTotalsInconsistent
	}
	return nil
}

// Transition moves the order to next if the edge is allowed, returning the
// previous status for the audit trail.
func (o *Order) Transition(next OrderStatus) (OrderStatus, error) {
	if o.Status.Terminal() {
		return o.Status, fmt.Errorf("%w: %s", ErrOrderTerminal, o.Status)
	}
	if !o.Status.CanTransition(next) {
		return o.Status, fmt.Errorf("%w: %s -> %s", ErrInvalidOrderTransition, o.Status, next)
	}
	prev := o.Status
	o.Status = next
	if next == OrderStatusDelivered {
		now := time.Now()
		o.DeliveredAt = &now
	}
	o.UpdatedAt = time.Now()
	return prev, nil
}

// MarkPaid records a successful payment capture.
func (o *Order) MarkPaid(transactionID, gateway string) {
	o.PaymentStatus = PaymentStatusPaid
	o.PaymentTransactionID = &transactionID
	o.PaymentGateway = &gateway
	o.UpdatedAt = time.Now()
}

// OrderItem is one line of an order. Product fields are copied at order time
// so later catalog edits cannot rewrite history.
type OrderItem struct {
	ID                int64           `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	OrderID           int64           `gorm:"column:orderId;not null;index:order_item_order" json:"order_id"`
	ProductID         uuid.UUID       `gorm:"column:productId;type:uuid;not null;index:order_item_product" json:"product_id"`
	ProductVariantID  *uuid.UUID      `gorm:"column:productVariantId;type:uuid;index:order_item_variant" json:"product_variant_id,omitempty"`
	BundleID          *uuid.UUID      `gorm:"column:bundleId;type:uuid;index:order_item_bundle" json:"bundle_id,omitempty"`
	ProductName       string          `gorm:"column:productName;type:varchar(255);not null" json:"product_name"`
	ProductSku        string          `gorm:"column:productSku;type:varchar(100);not null" json:"product_sku"`
	VariantName       *string         `gorm:"column:variantName;type:varchar(255)" json:"variant_name,omitempty"`
	VariantSku        *string         `gorm:"column:variantSku;type:varchar(100)" json:"variant_sku,omitempty"`
	Quantity          int             `gorm:"column:quantity;not null" json:"quantity"`
	UnitPrice         decimal.Decimal `gorm:"column:unitPrice;type:decimal(15,2);not null" json:"unit_price"`
	TotalPrice        decimal.Decimal `gorm:"column:totalPrice;type:decimal(15,2);not null" json:"total_price"`
	DiscountAmount    decimal.Decimal `gorm:"column:discountAmount;type:decimal(15,2);default:0" json:"discount_amount"`
	TaxAmount         decimal.Decimal `gorm:"column:taxAmount;type:decimal(15,2);default:0" json:"tax_amount"`
	FinalPrice        decimal.Decimal `gorm:"column:finalPrice;type:decimal(15,2);not null" json:"final_price"`
	Attributes        json.RawMessage `gorm:"column:attributes;type:jsonb" json:"attributes,omitempty"`
	ServiceAddOns     json.RawMessage `gorm:"column:serviceAddOns;type:jsonb" json:"service_add_ons,omitempty"`
	FulfillmentStatus string          `gorm:"column:fulfillmentStatus;type:varchar(50);default:'pending';index:order_item_fulfillment" json:"fulfillment_status"`
	ShippedAt         *time.Time      `gorm:"column:shippedAt" json:"shipped_at,omitempty"`
	DeliveredAt       *time.Time      `gorm:"column:deliveredAt" json:"delivered_at,omitempty"`
	CreatedAt         time.Time       `gorm:"column:createdAt;not null" json:"created_at"`
}

// TableName maps the entity into the merchant namespace.
func (OrderItem) TableName() string { return "merchant.order_items" }

// ValidateLine checks total = unit * quantity and final = total - discount + tax.
func (i *OrderItem) ValidateLine() error {
	total := i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
	if !i.TotalPrice.Equal(total) {
		return ErrOrderTotalsInconsistent
	}
	final := i.TotalPrice.Sub(i.DiscountAmount).Add(i.TaxAmount)
	if !i.FinalPrice.Equal(final) {
		return ErrOrderTotalsInconsistent
	}
	return nil
}

// OrderStatusHistory is one entry of the order's status audit trail.
// Append-only.
type OrderStatusHistory struct {
	ID             int64           `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	OrderID        int64           `gorm:"column:orderId;not null;index:status_history_order" json:"order_id"`
	FromStatus     *string         `gorm:"column:fromStatus;type:varchar(50)" json:"from_status,omitempty"`
	ToStatus       string          `gorm:"column:toStatus;type:varchar(50);not null;index:status_history_to_status" json:"to_status"`
	Location       *string         `gorm:"column:location;type:varchar(255)" json:"location,omitempty"`
	TrackingNumber *string         `gorm:"column:trackingNumber;type:varchar(255)" json:"tracking_number,omitempty"`
	TrackingURL    *string         `gorm:"column:trackingUrl;type:varchar(500)" json:"tracking_url,omitempty"`
	Notes          *string         `gorm:"column:notes;type:text" json:"notes,omitempty"`
	Metadata       json.RawMessage `gorm:"column:metadata;type:jsonb" json:"metadata,omitempty"`
	ChangedBy      *uuid.UUID      `gorm:"column:changedBy;type:uuid" json:"changed_by,omitempty"`
	CreatedAt      time.Time       `gorm:"column:createdAt;not null;index:status_history_created" json:"created_at"`
}

// TableName maps the entity into the merchant namespace.
func (OrderStatusHistory) TableName() string { return "merchant.order_status_history" }

// NewStatusHistory builds an audit entry for a transition.
func NewStatusHistory(orderID int64, from, to OrderStatus, changedBy *uuid.UUID) *OrderStatusHistory {
	fromStr := string(from)
	return &OrderStatusHistory{
		OrderID:    orderID,
		FromStatus: &fromStr,
		ToStatus:   string(to),
		ChangedBy:  changedBy,
		CreatedAt:  time.Now(),
	}
}

// OrderRepository provides access to orders and their lines.
type OrderRepository interface {
	Create(ctx context.Context, order *Order, items []*OrderItem) error
	Update(ctx context.Context, order *Order) error
	FindByID(ctx context.Context, id int64) (*Order, error)
	FindByOrderNumber(ctx context.Context, number string) (*Order, error)
	FindByMerchantID(ctx context.Context, merchantID uuid.UUID, limit, offset int) ([]*Order, int64, error)
	FindDeliveredUnsettled(ctx context.Context, merchantID uuid.UUID, before time.Time) ([]*Order, error)
	AppendStatusHistory(ctx context.Context, history *OrderStatusHistory) error
	FindStatusHistory(ctx context.Context, orderID int64) ([]*OrderStatusHistory, error)
}
