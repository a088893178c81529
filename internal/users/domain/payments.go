package domain

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrIdempotencyKeyNotFound = errors.New("idempotency key not found")

// Transaction records a payment-gateway transaction against a user. The
// gateway payloads are stored verbatim; this table is a snapshot, not a
// reconciled ledger.
type Transaction struct {
	ID                    int64           `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID                uuid.UUID       `gorm:"column:userId;type:uuid;not null;index:txn_user_id" json:"user_id"`
	CfPaymentID           *string         `gorm:"column:cfPaymentId;type:varchar(100);uniqueIndex;index:txn_cf_payment_id" json:"cf_payment_id,omitempty"`
	OrderID               string          `gorm:"column:orderId;type:varchar(100);not null;index:txn_order_id" json:"order_id"`
	Entity                *string         `gorm:"column:entity;type:varchar(50);default:'payment'" json:"entity,omitempty"`
	PaymentAmount         decimal.Decimal `gorm:"column:paymentAmount;type:decimal(15,2);not null" json:"payment_amount"`
	PaymentCurrency       *string         `gorm:"column:paymentCurrency;type:varchar(10);default:'INR'" json:"payment_currency,omitempty"`
	PaymentStatus         string          `gorm:"column:paymentStatus;type:varchar(50);not null;index:txn_status" json:"payment_status"`
	PaymentMessage        *string         `gorm:"column:paymentMessage;type:text" json:"payment_message,omitempty"`
	PaymentTime           *time.Time      `gorm:"column:paymentTime" json:"payment_time,omitempty"`
	PaymentCompletionTime *time.Time      `gorm:"column:paymentCompletionTime" json:"payment_completion_time,omitempty"`
	PaymentGroup          *string         `gorm:"column:paymentGroup;type:varchar(50)" json:"payment_group,omitempty"`
	PaymentMethod         json.RawMessage `gorm:"column:paymentMethod;type:jsonb" json:"payment_method,omitempty"`
	Authorization         json.RawMessage `gorm:"column:authorization;type:jsonb" json:"authorization,omitempty"`
	AuthID                *string         `gorm:"column:authId;type:varchar(100)" json:"auth_id,omitempty"`
	PaymentGatewayDetails json.RawMessage `gorm:"column:paymentGatewayDetails;type:jsonb" json:"payment_gateway_details,omitempty"`
	BankReference         *string         `gorm:"column:bankReference;type:varchar(100)" json:"bank_reference,omitempty"`
	ErrorDetails          json.RawMessage `gorm:"column:errorDetails;type:jsonb" json:"error_details,omitempty"`
	IsCaptured            *string         `gorm:"column:isCaptured;type:varchar(50);default:'false'" json:"is_captured,omitempty"`
	RawResponse           json.RawMessage `gorm:"column:rawResponse;type:jsonb" json:"raw_response,omitempty"`
	CreatedAt             time.Time       `gorm:"column:createdAt;not null" json:"created_at"`
	UpdatedAt             time.Time       `gorm:"column:updatedAt;not null" json:"updated_at"`
}

// TableName maps the entity into the users namespace.
func (Transaction) TableName() string { return "users.transactions" }

// Autopay is a recurring-payment subscription mandate.
type Autopay struct {
	ID                          int64           `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID                      uuid.UUID       `gorm:"column:userId;type:uuid;not null;index:autopay_user_id" json:"user_id"`
	SubscriptionID              string          `gorm:"column:subscriptionId;type:varchar(100);not null;uniqueIndex;index:autopay_sub_id" json:"subscription_id"`
	CfSubscriptionID            *string         `gorm:"column:cfSubscriptionId;type:varchar(100)" json:"cf_subscription_id,omitempty"`
	SubscriptionSessionID       *string         `gorm:"column:subscriptionSessionId;type:varchar(255)" json:"subscription_session_id,omitempty"`
	SubscriptionStatus          string          `gorm:"column:subscriptionStatus;type:varchar(50);not null;default:'INITIALIZED';index:autopay_status" json:"subscription_status"`
	PlanName                    *string         `gorm:"column:planName;type:varchar(255)" json:"plan_name,omitempty"`
	PlanType                    *string         `gorm:"column:planType;type:varchar(50)" json:"plan_type,omitempty"`
	ExpiryTime                  *time.Time      `gorm:"column:expiryTime" json:"expiry_time,omitempty"`
	NextScheduleDate            *time.Time      `gorm:"column:nextScheduleDate" json:"next_schedule_date,omitempty"`
	SubscriptionFirstChargeTime *time.Time      `gorm:"column:subscriptionFirstChargeTime" json:"subscription_first_charge_time,omitempty"`
	AuthorizationDetails        json.RawMessage `gorm:"column:authorizationDetails;type:jsonb" json:"authorization_details,omitempty"`
	CustomerDetails             json.RawMessage `gorm:"column:customerDetails;type:jsonb" json:"customer_details,omitempty"`
	PlanDetails                 json.RawMessage `gorm:"column:planDetails;type:jsonb" json:"plan_details,omitempty"`
	SubscriptionMeta            json.RawMessage `gorm:"column:subscriptionMeta;type:jsonb" json:"subscription_meta,omitempty"`
	SubscriptionNote            *string         `gorm:"column:subscriptionNote;type:text" json:"subscription_note,omitempty"`
	SubscriptionTags            json.RawMessage `gorm:"column:subscriptionTags;type:jsonb" json:"subscription_tags,omitempty"`
	SubscriptionPaymentSplits   json.RawMessage `gorm:"column:subscriptionPaymentSplits;type:jsonb" json:"subscription_payment_splits,omitempty"`
	MaxAmount                   decimal.Decimal `gorm:"column:maxAmount;type:decimal(15,2);not null;default:0" json:"max_amount"`
	CreatedAt                   time.Time       `gorm:"column:createdAt;not null" json:"created_at"`
	UpdatedAt                   time.Time       `gorm:"column:updatedAt;not null" json:"updated_at"`
}

// TableName maps the entity into the users namespace.
func (Autopay) TableName() string { return "users.autopay" }

// SubscriptionPayment tracks one charge made against a subscription mandate.
type SubscriptionPayment struct {
	ID                   int64               `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	SubscriptionID       *string             `gorm:"column:subscriptionId;type:varchar(100);index:sub_pay_sub_id" json:"subscription_id,omitempty"`
	UserID               uuid.UUID           `gorm:"column:userId;type:uuid;not null;index:sub_pay_user_id" json:"user_id"`
	CfPaymentID          *string             `gorm:"column:cfPaymentId;type:varchar(100);uniqueIndex" json:"cf_payment_id,omitempty"`
	PaymentID            string              `gorm:"column:paymentId;type:varchar(100);not null;uniqueIndex;index:sub_pay_pay_id" json:"payment_id"`
	IdempotencyKey       *string             `gorm:"column:idempotencyKey;type:varchar(255);uniqueIndex;index:sub_pay_idem" json:"idempotency_key,omitempty"`
	Amount               decimal.Decimal     `gorm:"column:amount;type:decimal(15,2);not null" json:"amount"`
	Currency             *string             `gorm:"column:currency;type:varchar(10);default:'INR'" json:"currency,omitempty"`
	PaymentStatus        string              `gorm:"column:paymentStatus;type:varchar(50);not null;index:sub_pay_status" json:"payment_status"`
	PaymentDate          *time.Time          `gorm:"column:paymentDate" json:"payment_date,omitempty"`
	PaymentMethod        *string             `gorm:"column:paymentMethod;type:varchar(50)" json:"payment_method,omitempty"`
	PaymentMethodDetails json.RawMessage     `gorm:"column:paymentMethodDetails;type:jsonb" json:"payment_method_details,omitempty"`
	GatewayResponse      json.RawMessage     `gorm:"column:gatewayResponse;type:jsonb" json:"gateway_response,omitempty"`
	ErrorCode            *string             `gorm:"column:errorCode;type:varchar(50)" json:"error_code,omitempty"`
	ErrorMessage         *string             `gorm:"column:errorMessage;type:text" json:"error_message,omitempty"`
	RefundAmount         decimal.NullDecimal `gorm:"column:refundAmount;type:decimal(15,2)" json:"refund_amount,omitempty"`
	RefundStatus         *string             `gorm:"column:refundStatus;type:varchar(50)" json:"refund_status,omitempty"`
	RefundID             *string             `gorm:"column:refundId;type:varchar(100)" json:"refund_id,omitempty"`
	CfRefundID           *string             `gorm:"column:cfRefundId;type:varchar(100)" json:"cf_refund_id,omitempty"`
	RefundDate           *time.Time          `gorm:"column:refundDate" json:"refund_date,omitempty"`
	CreatedAt            time.Time           `gorm:"column:createdAt;not null" json:"created_at"`
	UpdatedAt            time.Time           `gorm:"column:updatedAt;not null" json:"updated_at"`
}

// TableName maps the entity into the users namespace.
func (SubscriptionPayment) TableName() string { return "users.subscription_payments" }

// SubscriptionRefund tracks a refund issued against a subscription payment.
type SubscriptionRefund struct {
	ID              int64           `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID          uuid.UUID       `gorm:"column:userId;type:uuid;not null;index:sub_ref_user_id" json:"user_id"`
	PaymentID       string          `gorm:"column:paymentId;type:varchar(100);not null;index:sub_ref_pay_id" json:"payment_id"`
	RefundID        string          `gorm:"column:refundId;type:varchar(100);not null;uniqueIndex;index:sub_ref_ref_id" json:"refund_id"`
	CfRefundID      *string         `gorm:"column:cfRefundId;type:varchar(100);uniqueIndex" json:"cf_refund_id,omitempty"`
	IdempotencyKey  *string         `gorm:"column:idempotencyKey;type:varchar(255);uniqueIndex;index:sub_ref_idem" json:"idempotency_key,omitempty"`
	RefundAmount    decimal.Decimal `gorm:"column:refundAmount;type:decimal(15,2);not null" json:"refund_amount"`
	RefundCurrency  *string         `gorm:"column:refundCurrency;type:varchar(10);default:'INR'" json:"refund_currency,omitempty"`
	RefundStatus    string          `gorm:"column:refundStatus;type:varchar(50);not null;index:sub_ref_status" json:"refund_status"`
	RefundReason    *string         `gorm:"column:refundReason;type:text" json:"refund_reason,omitempty"`
	RefundType      *string         `gorm:"column:refundType;type:varchar(50)" json:"refund_type,omitempty"`
	ProcessedAt     *time.Time      `gorm:"column:processedAt" json:"processed_at,omitempty"`
	RefundMethod    *string         `gorm:"column:refundMethod;type:varchar(50)" json:"refund_method,omitempty"`
	GatewayResponse json.RawMessage `gorm:"column:gatewayResponse;type:jsonb" json:"gateway_response,omitempty"`
	ErrorCode       *string         `gorm:"column:errorCode;type:varchar(50)" json:"error_code,omitempty"`
	ErrorMessage    *string         `gorm:"column:errorMessage;type:text" json:"error_message,omitempty"`
	CreatedAt       time.Time       `gorm:"column:createdAt;not null" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"column:updatedAt;not null" json:"updated_at"`
}

// TableName maps the entity into the users namespace.
func (SubscriptionRefund) TableName() string { return "users.subscription_refunds" }

// IdempotencyKey prevents duplicate payment and refund operations by caching
// the original response for idempotent returns. Keys expire.
type IdempotencyKey struct {
	ID             int64           `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Key            string          `gorm:"column:key;type:varchar(255);not null;uniqueIndex;index:idem_key" json:"key"`
	Operation      string          `gorm:"column:operation;type:varchar(100);not null;index:idem_op" json:"operation"`
	UserID         *uuid.UUID      `gorm:"column:userId;type:uuid;index:idem_user" json:"user_id,omitempty"`
	ResponseStatus int             `gorm:"column:responseStatus;not null" json:"response_status"`
	ResponseBody   json.RawMessage `gorm:"column:responseBody;type:jsonb;not null" json:"response_body"`
	CreatedAt      time.Time       `gorm:"column:createdAt;not null" json:"created_at"`
	ExpiresAt      time.Time       `gorm:"column:expiresAt;not null;index:idem_expires" json:"expires_at"`
}

// TableName maps the entity into the users namespace.
func (IdempotencyKey) TableName() string { return "users.idempotency_keys" }

// Expired reports whether the key has passed its expiry.
func (k *IdempotencyKey) Expired(now time.Time) bool {
	return now.After(k.ExpiresAt)
}

// TransactionRepository provides access to gateway transaction records.
type TransactionRepository interface {
	Create(ctx context.Context, txn *Transaction) error
	FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Transaction, int64, error)
	FindByOrderID(ctx context.Context, orderID string) ([]*Transaction, error)
}

// IdempotencyKeyRepository provides access to idempotency records.
type IdempotencyKeyRepository interface {
	Create(ctx context.Context, key *IdempotencyKey) error
	FindByKey(ctx context.Context, key string) (*IdempotencyKey, error)
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}
