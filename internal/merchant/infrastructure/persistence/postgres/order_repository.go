package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/finvolv/lendingplatform/internal/merchant/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates the GORM-backed order repository.
func NewOrderRepository(db *gorm.DB) domain.OrderRepository {
	return &orderRepository{db: db}
}

// Create persists the order and its lines in one transaction.
func (r *orderRepository) Create(ctx context.Context, order *domain.Order, items []*domain.OrderItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return err
		}
		for _, item := range items {
			item.OrderID = order.ID
		}
		if len(items) > 0 {
			if err := tx.Create(items).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *orderRepository) Update(ctx context.Context, order *domain.Order) error {
	return r.db.WithContext(ctx).Save(order).Error
}

func (r *orderRepository) FindByID(ctx context.Context, id int64) (*domain.Order, error) {
	var order domain.Order
	if err := r.db.WithContext(ctx).Where(`"id" = ?`, id).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) FindByOrderNumber(ctx context.Context, number string) (*domain.Order, error) {
	var order domain.Order
	err := r.db.WithContext(ctx).Where(`"orderNumber" = ?`, number).First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) FindByMerchantID(ctx context.Context, merchantID uuid.UUID, limit, offset int) ([]*domain.Order, int64, error) {
	var (
		orders []*domain.Order
		total  int64
	)
	query := r.db.WithContext(ctx).Model(&domain.Order{}).Where(`"merchantId" = ?`, merchantID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Order(`"createdAt" DESC`).Limit(limit).Offset(offset).Find(&orders).Error
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// FindDeliveredUnsettled returns delivered orders not yet attached to any
// settlement batch, delivered at or before the cutoff.
func (r *orderRepository) FindDeliveredUnsettled(ctx context.Context, merchantID uuid.UUID, before time.Time) ([]*domain.Order, error) {
	var orders []*domain.Order
	err := r.db.WithContext(ctx).
		Where(`"merchantId" = ? AND "status" = ? AND "deliveredAt" <= ?`,
			merchantID, domain.OrderStatusDelivered, before).
		Where(`"id" NOT IN (SELECT "orderId" FROM merchant.settlement_orders)`).
		Order(`"deliveredAt" ASC`).
		Find(&orders).Error
	return orders, err
}

func (r *orderRepository) AppendStatusHistory(ctx context.Context, history *domain.OrderStatusHistory) error {
	return r.db.WithContext(ctx).Create(history).Error
}

func (r *orderRepository) FindStatusHistory(ctx context.Context, orderID int64) ([]*domain.OrderStatusHistory, error) {
	var rows []*domain.OrderStatusHistory
	err := r.db.WithContext(ctx).
		Where(`"orderId" = ?`, orderID).
		Order(`"createdAt" ASC`).
		Find(&rows).Error
	return rows, err
}

type settlementRepository struct {
	db *gorm.DB
}

// NewSettlementRepository creates the GORM-backed settlement repository.
func NewSettlementRepository(db *gorm.DB) domain.SettlementRepository {
	return &settlementRepository{db: db}
}

// Create persists the batch and its constituent orders in one transaction.
func (r *settlementRepository) Create(ctx context.Context, settlement *domain.Settlement, orders []*domain.SettlementOrder) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(settlement).Error; err != nil {
			return err
		}
		if len(orders) > 0 {
			if err := tx.Create(orders).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *settlementRepository) Update(ctx context.Context, settlement *domain.Settlement) error {
	return r.db.WithContext(ctx).Save(settlement).Error
}

func (r *settlementRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Settlement, error) {
	var settlement domain.Settlement
	if err := r.db.WithContext(ctx).Where(`"id" = ?`, id).First(&settlement).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrSettlementNotFound
		}
		return nil, err
	}
	return &settlement, nil
}

func (r *settlementRepository) FindByNumber(ctx context.Context, number string) (*domain.Settlement, error) {
	var settlement domain.Settlement
	err := r.db.WithContext(ctx).Where(`"settlementNumber" = ?`, number).First(&settlement).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrSettlementNotFound
		}
		return nil, err
	}
	return &settlement, nil
}

func (r *settlementRepository) FindByMerchantID(ctx context.Context, merchantID uuid.UUID, limit, offset int) ([]*domain.Settlement, int64, error) {
	var (
		settlements []*domain.Settlement
		total       int64
	)
	query := r.db.WithContext(ctx).Model(&domain.Settlement{}).Where(`"merchantId" = ?`, merchantID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Order(`"createdAt" DESC`).Limit(limit).Offset(offset).Find(&settlements).Error
	if err != nil {
		return nil, 0, err
	}
	return settlements, total, nil
}

func (r *settlementRepository) FindDueForRetry(ctx context.Context, now time.Time) ([]*domain.Settlement, error) {
	var settlements []*domain.Settlement
	err := r.db.WithContext(ctx).
		Where(`"status" = ? AND "nextRetryAt" IS NOT NULL AND "nextRetryAt" <= ?`,
			domain.SettlementStatusFailed, now).
		Find(&settlements).Error
	return settlements, err
}

func (r *settlementRepository) FindOrders(ctx context.Context, settlementID uuid.UUID) ([]*domain.SettlementOrder, error) {
	var orders []*domain.SettlementOrder
	err := r.db.WithContext(ctx).
		Where(`"settlementId" = ?`, settlementID).
		Order(`"createdAt" ASC`).
		Find(&orders).Error
	return orders, err
}
