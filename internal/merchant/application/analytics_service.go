package application

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/finvolv/lendingplatform/internal/merchant/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AnalyticsEvent is the wire shape of one behavioral event on the ingest
// topic.
type AnalyticsEvent struct {
	MerchantID      uuid.UUID       `json:"merchant_id"`
	StoreID         *uuid.UUID      `json:"store_id,omitempty"`
	EventType       string          `json:"event_type"`
	EventName       string          `json:"event_name"`
	CustomerID      *uuid.UUID      `json:"customer_id,omitempty"`
	SessionID       *string         `json:"session_id,omitempty"`
	ProductID       *uuid.UUID      `json:"product_id,omitempty"`
	VariantID       *uuid.UUID      `json:"variant_id,omitempty"`
	OrderID         *int64          `json:"order_id,omitempty"`
	Page            *string         `json:"page,omitempty"`
	Referrer        *string         `json:"referrer,omitempty"`
	EventProperties json.RawMessage `json:"event_properties,omitempty"`
	UtmSource       *string         `json:"utm_source,omitempty"`
	UtmMedium       *string         `json:"utm_medium,omitempty"`
	UtmCampaign     *string         `json:"utm_campaign,omitempty"`
	IPAddress       *string         `json:"ip_address,omitempty"`
	UserAgent       *string         `json:"user_agent,omitempty"`
	Country         *string         `json:"country,omitempty"`
	City            *string         `json:"city,omitempty"`
	OccurredAt      time.Time       `json:"occurred_at"`
}

// Validate rejects events that cannot be attributed.
func (e *AnalyticsEvent) Validate() error {
	if e.MerchantID == uuid.Nil {
		return fmt.Errorf("analytics event missing merchant id")
	}
	if e.EventType == "" || e.EventName == "" {
		return fmt.Errorf("analytics event missing type or name")
	}
	if e.OccurredAt.IsZero() {
		return fmt.Errorf("analytics event missing occurrence time")
	}
	return nil
}

// AnalyticsService ingests raw behavioral events and recomputes daily
// rollups. Raw rows are append-only; rollups are idempotent upserts.
type AnalyticsService struct {
	repo   domain.AnalyticsRepository
	logger *slog.Logger
}

// NewAnalyticsService creates the analytics service.
func NewAnalyticsService(repo domain.AnalyticsRepository, logger *slog.Logger) *AnalyticsService {
	return &AnalyticsService{repo: repo, logger: logger}
}

// Ingest records one event. Page-view events with a session also feed the
// user journey trail.
func (s *AnalyticsService) Ingest(ctx context.Context, event *AnalyticsEvent) error {
	if err := event.Validate(); err != nil {
		return err
	}

	raw := domain.NewRawEvent(event.MerchantID, event.EventType, event.EventName, event.OccurredAt)
	raw.StoreID = event.StoreID
	raw.CustomerID = event.CustomerID
	raw.SessionID = event.SessionID
	raw.ProductID = event.ProductID
	raw.VariantID = event.VariantID
	raw.OrderID = event.OrderID
	raw.EventProperties = event.EventProperties
	raw.UtmSource = event.UtmSource
	raw.UtmMedium = event.UtmMedium
	raw.UtmCampaign = event.UtmCampaign
	raw.IPAddress = event.IPAddress
	raw.UserAgent = event.UserAgent
	raw.Country = event.Country
	raw.City = event.City

	if err := s.repo.InsertRaw(ctx, raw); err != nil {
		return fmt.Errorf("insert raw event: %w", err)
	}

	if event.Page != nil && event.SessionID != nil {
		step := &domain.UserJourney{
			ID:         uuid.New(),
			MerchantID: event.MerchantID,
			SessionID:  *event.SessionID,
			CustomerID: event.CustomerID,
			Page:       *event.Page,
			ProductID:  event.ProductID,
			VariantID:  event.VariantID,
			Referrer:   event.Referrer,
			CreatedAt:  time.Now(),
		}
		if err := s.repo.InsertJourney(ctx, step); err != nil {
			// The raw row is already written; journey loss is tolerable.
			s.logger.Warn("journey insert failed",
				slog.String("merchant_id", event.MerchantID.String()),
				slog.Any("error", err))
		}
	}
	return nil
}

// RollupDaily recomputes the daily rollup for a merchant from the raw events
// of the given date, preserving any order counters already on the row.
func (s *AnalyticsService) RollupDaily(ctx context.Context, merchantID uuid.UUID, date time.Time) (*domain.MerchantAnalyticsDaily, error) {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	events, err := s.repo.FindRawByMerchant(ctx, merchantID, day, day.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("load raw events: %w", err)
	}

	row, err := s.repo.FindDaily(ctx, merchantID, nil, day)
	if err != nil {
		row = &domain.MerchantAnalyticsDaily{
			MerchantID: merchantID,
			Date:       day,
			CreatedAt:  time.Now(),
		}
	}

	pageViews := 0
	visitors := map[string]bool{}
	for _, event := range events {
		if event.EventType == "page_view" {
			pageViews++
		}
		if event.SessionID != nil {
			visitors[*event.SessionID] = true
		}
	}

	row.PageViews = pageViews
	row.UniqueVisitors = len(visitors)
	row.RecomputeDerived()

	if err := s.repo.UpsertDaily(ctx, row); err != nil {
		return nil, fmt.Errorf("upsert daily rollup: %w", err)
	}
	return row, nil
}

// RecordOrderMetrics folds one order outcome into the merchant's rollup for
// the order's date.
func (s *AnalyticsService) RecordOrderMetrics(ctx context.Context, order *domain.Order) error {
	day := time.Date(order.CreatedAt.Year(), order.CreatedAt.Month(), order.CreatedAt.Day(), 0, 0, 0, 0, time.UTC)

	row, err := s.repo.FindDaily(ctx, order.MerchantID, nil, day)
	if err != nil {
		row = &domain.MerchantAnalyticsDaily{
			MerchantID: order.MerchantID,
			Date:       day,
			CreatedAt:  time.Now(),
		}
	}

	switch order.Status {
	case domain.OrderStatusCancelled:
		row.CancelledOrders++
	case domain.OrderStatusReturned:
		row.ReturnedOrders++
	default:
		row.TotalOrders++
		row.TotalSales = row.TotalSales.Add(order.TotalAmount)
	}
	if order.PaymentStatus == domain.PaymentStatusRefunded ||
		order.PaymentStatus == domain.PaymentStatusPartiallyRefunded {
		row.TotalRefunds = row.TotalRefunds.Add(refundedAmount(order))
	}
	row.RecomputeDerived()

	return s.repo.UpsertDaily(ctx, row)
}

// refundedAmount counts the full order total only when fully refunded.
// Partial refund amounts live on the payment transactions, not the order.
func refundedAmount(order *domain.Order) decimal.Decimal {
	if order.PaymentStatus == domain.PaymentStatusRefunded {
		return order.TotalAmount
	}
	return decimal.Zero
}
