package application

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/finvolv/lendingplatform/internal/merchant/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAnalyticsRepo struct {
	raw      []*domain.MerchantAnalyticsRaw
	journeys []*domain.UserJourney
	daily    map[string]*domain.MerchantAnalyticsDaily
}

func newStubAnalyticsRepo() *stubAnalyticsRepo {
	return &stubAnalyticsRepo{daily: map[string]*domain.MerchantAnalyticsDaily{}}
}

func dailyKey(merchantID uuid.UUID, date time.Time) string {
	return merchantID.String() + "|" + date.Format("2006-01-02")
}

func (r *stubAnalyticsRepo) InsertRaw(ctx context.Context, event *domain.MerchantAnalyticsRaw) error {
	r.raw = append(r.raw, event)
	return nil
}

func (r *stubAnalyticsRepo) InsertJourney(ctx context.Context, step *domain.UserJourney) error {
	r.journeys = append(r.journeys, step)
	return nil
}

func (r *stubAnalyticsRepo) FindRawByMerchant(ctx context.Context, merchantID uuid.UUID, from, to time.Time) ([]*domain.MerchantAnalyticsRaw, error) {
	var out []*domain.MerchantAnalyticsRaw
	for _, event := range r.raw {
		if event.MerchantID != merchantID {
			continue
		}
		if event.OccurredAt.Before(from) || !event.OccurredAt.Before(to) {
			continue
		}
		out = append(out, event)
	}
	return out, nil
}

func (r *stubAnalyticsRepo) UpsertDaily(ctx context.Context, row *domain.MerchantAnalyticsDaily) error {
	r.daily[dailyKey(row.MerchantID, row.Date)] = row
	return nil
}

func (r *stubAnalyticsRepo) FindDaily(ctx context.Context, merchantID uuid.UUID, storeID *uuid.UUID, date time.Time) (*domain.MerchantAnalyticsDaily, error) {
	if row, ok := r.daily[dailyKey(merchantID, date)]; ok {
		return row, nil
	}
	return nil, domain.ErrAnalyticsRowNotFound
}

func (r *stubAnalyticsRepo) FindDailyRange(ctx context.Context, merchantID uuid.UUID, from, to time.Time) ([]*domain.MerchantAnalyticsDaily, error) {
	return nil, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func strPtr(s string) *string { return &s }

func TestIngestWritesRawAndJourney(t *testing.T) {
	repo := newStubAnalyticsRepo()
	svc := NewAnalyticsService(repo, discardLogger())
	merchantID := uuid.New()

	event := &AnalyticsEvent{
		MerchantID: merchantID,
		EventType:  "page_view",
		EventName:  "product_detail",
		SessionID:  strPtr("sess-1"),
		Page:       strPtr("/products/blue-shirt"),
		OccurredAt: time.Now(),
	}
	require.NoError(t, svc.Ingest(context.Background(), event))

	require.Len(t, repo.raw, 1)
	assert.Equal(t, merchantID, repo.raw[0].MerchantID)
	assert.Equal(t, "page_view", repo.raw[0].EventType)

	require.Len(t, repo.journeys, 1)
	assert.Equal(t, "sess-1", repo.journeys[0].SessionID)
	assert.Equal(t, "/products/blue-shirt", repo.journeys[0].Page)
}

func TestIngestWithoutPageSkipsJourney(t *testing.T) {
	repo := newStubAnalyticsRepo()
	svc := NewAnalyticsService(repo, discardLogger())

	event := &AnalyticsEvent{
		MerchantID: uuid.New(),
		EventType:  "add_to_cart",
		EventName:  "add_to_cart",
		SessionID:  strPtr("sess-1"),
		OccurredAt: time.Now(),
	}
	require.NoError(t, svc.Ingest(context.Background(), event))

	assert.Len(t, repo.raw, 1)
	assert.Empty(t, repo.journeys)
}

func TestIngestRejectsUnattributableEvent(t *testing.T) {
	svc := NewAnalyticsService(newStubAnalyticsRepo(), discardLogger())

	err := svc.Ingest(context.Background(), &AnalyticsEvent{
		EventType:  "page_view",
		EventName:  "home",
		OccurredAt: time.Now(),
	})
	assert.Error(t, err)

	err = svc.Ingest(context.Background(), &AnalyticsEvent{
		MerchantID: uuid.New(),
		OccurredAt: time.Now(),
	})
	assert.Error(t, err)
}

func TestRollupDailyCountsViewsAndVisitors(t *testing.T) {
	repo := newStubAnalyticsRepo()
	svc := NewAnalyticsService(repo, discardLogger())
	merchantID := uuid.New()
	day := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)

	sessions := []string{"s1", "s1", "s2", "s3"}
	for i, sess := range sessions {
		s := sess
		repo.raw = append(repo.raw, &domain.MerchantAnalyticsRaw{
			ID:         uuid.New(),
			MerchantID: merchantID,
			EventType:  "page_view",
			EventName:  "home",
			SessionID:  &s,
			OccurredAt: day.Add(time.Duration(i) * time.Hour),
		})
	}
	// An event from the next day must not count.
	repo.raw = append(repo.raw, &domain.MerchantAnalyticsRaw{
		ID:         uuid.New(),
		MerchantID: merchantID,
		EventType:  "page_view",
		EventName:  "home",
		OccurredAt: day.AddDate(0, 0, 1),
	})

	row, err := svc.RollupDaily(context.Background(), merchantID, day)
	require.NoError(t, err)

	assert.Equal(t, 4, row.PageViews)
	assert.Equal(t, 3, row.UniqueVisitors)
	assert.Contains(t, repo.daily, dailyKey(merchantID, day))
}

func TestRecordOrderMetricsUpdatesRollup(t *testing.T) {
	repo := newStubAnalyticsRepo()
	svc := NewAnalyticsService(repo, discardLogger())
	merchantID := uuid.New()
	created := time.Date(2026, 8, 29, 14, 30, 0, 0, time.UTC)

	order := &domain.Order{
		MerchantID:  merchantID,
		Status:      domain.OrderStatusDelivered,
		TotalAmount: decimal.RequireFromString("2586.00"),
		CreatedAt:   created,
	}
	require.NoError(t, svc.RecordOrderMetrics(context.Background(), order))

	day := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)
	row := repo.daily[dailyKey(merchantID, day)]
	require.NotNil(t, row)
	assert.Equal(t, 1, row.TotalOrders)
	assert.True(t, row.TotalSales.Equal(decimal.RequireFromString("2586.00")))
	assert.True(t, row.AverageOrderValue.Equal(decimal.RequireFromString("2586.00")))

	cancelled := &domain.Order{
		MerchantID:  merchantID,
		Status:      domain.OrderStatusCancelled,
		TotalAmount: decimal.RequireFromString("500.00"),
		CreatedAt:   created,
	}
	require.NoError(t, svc.RecordOrderMetrics(context.Background(), cancelled))

	row = repo.daily[dailyKey(merchantID, day)]
	assert.Equal(t, 1, row.CancelledOrders)
	assert.Equal(t, 1, row.TotalOrders, "cancelled orders do not add to sales counters")
}

func TestRecordOrderMetricsCountsFullRefunds(t *testing.T) {
	repo := newStubAnalyticsRepo()
	svc := NewAnalyticsService(repo, discardLogger())
	merchantID := uuid.New()
	created := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)

	order := &domain.Order{
		MerchantID:    merchantID,
		Status:        domain.OrderStatusDelivered,
		PaymentStatus: domain.PaymentStatusRefunded,
		TotalAmount:   decimal.RequireFromString("1200.00"),
		CreatedAt:     created,
	}
	require.NoError(t, svc.RecordOrderMetrics(context.Background(), order))

	day := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)
	row := repo.daily[dailyKey(merchantID, day)]
	require.NotNil(t, row)
	assert.True(t, row.TotalRefunds.Equal(decimal.RequireFromString("1200.00")))
	assert.True(t, row.NetSales.Equal(decimal.Zero))
}
