package application

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/finvolv/lendingplatform/internal/shared/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCorsRepo struct {
	rules        []*domain.CorsConfig
	err          error
	lastDeadline time.Time
	hadDeadline  bool
}

func (r *stubCorsRepo) Create(ctx context.Context, config *domain.CorsConfig) error {
	r.rules = append(r.rules, config)
	return r.err
}

func (r *stubCorsRepo) Update(ctx context.Context, config *domain.CorsConfig) error {
	return r.err
}

func (r *stubCorsRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.CorsConfig, error) {
	if r.err != nil {
		return nil, r.err
	}
	for _, rule := range r.rules {
		if rule.ID == id {
			return rule, nil
		}
	}
	return nil, domain.ErrCorsConfigNotFound
}

func (r *stubCorsRepo) ActiveOriginsForService(ctx context.Context, service string) ([]string, error) {
	r.lastDeadline, r.hadDeadline = ctx.Deadline()
	if r.err != nil {
		return nil, r.err
	}
	var origins []string
	for _, rule := range r.rules {
		if !rule.IsActive {
			continue
		}
		if rule.Service == service || rule.Service == "*" {
			origins = append(origins, rule.Origin)
		}
	}
	return origins, nil
}

func (r *stubCorsRepo) List(ctx context.Context, service string) ([]*domain.CorsConfig, error) {
	return r.rules, r.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestIsOriginAllowedServiceAndGlobalRules(t *testing.T) {
	repo := &stubCorsRepo{rules: []*domain.CorsConfig{
		domain.NewCorsConfig("los", "https://a.com"),
		domain.NewCorsConfig("*", "https://b.com"),
		domain.NewCorsConfig("mms", "https://c.com"),
	}}
	svc := NewCorsService("los", repo, time.Second, discardLogger())
	ctx := context.Background()

	assert.True(t, svc.IsOriginAllowed(ctx, "https://a.com"), "service rule")
	assert.True(t, svc.IsOriginAllowed(ctx, "https://b.com"), "global rule")
	assert.False(t, svc.IsOriginAllowed(ctx, "https://c.com"), "other service's rule")
	assert.False(t, svc.IsOriginAllowed(ctx, ""), "empty origin")
}

func TestIsOriginAllowedWildcardOrigin(t *testing.T) {
	repo := &stubCorsRepo{rules: []*domain.CorsConfig{
		domain.NewCorsConfig("los", "*"),
	}}
	svc := NewCorsService("los", repo, time.Second, discardLogger())

	assert.True(t, svc.IsOriginAllowed(context.Background(), "https://anything.example"))
}

func TestIsOriginAllowedDeniesOnLookupError(t *testing.T) {
	repo := &stubCorsRepo{
		rules: []*domain.CorsConfig{domain.NewCorsConfig("los", "https://a.com")},
		err:   errors.New("connection refused"),
	}
	svc := NewCorsService("los", repo, time.Second, discardLogger())

	assert.False(t, svc.IsOriginAllowed(context.Background(), "https://a.com"))
}

func TestDeactivatedRuleTakesImmediateEffect(t *testing.T) {
	rule := domain.NewCorsConfig("los", "https://a.com")
	repo := &stubCorsRepo{rules: []*domain.CorsConfig{rule}}
	svc := NewCorsService("los", repo, time.Second, discardLogger())
	ctx := context.Background()

	require.True(t, svc.IsOriginAllowed(ctx, "https://a.com"))

	require.NoError(t, svc.DeactivateRule(ctx, rule.ID))
	assert.False(t, svc.IsOriginAllowed(ctx, "https://a.com"), "no caching between lookups")
}

func TestLookupCarriesConfiguredTimeout(t *testing.T) {
	repo := &stubCorsRepo{rules: []*domain.CorsConfig{
		domain.NewCorsConfig("los", "https://a.com"),
	}}
	svc := NewCorsService("los", repo, 250*time.Millisecond, discardLogger())

	before := time.Now()
	assert.True(t, svc.IsOriginAllowed(context.Background(), "https://a.com"))

	require.True(t, repo.hadDeadline, "lookup context must carry a deadline")
	assert.WithinDuration(t, before.Add(250*time.Millisecond), repo.lastDeadline, 100*time.Millisecond)
}

func TestZeroTimeoutFallsBackToDefault(t *testing.T) {
	repo := &stubCorsRepo{}
	svc := NewCorsService("los", repo, 0, discardLogger())

	svc.IsOriginAllowed(context.Background(), "https://a.com")
	require.True(t, repo.hadDeadline)
	assert.InDelta(t, defaultLookupTimeout.Seconds(), time.Until(repo.lastDeadline).Seconds(), 0.5)
}

func TestRegisterOrigin(t *testing.T) {
	repo := &stubCorsRepo{}
	svc := NewCorsService("los", repo, time.Second, discardLogger())
	ctx := context.Background()

	config, err := svc.RegisterOrigin(ctx, "los", "https://new.example")
	require.NoError(t, err)
	assert.True(t, config.IsActive)
	assert.True(t, svc.IsOriginAllowed(ctx, "https://new.example"))
}
