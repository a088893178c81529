package application

import (
	"context"
	"log/slog"
	"time"

	"github.com/finvolv/lendingplatform/internal/shared/domain"
	"github.com/google/uuid"
)

// defaultLookupTimeout bounds the database round-trip per origin check when
// no timeout is configured.
const defaultLookupTimeout = 2 * time.Second

// CorsService answers origin checks for one service against the shared
// allow list. Lookups hit the database every time so that configuration
// changes take effect without a restart; any failure denies.
type CorsService struct {
	serviceName   string
	repo          domain.CorsConfigRepository
	lookupTimeout time.Duration
	logger        *slog.Logger
}

// NewCorsService creates a CorsService scoped to the given service name.
// A non-positive lookupTimeout falls back to the default.
func NewCorsService(serviceName string, repo domain.CorsConfigRepository, lookupTimeout time.Duration, logger *slog.Logger) *CorsService {
	if lookupTimeout <= 0 {
		lookupTimeout = defaultLookupTimeout
	}
	return &CorsService{
		serviceName:   serviceName,
		repo:          repo,
		lookupTimeout: lookupTimeout,
		logger:        logger,
	}
}

// AllowedOrigins returns the active origins for this service, including rows
// registered under the '*' service wildcard. Errors yield an empty list.
func (s *CorsService) AllowedOrigins(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.lookupTimeout)
	defer cancel()

	origins, err := s.repo.ActiveOriginsForService(ctx, s.serviceName)
	if err != nil {
		s.logger.Error("cors origin lookup failed",
			slog.String("service", s.serviceName),
			slog.Any("error", err))
		return nil, err
	}
	return origins, nil
}

// IsOriginAllowed reports whether the origin may call this service. An empty
// origin is denied, and any lookup error denies regardless of origin.
func (s *CorsService) IsOriginAllowed(ctx context.Context, origin string) bool {
	if origin == "" {
		return false
	}

	origins, err := s.AllowedOrigins(ctx)
	if err != nil {
		return false
	}

	for _, allowed := range origins {
		if allowed == origin || allowed == "*" {
			return true
		}
	}
	return false
}

// RegisterOrigin adds an active rule for this service's allow list.
func (s *CorsService) RegisterOrigin(ctx context.Context, service, origin string) (*domain.CorsConfig, error) {
	config := domain.NewCorsConfig(service, origin)
	if err := s.repo.Create(ctx, config); err != nil {
		return nil, err
	}
	s.logger.Info("cors origin registered",
		slog.String("service", service),
		slog.String("origin", origin))
	return config, nil
}

// DeactivateRule turns a rule off; the next lookup no longer sees it.
func (s *CorsService) DeactivateRule(ctx context.Context, id uuid.UUID) error {
	config, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	config.Deactivate()
	return s.repo.Update(ctx, config)
}

// ListRules returns all rules for a service, active or not.
func (s *CorsService) ListRules(ctx context.Context, service string) ([]*domain.CorsConfig, error) {
	return s.repo.List(ctx, service)
}
