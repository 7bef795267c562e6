package entityregistry

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"broker/internal/evidence/models"
	"broker/internal/platform/metrics"
	"broker/internal/sentinel"
	"broker/pkg/domain"
	"broker/pkg/requestcontext"
)

// DefaultCacheTTL is how long a lookup result (including "not found") is reused.
const DefaultCacheTTL = 10 * time.Minute

// Fetcher retrieves a unit from the register.
type Fetcher interface {
	FetchUnit(ctx context.Context, orgNo string) (*Unit, error)
}

type cachedUnit struct {
	unit     *Unit
	notFound bool
	storedAt time.Time
}

// Service caches register lookups. Concurrent lookups of the same number share
// one upstream call; lookups of different numbers proceed independently.
type Service struct {
	fetcher Fetcher
	ttl     time.Duration
	now     func() time.Time
	logger  *slog.Logger
	metrics *metrics.Metrics

	group singleflight.Group
	mu    sync.RWMutex
	cache map[string]cachedUnit
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithClock injects the time source used for cache expiry.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func New(fetcher Fetcher, opts ...Option) *Service {
	if fetcher == nil {
		panic("entityregistry: fetcher is required")
	}
	s := &Service{
		fetcher: fetcher,
		ttl:     DefaultCacheTTL,
		now:     time.Now,
		logger:  slog.Default(),
		cache:   make(map[string]cachedUnit),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Lookup returns the unit for orgNo or an error wrapping sentinel.ErrNotFound.
func (s *Service) Lookup(ctx context.Context, orgNo string) (*Unit, error) {
	if entry, ok := s.cached(orgNo); ok {
		s.metrics.IncEntityLookup("cache_hit")
		if entry.notFound {
			return nil, sentinel.ErrNotFound
		}
		return entry.unit, nil
	}

	// Detach from the first caller's cancellation so sharing callers are not
	// failed by someone else's deadline.
	v, err, shared := s.group.Do(orgNo, func() (any, error) {
		if entry, ok := s.cached(orgNo); ok {
			return entry, nil
		}
		unit, err := s.fetcher.FetchUnit(context.WithoutCancel(ctx), orgNo)
		switch {
		case err == nil:
			entry := cachedUnit{unit: unit, storedAt: s.now()}
			s.store(orgNo, entry)
			s.metrics.IncEntityLookup("fetched")
			return entry, nil
		case errors.Is(err, sentinel.ErrNotFound):
			entry := cachedUnit{notFound: true, storedAt: s.now()}
			s.store(orgNo, entry)
			s.metrics.IncEntityLookup("not_found")
			return entry, nil
		default:
			s.metrics.IncEntityLookup("error")
			s.logger.WarnContext(ctx, "entity registry lookup failed",
				"error", err,
				"request_id", requestcontext.RequestID(ctx),
			)
			return nil, err
		}
	})
	if err != nil {
		return nil, err
	}
	if shared {
		s.logger.DebugContext(ctx, "entity registry lookup shared", "request_id", requestcontext.RequestID(ctx))
	}
	entry := v.(cachedUnit)
	if entry.notFound {
		return nil, sentinel.ErrNotFound
	}
	return entry.unit, nil
}

// Classify maps a party to its party type. Organizations missing from the
// register classify as Invalid; register outages are returned as errors.
func (s *Service) Classify(ctx context.Context, p domain.Party) (models.PartyTypeName, error) {
	switch p.Kind() {
	case domain.PartyKindPerson:
		return models.PartyTypePrivatePerson, nil
	case domain.PartyKindForeign:
		return models.PartyTypeForeign, nil
	case domain.PartyKindOrganization:
		unit, err := s.Lookup(ctx, p.NorwegianOrganizationNumber)
		if errors.Is(err, sentinel.ErrNotFound) {
			return models.PartyTypeInvalid, nil
		}
		if err != nil {
			return "", err
		}
		if unit.Deleted {
			return models.PartyTypeInvalid, nil
		}
		if unit.IsPublicAgency() {
			return models.PartyTypePublicAgency, nil
		}
		return models.PartyTypePrivateEnterprise, nil
	default:
		return models.PartyTypeInvalid, nil
	}
}

func (s *Service) cached(orgNo string) (cachedUnit, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.cache[orgNo]
	if !ok || s.now().Sub(entry.storedAt) >= s.ttl {
		return cachedUnit{}, false
	}
	return entry, true
}

func (s *Service) store(orgNo string, entry cachedUnit) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache[orgNo] = entry
}
