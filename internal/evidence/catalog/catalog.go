// Package catalog maintains the merged list of datasets published by every
// configured evidence source.
//
// Reads go through two tiers: an in-process copy with a short TTL and a shared
// cache (Redis in production) with a long TTL. A miss on both fans out to all
// sources concurrently. Only one refresh runs at a time per process; callers
// that queued behind it re-check the local tier and reuse its result.
package catalog

import (
	"context"
	"errors"
	"log/slog"
	"maps"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"broker/internal/evidence/models"
	"broker/internal/platform/config"
	"broker/internal/platform/metrics"
	"broker/internal/platform/tracer"
	"broker/internal/sentinel"
	"broker/internal/servicecontext"
	dErrors "broker/pkg/domain-errors"
	"broker/pkg/requestcontext"
)

// SourceFetcher lists the datasets of one evidence source.
type SourceFetcher interface {
	Fetch(ctx context.Context, src config.EvidenceSource) ([]models.EvidenceCodeDescriptor, error)
}

// SharedCache is the cross-instance tier. Load returns sentinel.ErrNotFound on a miss.
type SharedCache interface {
	Load(ctx context.Context) ([]models.EvidenceCodeDescriptor, error)
	Save(ctx context.Context, list []models.EvidenceCodeDescriptor, ttl time.Duration) error
}

// ServiceContexts supplies context-level requirements attached to member datasets.
type ServiceContexts interface {
	All() []servicecontext.ServiceContext
}

// Service is the evidence catalog.
type Service struct {
	sources   []config.EvidenceSource
	fetcher   SourceFetcher
	shared    SharedCache
	contexts  ServiceContexts
	localTTL  time.Duration
	sharedTTL time.Duration
	now       func() time.Time
	logger    *slog.Logger
	metrics   *metrics.Metrics
	tracer    tracer.Tracer

	mu      sync.Mutex // serializes non-forced refreshes
	forceMu sync.Mutex // serializes forced refreshes

	stateMu  sync.RWMutex
	local    []models.EvidenceCodeDescriptor
	loadedAt time.Time
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

func WithTracer(t tracer.Tracer) Option {
	return func(s *Service) {
		if t != nil {
			s.tracer = t
		}
	}
}

// WithClock injects the time source used for cache ages and validity windows.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithTTLs overrides the local and shared cache lifetimes. Zero keeps the default.
func WithTTLs(local, shared time.Duration) Option {
	return func(s *Service) {
		if local > 0 {
			s.localTTL = local
		}
		if shared > 0 {
			s.sharedTTL = shared
		}
	}
}

// WithServiceContexts attaches context-level requirements during refresh.
func WithServiceContexts(sc ServiceContexts) Option {
	return func(s *Service) {
		s.contexts = sc
	}
}

func New(sources []config.EvidenceSource, fetcher SourceFetcher, shared SharedCache, opts ...Option) *Service {
	if fetcher == nil {
		panic("catalog: fetcher is required")
	}
	if shared == nil {
		panic("catalog: shared cache is required")
	}
	s := &Service{
		sources:   slices.Clone(sources),
		fetcher:   fetcher,
		shared:    shared,
		localTTL:  config.DefaultLocalCatalogTTL,
		sharedTTL: config.DefaultSharedCatalogTTL,
		now:       time.Now,
		logger:    slog.Default(),
		tracer:    tracer.NewNoop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetCatalog returns every dataset valid now, with aliases expanded into their
// own descriptors. The result is a private deep copy.
//
// A forced refresh always fans out to the sources and overwrites both tiers.
// Refreshes run detached from ctx cancellation once started.
func (s *Service) GetCatalog(ctx context.Context, force bool) ([]models.EvidenceCodeDescriptor, error) {
	if force {
		return s.forceRefresh(ctx)
	}
	if list, ok := s.fresh(); ok {
		s.metrics.RecordCatalogLookup("local", true)
		return s.view(list), nil
	}
	s.metrics.RecordCatalogLookup("local", false)

	s.mu.Lock()
	defer s.mu.Unlock()
	if list, ok := s.fresh(); ok {
		return s.view(list), nil
	}

	list := s.loadOrFetch(context.WithoutCancel(ctx))
	s.store(list)
	return s.view(list), nil
}

// GetForServiceContext returns the catalog narrowed to datasets offered in serviceContext.
func (s *Service) GetForServiceContext(ctx context.Context, serviceContext string) ([]models.EvidenceCodeDescriptor, error) {
	all, err := s.GetCatalog(ctx, false)
	if err != nil {
		return nil, err
	}
	out := make([]models.EvidenceCodeDescriptor, 0, len(all))
	for _, d := range all {
		if d.BelongsTo(serviceContext) {
			out = append(out, d)
		}
	}
	return out, nil
}

// Lookup finds a dataset by its exact name.
func (s *Service) Lookup(ctx context.Context, name string) (*models.EvidenceCodeDescriptor, error) {
	all, err := s.GetCatalog(ctx, false)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].Name == name {
			return &all[i], nil
		}
	}
	return nil, dErrors.New(dErrors.CodeUnknownEvidenceCode, "unknown evidence code: "+name)
}

func (s *Service) forceRefresh(ctx context.Context) ([]models.EvidenceCodeDescriptor, error) {
	s.forceMu.Lock()
	defer s.forceMu.Unlock()

	s.metrics.IncCatalogRefresh("forced")
	ctx = context.WithoutCancel(ctx)
	list := s.fetchAll(ctx)
	if err := s.shared.Save(ctx, list, s.sharedTTL); err != nil {
		s.logger.WarnContext(ctx, "failed to save catalog to shared cache", "error", err)
	}
	s.store(list)
	return s.view(list), nil
}

// loadOrFetch is cache-aside over the shared tier. An unreachable shared cache
// is treated as a miss.
func (s *Service) loadOrFetch(ctx context.Context) []models.EvidenceCodeDescriptor {
	list, err := s.shared.Load(ctx)
	if err == nil {
		return list
	}
	if !errors.Is(err, sentinel.ErrNotFound) {
		s.logger.WarnContext(ctx, "shared catalog cache unavailable",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
	}

	s.metrics.IncCatalogRefresh("expired")
	list = s.fetchAll(ctx)
	if err := s.shared.Save(ctx, list, s.sharedTTL); err != nil {
		s.logger.WarnContext(ctx, "failed to save catalog to shared cache", "error", err)
	}
	return list
}

// fetchAll queries every source concurrently and merges the results in source
// order. A failing source contributes nothing. The first source to publish a
// name owns it.
func (s *Service) fetchAll(ctx context.Context) []models.EvidenceCodeDescriptor {
	start := s.now()
	ctx, span := s.tracer.Start(ctx, tracer.SpanCatalogRefresh)

	results := make([][]models.EvidenceCodeDescriptor, len(s.sources))
	var g errgroup.Group
	for i, src := range s.sources {
		g.Go(func() error {
			results[i] = s.fetchSource(ctx, src)
			return nil
		})
	}
	_ = g.Wait()

	seen := make(map[string]string)
	var merged []models.EvidenceCodeDescriptor
	for i, list := range results {
		for _, d := range list {
			if owner, dup := seen[d.Name]; dup {
				s.logger.WarnContext(ctx, "dataset published by more than one source",
					"evidence_code", d.Name,
					"kept", owner,
					"dropped", s.sources[i].Name,
				)
				continue
			}
			seen[d.Name] = s.sources[i].Name
			merged = append(merged, d)
		}
	}
	s.attachContextRequirements(merged)

	span.SetAttributes(tracer.Int(tracer.AttrDatasetCount, len(merged)))
	span.End(nil)
	s.metrics.ObserveCatalogRefresh(s.now().Sub(start), len(merged))
	s.logger.InfoContext(ctx, "catalog refreshed",
		"datasets", len(merged),
		"sources", len(s.sources),
	)
	return merged
}

func (s *Service) fetchSource(ctx context.Context, src config.EvidenceSource) []models.EvidenceCodeDescriptor {
	ctx, span := s.tracer.Start(ctx, tracer.SpanCatalogSource, tracer.String(tracer.AttrEvidenceSource, src.Name))
	list, err := s.fetcher.Fetch(ctx, src)
	span.End(err)
	if err != nil {
		s.metrics.IncCatalogSourceError(src.Name)
		s.logger.ErrorContext(ctx, "failed to fetch evidence source catalog",
			"source", src.Name,
			"error", err,
		)
		return nil
	}
	return list
}

// attachContextRequirements appends a private copy of each service context's
// requirements, tagged with that context, to every member dataset.
func (s *Service) attachContextRequirements(list []models.EvidenceCodeDescriptor) {
	if s.contexts == nil {
		return
	}
	for _, sc := range s.contexts.All() {
		if len(sc.Requirements) == 0 {
			continue
		}
		for i := range list {
			if !list[i].BelongsTo(sc.Name) {
				continue
			}
			for _, r := range sc.Requirements {
				c := r.Clone()
				c.Common().AppliesToServiceContext = []string{sc.Name}
				list[i].Requirements = append(list[i].Requirements, c)
			}
		}
	}
}

func (s *Service) fresh() ([]models.EvidenceCodeDescriptor, bool) {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	if s.local == nil || s.now().Sub(s.loadedAt) >= s.localTTL {
		return nil, false
	}
	return s.local, true
}

func (s *Service) store(list []models.EvidenceCodeDescriptor) {
	if list == nil {
		list = []models.EvidenceCodeDescriptor{}
	}
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	s.local = list
	s.loadedAt = s.now()
}

// view filters list to datasets valid now and expands aliases. Every returned
// descriptor is a deep copy.
func (s *Service) view(list []models.EvidenceCodeDescriptor) []models.EvidenceCodeDescriptor {
	now := s.now()
	out := make([]models.EvidenceCodeDescriptor, 0, len(list))
	for i := range list {
		d := &list[i]
		if !d.IsValidAt(now) {
			continue
		}
		out = append(out, d.Clone())
		out = append(out, expandAliases(d)...)
	}
	return out
}

// expandAliases yields one descriptor per (service context, alias) pair, scoped
// to that context and carrying only the requirements active there.
func expandAliases(d *models.EvidenceCodeDescriptor) []models.EvidenceCodeDescriptor {
	if len(d.DatasetAliases) == 0 {
		return nil
	}
	out := make([]models.EvidenceCodeDescriptor, 0, len(d.DatasetAliases))
	for _, sc := range slices.Sorted(maps.Keys(d.DatasetAliases)) {
		alias := d.Clone()
		alias.Name = d.DatasetAliases[sc]
		alias.AliasOf = d.Name
		alias.ServiceContexts = []string{sc}
		alias.DatasetAliases = nil
		alias.Requirements = d.Requirements.ApplicableTo(sc).Clone()
		out = append(out, alias)
	}
	return out
}
