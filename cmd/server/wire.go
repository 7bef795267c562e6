package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"broker/internal/accreditation"
	accstore "broker/internal/accreditation/store"
	"broker/internal/authorization"
	consentclient "broker/internal/consent/client"
	consentservice "broker/internal/consent/service"
	"broker/internal/delegation"
	"broker/internal/entityregistry"
	"broker/internal/evidence/catalog"
	catalogstore "broker/internal/evidence/catalog/store"
	"broker/internal/evidence/harvest"
	"broker/internal/evidence/status"
	jwttoken "broker/internal/jwt_token"
	"broker/internal/platform/config"
	"broker/internal/platform/database"
	"broker/internal/platform/health"
	"broker/internal/platform/httpclient"
	"broker/internal/platform/kafka"
	"broker/internal/platform/kafka/producer"
	"broker/internal/platform/metrics"
	"broker/internal/platform/redis"
	"broker/internal/platform/tracer"
	"broker/internal/policy"
	"broker/internal/ratelimit"
	ratelimitconfig "broker/internal/ratelimit/config"
	ratelimitmw "broker/internal/ratelimit/middleware"
	"broker/internal/ratelimit/store/bucket"
	"broker/internal/servicecontext"
	"broker/internal/token"
	httptransport "broker/internal/transport/http"
	"broker/pkg/platform/audit"
	"broker/pkg/platform/audit/outbox"
	outboxmetrics "broker/pkg/platform/audit/outbox/metrics"
	outboxmemory "broker/pkg/platform/audit/outbox/store/memory"
	outboxpostgres "broker/pkg/platform/audit/outbox/store/postgres"
	"broker/pkg/platform/audit/outbox/worker"
	"broker/pkg/platform/audit/publisher"
	"broker/pkg/platform/middleware/metadata"
	request "broker/pkg/platform/middleware/request"
)

const (
	jwtAudience       = "broker"
	poolStatsInterval = 15 * time.Second
	auditBufferSize   = 1024
)

type app struct {
	router    http.Handler
	catalog   *catalog.Service
	redis     *redis.Client
	db        *database.Pool
	publisher *publisher.Publisher
	relay     *worker.Worker
	kafka     *producer.Producer
	logger    *slog.Logger
}

// build constructs every service from cfg. Redis and Postgres are optional; without
// them the catalog keeps a process-local shared tier and accreditations live in memory.
func build(ctx context.Context, cfg config.Config, log *slog.Logger) (*app, error) {
	reg := prometheus.DefaultRegisterer
	m := metrics.New(reg)
	tr := tracer.NewOTel()

	catalogFile, err := config.LoadCatalogFile(cfg.Catalog.File)
	if err != nil {
		return nil, fmt.Errorf("load catalog file: %w", err)
	}
	contexts, err := servicecontext.NewRegistry(catalogFile.ServiceContexts)
	if err != nil {
		return nil, fmt.Errorf("build service contexts: %w", err)
	}

	a := &app{logger: log}
	healthHandler := health.New(environment(cfg))

	a.redis, err = redis.New(ctx, cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	var shared catalog.SharedCache
	if a.redis != nil {
		shared = catalogstore.NewRedisCache(a.redis, m)
		healthHandler.RegisterCheck("redis", a.redis.Health)
	} else {
		log.Warn("REDIS_URL not set, catalog cache is process-local")
		shared = catalogstore.NewInMemoryCache(time.Now)
	}

	a.db, err = database.New(ctx, cfg.Database)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("connect database: %w", err)
	}
	var (
		store     accreditation.Store
		auditLogs outbox.Store
	)
	if a.db != nil {
		if err := a.db.Migrate(ctx); err != nil {
			a.close()
			return nil, fmt.Errorf("migrate database: %w", err)
		}
		store = accstore.NewPostgres(a.db.DB())
		auditLogs = outboxpostgres.New(a.db.DB())
		healthHandler.RegisterCheck("database", a.db.Health)
	} else {
		log.Warn("DATABASE_URL not set, accreditations are kept in memory")
		store = accstore.NewInMemory()
		auditLogs = outboxmemory.New()
	}

	auditLogger, err := a.buildAudit(cfg.Audit, auditLogs, reg, healthHandler)
	if err != nil {
		a.close()
		return nil, err
	}

	client := httpclient.New(
		httpclient.WithTimeout(cfg.Upstream.RequestTimeout),
		httpclient.WithMetrics(m),
		httpclient.WithLogger(log),
	)

	a.catalog = catalog.New(catalogFile.Sources, catalog.NewHTTPSourceFetcher(client), shared,
		catalog.WithLogger(log),
		catalog.WithMetrics(m),
		catalog.WithTracer(tr),
		catalog.WithTTLs(cfg.Catalog.LocalTTL, cfg.Catalog.SharedTTL),
		catalog.WithServiceContexts(contexts),
	)

	registry := entityregistry.New(
		entityregistry.NewHTTPClient(cfg.Upstream.EntityRegistryURL, client),
		entityregistry.WithLogger(log),
		entityregistry.WithMetrics(m),
	)

	engine := policy.New(
		delegation.NewClient(cfg.Upstream.DelegationURL, client),
		registry,
		catalogFile,
		policy.WithLogger(log),
		policy.WithMetrics(m),
	)

	consent := consentservice.New(
		consentclient.New(cfg.Upstream.ConsentURL, client),
		consentservice.WithLogger(log),
	)

	tokens := token.New(cfg.Token,
		token.WithLogger(log),
		token.WithMetrics(m),
		token.WithHTTPClient(client),
	)

	statuses := status.New(a.catalog, consent, client,
		status.WithLogger(log),
		status.WithMetrics(m),
		status.WithTracer(tr),
		status.WithTokenSource(tokens),
		status.WithDefaultTimeout(cfg.Harvest.DefaultTimeout),
	)

	accreditations := accreditation.New(store, statuses,
		accreditation.WithLogger(log),
		accreditation.WithAuditLogger(auditLogger),
	)

	harvester := harvest.New(a.catalog, statuses, consent, client,
		harvest.WithLogger(log),
		harvest.WithMetrics(m),
		harvest.WithTracer(tr),
		harvest.WithTokenSource(tokens),
		harvest.WithRetrievalRecorder(accreditations),
		harvest.WithDefaultTimeout(cfg.Harvest.DefaultTimeout),
	)

	validator := authorization.NewValidator(a.catalog, engine, registry, contexts,
		authorization.WithValidatorLogger(log),
	)
	authorizer := authorization.New(validator, consent, statuses, store,
		authorization.WithLogger(log),
		authorization.WithMetrics(m),
		authorization.WithTracer(tr),
		authorization.WithAuditLogger(auditLogger),
	)

	handler := httptransport.NewHandler(authorizer, accreditations, harvester, a.catalog, contexts,
		httptransport.WithLogger(log),
		httptransport.WithDevelopmentMode(cfg.Server.DevelopmentMode),
	)

	var limiter *ratelimitmw.Middleware
	if cfg.RateLimit.Enabled {
		var buckets ratelimit.BucketStore = bucket.NewInMemoryBucketStore()
		if a.redis != nil {
			buckets = bucket.NewRedisBucketStore(a.redis)
		}
		limiter = ratelimitmw.New(ratelimit.New(buckets,
			ratelimit.WithConfig(ratelimitconfig.FromSettings(cfg.RateLimit)),
			ratelimit.WithLogger(log),
			ratelimit.WithMetrics(m),
		), log)
	}

	jwtService := jwttoken.NewJWTService(cfg.Server.JWTSigningKey, cfg.Server.JWTIssuer, jwtAudience, 0)

	a.router = httptransport.NewRouter(handler, httptransport.RouterConfig{
		Logger:         log,
		Tokens:         jwttoken.NewJWTServiceAdapter(jwtService),
		AdminToken:     cfg.Server.AdminToken,
		Metadata:       metadata.Config{TrustedProxies: metadata.ParseTrustedProxies(cfg.Server.TrustedProxies)},
		RequestMetrics: request.NewMetrics(reg),
		Health:         healthHandler,
		Metrics:        promhttp.Handler(),
		MaxBodyBytes:   cfg.Server.MaxBodyBytes,
		RequestTimeout: cfg.Server.RequestTimeout,
		RateLimit:      limiter,
	})
	return a, nil
}

// buildAudit connects the audit trail: services emit into the outbox and the
// relay publishes it to Kafka, or to the log when no brokers are configured.
func (a *app) buildAudit(cfg config.AuditConfig, store outbox.Store, reg prometheus.Registerer, healthHandler *health.Handler) (*audit.Logger, error) {
	var relayTo worker.Producer
	if cfg.KafkaBrokers != "" {
		pcfg := kafka.DefaultProducerConfig()
		pcfg.Brokers = cfg.KafkaBrokers
		pcfg.Acks = cfg.Acks
		prod, err := producer.New(pcfg, a.logger)
		if err != nil {
			return nil, fmt.Errorf("connect kafka: %w", err)
		}
		a.kafka = prod
		relayTo = prod
		healthHandler.RegisterCheck("kafka", kafka.NewHealthChecker(cfg.KafkaBrokers).Check)
	} else {
		a.logger.Warn("KAFKA_BROKERS not set, audit events are relayed to the log")
		relayTo = producer.NewLogProducer(a.logger)
	}

	a.relay = worker.New(store, relayTo,
		worker.WithTopic(cfg.Topic),
		worker.WithBatchSize(cfg.BatchSize),
		worker.WithPollInterval(cfg.PollInterval),
		worker.WithRetention(cfg.Retention),
		worker.WithMetrics(outboxmetrics.New(reg)),
		worker.WithLogger(a.logger),
	)
	a.publisher = publisher.NewPublisher(store,
		publisher.WithAsyncBuffer(auditBufferSize),
		publisher.WithPublisherLogger(a.logger),
	)
	return audit.NewLogger(a.logger, a.publisher), nil
}

// run warms the catalog, starts the audit relay and publishes pool statistics
// until ctx ends.
func (a *app) run(ctx context.Context) {
	if a.relay != nil {
		a.relay.Start()
	}
	if _, err := a.catalog.GetCatalog(ctx, false); err != nil {
		a.logger.WarnContext(ctx, "catalog warm-up failed", "error", err)
	}
	if a.redis == nil {
		return
	}
	ticker := time.NewTicker(poolStatsInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.redis.RecordPoolStats()
		}
	}
}

// close flushes queued audit events into the outbox before the relay drains it.
func (a *app) close() {
	if a.publisher != nil {
		a.publisher.Close()
	}
	if a.relay != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		if err := a.relay.Stop(ctx); err != nil {
			a.logger.Warn("stop audit relay", "error", err)
		}
		cancel()
	}
	if a.kafka != nil {
		if err := a.kafka.Close(); err != nil {
			a.logger.Warn("close kafka producer", "error", err)
		}
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("close redis", "error", err)
		}
	}
	if err := a.db.Close(); err != nil {
		a.logger.Warn("close database", "error", err)
	}
}

func environment(cfg config.Config) string {
	if cfg.Server.DevelopmentMode {
		return "development"
	}
	return "production"
}
