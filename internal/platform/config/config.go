package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string
	DevelopmentMode bool
	LogLevel        string
	JWTSigningKey   string
	JWTIssuer       string
	AdminToken      string
	TrustedProxies  []string
	MaxBodyBytes    int64
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

// RedisConfig configures the shared catalog cache connection. An empty URL disables Redis.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DatabaseConfig configures accreditation persistence. An empty URL selects the in-memory store.
type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// TokenConfig configures the client-credentials token issuer used toward evidence sources.
type TokenConfig struct {
	TokenURL     string
	ClientID     string
	ClientSecret string
	Scopes       []string
}

// UpstreamConfig holds base URLs of the collaborating registries.
type UpstreamConfig struct {
	EntityRegistryURL string
	DelegationURL     string
	ConsentURL        string
	RequestTimeout    time.Duration
}

// CatalogConfig tunes the evidence catalog.
type CatalogConfig struct {
	File      string
	LocalTTL  time.Duration
	SharedTTL time.Duration
}

// HarvestConfig tunes harvesting.
type HarvestConfig struct {
	DefaultTimeout time.Duration
}

// RateLimitConfig sets sliding-window budgets. Zero counts keep the built-in defaults.
type RateLimitConfig struct {
	Enabled   bool
	Window    time.Duration
	Public    int
	Authorize int
	Harvest   int
	Read      int
}

// AuditConfig configures the accreditation audit trail. Without Kafka brokers
// outbox entries are relayed to the log instead.
type AuditConfig struct {
	KafkaBrokers string
	Topic        string
	Acks         string
	PollInterval time.Duration
	BatchSize    int
	Retention    time.Duration
}

// Config is the full process configuration.
type Config struct {
	Server    Server
	Redis     RedisConfig
	Database  DatabaseConfig
	Token     TokenConfig
	Upstream  UpstreamConfig
	Catalog   CatalogConfig
	Harvest   HarvestConfig
	RateLimit RateLimitConfig
	Audit     AuditConfig
}

const (
	DefaultLocalCatalogTTL  = 120 * time.Second
	DefaultSharedCatalogTTL = 12 * time.Hour
	DefaultHarvestTimeout   = 35 * time.Second
)

// FromEnv builds the configuration from environment variables so main stays lean.
func FromEnv() (Config, error) {
	var errs []string
	dur := func(key string, def time.Duration) time.Duration {
		v := os.Getenv(key)
		if v == "" {
			return def
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", key, err))
			return def
		}
		return d
	}
	num := func(key string, def int) int {
		v := os.Getenv(key)
		if v == "" {
			return def
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", key, err))
			return def
		}
		return n
	}

	cfg := Config{
		Server: Server{
			Addr:            envOr("BROKER_ADDR", ":8080"),
			DevelopmentMode: os.Getenv("DEVELOPMENT_MODE") == "true",
			LogLevel:        envOr("LOG_LEVEL", "info"),
			JWTSigningKey:   os.Getenv("JWT_SIGNING_KEY"),
			JWTIssuer:       envOr("JWT_ISSUER", "broker"),
			AdminToken:      os.Getenv("ADMIN_API_TOKEN"),
			TrustedProxies:  splitList(os.Getenv("TRUSTED_PROXIES")),
			MaxBodyBytes:    int64(num("MAX_BODY_BYTES", 1<<20)),
			RequestTimeout:  dur("REQUEST_TIMEOUT", 60*time.Second),
			ShutdownTimeout: dur("SHUTDOWN_TIMEOUT", 15*time.Second),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     num("REDIS_POOL_SIZE", 10),
			MinIdleConns: num("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  dur("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  dur("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: dur("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Database: DatabaseConfig{
			URL:             os.Getenv("DATABASE_URL"),
			MaxOpenConns:    num("DATABASE_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    num("DATABASE_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: dur("DATABASE_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Token: TokenConfig{
			TokenURL:     os.Getenv("TOKEN_URL"),
			ClientID:     os.Getenv("TOKEN_CLIENT_ID"),
			ClientSecret: os.Getenv("TOKEN_CLIENT_SECRET"),
			Scopes:       splitList(os.Getenv("TOKEN_SCOPES")),
		},
		Upstream: UpstreamConfig{
			EntityRegistryURL: os.Getenv("ENTITY_REGISTRY_URL"),
			DelegationURL:     os.Getenv("DELEGATION_URL"),
			ConsentURL:        os.Getenv("CONSENT_URL"),
			RequestTimeout:    dur("UPSTREAM_TIMEOUT", 10*time.Second),
		},
		Catalog: CatalogConfig{
			File:      envOr("CATALOG_CONFIG", "catalog.yaml"),
			LocalTTL:  dur("CATALOG_LOCAL_TTL", DefaultLocalCatalogTTL),
			SharedTTL: dur("CATALOG_SHARED_TTL", DefaultSharedCatalogTTL),
		},
		Harvest: HarvestConfig{
			DefaultTimeout: dur("HARVEST_TIMEOUT", DefaultHarvestTimeout),
		},
		RateLimit: RateLimitConfig{
			Enabled:   os.Getenv("RATE_LIMIT_DISABLED") != "true",
			Window:    dur("RATE_LIMIT_WINDOW", time.Minute),
			Public:    num("RATE_LIMIT_PUBLIC", 0),
			Authorize: num("RATE_LIMIT_AUTHORIZE", 0),
			Harvest:   num("RATE_LIMIT_HARVEST", 0),
			Read:      num("RATE_LIMIT_READ", 0),
		},
		Audit: AuditConfig{
			KafkaBrokers: os.Getenv("KAFKA_BROKERS"),
			Topic:        envOr("AUDIT_TOPIC", "broker.accreditation.events"),
			Acks:         envOr("KAFKA_ACKS", "all"),
			PollInterval: dur("AUDIT_POLL_INTERVAL", time.Second),
			BatchSize:    num("AUDIT_BATCH_SIZE", 100),
			Retention:    dur("AUDIT_RETENTION", 7*24*time.Hour),
		},
	}

	if cfg.Server.JWTSigningKey == "" {
		if !cfg.Server.DevelopmentMode {
			errs = append(errs, "JWT_SIGNING_KEY is required outside development mode")
		}
		cfg.Server.JWTSigningKey = "dev-secret-key-change-in-production"
	}
	if len(errs) > 0 {
		return cfg, fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
	}
	return cfg, nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func splitList(v string) []string {
	if v == "" {
		return nil
	}
	var out []string
	for _, p := range strings.FieldsFunc(v, func(r rune) bool { return r == ',' || r == ' ' }) {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
