package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	Billing      BillingConfig
	FeatureFlags FeatureFlagsConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	Outbox       OutboxConfig
	Cron         CronConfig
	RateLimit    RateLimitConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"VOXTEL_APP_ENV" required:"true"`
	Port         string `envconfig:"VOXTEL_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"VOXTEL_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"VOXTEL_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"VOXTEL_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"VOXTEL_DB_DSN"`
	Driver string `envconfig:"VOXTEL_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"VOXTEL_DB_HOST"`
	LegacyPort     int    `envconfig:"VOXTEL_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"VOXTEL_DB_USER"`
	LegacyPassword string `envconfig:"VOXTEL_DB_PASSWORD"`
	LegacyName     string `envconfig:"VOXTEL_DB_NAME"`
	LegacySSLMode  string `envconfig:"VOXTEL_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"VOXTEL_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"VOXTEL_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"VOXTEL_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"VOXTEL_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"VOXTEL_REDIS_URL" required:"true"`
	Address      string        `envconfig:"VOXTEL_REDIS_ADDR"`
	Password     string        `envconfig:"VOXTEL_REDIS_PASSWORD"`
	DB           int           `envconfig:"VOXTEL_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"VOXTEL_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"VOXTEL_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"VOXTEL_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"VOXTEL_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"VOXTEL_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// BillingConfig carries rating-engine defaults.
type BillingConfig struct {
	CurrencyCode         string        `envconfig:"VOXTEL_BILLING_CURRENCY" default:"USD"`
	IdempotencyTTL       time.Duration `envconfig:"VOXTEL_BILLING_IDEMPOTENCY_TTL" default:"168h"`
	CycleCloseBatchLimit int           `envconfig:"VOXTEL_BILLING_CYCLE_CLOSE_BATCH" default:"250"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"VOXTEL_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"VOXTEL_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"VOXTEL_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"VOXTEL_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	BillingTopic        string `envconfig:"VOXTEL_PUBSUB_BILLING_TOPIC" default:"vx-billing-events"`
	BillingSubscription string `envconfig:"VOXTEL_PUBSUB_BILLING_SUBSCRIPTION"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"VOXTEL_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"VOXTEL_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"VOXTEL_OUTBOX_MAX_ATTEMPTS" default:"10"`
}

type CronConfig struct {
	Interval time.Duration `envconfig:"VOXTEL_CRON_INTERVAL" default:"24h"`
	// LockKey is the lock name; the redis client namespaces it.
	LockKey string        `envconfig:"VOXTEL_CRON_LOCK_KEY" default:"cron:billing"`
	LockTTL time.Duration `envconfig:"VOXTEL_CRON_LOCK_TTL" default:"25h"`
}

// RateLimitConfig throttles the public API per client IP.
type RateLimitConfig struct {
	Window       time.Duration `envconfig:"VOXTEL_RATE_LIMIT_WINDOW" default:"1m"`
	RequestLimit int           `envconfig:"VOXTEL_RATE_LIMIT_REQUESTS" default:"120"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
