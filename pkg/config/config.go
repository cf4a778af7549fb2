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
	JWT          JWTConfig
	Password     PasswordConfig
	RateLimit    RateLimitConfig
	Idempotency  IdempotencyConfig
	FeatureFlags FeatureFlagsConfig
	Shipping     ShippingConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	Outbox       OutboxConfig
	Worker       WorkerConfig
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
	Env          string `envconfig:"MODIQUE_APP_ENV" required:"true"`
	Port         string `envconfig:"MODIQUE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"MODIQUE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"MODIQUE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"MODIQUE_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"MODIQUE_DB_DSN"`
	Driver string `envconfig:"MODIQUE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"MODIQUE_DB_HOST"`
	LegacyPort     int    `envconfig:"MODIQUE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"MODIQUE_DB_USER"`
	LegacyPassword string `envconfig:"MODIQUE_DB_PASSWORD"`
	LegacyName     string `envconfig:"MODIQUE_DB_NAME"`
	LegacySSLMode  string `envconfig:"MODIQUE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"MODIQUE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"MODIQUE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"MODIQUE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"MODIQUE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"MODIQUE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"MODIQUE_REDIS_ADDR"`
	Password     string        `envconfig:"MODIQUE_REDIS_PASSWORD"`
	DB           int           `envconfig:"MODIQUE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"MODIQUE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"MODIQUE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"MODIQUE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"MODIQUE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"MODIQUE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"MODIQUE_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"MODIQUE_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"MODIQUE_JWT_EXPIRATION_MINUTES" required:"true"`
	SessionTTLMinutes int    `envconfig:"MODIQUE_SESSION_TTL_MINUTES" default:"43200"`
}

// SessionTTL returns the server-side session lifetime.
func (j JWTConfig) SessionTTL() time.Duration {
	if j.SessionTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.SessionTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"MODIQUE_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"MODIQUE_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"MODIQUE_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"MODIQUE_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"MODIQUE_ARGON_KEY_LEN" default:"32"`
}

type RateLimitConfig struct {
	Window    time.Duration `envconfig:"MODIQUE_RATE_LIMIT_WINDOW" default:"1m"`
	UserLimit int           `envconfig:"MODIQUE_RATE_LIMIT_USER_LIMIT" default:"120"`
	IPLimit   int           `envconfig:"MODIQUE_RATE_LIMIT_IP_LIMIT" default:"300"`
}

type IdempotencyConfig struct {
	TTL time.Duration `envconfig:"MODIQUE_IDEMPOTENCY_TTL" default:"24h"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"MODIQUE_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"MODIQUE_AUTO_MIGRATE" default:"false"`
}

// ShippingConfig caps what clients may submit as a shipping fee.
type ShippingConfig struct {
	MaxFeeCents int64 `envconfig:"MODIQUE_SHIPPING_MAX_FEE_CENTS" default:"50000"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"MODIQUE_GCP_PROJECT_ID" required:"true"`
	CredentialsJSON        string `envconfig:"MODIQUE_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"MODIQUE_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	OrdersTopic        string `envconfig:"MODIQUE_PUBSUB_ORDERS_TOPIC" required:"true"`
	OrdersSubscription string `envconfig:"MODIQUE_PUBSUB_ORDERS_SUBSCRIPTION" required:"true"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"MODIQUE_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"MODIQUE_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"MODIQUE_OUTBOX_MAX_ATTEMPTS" default:"10"`
	MetricsPort    int `envconfig:"MODIQUE_OUTBOX_METRICS_PORT" default:"9091"`
}

type WorkerConfig struct {
	MetricsPort int `envconfig:"MODIQUE_WORKER_METRICS_PORT" default:"9092"`
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
