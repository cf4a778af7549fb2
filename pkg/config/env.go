package config

// EnvPrefix is passed to envconfig; individual fields carry fully
// qualified names so the prefix stays empty.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

// Environment variable names used by tests and operational tooling.
const (
	EnvAppEnv   = "MODIQUE_APP_ENV"
	EnvPort     = "MODIQUE_APP_PORT"
	EnvLogLevel = "MODIQUE_LOG_LEVEL"

	EnvDBDSN      = "MODIQUE_DB_DSN"
	EnvDBHost     = "MODIQUE_DB_HOST"
	EnvDBPort     = "MODIQUE_DB_PORT"
	EnvDBUser     = "MODIQUE_DB_USER"
	EnvDBPassword = "MODIQUE_DB_PASSWORD"
	EnvDBName     = "MODIQUE_DB_NAME"
	EnvDBSSLMode  = "MODIQUE_DB_SSLMODE"

	EnvRedisURL = "MODIQUE_REDIS_URL"

	EnvJWTSecret  = "MODIQUE_JWT_SECRET"
	EnvJWTIssuer  = "MODIQUE_JWT_ISSUER"
	EnvJWTExpMins = "MODIQUE_JWT_EXPIRATION_MINUTES"

	EnvGCPProjectID = "MODIQUE_GCP_PROJECT_ID"

	EnvPubSubOrdersTopic = "MODIQUE_PUBSUB_ORDERS_TOPIC"
	EnvPubSubOrdersSub   = "MODIQUE_PUBSUB_ORDERS_SUBSCRIPTION"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
