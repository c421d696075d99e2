package config

// EnvPrefix is handed to envconfig; every field carries an explicit name so it is informational.
const EnvPrefix = "SPENDWISE"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"
)

const (
	EnvAppEnv = "SPENDWISE_APP_ENV"
	EnvPort   = "SPENDWISE_APP_PORT"

	EnvCORSOrigins = "SPENDWISE_CORS_ORIGINS"

	EnvDBDSN    = "SPENDWISE_DB_DSN"
	EnvDBDriver = "SPENDWISE_DB_DRIVER"
	EnvDBHost   = "SPENDWISE_DB_HOST"
	EnvDBUser   = "SPENDWISE_DB_USER"
	EnvDBName   = "SPENDWISE_DB_NAME"

	EnvRedisURL = "SPENDWISE_REDIS_URL"

	EnvJWTSecret = "SPENDWISE_JWT_SECRET"
	EnvJWTIssuer = "SPENDWISE_JWT_ISSUER"

	EnvGCPProjectID            = "SPENDWISE_GCP_PROJECT_ID"
	EnvPubSubDataChangedSub    = "SPENDWISE_PUBSUB_DATA_CHANGED_SUBSCRIPTION"
	EnvEfficiencyPageSize      = "SPENDWISE_EFFICIENCY_PAGE_SIZE"
	EnvEfficiencyTimezone      = "SPENDWISE_EFFICIENCY_TIMEZONE"
	EnvEfficiencyRankingLimit  = "SPENDWISE_EFFICIENCY_RANKING_LIMIT"
	EnvEfficiencyCacheTTL      = "SPENDWISE_EFFICIENCY_CACHE_TTL"
	EnvEfficiencyNormalizeDesc = "SPENDWISE_EFFICIENCY_NORMALIZE_DESCRIPTIONS"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
