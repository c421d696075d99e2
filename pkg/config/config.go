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
	FeatureFlags FeatureFlagsConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	Efficiency   EfficiencyConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if _, err := cfg.Efficiency.Location(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"SPENDWISE_APP_ENV" required:"true"`
	Port         string `envconfig:"SPENDWISE_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"SPENDWISE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SPENDWISE_LOG_WARN_STACK" default:"false"`
	// CORSOrigins falls back to the local dashboard when empty.
	CORSOrigins []string `envconfig:"SPENDWISE_CORS_ORIGINS"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"SPENDWISE_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"SPENDWISE_DB_DSN"`
	Driver string `envconfig:"SPENDWISE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"SPENDWISE_DB_HOST"`
	LegacyPort     int    `envconfig:"SPENDWISE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SPENDWISE_DB_USER"`
	LegacyPassword string `envconfig:"SPENDWISE_DB_PASSWORD"`
	LegacyName     string `envconfig:"SPENDWISE_DB_NAME"`
	LegacySSLMode  string `envconfig:"SPENDWISE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SPENDWISE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SPENDWISE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SPENDWISE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SPENDWISE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// IsSQLite reports whether the configured driver is the embedded sqlite driver.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(strings.TrimSpace(db.Driver), DBDriverSQLite)
}

type RedisConfig struct {
	URL          string        `envconfig:"SPENDWISE_REDIS_URL"`
	Address      string        `envconfig:"SPENDWISE_REDIS_ADDR"`
	Password     string        `envconfig:"SPENDWISE_REDIS_PASSWORD"`
	DB           int           `envconfig:"SPENDWISE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SPENDWISE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SPENDWISE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SPENDWISE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SPENDWISE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SPENDWISE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a redis endpoint was configured.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

type JWTConfig struct {
	Secret            string `envconfig:"SPENDWISE_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"SPENDWISE_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"SPENDWISE_JWT_EXPIRATION_MINUTES" default:"60"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"SPENDWISE_AUTO_MIGRATE" default:"false"`
	ResultCache bool `envconfig:"SPENDWISE_RESULT_CACHE" default:"true"`
}

type GCPConfig struct {
	ProjectID string `envconfig:"SPENDWISE_GCP_PROJECT_ID"`
}

type PubSubConfig struct {
	DataChangedSubscription string `envconfig:"SPENDWISE_PUBSUB_DATA_CHANGED_SUBSCRIPTION"`
	MaxOutstandingMessages  int    `envconfig:"SPENDWISE_PUBSUB_MAX_OUTSTANDING" default:"100"`
	NumGoroutines           int    `envconfig:"SPENDWISE_PUBSUB_NUM_GOROUTINES" default:"1"`
}

type EfficiencyConfig struct {
	PageSize     int           `envconfig:"SPENDWISE_EFFICIENCY_PAGE_SIZE" default:"1000"`
	CacheTTL     time.Duration `envconfig:"SPENDWISE_EFFICIENCY_CACHE_TTL" default:"15m"`
	Timezone     string        `envconfig:"SPENDWISE_EFFICIENCY_TIMEZONE" default:"UTC"`
	RankingLimit int           `envconfig:"SPENDWISE_EFFICIENCY_RANKING_LIMIT" default:"10"`
	// NormalizeDescriptions folds whitespace and case of description-keyed products.
	NormalizeDescriptions bool `envconfig:"SPENDWISE_EFFICIENCY_NORMALIZE_DESCRIPTIONS" default:"false"`

	ExportRateLimit      int           `envconfig:"SPENDWISE_EFFICIENCY_EXPORT_RATE_LIMIT" default:"10"`
	ExportRateWindow     time.Duration `envconfig:"SPENDWISE_EFFICIENCY_EXPORT_RATE_WINDOW" default:"1m"`
	InvalidateRateLimit  int           `envconfig:"SPENDWISE_EFFICIENCY_INVALIDATE_RATE_LIMIT" default:"5"`
	InvalidateRateWindow time.Duration `envconfig:"SPENDWISE_EFFICIENCY_INVALIDATE_RATE_WINDOW" default:"1m"`
}

// Location resolves the calendar used to derive monthly periods.
func (e EfficiencyConfig) Location() (*time.Location, error) {
	name := strings.TrimSpace(e.Timezone)
	if name == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q: %w", EnvEfficiencyTimezone, name, err)
	}
	return loc, nil
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
