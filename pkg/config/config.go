package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"

	EnvDBDSN  = "PEDEFACIL_DB_DSN"
	EnvDBHost = "PEDEFACIL_DB_HOST"
	EnvDBUser = "PEDEFACIL_DB_USER"
	EnvDBName = "PEDEFACIL_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Store        StoreConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.FeatureFlags.UseSQLite {
		cfg.DB.Driver = DBDriverSQLite
	}
	// sqlite takes its DSN verbatim; only postgres assembles one from the
	// legacy host/user/name variables.
	if cfg.DB.Driver != DBDriverSQLite {
		if err := cfg.DB.ensureDSN(); err != nil {
			return nil, err
		}
	}
	if _, err := decimal.NewFromString(cfg.Store.MinimumOrder); err != nil {
		return nil, fmt.Errorf("invalid minimum order %q: %w", cfg.Store.MinimumOrder, err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"PEDEFACIL_APP_ENV" required:"true"`
	Port         string `envconfig:"PEDEFACIL_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"PEDEFACIL_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"PEDEFACIL_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"PEDEFACIL_DB_DSN"`
	Driver string `envconfig:"PEDEFACIL_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"PEDEFACIL_DB_HOST"`
	LegacyPort     int    `envconfig:"PEDEFACIL_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"PEDEFACIL_DB_USER"`
	LegacyPassword string `envconfig:"PEDEFACIL_DB_PASSWORD"`
	LegacyName     string `envconfig:"PEDEFACIL_DB_NAME"`
	LegacySSLMode  string `envconfig:"PEDEFACIL_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"PEDEFACIL_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"PEDEFACIL_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"PEDEFACIL_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"PEDEFACIL_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"PEDEFACIL_REDIS_URL"`
	Address      string        `envconfig:"PEDEFACIL_REDIS_ADDR"`
	Password     string        `envconfig:"PEDEFACIL_REDIS_PASSWORD"`
	DB           int           `envconfig:"PEDEFACIL_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"PEDEFACIL_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"PEDEFACIL_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"PEDEFACIL_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"PEDEFACIL_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"PEDEFACIL_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// StoreConfig carries the storefront's business knobs.
type StoreConfig struct {
	WhatsAppNumber string `envconfig:"PEDEFACIL_STORE_WHATSAPP_NUMBER" default:"5584988760462"`
	MinimumOrder   string `envconfig:"PEDEFACIL_STORE_MINIMUM_ORDER" default:"25"`
	PointsPerItem  int    `envconfig:"PEDEFACIL_STORE_POINTS_PER_ITEM" default:"1"`
}

// MinimumOrderAmount returns the checkout gate threshold as a decimal.
func (s StoreConfig) MinimumOrderAmount() decimal.Decimal {
	amount, err := decimal.NewFromString(s.MinimumOrder)
	if err != nil {
		return decimal.NewFromInt(25)
	}
	return amount
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"PEDEFACIL_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"PEDEFACIL_AUTO_MIGRATE" default:"false"`
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
