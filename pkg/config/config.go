package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "fooddash"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvDBDSN  = "FOODDASH_DB_DSN"
	EnvDBHost = "FOODDASH_DB_HOST"
	EnvDBUser = "FOODDASH_DB_USER"
	EnvDBName = "FOODDASH_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App      AppConfig
	DB       DBConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Dispatch DispatchConfig
	Migrate  MigrateConfig
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
	Env          string `envconfig:"FOODDASH_APP_ENV" required:"true"`
	Port         string `envconfig:"FOODDASH_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"FOODDASH_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"FOODDASH_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"FOODDASH_DB_DSN"`
	Driver string `envconfig:"FOODDASH_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"FOODDASH_DB_HOST"`
	LegacyPort     int    `envconfig:"FOODDASH_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"FOODDASH_DB_USER"`
	LegacyPassword string `envconfig:"FOODDASH_DB_PASSWORD"`
	LegacyName     string `envconfig:"FOODDASH_DB_NAME"`
	LegacySSLMode  string `envconfig:"FOODDASH_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"FOODDASH_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"FOODDASH_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"FOODDASH_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"FOODDASH_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"FOODDASH_REDIS_URL"`
	Address      string        `envconfig:"FOODDASH_REDIS_ADDR"`
	Password     string        `envconfig:"FOODDASH_REDIS_PASSWORD"`
	DB           int           `envconfig:"FOODDASH_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"FOODDASH_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"FOODDASH_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"FOODDASH_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"FOODDASH_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"FOODDASH_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"FOODDASH_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"FOODDASH_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"FOODDASH_JWT_EXPIRATION_MINUTES" default:"720"`
}

// DispatchConfig tunes the order grab path.
type DispatchConfig struct {
	LockLease            time.Duration `envconfig:"FOODDASH_DISPATCH_LOCK_LEASE" default:"30s"`
	AutoDispatchAttempts int           `envconfig:"FOODDASH_DISPATCH_AUTO_ATTEMPTS" default:"3"`
	DefaultDeadline      time.Duration `envconfig:"FOODDASH_ORDER_DEFAULT_DEADLINE" default:"30m"`
}

type MigrateConfig struct {
	AutoMigrate bool   `envconfig:"FOODDASH_AUTO_MIGRATE" default:"false"`
	Dir         string `envconfig:"FOODDASH_MIGRATIONS_DIR" default:"migrations"`
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
