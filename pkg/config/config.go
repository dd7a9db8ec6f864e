package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Password     PasswordConfig
	Checkout     CheckoutConfig
	Payment      PaymentConfig
	FeatureFlags FeatureFlagsConfig
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
	Env          string `envconfig:"JUICEJOY_APP_ENV" required:"true"`
	Port         string `envconfig:"JUICEJOY_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"JUICEJOY_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"JUICEJOY_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"JUICEJOY_DB_DSN"`

	Host     string `envconfig:"JUICEJOY_DB_HOST"`
	Port     int    `envconfig:"JUICEJOY_DB_PORT" default:"5432"`
	User     string `envconfig:"JUICEJOY_DB_USER"`
	Password string `envconfig:"JUICEJOY_DB_PASSWORD"`
	Name     string `envconfig:"JUICEJOY_DB_NAME"`
	SSLMode  string `envconfig:"JUICEJOY_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"JUICEJOY_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"JUICEJOY_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"JUICEJOY_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"JUICEJOY_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (d *DBConfig) ensureDSN() error {
	if d.DSN != "" {
		return nil
	}
	if d.Host == "" || d.User == "" || d.Name == "" {
		return fmt.Errorf("either JUICEJOY_DB_DSN or host/user/name settings are required")
	}
	userInfo := url.User(d.User)
	if d.Password != "" {
		userInfo = url.UserPassword(d.User, d.Password)
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     userInfo,
		Host:     fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:     d.Name,
		RawQuery: "sslmode=" + d.SSLMode,
	}
	d.DSN = u.String()
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"JUICEJOY_REDIS_URL" required:"true"`
	PoolSize     int           `envconfig:"JUICEJOY_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"JUICEJOY_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"JUICEJOY_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"JUICEJOY_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"JUICEJOY_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"JUICEJOY_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"JUICEJOY_JWT_ISSUER" default:"juicejoy"`
	ExpirationMinutes int    `envconfig:"JUICEJOY_JWT_EXPIRATION_MINUTES" default:"1440"`
}

// AccessTokenTTL returns the configured access token lifetime.
func (j JWTConfig) AccessTokenTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"JUICEJOY_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"JUICEJOY_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"JUICEJOY_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"JUICEJOY_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"JUICEJOY_ARGON_KEY_LEN" default:"32"`
}

// CheckoutConfig carries the display-time fee policy. Tax and delivery fees
// are quoted to the client and never folded into the stored order total.
type CheckoutConfig struct {
	TaxRateBasisPoints int `envconfig:"JUICEJOY_CHECKOUT_TAX_RATE_BP" default:"800"`
	DeliveryFeeCents   int `envconfig:"JUICEJOY_CHECKOUT_DELIVERY_FEE_CENTS" default:"399"`
}

// PaymentConfig carries the shared secret the payment processor signs its
// callbacks with. An empty secret disables the webhook endpoint.
type PaymentConfig struct {
	WebhookSecret   string        `envconfig:"JUICEJOY_PAYMENT_WEBHOOK_SECRET"`
	WebhookEventTTL time.Duration `envconfig:"JUICEJOY_PAYMENT_WEBHOOK_EVENT_TTL" default:"24h"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"JUICEJOY_AUTO_MIGRATE" default:"false"`
}

type WorkerConfig struct {
	MetricsPort      string        `envconfig:"JUICEJOY_WORKER_METRICS_PORT" default:"9090"`
	DeliveryInterval time.Duration `envconfig:"JUICEJOY_WORKER_DELIVERY_INTERVAL" default:"1h"`
	DeliveryBatch    int           `envconfig:"JUICEJOY_WORKER_DELIVERY_BATCH" default:"100"`
}
