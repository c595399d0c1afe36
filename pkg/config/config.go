package config

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Envelope     EnvelopeConfig
	Razorpay     RazorpayConfig
	Shiprocket   ShiprocketConfig
	Orders       OrdersConfig
	Cache        CacheConfig
	Visitor      VisitorConfig
	Cron         CronConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if _, err := cfg.Envelope.KeyBytes(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"STOREFRONT_APP_ENV" required:"true"`
	Port         string `envconfig:"STOREFRONT_APP_PORT" default:"4000"`
	LogLevel     string `envconfig:"STOREFRONT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"STOREFRONT_LOG_WARN_STACK" default:"false"`
	LogFormat    string `envconfig:"STOREFRONT_LOG_FORMAT" default:"json"`
	FrontendURL  string `envconfig:"STOREFRONT_FRONTEND_URL"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"STOREFRONT_DB_DSN"`

	LegacyHost     string `envconfig:"STOREFRONT_DB_HOST"`
	LegacyPort     int    `envconfig:"STOREFRONT_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"STOREFRONT_DB_USER"`
	LegacyPassword string `envconfig:"STOREFRONT_DB_PASSWORD"`
	LegacyName     string `envconfig:"STOREFRONT_DB_NAME"`
	LegacySSLMode  string `envconfig:"STOREFRONT_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"STOREFRONT_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"STOREFRONT_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"STOREFRONT_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"STOREFRONT_DB_CONN_MAX_IDLE_TIME" default:"10m"`

	// SlowQueryThreshold logs statements slower than this at warn level. Zero disables it.
	SlowQueryThreshold time.Duration `envconfig:"STOREFRONT_DB_SLOW_QUERY_THRESHOLD" default:"500ms"`
}

type RedisConfig struct {
	URL          string        `envconfig:"STOREFRONT_REDIS_URL"`
	Address      string        `envconfig:"STOREFRONT_REDIS_ADDR"`
	Password     string        `envconfig:"STOREFRONT_REDIS_PASSWORD"`
	DB           int           `envconfig:"STOREFRONT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"STOREFRONT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"STOREFRONT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"STOREFRONT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// JWTConfig verifies access tokens minted by the account service.
type JWTConfig struct {
	Secret            string `envconfig:"STOREFRONT_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"STOREFRONT_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"STOREFRONT_JWT_EXPIRATION_MINUTES" default:"60"`
	// Audience is checked only when set.
	Audience string        `envconfig:"STOREFRONT_JWT_AUDIENCE"`
	Leeway   time.Duration `envconfig:"STOREFRONT_JWT_LEEWAY" default:"30s"`
}

// EnvelopeConfig holds the symmetric key used for encryptedData payloads.
type EnvelopeConfig struct {
	Key string `envconfig:"STOREFRONT_ENVELOPE_KEY" required:"true"`
}

// KeyBytes decodes the base64 envelope key and checks its length.
func (e EnvelopeConfig) KeyBytes() ([]byte, error) {
	raw := strings.TrimSpace(e.Key)
	key, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", EnvEnvelopeKey, err)
	}
	if len(key) != EnvelopeKeySize {
		return nil, fmt.Errorf("%s must decode to %d bytes, got %d", EnvEnvelopeKey, EnvelopeKeySize, len(key))
	}
	return key, nil
}

type RazorpayConfig struct {
	KeyID     string `envconfig:"STOREFRONT_RAZORPAY_KEY_ID" required:"true"`
	SecretKey string `envconfig:"STOREFRONT_RAZORPAY_SECRET_KEY" required:"true"`
	Currency  string `envconfig:"STOREFRONT_RAZORPAY_CURRENCY" default:"INR"`
}

type ShiprocketConfig struct {
	BaseURL        string        `envconfig:"STOREFRONT_SHIPROCKET_BASE_URL" default:"https://apiv2.shiprocket.in/v1/external"`
	Email          string        `envconfig:"STOREFRONT_SHIPROCKET_EMAIL" required:"true"`
	Password       string        `envconfig:"STOREFRONT_SHIPROCKET_PASSWORD" required:"true"`
	WebhookToken   string        `envconfig:"STOREFRONT_SHIPROCKET_WEBHOOK_TOKEN" required:"true"`
	PickupLocation string        `envconfig:"STOREFRONT_SHIPROCKET_PICKUP_LOCATION" default:"Home"`
	Timeout        time.Duration `envconfig:"STOREFRONT_SHIPROCKET_TIMEOUT" default:"30s"`
}

type OrdersConfig struct {
	ShippingCharge    string        `envconfig:"STOREFRONT_ORDERS_SHIPPING_CHARGE" default:"50"`
	PendingPaymentTTL time.Duration `envconfig:"STOREFRONT_ORDERS_PENDING_PAYMENT_TTL" default:"72h"`
}

// ShippingChargeAmount parses the flat shipping charge.
func (o OrdersConfig) ShippingChargeAmount() decimal.Decimal {
	amount, err := decimal.NewFromString(strings.TrimSpace(o.ShippingCharge))
	if err != nil || amount.IsNegative() {
		return decimal.NewFromInt(DefaultShippingCharge)
	}
	return amount
}

type CacheConfig struct {
	BestSellersTTL time.Duration `envconfig:"STOREFRONT_CACHE_BEST_SELLERS_TTL" default:"1h"`
}

type VisitorConfig struct {
	CookieTTL time.Duration `envconfig:"STOREFRONT_VISITOR_COOKIE_TTL" default:"24h"`
}

// CronConfig drives the maintenance worker cadence.
type CronConfig struct {
	Interval time.Duration `envconfig:"STOREFRONT_CRON_INTERVAL" default:"1h"`
	LockTTL  time.Duration `envconfig:"STOREFRONT_CRON_LOCK_TTL" default:"55m"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"STOREFRONT_AUTO_MIGRATE" default:"false"`
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
