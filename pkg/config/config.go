package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App      AppConfig
	Upstream UpstreamConfig
	Media    MediaConfig
	Session  SessionConfig
	JWT      JWTConfig
	Redis    RedisConfig
	Cache    CacheConfig
	Checkout CheckoutConfig
	CORS     CORSConfig

	AuthRateLimit AuthRateLimitConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Upstream.validate(); err != nil {
		return nil, err
	}
	cfg.Media.ensureBaseURL(cfg.Upstream.BaseURL)
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"BANNUGUL_APP_ENV" required:"true"`
	Port         string `envconfig:"BANNUGUL_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"BANNUGUL_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"BANNUGUL_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// UpstreamConfig points the gateway at the hosted ordering backend.
type UpstreamConfig struct {
	BaseURL        string        `envconfig:"BANNUGUL_UPSTREAM_BASE_URL" required:"true"`
	RequestTimeout time.Duration `envconfig:"BANNUGUL_UPSTREAM_REQUEST_TIMEOUT" default:"15s"`
	UserAgent      string        `envconfig:"BANNUGUL_UPSTREAM_USER_AGENT" default:"bannugul-consumer-gateway"`
}

func (u UpstreamConfig) validate() error {
	parsed, err := url.Parse(u.BaseURL)
	if err != nil {
		return fmt.Errorf("parsing upstream base url: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("upstream base url %q must be absolute", u.BaseURL)
	}
	return nil
}

// MediaConfig resolves image filenames returned by the backend.
type MediaConfig struct {
	BaseURL string `envconfig:"BANNUGUL_MEDIA_BASE_URL"`
}

func (m *MediaConfig) ensureBaseURL(upstreamBase string) {
	if m.BaseURL != "" {
		return
	}
	m.BaseURL = strings.TrimRight(upstreamBase, "/") + "/media/images"
}

// SessionConfig controls the embedded session store.
type SessionConfig struct {
	DBPath string        `envconfig:"BANNUGUL_SESSION_DB_PATH" default:"sessions.db"`
	TTL    time.Duration `envconfig:"BANNUGUL_SESSION_TTL" default:"720h"`
}

type JWTConfig struct {
	Secret            string `envconfig:"BANNUGUL_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"BANNUGUL_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"BANNUGUL_JWT_EXPIRATION_MINUTES" required:"true"`
}

type RedisConfig struct {
	URL          string        `envconfig:"BANNUGUL_REDIS_URL" required:"true"`
	Address      string        `envconfig:"BANNUGUL_REDIS_ADDR"`
	Password     string        `envconfig:"BANNUGUL_REDIS_PASSWORD"`
	DB           int           `envconfig:"BANNUGUL_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"BANNUGUL_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"BANNUGUL_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"BANNUGUL_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"BANNUGUL_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"BANNUGUL_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type CacheConfig struct {
	SettingsTTL    time.Duration `envconfig:"BANNUGUL_CACHE_SETTINGS_TTL" default:"15m"`
	IdempotencyTTL time.Duration `envconfig:"BANNUGUL_IDEMPOTENCY_TTL" default:"24h"`
}

// CheckoutConfig carries the flat voucher credit the storefront applies when
// any voucher code is present. The upstream has no voucher endpoint.
type CheckoutConfig struct {
	VoucherCredit string `envconfig:"BANNUGUL_CHECKOUT_VOUCHER_CREDIT" default:"50"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"BANNUGUL_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"BANNUGUL_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"BANNUGUL_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"BANNUGUL_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"BANNUGUL_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"BANNUGUL_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"BANNUGUL_CORS_ALLOWED_ORIGINS" default:"http://localhost:5173,http://localhost:3000"`
}
