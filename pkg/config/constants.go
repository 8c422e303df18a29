package config

// EnvPrefix is passed to envconfig; variable names are spelled out in full
// on each field, so the prefix stays empty.
const EnvPrefix = ""

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

// Environment variable names referenced outside struct tags (tests, docs).
const (
	EnvAppEnv          = "BANNUGUL_APP_ENV"
	EnvPort            = "BANNUGUL_APP_PORT"
	EnvUpstreamBaseURL = "BANNUGUL_UPSTREAM_BASE_URL"
	EnvMediaBaseURL    = "BANNUGUL_MEDIA_BASE_URL"
	EnvRedisURL        = "BANNUGUL_REDIS_URL"
	EnvSessionDBPath   = "BANNUGUL_SESSION_DB_PATH"
	EnvJWTSecret       = "BANNUGUL_JWT_SECRET"
	EnvJWTIssuer       = "BANNUGUL_JWT_ISSUER"
	EnvJWTExpMins      = "BANNUGUL_JWT_EXPIRATION_MINUTES"
)
