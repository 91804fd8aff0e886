package config

// EnvPrefix namespaces every environment variable the app reads.
const EnvPrefix = "SUBTRACKR"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv                 = "SUBTRACKR_APP_ENV"
	EnvPort                   = "SUBTRACKR_APP_PORT"
	EnvDBDSN                  = "SUBTRACKR_DB_DSN"
	EnvDBHost                 = "SUBTRACKR_DB_HOST"
	EnvDBUser                 = "SUBTRACKR_DB_USER"
	EnvDBName                 = "SUBTRACKR_DB_NAME"
	EnvRedisURL               = "SUBTRACKR_REDIS_URL"
	EnvJWTSecret              = "SUBTRACKR_JWT_SECRET"
	EnvJWTIssuer              = "SUBTRACKR_JWT_ISSUER"
	EnvJWTExpMins             = "SUBTRACKR_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "SUBTRACKR_REFRESH_TOKEN_TTL_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
