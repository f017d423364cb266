package config

// EnvPrefix scopes every environment variable the service reads.
const EnvPrefix = "VOXTEL"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvAppEnv = "VOXTEL_APP_ENV"
	EnvDBDSN  = "VOXTEL_DB_DSN"
	EnvDBHost = "VOXTEL_DB_HOST"
	EnvDBUser = "VOXTEL_DB_USER"
	EnvDBName = "VOXTEL_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
