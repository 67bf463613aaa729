package config

const (
	EnvPrefix = "STOREFRONT"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	KVBackendMemory = "memory"
	KVBackendSQLite = "sqlite"
	KVBackendRedis  = "redis"
)
