package config

import (
	"github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/platform/config"
	"github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/platform/database"
)

// ServiceConfig holds all configuration for the rental service.
type ServiceConfig struct {
	Port         string
	AppEnv       string
	DBConfig     config.DatabaseConfig
	JWTConfig    config.JWTConfig
	KafkaConfig  config.KafkaConfig
	RedisConfig  config.RedisConfig
	CacheEnabled bool
}

// Load reads configuration from environment variables prefixed RENTAL_.
func Load() (*ServiceConfig, error) {
	v, err := config.Load("RENTAL")
	if err != nil {
		return nil, err
	}
	v.SetDefault("CACHE_ENABLED", true)

	return &ServiceConfig{
		Port:         config.GetServicePort(v, "SERVICE_PORT"),
		AppEnv:       config.GetAppEnv(v),
		DBConfig:     config.LoadDatabaseConfig(v, "DB_NAME"),
		JWTConfig:    config.LoadJWTConfig(v),
		KafkaConfig:  config.LoadKafkaConfig(v),
		RedisConfig:  config.LoadRedisConfig(v),
		CacheEnabled: v.GetBool("CACHE_ENABLED"),
	}, nil
}

// Postgres converts the database settings into connection parameters.
func (c *ServiceConfig) Postgres() database.PostgresConfig {
	return database.PostgresConfig{
		Host:     c.DBConfig.Host,
		Port:     c.DBConfig.Port,
		User:     c.DBConfig.User,
		Password: c.DBConfig.Password,
		DBName:   c.DBConfig.DBName,
		SSLMode:  c.DBConfig.SSLMode,
	}
}

// IsDevelopment reports whether the service runs in the development environment.
func (c *ServiceConfig) IsDevelopment() bool {
	return c.AppEnv == "development"
}
