package config

import (
	"os"
	"strings"
)

type Config struct {
	Port        string
	PostgresCfg PostgresConfig
	RedisCfg    RedisConfig
	MinioCfg    MinioConfig
	RabbitMQCfg RabbitMQConfig
	GeminiCfg   GeminiConfig
}

type PostgresConfig struct {
	DBName   string
	Username string
	Password string
	Host     string
	Port     string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Location  string
	Secure    string
}

type RabbitMQConfig struct {
	Username string
	Password string
	Host     string
	Port     string
}

type GeminiConfig struct {
	// APIKeys rotates across multiple keys; empty means offline mode.
	APIKeys   []string
	ModelName string
}

func New() *Config {
	return &Config{
		Port: getEnvOrDefault("PORT", "8084"),
		PostgresCfg: PostgresConfig{
			DBName:   getEnvOrDefault("POSTGRES_DB", "ecoinsure"),
			Username: getEnvOrDefault("POSTGRES_USER", "postgres"),
			Password: getEnvOrDefault("POSTGRES_PASSWORD", "postgres"),
			Host:     getEnvOrDefault("POSTGRES_HOST", "localhost"),
			Port:     getEnvOrDefault("POSTGRES_PORT", "5432"),
		},
		RedisCfg: RedisConfig{
			Host:     getEnvOrDefault("REDIS_HOST", "localhost"),
			Port:     getEnvOrDefault("REDIS_PORT", "6379"),
			Password: getEnvOrDefault("REDIS_PASSWORD", ""),
			DB:       0,
		},
		MinioCfg: MinioConfig{
			Endpoint:  getEnvOrDefault("MINIO_ENDPOINT", "http://localhost:9407"),
			AccessKey: getEnvOrDefault("MINIO_ACCESS_KEY", "minio"),
			SecretKey: getEnvOrDefault("MINIO_SECRET_KEY", "minio123"),
			Location:  getEnvOrDefault("MINIO_LOCATION", "us-east-1"),
			Secure:    getEnvOrDefault("MINIO_SECURE", "false"),
		},
		RabbitMQCfg: RabbitMQConfig{
			Username: getEnvOrDefault("RABBITMQ_USER", "admin"),
			Password: getEnvOrDefault("RABBITMQ_PWD", "admin"),
			Host:     getEnvOrDefault("RABBITMQ_HOST", "localhost"),
			Port:     getEnvOrDefault("RABBITMQ_PORT", "5672"),
		},
		GeminiCfg: GeminiConfig{
			APIKeys:   splitKeys(getEnvOrDefault("GEMINI_KEYS", "")),
			ModelName: getEnvOrDefault("GEMINI_FLASH_MODEL", "gemini-2.5-flash"),
		},
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitKeys(raw string) []string {
	var keys []string
	for _, k := range strings.Split(raw, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}
