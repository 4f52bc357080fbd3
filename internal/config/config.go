package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Поддерживаемые хранилища состояния
const (
	StoreMemory   = "memory"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
)

// Config содержит конфигурацию сервиса
type Config struct {
	Port             int
	MaxPrincipal     float64
	MaxMonths        int
	MaxRate          float64
	LateFeeDailyRate float64
	StoreBackend     string
	RedisAddr        string
	RedisDB          int
	PostgresDSN      string
	SweepSchedule    string
	OTELEndpoint     string
	OTELServiceName  string
	LogLevel         string
	LogFormat        string
}

// LoadConfig загружает конфигурацию из переменных окружения
func LoadConfig() (*Config, error) {
	// Загружаем .env файл, если он существует (игнорируем ошибку)
	_ = godotenv.Load()

	cfg := &Config{
		Port:             getEnvInt("PORT", 8000),
		MaxPrincipal:     getEnvFloat("MAX_PRINCIPAL", 1e9),
		MaxMonths:        getEnvInt("MAX_MONTHS", 600),
		MaxRate:          getEnvFloat("MAX_RATE", 200),
		LateFeeDailyRate: getEnvFloat("LATE_FEE_DAILY_RATE", 0.0005),
		StoreBackend:     getEnvString("STORE_BACKEND", StoreMemory),
		RedisAddr:        getEnvString("REDIS_ADDR", "localhost:6379"),
		RedisDB:          getEnvInt("REDIS_DB", 0),
		PostgresDSN:      getEnvString("POSTGRES_DSN", ""),
		SweepSchedule:    getEnvString("SWEEP_SCHEDULE", "@daily"),
		OTELEndpoint:     getEnvString("OTEL_ENDPOINT", ""),
		OTELServiceName:  getEnvString("OTEL_SERVICE_NAME", "backoffice-finance"),
		LogLevel:         getEnvString("LOG_LEVEL", "INFO"),
		LogFormat:        getEnvString("LOG_FORMAT", "json"),
	}

	return cfg, nil
}

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
