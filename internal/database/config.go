package database

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Host          string
	Port          string
	User          string
	Password      string
	DBName        string
	SSLMode       string
	RedisURL      string
	RedisPassword string
	RedisDB       int
	HTTPPort      string
}

func LoadConfig() (*Config, error) {
	// A missing .env is fine; the environment may carry everything.
	_ = godotenv.Load()

	return &Config{
		Host:          getEnv("DB_HOST", "localhost"),
		Port:          getEnv("DB_PORT", "5432"),
		User:          getEnv("DB_USER", "app_user"),
		Password:      getEnv("DB_PASSWORD", "postgres_password"),
		DBName:        getEnv("DB_NAME", "stock_management"),
		SSLMode:       getEnv("DB_SSLMODE", "disable"),
		RedisURL:      getEnv("REDIS_URL", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),
		HTTPPort:      getEnv("PORT", "5000"),
	}, nil
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
