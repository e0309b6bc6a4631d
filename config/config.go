package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port            string
	Env             string
	DBPath          string
	SettingsPath    string
	LogLevel        string
	SeedDemoUser    bool
	NotifyQueueSize int
}

var AppConfig *Config

func Load() *Config {
	_ = godotenv.Load()

	AppConfig = &Config{
		Port:            GetEnv("PORT", "3000"),
		Env:             GetEnv("ENV", "development"),
		DBPath:          GetEnv("DB_PATH", "./data/everywrite.db"),
		SettingsPath:    GetEnv("SETTINGS_PATH", "./data/settings.yaml"),
		LogLevel:        GetEnv("LOG_LEVEL", "info"),
		SeedDemoUser:    GetEnvBool("SEED_DEMO_USER", true),
		NotifyQueueSize: GetEnvInt("NOTIFY_QUEUE_SIZE", 64),
	}
	return AppConfig
}

func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// GetEnvBool falls back to defaultValue when the variable is unset or unparsable
func GetEnvBool(key string, defaultValue bool) bool {
	b, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return b
}

// GetEnvInt falls back to defaultValue when the variable is unset or unparsable
func GetEnvInt(key string, defaultValue int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return n
}
