package config

import (
	"os"
	"strconv"
)

// DefaultBaseCurrency is the currency all scoring comparisons normalize to.
const DefaultBaseCurrency = "PLN"

type Config struct {
	Port         string
	BaseCurrency string
	QueueSize    int
	WorkerCount  int
}

// Load reads service configuration from the environment, with defaults for
// everything except the database (see InitDB).
func Load() Config {
	return Config{
		Port:         getEnv("PORT", "8080"),
		BaseCurrency: getEnv("BASE_CURRENCY", DefaultBaseCurrency),
		QueueSize:    getEnvInt("QUEUE_SIZE", 100),
		WorkerCount:  getEnvInt("WORKER_COUNT", 5),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
