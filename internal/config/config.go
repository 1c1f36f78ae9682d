package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Store backends
const (
	BackendAzure      = "azure"
	BackendFilesystem = "filesystem"
)

type Config struct {
	Port int

	StoreBackend       string
	StorageAccountName string
	StorageAccountKey  string
	ContainerName      string
	StoreDirectory     string // Katalog obiektów dla backendu filesystem

	ReplicateToken        string
	ReplicateModelVersion string
	ReplicateURL          string
	InferenceTimeout      time.Duration

	SensorCount    int // Ile ostatnich odczytów czujników pokazać
	AlbumSize      int // Ile zdjęć w albumie time-lapse
	NotifyInterval time.Duration
	SessionTTL     time.Duration

	DatabasePath string
	LogDirectory string
	LogLevel     string
}

// Load reads an optional .env file and then the environment.
func Load() *Config {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	return &Config{
		Port:                  getEnvAsInt("PORT", 8080),
		StoreBackend:          getEnv("STORE_BACKEND", BackendAzure),
		StorageAccountName:    getEnv("STORAGE_ACCOUNT_NAME", ""),
		StorageAccountKey:     getEnv("STORAGE_ACCOUNT_KEY", ""),
		ContainerName:         getEnv("CONTAINER_NAME", "cloud"),
		StoreDirectory:        getEnv("STORE_DIR", filepath.Join(".", "cloud")),
		ReplicateToken:        getEnv("REPLICATE_API_TOKEN", ""),
		ReplicateModelVersion: getEnv("REPLICATE_MODEL_VERSION", ""),
		ReplicateURL:          getEnv("REPLICATE_API_URL", ""),
		InferenceTimeout:      getEnvAsDuration("INFERENCE_TIMEOUT", 2*time.Minute),
		SensorCount:           getEnvAsInt("SENSOR_COUNT", 5),
		AlbumSize:             getEnvAsInt("ALBUM_SIZE", 10),
		NotifyInterval:        getEnvAsDuration("NOTIFY_INTERVAL", 30*time.Second),
		SessionTTL:            getEnvAsDuration("SESSION_TTL", time.Hour),
		DatabasePath:          getEnv("DATABASE_PATH", filepath.Join(".", "data", "riddles.db")),
		LogDirectory:          getEnv("LOG_DIR", filepath.Join(".", "logs")),
		LogLevel:              getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
