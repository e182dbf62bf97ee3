package config

import (
	"os"
	"strconv"
)

// DatabaseConfig holds PostgreSQL connection settings. The database is
// optional for this service: when Host is empty, work-run history is kept
// in memory and /db falls back to an in-process sleep.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// Enabled reports whether a database was configured.
func (c DatabaseConfig) Enabled() bool { return c.Host != "" }

// MinIOConfig holds object storage settings for captured profiles.
// Storage is optional: when Endpoint is empty, the profiles endpoint
// reports storage as disabled.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// Enabled reports whether object storage was configured.
func (c MinIOConfig) Enabled() bool { return c.Endpoint != "" }

// WorkConfig bounds the load-simulation endpoints. Requests above these
// limits are rejected so a load test that exceeds them fails loudly
// instead of silently producing a smaller load.
type WorkConfig struct {
	MaxCPUMillis    int
	MaxMemMB        int
	MaxDBLatencyMS  int
	HistoryCapacity int
}

// DownstreamConfig configures the outbound call made by /downstream.
type DownstreamConfig struct {
	URL        string
	TimeoutSec int
}

// AppConfig is the centralized configuration struct for the service,
// populated from environment variables.
type AppConfig struct {
	ServiceName string
	Port        string
	Work        WorkConfig
	Downstream  DownstreamConfig
	Database    DatabaseConfig
	MinIO       MinIOConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// Real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		ServiceName: getEnv("SERVICE_NAME", "obs-demo-api"),
		Port:        getEnv("PORT", "8080"),
		Work: WorkConfig{
			MaxCPUMillis:    getEnvInt("WORK_MAX_CPU_MS", 10000),
			MaxMemMB:        getEnvInt("WORK_MAX_MEM_MB", 512),
			MaxDBLatencyMS:  getEnvInt("DB_LATENCY_MAX_MS", 10000),
			HistoryCapacity: getEnvInt("WORK_HISTORY_CAPACITY", 1000),
		},
		Downstream: DownstreamConfig{
			URL:        getEnv("DOWNSTREAM_URL", "https://httpbin.org/delay/0.2"),
			TimeoutSec: getEnvInt("DOWNSTREAM_TIMEOUT_SEC", 3),
		},
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", "obs-demo-profiles"),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}
