package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	// Save current env and restore later
	origHost := os.Getenv("DB_HOST")
	defer os.Setenv("DB_HOST", origHost)

	os.Setenv("DB_HOST", "test-host")
	os.Setenv("WORK_MAX_CPU_MS", "5000")
	os.Setenv("MINIO_USE_SSL", "true")
	defer os.Unsetenv("WORK_MAX_CPU_MS")
	defer os.Unsetenv("MINIO_USE_SSL")

	cfg := Load()

	assert.Equal(t, "test-host", cfg.Database.Host)
	assert.True(t, cfg.Database.Enabled())
	assert.Equal(t, 5000, cfg.Work.MaxCPUMillis)
	assert.True(t, cfg.MinIO.UseSSL)
	assert.Equal(t, "obs-demo-api", cfg.ServiceName)
}

func TestOptionalDependenciesDisabledByDefault(t *testing.T) {
	os.Unsetenv("DB_HOST")
	os.Unsetenv("MINIO_ENDPOINT")

	cfg := Load()

	assert.False(t, cfg.Database.Enabled())
	assert.False(t, cfg.MinIO.Enabled())
}

func TestGetEnv(t *testing.T) {
	key := "TEST_ENV_VAR"
	os.Setenv(key, "value")
	defer os.Unsetenv(key)

	assert.Equal(t, "value", getEnv(key, "default"))
	assert.Equal(t, "default", getEnv("NON_EXISTENT", "default"))
}

func TestGetEnvBool(t *testing.T) {
	key := "TEST_BOOL_VAR"

	os.Setenv(key, "true")
	assert.True(t, getEnvBool(key, false))

	os.Setenv(key, "false")
	assert.False(t, getEnvBool(key, true))

	os.Setenv(key, "invalid")
	assert.True(t, getEnvBool(key, true))

	os.Unsetenv(key)
	assert.True(t, getEnvBool(key, true))
}

func TestGetEnvInt(t *testing.T) {
	key := "TEST_INT_VAR"

	os.Setenv(key, "123")
	assert.Equal(t, 123, getEnvInt(key, 0))

	os.Setenv(key, "invalid")
	assert.Equal(t, 10, getEnvInt(key, 10))

	os.Unsetenv(key)
	assert.Equal(t, 10, getEnvInt(key, 10))
}
