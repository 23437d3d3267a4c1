package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable the tests touch. Viper treats an empty
// variable as unset.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"PHARMA_APP_NAME",
		"PHARMA_APP_ENV",
		"PHARMA_APP_PORT",
		"PHARMA_DATABASE_HOST",
		"PHARMA_DATABASE_PORT",
		"PHARMA_DATABASE_USER",
		"PHARMA_DATABASE_PASSWORD",
		"PHARMA_DATABASE_DBNAME",
		"PHARMA_DATABASE_SSLMODE",
		"PHARMA_DATABASE_MAX_OPEN_CONNS",
		"PHARMA_DATABASE_MAX_IDLE_CONNS",
		"PHARMA_GST_DEFAULT_SELLER_GSTIN",
		"PHARMA_GST_DEFAULT_STATE_CODE",
		"PHARMA_IDEMPOTENCY_ENABLED",
		"PHARMA_IDEMPOTENCY_BACKEND",
		"PHARMA_IDEMPOTENCY_TTL",
		"PHARMA_STORAGE_ENABLED",
		"PHARMA_STORAGE_BUCKET",
		"PHARMA_TELEMETRY_DB_LOG_FULL_SQL",
		"PHARMA_HTTP_CORS_ALLOW_ORIGINS",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad(t *testing.T) {
	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearEnv(t)

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "pharmadist", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "postgres", cfg.Database.User)
		assert.Equal(t, "pharmadist", cfg.Database.DBName)
		assert.Equal(t, "disable", cfg.Database.SSLMode)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, 5, cfg.Database.MaxIdleConns)
		assert.Equal(t, 20*time.Second, cfg.HTTP.RequestTimeout)
		assert.True(t, cfg.Idempotency.Enabled)
		assert.Equal(t, "memory", cfg.Idempotency.Backend)
		assert.Equal(t, 24*time.Hour, cfg.Idempotency.TTL)
		assert.Contains(t, cfg.HTTP.CORSAllowHeaders, "X-Org-ID")
		assert.Contains(t, cfg.HTTP.CORSAllowHeaders, "Idempotency-Key")
		assert.Empty(t, cfg.HTTP.CORSAllowOrigins)
	})

	t.Run("loads values from environment variables with PHARMA prefix", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("PHARMA_APP_NAME", "test-app")
		t.Setenv("PHARMA_APP_ENV", "testing")
		t.Setenv("PHARMA_APP_PORT", "9000")
		t.Setenv("PHARMA_DATABASE_HOST", "testdb.local")
		t.Setenv("PHARMA_DATABASE_PORT", "5433")
		t.Setenv("PHARMA_DATABASE_USER", "testuser")
		t.Setenv("PHARMA_DATABASE_PASSWORD", "testpass")
		t.Setenv("PHARMA_DATABASE_DBNAME", "testdb")
		t.Setenv("PHARMA_DATABASE_SSLMODE", "require")
		t.Setenv("PHARMA_DATABASE_MAX_OPEN_CONNS", "50")
		t.Setenv("PHARMA_DATABASE_MAX_IDLE_CONNS", "10")
		t.Setenv("PHARMA_IDEMPOTENCY_BACKEND", "redis")
		t.Setenv("PHARMA_IDEMPOTENCY_TTL", "2h")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-app", cfg.App.Name)
		assert.Equal(t, "testing", cfg.App.Env)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.Equal(t, "testuser", cfg.Database.User)
		assert.Equal(t, "testpass", cfg.Database.Password)
		assert.Equal(t, "testdb", cfg.Database.DBName)
		assert.Equal(t, "require", cfg.Database.SSLMode)
		assert.Equal(t, 50, cfg.Database.MaxOpenConns)
		assert.Equal(t, 10, cfg.Database.MaxIdleConns)
		assert.Equal(t, "redis", cfg.Idempotency.Backend)
		assert.Equal(t, 2*time.Hour, cfg.Idempotency.TTL)
	})

	t.Run("derives the default state code from the seller GSTIN", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("PHARMA_GST_DEFAULT_SELLER_GSTIN", "27aapfu0939f1zv")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "27AAPFU0939F1ZV", cfg.GST.DefaultSellerGSTIN)
		assert.Equal(t, "27", cfg.GST.DefaultStateCode)
	})

	t.Run("rejects a seller GSTIN of the wrong length", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("PHARMA_GST_DEFAULT_SELLER_GSTIN", "27AAPFU")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "gst.default_seller_gstin")
	})

	t.Run("rejects an unknown idempotency backend", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("PHARMA_IDEMPOTENCY_BACKEND", "memcached")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "idempotency.backend")
	})

	t.Run("idempotency can be switched off", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("PHARMA_IDEMPOTENCY_ENABLED", "false")

		cfg, err := Load()
		require.NoError(t, err)
		assert.False(t, cfg.Idempotency.Enabled)
	})

	t.Run("requires a bucket when storage is enabled", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("PHARMA_STORAGE_ENABLED", "true")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "storage.bucket")
	})

	t.Run("validates MaxIdleConns cannot exceed MaxOpenConns", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("PHARMA_DATABASE_MAX_OPEN_CONNS", "10")
		t.Setenv("PHARMA_DATABASE_MAX_IDLE_CONNS", "20")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns")
		assert.Contains(t, err.Error(), "cannot exceed")
	})

	t.Run("zero MaxOpenConns uses default", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("PHARMA_DATABASE_MAX_OPEN_CONNS", "0")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	})

	t.Run("validates MaxIdleConns cannot be negative", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("PHARMA_DATABASE_MAX_IDLE_CONNS", "-1")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns cannot be negative")
	})
}

func TestLoad_ProductionValidation(t *testing.T) {
	setValidProductionBase := func(t *testing.T) {
		clearEnv(t)
		t.Setenv("PHARMA_APP_ENV", "production")
		t.Setenv("PHARMA_DATABASE_PASSWORD", "secure-password")
		t.Setenv("PHARMA_DATABASE_SSLMODE", "require")
	}

	t.Run("requires database.password in production", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("PHARMA_DATABASE_PASSWORD", "")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.password is required in production")
	})

	t.Run("requires SSL enabled in production", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("PHARMA_DATABASE_SSLMODE", "disable")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.sslmode cannot be 'disable' in production")
	})

	t.Run("forbids full SQL logging in production", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("PHARMA_TELEMETRY_DB_LOG_FULL_SQL", "true")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "db_log_full_sql")
	})

	t.Run("passes validation with valid production config", func(t *testing.T) {
		setValidProductionBase(t)

		cfg, err := Load()
		require.NoError(t, err)
		assert.True(t, cfg.IsProduction())
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	t.Run("generates valid DSN", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "testuser",
			Password: "testpass",
			DBName:   "testdb",
			SSLMode:  "disable",
		}

		dsn := cfg.DSN()
		assert.Contains(t, dsn, "localhost")
		assert.Contains(t, dsn, "5432")
		assert.Contains(t, dsn, "testuser")
		assert.Contains(t, dsn, "testdb")
		assert.Contains(t, dsn, "sslmode=disable")
	})

	t.Run("escapes special characters in password", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "user",
			Password: "pass@word#123",
			DBName:   "db",
			SSLMode:  "disable",
		}

		assert.Contains(t, cfg.DSN(), "pass%40word%23123")
	})
}

func TestRedisConfig_Addr(t *testing.T) {
	cfg := RedisConfig{Host: "cache.local", Port: 6380}
	assert.Equal(t, "cache.local:6380", cfg.Addr())
}
