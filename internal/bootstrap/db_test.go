package bootstrap

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nutrifit/nutrifit-backend/config"
)

func TestPoolConfig(t *testing.T) {
	t.Run("applies pool settings", func(t *testing.T) {
		pc, err := poolConfig(&config.DatabaseConfig{
			DSN:            "postgres://app:pw@db.internal:5433/nutrifit?sslmode=disable",
			PoolMaxConns:   7,
			ConnectTimeout: 3 * time.Second,
		})
		require.NoError(t, err)
		assert.Equal(t, int32(7), pc.MaxConns)
		assert.Equal(t, 3*time.Second, pc.ConnConfig.ConnectTimeout)
		assert.Equal(t, "db.internal", pc.ConnConfig.Host)
		assert.Equal(t, uint16(5433), pc.ConnConfig.Port)
	})

	t.Run("zero values keep pgx defaults", func(t *testing.T) {
		pc, err := poolConfig(&config.DatabaseConfig{DSN: "postgres://app@localhost/nutrifit"})
		require.NoError(t, err)
		assert.Positive(t, pc.MaxConns)
	})

	t.Run("missing dsn", func(t *testing.T) {
		_, err := poolConfig(&config.DatabaseConfig{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "DB_DSN")
	})

	t.Run("malformed dsn", func(t *testing.T) {
		_, err := poolConfig(&config.DatabaseConfig{DSN: "postgres://%zz"})
		require.Error(t, err)
	})
}

func TestOpenDB_MissingDSN(t *testing.T) {
	pool, err := OpenDB(context.Background(), &config.DatabaseConfig{})
	require.Error(t, err)
	assert.Nil(t, pool)
}
