package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/playoff-odds/internal/config"
)

func TestConnString(t *testing.T) {
	cfg := &config.DatabaseConfig{
		Host: "db", Port: 5433, User: "odds", Password: "pw", Name: "playoff_odds", SSLMode: "disable",
	}
	assert.Equal(t, "host=db port=5433 user=odds password=pw dbname=playoff_odds sslmode=disable", ConnString(cfg))
}

func TestEnsureSchemaIsIdempotent(t *testing.T) {
	db := SetupTestDB(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, db.EnsureSchema(ctx))
	require.NoError(t, db.HealthCheck(ctx))
}
