package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "tubarao-engine", cfg.App.Name)
	assert.Equal(t, 5432, cfg.Database.Postgres.Port)
	assert.Equal(t, "localhost:6379", cfg.Database.Redis.Address)
	assert.Equal(t, "sa-east-1", cfg.Integrations.AWS.Region)
	assert.Equal(t, 15, cfg.Score.OnTimePoints)
	assert.Equal(t, 60, cfg.Score.RelationshipCapMonths)
	assert.Equal(t, 7, cfg.Renegotiation.ProposalTTLDays)
	assert.Equal(t, 2000, cfg.Collection.DispatchDelayMs)
	assert.Equal(t, 48, cfg.Collection.LedgerTTLHours)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("DATABASE_POSTGRES_HOST", "db.internal")
	t.Setenv("COLLECTION_DISPATCH_DELAY_MS", "500")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "db.internal", cfg.Database.Postgres.Host)
	assert.Equal(t, 500, cfg.Collection.DispatchDelayMs)
}

func TestLoad_RejectsNegativeDispatchDelay(t *testing.T) {
	t.Setenv("COLLECTION_DISPATCH_DELAY_MS", "-1")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_RejectsShortLedgerTTL(t *testing.T) {
	t.Setenv("COLLECTION_LEDGER_TTL_HOURS", "12")

	_, err := Load()
	assert.Error(t, err)
}

func TestGetDSN(t *testing.T) {
	pg := PostgresConfig{
		Host:     "localhost",
		Port:     5432,
		Database: "microcredito",
		User:     "postgres",
		Password: "secret",
		SSLMode:  "disable",
	}
	assert.Equal(t,
		"host=localhost port=5432 user=postgres password=secret dbname=microcredito sslmode=disable",
		pg.GetDSN())
}
