package database

import (
	"path/filepath"
	"testing"

	"github.com/StartupBuilder-io/startupbuilder/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	cfg := &config.Config{}
	cfg.Database.Type = "sqlite"
	cfg.Database.Path = filepath.Join(t.TempDir(), "test.db")
	cfg.Database.AutoMigrate = true
	return cfg
}

func TestOpenRunsMigrations(t *testing.T) {
	db, err := Open(testConfig(t))
	require.NoError(t, err)
	defer db.Close()

	for _, table := range []string{"users", "chats", "messages", "business_plans"} {
		var count int
		err := db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&count)
		assert.NoError(t, err, table)
		assert.Equal(t, 0, count)
	}
}

func TestRunMigrationsIsIdempotent(t *testing.T) {
	db, err := Open(testConfig(t))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, RunMigrations(db, "sqlite"))
	require.NoError(t, RunMigrations(db, "sqlite"))

	var applied int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&applied))
	assert.Equal(t, len(GetMigrations("sqlite")), applied)
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	cfg := testConfig(t)
	cfg.Database.Type = "oracle"
	_, err := Open(cfg)
	assert.Error(t, err)
}
