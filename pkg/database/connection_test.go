package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConnection_SQLite(t *testing.T) {
	db, err := NewConnection("sqlite", filepath.Join(t.TempDir(), "hoops.db"), false)
	require.NoError(t, err)
	defer db.Close()

	assert.NoError(t, db.HealthCheck())
	assert.NoError(t, db.Exec("CREATE TABLE smoke (id INTEGER PRIMARY KEY)").Error)
}

func TestNewConnection_UnsupportedDriver(t *testing.T) {
	_, err := NewConnection("oracle", "whatever", false)
	assert.Error(t, err)
}

func TestClose_ThenHealthCheckFails(t *testing.T) {
	db, err := NewConnection("sqlite", filepath.Join(t.TempDir(), "hoops.db"), true)
	require.NoError(t, err)
	require.NoError(t, db.Close())
	assert.Error(t, db.HealthCheck())
}
