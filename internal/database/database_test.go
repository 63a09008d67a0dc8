package database

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAndMigrate(t *testing.T) {
	conn, err := Open(Config{Path: filepath.Join(t.TempDir(), "etell.db")})
	require.NoError(t, err)
	defer conn.Close()

	version, dirty, err := MigrateVersion(conn)
	require.NoError(t, err)
	assert.Zero(t, version)
	assert.False(t, dirty)

	require.NoError(t, MigrateUp(conn))
	require.NoError(t, MigrateUp(conn), "second run is a no-op")

	version, dirty, err = MigrateVersion(conn)
	require.NoError(t, err)
	assert.Equal(t, uint(2), version)
	assert.False(t, dirty)

	for _, table := range []string{"calibration_sessions", "calibration_samples", "floor_layouts", "layout_rooms", "analysis_results"} {
		var name string
		err := conn.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		assert.NoError(t, err, table)
	}
}

func TestWithTxRollsBack(t *testing.T) {
	conn, err := Open(Config{Path: filepath.Join(t.TempDir(), "tx.db")})
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Exec("CREATE TABLE t (v INTEGER)")
	require.NoError(t, err)

	err = WithTx(context.Background(), conn, func(tx *sql.Tx) error {
		if _, err := tx.Exec("INSERT INTO t (v) VALUES (1)"); err != nil {
			return err
		}
		return assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)

	var count int
	require.NoError(t, conn.QueryRow("SELECT COUNT(*) FROM t").Scan(&count))
	assert.Zero(t, count)
}

func TestOpenAppliesPragmas(t *testing.T) {
	conn, err := Open(Config{Path: filepath.Join(t.TempDir(), "pragma.db"), MaxOpenConns: 2})
	require.NoError(t, err)
	defer conn.Close()

	var fk, timeout int
	var mode string
	require.NoError(t, conn.QueryRow("PRAGMA foreign_keys").Scan(&fk))
	require.NoError(t, conn.QueryRow("PRAGMA busy_timeout").Scan(&timeout))
	require.NoError(t, conn.QueryRow("PRAGMA journal_mode").Scan(&mode))
	assert.Equal(t, 1, fk)
	assert.Equal(t, 5000, timeout)
	assert.Equal(t, "wal", mode)
}

func TestDSN(t *testing.T) {
	assert.Equal(t, "a.db?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_txlock=immediate", dsn("a.db"))
	assert.Equal(t, "file:a.db?mode=rwc&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_txlock=immediate", dsn("file:a.db?mode=rwc"))
}

func TestWithTxHonoursCancelledContext(t *testing.T) {
	conn, err := Open(Config{Path: filepath.Join(t.TempDir(), "cancel.db")})
	require.NoError(t, err)
	defer conn.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err = WithTx(ctx, conn, func(*sql.Tx) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}
