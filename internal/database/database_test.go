package database

import (
	"context"
	"io/fs"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"perfumeadmin/internal/config"
)

func TestDSN(t *testing.T) {
	dsn := DSN(config.DB{
		DbHOST:     "db",
		DbPORT:     "5433",
		DbUSER:     "admin",
		DbPASSWORD: "secret",
		DbNAME:     "perfume",
		DbSSLMODE:  "require",
	})

	assert.Equal(t, "host=db port=5433 user=admin password=secret dbname=perfume sslmode=require", dsn)
}

func TestMigrationsEmbedded(t *testing.T) {
	files, err := fs.Glob(migrationsFS, "migrations/*.sql")
	require.NoError(t, err)
	assert.Contains(t, files, "migrations/00001_init.sql")

	body, err := fs.ReadFile(migrationsFS, "migrations/00001_init.sql")
	require.NoError(t, err)
	assert.Contains(t, string(body), "-- +goose Up")
	assert.Contains(t, string(body), "CREATE TABLE IF NOT EXISTS products")
	assert.Contains(t, string(body), "CREATE TABLE IF NOT EXISTS asset_uploads")
}

func TestHealthCheck(t *testing.T) {
	var empty *DB
	assert.Error(t, empty.HealthCheck(context.Background()))

	sqlDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer sqlDB.Close()

	mock.ExpectPing()

	db := &DB{sqlx.NewDb(sqlDB, "sqlmock")}
	assert.NoError(t, db.HealthCheck(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
