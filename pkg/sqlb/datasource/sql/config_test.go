package sql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapConfig map[string]string

func (m mapConfig) Get(key string) string { return m[key] }

func (m mapConfig) GetOrDefault(key, def string) string {
	if v, ok := m[key]; ok && v != "" {
		return v
	}

	return def
}

func TestGetDBConfig(t *testing.T) {
	cfg := getDBConfig(mapConfig{
		"DB_DIALECT":       "postgres",
		"DB_HOST":          "db.local",
		"DB_USER":          "root",
		"DB_PASSWORD":      "secret",
		"DB_PORT":          "5432",
		"DB_NAME":          "app",
		"DB_MAX_OPEN_CONN": "10",
		"DB_MAX_IDLE_CONN": "abc",
		"DB_DRIVER":        "pgx",
	})

	assert.Equal(t, &DBConfig{
		Dialect:     "postgres",
		HostName:    "db.local",
		User:        "root",
		Password:    "secret",
		Port:        "5432",
		Database:    "app",
		SSLMode:     "disable",
		Driver:      "pgx",
		MaxOpenConn: 10,
		MaxIdleConn: defaultMaxIdleConn,
	}, cfg)
}

func TestDBConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     DBConfig
		dialect string
		wantErr bool
	}{
		{name: "alias", cfg: DBConfig{Dialect: "PostgreSQL", HostName: "h"}, dialect: "postgres"},
		{name: "sqlite without host", cfg: DBConfig{Dialect: "sqlite3"}, dialect: "sqlite"},
		{name: "missing dialect", cfg: DBConfig{HostName: "h"}, wantErr: true},
		{name: "unknown dialect", cfg: DBConfig{Dialect: "oracle", HostName: "h"}, wantErr: true},
		{name: "mysql without host", cfg: DBConfig{Dialect: "mysql"}, wantErr: true},
		{name: "bad port", cfg: DBConfig{Dialect: "mysql", HostName: "h", Port: "x"}, wantErr: true},
		{name: "bad driver", cfg: DBConfig{Dialect: "postgres", HostName: "h", Driver: "odbc"}, wantErr: true},
		{name: "bad ssl mode", cfg: DBConfig{Dialect: "postgres", HostName: "h", SSLMode: "maybe"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()

			if tt.wantErr {
				require.ErrorIs(t, err, errInvalidConfig)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.dialect, tt.cfg.Dialect)
		})
	}
}

func TestDBConfig_Driver(t *testing.T) {
	name, dsn := (&DBConfig{Dialect: "mysql", HostName: "h", Port: "3306", User: "u", Password: "p", Database: "d"}).driver()
	assert.Equal(t, "mysql", name)
	assert.Contains(t, dsn, "u:p@tcp(h:3306)/d?")
	assert.Contains(t, dsn, "parseTime=true")
	assert.Contains(t, dsn, "charset=utf8mb4")

	name, dsn = (&DBConfig{Dialect: "postgres", HostName: "h", Port: "5432", User: "u", Password: "p",
		Database: "d", SSLMode: "disable"}).driver()
	assert.Equal(t, "postgres", name)
	assert.Equal(t, "host=h port=5432 user=u password=p dbname=d sslmode=disable", dsn)

	name, _ = (&DBConfig{Dialect: "postgres", HostName: "h", Driver: "pgx"}).driver()
	assert.Equal(t, "pgx", name)

	cfg := &DBConfig{Dialect: "sqlite"}
	name, dsn = cfg.driver()
	assert.Equal(t, "sqlite", name)
	assert.Equal(t, ":memory:", dsn)
	assert.True(t, cfg.inMemory())
}

func TestNewSQL_NotConfigured(t *testing.T) {
	db, err := NewSQL(mapConfig{}, nil, nil)
	require.NoError(t, err)
	assert.Nil(t, db)
}
