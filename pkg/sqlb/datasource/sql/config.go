package sql

import (
	"fmt"
	"net"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/go-sql-driver/mysql"

	"github.com/sllt/sqlbuilder/pkg/sqlb"
	"github.com/sllt/sqlbuilder/pkg/sqlb/config"
)

const (
	defaultDBPort      = 3306
	sqliteInMemory     = ":memory:"
	defaultMaxOpenConn = 0
	defaultMaxIdleConn = 2
)

// DBConfig has those members which are necessary variables while connecting to database.
type DBConfig struct {
	Dialect     string `validate:"required,oneof=mysql postgres sqlite"`
	HostName    string `validate:"required_unless=Dialect sqlite"`
	User        string
	Password    string
	Port        string `validate:"omitempty,numeric"`
	Database    string
	SSLMode     string `validate:"omitempty,oneof=disable allow prefer require verify-ca verify-full"`
	Driver      string `validate:"omitempty,oneof=pq pgx"`
	MaxOpenConn int    `validate:"gte=0"`
	MaxIdleConn int    `validate:"gte=0"`
}

var validate = validator.New()

// getDBConfig reads DB_* keys from c.
func getDBConfig(c config.Config) *DBConfig {
	maxOpen, err := strconv.Atoi(c.GetOrDefault("DB_MAX_OPEN_CONN", strconv.Itoa(defaultMaxOpenConn)))
	if err != nil {
		maxOpen = defaultMaxOpenConn
	}

	maxIdle, err := strconv.Atoi(c.GetOrDefault("DB_MAX_IDLE_CONN", strconv.Itoa(defaultMaxIdleConn)))
	if err != nil {
		maxIdle = defaultMaxIdleConn
	}

	return &DBConfig{
		Dialect:     c.Get("DB_DIALECT"),
		HostName:    c.Get("DB_HOST"),
		User:        c.Get("DB_USER"),
		Password:    c.Get("DB_PASSWORD"),
		Port:        c.GetOrDefault("DB_PORT", strconv.Itoa(defaultDBPort)),
		Database:    c.Get("DB_NAME"),
		SSLMode:     c.GetOrDefault("DB_SSL_MODE", "disable"),
		Driver:      c.Get("DB_DRIVER"),
		MaxOpenConn: maxOpen,
		MaxIdleConn: maxIdle,
	}
}

// normalize maps dialect aliases onto their canonical names.
func (c *DBConfig) normalize() error {
	if c.Dialect == "" {
		return fmt.Errorf("%w: dialect is required", errInvalidConfig)
	}

	d, err := sqlb.ParseDialect(c.Dialect)
	if err != nil {
		return fmt.Errorf("%w: %w", errInvalidConfig, err)
	}

	c.Dialect = string(d)

	return nil
}

// Validate normalizes the dialect and checks the remaining fields.
func (c *DBConfig) Validate() error {
	if err := c.normalize(); err != nil {
		return err
	}

	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", errInvalidConfig, err)
	}

	return nil
}

// driver returns the database/sql driver name and DSN for c. Postgres uses
// lib/pq unless Driver is "pgx".
func (c *DBConfig) driver() (name, dsn string) {
	switch sqlb.Dialect(c.Dialect) {
	case sqlb.DialectPostgres:
		name = "postgres"
		if c.Driver == "pgx" {
			name = "pgx"
		}

		return name, fmt.Sprintf("host=%v port=%v user=%v password=%v dbname=%v sslmode=%v",
			c.HostName, c.Port, c.User, c.Password, c.Database, c.SSLMode)
	case sqlb.DialectSQLite:
		if c.Database == "" {
			return "sqlite", sqliteInMemory
		}

		return "sqlite", c.Database
	default:
		cfg := mysql.NewConfig()
		cfg.User = c.User
		cfg.Passwd = c.Password
		cfg.Net = "tcp"
		cfg.Addr = net.JoinHostPort(c.HostName, c.Port)
		cfg.DBName = c.Database
		cfg.ParseTime = true
		cfg.Params = map[string]string{"charset": "utf8mb4"}

		return "mysql", cfg.FormatDSN()
	}
}

func (c *DBConfig) inMemory() bool {
	return sqlb.Dialect(c.Dialect) == sqlb.DialectSQLite && (c.Database == "" || c.Database == sqliteInMemory)
}
