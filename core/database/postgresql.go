package database

import (
	"context"
	"database/sql"
	"fmt"
	"slot-swapper/core/constants"
	"slot-swapper/core/logger"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

type IDatabase interface {
	ExecContext(ctx context.Context, query string, args ...any) error
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	NamedQueryContext(ctx context.Context, query string, arg any) (*sqlx.Rows, error)
	NamedExecContext(ctx context.Context, query string, arg any) (sql.Result, error)
	SQLx() *sqlx.DB
	Transactor
}

// executor is what *sqlx.DB and *sqlx.Tx have in common.
type executor interface {
	sqlx.ExtContext
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	NamedExecContext(ctx context.Context, query string, arg any) (sql.Result, error)
}

type Database struct {
	db          *sql.DB
	sqlx        *sqlx.DB
	lockTimeout time.Duration
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string // disable, require, verify-ca, verify-full
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // in minutes
	LockTimeout     time.Duration
}

func InitDB(config DatabaseConfig) (*Database, error) {
	logger.Info("Initializing database...")

	sslMode := config.SSLMode
	if sslMode == "" {
		sslMode = constants.DatabaseSSLMode
	}
	maxOpen := orDefault(config.MaxOpenConns, constants.DatabaseMaxOpenConns)
	maxIdle := orDefault(config.MaxIdleConns, constants.DatabaseMaxIdleConns)
	lifetime := orDefault(config.ConnMaxLifetime, constants.DatabaseConnMaxLifetime)
	lockTimeout := config.LockTimeout
	if lockTimeout <= 0 {
		lockTimeout = constants.DatabaseLockTimeout
	}

	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		config.Host, config.Port, config.User, config.Password, config.DBName, sslMode)

	sqlxDB, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB := sqlxDB.DB
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(maxIdle)
	sqlDB.SetConnMaxLifetime(time.Duration(lifetime) * time.Minute)

	if err = sqlDB.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("Database initialized successfully",
		"host", config.Host,
		"port", config.Port,
		"database", config.DBName,
		"user", config.User,
		"maxOpenConns", maxOpen,
		"maxIdleConns", maxIdle,
		"connMaxLifetime", lifetime,
		"lockTimeout", lockTimeout.String(),
	)

	return &Database{
		db:          sqlDB,
		sqlx:        sqlxDB,
		lockTimeout: lockTimeout,
	}, nil
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

// ext returns the transaction bound to ctx, or the pool.
func (d *Database) ext(ctx context.Context) executor {
	if tx, ok := txFromContext(ctx); ok {
		return tx
	}
	return d.sqlx
}

func (d *Database) ExecContext(ctx context.Context, query string, args ...any) error {
	_, err := d.ext(ctx).ExecContext(ctx, query, args...)
	return Translate(err)
}

func (d *Database) GetContext(ctx context.Context, dest any, query string, args ...any) error {
	return Translate(d.ext(ctx).GetContext(ctx, dest, query, args...))
}

func (d *Database) SelectContext(ctx context.Context, dest any, query string, args ...any) error {
	return Translate(d.ext(ctx).SelectContext(ctx, dest, query, args...))
}

func (d *Database) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return d.ext(ctx).QueryRowContext(ctx, query, args...)
}

func (d *Database) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	rows, err := d.ext(ctx).QueryContext(ctx, query, args...)
	return rows, Translate(err)
}

func (d *Database) NamedQueryContext(ctx context.Context, query string, arg any) (*sqlx.Rows, error) {
	rows, err := sqlx.NamedQueryContext(ctx, d.ext(ctx), query, arg)
	return rows, Translate(err)
}

func (d *Database) NamedExecContext(ctx context.Context, query string, arg any) (sql.Result, error) {
	res, err := d.ext(ctx).NamedExecContext(ctx, query, arg)
	return res, Translate(err)
}

func (d *Database) SQLx() *sqlx.DB {
	return d.sqlx
}

func (d *Database) Ping(ctx context.Context) error {
	return d.db.PingContext(ctx)
}

func (d *Database) Close() error {
	return d.sqlx.Close()
}
