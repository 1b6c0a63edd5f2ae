package mysql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"earnings-service/src/pkg/log"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/viper"
)

// Executor is satisfied by both *sqlx.DB and *sqlx.Tx so repositories can run
// inside or outside a caller-supplied transaction.
type Executor interface {
	sqlx.ExtContext
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
}

type DBInterface interface {
	GetDB() (*sqlx.DB, error)
	WithTransaction(ctx context.Context, fn func(tx *sqlx.Tx) error) error
}

type database struct {
	db *sqlx.DB
}

func InitConnection(v *viper.Viper, logger log.Log) (DBInterface, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&loc=UTC",
		v.GetString("mysql.username"),
		v.GetString("mysql.password"),
		v.GetString("mysql.host"),
		v.GetInt("mysql.port"),
		v.GetString("mysql.database"),
	)

	db, err := sqlx.Connect("mysql", dsn)
	if err != nil {
		logger.Error("mysql-init", err.Error(), "connect", "")
		return nil, err
	}

	db.SetMaxOpenConns(v.GetInt("mysql.max_open_conns"))
	db.SetMaxIdleConns(v.GetInt("mysql.max_idle_conns"))
	db.SetConnMaxLifetime(30 * time.Minute)

	return &database{db: db}, nil
}

func (d *database) GetDB() (*sqlx.DB, error) {
	if d.db == nil {
		return nil, errors.New("database connection is not initialized")
	}
	return d.db, nil
}

// WithTransaction runs fn inside a single transaction. Commit on nil error,
// rollback otherwise.
func (d *database) WithTransaction(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	db, err := d.GetDB()
	if err != nil {
		return err
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback failed: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// IsDuplicateEntry reports whether err is a MySQL unique-constraint violation
// (error 1062). Uniqueness races on idempotency anchors surface this way.
func IsDuplicateEntry(err error) bool {
	var mysqlErr *mysqldriver.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1062
	}
	return false
}
