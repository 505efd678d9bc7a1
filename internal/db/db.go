package db

import (
	"context"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Database struct {
	Pool *pgxpool.Pool
}

var (
	dbInstance *Database
	dbOnce     sync.Once
	dbErr      error
)

func NewDatabase(ctx context.Context, connString string) (*Database, error) {
	dbOnce.Do(func() {
		pool, err := pgxpool.New(ctx, connString)
		if err != nil {
			dbErr = fmt.Errorf("unable to create connection pool: %w", err)
			return
		}

		dbInstance = &Database{pool}
	})

	if dbErr != nil {
		return nil, dbErr
	}

	return dbInstance, nil
}

func (db *Database) Ping(ctx context.Context) error {
	return db.Pool.Ping(ctx)
}

// SelectOne runs the health-check query and returns the literal result.
func (db *Database) SelectOne(ctx context.Context) (int, error) {
	var ok int
	err := db.Pool.QueryRow(ctx, "SELECT 1 AS ok").Scan(&ok)
	if err != nil {
		return 0, err
	}
	return ok, nil
}

func (db *Database) Close() {
	db.Pool.Close()
}
