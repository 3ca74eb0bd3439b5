package data

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sethvargo/go-retry"
)

// ErrCommentParentMissing reports that a comment insert referenced a parent
// comment row that does not exist. The upsert layer falls back to a null
// parent in that case.
var ErrCommentParentMissing = errors.New("comment parent row missing")

// Connect opens the archive database, retrying with backoff until the server
// accepts connections. The returned pool transparently replaces broken
// connections, which is the engine's only self-healing behavior.
func Connect(ctx context.Context, postgresURL string) (*sqlx.DB, error) {
	var db *sqlx.DB

	backoff := retry.WithMaxRetries(5, retry.NewExponential(1*time.Second))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		var err error
		db, err = sqlx.ConnectContext(ctx, "postgres", postgresURL)
		if err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(1 * time.Minute)

	return db, nil
}
