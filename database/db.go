package database

import (
	"context"
	"database/sql"
	"fmt"
	"sinemagic_server/structs"
	"time"

	"github.com/MonkyMars/gecho"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
)

const slowQueryThreshold = time.Second

// DB wraps the bun connection to the remote project database.
type DB struct {
	*bun.DB
	logger         *gecho.Logger
	connectTimeout time.Duration
	project        string
}

// Open configures the pool through the pgx stdlib driver. No connection
// is made until the first query, so an unreachable database does not fail
// here. Errors keep their *pgconn.PgError so callers can classify SQLSTATE
// codes.
func Open(cfg *structs.RemoteConfig, logger *gecho.Logger) (*DB, error) {
	sqldb, err := sql.Open("pgx", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	sqldb.SetMaxOpenConns(cfg.MaxConns)
	sqldb.SetMaxIdleConns(cfg.MinConns)
	sqldb.SetConnMaxLifetime(cfg.MaxLifetime)
	sqldb.SetConnMaxIdleTime(cfg.MaxIdleTime)

	db := bun.NewDB(sqldb, pgdialect.New())
	db.AddQueryHook(&queryLogHook{logger: logger})

	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &DB{DB: db, logger: logger, connectTimeout: timeout, project: cfg.ProjectRef}, nil
}

// WaitReady pings the database with backoff until it answers. The pool
// stays usable when it gives up.
func (db *DB) WaitReady(ctx context.Context) error {
	err := RetryWithBackoff(ctx, DefaultRetryConfig(), func() error {
		pingCtx, cancel := context.WithTimeout(ctx, db.connectTimeout)
		defer cancel()
		return db.PingContext(pingCtx)
	})
	if err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	db.logger.Info("Connected to remote database", gecho.Field("project", db.project))
	return nil
}

// Health pings the database with a short deadline.
func (db *DB) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return db.PingContext(ctx)
}

func (db *DB) Close() error {
	return db.DB.Close()
}

// queryLogHook reports failed and slow queries.
type queryLogHook struct {
	logger *gecho.Logger
}

func (h *queryLogHook) BeforeQuery(ctx context.Context, _ *bun.QueryEvent) context.Context {
	return ctx
}

func (h *queryLogHook) AfterQuery(_ context.Context, event *bun.QueryEvent) {
	elapsed := time.Since(event.StartTime)
	if event.Err != nil && event.Err != sql.ErrNoRows {
		h.logger.Debug("Query failed",
			gecho.Field("operation", event.Operation()),
			gecho.Field("error", event.Err),
			gecho.Field("elapsed_ms", elapsed.Milliseconds()),
		)
		return
	}
	if elapsed > slowQueryThreshold {
		h.logger.Warn("Slow query",
			gecho.Field("query", event.Query),
			gecho.Field("elapsed_ms", elapsed.Milliseconds()),
		)
	}
}
