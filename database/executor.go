package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sinemagic_server/lib"
	"strings"
	"time"

	"github.com/uptrace/bun"
)

// Store operations run exactly once: a failed write is final for that
// attempt and the caller decides what to do with local state.

func (q *QueryBuilder[T]) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if q.timeout > 0 {
		return context.WithTimeout(ctx, q.timeout)
	}
	return ctx, func() {}
}

// All executes the query and returns all matching records
func (q *QueryBuilder[T]) All(ctx context.Context) ([]T, error) {
	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	var data []T
	if err := q.buildSelect(&data).Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to execute select query: %w (took %v)", err, time.Since(start))
	}
	return data, nil
}

// First executes the query and returns the first matching record, or nil
func (q *QueryBuilder[T]) First(ctx context.Context) (*T, error) {
	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	var data T
	if err := q.buildSelect(&data).Limit(1).Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to execute first query: %w (took %v)", err, time.Since(start))
	}
	return &data, nil
}

// Insert inserts a record and scans the returned row back into it. A
// statement that succeeds without returning a row yields
// lib.ErrNoConfirmation.
func (q *QueryBuilder[T]) Insert(ctx context.Context, data *T) (*T, error) {
	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	res, err := q.db.NewInsert().Model(data).Returning("*").Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to execute insert query: %w (took %v)", err, time.Since(start))
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, lib.ErrNoConfirmation
	}
	return data, nil
}

// InsertMany inserts multiple records in one statement
func (q *QueryBuilder[T]) InsertMany(ctx context.Context, data []T) error {
	if len(data) == 0 {
		return nil
	}
	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	if _, err := q.db.NewInsert().Model(&data).Exec(ctx); err != nil {
		return fmt.Errorf("failed to execute bulk insert query: %w (took %v)", err, time.Since(start))
	}
	return nil
}

// Upsert inserts data or, on a conflict over conflictColumns, overwrites
// updateColumns with the incoming values.
func (q *QueryBuilder[T]) Upsert(ctx context.Context, data *T, conflictColumns []string, updateColumns ...string) error {
	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	query := q.db.NewInsert().Model(data)
	idents := make([]string, len(conflictColumns))
	for i, c := range conflictColumns {
		idents[i] = `"` + c + `"`
	}
	query = query.On("CONFLICT (" + strings.Join(idents, ", ") + ") DO UPDATE")
	for _, col := range updateColumns {
		query = query.Set("? = EXCLUDED.?", bun.Ident(col), bun.Ident(col))
	}

	start := time.Now()
	if _, err := query.Exec(ctx); err != nil {
		return fmt.Errorf("failed to execute upsert query: %w (took %v)", err, time.Since(start))
	}
	return nil
}

// Update sets the given columns on every matching row
func (q *QueryBuilder[T]) Update(ctx context.Context, columns map[string]any) (int, error) {
	if len(columns) == 0 {
		return 0, nil
	}
	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	query := q.db.NewUpdate().Model((*T)(nil))
	for col, value := range columns {
		query = query.Set("? = ?", bun.Ident(col), value)
	}
	query = q.applyWhereConditionsToUpdate(query)

	start := time.Now()
	res, err := query.Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to execute update query: %w (took %v)", err, time.Since(start))
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

// Delete deletes records matching the query
func (q *QueryBuilder[T]) Delete(ctx context.Context) (int, error) {
	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	query := q.applyWhereConditionsToDelete(q.db.NewDelete().Model((*T)(nil)))

	start := time.Now()
	res, err := query.Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to execute delete query: %w (took %v)", err, time.Since(start))
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}
