// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package sqlexec runs the schema verification queries directly against
// Postgres over a pgx connection pool. It is the alternative to counting
// through PostgREST when the operator supplies a database URL.
package sqlexec

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"basesetup/cli/internal/dsn"
	apperr "basesetup/cli/internal/errors"
)

// Schema is the schema the storefront tables live in.
const Schema = "public"

// Counter counts rows with SELECT count(*) over a pool.
type Counter struct {
	// pool is the connection pool for executing count queries
	pool *pgxpool.Pool
	log  *zap.Logger
}

// Open validates rawURL, connects and pings the database within timeout.
func Open(ctx context.Context, rawURL string, timeout time.Duration, log *zap.Logger) (*Counter, error) {
	normalized, err := dsn.Normalize(rawURL)
	if err != nil {
		return nil, apperr.Wrap(apperr.Config, "database URL", err)
	}
	if log == nil {
		log = zap.NewNop()
	}

	ctxPing, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	pool, err := pgxpool.New(ctxPing, normalized)
	if err != nil {
		return nil, apperr.Wrap(apperr.Config, "database URL", err)
	}
	if err := pool.Ping(ctxPing); err != nil {
		pool.Close()
		return nil, apperr.Wrap(apperr.Network, "connect to database", err)
	}
	log.Debug("database connected", zap.String("dsn", dsnForLog(rawURL)))
	return &Counter{pool: pool, log: log}, nil
}

// Close releases the pool.
func (c *Counter) Close() {
	if c.pool != nil {
		c.pool.Close()
	}
}

// CountRows returns the number of rows in public.<table>.
func (c *Counter) CountRows(ctx context.Context, table string) (int64, error) {
	query := "SELECT count(*) FROM " + pgx.Identifier{Schema, table}.Sanitize()

	start := time.Now()
	var n int64
	err := c.pool.QueryRow(ctx, query).Scan(&n)
	c.log.Debug("count query",
		zap.String("table", table),
		zap.Duration("latency", time.Since(start)),
		zap.Error(err),
	)
	if err != nil {
		return 0, classify(table, err)
	}
	return n, nil
}

// classify maps a pgx failure onto an error kind. Server errors carry a
// SQLSTATE; anything else never reached the server.
func classify(table string, err error) error {
	msg := fmt.Sprintf("count rows in %s", table)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return apperr.Wrap(apperr.ClassifyQuery(pgErr.Code, pgErr.Message), msg, err)
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return apperr.Wrap(apperr.Network, msg, err)
	}
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return apperr.Wrap(apperr.Network, msg, err)
	}
	return apperr.Wrap(apperr.Unexpected, msg, err)
}

func dsnForLog(raw string) string {
	info, err := dsn.Parse(raw)
	if err != nil {
		return "(unparseable)"
	}
	return info.Masked()
}
