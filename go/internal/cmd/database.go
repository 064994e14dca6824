package main

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/debatify/go/internal/datastore"
	"github.com/mcdev12/debatify/go/internal/dbconfig"
)

// Database holds both Postgres handles. The timer record goes through
// database/sql, the debate tables through the pgx pool.
type Database struct {
	SQL  *sql.DB
	Pool *datastore.Client
}

func setupDatabase(ctx context.Context, dbConfig dbconfig.Config) (*Database, error) {
	dsn := dbConfig.DSN()

	database, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create database connection: %w", err)
	}

	if err := database.PingContext(ctx); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	pool, err := datastore.Connect(ctx, dsn)
	if err != nil {
		database.Close()
		return nil, err
	}

	log.Info().
		Str("user", dbConfig.User).
		Str("host", dbConfig.Host).
		Int("port", dbConfig.Port).
		Str("database", dbConfig.Name).
		Msg("connected to database")
	return &Database{SQL: database, Pool: pool}, nil
}

func (d *Database) Close() {
	d.Pool.Close()
	if err := d.SQL.Close(); err != nil {
		log.Warn().Err(err).Msg("failed to close database")
	}
}
