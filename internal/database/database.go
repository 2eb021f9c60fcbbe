// Package database persists rounds and users in Postgres via pgx. The live
// game never reads from here; writes happen asynchronously off the game
// lock.
package database

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DB is the shared connection pool. Nil until Connect succeeds; callers must
// check before persisting.
var DB *pgxpool.Pool

// Connect opens the pool and bootstraps the schema.
func Connect(ctx context.Context, url string) error {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return fmt.Errorf("pgx pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return fmt.Errorf("postgres ping: %w", err)
	}
	DB = pool
	return createTables(ctx)
}

func createTables(ctx context.Context) error {
	_, err := DB.Exec(ctx, `
CREATE TABLE IF NOT EXISTS users (
    id            UUID PRIMARY KEY,
    username      TEXT UNIQUE NOT NULL,
    password_hash TEXT NOT NULL,
    elo           INT  NOT NULL DEFAULT 1500,
    created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS rounds (
    game_id       UUID NOT NULL,
    round_number  INT  NOT NULL,
    initial_state JSONB,
    result        JSONB,
    created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
    PRIMARY KEY (game_id, round_number)
);`)
	return err
}

// UpsertInitialRoundState stores the dealt round so a completed game can be
// replayed or audited.
func UpsertInitialRoundState(gameID uuid.UUID, roundNumber int, snapshot interface{}) {
	data, err := json.Marshal(snapshot)
	if err != nil {
		log.Printf("Error: marshal initial round state for game %s: %v", gameID, err)
		return
	}
	_, err = DB.Exec(context.Background(), `
INSERT INTO rounds (game_id, round_number, initial_state)
VALUES ($1, $2, $3)
ON CONFLICT (game_id, round_number) DO UPDATE SET initial_state = EXCLUDED.initial_state`,
		gameID, roundNumber, data)
	if err != nil {
		log.Printf("Error: persist initial round state for game %s round %d: %v", gameID, roundNumber, err)
	}
}

// StoreRoundResult records the outcome and per-player score deltas.
func StoreRoundResult(ctx context.Context, gameID uuid.UUID, roundNumber int, result interface{}) {
	data, err := json.Marshal(result)
	if err != nil {
		log.Printf("Error: marshal round result for game %s: %v", gameID, err)
		return
	}
	_, err = DB.Exec(ctx, `
INSERT INTO rounds (game_id, round_number, result)
VALUES ($1, $2, $3)
ON CONFLICT (game_id, round_number) DO UPDATE SET result = EXCLUDED.result`,
		gameID, roundNumber, data)
	if err != nil {
		log.Printf("Error: persist round result for game %s round %d: %v", gameID, roundNumber, err)
	}
}
