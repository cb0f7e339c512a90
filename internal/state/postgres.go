package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/brainbolt/backend/internal/models"
)

// Postgres stores state as JSONB with the version in its own column;
// a swap is a conditional UPDATE (or INSERT for a fresh identity).
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (p *Postgres) Load(ctx context.Context, identity string) (models.AdaptiveState, int64, error) {
	var version int64
	var raw []byte
	err := p.db.QueryRowContext(ctx,
		`SELECT version, state FROM adaptive_states WHERE identity = $1`,
		identity,
	).Scan(&version, &raw)
	if errors.Is(err, sql.ErrNoRows) {
		return models.NewAdaptiveState(), 0, nil
	}
	if err != nil {
		return models.AdaptiveState{}, 0, fmt.Errorf("load state: %w", err)
	}
	s, err := decode(raw)
	if err != nil {
		return models.AdaptiveState{}, 0, err
	}
	return s, version, nil
}

func (p *Postgres) CompareAndSwap(ctx context.Context, identity string, expected int64, next models.AdaptiveState) (int64, error) {
	payload, err := encode(next)
	if err != nil {
		return 0, err
	}

	var res sql.Result
	if expected == 0 {
		res, err = p.db.ExecContext(ctx,
			`INSERT INTO adaptive_states (identity, version, state)
			 VALUES ($1, 1, $2)
			 ON CONFLICT (identity) DO NOTHING`,
			identity, payload,
		)
	} else {
		res, err = p.db.ExecContext(ctx,
			`UPDATE adaptive_states
			 SET version = version + 1, state = $3, updated_at = NOW()
			 WHERE identity = $1 AND version = $2`,
			identity, expected, payload,
		)
	}
	if err != nil {
		return 0, fmt.Errorf("swap state: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("swap state rows: %w", err)
	}
	if n == 1 {
		return expected + 1, nil
	}

	var cur int64
	err = p.db.QueryRowContext(ctx,
		`SELECT version FROM adaptive_states WHERE identity = $1`, identity,
	).Scan(&cur)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("read state version: %w", err)
	}
	return 0, &ConflictError{Current: cur}
}
