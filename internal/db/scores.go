package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jonathan/jobfiltr/internal/types"
)

// -----------------------------------------------------------------------------
// Shared Score Cache
// -----------------------------------------------------------------------------

// GetScore returns the cached score for jobID, or nil when missing or expired
func (db *DB) GetScore(ctx context.Context, jobID string) (*types.CachedScore, error) {
	var (
		c    types.CachedScore
		data []byte
	)
	err := db.pool.QueryRow(ctx,
		`SELECT version, expires_at, data FROM score_cache WHERE job_id = $1 AND expires_at > NOW()`,
		jobID,
	).Scan(&c.Version, &c.ExpiresAt, &data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get score %s: %w", jobID, err)
	}
	if err := json.Unmarshal(data, &c.Data); err != nil {
		return nil, fmt.Errorf("failed to decode score %s: %w", jobID, err)
	}
	return &c, nil
}

// SetScore stores score under jobID. The last write wins.
func (db *DB) SetScore(ctx context.Context, jobID string, score types.Score, ttl time.Duration) error {
	data, err := json.Marshal(score)
	if err != nil {
		return fmt.Errorf("failed to marshal score: %w", err)
	}
	_, err = db.pool.Exec(ctx,
		`INSERT INTO score_cache (job_id, version, expires_at, data)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (job_id) DO UPDATE SET version = $2, expires_at = $3, data = $4`,
		jobID, score.AlgorithmVersion, time.Now().Add(ttl), data,
	)
	if err != nil {
		return fmt.Errorf("failed to save score %s: %w", jobID, err)
	}
	return nil
}

// PruneScores deletes expired scores and returns how many were removed
func (db *DB) PruneScores(ctx context.Context) (int64, error) {
	tag, err := db.pool.Exec(ctx, `DELETE FROM score_cache WHERE expires_at <= NOW()`)
	if err != nil {
		return 0, fmt.Errorf("failed to prune scores: %w", err)
	}
	return tag.RowsAffected(), nil
}
