package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/jonathan/jobfiltr/internal/storage"
	"github.com/jonathan/jobfiltr/internal/types"
)

// GetScore returns the cached score for jobID, or nil when missing or expired.
func (s *Store) GetScore(ctx context.Context, jobID string) (*types.CachedScore, error) {
	var (
		version   string
		expiresAt int64
		data      string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT version, expires_at, data FROM score_cache WHERE job_id = ?`, jobID,
	).Scan(&version, &expiresAt, &data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, &storage.StoreError{Op: "get score", Cause: err}
	}

	expires := time.UnixMilli(expiresAt)
	if !expires.After(s.now()) {
		if _, err := s.db.ExecContext(ctx, `DELETE FROM score_cache WHERE job_id = ?`, jobID); err != nil {
			return nil, &storage.StoreError{Op: "evict score", Cause: err}
		}
		return nil, nil
	}

	var score types.Score
	if err := json.Unmarshal([]byte(data), &score); err != nil {
		return nil, &storage.StoreError{Op: "decode score", Cause: err}
	}
	return &types.CachedScore{Data: score, ExpiresAt: expires, Version: version}, nil
}

// SetScore stores score under jobID. The last write wins.
func (s *Store) SetScore(ctx context.Context, jobID string, score types.Score, ttl time.Duration) error {
	data, err := json.Marshal(score)
	if err != nil {
		return &storage.StoreError{Op: "encode score", Cause: err}
	}
	_, err = s.db.ExecContext(ctx, `
INSERT INTO score_cache (job_id, version, expires_at, data) VALUES (?, ?, ?, ?)
ON CONFLICT(job_id) DO UPDATE SET
  version = excluded.version,
  expires_at = excluded.expires_at,
  data = excluded.data`,
		jobID, score.AlgorithmVersion, s.now().Add(ttl).UnixMilli(), string(data))
	if err != nil {
		return &storage.StoreError{Op: "set score", Cause: err}
	}
	return nil
}

// PruneScores deletes every expired score and returns how many were removed.
func (s *Store) PruneScores(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM score_cache WHERE expires_at <= ?`, s.now().UnixMilli())
	if err != nil {
		return 0, &storage.StoreError{Op: "prune scores", Cause: err}
	}
	return res.RowsAffected()
}
