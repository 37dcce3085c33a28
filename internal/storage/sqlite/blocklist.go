package sqlite

import (
	"context"
	"time"

	"github.com/jonathan/jobfiltr/internal/storage"
	"github.com/jonathan/jobfiltr/internal/types"
)

// GetCommunityBlocklist returns the locally imported blocklist.
func (s *Store) GetCommunityBlocklist(ctx context.Context) ([]types.BlocklistEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT company_name, company_name_normalized, category, verified, confidence, submitted_count, updated_at
FROM blocklist
ORDER BY company_name_normalized`)
	if err != nil {
		return nil, &storage.StoreError{Op: "get blocklist", Cause: err}
	}
	defer func() { _ = rows.Close() }()

	var entries []types.BlocklistEntry
	for rows.Next() {
		var (
			e        types.BlocklistEntry
			category string
			verified int
			updated  int64
		)
		if err := rows.Scan(&e.CompanyName, &e.CompanyNameNormalized, &category, &verified,
			&e.Confidence, &e.SubmittedCount, &updated); err != nil {
			return nil, &storage.StoreError{Op: "get blocklist", Cause: err}
		}
		e.Category = types.ReportCategory(category)
		e.Verified = verified != 0
		e.UpdatedAt = time.UnixMilli(updated).UTC()
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, &storage.StoreError{Op: "get blocklist", Cause: err}
	}
	return entries, nil
}

// ImportBlocklist upserts entries by normalized name in one transaction.
func (s *Store) ImportBlocklist(ctx context.Context, entries []types.BlocklistEntry) (int, error) {
	prepared, err := storage.PrepareBlocklist(entries, s.now())
	if err != nil {
		return 0, &storage.StoreError{Op: "import blocklist", Cause: err}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, &storage.StoreError{Op: "import blocklist", Cause: err}
	}
	defer func() { _ = tx.Rollback() }()

	for _, e := range prepared {
		verified := 0
		if e.Verified {
			verified = 1
		}
		_, err := tx.ExecContext(ctx, `
INSERT INTO blocklist (company_name_normalized, company_name, category, verified, confidence, submitted_count, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(company_name_normalized) DO UPDATE SET
  company_name = excluded.company_name,
  category = excluded.category,
  verified = excluded.verified,
  confidence = excluded.confidence,
  submitted_count = excluded.submitted_count,
  updated_at = excluded.updated_at`,
			e.CompanyNameNormalized, e.CompanyName, string(e.Category), verified,
			e.Confidence, e.SubmittedCount, e.UpdatedAt.UnixMilli())
		if err != nil {
			return 0, &storage.StoreError{Op: "import blocklist", Cause: err}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, &storage.StoreError{Op: "import blocklist", Cause: err}
	}
	return len(prepared), nil
}
