package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonathan/jobfiltr/internal/companies"
	"github.com/jonathan/jobfiltr/internal/storage"
	"github.com/jonathan/jobfiltr/internal/types"
)

// -----------------------------------------------------------------------------
// Community Blocklist
// -----------------------------------------------------------------------------

// GetCommunityBlocklist returns every blocklisted company ordered by normalized name
func (db *DB) GetCommunityBlocklist(ctx context.Context) ([]types.BlocklistEntry, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT company_name, company_name_normalized, category, verified, confidence, submitted_count, updated_at
		 FROM community_blocklist
		 ORDER BY company_name_normalized`)
	if err != nil {
		return nil, fmt.Errorf("failed to query blocklist: %w", err)
	}
	defer rows.Close()

	var entries []types.BlocklistEntry
	for rows.Next() {
		var (
			e        types.BlocklistEntry
			category string
		)
		if err := rows.Scan(&e.CompanyName, &e.CompanyNameNormalized, &category, &e.Verified,
			&e.Confidence, &e.SubmittedCount, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan blocklist entry: %w", err)
		}
		e.Category = types.ReportCategory(category)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read blocklist: %w", err)
	}
	return entries, nil
}

// ImportBlocklist upserts entries by normalized name in one batch
func (db *DB) ImportBlocklist(ctx context.Context, entries []types.BlocklistEntry) (int, error) {
	prepared, err := storage.PrepareBlocklist(entries, time.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to prepare blocklist: %w", err)
	}
	if len(prepared) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	for _, e := range prepared {
		batch.Queue(
			`INSERT INTO community_blocklist
			   (company_name_normalized, company_name, category, verified, confidence, submitted_count, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)
			 ON CONFLICT (company_name_normalized) DO UPDATE SET
			   company_name = $2, category = $3, verified = $4, confidence = $5,
			   submitted_count = $6, updated_at = $7`,
			e.CompanyNameNormalized, e.CompanyName, string(e.Category), e.Verified,
			e.Confidence, e.SubmittedCount, e.UpdatedAt,
		)
	}

	br := db.pool.SendBatch(ctx, batch)
	defer func() { _ = br.Close() }()
	for _, e := range prepared {
		if _, err := br.Exec(); err != nil {
			return 0, fmt.Errorf("failed to import %s: %w", e.CompanyName, err)
		}
	}
	return len(prepared), nil
}

// ReportCompany records a report and bumps the company's submitted count,
// creating an unverified blocklist entry on the first report
func (db *DB) ReportCompany(ctx context.Context, report Report) (*ReportRecord, error) {
	if err := report.Validate(); err != nil {
		return nil, fmt.Errorf("invalid report: %w", err)
	}
	normalized := companies.NormalizeName(report.CompanyName)
	if normalized == "" {
		return nil, fmt.Errorf("company name cannot be empty")
	}

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	rec := ReportRecord{ID: uuid.New(), Report: report}
	err = tx.QueryRow(ctx,
		`INSERT INTO company_reports (id, company_name, company_name_normalized, category, reason, job_id)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING created_at`,
		rec.ID, report.CompanyName, normalized, string(report.Category), report.Reason, report.JobID,
	).Scan(&rec.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to save report: %w", err)
	}

	var category string
	err = tx.QueryRow(ctx,
		`INSERT INTO community_blocklist (company_name_normalized, company_name, category, submitted_count)
		 VALUES ($1, $2, $3, 1)
		 ON CONFLICT (company_name_normalized) DO UPDATE SET
		   submitted_count = community_blocklist.submitted_count + 1,
		   category = CASE WHEN community_blocklist.category = '' THEN EXCLUDED.category
		                   ELSE community_blocklist.category END,
		   updated_at = NOW()
		 RETURNING company_name, company_name_normalized, category, verified, confidence, submitted_count, updated_at`,
		normalized, report.CompanyName, string(report.Category),
	).Scan(&rec.Entry.CompanyName, &rec.Entry.CompanyNameNormalized, &category, &rec.Entry.Verified,
		&rec.Entry.Confidence, &rec.Entry.SubmittedCount, &rec.Entry.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to update blocklist: %w", err)
	}
	rec.Entry.Category = types.ReportCategory(category)

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit report: %w", err)
	}
	return &rec, nil
}

// CountReports returns how many reports a company has received
func (db *DB) CountReports(ctx context.Context, company string) (int, error) {
	var n int
	err := db.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM company_reports WHERE company_name_normalized = $1`,
		companies.NormalizeName(company),
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count reports: %w", err)
	}
	return n, nil
}
