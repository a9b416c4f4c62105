package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ListPostings retrieves every posting, newest first
func (db *DB) ListPostings(ctx context.Context) ([]Posting, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, COALESCE(title, ''), COALESCE(hours, ''), COALESCE(requirements, ''),
		        company_id, created_at
		 FROM postings
		 ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list postings: %w", err)
	}
	defer rows.Close()

	var postings []Posting
	for rows.Next() {
		var p Posting
		if err := rows.Scan(&p.ID, &p.Title, &p.Hours, &p.Requirements, &p.CompanyID, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan posting: %w", err)
		}
		postings = append(postings, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate postings: %w", err)
	}
	return postings, nil
}

// GetPostingByID retrieves a posting by its ID. Returns nil, nil when the
// posting does not exist.
func (db *DB) GetPostingByID(ctx context.Context, id uuid.UUID) (*Posting, error) {
	var p Posting
	err := db.pool.QueryRow(ctx,
		`SELECT id, COALESCE(title, ''), COALESCE(hours, ''), COALESCE(requirements, ''),
		        company_id, created_at
		 FROM postings WHERE id = $1`,
		id,
	).Scan(&p.ID, &p.Title, &p.Hours, &p.Requirements, &p.CompanyID, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get posting: %w", err)
	}
	return &p, nil
}

// CreatePosting inserts a posting; used by seeding and tests.
func (db *DB) CreatePosting(ctx context.Context, title, hours, requirements string, companyID *uuid.UUID) (*Posting, error) {
	var p Posting
	err := db.pool.QueryRow(ctx,
		`INSERT INTO postings (title, hours, requirements, company_id)
		 VALUES (NULLIF($1, ''), NULLIF($2, ''), NULLIF($3, ''), $4)
		 RETURNING id, COALESCE(title, ''), COALESCE(hours, ''), COALESCE(requirements, ''),
		           company_id, created_at`,
		title, hours, requirements, companyID,
	).Scan(&p.ID, &p.Title, &p.Hours, &p.Requirements, &p.CompanyID, &p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create posting: %w", err)
	}
	return &p, nil
}

// DeletePosting removes a posting. Candidacies referencing it are kept.
func (db *DB) DeletePosting(ctx context.Context, id uuid.UUID) error {
	result, err := db.pool.Exec(ctx, `DELETE FROM postings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete posting: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("posting not found: %s", id)
	}
	return nil
}
