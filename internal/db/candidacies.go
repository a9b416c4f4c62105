package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// uniqueViolation is the PostgreSQL SQLSTATE for unique constraint violations.
const uniqueViolation = "23505"

const candidacyColumns = `id, posting_id, candidate_id, company_id, submitted_at, COALESCE(status, '')`

// ListCandidaciesByCandidate retrieves a candidate's candidacies, most
// recently submitted first
func (db *DB) ListCandidaciesByCandidate(ctx context.Context, candidateID uuid.UUID) ([]Candidacy, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+candidacyColumns+`
		 FROM candidacies
		 WHERE candidate_id = $1
		 ORDER BY submitted_at DESC NULLS LAST`,
		candidateID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list candidacies: %w", err)
	}
	return collectCandidacies(rows)
}

// FindCandidacies retrieves the candidacies of a candidate for one posting.
func (db *DB) FindCandidacies(ctx context.Context, candidateID, postingID uuid.UUID) ([]Candidacy, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+candidacyColumns+`
		 FROM candidacies
		 WHERE candidate_id = $1 AND posting_id = $2`,
		candidateID, postingID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to find candidacies: %w", err)
	}
	return collectCandidacies(rows)
}

// CreateCandidacy inserts a candidacy with a server-assigned submission time.
// Returns ErrDuplicateCandidacy if the pair already exists.
func (db *DB) CreateCandidacy(ctx context.Context, input *CandidacyCreateInput) (*Candidacy, error) {
	status := input.Status
	if status == "" {
		status = StatusPending
	}

	var c Candidacy
	err := db.pool.QueryRow(ctx,
		`INSERT INTO candidacies (posting_id, candidate_id, company_id, submitted_at, status)
		 VALUES ($1, $2, $3, NOW(), $4)
		 RETURNING `+candidacyColumns,
		input.PostingID, input.CandidateID, input.CompanyID, status,
	).Scan(&c.ID, &c.PostingID, &c.CandidateID, &c.CompanyID, &c.SubmittedAt, &c.Status)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, ErrDuplicateCandidacy
		}
		return nil, fmt.Errorf("failed to create candidacy: %w", err)
	}
	return &c, nil
}

func collectCandidacies(rows pgx.Rows) ([]Candidacy, error) {
	defer rows.Close()

	var out []Candidacy
	for rows.Next() {
		var c Candidacy
		if err := rows.Scan(&c.ID, &c.PostingID, &c.CandidateID, &c.CompanyID, &c.SubmittedAt, &c.Status); err != nil {
			return nil, fmt.Errorf("failed to scan candidacy: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate candidacies: %w", err)
	}
	return out, nil
}
