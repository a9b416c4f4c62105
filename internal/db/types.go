package db

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Candidacy status values. Status is free text; these are the ones the
// portal itself writes.
const (
	StatusPending = "Pending"
)

// User roles
const (
	RoleStudent = "student"
	RoleCompany = "company"
)

// ErrDuplicateCandidacy is returned by CreateCandidacy when the candidate
// already has a candidacy for the posting.
var ErrDuplicateCandidacy = errors.New("candidacy already exists for candidate and posting")

// Posting is a job opening published by a company
type Posting struct {
	ID           uuid.UUID  `json:"id"`
	Title        string     `json:"title"`
	Hours        string     `json:"hours"`
	Requirements string     `json:"requirements"`
	CompanyID    *uuid.UUID `json:"company_id,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// Candidacy is a candidate's application to one posting
type Candidacy struct {
	ID          uuid.UUID  `json:"id"`
	PostingID   uuid.UUID  `json:"posting_id"`
	CandidateID uuid.UUID  `json:"candidate_id"`
	CompanyID   *uuid.UUID `json:"company_id,omitempty"` // copied from the posting at creation
	SubmittedAt *time.Time `json:"submitted_at,omitempty"`
	Status      string     `json:"status"`
}

// CandidacyCreateInput holds the client-supplied fields of a new candidacy.
// The submission time is always assigned by the database.
type CandidacyCreateInput struct {
	PostingID   uuid.UUID
	CandidateID uuid.UUID
	CompanyID   *uuid.UUID
	Status      string
}

// UserProfile is the public identity of an account, used to display
// company names.
type UserProfile struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// User represents an account (student or company)
type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	PasswordHash string    `json:"-"` // Never serialize to JSON
	PasswordSet  bool      `json:"password_set"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsValidRole reports whether role is one the schema accepts.
func IsValidRole(role string) bool {
	return role == RoleStudent || role == RoleCompany
}
