// Package portal implements the student portal flows: listing postings with
// their company names, listing a candidate's candidacies, and submitting a
// new candidacy.
package portal

import (
	"context"

	"github.com/google/uuid"
	"github.com/jonathan/futurotec/internal/db"
)

// Candidate is the signed-in student. It is passed explicitly into every
// flow; there is no ambient session state.
type Candidate struct {
	ID uuid.UUID
}

// Store is the document-store capability the portal needs. Lookups return
// nil, nil when the record does not exist.
type Store interface {
	ListPostings(ctx context.Context) ([]db.Posting, error)
	GetPostingByID(ctx context.Context, id uuid.UUID) (*db.Posting, error)
	GetUserProfile(ctx context.Context, id uuid.UUID) (*db.UserProfile, error)
	ListCandidaciesByCandidate(ctx context.Context, candidateID uuid.UUID) ([]db.Candidacy, error)
	FindCandidacies(ctx context.Context, candidateID, postingID uuid.UUID) ([]db.Candidacy, error)
	CreateCandidacy(ctx context.Context, input *db.CandidacyCreateInput) (*db.Candidacy, error)
}

// User-facing texts.
const (
	CompanyNotProvided  = "Company not provided"
	CompanyNameMissing  = "Unknown company (name missing)"
	CompanyNotFoundFmt  = "Company not found (ID: %s)"
	CompanyLoadFailed   = "Error loading company name"
	TitleNotProvided    = "Title not provided"
	NotInformed         = "Not informed"
	DeletedPostingTitle = "Posting deleted or expired"
	DateNotAvailable    = "N/A"

	LoadingPostings    = "Loading postings..."
	NoPostings         = "No postings available at the moment."
	PostingsLoadFailed = "Failed to load postings."

	LoadingCandidacies    = "Loading your candidacies..."
	NotAuthenticated      = "Error: user not authenticated."
	NoCandidacies         = "You have not applied to any posting yet."
	CandidaciesLoadFailed = "Could not load your candidacies."
)
