// Package portaltest provides an in-memory store for tests of the portal
// flows and the HTTP server.
package portaltest

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/futurotec/internal/db"
)

// Store is an in-memory implementation of the portal and user store
// methods. Fields ending in Err inject failures; ProfileDelay slows down
// individual company lookups.
type Store struct {
	mu sync.Mutex

	postings    []db.Posting
	candidacies []db.Candidacy
	users       map[uuid.UUID]*db.User

	// Unique makes CreateCandidacy reject a second candidacy for the same
	// candidate and posting, like the database constraint.
	Unique bool
	Now    func() time.Time

	ListPostingsErr    error
	GetPostingErr      error
	ListCandidaciesErr error
	FindErr            error
	CreateErr          error
	ProfileErr         map[uuid.UUID]error
	ProfileDelay       map[uuid.UUID]time.Duration

	ProfileCalls         int
	ListCandidacyCalls   int
	PostingLookupCalls   int
	CreateCandidacyCalls int
}

// New returns an empty store that enforces candidacy uniqueness.
func New() *Store {
	return &Store{
		users:        make(map[uuid.UUID]*db.User),
		Unique:       true,
		Now:          time.Now,
		ProfileErr:   make(map[uuid.UUID]error),
		ProfileDelay: make(map[uuid.UUID]time.Duration),
	}
}

// AddCompany registers a company account and returns its id.
func (s *Store) AddCompany(name string) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.New()
	s.users[id] = &db.User{ID: id, Name: name, Role: db.RoleCompany}
	return id
}

// AddPosting stores p, assigning an id and creation time when missing.
// Postings added later are newer.
func (s *Store) AddPosting(p db.Posting) db.Posting {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Unix(int64(len(s.postings)+1), 0)
	}
	s.postings = append(s.postings, p)
	return p
}

// RemovePosting deletes a posting, leaving its candidacies behind.
func (s *Store) RemovePosting(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, p := range s.postings {
		if p.ID == id {
			s.postings = append(s.postings[:i], s.postings[i+1:]...)
			return
		}
	}
}

// AddCandidacy stores c as is, bypassing uniqueness.
func (s *Store) AddCandidacy(c db.Candidacy) db.Candidacy {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	s.candidacies = append(s.candidacies, c)
	return c
}

// Candidacies returns a copy of every stored candidacy.
func (s *Store) Candidacies() []db.Candidacy {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]db.Candidacy, len(s.candidacies))
	copy(out, s.candidacies)
	return out
}

func (s *Store) ListPostings(_ context.Context) ([]db.Posting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ListPostingsErr != nil {
		return nil, s.ListPostingsErr
	}
	out := make([]db.Posting, len(s.postings))
	copy(out, s.postings)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) GetPostingByID(_ context.Context, id uuid.UUID) (*db.Posting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.PostingLookupCalls++
	if s.GetPostingErr != nil {
		return nil, s.GetPostingErr
	}
	for _, p := range s.postings {
		if p.ID == id {
			p := p
			return &p, nil
		}
	}
	return nil, nil
}

func (s *Store) GetUserProfile(ctx context.Context, id uuid.UUID) (*db.UserProfile, error) {
	s.mu.Lock()
	s.ProfileCalls++
	delay := s.ProfileDelay[id]
	err := s.ProfileErr[id]
	user := s.users[id]
	s.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}
	return &db.UserProfile{ID: user.ID, Name: user.Name}, nil
}

func (s *Store) ListCandidaciesByCandidate(_ context.Context, candidateID uuid.UUID) ([]db.Candidacy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ListCandidacyCalls++
	if s.ListCandidaciesErr != nil {
		return nil, s.ListCandidaciesErr
	}
	var out []db.Candidacy
	for _, c := range s.candidacies {
		if c.CandidateID == candidateID {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].SubmittedAt, out[j].SubmittedAt
		if a == nil || b == nil {
			return b == nil && a != nil
		}
		return a.After(*b)
	})
	return out, nil
}

func (s *Store) FindCandidacies(_ context.Context, candidateID, postingID uuid.UUID) ([]db.Candidacy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FindErr != nil {
		return nil, s.FindErr
	}
	var out []db.Candidacy
	for _, c := range s.candidacies {
		if c.CandidateID == candidateID && c.PostingID == postingID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *Store) CreateCandidacy(_ context.Context, input *db.CandidacyCreateInput) (*db.Candidacy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.CreateCandidacyCalls++
	if s.CreateErr != nil {
		return nil, s.CreateErr
	}
	if s.Unique {
		for _, c := range s.candidacies {
			if c.CandidateID == input.CandidateID && c.PostingID == input.PostingID {
				return nil, db.ErrDuplicateCandidacy
			}
		}
	}
	now := s.Now()
	status := input.Status
	if status == "" {
		status = db.StatusPending
	}
	c := db.Candidacy{
		ID:          uuid.New(),
		PostingID:   input.PostingID,
		CandidateID: input.CandidateID,
		CompanyID:   input.CompanyID,
		SubmittedAt: &now,
		Status:      status,
	}
	s.candidacies = append(s.candidacies, c)
	return &c, nil
}

// User methods

func (s *Store) CreateUser(_ context.Context, name, email, role string) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return uuid.Nil, errors.New("duplicate email")
		}
	}
	id := uuid.New()
	now := s.Now()
	s.users[id] = &db.User{ID: id, Name: name, Email: email, Role: role, CreatedAt: now, UpdatedAt: now}
	return id, nil
}

func (s *Store) GetUser(_ context.Context, id uuid.UUID) (*db.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (*db.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email != "" && strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *Store) CheckEmailExists(ctx context.Context, email string) (bool, error) {
	u, err := s.GetUserByEmail(ctx, email)
	return u != nil, err
}

func (s *Store) UpdatePassword(_ context.Context, id uuid.UUID, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return errors.New("user not found")
	}
	u.PasswordHash = passwordHash
	u.PasswordSet = true
	u.UpdatedAt = s.Now()
	return nil
}
