package portal_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/futurotec/internal/db"
	"github.com/jonathan/futurotec/internal/logging"
	"github.com/jonathan/futurotec/internal/portal"
	"github.com/jonathan/futurotec/internal/portal/portaltest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCandidacyLoader(store *portaltest.Store) *portal.CandidacyLoader {
	log := logging.Discard()
	return portal.NewCandidacyLoader(store, portal.NewResolver(store, log), log, "02/01/2006")
}

func ptr[T any](v T) *T { return &v }

func TestCandidacyLoader_RendersCards(t *testing.T) {
	store := portaltest.New()
	acme := store.AddCompany("Acme")
	posting := store.AddPosting(db.Posting{Title: "Backend Intern", CompanyID: &acme})
	candidate := &portal.Candidate{ID: uuid.New()}

	older := time.Date(2024, 3, 5, 10, 0, 0, 0, time.Local)
	newer := time.Date(2024, 4, 1, 9, 30, 0, 0, time.Local)
	store.AddCandidacy(db.Candidacy{PostingID: posting.ID, CandidateID: candidate.ID, CompanyID: &acme, SubmittedAt: &older, Status: "Approved"})
	store.AddCandidacy(db.Candidacy{PostingID: posting.ID, CandidateID: candidate.ID, CompanyID: &acme, SubmittedAt: &newer})
	store.AddCandidacy(db.Candidacy{PostingID: posting.ID, CandidateID: uuid.New(), SubmittedAt: &newer})

	rec := &portal.SectionRecorder{}
	newCandidacyLoader(store).Load(context.Background(), candidate, rec)

	history := rec.History()
	require.Len(t, history, 2)
	assert.Equal(t, portal.LoadingCandidacies, history[0].Message)

	cards := history[1].Candidacies
	require.Len(t, cards, 2)
	assert.Equal(t, "01/04/2024", cards[0].SubmittedOn)
	assert.Equal(t, db.StatusPending, cards[0].Status)
	assert.Equal(t, "05/03/2024", cards[1].SubmittedOn)
	assert.Equal(t, "Approved", cards[1].Status)
	for _, c := range cards {
		assert.Equal(t, "Backend Intern", c.Title)
		assert.Equal(t, "Acme", c.CompanyName)
		assert.NotEmpty(t, c.SubmittedAgo)
	}
}

func TestCandidacyLoader_OrderSurvivesSlowLookups(t *testing.T) {
	store := portaltest.New()
	slow := store.AddCompany("Slow Co")
	fast := store.AddCompany("Fast Co")
	store.ProfileDelay[slow] = 50 * time.Millisecond
	slowPosting := store.AddPosting(db.Posting{Title: "P1", CompanyID: &slow})
	fastPosting := store.AddPosting(db.Posting{Title: "P2", CompanyID: &fast})
	candidate := &portal.Candidate{ID: uuid.New()}

	newest := time.Date(2024, 5, 2, 0, 0, 0, 0, time.Local)
	oldest := time.Date(2024, 5, 1, 0, 0, 0, 0, time.Local)
	store.AddCandidacy(db.Candidacy{PostingID: fastPosting.ID, CandidateID: candidate.ID, SubmittedAt: &oldest})
	store.AddCandidacy(db.Candidacy{PostingID: slowPosting.ID, CandidateID: candidate.ID, SubmittedAt: &newest})

	rec := &portal.SectionRecorder{}
	newCandidacyLoader(store).Load(context.Background(), candidate, rec)

	cards := rec.Current().Candidacies
	require.Len(t, cards, 2)
	assert.Equal(t, "P1", cards[0].Title)
	assert.Equal(t, "Slow Co", cards[0].CompanyName)
	assert.Equal(t, "P2", cards[1].Title)
	assert.Equal(t, "Fast Co", cards[1].CompanyName)
}

func TestCandidacyLoader_DeletedPosting(t *testing.T) {
	store := portaltest.New()
	acme := store.AddCompany("Acme")
	posting := store.AddPosting(db.Posting{Title: "Gone soon", CompanyID: &acme})
	candidate := &portal.Candidate{ID: uuid.New()}
	store.AddCandidacy(db.Candidacy{PostingID: posting.ID, CandidateID: candidate.ID, CompanyID: &acme, SubmittedAt: ptr(time.Now())})
	store.RemovePosting(posting.ID)

	rec := &portal.SectionRecorder{}
	newCandidacyLoader(store).Load(context.Background(), candidate, rec)

	cards := rec.Current().Candidacies
	require.Len(t, cards, 1)
	assert.Equal(t, portal.DeletedPostingTitle, cards[0].Title)
	assert.Equal(t, portal.CompanyNotProvided, cards[0].CompanyName)
}

func TestCandidacyLoader_MissingTimestamp(t *testing.T) {
	store := portaltest.New()
	posting := store.AddPosting(db.Posting{Title: "Fresh"})
	candidate := &portal.Candidate{ID: uuid.New()}
	store.AddCandidacy(db.Candidacy{PostingID: posting.ID, CandidateID: candidate.ID})

	rec := &portal.SectionRecorder{}
	newCandidacyLoader(store).Load(context.Background(), candidate, rec)

	cards := rec.Current().Candidacies
	require.Len(t, cards, 1)
	assert.Equal(t, portal.DateNotAvailable, cards[0].SubmittedOn)
	assert.Empty(t, cards[0].SubmittedAgo)
}

func TestCandidacyLoader_NoCandidate(t *testing.T) {
	store := portaltest.New()

	rec := &portal.SectionRecorder{}
	newCandidacyLoader(store).Load(context.Background(), nil, rec)

	assert.Equal(t, portal.SectionError, rec.Current().Kind)
	assert.Equal(t, portal.NotAuthenticated, rec.Current().Message)
	assert.Zero(t, store.ListCandidacyCalls)
}

func TestCandidacyLoader_Empty(t *testing.T) {
	store := portaltest.New()

	rec := &portal.SectionRecorder{}
	newCandidacyLoader(store).Load(context.Background(), &portal.Candidate{ID: uuid.New()}, rec)

	assert.Equal(t, portal.SectionInfo, rec.Current().Kind)
	assert.Equal(t, portal.NoCandidacies, rec.Current().Message)
	assert.Zero(t, store.PostingLookupCalls)
}

func TestCandidacyLoader_Failures(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*portaltest.Store)
	}{
		{"list fails", func(s *portaltest.Store) { s.ListCandidaciesErr = errors.New("boom") }},
		{"posting lookup fails", func(s *portaltest.Store) { s.GetPostingErr = errors.New("boom") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := portaltest.New()
			posting := store.AddPosting(db.Posting{Title: "X"})
			candidate := &portal.Candidate{ID: uuid.New()}
			store.AddCandidacy(db.Candidacy{PostingID: posting.ID, CandidateID: candidate.ID})
			tt.setup(store)

			rec := &portal.SectionRecorder{}
			newCandidacyLoader(store).Load(context.Background(), candidate, rec)

			assert.Equal(t, portal.SectionError, rec.Current().Kind)
			assert.Equal(t, portal.CandidaciesLoadFailed, rec.Current().Message)
			assert.Empty(t, rec.Current().Candidacies)
		})
	}
}
