package portal_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jonathan/futurotec/internal/db"
	"github.com/jonathan/futurotec/internal/logging"
	"github.com/jonathan/futurotec/internal/portal"
	"github.com/jonathan/futurotec/internal/portal/portaltest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitter_Success(t *testing.T) {
	store := portaltest.New()
	acme := store.AddCompany("Acme")
	posting := store.AddPosting(db.Posting{Title: "Backend Intern", CompanyID: &acme})
	candidate := &portal.Candidate{ID: uuid.New()}
	btn := portal.NewButtonRecorder()

	result := portal.NewSubmitter(store, logging.Discard()).Submit(context.Background(), candidate, posting.ID, btn)

	assert.Equal(t, portal.ResultSubmitted, result)
	assert.Equal(t, []portal.ControlState{
		{Label: portal.LabelApply},
		{Label: portal.LabelApplying, Disabled: true},
		{Label: portal.LabelSubmitted, Disabled: true},
	}, btn.States())
	assert.Equal(t, []string{portal.AlertSubmitted}, btn.Alerts())

	stored := store.Candidacies()
	require.Len(t, stored, 1)
	assert.Equal(t, posting.ID, stored[0].PostingID)
	assert.Equal(t, candidate.ID, stored[0].CandidateID)
	require.NotNil(t, stored[0].CompanyID)
	assert.Equal(t, acme, *stored[0].CompanyID)
	assert.Equal(t, db.StatusPending, stored[0].Status)
	assert.NotNil(t, stored[0].SubmittedAt)
}

func TestSubmitter_SecondSubmitDoesNotInsert(t *testing.T) {
	store := portaltest.New()
	store.Unique = false
	posting := store.AddPosting(db.Posting{Title: "Backend Intern"})
	candidate := &portal.Candidate{ID: uuid.New()}
	s := portal.NewSubmitter(store, logging.Discard())

	require.Equal(t, portal.ResultSubmitted, s.Submit(context.Background(), candidate, posting.ID, portal.NewButtonRecorder()))

	btn := portal.NewButtonRecorder()
	result := s.Submit(context.Background(), candidate, posting.ID, btn)

	assert.Equal(t, portal.ResultAlreadyApplied, result)
	assert.Equal(t, portal.ControlState{Label: portal.LabelAlreadyApplied, Disabled: true}, btn.State())
	assert.Equal(t, []string{portal.AlertAlreadyApplied}, btn.Alerts())
	assert.Len(t, store.Candidacies(), 1)
	assert.Equal(t, 1, store.CreateCandidacyCalls)
}

func TestSubmitter_UniqueViolationIsAlreadyApplied(t *testing.T) {
	store := portaltest.New()
	posting := store.AddPosting(db.Posting{Title: "Backend Intern"})
	candidate := &portal.Candidate{ID: uuid.New()}
	// a concurrent submission won the race after the duplicate check
	store.CreateErr = db.ErrDuplicateCandidacy
	btn := portal.NewButtonRecorder()

	result := portal.NewSubmitter(store, logging.Discard()).Submit(context.Background(), candidate, posting.ID, btn)

	assert.Equal(t, portal.ResultAlreadyApplied, result)
	assert.Equal(t, portal.ControlState{Label: portal.LabelAlreadyApplied, Disabled: true}, btn.State())
}

func TestSubmitter_PostingNotFound(t *testing.T) {
	store := portaltest.New()
	btn := portal.NewButtonRecorder()

	result := portal.NewSubmitter(store, logging.Discard()).Submit(context.Background(), &portal.Candidate{ID: uuid.New()}, uuid.New(), btn)

	assert.Equal(t, portal.ResultPostingNotFound, result)
	assert.Equal(t, portal.ControlState{Label: portal.LabelApply}, btn.State())
	assert.Equal(t, []string{portal.AlertPostingNotFound}, btn.Alerts())
	assert.Zero(t, store.CreateCandidacyCalls)
}

func TestSubmitter_FailuresAreRetryable(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*portaltest.Store)
	}{
		{"posting lookup", func(s *portaltest.Store) { s.GetPostingErr = errors.New("unavailable") }},
		{"duplicate check", func(s *portaltest.Store) { s.FindErr = errors.New("unavailable") }},
		{"insert", func(s *portaltest.Store) { s.CreateErr = errors.New("permission denied") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := portaltest.New()
			posting := store.AddPosting(db.Posting{Title: "Backend Intern"})
			tt.setup(store)
			btn := portal.NewButtonRecorder()

			result := portal.NewSubmitter(store, logging.Discard()).Submit(context.Background(), &portal.Candidate{ID: uuid.New()}, posting.ID, btn)

			assert.Equal(t, portal.ResultFailed, result)
			assert.Equal(t, portal.ControlState{Label: portal.LabelApply}, btn.State())
			assert.Equal(t, []string{portal.AlertSubmitFailed}, btn.Alerts())
			assert.Empty(t, store.Candidacies())
		})
	}
}

func TestSubmitter_NoCandidate(t *testing.T) {
	store := portaltest.New()
	posting := store.AddPosting(db.Posting{Title: "Backend Intern"})
	btn := portal.NewButtonRecorder()

	result := portal.NewSubmitter(store, logging.Discard()).Submit(context.Background(), nil, posting.ID, btn)

	assert.Equal(t, portal.ResultSignInRequired, result)
	assert.Equal(t, []portal.ControlState{{Label: portal.LabelApply}}, btn.States())
	assert.Equal(t, []string{portal.AlertSignInRequired}, btn.Alerts())
	assert.Zero(t, store.PostingLookupCalls)
}
