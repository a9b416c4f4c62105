package portal

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/jonathan/futurotec/internal/db"
	"github.com/jonathan/futurotec/internal/logging"
)

// Candidacy control labels.
const (
	LabelApply          = "Apply"
	LabelApplying       = "Applying..."
	LabelAlreadyApplied = "Already Applied"
	LabelSubmitted      = "Candidacy Submitted"
)

// Alerts shown to the candidate.
const (
	AlertSignInRequired  = "You must be signed in to apply!"
	AlertPostingNotFound = "Posting not found!"
	AlertAlreadyApplied  = "You have already applied to this posting."
	AlertSubmitted       = "Candidacy submitted successfully! 🎉"
	AlertSubmitFailed    = "An error occurred while submitting your candidacy."
)

// Control is the candidacy button of one posting card.
type Control interface {
	Disable(label string)
	Enable(label string)
	Alert(message string)
}

// Result is the terminal outcome of a submission.
type Result string

const (
	ResultSubmitted       Result = "submitted"
	ResultAlreadyApplied  Result = "already_applied"
	ResultPostingNotFound Result = "posting_not_found"
	ResultFailed          Result = "failed"
	ResultSignInRequired  Result = "sign_in_required"
)

// Submitter creates candidacies, at most one per candidate and posting.
type Submitter struct {
	store Store
	log   logging.Logger
}

// NewSubmitter creates a Submitter.
func NewSubmitter(store Store, log logging.Logger) *Submitter {
	return &Submitter{store: store, log: log}
}

// Submit applies candidate to the posting. The control is disabled at once,
// and ends up either in a terminal disabled state (submitted, already
// applied) or re-enabled so the candidate can retry.
//
// The duplicate check and the insert are separate round trips; a concurrent
// submission that slips between them is caught by the store's uniqueness
// constraint and reported as already applied.
func (s *Submitter) Submit(ctx context.Context, candidate *Candidate, postingID uuid.UUID, ctrl Control) Result {
	if candidate == nil {
		ctrl.Alert(AlertSignInRequired)
		return ResultSignInRequired
	}
	ctrl.Disable(LabelApplying)

	log := s.log.With("candidate_id", candidate.ID.String(), "posting_id", postingID.String())

	posting, err := s.store.GetPostingByID(ctx, postingID)
	if err != nil {
		return s.fail(ctx, log, ctrl, err)
	}
	if posting == nil {
		ctrl.Alert(AlertPostingNotFound)
		ctrl.Enable(LabelApply)
		return ResultPostingNotFound
	}

	existing, err := s.store.FindCandidacies(ctx, candidate.ID, postingID)
	if err != nil {
		return s.fail(ctx, log, ctrl, err)
	}
	if len(existing) > 0 {
		return alreadyApplied(ctrl)
	}

	created, err := s.store.CreateCandidacy(ctx, &db.CandidacyCreateInput{
		PostingID:   postingID,
		CandidateID: candidate.ID,
		CompanyID:   posting.CompanyID,
		Status:      db.StatusPending,
	})
	if errors.Is(err, db.ErrDuplicateCandidacy) {
		log.Warn(ctx, "concurrent duplicate candidacy rejected by store")
		return alreadyApplied(ctrl)
	}
	if err != nil {
		return s.fail(ctx, log, ctrl, err)
	}

	log.Info(ctx, "candidacy submitted", "candidacy_id", created.ID.String())
	ctrl.Alert(AlertSubmitted)
	ctrl.Disable(LabelSubmitted)
	return ResultSubmitted
}

func alreadyApplied(ctrl Control) Result {
	ctrl.Alert(AlertAlreadyApplied)
	ctrl.Disable(LabelAlreadyApplied)
	return ResultAlreadyApplied
}

func (s *Submitter) fail(ctx context.Context, log logging.Logger, ctrl Control, err error) Result {
	log.Error(ctx, "failed to submit candidacy", "err", err)
	ctrl.Alert(AlertSubmitFailed)
	ctrl.Enable(LabelApply)
	return ResultFailed
}

// ControlState is a snapshot of a Control.
type ControlState struct {
	Label    string `json:"label"`
	Disabled bool   `json:"disabled"`
}

// ButtonRecorder is a Control that records its state changes and alerts,
// used to report a submission back to the browser.
type ButtonRecorder struct {
	mu     sync.Mutex
	states []ControlState
	alerts []string
}

// NewButtonRecorder returns a recorder whose initial state is the enabled
// apply button.
func NewButtonRecorder() *ButtonRecorder {
	return &ButtonRecorder{states: []ControlState{{Label: LabelApply}}}
}

// Disable records a disabled state showing label.
func (b *ButtonRecorder) Disable(label string) { b.push(ControlState{Label: label, Disabled: true}) }

// Enable records an enabled state showing label.
func (b *ButtonRecorder) Enable(label string) { b.push(ControlState{Label: label}) }

// Alert records a message for the user.
func (b *ButtonRecorder) Alert(message string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.alerts = append(b.alerts, message)
}

func (b *ButtonRecorder) push(s ControlState) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.states = append(b.states, s)
}

// State returns the latest control state.
func (b *ButtonRecorder) State() ControlState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.states[len(b.states)-1]
}

// States returns every state in order, starting with the initial one.
func (b *ButtonRecorder) States() []ControlState {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]ControlState, len(b.states))
	copy(out, b.states)
	return out
}

// Alerts returns every alert in order.
func (b *ButtonRecorder) Alerts() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.alerts))
	copy(out, b.alerts)
	return out
}
