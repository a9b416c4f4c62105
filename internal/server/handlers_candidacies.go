package server

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/jonathan/futurotec/internal/portal"
	"github.com/jonathan/futurotec/internal/types"
)

// handleSubmitCandidacy runs the submitter for the posting in the path and
// reports the final button state to the page script.
func (s *Server) handleSubmitCandidacy(w http.ResponseWriter, r *http.Request) {
	postingID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid posting ID")
		return
	}

	btn := portal.NewButtonRecorder()
	result := s.submitter.Submit(r.Context(), candidate(r), postingID, btn)

	state := btn.State()
	resp := types.CandidacyResponse{
		Result:   string(result),
		Label:    state.Label,
		Disabled: state.Disabled,
	}
	if alerts := btn.Alerts(); len(alerts) > 0 {
		resp.Alert = alerts[len(alerts)-1]
	}
	s.jsonResponse(w, candidacyStatus(result), resp)
}

func candidacyStatus(result portal.Result) int {
	switch result {
	case portal.ResultSubmitted:
		return http.StatusCreated
	case portal.ResultAlreadyApplied:
		return http.StatusConflict
	case portal.ResultPostingNotFound:
		return http.StatusNotFound
	case portal.ResultSignInRequired:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// handleJobsEvents streams the listing container: the loading section, then
// the final one. The route is mounted behind AuthMiddleware.
func (s *Server) handleJobsEvents(w http.ResponseWriter, r *http.Request) {
	s.stream(w, r, ContainerJobs, func(c portal.Container) {
		s.listings.Load(r.Context(), c)
	})
}

// handleCandidaciesEvents streams the candidacy container. Without a session
// the loader itself reports the missing user.
func (s *Server) handleCandidaciesEvents(w http.ResponseWriter, r *http.Request) {
	cand := candidate(r)
	s.stream(w, r, ContainerCandidacies, func(c portal.Container) {
		s.candidacies.Load(r.Context(), cand, c)
	})
}

func (s *Server) stream(w http.ResponseWriter, r *http.Request, id string, load func(portal.Container)) {
	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	c := &sseContainer{sse: sse, id: id}
	load(c)
	if c.err != nil {
		s.log.Warn(r.Context(), "event stream aborted", "container", id, "err", c.err)
		return
	}
	sse.WriteComplete(id)
}
