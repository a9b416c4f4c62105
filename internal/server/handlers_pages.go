package server

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/jonathan/futurotec/internal/gate"
	"github.com/jonathan/futurotec/internal/portal"
	"github.com/jonathan/futurotec/internal/types"
)

// Page container ids.
const (
	ContainerJobs        = "jobs-container"
	ContainerCandidacies = "candidacies-container"
)

const profileLoadFailed = "Could not load your profile."

//go:embed templates/*.html
var templateFS embed.FS

// pageSet holds one parsed template per page, each sharing the layout.
type pageSet struct {
	pages map[string]*template.Template
}

type pageData struct {
	Page         string
	SignedIn     bool
	Jobs         *portal.Section
	Candidacies  *portal.Section
	User         *types.User
	ProfileError string
}

func loadPages(dateLayout string) (*pageSet, error) {
	funcs := template.FuncMap{
		"applyLabel":        func() string { return portal.LabelApply },
		"applyingLabel":     func() string { return portal.LabelApplying },
		"submitFailedAlert": func() string { return portal.AlertSubmitFailed },
		"date":              func(t time.Time) string { return t.Format(dateLayout) },
	}

	set := &pageSet{pages: make(map[string]*template.Template)}
	for _, name := range []string{gate.PageLanding, gate.PageJobs, gate.PageCandidacies, gate.PageProfile} {
		t, err := template.New(name).Funcs(funcs).ParseFS(templateFS,
			"templates/layout.html", "templates/sections.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", name, err)
		}
		set.pages[name] = t
	}
	return set, nil
}

func (p *pageSet) render(w http.ResponseWriter, name string, data pageData) error {
	t, ok := p.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, err := buf.WriteTo(w)
	return err
}

// handlePage serves a page after asking the gate what the session may see.
// Loaders run to completion before the page is written, so the containers
// hold their final content.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	p := r.URL.Path
	if p == "/" {
		p = s.gate.Landing()
	}

	cand := candidate(r)
	decision := s.gate.Route(p, cand)
	if decision.Redirect != "" {
		http.Redirect(w, r, decision.Redirect, http.StatusFound)
		return
	}

	name := gate.PageName(p)
	if _, ok := s.pages.pages[name]; !ok {
		http.NotFound(w, r)
		return
	}

	ctx := r.Context()
	data := pageData{Page: name, SignedIn: cand != nil}

	if decision.Has(gate.LoaderListings) {
		rec := &portal.SectionRecorder{}
		s.listings.Load(ctx, rec)
		section := rec.Current()
		data.Jobs = &section
	}
	if decision.Has(gate.LoaderCandidacies) {
		rec := &portal.SectionRecorder{}
		s.candidacies.Load(ctx, cand, rec)
		section := rec.Current()
		data.Candidacies = &section
	}

	if name == gate.PageProfile && cand != nil {
		user, err := s.userService.Profile(ctx, cand.ID)
		if err != nil {
			s.log.Error(ctx, "failed to load profile", "user_id", cand.ID.String(), "err", err)
			data.ProfileError = profileLoadFailed
		}
		data.User = user
	}

	if err := s.pages.render(w, name, data); err != nil {
		s.log.Error(ctx, "failed to render page", "page", name, "err", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
