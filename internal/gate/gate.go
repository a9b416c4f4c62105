// Package gate decides, for each page request, whether the session may see
// the page and which loaders the page needs.
package gate

import (
	"strings"

	"github.com/jonathan/futurotec/internal/portal"
)

// Page names.
const (
	PageLanding     = "index.html"
	PageJobs        = "jobs.html"
	PageCandidacies = "my-candidacies.html"
	PageProfile     = "profile.html"
)

// Loader identifies a page region filled by a portal loader.
type Loader string

const (
	LoaderListings    Loader = "listings"
	LoaderCandidacies Loader = "candidacies"
)

// Decision is the outcome of Route. A zero Decision means render the page
// as is.
type Decision struct {
	Redirect string
	Loaders  []Loader
}

// Gate routes page requests by session state.
type Gate struct {
	landing   string
	protected map[string]bool
	dispatch  []dispatch
}

type dispatch struct {
	page   string
	loader Loader
}

// New returns a Gate that sends signed-out visitors of protected pages to
// landing.
func New(landing string) *Gate {
	return &Gate{
		landing: landing,
		protected: map[string]bool{
			PageJobs:        true,
			PageCandidacies: true,
			PageProfile:     true,
		},
		dispatch: []dispatch{
			{page: PageJobs, loader: LoaderListings},
			{page: PageCandidacies, loader: LoaderCandidacies},
		},
	}
}

// Landing returns the page signed-out visitors are sent to.
func (g *Gate) Landing() string { return g.landing }

// PageName returns the segment of p after its last slash. A trailing slash
// yields "", which names no page.
func PageName(p string) string {
	return p[strings.LastIndex(p, "/")+1:]
}

// Protected reports whether the page at p requires a session.
func (g *Gate) Protected(p string) bool {
	return g.protected[PageName(p)]
}

// Route decides what to do with a request for p. A signed-in candidate gets
// every loader whose page name occurs anywhere in p; matches are independent
// of each other. A signed-out visitor of a protected page is redirected.
func (g *Gate) Route(p string, candidate *portal.Candidate) Decision {
	if candidate == nil {
		if g.Protected(p) {
			return Decision{Redirect: g.landing}
		}
		return Decision{}
	}

	var d Decision
	for _, m := range g.dispatch {
		if strings.Contains(p, m.page) {
			d.Loaders = append(d.Loaders, m.loader)
		}
	}
	return d
}

// Has reports whether d dispatches l.
func (d Decision) Has(l Loader) bool {
	for _, x := range d.Loaders {
		if x == l {
			return true
		}
	}
	return false
}
