package portal

import (
	"sync"

	"github.com/google/uuid"
)

// SectionKind tells the renderer how to present a Section.
type SectionKind string

const (
	SectionLoading     SectionKind = "loading"
	SectionInfo        SectionKind = "info"
	SectionError       SectionKind = "error"
	SectionPostings    SectionKind = "postings"
	SectionCandidacies SectionKind = "candidacies"
)

// Section is the full content of a page container. Loaders always replace
// a container's content with a whole Section, never a fragment of one.
type Section struct {
	Kind        SectionKind     `json:"kind"`
	Message     string          `json:"message,omitempty"`
	Postings    []PostingCard   `json:"postings,omitempty"`
	Candidacies []CandidacyCard `json:"candidacies,omitempty"`
}

// PostingCard is one rendered posting with its candidacy control.
type PostingCard struct {
	PostingID    uuid.UUID `json:"posting_id"`
	Title        string    `json:"title"`
	CompanyName  string    `json:"company_name"`
	Hours        string    `json:"hours"`
	Requirements string    `json:"requirements"`
}

// CandidacyCard is one rendered candidacy status.
type CandidacyCard struct {
	CandidacyID  uuid.UUID `json:"candidacy_id"`
	Title        string    `json:"title"`
	CompanyName  string    `json:"company_name"`
	SubmittedOn  string    `json:"submitted_on"`
	SubmittedAgo string    `json:"submitted_ago,omitempty"`
	Status       string    `json:"status"`
}

// Container is a page region owned by a loader.
type Container interface {
	Replace(s Section)
}

// ContainerFunc adapts a function to Container.
type ContainerFunc func(s Section)

// Replace calls f(s).
func (f ContainerFunc) Replace(s Section) { f(s) }

// SectionRecorder is a Container that keeps every replacement.
type SectionRecorder struct {
	mu      sync.Mutex
	history []Section
}

// Replace records s as the current content.
func (r *SectionRecorder) Replace(s Section) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.history = append(r.history, s)
}

// Current returns the latest content, or a zero Section if nothing was
// rendered yet.
func (r *SectionRecorder) Current() Section {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.history) == 0 {
		return Section{}
	}
	return r.history[len(r.history)-1]
}

// History returns every replacement in order.
func (r *SectionRecorder) History() []Section {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Section, len(r.history))
	copy(out, r.history)
	return out
}

func message(kind SectionKind, text string) Section {
	return Section{Kind: kind, Message: text}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
