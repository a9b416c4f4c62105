package portal

import (
	"context"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jonathan/futurotec/internal/db"
	"github.com/jonathan/futurotec/internal/logging"
	"golang.org/x/sync/errgroup"
)

// CandidacyLoader renders the signed-in candidate's candidacies with the
// title and company of each posting.
type CandidacyLoader struct {
	store      Store
	resolver   *Resolver
	log        logging.Logger
	dateLayout string
	now        func() time.Time
}

// NewCandidacyLoader creates a CandidacyLoader. dateLayout is a Go time
// layout for submission dates.
func NewCandidacyLoader(store Store, resolver *Resolver, log logging.Logger, dateLayout string) *CandidacyLoader {
	return &CandidacyLoader{
		store:      store,
		resolver:   resolver,
		log:        log,
		dateLayout: dateLayout,
		now:        time.Now,
	}
}

// Load replaces c with a loading message, then with the candidacy cards (or
// an auth/empty/error message). A nil candidate issues no query.
func (l *CandidacyLoader) Load(ctx context.Context, candidate *Candidate, c Container) {
	c.Replace(message(SectionLoading, LoadingCandidacies))

	if candidate == nil {
		c.Replace(message(SectionError, NotAuthenticated))
		return
	}

	candidacies, err := l.store.ListCandidaciesByCandidate(ctx, candidate.ID)
	if err != nil {
		l.log.Error(ctx, "failed to load candidacies", "candidate_id", candidate.ID.String(), "err", err)
		c.Replace(message(SectionError, CandidaciesLoadFailed))
		return
	}
	if len(candidacies) == 0 {
		c.Replace(message(SectionInfo, NoCandidacies))
		return
	}

	cards := make([]CandidacyCard, len(candidacies))
	g, gctx := errgroup.WithContext(ctx)
	for i, cand := range candidacies {
		g.Go(func() error {
			posting, err := l.store.GetPostingByID(gctx, cand.PostingID)
			if err != nil {
				return err
			}
			if posting == nil {
				posting = &db.Posting{ID: cand.PostingID, Title: DeletedPostingTitle}
			}
			cards[i] = l.card(cand, posting, l.resolver.CompanyName(gctx, posting.CompanyID))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		l.log.Error(ctx, "failed to load candidacies", "candidate_id", candidate.ID.String(), "err", err)
		c.Replace(message(SectionError, CandidaciesLoadFailed))
		return
	}

	c.Replace(Section{Kind: SectionCandidacies, Candidacies: cards})
}

func (l *CandidacyLoader) card(cand db.Candidacy, posting *db.Posting, companyName string) CandidacyCard {
	card := CandidacyCard{
		CandidacyID: cand.ID,
		Title:       orDefault(posting.Title, TitleNotProvided),
		CompanyName: companyName,
		SubmittedOn: DateNotAvailable,
		Status:      orDefault(cand.Status, db.StatusPending),
	}
	if cand.SubmittedAt != nil {
		card.SubmittedOn = cand.SubmittedAt.Format(l.dateLayout)
		card.SubmittedAgo = humanize.RelTime(*cand.SubmittedAt, l.now(), "ago", "from now")
	}
	return card
}
