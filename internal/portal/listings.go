package portal

import (
	"context"
	"sync"

	"github.com/jonathan/futurotec/internal/logging"
)

// ListingLoader renders every posting, newest first, with its company name.
type ListingLoader struct {
	store    Store
	resolver *Resolver
	log      logging.Logger
}

// NewListingLoader creates a ListingLoader.
func NewListingLoader(store Store, resolver *Resolver, log logging.Logger) *ListingLoader {
	return &ListingLoader{store: store, resolver: resolver, log: log}
}

// Load replaces c with a loading message, then with the posting cards (or an
// empty/error message). Card order is the query order.
func (l *ListingLoader) Load(ctx context.Context, c Container) {
	c.Replace(message(SectionLoading, LoadingPostings))

	postings, err := l.store.ListPostings(ctx)
	if err != nil {
		l.log.Error(ctx, "failed to load postings", "err", err)
		c.Replace(message(SectionError, PostingsLoadFailed))
		return
	}
	if len(postings) == 0 {
		c.Replace(message(SectionInfo, NoPostings))
		return
	}

	// CompanyName never fails; wait for every card.
	cards := make([]PostingCard, len(postings))
	var wg sync.WaitGroup
	for i, p := range postings {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cards[i] = PostingCard{
				PostingID:    p.ID,
				Title:        orDefault(p.Title, TitleNotProvided),
				CompanyName:  l.resolver.CompanyName(ctx, p.CompanyID),
				Hours:        orDefault(p.Hours, NotInformed),
				Requirements: orDefault(p.Requirements, NotInformed),
			}
		}()
	}
	wg.Wait()

	c.Replace(Section{Kind: SectionPostings, Postings: cards})
}
