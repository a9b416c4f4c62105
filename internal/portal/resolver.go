package portal

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jonathan/futurotec/internal/logging"
)

// Resolver turns a posting's company id into a display name.
type Resolver struct {
	store Store
	log   logging.Logger
}

// NewResolver creates a Resolver backed by store.
func NewResolver(store Store, log logging.Logger) *Resolver {
	return &Resolver{store: store, log: log}
}

// CompanyName always returns display text; lookup failures are logged and
// turned into a placeholder.
func (r *Resolver) CompanyName(ctx context.Context, companyID *uuid.UUID) string {
	if companyID == nil || *companyID == uuid.Nil {
		return CompanyNotProvided
	}

	profile, err := r.store.GetUserProfile(ctx, *companyID)
	if err != nil {
		r.log.Error(ctx, "failed to load company name", "company_id", companyID.String(), "err", err)
		return CompanyLoadFailed
	}
	if profile == nil {
		return fmt.Sprintf(CompanyNotFoundFmt, companyID.String())
	}
	return orDefault(profile.Name, CompanyNameMissing)
}
