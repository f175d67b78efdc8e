package listing

import "context"

// Errors returned by implementations carry *errs.Store (if the store failed)
// or *errs.Status (if the request itself can't be served).
type Repository interface {
	// Returns created listing.
	Create(ctx context.Context, l *Listing) (*Listing, error)

	// Returns listings matching predicates of l, at least one predicate must be set.
	Find(ctx context.Context, l *Listing) ([]*Listing, error)

	FindByID(ctx context.Context, id string) (*Listing, error)

	// Returns updated listing.
	Update(ctx context.Context, l *Listing) (*Listing, error)

	// Returns deleted listing.
	Delete(ctx context.Context, l *Listing) (*Listing, error)
}
