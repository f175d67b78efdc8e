package auction

import "context"

type Repository interface {
	// Returns auctions matching predicates of a (all auctions if there are none).
	// Each auction is returned with its listing, seller's username
	// and up to TopBidsLimit highest bids.
	Find(ctx context.Context, a *Auction) ([]*Auction, error)

	// Creates flash auction on behalf of the listing's owner.
	// Returns NotListingOwner if listing doesn't belong to the requester.
	Create(ctx context.Context, a *Auction, requester Requester) (*Auction, error)
}

type Requester struct {
	UserID string
	// Forwarded to stores that authorize requests themselves
	AuthToken string
}
