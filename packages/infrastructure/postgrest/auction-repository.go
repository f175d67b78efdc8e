package postgrest

import (
	"context"
	"errors"
	Error "flashauction/packages/common/errors"
	"flashauction/packages/common/logger"
	"flashauction/packages/core/auction"
	"flashauction/packages/core/entity"
)

// Auction with its listing (and seller's username) and top bids.
const auctionSelect = `
	*,
	listing:p2p_listings(*, user:profiles(username)),
	bids:p2p_bids(bid_amount, updated_at, user:profiles(username))
`

// Alias of the embedded bids
const bidsRelation = "bids"

// Raised by RLS when row doesn't pass the policy
const insufficientPrivilegeCode = "42501"

// Implements auction.Repository
type AuctionRepository struct {
	client *Client
}

func NewAuctionRepository(client *Client) *AuctionRepository {
	return &AuctionRepository{client}
}

func (r *AuctionRepository) selectAuctions() *QueryBuilder {
	return r.client.From(auction.Table).
		Select(auctionSelect).
		OrderReferenced(bidsRelation, "bid_amount", false).
		LimitReferenced(bidsRelation, auction.TopBidsLimit)
}

func (r *AuctionRepository) Find(ctx context.Context, a *auction.Auction) ([]*auction.Auction, error) {
	q := r.selectAuctions().Order(string(auction.EndTimeProperty), true)

	if err := a.ApplyFilters(q.Filters()); err != nil && !errors.Is(err, entity.NoConditions) {
		return nil, err
	}

	res, err := q.Execute(ctx)
	if err != nil {
		return nil, err
	}

	auctions, err := Decode[[]*auction.Auction](res)
	if err != nil {
		clientLogger.Error("Failed to decode auctions", err.Error(), nil)
		return nil, Error.StatusInternalError
	}

	for _, au := range auctions {
		au.ParseData()
	}

	return auctions, nil
}

// Ownership of the listing is checked by RLS policy of p2p_auctions,
// so request is sent on behalf of the requester.
func (r *AuctionRepository) Create(ctx context.Context, a *auction.Auction, requester auction.Requester) (*auction.Auction, error) {
	if a.ListingID == nil {
		return nil, auction.InvalidListingID
	}

	res, err := r.selectAuctions().
		AuthToken(requester.AuthToken).
		Single().
		Insert(ctx, a)
	if err != nil {
		if storeErr, ok := Error.AsStore(err); ok && storeErr.Code == insufficientPrivilegeCode {
			return nil, auction.NotListingOwner
		}
		return nil, err
	}

	created, err := Decode[*auction.Auction](res)
	if err != nil {
		clientLogger.Error("Failed to decode created auction", err.Error(), nil)
		return nil, Error.StatusInternalError
	}

	created.ParseData()

	clientLogger.Info("Flash auction created", logger.Meta{"listing_id": *a.ListingID, "user_id": requester.UserID})

	return created, nil
}
