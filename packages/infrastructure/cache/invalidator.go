package cache

import (
	"context"
	"flashauction/packages/common/encoding/json"
	"flashauction/packages/common/logger"
	"flashauction/packages/core/auction"
	"flashauction/packages/core/bid"
)

func invalidateAuctions(ctx context.Context, c Cache) {
	// Failed invalidation is only logged, TTL bounds staleness.
	if err := c.DeletePattern(context.WithoutCancel(ctx), AuctionsKeyPrefix+"*"); err != nil {
		cacheLogger.Error("Failed to invalidate auctions", err.Error(), nil)
	}
}

// Caches results of Find() of the wrapped repository.
// Implements auction.Repository
type Auctions struct {
	repo  auction.Repository
	cache Cache
}

func NewAuctions(repo auction.Repository, cache Cache) *Auctions {
	return &Auctions{repo, cache}
}

func (a *Auctions) Find(ctx context.Context, filter *auction.Auction) ([]*auction.Auction, error) {
	key := QueryKey(AuctionsKeyPrefix, filter)

	if cached, hit := a.cache.Get(ctx, key); hit {
		auctions, err := json.DecodeBytes[[]*auction.Auction]([]byte(cached))
		if err == nil {
			return auctions, nil
		}
		cacheLogger.Warning("Cached auctions are malformed: "+key, nil)
	}

	auctions, err := a.repo.Find(ctx, filter)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Encode(auctions); err == nil {
		if err := a.cache.Set(ctx, key, raw); err != nil {
			cacheLogger.Warning("Failed to cache auctions: "+key, logger.Meta{"error": err.Error()})
		}
	}

	return auctions, nil
}

func (a *Auctions) Create(ctx context.Context, au *auction.Auction, requester auction.Requester) (*auction.Auction, error) {
	created, err := a.repo.Create(ctx, au, requester)
	if err != nil {
		return nil, err
	}

	invalidateAuctions(ctx, a.cache)

	return created, nil
}

// Invalidates cached auctions after each placed bid.
// Implements bid.Store
type Bids struct {
	bid.Store
	cache Cache
}

func NewBids(store bid.Store, cache Cache) *Bids {
	return &Bids{store, cache}
}

func (b *Bids) Place(ctx context.Context, cmd bid.PlaceCommand) (*bid.Bid, float64, error) {
	placed, credits, err := b.Store.Place(ctx, cmd)
	if err != nil {
		return nil, 0, err
	}

	invalidateAuctions(ctx, b.cache)

	return placed, credits, nil
}
