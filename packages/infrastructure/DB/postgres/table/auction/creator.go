package auctiontable

import (
	"context"
	Error "flashauction/packages/common/errors"
	"flashauction/packages/common/logger"
	"flashauction/packages/core/auction"
	"flashauction/packages/core/entity"
	"flashauction/packages/core/query"
	"flashauction/packages/infrastructure/DB/postgres/dblog"
	"flashauction/packages/infrastructure/DB/postgres/executor"
)

func (m *Manager) checkOwnership(ctx context.Context, a *auction.Auction, requester auction.Requester) error {
	var owner string

	err := m.exec.Row(ctx, query.New(
		`SELECT user_id FROM p2p_listings WHERE listing_id = $1`,
		*a.ListingID,
	), &owner)
	if err != nil {
		if storeErr, ok := Error.AsStore(err); ok && storeErr.NotFound {
			return Error.StatusNotFound
		}
		return err
	}

	if owner != requester.UserID {
		return auction.NotListingOwner
	}

	return nil
}

// Listing owner can't change, so checking ownership before insert is enough.
func (m *Manager) Create(ctx context.Context, a *auction.Auction, requester auction.Requester) (*auction.Auction, error) {
	if a.ListingID == nil {
		return nil, auction.InvalidListingID
	}

	if err := m.checkOwnership(ctx, a, requester); err != nil {
		return nil, err
	}

	q, err := entity.BuildInsertQuery(auction.Table, a)
	if err != nil {
		return nil, err
	}
	q.Returning(auction.IdProperty)

	var id string
	if err := m.exec.Row(ctx, q, &id); err != nil {
		return nil, err
	}

	dblog.Logger.Info("Flash auction created", logger.Meta{"auction_id": id, "user_id": requester.UserID})

	return executor.CollectOne(
		ctx, m.exec,
		query.New(selectAuctions+" WHERE a.auction_id = $1", id),
		collectAuction,
	)
}
