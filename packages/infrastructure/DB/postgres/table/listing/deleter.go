package listingtable

import (
	"context"
	"flashauction/packages/common/logger"
	"flashauction/packages/core/entity"
	"flashauction/packages/core/listing"
	"flashauction/packages/infrastructure/DB/postgres/dblog"
	"flashauction/packages/infrastructure/DB/postgres/executor"
)

// Only listing_id predicate is used, other predicates of l are ignored.
func (m *Manager) Delete(ctx context.Context, l *listing.Listing) (*listing.Listing, error) {
	q, err := entity.BuildDeleteQuery(listing.Table, l, string(listing.IdProperty))
	if err != nil {
		return nil, err
	}
	q.Returning(listing.SelectColumns...)

	deleted, err := executor.CollectOne(ctx, m.exec, q, collectListing)
	if err != nil {
		return nil, err
	}

	dblog.Logger.Info("Listing deleted", logger.Meta{"listing_id": *deleted.ID})

	return deleted, nil
}
