package listingtable

import (
	"context"
	"flashauction/packages/common/logger"
	"flashauction/packages/core/entity"
	"flashauction/packages/core/listing"
	"flashauction/packages/infrastructure/DB/postgres/dblog"
	"flashauction/packages/infrastructure/DB/postgres/executor"
)

// Listing must be narrowed to a single row, see listing.Identify().
func (m *Manager) Update(ctx context.Context, l *listing.Listing) (*listing.Listing, error) {
	q, err := entity.BuildUpdateQuery(listing.Table, l)
	if err != nil {
		return nil, err
	}
	q.Returning(listing.SelectColumns...)

	updated, err := executor.CollectOne(ctx, m.exec, q, collectListing)
	if err != nil {
		return nil, err
	}

	dblog.Logger.Trace("Listing updated", logger.Meta{"listing_id": *updated.ID})

	return updated, nil
}
