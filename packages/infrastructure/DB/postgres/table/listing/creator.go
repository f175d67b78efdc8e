package listingtable

import (
	"context"
	"flashauction/packages/core/entity"
	"flashauction/packages/core/listing"
	"flashauction/packages/infrastructure/DB/postgres/dblog"
	"flashauction/packages/infrastructure/DB/postgres/executor"
)

func (m *Manager) Create(ctx context.Context, l *listing.Listing) (*listing.Listing, error) {
	dblog.Logger.Trace("Creating listing...", nil)

	q, err := entity.BuildInsertQuery(listing.Table, l)
	if err != nil {
		return nil, err
	}
	q.Returning(listing.SelectColumns...)

	created, err := executor.CollectOne(ctx, m.exec, q, collectListing)
	if err != nil {
		return nil, err
	}

	dblog.Logger.Trace("Creating listing: OK", nil)

	return created, nil
}
