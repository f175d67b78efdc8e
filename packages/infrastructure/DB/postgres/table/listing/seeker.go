package listingtable

import (
	"context"
	"flashauction/packages/core/entity"
	"flashauction/packages/core/listing"
	"flashauction/packages/infrastructure/DB/postgres/executor"
)

func (m *Manager) Find(ctx context.Context, l *listing.Listing) ([]*listing.Listing, error) {
	q, err := entity.BuildSelectQuery(listing.Table, l, listing.SelectColumns...)
	if err != nil {
		return nil, err
	}

	return executor.Collect(ctx, m.exec, q, collectListing)
}

func (m *Manager) FindByID(ctx context.Context, id string) (*listing.Listing, error) {
	l := listing.New()
	l.Identify(id)

	q, err := entity.BuildSelectQuery(listing.Table, l, listing.SelectColumns...)
	if err != nil {
		return nil, err
	}

	return executor.CollectOne(ctx, m.exec, q, collectListing)
}
