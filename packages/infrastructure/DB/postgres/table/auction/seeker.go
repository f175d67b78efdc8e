package auctiontable

import (
	"context"
	"errors"
	"flashauction/packages/core/auction"
	"flashauction/packages/core/entity"
	"flashauction/packages/core/query"
	"flashauction/packages/infrastructure/DB/postgres/executor"
)

// Builds query selecting auctions which match predicates of a.
// If a has no predicates, then all auctions are selected.
func findQuery(a *auction.Auction) (*query.Query, error) {
	q := query.New(selectAuctions)

	if err := a.ApplyFilters(newWhereHandle(q)); err != nil && !errors.Is(err, entity.NoConditions) {
		return nil, err
	}

	q.SQL += " ORDER BY a.end_time"

	return q, nil
}

func (m *Manager) Find(ctx context.Context, a *auction.Auction) ([]*auction.Auction, error) {
	q, err := findQuery(a)
	if err != nil {
		return nil, err
	}

	return executor.Collect(ctx, m.exec, q, collectAuction)
}
