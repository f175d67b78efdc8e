package listingtable

import (
	"flashauction/packages/core/listing"
	"flashauction/packages/infrastructure/DB/postgres/executor"

	"github.com/jackc/pgx/v5"
)

// Implements listing.Repository
type Manager struct {
	exec *executor.Executor
}

func New(exec *executor.Executor) *Manager {
	return &Manager{exec}
}

func collectListing(row pgx.CollectableRow) (*listing.Listing, error) {
	l, err := pgx.RowToAddrOfStructByName[listing.Listing](row)
	if err != nil {
		return nil, err
	}
	l.ParseData()
	return l, nil
}
