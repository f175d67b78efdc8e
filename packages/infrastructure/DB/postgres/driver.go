package postgres

import (
	"context"
	"flashauction/packages/common/config"
	"flashauction/packages/core/auction"
	"flashauction/packages/core/bid"
	"flashauction/packages/core/listing"
	"flashauction/packages/infrastructure/DB/postgres/connection"
	"flashauction/packages/infrastructure/DB/postgres/executor"
	auctiontable "flashauction/packages/infrastructure/DB/postgres/table/auction"
	bidtable "flashauction/packages/infrastructure/DB/postgres/table/bid"
	listingtable "flashauction/packages/infrastructure/DB/postgres/table/listing"
)

type Driver struct {
	cfg  *config.Manager
	conn *connection.Manager

	listings *listingtable.Manager
	auctions *auctiontable.Manager
	bids     *bidtable.Manager
}

func NewDriver(cfg *config.Manager) *Driver {
	return &Driver{
		cfg:  cfg,
		conn: connection.New(cfg),
	}
}

// Repositories are available only after connection.
func (d *Driver) Connect(ctx context.Context) error {
	if err := d.conn.Connect(ctx); err != nil {
		return err
	}

	exec := executor.New(d.conn.Pool(), d.cfg)

	d.listings = listingtable.New(exec)
	d.auctions = auctiontable.New(exec)
	d.bids = bidtable.New(d.conn.Pool(), exec)

	return nil
}

func (d *Driver) Disconnect() error {
	return d.conn.Disconnect()
}

func (d *Driver) Ping(ctx context.Context) error {
	return d.conn.Ping(ctx)
}

func (d *Driver) Listings() listing.Repository {
	return d.listings
}

func (d *Driver) Auctions() auction.Repository {
	return d.auctions
}

func (d *Driver) Bids() bid.Store {
	return d.bids
}

func (d *Driver) Migrate() Migrate {
	return Migrate{d}
}
