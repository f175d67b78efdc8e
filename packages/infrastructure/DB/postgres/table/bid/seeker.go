package bidtable

import (
	"context"
	"flashauction/packages/core/bid"
	"flashauction/packages/core/query"
)

// Auth token isn't used, connection is trusted.
func (m *Manager) Lookup(ctx context.Context, params bid.LookupParams) (*bid.Balance, error) {
	q := query.New(
		`SELECT p.credits::float8, b.bid_amount::float8
		FROM profiles p
		LEFT JOIN p2p_bids b ON b.user_id = p.user_id AND b.auction_id = $2
		WHERE p.user_id = $1`,
		params.UserID,
		params.AuctionID,
	)

	balance := new(bid.Balance)

	if err := m.exec.Row(ctx, q, &balance.Credits, &balance.CurrentBid); err != nil {
		return nil, err
	}

	return balance, nil
}
