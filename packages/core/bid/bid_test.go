package bid

import (
	"flashauction/packages/core/entity"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpsertQuery(t *testing.T) {
	auction := auctionID
	user := userID
	updatedAt := "2026-05-01T12:00:00.000Z"

	b := &Bid{AuctionID: &auction, UserID: &user, BidAmount: "30", UpdatedAt: &updatedAt}
	b.PrepareData()

	q, err := entity.BuildUpsertQuery(Table, b, ConflictTarget, AmountProperty)
	require.NoError(t, err)

	assert.Equal(t,
		"INSERT INTO p2p_bids (auction_id, user_id, bid_amount, updated_at) VALUES ($1, $2, $3, $4)"+
			" ON CONFLICT (auction_id, user_id)"+
			" DO UPDATE SET bid_amount = p2p_bids.bid_amount + EXCLUDED.bid_amount, updated_at = EXCLUDED.updated_at",
		q.SQL,
	)
	assert.Equal(t, []any{auction, user, float64(30), updatedAt}, q.Args)
}

func TestParseData(t *testing.T) {
	b := &Bid{BidAmount: "12.5"}
	b.ParseData()
	assert.Equal(t, 12.5, b.BidAmount)

	b = &Bid{BidAmount: "twelve"}
	b.ParseData()
	assert.Nil(t, b.BidAmount)
}

func TestSelectQuery(t *testing.T) {
	b := New()
	b.PrepareQueryData(map[string]any{"auction_id": auctionID, "user_id": userID})

	q, err := entity.BuildSelectQuery(Table, b, AmountProperty)
	require.NoError(t, err)
	assert.Equal(t, "SELECT bid_amount FROM p2p_bids WHERE auction_id = $1 AND user_id = $2", q.SQL)
}

func TestStepErrorMessage(t *testing.T) {
	err := newStepError(LookupBalance, ErrLookup, assert.AnError)

	assert.Equal(t, "bid: lookup balance: failed to look up user's credits: "+assert.AnError.Error(), err.Error())
	assert.ErrorIs(t, err, ErrLookup)
	assert.ErrorIs(t, err, assert.AnError)
}
