package bidtable

import (
	"context"
	Error "flashauction/packages/common/errors"
	"flashauction/packages/core/bid"
	"flashauction/packages/core/entity"
	"flashauction/packages/core/query"
	"flashauction/packages/infrastructure/DB/postgres/executor"
	"flashauction/packages/infrastructure/DB/postgres/transaction"
	"fmt"
)

var returningBid = []string{
	"bidding_id",
	"auction_id",
	"user_id",
	"bid_amount::float8",
	`to_char(updated_at AT TIME ZONE 'UTC', 'YYYY-MM-DD"T"HH24:MI:SS.MS"Z"')`,
}

func upsert(ctx context.Context, tx *executor.Executor, cmd bid.PlaceCommand) (*bid.Bid, error) {
	q, err := entity.BuildUpsertQuery(bid.Table, cmd.Bid, bid.ConflictTarget, bid.AmountProperty)
	if err != nil {
		return nil, err
	}
	q.SQL += " RETURNING " + query.JoinColumns(returningBid)

	b := new(bid.Bid)

	var amount float64

	if err := tx.Row(ctx, q, &b.ID, &b.AuctionID, &b.UserID, &amount, &b.UpdatedAt); err != nil {
		return nil, err
	}

	b.BidAmount = amount

	return b, nil
}

// Credits are debited only if they are sufficient at the moment of the update,
// row lock taken by UPDATE serializes concurrent debits.
func debit(ctx context.Context, tx *executor.Executor, userID string, amount float64) (float64, error) {
	q := query.New(
		`UPDATE profiles SET credits = credits - $1, updated_at = now()
		WHERE user_id = $2 AND credits >= $1
		RETURNING credits::float8`,
		amount,
		userID,
	)

	var credits float64

	if err := tx.Row(ctx, q, &credits); err != nil {
		if storeErr, ok := Error.AsStore(err); ok && storeErr.NotFound {
			return 0, bid.ErrInsufficientCredits
		}
		return 0, err
	}

	return credits, nil
}

func (m *Manager) Place(ctx context.Context, cmd bid.PlaceCommand) (*bid.Bid, float64, error) {
	var placed *bid.Bid
	var credits float64

	err := transaction.Run(ctx, m.db, m.exec, func(tx *executor.Executor) error {
		b, err := upsert(ctx, tx, cmd)
		if err != nil {
			return fmt.Errorf("%w: %w", bid.ErrBidWrite, err)
		}

		c, err := debit(ctx, tx, *cmd.Bid.UserID, cmd.Debit)
		if err != nil {
			if err == bid.ErrInsufficientCredits {
				return err
			}
			return fmt.Errorf("%w: %w", bid.ErrCreditWrite, err)
		}

		placed = b
		credits = c

		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	return placed, credits, nil
}
