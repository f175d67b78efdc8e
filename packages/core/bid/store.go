package bid

import "context"

type LookupParams struct {
	AuctionID string
	UserID    string
	AuthToken string
}

// User's credits and their current bid on the auction.
type Balance struct {
	Credits float64
	// nil if user haven't bid on the auction yet
	CurrentBid *float64
}

type PlaceCommand struct {
	// Bid with amount to add to the current one
	Bid *Bid
	// Credits to debit, equals to amount of the bid
	Debit float64

	AuthToken string
}

type Store interface {
	Lookup(ctx context.Context, params LookupParams) (*Balance, error)

	// Upserts bid (amount is accumulated with the current one) and debits
	// credits within a single atomic unit: either both are committed or none.
	// The debit is guarded, if balance became lower than debit since Lookup(),
	// then nothing is written and error wraps ErrInsufficientCredits.
	// Failure of the bid write must wrap ErrBidWrite, failure of the debit -
	// ErrCreditWrite.
	//
	// Returns the upserted bid and the balance after the debit.
	Place(ctx context.Context, cmd PlaceCommand) (*Bid, float64, error)
}
