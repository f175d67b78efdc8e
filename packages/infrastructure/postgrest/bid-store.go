package postgrest

import (
	"context"
	"errors"
	Error "flashauction/packages/common/errors"
	"flashauction/packages/common/util"
	"flashauction/packages/core/bid"
	"fmt"
)

// Implements bid.Store
type BidStore struct {
	client *Client
}

func NewBidStore(client *Client) *BidStore {
	return &BidStore{client}
}

type balanceRow struct {
	Credits any `json:"credits"`
	Bid     []struct {
		BidAmount any `json:"bid_amount"`
	} `json:"bid"`
}

var errMalformedCredits = errors.New("credits of the profile aren't a number")

func (s *BidStore) Lookup(ctx context.Context, params bid.LookupParams) (*bid.Balance, error) {
	res, err := s.client.From("profiles").
		Select("credits, bid:p2p_bids(bid_amount)").
		Eq("user_id", params.UserID).
		Eq("bid.auction_id", params.AuctionID).
		AuthToken(params.AuthToken).
		Single().
		Execute(ctx)
	if err != nil {
		return nil, err
	}

	row, err := Decode[balanceRow](res)
	if err != nil {
		return nil, err
	}

	credits, ok := util.ToFloat(row.Credits)
	if !ok {
		return nil, errMalformedCredits
	}

	balance := &bid.Balance{Credits: credits}

	if len(row.Bid) != 0 {
		if current, ok := util.ToFloat(row.Bid[0].BidAmount); ok {
			balance.CurrentBid = &current
		}
	}

	return balance, nil
}

type placeBidParams struct {
	AuctionID string  `json:"p_auction_id"`
	Amount    float64 `json:"p_bid_amount"`
}

type placeBidResult struct {
	Bid     *bid.Bid `json:"bid"`
	Credits any      `json:"credits"`
}

// Maps SQLSTATE codes raised by place_bid() to the placement errors.
func placementError(err error) error {
	storeErr, ok := Error.AsStore(err)
	if !ok {
		return err
	}

	switch storeErr.Code {
	case bid.InsufficientCreditsCode:
		return fmt.Errorf("%w: %w", bid.ErrInsufficientCredits, err)
	case bid.CreditWriteCode:
		return fmt.Errorf("%w: %w", bid.ErrCreditWrite, err)
	default:
		return fmt.Errorf("%w: %w", bid.ErrBidWrite, err)
	}
}

// Upsert and debit are performed by place_bid() within a single transaction.
// Requester is taken from the token, so cmd.Bid.UserID must be its owner.
func (s *BidStore) Place(ctx context.Context, cmd bid.PlaceCommand) (*bid.Bid, float64, error) {
	if cmd.Bid == nil || cmd.Bid.AuctionID == nil {
		return nil, 0, fmt.Errorf("%w: auction isn't specified", bid.ErrBidWrite)
	}

	res, err := s.client.RPC(ctx, "place_bid", placeBidParams{
		AuctionID: *cmd.Bid.AuctionID,
		Amount:    cmd.Debit,
	}, cmd.AuthToken)
	if err != nil {
		return nil, 0, placementError(err)
	}

	result, err := Decode[placeBidResult](res)
	if err != nil || result.Bid == nil {
		if err == nil {
			err = errors.New("response has no bid")
		}
		return nil, 0, fmt.Errorf("%w: %w", bid.ErrBidWrite, err)
	}

	credits, ok := util.ToFloat(result.Credits)
	if !ok {
		return nil, 0, fmt.Errorf("%w: %w", bid.ErrCreditWrite, errMalformedCredits)
	}

	result.Bid.ParseData()

	return result.Bid, credits, nil
}
