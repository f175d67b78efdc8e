package bid

import (
	"context"
	"errors"
	"flashauction/packages/common/datetime"
	"flashauction/packages/common/logger"
	"flashauction/packages/common/validation"
	"time"
)

var workflowLogger = logger.NewSource("BID", logger.Default)

type PlaceParams struct {
	AuctionID string
	UserID    string
	Amount    float64
	// Forwarded to the store as is
	AuthToken string
}

type Placement struct {
	Bid *Bid
	// User's credits after the debit
	Balance float64
}

// Places bids: ValidateInput -> LookupBalance -> CheckSufficiency -> UpsertBid -> DebitBalance.
// The last two steps are performed by the store as a single atomic unit.
type Workflow struct {
	store Store
	now   func() time.Time
}

func NewWorkflow(store Store) *Workflow {
	return &Workflow{
		store: store,
		now:   time.Now,
	}
}

// Same as NewWorkflow, but uses now to timestamp bids.
func NewWorkflowWithClock(store Store, now func() time.Time) *Workflow {
	return &Workflow{
		store: store,
		now:   now,
	}
}

func validationError(field string, err error) *StepError {
	if err == nil {
		return nil
	}
	return newStepError(ValidateInput, ErrValidation, errors.New(field+": "+err.Error()))
}

func validateParams(params PlaceParams) *StepError {
	if err := validation.UUID(params.AuctionID); err != nil {
		return validationError("auction_id", err)
	}
	if err := validation.UUID(params.UserID); err != nil {
		return validationError("user_id", err)
	}
	if err := validation.PositiveAmount(params.Amount); err != nil {
		return validationError("bid_amount", err)
	}
	return nil
}

// Returns *StepError if ctx is done.
func interrupted(ctx context.Context, step Step) *StepError {
	if err := ctx.Err(); err != nil {
		return &StepError{Step: step, Err: err}
	}
	return nil
}

// Classifies failure of the atomic upsert+debit unit.
func placementError(err error) *StepError {
	switch {
	case errors.Is(err, ErrInsufficientCredits):
		return newStepError(DebitBalance, ErrInsufficientCredits, err)
	case errors.Is(err, ErrCreditWrite):
		return newStepError(DebitBalance, ErrCreditWrite, err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return &StepError{Step: UpsertBid, Err: err}
	default:
		return newStepError(UpsertBid, ErrBidWrite, err)
	}
}

func (w *Workflow) PlaceBid(ctx context.Context, params PlaceParams) (*Placement, error) {
	if err := interrupted(ctx, ValidateInput); err != nil {
		return nil, err
	}
	if err := validateParams(params); err != nil {
		return nil, err
	}

	if err := interrupted(ctx, LookupBalance); err != nil {
		return nil, err
	}

	balance, err := w.store.Lookup(ctx, LookupParams{
		AuctionID: params.AuctionID,
		UserID:    params.UserID,
		AuthToken: params.AuthToken,
	})
	if err != nil {
		workflowLogger.Error("Failed to look up user's credits", err.Error(), logger.Meta{"user_id": params.UserID})
		return nil, newStepError(LookupBalance, ErrLookup, err)
	}

	if err := interrupted(ctx, CheckSufficiency); err != nil {
		return nil, err
	}

	// Credits equal to the amount are sufficient
	if balance.Credits < params.Amount {
		return nil, newStepError(CheckSufficiency, ErrInsufficientCredits, nil)
	}

	if err := interrupted(ctx, UpsertBid); err != nil {
		return nil, err
	}

	auctionID := params.AuctionID
	userID := params.UserID
	updatedAt := datetime.FormatISO(w.now())

	b, credits, err := w.store.Place(ctx, PlaceCommand{
		Bid: &Bid{
			AuctionID: &auctionID,
			UserID:    &userID,
			BidAmount: params.Amount,
			UpdatedAt: &updatedAt,
		},
		Debit:     params.Amount,
		AuthToken: params.AuthToken,
	})
	if err != nil {
		stepErr := placementError(err)
		if !errors.Is(stepErr, ErrInsufficientCredits) {
			workflowLogger.Error("Failed to place the bid", err.Error(), logger.Meta{
				"user_id":    params.UserID,
				"auction_id": params.AuctionID,
				"step":       stepErr.Step.String(),
			})
		}
		return nil, stepErr
	}

	b.ParseData()

	workflowLogger.Trace("Bid placed", logger.Meta{"user_id": params.UserID, "auction_id": params.AuctionID})

	return &Placement{Bid: b, Balance: credits}, nil
}
