package bid

import (
	"errors"
	"fmt"
)

type Step byte

const (
	ValidateInput Step = 1 + iota
	LookupBalance
	CheckSufficiency
	UpsertBid
	DebitBalance
)

var stepToStrMap = map[Step]string{
	ValidateInput:    "validate input",
	LookupBalance:    "lookup balance",
	CheckSufficiency: "check sufficiency",
	UpsertBid:        "upsert bid",
	DebitBalance:     "debit balance",
}

func (s Step) String() string {
	return stepToStrMap[s]
}

var (
	ErrValidation          = errors.New("invalid bid")
	ErrLookup              = errors.New("failed to look up user's credits")
	ErrInsufficientCredits = errors.New("user does not have enough credits to bid")
	ErrBidWrite            = errors.New("could not place the bid")
	ErrCreditWrite         = errors.New("could not update the user's credits")
)

// Failure of the bid workflow.
type StepError struct {
	Step Step
	Err  error
	// Whether side effects of the previous steps are in force.
	// Bid and debit are committed together, so failed placement never
	// leaves any of them behind.
	Committed bool
}

func (e *StepError) Error() string {
	return "bid: " + e.Step.String() + ": " + e.Err.Error()
}

func (e *StepError) Unwrap() error {
	return e.Err
}

func newStepError(step Step, sentinel error, cause error) *StepError {
	if cause == nil {
		return &StepError{Step: step, Err: sentinel}
	}
	if errors.Is(cause, sentinel) {
		return &StepError{Step: step, Err: cause}
	}
	return &StepError{Step: step, Err: fmt.Errorf("%w: %w", sentinel, cause)}
}

// Returns step failed in err's chain.
func AsStepError(err error) (*StepError, bool) {
	var e *StepError

	if errors.As(err, &e) {
		return e, true
	}

	return nil, false
}

// SQLSTATE codes raised by place_bid() SQL function.
const (
	InsufficientCreditsCode = "FA001"
	ProfileNotFoundCode     = "FA002"
	CreditWriteCode         = "FA003"
)
