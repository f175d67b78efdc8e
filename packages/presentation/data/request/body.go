// Request bodies.
// Validation done here is related to transport layer only: it checks that
// values persist and have expected types, all other rules belong to core.
package requestbody

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type Validator interface {
	Validate() error
}

// Converts validator's errors into message that can be shown to the client.
func validationMessage(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	fields := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields = append(fields, fe.Field())
	}

	return errors.New("Invalid request body: fields have no value or invalid value: " + strings.Join(fields, ", "))
}

type PlaceBid struct {
	AuctionID string  `json:"auction_id" validate:"required"`
	BidAmount float64 `json:"bid_amount" validate:"required"`
}

func (b *PlaceBid) Validate() error {
	return validationMessage(validate.Struct(b))
}

type CreateAuction struct {
	ListingID string `json:"listing_id" validate:"required"`
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time" validate:"required"`
}

func (b *CreateAuction) Validate() error {
	return validationMessage(validate.Struct(b))
}
