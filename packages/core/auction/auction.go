package auction

import (
	"flashauction/packages/common/datetime"
	Error "flashauction/packages/common/errors"
	"flashauction/packages/common/util"
	"flashauction/packages/common/validation"
	"flashauction/packages/core"
	"flashauction/packages/core/entity"
	"flashauction/packages/core/filter"
	"flashauction/packages/core/listing"
	"flashauction/packages/core/metadata"
	"net/http"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
)

const Table = "p2p_auctions"

const (
	IdProperty        core.EntityProperty = "auction_id"
	ListingIdProperty core.EntityProperty = "listing_id"
	StartTimeProperty core.EntityProperty = "start_time"
	EndTimeProperty   core.EntityProperty = "end_time"
	IsFlashProperty   core.EntityProperty = "is_flash"
	HasEndedProperty  core.EntityProperty = "has_ended"
)

var Fields = metadata.Register("auction",
	metadata.Immutable("listing_id", ListingIdProperty),
	metadata.Data("start_time", StartTimeProperty),
	metadata.Data("end_time", EndTimeProperty),
	metadata.Data("is_flash", IsFlashProperty),
	metadata.Data("has_ended", HasEndedProperty),

	metadata.Predicate("auctionIdFilter", IdProperty),
	metadata.Predicate("isFlashFilter", IsFlashProperty),
	metadata.Predicate("hasEndedFilter", HasEndedProperty),
)

// Only the username of profiles is ever exposed.
type Profile struct {
	Username string `json:"username"`
}

// Listing embedded into auctions.
// Stores embed it keyed by column names, clients receive it keyed by field names.
type Listing struct {
	*listing.Listing
	User *Profile `json:"user,omitempty"`
}

func (l *Listing) UnmarshalJSON(data []byte) error {
	decoded, err := listing.DecodeRow(data)
	if err != nil {
		return err
	}

	var relations struct {
		User *Profile `json:"user"`
	}
	if err := jsoniter.Unmarshal(data, &relations); err != nil {
		return err
	}

	l.Listing = decoded
	l.User = relations.User

	return nil
}

// One of the highest bids of the auction.
type TopBid struct {
	BidAmount any      `json:"bid_amount"`
	UpdatedAt *string  `json:"updated_at,omitempty"`
	User      *Profile `json:"user,omitempty"`
}

// Number of the highest bids embedded into each auction.
const TopBidsLimit = 3

type Auction struct {
	// Assigned by the store
	ID *string `json:"auction_id,omitempty"`

	ListingID *string `json:"listing_id,omitempty"`
	StartTime *string `json:"start_time,omitempty"`
	EndTime   *string `json:"end_time,omitempty"`
	IsFlash   *bool   `json:"is_flash,omitempty"`
	HasEnded  *bool   `json:"has_ended,omitempty"`

	// Read-only relations
	Listing *Listing  `json:"listing,omitempty"`
	Bids    []*TopBid `json:"bids,omitempty"`

	auctionID *entity.Predicate
	isFlash   *entity.Predicate
	hasEnded  *entity.Predicate
}

func New() *Auction {
	return new(Auction)
}

func (a *Auction) Fields() []entity.Field {
	return []entity.Field{
		entity.Value(Fields.Must("listing_id"), a.ListingID),
		entity.Value(Fields.Must("start_time"), a.StartTime),
		entity.Value(Fields.Must("end_time"), a.EndTime),
		entity.Value(Fields.Must("is_flash"), a.IsFlash),
		entity.Value(Fields.Must("has_ended"), a.HasEnded),

		entity.Condition(Fields.Must("auctionIdFilter"), a.auctionID),
		entity.Condition(Fields.Must("isFlashFilter"), a.isFlash),
		entity.Condition(Fields.Must("hasEndedFilter"), a.hasEnded),
	}
}

func normalizeTime(v *string) *string {
	if v == nil {
		return nil
	}
	t, ok := datetime.ParseISO(*v)
	if !ok {
		return v
	}
	s := datetime.FormatISO(t)
	return &s
}

// Marks the auction as a new flash auction and brings schedule
// into storage representation (ISO-8601 UTC).
// Unparsable times are kept as is, so ValidateSchedule() can reject them.
func (a *Auction) PrepareData() {
	isFlash := true
	hasEnded := false

	a.IsFlash = &isFlash
	a.HasEnded = &hasEnded
	a.StartTime = normalizeTime(a.StartTime)
	a.EndTime = normalizeTime(a.EndTime)
}

// Normalizes data received from the store.
func (a *Auction) ParseData() {
	a.StartTime = normalizeTime(a.StartTime)
	a.EndTime = normalizeTime(a.EndTime)

	if a.Listing != nil && a.Listing.Listing != nil {
		a.Listing.ParseData()
	}

	for _, b := range a.Bids {
		if f, ok := util.ToFloat(b.BidAmount); ok {
			b.BidAmount = f
		}
		b.UpdatedAt = normalizeTime(b.UpdatedAt)
	}
}

func boolParam(v any) (bool, bool) {
	switch b := v.(type) {
	case bool:
		return b, true
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(b))
		return parsed, err == nil
	default:
		return false, false
	}
}

// Copies query params into predicates: "auction_id", "is_flash", "has_ended".
// Booleans may be passed as strings ("true", "false").
// Params with values of unexpected type are ignored.
func (a *Auction) PrepareQueryData(params map[string]any) {
	if v, ok := params["auction_id"].(string); ok && strings.TrimSpace(v) != "" {
		a.auctionID = entity.Eq(v)
	}
	if v, ok := boolParam(params["is_flash"]); ok {
		a.isFlash = entity.Eq(v)
	}
	if v, ok := boolParam(params["has_ended"]); ok {
		a.hasEnded = entity.Eq(v)
	}
}

func (a *Auction) ApplyFilters(h filter.Handle) error {
	return entity.ApplyFilters(a, h)
}

var InvalidAuctionID = Error.NewStatusError(
	"auction_id must be a valid UUID",
	http.StatusBadRequest,
)

// Must be called after PrepareQueryData().
func (a *Auction) ValidateQuery() error {
	if a.auctionID == nil {
		return nil
	}
	if validation.UUID(a.auctionID.Value.(string)) != nil {
		return InvalidAuctionID
	}
	return nil
}

var InvalidSchedule = Error.NewStatusError(
	"Start and end dates are invalid.",
	http.StatusBadRequest,
)

var NotListingOwner = Error.NewStatusError(
	"Only owner of the listing can create auction for it",
	http.StatusForbidden,
)

var InvalidListingID = Error.NewStatusError(
	"listing_id must be a valid UUID",
	http.StatusUnprocessableEntity,
)

// Checks that auction can be created at the given moment:
// listing is specified, start and end are ISO-8601 timestamps,
// start is before end and end is in the future.
func (a *Auction) ValidateSchedule(now time.Time) error {
	if a.ListingID == nil || validation.UUID(*a.ListingID) != nil {
		return InvalidListingID
	}
	if a.StartTime == nil || a.EndTime == nil {
		return InvalidSchedule
	}

	start, ok := datetime.ParseISO(*a.StartTime)
	if !ok {
		return InvalidSchedule
	}
	end, ok := datetime.ParseISO(*a.EndTime)
	if !ok {
		return InvalidSchedule
	}

	if !start.Before(end) || !end.After(now) {
		return InvalidSchedule
	}

	return nil
}
