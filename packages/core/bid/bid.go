package bid

import (
	"flashauction/packages/common/util"
	"flashauction/packages/core"
	"flashauction/packages/core/entity"
	"flashauction/packages/core/filter"
	"flashauction/packages/core/metadata"
	"strings"
)

const Table = "p2p_bids"

const (
	IdProperty        core.EntityProperty = "bidding_id"
	AuctionIdProperty core.EntityProperty = "auction_id"
	UserIdProperty    core.EntityProperty = "user_id"
	AmountProperty    core.EntityProperty = "bid_amount"
	UpdatedAtProperty core.EntityProperty = "updated_at"
)

var Fields = metadata.Register("bid",
	metadata.Immutable("auction_id", AuctionIdProperty),
	metadata.Immutable("user_id", UserIdProperty),
	metadata.Data("bid_amount", AmountProperty),
	metadata.Data("updated_at", UpdatedAtProperty),

	metadata.Predicate("auctionIdFilter", AuctionIdProperty),
	metadata.Predicate("userIdFilter", UserIdProperty),
)

// Users have at most one bid per auction, repeated bids are accumulated.
var ConflictTarget = []core.EntityProperty{AuctionIdProperty, UserIdProperty}

type Bid struct {
	// Assigned by the store
	ID any `json:"bidding_id,omitempty"`

	AuctionID *string `json:"auction_id,omitempty"`
	UserID    *string `json:"user_id,omitempty"`
	// Total amount of the user's bids on the auction.
	// Either number or numeric string, see ParseData()
	BidAmount any     `json:"bid_amount,omitempty"`
	UpdatedAt *string `json:"updated_at,omitempty"`

	auctionID *entity.Predicate
	userID    *entity.Predicate
}

func New() *Bid {
	return new(Bid)
}

func (b *Bid) Fields() []entity.Field {
	return []entity.Field{
		entity.Value(Fields.Must("auction_id"), b.AuctionID),
		entity.Value(Fields.Must("user_id"), b.UserID),
		{Descriptor: Fields.Must("bid_amount"), Value: b.BidAmount},
		entity.Value(Fields.Must("updated_at"), b.UpdatedAt),

		entity.Condition(Fields.Must("auctionIdFilter"), b.auctionID),
		entity.Condition(Fields.Must("userIdFilter"), b.userID),
	}
}

// Returns bid amount as number.
func (b *Bid) Amount() (float64, bool) {
	return util.ToFloat(b.BidAmount)
}

// Trims identifiers and brings amount to float64, unparsable amount becomes absent.
func (b *Bid) PrepareData() {
	if b.AuctionID != nil {
		v := strings.TrimSpace(*b.AuctionID)
		b.AuctionID = &v
	}
	if b.UserID != nil {
		v := strings.TrimSpace(*b.UserID)
		b.UserID = &v
	}
	b.ParseData()
}

// Numeric amount may be received as string from the stores.
func (b *Bid) ParseData() {
	if b.BidAmount == nil {
		return
	}
	if f, ok := util.ToFloat(b.BidAmount); ok {
		b.BidAmount = f
	} else {
		b.BidAmount = nil
	}
}

// Copies "auction_id" and "user_id" params into predicates.
func (b *Bid) PrepareQueryData(params map[string]any) {
	if v, ok := params["auction_id"].(string); ok && strings.TrimSpace(v) != "" {
		b.auctionID = entity.Eq(v)
	}
	if v, ok := params["user_id"].(string); ok && strings.TrimSpace(v) != "" {
		b.userID = entity.Eq(v)
	}
}

func (b *Bid) ApplyFilters(h filter.Handle) error {
	return entity.ApplyFilters(b, h)
}
