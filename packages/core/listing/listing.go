package listing

import (
	"flashauction/packages/common/datetime"
	Error "flashauction/packages/common/errors"
	"flashauction/packages/common/validation"
	"flashauction/packages/common/util"
	"flashauction/packages/core"
	"flashauction/packages/core/entity"
	"flashauction/packages/core/filter"
	"flashauction/packages/core/metadata"
	"net/http"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

const Table = "p2p_listings"

const (
	IdProperty            core.EntityProperty = "listing_id"
	UserIdProperty        core.EntityProperty = "user_id"
	TitleProperty         core.EntityProperty = "title"
	DescriptionProperty   core.EntityProperty = "description"
	UserPriceProperty     core.EntityProperty = "user_price"
	IsAppraisedProperty   core.EntityProperty = "is_appraised"
	IsAuctionProperty     core.EntityProperty = "is_auction"
	AuctionEndProperty    core.EntityProperty = "auction_end"
	SeoTagProperty        core.EntityProperty = "seo_tag"
	SeoDescProperty       core.EntityProperty = "seo_desc"
	UrlProperty           core.EntityProperty = "url"
	FirstRegProperty      core.EntityProperty = "firstreg"
	MileageProperty       core.EntityProperty = "mileage"
	FuelProperty          core.EntityProperty = "fuel"
	TransmissionProperty  core.EntityProperty = "transmission"
	KwProperty            core.EntityProperty = "kw"
	EngineSizeProperty    core.EntityProperty = "engine_size"
	VinProperty           core.EntityProperty = "vin"
	DdvProperty           core.EntityProperty = "ddv"
	LocationProperty      core.EntityProperty = "location"
	PossiblePriceProperty core.EntityProperty = "possible_price"
	DeliveryPriceProperty core.EntityProperty = "delivery_price"
	DeliveryTimeProperty  core.EntityProperty = "delivery_time"
)

var Fields = metadata.Register("listing",
	metadata.Immutable("user_id", UserIdProperty),
	metadata.Data("title", TitleProperty),
	metadata.Data("description", DescriptionProperty),
	metadata.Data("user_price", UserPriceProperty),
	metadata.Data("is_appraised", IsAppraisedProperty),
	metadata.Data("is_auction", IsAuctionProperty),
	metadata.Data("auction_end", AuctionEndProperty),
	metadata.Data("seo_tag", SeoTagProperty),
	metadata.Data("seo_desc", SeoDescProperty),
	metadata.Data("url", UrlProperty),
	metadata.Data("firstReg", FirstRegProperty),
	metadata.Data("mileage", MileageProperty),
	metadata.Data("fuel", FuelProperty),
	metadata.Data("transmission", TransmissionProperty),
	metadata.Data("kw", KwProperty),
	metadata.Data("engineSize", EngineSizeProperty),
	metadata.Data("vin", VinProperty),
	metadata.Data("ddv", DdvProperty),
	metadata.Data("location", LocationProperty),
	metadata.Data("possiblePrice", PossiblePriceProperty),
	metadata.Data("deliveryPrice", DeliveryPriceProperty),
	metadata.Data("deliveryTime", DeliveryTimeProperty),

	metadata.Predicate("listingIdFilter", IdProperty),
	metadata.Predicate("userIdFilter", UserIdProperty),
	metadata.Predicate("firstRegFilter", FirstRegProperty),
	metadata.Predicate("searchFilter", TitleProperty),
)

// Columns selected on reads.
// Numeric prices are read as text, ParseData() converts them back to numbers.
var SelectColumns = []core.EntityProperty{
	IdProperty,
	UserIdProperty,
	TitleProperty,
	DescriptionProperty,
	"user_price::text AS user_price",
	IsAppraisedProperty,
	IsAuctionProperty,
	isoColumn(AuctionEndProperty),
	SeoTagProperty,
	SeoDescProperty,
	UrlProperty,
	isoColumn(FirstRegProperty),
	MileageProperty,
	FuelProperty,
	TransmissionProperty,
	"kw::text AS kw",
	"engine_size::float8 AS engine_size",
	VinProperty,
	DdvProperty,
	LocationProperty,
	"possible_price::float8 AS possible_price",
	"delivery_price::float8 AS delivery_price",
	isoColumn(DeliveryTimeProperty),
}

func isoColumn(column core.EntityProperty) core.EntityProperty {
	c := string(column)
	return core.EntityProperty(`to_char(` + c + ` AT TIME ZONE 'UTC', 'YYYY-MM-DD"T"HH24:MI:SS.MS"Z"') AS ` + c)
}

type Listing struct {
	// Assigned by the store
	ID *string `json:"listing_id,omitempty" db:"listing_id"`

	UserID        *string  `json:"user_id,omitempty" db:"user_id"`
	Title         *string  `json:"title,omitempty" db:"title"`
	Description   *string  `json:"description,omitempty" db:"description"`
	UserPrice     any      `json:"user_price,omitempty" db:"user_price"` // number or numeric string
	IsAppraised   *bool    `json:"is_appraised,omitempty" db:"is_appraised"`
	IsAuction     *bool    `json:"is_auction,omitempty" db:"is_auction"`
	AuctionEnd    *string  `json:"auction_end,omitempty" db:"auction_end"`
	SeoTag        *string  `json:"seo_tag,omitempty" db:"seo_tag"`
	SeoDesc       *string  `json:"seo_desc,omitempty" db:"seo_desc"`
	URL           *string  `json:"url,omitempty" db:"url"`
	FirstReg      *string  `json:"firstReg,omitempty" db:"firstreg"`
	Mileage       *int64   `json:"mileage,omitempty" db:"mileage"`
	Fuel          *string  `json:"fuel,omitempty" db:"fuel"`
	Transmission  *string  `json:"transmission,omitempty" db:"transmission"`
	KW            any      `json:"kw,omitempty" db:"kw"` // number or numeric string
	EngineSize    *float64 `json:"engineSize,omitempty" db:"engine_size"`
	VIN           *string  `json:"vin,omitempty" db:"vin"`
	DDV           *bool    `json:"ddv,omitempty" db:"ddv"`
	Location      *string  `json:"location,omitempty" db:"location"`
	PossiblePrice *float64 `json:"possiblePrice,omitempty" db:"possible_price"`
	DeliveryPrice *float64 `json:"deliveryPrice,omitempty" db:"delivery_price"`
	DeliveryTime  *string  `json:"deliveryTime,omitempty" db:"delivery_time"`

	listingID *entity.Predicate
	userID    *entity.Predicate
	firstReg  *entity.Predicate
	search    *entity.Predicate
}

func New() *Listing {
	return new(Listing)
}

func (l *Listing) Fields() []entity.Field {
	return []entity.Field{
		entity.Value(Fields.Must("user_id"), l.UserID),
		entity.Value(Fields.Must("title"), l.Title),
		entity.Value(Fields.Must("description"), l.Description),
		{Descriptor: Fields.Must("user_price"), Value: l.UserPrice},
		entity.Value(Fields.Must("is_appraised"), l.IsAppraised),
		entity.Value(Fields.Must("is_auction"), l.IsAuction),
		entity.Value(Fields.Must("auction_end"), l.AuctionEnd),
		entity.Value(Fields.Must("seo_tag"), l.SeoTag),
		entity.Value(Fields.Must("seo_desc"), l.SeoDesc),
		entity.Value(Fields.Must("url"), l.URL),
		entity.Value(Fields.Must("firstReg"), l.FirstReg),
		entity.Value(Fields.Must("mileage"), l.Mileage),
		entity.Value(Fields.Must("fuel"), l.Fuel),
		entity.Value(Fields.Must("transmission"), l.Transmission),
		{Descriptor: Fields.Must("kw"), Value: l.KW},
		entity.Value(Fields.Must("engineSize"), l.EngineSize),
		entity.Value(Fields.Must("vin"), l.VIN),
		entity.Value(Fields.Must("ddv"), l.DDV),
		entity.Value(Fields.Must("location"), l.Location),
		entity.Value(Fields.Must("possiblePrice"), l.PossiblePrice),
		entity.Value(Fields.Must("deliveryPrice"), l.DeliveryPrice),
		entity.Value(Fields.Must("deliveryTime"), l.DeliveryTime),

		entity.Condition(Fields.Must("listingIdFilter"), l.listingID),
		entity.Condition(Fields.Must("userIdFilter"), l.userID),
		entity.Condition(Fields.Must("firstRegFilter"), l.firstReg),
		entity.Condition(Fields.Must("searchFilter"), l.search),
	}
}

// Listings are auctions only when explicitly created as such.
func (l *Listing) ApplyDefaults() {
	if l.IsAuction == nil {
		isAuction := false
		l.IsAuction = &isAuction
	}
}

var sanitizer = bluemonday.StrictPolicy()

func sanitize(v *string) *string {
	if v == nil {
		return nil
	}
	s := strings.TrimSpace(sanitizer.Sanitize(*v))
	return &s
}

// Converts "DD/MM/YYYY" into ISO-8601. Unparsable date becomes absent.
func prepareDate(v *string) *string {
	if v == nil {
		return nil
	}
	iso, ok := datetime.LocalDateToISO(*v)
	if !ok {
		return nil
	}
	return &iso
}

// Numeric string becomes float64, unparsable value becomes absent.
func parseNumeric(v any) any {
	if v == nil {
		return nil
	}
	f, ok := util.ToFloat(v)
	if !ok {
		return nil
	}
	return f
}

// Normalizes client data for storage: dates are converted from "DD/MM/YYYY"
// into ISO-8601 and markup is stripped from free text.
// Invalid dates are left absent, check the fields if it matters.
func (l *Listing) PrepareData() {
	l.FirstReg = prepareDate(l.FirstReg)
	l.DeliveryTime = prepareDate(l.DeliveryTime)

	l.Title = sanitize(l.Title)
	l.Description = sanitize(l.Description)
	l.SeoTag = sanitize(l.SeoTag)
	l.SeoDesc = sanitize(l.SeoDesc)

	l.UserPrice = parseNumeric(l.UserPrice)
	l.KW = parseNumeric(l.KW)
}

func normalizeDate(v *string) *string {
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

// Converts storage representation into client-facing types.
func (l *Listing) ParseData() {
	l.UserPrice = parseNumeric(l.UserPrice)
	l.KW = parseNumeric(l.KW)

	l.AuctionEnd = normalizeDate(l.AuctionEnd)
	l.FirstReg = normalizeDate(l.FirstReg)
	l.DeliveryTime = normalizeDate(l.DeliveryTime)
}

func stringParam(params map[string]any, key string) (string, bool) {
	v, ok := params[key].(string)
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return v, true
}

// Copies query params into predicates:
//   - "listing_id": equality on listing_id
//   - "user_id": equality on user_id
//   - "startFirstReg" and "endFirstReg" ("DD/MM/YYYY"): range on firstreg,
//     both are required, ignored if either can't be parsed
//   - "search": partial match on title
func (l *Listing) PrepareQueryData(params map[string]any) {
	if v, ok := stringParam(params, "listing_id"); ok {
		l.listingID = entity.Eq(v)
	}
	if v, ok := stringParam(params, "user_id"); ok {
		l.userID = entity.Eq(v)
	}
	if v, ok := stringParam(params, "search"); ok {
		l.search = entity.Contains(v)
	}

	start, hasStart := stringParam(params, "startFirstReg")
	end, hasEnd := stringParam(params, "endFirstReg")
	if hasStart && hasEnd {
		from, fromOk := datetime.LocalDateToISO(start)
		to, toOk := datetime.LocalDateToISO(end)
		if fromOk && toOk {
			l.firstReg = entity.Between(from, to)
		}
	}
}

func (l *Listing) ApplyFilters(h filter.Handle) error {
	return entity.ApplyFilters(l, h)
}

var InvalidFirstRegRange = Error.NewStatusError(
	"startFirstReg must not be after endFirstReg",
	http.StatusBadRequest,
)

var InvalidListingID = Error.NewStatusError(
	"listing_id must be a valid UUID",
	http.StatusBadRequest,
)

// Rejects params that PrepareQueryData() would silently misinterpret.
func ValidateQueryParams(params map[string]any) error {
	if v, ok := stringParam(params, "listing_id"); ok && validation.UUID(v) != nil {
		return InvalidListingID
	}

	start, hasStart := stringParam(params, "startFirstReg")
	end, hasEnd := stringParam(params, "endFirstReg")
	if !hasStart || !hasEnd {
		return nil
	}

	from, fromOk := datetime.LocalDateToISO(start)
	to, toOk := datetime.LocalDateToISO(end)
	// ISO strings of the same layout are ordered lexically
	if fromOk && toOk && from > to {
		return InvalidFirstRegRange
	}

	return nil
}

var MissingRequiredFields = Error.NewStatusError(
	"user_id, title, and user_price are required fields.",
	http.StatusBadRequest,
)

// Checks fields that are required to create a listing.
// Must be called after PrepareData().
func (l *Listing) ValidateCreate() error {
	if l.UserID == nil || l.Title == nil || *l.Title == "" || l.UserPrice == nil {
		return MissingRequiredFields
	}
	return nil
}

// Narrows the listing to a single row.
func (l *Listing) Identify(id string) {
	l.listingID = entity.Eq(id)
}

var NotListingOwner = Error.NewStatusError(
	"Only owner of the listing can modify it",
	http.StatusForbidden,
)
