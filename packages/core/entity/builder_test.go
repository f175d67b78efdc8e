package entity_test

import (
	"flashauction/packages/core"
	"flashauction/packages/core/entity"
	"flashauction/packages/core/filter"
	"flashauction/packages/core/metadata"
	"flashauction/packages/core/query"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var vehicleFields = metadata.Register("test_vehicle",
	metadata.Immutable("user_id", "user_id"),
	metadata.Data("title", "title"),
	metadata.Data("price", "price"),
	metadata.Predicate("listingIdFilter", "listing_id"),
	metadata.Predicate("userIdFilter", "user_id"),
	metadata.Predicate("firstRegFilter", "firstreg"),
	metadata.Predicate("titleFilter", "title"),
)

type vehicle struct {
	UserID *string
	Title  *string
	Price  *float64

	listingID *entity.Predicate
	userID    *entity.Predicate
	firstReg  *entity.Predicate
	title     *entity.Predicate
}

func (v *vehicle) Fields() []entity.Field {
	return []entity.Field{
		entity.Value(vehicleFields.Must("user_id"), v.UserID),
		entity.Value(vehicleFields.Must("title"), v.Title),
		entity.Value(vehicleFields.Must("price"), v.Price),
		entity.Condition(vehicleFields.Must("listingIdFilter"), v.listingID),
		entity.Condition(vehicleFields.Must("userIdFilter"), v.userID),
		entity.Condition(vehicleFields.Must("firstRegFilter"), v.firstReg),
		entity.Condition(vehicleFields.Must("titleFilter"), v.title),
	}
}

func ptr[T any](v T) *T { return &v }

func TestBuildInsertQuery(t *testing.T) {
	v := &vehicle{UserID: ptr("u1"), Price: ptr(1500.5), listingID: entity.Eq("l1")}

	q, err := entity.BuildInsertQuery("p2p_listings", v)
	require.NoError(t, err)

	// Absent title and predicates are omitted, immutable user_id is included
	assert.Equal(t, "INSERT INTO p2p_listings (user_id, price) VALUES ($1, $2)", q.SQL)
	assert.Equal(t, []any{"u1", 1500.5}, q.Args)

	_, err = entity.BuildInsertQuery("p2p_listings", &vehicle{Title: ptr("  ")})
	assert.ErrorIs(t, err, entity.NoFields)
}

func TestBuildSelectQuery(t *testing.T) {
	t.Run("no conditions", func(t *testing.T) {
		_, err := entity.BuildSelectQuery("p2p_listings", &vehicle{Title: ptr("BMW")})
		assert.ErrorIs(t, err, entity.NoConditions)
	})

	t.Run("conditions in declaration order", func(t *testing.T) {
		v := &vehicle{
			title:    entity.Contains("bmw"),
			firstReg: entity.Between("2019-01-01T00:00:00.000Z", "2020-01-01T00:00:00.000Z"),
			userID:   entity.Eq("u1"),
		}

		q, err := entity.BuildSelectQuery("p2p_listings", v, "listing_id", "title")
		require.NoError(t, err)

		assert.Equal(t,
			"SELECT listing_id, title FROM p2p_listings WHERE user_id = $1 AND firstreg BETWEEN $2 AND $3 AND title LIKE $4",
			q.SQL,
		)
		assert.Equal(t, []any{"u1", "2019-01-01T00:00:00.000Z", "2020-01-01T00:00:00.000Z", "%bmw%"}, q.Args)
	})

	t.Run("all columns", func(t *testing.T) {
		q, err := entity.BuildSelectQuery("p2p_listings", &vehicle{listingID: entity.Eq("l1")})
		require.NoError(t, err)
		assert.Equal(t, "SELECT * FROM p2p_listings WHERE listing_id = $1", q.SQL)
	})
}

func TestBuildUpdateQuery(t *testing.T) {
	t.Run("non-writable fields are never assigned", func(t *testing.T) {
		v := &vehicle{UserID: ptr("hijack"), Title: ptr("Audi"), listingID: entity.Eq("l1")}

		q, err := entity.BuildUpdateQuery("p2p_listings", v)
		require.NoError(t, err)

		assert.Equal(t, "UPDATE p2p_listings SET title = $1 WHERE listing_id = $2", q.SQL)
		assert.Equal(t, []any{"Audi", "l1"}, q.Args)

		set := strings.SplitN(strings.TrimPrefix(q.SQL, "UPDATE p2p_listings SET "), " WHERE ", 2)[0]
		assert.NotContains(t, set, "user_id")
	})

	t.Run("only non-writable fields", func(t *testing.T) {
		_, err := entity.BuildUpdateQuery("p2p_listings", &vehicle{UserID: ptr("u1"), listingID: entity.Eq("l1")})
		assert.ErrorIs(t, err, entity.NoFields)
	})

	t.Run("no conditions", func(t *testing.T) {
		_, err := entity.BuildUpdateQuery("p2p_listings", &vehicle{Title: ptr("Audi")})
		assert.ErrorIs(t, err, entity.NoConditions)
	})
}

func TestBuildDeleteQuery(t *testing.T) {
	v := &vehicle{listingID: entity.Eq("l1"), userID: entity.Eq("u1")}

	q, err := entity.BuildDeleteQuery("p2p_listings", v, "listing_id")
	require.NoError(t, err)
	assert.Equal(t, "DELETE FROM p2p_listings WHERE listing_id = $1", q.SQL)
	assert.Equal(t, []any{"l1"}, q.Args)
	assert.NotContains(t, q.SQL, "user_id")

	q, err = entity.BuildDeleteQuery("p2p_listings", v)
	require.NoError(t, err)
	assert.Equal(t, "DELETE FROM p2p_listings WHERE listing_id = $1 AND user_id = $2", q.SQL)

	q, err = entity.BuildDeleteQuery("p2p_listings", v, "userIdFilter")
	require.NoError(t, err)
	assert.Equal(t, "DELETE FROM p2p_listings WHERE user_id = $1", q.SQL)

	_, err = entity.BuildDeleteQuery("p2p_listings", &vehicle{userID: entity.Eq("u1")}, "listing_id")
	assert.ErrorIs(t, err, entity.NoConditions)
}

var bidFields = metadata.Register("test_bid",
	metadata.Immutable("auction_id", "auction_id"),
	metadata.Immutable("user_id", "user_id"),
	metadata.Data("bid_amount", "bid_amount"),
	metadata.Data("updated_at", "updated_at"),
)

type bid struct {
	auctionID, userID, updatedAt *string
	amount                       *float64
}

func (b *bid) Fields() []entity.Field {
	return []entity.Field{
		entity.Value(bidFields.Must("auction_id"), b.auctionID),
		entity.Value(bidFields.Must("user_id"), b.userID),
		entity.Value(bidFields.Must("bid_amount"), b.amount),
		entity.Value(bidFields.Must("updated_at"), b.updatedAt),
	}
}

func TestBuildUpsertQuery(t *testing.T) {
	b := &bid{auctionID: ptr("a1"), userID: ptr("u1"), amount: ptr(30.0), updatedAt: ptr("now")}

	q, err := entity.BuildUpsertQuery("p2p_bids", b, []core.EntityProperty{"auction_id", "user_id"}, "bid_amount")
	require.NoError(t, err)

	assert.Equal(t,
		"INSERT INTO p2p_bids (auction_id, user_id, bid_amount, updated_at) VALUES ($1, $2, $3, $4)"+
			" ON CONFLICT (auction_id, user_id)"+
			" DO UPDATE SET bid_amount = p2p_bids.bid_amount + EXCLUDED.bid_amount, updated_at = EXCLUDED.updated_at",
		q.SQL,
	)
	assert.Equal(t, []any{"a1", "u1", 30.0, "now"}, q.Args)

	q, err = entity.BuildUpsertQuery("p2p_bids", &bid{auctionID: ptr("a1"), userID: ptr("u1")}, []core.EntityProperty{"auction_id", "user_id"})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(q.SQL, "ON CONFLICT (auction_id, user_id) DO NOTHING"))

	_, err = entity.BuildUpsertQuery("p2p_bids", &bid{}, []core.EntityProperty{"auction_id"})
	assert.ErrorIs(t, err, entity.NoFields)
}

func TestUserValuesAreNeverInterpolated(t *testing.T) {
	evil := "'; DROP TABLE p2p_listings; --"
	v := &vehicle{Title: ptr(evil), listingID: entity.Eq(evil), title: entity.Contains(evil)}

	builders := map[string]func() (string, error){
		"insert": func() (string, error) {
			q, err := entity.BuildInsertQuery("p2p_listings", v)
			return sqlOf(q, err)
		},
		"select": func() (string, error) {
			q, err := entity.BuildSelectQuery("p2p_listings", v)
			return sqlOf(q, err)
		},
		"update": func() (string, error) {
			q, err := entity.BuildUpdateQuery("p2p_listings", v)
			return sqlOf(q, err)
		},
		"delete": func() (string, error) {
			q, err := entity.BuildDeleteQuery("p2p_listings", v)
			return sqlOf(q, err)
		},
	}

	for name, build := range builders {
		sql, err := build()
		require.NoError(t, err, name)
		assert.NotContains(t, sql, "DROP", name)
	}
}

type recordingHandle struct {
	calls []string
}

func (h *recordingHandle) record(op, col string, v any) {
	h.calls = append(h.calls, fmt.Sprintf("%s(%s,%v)", op, col, v))
}

func (h *recordingHandle) Eq(col string, v any) { h.record("eq", col, v) }
func (h *recordingHandle) Gt(col string, v any) { h.record("gt", col, v) }
func (h *recordingHandle) Gte(col string, v any) { h.record("gte", col, v) }
func (h *recordingHandle) Lt(col string, v any) { h.record("lt", col, v) }
func (h *recordingHandle) Lte(col string, v any) { h.record("lte", col, v) }
func (h *recordingHandle) Like(col string, p string) { h.record("like", col, p) }
func (h *recordingHandle) Is(col string, null bool) { h.record("is", col, null) }

func TestApplyFilters(t *testing.T) {
	h := new(recordingHandle)
	v := &vehicle{
		listingID: entity.Eq("l1"),
		firstReg:  entity.Between("2019", "2020"),
		title:     entity.Contains("bmw"),
	}

	require.NoError(t, entity.ApplyFilters(v, h))
	assert.Equal(t, []string{
		"eq(listing_id,l1)",
		"gte(firstreg,2019)",
		"lte(firstreg,2020)",
		"like(title,bmw)",
	}, h.calls)

	assert.ErrorIs(t, entity.ApplyFilters(&vehicle{}, h), entity.NoConditions)

	unary := &vehicle{title: &entity.Predicate{Cond: filter.IsNull}}
	h = new(recordingHandle)
	require.NoError(t, entity.ApplyFilters(unary, h))
	assert.Equal(t, []string{"is(title,true)"}, h.calls)

	malformed := &vehicle{firstReg: &entity.Predicate{Cond: filter.Between, Value: "2019"}}
	assert.Error(t, entity.ApplyFilters(malformed, new(recordingHandle)))
}

func sqlOf(q *query.Query, err error) (string, error) {
	if err != nil {
		return "", err
	}
	return q.SQL, nil
}
