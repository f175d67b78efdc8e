package listing

import (
	"flashauction/packages/core/entity"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

type handleCall struct {
	op    string
	col   string
	value any
}

type recordingHandle struct {
	calls []handleCall
}

func (h *recordingHandle) Eq(col string, v any) { h.calls = append(h.calls, handleCall{"eq", col, v}) }
func (h *recordingHandle) Gt(col string, v any) { h.calls = append(h.calls, handleCall{"gt", col, v}) }
func (h *recordingHandle) Gte(col string, v any) { h.calls = append(h.calls, handleCall{"gte", col, v}) }
func (h *recordingHandle) Lt(col string, v any) { h.calls = append(h.calls, handleCall{"lt", col, v}) }
func (h *recordingHandle) Lte(col string, v any) { h.calls = append(h.calls, handleCall{"lte", col, v}) }
func (h *recordingHandle) Like(col string, p string) {
	h.calls = append(h.calls, handleCall{"like", col, p})
}
func (h *recordingHandle) Is(col string, null bool) {
	h.calls = append(h.calls, handleCall{"is", col, null})
}

func TestPrepareData(t *testing.T) {
	l := &Listing{
		Title:        ptr("<b>BMW</b> 320d"),
		FirstReg:     ptr("15/03/2019"),
		DeliveryTime: ptr("2019-03-15"),
		UserPrice:    "15000.50",
		KW:           "140",
	}

	l.PrepareData()

	assert.Equal(t, "BMW 320d", *l.Title)
	assert.Equal(t, "2019-03-15T00:00:00.000Z", *l.FirstReg)
	// Unparsable date is dropped instead of being stored as garbage
	assert.Nil(t, l.DeliveryTime)
	assert.Equal(t, 15000.5, l.UserPrice)
	assert.Equal(t, float64(140), l.KW)
}

func TestParseData(t *testing.T) {
	l := &Listing{UserPrice: "15000", KW: "110.5"}

	l.ParseData()

	assert.Equal(t, float64(15000), l.UserPrice)
	assert.Equal(t, 110.5, l.KW)

	l = &Listing{KW: "n/a"}
	l.ParseData()
	assert.Nil(t, l.KW)
	assert.Nil(t, l.UserPrice)
}

func TestApplyDefaults(t *testing.T) {
	l := New()
	l.ApplyDefaults()
	require.NotNil(t, l.IsAuction)
	assert.False(t, *l.IsAuction)

	l = &Listing{IsAuction: ptr(true)}
	l.ApplyDefaults()
	assert.True(t, *l.IsAuction)
}

func TestInsertOmitsInvalidDate(t *testing.T) {
	l := &Listing{
		UserID:   ptr("user-1"),
		Title:    ptr("Audi A4"),
		FirstReg: ptr("31/02/2020"),
	}
	l.PrepareData()

	q, err := entity.BuildInsertQuery(Table, l)
	require.NoError(t, err)

	assert.Equal(t, "INSERT INTO p2p_listings (user_id, title) VALUES ($1, $2)", q.SQL)
	assert.Equal(t, []any{"user-1", "Audi A4"}, q.Args)
}

func TestUpdateNeverAssignsOwner(t *testing.T) {
	l := &Listing{UserID: ptr("user-2"), Mileage: ptr(int64(120000))}
	l.PrepareQueryData(map[string]any{"listing_id": "l-1"})

	q, err := entity.BuildUpdateQuery(Table, l)
	require.NoError(t, err)

	assert.Equal(t, "UPDATE p2p_listings SET mileage = $1 WHERE listing_id = $2", q.SQL)
	assert.Equal(t, []any{int64(120000), "l-1"}, q.Args)
}

func TestPrepareQueryData(t *testing.T) {
	t.Run("all filters", func(t *testing.T) {
		l := New()
		l.PrepareQueryData(map[string]any{
			"user_id":       "user-1",
			"startFirstReg": "01/01/2018",
			"endFirstReg":   "31/12/2020",
			"search":        "golf",
		})

		q, err := entity.BuildSelectQuery(Table, l, IdProperty)
		require.NoError(t, err)

		assert.Equal(t,
			"SELECT listing_id FROM p2p_listings WHERE user_id = $1 AND firstreg BETWEEN $2 AND $3 AND title LIKE $4",
			q.SQL,
		)
		assert.Equal(t, []any{
			"user-1",
			"2018-01-01T00:00:00.000Z",
			"2020-12-31T00:00:00.000Z",
			"%golf%",
		}, q.Args)
	})

	t.Run("half of the range is ignored", func(t *testing.T) {
		l := New()
		l.PrepareQueryData(map[string]any{"startFirstReg": "01/01/2018"})

		_, err := entity.BuildSelectQuery(Table, l)
		assert.ErrorIs(t, err, entity.NoConditions)
	})

	t.Run("invalid range bound is ignored", func(t *testing.T) {
		l := New()
		l.PrepareQueryData(map[string]any{
			"listing_id":    "l-1",
			"startFirstReg": "01/01/2018",
			"endFirstReg":   "yesterday",
		})

		q, err := entity.BuildSelectQuery(Table, l)
		require.NoError(t, err)
		assert.Equal(t, "SELECT * FROM p2p_listings WHERE listing_id = $1", q.SQL)
	})
}

func TestDeleteRestrictedToID(t *testing.T) {
	l := New()
	l.PrepareQueryData(map[string]any{"user_id": "user-1", "search": "bmw"})

	_, err := entity.BuildDeleteQuery(Table, l, string(IdProperty))
	assert.ErrorIs(t, err, entity.NoConditions)

	l.PrepareQueryData(map[string]any{"listing_id": "l-1"})

	q, err := entity.BuildDeleteQuery(Table, l, string(IdProperty))
	require.NoError(t, err)
	assert.Equal(t, "DELETE FROM p2p_listings WHERE listing_id = $1", q.SQL)
}

func TestApplyFilters(t *testing.T) {
	l := New()
	l.PrepareQueryData(map[string]any{
		"startFirstReg": "01/01/2018",
		"endFirstReg":   "31/12/2020",
	})

	h := new(recordingHandle)
	require.NoError(t, l.ApplyFilters(h))

	assert.Equal(t, []handleCall{
		{"gte", "firstreg", "2018-01-01T00:00:00.000Z"},
		{"lte", "firstreg", "2020-12-31T00:00:00.000Z"},
	}, h.calls)

	assert.ErrorIs(t, New().ApplyFilters(h), entity.NoConditions)
}

func TestValidateQueryParams(t *testing.T) {
	assert.NoError(t, ValidateQueryParams(map[string]any{}))
	assert.NoError(t, ValidateQueryParams(map[string]any{
		"startFirstReg": "01/01/2018",
		"endFirstReg":   "01/01/2018",
	}))
	assert.Error(t, ValidateQueryParams(map[string]any{
		"startFirstReg": "01/01/2021",
		"endFirstReg":   "01/01/2018",
	}))
	assert.Error(t, ValidateQueryParams(map[string]any{"listing_id": "not-a-uuid"}))
}

func TestValidateCreate(t *testing.T) {
	l := &Listing{UserID: ptr("user-1"), Title: ptr("<i></i>"), UserPrice: "100"}
	l.PrepareData()
	// Title is empty once markup is stripped
	assert.ErrorIs(t, l.ValidateCreate(), MissingRequiredFields)

	l = &Listing{UserID: ptr("user-1"), Title: ptr("Golf"), UserPrice: "abc"}
	l.PrepareData()
	assert.ErrorIs(t, l.ValidateCreate(), MissingRequiredFields)

	l = &Listing{UserID: ptr("user-1"), Title: ptr("Golf"), UserPrice: "NaN", KW: "Inf"}
	l.PrepareData()
	assert.ErrorIs(t, l.ValidateCreate(), MissingRequiredFields)
	assert.Nil(t, l.KW)

	l = &Listing{UserID: ptr("user-1"), Title: ptr("Golf"), UserPrice: 9500}
	l.PrepareData()
	assert.NoError(t, l.ValidateCreate())
}

func TestDecodeRow(t *testing.T) {
	l, err := DecodeRow([]byte(`{
		"listing_id": "l-1",
		"user_id": "user-1",
		"title": "Golf",
		"user_price": "9500.00",
		"firstreg": "2019-03-15T00:00:00+00:00",
		"engine_size": 1.6,
		"mileage": 120000,
		"created_at": "2026-01-01T00:00:00+00:00"
	}`))
	require.NoError(t, err)

	assert.Equal(t, "l-1", *l.ID)
	assert.Equal(t, "Golf", *l.Title)
	assert.Equal(t, 9500.0, l.UserPrice)
	assert.Equal(t, "2019-03-15T00:00:00.000Z", *l.FirstReg)
	assert.Equal(t, 1.6, *l.EngineSize)
	assert.Equal(t, int64(120000), *l.Mileage)
}

func TestDecodeRowKeyedByFieldNames(t *testing.T) {
	l, err := DecodeRow([]byte(`{
		"listing_id": "l-1",
		"firstReg": "2019-03-15T00:00:00.000Z",
		"engineSize": 2.0,
		"deliveryPrice": 150
	}`))
	require.NoError(t, err)

	assert.Equal(t, "2019-03-15T00:00:00.000Z", *l.FirstReg)
	assert.Equal(t, 2.0, *l.EngineSize)
	assert.Equal(t, 150.0, *l.DeliveryPrice)
}

func TestParseDataDropsNonFiniteNumbers(t *testing.T) {
	l := &Listing{Title: ptr("Golf"), UserPrice: "NaN", KW: "-Infinity"}
	l.ParseData()

	assert.Nil(t, l.UserPrice)
	assert.Nil(t, l.KW)

	_, err := jsoniter.Marshal(l)
	assert.NoError(t, err)
}
