package auctiontable

import (
	"flashauction/packages/core/auction"
	"flashauction/packages/core/query"
	"flashauction/packages/infrastructure/DB/postgres/executor"
	"strconv"

	"github.com/jackc/pgx/v5"
	jsoniter "github.com/json-iterator/go"
)

// Implements auction.Repository
type Manager struct {
	exec *executor.Executor
}

func New(exec *executor.Executor) *Manager {
	return &Manager{exec}
}

const isoFormat = `'YYYY-MM-DD"T"HH24:MI:SS.MS"Z"'`

func isoColumn(column string) string {
	return "to_char(" + column + " AT TIME ZONE 'UTC', " + isoFormat + ")"
}

// Auction with its listing (and seller's username) and top bids.
// Relations are built as JSON, so they are decoded the same way
// as relations embedded by PostgREST.
var selectAuctions = `SELECT
	a.auction_id, a.listing_id, ` + isoColumn("a.start_time") + `, ` + isoColumn("a.end_time") + `,
	a.is_flash, a.has_ended,
	to_jsonb(l) || jsonb_build_object('user', jsonb_build_object('username', p.username)) AS listing,
	COALESCE((
		SELECT jsonb_agg(jsonb_build_object(
			'bid_amount', b.bid_amount,
			'updated_at', b.updated_at,
			'user', jsonb_build_object('username', bp.username)
		) ORDER BY b.bid_amount DESC)
		FROM (
			SELECT bid_amount, updated_at, user_id FROM p2p_bids
			WHERE auction_id = a.auction_id
			ORDER BY bid_amount DESC
			LIMIT ` + strconv.Itoa(auction.TopBidsLimit) + `
		) b
		LEFT JOIN profiles bp ON bp.user_id = b.user_id
	), '[]'::jsonb) AS bids
FROM p2p_auctions a
LEFT JOIN p2p_listings l ON l.listing_id = a.listing_id
LEFT JOIN profiles p ON p.user_id = l.user_id`

func collectAuction(row pgx.CollectableRow) (*auction.Auction, error) {
	a := new(auction.Auction)

	var listing []byte
	var bids []byte

	if err := row.Scan(
		&a.ID,
		&a.ListingID,
		&a.StartTime,
		&a.EndTime,
		&a.IsFlash,
		&a.HasEnded,
		&listing,
		&bids,
	); err != nil {
		return nil, err
	}

	// to_jsonb(NULL) || ... is NULL if listing was deleted
	if listing != nil {
		a.Listing = new(auction.Listing)
		if err := jsoniter.Unmarshal(listing, a.Listing); err != nil {
			return nil, err
		}
	}
	if err := jsoniter.Unmarshal(bids, &a.Bids); err != nil {
		return nil, err
	}

	a.ParseData()

	return a, nil
}

// Translates auction filters into WHERE clause of the query.
type whereHandle struct {
	q     *query.Query
	empty bool
}

func newWhereHandle(q *query.Query) *whereHandle {
	return &whereHandle{q: q, empty: true}
}

func (h *whereHandle) add(sql string, args ...any) {
	if h.empty {
		h.q.Append(" WHERE "+sql, args...)
		h.empty = false
		return
	}
	h.q.Append(" AND "+sql, args...)
}

func (h *whereHandle) Eq(col string, v any) { h.add("a."+col+" = ?", v) }
func (h *whereHandle) Gt(col string, v any) { h.add("a."+col+" > ?", v) }
func (h *whereHandle) Gte(col string, v any) { h.add("a."+col+" >= ?", v) }
func (h *whereHandle) Lt(col string, v any) { h.add("a."+col+" < ?", v) }
func (h *whereHandle) Lte(col string, v any) { h.add("a."+col+" <= ?", v) }

func (h *whereHandle) Like(col string, pattern string) {
	h.add("a."+col+" LIKE ?", query.ContainsPattern(pattern))
}

func (h *whereHandle) Is(col string, null bool) {
	if null {
		h.add("a." + col + " IS NULL")
	} else {
		h.add("a." + col + " IS NOT NULL")
	}
}
