package postgrest

import (
	"context"
	"errors"
	Error "flashauction/packages/common/errors"
	"flashauction/packages/core/auction"
	"flashauction/packages/core/bid"
	"flashauction/packages/core/entity"
	"flashauction/packages/core/listing"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

const (
	testAPIKey  = "anon-key"
	testToken   = "user-token"
	testAuction = "0b3b6f5e-6a9b-4d8e-9d5e-000000000001"
	testListing = "0b3b6f5e-6a9b-4d8e-9d5e-000000000002"
	testUser    = "0b3b6f5e-6a9b-4d8e-9d5e-0000000000aa"
)

// Clients and stubs are closed on test cleanup, so nothing may outlive the tests.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// Starts PostgREST stub, both server and client are closed on cleanup.
func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	transport := &http.Transport{}

	t.Cleanup(func() {
		transport.CloseIdleConnections()
		server.Close()
	})

	client, err := New(Config{
		URL:        server.URL,
		APIKey:     testAPIKey,
		HTTPClient: &http.Client{Transport: transport, Timeout: time.Second * 5},
	})
	require.NoError(t, err)

	return client
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	io.WriteString(w, body)
}

func TestNewRequiresURL(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}

func TestBearer(t *testing.T) {
	assert.Equal(t, "", bearer("  "))
	assert.Equal(t, "Bearer abc", bearer("abc"))
	assert.Equal(t, "Bearer abc", bearer("bearer abc"))
	assert.Equal(t, "Bearer abc", bearer("Bearer  abc"))
}

func TestFindAuctions(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/rest/v1/p2p_auctions", r.URL.Path)
		assert.Equal(t, testAPIKey, r.Header.Get("apikey"))
		assert.Equal(t, "Bearer "+testAPIKey, r.Header.Get("Authorization"))

		query := r.URL.Query()
		assert.Equal(t,
			"*,listing:p2p_listings(*,user:profiles(username)),bids:p2p_bids(bid_amount,updated_at,user:profiles(username))",
			query.Get("select"),
		)
		assert.Equal(t, "bid_amount.desc", query.Get("bids.order"))
		assert.Equal(t, "3", query.Get("bids.limit"))
		assert.Equal(t, "end_time.asc", query.Get("order"))
		assert.Equal(t, "eq.true", query.Get("is_flash"))
		assert.Equal(t, "eq."+testAuction, query.Get("auction_id"))

		writeJSON(w, http.StatusOK, `[{
			"auction_id": "`+testAuction+`",
			"listing_id": "`+testListing+`",
			"start_time": "2026-05-01T12:00:00+00:00",
			"end_time": "2026-05-01T13:00:00+00:00",
			"is_flash": true,
			"has_ended": false,
			"listing": {"listing_id": "`+testListing+`", "title": "Golf", "user_price": "1500.50", "user": {"username": "seller"}},
			"bids": [{"bid_amount": "70", "updated_at": "2026-05-01T12:10:00+00:00", "user": {"username": "bidder"}}]
		}]`)
	})

	a := auction.New()
	a.PrepareQueryData(map[string]any{"auction_id": testAuction, "is_flash": "true"})

	auctions, err := NewAuctionRepository(client).Find(context.Background(), a)
	require.NoError(t, err)
	require.Len(t, auctions, 1)

	found := auctions[0]
	assert.Equal(t, "2026-05-01T13:00:00.000Z", *found.EndTime)
	assert.Equal(t, "Golf", *found.Listing.Title)
	assert.Equal(t, 1500.5, found.Listing.UserPrice)
	assert.Equal(t, "seller", found.Listing.User.Username)
	require.Len(t, found.Bids, 1)
	assert.Equal(t, float64(70), found.Bids[0].BidAmount)
	assert.Equal(t, "bidder", found.Bids[0].User.Username)
}

func TestFindAllAuctions(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		assert.False(t, query.Has("auction_id"))
		assert.False(t, query.Has("is_flash"))
		writeJSON(w, http.StatusOK, `[]`)
	})

	auctions, err := NewAuctionRepository(client).Find(context.Background(), auction.New())
	require.NoError(t, err)
	assert.Empty(t, auctions)
}

func newFlashAuction() *auction.Auction {
	listingID := testListing
	start := "2026-05-01T12:00:00.000Z"
	end := "2026-05-01T13:00:00.000Z"

	a := &auction.Auction{ListingID: &listingID, StartTime: &start, EndTime: &end}
	a.PrepareData()

	return a
}

func TestLikeMatchesWildcardsLiterally(t *testing.T) {
	client, err := New(Config{URL: "http://localhost:54321"})
	require.NoError(t, err)

	l := listing.New()
	l.PrepareQueryData(map[string]any{"search": `50%_off*\`})

	q := client.From(listing.Table)
	require.NoError(t, entity.ApplyFilters(l, q.Filters()))

	assert.Equal(t, `like.*50\%\_off\*\\*`, q.params.Get("title"))
}

func TestCreateAuction(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer "+testToken, r.Header.Get("Authorization"))
		assert.Equal(t, "return=representation", r.Header.Get("Prefer"))
		assert.Equal(t, "application/vnd.pgrst.object+json", r.Header.Get("Accept"))

		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{
			"listing_id": "`+testListing+`",
			"start_time": "2026-05-01T12:00:00.000Z",
			"end_time": "2026-05-01T13:00:00.000Z",
			"is_flash": true,
			"has_ended": false
		}`, string(body))

		writeJSON(w, http.StatusCreated, `{
			"auction_id": "`+testAuction+`",
			"listing_id": "`+testListing+`",
			"is_flash": true,
			"has_ended": false,
			"bids": []
		}`)
	})

	created, err := NewAuctionRepository(client).Create(
		context.Background(),
		newFlashAuction(),
		auction.Requester{UserID: testUser, AuthToken: testToken},
	)
	require.NoError(t, err)
	assert.Equal(t, testAuction, *created.ID)
}

func TestCreateAuctionOfForeignListing(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusForbidden, `{
			"code": "42501",
			"message": "new row violates row-level security policy for table \"p2p_auctions\""
		}`)
	})

	_, err := NewAuctionRepository(client).Create(
		context.Background(),
		newFlashAuction(),
		auction.Requester{UserID: testUser, AuthToken: testToken},
	)
	assert.Equal(t, auction.NotListingOwner, err)
}

func TestLookup(t *testing.T) {
	testCases := []struct {
		name    string
		body    string
		credits float64
		current *float64
	}{
		{"without bid", `{"credits": "100", "bid": []}`, 100, nil},
		{"with bid", `{"credits": 70, "bid": [{"bid_amount": "30"}]}`, 70, func() *float64 { v := 30.0; return &v }()},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/rest/v1/profiles", r.URL.Path)
				assert.Equal(t, "Bearer "+testToken, r.Header.Get("Authorization"))

				query := r.URL.Query()
				assert.Equal(t, "credits,bid:p2p_bids(bid_amount)", query.Get("select"))
				assert.Equal(t, "eq."+testUser, query.Get("user_id"))
				assert.Equal(t, "eq."+testAuction, query.Get("bid.auction_id"))

				writeJSON(w, http.StatusOK, tc.body)
			})

			balance, err := NewBidStore(client).Lookup(context.Background(), bid.LookupParams{
				AuctionID: testAuction,
				UserID:    testUser,
				AuthToken: testToken,
			})
			require.NoError(t, err)
			assert.Equal(t, tc.credits, balance.Credits)
			assert.Equal(t, tc.current, balance.CurrentBid)
		})
	}
}

func TestLookupUnknownProfile(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotAcceptable, `{
			"code": "PGRST116",
			"message": "JSON object requested, multiple (or no) rows returned",
			"details": "The result contains 0 rows"
		}`)
	})

	_, err := NewBidStore(client).Lookup(context.Background(), bid.LookupParams{
		AuctionID: testAuction,
		UserID:    testUser,
	})

	storeErr, ok := Error.AsStore(err)
	require.True(t, ok)
	assert.True(t, storeErr.NotFound)
	assert.Contains(t, storeErr.Message, "0 rows")
}

func placeCommand() bid.PlaceCommand {
	auctionID := testAuction
	userID := testUser

	return bid.PlaceCommand{
		Bid:       &bid.Bid{AuctionID: &auctionID, UserID: &userID, BidAmount: 30.0},
		Debit:     30,
		AuthToken: testToken,
	}
}

func TestPlace(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/rpc/place_bid", r.URL.Path)
		assert.Equal(t, "Bearer "+testToken, r.Header.Get("Authorization"))

		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"p_auction_id": "`+testAuction+`", "p_bid_amount": 30}`, string(body))

		writeJSON(w, http.StatusOK, `{
			"bid": {
				"bidding_id": 7,
				"auction_id": "`+testAuction+`",
				"user_id": "`+testUser+`",
				"bid_amount": 50,
				"updated_at": "2026-05-01T12:10:00+00:00"
			},
			"credits": 50
		}`)
	})

	placed, credits, err := NewBidStore(client).Place(context.Background(), placeCommand())
	require.NoError(t, err)
	assert.Equal(t, float64(50), credits)
	assert.Equal(t, float64(50), placed.BidAmount)
	assert.Equal(t, testUser, *placed.UserID)
}

func TestPlaceErrors(t *testing.T) {
	testCases := []struct {
		code     string
		status   int
		expected error
	}{
		{bid.InsufficientCreditsCode, http.StatusBadRequest, bid.ErrInsufficientCredits},
		{bid.CreditWriteCode, http.StatusBadRequest, bid.ErrCreditWrite},
		{"23503", http.StatusConflict, bid.ErrBidWrite},
		{bid.ProfileNotFoundCode, http.StatusBadRequest, bid.ErrBidWrite},
	}

	for _, tc := range testCases {
		t.Run(tc.code, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tc.status, `{"code": "`+tc.code+`", "message": "failed"}`)
			})

			_, _, err := NewBidStore(client).Place(context.Background(), placeCommand())
			assert.ErrorIs(t, err, tc.expected)

			storeErr, ok := Error.AsStore(err)
			require.True(t, ok)
			assert.Equal(t, tc.code, storeErr.Code)
		})
	}
}

func TestBreakerIgnoresClientErrors(t *testing.T) {
	var hits atomic.Int32

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		writeJSON(w, http.StatusBadRequest, `{"code": "PGRST100", "message": "bad filter"}`)
	})

	for i := 0; i < 10; i++ {
		_, err := client.From("profiles").Execute(context.Background())
		_, ok := Error.AsStore(err)
		require.True(t, ok)
	}

	assert.EqualValues(t, 10, hits.Load())
}

func TestBreakerOpensOnServerErrors(t *testing.T) {
	var hits atomic.Int32

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		writeJSON(w, http.StatusServiceUnavailable, `{"message": "upstream unavailable"}`)
	})

	// Breaker trips after more than 5 consecutive failures
	for i := 0; i < 6; i++ {
		_, err := client.From("profiles").Execute(context.Background())
		storeErr, ok := Error.AsStore(err)
		require.True(t, ok)
		assert.Equal(t, "upstream unavailable", storeErr.Message)
	}

	_, err := client.From("profiles").Execute(context.Background())
	assert.True(t, errors.Is(err, Error.StatusServiceUnavailable))
	assert.EqualValues(t, 6, hits.Load())
}
