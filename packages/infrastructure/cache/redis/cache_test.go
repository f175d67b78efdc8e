package redis

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDriver(t *testing.T) (*Driver, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)

	d := New(Options{
		Addr:             mr.Addr(),
		SocketTimeout:    time.Second,
		OperationTimeout: time.Second,
		TTL:              time.Minute,
	})
	require.NoError(t, d.Connect(context.Background()))

	t.Cleanup(func() { d.Close() })

	return d, mr
}

func TestConnect(t *testing.T) {
	d, _ := newTestDriver(t)

	assert.ErrorIs(t, d.Connect(context.Background()), ErrAlreadyConnected)
	assert.NoError(t, d.Ping(context.Background()))
}

func TestConnectFailure(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	d := New(Options{Addr: addr, OperationTimeout: time.Millisecond * 200})

	assert.Error(t, d.Connect(context.Background()))
	assert.ErrorIs(t, d.Close(), ErrNotConnected)
}

func TestSetAndGet(t *testing.T) {
	d, mr := newTestDriver(t)
	ctx := context.Background()

	require.NoError(t, d.Set(ctx, "key", []byte("value")))

	v, hit := d.Get(ctx, "key")
	assert.True(t, hit)
	assert.Equal(t, "value", v)
	assert.Equal(t, time.Minute, mr.TTL("key"))

	mr.FastForward(time.Minute * 2)

	_, hit = d.Get(ctx, "key")
	assert.False(t, hit)
}

func TestGetMiss(t *testing.T) {
	d, _ := newTestDriver(t)

	v, hit := d.Get(context.Background(), "missing")
	assert.False(t, hit)
	assert.Empty(t, v)
}

func TestDelete(t *testing.T) {
	d, mr := newTestDriver(t)

	mr.Set("a", "1")
	mr.Set("b", "2")

	require.NoError(t, d.Delete(context.Background(), "a", "b"))
	assert.False(t, mr.Exists("a"))
	assert.False(t, mr.Exists("b"))
}

func TestDeletePattern(t *testing.T) {
	d, mr := newTestDriver(t)

	// More keys than a single scan batch
	for i := 0; i < 250; i++ {
		mr.Set("auctions:"+strconv.Itoa(i), "x")
	}
	mr.Set("other", "y")

	require.NoError(t, d.DeletePattern(context.Background(), "auctions:*"))

	assert.Equal(t, []string{"other"}, mr.Keys())
}

func TestUnavailableServer(t *testing.T) {
	d, mr := newTestDriver(t)

	mr.Close()

	_, hit := d.Get(context.Background(), "key")
	assert.False(t, hit)
	assert.Error(t, d.Set(context.Background(), "key", []byte("value")))
}

func TestNotConnected(t *testing.T) {
	d := New(Options{})

	_, hit := d.Get(context.Background(), "key")
	assert.False(t, hit)
	assert.ErrorIs(t, d.Set(context.Background(), "key", nil), ErrNotConnected)
	assert.ErrorIs(t, d.DeletePattern(context.Background(), "*"), ErrNotConnected)
}
