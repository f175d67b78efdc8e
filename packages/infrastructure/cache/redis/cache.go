package redis

import (
	"context"
	"errors"
	Error "flashauction/packages/common/errors"
	"flashauction/packages/common/logger"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

var cacheLogger = logger.NewSource("CACHE", logger.Default)

var ErrAlreadyConnected = errors.New("cache connection already established")
var ErrNotConnected = errors.New("cache connection isn't established")

type Options struct {
	Addr     string
	Password string
	DB       int

	SocketTimeout    time.Duration
	OperationTimeout time.Duration
	TTL              time.Duration
}

type Driver struct {
	opt         Options
	client      *redis.Client
	isConnected bool
}

func New(opt Options) *Driver {
	return &Driver{opt: opt}
}

func (d *Driver) Connect(ctx context.Context) error {
	if d.isConnected {
		return ErrAlreadyConnected
	}

	cacheLogger.Info("Connecting to DB...", nil)

	d.client = redis.NewClient(&redis.Options{
		Addr:        d.opt.Addr,
		Password:    d.opt.Password,
		DB:          d.opt.DB,
		ReadTimeout: d.opt.SocketTimeout,
	})

	ctx, cancel := d.timeoutContext(ctx, 1)
	defer cancel()

	if err := d.client.Ping(ctx).Err(); err != nil {
		cacheLogger.Error("DB connection failed", err.Error(), nil)
		d.client.Close()
		d.client = nil
		return err
	}

	cacheLogger.Info("Connecting to DB: OK", nil)

	d.isConnected = true

	return nil
}

func (d *Driver) Close() error {
	if !d.isConnected {
		return ErrNotConnected
	}

	cacheLogger.Info("Disconnecting from DB...", nil)

	if err := d.client.Close(); err != nil {
		cacheLogger.Error("Failed to disconnect from DB", err.Error(), nil)
		return err
	}

	cacheLogger.Info("Disconnecting from DB: OK", nil)

	d.isConnected = false

	return nil
}

func (d *Driver) Ping(ctx context.Context) error {
	if !d.isConnected {
		return ErrNotConnected
	}

	ctx, cancel := d.timeoutContext(ctx, 1)
	defer cancel()

	return d.client.Ping(ctx).Err()
}

// Timeout is n times the operation timeout.
func (d *Driver) timeoutContext(ctx context.Context, n int) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, d.opt.OperationTimeout*time.Duration(n))
}

// Logs given action and error.
// Returns err converted to *Error.Status.
func logAndConvert(action string, err error) error {
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			cacheLogger.Error("Request failed", "TIMEOUT: "+action, nil)
		} else {
			cacheLogger.Error("Request failed", "Failed to "+action+": "+err.Error(), nil)
		}
		return Error.StatusInternalError
	}

	cacheLogger.Trace(action, nil)

	return nil
}

func (d *Driver) Get(ctx context.Context, key string) (string, bool) {
	if !d.isConnected {
		return "", false
	}

	ctx, cancel := d.timeoutContext(ctx, 1)
	defer cancel()

	cachedData, err := d.client.Get(ctx, key).Result()
	if err == redis.Nil {
		cacheLogger.Trace("Miss: "+key, nil)
		return "", false
	}

	return cachedData, logAndConvert("Get: "+key, err) == nil
}

// Value is stored with the configured TTL.
func (d *Driver) Set(ctx context.Context, key string, value []byte) error {
	if !d.isConnected {
		return ErrNotConnected
	}

	ctx, cancel := d.timeoutContext(ctx, 1)
	defer cancel()

	err := d.client.Set(ctx, key, value, d.opt.TTL).Err()

	return logAndConvert("Set: "+key, err)
}

func (d *Driver) Delete(ctx context.Context, keys ...string) error {
	if !d.isConnected {
		return ErrNotConnected
	}

	ctx, cancel := d.timeoutContext(ctx, 1)
	defer cancel()

	err := d.client.Unlink(ctx, keys...).Err()

	return logAndConvert("Delete: "+strings.Join(keys, ","), err)
}

const deletePatternAction = "Delete Pattern: "

// Collects keys matching pattern over the full SCAN walk, then unlinks
// them in pipelined batches. Keys are never removed mid-walk, so the
// cursor can't skip keys on servers that use offset cursors.
func (d *Driver) DeletePattern(ctx context.Context, pattern string) error {
	if !d.isConnected {
		return ErrNotConnected
	}

	const batchSize = 100

	ctx, cancel := d.timeoutContext(ctx, 5)
	defer cancel()

	var keys []string
	var cursor uint64

	for {
		batch, next, err := d.client.Scan(ctx, cursor, pattern, batchSize).Result()
		if err != nil {
			return logAndConvert(deletePatternAction+pattern, err)
		}

		keys = append(keys, batch...)

		if next == 0 {
			break
		}

		cursor = next
	}

	for start := 0; start < len(keys); start += batchSize {
		end := min(start+batchSize, len(keys))

		pipeline := d.client.Pipeline()

		for _, key := range keys[start:end] {
			pipeline.Unlink(ctx, key)
		}

		if _, err := pipeline.Exec(ctx); err != nil {
			return logAndConvert(deletePatternAction+pattern, err)
		}
	}

	cacheLogger.Trace("Deleted "+strconv.Itoa(len(keys))+" keys matching "+pattern, nil)

	return nil
}
