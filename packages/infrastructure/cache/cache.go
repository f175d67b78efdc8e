// Read cache of auctions.
// Auctions embed top bids, so every placed bid and created auction
// invalidates all cached auction queries.
package cache

import (
	"context"
	"flashauction/packages/common/logger"
	"flashauction/packages/core/entity"
	"fmt"
	"sort"
	"strings"
)

var cacheLogger = logger.NewSource("CACHE", logger.Default)

type Cache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key string, value []byte) error
	DeletePattern(ctx context.Context, pattern string) error
}

const AuctionsKeyPrefix = "auctions:"

// Builds key from predicates of e, so equal queries share the key
// regardless of the order in which params were received.
func QueryKey(prefix string, e entity.Entity) string {
	parts := []string{}

	for _, f := range e.Fields() {
		if !f.Predicate || f.IsEmpty() {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s.%s=%v", f.Column, f.Cond, f.Value))
	}

	if len(parts) == 0 {
		return prefix + "all"
	}

	sort.Strings(parts)

	return prefix + strings.Join(parts, "&")
}
