package loader

import (
	"context"
	"log/slog"
	"strconv"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/zeebo/xxh3"

	"github.com/ardnew/aprop/log"
	"github.com/ardnew/aprop/props"
)

// DefaultDecodeCacheSize is the number of decoded contents a [Resolver]
// keeps by default.
const DefaultDecodeCacheSize = 256

// decodeCache memoizes decoded property sets keyed by a hash of the raw
// content and its format, so identical files are decoded only once. The
// least recently used entries are evicted beyond its size.
// A nil decodeCache decodes every time.
type decodeCache struct {
	entries *lru.Cache[string, *decoded]
}

type decoded struct {
	once sync.Once
	p    *props.Properties
	err  error
}

func newDecodeCache(size int) *decodeCache {
	if size <= 0 {
		size = DefaultDecodeCacheSize
	}

	entries, _ := lru.New[string, *decoded](size)

	return &decodeCache{entries: entries}
}

// decode returns a copy of the property set decoded from data.
func (c *decodeCache) decode(
	ctx context.Context,
	logger log.Logger,
	ext string,
	data []byte,
	dec Decoder,
) (*props.Properties, error) {
	if c == nil {
		return dec.Decode(data)
	}

	key := strconv.FormatUint(xxh3.Hash(data)^xxh3.HashString(ext), 36)

	entry, hit := c.entries.Get(key)
	if !hit {
		entry = new(decoded)
		if prev, ok, _ := c.entries.PeekOrAdd(key, entry); ok {
			entry = prev
		}
	}

	logger.TraceContext(ctx, "decode cache lookup",
		slog.String("key", key),
		slog.Bool("cache_hit", hit),
	)

	entry.once.Do(func() {
		entry.p, entry.err = dec.Decode(data)
	})

	if entry.err != nil {
		return nil, entry.err
	}

	return entry.p.Clone(), nil
}

// clear removes all cached entries.
func (c *decodeCache) clear() {
	if c != nil {
		c.entries.Purge()
	}
}

// ClearCache discards all decoded property sets held by r.
func (r *Resolver) ClearCache() { r.cache.clear() }
