// Package cache stores finished answers in Redis, keyed by a fingerprint of
// the query, the synthesis model, and the requested result-set size.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultTTL is how long an answer stays cached when no TTL is configured.
const DefaultTTL = 24 * time.Hour

// Entry is the cached part of a query result. Sources are never cached.
type Entry struct {
	Answer  string `json:"answer"`
	UsedWeb bool   `json:"used_web"`
}

// Cache is a Redis-backed answer cache. It is safe for concurrent use.
type Cache struct {
	client    *redis.Client
	namespace string
}

// New connects to the Redis server at redisURL (redis://host:port/db).
// The connection is lazy; use Ping to check reachability.
func New(redisURL, namespace string) (*Cache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	opts.DialTimeout = 2 * time.Second
	opts.ReadTimeout = time.Second
	opts.WriteTimeout = time.Second
	return NewWithClient(redis.NewClient(opts), namespace), nil
}

// NewWithClient wraps an existing client.
func NewWithClient(client *redis.Client, namespace string) *Cache {
	return &Cache{client: client, namespace: namespace}
}

// Fingerprint returns the cache key for a query:
// namespace + ":" + hex(sha256(query + ":" + model + ":" + topK)).
// The query is trimmed and internal whitespace runs are collapsed first.
func Fingerprint(namespace, query, model string, topK int) string {
	normalized := strings.Join(strings.Fields(query), " ")
	sum := sha256.Sum256([]byte(normalized + ":" + model + ":" + strconv.Itoa(topK)))
	return namespace + ":" + hex.EncodeToString(sum[:])
}

// Key returns the fingerprint of a query within this cache's namespace.
func (c *Cache) Key(query, model string, topK int) string {
	return Fingerprint(c.namespace, query, model, topK)
}

// Get returns the entry stored under key. A missing key is reported as
// ok=false with a nil error.
func (c *Cache) Get(ctx context.Context, key string) (Entry, bool, error) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("failed to read cache: %w", err)
	}

	var entry Entry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return Entry{}, false, fmt.Errorf("failed to decode cache entry: %w", err)
	}
	return entry, true, nil
}

// Put stores entry under key for ttl. A non-positive ttl uses DefaultTTL.
func (c *Cache) Put(ctx context.Context, key string, entry Entry, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}
	if err := c.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write cache: %w", err)
	}
	return nil
}

// Ping checks that Redis answers.
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the underlying connection pool.
func (c *Cache) Close() error {
	return c.client.Close()
}
