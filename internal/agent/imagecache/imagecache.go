// Package imagecache correlates an uploaded image with the next
// assistant turn. Each upload gets a single-use token that expires on
// its own if never spent.
package imagecache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "imgctx:"

// Entry is the stored image metadata a token points at.
type Entry struct {
	AssetID     string    `json:"asset_id"`
	StorageKey  string    `json:"storage_key"`
	Bucket      string    `json:"bucket"`
	URL         string    `json:"url"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	Caption     string    `json:"caption,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Cache stores entries in redis under a TTL. Consume is a GETDEL, so a
// token spends exactly once even across concurrent requests.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

func New(rdb *redis.Client, ttl time.Duration) *Cache {
	return &Cache{rdb: rdb, ttl: ttl}
}

// TTL reports how long tokens stay valid.
func (c *Cache) TTL() time.Duration { return c.ttl }

// Put stores the entry and returns its fresh token.
func (c *Cache) Put(ctx context.Context, e Entry) (string, error) {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	payload, err := json.Marshal(e)
	if err != nil {
		return "", err
	}
	token := uuid.NewString()
	if err := c.rdb.Set(ctx, keyPrefix+token, payload, c.ttl).Err(); err != nil {
		return "", fmt.Errorf("storing image context: %w", err)
	}
	return token, nil
}

// Peek reads an entry without spending the token. ok is false for
// unknown or expired tokens.
func (c *Cache) Peek(ctx context.Context, token string) (Entry, bool, error) {
	return c.decode(c.rdb.Get(ctx, keyPrefix+token))
}

// Consume reads and atomically deletes the entry. A second Consume of
// the same token misses.
func (c *Cache) Consume(ctx context.Context, token string) (Entry, bool, error) {
	return c.decode(c.rdb.GetDel(ctx, keyPrefix+token))
}

func (c *Cache) decode(cmd *redis.StringCmd) (Entry, bool, error) {
	payload, err := cmd.Bytes()
	if errors.Is(err, redis.Nil) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("reading image context: %w", err)
	}
	var e Entry
	if err := json.Unmarshal(payload, &e); err != nil {
		return Entry{}, false, err
	}
	return e, true, nil
}

type ctxKey struct{}

// WithToken threads an image token through a request context so the
// operation that finally wants the image can consume it.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, ctxKey{}, token)
}

// TokenFrom extracts the token set by WithToken, or "".
func TokenFrom(ctx context.Context) string {
	token, _ := ctx.Value(ctxKey{}).(string)
	return token
}
