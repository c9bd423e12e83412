// Package redis implements the domain.DocumentCache interface on Redis.
// Extracted documents are stored as JSON keyed by a hash of the source, so
// repeated requests for the same paper skip the download-and-parse step.
package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/inklight-ai/condense/internal/domain"
	"github.com/inklight-ai/condense/internal/observability"
)

const keyPrefix = "condense:doc:"

// Config contains Redis connection settings.
type Config struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB"       envDefault:"0"`
}

// DocumentCache stores extracted documents in Redis.
type DocumentCache struct {
	client *redis.Client
}

// Ensure DocumentCache implements domain.DocumentCache.
var _ domain.DocumentCache = (*DocumentCache)(nil)

// NewDocumentCache creates a Redis-backed document cache.
func NewDocumentCache(client *redis.Client) *DocumentCache {
	return &DocumentCache{client: client}
}

// NewClient creates a Redis client from config.
func NewClient(config Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
	})
}

// Get returns the cached document for source, or domain.ErrCacheMiss.
func (c *DocumentCache) Get(ctx context.Context, source string) (*domain.Document, error) {
	key := cacheKey(source)

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrCacheMiss
		}
		return nil, fmt.Errorf("cache get failed: %w", err)
	}

	var doc domain.Document
	if unmarshalErr := json.Unmarshal(data, &doc); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to unmarshal cached document: %w", unmarshalErr)
	}

	return &doc, nil
}

// Set stores the document with the given TTL.
func (c *DocumentCache) Set(ctx context.Context, doc *domain.Document, ttl time.Duration) error {
	if doc == nil {
		return errors.New("document cannot be nil")
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	key := cacheKey(doc.Source)

	if setErr := c.client.Set(ctx, key, data, ttl).Err(); setErr != nil {
		return fmt.Errorf("cache set failed: %w", setErr)
	}

	observability.FromContext(ctx).Debug("document cached",
		observability.String("key", key),
		observability.Int("data_size", len(data)),
		observability.Duration("ttl", ttl))

	return nil
}

// cacheKey hashes the source so arbitrary URLs make safe Redis keys.
func cacheKey(source string) string {
	sum := sha256.Sum256([]byte(source))
	return keyPrefix + hex.EncodeToString(sum[:])
}
