package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/followwise/followwise-api/internal/entity"
)

const (
	suggestionKeyPrefix = "followups:lead:"    // followups:lead:{lead_id} -> JSON batch
	versionKeyPrefix    = "followups:version:" // followups:version:{lead_id} -> invalidation counter
	defaultTTL          = 10 * time.Minute
	versionTTL          = 24 * time.Hour
)

var errStaleFill = errors.New("suggestions changed since read")

// SuggestionCache keeps each lead's live batch in Redis. Every invalidation
// bumps a per-lead counter, and a fill only lands when the counter still
// holds the value read before the database was queried.
type SuggestionCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSuggestionCache(client *redis.Client, ttl time.Duration) *SuggestionCache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &SuggestionCache{client: client, ttl: ttl}
}

func (c *SuggestionCache) Get(ctx context.Context, leadID string) ([]*entity.FollowUpSuggestion, bool, error) {
	data, err := c.client.Get(ctx, key(leadID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read suggestions: %w", err)
	}

	var batch []*entity.FollowUpSuggestion
	if err := json.Unmarshal(data, &batch); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal suggestions: %w", err)
	}
	return batch, true, nil
}

// Version returns the lead's invalidation counter, zero when never invalidated.
func (c *SuggestionCache) Version(ctx context.Context, leadID string) (int64, error) {
	v, err := c.client.Get(ctx, versionKey(leadID)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read suggestion version: %w", err)
	}
	return v, nil
}

// Set stores batch unless the lead was invalidated after version was read.
// A skipped fill is not an error.
func (c *SuggestionCache) Set(ctx context.Context, leadID string, version int64, batch []*entity.FollowUpSuggestion) error {
	data, err := json.Marshal(batch)
	if err != nil {
		return fmt.Errorf("failed to marshal suggestions: %w", err)
	}

	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, versionKey(leadID)).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != version {
			return errStaleFill
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key(leadID), data, c.ttl)
			return nil
		})
		return err
	}, versionKey(leadID))

	if errors.Is(err, errStaleFill) || errors.Is(err, redis.TxFailedErr) {
		log.Printf("[CACHE] skipped stale fill for lead %s", leadID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to store suggestions: %w", err)
	}
	return nil
}

func (c *SuggestionCache) Invalidate(ctx context.Context, leadID string) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, versionKey(leadID))
		pipe.Expire(ctx, versionKey(leadID), versionTTL)
		pipe.Del(ctx, key(leadID))
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to drop suggestions: %w", err)
	}
	return nil
}

func key(leadID string) string {
	return suggestionKeyPrefix + leadID
}

func versionKey(leadID string) string {
	return versionKeyPrefix + leadID
}
