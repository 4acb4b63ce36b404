package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"blgs-backend/internal/models"
)

const conversationKeyPrefix = "chat:conversation:"

type redisKV interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// ConversationRepo stores chat transcripts in Redis, one JSON document per
// conversation id, expiring ttl after the last write.
type ConversationRepo struct {
	redis redisKV
	ttl   time.Duration
}

func NewConversationRepo(client *redis.Client, ttl time.Duration) *ConversationRepo {
	return &ConversationRepo{redis: client, ttl: ttl}
}

func conversationKey(id string) string {
	return conversationKeyPrefix + id
}

// Load returns the stored turns, or nil when the conversation is unknown or expired.
func (r *ConversationRepo) Load(ctx context.Context, id string) ([]models.ChatTurn, error) {
	raw, err := r.redis.Get(ctx, conversationKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load conversation: %w", err)
	}

	var turns []models.ChatTurn
	if err := json.Unmarshal(raw, &turns); err != nil {
		return nil, fmt.Errorf("failed to decode conversation: %w", err)
	}
	return turns, nil
}

// Save replaces the transcript and refreshes its expiry.
func (r *ConversationRepo) Save(ctx context.Context, id string, turns []models.ChatTurn) error {
	data, err := json.Marshal(turns)
	if err != nil {
		return fmt.Errorf("failed to encode conversation: %w", err)
	}
	if err := r.redis.Set(ctx, conversationKey(id), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save conversation: %w", err)
	}
	return nil
}

func (r *ConversationRepo) Delete(ctx context.Context, id string) error {
	if err := r.redis.Del(ctx, conversationKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete conversation: %w", err)
	}
	return nil
}
