package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"finbrief/internal/model"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "finbrief:session:"

// Store is the redis-backed conversation log. It belongs to the presentation
// layer: the brief pipeline itself never reads or writes it.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

// History returns the session's turns in chronological order. An unknown
// session is an empty history, not an error.
func (s *Store) History(ctx context.Context, sessionID string) ([]model.Turn, error) {
	entries, err := s.client.LRange(ctx, keyPrefix+sessionID, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("session history: %w", err)
	}

	turns := make([]model.Turn, 0, len(entries))
	for _, e := range entries {
		var turn model.Turn
		if err := json.Unmarshal([]byte(e), &turn); err != nil {
			return nil, fmt.Errorf("session history decode: %w", err)
		}
		turns = append(turns, turn)
	}
	return turns, nil
}

// Append adds turns to the end of the session log and refreshes its TTL.
func (s *Store) Append(ctx context.Context, sessionID string, turns ...model.Turn) error {
	key := keyPrefix + sessionID

	values := make([]interface{}, 0, len(turns))
	for _, turn := range turns {
		encoded, err := json.Marshal(turn)
		if err != nil {
			return fmt.Errorf("session append encode: %w", err)
		}
		values = append(values, encoded)
	}

	if err := s.client.RPush(ctx, key, values...).Err(); err != nil {
		return fmt.Errorf("session append: %w", err)
	}
	return s.client.Expire(ctx, key, s.ttl).Err()
}
