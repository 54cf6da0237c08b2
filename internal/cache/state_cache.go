package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"branchbot/internal/model"
)

// StateCache handles Redis operations for live navigation state. One entry
// per in-flight response; completed responses are archived to Mongo and the
// entry dropped.
type StateCache interface {
	Set(ctx context.Context, responseID string, state *model.NavigationState) error
	Get(ctx context.Context, responseID string) (*model.NavigationState, error)
	Delete(ctx context.Context, responseID string) error
}

type stateCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStateCache creates a new navigation-state cache
func NewStateCache(client *redis.Client) StateCache {
	return &stateCache{
		client: client,
		ttl:    24 * time.Hour, // abandoned responses expire after 24h
	}
}

func (c *stateCache) key(responseID string) string {
	return fmt.Sprintf("response:%s:state", responseID)
}

func (c *stateCache) Set(ctx context.Context, responseID string, state *model.NavigationState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(responseID), data, c.ttl).Err()
}

func (c *stateCache) Get(ctx context.Context, responseID string) (*model.NavigationState, error) {
	data, err := c.client.Get(ctx, c.key(responseID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var state model.NavigationState
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (c *stateCache) Delete(ctx context.Context, responseID string) error {
	return c.client.Del(ctx, c.key(responseID)).Err()
}
