package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"branchbot/internal/model"
)

// SurveyCache handles Redis operations for per-survey evaluation snapshots
// (question order, kinds, rule set) so chat traffic does not hit Mongo on
// every message. Invalidated whenever the survey or its rules change.
type SurveyCache interface {
	SetSnapshot(ctx context.Context, surveyID string, snap *model.SurveySnapshot) error
	GetSnapshot(ctx context.Context, surveyID string) (*model.SurveySnapshot, error)
	Invalidate(ctx context.Context, surveyID string) error
}

type surveyCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSurveyCache creates a new survey snapshot cache
func NewSurveyCache(client *redis.Client) SurveyCache {
	return &surveyCache{
		client: client,
		ttl:    time.Hour,
	}
}

func (c *surveyCache) key(surveyID string) string {
	return fmt.Sprintf("survey:%s:snapshot", surveyID)
}

func (c *surveyCache) SetSnapshot(ctx context.Context, surveyID string, snap *model.SurveySnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(surveyID), data, c.ttl).Err()
}

func (c *surveyCache) GetSnapshot(ctx context.Context, surveyID string) (*model.SurveySnapshot, error) {
	data, err := c.client.Get(ctx, c.key(surveyID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var snap model.SurveySnapshot
	if err := json.Unmarshal([]byte(data), &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

func (c *surveyCache) Invalidate(ctx context.Context, surveyID string) error {
	return c.client.Del(ctx, c.key(surveyID)).Err()
}
