package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"branchbot/internal/model"
)

// In-memory stand-ins for the Mongo repositories and Redis caches. The
// caches roundtrip values through JSON so tests see the same serialization
// behavior as Redis, not shared pointers.

type fakeSurveyRepo struct {
	mu      sync.Mutex
	surveys map[string]*model.Survey
}

func newFakeSurveyRepo() *fakeSurveyRepo {
	return &fakeSurveyRepo{surveys: make(map[string]*model.Survey)}
}

func (r *fakeSurveyRepo) Create(ctx context.Context, survey *model.Survey) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if survey.ID == "" {
		survey.ID = uuid.New().String()
	}
	r.surveys[survey.ID] = survey
	return survey.ID, nil
}

func (r *fakeSurveyRepo) GetByID(ctx context.Context, id string) (*model.Survey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.surveys[id], nil
}

func (r *fakeSurveyRepo) GetByBuilderID(ctx context.Context, builderID string) ([]*model.Survey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Survey
	for _, s := range r.surveys {
		if s.BuilderID == builderID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeSurveyRepo) Update(ctx context.Context, survey *model.Survey) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.surveys[survey.ID]; !ok {
		return fmt.Errorf("survey %s not found", survey.ID)
	}
	r.surveys[survey.ID] = survey
	return nil
}

func (r *fakeSurveyRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.surveys, id)
	return nil
}

type fakeRuleRepo struct {
	mu    sync.Mutex
	rules []model.BranchingRule
}

func newFakeRuleRepo() *fakeRuleRepo {
	return &fakeRuleRepo{}
}

func (r *fakeRuleRepo) Create(ctx context.Context, rule *model.BranchingRule) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rules = append(r.rules, *rule)
	return nil
}

func (r *fakeRuleRepo) ListBySurvey(ctx context.Context, surveyID string) ([]model.BranchingRule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.BranchingRule
	for _, rule := range r.rules {
		if rule.SurveyID == surveyID {
			out = append(out, rule)
		}
	}
	// Creation order is insertion order here; sorting happens in the real
	// repo's Mongo query.
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].CreatedAt.Before(out[j-1].CreatedAt); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out, nil
}

func (r *fakeRuleRepo) Delete(ctx context.Context, surveyID string, sourceID, targetID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, rule := range r.rules {
		if rule.SurveyID == surveyID && rule.SourceID == sourceID && rule.TargetID == targetID {
			r.rules = append(r.rules[:i], r.rules[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("rule %d -> %d not found", sourceID, targetID)
}

func (r *fakeRuleRepo) DeleteBySurvey(ctx context.Context, surveyID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.rules[:0]
	for _, rule := range r.rules {
		if rule.SurveyID != surveyID {
			kept = append(kept, rule)
		}
	}
	r.rules = kept
	return nil
}

type fakeResponseRepo struct {
	mu        sync.Mutex
	responses map[string]*model.Response
}

func newFakeResponseRepo() *fakeResponseRepo {
	return &fakeResponseRepo{responses: make(map[string]*model.Response)}
}

func (r *fakeResponseRepo) Create(ctx context.Context, response *model.Response) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.responses[response.ID] = response
	return nil
}

func (r *fakeResponseRepo) GetByID(ctx context.Context, id string) (*model.Response, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.responses[id], nil
}

func (r *fakeResponseRepo) ListBySurvey(ctx context.Context, surveyID string) ([]*model.Response, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Response
	for _, resp := range r.responses {
		if resp.SurveyID == surveyID {
			out = append(out, resp)
		}
	}
	return out, nil
}

type fakeStateCache struct {
	mu     sync.Mutex
	states map[string][]byte
}

func newFakeStateCache() *fakeStateCache {
	return &fakeStateCache{states: make(map[string][]byte)}
}

func (c *fakeStateCache) Set(ctx context.Context, responseID string, state *model.NavigationState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.states[responseID] = data
	return nil
}

func (c *fakeStateCache) Get(ctx context.Context, responseID string) (*model.NavigationState, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.states[responseID]
	if !ok {
		return nil, nil
	}
	var state model.NavigationState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (c *fakeStateCache) Delete(ctx context.Context, responseID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.states, responseID)
	return nil
}

type fakeSurveyCache struct {
	mu            sync.Mutex
	snapshots     map[string][]byte
	invalidations int
}

func newFakeSurveyCache() *fakeSurveyCache {
	return &fakeSurveyCache{snapshots: make(map[string][]byte)}
}

func (c *fakeSurveyCache) SetSnapshot(ctx context.Context, surveyID string, snap *model.SurveySnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snapshots[surveyID] = data
	return nil
}

func (c *fakeSurveyCache) GetSnapshot(ctx context.Context, surveyID string) (*model.SurveySnapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.snapshots[surveyID]
	if !ok {
		return nil, nil
	}
	var snap model.SurveySnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

func (c *fakeSurveyCache) Invalidate(ctx context.Context, surveyID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.snapshots, surveyID)
	c.invalidations++
	return nil
}

type broadcastEvent struct {
	surveyID   string
	responseID string
	msgType    string
}

type fakeBroadcaster struct {
	mu     sync.Mutex
	events []broadcastEvent
}

func (b *fakeBroadcaster) BroadcastToMonitor(surveyID string, msgType string, payload interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, broadcastEvent{surveyID: surveyID, msgType: msgType})
}

func (b *fakeBroadcaster) SendToResponse(responseID string, msgType string, payload interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, broadcastEvent{responseID: responseID, msgType: msgType})
}

func (b *fakeBroadcaster) types() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.events))
	for i, e := range b.events {
		out[i] = e.msgType
	}
	return out
}
