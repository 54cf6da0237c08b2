package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"branchbot/internal/branching"
	"branchbot/internal/cache"
	"branchbot/internal/model"
	"branchbot/internal/repository"
)

// CreateRuleRequest is a candidate branching rule from the builder UI
type CreateRuleRequest struct {
	SourceID  int             `json:"sourceId"`
	TargetID  int             `json:"targetId"`
	Condition model.Condition `json:"condition"`
}

// RuleService manages branching rules. Rule creation is validate-then-insert
// and therefore serialized per survey: two rules submitted concurrently must
// not both pass validation against a graph that is stale by the time either
// commits.
type RuleService struct {
	surveySvc   *SurveyService
	ruleRepo    repository.RuleRepo
	surveyCache cache.SurveyCache
	logger      *slog.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewRuleService creates a new rule service
func NewRuleService(surveySvc *SurveyService, ruleRepo repository.RuleRepo, surveyCache cache.SurveyCache, logger *slog.Logger) *RuleService {
	if logger == nil {
		logger = slog.Default()
	}
	return &RuleService{
		surveySvc:   surveySvc,
		ruleRepo:    ruleRepo,
		surveyCache: surveyCache,
		logger:      logger,
		locks:       make(map[string]*sync.Mutex),
	}
}

// surveyLock returns the mutex serializing rule writes for one survey.
func (s *RuleService) surveyLock(surveyID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[surveyID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[surveyID] = lock
	}
	return lock
}

// Create validates a candidate rule against the survey's current graph and
// persists it when accepted. Validation failures are returned unwrapped so
// callers can map them to distinct API errors.
func (s *RuleService) Create(ctx context.Context, builderID, surveyID string, req *CreateRuleRequest) (*model.BranchingRule, error) {
	survey, err := s.surveySvc.GetByID(ctx, builderID, surveyID)
	if err != nil {
		return nil, err
	}

	lock := s.surveyLock(surveyID)
	lock.Lock()
	defer lock.Unlock()

	rules, err := s.ruleRepo.ListBySurvey(ctx, surveyID)
	if err != nil {
		return nil, err
	}

	candidate := model.BranchingRule{
		SurveyID:  surveyID,
		SourceID:  req.SourceID,
		TargetID:  req.TargetID,
		Condition: req.Condition,
		CreatedAt: time.Now(),
	}

	graph := branching.NewGraph(rules)
	if err := branching.ValidateRule(graph, candidate, questionIndex(survey), survey.Settings.CanBranch); err != nil {
		return nil, err
	}

	if err := s.ruleRepo.Create(ctx, &candidate); err != nil {
		return nil, err
	}
	if err := s.surveyCache.Invalidate(ctx, surveyID); err != nil {
		s.logger.Warn("failed to invalidate survey snapshot", "surveyId", surveyID, "error", err)
	}

	s.logger.Info("branching rule created",
		"surveyId", surveyID, "sourceId", candidate.SourceID, "targetId", candidate.TargetID,
		"operator", candidate.Condition.Operator)
	return &candidate, nil
}

// Validate dry-runs a candidate rule without persisting anything.
func (s *RuleService) Validate(ctx context.Context, builderID, surveyID string, req *CreateRuleRequest) error {
	survey, err := s.surveySvc.GetByID(ctx, builderID, surveyID)
	if err != nil {
		return err
	}
	rules, err := s.ruleRepo.ListBySurvey(ctx, surveyID)
	if err != nil {
		return err
	}
	candidate := model.BranchingRule{
		SurveyID:  surveyID,
		SourceID:  req.SourceID,
		TargetID:  req.TargetID,
		Condition: req.Condition,
	}
	return branching.ValidateRule(branching.NewGraph(rules), candidate, questionIndex(survey), survey.Settings.CanBranch)
}

// List returns a survey's rules in creation order
func (s *RuleService) List(ctx context.Context, builderID, surveyID string) ([]model.BranchingRule, error) {
	if _, err := s.surveySvc.GetByID(ctx, builderID, surveyID); err != nil {
		return nil, err
	}
	return s.ruleRepo.ListBySurvey(ctx, surveyID)
}

// Delete removes one rule by its (source, target) pair
func (s *RuleService) Delete(ctx context.Context, builderID, surveyID string, sourceID, targetID int) error {
	if _, err := s.surveySvc.GetByID(ctx, builderID, surveyID); err != nil {
		return err
	}

	lock := s.surveyLock(surveyID)
	lock.Lock()
	defer lock.Unlock()

	if err := s.ruleRepo.Delete(ctx, surveyID, sourceID, targetID); err != nil {
		return err
	}
	if err := s.surveyCache.Invalidate(ctx, surveyID); err != nil {
		s.logger.Warn("failed to invalidate survey snapshot", "surveyId", surveyID, "error", err)
	}
	return nil
}

// AuditCycles runs the full-graph cycle audit for diagnostics. Every
// insertion is individually validated, so a non-empty result means the
// stored rule set was corrupted outside this service.
func (s *RuleService) AuditCycles(ctx context.Context, builderID, surveyID string) ([][]int, error) {
	if _, err := s.surveySvc.GetByID(ctx, builderID, surveyID); err != nil {
		return nil, err
	}
	rules, err := s.ruleRepo.ListBySurvey(ctx, surveyID)
	if err != nil {
		return nil, err
	}
	cycles := branching.NewGraph(rules).FindAllCycles()
	if len(cycles) > 0 {
		s.logger.Error("rule graph integrity violation", "surveyId", surveyID, "cycles", len(cycles))
	}
	return cycles, nil
}

func questionIndex(survey *model.Survey) map[int]model.Question {
	idx := make(map[int]model.Question, len(survey.Questions))
	for _, q := range survey.Questions {
		idx[q.ID] = q
	}
	return idx
}
