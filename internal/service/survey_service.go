package service

import (
	"context"
	"errors"
	"fmt"

	"branchbot/internal/cache"
	"branchbot/internal/model"
	"branchbot/internal/repository"
)

var (
	ErrSurveyNotFound  = errors.New("survey not found")
	ErrNotSurveyOwner  = errors.New("survey belongs to another builder")
	ErrQuestionInUse   = errors.New("question is referenced by a branching rule")
	ErrInvalidQuestion = errors.New("invalid question")
)

// SurveyService handles survey CRUD for builders
type SurveyService struct {
	surveyRepo  repository.SurveyRepo
	ruleRepo    repository.RuleRepo
	surveyCache cache.SurveyCache
}

// NewSurveyService creates a new survey service
func NewSurveyService(surveyRepo repository.SurveyRepo, ruleRepo repository.RuleRepo, surveyCache cache.SurveyCache) *SurveyService {
	return &SurveyService{
		surveyRepo:  surveyRepo,
		ruleRepo:    ruleRepo,
		surveyCache: surveyCache,
	}
}

// Create creates a new survey after checking question shape
func (s *SurveyService) Create(ctx context.Context, survey *model.Survey) (string, error) {
	if err := validateQuestions(survey.Questions); err != nil {
		return "", err
	}
	return s.surveyRepo.Create(ctx, survey)
}

// GetByID retrieves a survey owned by the builder
func (s *SurveyService) GetByID(ctx context.Context, builderID, id string) (*model.Survey, error) {
	survey, err := s.surveyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if survey == nil {
		return nil, ErrSurveyNotFound
	}
	if survey.BuilderID != builderID {
		return nil, ErrNotSurveyOwner
	}
	return survey, nil
}

// GetByBuilderID retrieves all surveys for a builder
func (s *SurveyService) GetByBuilderID(ctx context.Context, builderID string) ([]*model.Survey, error) {
	return s.surveyRepo.GetByBuilderID(ctx, builderID)
}

// Update replaces a survey. Questions referenced by an existing branching
// rule cannot be removed; delete the rule first.
func (s *SurveyService) Update(ctx context.Context, builderID string, survey *model.Survey) error {
	existing, err := s.GetByID(ctx, builderID, survey.ID)
	if err != nil {
		return err
	}
	if err := validateQuestions(survey.Questions); err != nil {
		return err
	}

	rules, err := s.ruleRepo.ListBySurvey(ctx, survey.ID)
	if err != nil {
		return err
	}
	for _, r := range rules {
		if survey.QuestionByID(r.SourceID) == nil || survey.QuestionByID(r.TargetID) == nil {
			return fmt.Errorf("%w: rule %d -> %d", ErrQuestionInUse, r.SourceID, r.TargetID)
		}
	}

	survey.BuilderID = existing.BuilderID
	survey.CreatedAt = existing.CreatedAt
	if err := s.surveyRepo.Update(ctx, survey); err != nil {
		return err
	}
	return s.surveyCache.Invalidate(ctx, survey.ID)
}

// Delete removes a survey and its rules
func (s *SurveyService) Delete(ctx context.Context, builderID, id string) error {
	if _, err := s.GetByID(ctx, builderID, id); err != nil {
		return err
	}
	if err := s.ruleRepo.DeleteBySurvey(ctx, id); err != nil {
		return err
	}
	if err := s.surveyRepo.Delete(ctx, id); err != nil {
		return err
	}
	return s.surveyCache.Invalidate(ctx, id)
}

func validateQuestions(questions []model.Question) error {
	seen := make(map[int]bool, len(questions))
	for _, q := range questions {
		if q.ID <= 0 {
			return fmt.Errorf("%w: id %d", ErrInvalidQuestion, q.ID)
		}
		if seen[q.ID] {
			return fmt.Errorf("%w: duplicate id %d", ErrInvalidQuestion, q.ID)
		}
		seen[q.ID] = true
		if !q.Kind.Valid() {
			return fmt.Errorf("%w: question %d has unknown kind %q", ErrInvalidQuestion, q.ID, q.Kind)
		}
	}
	return nil
}
