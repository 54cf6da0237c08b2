package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"branchbot/internal/branching"
	"branchbot/internal/cache"
	"branchbot/internal/model"
	"branchbot/internal/repository"
)

var (
	ErrResponseNotFound = errors.New("response not found")
	ErrBackDisabled     = errors.New("going back is disabled for this survey")
)

// StartResult is returned when a respondent begins a survey
type StartResult struct {
	ResponseID    string          `json:"responseId"`
	Token         string          `json:"token"`
	FirstQuestion *model.Question `json:"firstQuestion"`
}

// AdvanceResult is the outcome of one answer: the next question, or
// completion.
type AdvanceResult struct {
	Complete     bool            `json:"complete"`
	NextQuestion *model.Question `json:"nextQuestion,omitempty"`
}

// NavigationService drives respondents through a survey. Each response's
// state is loaded, run through the pure navigator, and saved; resolver
// warnings are logged and never block progress.
type NavigationService struct {
	surveyRepo   repository.SurveyRepo
	ruleRepo     repository.RuleRepo
	responseRepo repository.ResponseRepo
	stateCache   cache.StateCache
	surveyCache  cache.SurveyCache
	authSvc      *AuthService
	broadcaster  Broadcaster
	logger       *slog.Logger
}

// NewNavigationService creates a new navigation service
func NewNavigationService(
	surveyRepo repository.SurveyRepo,
	ruleRepo repository.RuleRepo,
	responseRepo repository.ResponseRepo,
	stateCache cache.StateCache,
	surveyCache cache.SurveyCache,
	authSvc *AuthService,
	logger *slog.Logger,
) *NavigationService {
	if logger == nil {
		logger = slog.Default()
	}
	return &NavigationService{
		surveyRepo:   surveyRepo,
		ruleRepo:     ruleRepo,
		responseRepo: responseRepo,
		stateCache:   stateCache,
		surveyCache:  surveyCache,
		authSvc:      authSvc,
		logger:       logger,
	}
}

// SetBroadcaster sets the broadcaster for WebSocket events
func (s *NavigationService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// Start creates a response for a survey and returns its first question
// along with a response-scoped token.
func (s *NavigationService) Start(ctx context.Context, surveyID string) (*StartResult, error) {
	snap, err := s.snapshot(ctx, surveyID)
	if err != nil {
		return nil, err
	}

	responseID := "r_" + uuid.New().String()
	state := &model.NavigationState{
		ResponseID: responseID,
		SurveyID:   surveyID,
		Status:     model.ResponseNotStarted,
	}

	nav := branching.NewNavigator(snap, state)
	firstID, err := nav.Start()
	if err != nil {
		return nil, err
	}

	if err := s.stateCache.Set(ctx, responseID, state); err != nil {
		return nil, err
	}

	token, err := s.authSvc.GenerateRespondentToken(surveyID, responseID)
	if err != nil {
		return nil, err
	}

	first := snap.Questions[firstID]
	if s.broadcaster != nil {
		s.broadcaster.BroadcastToMonitor(surveyID, "response_started", map[string]interface{}{
			"responseId": responseID,
		})
	}
	return &StartResult{ResponseID: responseID, Token: token, FirstQuestion: &first}, nil
}

// Advance records an answer and resolves the next question. Malformed
// answers and broken rules surface as logged warnings; the respondent always
// gets a next question or completion.
func (s *NavigationService) Advance(ctx context.Context, responseID string, questionID int, payload model.AnswerPayload) (*AdvanceResult, error) {
	state, err := s.stateCache.Get(ctx, responseID)
	if err != nil {
		return nil, err
	}
	if state == nil {
		return nil, ErrResponseNotFound
	}

	snap, err := s.snapshot(ctx, state.SurveyID)
	if err != nil {
		return nil, err
	}

	nav := branching.NewNavigator(snap, state)
	result, warnings, err := nav.Advance(questionID, payload)
	if err != nil {
		return nil, err
	}
	for _, w := range warnings {
		s.logger.Warn("branch evaluation skipped",
			"responseId", responseID, "questionId", w.QuestionID, "ruleTarget", w.TargetID, "error", w.Err)
	}

	if result.Complete {
		if err := s.archive(ctx, state); err != nil {
			return nil, err
		}
	}
	if err := s.stateCache.Set(ctx, responseID, state); err != nil {
		return nil, err
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastToMonitor(state.SurveyID, "respondent_advanced", map[string]interface{}{
			"responseId": responseID,
			"questionId": questionID,
			"complete":   result.Complete,
		})
		if result.Complete {
			s.broadcaster.BroadcastToMonitor(state.SurveyID, "response_completed", map[string]interface{}{
				"responseId": responseID,
			})
		}
	}

	if result.Complete {
		return &AdvanceResult{Complete: true}, nil
	}
	next := snap.Questions[result.NextQuestionID]
	return &AdvanceResult{NextQuestion: &next}, nil
}

// Back returns the respondent to the previously answered question.
func (s *NavigationService) Back(ctx context.Context, responseID string) (*model.Question, error) {
	state, err := s.stateCache.Get(ctx, responseID)
	if err != nil {
		return nil, err
	}
	if state == nil {
		return nil, ErrResponseNotFound
	}

	snap, err := s.snapshot(ctx, state.SurveyID)
	if err != nil {
		return nil, err
	}
	if snap.Settings.DisableBack {
		return nil, ErrBackDisabled
	}

	nav := branching.NewNavigator(snap, state)
	prevID, err := nav.Back()
	if err != nil {
		return nil, err
	}
	if err := s.stateCache.Set(ctx, responseID, state); err != nil {
		return nil, err
	}

	prev := snap.Questions[prevID]
	return &prev, nil
}

// GetState returns the live navigation state for a response.
func (s *NavigationService) GetState(ctx context.Context, responseID string) (*model.NavigationState, error) {
	state, err := s.stateCache.Get(ctx, responseID)
	if err != nil {
		return nil, err
	}
	if state == nil {
		return nil, ErrResponseNotFound
	}
	return state, nil
}

// CurrentQuestion returns the question the response is positioned at.
func (s *NavigationService) CurrentQuestion(ctx context.Context, responseID string) (*model.Question, error) {
	state, err := s.GetState(ctx, responseID)
	if err != nil {
		return nil, err
	}
	if state.Status == model.ResponseCompleted {
		return nil, nil
	}
	snap, err := s.snapshot(ctx, state.SurveyID)
	if err != nil {
		return nil, err
	}
	q := snap.Questions[state.CurrentID]
	return &q, nil
}

func (s *NavigationService) archive(ctx context.Context, state *model.NavigationState) error {
	// History can revisit a question after /back; archive each answer once.
	answers := make([]model.AnswerRecord, 0, len(state.Answers))
	seen := make(map[int]bool, len(state.History))
	for _, id := range state.History {
		if seen[id] {
			continue
		}
		seen[id] = true
		if a, ok := state.Answers[id]; ok {
			answers = append(answers, model.AnswerRecord{QuestionID: id, Answer: a})
		}
	}
	return s.responseRepo.Create(ctx, &model.Response{
		ID:          state.ResponseID,
		SurveyID:    state.SurveyID,
		Answers:     answers,
		Visited:     state.History,
		Skipped:     state.Skipped,
		StartedAt:   state.StartedAt,
		CompletedAt: time.Now(),
	})
}

// snapshot loads the survey's evaluation view, from cache when warm.
func (s *NavigationService) snapshot(ctx context.Context, surveyID string) (*model.SurveySnapshot, error) {
	snap, err := s.surveyCache.GetSnapshot(ctx, surveyID)
	if err != nil {
		s.logger.Warn("snapshot cache read failed", "surveyId", surveyID, "error", err)
	}
	if snap != nil {
		return snap, nil
	}

	survey, err := s.surveyRepo.GetByID(ctx, surveyID)
	if err != nil {
		return nil, err
	}
	if survey == nil {
		return nil, ErrSurveyNotFound
	}
	rules, err := s.ruleRepo.ListBySurvey(ctx, surveyID)
	if err != nil {
		return nil, err
	}

	snap = &model.SurveySnapshot{
		SurveyID:  surveyID,
		Order:     survey.Order(),
		Questions: questionIndex(survey),
		Rules:     rules,
		Settings:  survey.Settings,
	}
	if err := s.surveyCache.SetSnapshot(ctx, surveyID, snap); err != nil {
		s.logger.Warn("snapshot cache write failed", "surveyId", surveyID, "error", err)
	}
	return snap, nil
}
